// Package ui implements the editor's view of a single parameter: a
// horizontal slider with a readout. It runs on the editor window's UI loop
// and talks to the audio side only through the parameter's atomic cell.
package ui

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/justyntemme/ampfx/pkg/dsp/gain"
	"github.com/justyntemme/ampfx/pkg/framework/editor"
	"github.com/justyntemme/ampfx/pkg/framework/param"
)

// ScrollStep is the normalized change per scroll unit.
const ScrollStep = 0.01

// grab is how far above and below the track a press still hits it.
const grab = 12

var (
	background = image.NewUniform(color.RGBA{0x1e, 0x1e, 0x24, 0xff})
	trackColor = image.NewUniform(color.RGBA{0x3a, 0x3a, 0x44, 0xff})
	fillColor  = image.NewUniform(color.RGBA{0x4f, 0xa3, 0xe0, 0xff})
	knobColor  = image.NewUniform(color.RGBA{0xf0, 0xf0, 0xf0, 0xff})
	textColor  = image.NewUniform(color.RGBA{0xdc, 0xdc, 0xdc, 0xff})
)

// Binding connects a slider to a parameter it does not own.
type Binding struct {
	param *param.Parameter
	title string
	track image.Rectangle

	dragging bool
	// shown is the value drawn on the last frame.
	shown float64
}

var _ editor.View = (*Binding)(nil)

// NewBinding lays the slider out for a window of the given size.
func NewBinding(p *param.Parameter, width, height int) *Binding {
	margin := width / 10
	mid := height / 2
	return &Binding{
		param: p,
		title: p.Name,
		track: image.Rect(margin, mid-10, width-margin, mid+10),
		shown: p.Value(),
	}
}

// Track returns the slider's hit area.
func (b *Binding) Track() image.Rectangle {
	return b.track
}

// Dragging reports whether a drag gesture is in progress.
func (b *Binding) Dragging() bool {
	return b.dragging
}

// Update samples the parameter for the next frame. The value may have been
// changed by host automation since the last frame.
func (b *Binding) Update() {
	b.shown = b.param.Value()
}

// HandleEvent turns a gesture into an immediate parameter write.
func (b *Binding) HandleEvent(ev editor.Event) {
	switch ev.Kind {
	case editor.EventPress:
		hit := b.track.Inset(-grab)
		if image.Pt(ev.X, ev.Y).In(hit) {
			b.dragging = true
			b.setFromX(ev.X)
		}
	case editor.EventDrag:
		if b.dragging {
			b.setFromX(ev.X)
		}
	case editor.EventRelease:
		b.dragging = false
	case editor.EventScroll:
		b.setNormalized(b.param.Normalized() + ev.Delta*ScrollStep)
	case editor.EventDoubleClick:
		b.param.Reset()
		b.shown = b.param.Value()
	}
}

func (b *Binding) setFromX(x int) {
	width := b.track.Dx()
	if width <= 0 {
		return
	}
	b.setNormalized(float64(x-b.track.Min.X) / float64(width))
}

func (b *Binding) setNormalized(n float64) {
	n = clamp01(n)
	if err := b.param.SetNormalized(n); err != nil {
		return
	}
	b.shown = b.param.Value()
}

// Draw renders the slider and readout.
func (b *Binding) Draw(dst draw.Image) {
	bounds := dst.Bounds()
	draw.Draw(dst, bounds, background, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	b.drawCentered(dst, face, b.title, b.track.Min.Y-30)

	draw.Draw(dst, b.track, trackColor, image.Point{}, draw.Src)

	n := clamp01(b.param.Normalize(b.shown))
	fillEnd := b.track.Min.X + int(n*float64(b.track.Dx()))
	draw.Draw(dst, image.Rect(b.track.Min.X, b.track.Min.Y, fillEnd, b.track.Max.Y), fillColor, image.Point{}, draw.Src)

	knob := image.Rect(fillEnd-3, b.track.Min.Y-4, fillEnd+3, b.track.Max.Y+4)
	draw.Draw(dst, knob.Intersect(bounds), knobColor, image.Point{}, draw.Src)

	readout := b.param.FormatValue(b.shown)
	if b.param.Unit != "" {
		readout += " " + b.param.Unit
	}
	b.drawCentered(dst, face, readout, b.track.Max.Y+30)
	b.drawCentered(dst, face, param.DecibelFormatter(gain.LinearToDb(b.shown)), b.track.Max.Y+48)
}

func (b *Binding) drawCentered(dst draw.Image, face font.Face, s string, baseline int) {
	width := font.MeasureString(face, s).Ceil()
	center := b.track.Min.X + b.track.Dx()/2
	d := font.Drawer{
		Dst:  dst,
		Src:  textColor,
		Face: face,
		Dot:  fixed.P(center-width/2, baseline),
	}
	d.DrawString(s)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
