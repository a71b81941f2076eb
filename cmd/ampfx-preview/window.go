package main

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/justyntemme/ampfx/pkg/framework/editor"
	"github.com/justyntemme/ampfx/pkg/framework/param"
	vstplugin "github.com/justyntemme/ampfx/pkg/plugin"
	"github.com/justyntemme/ampfx/pkg/ui"
)

const doubleClickInterval = 400 * time.Millisecond

// window runs the editor view on ebiten's game loop. Ebiten calls Update
// and Draw from a single goroutine, which is the view's UI thread.
type window struct {
	view    *ui.Binding
	adapter *vstplugin.Adapter
	rect    editor.Rect

	frame  *image.RGBA
	canvas *ebiten.Image

	lastPress  time.Time
	lastCursor image.Point
}

func newWindow(p *param.Parameter, adapter *vstplugin.Adapter, rect editor.Rect) *window {
	return &window{
		view:    ui.NewBinding(p, rect.Width, rect.Height),
		adapter: adapter,
		rect:    rect,
		frame:   image.NewRGBA(image.Rect(0, 0, rect.Width, rect.Height)),
	}
}

func (w *window) Update() error {
	if ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	w.adapter.Idle()

	for _, ev := range w.pointerEvents() {
		w.view.HandleEvent(ev)
	}
	w.view.Update()
	return nil
}

func (w *window) pointerEvents() []editor.Event {
	var events []editor.Event
	x, y := ebiten.CursorPosition()
	cursor := image.Pt(x, y)

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		now := time.Now()
		if now.Sub(w.lastPress) < doubleClickInterval {
			events = append(events, editor.Event{Kind: editor.EventDoubleClick, X: x, Y: y})
			w.lastPress = time.Time{}
		} else {
			events = append(events, editor.Event{Kind: editor.EventPress, X: x, Y: y})
			w.lastPress = now
		}
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		events = append(events, editor.Event{Kind: editor.EventRelease, X: x, Y: y})
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && cursor != w.lastCursor:
		events = append(events, editor.Event{Kind: editor.EventDrag, X: x, Y: y})
	}
	w.lastCursor = cursor

	if _, dy := ebiten.Wheel(); dy != 0 {
		events = append(events, editor.Event{Kind: editor.EventScroll, X: x, Y: y, Delta: dy})
	}
	return events
}

func (w *window) Draw(screen *ebiten.Image) {
	if w.canvas == nil {
		w.canvas = ebiten.NewImage(w.rect.Width, w.rect.Height)
	}
	w.view.Draw(w.frame)
	w.canvas.WritePixels(w.frame.Pix)
	screen.DrawImage(w.canvas, nil)
}

func (w *window) Layout(_, _ int) (int, int) {
	return w.rect.Width, w.rect.Height
}
