package ui

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/ampfx/pkg/framework/editor"
	"github.com/justyntemme/ampfx/pkg/framework/param"
)

func newAmplitude() *param.Parameter {
	return param.New(0, "Amplitude").Range(0, 1).Default(0.5).Unit("x").Build()
}

func TestBindingLayout(t *testing.T) {
	b := NewBinding(newAmplitude(), 300, 300)
	assert.Equal(t, image.Rect(30, 140, 270, 160), b.Track())
}

func TestBindingDrag(t *testing.T) {
	p := newAmplitude()
	b := NewBinding(p, 300, 300)
	mid := b.Track().Min.Y + b.Track().Dy()/2

	tests := []struct {
		name  string
		event editor.Event
		want  float64
	}{
		{"PressAtQuarter", editor.Event{Kind: editor.EventPress, X: 90, Y: mid}, 0.25},
		{"DragToMiddle", editor.Event{Kind: editor.EventDrag, X: 150, Y: mid}, 0.5},
		{"DragPastEnd", editor.Event{Kind: editor.EventDrag, X: 400, Y: 0}, 1},
		{"DragPastStart", editor.Event{Kind: editor.EventDrag, X: -20, Y: mid}, 0},
		{"Release", editor.Event{Kind: editor.EventRelease}, 0},
		{"DragAfterRelease", editor.Event{Kind: editor.EventDrag, X: 270, Y: mid}, 0},
	}

	for _, tt := range tests {
		b.HandleEvent(tt.event)
		assert.InDelta(t, tt.want, p.Value(), 1e-9, tt.name)
	}
	assert.False(t, b.Dragging())
}

func TestBindingPressOutsideTrack(t *testing.T) {
	p := newAmplitude()
	b := NewBinding(p, 300, 300)

	b.HandleEvent(editor.Event{Kind: editor.EventPress, X: 150, Y: 10})
	assert.False(t, b.Dragging())
	b.HandleEvent(editor.Event{Kind: editor.EventDrag, X: 270, Y: 150})
	assert.Equal(t, 0.5, p.Value())
}

func TestBindingScrollAndReset(t *testing.T) {
	p := newAmplitude()
	b := NewBinding(p, 300, 300)

	b.HandleEvent(editor.Event{Kind: editor.EventScroll, Delta: 10})
	assert.InDelta(t, 0.6, p.Value(), 1e-9)

	b.HandleEvent(editor.Event{Kind: editor.EventScroll, Delta: 1000})
	assert.Equal(t, 1.0, p.Value())

	b.HandleEvent(editor.Event{Kind: editor.EventDoubleClick})
	assert.Equal(t, 0.5, p.Value())
}

func TestBindingDrawFollowsParameter(t *testing.T) {
	p := newAmplitude()
	b := NewBinding(p, 300, 300)
	dst := image.NewRGBA(image.Rect(0, 0, 300, 300))

	probe := image.Pt(b.Track().Max.X-20, b.Track().Min.Y+b.Track().Dy()/2)

	// Host automation writes the cell; the next frame shows it.
	require.NoError(t, p.SetValue(1))
	b.Update()
	b.Draw(dst)
	assert.Equal(t, fillColor.C, dst.At(probe.X, probe.Y))

	require.NoError(t, p.SetValue(0))
	b.Update()
	b.Draw(dst)
	assert.Equal(t, trackColor.C, dst.At(probe.X, probe.Y))

	// Corner stays background.
	assert.Equal(t, background.C, dst.At(1, 1))
}

func TestBindingDrawOutOfRangeValue(t *testing.T) {
	p := newAmplitude()
	b := NewBinding(p, 300, 300)
	dst := image.NewRGBA(image.Rect(0, 0, 300, 300))

	require.NoError(t, p.SetValue(-4))
	b.Update()
	assert.NotPanics(t, func() { b.Draw(dst) })

	require.NoError(t, p.SetValue(12))
	b.Update()
	assert.NotPanics(t, func() { b.Draw(dst) })
}
