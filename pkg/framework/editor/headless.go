package editor

import (
	"image"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFrameInterval paces the headless UI loop at roughly 60 frames per second.
const DefaultFrameInterval = 16 * time.Millisecond

const eventQueueSize = 64

// Headless is a Windowing backend that runs each window's cooperative UI
// loop on its own goroutine and renders into an offscreen image. It stands
// in for a native toolkit where there is none, and in tests.
type Headless struct {
	FrameInterval time.Duration

	live atomic.Int32
}

// NewHeadless creates a backend with the default frame interval.
func NewHeadless() *Headless {
	return &Headless{FrameInterval: DefaultFrameInterval}
}

// Live returns the number of windows whose UI loop is still running.
func (h *Headless) Live() int {
	return int(h.live.Load())
}

// OpenParented starts a window's UI loop.
func (h *Headless) OpenParented(parent Handle, desc WindowDescription, build func() View, onClosed func()) (Window, error) {
	if parent == 0 {
		return nil, ErrInvalidParent
	}

	interval := h.FrameInterval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}

	w := &HeadlessWindow{
		parent: parent,
		desc:   desc,
		events: make(chan Event, eventQueueSize),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		frame:  image.NewRGBA(image.Rect(0, 0, desc.Rect.Width, desc.Rect.Height)),
	}

	h.live.Add(1)
	go w.run(build, onClosed, interval, func() { h.live.Add(-1) })
	return w, nil
}

// HeadlessWindow is a window created by Headless.
type HeadlessWindow struct {
	parent Handle
	desc   WindowDescription

	events    chan Event
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// frame is only touched by the UI loop.
	frame  *image.RGBA
	frames atomic.Uint64
}

func (w *HeadlessWindow) run(build func() View, onClosed func(), interval time.Duration, exited func()) {
	defer close(w.done)
	defer exited()

	view := build()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.render(view)
	for {
		select {
		case <-w.quit:
			return
		case ev := <-w.events:
			if ev.Kind == EventDestroy {
				w.stop()
				if onClosed != nil {
					onClosed()
				}
				return
			}
			view.HandleEvent(ev)
		case <-ticker.C:
			w.render(view)
		}
	}
}

func (w *HeadlessWindow) render(view View) {
	view.Update()
	view.Draw(w.frame)
	w.frames.Add(1)
}

func (w *HeadlessWindow) stop() {
	w.closeOnce.Do(func() { close(w.quit) })
}

// Parent returns the handle the window was parented to.
func (w *HeadlessWindow) Parent() Handle {
	return w.parent
}

// Description returns the window's description.
func (w *HeadlessWindow) Description() WindowDescription {
	return w.desc
}

// Frames returns how many frames the UI loop has drawn.
func (w *HeadlessWindow) Frames() uint64 {
	return w.frames.Load()
}

// Post implements Window.
func (w *HeadlessWindow) Post(ev Event) bool {
	select {
	case <-w.quit:
		return false
	default:
	}
	select {
	case w.events <- ev:
		return true
	default:
		return false
	}
}

// Close implements Window.
func (w *HeadlessWindow) Close() {
	w.stop()
	<-w.done
}

// Done is closed once the UI loop has stopped.
func (w *HeadlessWindow) Done() <-chan struct{} {
	return w.done
}
