package editor

import (
	"image/draw"
)

// Handle is the host's native parent window, kept only as an opaque value
// to pass on to the windowing backend. It is never dereferenced.
type Handle uintptr

// Rect is an editor's placement relative to its parent.
type Rect struct {
	X, Y          int
	Width, Height int
}

// WindowDescription configures the window a backend creates.
type WindowDescription struct {
	Title string
	Rect  Rect
}

// EventKind identifies a user gesture delivered to a View.
type EventKind int

// Event kinds.
const (
	EventPress EventKind = iota
	EventDrag
	EventRelease
	EventScroll
	EventDoubleClick
	// EventDestroy closes the window from the UI side, as when the user
	// destroys it. The backend reports it through the onClosed callback.
	EventDestroy
)

// Event is a pointer gesture in window coordinates.
type Event struct {
	Kind  EventKind
	X, Y  int
	Delta float64
}

// View is the content of an editor window. All methods run on the window's
// own UI loop, one at a time.
type View interface {
	Update()
	Draw(dst draw.Image)
	HandleEvent(ev Event)
}

// Window is a live native window owned by exactly one Controller.
type Window interface {
	// Post queues an event for the UI loop without blocking. It reports
	// false when the window is closed or its queue is full.
	Post(ev Event) bool
	// Close destroys the window and waits for its UI loop to stop.
	// It is safe to call more than once.
	Close()
}

// Windowing creates parented windows. onClosed is called from the UI loop
// when the window is destroyed from the UI side; it is not called for Close.
type Windowing interface {
	OpenParented(parent Handle, desc WindowDescription, build func() View, onClosed func()) (Window, error)
}
