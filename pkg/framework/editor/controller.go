// Package editor manages the lifecycle of a plugin's embedded editor window.
//
// A Controller is either closed or open. Open creates exactly one window
// parented into the host's native container; further Open calls while open
// are refused. Close, whether the host asks for it or the window is destroyed
// from the UI side, releases the window exactly once.
package editor

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidParent is reported when Open gets a null parent handle.
	ErrInvalidParent = errors.New("editor: invalid parent handle")
	// ErrAlreadyOpen is reported when Open is called on an open editor.
	ErrAlreadyOpen = errors.New("editor: already open")
)

// DefaultRect is where editors are placed in the host's container.
var DefaultRect = Rect{X: 0, Y: 0, Width: 300, Height: 300}

// Controller owns one optional editor window.
type Controller struct {
	backend Windowing
	desc    WindowDescription
	build   func() View
	log     logrus.FieldLogger

	// mu serializes Open, Close and UI-side close notifications.
	mu         sync.Mutex
	window     Window
	generation uint64
	session    xid.ID
	lastErr    error

	open atomic.Bool
}

// NewController creates a closed editor. build is called on the window's UI
// loop to create its content each time the editor opens.
func NewController(backend Windowing, desc WindowDescription, build func() View, log logrus.FieldLogger) *Controller {
	if desc.Rect == (Rect{}) {
		desc.Rect = DefaultRect
	}
	return &Controller{
		backend: backend,
		desc:    desc,
		build:   build,
		log:     log,
	}
}

// Position returns the editor's offset inside the parent.
func (c *Controller) Position() (x, y int) {
	return c.desc.Rect.X, c.desc.Rect.Y
}

// Size returns the editor's fixed size.
func (c *Controller) Size() (width, height int) {
	return c.desc.Rect.Width, c.desc.Rect.Height
}

// IsOpen reports whether a window is live. It has no side effects and may
// be called from any thread.
func (c *Controller) IsOpen() bool {
	return c.open.Load()
}

// LastError returns why the most recent Open call failed, or nil.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Session returns the id of the current or most recent window.
func (c *Controller) Session() xid.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Open creates the window inside parent. It returns false without opening
// anything if the editor is already open, the parent is null or the
// backend fails; the reason is available from LastError.
func (c *Controller) Open(parent Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.window != nil {
		c.lastErr = ErrAlreadyOpen
		c.log.WithField("session", c.session).Debug("editor already open")
		return false
	}
	if parent == 0 {
		c.lastErr = ErrInvalidParent
		c.log.Warn("editor open with null parent")
		return false
	}

	c.generation++
	generation := c.generation
	w, err := c.backend.OpenParented(parent, c.desc, c.build, func() {
		c.closedByWindow(generation)
	})
	if err != nil {
		c.lastErr = err
		c.log.WithError(err).WithField("parent", parent).Error("editor open failed")
		return false
	}

	c.window = w
	c.session = xid.New()
	c.lastErr = nil
	c.open.Store(true)
	c.log.WithFields(logrus.Fields{
		"session": c.session,
		"parent":  parent,
	}).Info("editor opened")
	return true
}

// Post forwards a pointer event to the open window's UI loop. It reports
// false if the editor is closed or the window's queue is full.
func (c *Controller) Post(ev Event) bool {
	c.mu.Lock()
	w := c.window
	c.mu.Unlock()
	if w == nil {
		return false
	}
	return w.Post(ev)
}

// Close destroys the window. Closing a closed editor does nothing.
func (c *Controller) Close() {
	c.mu.Lock()
	w := c.release()
	session := c.session
	c.mu.Unlock()

	if w == nil {
		return
	}
	// Outside the lock: the window's UI loop may be blocked on mu in
	// closedByWindow, and Close waits for that loop to finish.
	w.Close()
	c.log.WithField("session", session).Info("editor closed")
}

// closedByWindow handles a window destroyed from the UI side. Notifications
// from a window this controller has already released are ignored.
func (c *Controller) closedByWindow(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation || c.window == nil {
		return
	}
	c.release()
	c.log.WithField("session", c.session).Info("editor closed by window")
}

// release clears the open state and hands back the window, if any.
// c.mu must be held.
func (c *Controller) release() Window {
	w := c.window
	if w == nil {
		return nil
	}
	c.window = nil
	c.open.Store(false)
	return w
}
