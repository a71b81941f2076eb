// Package plugin adapts a plugin to the calls a host makes: metadata,
// parameter access by index, block processing and editor creation.
package plugin

import (
	"github.com/justyntemme/ampfx/pkg/framework/editor"
	"github.com/justyntemme/ampfx/pkg/framework/param"
	"github.com/justyntemme/ampfx/pkg/framework/plugin"
	"github.com/justyntemme/ampfx/pkg/framework/process"
)

// Plugin is the main interface that users implement
type Plugin interface {
	// Info returns plugin metadata
	Info() plugin.Info

	// Parameters returns the store shared by the processor and editors
	Parameters() *param.Store

	// Processor returns the audio processor
	Processor() Processor

	// NewEditor creates a closed editor, or returns nil if the plugin has none
	NewEditor() Editor
}

// Processor handles the actual audio processing
type Processor interface {
	// Initialize is called before processing starts
	Initialize(sampleRate float64, maxBlockSize int) error

	// ProcessAudio processes one block. It runs on the host's real-time
	// thread and must not allocate, lock, log or block.
	ProcessAudio(ctx *process.Context)
}

// Editor is the host-facing surface of an editor window.
type Editor interface {
	Position() (x, y int)
	Size() (width, height int)
	// Open embeds the editor in parent; false means nothing was opened.
	Open(parent editor.Handle) bool
	IsOpen() bool
	// Close is a no-op on a closed editor.
	Close()
}
