// Package plugin describes a plugin's identity as the host sees it.
package plugin

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrInvalidInfo is returned by Validate for incomplete metadata.
var ErrInvalidInfo = errors.New("plugin: invalid info")

// Category is the plugin category reported to the host.
type Category int32

// Categories understood by hosts.
const (
	CategoryUnknown Category = iota
	CategoryEffect
	CategorySynth
	CategoryAnalysis
	CategoryMastering
	CategorySpacializer
	CategoryRoomFx
	CategorySurroundFx
	CategoryRestoration
	CategoryOfflineProcess
	CategoryShell
	CategoryGenerator
)

func (c Category) String() string {
	switch c {
	case CategoryEffect:
		return "Fx"
	case CategorySynth:
		return "Instrument"
	case CategoryAnalysis:
		return "Analyzer"
	case CategoryMastering:
		return "Mastering"
	case CategoryGenerator:
		return "Generator"
	default:
		return fmt.Sprintf("Category(%d)", int32(c))
	}
}

// Info contains plugin metadata. Every field is set explicitly by the
// plugin; there are no implicit defaults.
type Info struct {
	ID             string // Unique plugin identifier (e.g., "com.example.myplugin")
	Name           string // Display name
	Vendor         string // Company/developer name
	UniqueID       int32  // Host-facing numeric id
	Version        int32
	InputChannels  int
	OutputChannels int
	ParameterCount int
	Category       Category
}

// UID returns UniqueID as the four bytes hosts use for identification.
func (i Info) UID() [4]byte {
	var uid [4]byte
	binary.BigEndian.PutUint32(uid[:], uint32(i.UniqueID))
	return uid
}

// Validate reports the first missing or inconsistent field.
func (i Info) Validate() error {
	switch {
	case i.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidInfo)
	case i.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidInfo)
	case i.Vendor == "":
		return fmt.Errorf("%w: empty vendor", ErrInvalidInfo)
	case i.UniqueID == 0:
		return fmt.Errorf("%w: zero unique id", ErrInvalidInfo)
	case i.Version <= 0:
		return fmt.Errorf("%w: version %d", ErrInvalidInfo, i.Version)
	case i.InputChannels < 0 || i.OutputChannels <= 0:
		return fmt.Errorf("%w: channels %d/%d", ErrInvalidInfo, i.InputChannels, i.OutputChannels)
	case i.ParameterCount < 0:
		return fmt.Errorf("%w: parameter count %d", ErrInvalidInfo, i.ParameterCount)
	case i.Category == CategoryUnknown:
		return fmt.Errorf("%w: unknown category", ErrInvalidInfo)
	}
	return nil
}
