// Package state saves and restores parameter values as host state chunks.
package state

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/justyntemme/ampfx/pkg/framework/param"
)

const magic = "AMPFX"

// Version is the chunk format version written by Save.
const Version uint32 = 1

// ErrInvalidFormat is returned for chunks that are not ours or are damaged.
var ErrInvalidFormat = errors.New("state: invalid format")

// Manager handles plugin state saving and loading
type Manager struct {
	version uint32
	store   *param.Store
}

// NewManager creates a new state manager
func NewManager(store *param.Store) *Manager {
	return &Manager{
		version: Version,
		store:   store,
	}
}

// Save writes the plugin state to a writer
func (m *Manager) Save(w io.Writer) error {
	if _, err := w.Write([]byte(magic)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, m.version); err != nil {
		return err
	}

	params := m.store.All()
	if err := binary.Write(w, binary.LittleEndian, int32(len(params))); err != nil {
		return err
	}
	for _, p := range params {
		if err := binary.Write(w, binary.LittleEndian, p.ID); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, p.Value()); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the plugin state from a reader. The whole chunk is decoded
// before any parameter is touched, so a damaged chunk changes nothing.
// Values for unknown parameter IDs are ignored.
func (m *Manager) Load(r io.Reader) error {
	header := make([]byte, len(magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if string(header) != magic {
		return fmt.Errorf("%w: bad header %q", ErrInvalidFormat, header)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if version > m.version {
		return fmt.Errorf("state version %d is newer than supported version %d", version, m.version)
	}

	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if count < 0 {
		return fmt.Errorf("%w: parameter count %d", ErrInvalidFormat, count)
	}

	type entry struct {
		ID    uint32
		Value float64
	}
	entries := make([]entry, 0, min(int(count), 64))
	for i := int32(0); i < count; i++ {
		var e entry
		if err := binary.Read(r, binary.LittleEndian, &e); err != nil {
			return fmt.Errorf("%w: parameter %d: %v", ErrInvalidFormat, i, err)
		}
		if err := param.CheckValue(e.Value); err != nil {
			return fmt.Errorf("%w: parameter %d: %w", ErrInvalidFormat, e.ID, err)
		}
		entries = append(entries, e)
	}

	for _, e := range entries {
		if p := m.store.ByID(e.ID); p != nil {
			_ = p.SetValue(e.Value)
		}
	}
	return nil
}

// Bytes returns the saved state as a chunk.
func (m *Manager) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SetBytes restores state from a chunk.
func (m *Manager) SetBytes(chunk []byte) error {
	return m.Load(bytes.NewReader(chunk))
}
