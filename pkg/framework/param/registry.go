package param

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfBounds is returned for a parameter index the store does not hold.
var ErrIndexOutOfBounds = errors.New("param: index out of bounds")

// Store holds the plugin's automatable parameters in index order.
// The set of parameters is fixed at construction, so lookups take no lock
// and every value access goes straight to the parameter's atomic cell.
type Store struct {
	params []*Parameter
}

// NewStore creates a store. Parameters are addressed by their position,
// which stays stable for the lifetime of the store.
func NewStore(params ...*Parameter) *Store {
	s := &Store{params: make([]*Parameter, len(params))}
	copy(s.params, params)
	return s
}

// Param retrieves a parameter by index
func (s *Store) Param(index int) (*Parameter, error) {
	if index < 0 || index >= len(s.params) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfBounds, index)
	}
	return s.params[index], nil
}

// Get returns the plain value at index.
func (s *Store) Get(index int) (float64, error) {
	p, err := s.Param(index)
	if err != nil {
		return 0, err
	}
	return p.Value(), nil
}

// Set stores a plain value at index.
func (s *Store) Set(index int, value float64) error {
	p, err := s.Param(index)
	if err != nil {
		return err
	}
	if err := p.SetValue(value); err != nil {
		return fmt.Errorf("parameter %d: %w", index, err)
	}
	return nil
}

// Count returns the number of parameters
func (s *Store) Count() int {
	return len(s.params)
}

// All returns all parameters in order
func (s *Store) All() []*Parameter {
	result := make([]*Parameter, len(s.params))
	copy(result, s.params)
	return result
}

// ByID retrieves a parameter by its ID, or nil.
func (s *Store) ByID(id uint32) *Parameter {
	for _, p := range s.params {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Reset restores every parameter to its default.
func (s *Store) Reset() {
	for _, p := range s.params {
		p.Reset()
	}
}
