package param

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

var (
	// ErrNonFinite is returned when a NaN or infinite value is written to a parameter.
	ErrNonFinite = errors.New("param: value is not finite")
	// ErrOutOfRange is returned for finite values the audio path's float32
	// samples cannot represent.
	ErrOutOfRange = errors.New("param: value exceeds float32 range")
)

// Parameter represents a plugin parameter
type Parameter struct {
	ID           uint32
	Name         string
	ShortName    string
	Unit         string
	Min          float64
	Max          float64
	DefaultValue float64 // plain value
	Flags        uint32

	// Single atomic cell holding the float64 bits of the plain value.
	// The audio thread reads it without locking.
	value atomic.Uint64

	formatFunc func(float64) string
	parseFunc  func(string) (float64, error)
}

// Flags for parameters
const (
	CanAutomate uint32 = 1 << 0
	IsReadOnly  uint32 = 1 << 1
)

// Value returns the current plain value.
func (p *Parameter) Value() float64 {
	return math.Float64frombits(p.value.Load())
}

// CheckValue reports whether value may be stored in a parameter. It must
// be finite and within ±math.MaxFloat32, so narrowing it to a sample gain
// never produces an infinity.
func CheckValue(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ErrNonFinite
	}
	if math.Abs(value) > math.MaxFloat32 {
		return ErrOutOfRange
	}
	return nil
}

// SetValue stores a plain value as-is. Values rejected by CheckValue leave
// the previous value in place.
func (p *Parameter) SetValue(value float64) error {
	if err := CheckValue(value); err != nil {
		return err
	}
	p.value.Store(math.Float64bits(value))
	return nil
}

// Reset restores the default value.
func (p *Parameter) Reset() {
	p.value.Store(math.Float64bits(p.DefaultValue))
}

// Normalized returns the current value mapped into the host-facing range.
func (p *Parameter) Normalized() float64 {
	return p.Normalize(p.Value())
}

// SetNormalized converts a host-facing value and stores it.
func (p *Parameter) SetNormalized(normalized float64) error {
	return p.SetValue(p.Denormalize(normalized))
}

// Normalize maps a plain value linearly onto [Min, Max] -> [0, 1].
// Values outside the range are not clamped.
func (p *Parameter) Normalize(plain float64) float64 {
	if p.Max <= p.Min {
		return 0
	}
	return (plain - p.Min) / (p.Max - p.Min)
}

// Denormalize is the inverse of Normalize.
func (p *Parameter) Denormalize(normalized float64) float64 {
	return p.Min + normalized*(p.Max-p.Min)
}

// Display returns the formatted current value.
func (p *Parameter) Display() string {
	return p.FormatValue(p.Value())
}

// FormatValue returns a formatted plain value
func (p *Parameter) FormatValue(plain float64) string {
	if p.formatFunc != nil {
		return p.formatFunc(plain)
	}
	return fmt.Sprintf("%.2f", plain)
}

// ParseValue parses a display string into a plain value
func (p *Parameter) ParseValue(str string) (float64, error) {
	if p.parseFunc != nil {
		return p.parseFunc(str)
	}
	return strconv.ParseFloat(str, 64)
}
