package param

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Common parameter formatters and parsers

// MultiplierFormatter formats a linear gain factor.
func MultiplierFormatter(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

// MultiplierParser parses "0.50", "0.5x" or "x0.5".
func MultiplierParser(str string) (float64, error) {
	str = strings.TrimSpace(str)
	str = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(str, "x"), "x"))
	return strconv.ParseFloat(str, 64)
}

// DecibelFormatter formats dB values
func DecibelFormatter(db float64) string {
	if db <= -60 || math.IsInf(db, -1) {
		return "-∞ dB"
	}
	return fmt.Sprintf("%.1f dB", db)
}
