// Package gain scales audio by a linear factor.
package gain

import "math"

// FloorDB is what LinearToDb reports for silence.
const FloorDB = -200.0

// LinearToDb converts a linear factor to decibels. Zero and negative
// factors map to FloorDB.
func LinearToDb(linear float64) float64 {
	if linear <= 0 {
		return FloorDB
	}
	return 20 * math.Log10(linear)
}

// Scale writes src[i]*factor into dst over the length the two share.
func Scale(dst, src []float32, factor float32) {
	n := min(len(dst), len(src))
	for i, s := range src[:n] {
		dst[i] = s * factor
	}
}
