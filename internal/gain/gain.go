// Package gain applies linear gain to sample blocks, delegating to
// SIMD-accelerated kernels via github.com/tphakala/simd.
package gain

import "github.com/tphakala/simd/f64"

// Apply writes src scaled by s into dst. Both slices must have equal
// length. Unity gain degrades to a copy.
func Apply(dst, src []float64, s float64) {
	if s == 1 {
		copy(dst, src)
		return
	}
	f64.Scale(dst, src, s)
}

// ApplyInPlace scales buf by s. Unity gain leaves the buffer untouched.
func ApplyInPlace(buf []float64, s float64) {
	if s == 1 || len(buf) == 0 {
		return
	}
	f64.Scale(buf, buf, s)
}
