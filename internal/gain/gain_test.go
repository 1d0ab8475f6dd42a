package gain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	src := []float64{1, -0.5, 0.25, 0}
	dst := make([]float64, len(src))

	Apply(dst, src, 0.5)
	assert.InDeltaSlice(t, []float64{0.5, -0.25, 0.125, 0}, dst, 1e-15)
}

func TestApply_UnityCopies(t *testing.T) {
	src := []float64{0.1, 0.2, 0.3}
	dst := make([]float64, len(src))

	Apply(dst, src, 1)
	assert.Equal(t, src, dst)
}

func TestApplyInPlace(t *testing.T) {
	buf := []float64{2, -4, 8}

	ApplyInPlace(buf, 0.25)
	assert.InDeltaSlice(t, []float64{0.5, -1, 2}, buf, 1e-15)
}

func TestApplyInPlace_UnityUntouched(t *testing.T) {
	buf := []float64{0.7, -0.7}

	ApplyInPlace(buf, 1)
	assert.Equal(t, []float64{0.7, -0.7}, buf)

	ApplyInPlace(nil, 0.5)
}
