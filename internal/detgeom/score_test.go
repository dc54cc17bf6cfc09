package detgeom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftScore(t *testing.T) {
	d := newPair(t)
	r := d.r

	_, ok := r.ShiftScore(d.root, false)
	assert.False(t, ok, "nothing recorded")

	r.RecordReflection(d.a0, &plainRefl{x: 1, y: 1})
	_, ok = r.ShiftScore(d.root, false)
	assert.False(t, ok, "no shifters")

	r.RecordReflection(d.a0, &Spot{X: 10, Y: 10, DX: 3, DY: 4})
	sd, ok := r.ShiftScore(d.a0, true)
	assert.True(t, ok)
	assert.Equal(t, 0.0, sd, "single sample")

	r.RecordReflection(d.a1, &Spot{X: 150, Y: 10})
	r.RecordReflection(d.a1, &Spot{X: 160, Y: 10, DX: math.NaN()})

	mean, ok := r.ShiftScore(d.root, false)
	assert.True(t, ok)
	assert.InDelta(t, 2.5, mean, 1e-12)

	sd, ok = r.ShiftScore(d.root, true)
	assert.True(t, ok)
	assert.InDelta(t, math.Sqrt(12.5), sd, 1e-12)

	mean, _ = r.ShiftScore(d.a1, false)
	assert.Equal(t, 0.0, mean)
}
