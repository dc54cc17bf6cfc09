package detgeom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpotCoordToResolution(t *testing.T) {
	d := newPair(t)
	r := d.r
	const lambda = 1.0

	assert.True(t, math.IsInf(r.SpotCoordToResolution(d.a0, 50, 50, lambda), 1), "beam centre")

	z := r.AbsoluteMidPoint(d.root).Z
	twoTheta := math.Atan(math.Hypot(50, 50) / z)
	want := lambda / (2 * math.Sin(twoTheta/2))
	assert.InDelta(t, want, r.SpotCoordToResolution(d.a0, 0, 0, lambda), 1e-9)

	// further out means finer
	assert.Less(t, r.SpotCoordToResolution(d.a1, 190, 50, lambda), r.SpotCoordToResolution(d.a1, 110, 50, lambda))
}

func TestZLimits(t *testing.T) {
	d := newPair(t)
	r := d.r
	z := r.AbsoluteMidPoint(d.root).Z
	lo, hi := r.ZLimits(d.root)
	assert.InDelta(t, z, lo, 1e-9)
	assert.InDelta(t, z, hi, 1e-9)

	// tip a1 about its slow axis: one edge comes forward, the other goes back
	a := assert.New(t)
	a.NoError(r.SetParam(d.a1, Beta, 0.1))
	lo, hi = r.ZLimits(d.root)
	a.InDelta(z-50*math.Sin(0.1), lo, 1e-9)
	a.InDelta(z+50*math.Sin(0.1), hi, 1e-9)

	lo, hi = r.ZLimits(d.a0)
	a.InDelta(z, lo, 1e-9)
	a.InDelta(z, hi, 1e-9)
}

func TestResolutionLimits(t *testing.T) {
	d := newPair(t)
	r := d.r
	best, worst := r.ResolutionLimits(d.root, 1.2)
	assert.InDelta(t, r.SpotCoordToResolution(d.a1, 200, 0, 1.2), best, 1e-12)
	assert.InDelta(t, r.SpotCoordToResolution(d.a0, 0, 0, 1.2), worst, 1e-12)
	assert.Less(t, best, worst)
}
