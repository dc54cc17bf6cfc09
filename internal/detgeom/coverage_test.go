package detgeom

import (
	"image"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateCoverageFull(t *testing.T) {
	d := newPair(t)
	frac := d.r.EstimateCoverage(20_000, 4, 42)
	assert.InDelta(t, 1, frac, 1e-3)
	assert.Equal(t, image.Rect(0, 0, 200, 100), d.r.unarrangedBounds())
}

func TestEstimateCoverageWithGap(t *testing.T) {
	r := NewRegistry(Options{Active: true})
	root := r.NewRoot(100, 0, 0)
	a := r.NewPanel("a", image.Pt(0, 0), image.Pt(100, 100), unitSlow, unitFast, r3.Vector{})
	b := r.NewPanel("b", image.Pt(150, 0), image.Pt(250, 100), unitSlow, unitFast, r3.Vector{X: 150})
	require.NoError(t, r.AddChild(root, a))
	require.NoError(t, r.AddChild(root, b))

	frac := r.EstimateCoverage(40_000, 3, 7)
	assert.InDelta(t, 0.8, frac, 0.02)

	// same seed and worker count, same answer
	assert.Equal(t, frac, r.EstimateCoverage(40_000, 3, 7))
}

func TestEstimateCoverageDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, NewRegistry(Options{}).EstimateCoverage(100, 1, 1))
	d := newPair(t)
	assert.Equal(t, 0.0, d.r.EstimateCoverage(0, 1, 1))
}
