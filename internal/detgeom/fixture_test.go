package detgeom

import (
	"image"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/require"
)

var (
	unitSlow = r3.Vector{X: 0, Y: 1, Z: 0}
	unitFast = r3.Vector{X: 1, Y: 0, Z: 0}
)

type pair struct {
	r      *Registry
	root   PanelID
	group  PanelID
	a0, a1 PanelID
}

// newPair builds root -> q0 -> {a0, a1}: two 100x100 leaves side by side in
// unarranged space, (0,0)-(100,100) and (100,0)-(200,100).
func newPair(t testing.TB) pair {
	t.Helper()
	r := NewRegistry(Options{MMPerPixel: 0.11, Active: true})
	root := r.NewRoot(100, 50, 50)
	q0 := r.NewGroup("q0", r3.Vector{})
	require.NoError(t, r.AddChild(root, q0))
	a0 := r.NewPanel("a0", image.Pt(0, 0), image.Pt(100, 100), unitSlow, unitFast, r3.Vector{X: 50, Y: 50})
	a1 := r.NewPanel("a1", image.Pt(100, 0), image.Pt(200, 100), unitSlow, unitFast, r3.Vector{X: 150, Y: 50})
	require.NoError(t, r.AddChild(q0, a0))
	require.NoError(t, r.AddChild(q0, a1))
	r.Refresh()
	return pair{r: r, root: root, group: q0, a0: a0, a1: a1}
}

// tilted is newPair with the group and one leaf rotated.
func newTiltedPair(t testing.TB) pair {
	t.Helper()
	d := newPair(t)
	require.NoError(t, d.r.SetParam(d.group, Gamma, 0.3))
	require.NoError(t, d.r.SetParam(d.group, Beta, -0.02))
	require.NoError(t, d.r.SetParam(d.a1, Alpha, 0.05))
	d.r.Refresh()
	return d
}

func vecNear(t testing.TB, want, got r3.Vector, tol float64) {
	t.Helper()
	if math.Abs(want.X-got.X) > tol || math.Abs(want.Y-got.Y) > tol || math.Abs(want.Z-got.Z) > tol {
		t.Fatalf("vector mismatch: want %v, got %v (tol %g)", want, got, tol)
	}
}
