package detgeom

import (
	"image"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeIdentity(t *testing.T) {
	d := newPair(t)
	r := d.r

	assert.True(t, r.IsLUCA(d.root))
	assert.False(t, r.IsLUCA(d.group))
	assert.False(t, r.IsLUCA(d.a0))

	for _, id := range []PanelID{d.root, d.group, d.a0, d.a1} {
		assert.True(t, r.IsAncestorOf(d.root, id), "root above %d", id)
		assert.True(t, r.IsAncestorOf(id, id), "self %d", id)
	}
	assert.True(t, r.IsAncestorOf(d.group, d.a1))
	assert.False(t, r.IsAncestorOf(d.a0, d.root), "reverse direction")
	assert.False(t, r.IsAncestorOf(d.a0, d.a1), "siblings")
	assert.False(t, r.IsAncestorOf(d.a1, d.group))

	assert.Equal(t, []PanelID{d.a0, d.a1}, r.Leaves(d.root))
	assert.Equal(t, []PanelID{d.a0, d.a1}, r.Panel(d.group).Children())
	assert.Equal(t, d.group, r.Panel(d.a0).Parent())
	assert.Equal(t, 2, r.Depth(d.a1))
	assert.Equal(t, 0, r.Depth(d.root))
	assert.Equal(t, 4, r.Len())

	id, ok := r.Lookup("a1")
	require.True(t, ok)
	assert.Equal(t, d.a1, id)
	_, ok = r.Lookup("nope")
	assert.False(t, ok)
}

func TestChildrenIsACopy(t *testing.T) {
	d := newPair(t)
	kids := d.r.Panel(d.group).Children()
	kids[0] = NoPanel
	assert.Equal(t, d.a0, d.r.Panel(d.group).Children()[0])
}

func TestAddChildErrors(t *testing.T) {
	d := newPair(t)
	r := d.r

	err := r.AddChild(d.root, d.a0)
	assert.ErrorIs(t, err, ErrAlreadyParented)

	err = r.AddChild(d.a0, d.root)
	assert.ErrorIs(t, err, ErrAlreadyParented, "root cannot be re-parented")

	err = r.AddChild(d.root, PanelID(99))
	assert.ErrorIs(t, err, ErrNoPanel)

	// a detached subtree cannot be attached under itself
	g := r.NewGroup("g", r3.Vector{})
	h := r.NewGroup("h", r3.Vector{})
	require.NoError(t, r.AddChild(g, h))
	assert.Error(t, r.AddChild(h, g))
}

func TestDuplicateTagPanics(t *testing.T) {
	d := newPair(t)
	assert.Panics(t, func() {
		d.r.NewPanel("a0", image.Pt(0, 0), image.Pt(1, 1), unitSlow, unitFast, r3.Vector{})
	})
	assert.Panics(t, func() { d.r.Panel(PanelID(42)) })
	assert.Panics(t, func() { d.r.NewRoot(1, 0, 0) })
	assert.ErrorIs(t, d.r.SetRoot(d.a0), ErrRootExists)
}

func TestSetRoot(t *testing.T) {
	r := NewRegistry(Options{})
	assert.Equal(t, DefaultMMPerPixel, r.MMPerPixel())
	assert.False(t, r.Active())
	assert.NotEmpty(t, r.RunID)

	g := r.NewGroup("top", r3.Vector{Z: 1000})
	require.NoError(t, r.SetRoot(g))
	assert.Equal(t, g, r.Root())
	vecNear(t, r3.Vector{Z: 1000}, r.AbsoluteMidPoint(g), 0)
}

func TestFindLeafForPixelCoord(t *testing.T) {
	d := newPair(t)
	r := d.r

	for _, tc := range []struct {
		x, y float64
		want PanelID
		ok   bool
	}{
		{50, 50, d.a0, true},
		{0.5, 99.5, d.a0, true},
		{150, 20, d.a1, true},
		{199.9, 0.1, d.a1, true},
		{100, 50, NoPanel, false}, // shared edge belongs to neither
		{0, 50, NoPanel, false},
		{250, 50, NoPanel, false},
		{50, -1, NoPanel, false},
	} {
		got, ok := r.FindLeafForPixelCoord(d.root, tc.x, tc.y)
		assert.Equal(t, tc.ok, ok, "(%g, %g)", tc.x, tc.y)
		assert.Equal(t, tc.want, got, "(%g, %g)", tc.x, tc.y)
	}
}
