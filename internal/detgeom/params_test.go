package detgeom

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPokeSymmetry(t *testing.T) {
	d := newPair(t)
	r := d.r
	before0 := r.AbsoluteMidPoint(d.a0)
	before1 := r.AbsoluteMidPoint(d.a1)

	require.NoError(t, r.SetPoke(d.group, 0, 0.5))
	assert.Equal(t, -0.5, r.GetParam(d.a0, NudgeX))
	assert.Equal(t, 0.5, r.GetParam(d.a1, NudgeX))
	assert.Equal(t, 0.5, r.GetParam(d.group, PokeX))
	vecNear(t, before0.Add(r3.Vector{X: -0.5}), r.AbsoluteMidPoint(d.a0), 1e-12)
	vecNear(t, before1.Add(r3.Vector{X: 0.5}), r.AbsoluteMidPoint(d.a1), 1e-12)

	require.NoError(t, r.SetParam(d.group, PokeY, 2))
	assert.Equal(t, -2.0, r.GetParam(d.a0, NudgeY))
	assert.Equal(t, 2.0, r.GetParam(d.a1, NudgeY))

	// the third axis tilts both children about z, and their rotations follow
	require.NoError(t, r.SetPoke(d.group, 2, 0.1))
	assert.Equal(t, -0.1, r.Panel(d.a0).NudgeRotation().Z)
	assert.Equal(t, 0.1, r.Panel(d.a1).NudgeRotation().Z)
	vecNear(t, r3.Vector{X: math.Cos(0.1), Y: -math.Sin(0.1)}, r.Panel(d.a0).RotatedFast(), 1e-12)
	vecNear(t, r3.Vector{X: math.Cos(0.1), Y: math.Sin(0.1)}, r.Panel(d.a1).RotatedFast(), 1e-12)

	r.ResetPoke(d.group)
	assert.Equal(t, r3.Vector{}, r.Panel(d.group).Poke())
	assert.Equal(t, 0.1, r.Panel(d.a1).NudgeRotation().Z, "reset keeps applied nudges")
}

func TestPokeNeedsTwoChildren(t *testing.T) {
	d := newPair(t)
	assert.ErrorIs(t, d.r.SetPoke(d.a0, 0, 1), ErrNotTwoChildren)
	assert.ErrorIs(t, d.r.SetPoke(d.root, 1, 1), ErrNotTwoChildren)
	assert.Error(t, d.r.SetPoke(d.group, 3, 1))
}

func TestParamsTable(t *testing.T) {
	d := newPair(t)
	r := d.r

	leaf := r.Params(d.a0)
	require.Len(t, leaf, 12)
	group := r.Params(d.group)
	require.Len(t, group, 15)
	assert.Equal(t, "q0.poke_z", group[14].Name())
	assert.Equal(t, "a0.midpoint_x", leaf[0].Name())

	names := map[string]bool{}
	for _, p := range group {
		assert.Equal(t, d.group, p.Panel)
		names[p.Kind.String()] = true
	}
	assert.Len(t, names, 15)

	alpha := leaf[Alpha]
	require.Equal(t, Alpha, alpha.Kind)
	require.NoError(t, alpha.Set(0.25))
	assert.Equal(t, 0.25, alpha.Get())
	assert.Equal(t, 0.25, r.Panel(d.a0).RotationAngles().X)
	vecNear(t, r3.Vector{Y: math.Cos(0.25), Z: math.Sin(0.25)}, r.Panel(d.a0).RotatedSlow(), 1e-12)

	require.NoError(t, group[PokeX].Set(1))
	assert.Equal(t, -1.0, r.GetParam(d.a0, NudgeX))

	assert.Error(t, r.SetParam(d.a0, ParamKind(99), 1))
	assert.True(t, math.IsNaN(r.GetParam(d.a0, ParamKind(99))))
	assert.Equal(t, "param(99)", ParamKind(99).String())
}

func TestParentRotationReachesChildren(t *testing.T) {
	d := newPair(t)
	r := d.r
	require.NoError(t, r.SetParam(d.root, Beta, 0.2))
	want := rotY(0.2).MulVec(unitFast)
	vecNear(t, want, r.Panel(d.a1).RotatedFast(), 1e-12)
	assert.True(t, r.Panel(d.a1).MustRecomputeMidpoint())
}

func TestRefinableGate(t *testing.T) {
	d := newPair(t)
	r := d.r
	assert.True(t, r.IsRefinable(d.a0, ScoreIntraPanel))
	assert.True(t, r.IsRefinable(d.group, ScoreInterPanel))
	assert.False(t, r.IsRefinable(d.a0, ScoreInterPanel), "leaf has no children to move")

	r.SetRefinable(d.a0, false)
	assert.False(t, r.IsRefinable(d.a0, ScoreIntraPanel))
	assert.False(t, r.IsRefinable(d.a0, ScoreBeamCentre))
	assert.True(t, r.IsRefinable(d.group, ScoreInterPanel))

	r.SetRefinable(d.a1, false)
	assert.False(t, r.IsRefinable(d.group, ScoreInterPanel))
	assert.True(t, r.IsRefinable(d.group, ScoreAngleConsistency))
}

func TestLockNudgesKeepsPositions(t *testing.T) {
	d := newTiltedPair(t)
	r := d.r
	require.NoError(t, r.SetParam(d.group, NudgeZ, 2))
	require.NoError(t, r.SetParam(d.group, NudgeTiltY, 0.01))
	require.NoError(t, r.SetParam(d.a0, NudgeX, 0.7))
	require.NoError(t, r.SetParam(d.a0, NudgeTiltX, 0.02))
	require.NoError(t, r.SetParam(d.a0, NudgeTiltZ, -0.03))
	require.NoError(t, r.SetPoke(d.group, 1, 0.4))
	r.Refresh()

	pixels := [][3]float64{{float64(d.a0), 0, 0}, {float64(d.a0), 70, 20}, {float64(d.a1), 200, 100}, {float64(d.a1), 130, 45}}
	before := make([]r3.Vector, len(pixels))
	for i, px := range pixels {
		before[i] = r.LocalPixelToAbsoluteVector(PanelID(px[0]), px[1], px[2])
	}

	r.LockNudges(d.root)
	r.Refresh()

	for _, id := range []PanelID{d.group, d.a0, d.a1} {
		p := r.Panel(id)
		assert.Equal(t, r3.Vector{}, p.NudgeTranslation())
		assert.Equal(t, r3.Vector{}, p.NudgeRotation())
		assert.Equal(t, r3.Vector{}, p.Poke())
	}
	for i, px := range pixels {
		vecNear(t, before[i], r.LocalPixelToAbsoluteVector(PanelID(px[0]), px[1], px[2]), 1e-6)
	}
}

func TestSetGain(t *testing.T) {
	d := newPair(t)
	assert.Equal(t, 1.0, d.r.Panel(d.a0).Gain())
	d.r.SetGain(d.a0, 1.25)
	assert.Equal(t, 1.25, d.r.Panel(d.a0).Gain())
}
