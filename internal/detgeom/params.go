package detgeom

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// ParamKind names one tunable of a panel.
type ParamKind int

const (
	MidpointX ParamKind = iota
	MidpointY
	MidpointZ
	Alpha
	Beta
	Gamma
	NudgeX
	NudgeY
	NudgeZ
	NudgeTiltX
	NudgeTiltY
	NudgeTiltZ
	PokeX
	PokeY
	PokeZ
)

var paramNames = [...]string{
	MidpointX:  "midpoint_x",
	MidpointY:  "midpoint_y",
	MidpointZ:  "midpoint_z",
	Alpha:      "alpha",
	Beta:       "beta",
	Gamma:      "gamma",
	NudgeX:     "nudge_x",
	NudgeY:     "nudge_y",
	NudgeZ:     "nudge_z",
	NudgeTiltX: "nudge_tilt_x",
	NudgeTiltY: "nudge_tilt_y",
	NudgeTiltZ: "nudge_tilt_z",
	PokeX:      "poke_x",
	PokeY:      "poke_y",
	PokeZ:      "poke_z",
}

func (k ParamKind) String() string {
	if k < 0 || int(k) >= len(paramNames) {
		return fmt.Sprintf("param(%d)", int(k))
	}
	return paramNames[k]
}

// ScoreType selects which refinement stage is asking IsRefinable.
type ScoreType int

const (
	ScoreIntraPanel ScoreType = iota
	ScoreAngleConsistency
	ScoreBeamCentre
	ScoreInterPanel
)

// Param is one tunable bound to a panel, for an external optimizer to iterate.
type Param struct {
	Kind  ParamKind
	Panel PanelID
	Tag   string
	Get   func() float64
	Set   func(float64) error
}

func (p Param) Name() string { return p.Tag + "." + p.Kind.String() }

func axisOf(v r3.Vector, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func withAxis(v r3.Vector, axis int, val float64) r3.Vector {
	switch axis {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
	return v
}

// GetParam reads one tunable of id.
func (r *Registry) GetParam(id PanelID, kind ParamKind) float64 {
	p := r.Panel(id)
	switch {
	case kind >= MidpointX && kind <= MidpointZ:
		return axisOf(p.arrangedMidPoint, int(kind-MidpointX))
	case kind >= Alpha && kind <= Gamma:
		return axisOf(p.rotationAngles, int(kind-Alpha))
	case kind >= NudgeX && kind <= NudgeZ:
		return axisOf(p.nudgeTranslation, int(kind-NudgeX))
	case kind >= NudgeTiltX && kind <= NudgeTiltZ:
		return axisOf(p.nudgeRotation, int(kind-NudgeTiltX))
	case kind >= PokeX && kind <= PokeZ:
		return axisOf(p.poke, int(kind-PokeX))
	}
	return math.NaN()
}

// SetParam writes one tunable of id. Midpoint changes mark cached midpoints
// stale; angle and nudge changes also recompute rotations for id and below.
func (r *Registry) SetParam(id PanelID, kind ParamKind, v float64) error {
	p := r.Panel(id)
	switch {
	case kind >= MidpointX && kind <= MidpointZ:
		p.arrangedMidPoint = withAxis(p.arrangedMidPoint, int(kind-MidpointX), v)
		r.markMidpointDirty(id)
	case kind >= Alpha && kind <= Gamma:
		p.rotationAngles = withAxis(p.rotationAngles, int(kind-Alpha), v)
		r.UpdateRotation(id)
	case kind >= NudgeX && kind <= NudgeZ:
		p.nudgeTranslation = withAxis(p.nudgeTranslation, int(kind-NudgeX), v)
		r.UpdateRotation(id)
	case kind >= NudgeTiltX && kind <= NudgeTiltZ:
		p.nudgeRotation = withAxis(p.nudgeRotation, int(kind-NudgeTiltX), v)
		r.UpdateRotation(id)
	case kind >= PokeX && kind <= PokeZ:
		return r.SetPoke(id, int(kind-PokeX), v)
	default:
		return fmt.Errorf("panel %q: unknown parameter %v", p.tag, kind)
	}
	return nil
}

// pokeTargets maps a poke axis to the nudge it drives on the two children.
var pokeTargets = [3]ParamKind{NudgeX, NudgeY, NudgeTiltZ}

// SetPoke applies an equal and opposite nudge to the two children of id:
// -v on the first, +v on the second, along the axis's poke target.
func (r *Registry) SetPoke(id PanelID, axis int, v float64) error {
	p := r.Panel(id)
	if len(p.children) != 2 {
		return fmt.Errorf("poke %q: %w (has %d)", p.tag, ErrNotTwoChildren, len(p.children))
	}
	if axis < 0 || axis > 2 {
		return fmt.Errorf("poke %q: bad axis %d", p.tag, axis)
	}
	p.poke = withAxis(p.poke, axis, v)
	target := pokeTargets[axis]
	for i, c := range p.children {
		modifier := -1.0
		if i == 1 {
			modifier = 1
		}
		if err := r.SetParam(c, target, modifier*v); err != nil {
			return err
		}
	}
	return nil
}

// ResetPoke zeroes the recorded poke; nudges already applied stay.
func (r *Registry) ResetPoke(id PanelID) {
	r.Panel(id).poke = r3.Vector{}
}

// Params lists the tunables of id. Poke parameters appear only on panels
// with exactly two children.
func (r *Registry) Params(id PanelID) []Param {
	p := r.Panel(id)
	last := NudgeTiltZ
	if len(p.children) == 2 {
		last = PokeZ
	}
	out := make([]Param, 0, int(last)+1)
	for k := MidpointX; k <= last; k++ {
		kind := k
		out = append(out, Param{
			Kind:  kind,
			Panel: id,
			Tag:   p.tag,
			Get:   func() float64 { return r.GetParam(id, kind) },
			Set:   func(v float64) error { return r.SetParam(id, kind, v) },
		})
	}
	return out
}

// SetRefinable marks id as refinable or fixed at the intra-panel level.
func (r *Registry) SetRefinable(id PanelID, refinable bool) {
	p := r.Panel(id)
	p.refinable = refinable
	state := "fixed"
	if refinable {
		state = "refinable"
	}
	diagf("setting %s panel to %s", p.tag, state)
}

// IsRefinable gates optimizer mutations. Intra-panel style stages use the
// panel's own flag; inter-panel refinement of a group needs at least one
// child that is itself refinable.
func (r *Registry) IsRefinable(id PanelID, score ScoreType) bool {
	p := r.Panel(id)
	switch score {
	case ScoreIntraPanel, ScoreAngleConsistency, ScoreBeamCentre:
		return p.refinable
	}
	for _, c := range p.children {
		if r.IsRefinable(c, ScoreIntraPanel) {
			return true
		}
	}
	return false
}

// anglesFromRotation recovers (alpha, beta, gamma) from a matrix built by
// rotFromAngles. Near gimbal lock gamma is folded into alpha.
func anglesFromRotation(M Mat3) r3.Vector {
	sb := -M.M[2][0]
	if sb > 1 {
		sb = 1
	} else if sb < -1 {
		sb = -1
	}
	beta := math.Asin(sb)
	if math.Abs(sb) > 1-1e-12 {
		return r3.Vector{X: math.Atan2(-M.M[1][2], M.M[1][1]), Y: beta, Z: 0}
	}
	return r3.Vector{
		X: math.Atan2(M.M[2][1], M.M[2][2]),
		Y: beta,
		Z: math.Atan2(M.M[1][0], M.M[0][0]),
	}
}

// LockNudges folds the trial nudges of id and its descendants into the
// canonical geometry and clears them, leaving every absolute position
// unchanged.
func (r *Registry) LockNudges(id PanelID) {
	r.Walk(id, func(_ PanelID, p *Panel) {
		if p.nudgeRotation != (r3.Vector{}) {
			combined := rotFromAngles(p.nudgeRotation).Mul(rotFromAngles(p.rotationAngles))
			p.rotationAngles = anglesFromRotation(combined)
		}
		p.arrangedMidPoint = p.arrangedMidPoint.Add(p.nudgeTranslation)
		p.nudgeTranslation = r3.Vector{}
		p.nudgeRotation = r3.Vector{}
		p.poke = r3.Vector{}
	})
	r.UpdateRotation(id)
}

// SetGain sets the relative intensity gain of id.
func (r *Registry) SetGain(id PanelID, gain float64) {
	r.Panel(id).gain = gain
}
