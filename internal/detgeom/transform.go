package detgeom

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// CheckBasis reports whether both basis vectors of id are unit length within
// BasisTolerance.
func (r *Registry) CheckBasis(id PanelID) bool {
	return r.Panel(id).basisOK()
}

func (r *Registry) mustCheckBasis(id PanelID) {
	p := r.Panel(id)
	if !p.basisOK() {
		panic(fmt.Sprintf("detgeom: panel %q has non-unit basis (fast %v |%.3f|, slow %v |%.3f|)",
			p.tag, p.fastDirection, p.fastDirection.Norm(), p.slowDirection, p.slowDirection.Norm()))
	}
}

// UpdateRotation recomputes the rotation and change-of-basis of id and then
// of every descendant, parents first. Cached midpoints below id are marked
// stale.
func (r *Registry) UpdateRotation(id PanelID) {
	r.updateRotation(id)
	r.markMidpointDirty(id)
}

func (r *Registry) updateRotation(id PanelID) {
	p := r.panels[id]
	own := rotFromAngles(p.nudgeRotation).Mul(rotFromAngles(p.rotationAngles))
	parentRot := I3()
	if p.parent != NoPanel {
		parentRot = r.panels[p.parent].rotation
	}
	p.rotation = parentRot.Mul(own)

	p.fastRotated = p.rotation.MulVec(p.fastDirection)
	p.slowRotated = p.rotation.MulVec(p.slowDirection)
	p.normal = p.fastRotated.Cross(p.slowRotated)

	cob, err := FromColumns(p.fastRotated, p.slowRotated, p.normal).Inverse()
	if err != nil {
		panic(fmt.Sprintf("detgeom: panel %q has a degenerate basis: %v", p.tag, err))
	}
	p.changeOfBasis = cob
	tracef("rotation %q: fast=%v slow=%v normal=%v", p.tag, p.fastRotated, p.slowRotated, p.normal)

	for _, c := range p.children {
		r.updateRotation(c)
	}
}

func (r *Registry) markMidpointDirty(id PanelID) {
	p := r.panels[id]
	p.mustRecomputeMidpoint = true
	for _, c := range p.children {
		r.markMidpointDirty(c)
	}
}

// midPointOffset is the node's own offset including its trial nudge.
func (p *Panel) midPointOffset() r3.Vector {
	return p.arrangedMidPoint.Add(p.nudgeTranslation)
}

// AbsoluteMidPoint returns the lab-frame centre of id: the root offset plus
// every descendant offset expressed through its parent's rotated axes.
func (r *Registry) AbsoluteMidPoint(id PanelID) r3.Vector {
	p := r.Panel(id)
	if !p.mustRecomputeMidpoint {
		return p.absMidPoint
	}
	off := p.midPointOffset()
	abs := off
	if p.parent != NoPanel {
		parent := r.panels[p.parent]
		abs = r.AbsoluteMidPoint(p.parent).
			Add(parent.fastRotated.Mul(off.X)).
			Add(parent.slowRotated.Mul(off.Y)).
			Add(parent.normal.Mul(off.Z))
	}
	p.absMidPoint = abs
	p.mustRecomputeMidpoint = false
	return abs
}

// Refresh rebuilds rotations and midpoints for the whole tree. It must finish
// before any concurrent read pass (CollectReflections, EstimateCoverage):
// afterwards every cache is clean and reads do not write.
func (r *Registry) Refresh() {
	if r.root == NoPanel {
		return
	}
	r.Walk(r.root, func(id PanelID, _ *Panel) {
		r.mustCheckBasis(id)
	})
	r.UpdateRotation(r.root)
	r.Walk(r.root, func(id PanelID, _ *Panel) {
		r.AbsoluteMidPoint(id)
	})
	tracef("run %s: refreshed %d panels", r.RunID, len(r.panels))
}
