package detgeom

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

func (r *Registry) mustLeaf(id PanelID, op string) *Panel {
	p := r.Panel(id)
	if !p.IsLeaf() {
		panic(fmt.Sprintf("detgeom: %s on panel %q which has %d children", op, p.tag, len(p.children)))
	}
	return p
}

// relativeVector maps a pixel on leaf p to an offset from p's own midpoint,
// along p's rotated axes.
func (p *Panel) relativeVector(x, y float64) r3.Vector {
	return p.fastRotated.Mul(x - p.midX).Add(p.slowRotated.Mul(y - p.midY))
}

// LocalPixelToAbsoluteVector converts an unarranged pixel coordinate on leaf
// id to a lab-frame vector (pixel units).
func (r *Registry) LocalPixelToAbsoluteVector(id PanelID, x, y float64) r3.Vector {
	p := r.mustLeaf(id, "pixel to vector")
	return r.AbsoluteMidPoint(id).Add(p.relativeVector(x, y))
}

// AbsoluteVectorToLocalPixel is the inverse of LocalPixelToAbsoluteVector for
// vectors lying in the plane of leaf id.
func (r *Registry) AbsoluteVectorToLocalPixel(id PanelID, v r3.Vector) (x, y float64) {
	p := r.Panel(id)
	c := p.changeOfBasis.MulVec(v.Sub(r.AbsoluteMidPoint(id)))
	return c.X + p.midX, c.Y + p.midY
}

// WithinBounds reports whether (x, y) lies on leaf id, edges included.
// Non-finite coordinates never do.
func (r *Registry) WithinBounds(id PanelID, x, y float64) bool {
	if !isFinite(x) || !isFinite(y) {
		return false
	}
	p := r.Panel(id)
	return math.Abs(x-p.midX) <= p.halfFast() && math.Abs(y-p.midY) <= p.halfSlow()
}

// FindPanelAndAbsoluteVector locates the leaf owning (x, y) and converts the
// coordinate on it. ok is false for spots in gaps.
func (r *Registry) FindPanelAndAbsoluteVector(x, y float64) (PanelID, r3.Vector, bool) {
	if r.root == NoPanel {
		return NoPanel, r3.Vector{}, false
	}
	id, ok := r.FindLeafForPixelCoord(r.root, x, y)
	if !ok {
		return NoPanel, r3.Vector{}, false
	}
	return id, r.LocalPixelToAbsoluteVector(id, x, y), true
}

// ReflectionToAbsoluteVector converts a reflection's raw coordinate, reusing
// the panel already assigned to it or assigning the one found.
func (r *Registry) ReflectionToAbsoluteVector(refl Reflection) (PanelID, r3.Vector, bool) {
	x, y := refl.RawXY()
	if id := refl.Panel(); id != NoPanel && r.valid(id) {
		return id, r.LocalPixelToAbsoluteVector(id, x, y), true
	}
	id, v, ok := r.FindPanelAndAbsoluteVector(x, y)
	if ok {
		refl.SetPanel(id)
	}
	return id, v, ok
}

// SetArrangedTopLeft places leaf id so that its top-left pixel lands on the
// absolute position topLeft (CrystFEL corner convention). The stored
// midpoint is converted into the parent's frame.
func (r *Registry) SetArrangedTopLeft(id PanelID, topLeft r3.Vector) {
	p := r.mustLeaf(id, "set arranged top left")
	if p.parent == NoPanel {
		panic(fmt.Sprintf("detgeom: set arranged top left on %q before it has a parent", p.tag))
	}
	r.mustCheckBasis(id)
	r.updateRotation(id)

	br := p.relativeVector(float64(p.bottomRight.X), float64(p.bottomRight.Y))
	absMid := topLeft.Add(br)

	parent := r.panels[p.parent]
	rel := parent.changeOfBasis.MulVec(absMid.Sub(r.AbsoluteMidPoint(p.parent)))
	p.arrangedMidPoint = rel.Sub(p.nudgeTranslation)
	r.markMidpointDirty(id)
}
