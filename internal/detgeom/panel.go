package detgeom

import (
	"image"
	"sync"

	"github.com/golang/geo/r3"
)

// PanelID is a stable handle to a panel record inside a Registry.
type PanelID int

// NoPanel is returned by lookups that found nothing.
const NoPanel PanelID = -1

// Panel is one rigid detector region: a physical sensor surface (leaf) or a
// grouping of panels that move together.
//
// Pixel ("unarranged") coordinates only mean something on leaves. The
// arranged midpoint is expressed in the parent's rotated (fast, slow, normal)
// frame; for the root it is absolute.
type Panel struct {
	tag string

	// unarranged extent, leaves only
	topLeft     image.Point
	bottomRight image.Point
	midX, midY  float64

	arrangedMidPoint r3.Vector
	slowDirection    r3.Vector
	fastDirection    r3.Vector
	rotationAngles   r3.Vector // alpha, beta, gamma (radians)

	// refinement perturbations
	nudgeTranslation r3.Vector
	nudgeRotation    r3.Vector
	poke             r3.Vector

	gain      float64
	refinable bool

	parent   PanelID
	children []PanelID

	// cached
	rotation      Mat3 // own rotation composed with the parent's
	changeOfBasis Mat3 // absolute offset -> (fast, slow, normal) components
	fastRotated   r3.Vector
	slowRotated   r3.Vector
	normal        r3.Vector // fastRotated × slowRotated

	absMidPoint           r3.Vector
	mustRecomputeMidpoint bool

	reflMu      sync.Mutex
	reflections []Reflection
}

func newPanel(tag string) *Panel {
	return &Panel{
		tag:                   tag,
		slowDirection:         r3.Vector{X: 0, Y: 1, Z: 0},
		fastDirection:         r3.Vector{X: 1, Y: 0, Z: 0},
		gain:                  1,
		refinable:             true,
		parent:                NoPanel,
		rotation:              I3(),
		changeOfBasis:         I3(),
		mustRecomputeMidpoint: true,
	}
}

func (p *Panel) setUnarranged(topLeft, bottomRight image.Point) {
	p.topLeft, p.bottomRight = topLeft, bottomRight
	p.midX = float64(bottomRight.X+topLeft.X) / 2
	p.midY = float64(bottomRight.Y+topLeft.Y) / 2
}

func (p *Panel) Tag() string { return p.tag }

func (p *Panel) IsLeaf() bool { return len(p.children) == 0 }

// Unarranged returns the top-left and bottom-right pixel corners.
func (p *Panel) Unarranged() (topLeft, bottomRight image.Point) {
	return p.topLeft, p.bottomRight
}

// Rect returns the unarranged extent as an image rectangle.
func (p *Panel) Rect() image.Rectangle {
	return image.Rectangle{Min: p.topLeft, Max: p.bottomRight}
}

// UnarrangedMidPoint is the average of the two unarranged corners.
func (p *Panel) UnarrangedMidPoint() (x, y float64) { return p.midX, p.midY }

func (p *Panel) ArrangedMidPoint() r3.Vector { return p.arrangedMidPoint }
func (p *Panel) SlowDirection() r3.Vector    { return p.slowDirection }
func (p *Panel) FastDirection() r3.Vector    { return p.fastDirection }
func (p *Panel) RotationAngles() r3.Vector   { return p.rotationAngles }
func (p *Panel) NudgeTranslation() r3.Vector { return p.nudgeTranslation }
func (p *Panel) NudgeRotation() r3.Vector    { return p.nudgeRotation }
func (p *Panel) Poke() r3.Vector             { return p.poke }
func (p *Panel) Gain() float64               { return p.gain }
func (p *Panel) Parent() PanelID             { return p.parent }

// Children returns a copy of the ordered child handles.
func (p *Panel) Children() []PanelID {
	out := make([]PanelID, len(p.children))
	copy(out, p.children)
	return out
}

func (p *Panel) RotationMatrix() Mat3        { return p.rotation }
func (p *Panel) ChangeOfBasis() Mat3         { return p.changeOfBasis }
func (p *Panel) RotatedFast() r3.Vector      { return p.fastRotated }
func (p *Panel) RotatedSlow() r3.Vector      { return p.slowRotated }
func (p *Panel) PlaneNormal() r3.Vector      { return p.normal }
func (p *Panel) MustRecomputeMidpoint() bool { return p.mustRecomputeMidpoint }

func (p *Panel) halfFast() float64 { return float64(p.bottomRight.X-p.topLeft.X) / 2 }
func (p *Panel) halfSlow() float64 { return float64(p.bottomRight.Y-p.topLeft.Y) / 2 }

// basisOK reports whether both basis vectors are within BasisTolerance of
// unit length.
func (p *Panel) basisOK() bool {
	sl := p.slowDirection.Norm()
	fl := p.fastDirection.Norm()
	return sl > 1-BasisTolerance && sl < 1+BasisTolerance &&
		fl > 1-BasisTolerance && fl < 1+BasisTolerance
}
