package detgeom

import (
	"errors"
	"fmt"
	"image"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
)

var (
	ErrAlreadyParented = errors.New("panel already has a parent")
	ErrNotTwoChildren  = errors.New("poke needs exactly two children")
	ErrInactive        = errors.New("detector tree mode is not active")
	ErrNoPanel         = errors.New("no such panel")
	ErrRootExists      = errors.New("registry already has a root panel")
)

// Options configure a Registry.
type Options struct {
	MMPerPixel float64 // physical pixel size; 0 means DefaultMMPerPixel
	Active     bool    // false: callers assume a single flat panel
}

// Registry owns every panel of one detector and the run-wide settings the
// geometry needs (pixel size, whether detector-tree mode is on).
//
// Construct one per run and pass it to whatever needs the geometry. The tree
// is mutated by one goroutine at a time; see Refresh before concurrent reads.
type Registry struct {
	RunID string

	mmPerPixel float64
	active     bool

	panels []*Panel
	root   PanelID
	byTag  map[string]PanelID
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	mm := opts.MMPerPixel
	if mm <= 0 {
		mm = DefaultMMPerPixel
	}
	r := &Registry{
		RunID:      uuid.New().String(),
		mmPerPixel: mm,
		active:     opts.Active,
		root:       NoPanel,
		byTag:      make(map[string]PanelID),
	}
	tracef("run %s: registry created, mm/pixel=%.4f active=%v", r.RunID, mm, r.active)
	return r
}

func (r *Registry) MMPerPixel() float64 { return r.mmPerPixel }
func (r *Registry) Active() bool        { return r.active }
func (r *Registry) Root() PanelID       { return r.root }
func (r *Registry) Len() int            { return len(r.panels) }

// Panel returns the record for id. It panics on an unknown handle.
func (r *Registry) Panel(id PanelID) *Panel {
	if !r.valid(id) {
		panic(fmt.Sprintf("detgeom: unknown panel handle %d", id))
	}
	return r.panels[id]
}

func (r *Registry) valid(id PanelID) bool {
	return id >= 0 && int(id) < len(r.panels)
}

// Lookup finds a panel by tag.
func (r *Registry) Lookup(tag string) (PanelID, bool) {
	id, ok := r.byTag[tag]
	if !ok {
		return NoPanel, false
	}
	return id, true
}

func (r *Registry) add(p *Panel) PanelID {
	if _, dup := r.byTag[p.tag]; dup {
		panic(fmt.Sprintf("detgeom: duplicate panel tag %q", p.tag))
	}
	id := PanelID(len(r.panels))
	r.panels = append(r.panels, p)
	r.byTag[p.tag] = id
	r.updateRotation(id)
	return id
}

// NewRoot creates the root panel from the sample-to-detector distance (mm)
// and the beam centre (pixels). The root midpoint is absolute:
// (-beamX, -beamY, distance/mmPerPixel).
func (r *Registry) NewRoot(distance, beamX, beamY float64) PanelID {
	if r.root != NoPanel {
		panic(fmt.Sprintf("detgeom: %v", ErrRootExists))
	}
	p := newPanel(RootTag)
	p.arrangedMidPoint = r3.Vector{X: -beamX, Y: -beamY, Z: distance / r.mmPerPixel}
	r.root = r.add(p)
	diagf("run %s: root panel at %+v", r.RunID, p.arrangedMidPoint)
	return r.root
}

// SetRoot promotes a detached panel to be the root.
func (r *Registry) SetRoot(id PanelID) error {
	if r.root != NoPanel {
		return ErrRootExists
	}
	p := r.Panel(id)
	if p.parent != NoPanel {
		return fmt.Errorf("root %q: %w", p.tag, ErrAlreadyParented)
	}
	r.root = id
	return nil
}

// NewPanel creates a detached leaf. midpoint is relative to the parent it
// will be attached to. Follow with AddChild.
func (r *Registry) NewPanel(tag string, topLeft, bottomRight image.Point, slow, fast, midpoint r3.Vector) PanelID {
	p := newPanel(tag)
	p.setUnarranged(topLeft, bottomRight)
	p.slowDirection = slow
	p.fastDirection = fast
	p.arrangedMidPoint = midpoint
	return r.add(p)
}

// NewGroup creates a detached grouping panel with the default basis.
func (r *Registry) NewGroup(tag string, midpoint r3.Vector) PanelID {
	p := newPanel(tag)
	p.arrangedMidPoint = midpoint
	return r.add(p)
}

// AddChild attaches child under parent, setting the back-reference.
func (r *Registry) AddChild(parent, child PanelID) error {
	if !r.valid(parent) || !r.valid(child) {
		return fmt.Errorf("add child %d to %d: %w", child, parent, ErrNoPanel)
	}
	c := r.panels[child]
	if c.parent != NoPanel || child == r.root {
		return fmt.Errorf("add child %q: %w", c.tag, ErrAlreadyParented)
	}
	if r.IsAncestorOf(child, parent) {
		return fmt.Errorf("add child %q to %q: would create a cycle", c.tag, r.panels[parent].tag)
	}
	p := r.panels[parent]
	c.parent = parent
	p.children = append(p.children, child)
	r.updateRotation(child)
	r.markMidpointDirty(child)
	tracef("attached %q under %q", c.tag, p.tag)
	return nil
}

// IsLUCA reports whether id has no parent.
func (r *Registry) IsLUCA(id PanelID) bool {
	return r.Panel(id).parent == NoPanel
}
