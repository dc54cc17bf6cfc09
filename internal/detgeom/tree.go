package detgeom

// IsAncestorOf reports whether b is a or lies somewhere below a.
func (r *Registry) IsAncestorOf(a, b PanelID) bool {
	if a == b {
		return true
	}
	for _, c := range r.Panel(a).children {
		if r.IsAncestorOf(c, b) {
			return true
		}
	}
	return false
}

// Walk visits id and its descendants, parents before children.
func (r *Registry) Walk(id PanelID, fn func(PanelID, *Panel)) {
	p := r.Panel(id)
	fn(id, p)
	for _, c := range p.children {
		r.Walk(c, fn)
	}
}

// Leaves returns the leaves under id in tree order.
func (r *Registry) Leaves(id PanelID) []PanelID {
	var out []PanelID
	r.Walk(id, func(lid PanelID, p *Panel) {
		if p.IsLeaf() {
			out = append(out, lid)
		}
	})
	return out
}

// Depth counts the edges between id and its LUCA.
func (r *Registry) Depth(id PanelID) int {
	d := 0
	for p := r.Panel(id).parent; p != NoPanel; p = r.panels[p].parent {
		d++
	}
	return d
}

// FindLeafForPixelCoord descends from id and returns the first leaf whose
// unarranged extent strictly contains (x, y). Spots in inter-panel gaps
// give (NoPanel, false).
func (r *Registry) FindLeafForPixelCoord(id PanelID, x, y float64) (PanelID, bool) {
	p := r.Panel(id)
	if !p.IsLeaf() {
		for _, c := range p.children {
			if found, ok := r.FindLeafForPixelCoord(c, x, y); ok {
				return found, true
			}
		}
		return NoPanel, false
	}
	if x > float64(p.topLeft.X) && x < float64(p.bottomRight.X) &&
		y > float64(p.topLeft.Y) && y < float64(p.bottomRight.Y) {
		return id, true
	}
	return NoPanel, false
}
