package detgeom

import (
	"fmt"
	"strings"
)

// Describe returns a human readable summary of id (and its descendants when
// propagate is set) and logs it on the diag stream.
func (r *Registry) Describe(id PanelID, propagate bool) string {
	var sb strings.Builder
	r.describe(&sb, id, propagate)
	out := sb.String()
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		diagf("run %s: %s", r.RunID, line)
	}
	return out
}

func (r *Registry) describe(sb *strings.Builder, id PanelID, propagate bool) {
	p := r.Panel(id)
	indent := strings.Repeat(GeometryIndent, r.Depth(id))
	kind := "group"
	if p.IsLeaf() {
		kind = "leaf"
	}
	fmt.Fprintf(sb, "%s%s %q (%d children, refinable=%v)\n", indent, kind, p.tag, len(p.children), p.refinable)
	if p.IsLeaf() {
		fmt.Fprintf(sb, "%s  pixels %v-%v\n", indent, p.topLeft, p.bottomRight)
	}
	fmt.Fprintf(sb, "%s  arranged midpoint %.3f %.3f %.3f\n", indent,
		p.arrangedMidPoint.X, p.arrangedMidPoint.Y, p.arrangedMidPoint.Z)
	abs := r.AbsoluteMidPoint(id)
	fmt.Fprintf(sb, "%s  absolute midpoint %.3f %.3f %.3f\n", indent, abs.X, abs.Y, abs.Z)
	fmt.Fprintf(sb, "%s  angles %.5f %.5f %.5f normal %.4f %.4f %.4f\n", indent,
		p.rotationAngles.X, p.rotationAngles.Y, p.rotationAngles.Z,
		p.normal.X, p.normal.Y, p.normal.Z)
	if !propagate {
		return
	}
	for _, c := range p.children {
		r.describe(sb, c, true)
	}
}

// FullDescription describes the whole tree from the root.
func (r *Registry) FullDescription() string {
	if r.root == NoPanel {
		return ""
	}
	return r.Describe(r.root, true)
}
