package detgeom

import (
	"io"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
)

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

type geomWriter struct {
	sb *strings.Builder
}

func (w geomWriter) line(depth int, s string) {
	w.sb.WriteString(strings.Repeat(GeometryIndent, depth))
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
}

func (w geomWriter) key(depth int, k, v string) { w.line(depth, k+" = "+v) }

func (w geomWriter) vec(depth int, prefix string, v r3.Vector, names [3]string) {
	w.key(depth, prefix+names[0], formatFloat(v.X))
	w.key(depth, prefix+names[1], formatFloat(v.Y))
	w.key(depth, prefix+names[2], formatFloat(v.Z))
}

var xyz = [3]string{"x", "y", "z"}

func (r *Registry) writePanel(w geomWriter, id PanelID, depth int) {
	p := r.panels[id]
	w.line(depth, "panel "+p.tag)
	w.line(depth, "{")
	in := depth + 1
	w.key(in, "min_fs", strconv.Itoa(p.topLeft.X))
	w.key(in, "min_ss", strconv.Itoa(p.topLeft.Y))
	w.key(in, "max_fs", strconv.Itoa(p.bottomRight.X))
	w.key(in, "max_ss", strconv.Itoa(p.bottomRight.Y))
	w.vec(in, "fs_", p.fastDirection, xyz)
	w.vec(in, "ss_", p.slowDirection, xyz)
	w.vec(in, "midpoint_", p.arrangedMidPoint, xyz)
	w.vec(in, "", p.rotationAngles, [3]string{"alpha", "beta", "gamma"})
	if p.gain != 1 {
		w.key(in, "gain", formatFloat(p.gain))
	}
	if !p.refinable {
		w.key(in, "refinable", "0")
	}
	for _, c := range p.children {
		w.sb.WriteByte('\n')
		r.writePanel(w, c, in)
	}
	w.line(depth, "}")
}

// GeometryString renders the tree in the nested panel text format. The
// output is a pure function of the current canonical geometry; trial nudges
// are not written (see LockNudges).
func (r *Registry) GeometryString() string {
	if r.root == NoPanel {
		return ""
	}
	var sb strings.Builder
	r.writePanel(geomWriter{sb: &sb}, r.root, 0)
	return sb.String()
}

// WriteGeometry writes GeometryString to w.
func (r *Registry) WriteGeometry(w io.Writer) error {
	_, err := io.WriteString(w, r.GeometryString())
	return err
}
