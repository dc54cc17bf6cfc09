package detgeom

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrParse is wrapped by every geometry text error.
var ErrParse = errors.New("geometry parse error")

type geomBlock struct {
	tag      string
	line     int
	p        *Panel
	children []*geomBlock
}

func parseErr(line int, format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s: %w", line, fmt.Sprintf(format, args...), ErrParse)
}

// splitPairs turns "a = 1 b=2" into [[a 1] [b 2]].
func splitPairs(s string) ([][2]string, bool) {
	fields := strings.Fields(strings.ReplaceAll(s, "=", " = "))
	if len(fields)%3 != 0 {
		return nil, false
	}
	out := make([][2]string, 0, len(fields)/3)
	for i := 0; i < len(fields); i += 3 {
		if fields[i+1] != "=" || fields[i] == "=" || fields[i+2] == "=" {
			return nil, false
		}
		out = append(out, [2]string{fields[i], fields[i+2]})
	}
	return out, true
}

func setKey(p *Panel, key, val string) error {
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fmt.Errorf("bad value %q for %s", val, key)
	}
	if !isFinite(v) {
		return fmt.Errorf("non-finite value for %s", key)
	}
	asInt := func() (int, error) {
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%s must be an integer, got %s", key, val)
		}
		return int(v), nil
	}
	switch key {
	case "min_fs", "min_ss", "max_fs", "max_ss":
		n, err := asInt()
		if err != nil {
			return err
		}
		switch key {
		case "min_fs":
			p.topLeft.X = n
		case "min_ss":
			p.topLeft.Y = n
		case "max_fs":
			p.bottomRight.X = n
		default:
			p.bottomRight.Y = n
		}
	case "fs_x":
		p.fastDirection.X = v
	case "fs_y":
		p.fastDirection.Y = v
	case "fs_z":
		p.fastDirection.Z = v
	case "ss_x":
		p.slowDirection.X = v
	case "ss_y":
		p.slowDirection.Y = v
	case "ss_z":
		p.slowDirection.Z = v
	case "midpoint_x":
		p.arrangedMidPoint.X = v
	case "midpoint_y":
		p.arrangedMidPoint.Y = v
	case "midpoint_z":
		p.arrangedMidPoint.Z = v
	case "alpha":
		p.rotationAngles.X = v
	case "beta":
		p.rotationAngles.Y = v
	case "gamma":
		p.rotationAngles.Z = v
	case "gain":
		p.gain = v
	case "refinable":
		p.refinable = v != 0
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

// readBlocks tokenizes the geometry text into a block tree without touching
// the registry.
func readBlocks(rd io.Reader) (*geomBlock, error) {
	var (
		root    *geomBlock
		stack   []*geomBlock
		pending *geomBlock
		lineNo  int
	)
	open := func() error {
		if pending == nil {
			return parseErr(lineNo, "'{' without a panel header")
		}
		if len(stack) == 0 {
			if root != nil {
				return parseErr(lineNo, "second top-level panel %q", pending.tag)
			}
			root = pending
		} else {
			top := stack[len(stack)-1]
			top.children = append(top.children, pending)
		}
		stack = append(stack, pending)
		pending = nil
		return nil
	}

	sc := bufio.NewScanner(rd)
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexAny(line, ";#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if pending != nil && line != "{" {
			return nil, parseErr(lineNo, "expected '{' after panel %q", pending.tag)
		}
		switch {
		case strings.HasPrefix(line, "panel ") || strings.HasPrefix(line, "panel\t"):
			rest := strings.TrimSpace(line[len("panel"):])
			brace := strings.HasSuffix(rest, "{")
			rest = strings.TrimSpace(strings.TrimSuffix(rest, "{"))
			if rest == "" || strings.ContainsAny(rest, " \t{}=") {
				return nil, parseErr(lineNo, "bad panel header %q", line)
			}
			pending = &geomBlock{tag: rest, line: lineNo, p: newPanel(rest)}
			if brace {
				if err := open(); err != nil {
					return nil, err
				}
			}
		case line == "{":
			if err := open(); err != nil {
				return nil, err
			}
		case line == "}":
			if len(stack) == 0 {
				return nil, parseErr(lineNo, "unbalanced '}'")
			}
			stack = stack[:len(stack)-1]
		default:
			if len(stack) == 0 {
				return nil, parseErr(lineNo, "key outside a panel block")
			}
			pairs, ok := splitPairs(line)
			if !ok {
				return nil, parseErr(lineNo, "malformed line %q", line)
			}
			top := stack[len(stack)-1]
			for _, kv := range pairs {
				if err := setKey(top.p, kv[0], kv[1]); err != nil {
					return nil, parseErr(lineNo, "panel %q: %v", top.tag, err)
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading geometry: %w", err)
	}
	if pending != nil {
		return nil, parseErr(lineNo, "panel %q has no body", pending.tag)
	}
	if len(stack) != 0 {
		return nil, parseErr(lineNo, "panel %q is not closed", stack[len(stack)-1].tag)
	}
	if root == nil {
		return nil, parseErr(lineNo, "no panels")
	}
	return root, nil
}

// validate checks tags and bases over the whole block tree so that building
// cannot hit a precondition panic.
func (r *Registry) validate(b *geomBlock, seen map[string]bool) error {
	if seen[b.tag] {
		return parseErr(b.line, "duplicate panel tag %q", b.tag)
	}
	if _, exists := r.byTag[b.tag]; exists {
		return parseErr(b.line, "panel tag %q already in the registry", b.tag)
	}
	seen[b.tag] = true
	p := b.p
	if !p.basisOK() {
		return parseErr(b.line, "panel %q: fast %v and slow %v must be unit length", b.tag, p.fastDirection, p.slowDirection)
	}
	frame := FromColumns(p.fastDirection, p.slowDirection, p.fastDirection.Cross(p.slowDirection))
	if math.Abs(frame.Det()) < SingularTolerance {
		return parseErr(b.line, "panel %q: fast and slow directions are parallel", b.tag)
	}
	if len(b.children) == 0 {
		if p.bottomRight.X < p.topLeft.X || p.bottomRight.Y < p.topLeft.Y {
			return parseErr(b.line, "panel %q: max corner before min corner", b.tag)
		}
	}
	for _, c := range b.children {
		if err := r.validate(c, seen); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) build(b *geomBlock, parent PanelID) (PanelID, error) {
	p := b.p
	p.setUnarranged(p.topLeft, p.bottomRight)
	id := r.add(p)
	if parent != NoPanel {
		if err := r.AddChild(parent, id); err != nil {
			return NoPanel, err
		}
	}
	for _, c := range b.children {
		if _, err := r.build(c, id); err != nil {
			return NoPanel, err
		}
	}
	return id, nil
}

// ParseGeometry reads the nested panel text format and installs the tree
// as the registry's root. The top-level block's midpoint is absolute; every
// other midpoint is relative to its parent. On error the registry is left
// untouched.
func (r *Registry) ParseGeometry(rd io.Reader) error {
	if r.root != NoPanel {
		return ErrRootExists
	}
	top, err := readBlocks(rd)
	if err != nil {
		return err
	}
	if err := r.validate(top, map[string]bool{}); err != nil {
		return err
	}
	root, err := r.build(top, NoPanel)
	if err != nil {
		return err
	}
	if err := r.SetRoot(root); err != nil {
		return err
	}
	r.Refresh()
	diagf("run %s: parsed %d panels (%d leaves)", r.RunID, len(r.panels), len(r.Leaves(root)))
	return nil
}
