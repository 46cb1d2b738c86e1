package folio

import "math"

const (
	defaultDragDeadZone = 4.0 // pixels
	defaultHandleRadius = 8.0 // pixels
)

// --- Handles ---

// HandlePoint returns the local position of handle h: the midpoint of the
// edge it drags.
func HandlePoint(h ResizeHandle, bb BoundingBox) Vec2 {
	switch h {
	case HandleRight:
		return Vec2{bb.OffsetX + bb.Width, bb.OffsetY + bb.Height/2}
	case HandleLeft:
		return Vec2{bb.OffsetX, bb.OffsetY + bb.Height/2}
	case HandleTop:
		return Vec2{bb.OffsetX + bb.Width/2, bb.OffsetY}
	default:
		return Vec2{bb.OffsetX + bb.Width/2, bb.OffsetY + bb.Height}
	}
}

// HandleWorld returns the world position of handle h of n.
func (n *Node) HandleWorld(h ResizeHandle) (Vec2, error) {
	return n.LocalToWorld(HandlePoint(h, n.BoundingBox()))
}

// HitHandle returns the handle of n closest to the world point p, if any
// lies within radius world units. Nodes that are not Scalable have no
// handles.
func HitHandle(n *Node, p Vec2, radius float64) (ResizeHandle, bool, error) {
	if !n.Scalable || !n.Visible {
		return 0, false, nil
	}
	best, found := ResizeHandle(0), false
	bestDist := math.Inf(1)
	for _, h := range [...]ResizeHandle{HandleRight, HandleLeft, HandleTop, HandleBottom} {
		hp, err := n.HandleWorld(h)
		if err != nil {
			return 0, false, err
		}
		d := Magnitude(p.Sub(hp))
		if d <= radius && d < bestDist {
			best, bestDist, found = h, d, true
		}
	}
	return best, found, nil
}

// --- Hit testing ---

// nodeContainsLocal tests whether p falls inside a node's box.
// Zero-sized boxes are not hit-testable.
func nodeContainsLocal(n *Node, p Vec2) bool {
	bb := n.BoundingBox()
	if bb.Width == 0 && bb.Height == 0 {
		return false
	}
	return bb.Rect().Contains(p.X, p.Y)
}

// collectHittable walks the tree in paint order (DFS), appending visible
// nodes to buf. Skips Visible=false subtrees.
func collectHittable(n *Node, buf []*Node) []*Node {
	if !n.Visible {
		return buf
	}
	buf = append(buf, n)
	for _, child := range n.children {
		buf = collectHittable(child, buf)
	}
	return buf
}

// HitTest finds the topmost visible node under the world point p, skipping
// root itself. Returns nil if nothing is hit.
func HitTest(root *Node, p Vec2) *Node {
	var buf []*Node
	for _, c := range root.children {
		buf = collectHittable(c, buf)
	}

	// Iterate backward (reverse paint order): topmost visual node first.
	for i := len(buf) - 1; i >= 0; i-- {
		n := buf[i]
		lp, err := n.WorldToLocal(p)
		if err != nil {
			continue
		}
		if nodeContainsLocal(n, lp) {
			return n
		}
	}
	return nil
}

// --- Drag tracking ---

// dragTracker turns a pressed pointer's positions into drag deltas once the
// pointer has moved farther than the dead zone from where it was pressed.
// Positions are in screen pixels.
type dragTracker struct {
	deadZone float64
	down     bool
	dragging bool
	start    Vec2
	last     Vec2
}

func (d *dragTracker) press(p Vec2) {
	d.down = true
	d.dragging = false
	d.start = p
	d.last = p
}

// move records p and returns the movement since the previous reported
// position. ok is false while the pointer is up or inside the dead zone.
// The first reported delta covers the whole move from the press point.
func (d *dragTracker) move(p Vec2) (delta Vec2, ok bool) {
	if !d.down || p == d.last {
		return Vec2{}, false
	}
	if !d.dragging {
		if Magnitude(p.Sub(d.start)) <= d.deadZone {
			d.last = p
			return Vec2{}, false
		}
		d.dragging = true
		d.last = d.start
	}
	delta = p.Sub(d.last)
	d.last = p
	return delta, true
}

// release ends the gesture and reports whether a drag took place.
func (d *dragTracker) release() bool {
	was := d.dragging
	d.down = false
	d.dragging = false
	return was
}
