package folio

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup drives one geometry edit over time. Values are written through
// the node's setters, so a rotation tween spins about the box center and a
// size tween keeps the edge opposite its handle fixed.
//
// Nothing ticks a group for you: call Update once per frame until Done.
type TweenGroup struct {
	Done bool
	// Err is the first setter error. The group stops when it is set.
	Err error

	node   *Node
	tracks []*gween.Tween
	write  func(v []float64) error
	vals   []float64
}

func newTweenGroup(node *Node, duration float32, fn ease.TweenFunc, write func([]float64) error, from, to []float64) *TweenGroup {
	g := &TweenGroup{node: node, write: write, vals: make([]float64, len(from))}
	for i := range from {
		g.tracks = append(g.tracks, gween.New(float32(from[i]), float32(to[i]), duration, fn))
	}
	return g
}

// Update advances the group by dt seconds. A disposed target ends the group
// without writing.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.node.IsDisposed() {
		g.Done = true
		return
	}
	finished := true
	for i, tr := range g.tracks {
		v, end := tr.Update(dt)
		g.vals[i] = float64(v)
		finished = finished && end
	}
	if err := g.write(g.vals); err != nil {
		g.Err = err
		finished = true
	}
	g.Done = finished
}

// TweenPosition moves node to (toX, toY) in its parent's frame.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn,
		func(v []float64) error { return node.SetPosition(v[0], v[1]) },
		[]float64{node.X, node.Y}, []float64{toX, toY})
}

// TweenRotation turns node by delta degrees about its box center. Negative
// deltas turn counter-clockwise.
func TweenRotation(node *Node, delta float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := node.Rotation
	return newTweenGroup(node, duration, fn,
		func(v []float64) error { return node.SetRotation(v[0]) },
		[]float64{from}, []float64{from + delta})
}

// TweenSize resizes node to (toW, toH) as if dragged by handle h.
func TweenSize(node *Node, h ResizeHandle, toW, toH float64, policy NegativeSizePolicy, duration float32, fn ease.TweenFunc) *TweenGroup {
	bb := node.BoundingBox()
	return newTweenGroup(node, duration, fn,
		func(v []float64) error { return node.ResizeTo(h, v[0], v[1], policy) },
		[]float64{bb.Width, bb.Height}, []float64{toW, toH})
}
