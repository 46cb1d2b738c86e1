package folio

import (
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"
)

// --- Size ---

// Size is either an explicit width/height or AutoFit, in which case the
// node's box comes from its content.
type Size struct {
	w, h     float64
	explicit bool
}

// Explicit returns a fixed size.
func Explicit(w, h float64) Size {
	return Size{w: w, h: h, explicit: true}
}

// AutoFit returns a size that follows the node's content box.
func AutoFit() Size {
	return Size{}
}

// IsAuto reports whether the size follows content.
func (s Size) IsAuto() bool { return !s.explicit }

// Dimensions returns the explicit width and height. ok is false for AutoFit.
func (s Size) Dimensions() (w, h float64, ok bool) {
	return s.w, s.h, s.explicit
}

func (s Size) String() string {
	if !s.explicit {
		return "auto"
	}
	return fmt.Sprintf("%gx%g", s.w, s.h)
}

// --- Node ---

// Node is a placed rectangle in the scene. One struct covers every Kind;
// per-kind behavior is selected explicitly in BoundingBox and Relayout.
type Node struct {
	// Identity
	ID   string
	Name string
	Kind Kind

	// Hierarchy
	Parent   *Node
	children []*Node

	// Placement (local to Parent)
	X, Y             float64
	Size             Size
	Rotation         float64 // degrees in [0, 360)
	AnchorX, AnchorY float64 // pivot of auto-sized content, in [0, 1]

	// Editing flags
	Visible   bool
	Snappable bool
	Scalable  bool // resize handles apply

	// Text fields (KindText)
	Text *TextRun

	// Table fields (KindTable)
	RowPadding float64

	// Metadata
	UserData any

	// Content box of AutoFit rect nodes, or the last measured text box.
	content    BoundingBox
	hasContent bool

	measurement Measurement
	disposed    bool
}

func newNode(name string, kind Kind) *Node {
	return &Node{
		ID:        uuid.NewString(),
		Name:      name,
		Kind:      kind,
		Visible:   true,
		Snappable: true,
		Scalable:  kind != KindGroup && kind != KindTable,
	}
}

// NewRect creates a box node with an explicit size.
func NewRect(name string, w, h float64) *Node {
	n := newNode(name, KindRect)
	n.Size = Explicit(w, h)
	return n
}

// NewAutoRect creates a box node whose content box is supplied by the host
// through SetContentBox.
func NewAutoRect(name string) *Node {
	return newNode(name, KindRect)
}

// NewText creates an auto-sized text node. Call Relayout (or let a Canvas do
// it) to measure the run.
func NewText(name string, run TextRun) *Node {
	n := newNode(name, KindText)
	n.Text = &run
	return n
}

// NewGroup creates a group whose box is the union of its children.
func NewGroup(name string) *Node {
	return newNode(name, KindGroup)
}

// NewTable creates a table that stacks its children as rows separated by
// rowPadding.
func NewTable(name string, rowPadding float64) *Node {
	n := newNode(name, KindTable)
	n.RowPadding = rowPadding
	return n
}

// --- Tree ---

func (n *Node) isContainer() bool {
	return n.Kind == KindGroup || n.Kind == KindTable
}

// AddChild appends child as the last (topmost) child of n, detaching it from
// any previous parent. Only groups and tables accept children; a nil child or
// one that is an ancestor of n panics.
func (n *Node) AddChild(child *Node) {
	n.insert(child, -1, "AddChild")
}

// AddChildAt is AddChild with an explicit position in the child list.
func (n *Node) AddChildAt(child *Node, index int) {
	n.insert(child, index, "AddChildAt")
}

// insert places child at index, or at the end when index is -1.
func (n *Node) insert(child *Node, index int, op string) {
	if child == nil {
		panic("folio: " + op + " with nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, op)
		debugCheckDisposed(child, op)
	}
	if !n.isContainer() {
		panic(fmt.Sprintf("folio: %s on %s node %q, only groups and tables have children", op, n.Kind, n.Name))
	}
	if child.isAncestorOf(n) {
		panic(fmt.Sprintf("folio: %s of %q under %q would create a cycle", op, child.Name, n.Name))
	}
	child.detach()
	if index == -1 {
		index = len(n.children)
	}
	if index < 0 || index > len(n.children) {
		panic(fmt.Sprintf("folio: %s index %d out of range [0, %d]", op, index, len(n.children)))
	}
	n.children = slices.Insert(n.children, index, child)
	child.Parent = n
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from n. It panics when child belongs to another
// parent.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic(fmt.Sprintf("folio: %q is not a child of %q", child.Name, n.Name))
	}
	child.detach()
}

// RemoveFromParent detaches n from its parent, if it has one.
func (n *Node) RemoveFromParent() {
	n.detach()
}

func (n *Node) detach() {
	p := n.Parent
	if p == nil {
		return
	}
	if i := slices.Index(p.children, n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.Parent = nil
}

// isAncestorOf reports whether n is other or one of its ancestors.
func (n *Node) isAncestorOf(other *Node) bool {
	for p := other; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// Children returns the children in paint order. Callers must not modify the
// slice.
func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) NumChildren() int { return len(n.children) }

// Walk calls fn for n and every descendant, depth first, parents before
// children. Returning false skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Dispose detaches n and releases its whole subtree. Disposed nodes must not
// be reused.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.detach()
	n.release()
}

func (n *Node) release() {
	n.disposed = true
	for _, c := range n.children {
		c.release()
	}
	n.children, n.Parent, n.Text, n.UserData = nil, nil, nil, nil
}

func (n *Node) IsDisposed() bool { return n.disposed }

// --- Geometry ---

// BoundingBox returns the node's box in its local frame: the explicit size
// when set, otherwise the content box of its kind.
func (n *Node) BoundingBox() BoundingBox {
	if w, h, ok := n.Size.Dimensions(); ok {
		return BoundingBox{Width: w, Height: h}
	}
	switch n.Kind {
	case KindGroup, KindTable:
		return n.childrenBox()
	default:
		return n.content
	}
}

// Measurement returns the last text layout of a text node.
func (n *Node) Measurement() Measurement {
	return n.measurement
}

// childrenBox is the union of the visible children's boxes in this node's
// frame.
func (n *Node) childrenBox() BoundingBox {
	var u Rect
	first := true
	for _, c := range n.children {
		if !c.Visible {
			continue
		}
		m, err := c.LocalTransform()
		if err != nil {
			continue
		}
		r := m.TransformRect(c.BoundingBox().Rect())
		if first {
			u, first = r, false
			continue
		}
		u = u.Union(r)
	}
	return BoundingBox{OffsetX: u.X, OffsetY: u.Y, Width: u.Width, Height: u.Height}
}

// sized reports whether both dimensions are known for rotation.
func (n *Node) sized() bool {
	if !n.Size.IsAuto() {
		return true
	}
	switch n.Kind {
	case KindGroup, KindTable:
		return len(n.children) > 0
	default:
		return n.hasContent
	}
}

// Placement returns the inputs of ComputeTransform for this node.
func (n *Node) Placement() Placement {
	bb := n.BoundingBox()
	return Placement{
		X: n.X, Y: n.Y,
		Width: bb.Width, Height: bb.Height,
		AnchorX: n.AnchorX, AnchorY: n.AnchorY,
		Rotation: n.Rotation,
		Sized:    n.sized(),
	}
}

// LocalTransform returns the node's placement matrix in its parent's frame.
func (n *Node) LocalTransform() (Matrix, error) {
	return ComputeTransform(n.Placement())
}

// WorldTransform composes the placement matrices from the root down to n.
func (n *Node) WorldTransform() (Matrix, error) {
	m, err := n.LocalTransform()
	if err != nil {
		return Identity, err
	}
	for p := n.Parent; p != nil; p = p.Parent {
		pm, err := p.LocalTransform()
		if err != nil {
			return Identity, err
		}
		m = pm.Multiply(m)
	}
	return m, nil
}

// parentWorld returns the world matrix of n's parent frame.
func (n *Node) parentWorld() (Matrix, error) {
	if n.Parent == nil {
		return Identity, nil
	}
	return n.Parent.WorldTransform()
}

// WorldToLocal maps a world point into the node's own frame.
func (n *Node) WorldToLocal(p Vec2) (Vec2, error) {
	m, err := n.WorldTransform()
	if err != nil {
		return Vec2{}, err
	}
	return m.Invert().Apply(p), nil
}

// LocalToWorld maps a point in the node's frame to world coordinates.
func (n *Node) LocalToWorld(p Vec2) (Vec2, error) {
	m, err := n.WorldTransform()
	if err != nil {
		return Vec2{}, err
	}
	return m.Apply(p), nil
}

// WorldBounds returns the axis-aligned world bounds of the node's box.
func (n *Node) WorldBounds() (Rect, error) {
	m, err := n.WorldTransform()
	if err != nil {
		return Rect{}, err
	}
	return m.TransformRect(n.BoundingBox().Rect()), nil
}

// topLeft returns the unrotated top-left translation of a w by h box.
func (n *Node) topLeft(w, h float64) Vec2 {
	return Vec2{n.X - n.AnchorX*w, n.Y - n.AnchorY*h}
}

func (n *Node) setTopLeft(tl Vec2, w, h float64) {
	n.X = tl.X + n.AnchorX*w
	n.Y = tl.Y + n.AnchorY*h
}

// --- Mutations ---

// SetPosition sets the node's local X and Y.
func (n *Node) SetPosition(x, y float64) error {
	if err := checkFinite("set position", []string{"x", "y"}, x, y); err != nil {
		return err
	}
	n.X, n.Y = x, y
	return nil
}

// SetRotation sets the rotation in degrees, normalized to [0, 360), and
// shifts the position so the box center stays where it was on screen.
func (n *Node) SetRotation(deg float64) error {
	if err := checkFinite("set rotation", []string{"rotation"}, deg); err != nil {
		return err
	}
	next := NormalizeRotation(deg)
	if n.sized() {
		bb := n.BoundingBox()
		// The transform pivots on (w/2, h/2); only a box offset from the
		// origin moves with the rotation.
		rel := BoundingBox{
			OffsetX: bb.OffsetX - bb.Width/2,
			OffsetY: bb.OffsetY - bb.Height/2,
			Width:   bb.Width,
			Height:  bb.Height,
		}
		p, err := ComputeRotateReposition(n.Rotation, next, rel, Vec2{n.X, n.Y})
		if err != nil {
			return err
		}
		n.X, n.Y = p.X, p.Y
	}
	n.Rotation = next
	return nil
}

// ResizeTo changes the box to newW by newH as if dragged by handle h,
// keeping the edge opposite the handle fixed on screen. AutoFit rect nodes
// become explicitly sized. Text nodes use ResizeText.
func (n *Node) ResizeTo(h ResizeHandle, newW, newH float64, policy NegativeSizePolicy) error {
	if !h.valid() {
		return fmt.Errorf("folio: resize %s: %w", n.Name, invalidConfig("unknown resize handle %d", h))
	}
	if err := checkFinite("resize", []string{"width", "height"}, newW, newH); err != nil {
		return err
	}
	bb := n.BoundingBox()
	sx, sy := HandleSigns(h)
	tl, w, hh, err := ResolveResize(policy, bb.Width, bb.Height, newW, newH, sx, sy, n.Rotation, n.topLeft(bb.Width, bb.Height))
	if err != nil {
		return fmt.Errorf("folio: resize %s: %w", n.Name, err)
	}
	n.Size = Explicit(w, hh)
	n.setTopLeft(tl, w, hh)
	return nil
}

// ResizeBy applies a parent-space drag delta to handle h. The delta is
// first projected onto the handle's axis so movement across it is ignored.
func (n *Node) ResizeBy(h ResizeHandle, delta Vec2, policy NegativeSizePolicy) error {
	local, err := n.projectDrag(h, delta)
	if err != nil {
		return err
	}
	bb := n.BoundingBox()
	dw, dh := ResizeDelta(h, local)
	return n.ResizeTo(h, bb.Width+dw, bb.Height+dh, policy)
}

// projectDrag maps a parent-space delta onto h's axis in the local frame.
func (n *Node) projectDrag(h ResizeHandle, delta Vec2) (Vec2, error) {
	m := RotateDegrees(n.Rotation)
	return ProjectDrag(delta, h, m)
}

// ResizeText changes the wrap width of a text node from a left or right
// handle and re-measures it with p. The height follows the new layout; the
// top corner on the side opposite the handle stays fixed. Vertical handles
// set an explicit height on the run.
//
// Text always needs room, so under Allow and Clamp a request below
// MinTextExtent (plus padding) is raised to it. Flip mirrors a negative
// request past the fixed edge, like ResizeTo.
func (n *Node) ResizeText(h ResizeHandle, newW, newH float64, policy NegativeSizePolicy, p MeasurementProvider) (Measurement, error) {
	if n.Kind != KindText || n.Text == nil {
		return Measurement{}, fmt.Errorf("folio: resize text %s: %w", n.Name, invalidConfig("not a text node"))
	}
	if !h.valid() {
		return Measurement{}, fmt.Errorf("folio: resize text %s: %w", n.Name, invalidConfig("unknown resize handle %d", h))
	}
	if err := checkFinite("resize text", []string{"width", "height"}, newW, newH); err != nil {
		return Measurement{}, err
	}

	old := n.BoundingBox()
	run := *n.Text
	horizontal := h == HandleLeft || h == HandleRight
	req := newH
	if horizontal {
		req = newW
	}
	extent, flipped, err := textExtent(req, run.Padding, policy)
	if err != nil {
		return Measurement{}, fmt.Errorf("folio: resize text %s: %w", n.Name, err)
	}
	var sx, sy float64
	switch h {
	case HandleLeft:
		run.Width = extent
		sx, sy = 1, -1
	case HandleRight:
		run.Width = extent
		sx, sy = -1, -1
	default:
		run.Height = extent
		sx, sy = HandleSigns(h)
	}

	m, err := LayoutText(run, p)
	if err != nil {
		return m, err
	}
	w, hh := m.Width, m.Height
	if flipped && horizontal {
		w = -w
	} else if flipped {
		hh = -hh
	}
	tl, err := ComputeResizeReposition(old.Width, old.Height, w, hh, sx, sy, n.Rotation, n.topLeft(old.Width, old.Height))
	if err != nil {
		return m, err
	}
	// A flipped box extends back past the fixed edge.
	if w < 0 {
		tl.X += w
	}
	if hh < 0 {
		tl.Y += hh
	}
	*n.Text = run
	n.Size = AutoFit()
	n.measurement = m
	n.content, n.hasContent = m.Box(), true
	n.setTopLeft(tl, m.Width, m.Height)
	return m, nil
}

// textExtent resolves a requested text box extent under policy. flipped
// reports that a negative request was mirrored.
func textExtent(req, padding float64, policy NegativeSizePolicy) (extent float64, flipped bool, err error) {
	switch policy {
	case NegativeSizeAllow, NegativeSizeClamp:
	case NegativeSizeFlip:
		if req < 0 {
			req, flipped = -req, true
		}
	default:
		return 0, false, invalidConfig("unknown negative size policy %d", policy)
	}
	return math.Max(req, MinTextExtent+2*padding), flipped, nil
}

// SetContentBox updates the content box of an AutoFit node, repositioning
// it so the anchor point stays fixed on screen. Explicitly sized nodes only
// record the box.
func (n *Node) SetContentBox(box BoundingBox) error {
	if err := checkFinite("set content box",
		[]string{"offsetX", "offsetY", "width", "height"},
		box.OffsetX, box.OffsetY, box.Width, box.Height); err != nil {
		return err
	}
	if n.Size.IsAuto() && n.hasContent && n.Rotation != 0 {
		old := n.content
		sx, sy := 2*n.AnchorX-1, 2*n.AnchorY-1
		tl, err := ComputeResizeReposition(old.Width, old.Height, box.Width, box.Height, sx, sy, n.Rotation, n.topLeft(old.Width, old.Height))
		if err != nil {
			return err
		}
		n.setTopLeft(tl, box.Width, box.Height)
	}
	n.content, n.hasContent = box, true
	return nil
}

// Relayout re-measures a text node with p and feeds the result through
// SetContentBox, or stacks the rows of a table. Other kinds are unchanged.
func (n *Node) Relayout(p MeasurementProvider) (Measurement, error) {
	switch n.Kind {
	case KindText:
		if n.Text == nil {
			return Measurement{}, nil
		}
		run := *n.Text
		if w, h, ok := n.Size.Dimensions(); ok {
			run.Width, run.Height = w, h
		}
		m, err := LayoutText(run, p)
		if err != nil {
			n.measurement = Measurement{}
			n.content, n.hasContent = BoundingBox{}, false
			return m, err
		}
		n.measurement = m
		return m, n.SetContentBox(m.Box())
	case KindTable:
		n.StackRows()
	}
	return Measurement{}, nil
}

// StackRows positions a table's visible children top to bottom, separated
// by RowPadding, starting at y = 0.
func (n *Node) StackRows() {
	y := 0.0
	for _, c := range n.children {
		if !c.Visible {
			continue
		}
		bb := c.BoundingBox()
		c.Y = y - bb.OffsetY + c.AnchorY*bb.Height
		y += bb.Height + n.RowPadding
	}
}
