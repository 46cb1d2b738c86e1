// Package folio is the geometry and text-layout core of an editable 2D
// canvas of boxes, text blocks, groups and tables.
//
// Folio answers the questions an editor asks on every pointer frame: where
// a node is drawn, where it must move so that the edge opposite a dragged
// handle stays put, how far it must shift to line up with its neighbours,
// and how its text wraps. Everything is a pure function of its inputs;
// rendering, input capture, undo history and persistence belong to the host.
//
// # Geometry
//
// A node's placement is translate-then-rotate-about-center:
//
//	m, err := folio.ComputeTransform(folio.Placement{
//		X: 100, Y: 50, Width: 80, Height: 40, Rotation: 30, Sized: true,
//	})
//
// Resizing under rotation keeps the handle's opposite reference point fixed:
//
//	sx, sy := folio.HandleSigns(folio.HandleLeft)
//	pos, err := folio.ComputeResizeReposition(80, 40, 120, 40, sx, sy, 30, pos)
//
// # Snapping
//
// [SnapCandidates] turns boxes into guide lines and [FindSnapCorrections]
// finds the closest line per axis within a threshold:
//
//	res, err := folio.FindSnapCorrections(moving, others, 5)
//	x, y = x-res.DX, y-res.DY
//
// # Text
//
// [LayoutText] wraps, truncates and aligns a [TextRun] using a
// [MeasurementProvider]. Concrete providers backed by bitmap fonts,
// TrueType fonts (via [Ebitengine] text/v2) and golang.org/x/image faces
// live in the typeset package.
//
// # Canvas
//
// [Canvas] is a ready-made host loop: it owns a node tree rooted at
// [Canvas.Root], re-measures text through a [MeasureCache], and turns
// pointer gestures into snapped moves, handle resizes and rotations. Its
// [Viewport] converts screen pixels to world units and animates zoom with
// [gween] tweens.
//
//	c, err := folio.NewCanvas(folio.DefaultConfig(), folio.Rect{Width: 1280, Height: 720}, provider)
//	box := folio.NewRect("box", 80, 40)
//	c.Root().AddChild(box)
//	c.BeginMove(box, folio.Vec2{X: 10, Y: 10})
//	err = c.PointerMove(folio.Vec2{X: 60, Y: 30})
//	c.PointerUp()
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package folio
