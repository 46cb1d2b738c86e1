package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/folio"
)

type boxOutput struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type resizeOptions struct {
	handle   string
	x, y     float64
	width    float64
	height   float64
	rotation float64
	dx, dy   float64
	policy   string
	jsonOut  bool
}

// resizeCommand creates the resize command for dragging a handle.
func (c *CLI) resizeCommand() *cobra.Command {
	var opts resizeOptions

	cmd := &cobra.Command{
		Use:   "resize",
		Short: "Drag a resize handle of a rotated box",
		Long: `Drag a resize handle of a rotated box.

The parent-space drag (--dx, --dy) is projected onto the handle's axis and
applied to the box. The returned top-left keeps the edge opposite the handle
fixed. Sizes that would become negative follow --policy (allow, clamp or
flip), defaulting to the config negative_size.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResize(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.handle, "handle", "right", "handle: right, left, top, bottom")
	cmd.Flags().Float64Var(&opts.x, "x", 0, "top-left x")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "top-left y")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "current width")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "current height")
	cmd.Flags().Float64VarP(&opts.rotation, "rotation", "r", 0, "rotation in degrees")
	cmd.Flags().Float64Var(&opts.dx, "dx", 0, "drag delta x in parent space")
	cmd.Flags().Float64Var(&opts.dy, "dy", 0, "drag delta y in parent space")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "negative size policy: allow, clamp, flip")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")

	return cmd
}

func (c *CLI) runResize(cmd *cobra.Command, opts resizeOptions) error {
	h, err := folio.ParseResizeHandle(opts.handle)
	if err != nil {
		return err
	}
	policy, err := c.policy(opts.policy)
	if err != nil {
		return err
	}

	local, err := folio.ProjectDrag(folio.Vec2{X: opts.dx, Y: opts.dy}, h, folio.RotateDegrees(opts.rotation))
	if err != nil {
		return err
	}
	dw, dh := folio.ResizeDelta(h, local)
	sx, sy := folio.HandleSigns(h)
	pos, w, ht, err := folio.ResolveResize(policy, opts.width, opts.height, opts.width+dw, opts.height+dh,
		sx, sy, opts.rotation, folio.Vec2{X: opts.x, Y: opts.y})
	if err != nil {
		return err
	}
	loggerFromContext(cmd.Context()).Debug("resize",
		"handle", h, "policy", policy, "dw", dw, "dh", dh)

	out := boxOutput{X: pos.X, Y: pos.Y, Width: w, Height: ht}
	return printBox(cmd, "Resized", out, opts.jsonOut)
}

type rotateOptions struct {
	x, y     float64
	width    float64
	height   float64
	from, to float64
	jsonOut  bool
}

// rotateCommand creates the rotate command for turning a box about its
// center.
func (c *CLI) rotateCommand() *cobra.Command {
	var opts rotateOptions

	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Rotate a box about its center",
		Long: `Rotate a box about its center.

Returns the position that keeps the box center fixed when its rotation about
the local origin changes from --from to --to degrees.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			box := folio.BoundingBox{Width: opts.width, Height: opts.height}
			pos, err := folio.ComputeRotateReposition(opts.from, opts.to, box, folio.Vec2{X: opts.x, Y: opts.y})
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("rotate",
				"from", folio.NormalizeRotation(opts.from), "to", folio.NormalizeRotation(opts.to))
			out := boxOutput{X: pos.X, Y: pos.Y, Width: opts.width, Height: opts.height}
			return printBox(cmd, "Rotated", out, opts.jsonOut)
		},
	}

	cmd.Flags().Float64Var(&opts.x, "x", 0, "position x")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "position y")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "box width")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "box height")
	cmd.Flags().Float64Var(&opts.from, "from", 0, "current rotation in degrees")
	cmd.Flags().Float64Var(&opts.to, "to", 0, "new rotation in degrees")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")

	return cmd
}

func printBox(cmd *cobra.Command, title string, b boxOutput, jsonOut bool) error {
	w := cmd.OutOrStdout()
	if jsonOut {
		return writeJSON(w, b)
	}
	printSuccess(w, "%s", title)
	printKeyValue(w, "position", fmt.Sprintf("%.4f, %.4f", b.X, b.Y))
	printKeyValue(w, "size", fmt.Sprintf("%.4f x %.4f", b.Width, b.Height))
	return nil
}
