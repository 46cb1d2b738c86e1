package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/folio"
)

type pointOutput struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type transformOutput struct {
	Matrix [6]float64    `json:"matrix"`
	Points []pointOutput `json:"points,omitempty"`
}

// transformCommand creates the transform command for printing a node's
// local-to-parent matrix.
func (c *CLI) transformCommand() *cobra.Command {
	var (
		p       folio.Placement
		auto    bool
		points  []string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Compute the placement matrix of a node",
		Long: `Compute the placement matrix of a node.

The node is translated to (x, y) less its anchor offset and rotated about its
center. An --auto node has no content size yet and is only translated.
Each --point is mapped from the node's local frame into its parent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Sized = !auto
			m, err := folio.ComputeTransform(p)
			if err != nil {
				return err
			}
			out := transformOutput{Matrix: m}
			for _, s := range points {
				v, err := parsePoint(s)
				if err != nil {
					return err
				}
				mapped := m.Apply(v)
				out.Points = append(out.Points, pointOutput{X: mapped.X, Y: mapped.Y})
			}
			loggerFromContext(cmd.Context()).Debug("transform computed", "rotation", p.Rotation, "sized", p.Sized)

			w := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(w, out)
			}
			printMatrix(w, m)
			for i, pt := range out.Points {
				printKeyValue(w, points[i], fmt.Sprintf("%.4f, %.4f", pt.X, pt.Y))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&p.X, "x", 0, "x position")
	cmd.Flags().Float64Var(&p.Y, "y", 0, "y position")
	cmd.Flags().Float64Var(&p.Width, "width", 0, "box width")
	cmd.Flags().Float64Var(&p.Height, "height", 0, "box height")
	cmd.Flags().Float64Var(&p.AnchorX, "anchor-x", 0, "horizontal anchor (0 = left, 1 = right)")
	cmd.Flags().Float64Var(&p.AnchorY, "anchor-y", 0, "vertical anchor (0 = top, 1 = bottom)")
	cmd.Flags().Float64VarP(&p.Rotation, "rotation", "r", 0, "rotation in degrees")
	cmd.Flags().BoolVar(&auto, "auto", false, "content size unknown: translate only")
	cmd.Flags().StringArrayVarP(&points, "point", "p", nil, "local point x,y to map (repeatable)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON")

	return cmd
}

// parsePoint parses "x,y".
func parsePoint(s string) (folio.Vec2, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return folio.Vec2{}, fmt.Errorf("point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return folio.Vec2{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return folio.Vec2{}, fmt.Errorf("point %q: %w", s, err)
	}
	return folio.Vec2{X: x, Y: y}, nil
}
