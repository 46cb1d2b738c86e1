package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/folio"
)

type snapBox struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation,omitempty"`
}

func (b snapBox) lines() []folio.SnapLine {
	return folio.SnapCandidates(b.ID, folio.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}, b.Rotation)
}

// snapInput is the scene read by the snap command. Boxes are world-space
// bounds; Zoom scales the configured pixel threshold.
type snapInput struct {
	Moving snapBox   `json:"moving"`
	Others []snapBox `json:"others"`
	Zoom   float64   `json:"zoom,omitempty"`
}

type snapMatchOutput struct {
	Axis   string  `json:"axis"`
	Moving float64 `json:"moving"`
	Other  float64 `json:"other"`
	Owner  string  `json:"owner"`
	Delta  float64 `json:"delta"`
}

type snapOutput struct {
	DX        float64           `json:"dx"`
	DY        float64           `json:"dy"`
	X         float64           `json:"x"`
	Y         float64           `json:"y"`
	Threshold float64           `json:"threshold"`
	Matches   []snapMatchOutput `json:"matches"`
}

// snapCommand creates the snap command for aligning a box to others.
func (c *CLI) snapCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "snap [scene.json]",
		Short: "Find the snap correction for a moving box",
		Long: `Find the snap correction for a moving box.

Reads {"moving": box, "others": [box...], "zoom": z} from the file or stdin,
where a box is {"id", "x", "y", "width", "height", "rotation"}. The moving
box's centers and (when unrotated) edges are compared with every other
box's lines within snap_threshold_px / zoom world units.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			var in snapInput
			if err := readJSON(cmd, path, &in); err != nil {
				return err
			}
			return c.runSnap(cmd, in, jsonOut)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON")

	return cmd
}

func (c *CLI) runSnap(cmd *cobra.Command, in snapInput, jsonOut bool) error {
	logger := loggerFromContext(cmd.Context())
	if in.Zoom == 0 {
		in.Zoom = 1
	}
	threshold, err := folio.SnapThreshold(c.cfg.SnapThresholdPx, in.Zoom)
	if err != nil {
		return err
	}

	var others []folio.SnapLine
	for _, b := range in.Others {
		others = append(others, b.lines()...)
	}

	var res folio.SnapResult
	if c.cfg.SnapEnabled {
		res, err = folio.FindSnapCorrections(in.Moving.lines(), others, threshold)
		if err != nil {
			return err
		}
	} else {
		logger.Debug("snapping disabled by config")
	}

	x, y := res.Apply(in.Moving.X, in.Moving.Y, folio.Identity)
	out := snapOutput{DX: res.DX, DY: res.DY, X: x, Y: y, Threshold: threshold, Matches: []snapMatchOutput{}}
	for _, m := range res.Matches {
		out.Matches = append(out.Matches, snapMatchOutput{
			Axis:   m.Moving.Axis.String(),
			Moving: m.Moving.Position,
			Other:  m.Other.Position,
			Owner:  m.Other.OwnerID,
			Delta:  m.Delta,
		})
	}
	logger.Debug("snap", "matches", len(out.Matches), "threshold", threshold)

	w := cmd.OutOrStdout()
	if jsonOut {
		return writeJSON(w, out)
	}
	if len(out.Matches) == 0 {
		printWarning(w, "no guides within %.2f", threshold)
		return nil
	}
	printSuccess(w, "Snapped %s to %.4f, %.4f", in.Moving.ID, x, y)
	for _, m := range out.Matches {
		printKeyValue(w, m.Axis+" guide", fmt.Sprintf("%.4f (%s) delta %.4f", m.Other, m.Owner, m.Delta))
	}
	return nil
}
