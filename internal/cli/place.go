package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dockgrid/pkg/core/anchor"
	"github.com/matzehuels/dockgrid/pkg/core/geom"
	"github.com/matzehuels/dockgrid/pkg/errors"
)

// placeCommand computes one popup placement.
func (c *CLI) placeCommand() *cobra.Command {
	var (
		anchorStr, boundsStr, sizeStr, alignStr string
		offset                                  float64
		asJSON                                  bool
	)

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Compute where a popup anchored to a box or point is drawn",
		Example: `  dockgrid place --anchor 400,300,100,100 --bounds 0,0,1920,1080 --size 200,80 --align north
  dockgrid place --anchor 2000,50 --bounds 0,0,1920,1080 --size 120,40 --align south --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := parseRect(anchorStr)
			if err != nil {
				return err
			}
			bounds, err := parseRect(boundsStr)
			if err != nil {
				return err
			}
			size, err := parseSize(sizeStr)
			if err != nil {
				return err
			}
			align, err := anchor.ParseAlign(alignStr)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("offset") {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				offset = cfg.Anchor.DiamondOffset
			}

			pl := anchor.Place(box, bounds, align, size, offset)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(pl)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "popup   %s\n", fmtRect(pl.Popup))
			fmt.Fprintf(out, "anchor  %g,%g\n", pl.Anchor.X, pl.Anchor.Y)
			fmt.Fprintf(out, "clamped %t\n", pl.Clamped)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&anchorStr, "anchor", "", "anchor box x,y,w,h or point x,y")
	f.StringVar(&boundsStr, "bounds", "", "scoping bounds x,y,w,h")
	f.StringVar(&sizeStr, "size", "", "popup size w,h")
	f.StringVar(&alignStr, "align", "north", "north, south, east or west")
	f.Float64Var(&offset, "offset", anchor.DefaultDiamondOffset, "gap between anchor and popup")
	f.BoolVar(&asJSON, "json", false, "print the placement as JSON")
	cmd.MarkFlagRequired("anchor")
	cmd.MarkFlagRequired("bounds")
	cmd.MarkFlagRequired("size")
	return cmd
}

func parseFloats(s string, want ...int) ([]float64, error) {
	parts := strings.Split(s, ",")
	ok := false
	for _, n := range want {
		ok = ok || len(parts) == n
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%q: want %v comma-separated numbers", s, want)
	}
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%q", s)
		}
		out[i] = v
	}
	return out, nil
}

// parseRect reads "x,y,w,h", or "x,y" for a zero-size box.
func parseRect(s string) (geom.Rect, error) {
	v, err := parseFloats(s, 2, 4)
	if err != nil {
		return geom.Rect{}, err
	}
	r := geom.Rect{X: v[0], Y: v[1]}
	if len(v) == 4 {
		r.Width, r.Height = v[2], v[3]
	}
	if r.Width < 0 || r.Height < 0 {
		return geom.Rect{}, errors.New(errors.ErrCodeInvalidInput, "%q: negative size", s)
	}
	return r, nil
}

func parseSize(s string) (anchor.Size, error) {
	v, err := parseFloats(s, 2)
	if err != nil {
		return anchor.Size{}, err
	}
	return anchor.Size{Width: v[0], Height: v[1]}, nil
}

func fmtRect(r geom.Rect) string {
	return fmt.Sprintf("%g,%g %gx%g", r.X, r.Y, r.Width, r.Height)
}
