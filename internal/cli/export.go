package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dockgrid/pkg/core/layout"
	"github.com/matzehuels/dockgrid/pkg/errors"
	"github.com/matzehuels/dockgrid/pkg/layoutio"
	"github.com/matzehuels/dockgrid/pkg/render/nodelink"
)

// Diagram formats accepted by export in addition to the layout encodings.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
)

// exportOpts holds the flags of the export command.
type exportOpts struct {
	output   string  // output file; stdout when empty
	format   string  // json, yaml, cbor, dot, svg, pdf or png
	detailed bool    // detailed part labels in diagrams
	scale    float64 // PNG scale factor
}

// exportCommand writes the layout or a diagram of it.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{scale: 2}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the layout as a document or diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			format := exportFormat(opts)
			data, err := c.export(cmd.Context(), sess.engine.Snapshot(), format, opts)
			if err != nil {
				return err
			}
			if opts.output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(opts.output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			printSuccess("Exported %s", format)
			printFile(opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.format, "format", "", "json, yaml, cbor, dot, svg, pdf or png (default from --output extension, else json)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show titles and navigation state in diagrams")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFixed("json", "yaml", "cbor", formatDOT, formatSVG, formatPDF, formatPNG))
	return cmd
}

// exportFormat resolves the format from the flag or the output extension.
func exportFormat(opts exportOpts) string {
	if opts.format != "" {
		return strings.ToLower(opts.format)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.output)), ".")
	switch ext {
	case formatDOT, "gv", formatSVG, formatPDF, formatPNG:
		if ext == "gv" {
			return formatDOT
		}
		return ext
	}
	return string(layoutio.FormatOf(opts.output))
}

func (c *CLI) export(ctx context.Context, snap layout.Snapshot, format string, opts exportOpts) ([]byte, error) {
	dot := func() string {
		return nodelink.ToDOT(snap, nodelink.Options{Detailed: opts.detailed})
	}

	switch format {
	case formatDOT:
		return []byte(dot()), nil
	case formatSVG, formatPDF, formatPNG:
		finish := timed(c.Logger, "rendered", "format", format)
		sp := startSpinner(ctx, os.Stderr, "Rendering "+format)
		var data []byte
		var err error
		switch format {
		case formatSVG:
			data, err = nodelink.RenderSVG(ctx, dot())
		case formatPDF:
			data, err = nodelink.RenderPDF(ctx, dot())
		default:
			data, err = nodelink.RenderPNG(ctx, dot(), opts.scale)
		}
		sp.stop()
		finish(err)
		if err != nil {
			return nil, err
		}
		return data, nil
	}

	f, err := layoutio.ParseFormat(format)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported export format %q", format)
	}
	return layout.Marshal(snap, f)
}
