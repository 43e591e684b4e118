package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dockgrid/pkg/core/layout"
	"github.com/matzehuels/dockgrid/pkg/layoutio"
)

// importCommand replaces the workspace layout with a layout document.
func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the layout with a document (.json, .yaml or .cbor)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := layoutio.ReadFile(args[0])
			if err != nil {
				return err
			}

			sess, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			snap, err := layout.Deserialize(doc, sess.cfg.Sizing())
			if err != nil {
				return err
			}
			if err := sess.engine.Replace(cmd.Context(), snap); err != nil {
				return err
			}
			printSuccess("Imported %s into workspace %s", args[0], StyleHighlight.Render(sess.cfg.Workspace))
			printKeyValue("revision", fmt.Sprint(sess.engine.Snapshot().Revision))
			return nil
		},
	}
}
