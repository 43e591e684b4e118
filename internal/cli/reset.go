package cli

import (
	"github.com/spf13/cobra"
)

// resetCommand drops the stored layout of the workspace.
func (c *CLI) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the stored layout and start from the default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.engine.Reset(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Reset workspace %s", StyleHighlight.Render(sess.cfg.Workspace))
			return nil
		},
	}
}
