package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dockgrid/internal/server"
)

// serveCommand runs the HTTP API over the workspace layout.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer sess.Close()

			if addr == "" {
				addr = sess.cfg.Server.Addr
			}
			srv := server.New(server.Config{
				Addr:          addr,
				Engine:        sess.engine,
				DiamondOffset: sess.cfg.Anchor.DiamondOffset,
				Logger:        loggerFromContext(ctx),
			})
			printInfo("Serving workspace %s on %s", StyleHighlight.Render(sess.cfg.Workspace), addr)
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
