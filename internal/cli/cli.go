// Package cli implements the dockgrid command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dockgrid/pkg/buildinfo"
	"github.com/matzehuels/dockgrid/pkg/config"
	"github.com/matzehuels/dockgrid/pkg/core/layout"
	"github.com/matzehuels/dockgrid/pkg/errors"
	"github.com/matzehuels/dockgrid/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Process exit codes returned by [ExitCode].
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2   // malformed input, format or ratio
	ExitRejected    = 3   // operation refused by the layout
	ExitInterrupted = 130 // SIGINT
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// flags shared by every command
	verbose    bool
	configPath string
	workspace  string
	backend    string
	storeDir   string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "dockgrid manages docking layouts",
		Long:          `dockgrid keeps a persistent docking layout: a primary grid of parts holding tabbed views, activities docked in eight slots around it, and popups anchored to elements inside the layout.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.SetLogLevel(logLevel(c.verbose))
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/dockgrid/config.toml)")
	pf.StringVarP(&c.workspace, "workspace", "w", "", "workspace whose layout to use")
	pf.StringVar(&c.backend, "store", "", fmt.Sprintf("store backend (%s)", strings.Join(store.Backends(), "|")))
	pf.StringVar(&c.storeDir, "store-dir", "", "directory for the file and diskv backends")
	_ = root.RegisterFlagCompletionFunc("store", completeFixed(store.Backends()...))

	root.AddCommand(c.showCommand())
	root.AddCommand(c.opCommand())
	root.AddCommand(c.opsCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.resetCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// ExitCode reports err on stderr and maps it to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	}
	printError("%v", err)
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidRatio:
		return ExitUsage
	case errors.ErrCodeUnknownReference, errors.ErrCodeDuplicatePartID, errors.ErrCodeStructuralInvariant, errors.ErrCodeUnsupported:
		return ExitRejected
	}
	return ExitFailure
}

// =============================================================================
// Config and Engine
// =============================================================================

// loadConfig reads the config file and applies flag overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if c.workspace != "" {
		cfg.Workspace = c.workspace
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
	}
	if c.storeDir != "" {
		cfg.Store.Dir = c.storeDir
	}
	return cfg, cfg.Validate()
}

// session is an engine bound to its store.
type session struct {
	cfg    config.Config
	engine *layout.Engine
	store  store.Store
}

func (s *session) Close() error {
	return s.store.Close()
}

// openSession loads the configured workspace layout. Every successful
// operation is saved immediately.
func (c *CLI) openSession(ctx context.Context) (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.StoreOptions()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", opts.Backend, err)
	}

	engine := layout.NewEngine(layout.Options{
		Store:    st,
		Key:      cfg.LayoutKey(),
		Format:   cfg.LayoutFormat(),
		Sizing:   cfg.Sizing(),
		Logger:   c.Logger,
		AutoSave: true,
	})
	found, err := engine.Load(ctx)
	if err != nil {
		st.Close()
		return nil, err
	}
	c.Logger.Debug("session opened", "workspace", cfg.Workspace, "backend", opts.Backend, "stored", found)
	return &session{cfg: cfg, engine: engine, store: st}, nil
}
