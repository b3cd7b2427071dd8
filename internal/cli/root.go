// Package cli implements the arxivset command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/arxivset/internal/config"
	"github.com/mesh-intelligence/arxivset/internal/logging"
	"github.com/mesh-intelligence/arxivset/internal/paths"
	"github.com/mesh-intelligence/arxivset/pkg/dataset"
	"github.com/mesh-intelligence/arxivset/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	source    string
	limit     int
	jsonMode  bool
}

// app is the state shared by one command tree.
type app struct {
	flags rootFlags
	cfg   types.Config
}

// NewRootCmd creates the top-level "arxivset" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "arxivset",
		Short: "Load and filter arXiv metadata snapshots",
		Long: "arxivset loads an arXiv metadata snapshot (JSON lines, compressed,\n" +
			"on S3 or in a SQLite snapshot) into an encoded table and filters\n" +
			"it by category.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "init" {
				return nil
			}
			return a.loadConfig()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $(CWD)/.arxivset)")
	pf.StringVar(&a.flags.source, "source", "", "corpus source; overrides config.yaml")
	pf.IntVar(&a.flags.limit, "limit", 0, "stop after this many records (0: no limit)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output as JSON")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newCategoriesCmd(a))
	root.AddCommand(newQueryCmd(a))
	root.AddCommand(newRowCmd(a))
	root.AddCommand(newSnapshotCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "arxivset:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors the user can fix to exitUserError and everything
// else to exitSysError.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrUnknownLabel),
		errors.Is(err, types.ErrIndexOutOfRange),
		errors.Is(err, types.ErrSourceEmpty),
		errors.Is(err, types.ErrUnsupportedSource),
		errors.Is(err, types.ErrLimitInvalid),
		errors.Is(err, types.ErrFieldEmpty),
		errors.Is(err, types.ErrLogFormatUnknown),
		errors.Is(err, types.ErrLogLevelUnknown):
		return exitUserError
	default:
		return exitSysError
	}
}

// loadConfig reads config.yaml and applies flag overrides.
func (a *app) loadConfig() error {
	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if a.flags.source != "" {
		cfg.Source = a.flags.source
	}
	if a.flags.limit != 0 {
		cfg.Limit = a.flags.limit
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.cfg = cfg
	return nil
}

// loadDataset loads the configured source.
func (a *app) loadDataset(cmd *cobra.Command) (*dataset.Dataset, error) {
	log, err := logging.FromConfig(cmd.ErrOrStderr(), a.cfg)
	if err != nil {
		return nil, err
	}
	return dataset.Load(cmd.Context(), a.cfg.Source,
		dataset.WithConfig(a.cfg),
		dataset.WithLogger(log),
	)
}
