package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/arxivset/internal/config"
	"github.com/mesh-intelligence/arxivset/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init [source]",
		Short: "Create the configuration directory and config.yaml",
		Long: "Create the configuration directory (default $(CWD)/.arxivset) and\n" +
			"write a default config.yaml. An existing config.yaml is kept.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd, args)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	dir, err := a.initDir()
	if err != nil {
		return err
	}

	source := a.flags.source
	if len(args) == 1 {
		source = args[0]
	}

	path, created, err := config.WriteDefault(dir, source)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", path)
	}
	return nil
}

// initDir resolves flag > ARXIVSET_CONFIG_DIR > $(CWD)/.arxivset. Unlike
// other commands, init never falls back to the platform directory.
func (a *app) initDir() (string, error) {
	if a.flags.configDir != "" {
		return filepath.Abs(a.flags.configDir)
	}
	if env := os.Getenv(paths.EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return paths.LocalConfigDir()
}
