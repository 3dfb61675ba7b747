package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cartola-dev/cartola/internal/config"
)

func newInitCommand() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new cartola workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, source)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "source tag for extracted movements")

	return cmd
}

func runInit(cmd *cobra.Command, dir, source string) error {
	// Create directory structure.
	for _, d := range []string{"statements", "movements"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write cartola.yaml.
	cfg := config.Default()
	if source != "" {
		cfg.Source = source
	}
	if err := config.Save(filepath.Join(dir, "cartola.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized cartola workspace in %s\n", dir)
	return nil
}
