package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JNZader/commitlint/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize commitlint configuration",
	Long: `Write a .commitlintrc.yaml extending the conventional preset with the
default project rules.

Examples:
  # Write .commitlintrc.yaml in the current directory
  commitlint init

  # Overwrite an existing file in another directory
  commitlint init --force --dir ../service`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var (
	initForce bool
	initDir   string
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing configuration")
	initCmd.Flags().StringVar(&initDir, "dir", ".", "directory to write the configuration to")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := filepath.Join(initDir, config.FileName)

	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	if err := os.WriteFile(path, config.DefaultFile(), 0o644); err != nil { //nolint:gosec // Config file is meant to be readable
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(out(cmd), "Wrote %s\n", path)
	return nil
}
