// Package commands contains all CLI commands for commitlint.
//
// This package uses the Cobra library for CLI management.
// Each command is defined in its own file and registered in init().
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/JNZader/commitlint/internal/config"
	"github.com/JNZader/commitlint/internal/logger"
	"github.com/JNZader/commitlint/internal/rules"
)

// Exit codes. A malformed configuration is distinct from a failed lint so
// hooks and CI can tell the two apart.
const (
	exitLintFailed = 1
	exitBadConfig  = 9
)

var (
	// cfgFile holds the path to the config file (from --config flag)
	cfgFile string

	// verbose enables detailed output
	verbose bool

	// quiet suppresses all output except errors
	quiet bool
)

// rootCmd lints when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "commitlint",
	Short: "Lint commit messages against Conventional Commits rules",
	Long: `commitlint checks commit messages against a rule set built from a
preset (conventional by default) and the rules overlay in .commitlintrc.yaml.

Examples:
  # Lint the message being edited (commit-msg hook)
  commitlint --edit "$1"

  # Lint the commits on a branch
  commitlint --from main --to HEAD

  # Lint a message from stdin
  echo "fix: handle empty input" | commitlint

  # Show the effective rules
  commitlint print-config`,

	// SilenceUsage prevents printing usage on errors
	SilenceUsage: true,

	// SilenceErrors lets Execute decide what reaches stderr
	SilenceErrors: true,

	Args: cobra.MaximumNArgs(1),
	RunE: runLint,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeLogging()
	},
}

// Execute runs the root command, printing errors other than lint failures.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .commitlintrc.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	addLintFlags(rootCmd)
}

// ExitError carries a process exit status without a message.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	var exitErr *ExitError
	var validationErr *config.ValidationError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, rules.ErrMalformedRule), errors.As(err, &validationErr):
		return exitBadConfig
	default:
		return exitLintFailed
	}
}

func initializeLogging() error {
	if verbose && !quiet {
		logger.SetLevel(logger.LevelDebug)
	}
	logger.SetOutput(rootCmd.ErrOrStderr())
	return nil
}

// loadConfig reads the configuration, letting command-line flags override
// file and environment values.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	loader := config.NewLoader()
	if cfgFile != "" {
		loader.SetConfigFile(cfgFile)
	}

	v := loader.GetViper()
	bindings := map[string]string{
		"format":      "output.format",
		"strict":      "lint.strict",
		"concurrency": "lint.max_concurrency",
	}
	for flag, key := range bindings {
		if f := cmd.Flags().Lookup(flag); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, "", err
	}

	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	cfg.Output.Quiet = cfg.Output.Quiet || quiet

	if !verbose {
		level, _ := logger.ParseLevel(cfg.Log.Level)
		logger.SetLevel(level)
	}
	if used := loader.ConfigFileUsed(); used != "" {
		logger.Debug("using config file %s", used)
	}

	return cfg, loader.BaseDir(), nil
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
