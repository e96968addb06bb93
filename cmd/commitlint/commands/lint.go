package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/JNZader/commitlint/internal/config"
	"github.com/JNZader/commitlint/internal/git"
	"github.com/JNZader/commitlint/internal/history"
	"github.com/JNZader/commitlint/internal/lint"
	"github.com/JNZader/commitlint/internal/logger"
	"github.com/JNZader/commitlint/internal/metrics"
	"github.com/JNZader/commitlint/internal/report"
)

// editFromRepo marks --edit given without a path.
const editFromRepo = "\x00repo"

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Lint commit messages",
	Long: `Lint one or more commit messages. Messages come from the first of:

  --message/-m     the given text
  --edit/-e        a file, or .git/COMMIT_EDITMSG when no path is given
  --from/--to      the commits in a revision range
  --last           the commit HEAD points at
  stdin            when it is not a terminal

Exit status is 0 when every message passes, 1 when a rule at error level
fails (or a warning in --strict mode) and 9 when the configuration is
malformed.

Examples:
  commitlint lint --edit .git/COMMIT_EDITMSG
  commitlint lint --from origin/main --format json
  commitlint lint -m "feat(api): add endpoint"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLint,
}

// lintOptions holds the lint flags shared by the root and lint commands.
type lintOptions struct {
	message     string
	edit        string
	from        string
	to          string
	last        bool
	format      string
	strict      bool
	concurrency int
	metricsFile string
}

var lintOpts lintOptions

func init() {
	rootCmd.AddCommand(lintCmd)
	addLintFlags(lintCmd)
}

func addLintFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&lintOpts.message, "message", "m", "", "lint the given message")
	flags.StringVarP(&lintOpts.edit, "edit", "e", "", "lint a message file (default .git/COMMIT_EDITMSG)")
	flags.Lookup("edit").NoOptDefVal = editFromRepo
	flags.StringVar(&lintOpts.from, "from", "", "lower end of the commit range (exclusive)")
	flags.StringVar(&lintOpts.to, "to", "", "upper end of the commit range (default HEAD)")
	flags.BoolVar(&lintOpts.last, "last", false, "lint the last commit")
	flags.StringVarP(&lintOpts.format, "format", "f", "", "output format: "+strings.Join(report.AvailableFormats(), ", "))
	flags.BoolVar(&lintOpts.strict, "strict", false, "fail on warnings too")
	flags.IntVar(&lintOpts.concurrency, "concurrency", 0, "messages linted in parallel (0 = auto)")
	flags.StringVar(&lintOpts.metricsFile, "metrics-file", "", "write lint metrics to a file (Prometheus text, or JSON for .json)")
}

func runLint(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if len(args) > 0 && lintOpts.edit != editFromRepo {
		return fmt.Errorf("unexpected argument %q", args[0])
	}

	cfg, baseDir, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	set, err := config.Resolve(cfg, baseDir)
	if err != nil {
		return err
	}

	inputs, source, err := collectInputs(ctx, cmd, args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		logger.Info("no commits to lint")
		return nil
	}

	collector := metrics.NewCollector()
	linter, err := lint.New(
		lint.WithIgnores(cfg.Ignores...),
		lint.WithDefaultIgnores(cfg.DefaultIgnores),
		lint.WithHelpURL(cfg.HelpURL),
		lint.WithWorkers(cfg.Lint.MaxConcurrency),
		lint.WithLogger(logger.Default()),
		lint.WithMetrics(collector),
	)
	if err != nil {
		return err
	}

	outcomes, err := linter.LintAll(ctx, inputs, set)
	if err != nil {
		return err
	}

	if err := writeMetrics(collector, lintOpts.metricsFile); err != nil {
		return err
	}

	rep := report.NewReport(outcomes, cfg.Lint.Strict)
	if err := writeReport(cmd, cfg, rep); err != nil {
		return err
	}

	if cfg.History.Enabled {
		recordHistory(ctx, cfg, history.NewRunRecord(source, cfg.Lint.Strict, outcomes))
	}

	if code := rep.Summary.ExitCode(cfg.Lint.Strict); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

func writeReport(cmd *cobra.Command, cfg *config.Config, rep *report.Report) error {
	if cfg.Output.Quiet && cfg.Output.Format == "text" {
		return nil
	}

	reporter, err := report.NewReporter(cfg.Output.Format, report.Options{
		Verbose: cfg.Output.Verbose,
		Color:   cfg.Output.Color && isTerminal(out(cmd)),
	})
	if err != nil {
		return err
	}
	return reporter.Write(rep, out(cmd))
}

func writeMetrics(c *metrics.Collector, path string) error {
	stats := c.Timer(metrics.LintDuration).Stats()
	logger.Debug("lint metrics: %d messages, p50 %.6fs, max %.6fs",
		c.Counter(metrics.MessagesTotal).Value(), stats.P50, stats.Max)

	if path == "" {
		return nil
	}

	data := []byte(c.ExportPrometheus())
	if strings.HasSuffix(path, ".json") {
		var err error
		if data, err = c.Export(); err != nil {
			return fmt.Errorf("encoding metrics: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

// recordHistory stores the run. Failures are logged, never fatal.
func recordHistory(ctx context.Context, cfg *config.Config, run *history.RunRecord) {
	store, err := history.NewStore(history.StoreConfig{Path: cfg.History.Path})
	if err != nil {
		logger.Warn("opening history database: %v", err)
		return
	}
	defer store.Close()

	if err := store.Record(ctx, run); err != nil {
		logger.Warn("recording lint run: %v", err)
	}
}

// collectInputs gathers the messages to lint and names where they came from.
// A positional argument is the path given to a bare --edit, as in
// `commitlint --edit "$1"`.
func collectInputs(ctx context.Context, cmd *cobra.Command, args []string) ([]lint.Input, string, error) {
	switch {
	case lintOpts.message != "":
		return []lint.Input{{Message: lintOpts.message}}, "message", nil

	case lintOpts.edit != "":
		path := lintOpts.edit
		if path == editFromRepo && len(args) > 0 {
			path = args[0]
		}
		if path == editFromRepo {
			repo, err := git.Open(".")
			if err != nil {
				return nil, "", err
			}
			if path, err = repo.EditMsgPath(); err != nil {
				return nil, "", err
			}
		}
		data, err := os.ReadFile(path) //nolint:gosec // Path comes from the command line
		if err != nil {
			return nil, "", fmt.Errorf("reading commit message: %w", err)
		}
		return []lint.Input{{Message: string(data)}}, "edit", nil

	case lintOpts.from != "" || lintOpts.to != "":
		repo, err := git.Open(".")
		if err != nil {
			return nil, "", err
		}
		commits, err := repo.Range(ctx, lintOpts.from, lintOpts.to)
		if err != nil {
			return nil, "", err
		}
		inputs := make([]lint.Input, len(commits))
		for i, c := range commits {
			inputs[i] = lint.Input{ID: c.Hash, Message: c.Message}
		}
		return inputs, "range", nil

	case lintOpts.last:
		repo, err := git.Open(".")
		if err != nil {
			return nil, "", err
		}
		c, err := repo.Last(ctx)
		if err != nil {
			return nil, "", err
		}
		return []lint.Input{{ID: c.Hash, Message: c.Message}}, "last", nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, "", errors.New("no input: use --edit, --from/--to, --last, --message or pipe a message on stdin")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, "", fmt.Errorf("reading stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, "", errors.New("no input: stdin is empty")
	}
	return []lint.Input{{Message: string(data)}}, "stdin", nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
