package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/JNZader/commitlint/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded lint failures",
	Long: `Show failures recorded by previous lint runs. Recording is enabled with
history.enabled in the configuration (or COMMITLINT_HISTORY_ENABLED=true).

Examples:
  # Recent failures
  commitlint history

  # Failures of one rule in the last week
  commitlint history --rule subject-case --since 168h

  # Full-text search
  commitlint history --search "pascal"

  # Aggregate statistics
  commitlint history --stats`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyOpts struct {
	rule   string
	search string
	commit string
	since  time.Duration
	limit  int
	stats  bool
	runs   bool
	prune  time.Duration
	json   bool
}

func init() {
	rootCmd.AddCommand(historyCmd)

	flags := historyCmd.Flags()
	flags.StringVar(&historyOpts.rule, "rule", "", "filter by rule identifier")
	flags.StringVar(&historyOpts.search, "search", "", "full-text search in headers and messages")
	flags.StringVar(&historyOpts.commit, "commit", "", "filter by commit hash prefix")
	flags.DurationVar(&historyOpts.since, "since", 0, "only failures newer than this")
	flags.IntVar(&historyOpts.limit, "limit", 20, "maximum number of entries")
	flags.BoolVar(&historyOpts.stats, "stats", false, "show aggregate statistics")
	flags.BoolVar(&historyOpts.runs, "runs", false, "list runs instead of failures")
	flags.DurationVar(&historyOpts.prune, "prune", 0, "delete runs older than this")
	flags.BoolVar(&historyOpts.json, "json", false, "output as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := history.NewStore(history.StoreConfig{Path: cfg.History.Path})
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer store.Close()

	switch {
	case historyOpts.prune > 0:
		n, err := store.Prune(ctx, historyOpts.prune)
		if err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "Pruned %d runs\n", n)
		return nil

	case historyOpts.stats:
		stats, err := store.Stats(ctx)
		if err != nil {
			return err
		}
		if historyOpts.json {
			return printJSON(cmd, stats)
		}
		printStats(cmd, stats)
		return nil

	case historyOpts.runs:
		runs, err := store.Runs(ctx, historyOpts.limit)
		if err != nil {
			return err
		}
		if historyOpts.json {
			return printJSON(cmd, runs)
		}
		return printRuns(cmd, runs)
	}

	q := history.Query{
		Text:       historyOpts.search,
		Rule:       historyOpts.rule,
		CommitHash: historyOpts.commit,
		Limit:      historyOpts.limit,
	}
	if historyOpts.since > 0 {
		q.Since = time.Now().Add(-historyOpts.since)
	}

	result, err := store.List(ctx, q)
	if err != nil {
		return err
	}
	if historyOpts.json {
		return printJSON(cmd, result)
	}
	if result.TotalCount == 0 {
		fmt.Fprintln(out(cmd), "No lint failures recorded")
		return nil
	}
	return printFailures(cmd, result)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out(cmd), string(data))
	return nil
}

func printFailures(cmd *cobra.Command, result *history.SearchResult) error {
	w := tabwriter.NewWriter(out(cmd), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tCOMMIT\tRULE\tLEVEL\tHEADER")
	for _, f := range result.Records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			f.CreatedAt.Local().Format("2006-01-02 15:04"),
			orDash(shortHash(f.CommitHash)), f.Rule, f.Severity, truncate(f.Header, 60))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if shown := int64(len(result.Records)); shown < result.TotalCount {
		fmt.Fprintf(out(cmd), "\nShowing %d of %d failures\n", shown, result.TotalCount)
	}
	return nil
}

func printRuns(cmd *cobra.Command, runs []history.RunRecord) error {
	w := tabwriter.NewWriter(out(cmd), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tSOURCE\tMESSAGES\tERRORS\tWARNINGS\tRESULT")
	for _, r := range runs {
		result := "pass"
		if !r.Valid {
			result = "fail"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.UUID[:8], r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Source,
			r.Messages, r.Errors, r.Warnings, result)
	}
	return w.Flush()
}

func printStats(cmd *cobra.Command, stats *history.Stats) {
	w := out(cmd)
	fmt.Fprintf(w, "Runs:     %d (%d failed)\n", stats.TotalRuns, stats.FailedRuns)
	fmt.Fprintf(w, "Failures: %d\n", stats.TotalFailures)

	if len(stats.BySeverity) > 0 {
		fmt.Fprintf(w, "  errors: %d, warnings: %d\n", stats.BySeverity["error"], stats.BySeverity["warning"])
	}
	if len(stats.ByRule) == 0 {
		return
	}

	names := make([]string, 0, len(stats.ByRule))
	for name := range stats.ByRule {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if stats.ByRule[names[i]] != stats.ByRule[names[j]] {
			return stats.ByRule[names[i]] > stats.ByRule[names[j]]
		}
		return names[i] < names[j]
	})

	fmt.Fprintln(w, "\nMost failed rules:")
	for _, name := range names {
		fmt.Fprintf(w, "  %-28s %d\n", name, stats.ByRule[name])
	}
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
