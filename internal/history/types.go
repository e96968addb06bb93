// Package history provides SQLite-based storage for lint runs, so repeated
// failures can be searched and counted by `commitlint history`.
package history

import "time"

// RunRecord is one lint invocation.
type RunRecord struct {
	ID        int64           `json:"id"`
	UUID      string          `json:"uuid"`
	Source    string          `json:"source"`
	Strict    bool            `json:"strict"`
	Messages  int             `json:"messages"`
	Ignored   int             `json:"ignored"`
	Errors    int             `json:"errors"`
	Warnings  int             `json:"warnings"`
	Valid     bool            `json:"valid"`
	CreatedAt time.Time       `json:"created_at"`
	Failures  []FailureRecord `json:"failures,omitempty"`
}

// FailureRecord is a rule that rejected a message during a run.
type FailureRecord struct {
	ID         int64     `json:"id"`
	RunID      int64     `json:"run_id"`
	CommitHash string    `json:"commit_hash,omitempty"`
	Header     string    `json:"header"`
	Rule       string    `json:"rule"`
	Severity   string    `json:"severity"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// Query filters failure records.
type Query struct {
	// Text performs full-text search on header and message
	Text string
	// Rule filters by rule identifier
	Rule string
	// Severity filters by "warning" or "error"
	Severity string
	// CommitHash filters by commit, matching prefixes
	CommitHash string
	// Since filters by creation date
	Since time.Time
	// Until filters by creation date
	Until time.Time
	// Limit restricts result count
	Limit int
	// Offset for pagination
	Offset int
}

// SearchResult contains matching failures with the total before paging.
type SearchResult struct {
	Records    []FailureRecord `json:"records"`
	TotalCount int64           `json:"total_count"`
}

// Stats contains aggregate statistics from the history database.
type Stats struct {
	TotalRuns     int64            `json:"total_runs"`
	FailedRuns    int64            `json:"failed_runs"`
	TotalFailures int64            `json:"total_failures"`
	BySeverity    map[string]int64 `json:"by_severity"`
	ByRule        map[string]int64 `json:"by_rule"`
}
