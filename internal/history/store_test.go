package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JNZader/commitlint/internal/lint"
	"github.com/JNZader/commitlint/internal/rules"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(StoreConfig{Path: filepath.Join(t.TempDir(), "history.db")})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleOutcomes() []*lint.Outcome {
	return []*lint.Outcome{
		{
			ID:     "3f2c1a9b8e7d6c5b",
			Header: "WIP: Fix Thing",
			Errors: []lint.ValidationFailure{
				{Rule: "subject-case", Severity: rules.SeverityError, Message: "subject must not be upper-case, pascal-case, camel-case"},
				{Rule: "type-case", Severity: rules.SeverityError, Message: "type must be lower-case"},
			},
		},
		{
			ID:     "9a8b7c6d5e4f3a2b",
			Header: "fix: handle input",
			Valid:  true,
			Warnings: []lint.ValidationFailure{
				{Rule: "body-leading-blank", Severity: rules.SeverityWarning, Message: "body must have leading blank line"},
			},
		},
		{
			ID:     "0011223344556677",
			Header: "feat(api): add endpoint",
			Valid:  true,
		},
	}
}

func TestNewStoreCreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

	store, err := NewStore(StoreConfig{Path: dbPath})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNewRunRecord(t *testing.T) {
	run := NewRunRecord("range", false, sampleOutcomes())

	if len(run.UUID) != 36 {
		t.Errorf("UUID = %q", run.UUID)
	}
	if run.Messages != 3 || run.Errors != 2 || run.Warnings != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1", run.Messages, run.Errors, run.Warnings)
	}
	if run.Valid {
		t.Error("run with errors should not be valid")
	}
	if len(run.Failures) != 3 {
		t.Fatalf("len(Failures) = %d, want 3", len(run.Failures))
	}
	if run.Failures[2].Severity != "warning" {
		t.Errorf("Severity = %q, want warning", run.Failures[2].Severity)
	}
	if run.Failures[0].CommitHash != "3f2c1a9b8e7d6c5b" {
		t.Errorf("CommitHash = %q", run.Failures[0].CommitHash)
	}
}

func TestRecordAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := NewRunRecord("range", false, sampleOutcomes())
	if err := store.Record(ctx, run); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if run.ID == 0 {
		t.Error("run ID was not set")
	}
	for _, f := range run.Failures {
		if f.ID == 0 || f.RunID != run.ID {
			t.Errorf("failure ids not set: %+v", f)
		}
	}

	tests := []struct {
		name  string
		query Query
		want  int64
	}{
		{"all", Query{}, 3},
		{"by rule", Query{Rule: "subject-case"}, 1},
		{"by severity", Query{Severity: "error"}, 2},
		{"by commit prefix", Query{CommitHash: "3f2c1a9"}, 2},
		{"full text", Query{Text: "pascal"}, 1},
		{"since future", Query{Since: time.Now().Add(time.Hour)}, 0},
		{"until past", Query{Until: time.Now().Add(-time.Hour)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := store.List(ctx, tt.query)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if result.TotalCount != tt.want {
				t.Errorf("TotalCount = %d, want %d", result.TotalCount, tt.want)
			}
			if int64(len(result.Records)) != tt.want {
				t.Errorf("len(Records) = %d, want %d", len(result.Records), tt.want)
			}
		})
	}
}

func TestListPaging(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, NewRunRecord("range", false, sampleOutcomes())); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	result, err := store.List(ctx, Query{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if result.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3", result.TotalCount)
	}
	if len(result.Records) != 1 {
		t.Errorf("len(Records) = %d, want 1", len(result.Records))
	}
}

func TestRuns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := NewRunRecord("edit", false, sampleOutcomes()[2:])
	first.CreatedAt = time.Now().UTC().Add(-time.Minute)
	second := NewRunRecord("range", true, sampleOutcomes())

	for _, run := range []*RunRecord{first, second} {
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	runs, err := store.Runs(ctx, 10)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].Source != "range" || !runs[0].Strict || runs[0].Valid {
		t.Errorf("newest run = %+v", runs[0])
	}
	if runs[1].Source != "edit" || !runs[1].Valid {
		t.Errorf("oldest run = %+v", runs[1])
	}
	if runs[0].UUID != second.UUID || runs[1].UUID != first.UUID {
		t.Errorf("run uuids = %s, %s", runs[0].UUID, runs[1].UUID)
	}
}

func TestStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, run := range []*RunRecord{
		NewRunRecord("range", false, sampleOutcomes()),
		NewRunRecord("edit", false, sampleOutcomes()[:1]),
		NewRunRecord("edit", false, sampleOutcomes()[2:]),
	} {
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.TotalRuns != 3 {
		t.Errorf("TotalRuns = %d, want 3", stats.TotalRuns)
	}
	if stats.FailedRuns != 2 {
		t.Errorf("FailedRuns = %d, want 2", stats.FailedRuns)
	}
	if stats.TotalFailures != 5 {
		t.Errorf("TotalFailures = %d, want 5", stats.TotalFailures)
	}
	if stats.ByRule["subject-case"] != 2 {
		t.Errorf("ByRule[subject-case] = %d, want 2", stats.ByRule["subject-case"])
	}
	if stats.BySeverity["error"] != 4 || stats.BySeverity["warning"] != 1 {
		t.Errorf("BySeverity = %v", stats.BySeverity)
	}
}

func TestStatsEmpty(t *testing.T) {
	stats, err := newTestStore(t).Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalRuns != 0 || stats.FailedRuns != 0 || len(stats.ByRule) != 0 {
		t.Errorf("stats = %+v, want empty", stats)
	}
}

func TestPrune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := NewRunRecord("range", false, sampleOutcomes())
	old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	for i := range old.Failures {
		old.Failures[i].CreatedAt = old.CreatedAt
	}
	recent := NewRunRecord("edit", false, sampleOutcomes()[1:2])

	for _, run := range []*RunRecord{old, recent} {
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	n, err := store.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Prune removed %d runs, want 1", n)
	}

	result, err := store.List(ctx, Query{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if result.TotalCount != 1 || result.Records[0].Rule != "body-leading-blank" {
		t.Errorf("remaining failures = %+v", result.Records)
	}

	result, err = store.List(ctx, Query{Text: "pascal"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if result.TotalCount != 0 {
		t.Errorf("full-text index kept %d pruned rows", result.TotalCount)
	}
}
