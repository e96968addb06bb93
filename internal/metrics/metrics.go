// Package metrics counts lint activity and exports it as JSON or in the
// Prometheus text format, for example for a node exporter textfile
// collector in CI.
package metrics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Metric names.
const (
	MessagesTotal   = "commitlint_messages_total"
	MessagesIgnored = "commitlint_messages_ignored_total"
	RuleFailures    = "commitlint_rule_failures_total"
	LintDuration    = "commitlint_lint_duration"
)

// Collector collects and manages metrics.
type Collector struct {
	mu        sync.RWMutex
	counters  map[string]*Counter
	timers    map[string]*Timer
	startTime time.Time
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		counters:  make(map[string]*Counter),
		timers:    make(map[string]*Timer),
		startTime: time.Now(),
	}
}

// Counter is a monotonically increasing counter.
type Counter struct {
	value atomic.Int64
}

// Inc increments the counter by 1.
func (c *Counter) Inc() { c.value.Add(1) }

// Add adds n to the counter.
func (c *Counter) Add(n int64) { c.value.Add(n) }

// Value returns the current counter value.
func (c *Counter) Value() int64 { return c.value.Load() }

// Histogram keeps the most recent observations.
type Histogram struct {
	mu     sync.Mutex
	values []float64
	max    int
}

// NewHistogram creates a histogram holding up to maxValues observations.
func NewHistogram(maxValues int) *Histogram {
	return &Histogram{
		values: make([]float64, 0, maxValues),
		max:    maxValues,
	}
}

// Observe records a value, discarding the oldest when full.
func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.values) >= h.max {
		h.values = h.values[1:]
	}
	h.values = append(h.values, v)
}

// Stats returns histogram statistics.
func (h *Histogram) Stats() HistogramStats {
	h.mu.Lock()
	sorted := make([]float64, len(h.values))
	copy(sorted, h.values)
	h.mu.Unlock()

	n := len(sorted)
	if n == 0 {
		return HistogramStats{}
	}
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return HistogramStats{
		Count: n,
		Sum:   sum,
		Min:   sorted[0],
		Max:   sorted[n-1],
		P50:   sorted[(n-1)*50/100],
		P90:   sorted[(n-1)*90/100],
		P99:   sorted[(n-1)*99/100],
	}
}

// HistogramStats contains histogram statistics.
type HistogramStats struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	P50   float64 `json:"p50"`
	P90   float64 `json:"p90"`
	P99   float64 `json:"p99"`
}

// Timer records durations in seconds.
type Timer struct {
	histogram *Histogram
}

// Start starts a new timer context.
func (t *Timer) Start() *TimerContext {
	return &TimerContext{timer: t, start: time.Now()}
}

// Observe records a duration.
func (t *Timer) Observe(d time.Duration) {
	t.histogram.Observe(d.Seconds())
}

// Stats returns statistics over the recorded durations.
func (t *Timer) Stats() HistogramStats {
	return t.histogram.Stats()
}

// TimerContext represents an active timer.
type TimerContext struct {
	timer *Timer
	start time.Time
}

// Stop records the elapsed time.
func (tc *TimerContext) Stop() time.Duration {
	d := time.Since(tc.start)
	tc.timer.Observe(d)
	return d
}

// Counter returns or creates the counter for a series. Labels are given as
// alternating keys and values.
func (c *Collector) Counter(name string, labels ...string) *Counter {
	key := series(name, labels)

	c.mu.RLock()
	counter, ok := c.counters[key]
	c.mu.RUnlock()
	if ok {
		return counter
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if counter, ok := c.counters[key]; ok {
		return counter
	}
	counter = &Counter{}
	c.counters[key] = counter
	return counter
}

// Timer returns or creates a timer.
func (c *Collector) Timer(name string) *Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timer, ok := c.timers[name]; ok {
		return timer
	}
	timer := &Timer{histogram: NewHistogram(1000)}
	c.timers[name] = timer
	return timer
}

// series renders name{k="v",...} with labels sorted by key.
func series(name string, labels []string) string {
	if len(labels) < 2 {
		return name
	}

	pairs := make([]string, 0, len(labels)/2)
	for i := 0; i+1 < len(labels); i += 2 {
		pairs = append(pairs, fmt.Sprintf("%s=%q", labels[i], labels[i+1]))
	}
	sort.Strings(pairs)
	return name + "{" + strings.Join(pairs, ",") + "}"
}

func baseName(key string) string {
	if i := strings.IndexByte(key, '{'); i >= 0 {
		return key[:i]
	}
	return key
}

// Export exports metrics to JSON.
func (c *Collector) Export() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	export := struct {
		Uptime   string                    `json:"uptime"`
		Counters map[string]int64          `json:"counters"`
		Timers   map[string]HistogramStats `json:"timers"`
	}{
		Uptime:   time.Since(c.startTime).String(),
		Counters: make(map[string]int64, len(c.counters)),
		Timers:   make(map[string]HistogramStats, len(c.timers)),
	}

	for key, counter := range c.counters {
		export.Counters[key] = counter.Value()
	}
	for name, timer := range c.timers {
		export.Timers[name] = timer.Stats()
	}

	return json.MarshalIndent(export, "", "  ")
}

// ExportPrometheus exports metrics in the Prometheus text format, sorted by
// series.
func (c *Collector) ExportPrometheus() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var sb strings.Builder

	keys := make([]string, 0, len(c.counters))
	for key := range c.counters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lastType := ""
	for _, key := range keys {
		if name := baseName(key); name != lastType {
			fmt.Fprintf(&sb, "# TYPE %s counter\n", name)
			lastType = name
		}
		fmt.Fprintf(&sb, "%s %d\n", key, c.counters[key].Value())
	}

	names := make([]string, 0, len(c.timers))
	for name := range c.timers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		stats := c.timers[name].Stats()
		fmt.Fprintf(&sb, "# TYPE %s_seconds summary\n", name)
		fmt.Fprintf(&sb, "%s_seconds{quantile=\"0.5\"} %f\n", name, stats.P50)
		fmt.Fprintf(&sb, "%s_seconds{quantile=\"0.9\"} %f\n", name, stats.P90)
		fmt.Fprintf(&sb, "%s_seconds{quantile=\"0.99\"} %f\n", name, stats.P99)
		fmt.Fprintf(&sb, "%s_seconds_sum %f\n", name, stats.Sum)
		fmt.Fprintf(&sb, "%s_seconds_count %d\n", name, stats.Count)
	}

	return sb.String()
}

// Reset resets all metrics.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counters = make(map[string]*Counter)
	c.timers = make(map[string]*Timer)
	c.startTime = time.Now()
}
