// Package worker provides a bounded pool for running independent tasks in
// parallel.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Task represents a task to be executed by a worker.
type Task interface {
	Execute(ctx context.Context) error
	ID() string
}

// Result contains the result of a task execution.
type Result struct {
	TaskID string
	Error  error
}

// Config configures the worker pool.
type Config struct {
	Workers int // Number of workers (default: GOMAXPROCS)
}

// Pool runs tasks with bounded parallelism.
type Pool struct {
	workers   int
	processed atomic.Int64
	errors    atomic.Int64
}

// NewPool creates a new worker pool.
func NewPool(cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: cfg.Workers}
}

// Run executes every task and returns one Result per task in submission
// order. A failing task does not stop the others. Tasks not yet started
// when ctx is done are recorded with ctx's error, and Run returns it.
func (p *Pool) Run(ctx context.Context, tasks []Task) ([]Result, error) {
	results := make([]Result, len(tasks))

	g := new(errgroup.Group)
	g.SetLimit(p.workers)

	for i, task := range tasks {
		g.Go(func() error {
			results[i] = Result{TaskID: task.ID()}

			if err := ctx.Err(); err != nil {
				results[i].Error = err
				return nil
			}

			err := task.Execute(ctx)
			p.processed.Add(1)
			if err != nil {
				p.errors.Add(1)
				results[i].Error = err
			}
			return nil
		})
	}

	_ = g.Wait()
	return results, ctx.Err()
}

// Workers returns the parallelism limit.
func (p *Pool) Workers() int {
	return p.workers
}

// Stats returns pool statistics.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   p.workers,
		Processed: p.processed.Load(),
		Errors:    p.errors.Load(),
	}
}

// Stats contains pool statistics.
type Stats struct {
	Workers   int
	Processed int64
	Errors    int64
}

// String returns a string representation of the stats.
func (s Stats) String() string {
	return fmt.Sprintf("workers=%d processed=%d errors=%d",
		s.Workers, s.Processed, s.Errors)
}
