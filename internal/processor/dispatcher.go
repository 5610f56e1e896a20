package processor

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Observer is told about each finished task, in completion order, from a
// single goroutine. It cannot influence results.
type Observer func(done, total int, r Result)

// Options configures ProcessAll.
type Options struct {
	// Workers caps the pool size. Zero means runtime.NumCPU().
	Workers int
	// Observer is optional.
	Observer Observer
}

// WorkerCount returns the pool size for n tasks: the requested count, or the
// host parallelism when zero, capped at n and never below one.
func WorkerCount(requested, n int) int {
	workers := requested
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

type job struct {
	index int
	task  FileTask
}

// ProcessAll runs every task on a bounded pool and returns one result per
// task in input order.
//
// A failing file never stops the batch. The context is checked before each
// task starts; tasks that have not started when it is done are reported as
// Skipped with the context error. The returned error is non-nil only when
// the pool cannot be set up.
func ProcessAll(ctx context.Context, p *Processor, tasks []FileTask, opts Options) ([]Result, error) {
	if p == nil || p.classifier == nil {
		return nil, &PoolError{Reason: "no processor configured"}
	}
	if opts.Workers < 0 {
		return nil, &PoolError{Reason: "negative worker count"}
	}
	if len(tasks) == 0 {
		return []Result{}, nil
	}

	total := len(tasks)
	workers := WorkerCount(opts.Workers, total)

	// Each slot is written by exactly one worker.
	results := make([]Result, total)
	jobs := make(chan job)
	finished := make(chan int, total)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					results[j.index] = Result{Path: j.task.Path, Outcome: Skipped, Err: err}
				} else {
					results[j.index] = p.Process(j.task)
				}
				finished <- j.index
			}
			return nil
		})
	}

	go func() {
		defer close(jobs)
		for i, t := range tasks {
			jobs <- job{index: i, task: t}
		}
	}()

	go func() {
		g.Wait()
		close(finished)
	}()

	done := 0
	for i := range finished {
		done++
		if opts.Observer != nil {
			opts.Observer(done, total, results[i])
		}
	}

	return results, nil
}
