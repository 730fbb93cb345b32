package workerpool

import (
	"context"
	"sync"
)

type Task func(ctx context.Context) error

type Result struct {
	// Index is the submission order of the task.
	Index int
	Err   error
}

type indexedTask struct {
	index int
	run   Task
}

// WorkerPool runs submitted tasks on a fixed number of goroutines.
// Call Run before Submit, and Close once all tasks are submitted.
type WorkerPool struct {
	workers int
	tasks   chan indexedTask
	wg      sync.WaitGroup

	mu   sync.Mutex
	next int
}

func New(workers, buffer int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &WorkerPool{
		workers: workers,
		tasks:   make(chan indexedTask, buffer),
	}
}

func (p *WorkerPool) Workers() int {
	if p == nil {
		return 0
	}
	return p.workers
}

// Submit enqueues t and returns its index. It blocks while the queue is full.
func (p *WorkerPool) Submit(t Task) int {
	if p == nil || t == nil {
		return -1
	}
	p.mu.Lock()
	idx := p.next
	p.next++
	p.mu.Unlock()
	p.tasks <- indexedTask{index: idx, run: t}
	return idx
}

// SubmitContext is Submit that gives up when ctx is done.
func (p *WorkerPool) SubmitContext(ctx context.Context, t Task) (int, error) {
	if p == nil || t == nil {
		return -1, nil
	}
	p.mu.Lock()
	idx := p.next
	p.next++
	p.mu.Unlock()
	select {
	case p.tasks <- indexedTask{index: idx, run: t}:
		return idx, nil
	case <-ctx.Done():
		return -1, ctx.Err()
	}
}

func (p *WorkerPool) Close() {
	if p == nil {
		return
	}
	close(p.tasks)
}

// Run starts the workers. The returned channel closes after Close has been
// called and every task has finished, or after ctx is done.
func (p *WorkerPool) Run(ctx context.Context) <-chan Result {
	out := make(chan Result, p.Workers())
	if p == nil {
		close(out)
		return out
	}

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					err := ctx.Err()
					if err == nil {
						err = t.run(ctx)
					}
					select {
					case <-ctx.Done():
						return
					case out <- Result{Index: t.index, Err: err}:
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		close(out)
	}()

	return out
}

// ForEach runs fn for every index in [0, n) on at most workers goroutines and
// returns the per-index errors. Slots for tasks that never ran because ctx was
// done hold ctx.Err().
func ForEach(ctx context.Context, workers, n int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)
	if n == 0 {
		return errs
	}
	if workers > n {
		workers = n
	}

	done := make([]bool, n)
	p := New(workers, workers)
	results := p.Run(ctx)

	go func() {
		defer p.Close()
		for i := 0; i < n; i++ {
			if _, err := p.SubmitContext(ctx, func(ctx context.Context) error { return fn(ctx, i) }); err != nil {
				return
			}
		}
	}()

	for r := range results {
		errs[r.Index] = r.Err
		done[r.Index] = true
	}

	for i := range done {
		if !done[i] {
			if err := ctx.Err(); err != nil {
				errs[i] = err
			}
		}
	}
	return errs
}
