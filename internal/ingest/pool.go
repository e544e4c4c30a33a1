package ingest

import (
	"context"
	"sync"
)

type task func(ctx context.Context) error

// pool runs submitted tasks on a fixed number of workers and reports each
// task's error on the channel returned by run. close the pool after the last
// submit; the result channel closes once every task has settled.
type pool struct {
	workers int
	tasks   chan task
	wg      sync.WaitGroup
}

func newPool(workers, buffer int) *pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &pool{
		workers: workers,
		tasks:   make(chan task, buffer),
	}
}

func (p *pool) submit(t task) {
	if t == nil {
		return
	}
	p.tasks <- t
}

// submitCtx is like submit but gives up when ctx is done. Reports whether
// the task was enqueued.
func (p *pool) submitCtx(ctx context.Context, t task) bool {
	if t == nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case p.tasks <- t:
		return true
	}
}

func (p *pool) close() {
	close(p.tasks)
}

func (p *pool) run(ctx context.Context) <-chan error {
	out := make(chan error, p.workers*64)

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
					err := t(ctx)
					select {
					case <-ctx.Done():
						return
					case out <- err:
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
