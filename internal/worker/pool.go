// Package worker runs fire-and-forget tasks on a fixed set of goroutines.
package worker

import (
	"log/slog"
	"sync"
)

type task func()

type Pool struct {
	wg   sync.WaitGroup
	jobs chan task
}

func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{jobs: make(chan task, 1024)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.invoke(job)
	}
}

// invoke shields the worker goroutine from a panicking task.
func (p *Pool) invoke(job task) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("worker task panic", "err", rec)
		}
	}()
	job()
}

func (p *Pool) Submit(f task) { p.jobs <- f }

// Depth reports how many tasks are queued but not yet picked up.
func (p *Pool) Depth() int { return len(p.jobs) }

// Stop drains the queue and waits for in-flight tasks to finish. Submitting
// after Stop panics.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
