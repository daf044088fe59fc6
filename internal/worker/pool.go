// Package worker runs classification jobs concurrently with per-backend
// rate limiting.
package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

type queuedJob struct {
	index int
	job   Job
}

// Pool runs jobs on a fixed number of workers and returns their results in
// submission order
type Pool struct {
	workers int
	queue   chan queuedJob
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	mu        sync.Mutex
	submitted int
	results   map[int]Result
	closeOnce sync.Once
}

// NewPool creates a pool bound to ctx; cancelling ctx stops the workers
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers: workers,
		queue:   make(chan queuedJob, workers*2),
		ctx:     ctx,
		cancel:  cancel,
		results: make(map[int]Result),
	}
}

// Start launches the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case qj, ok := <-p.queue:
			if !ok {
				return
			}
			result := qj.job.Execute(p.ctx)
			p.mu.Lock()
			p.results[qj.index] = result
			p.mu.Unlock()
		}
	}
}

// Submit queues a job. It returns false if the pool was cancelled first.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}

	p.mu.Lock()
	index := p.submitted
	p.submitted++
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return false
	case p.queue <- queuedJob{index: index, job: job}:
		return true
	}
}

// Wait closes the queue, waits for the workers and returns results in
// submission order. Jobs that never ran are omitted.
func (p *Pool) Wait() []Result {
	p.closeQueue()
	p.wg.Wait()
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	results := make([]Result, 0, len(p.results))
	for i := 0; i < p.submitted; i++ {
		if r, ok := p.results[i]; ok {
			results = append(results, r)
		}
	}
	return results
}

// Shutdown cancels in-flight work and waits for the workers to exit
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

func (p *Pool) closeQueue() {
	p.closeOnce.Do(func() {
		close(p.queue)
	})
}
