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

type indexedJob struct {
	index int
	job   Job
}

type indexedResult struct {
	index  int
	result Result
}

// Pool runs jobs on a fixed number of workers and returns their results in
// submission order
type Pool struct {
	workers       int
	jobQueue      chan indexedJob
	results       chan indexedResult
	submitted     int
	collected     map[int]Result // Written by collect only
	collectorDone chan struct{}
	wg            sync.WaitGroup
	ctx           context.Context
	cancelFunc    context.CancelFunc
	closeOnce     sync.Once
}

// NewPool creates a pool bound to ctx; cancelling ctx stops the workers.
// Submit and Wait must be called from a single goroutine.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	p := &Pool{
		workers:       workers,
		jobQueue:      make(chan indexedJob, workers*2),
		results:       make(chan indexedResult, workers*2),
		collected:     make(map[int]Result),
		collectorDone: make(chan struct{}),
		ctx:           ctx,
		cancelFunc:    cancel,
	}
	go p.collect()
	return p
}

// collect drains results as they arrive so workers never block on a full
// results buffer while Submit is still queueing jobs
func (p *Pool) collect() {
	defer close(p.collectorDone)
	for ir := range p.results {
		p.collected[ir.index] = ir.result
	}
}

// Start starts the worker goroutines
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
		case ij, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := ij.job.Execute(p.ctx)
			// The collector drains until every worker has exited.
			p.results <- indexedResult{index: ij.index, result: result}
		}
	}
}

// Submit queues a job. It reports false when the pool was cancelled before
// the job could be queued.
func (p *Pool) Submit(job Job) bool {
	ij := indexedJob{index: p.submitted, job: job}
	p.submitted++

	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- ij:
		return true
	}
}

// Wait waits for all queued jobs and returns one slot per submitted job.
// Slots of jobs dropped by cancellation are nil.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)

	p.wg.Wait()
	p.closeResults()
	<-p.collectorDone

	results := make([]Result, p.submitted)
	for i, r := range p.collected {
		results[i] = r
	}

	p.cancelFunc()
	return results
}

// Shutdown stops the workers immediately; queued jobs are dropped
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
	<-p.collectorDone
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
