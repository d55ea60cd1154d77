package worker

import (
	"context"
	"sync"

	"github.com/osse101/FlipResolver_Go/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// Pool runs queued jobs on a fixed number of goroutines
type Pool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	quit     chan struct{}
	stopOnce sync.Once
}

// NewPool creates a new worker pool
func NewPool(workers int, queueSize int) *Pool {
	return &Pool{
		workers:  max(workers, 1),
		jobQueue: make(chan Job, max(queueSize, 1)),
		quit:     make(chan struct{}),
	}
}

// Start starts the workers
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
		case job := <-p.jobQueue:
			p.run(job)
		case <-p.quit:
			return
		}
	}
}

func (p *Pool) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultJobTimeout)
	defer cancel()
	ctx = logger.WithRequestID(ctx, logger.GenerateRequestID())

	if err := job.Process(ctx); err != nil {
		logger.FromContext(ctx).Error(LogMsgWorkerJobFailed, "error", err)
	}
}

// Enqueue adds a job without blocking. It returns false when the queue is full
// or the pool is stopped.
func (p *Pool) Enqueue(job Job) bool {
	select {
	case <-p.quit:
		return false
	default:
	}

	select {
	case p.jobQueue <- job:
		return true
	default:
		logger.FromContext(context.Background()).Warn(LogMsgQueueFull)
		return false
	}
}

// Stop stops the workers and waits for running jobs to finish
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.quit)
	})
	p.wg.Wait()
}
