package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/FlipResolver_Go/internal/testing/leaktest"
	"github.com/osse101/FlipResolver_Go/internal/worker"
)

type countingJob struct {
	runs int32
}

func (j *countingJob) Process(ctx context.Context) error {
	atomic.AddInt32(&j.runs, 1)
	return nil
}

func TestScheduler(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		pool := worker.NewPool(1, 10)
		pool.Start()

		sched := New(pool)
		job := &countingJob{}
		sched.Schedule(10*time.Millisecond, job)

		assert.Eventually(t, func() bool { return atomic.LoadInt32(&job.runs) >= 2 }, time.Second, 5*time.Millisecond)

		sched.Stop()
		sched.Stop()
		pool.Stop()
	})
}

func TestScheduler_StopWithoutJobs(t *testing.T) {
	pool := worker.NewPool(1, 1)
	sched := New(pool)
	sched.Stop()
}
