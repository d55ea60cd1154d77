package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/FlipResolver_Go/internal/catalog"
	"github.com/osse101/FlipResolver_Go/internal/testing/leaktest"
	"github.com/osse101/FlipResolver_Go/mocks"
)

type testJob struct {
	executed *int32
	release  chan struct{}
}

func (j *testJob) Process(ctx context.Context) error {
	if j.release != nil {
		<-j.release
	}
	atomic.AddInt32(j.executed, 1)
	return nil
}

func TestPool(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		var executed int32
		pool := NewPool(2, 10)
		pool.Start()

		job := &testJob{executed: &executed}
		assert.True(t, pool.Enqueue(job))
		assert.True(t, pool.Enqueue(job))

		assert.Eventually(t, func() bool { return atomic.LoadInt32(&executed) == 2 }, time.Second, 5*time.Millisecond)
		pool.Stop()
	})
}

func TestPool_EnqueueNeverBlocks(t *testing.T) {
	var executed int32
	release := make(chan struct{})
	pool := NewPool(1, 1)
	pool.Start()

	job := &testJob{executed: &executed, release: release}
	require.True(t, pool.Enqueue(job))
	// wait until the worker holds the first job so the queue slot is free again
	assert.Eventually(t, func() bool { return len(pool.jobQueue) == 0 }, time.Second, time.Millisecond)
	require.True(t, pool.Enqueue(job))
	assert.False(t, pool.Enqueue(job), "queue is full")

	close(release)
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&executed) == 2 }, time.Second, 5*time.Millisecond)

	pool.Stop()
	pool.Stop()
	assert.False(t, pool.Enqueue(job), "stopped pool rejects jobs")
}

func TestCatalogRefreshJob(t *testing.T) {
	t.Run("reloads", func(t *testing.T) {
		svc := mocks.NewMockFlipService(t)
		svc.On("ReloadCatalog", mock.Anything).Return(catalog.Stats{Recipes: 4}, nil).Once()

		assert.NoError(t, NewCatalogRefreshJob(svc).Process(context.Background()))
	})

	t.Run("surfaces errors", func(t *testing.T) {
		svc := mocks.NewMockFlipService(t)
		boom := errors.New("boom")
		svc.On("ReloadCatalog", mock.Anything).Return(catalog.Stats{}, boom).Once()

		assert.ErrorIs(t, NewCatalogRefreshJob(svc).Process(context.Background()), boom)
	})
}
