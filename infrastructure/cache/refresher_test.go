package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRefresher_DeduplicatesInFlightKeys(t *testing.T) {
	release := make(chan struct{})
	var applied atomic.Int64

	r := newRefresher(1, 8, time.Second, func(ctx context.Context, task refreshTask) error {
		applied.Add(1)
		<-release
		return nil
	}, zap.NewNop(), nil)

	assert.True(t, r.Enqueue("k", nil, time.Minute, time.Minute))
	assert.False(t, r.Enqueue("k", nil, time.Minute, time.Minute), "a key already in flight is skipped")

	close(release)
	r.Stop()
	assert.Equal(t, int64(1), applied.Load())
}

func TestRefresher_FullQueueDropsInsteadOfBlocking(t *testing.T) {
	block := make(chan struct{})
	r := newRefresher(1, 1, time.Second, func(ctx context.Context, task refreshTask) error {
		<-block
		return nil
	}, zap.NewNop(), nil)

	// First task occupies the worker, second fills the queue
	require.True(t, r.Enqueue("a", nil, time.Minute, time.Minute))
	require.Eventually(t, func() bool {
		return r.Enqueue("b", nil, time.Minute, time.Minute)
	}, time.Second, time.Millisecond)

	done := make(chan bool, 1)
	go func() {
		done <- r.Enqueue("c", nil, time.Minute, time.Minute)
	}()

	select {
	case accepted := <-done:
		assert.False(t, accepted, "a full queue drops the task")
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}

	close(block)
	r.Stop()
}

func TestRefresher_EnqueueRacingStopDoesNotPanic(t *testing.T) {
	r := newRefresher(2, 4, time.Second, func(ctx context.Context, task refreshTask) error {
		return nil
	}, zap.NewNop(), nil)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; ; j++ {
				select {
				case <-stop:
					return
				default:
					r.Enqueue(fmt.Sprintf("k-%d-%d", n, j), nil, time.Minute, time.Minute)
				}
			}
		}(i)
	}

	r.Stop()
	close(stop)
	wg.Wait()

	assert.False(t, r.Enqueue("after", nil, time.Minute, time.Minute), "a stopped refresher rejects new work")
}

func TestRefresher_FailedRefreshIsSwallowed(t *testing.T) {
	r := newRefresher(1, 8, time.Second, func(ctx context.Context, task refreshTask) error {
		return errors.New("source down")
	}, zap.NewNop(), nil)

	assert.True(t, r.Enqueue("k", nil, time.Minute, time.Minute))
	r.Stop() // drains; the failure is dead-lettered, nothing panics or blocks
}
