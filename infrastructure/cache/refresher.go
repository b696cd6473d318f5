package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"newsdesk-backend/pkg/observability"
)

// refreshTask is one stale entry handed off for background revalidation
type refreshTask struct {
	id          string
	key         string
	fetcher     Fetcher
	ttl         time.Duration
	staleWindow time.Duration
	enqueuedAt  time.Time
}

// Refresher is the background executor for stale-while-revalidate work.
// GetOrFetch hands stale entries to it and returns immediately; failed
// refreshes land in a dead-letter log (structured log + counter), never in
// a caller's error path because by construction no caller is waiting.
type Refresher struct {
	tasks   chan refreshTask
	apply   func(ctx context.Context, task refreshTask) error
	timeout time.Duration

	pending sync.Map // key -> struct{}, dedupes in-flight refreshes

	logger  *zap.Logger
	metrics *observability.Collector

	wg       sync.WaitGroup
	stopOnce sync.Once
	done     chan struct{}
}

// newRefresher starts workers draining the task queue. apply performs the
// actual fetch-and-store and is supplied by the manager.
func newRefresher(
	workers, queueSize int,
	timeout time.Duration,
	apply func(ctx context.Context, task refreshTask) error,
	logger *zap.Logger,
	metrics *observability.Collector,
) *Refresher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 64
	}
	r := &Refresher{
		tasks:   make(chan refreshTask, queueSize),
		apply:   apply,
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
		done:    make(chan struct{}),
	}
	r.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go r.worker()
	}
	return r
}

// Enqueue hands a stale key off for refresh. It never blocks: a key already
// being refreshed is skipped, and a full queue drops the task with a
// dead-letter record. Returns whether the task was accepted.
func (r *Refresher) Enqueue(key string, fetcher Fetcher, ttl, staleWindow time.Duration) bool {
	select {
	case <-r.done:
		return false
	default:
	}

	if _, loaded := r.pending.LoadOrStore(key, struct{}{}); loaded {
		return false
	}

	task := refreshTask{
		id:          uuid.NewString(),
		key:         key,
		fetcher:     fetcher,
		ttl:         ttl,
		staleWindow: staleWindow,
		enqueuedAt:  time.Now(),
	}

	select {
	case r.tasks <- task:
		return true
	case <-r.done:
		r.pending.Delete(key)
		return false
	default:
		r.pending.Delete(key)
		if r.metrics != nil {
			r.metrics.RefreshDropped.Inc()
		}
		r.logger.Warn("refresh queue full, task dropped",
			zap.String("task_id", task.id),
			zap.String("key", key),
		)
		return false
	}
}

// Stop drains the queue and waits for in-flight refreshes to finish. The
// task channel is never closed: an Enqueue racing Stop must not be able to
// send on a closed channel, so shutdown is signalled through done only.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
	})
	r.wg.Wait()
}

func (r *Refresher) worker() {
	defer r.wg.Done()
	for {
		select {
		case task := <-r.tasks:
			r.run(task)
		case <-r.done:
			// Drain what was queued before the stop signal, then exit
			for {
				select {
				case task := <-r.tasks:
					r.run(task)
				default:
					return
				}
			}
		}
	}
}

func (r *Refresher) run(task refreshTask) {
	defer r.pending.Delete(task.key)

	// Background context: the request that noticed the staleness is long gone
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.apply(ctx, task); err != nil {
		if r.metrics != nil {
			r.metrics.RefreshFailures.Inc()
		}
		r.logger.Error("cache refresh dead-lettered",
			zap.String("task_id", task.id),
			zap.String("key", task.key),
			zap.Duration("queued_for", time.Since(task.enqueuedAt)),
			zap.Error(err),
		)
	}
}
