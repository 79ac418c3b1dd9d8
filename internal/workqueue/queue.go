// Package workqueue runs jobs one at a time, in submission order, on a single
// background goroutine. Callers never block on a job's execution unless they
// ask to (Do, Barrier).
package workqueue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

type queuedJob struct {
	ctx context.Context
	job Job
}

// Queue is a bounded FIFO served by exactly one worker goroutine, so at most
// one job is in flight at any time.
type Queue struct {
	cfg Config
	ch  chan queuedJob

	done   chan struct{} // closed in Stop()
	closed uint32        // 0 → running, 1 → closed

	// sendMu is held for reading while Submit sends and for writing while
	// Stop closes done, so an accepted job is always seen by the drain.
	sendMu sync.RWMutex

	wg sync.WaitGroup
}

// New constructs the queue and starts its worker.
func New(cfg Config) *Queue {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 16
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = 100 * time.Millisecond
	}

	q := &Queue{
		cfg:  cfg,
		ch:   make(chan queuedJob, cfg.Capacity),
		done: make(chan struct{}),
	}
	q.wg.Add(1)
	go q.runWorker()
	return q
}

// Submit enqueues job behind everything submitted before it.
//
//   - Returns nil on success.
//   - Returns ErrClosed if the queue is stopped.
//   - Returns a *QueueFullError (errors.Is ErrQueueFull) if there is still no
//     room after EnqueueTimeout.
//   - Returns ctx.Err() if the caller's context ends first.
func (q *Queue) Submit(ctx context.Context, job Job) error {
	q.sendMu.RLock()
	defer q.sendMu.RUnlock()

	if atomic.LoadUint32(&q.closed) == 1 {
		return ErrClosed
	}
	select {
	case <-q.done:
		return ErrClosed
	default:
	}

	timer := time.NewTimer(q.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case q.ch <- queuedJob{ctx: ctx, job: job}:
		submissionsTotal.Inc()
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		queueFullTotal.Inc()
		return &QueueFullError{Length: len(q.ch), Capacity: cap(q.ch)}
	}
}

// Do submits job and waits for it to finish, returning the job's error.
func (q *Queue) Do(ctx context.Context, job Job) error {
	res := make(chan error, 1)
	wrapped := JobFunc(func(jctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Value: r}
			}
			res <- err
		}()
		return job.Run(jctx)
	})
	if err := q.Submit(ctx, wrapped); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-res:
		return err
	}
}

// Barrier waits until every job submitted before it has run.
func (q *Queue) Barrier(ctx context.Context) error {
	return q.Do(ctx, JobFunc(func(context.Context) error { return nil }))
}

// Stop lets the worker finish the queued jobs, waits for it to exit, and
// returns. It is idempotent and safe for concurrent use.
func (q *Queue) Stop() {
	if !atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		return
	}
	log.Debug().Int("pending", len(q.ch)).Msg("workqueue: stopping")
	q.sendMu.Lock()
	close(q.done)
	q.sendMu.Unlock()
	q.wg.Wait()
	log.Debug().Msg("workqueue: stopped")
}

// Close lets Queue satisfy io.Closer.
func (q *Queue) Close() error {
	q.Stop()
	return nil
}

// ------------------------- internals -------------------------

func (q *Queue) runWorker() {
	defer q.wg.Done()

	for {
		select {
		case qj := <-q.ch:
			q.execute(qj)
			queueDepth.Set(float64(len(q.ch)))

		case <-q.done:
			// Drain remaining jobs in order, then exit.
			drained := 0
			for {
				select {
				case qj := <-q.ch:
					q.execute(qj)
					drained++
				default:
					if drained > 0 {
						log.Debug().Int("drained", drained).Msg("workqueue: drained pending jobs")
					}
					queueDepth.Set(0)
					return
				}
			}
		}
	}
}

func (q *Queue) execute(qj queuedJob) {
	if qj.job == nil {
		return
	}
	// A job whose caller already gave up is skipped, not run.
	if err := qj.ctx.Err(); err != nil {
		q.safeHandleError(err)
		return
	}
	start := time.Now()
	err := q.runJob(qj)
	runDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		q.safeHandleError(err)
	}
}

// runJob keeps a panicking job from taking the worker down with it.
func (q *Queue) runJob(qj queuedJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("workqueue: job panicked")
			err = &PanicError{Value: r}
		}
	}()
	return qj.job.Run(qj.ctx)
}

func (q *Queue) safeHandleError(err error) {
	if err == nil || q.cfg.ErrorHandler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("workqueue: error handler panicked")
		}
	}()
	q.cfg.ErrorHandler(err)
}
