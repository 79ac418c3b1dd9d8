package workqueue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type noopJob struct{}

func (n noopJob) Run(ctx context.Context) error { return nil }

func TestQueue_SubmitAndStop(t *testing.T) {
	t.Parallel()
	q := New(Config{})
	defer q.Stop()

	if err := q.Submit(context.Background(), noopJob{}); err != nil {
		t.Fatalf("submit error: %v", err)
	}
}

func TestQueue_QueueFull(t *testing.T) {
	t.Parallel()
	q := New(Config{Capacity: 1, EnqueueTimeout: 10 * time.Millisecond})
	defer q.Stop()

	blockCtx, cancel := context.WithCancel(context.Background())
	var started int32
	_ = q.Submit(context.Background(), JobFunc(func(ctx context.Context) error {
		atomic.StoreInt32(&started, 1)
		<-blockCtx.Done()
		return nil
	}))

	for atomic.LoadInt32(&started) == 0 {
		time.Sleep(time.Millisecond)
	}

	// Fill the buffer
	_ = q.Submit(context.Background(), noopJob{})
	err := q.Submit(context.Background(), noopJob{})
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected queue full error, got %v", err)
	}
	cancel()
}

func TestQueue_FIFOOrdering(t *testing.T) {
	q := New(Config{Capacity: 10})
	defer q.Stop()

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	wg.Add(5)
	for i := 0; i < 5; i++ {
		v := i
		if err := q.Submit(context.Background(), JobFunc(func(ctx context.Context) error {
			mu.Lock()
			order = append(order, v)
			mu.Unlock()
			wg.Done()
			return nil
		})); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for jobs")
	}

	for i, v := range order {
		if i != v {
			t.Fatalf("expected FIFO order, got %v", order)
		}
	}
}

// Only one job may be in flight at a time.
func TestQueue_SerialExecution(t *testing.T) {
	q := New(Config{Capacity: 32})
	defer q.Stop()

	var inFlight, maxSeen int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		if err := q.Submit(context.Background(), JobFunc(func(ctx context.Context) error {
			defer wg.Done()
			n := atomic.AddInt32(&inFlight, 1)
			for {
				m := atomic.LoadInt32(&maxSeen)
				if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return nil
		})); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	wg.Wait()
	if maxSeen != 1 {
		t.Fatalf("expected at most one job in flight, saw %d", maxSeen)
	}
}

func TestQueue_CanceledJobIsSkipped(t *testing.T) {
	var handled []error
	var mu sync.Mutex
	q := New(Config{Capacity: 4, ErrorHandler: func(err error) {
		mu.Lock()
		handled = append(handled, err)
		mu.Unlock()
	}})
	defer q.Stop()

	release := make(chan struct{})
	_ = q.Submit(context.Background(), JobFunc(func(context.Context) error { <-release; return nil }))

	ctx, cancel := context.WithCancel(context.Background())
	var ran int32
	if err := q.Submit(ctx, JobFunc(func(context.Context) error { atomic.StoreInt32(&ran, 1); return nil })); err != nil {
		t.Fatalf("submit: %v", err)
	}
	cancel()
	close(release)

	if err := q.Barrier(context.Background()); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	if atomic.LoadInt32(&ran) != 0 {
		t.Fatal("cancelled job should not run")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(handled) != 1 || !errors.Is(handled[0], context.Canceled) {
		t.Fatalf("expected one context.Canceled report, got %v", handled)
	}
}

func TestQueue_PanicDoesNotStopWorker(t *testing.T) {
	q := New(Config{Capacity: 4})
	defer q.Stop()

	if err := q.Submit(context.Background(), JobFunc(func(ctx context.Context) error { panic("job panic") })); err != nil {
		t.Fatalf("submit panic job: %v", err)
	}

	ran := make(chan struct{})
	if err := q.Submit(context.Background(), JobFunc(func(ctx context.Context) error { close(ran); return nil })); err != nil {
		t.Fatalf("submit follow-up: %v", err)
	}

	select {
	case <-ran:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("worker did not continue after job panic")
	}
}

func TestQueue_DoReturnsJobError(t *testing.T) {
	t.Parallel()
	q := New(Config{})
	defer q.Stop()

	sentinel := errors.New("boom")
	if err := q.Do(context.Background(), JobFunc(func(context.Context) error { return sentinel })); !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
	var pe *PanicError
	if err := q.Do(context.Background(), JobFunc(func(context.Context) error { panic("x") })); !errors.As(err, &pe) {
		t.Fatalf("expected PanicError, got %v", err)
	}
}

func TestQueue_StopDrainsAndRejects(t *testing.T) {
	t.Parallel()
	q := New(Config{Capacity: 8})

	release := make(chan struct{})
	_ = q.Submit(context.Background(), JobFunc(func(context.Context) error { <-release; return nil }))
	var ran int32
	for i := 0; i < 3; i++ {
		_ = q.Submit(context.Background(), JobFunc(func(context.Context) error { atomic.AddInt32(&ran, 1); return nil }))
	}

	stopped := make(chan struct{})
	go func() { q.Stop(); close(stopped) }()
	close(release)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
	if atomic.LoadInt32(&ran) != 3 {
		t.Fatalf("expected queued jobs to drain, ran=%d", ran)
	}
	if err := q.Submit(context.Background(), noopJob{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after stop, got %v", err)
	}
	q.Stop() // idempotent
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestQueue_SubmitCtxCancelledWhileFull(t *testing.T) {
	t.Parallel()
	q := New(Config{Capacity: 1, EnqueueTimeout: time.Second})
	defer q.Stop()

	release := make(chan struct{})
	defer close(release)
	started := make(chan struct{})
	_ = q.Submit(context.Background(), JobFunc(func(context.Context) error { close(started); <-release; return nil }))
	<-started
	_ = q.Submit(context.Background(), noopJob{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := q.Submit(ctx, noopJob{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestQueue_AcceptedJobsRunWhenStopRaces(t *testing.T) {
	t.Parallel()
	for i := 0; i < 50; i++ {
		q := New(Config{Capacity: 4, EnqueueTimeout: 50 * time.Millisecond})

		var accepted, ran int32
		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					err := q.Submit(context.Background(), JobFunc(func(context.Context) error {
						atomic.AddInt32(&ran, 1)
						return nil
					}))
					if err == nil {
						atomic.AddInt32(&accepted, 1)
					}
				}
			}()
		}
		q.Stop()
		wg.Wait()

		if got, want := atomic.LoadInt32(&ran), atomic.LoadInt32(&accepted); got != want {
			t.Fatalf("round %d: accepted %d jobs but ran %d", i, want, got)
		}
	}
}
