package workqueue

import (
	"errors"
	"fmt"
)

// ErrQueueFull reports transient back-pressure: the queue was still full
// when the enqueue timeout elapsed.
var ErrQueueFull = errors.New("work queue full")

// ErrClosed reports a permanent condition: the queue has been stopped and
// will accept no further work.
var ErrClosed = errors.New("work queue closed")

// QueueFullError carries diagnostics while satisfying errors.Is(_, ErrQueueFull).
type QueueFullError struct {
	Length   int // queue length at timeout
	Capacity int // cap(queue)
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("work queue full (len=%d cap=%d)", e.Length, e.Capacity)
}

func (e *QueueFullError) Is(target error) bool { return target == ErrQueueFull }

// PanicError wraps a value recovered from a panicking job.
type PanicError struct{ Value any }

func (e *PanicError) Error() string { return fmt.Sprintf("job panicked: %v", e.Value) }
