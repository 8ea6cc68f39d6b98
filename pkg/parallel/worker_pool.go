// Package parallel provides the worker pool the pipeline uses to fan
// per-animal computations out across goroutines. Pools are one-shot:
// submit a batch, then Wait drains it and tears the workers down.
package parallel

import (
	"fmt"
	"math"
	"sync"

	"github.com/connectolab/graphmetrics/pkg/logging"
)

// WorkerPool runs submitted tasks on a fixed set of goroutines.
type WorkerPool struct {
	workers int
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // Guards tasks against close during Submit's send
	closed  bool
}

// ErrTooManyWorkers rejects worker counts whose queue capacity would
// overflow.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// MaxWorkers caps the pool size so the 2x queue buffer stays addressable.
const MaxWorkers = math.MaxInt / 2

// NewWorkerPool starts a pool of the given size. Counts below one
// degrade to a single worker; counts above MaxWorkers are an error.
func NewWorkerPool(workers int) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers: workers,
		tasks:   make(chan func(), workers*2),
	}
	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.run()
	}
	return pool, nil
}

// run drains the task queue until it closes.
func (wp *WorkerPool) run() {
	defer wp.wg.Done()

	for task := range wp.tasks {
		wp.runOne(task)
	}
}

// runOne executes a task, recovering panics so one bad computation
// cannot take the worker down with the rest of the batch.
func (wp *WorkerPool) runOne(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logging.ErrorLog("worker panic recovered",
				logging.Component("parallel"),
				logging.Any("panic", r))
		}
	}()
	task()
}

// Submit queues a task. It reports false once the pool has been
// closed; a full queue blocks instead.
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}
	wp.tasks <- task
	return true
}

// Close stops accepting tasks and waits for queued ones to finish.
// Safe to call more than once, from any goroutine.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.tasks)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Wait drains the submitted batch. The pool cannot be reused after.
func (wp *WorkerPool) Wait() {
	wp.Close()
}
