package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gogpu/sprite/internal/logger"
)

// Task is a unit of work run by a Scheduler.
// Execute must not call back into the Scheduler that runs it.
type Task interface {
	Execute()
}

// TaskFunc adapts a plain function to the Task interface.
type TaskFunc func()

// Execute calls f.
func (f TaskFunc) Execute() { f() }

// Scheduler is a fixed pool of worker goroutines sharing a single task stack.
//
// Work is submitted in batches: Enqueue or EnqueueAll push tasks, Dispatch
// wakes the workers and lets the calling goroutine drain the stack alongside
// them, and Wait blocks until every submitted task has finished. With N
// workers, N+1 goroutines take part in each dispatch.
//
// The stack is guarded by one mutex. One condition variable signals both
// "work available" to idle workers and "drained" to goroutines in Wait.
// Pop order is unspecified; callers must not depend on it.
//
// Thread safety: all methods are safe for concurrent use.
type Scheduler struct {
	mu   sync.Mutex
	cond *sync.Cond

	// tasks is used as a stack.
	tasks []Task

	// pending counts queued plus executing tasks. Modified under mu so
	// the zero transition and its broadcast are atomic with the stack state.
	pending atomic.Int64

	// executed counts tasks that ran to completion.
	executed atomic.Uint64

	stop    bool
	running atomic.Bool
	workers int
	wg      sync.WaitGroup
}

// NewScheduler starts a scheduler with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewScheduler(workers int) *Scheduler {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	s := &Scheduler{workers: workers}
	s.cond = sync.NewCond(&s.mu)
	s.running.Store(true)

	s.wg.Add(workers)
	for range workers {
		go s.worker()
	}

	logger.Get().Debug("parallel: scheduler started", "workers", workers)
	return s
}

// worker pops and executes tasks until the scheduler stops.
func (s *Scheduler) worker() {
	defer s.wg.Done()

	s.mu.Lock()
	for {
		for len(s.tasks) == 0 && !s.stop {
			s.cond.Wait()
		}
		if s.stop {
			s.mu.Unlock()
			return
		}

		t := s.pop()
		s.mu.Unlock()

		t.Execute()

		s.mu.Lock()
		s.done()
	}
}

// pop removes the top of the stack. Caller must hold s.mu and ensure the
// stack is not empty.
func (s *Scheduler) pop() Task {
	n := len(s.tasks) - 1
	t := s.tasks[n]
	s.tasks[n] = nil
	s.tasks = s.tasks[:n]
	return t
}

// done records a finished task. Caller must hold s.mu.
func (s *Scheduler) done() {
	s.executed.Add(1)
	if s.pending.Add(-1) == 0 {
		s.cond.Broadcast()
	}
}

// Enqueue pushes a task without waking workers; call Dispatch to start the
// batch. After Shutdown the task is silently dropped.
func (s *Scheduler) Enqueue(t Task) {
	if t == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop {
		logger.Get().Debug("parallel: enqueue after shutdown dropped")
		return
	}
	s.tasks = append(s.tasks, t)
	s.pending.Add(1)
}

// EnqueueAll pushes a batch of tasks under a single lock acquisition.
// Nil entries are skipped. After Shutdown the batch is silently dropped.
func (s *Scheduler) EnqueueAll(tasks []Task) {
	if len(tasks) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop {
		logger.Get().Debug("parallel: enqueue after shutdown dropped", "tasks", len(tasks))
		return
	}
	for _, t := range tasks {
		if t == nil {
			continue
		}
		s.tasks = append(s.tasks, t)
		s.pending.Add(1)
	}
}

// Dispatch wakes the workers, then executes queued tasks on the calling
// goroutine until the stack is empty. It returns when there is nothing left
// to pop; tasks popped by workers may still be running. Call Wait to block
// until they finish.
func (s *Scheduler) Dispatch() {
	s.mu.Lock()
	s.cond.Broadcast()
	for len(s.tasks) > 0 && !s.stop {
		t := s.pop()
		s.mu.Unlock()

		t.Execute()

		s.mu.Lock()
		s.done()
	}
	s.mu.Unlock()
}

// Wait blocks until the stack is empty and no task is executing.
// Tasks enqueued without a Dispatch are handed to the workers.
func (s *Scheduler) Wait() {
	s.mu.Lock()
	if len(s.tasks) > 0 {
		s.cond.Broadcast()
	}
	for len(s.tasks) > 0 || s.pending.Load() > 0 {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

// Run enqueues tasks, dispatches them and waits for completion.
func (s *Scheduler) Run(tasks []Task) {
	s.EnqueueAll(tasks)
	s.Dispatch()
	s.Wait()
}

// Shutdown stops the workers and discards tasks that have not started.
// Tasks already executing run to completion. Shutdown blocks until every
// worker has exited and is safe to call more than once.
func (s *Scheduler) Shutdown() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}

	s.mu.Lock()
	s.stop = true
	s.cond.Broadcast()
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	dropped := len(s.tasks)
	clear(s.tasks)
	s.tasks = nil
	if s.pending.Add(int64(-dropped)) == 0 {
		s.cond.Broadcast()
	}
	s.mu.Unlock()

	logger.Get().Debug("parallel: scheduler stopped", "dropped", dropped)
}

// Workers returns the number of worker goroutines, not counting the caller
// of Dispatch.
func (s *Scheduler) Workers() int {
	return s.workers
}

// IsRunning reports whether the scheduler still accepts work.
func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

// Pending returns the number of queued plus executing tasks.
func (s *Scheduler) Pending() int {
	return int(s.pending.Load())
}

// Executed returns the total number of tasks that have completed.
func (s *Scheduler) Executed() uint64 {
	return s.executed.Load()
}
