package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TaskState is the lifecycle state of a Task.
type TaskState string

const (
	TaskRunning   TaskState = "running"
	TaskSucceeded TaskState = "succeeded"
	TaskFailed    TaskState = "failed"
)

// Task is the handle of a function running in its own goroutine. Its result
// can be awaited or polled.
type Task[T any] struct {
	done      chan struct{}
	startedAt time.Time
	result    T
	err       error
	endedAt   time.Time
}

// Go runs fn in a new goroutine and returns its handle. A panic in fn is
// recovered and reported as the task's error.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{}), startedAt: time.Now()}
	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.err = fmt.Errorf("task panicked: %v", r)
			}
			t.endedAt = time.Now()
		}()
		t.result, t.err = fn(ctx)
	}()
	return t
}

// Done is closed once the task has finished.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx ends.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// TaskStatus is a point-in-time view of a task.
type TaskStatus[T any] struct {
	State     TaskState  `json:"state"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Result    T          `json:"result,omitempty"`
	Error     string     `json:"error,omitempty"`
	Err       error      `json:"-"`
}

// Status reports the task's state without blocking.
func (t *Task[T]) Status() TaskStatus[T] {
	select {
	case <-t.done:
	default:
		return TaskStatus[T]{State: TaskRunning, StartedAt: t.startedAt}
	}

	ended := t.endedAt
	s := TaskStatus[T]{StartedAt: t.startedAt, EndedAt: &ended, Result: t.result}
	if t.err != nil {
		s.State = TaskFailed
		s.Error = t.err.Error()
		s.Err = t.err
	} else {
		s.State = TaskSucceeded
	}
	return s
}

// DefaultTaskRetention is how long a finished task stays queryable.
const DefaultTaskRetention = time.Hour

// TaskTracker keeps the latest task per key, so repeated triggers for the same
// key join the running task instead of starting another. Finished tasks are
// dropped once they have been done for longer than the retention.
type TaskTracker[T any] struct {
	mu        sync.Mutex
	tasks     map[string]*Task[T]
	wg        sync.WaitGroup
	retention time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewTaskTracker creates an empty TaskTracker. A non-positive retention uses
// DefaultTaskRetention.
func NewTaskTracker[T any](retention time.Duration) *TaskTracker[T] {
	if retention <= 0 {
		retention = DefaultTaskRetention
	}
	return &TaskTracker[T]{
		tasks:     make(map[string]*Task[T]),
		retention: retention,
		now:       time.Now,
	}
}

// Start runs fn under key unless a task for key is still running, in which
// case that task is returned and started is false.
func (tt *TaskTracker[T]) Start(ctx context.Context, key string, fn func(ctx context.Context) (T, error)) (task *Task[T], started bool) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	tt.sweep()
	if existing, ok := tt.tasks[key]; ok {
		select {
		case <-existing.Done():
		default:
			return existing, false
		}
	}

	tt.wg.Add(1)
	task = Go(ctx, func(ctx context.Context) (T, error) {
		defer tt.wg.Done()
		return fn(ctx)
	})
	tt.tasks[key] = task
	return task, true
}

// Get returns the latest task started under key while it is retained.
func (tt *TaskTracker[T]) Get(key string) (*Task[T], bool) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	task, ok := tt.tasks[key]
	if !ok {
		return nil, false
	}
	if tt.expired(task, tt.now()) {
		delete(tt.tasks, key)
		return nil, false
	}
	return task, true
}

// Len reports how many tasks are currently retained.
func (tt *TaskTracker[T]) Len() int {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	return len(tt.tasks)
}

// sweep drops expired tasks. It runs at most once per retention period and
// must be called with tt.mu held.
func (tt *TaskTracker[T]) sweep() {
	now := tt.now()
	if now.Sub(tt.lastSweep) < tt.retention {
		return
	}
	tt.lastSweep = now
	for key, task := range tt.tasks {
		if tt.expired(task, now) {
			delete(tt.tasks, key)
		}
	}
}

func (tt *TaskTracker[T]) expired(task *Task[T], now time.Time) bool {
	select {
	case <-task.Done():
		return now.Sub(task.endedAt) > tt.retention
	default:
		return false
	}
}

// Wait blocks until every started task has finished or ctx ends.
func (tt *TaskTracker[T]) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		tt.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
