package executor

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	log "github.com/sirupsen/logrus"

	"routing/planner"
)

var (
	// ErrCapacityExceeded signals a full queue at submission time. The
	// caller should back off and retry rather than expect queuing.
	ErrCapacityExceeded = errors.New("task queue at capacity")

	// ErrTaskNotFound signals polling an unknown or expired task id.
	ErrTaskNotFound = errors.New("task not found")

	// ErrRequestTimeout signals a synchronous plan that outlived its
	// deadline; the task keeps running in the background.
	ErrRequestTimeout = errors.New("request timed out")
)

// Planner is the planning pipeline the pool runs. Satisfied by
// *planner.Planner.
type Planner interface {
	Validate(req planner.Request) error
	Plan(req planner.Request) (*planner.Result, error)
}

// Archiver persists terminal task outcomes. Archiving is best effort and
// never affects the task state machine.
type Archiver interface {
	ArchiveTask(v TaskView) error
}

// Stats is the live pool/queue picture exposed by the stats surface.
type Stats struct {
	MaxWorkers     int   `json:"max_workers"`
	RunningTasks   int   `json:"running_tasks"`
	PendingTasks   int   `json:"pending_tasks"`
	TotalSubmitted int64 `json:"total_submitted"`
	TotalCompleted int64 `json:"total_completed"`
	TotalFailed    int64 `json:"total_failed"`
	QueueSize      int   `json:"queue_size"`
}

// Executor runs planning jobs on a fixed ants pool with a bounded pending
// queue. Submissions beyond the queue bound are rejected immediately.
type Executor struct {
	planner  Planner
	pool     *ants.PoolWithFunc
	queue    chan *Task
	timeout  time.Duration
	archiver Archiver

	mu    sync.RWMutex
	tasks map[string]*Task

	maxWorkers int
	queueSize  int
	pending    int64
	submitted  int64
	completed  int64
	failed     int64
	seq        uint64

	closeOnce sync.Once
	closed    chan struct{}
}

// Option mutates an Executor at construction.
type Option func(*Executor)

// WithArchiver wires a durable store for terminal task outcomes.
func WithArchiver(a Archiver) Option {
	return func(e *Executor) { e.archiver = a }
}

// New builds the executor and starts its dispatcher. maxWorkers bounds the
// parallel planning jobs, queueSize bounds the pending backlog and timeout
// caps synchronous submissions.
func New(p Planner, maxWorkers, queueSize int, timeout time.Duration, opts ...Option) (*Executor, error) {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	if queueSize <= 0 {
		queueSize = 2 * maxWorkers
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	e := &Executor{
		planner:    p,
		queue:      make(chan *Task, queueSize),
		timeout:    timeout,
		tasks:      make(map[string]*Task),
		maxWorkers: maxWorkers,
		queueSize:  queueSize,
		closed:     make(chan struct{}),
	}
	for _, o := range opts {
		o(e)
	}

	pool, err := ants.NewPoolWithFunc(maxWorkers, e.run)
	if err != nil {
		return nil, fmt.Errorf("create planning pool: %w", err)
	}
	e.pool = pool

	go e.dispatch()
	return e, nil
}

// dispatch feeds queued tasks into the pool. Invoke blocks while all
// workers are busy, so the channel buffer is the real backlog bound.
func (e *Executor) dispatch() {
	for {
		select {
		case task := <-e.queue:
			if err := e.pool.Invoke(task); err != nil {
				atomic.AddInt64(&e.pending, -1)
				e.markFailed(task, fmt.Errorf("dispatch: %w", err))
			}
		case <-e.closed:
			return
		}
	}
}

// Submit enqueues an asynchronous planning job and returns its pending
// task. Validation failures and a full queue are reported immediately
// without occupying a worker.
func (e *Executor) Submit(req planner.Request) (TaskView, error) {
	if err := e.planner.Validate(req); err != nil {
		return TaskView{}, err
	}

	task := &Task{
		ID:        e.nextID(),
		Request:   req,
		Status:    StatusPending,
		CreatedAt: time.Now(),
		done:      make(chan struct{}),
	}

	// Snapshot and register before the enqueue; once the task is on the
	// queue a worker may start mutating it.
	view := task.view()
	e.mu.Lock()
	e.tasks[task.ID] = task
	e.mu.Unlock()

	select {
	case e.queue <- task:
	default:
		e.mu.Lock()
		delete(e.tasks, task.ID)
		e.mu.Unlock()
		return TaskView{}, ErrCapacityExceeded
	}

	atomic.AddInt64(&e.submitted, 1)
	atomic.AddInt64(&e.pending, 1)

	log.Debugf("task %s submitted: %s -> %s", task.ID, req.StartNode, req.EndNode)
	return view, nil
}

// RunSync submits the request and blocks until the job finishes or the
// request timeout elapses.
func (e *Executor) RunSync(req planner.Request) (*planner.Result, error) {
	view, err := e.Submit(req)
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	task := e.tasks[view.ID]
	e.mu.RUnlock()

	select {
	case <-task.done:
	case <-time.After(e.timeout):
		return nil, ErrRequestTimeout
	}

	final, err := e.Get(view.ID)
	if err != nil {
		return nil, err
	}
	if final.Status == StatusFailed {
		return nil, errors.New(final.ErrDetail)
	}
	return final.Result, nil
}

// Get returns a copy of the task record.
func (e *Executor) Get(taskID string) (TaskView, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	task, ok := e.tasks[taskID]
	if !ok {
		return TaskView{}, ErrTaskNotFound
	}
	return task.view(), nil
}

// Stats reports the live pool and lifetime counters.
func (e *Executor) Stats() Stats {
	return Stats{
		MaxWorkers:     e.maxWorkers,
		RunningTasks:   e.pool.Running(),
		PendingTasks:   int(atomic.LoadInt64(&e.pending)),
		TotalSubmitted: atomic.LoadInt64(&e.submitted),
		TotalCompleted: atomic.LoadInt64(&e.completed),
		TotalFailed:    atomic.LoadInt64(&e.failed),
		QueueSize:      e.queueSize,
	}
}

// Close stops the dispatcher and releases the pool. In-flight jobs finish.
func (e *Executor) Close() {
	e.closeOnce.Do(func() {
		close(e.closed)
		e.pool.Release()
	})
}

// run executes one task on a pool worker. Panics inside a job are recorded
// as a failed task instead of taking the pool down.
func (e *Executor) run(arg interface{}) {
	task := arg.(*Task)
	atomic.AddInt64(&e.pending, -1)

	e.mu.Lock()
	task.Status = StatusRunning
	e.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			e.markFailed(task, fmt.Errorf("planning panic: %v", r))
		}
	}()

	result, err := e.planner.Plan(task.Request)
	if err != nil {
		e.markFailed(task, err)
		return
	}

	e.mu.Lock()
	task.Status = StatusCompleted
	task.Result = result
	task.CompletedAt = time.Now()
	e.mu.Unlock()
	atomic.AddInt64(&e.completed, 1)

	e.archive(task)
	task.finish()
}

func (e *Executor) markFailed(task *Task, err error) {
	e.mu.Lock()
	task.Status = StatusFailed
	task.ErrDetail = err.Error()
	task.CompletedAt = time.Now()
	e.mu.Unlock()
	atomic.AddInt64(&e.failed, 1)

	log.Warnf("task %s failed: %v", task.ID, err)
	e.archive(task)
	task.finish()
}

func (e *Executor) archive(task *Task) {
	if e.archiver == nil {
		return
	}
	e.mu.RLock()
	view := task.view()
	e.mu.RUnlock()
	if err := e.archiver.ArchiveTask(view); err != nil {
		log.Warnf("archive task %s: %v", task.ID, err)
	}
}

func (e *Executor) nextID() string {
	seq := atomic.AddUint64(&e.seq, 1)
	return fmt.Sprintf("task-%d-%06d", time.Now().Unix(), seq)
}
