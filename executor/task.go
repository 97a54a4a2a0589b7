package executor

import (
	"sync"
	"time"

	"routing/planner"
)

// Status is the lifecycle state of an asynchronous planning task.
// Transitions run strictly pending -> running -> completed|failed; the
// terminal states are final.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Task is one trackable unit of planning work. Only the executor mutates a
// task; everyone else reads copies via View.
type Task struct {
	ID          string
	Request     planner.Request
	Status      Status
	CreatedAt   time.Time
	CompletedAt time.Time
	Result      *planner.Result
	ErrDetail   string

	done     chan struct{}
	doneOnce sync.Once
}

func (t *Task) finish() {
	t.doneOnce.Do(func() { close(t.done) })
}

// TaskView is the immutable copy handed to pollers and the archive.
type TaskView struct {
	ID          string          `json:"task_id"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Result      *planner.Result `json:"result,omitempty"`
	ErrDetail   string          `json:"error,omitempty"`
}

func (t *Task) view() TaskView {
	v := TaskView{
		ID:        t.ID,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		Result:    t.Result,
		ErrDetail: t.ErrDetail,
	}
	if !t.CompletedAt.IsZero() {
		completed := t.CompletedAt
		v.CompletedAt = &completed
	}
	return v
}
