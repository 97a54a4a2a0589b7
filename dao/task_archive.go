// Package dao persists terminal planning outcomes as key-value records in
// Redis so a task survives as a durable record after the in-memory state
// machine ages it out.
package dao

import (
	"encoding/json"
	"fmt"

	"github.com/gomodule/redigo/redis"

	"routing/executor"
)

const defaultArchiveSeconds = 24 * 3600

// TaskArchive writes task outcomes to Redis with an expiry.
type TaskArchive struct {
	pool    *redis.Pool
	expires int
}

// NewTaskArchive binds the archive to a Redis pool. expireSeconds <= 0
// falls back to one day.
func NewTaskArchive(pool *redis.Pool, expireSeconds int) *TaskArchive {
	if expireSeconds <= 0 {
		expireSeconds = defaultArchiveSeconds
	}
	return &TaskArchive{pool: pool, expires: expireSeconds}
}

func taskKey(id string) string {
	return fmt.Sprintf("routing:task:%s", id)
}

// ArchiveTask stores the terminal task record under routing:task:<id>.
func (a *TaskArchive) ArchiveTask(v executor.TaskView) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal task %s: %w", v.ID, err)
	}

	conn := a.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("SETEX", taskKey(v.ID), a.expires, payload); err != nil {
		return fmt.Errorf("archive task %s: %w", v.ID, err)
	}
	return nil
}

// LookupTask retrieves an archived task record, redis.ErrNil when absent.
func (a *TaskArchive) LookupTask(id string) (*executor.TaskView, error) {
	conn := a.pool.Get()
	defer conn.Close()

	raw, err := redis.Bytes(conn.Do("GET", taskKey(id)))
	if err != nil {
		return nil, err
	}
	var v executor.TaskView
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode archived task %s: %w", id, err)
	}
	return &v, nil
}
