package task

import (
	c "remindbot/internal/core/domain/common"
	e "remindbot/internal/core/domain/errors"
	"time"
)

type ID int64

type ChatID int64

// Task is a single reminder scheduled for delivery to a Telegram chat.
// DueAt has minute precision and is never changed after creation; the only
// mutation paths are MarkSent and MarkAttempt.
type Task struct {
	ID            ID
	ChatID        ChatID
	Body          string
	DueAt         time.Time
	CreatedAt     time.Time
	Sent          bool
	AttemptCount  uint32
	LastAttemptAt c.Optional[time.Time]
}

// MarkSent records a successful delivery attempt. Sent never reverts to
// false, calling MarkSent again only increments the attempt counter.
func (t *Task) MarkSent(at time.Time) {
	t.Sent = true
	t.AttemptCount++
	t.LastAttemptAt = c.NewOptional(at, true)
}

// MarkAttempt records a failed delivery attempt, the task stays unsent.
func (t *Task) MarkAttempt(at time.Time) {
	t.AttemptCount++
	t.LastAttemptAt = c.NewOptional(at, true)
}

func (t *Task) Validate() error {
	if t.Body == "" {
		return e.NewInvalidStateError("task body must not be empty")
	}
	if !t.DueAt.After(t.CreatedAt) {
		return e.NewInvalidStateError("task DueAt must be after CreatedAt")
	}
	if t.Sent && t.AttemptCount == 0 {
		return e.NewInvalidStateError("sent task must have at least one attempt")
	}
	if t.AttemptCount > 0 && !t.LastAttemptAt.IsPresent {
		return e.NewInvalidStateError("LastAttemptAt must be set for attempted tasks")
	}
	return nil
}
