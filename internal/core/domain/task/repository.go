package task

import (
	"context"
	"time"
)

type CreateInput struct {
	ChatID    ChatID
	Body      string
	DueAt     time.Time
	CreatedAt time.Time
}

// Repository owns the persisted task records. MarkSent and MarkAttempt are
// the only mutation paths and both are atomic per record; operations on
// different ids are safe to run concurrently.
type Repository interface {
	// Create assigns a unique id and returns the persisted record. A task
	// whose DueAt is not after CreatedAt is rejected with ErrDateTimeInPast.
	Create(ctx context.Context, input CreateInput) (Task, error)
	// ReadDueAt returns unsent tasks whose DueAt equals the given
	// minute-truncated time exactly. Equality, not a range: a task missed at
	// its due minute (process down, clock skew) is never matched again.
	ReadDueAt(ctx context.Context, at time.Time) ([]Task, error)
	ReadByChatID(ctx context.Context, chatID ChatID) ([]Task, error)
	// MarkSent applies a successful delivery attempt: sent = true,
	// attempt_count + 1, last_attempt_at = at.
	MarkSent(ctx context.Context, id ID, at time.Time) error
	// MarkAttempt applies a failed delivery attempt: attempt_count + 1,
	// last_attempt_at = at, the task stays unsent.
	MarkAttempt(ctx context.Context, id ID, at time.Time) error
}
