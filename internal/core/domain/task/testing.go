package task

import (
	"context"
	"sync"
	"time"
)

// TestTaskRepository is an in-memory Repository for tests. It honors the
// exact-minute matching and state transition semantics of the real store.
type TestTaskRepository struct {
	CreateError      error
	ReadError        error
	MarkSentError    error
	MarkAttemptError error

	Tasks         []Task
	ReadDueAtWith []time.Time
	nextID        ID
	lock          sync.Mutex
}

func NewTestTaskRepository() *TestTaskRepository {
	return &TestTaskRepository{}
}

func (r *TestTaskRepository) Create(ctx context.Context, input CreateInput) (t Task, err error) {
	if r.CreateError != nil {
		return t, r.CreateError
	}
	if !input.DueAt.After(input.CreatedAt) {
		return t, ErrDateTimeInPast
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.nextID++
	t = Task{
		ID:        r.nextID,
		ChatID:    input.ChatID,
		Body:      input.Body,
		DueAt:     input.DueAt,
		CreatedAt: input.CreatedAt,
	}
	r.Tasks = append(r.Tasks, t)
	return t, nil
}

func (r *TestTaskRepository) ReadDueAt(ctx context.Context, at time.Time) ([]Task, error) {
	if r.ReadError != nil {
		return nil, r.ReadError
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.ReadDueAtWith = append(r.ReadDueAtWith, at)
	due := make([]Task, 0)
	for _, t := range r.Tasks {
		if t.DueAt.Equal(at) && !t.Sent {
			due = append(due, t)
		}
	}
	return due, nil
}

func (r *TestTaskRepository) ReadByChatID(ctx context.Context, chatID ChatID) ([]Task, error) {
	if r.ReadError != nil {
		return nil, r.ReadError
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	tasks := make([]Task, 0)
	for _, t := range r.Tasks {
		if t.ChatID == chatID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (r *TestTaskRepository) MarkSent(ctx context.Context, id ID, at time.Time) error {
	if r.MarkSentError != nil {
		return r.MarkSentError
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix := range r.Tasks {
		if r.Tasks[ix].ID == id {
			r.Tasks[ix].MarkSent(at)
			return nil
		}
	}
	return ErrTaskDoesNotExist
}

func (r *TestTaskRepository) MarkAttempt(ctx context.Context, id ID, at time.Time) error {
	if r.MarkAttemptError != nil {
		return r.MarkAttemptError
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix := range r.Tasks {
		if r.Tasks[ix].ID == id {
			r.Tasks[ix].MarkAttempt(at)
			return nil
		}
	}
	return ErrTaskDoesNotExist
}

// GetByID returns a stored task by id for test assertions.
func (r *TestTaskRepository) GetByID(id ID) (Task, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, t := range r.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}
