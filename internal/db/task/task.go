package task

import (
	"context"
	"database/sql"
	"errors"
	c "remindbot/internal/core/domain/common"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/task"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const PG_CHECK_CONSTRAINT_ERR_CODE = "23514"
const DUE_AT_CONSTRAINT_NAME = "task_due_at_after_created_at"

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type PgxTaskRepository struct {
	db DBTX
}

func NewPgxTaskRepository(db DBTX) *PgxTaskRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxTaskRepository{db: db}
}

const taskColumns = `id, chat_id, body, due_at, created_at, sent, attempt_count, last_attempt_at`

const createTask = `
INSERT INTO task (chat_id, body, due_at, created_at)
VALUES ($1, $2, $3, $4)
RETURNING ` + taskColumns

func (r *PgxTaskRepository) Create(ctx context.Context, input task.CreateInput) (t task.Task, err error) {
	row := r.db.QueryRow(ctx, createTask, int64(input.ChatID), input.Body, input.DueAt, input.CreatedAt)
	t, err = scanTask(row)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgErr.Code == PG_CHECK_CONSTRAINT_ERR_CODE &&
		pgErr.ConstraintName == DUE_AT_CONSTRAINT_NAME {
		return t, task.ErrDateTimeInPast
	}
	if err != nil {
		return t, err
	}
	return t, nil
}

// Exact equality on due_at, not a range: a task missed at its due minute is
// never matched on a later tick.
const readDueAt = `
SELECT ` + taskColumns + `
FROM task
WHERE due_at = $1 AND sent = FALSE
ORDER BY id
`

func (r *PgxTaskRepository) ReadDueAt(ctx context.Context, at time.Time) (tasks []task.Task, err error) {
	rows, err := r.db.Query(ctx, readDueAt, at)
	if err != nil {
		return tasks, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

const readByChatID = `
SELECT ` + taskColumns + `
FROM task
WHERE chat_id = $1
ORDER BY id
`

func (r *PgxTaskRepository) ReadByChatID(ctx context.Context, chatID task.ChatID) (tasks []task.Task, err error) {
	rows, err := r.db.Query(ctx, readByChatID, int64(chatID))
	if err != nil {
		return tasks, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

const markSent = `
UPDATE task
SET sent = TRUE, attempt_count = attempt_count + 1, last_attempt_at = $2
WHERE id = $1
`

func (r *PgxTaskRepository) MarkSent(ctx context.Context, id task.ID, at time.Time) error {
	tag, err := r.db.Exec(ctx, markSent, int64(id), at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskDoesNotExist
	}
	return nil
}

const markAttempt = `
UPDATE task
SET attempt_count = attempt_count + 1, last_attempt_at = $2
WHERE id = $1
`

func (r *PgxTaskRepository) MarkAttempt(ctx context.Context, id task.ID, at time.Time) error {
	tag, err := r.db.Exec(ctx, markAttempt, int64(id), at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskDoesNotExist
	}
	return nil
}

func scanTask(row pgx.Row) (t task.Task, err error) {
	var id int64
	var chatID int64
	var lastAttemptAt sql.NullTime
	err = row.Scan(&id, &chatID, &t.Body, &t.DueAt, &t.CreatedAt, &t.Sent, &t.AttemptCount, &lastAttemptAt)
	if err != nil {
		return t, err
	}
	t.ID = task.ID(id)
	t.ChatID = task.ChatID(chatID)
	t.LastAttemptAt = decodeOptionalTime(lastAttemptAt)
	return t, nil
}

func decodeOptionalTime(t sql.NullTime) c.Optional[time.Time] {
	return c.NewOptional(t.Time, t.Valid)
}

func scanTasks(rows pgx.Rows) (tasks []task.Task, err error) {
	tasks = make([]task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return tasks, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
