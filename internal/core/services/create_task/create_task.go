package createtask

import (
	"context"
	"errors"
	"fmt"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/domain/task"
	"remindbot/internal/core/services"
	"time"
)

type Input struct {
	ChatID  task.ChatID
	RawText string
}

func (i Input) GetRateLimitKey() string {
	return fmt.Sprintf("create-task::%d", i.ChatID)
}

type Result struct {
	Task task.Task
}

type service struct {
	log            logging.Logger
	taskRepository task.Repository
	now            func() time.Time
}

func New(
	log logging.Logger,
	taskRepository task.Repository,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if taskRepository == nil {
		panic(e.NewNilArgumentError("taskRepository"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		taskRepository: taskRepository,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	parsed, err := task.Parse(input.RawText, s.now())
	if err != nil {
		// Parse failures are user errors, the router turns them into chat
		// replies. Not logged as system errors.
		return result, err
	}

	createdTask, err := s.taskRepository.Create(
		ctx,
		task.CreateInput{
			ChatID:    input.ChatID,
			Body:      parsed.Body,
			DueAt:     parsed.DueAt,
			CreatedAt: s.now(),
		},
	)
	if err != nil {
		if !errors.Is(err, task.ErrDateTimeInPast) {
			logging.Error(s.log, ctx, err, logging.Entry("input", input))
		}
		return result, err
	}

	s.log.Info(
		ctx,
		"Reminder task successfully created.",
		logging.Entry("taskID", createdTask.ID),
		logging.Entry("chatID", createdTask.ChatID),
		logging.Entry("dueAt", createdTask.DueAt),
	)
	result.Task = createdTask
	return result, nil
}
