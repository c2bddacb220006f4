package senduetasks

import (
	"context"
	"fmt"
	"remindbot/internal/core/domain/bot"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/domain/task"
	"remindbot/internal/core/services"
	"time"
)

const REMINDER_MESSAGE_PREFIX = "🔔 Напоминание!\n"

type Input struct{}

type Result struct {
	At          time.Time
	SentCount   int
	FailedCount int
}

// service performs one scheduler tick: it reads all unsent tasks due at the
// current minute and dispatches each one. A failed dispatch is recorded with
// MarkAttempt and never aborts the remaining tasks of the tick.
type service struct {
	log            logging.Logger
	taskRepository task.Repository
	sender         bot.TelegramBotMessageSender
	now            func() time.Time
	sendTimeout    time.Duration
}

func New(
	log logging.Logger,
	taskRepository task.Repository,
	sender bot.TelegramBotMessageSender,
	now func() time.Time,
	sendTimeout time.Duration,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if taskRepository == nil {
		panic(e.NewNilArgumentError("taskRepository"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if sendTimeout <= 0 {
		panic("sendTimeout must be positive")
	}
	return &service{
		log:            log,
		taskRepository: taskRepository,
		sender:         sender,
		now:            now,
		sendTimeout:    sendTimeout,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	result.At = s.now().Truncate(time.Minute)

	dueTasks, err := s.taskRepository.ReadDueAt(ctx, result.At)
	if err != nil {
		logging.Error(s.log, ctx, err, logging.Entry("at", result.At))
		return result, err
	}
	s.log.Info(
		ctx,
		"Got due reminder tasks.",
		logging.Entry("count", len(dueTasks)),
		logging.Entry("at", result.At),
	)

	// Tasks are dispatched sequentially, attempts are independent of each
	// other.
	for _, dueTask := range dueTasks {
		if err := s.send(ctx, dueTask); err != nil {
			logging.Error(
				s.log,
				ctx,
				err,
				logging.Entry("taskID", dueTask.ID),
				logging.Entry("chatID", dueTask.ChatID),
			)
			s.markAttempt(ctx, dueTask)
			result.FailedCount++
			continue
		}
		s.markSent(ctx, dueTask)
		result.SentCount++
	}

	if len(dueTasks) > 0 {
		s.log.Info(
			ctx,
			"Due reminder tasks processed.",
			logging.Entry("at", result.At),
			logging.Entry("sentCount", result.SentCount),
			logging.Entry("failedCount", result.FailedCount),
		)
	}
	return result, nil
}

func (s *service) send(ctx context.Context, t task.Task) error {
	// One slow send must not stall the whole tick.
	ctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	return s.sender.SendTelegramBotMessage(
		ctx,
		bot.TelegramBotMessage{
			ChatID: t.ChatID,
			Text:   fmt.Sprintf("%s%s", REMINDER_MESSAGE_PREFIX, t.Body),
		},
	)
}

func (s *service) markSent(ctx context.Context, t task.Task) {
	if err := s.taskRepository.MarkSent(ctx, t.ID, s.now()); err != nil {
		logging.Error(s.log, ctx, err, logging.Entry("taskID", t.ID))
	}
}

func (s *service) markAttempt(ctx context.Context, t task.Task) {
	if err := s.taskRepository.MarkAttempt(ctx, t.ID, s.now()); err != nil {
		logging.Error(s.log, ctx, err, logging.Entry("taskID", t.ID))
	}
}
