package senduetasks

import (
	"context"
	"errors"
	"remindbot/internal/core/domain/bot"
	"remindbot/internal/core/domain/logging"
	"remindbot/internal/core/domain/task"
	"remindbot/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var Now = time.Date(2025, 6, 15, 12, 0, 30, 0, time.Local)

type testSuite struct {
	suite.Suite
	logger         *logging.FakeLogger
	taskRepository *task.TestTaskRepository
	sender         *bot.TestTelegramBotMessageSender
	service        services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.logger = logging.NewFakeLogger()
	suite.taskRepository = task.NewTestTaskRepository()
	suite.sender = bot.NewTestTelegramBotMessageSender()
	suite.service = New(
		suite.logger,
		suite.taskRepository,
		suite.sender,
		func() time.Time { return Now },
		time.Second,
	)
}

func TestSendDueTasksService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) createTask(chatID task.ChatID, body string, dueAt time.Time) task.Task {
	t, err := s.taskRepository.Create(
		context.Background(),
		task.CreateInput{
			ChatID:    chatID,
			Body:      body,
			DueAt:     dueAt,
			CreatedAt: Now.Add(-time.Hour),
		},
	)
	s.Require().Nil(err)
	return t
}

func (s *testSuite) TestNoDueTasks() {
	s.createTask(task.ChatID(1), "Later", Now.Truncate(time.Minute).Add(time.Hour))

	result, err := s.service.Run(context.Background(), Input{})

	assert := s.Require()
	assert.Nil(err)
	assert.Equal(0, result.SentCount)
	assert.Equal(0, result.FailedCount)
	assert.Len(s.sender.Sent, 0)
}

func (s *testSuite) TestSendsDueTasks() {
	minute := Now.Truncate(time.Minute)
	first := s.createTask(task.ChatID(1), "Call mom", minute)
	second := s.createTask(task.ChatID(2), "Pay rent", minute)
	s.createTask(task.ChatID(3), "Not yet", minute.Add(time.Minute))

	result, err := s.service.Run(context.Background(), Input{})

	assert := s.Require()
	assert.Nil(err)
	assert.True(minute.Equal(result.At))
	assert.Equal(2, result.SentCount)
	assert.Equal(0, result.FailedCount)
	assert.Len(s.sender.Sent, 2)
	assert.Equal(task.ChatID(1), s.sender.Sent[0].ChatID)
	assert.Equal(REMINDER_MESSAGE_PREFIX+"Call mom", s.sender.Sent[0].Text)
	assert.Equal(task.ChatID(2), s.sender.Sent[1].ChatID)
	assert.Equal(REMINDER_MESSAGE_PREFIX+"Pay rent", s.sender.Sent[1].Text)

	sentTask, ok := s.taskRepository.GetByID(first.ID)
	assert.True(ok)
	assert.True(sentTask.Sent)
	assert.Equal(uint32(1), sentTask.AttemptCount)
	assert.True(sentTask.LastAttemptAt.IsPresent)
	assert.True(Now.Equal(sentTask.LastAttemptAt.Value))

	sentTask, ok = s.taskRepository.GetByID(second.ID)
	assert.True(ok)
	assert.True(sentTask.Sent)
}

func (s *testSuite) TestSecondTickFindsNothing() {
	minute := Now.Truncate(time.Minute)
	s.createTask(task.ChatID(1), "Call mom", minute)

	_, err := s.service.Run(context.Background(), Input{})
	s.Require().Nil(err)

	result, err := s.service.Run(context.Background(), Input{})

	assert := s.Require()
	assert.Nil(err)
	assert.Equal(0, result.SentCount)
	assert.Len(s.sender.Sent, 1)
}

func (s *testSuite) TestFailedSendDoesNotAbortTick() {
	minute := Now.Truncate(time.Minute)
	failing := s.createTask(task.ChatID(1), "Call mom", minute)
	ok := s.createTask(task.ChatID(2), "Pay rent", minute)
	s.sender.ErrorByChatID[task.ChatID(1)] = errors.New("an error occured")

	result, err := s.service.Run(context.Background(), Input{})

	assert := s.Require()
	assert.Nil(err)
	assert.Equal(1, result.SentCount)
	assert.Equal(1, result.FailedCount)
	assert.Len(s.sender.Sent, 1)
	assert.Equal(task.ChatID(2), s.sender.Sent[0].ChatID)

	failedTask, found := s.taskRepository.GetByID(failing.ID)
	assert.True(found)
	assert.False(failedTask.Sent)
	assert.Equal(uint32(1), failedTask.AttemptCount)
	assert.True(failedTask.LastAttemptAt.IsPresent)

	sentTask, found := s.taskRepository.GetByID(ok.ID)
	assert.True(found)
	assert.True(sentTask.Sent)
}

func (s *testSuite) TestFailedTaskRetriedNextMatchingRead() {
	minute := Now.Truncate(time.Minute)
	failing := s.createTask(task.ChatID(1), "Call mom", minute)
	s.sender.ErrorByChatID[task.ChatID(1)] = errors.New("an error occured")

	_, err := s.service.Run(context.Background(), Input{})
	s.Require().Nil(err)

	delete(s.sender.ErrorByChatID, task.ChatID(1))
	result, err := s.service.Run(context.Background(), Input{})

	assert := s.Require()
	assert.Nil(err)
	assert.Equal(1, result.SentCount)
	retried, found := s.taskRepository.GetByID(failing.ID)
	assert.True(found)
	assert.True(retried.Sent)
	assert.Equal(uint32(2), retried.AttemptCount)
}

func (s *testSuite) TestReadError() {
	s.taskRepository.ReadError = errors.New("an error occured")

	_, err := s.service.Run(context.Background(), Input{})

	s.Require().ErrorIs(err, s.taskRepository.ReadError)
}

func (s *testSuite) TestReadsAtTruncatedMinute() {
	_, err := s.service.Run(context.Background(), Input{})

	assert := s.Require()
	assert.Nil(err)
	assert.Len(s.taskRepository.ReadDueAtWith, 1)
	assert.True(Now.Truncate(time.Minute).Equal(s.taskRepository.ReadDueAtWith[0]))
}
