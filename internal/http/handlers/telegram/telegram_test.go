package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"remindbot/internal/core/domain/bot"
	"remindbot/internal/core/domain/logging"
	ratelimiter "remindbot/internal/core/domain/rate_limiter"
	"remindbot/internal/core/domain/task"
	createtask "remindbot/internal/core/services/create_task"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type stubCreateTaskService struct {
	Error     error
	WasCalled bool
	With      createtask.Input
}

func (s *stubCreateTaskService) Run(
	ctx context.Context,
	input createtask.Input,
) (result createtask.Result, err error) {
	s.WasCalled = true
	s.With = input
	if s.Error != nil {
		return result, s.Error
	}
	result.Task = task.Task{
		ID:        task.ID(1),
		ChatID:    input.ChatID,
		Body:      "Celebrate",
		DueAt:     time.Date(2030, 1, 1, 0, 0, 0, 0, time.Local),
		CreatedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local),
	}
	return result, nil
}

type testSuite struct {
	suite.Suite
	logger     *logging.FakeLogger
	sender     *bot.TestTelegramBotMessageSender
	createTask *stubCreateTaskService
	handler    *Handler
}

func (suite *testSuite) SetupTest() {
	suite.logger = logging.NewFakeLogger()
	suite.sender = bot.NewTestTelegramBotMessageSender()
	suite.createTask = &stubCreateTaskService{}
	suite.handler = New(suite.logger, suite.sender, suite.createTask)
}

func TestTelegramHandler(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) serve(body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(
		http.MethodPost,
		"/updates/test-secret",
		strings.NewReader(body),
	)
	recorder := httptest.NewRecorder()
	s.handler.ServeHTTP(recorder, request)
	return recorder
}

func (s *testSuite) TestStartCommand() {
	recorder := s.serve(`{
		"update_id": 1,
		"message": {
			"message_id": 10,
			"from": {"id": 42, "first_name": "Test"},
			"chat": {"id": 42},
			"date": 1735689600,
			"text": "/start"
		}
	}`)

	assert := s.Require()
	assert.Equal(http.StatusOK, recorder.Code)
	assert.False(s.createTask.WasCalled)
	assert.Len(s.sender.Sent, 1)
	assert.Equal(task.ChatID(42), s.sender.Sent[0].ChatID)
	assert.Equal(WELCOME_MESSAGE, s.sender.Sent[0].Text)
}

func (s *testSuite) TestTaskCreated() {
	recorder := s.serve(`{
		"update_id": 1,
		"message": {
			"message_id": 10,
			"from": {"id": 42, "first_name": "Test"},
			"chat": {"id": 42},
			"date": 1735689600,
			"text": "01.01.2030 00:00 Celebrate"
		}
	}`)

	assert := s.Require()
	assert.Equal(http.StatusOK, recorder.Code)
	assert.True(s.createTask.WasCalled)
	assert.Equal(task.ChatID(42), s.createTask.With.ChatID)
	assert.Equal("01.01.2030 00:00 Celebrate", s.createTask.With.RawText)
	assert.Len(s.sender.Sent, 1)
	assert.Contains(s.sender.Sent[0].Text, "01.01.2030 00:00")
	assert.Contains(s.sender.Sent[0].Text, "Celebrate")
}

func (s *testSuite) TestFormatInvalid() {
	s.createTask.Error = task.ErrFormatInvalid

	s.serve(`{"update_id": 1, "message": {"chat": {"id": 42}, "text": "oops"}}`)

	assert := s.Require()
	assert.Len(s.sender.Sent, 1)
	assert.Equal(FORMAT_INVALID_MESSAGE, s.sender.Sent[0].Text)
}

func (s *testSuite) TestDateTimeInPast() {
	s.createTask.Error = task.ErrDateTimeInPast

	s.serve(`{"update_id": 1, "message": {"chat": {"id": 42}, "text": "01.01.2020 00:00 Late"}}`)

	assert := s.Require()
	assert.Len(s.sender.Sent, 1)
	assert.Equal(DATE_IN_PAST_MESSAGE, s.sender.Sent[0].Text)
}

func (s *testSuite) TestRateLimitExceeded() {
	s.createTask.Error = ratelimiter.ErrRateLimitExceeded

	s.serve(`{"update_id": 1, "message": {"chat": {"id": 42}, "text": "01.01.2030 00:00 Again"}}`)

	assert := s.Require()
	assert.Len(s.sender.Sent, 1)
	assert.Equal(RATE_LIMIT_MESSAGE, s.sender.Sent[0].Text)
}

func (s *testSuite) TestUnexpectedError() {
	s.createTask.Error = errors.New("an error occured")

	recorder := s.serve(`{"update_id": 1, "message": {"chat": {"id": 42}, "text": "01.01.2030 00:00 Boom"}}`)

	assert := s.Require()
	assert.Equal(http.StatusOK, recorder.Code)
	assert.Len(s.sender.Sent, 1)
	assert.Equal(UNEXPECTED_ERROR_MESSAGE, s.sender.Sent[0].Text)
}

func (s *testSuite) TestUpdateWithoutMessage() {
	recorder := s.serve(`{"update_id": 1}`)

	assert := s.Require()
	assert.Equal(http.StatusOK, recorder.Code)
	assert.False(s.createTask.WasCalled)
	assert.Len(s.sender.Sent, 0)
}

func (s *testSuite) TestUpdateWithoutText() {
	recorder := s.serve(`{"update_id": 1, "message": {"chat": {"id": 42}, "text": ""}}`)

	assert := s.Require()
	assert.Equal(http.StatusOK, recorder.Code)
	assert.False(s.createTask.WasCalled)
	assert.Len(s.sender.Sent, 0)
}

func (s *testSuite) TestInvalidJSON() {
	recorder := s.serve(`{not json`)

	assert := s.Require()
	assert.Equal(http.StatusOK, recorder.Code)
	assert.False(s.createTask.WasCalled)
	assert.Len(s.sender.Sent, 0)
}

func (s *testSuite) TestSendFailureDoesNotChangeResponse() {
	s.sender.Error = errors.New("an error occured")

	recorder := s.serve(`{"update_id": 1, "message": {"chat": {"id": 42}, "text": "/start"}}`)

	s.Require().Equal(http.StatusOK, recorder.Code)
}
