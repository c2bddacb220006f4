package bot

import (
	"context"
	"remindbot/internal/core/domain/task"
	"sync"
)

type TestTelegramBotMessageSender struct {
	Sent          []TelegramBotMessage
	Error         error
	ErrorByChatID map[task.ChatID]error
	lock          sync.Mutex
}

func NewTestTelegramBotMessageSender() *TestTelegramBotMessageSender {
	return &TestTelegramBotMessageSender{ErrorByChatID: make(map[task.ChatID]error)}
}

func (s *TestTelegramBotMessageSender) SendTelegramBotMessage(
	ctx context.Context,
	m TelegramBotMessage,
) error {
	if s.Error != nil {
		return s.Error
	}
	if err, ok := s.ErrorByChatID[m.ChatID]; ok {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, m)
	return nil
}
