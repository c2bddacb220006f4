package bot

import (
	"context"
	"remindbot/internal/core/domain/task"
)

type TelegramBotMessage struct {
	ChatID task.ChatID
	Text   string
}

// TelegramBotMessageSender is the outbound transport boundary. A send failure
// is returned as an error and never escapes this boundary as a panic.
type TelegramBotMessageSender interface {
	SendTelegramBotMessage(ctx context.Context, m TelegramBotMessage) error
}
