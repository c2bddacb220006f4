package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"remindbot/internal/core/domain/bot"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/logging"
	ratelimiter "remindbot/internal/core/domain/rate_limiter"
	"remindbot/internal/core/domain/task"
	"remindbot/internal/core/services"
	createtask "remindbot/internal/core/services/create_task"
	"remindbot/internal/http/handlers/response"
)

const START_COMMAND = "/start"

const WELCOME_MESSAGE = "Добро пожаловать! 🤖\n" +
	"Я бот для создания напоминаний.\n\n" +
	"Для создания напоминания отправьте сообщение в формате:\n" +
	"dd.MM.yyyy HH:mm Текст напоминания\n\n" +
	"Примеры:\n" +
	"• 25.12.2024 15:30 Поздравить с Новым годом\n" +
	"• 01.01.2024 00:00 Встретить Новый год"

const FORMAT_INVALID_MESSAGE = "❌ Не удалось создать напоминание. " +
	"Некорректный формат сообщения. Ожидается: dd.MM.yyyy HH:mm Текст напоминания"
const DATE_IN_PAST_MESSAGE = "❌ Не удалось создать напоминание. " +
	"Дата напоминания не может быть в прошлом"
const RATE_LIMIT_MESSAGE = "❌ Слишком много запросов. Попробуйте позже."
const UNEXPECTED_ERROR_MESSAGE = "❌ Произошла непредвиденная ошибка"

// Handler routes incoming Telegram updates: the start command gets the
// onboarding message, any other text is treated as a reminder creation
// request. Exactly one reply is sent per routed update and no error escapes
// to the webhook caller.
type Handler struct {
	log              logging.Logger
	botMessageSender bot.TelegramBotMessageSender
	createTask       services.Service[createtask.Input, createtask.Result]
}

func New(
	log logging.Logger,
	botMessageSender bot.TelegramBotMessageSender,
	createTask services.Service[createtask.Input, createtask.Result],
) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if botMessageSender == nil {
		panic(e.NewNilArgumentError("botMessageSender"))
	}
	if createTask == nil {
		panic(e.NewNilArgumentError("createTask"))
	}
	return &Handler{
		log:              log,
		botMessageSender: botMessageSender,
		createTask:       createTask,
	}
}

type user struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
}

type chat struct {
	ID int64 `json:"id"`
}

type message struct {
	ID   int64  `json:"message_id"`
	From user   `json:"from"`
	Chat chat   `json:"chat"`
	Date int64  `json:"date"`
	Text string `json:"text"`
}

type update struct {
	ID      int64    `json:"update_id"`
	Message *message `json:"message"`
}

func (u *update) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(u)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	// Telegram retries non-200 responses, the update is always acknowledged.
	defer response.Render(rw, struct{}{}, http.StatusOK)

	update := update{}
	if err := update.FromJSON(r.Body); err != nil {
		h.log.Error(
			r.Context(),
			"Could not decode Telegram update.",
			logging.Entry("err", err),
		)
		return
	}
	if update.Message == nil || update.Message.Text == "" {
		h.log.Info(
			r.Context(),
			"Skip Telegram update without message text.",
			logging.Entry("updateID", update.ID),
		)
		return
	}

	chatID := task.ChatID(update.Message.Chat.ID)
	h.log.Info(
		r.Context(),
		"Got Telegram update.",
		logging.Entry("updateID", update.ID),
		logging.Entry("chatID", chatID),
		logging.Entry("from", update.Message.From.FirstName),
	)

	if update.Message.Text == START_COMMAND {
		h.sendBotMessage(r.Context(), chatID, WELCOME_MESSAGE)
		return
	}
	h.handleTaskCreation(r.Context(), chatID, update.Message.Text)
}

func (h *Handler) handleTaskCreation(ctx context.Context, chatID task.ChatID, text string) {
	result, err := h.createTask.Run(ctx, createtask.Input{ChatID: chatID, RawText: text})
	switch {
	case err == nil:
		h.sendBotMessage(ctx, chatID, confirmationMessage(result.Task))
	case errors.Is(err, task.ErrFormatInvalid):
		h.sendBotMessage(ctx, chatID, FORMAT_INVALID_MESSAGE)
	case errors.Is(err, task.ErrDateTimeInPast):
		h.sendBotMessage(ctx, chatID, DATE_IN_PAST_MESSAGE)
	case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
		h.sendBotMessage(ctx, chatID, RATE_LIMIT_MESSAGE)
	default:
		h.sendBotMessage(ctx, chatID, UNEXPECTED_ERROR_MESSAGE)
	}
}

func confirmationMessage(t task.Task) string {
	return "✅ Напоминание создано!\n" +
		"📅 Дата: " + task.FormatDateTime(t.DueAt) + "\n" +
		"📝 Текст: " + t.Body
}

func (h *Handler) sendBotMessage(ctx context.Context, chatID task.ChatID, text string) {
	err := h.botMessageSender.SendTelegramBotMessage(ctx, bot.TelegramBotMessage{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.log.Error(
			ctx,
			"Could not send Telegram bot message.",
			logging.Entry("chatID", chatID),
			logging.Entry("err", err),
		)
		return
	}
	h.log.Info(
		ctx,
		"Telegram message successfully sent.",
		logging.Entry("chatID", chatID),
	)
}
