package services

import (
	"remindbot/internal/app/deps"
	drl "remindbot/internal/core/domain/rate_limiter"
	"remindbot/internal/core/services"
	createtask "remindbot/internal/core/services/create_task"
	ratelimiting "remindbot/internal/core/services/rate_limiting"
	senduetasks "remindbot/internal/core/services/send_due_tasks"
)

type Services struct {
	CreateTask   services.Service[createtask.Input, createtask.Result]
	SendDueTasks services.Service[senduetasks.Input, senduetasks.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.CreateTask = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Minute, Value: deps.Config.CreateTaskRateLimitPerMinute},
		createtask.New(
			deps.Logger,
			deps.TaskRepository,
			deps.Now,
		),
	)
	s.SendDueTasks = senduetasks.New(
		deps.Logger,
		deps.TaskRepository,
		deps.TelegramBotMessageSender,
		deps.Now,
		deps.Config.DispatchTimeout,
	)

	return s
}
