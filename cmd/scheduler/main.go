package main

import (
	"context"
	"os"
	"os/signal"
	"remindbot/internal/app/deps"
	"remindbot/internal/app/services"
	"remindbot/internal/core/domain/logging"
	senduetasks "remindbot/internal/core/services/send_due_tasks"
	"syscall"
	"time"
)

// A tick must finish well before the next minute boundary.
const TICK_TIMEOUT = 55 * time.Second

func main() {
	deps, shutdownDeps := deps.InitDeps()
	log := deps.Logger
	defer shutdownDeps()

	services := services.InitServices(deps)

	stopCh, closeCh := createChannel()
	defer closeCh()

	log.Info(context.Background(), "Starting periodic reminder scheduler.")

	// Fire on wall-clock minute boundaries. The timer is re-armed only after
	// the current tick completes, so ticks never overlap.
	timer := time.NewTimer(untilNextMinute(deps.Now()))
	defer timer.Stop()

loop:
	for {
		select {
		case <-stopCh:
			log.Info(context.Background(), "Stopping periodic reminder scheduler.")
			break loop
		case <-timer.C:
			runTick(deps, services)
			timer.Reset(untilNextMinute(deps.Now()))
		}
	}
}

func untilNextMinute(now time.Time) time.Duration {
	return time.Until(now.Truncate(time.Minute).Add(time.Minute))
}

func runTick(deps *deps.Deps, services *services.Services) {
	ctx, cancel := context.WithTimeout(context.Background(), TICK_TIMEOUT)
	defer cancel()

	result, err := services.SendDueTasks.Run(ctx, senduetasks.Input{})
	if err != nil {
		deps.Logger.Error(
			ctx,
			"Scheduler tick returned an error.",
			logging.Entry("err", err),
		)
		return
	}
	deps.Logger.Info(
		ctx,
		"Scheduler tick completed.",
		logging.Entry("at", result.At),
		logging.Entry("sentCount", result.SentCount),
		logging.Entry("failedCount", result.FailedCount),
	)
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}
