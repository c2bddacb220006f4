package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"remindbot/internal/config"
)

// Registers the webhook URL for the bot via the Telegram Bot API.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	url := cfg.BaseURL.JoinPath("telegram", "updates", cfg.TelegramURLSecret)
	buf := bytes.NewBufferString(fmt.Sprintf(`{"url": "%s"}`, url))
	resp, err := http.Post(
		cfg.TelegramBaseURL.JoinPath(fmt.Sprintf("bot%s", cfg.TelegramToken), "setWebhook").String(),
		"application/json",
		buf,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not register telegram webhook, error: %v\n", err)
		os.Exit(1)
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "could not register telegram webhook, status: %v\n", resp.StatusCode)
		os.Exit(1)
	}

	fmt.Printf("Webhook %s successfully registered\n", url)
}
