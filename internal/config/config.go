package config

import (
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
	validation "github.com/go-ozzo/ozzo-validation"
)

type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	PostgresqlURL string `env:"POSTGRESQL_URL,required"`
	RedisURL      string `env:"REDIS_URL,required"`

	// BaseURL is the public URL of this service, used for webhook
	// registration.
	BaseURL                url.URL       `env:"BASE_URL"`
	TelegramBaseURL        url.URL       `env:"TELEGRAM_BASE_URL" envDefault:"https://api.telegram.org"`
	TelegramToken          string        `env:"TELEGRAM_TOKEN,required"`
	TelegramURLSecret      string        `env:"TELEGRAM_URL_SECRET,required"`
	TelegramRequestTimeout time.Duration `env:"TELEGRAM_REQUEST_TIMEOUT" envDefault:"15s"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	DispatchTimeout              time.Duration `env:"DISPATCH_TIMEOUT" envDefault:"10s"`
	CreateTaskRateLimitPerMinute uint16        `env:"CREATE_TASK_RATE_LIMIT_PER_MINUTE" envDefault:"20"`
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.TelegramToken, validation.Required),
		validation.Field(&c.TelegramURLSecret, validation.Required, validation.Length(8, 128)),
		validation.Field(&c.DispatchTimeout, validation.Required),
	)
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
