package app

import (
	"fmt"
	"net/http"
	"remindbot/internal/app/deps"
	"remindbot/internal/app/services"
	"remindbot/internal/http/handlers/response"
	"remindbot/internal/http/handlers/telegram"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	telegramRouter := chi.NewRouter()
	telegramRouter.Method(
		http.MethodPost,
		fmt.Sprintf("/updates/%s", deps.Config.TelegramURLSecret),
		telegram.New(deps.Logger, deps.TelegramBotMessageSender, s.CreateTask),
	)

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Get("/health", func(rw http.ResponseWriter, r *http.Request) {
		response.Render(rw, struct {
			Status string `json:"status"`
		}{Status: "ok"}, http.StatusOK)
	})
	router.Mount("/telegram", telegramRouter)

	address := fmt.Sprintf("0.0.0.0:%d", deps.Config.Port)

	return &http.Server{
		Handler: router,
		Addr:    address,
	}
}
