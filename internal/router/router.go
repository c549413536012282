package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quiznest/quiznest-lambda/internal/generation"
	"github.com/quiznest/quiznest-lambda/internal/middlewares"
	"github.com/quiznest/quiznest-lambda/internal/quiz"
)

type RouterConfig struct {
	GenerationHandler *generation.Handler
	QuizHandler       *quiz.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/generate", generation.Routes(cfg.GenerationHandler))
	r.Mount("/quizzes", quiz.Routes(cfg.QuizHandler))

	return r
}
