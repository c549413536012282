package generation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quiznest/quiznest-lambda/internal/auth"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(auth.AuthMiddleware)

	r.Post("/", h.CreateQuiz)
	r.Post("/from-text", h.GenerateFromText)
	return r
}
