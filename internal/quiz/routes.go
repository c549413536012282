package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quiznest/quiznest-lambda/internal/auth"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(auth.AuthMiddleware)

	r.Get("/", h.ListQuizzesByUser)
	r.Get("/shared", h.ListSharedQuizzes)
	r.Get("/{id}", h.GetQuizWithQuestions)
	r.Delete("/{id}", h.DeleteQuiz)
	r.Post("/{id}/submit", h.SubmitAnswers)
	r.Post("/{id}/share", h.ShareQuiz)
	r.Delete("/{id}/collaborators/{collaboratorID}", h.RemoveCollaborator)
	return r
}
