package quiz

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quiznest/quiznest-lambda/internal/auth"
	"github.com/quiznest/quiznest-lambda/internal/config"
)

type Handler struct {
	service QuizService
}

func NewHandler(s QuizService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) GetQuizWithQuestions(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	quizID := chi.URLParam(r, "id")
	if quizID == "" {
		http.Error(w, "quiz id required", http.StatusBadRequest)
		return
	}

	quizWithQuestions, err := h.service.GetQuizWithQuestions(r.Context(), quizID)
	if err != nil {
		log.WithError(err).Error("failed to load quiz with questions")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if quizWithQuestions == nil {
		http.Error(w, "quiz not found", http.StatusNotFound)
		return
	}

	config.JSON(w, http.StatusOK, quizWithQuestions)
}

func (h *Handler) ListQuizzesByUser(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		log.Warn("unauthenticated request to list quizzes")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	quizzes, err := h.service.ListQuizzesByUser(r.Context(), claims.UserID)
	if err != nil {
		log.WithError(err).Error("failed to list quizzes")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, quizzes)
}

func (h *Handler) ListSharedQuizzes(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		log.Warn("unauthenticated request to list shared quizzes")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	quizzes, err := h.service.ListSharedWithUser(r.Context(), claims.UserID)
	if err != nil {
		log.WithError(err).Error("failed to list shared quizzes")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, quizzes)
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	quizID := chi.URLParam(r, "id")
	if quizID == "" {
		http.Error(w, "quiz id required", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteQuiz(r.Context(), quizID); err != nil {
		log.WithError(err).Error("failed to delete quiz")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{
		"message": "quiz deleted successfully",
	})
}

func (h *Handler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		log.Warn("unauthenticated quiz submission")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	quizID := chi.URLParam(r, "id")
	if quizID == "" {
		http.Error(w, "quiz id required", http.StatusBadRequest)
		return
	}

	var payload struct {
		Answers map[string]string `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	score, err := h.service.SubmitAnswers(r.Context(), quizID, claims.UserID, payload.Answers)
	if err != nil {
		if errors.Is(err, ErrQuizNotFound) {
			http.Error(w, "quiz not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("failed to submit quiz answers")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, map[string]int{"score": score})
}

func (h *Handler) ShareQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	quizID := chi.URLParam(r, "id")
	if quizID == "" {
		http.Error(w, "quiz id required", http.StatusBadRequest)
		return
	}

	var payload struct {
		CollaboratorID string `json:"collaborator_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.CollaboratorID == "" {
		http.Error(w, "collaborator_id required", http.StatusBadRequest)
		return
	}

	if err := h.service.ShareQuiz(r.Context(), quizID, payload.CollaboratorID); err != nil {
		if errors.Is(err, ErrQuizNotFound) {
			http.Error(w, "quiz not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("failed to share quiz")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{
		"message": "quiz shared successfully",
	})
}

func (h *Handler) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	quizID := chi.URLParam(r, "id")
	collaboratorID := chi.URLParam(r, "collaboratorID")
	if quizID == "" || collaboratorID == "" {
		http.Error(w, "quiz id and collaborator id required", http.StatusBadRequest)
		return
	}

	if err := h.service.RemoveCollaborator(r.Context(), quizID, collaboratorID); err != nil {
		if errors.Is(err, ErrQuizNotFound) {
			http.Error(w, "quiz not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("failed to remove collaborator")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{
		"message": "collaborator removed successfully",
	})
}
