package generation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/quiznest/quiznest-lambda/internal/auth"
	"github.com/quiznest/quiznest-lambda/internal/config"
)

// maxUploadBytes bounds the multipart form kept in memory.
const maxUploadBytes = 20 << 20

var validate = validator.New()

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

type generateTextRequest struct {
	Text           string `json:"text" validate:"required"`
	NumQuestions   int    `json:"numQuestions" validate:"required,min=1,max=50"`
	Difficulty     string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	AdditionalInfo string `json:"additionalInfo"`
	Provider       string `json:"provider" validate:"omitempty,oneof=qwen gemini local"`
}

// CreateQuiz handles the document upload form: the file plus generation
// parameters. On success the quiz is already persisted and its id returned.
func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		log.Warn("unauthenticated quiz creation attempt")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Warn("quiz creation without input file")
		http.Error(w, "input file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	numQuestions, _ := strconv.Atoi(r.FormValue("numQuestions"))
	if numQuestions < 1 {
		numQuestions = 10
	}

	params := CreateQuizParams{
		Title:          r.FormValue("title"),
		Description:    r.FormValue("description"),
		NumQuestions:   numQuestions,
		Difficulty:     Difficulty(r.FormValue("difficulty")),
		AdditionalInfo: r.FormValue("additionalInfo"),
		Provider:       r.FormValue("provider"),
	}
	if v := r.FormValue("timeLimit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			params.TimeLimit = &limit
		}
	}

	contentType := header.Header.Get("Content-Type")
	quizID, err := h.service.CreateQuizFromFile(
		r.Context(), claims.UserID, header.Filename, contentType, file, params, nil,
	)
	if err != nil {
		if errors.Is(err, ErrFallbackExhausted) {
			log.WithError(err).Error("quiz generation failed with both fallback tiers empty")
			http.Error(w, "quiz generation is temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		log.WithError(err).Error("failed to create quiz from file")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusCreated, map[string]string{"quiz_id": quizID.String()})
}

// GenerateFromText runs the pipeline on raw text and returns the questions
// without persisting anything.
func (h *Handler) GenerateFromText(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var req generateTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.GenerateFromText(r.Context(), GenerationRequest{
		Text:           req.Text,
		NumQuestions:   req.NumQuestions,
		Difficulty:     Difficulty(req.Difficulty),
		AdditionalInfo: req.AdditionalInfo,
		Provider:       req.Provider,
	}, nil)
	if err != nil {
		if errors.Is(err, ErrFallbackExhausted) {
			http.Error(w, "quiz generation is temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		log.WithError(err).Error("failed to generate questions")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, result)
}
