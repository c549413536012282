package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/quiznest/quiznest-lambda/internal/config"
	"github.com/quiznest/quiznest-lambda/internal/quiz"
	"github.com/quiznest/quiznest-lambda/internal/storage"
)

// CreateQuizParams are the caller-supplied knobs for one quiz creation.
type CreateQuizParams struct {
	Title          string
	Description    string
	NumQuestions   int
	Difficulty     Difficulty
	AdditionalInfo string
	Provider       string
	TimeLimit      *int
}

type Service interface {
	// CreateQuizFromFile uploads the document, runs the pipeline and
	// persists the resulting quiz. Returns the new quiz id.
	CreateQuizFromFile(ctx context.Context, ownerID, filename, contentType string, file io.Reader, params CreateQuizParams, progress ProgressFunc) (uuid.UUID, error)
	// GenerateFromText runs the pipeline on raw text without touching
	// storage or persistence.
	GenerateFromText(ctx context.Context, req GenerationRequest, progress ProgressFunc) (*GenerationResult, error)
}

type service struct {
	pipeline *Pipeline
	store    storage.Store
	quizzes  quiz.QuizService
}

func NewService(pipeline *Pipeline, store storage.Store, quizzes quiz.QuizService) Service {
	return &service{
		pipeline: pipeline,
		store:    store,
		quizzes:  quizzes,
	}
}

func (s *service) CreateQuizFromFile(ctx context.Context, ownerID, filename, contentType string, file io.Reader, params CreateQuizParams, progress ProgressFunc) (uuid.UUID, error) {
	log := config.WithContext(ctx)

	fileURL, err := s.store.Upload(ctx, filename, contentType, file, ownerID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to store uploaded file: %w", err)
	}
	log.Infof("uploaded %s for user %s", filename, ownerID)

	result, err := s.pipeline.Run(ctx, PipelineInput{
		FileURL:   fileURL,
		MediaType: contentType,
		Request: GenerationRequest{
			NumQuestions:   params.NumQuestions,
			Difficulty:     params.Difficulty,
			AdditionalInfo: params.AdditionalInfo,
			Provider:       params.Provider,
		},
	}, progress)
	if err != nil {
		return uuid.Nil, err
	}

	title := params.Title
	if title == "" {
		title = strings.SplitN(filename, ".", 2)[0]
	}
	description := params.Description
	if description == "" {
		description = "AI-generated quiz based on your materials."
	}

	newQuiz := &quiz.Quiz{
		ID:          uuid.New(),
		UserID:      uuid.MustParse(ownerID),
		Title:       title,
		Description: description,
		Difficulty:  string(result.Questions[0].Difficulty),
		TimeLimit:   params.TimeLimit,
	}

	questions, err := toQuizQuestions(result.Questions)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.quizzes.CreateQuizWithQuestions(ctx, newQuiz, questions); err != nil {
		return uuid.Nil, err
	}

	return newQuiz.ID, nil
}

func (s *service) GenerateFromText(ctx context.Context, req GenerationRequest, progress ProgressFunc) (*GenerationResult, error) {
	return s.pipeline.Run(ctx, PipelineInput{Request: req}, progress)
}

func toQuizQuestions(questions []Question) ([]*quiz.QuizQuestion, error) {
	out := make([]*quiz.QuizQuestion, len(questions))
	for i, q := range questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return nil, fmt.Errorf("failed to encode options for question %s: %w", q.ID, err)
		}
		out[i] = &quiz.QuizQuestion{
			ID:          uuid.New(),
			Content:     q.Text,
			Options:     options,
			Explanation: q.Explanation,
			Difficulty:  string(q.Difficulty),
			OrderIndex:  i,
		}
	}
	return out, nil
}
