package generation

import (
	"gorm.io/gorm"

	"github.com/quiznest/quiznest-lambda/internal/quiz"
	"github.com/quiznest/quiznest-lambda/internal/storage"
)

type GenerationContainer struct {
	Handler *Handler
}

func NewGenerationContainer(db *gorm.DB, store storage.Store, quizzes quiz.QuizService) *GenerationContainer {
	extractor := NewExtractor(store)
	fallback := NewFallbackStore(db)
	pipeline := NewPipeline(extractor, fallback)
	service := NewService(pipeline, store, quizzes)
	handler := NewHandler(service)

	return &GenerationContainer{
		Handler: handler,
	}
}
