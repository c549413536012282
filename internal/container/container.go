package container

import (
	"context"
	"log"
	"os"

	"github.com/quiznest/quiznest-lambda/internal/auth"
	"github.com/quiznest/quiznest-lambda/internal/config"
	"github.com/quiznest/quiznest-lambda/internal/generation"
	"github.com/quiznest/quiznest-lambda/internal/quiz"
	"github.com/quiznest/quiznest-lambda/internal/storage"
)

type Container struct {
	GenerationContainer *generation.GenerationContainer
	QuizContainer       *quiz.QuizContainer
}

func New() *Container {
	config.Init()
	auth.Init()

	dsn := os.Getenv("DATABASE_DSN")
	if err := config.Connect(context.Background(), dsn); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	if err := config.DB.AutoMigrate(
		&quiz.Quiz{}, &quiz.QuizQuestion{}, &quiz.QuizResult{},
		&generation.FallbackQuestion{},
	); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	store := storage.NewSupabaseStore()
	quizContainer := quiz.NewQuizContainer(config.DB)
	generationContainer := generation.NewGenerationContainer(config.DB, store, quizContainer.Service)

	return &Container{
		GenerationContainer: generationContainer,
		QuizContainer:       quizContainer,
	}
}
