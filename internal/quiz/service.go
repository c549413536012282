package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quiznest/quiznest-lambda/internal/config"
)

var ErrQuizNotFound = errors.New("quiz not found")

type QuizService interface {
	CreateQuizWithQuestions(ctx context.Context, quiz *Quiz, questions []*QuizQuestion) error
	GetQuizWithQuestions(ctx context.Context, quizID string) (*QuizWithQuestionsDTO, error)
	ListQuizzesByUser(ctx context.Context, userID string) ([]*Quiz, error)
	ListSharedWithUser(ctx context.Context, userID string) ([]*Quiz, error)
	DeleteQuiz(ctx context.Context, quizID string) error
	ShareQuiz(ctx context.Context, quizID, collaboratorID string) error
	RemoveCollaborator(ctx context.Context, quizID, collaboratorID string) error
	SubmitAnswers(ctx context.Context, quizID, userID string, answers map[string]string) (int, error)
}

type quizService struct {
	repo QuizRepository
	db   *gorm.DB
}

func NewService(db *gorm.DB, repo QuizRepository) QuizService {
	return &quizService{
		repo: repo,
		db:   db,
	}
}

// CreateQuizWithQuestions persists the quiz and its questions in one
// transaction so no partial quiz record can exist.
func (s *quizService) CreateQuizWithQuestions(ctx context.Context, quiz *Quiz, questions []*QuizQuestion) error {
	log := config.WithContext(ctx)

	if quiz.ID == uuid.Nil {
		quiz.ID = uuid.New()
	}
	if quiz.Collaborators == nil {
		quiz.Collaborators = []byte("[]")
	}
	if quiz.Duration == "" {
		if quiz.TimeLimit != nil && *quiz.TimeLimit > 0 {
			quiz.Duration = fmt.Sprintf("%d min", *quiz.TimeLimit)
		} else {
			quiz.Duration = fmt.Sprintf("%d min", int(math.Round(float64(len(questions))*1.5)))
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(quiz).Error; err != nil {
			log.WithError(err).Error("failed to create quiz")
			return err
		}

		for i := range questions {
			if questions[i].ID == uuid.Nil {
				questions[i].ID = uuid.New()
			}
			questions[i].QuizID = quiz.ID
			questions[i].OrderIndex = i
		}

		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				log.WithError(err).Error("failed to create quiz questions")
				return err
			}
		}

		log.Infof("quiz %s created with %d questions", quiz.ID, len(questions))
		return nil
	})
}

func (s *quizService) GetQuizWithQuestions(ctx context.Context, quizID string) (*QuizWithQuestionsDTO, error) {
	log := config.WithContext(ctx)

	quiz, err := s.repo.GetByID(quizID)
	if err != nil {
		log.WithError(err).Errorf("failed to load quiz %s", quizID)
		return nil, err
	}
	if quiz == nil {
		return nil, nil
	}

	questions, err := s.repo.ListQuestionsByQuiz(quizID)
	if err != nil {
		log.WithError(err).Errorf("failed to list questions for quiz %s", quizID)
		return nil, err
	}

	return &QuizWithQuestionsDTO{
		Quiz:      quiz,
		Questions: questions,
	}, nil
}

func (s *quizService) ListQuizzesByUser(ctx context.Context, userID string) ([]*Quiz, error) {
	quizzes, err := s.repo.ListByUser(userID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Errorf("failed to list quizzes for user %s", userID)
		return nil, err
	}
	return quizzes, nil
}

func (s *quizService) ListSharedWithUser(ctx context.Context, userID string) ([]*Quiz, error) {
	quizzes, err := s.repo.ListSharedWith(userID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Errorf("failed to list shared quizzes for user %s", userID)
		return nil, err
	}
	return quizzes, nil
}

func (s *quizService) DeleteQuiz(ctx context.Context, quizID string) error {
	log := config.WithContext(ctx)

	if err := s.repo.Delete(quizID); err != nil {
		log.WithError(err).Errorf("failed to delete quiz %s", quizID)
		return err
	}

	log.Infof("quiz %s deleted", quizID)
	return nil
}

func (s *quizService) ShareQuiz(ctx context.Context, quizID, collaboratorID string) error {
	quiz, collaborators, err := s.loadCollaborators(ctx, quizID)
	if err != nil {
		return err
	}

	if !slices.Contains(collaborators, collaboratorID) {
		collaborators = append(collaborators, collaboratorID)
	}

	return s.saveCollaborators(ctx, quiz, collaborators)
}

func (s *quizService) RemoveCollaborator(ctx context.Context, quizID, collaboratorID string) error {
	quiz, collaborators, err := s.loadCollaborators(ctx, quizID)
	if err != nil {
		return err
	}

	collaborators = slices.DeleteFunc(collaborators, func(id string) bool {
		return id == collaboratorID
	})

	return s.saveCollaborators(ctx, quiz, collaborators)
}

// SubmitAnswers scores a completed attempt, records the result and bumps the
// quiz participation counters.
func (s *quizService) SubmitAnswers(ctx context.Context, quizID, userID string, answers map[string]string) (int, error) {
	log := config.WithContext(ctx)

	quiz, err := s.repo.GetByID(quizID)
	if err != nil {
		return 0, err
	}
	if quiz == nil {
		return 0, ErrQuizNotFound
	}

	questions, err := s.repo.ListQuestionsByQuiz(quizID)
	if err != nil {
		return 0, err
	}
	if len(questions) == 0 {
		return 0, fmt.Errorf("quiz %s has no questions", quizID)
	}

	correct := 0
	for _, question := range questions {
		var options []struct {
			ID        string `json:"id"`
			IsCorrect bool   `json:"isCorrect"`
		}
		if err := json.Unmarshal(question.Options, &options); err != nil {
			continue
		}
		for _, opt := range options {
			if opt.IsCorrect && answers[question.ID.String()] == opt.ID {
				correct++
				break
			}
		}
	}
	score := int(math.Round(float64(correct) / float64(len(questions)) * 100))

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return 0, err
	}
	result := &QuizResult{
		ID:      uuid.New(),
		QuizID:  quiz.ID,
		UserID:  uuid.MustParse(userID),
		Answers: answersJSON,
		Score:   score,
	}
	if err := s.repo.CreateResult(result); err != nil {
		log.WithError(err).Errorf("failed to record result for quiz %s", quizID)
		return 0, err
	}

	quiz.Participants++
	quiz.CompletionRate = 100
	if err := s.repo.Save(quiz); err != nil {
		log.WithError(err).Warnf("failed to update participation counters for quiz %s", quizID)
	}

	log.Infof("quiz %s scored %d for user %s", quizID, score, userID)
	return score, nil
}

func (s *quizService) loadCollaborators(ctx context.Context, quizID string) (*Quiz, []string, error) {
	quiz, err := s.repo.GetByID(quizID)
	if err != nil {
		return nil, nil, err
	}
	if quiz == nil {
		return nil, nil, ErrQuizNotFound
	}

	var collaborators []string
	if len(quiz.Collaborators) > 0 {
		if err := json.Unmarshal(quiz.Collaborators, &collaborators); err != nil {
			collaborators = nil
		}
	}
	return quiz, collaborators, nil
}

func (s *quizService) saveCollaborators(ctx context.Context, quiz *Quiz, collaborators []string) error {
	if collaborators == nil {
		collaborators = []string{}
	}

	encoded, err := json.Marshal(collaborators)
	if err != nil {
		return err
	}
	quiz.Collaborators = encoded
	quiz.IsShared = len(collaborators) > 0

	if err := s.repo.Save(quiz); err != nil {
		config.WithContext(ctx).WithError(err).Errorf("failed to update collaborators for quiz %s", quiz.ID)
		return err
	}
	return nil
}
