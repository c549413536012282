package quiz

import (
	"encoding/json"
	"errors"
	"slices"

	"gorm.io/gorm"
)

type QuizRepository interface {
	Create(q *Quiz) error
	GetByID(id string) (*Quiz, error)
	Delete(id string) error
	ListByUser(userID string) ([]*Quiz, error)
	ListSharedWith(userID string) ([]*Quiz, error)
	Save(q *Quiz) error

	AddQuestions(questions []*QuizQuestion) error
	ListQuestionsByQuiz(quizID string) ([]*QuizQuestion, error)

	CreateResult(result *QuizResult) error
}

type quizRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(q *Quiz) error {
	return r.db.Create(q).Error
}

func (r *quizRepository) GetByID(id string) (*Quiz, error) {
	var quiz Quiz
	if err := r.db.Preload("Questions").First(&quiz, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) Delete(id string) error {
	return r.db.Delete(&Quiz{}, "id = ?", id).Error
}

func (r *quizRepository) ListByUser(userID string) ([]*Quiz, error) {
	var quizzes []*Quiz
	if err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

// ListSharedWith narrows on the is_shared flag in SQL and matches the
// collaborator id against the jsonb array in Go, keeping the query portable
// between postgres and the sqlite used in tests.
func (r *quizRepository) ListSharedWith(userID string) ([]*Quiz, error) {
	var shared []*Quiz
	if err := r.db.
		Where("is_shared = ?", true).
		Order("created_at DESC").
		Find(&shared).Error; err != nil {
		return nil, err
	}

	quizzes := make([]*Quiz, 0, len(shared))
	for _, q := range shared {
		var collaborators []string
		if err := json.Unmarshal(q.Collaborators, &collaborators); err != nil {
			continue
		}
		if slices.Contains(collaborators, userID) {
			quizzes = append(quizzes, q)
		}
	}
	return quizzes, nil
}

func (r *quizRepository) Save(q *Quiz) error {
	return r.db.Save(q).Error
}

func (r *quizRepository) AddQuestions(questions []*QuizQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.Create(&questions).Error
}

func (r *quizRepository) ListQuestionsByQuiz(quizID string) ([]*QuizQuestion, error) {
	var questions []*QuizQuestion
	if err := r.db.
		Where("quiz_id = ?", quizID).
		Order("order_index ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *quizRepository) CreateResult(result *QuizResult) error {
	return r.db.Create(result).Error
}
