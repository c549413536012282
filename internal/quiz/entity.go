package quiz

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Quiz struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Title          string         `gorm:"type:text;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Difficulty     string         `gorm:"type:text;not null;default:'medium'" json:"difficulty"`
	Duration       string         `gorm:"type:text" json:"duration"`
	TimeLimit      *int           `json:"time_limit,omitempty"`
	CompletionRate int            `gorm:"not null;default:0" json:"completion_rate"`
	Participants   int            `gorm:"not null;default:0" json:"participants"`
	Collaborators  datatypes.JSON `gorm:"type:jsonb" json:"collaborators"`
	IsShared       bool           `gorm:"not null;default:false" json:"is_shared"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`

	Questions []QuizQuestion `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

// QuizQuestion rows are immutable once the owning quiz exists; the only
// mutation path is deleting the quiz.
type QuizQuestion struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Options     datatypes.JSON `gorm:"type:jsonb;not null" json:"options"`
	Explanation string         `gorm:"type:text" json:"explanation"`
	Difficulty  string         `gorm:"type:text;not null;default:'medium'" json:"difficulty"`
	OrderIndex  int            `gorm:"not null" json:"order_index"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

type QuizResult struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"quiz_id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Answers     datatypes.JSON `gorm:"type:jsonb;not null" json:"answers"`
	Score       int            `gorm:"not null" json:"score"`
	CompletedAt time.Time      `gorm:"autoCreateTime" json:"completed_at"`
}

type QuizWithQuestionsDTO struct {
	Quiz      *Quiz           `json:"quiz"`
	Questions []*QuizQuestion `json:"questions"`
}
