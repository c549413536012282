package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/quiznest/quiznest-lambda/internal/config"
)

// ErrFallbackExhausted is the only error the pipeline may legitimately
// surface to a caller: both fallback tiers produced nothing.
var ErrFallbackExhausted = errors.New("both fallback tiers are empty")

// FallbackQuestion is a pre-vetted question kept in the database as the
// primary fallback tier.
type FallbackQuestion struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Text        string         `gorm:"type:text;not null" json:"text"`
	Options     datatypes.JSON `gorm:"type:jsonb;not null" json:"options"`
	Explanation string         `gorm:"type:text" json:"explanation"`
	Difficulty  string         `gorm:"type:text;not null;default:'medium'" json:"difficulty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// FallbackStore supplies questions whenever live generation fails. Select
// must never fail unless both tiers are empty.
type FallbackStore interface {
	Select(ctx context.Context, count int, difficulty Difficulty) ([]Question, error)
}

type fallbackStore struct {
	db *gorm.DB
}

// NewFallbackStore builds the two-tier store. db may be nil, in which case
// only the compiled-in tier is used.
func NewFallbackStore(db *gorm.DB) FallbackStore {
	return &fallbackStore{db: db}
}

// Select takes the first count vetted questions (deterministic truncation,
// no sampling) and stamps each with the requested difficulty. When count
// exceeds the available set, every available question is returned: callers
// must handle under-fill.
func (s *fallbackStore) Select(ctx context.Context, count int, difficulty Difficulty) ([]Question, error) {
	log := config.WithContext(ctx)

	pool := s.persisted(ctx)
	if len(pool) == 0 {
		log.Warn("persisted fallback collection unreachable or empty, using static question set")
		pool = staticQuestions()
	}
	if len(pool) == 0 {
		return nil, ErrFallbackExhausted
	}

	if count > len(pool) {
		count = len(pool)
	}
	selected := pool[:count]

	for i := range selected {
		selected[i].Difficulty = difficulty
	}
	return selected, nil
}

func (s *fallbackStore) persisted(ctx context.Context) []Question {
	if s.db == nil {
		return nil
	}

	var rows []FallbackQuestion
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		config.WithContext(ctx).WithError(err).Warn("failed to query fallback question collection")
		return nil
	}

	questions := make([]Question, 0, len(rows))
	for i, row := range rows {
		var options []Option
		if err := json.Unmarshal(row.Options, &options); err != nil {
			continue
		}
		questions = append(questions, repairQuestion(Question{
			ID:          fmt.Sprintf("q%d", i+1),
			Text:        row.Text,
			Options:     options,
			Explanation: row.Explanation,
			Difficulty:  Difficulty(row.Difficulty),
		}, i, Difficulty(row.Difficulty)))
	}
	return questions
}

// staticQuestions is the compiled-in second tier. It is data, not a fetch,
// so it can never be unreachable.
func staticQuestions() []Question {
	entries := []struct {
		text        string
		correct     string
		wrong       [3]string
		explanation string
	}{
		{
			"Which language are HTML, CSS and JavaScript collectively known as?",
			"The foundational languages of the web",
			[3]string{"Systems programming languages", "Database query languages", "Markup compilers"},
			"HTML, CSS and JavaScript together form the foundation of web development.",
		},
		{
			"What is the primary purpose of machine learning algorithms?",
			"To learn patterns from data and make predictions",
			[3]string{"To replace all human decision making", "To store large volumes of data", "To render user interfaces"},
			"Machine learning extracts patterns from data in order to generalize to new inputs.",
		},
		{
			"In which decade were the first electronic computers developed?",
			"The 1940s",
			[3]string{"The 1920s", "The 1960s", "The 1980s"},
			"Machines such as ENIAC were built during the 1940s.",
		},
		{
			"What does a decentralized trust system describe?",
			"A blockchain",
			[3]string{"A relational database", "A web framework", "A file system"},
			"Blockchains provide trust without a central authority.",
		},
		{
			"Which sector is NOT commonly cited as being transformed by AI?",
			"None: healthcare, education and transportation all are",
			[3]string{"Healthcare only", "Education only", "Transportation only"},
			"AI is reshaping healthcare, education and transportation alike.",
		},
		{
			"What does IoT stand for?",
			"Internet of Things",
			[3]string{"Integration of Technology", "Index of Terms", "Input/Output Transfer"},
			"IoT connects billions of physical devices to the network.",
		},
		{
			"What is quantum computing expected to help with?",
			"Problems intractable for classical computers",
			[3]string{"Rendering web pages faster", "Compressing images", "Replacing keyboards"},
			"Quantum computers target problems classical machines cannot solve in reasonable time.",
		},
		{
			"What is a common use of component libraries?",
			"Building user interfaces",
			[3]string{"Managing DNS records", "Encrypting disks", "Scheduling cron jobs"},
			"Component libraries such as React are used to compose user interfaces.",
		},
		{
			"What do learning algorithms require in large quantities?",
			"Data",
			[3]string{"Monitors", "Compilers", "Routers"},
			"Training quality is driven primarily by the volume and quality of data.",
		},
		{
			"What is the role of an explanation in a quiz question?",
			"To clarify why the correct answer is correct",
			[3]string{"To hide the correct answer", "To pad the question length", "To score the participant"},
			"Explanations support learning by justifying the correct option.",
		},
	}

	questions := make([]Question, len(entries))
	for i, e := range entries {
		id := fmt.Sprintf("q%d", i+1)
		questions[i] = Question{
			ID:   id,
			Text: e.text,
			Options: []Option{
				{ID: id + "_a", Text: e.correct, IsCorrect: true},
				{ID: id + "_b", Text: e.wrong[0]},
				{ID: id + "_c", Text: e.wrong[1]},
				{ID: id + "_d", Text: e.wrong[2]},
			},
			Explanation: e.explanation,
			Difficulty:  DifficultyMedium,
		}
	}
	return questions
}
