package generation

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question invariants: non-empty id and text, exactly 4 options with unique
// ids, and exactly one option marked correct. Normalize enforces all of them.
type Question struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Options     []Option   `json:"options"`
	Explanation string     `json:"explanation"`
	Difficulty  Difficulty `json:"difficulty"`
}

// GenerationRequest is built once per quiz-creation action and never
// persisted.
type GenerationRequest struct {
	Text           string
	NumQuestions   int
	Difficulty     Difficulty
	AdditionalInfo string
	Provider       string
}

// GenerationResult carries at least 1 and at most NumQuestions questions.
// Callers must not assume an exact-count match: fallback paths may under-fill.
type GenerationResult struct {
	Questions []Question
}
