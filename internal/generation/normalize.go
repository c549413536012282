package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaParse means no JSON array of question objects could be located in
// the raw model output.
var ErrSchemaParse = errors.New("no parseable question array in model output")

const defaultExplanation = "No explanation provided"

var optionSuffixes = [4]string{"a", "b", "c", "d"}

// Normalize parses raw model output into a question list and repairs every
// entry so the Question invariants hold regardless of what the model
// actually produced. Output length equals the parsed array length.
func Normalize(raw string, requested Difficulty) ([]Question, error) {
	parsed, err := extractQuestionArray(raw)
	if err != nil {
		return nil, err
	}

	questions := make([]Question, len(parsed))
	for i, q := range parsed {
		questions[i] = repairQuestion(q, i, requested)
	}
	return questions, nil
}

// extractQuestionArray locates the first well-formed array-of-objects
// substring in the raw text. Models often wrap their JSON in prose or
// markdown fences, so a plain Unmarshal of the whole payload is not enough.
func extractQuestionArray(raw string) ([]Question, error) {
	for start := 0; start < len(raw); {
		open := strings.IndexByte(raw[start:], '[')
		if open < 0 {
			break
		}
		open += start

		candidate, ok := balancedArray(raw[open:])
		if ok {
			var parsed []Question
			if err := json.Unmarshal([]byte(candidate), &parsed); err == nil && len(parsed) > 0 {
				return parsed, nil
			}
		}
		start = open + 1
	}

	return nil, fmt.Errorf("%w: %.80q", ErrSchemaParse, raw)
}

// balancedArray returns the prefix of s forming a bracket-balanced JSON
// array, honoring string literals and escapes.
func balancedArray(s string) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}

// repairQuestion applies the total per-field repair policy. Provider output
// is never trusted as-is.
func repairQuestion(q Question, index int, requested Difficulty) Question {
	if q.ID == "" {
		q.ID = fmt.Sprintf("q%d", index+1)
	}
	if q.Text == "" {
		q.Text = fmt.Sprintf("Question %d?", index+1)
	}
	if q.Explanation == "" {
		q.Explanation = defaultExplanation
	}
	if !q.Difficulty.Valid() {
		q.Difficulty = requested
	}

	q.Options = repairOptions(q.ID, q.Options)
	return q
}

func repairOptions(questionID string, options []Option) []Option {
	// Fewer than 2 usable options means the model output is beyond repair
	// for this question; synthesize a full default set.
	if len(options) < 2 {
		return defaultOptions(questionID)
	}
	if len(options) > len(optionSuffixes) {
		options = options[:len(optionSuffixes)]
	}

	// used holds every id the model supplied anywhere in the set, so a
	// synthesized id can never collide with one, earlier or later.
	used := make(map[string]bool, len(options))
	for _, opt := range options {
		if opt.ID != "" {
			used[opt.ID] = true
		}
	}

	assigned := make(map[string]bool, len(options))
	for i := range options {
		if options[i].ID == "" || assigned[options[i].ID] {
			options[i].ID = freshOptionID(questionID, used)
			used[options[i].ID] = true
		}
		assigned[options[i].ID] = true

		if options[i].Text == "" {
			options[i].Text = fmt.Sprintf("Option %s", strings.ToUpper(optionSuffixes[i]))
		}
	}

	// Pad short sets with incorrect filler options up to 4.
	for i := len(options); i < len(optionSuffixes); i++ {
		id := freshOptionID(questionID, used)
		used[id] = true
		options = append(options, Option{
			ID:   id,
			Text: fmt.Sprintf("Option %s", strings.ToUpper(optionSuffixes[i])),
		})
	}

	// Exactly-one-correct invariant: zero or multiple correct flags force
	// option 0 to be the correct one. Deterministic, order-dependent.
	correct := 0
	for _, opt := range options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		for i := range options {
			options[i].IsCorrect = i == 0
		}
	}

	return options
}

// freshOptionID returns the first canonical {question}_{suffix} id not yet
// taken, falling back to a numeric suffix when all four are.
func freshOptionID(questionID string, used map[string]bool) string {
	for _, suffix := range optionSuffixes {
		if id := fmt.Sprintf("%s_%s", questionID, suffix); !used[id] {
			return id
		}
	}
	for n := 1; ; n++ {
		if id := fmt.Sprintf("%s_%d", questionID, n); !used[id] {
			return id
		}
	}
}

func defaultOptions(questionID string) []Option {
	opts := make([]Option, len(optionSuffixes))
	for i, suffix := range optionSuffixes {
		opts[i] = Option{
			ID:        fmt.Sprintf("%s_%s", questionID, suffix),
			Text:      fmt.Sprintf("Option %s", strings.ToUpper(suffix)),
			IsCorrect: i == 0,
		}
	}
	return opts
}
