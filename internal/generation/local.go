package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// localProvider is the offline generator. It never leaves the process, so
// probing always succeeds and generation cannot fail with a provider error:
// it derives simple comprehension questions from the source text embedded in
// the prompt and emits them in the same JSON wire format the hosted models
// are instructed to use.
type localProvider struct{}

func NewLocalProvider() Provider {
	return localProvider{}
}

func (localProvider) Name() string { return ProviderLocal }

func (localProvider) Probe(ctx context.Context) error { return nil }

func (localProvider) Generate(ctx context.Context, prompt string) (string, error) {
	count := 1
	fmt.Sscanf(prompt, "Generate %d", &count)
	if count < 1 {
		count = 1
	}

	sentences := promptSentences(prompt)
	if len(sentences) == 0 {
		sentences = []string{"The document describes its main subject in detail."}
	}
	if count > len(sentences) {
		count = len(sentences)
	}

	questions := make([]Question, 0, count)
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("q%d", i+1)
		questions = append(questions, Question{
			ID:   id,
			Text: fmt.Sprintf("According to the document, which statement is accurate? (%d)", i+1),
			Options: []Option{
				{ID: id + "_a", Text: sentences[i], IsCorrect: true},
				{ID: id + "_b", Text: "The document does not address this topic.", IsCorrect: false},
				{ID: id + "_c", Text: "The opposite of what the document states.", IsCorrect: false},
				{ID: id + "_d", Text: "None of the above.", IsCorrect: false},
			},
			Explanation: "This statement is taken directly from the source document.",
		})
	}

	out, err := json.Marshal(questions)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderFormat, err)
	}
	return string(out), nil
}

// promptSentences pulls the source text back out of the prompt (between the
// triple-quote delimiters placed by BuildPrompt) and splits it into usable
// sentences.
func promptSentences(prompt string) []string {
	const delim = `"""`

	start := strings.Index(prompt, delim)
	if start < 0 {
		return nil
	}
	rest := prompt[start+len(delim):]
	end := strings.Index(rest, delim)
	if end < 0 {
		return nil
	}

	var sentences []string
	for _, s := range strings.Split(rest[:end], ".") {
		s = strings.TrimSpace(s)
		if len(s) >= 20 {
			sentences = append(sentences, s+".")
		}
	}
	return sentences
}
