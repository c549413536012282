package generation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxPromptChars caps the source text embedded in a prompt so the payload
// stays within provider limits.
const maxPromptChars = 15000

const systemPrompt = "You are an expert at creating educational quizzes. " +
	"You generate high-quality multiple-choice questions based strictly on the provided content."

var difficultyGuidance = map[Difficulty]string{
	DifficultyEasy:   "basic questions testing general comprehension",
	DifficultyMedium: "more nuanced questions requiring a solid understanding",
	DifficultyHard:   "complex questions requiring deep analysis",
}

// BuildPrompt constructs the generation instruction for a provider. It is a
// pure function: no I/O, identical output for identical inputs.
func BuildPrompt(req GenerationRequest) string {
	text := req.Text
	if len(text) > maxPromptChars {
		// Back up to a rune boundary so the cut never leaves a partial
		// UTF-8 sequence in the prompt.
		cut := maxPromptChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	difficulty := req.Difficulty
	if !difficulty.Valid() {
		difficulty = DifficultyMedium
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d multiple-choice quiz questions based on the provided text.\n", req.NumQuestions)
	fmt.Fprintf(&b, "Difficulty level: %s\n\n", difficulty)
	fmt.Fprintf(&b, "Text: \"\"\"%s\"\"\"\n\n", text)

	if req.AdditionalInfo != "" {
		fmt.Fprintf(&b, "Additional guidance: %s\n\n", req.AdditionalInfo)
	}

	b.WriteString("IMPORTANT INSTRUCTIONS:\n")
	b.WriteString("1. Every question must come directly from the provided text\n")
	b.WriteString("2. Questions must be diverse and cover different aspects of the text\n")
	b.WriteString("3. For each question, create 4 options with ONLY ONE correct answer\n")
	fmt.Fprintf(&b, "4. Level %s: %s\n", difficulty, difficultyGuidance[difficulty])
	b.WriteString("5. Provide a clear explanation for each correct answer\n\n")

	b.WriteString("RESPONSE FORMAT:\n")
	b.WriteString("You must return a valid JSON array of questions exactly like this:\n\n")
	b.WriteString("[\n")
	b.WriteString("  {\n")
	b.WriteString("    \"id\": \"q1\",\n")
	b.WriteString("    \"text\": \"Question 1?\",\n")
	b.WriteString("    \"options\": [\n")
	b.WriteString("      {\"id\": \"q1_a\", \"text\": \"Option A\", \"isCorrect\": false},\n")
	b.WriteString("      {\"id\": \"q1_b\", \"text\": \"Option B\", \"isCorrect\": true},\n")
	b.WriteString("      {\"id\": \"q1_c\", \"text\": \"Option C\", \"isCorrect\": false},\n")
	b.WriteString("      {\"id\": \"q1_d\", \"text\": \"Option D\", \"isCorrect\": false}\n")
	b.WriteString("    ],\n")
	b.WriteString("    \"explanation\": \"Why B is correct\",\n")
	fmt.Fprintf(&b, "    \"difficulty\": %q\n", difficulty)
	b.WriteString("  }\n")
	b.WriteString("]\n\n")
	fmt.Fprintf(&b, "You must generate EXACTLY %d questions.\n", req.NumQuestions)

	return b.String()
}
