package quiz_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quiznest/quiznest-lambda/internal/quiz"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&quiz.Quiz{}, &quiz.QuizQuestion{}, &quiz.QuizResult{}); err != nil {
		t.Fatalf("failed to migrate quiz schema: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM quiz_results")
		db.Exec("DELETE FROM quiz_questions")
		db.Exec("DELETE FROM quizzes")
	})
	return db
}

func newTestService(t *testing.T) (quiz.QuizService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	return quiz.NewService(db, quiz.NewRepository(db)), db
}

func optionsJSON(t *testing.T, correctID string, wrongIDs ...string) []byte {
	t.Helper()

	type option struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		IsCorrect bool   `json:"isCorrect"`
	}
	opts := []option{{ID: correctID, Text: "Right answer", IsCorrect: true}}
	for _, id := range wrongIDs {
		opts = append(opts, option{ID: id, Text: "Wrong answer"})
	}
	b, err := json.Marshal(opts)
	if err != nil {
		t.Fatalf("failed to marshal options: %v", err)
	}
	return b
}

func seedQuiz(t *testing.T, s quiz.QuizService, ownerID uuid.UUID, numQuestions int) *quiz.Quiz {
	t.Helper()

	q := &quiz.Quiz{
		UserID:      ownerID,
		Title:       "European History",
		Description: "Covers the early modern period.",
		Difficulty:  "medium",
	}
	var questions []*quiz.QuizQuestion
	for i := 0; i < numQuestions; i++ {
		questions = append(questions, &quiz.QuizQuestion{
			Content:     fmt.Sprintf("Question %d?", i+1),
			Options:     optionsJSON(t, fmt.Sprintf("q%d_a", i+1), fmt.Sprintf("q%d_b", i+1), fmt.Sprintf("q%d_c", i+1), fmt.Sprintf("q%d_d", i+1)),
			Explanation: "Stated in the lecture notes.",
			Difficulty:  "medium",
		})
	}
	if err := s.CreateQuizWithQuestions(context.Background(), q, questions); err != nil {
		t.Fatalf("failed to seed quiz: %v", err)
	}
	return q
}

func TestCreateQuizWithQuestions(t *testing.T) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		s, _ := newTestService(t)
		owner := uuid.New()
		created := seedQuiz(t, s, owner, 3)

		if created.ID == uuid.Nil {
			t.Fatal("quiz ID was not assigned")
		}

		dto, err := s.GetQuizWithQuestions(ctx, created.ID.String())
		if err != nil {
			t.Fatalf("GetQuizWithQuestions failed: %v", err)
		}
		if dto == nil {
			t.Fatal("created quiz not found")
		}
		if dto.Quiz.Title != "European History" {
			t.Errorf("unexpected title %q", dto.Quiz.Title)
		}
		if dto.Quiz.UserID != owner {
			t.Errorf("unexpected owner %s", dto.Quiz.UserID)
		}
		if len(dto.Questions) != 3 {
			t.Fatalf("expected 3 questions, got %d", len(dto.Questions))
		}
		for i, question := range dto.Questions {
			if question.OrderIndex != i {
				t.Errorf("question %d: order index %d", i, question.OrderIndex)
			}
			if question.QuizID != created.ID {
				t.Errorf("question %d: wrong quiz id %s", i, question.QuizID)
			}
		}
	})

	t.Run("DurationDerivedFromQuestionCount", func(t *testing.T) {
		s, _ := newTestService(t)
		created := seedQuiz(t, s, uuid.New(), 4)

		if created.Duration != "6 min" {
			t.Errorf("expected derived duration of 6 min, got %q", created.Duration)
		}
	})

	t.Run("DurationFromTimeLimit", func(t *testing.T) {
		s, _ := newTestService(t)

		limit := 20
		q := &quiz.Quiz{UserID: uuid.New(), Title: "Timed", TimeLimit: &limit}
		if err := s.CreateQuizWithQuestions(ctx, q, nil); err != nil {
			t.Fatalf("CreateQuizWithQuestions failed: %v", err)
		}
		if q.Duration != "20 min" {
			t.Errorf("expected duration from time limit, got %q", q.Duration)
		}
	})

	t.Run("MissingQuizIsNil", func(t *testing.T) {
		s, _ := newTestService(t)

		dto, err := s.GetQuizWithQuestions(ctx, uuid.New().String())
		if err != nil {
			t.Fatalf("lookup of missing quiz should not error: %v", err)
		}
		if dto != nil {
			t.Error("expected nil DTO for a missing quiz")
		}
	})
}

func TestListQuizzesByUser(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	owner := uuid.New()
	other := uuid.New()
	seedQuiz(t, s, owner, 1)
	seedQuiz(t, s, owner, 1)
	seedQuiz(t, s, other, 1)

	mine, err := s.ListQuizzesByUser(ctx, owner.String())
	if err != nil {
		t.Fatalf("ListQuizzesByUser failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("expected 2 quizzes for owner, got %d", len(mine))
	}
}

func TestSharing(t *testing.T) {
	ctx := context.Background()

	t.Run("ShareAndList", func(t *testing.T) {
		s, _ := newTestService(t)
		owner := uuid.New()
		collaborator := uuid.New()
		created := seedQuiz(t, s, owner, 1)

		if err := s.ShareQuiz(ctx, created.ID.String(), collaborator.String()); err != nil {
			t.Fatalf("ShareQuiz failed: %v", err)
		}

		shared, err := s.ListSharedWithUser(ctx, collaborator.String())
		if err != nil {
			t.Fatalf("ListSharedWithUser failed: %v", err)
		}
		if len(shared) != 1 || shared[0].ID != created.ID {
			t.Fatalf("expected the shared quiz in the collaborator's list, got %d entries", len(shared))
		}
		if !shared[0].IsShared {
			t.Error("quiz should be flagged as shared")
		}

		if others, _ := s.ListSharedWithUser(ctx, uuid.New().String()); len(others) != 0 {
			t.Errorf("unrelated user should see no shared quizzes, got %d", len(others))
		}
	})

	t.Run("ShareIsIdempotent", func(t *testing.T) {
		s, _ := newTestService(t)
		created := seedQuiz(t, s, uuid.New(), 1)
		collaborator := uuid.New().String()

		if err := s.ShareQuiz(ctx, created.ID.String(), collaborator); err != nil {
			t.Fatalf("ShareQuiz failed: %v", err)
		}
		if err := s.ShareQuiz(ctx, created.ID.String(), collaborator); err != nil {
			t.Fatalf("repeated ShareQuiz failed: %v", err)
		}

		dto, err := s.GetQuizWithQuestions(ctx, created.ID.String())
		if err != nil {
			t.Fatalf("GetQuizWithQuestions failed: %v", err)
		}
		var collaborators []string
		if err := json.Unmarshal(dto.Quiz.Collaborators, &collaborators); err != nil {
			t.Fatalf("failed to decode collaborators: %v", err)
		}
		if len(collaborators) != 1 {
			t.Errorf("expected 1 collaborator after duplicate share, got %d", len(collaborators))
		}
	})

	t.Run("RemoveLastCollaboratorUnshares", func(t *testing.T) {
		s, _ := newTestService(t)
		created := seedQuiz(t, s, uuid.New(), 1)
		collaborator := uuid.New().String()

		if err := s.ShareQuiz(ctx, created.ID.String(), collaborator); err != nil {
			t.Fatalf("ShareQuiz failed: %v", err)
		}
		if err := s.RemoveCollaborator(ctx, created.ID.String(), collaborator); err != nil {
			t.Fatalf("RemoveCollaborator failed: %v", err)
		}

		dto, err := s.GetQuizWithQuestions(ctx, created.ID.String())
		if err != nil {
			t.Fatalf("GetQuizWithQuestions failed: %v", err)
		}
		if dto.Quiz.IsShared {
			t.Error("quiz should no longer be flagged as shared")
		}
	})

	t.Run("ShareMissingQuiz", func(t *testing.T) {
		s, _ := newTestService(t)

		err := s.ShareQuiz(ctx, uuid.New().String(), uuid.New().String())
		if err != quiz.ErrQuizNotFound {
			t.Fatalf("expected ErrQuizNotFound, got %v", err)
		}
	})
}

func TestSubmitAnswers(t *testing.T) {
	ctx := context.Background()

	t.Run("PartialScore", func(t *testing.T) {
		s, _ := newTestService(t)
		created := seedQuiz(t, s, uuid.New(), 3)

		dto, err := s.GetQuizWithQuestions(ctx, created.ID.String())
		if err != nil {
			t.Fatalf("GetQuizWithQuestions failed: %v", err)
		}

		// Two correct answers, one wrong.
		answers := map[string]string{
			dto.Questions[0].ID.String(): "q1_a",
			dto.Questions[1].ID.String(): "q2_a",
			dto.Questions[2].ID.String(): "q3_b",
		}

		score, err := s.SubmitAnswers(ctx, created.ID.String(), uuid.New().String(), answers)
		if err != nil {
			t.Fatalf("SubmitAnswers failed: %v", err)
		}
		if score != 67 {
			t.Errorf("expected score 67, got %d", score)
		}
	})

	t.Run("PerfectScoreUpdatesCounters", func(t *testing.T) {
		s, _ := newTestService(t)
		created := seedQuiz(t, s, uuid.New(), 2)

		dto, _ := s.GetQuizWithQuestions(ctx, created.ID.String())
		answers := map[string]string{
			dto.Questions[0].ID.String(): "q1_a",
			dto.Questions[1].ID.String(): "q2_a",
		}

		score, err := s.SubmitAnswers(ctx, created.ID.String(), uuid.New().String(), answers)
		if err != nil {
			t.Fatalf("SubmitAnswers failed: %v", err)
		}
		if score != 100 {
			t.Errorf("expected score 100, got %d", score)
		}

		after, _ := s.GetQuizWithQuestions(ctx, created.ID.String())
		if after.Quiz.Participants != 1 {
			t.Errorf("expected 1 participant, got %d", after.Quiz.Participants)
		}
		if after.Quiz.CompletionRate != 100 {
			t.Errorf("expected completion rate 100, got %d", after.Quiz.CompletionRate)
		}
	})

	t.Run("MissingAnswersScoreZero", func(t *testing.T) {
		s, _ := newTestService(t)
		created := seedQuiz(t, s, uuid.New(), 2)

		score, err := s.SubmitAnswers(ctx, created.ID.String(), uuid.New().String(), map[string]string{})
		if err != nil {
			t.Fatalf("SubmitAnswers failed: %v", err)
		}
		if score != 0 {
			t.Errorf("expected score 0, got %d", score)
		}
	})

	t.Run("MissingQuiz", func(t *testing.T) {
		s, _ := newTestService(t)

		_, err := s.SubmitAnswers(ctx, uuid.New().String(), uuid.New().String(), nil)
		if err != quiz.ErrQuizNotFound {
			t.Fatalf("expected ErrQuizNotFound, got %v", err)
		}
	})
}

func TestDeleteQuiz(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	created := seedQuiz(t, s, uuid.New(), 2)

	if err := s.DeleteQuiz(ctx, created.ID.String()); err != nil {
		t.Fatalf("DeleteQuiz failed: %v", err)
	}

	dto, err := s.GetQuizWithQuestions(ctx, created.ID.String())
	if err != nil {
		t.Fatalf("lookup after delete failed: %v", err)
	}
	if dto != nil {
		t.Error("deleted quiz should not be found")
	}
}
