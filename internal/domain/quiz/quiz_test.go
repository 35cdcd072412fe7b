package quiz_test

import (
	"testing"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/domain/studyset"
)

func TestNew_AssignsQuestionIDs(t *testing.T) {
	q, err := quiz.New(quiz.Payload{
		Title:     "Biology",
		SubjectID: "subj-1",
		Questions: []quiz.Question{
			{Type: quiz.TypeShort, Prompt: "Explain osmosis", CorrectAnswer: "Diffusion of water"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.Questions[0].ID == "" {
		t.Error("expected question to receive a generated ID")
	}
	if q.Source != studyset.SourceManual {
		t.Errorf("expected default source %q, got %q", studyset.SourceManual, q.Source)
	}
}

func TestNew_RejectsInvalidQuestion(t *testing.T) {
	_, err := quiz.New(quiz.Payload{
		Title: "Biology",
		Questions: []quiz.Question{
			{Type: quiz.TypeMCQ, Prompt: "Pick one", Options: []string{"a", "b"}, CorrectAnswer: "c"},
		},
	})
	if err == nil {
		t.Fatal("expected error for mcq whose options do not contain the correct answer")
	}
}

func TestQuestionValidate_TrueFalseOptions(t *testing.T) {
	q := quiz.Question{
		Type:          quiz.TypeTrueFalse,
		Prompt:        "True or False: water is wet",
		Options:       []string{"True", "False"},
		CorrectAnswer: "True",
	}
	if err := q.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	q.Options = []string{"Yes", "No"}
	if err := q.Validate(); err == nil {
		t.Error("expected error for non-canonical truefalse options")
	}
}

func TestAnswerMatches_CaseAndWhitespaceInsensitive(t *testing.T) {
	q := quiz.Question{Type: quiz.TypeShort, Prompt: "Capital of France?", CorrectAnswer: "Paris"}

	for _, answer := range []string{"Paris", " paris ", "PARIS"} {
		if !q.AnswerMatches(answer) {
			t.Errorf("expected %q to match %q", answer, q.CorrectAnswer)
		}
	}

	if q.AnswerMatches("Pariss") {
		t.Error("expected fuzzy mismatch to fail")
	}
}

func TestNewAttempt_ScoreBounds(t *testing.T) {
	if _, err := quiz.NewAttempt("quiz-1", 6, 5, nil); err == nil {
		t.Error("expected error for score above total")
	}
	if _, err := quiz.NewAttempt("quiz-1", -1, 5, nil); err == nil {
		t.Error("expected error for negative score")
	}

	attempt, err := quiz.NewAttempt("quiz-1", 3, 5, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempt.Ratio() != 0.6 {
		t.Errorf("expected ratio 0.6, got %v", attempt.Ratio())
	}
}

func TestQuestionByID(t *testing.T) {
	q, err := quiz.New(quiz.Payload{
		Title: "Biology",
		Questions: []quiz.Question{
			{ID: "q1", Type: quiz.TypeShort, Prompt: "Explain osmosis", CorrectAnswer: "Diffusion"},
			{ID: "q2", Type: quiz.TypeShort, Prompt: "Explain mitosis", CorrectAnswer: "Division"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, ok := q.QuestionByID("q2")
	if !ok || found.Prompt != "Explain mitosis" {
		t.Errorf("expected to find q2, got %v ok=%v", found, ok)
	}

	if _, ok := q.QuestionByID("missing"); ok {
		t.Error("expected lookup of unknown id to fail")
	}
}
