// Package quiz models quizzes, their embedded questions, and attempt history.
//
// Questions live inside the Quiz record rather than as independent rows:
// array order is display order, and a question's identity is its ID field,
// not its index. Attempts are append-only; best/latest are derived.
package quiz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studyhub/backend/internal/domain/studyset"
)

// QuestionType enumerates the supported quiz question kinds.
type QuestionType string

const (
	TypeMCQ       QuestionType = "mcq"
	TypeTrueFalse QuestionType = "truefalse"
	TypeShort     QuestionType = "short"
)

// AllQuestionTypes is the default whitelist for generation.
var AllQuestionTypes = []QuestionType{TypeMCQ, TypeTrueFalse, TypeShort}

// Question is one embedded quiz question.
type Question struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Prompt        string       `json:"prompt"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer"`
	Explanation   string       `json:"explanation,omitempty"`
}

// Quiz is a gradeable set of questions tied to the notes it was built from.
type Quiz struct {
	ID          string          `json:"id"`
	SubjectID   string          `json:"subjectId"`
	NoteIDs     []string        `json:"noteIds"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Questions   []Question      `json:"questions"`
	Source      studyset.Source `json:"source"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// AttemptAnswer records how one question was answered.
type AttemptAnswer struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
	Correct    bool   `json:"correct"`
}

// Attempt is one completed pass through a quiz. Attempts are immutable once
// created; TotalQuestions is the question count at the time of the attempt
// and is never retroactively adjusted when the quiz is edited.
type Attempt struct {
	ID             string          `json:"id"`
	QuizID         string          `json:"quizId"`
	Score          int             `json:"score"`
	TotalQuestions int             `json:"totalQuestions"`
	Answers        []AttemptAnswer `json:"answers"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Payload is a Quiz minus the store-assigned fields.
type Payload struct {
	SubjectID   string
	NoteIDs     []string
	Title       string
	Description string
	Questions   []Question
	Source      studyset.Source
}

// New creates a Quiz with a generated ID and timestamps. Every question is
// validated; questions without an ID get one assigned.
func New(p Payload) (*Quiz, error) {
	if p.Title == "" {
		return nil, errors.New("quiz title cannot be empty")
	}
	source := p.Source
	if source == "" {
		source = studyset.SourceManual
	}

	questions := make([]Question, len(p.Questions))
	for i, q := range p.Questions {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		questions[i] = q
	}

	now := time.Now().UTC()
	return &Quiz{
		ID:          uuid.NewString(),
		SubjectID:   p.SubjectID,
		NoteIDs:     append([]string{}, p.NoteIDs...),
		Title:       p.Title,
		Description: p.Description,
		Questions:   questions,
		Source:      source,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Validate checks the per-type invariants: MCQ options must include the
// correct answer, true/false options are exactly True and False.
func (q Question) Validate() error {
	if q.Prompt == "" {
		return errors.New("prompt cannot be empty")
	}
	if q.CorrectAnswer == "" {
		return errors.New("correct answer cannot be empty")
	}

	switch q.Type {
	case TypeMCQ:
		found := false
		for _, opt := range q.Options {
			if opt == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return errors.New("mcq options must contain the correct answer")
		}
	case TypeTrueFalse:
		if len(q.Options) != 2 || q.Options[0] != "True" || q.Options[1] != "False" {
			return errors.New(`truefalse options must be exactly ["True","False"]`)
		}
	case TypeShort:
		// Free text, no option invariants.
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	return nil
}

// QuestionByID returns the embedded question with the given ID.
func (qz *Quiz) QuestionByID(id string) (Question, bool) {
	for _, q := range qz.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// NormalizeAnswer is the correctness-comparison normalization: trim plus
// lowercase, exact match otherwise. Deliberately not fuzzy; "Pariss" never
// matches "Paris". Known limitation for short-answer grading.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// AnswerMatches reports whether a given answer is correct for the question.
func (q Question) AnswerMatches(answer string) bool {
	return NormalizeAnswer(answer) == NormalizeAnswer(q.CorrectAnswer)
}

// NewAttempt builds an immutable attempt record for a quiz.
func NewAttempt(quizID string, score, totalQuestions int, answers []AttemptAnswer) (*Attempt, error) {
	if quizID == "" {
		return nil, errors.New("attempt quiz id cannot be empty")
	}
	if score < 0 || score > totalQuestions {
		return nil, fmt.Errorf("score %d out of range [0,%d]", score, totalQuestions)
	}
	return &Attempt{
		ID:             uuid.NewString(),
		QuizID:         quizID,
		Score:          score,
		TotalQuestions: totalQuestions,
		Answers:        append([]AttemptAnswer{}, answers...),
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// Ratio is the attempt's score as a fraction of its question count.
func (a *Attempt) Ratio() float64 {
	if a.TotalQuestions == 0 {
		return 0
	}
	return float64(a.Score) / float64(a.TotalQuestions)
}
