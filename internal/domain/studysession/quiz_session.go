package studysession

import (
	"context"
	"errors"
	"strings"

	"github.com/studyhub/backend/internal/domain/quiz"
)

var (
	// ErrUnanswered blocks submission while any question lacks an answer.
	ErrUnanswered = errors.New("all questions must be answered before submitting")
	// ErrSubmitted rejects mutations after the session has been graded.
	ErrSubmitted = errors.New("quiz has already been submitted")
)

// AttemptRecorder persists completed attempts. Satisfied by the store.
type AttemptRecorder interface {
	SaveAttempt(ctx context.Context, attempt *quiz.Attempt) error
}

// QuizSession walks a quiz's questions, collecting answers keyed by question
// ID. Navigation is free in both directions; only submission requires every
// question to be answered. Submission is terminal: a retry is a brand-new
// session, never a mutation of the recorded attempt.
type QuizSession struct {
	recorder AttemptRecorder
	quiz     *quiz.Quiz

	index   int
	answers map[string]string
	attempt *quiz.Attempt
}

// NewQuizSession starts an answering session at the first question.
func NewQuizSession(recorder AttemptRecorder, qz *quiz.Quiz) *QuizSession {
	return &QuizSession{
		recorder: recorder,
		quiz:     qz,
		answers:  make(map[string]string),
	}
}

// Current returns the question under the cursor, or false for an empty quiz.
func (s *QuizSession) Current() (quiz.Question, bool) {
	if len(s.quiz.Questions) == 0 {
		return quiz.Question{}, false
	}
	return s.quiz.Questions[s.index], true
}

// Next advances the cursor. Clamped at the last question; answering is not
// required to move on.
func (s *QuizSession) Next() {
	if s.index < len(s.quiz.Questions)-1 {
		s.index++
	}
}

// Previous moves the cursor back. Clamped at the first question.
func (s *QuizSession) Previous() {
	if s.index > 0 {
		s.index--
	}
}

// Answer records (or overwrites) the answer for a question.
func (s *QuizSession) Answer(questionID, answer string) error {
	if s.attempt != nil {
		return ErrSubmitted
	}
	if _, ok := s.quiz.QuestionByID(questionID); !ok {
		return errors.New("unknown question id")
	}
	s.answers[questionID] = answer
	return nil
}

// AnswerCurrent records an answer for the question under the cursor.
func (s *QuizSession) AnswerCurrent(answer string) error {
	q, ok := s.Current()
	if !ok {
		return errors.New("no current question")
	}
	return s.Answer(q.ID, answer)
}

// AnswerFor returns the recorded answer for a question, if any.
func (s *QuizSession) AnswerFor(questionID string) (string, bool) {
	answer, ok := s.answers[questionID]
	return answer, ok
}

// AllAnswered reports whether every question has a non-blank answer.
func (s *QuizSession) AllAnswered() bool {
	for _, q := range s.quiz.Questions {
		if strings.TrimSpace(s.answers[q.ID]) == "" {
			return false
		}
	}
	return true
}

// Submit grades the session and records one attempt. It refuses while any
// question is unanswered, and refuses a second submission outright.
func (s *QuizSession) Submit(ctx context.Context) (*quiz.Attempt, error) {
	if s.attempt != nil {
		return nil, ErrSubmitted
	}
	if !s.AllAnswered() {
		return nil, ErrUnanswered
	}

	score, graded := Score(s.quiz, s.answers)
	attempt, err := quiz.NewAttempt(s.quiz.ID, score, len(s.quiz.Questions), graded)
	if err != nil {
		return nil, err
	}
	if err := s.recorder.SaveAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	s.attempt = attempt
	return attempt, nil
}

// Submitted reports whether the session has been graded.
func (s *QuizSession) Submitted() bool { return s.attempt != nil }

// Attempt returns the recorded attempt after submission, nil before.
func (s *QuizSession) Attempt() *quiz.Attempt { return s.attempt }

// Retry returns a fresh answering session over the same quiz. The attempt
// recorded by this session, if any, is left untouched.
func (s *QuizSession) Retry() *QuizSession {
	return NewQuizSession(s.recorder, s.quiz)
}

// Score grades an answers map against a quiz in question order. Missing or
// blank entries score as incorrect rather than being excluded, so
// score + incorrect always equals the question count.
func Score(qz *quiz.Quiz, answers map[string]string) (int, []quiz.AttemptAnswer) {
	graded := make([]quiz.AttemptAnswer, 0, len(qz.Questions))
	score := 0
	for _, q := range qz.Questions {
		answer := answers[q.ID]
		correct := q.AnswerMatches(answer)
		if correct {
			score++
		}
		graded = append(graded, quiz.AttemptAnswer{
			QuestionID: q.ID,
			Answer:     answer,
			Correct:    correct,
		})
	}
	return score, graded
}
