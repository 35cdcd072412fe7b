// Package generator turns note content into study material.
//
// Two implementations satisfy the same contract: a deterministic heuristic
// generator that needs no network, and an adapter that delegates to an
// OpenAI-compatible model. Callers never need to know which one ran: an
// empty result with warnings means "not enough content", an error means
// the generation boundary itself failed.
package generator

import (
	"context"
	"fmt"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/domain/studyset"
)

// Mode selects what to generate.
type Mode string

const (
	ModeFlashcards Mode = "flashcards"
	ModeQuiz       Mode = "quiz"
	ModeBoth       Mode = "both"
)

// Type identifies a generator implementation.
type Type string

const (
	TypeBasic Type = "basic"
	TypeAI    Type = "ai"
)

const (
	defaultMaxFlashcards    = 10
	defaultMaxQuizQuestions = 5
)

// WarnNoContent is returned when a generation run produced nothing usable.
// A soft failure: the user should add more notes or richer formatting.
const WarnNoContent = "Could not extract enough content. Try adding more formatted content (headings, lists, bold text)."

// WarnNoNotes is returned when generation was requested with no notes at all.
const WarnNoNotes = "No notes selected. Please select at least one note."

// Note is the slice of the note collaborator's record a generator needs.
type Note struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Request carries the notes and generation parameters.
type Request struct {
	Notes            []Note
	SubjectID        string
	Title            string
	Mode             Mode
	MaxFlashcards    int
	MaxQuizQuestions int
	QuestionTypes    []quiz.QuestionType
}

// withDefaults fills the optional knobs the way the callers expect them.
func (r Request) withDefaults() Request {
	if r.Mode == "" {
		r.Mode = ModeBoth
	}
	if r.MaxFlashcards <= 0 {
		r.MaxFlashcards = defaultMaxFlashcards
	}
	if r.MaxQuizQuestions <= 0 {
		r.MaxQuizQuestions = defaultMaxQuizQuestions
	}
	if len(r.QuestionTypes) == 0 {
		r.QuestionTypes = quiz.AllQuestionTypes
	}
	return r
}

func (r Request) wantsFlashcards() bool {
	return r.Mode == ModeFlashcards || r.Mode == ModeBoth
}

func (r Request) wantsQuiz() bool {
	return r.Mode == ModeQuiz || r.Mode == ModeBoth
}

func (r Request) typeEnabled(t quiz.QuestionType) bool {
	for _, qt := range r.QuestionTypes {
		if qt == t {
			return true
		}
	}
	return false
}

func (r Request) noteIDs() []string {
	ids := make([]string, len(r.Notes))
	for i, n := range r.Notes {
		ids[i] = n.ID
	}
	return ids
}

// GeneratedSet is a flashcard set plus its cards, not yet persisted.
type GeneratedSet struct {
	Set   studyset.SetPayload
	Cards []studyset.CardPayload
}

// Result is what a generation run produced. FlashcardSet and Quiz are nil
// when nothing usable came out; Warnings explain why.
type Result struct {
	FlashcardSet *GeneratedSet
	Quiz         *quiz.Payload
	Warnings     []string
}

// Empty reports whether the run produced no material at all.
func (r *Result) Empty() bool {
	return r.FlashcardSet == nil && r.Quiz == nil
}

// Generator is the capability both implementations share.
type Generator interface {
	// Name is a human-readable label for the implementation.
	Name() string
	// Generate produces study material from the request's notes.
	// An error means the generation boundary failed (network, bad payload);
	// "ran but found nothing" is a non-error Result with warnings.
	Generate(ctx context.Context, req Request) (*Result, error)
	// IsAvailable probes whether the generator can currently serve requests.
	// It must never fail: any probe error collapses to false.
	IsAvailable(ctx context.Context) bool
}

// ByType returns the generator registered for the given type.
func ByType(t Type, basic, ai Generator) (Generator, error) {
	switch t {
	case TypeAI:
		return ai, nil
	case TypeBasic, "":
		return basic, nil
	default:
		return nil, fmt.Errorf("unknown generator type %q", t)
	}
}
