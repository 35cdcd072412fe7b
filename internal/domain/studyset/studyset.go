// Package studyset holds the flashcard side of the study material model:
// a FlashcardSet owns its Flashcards one-to-many through SetID.
package studyset

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Source records how a set or quiz came to exist.
type Source string

const (
	SourceManual    Source = "manual"
	SourceGenerated Source = "generated"
)

// FlashcardSet groups flashcards generated from (or written about) a set of notes.
type FlashcardSet struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	SubjectID   string    `json:"subjectId"`
	NoteIDs     []string  `json:"noteIds"`
	Source      Source    `json:"source"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Flashcard is a single question/answer pair. Learned is the only
// study-progress field and is toggled independently of content edits.
type Flashcard struct {
	ID        string    `json:"id"`
	SetID     string    `json:"setId"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Learned   bool      `json:"learned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SetPayload is a FlashcardSet minus the store-assigned fields.
type SetPayload struct {
	Title       string
	Description string
	SubjectID   string
	NoteIDs     []string
	Source      Source
}

// CardPayload is a Flashcard minus the store-assigned fields. SetID is
// filled in when the card is attached to a persisted set.
type CardPayload struct {
	Question string
	Answer   string
}

// NewSet creates a FlashcardSet with a generated ID and timestamps.
func NewSet(p SetPayload) (*FlashcardSet, error) {
	if p.Title == "" {
		return nil, errors.New("set title cannot be empty")
	}
	source := p.Source
	if source == "" {
		source = SourceManual
	}
	now := time.Now().UTC()
	return &FlashcardSet{
		ID:          uuid.NewString(),
		Title:       p.Title,
		Description: p.Description,
		SubjectID:   p.SubjectID,
		NoteIDs:     append([]string{}, p.NoteIDs...),
		Source:      source,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewCard creates a Flashcard for the given set. Learned always starts false.
func NewCard(setID string, p CardPayload) (*Flashcard, error) {
	if setID == "" {
		return nil, errors.New("card set id cannot be empty")
	}
	if p.Question == "" {
		return nil, errors.New("card question cannot be empty")
	}
	now := time.Now().UTC()
	return &Flashcard{
		ID:        uuid.NewString(),
		SetID:     setID,
		Question:  p.Question,
		Answer:    p.Answer,
		Learned:   false,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
