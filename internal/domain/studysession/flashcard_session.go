// Package studysession holds the interactive study state machines: flashcard
// review, quiz taking, and the multiple-choice self-test built from a deck.
//
// Sessions are in-memory and disposable. The only durable side effects are
// learned-flag toggles and submitted attempts, which go through the narrow
// persistence interfaces each session takes; abandoning a session at any
// point is always safe.
package studysession

import (
	"context"
	"errors"
	"math/rand"

	"github.com/studyhub/backend/internal/domain/studyset"
)

// Filter selects which cards of a deck are in play.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterLearned   Filter = "learned"
	FilterUnlearned Filter = "unlearned"
)

// CardMarker persists learned-flag changes. Satisfied by the store.
type CardMarker interface {
	MarkCardLearned(ctx context.Context, id string, learned bool) (*studyset.Flashcard, error)
}

// FlashcardSession walks a deck of flashcards: browsing with a filter, a
// cursor, and a flipped flag. Navigation clamps at the deck bounds; there is
// no wraparound and no completion state.
type FlashcardSession struct {
	marker CardMarker
	cards  []*studyset.Flashcard

	deck    []*studyset.Flashcard
	filter  Filter
	index   int
	flipped bool
}

// NewFlashcardSession starts a session over the given cards, showing all of
// them front-side up.
func NewFlashcardSession(marker CardMarker, cards []*studyset.Flashcard) *FlashcardSession {
	s := &FlashcardSession{
		marker: marker,
		cards:  cards,
		filter: FilterAll,
	}
	s.rebuildDeck()
	return s
}

func (s *FlashcardSession) rebuildDeck() {
	s.deck = s.deck[:0]
	for _, card := range s.cards {
		switch s.filter {
		case FilterLearned:
			if !card.Learned {
				continue
			}
		case FilterUnlearned:
			if card.Learned {
				continue
			}
		}
		s.deck = append(s.deck, card)
	}
}

// SetFilter switches the active filter, recomputes the deck, and resets the
// cursor to the first card, front-side up.
func (s *FlashcardSession) SetFilter(f Filter) {
	s.filter = f
	s.rebuildDeck()
	s.index = 0
	s.flipped = false
}

// Refresh recomputes the deck under the current filter. Cards whose learned
// flag changed mid-session drop in or out here, not at toggle time. The
// cursor is clamped so it stays in bounds.
func (s *FlashcardSession) Refresh() {
	s.rebuildDeck()
	if s.index >= len(s.deck) {
		s.index = len(s.deck) - 1
	}
	if s.index < 0 {
		s.index = 0
	}
}

// Current returns the card under the cursor, or false for an empty deck.
func (s *FlashcardSession) Current() (*studyset.Flashcard, bool) {
	if len(s.deck) == 0 {
		return nil, false
	}
	return s.deck[s.index], true
}

// Next advances the cursor. Clamped at the last card.
func (s *FlashcardSession) Next() {
	if s.index < len(s.deck)-1 {
		s.index++
		s.flipped = false
	}
}

// Previous moves the cursor back. Clamped at the first card.
func (s *FlashcardSession) Previous() {
	if s.index > 0 {
		s.index--
		s.flipped = false
	}
}

// Flip toggles the current card between question and answer side.
func (s *FlashcardSession) Flip() {
	s.flipped = !s.flipped
}

// Shuffle randomly reorders the current filtered deck and resets the cursor.
func (s *FlashcardSession) Shuffle() {
	rand.Shuffle(len(s.deck), func(i, j int) {
		s.deck[i], s.deck[j] = s.deck[j], s.deck[i]
	})
	s.index = 0
	s.flipped = false
}

// ToggleLearned flips the learned flag on the current card and persists it.
// The card stays at its position even if it no longer matches the filter;
// membership is only recomputed by Refresh or SetFilter.
func (s *FlashcardSession) ToggleLearned(ctx context.Context) (*studyset.Flashcard, error) {
	card, ok := s.Current()
	if !ok {
		return nil, errors.New("no current card")
	}

	updated, err := s.marker.MarkCardLearned(ctx, card.ID, !card.Learned)
	if err != nil {
		return nil, err
	}
	*card = *updated
	return card, nil
}

// Len reports the size of the current filtered deck.
func (s *FlashcardSession) Len() int { return len(s.deck) }

// Index reports the cursor position within the filtered deck.
func (s *FlashcardSession) Index() int { return s.index }

// Flipped reports whether the current card shows its answer side.
func (s *FlashcardSession) Flipped() bool { return s.flipped }

// ActiveFilter reports the filter currently applied to the deck.
func (s *FlashcardSession) ActiveFilter() Filter { return s.filter }
