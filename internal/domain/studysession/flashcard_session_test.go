package studysession

import (
	"context"
	"testing"

	"github.com/studyhub/backend/internal/domain/studyset"
)

// fakeMarker records learned-flag changes in memory.
type fakeMarker struct {
	cards map[string]*studyset.Flashcard
}

func newFakeMarker(cards []*studyset.Flashcard) *fakeMarker {
	m := &fakeMarker{cards: make(map[string]*studyset.Flashcard)}
	for _, c := range cards {
		m.cards[c.ID] = c
	}
	return m
}

func (m *fakeMarker) MarkCardLearned(_ context.Context, id string, learned bool) (*studyset.Flashcard, error) {
	card := *m.cards[id]
	card.Learned = learned
	m.cards[id] = &card
	return &card, nil
}

func testDeck(t *testing.T, n int) []*studyset.Flashcard {
	t.Helper()
	cards := make([]*studyset.Flashcard, 0, n)
	for i := 0; i < n; i++ {
		card, err := studyset.NewCard("set-1", studyset.CardPayload{
			Question: string(rune('a' + i)),
			Answer:   "answer " + string(rune('a'+i)),
		})
		if err != nil {
			t.Fatalf("NewCard: %v", err)
		}
		cards = append(cards, card)
	}
	return cards
}

func TestFlashcardSessionNavigationClamps(t *testing.T) {
	cards := testDeck(t, 3)
	s := NewFlashcardSession(newFakeMarker(cards), cards)

	s.Previous()
	if s.Index() != 0 {
		t.Errorf("Previous at start moved to %d, want 0", s.Index())
	}

	s.Next()
	s.Next()
	s.Next()
	s.Next()
	if s.Index() != 2 {
		t.Errorf("Next past end moved to %d, want 2", s.Index())
	}
}

func TestFlashcardSessionFlip(t *testing.T) {
	cards := testDeck(t, 2)
	s := NewFlashcardSession(newFakeMarker(cards), cards)

	s.Flip()
	if !s.Flipped() {
		t.Error("Flip did not show answer side")
	}
	s.Flip()
	if s.Flipped() {
		t.Error("second Flip did not return to question side")
	}

	s.Flip()
	s.Next()
	if s.Flipped() {
		t.Error("navigation did not reset flip")
	}
}

func TestFlashcardSessionSetFilterResets(t *testing.T) {
	cards := testDeck(t, 4)
	cards[0].Learned = true
	cards[2].Learned = true

	s := NewFlashcardSession(newFakeMarker(cards), cards)
	s.Next()
	s.Flip()

	s.SetFilter(FilterLearned)
	if s.Len() != 2 {
		t.Fatalf("learned deck has %d cards, want 2", s.Len())
	}
	if s.Index() != 0 {
		t.Errorf("filter change left index at %d, want 0", s.Index())
	}
	if s.Flipped() {
		t.Error("filter change left card flipped")
	}

	current, ok := s.Current()
	if !ok || !current.Learned {
		t.Error("learned filter shows an unlearned card")
	}

	s.SetFilter(FilterUnlearned)
	if s.Len() != 2 {
		t.Errorf("unlearned deck has %d cards, want 2", s.Len())
	}
}

func TestFlashcardSessionShuffleKeepsDeckMembership(t *testing.T) {
	cards := testDeck(t, 5)
	s := NewFlashcardSession(newFakeMarker(cards), cards)
	s.Next()

	s.Shuffle()
	if s.Index() != 0 {
		t.Errorf("shuffle left index at %d, want 0", s.Index())
	}
	if s.Len() != 5 {
		t.Fatalf("shuffle changed deck size to %d", s.Len())
	}

	seen := make(map[string]bool)
	for i := 0; i < s.Len(); i++ {
		card, _ := s.Current()
		seen[card.ID] = true
		s.Next()
	}
	if len(seen) != 5 {
		t.Errorf("shuffled deck has %d distinct cards, want 5", len(seen))
	}
}

func TestFlashcardSessionToggleLearnedKeepsCardVisible(t *testing.T) {
	cards := testDeck(t, 3)
	s := NewFlashcardSession(newFakeMarker(cards), cards)
	s.SetFilter(FilterUnlearned)

	current, _ := s.Current()
	updated, err := s.ToggleLearned(context.Background())
	if err != nil {
		t.Fatalf("ToggleLearned: %v", err)
	}
	if !updated.Learned {
		t.Error("toggle did not mark card learned")
	}

	// Still visible under the unlearned filter until the deck is recomputed.
	still, ok := s.Current()
	if !ok || still.ID != current.ID {
		t.Error("marked card dropped out before Refresh")
	}
	if s.Len() != 3 {
		t.Errorf("deck shrank to %d before Refresh", s.Len())
	}

	s.Refresh()
	if s.Len() != 2 {
		t.Errorf("deck has %d cards after Refresh, want 2", s.Len())
	}
}

func TestFlashcardSessionEmptyDeck(t *testing.T) {
	s := NewFlashcardSession(newFakeMarker(nil), nil)

	if _, ok := s.Current(); ok {
		t.Error("empty deck returned a current card")
	}
	if _, err := s.ToggleLearned(context.Background()); err == nil {
		t.Error("ToggleLearned on empty deck did not fail")
	}
}
