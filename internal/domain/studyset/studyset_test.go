package studyset_test

import (
	"testing"

	"github.com/studyhub/backend/internal/domain/studyset"
)

func TestNewSet(t *testing.T) {
	set, err := studyset.NewSet(studyset.SetPayload{
		Title:     "Cell Biology",
		SubjectID: "subj-1",
		NoteIDs:   []string{"note-1"},
		Source:    studyset.SourceGenerated,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if set.ID == "" {
		t.Error("expected non-empty ID")
	}
	if set.Source != studyset.SourceGenerated {
		t.Errorf("expected source %q, got %q", studyset.SourceGenerated, set.Source)
	}
	if set.CreatedAt.IsZero() || set.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestNewSet_EmptyTitle(t *testing.T) {
	if _, err := studyset.NewSet(studyset.SetPayload{}); err == nil {
		t.Error("expected error for empty title")
	}
}

func TestNewSet_DefaultsToManual(t *testing.T) {
	set, err := studyset.NewSet(studyset.SetPayload{Title: "Untitled"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Source != studyset.SourceManual {
		t.Errorf("expected manual source, got %q", set.Source)
	}
}

func TestNewCard_LearnedDefaultsFalse(t *testing.T) {
	card, err := studyset.NewCard("set-1", studyset.CardPayload{
		Question: "What is a cell?",
		Answer:   "The basic unit of life",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if card.Learned {
		t.Error("expected new card to start unlearned")
	}
	if card.SetID != "set-1" {
		t.Errorf("expected set id %q, got %q", "set-1", card.SetID)
	}
}

func TestNewCard_Validation(t *testing.T) {
	if _, err := studyset.NewCard("", studyset.CardPayload{Question: "q"}); err == nil {
		t.Error("expected error for empty set id")
	}
	if _, err := studyset.NewCard("set-1", studyset.CardPayload{}); err == nil {
		t.Error("expected error for empty question")
	}
}
