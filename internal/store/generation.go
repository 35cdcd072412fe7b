// internal/store/generation.go
package store

import (
	"context"
	"fmt"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/domain/studyset"
	"github.com/studyhub/backend/internal/generator"
)

// SavedMaterials reports exactly what a generation run persisted, so the
// caller can tell the user what was created.
type SavedMaterials struct {
	Set      *studyset.FlashcardSet `json:"flashcardSet,omitempty"`
	Cards    []*studyset.Flashcard  `json:"flashcards,omitempty"`
	Quiz     *quiz.Quiz             `json:"quiz,omitempty"`
	Warnings []string               `json:"warnings"`
}

// SaveGenerationResult persists a generator's output: the set first, then
// its cards linked to the new set ID, then the quiz. The pieces are
// independent, so a failure partway leaves earlier pieces in place rather
// than rolling back; no partial state violates any invariant.
func (s *SQLiteStore) SaveGenerationResult(ctx context.Context, result *generator.Result) (*SavedMaterials, error) {
	saved := &SavedMaterials{Warnings: append([]string{}, result.Warnings...)}

	if result.FlashcardSet != nil {
		set, err := studyset.NewSet(result.FlashcardSet.Set)
		if err != nil {
			return nil, fmt.Errorf("generated set: %w", err)
		}
		if err := s.SaveSet(ctx, set); err != nil {
			return nil, fmt.Errorf("save generated set: %w", err)
		}
		saved.Set = set

		for _, payload := range result.FlashcardSet.Cards {
			card, err := studyset.NewCard(set.ID, payload)
			if err != nil {
				return nil, fmt.Errorf("generated card: %w", err)
			}
			if err := s.SaveCard(ctx, card); err != nil {
				return nil, fmt.Errorf("save generated card: %w", err)
			}
			saved.Cards = append(saved.Cards, card)
		}
	}

	if result.Quiz != nil {
		qz, err := quiz.New(*result.Quiz)
		if err != nil {
			return nil, fmt.Errorf("generated quiz: %w", err)
		}
		if err := s.SaveQuiz(ctx, qz); err != nil {
			return nil, fmt.Errorf("save generated quiz: %w", err)
		}
		saved.Quiz = qz
	}

	return saved, nil
}
