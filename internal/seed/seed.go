// Package seed populates an empty database with demo study material so the
// app is explorable on first run.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/domain/studyset"
	"github.com/studyhub/backend/internal/store"
)

// Demo inserts a sample flashcard set and quiz. It is a no-op when the
// database already holds any set, so restarting the server never duplicates
// the demo material.
func Demo(ctx context.Context, s *store.SQLiteStore, logger *slog.Logger) error {
	sets, err := s.ListSets(ctx)
	if err != nil {
		return fmt.Errorf("check existing sets: %w", err)
	}
	if len(sets) > 0 {
		return nil
	}

	set, err := studyset.NewSet(studyset.SetPayload{
		Title:       "Computer Science Basics",
		Description: "Sample deck to try flashcard review and the self-test mode.",
		SubjectID:   "demo",
	})
	if err != nil {
		return err
	}
	if err := s.SaveSet(ctx, set); err != nil {
		return fmt.Errorf("save demo set: %w", err)
	}

	cards := []studyset.CardPayload{
		{Question: "What is a stack?", Answer: "A last-in, first-out collection"},
		{Question: "What is a queue?", Answer: "A first-in, first-out collection"},
		{Question: "What is a hash table?", Answer: "A structure mapping keys to values via a hash function"},
		{Question: "What is recursion?", Answer: "A function that calls itself on a smaller input"},
		{Question: "What is Big O notation?", Answer: "A description of how runtime grows with input size"},
	}
	for _, payload := range cards {
		card, err := studyset.NewCard(set.ID, payload)
		if err != nil {
			return err
		}
		if err := s.SaveCard(ctx, card); err != nil {
			return fmt.Errorf("save demo card: %w", err)
		}
	}

	qz, err := quiz.New(quiz.Payload{
		SubjectID: "demo",
		Title:     "Computer Science Basics Quiz",
		Questions: []quiz.Question{
			{
				Type:          quiz.TypeMCQ,
				Prompt:        "Which structure is last-in, first-out?",
				Options:       []string{"Queue", "Stack", "Hash table", "Linked list"},
				CorrectAnswer: "Stack",
			},
			{
				Type:          quiz.TypeTrueFalse,
				Prompt:        "A queue removes the most recently added element first.",
				Options:       []string{"True", "False"},
				CorrectAnswer: "False",
				Explanation:   "Queues are first-in, first-out.",
			},
			{
				Type:          quiz.TypeShort,
				Prompt:        "What does a hash function produce for a given key?",
				CorrectAnswer: "A hash",
			},
		},
	})
	if err != nil {
		return err
	}
	if err := s.SaveQuiz(ctx, qz); err != nil {
		return fmt.Errorf("save demo quiz: %w", err)
	}

	logger.Info("seeded demo data", "set", set.Title, "cards", len(cards), "quiz", qz.Title)
	return nil
}
