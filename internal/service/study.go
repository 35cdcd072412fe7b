// internal/service/study.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/studyhub/backend/internal/domain/studysession"
	"github.com/studyhub/backend/internal/generator"
	"github.com/studyhub/backend/internal/store"
)

// StudyService orchestrates generation runs and derived study statistics on
// top of the store. Handlers call it instead of stitching the generator and
// store together themselves.
type StudyService struct {
	store  *store.SQLiteStore
	basic  generator.Generator
	ai     generator.Generator
	logger *slog.Logger
}

// NewStudyService creates a StudyService.
func NewStudyService(s *store.SQLiteStore, basic, ai generator.Generator, logger *slog.Logger) *StudyService {
	return &StudyService{
		store:  s,
		basic:  basic,
		ai:     ai,
		logger: logger,
	}
}

// Generate runs the selected generator over the request's notes and persists
// whatever came out. A run that produced nothing is not an error; the saved
// materials carry the warnings explaining why.
func (s *StudyService) Generate(ctx context.Context, genType generator.Type, req generator.Request) (*store.SavedMaterials, error) {
	gen, err := generator.ByType(genType, s.basic, s.ai)
	if err != nil {
		return nil, err
	}

	result, err := gen.Generate(ctx, req)
	if err != nil {
		s.logger.Error("generation failed",
			"generator", gen.Name(),
			"notes", len(req.Notes),
			"error", err,
		)
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	saved, err := s.store.SaveGenerationResult(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("save generated materials: %w", err)
	}

	s.logger.Info("generation complete",
		"generator", gen.Name(),
		"notes", len(req.Notes),
		"cards", len(saved.Cards),
		"quiz", saved.Quiz != nil,
		"warnings", len(saved.Warnings),
	)
	return saved, nil
}

// GeneratorStatus reports one generator's availability.
type GeneratorStatus struct {
	Type      generator.Type `json:"type"`
	Name      string         `json:"name"`
	Available bool           `json:"available"`
}

// GeneratorStatuses probes every registered generator. Probe failures show
// up as unavailable, never as errors.
func (s *StudyService) GeneratorStatuses(ctx context.Context) []GeneratorStatus {
	return []GeneratorStatus{
		{Type: generator.TypeBasic, Name: s.basic.Name(), Available: s.basic.IsAvailable(ctx)},
		{Type: generator.TypeAI, Name: s.ai.Name(), Available: s.ai.IsAvailable(ctx)},
	}
}

// BuildTest turns a set's cards into a multiple-choice self-test. Sets with
// fewer than 4 cards are refused with studysession.ErrNotEnoughCards.
func (s *StudyService) BuildTest(ctx context.Context, setID string) ([]studysession.TestQuestion, error) {
	if _, err := s.store.GetSet(ctx, setID); err != nil {
		return nil, err
	}
	cards, err := s.store.ListCardsBySet(ctx, setID)
	if err != nil {
		return nil, err
	}
	return studysession.NewTest(cards)
}

// StudyStats summarizes study progress across all material.
type StudyStats struct {
	TotalSets     int     `json:"totalSets"`
	TotalCards    int     `json:"totalCards"`
	LearnedCards  int     `json:"learnedCards"`
	TotalQuizzes  int     `json:"totalQuizzes"`
	TotalAttempts int     `json:"totalAttempts"`
	AverageScore  float64 `json:"averageScore"`
}

// Stats derives progress numbers from the store. AverageScore is the mean
// score ratio over every recorded attempt, 0 when there are none.
func (s *StudyService) Stats(ctx context.Context) (*StudyStats, error) {
	stats := &StudyStats{}

	sets, err := s.store.ListSets(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalSets = len(sets)

	cards, err := s.store.ListCards(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalCards = len(cards)
	for _, card := range cards {
		if card.Learned {
			stats.LearnedCards++
		}
	}

	quizzes, err := s.store.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalQuizzes = len(quizzes)

	var ratioSum float64
	for _, qz := range quizzes {
		attempts, err := s.store.ListAttempts(ctx, qz.ID)
		if err != nil {
			return nil, err
		}
		stats.TotalAttempts += len(attempts)
		for _, attempt := range attempts {
			ratioSum += attempt.Ratio()
		}
	}
	if stats.TotalAttempts > 0 {
		stats.AverageScore = ratioSum / float64(stats.TotalAttempts)
	}

	return stats, nil
}
