package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/domain/studysession"
	"github.com/studyhub/backend/internal/domain/studyset"
	"github.com/studyhub/backend/internal/generator"
	"github.com/studyhub/backend/internal/service"
	"github.com/studyhub/backend/internal/store"
)

// stubGenerator returns a canned result or error.
type stubGenerator struct {
	name      string
	result    *generator.Result
	err       error
	available bool
}

func (g *stubGenerator) Name() string { return g.name }

func (g *stubGenerator) Generate(context.Context, generator.Request) (*generator.Result, error) {
	return g.result, g.err
}

func (g *stubGenerator) IsAvailable(context.Context) bool { return g.available }

func newTestService(t *testing.T, basic, ai generator.Generator) (*service.StudyService, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.NewStudyService(s, basic, ai, logger), s
}

func TestGeneratePersistsResult(t *testing.T) {
	basic := &stubGenerator{
		name:      "Basic Generator",
		available: true,
		result: &generator.Result{
			FlashcardSet: &generator.GeneratedSet{
				Set:   studyset.SetPayload{Title: "Set", SubjectID: "subj-1", Source: studyset.SourceGenerated},
				Cards: []studyset.CardPayload{{Question: "q", Answer: "a"}},
			},
		},
	}
	svc, st := newTestService(t, basic, &stubGenerator{name: "AI Generator"})

	saved, err := svc.Generate(context.Background(), generator.TypeBasic, generator.Request{
		Notes: []generator.Note{{ID: "n1", Content: "content"}},
	})
	require.NoError(t, err)
	require.NotNil(t, saved.Set)
	require.Len(t, saved.Cards, 1)

	sets, err := st.ListSets(context.Background())
	require.NoError(t, err)
	assert.Len(t, sets, 1)
}

func TestGeneratePropagatesGeneratorFailure(t *testing.T) {
	ai := &stubGenerator{name: "AI Generator", err: errors.New("connection refused")}
	svc, st := newTestService(t, &stubGenerator{name: "Basic Generator"}, ai)

	_, err := svc.Generate(context.Background(), generator.TypeAI, generator.Request{
		Notes: []generator.Note{{ID: "n1", Content: "content"}},
	})
	require.Error(t, err)

	// Nothing half-written.
	sets, err := st.ListSets(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sets)
}

func TestGenerateUnknownType(t *testing.T) {
	svc, _ := newTestService(t, &stubGenerator{name: "Basic Generator"}, &stubGenerator{name: "AI Generator"})

	_, err := svc.Generate(context.Background(), generator.Type("fancy"), generator.Request{})
	assert.Error(t, err)
}

func TestGeneratorStatuses(t *testing.T) {
	svc, _ := newTestService(t,
		&stubGenerator{name: "Basic Generator", available: true},
		&stubGenerator{name: "AI Generator", available: false},
	)

	statuses := svc.GeneratorStatuses(context.Background())
	require.Len(t, statuses, 2)
	assert.Equal(t, generator.TypeBasic, statuses[0].Type)
	assert.True(t, statuses[0].Available)
	assert.Equal(t, generator.TypeAI, statuses[1].Type)
	assert.False(t, statuses[1].Available)
}

func TestBuildTestRequiresFourCards(t *testing.T) {
	svc, st := newTestService(t, &stubGenerator{name: "Basic Generator"}, &stubGenerator{name: "AI Generator"})
	ctx := context.Background()

	set, err := studyset.NewSet(studyset.SetPayload{Title: "Small", SubjectID: "subj-1"})
	require.NoError(t, err)
	require.NoError(t, st.SaveSet(ctx, set))
	for i := 0; i < 3; i++ {
		card, err := studyset.NewCard(set.ID, studyset.CardPayload{Question: "q", Answer: "a"})
		require.NoError(t, err)
		require.NoError(t, st.SaveCard(ctx, card))
	}

	_, err = svc.BuildTest(ctx, set.ID)
	assert.ErrorIs(t, err, studysession.ErrNotEnoughCards)

	card, err := studyset.NewCard(set.ID, studyset.CardPayload{Question: "q4", Answer: "a4"})
	require.NoError(t, err)
	require.NoError(t, st.SaveCard(ctx, card))

	questions, err := svc.BuildTest(ctx, set.ID)
	require.NoError(t, err)
	assert.Len(t, questions, 4)
}

func TestBuildTestUnknownSet(t *testing.T) {
	svc, _ := newTestService(t, &stubGenerator{name: "Basic Generator"}, &stubGenerator{name: "AI Generator"})

	_, err := svc.BuildTest(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStats(t *testing.T) {
	svc, st := newTestService(t, &stubGenerator{name: "Basic Generator"}, &stubGenerator{name: "AI Generator"})
	ctx := context.Background()

	set, err := studyset.NewSet(studyset.SetPayload{Title: "Set", SubjectID: "subj-1"})
	require.NoError(t, err)
	require.NoError(t, st.SaveSet(ctx, set))

	for i := 0; i < 2; i++ {
		card, err := studyset.NewCard(set.ID, studyset.CardPayload{Question: "q", Answer: "a"})
		require.NoError(t, err)
		require.NoError(t, st.SaveCard(ctx, card))
		if i == 0 {
			_, err = st.MarkCardLearned(ctx, card.ID, true)
			require.NoError(t, err)
		}
	}

	qz, err := quiz.New(quiz.Payload{Title: "Quiz", SubjectID: "subj-1", Questions: []quiz.Question{
		{Type: quiz.TypeShort, Prompt: "p", CorrectAnswer: "a"},
	}})
	require.NoError(t, err)
	require.NoError(t, st.SaveQuiz(ctx, qz))

	attempt, err := quiz.NewAttempt(qz.ID, 1, 2, nil)
	require.NoError(t, err)
	require.NoError(t, st.SaveAttempt(ctx, attempt))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalSets)
	assert.Equal(t, 2, stats.TotalCards)
	assert.Equal(t, 1, stats.LearnedCards)
	assert.Equal(t, 1, stats.TotalQuizzes)
	assert.Equal(t, 1, stats.TotalAttempts)
	assert.InDelta(t, 0.5, stats.AverageScore, 1e-9)
}
