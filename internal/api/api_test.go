package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhub/backend/internal/api"
	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/domain/studyset"
	"github.com/studyhub/backend/internal/generator"
	"github.com/studyhub/backend/internal/service"
	"github.com/studyhub/backend/internal/store"
)

type stubGenerator struct {
	name   string
	result *generator.Result
	err    error
}

func (g *stubGenerator) Name() string { return g.name }

func (g *stubGenerator) Generate(context.Context, generator.Request) (*generator.Result, error) {
	return g.result, g.err
}

func (g *stubGenerator) IsAvailable(context.Context) bool { return true }

func newTestMux(t *testing.T, basic generator.Generator) (*http.ServeMux, *store.SQLiteStore) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	if basic == nil {
		basic = &stubGenerator{name: "Basic Generator", result: &generator.Result{}}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewStudyService(st, basic, &stubGenerator{name: "AI Generator", result: &generator.Result{}}, logger)
	handler := api.NewHandler(st, svc, logger)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, handler)
	return mux, st
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestSetLifecycle(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := doJSON(t, mux, http.MethodPost, "/sets", map[string]any{
		"title":     "Biology",
		"subjectId": "subj-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	set := decodeBody[studyset.FlashcardSet](t, rec)
	require.NotEmpty(t, set.ID)

	rec = doJSON(t, mux, http.MethodPost, "/sets/"+set.ID+"/cards", map[string]any{
		"question": "What is a cell?",
		"answer":   "The basic unit of life",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	card := decodeBody[studyset.Flashcard](t, rec)
	assert.False(t, card.Learned)

	rec = doJSON(t, mux, http.MethodPatch, "/cards/"+card.ID+"/learned", map[string]any{"learned": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[studyset.Flashcard](t, rec).Learned)

	rec = doJSON(t, mux, http.MethodDelete, "/sets/"+set.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/cards/"+card.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "cards must not outlive their set")
}

func TestCreateSetValidation(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := doJSON(t, mux, http.MethodPost, "/sets", map[string]any{"subjectId": "subj-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBuildTestRejectsSmallDecks(t *testing.T) {
	mux, st := newTestMux(t, nil)
	ctx := context.Background()

	set, err := studyset.NewSet(studyset.SetPayload{Title: "Small", SubjectID: "subj-1"})
	require.NoError(t, err)
	require.NoError(t, st.SaveSet(ctx, set))
	for i := 0; i < 3; i++ {
		card, err := studyset.NewCard(set.ID, studyset.CardPayload{Question: "q", Answer: "a"})
		require.NoError(t, err)
		require.NoError(t, st.SaveCard(ctx, card))
	}

	rec := doJSON(t, mux, http.MethodPost, "/sets/"+set.ID+"/test", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	card, err := studyset.NewCard(set.ID, studyset.CardPayload{Question: "q4", Answer: "a4"})
	require.NoError(t, err)
	require.NoError(t, st.SaveCard(ctx, card))

	rec = doJSON(t, mux, http.MethodPost, "/sets/"+set.ID+"/test", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitAttemptScoresLeniently(t *testing.T) {
	mux, st := newTestMux(t, nil)
	ctx := context.Background()

	qz, err := quiz.New(quiz.Payload{
		Title:     "Capitals",
		SubjectID: "subj-1",
		Questions: []quiz.Question{
			{ID: "q1", Type: quiz.TypeShort, Prompt: "Capital of France?", CorrectAnswer: "Paris"},
			{ID: "q2", Type: quiz.TypeShort, Prompt: "Capital of Spain?", CorrectAnswer: "Madrid"},
		},
	})
	require.NoError(t, err)
	require.NoError(t, st.SaveQuiz(ctx, qz))

	// One correct (case-insensitively), one skipped entirely.
	rec := doJSON(t, mux, http.MethodPost, "/quizzes/"+qz.ID+"/attempts", map[string]any{
		"answers": map[string]string{"q1": " PARIS "},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	attempt := decodeBody[quiz.Attempt](t, rec)
	assert.Equal(t, 1, attempt.Score)
	assert.Equal(t, 2, attempt.TotalQuestions)
	require.Len(t, attempt.Answers, 2, "skipped questions still appear, scored incorrect")

	rec = doJSON(t, mux, http.MethodGet, "/quizzes/"+qz.ID+"/attempts/best", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestQuestionRoutes(t *testing.T) {
	mux, st := newTestMux(t, nil)

	qz, err := quiz.New(quiz.Payload{
		Title:     "Quiz",
		SubjectID: "subj-1",
		Questions: []quiz.Question{
			{ID: "q1", Type: quiz.TypeShort, Prompt: "first", CorrectAnswer: "a"},
		},
	})
	require.NoError(t, err)
	require.NoError(t, st.SaveQuiz(context.Background(), qz))

	rec := doJSON(t, mux, http.MethodPost, "/quizzes/"+qz.ID+"/questions", map[string]any{
		"type":          "mcq",
		"prompt":        "pick one",
		"options":       []string{"a", "b"},
		"correctAnswer": "a",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	updated := decodeBody[quiz.Quiz](t, rec)
	require.Len(t, updated.Questions, 2)

	// MCQ whose options omit the answer is a client error.
	rec = doJSON(t, mux, http.MethodPost, "/quizzes/"+qz.ID+"/questions", map[string]any{
		"type":          "mcq",
		"prompt":        "pick one",
		"options":       []string{"b", "c"},
		"correctAnswer": "a",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, mux, http.MethodDelete, "/quizzes/"+qz.ID+"/questions/q1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodDelete, "/quizzes/"+qz.ID+"/questions/q1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGeneratePersistsMaterials(t *testing.T) {
	basic := &stubGenerator{
		name: "Basic Generator",
		result: &generator.Result{
			FlashcardSet: &generator.GeneratedSet{
				Set:   studyset.SetPayload{Title: "Generated", SubjectID: "subj-1", Source: studyset.SourceGenerated},
				Cards: []studyset.CardPayload{{Question: "q", Answer: "a"}},
			},
		},
	}
	mux, st := newTestMux(t, basic)

	rec := doJSON(t, mux, http.MethodPost, "/generate", map[string]any{
		"notes":     []map[string]string{{"id": "n1", "title": "Note", "content": "content"}},
		"subjectId": "subj-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	saved := decodeBody[store.SavedMaterials](t, rec)
	require.NotNil(t, saved.Set)
	assert.Len(t, saved.Cards, 1)

	sets, err := st.ListSets(context.Background())
	require.NoError(t, err)
	assert.Len(t, sets, 1)
}

func TestGenerateValidation(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := doJSON(t, mux, http.MethodPost, "/generate", map[string]any{
		"notes": []map[string]string{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/generate", map[string]any{
		"notes": []map[string]string{{"id": "n1", "content": "x"}},
		"mode":  "everything",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportImportRoundTrip(t *testing.T) {
	mux, st := newTestMux(t, nil)
	ctx := context.Background()

	set, err := studyset.NewSet(studyset.SetPayload{Title: "Biology", SubjectID: "subj-1"})
	require.NoError(t, err)
	require.NoError(t, st.SaveSet(ctx, set))
	card, err := studyset.NewCard(set.ID, studyset.CardPayload{Question: "q", Answer: "a"})
	require.NoError(t, err)
	require.NoError(t, st.SaveCard(ctx, card))

	rec := doJSON(t, mux, http.MethodGet, "/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	exported := decodeBody[api.ExportData](t, rec)
	require.Len(t, exported.Sets, 1)

	// Import into a fresh database.
	mux2, st2 := newTestMux(t, nil)
	rec = doJSON(t, mux2, http.MethodPost, "/import", exported)
	require.Equal(t, http.StatusCreated, rec.Code)
	result := decodeBody[api.ImportResult](t, rec)
	assert.Equal(t, 1, result.SetsCreated)
	assert.Equal(t, 1, result.CardsCreated)

	sets, err := st2.ListSets(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "Biology", sets[0].Title)
}
