package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/domain/studyset"
)

// ── Request / Response types ────────────────────────────────────────────────

type ExportCard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Learned  bool   `json:"learned"`
}

type ExportSet struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	SubjectID   string       `json:"subjectId"`
	NoteIDs     []string     `json:"noteIds"`
	Source      string       `json:"source"`
	Cards       []ExportCard `json:"cards"`
}

type ExportQuiz struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	SubjectID   string          `json:"subjectId"`
	NoteIDs     []string        `json:"noteIds"`
	Source      string          `json:"source"`
	Questions   []quiz.Question `json:"questions"`
}

type ExportData struct {
	Version    string       `json:"version"`
	ExportedAt string       `json:"exported_at"`
	Sets       []ExportSet  `json:"sets"`
	Quizzes    []ExportQuiz `json:"quizzes"`
}

type ImportResult struct {
	SetsCreated    int `json:"sets_created"`
	CardsCreated   int `json:"cards_created"`
	QuizzesCreated int `json:"quizzes_created"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /export — attempt history is progress, not material, and stays local.
func (h *Handler) exportAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sets, err := h.store.ListSets(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load sets")
		return
	}
	quizzes, err := h.store.ListQuizzes(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load quizzes")
		return
	}

	exportData := ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Sets:       make([]ExportSet, 0, len(sets)),
		Quizzes:    make([]ExportQuiz, 0, len(quizzes)),
	}

	for _, set := range sets {
		cards, err := h.store.ListCardsBySet(ctx, set.ID)
		if err != nil {
			continue
		}

		exportSet := ExportSet{
			Title:       set.Title,
			Description: set.Description,
			SubjectID:   set.SubjectID,
			NoteIDs:     set.NoteIDs,
			Source:      string(set.Source),
			Cards:       make([]ExportCard, 0, len(cards)),
		}
		for _, card := range cards {
			exportSet.Cards = append(exportSet.Cards, ExportCard{
				Question: card.Question,
				Answer:   card.Answer,
				Learned:  card.Learned,
			})
		}
		exportData.Sets = append(exportData.Sets, exportSet)
	}

	for _, qz := range quizzes {
		exportData.Quizzes = append(exportData.Quizzes, ExportQuiz{
			Title:       qz.Title,
			Description: qz.Description,
			SubjectID:   qz.SubjectID,
			NoteIDs:     qz.NoteIDs,
			Source:      string(qz.Source),
			Questions:   qz.Questions,
		})
	}

	w.Header().Set("Content-Disposition", "attachment; filename=studyhub-export.json")
	respondJSON(w, http.StatusOK, exportData)
}

// POST /import — creates everything fresh; never merges with existing records.
func (h *Handler) importAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var data ExportData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	result := ImportResult{}

	for _, exportSet := range data.Sets {
		set, err := studyset.NewSet(studyset.SetPayload{
			Title:       exportSet.Title,
			Description: exportSet.Description,
			SubjectID:   exportSet.SubjectID,
			NoteIDs:     exportSet.NoteIDs,
			Source:      studyset.Source(exportSet.Source),
		})
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid set: "+err.Error())
			return
		}
		if err := h.store.SaveSet(ctx, set); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to import set")
			return
		}
		result.SetsCreated++

		for _, exportCard := range exportSet.Cards {
			card, err := studyset.NewCard(set.ID, studyset.CardPayload{
				Question: exportCard.Question,
				Answer:   exportCard.Answer,
			})
			if err != nil {
				respondError(w, http.StatusBadRequest, "invalid card: "+err.Error())
				return
			}
			if err := h.store.SaveCard(ctx, card); err != nil {
				respondError(w, http.StatusInternalServerError, "failed to import card")
				return
			}
			result.CardsCreated++

			if exportCard.Learned {
				if _, err := h.store.MarkCardLearned(ctx, card.ID, true); err != nil {
					respondError(w, http.StatusInternalServerError, "failed to import card")
					return
				}
			}
		}
	}

	for _, exportQuiz := range data.Quizzes {
		qz, err := quiz.New(quiz.Payload{
			SubjectID:   exportQuiz.SubjectID,
			NoteIDs:     exportQuiz.NoteIDs,
			Title:       exportQuiz.Title,
			Description: exportQuiz.Description,
			Questions:   exportQuiz.Questions,
			Source:      studyset.Source(exportQuiz.Source),
		})
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid quiz: "+err.Error())
			return
		}
		if err := h.store.SaveQuiz(ctx, qz); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to import quiz")
			return
		}
		result.QuizzesCreated++
	}

	respondJSON(w, http.StatusCreated, result)
}
