package api

import (
	"errors"
	"net/http"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/generator"
)

// ── Request / Response types ────────────────────────────────────────────────

type GenerateRequest struct {
	Generator        generator.Type      `json:"generator,omitempty"`
	Notes            []generator.Note    `json:"notes"`
	SubjectID        string              `json:"subjectId"`
	Title            string              `json:"title,omitempty"`
	Mode             generator.Mode      `json:"mode,omitempty"`
	MaxFlashcards    int                 `json:"maxFlashcards,omitempty"`
	MaxQuizQuestions int                 `json:"maxQuizQuestions,omitempty"`
	QuestionTypes    []quiz.QuestionType `json:"questionTypes,omitempty"`
}

func (r *GenerateRequest) Validate() error {
	if len(r.Notes) == 0 {
		return errors.New("notes is required")
	}
	switch r.Mode {
	case "", generator.ModeFlashcards, generator.ModeQuiz, generator.ModeBoth:
	default:
		return errors.New("mode must be flashcards, quiz, or both")
	}
	switch r.Generator {
	case "", generator.TypeBasic, generator.TypeAI:
	default:
		return errors.New("generator must be basic or ai")
	}
	for _, qt := range r.QuestionTypes {
		switch qt {
		case quiz.TypeMCQ, quiz.TypeTrueFalse, quiz.TypeShort:
		default:
			return errors.New("questionTypes entries must be mcq, truefalse, or short")
		}
	}
	return nil
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /generate
func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	saved, err := h.study.Generate(r.Context(), req.Generator, generator.Request{
		Notes:            req.Notes,
		SubjectID:        req.SubjectID,
		Title:            req.Title,
		Mode:             req.Mode,
		MaxFlashcards:    req.MaxFlashcards,
		MaxQuizQuestions: req.MaxQuizQuestions,
		QuestionTypes:    req.QuestionTypes,
	})
	if err != nil {
		h.logger.Error("generation failed", "error", err)
		respondError(w, http.StatusBadGateway, "generation failed, try again")
		return
	}

	respondJSON(w, http.StatusCreated, saved)
}

// GET /generators
func (h *Handler) generatorStatuses(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.study.GeneratorStatuses(r.Context()))
}

// GET /stats
func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.study.Stats(r.Context())
	if h.handleStoreError(w, err, "stats") {
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
