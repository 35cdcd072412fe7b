package api

import (
	"errors"
	"net/http"

	"github.com/studyhub/backend/internal/domain/studysession"
	"github.com/studyhub/backend/internal/domain/studyset"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSetRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	SubjectID   string   `json:"subjectId"`
	NoteIDs     []string `json:"noteIds,omitempty"`
}

func (r *CreateSetRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

type UpdateSetRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	SubjectID   string   `json:"subjectId"`
	NoteIDs     []string `json:"noteIds,omitempty"`
}

func (r *UpdateSetRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

type CreateCardRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (r *CreateCardRequest) Validate() error {
	if r.Question == "" {
		return errors.New("question is required")
	}
	return nil
}

type UpdateCardRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (r *UpdateCardRequest) Validate() error {
	if r.Question == "" {
		return errors.New("question is required")
	}
	return nil
}

type MarkLearnedRequest struct {
	Learned bool `json:"learned"`
}

func (r *MarkLearnedRequest) Validate() error { return nil }

// ── Set handlers ────────────────────────────────────────────────────────────

// POST /sets
func (h *Handler) createSet(w http.ResponseWriter, r *http.Request) {
	var req CreateSetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	set, err := studyset.NewSet(studyset.SetPayload{
		Title:       req.Title,
		Description: req.Description,
		SubjectID:   req.SubjectID,
		NoteIDs:     req.NoteIDs,
		Source:      studyset.SourceManual,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.SaveSet(r.Context(), set); h.handleStoreError(w, err, "set") {
		return
	}
	respondJSON(w, http.StatusCreated, set)
}

// GET /sets — optionally filtered with ?subjectId=
func (h *Handler) listSets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var sets []*studyset.FlashcardSet
	var err error
	if subjectID := r.URL.Query().Get("subjectId"); subjectID != "" {
		sets, err = h.store.ListSetsBySubject(ctx, subjectID)
	} else {
		sets, err = h.store.ListSets(ctx)
	}
	if h.handleStoreError(w, err, "sets") {
		return
	}

	if sets == nil {
		sets = []*studyset.FlashcardSet{}
	}
	respondJSON(w, http.StatusOK, sets)
}

// GET /sets/{setID}
func (h *Handler) getSet(w http.ResponseWriter, r *http.Request) {
	set, err := h.store.GetSet(r.Context(), r.PathValue("setID"))
	if h.handleStoreError(w, err, "set") {
		return
	}
	respondJSON(w, http.StatusOK, set)
}

// PUT /sets/{setID}
func (h *Handler) updateSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req UpdateSetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	set, err := h.store.GetSet(ctx, r.PathValue("setID"))
	if h.handleStoreError(w, err, "set") {
		return
	}

	set.Title = req.Title
	set.Description = req.Description
	set.SubjectID = req.SubjectID
	set.NoteIDs = req.NoteIDs

	if err := h.store.UpdateSet(ctx, set); h.handleStoreError(w, err, "set") {
		return
	}
	respondJSON(w, http.StatusOK, set)
}

// DELETE /sets/{setID}
func (h *Handler) deleteSet(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeleteSet(r.Context(), r.PathValue("setID"))
	if h.handleStoreError(w, err, "set") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Card handlers ───────────────────────────────────────────────────────────

// GET /sets/{setID}/cards
func (h *Handler) listCards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	setID := r.PathValue("setID")

	if _, err := h.store.GetSet(ctx, setID); h.handleStoreError(w, err, "set") {
		return
	}

	cards, err := h.store.ListCardsBySet(ctx, setID)
	if h.handleStoreError(w, err, "cards") {
		return
	}
	if cards == nil {
		cards = []*studyset.Flashcard{}
	}
	respondJSON(w, http.StatusOK, cards)
}

// POST /sets/{setID}/cards
func (h *Handler) createCard(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := studyset.NewCard(r.PathValue("setID"), studyset.CardPayload{
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.SaveCard(r.Context(), card); h.handleStoreError(w, err, "set") {
		return
	}
	respondJSON(w, http.StatusCreated, card)
}

// GET /cards/{cardID}
func (h *Handler) getCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.store.GetCard(r.Context(), r.PathValue("cardID"))
	if h.handleStoreError(w, err, "card") {
		return
	}
	respondJSON(w, http.StatusOK, card)
}

// PUT /cards/{cardID}
func (h *Handler) updateCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req UpdateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.store.GetCard(ctx, r.PathValue("cardID"))
	if h.handleStoreError(w, err, "card") {
		return
	}

	card.Question = req.Question
	card.Answer = req.Answer

	if err := h.store.UpdateCard(ctx, card); h.handleStoreError(w, err, "card") {
		return
	}
	respondJSON(w, http.StatusOK, card)
}

// DELETE /cards/{cardID}
func (h *Handler) deleteCard(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeleteCard(r.Context(), r.PathValue("cardID"))
	if h.handleStoreError(w, err, "card") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PATCH /cards/{cardID}/learned
func (h *Handler) markCardLearned(w http.ResponseWriter, r *http.Request) {
	var req MarkLearnedRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.store.MarkCardLearned(r.Context(), r.PathValue("cardID"), req.Learned)
	if h.handleStoreError(w, err, "card") {
		return
	}
	respondJSON(w, http.StatusOK, card)
}

// ── Self-test ───────────────────────────────────────────────────────────────

// POST /sets/{setID}/test
func (h *Handler) buildTest(w http.ResponseWriter, r *http.Request) {
	questions, err := h.study.BuildTest(r.Context(), r.PathValue("setID"))
	if errors.Is(err, studysession.ErrNotEnoughCards) {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if h.handleStoreError(w, err, "set") {
		return
	}
	respondJSON(w, http.StatusOK, questions)
}
