package api

import (
	"errors"
	"net/http"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/domain/studysession"
	"github.com/studyhub/backend/internal/domain/studyset"
	"github.com/studyhub/backend/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateQuizRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	SubjectID   string          `json:"subjectId"`
	NoteIDs     []string        `json:"noteIds,omitempty"`
	Questions   []quiz.Question `json:"questions,omitempty"`
}

func (r *CreateQuizRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

type UpdateQuizRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	SubjectID   string   `json:"subjectId"`
	NoteIDs     []string `json:"noteIds,omitempty"`
}

func (r *UpdateQuizRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

type QuestionRequest struct {
	Type          quiz.QuestionType `json:"type"`
	Prompt        string            `json:"prompt"`
	Options       []string          `json:"options,omitempty"`
	CorrectAnswer string            `json:"correctAnswer"`
	Explanation   string            `json:"explanation,omitempty"`
}

func (r *QuestionRequest) Validate() error {
	if r.Prompt == "" {
		return errors.New("prompt is required")
	}
	if r.CorrectAnswer == "" {
		return errors.New("correctAnswer is required")
	}
	return nil
}

func (r *QuestionRequest) question() quiz.Question {
	return quiz.Question{
		Type:          r.Type,
		Prompt:        r.Prompt,
		Options:       r.Options,
		CorrectAnswer: r.CorrectAnswer,
		Explanation:   r.Explanation,
	}
}

// SubmitAttemptRequest carries the answers map of a finished quiz run,
// keyed by question ID. Grading happens server-side.
type SubmitAttemptRequest struct {
	Answers map[string]string `json:"answers"`
}

func (r *SubmitAttemptRequest) Validate() error {
	if r.Answers == nil {
		return errors.New("answers is required")
	}
	return nil
}

// ── Quiz handlers ───────────────────────────────────────────────────────────

// POST /quizzes
func (h *Handler) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req CreateQuizRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	qz, err := quiz.New(quiz.Payload{
		SubjectID:   req.SubjectID,
		NoteIDs:     req.NoteIDs,
		Title:       req.Title,
		Description: req.Description,
		Questions:   req.Questions,
		Source:      studyset.SourceManual,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.SaveQuiz(r.Context(), qz); h.handleStoreError(w, err, "quiz") {
		return
	}
	respondJSON(w, http.StatusCreated, qz)
}

// GET /quizzes — optionally filtered with ?subjectId=
func (h *Handler) listQuizzes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var quizzes []*quiz.Quiz
	var err error
	if subjectID := r.URL.Query().Get("subjectId"); subjectID != "" {
		quizzes, err = h.store.ListQuizzesBySubject(ctx, subjectID)
	} else {
		quizzes, err = h.store.ListQuizzes(ctx)
	}
	if h.handleStoreError(w, err, "quizzes") {
		return
	}

	if quizzes == nil {
		quizzes = []*quiz.Quiz{}
	}
	respondJSON(w, http.StatusOK, quizzes)
}

// GET /quizzes/{quizID}
func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	qz, err := h.store.GetQuiz(r.Context(), r.PathValue("quizID"))
	if h.handleStoreError(w, err, "quiz") {
		return
	}
	respondJSON(w, http.StatusOK, qz)
}

// PUT /quizzes/{quizID} — metadata only; questions have their own routes.
func (h *Handler) updateQuiz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req UpdateQuizRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	qz, err := h.store.GetQuiz(ctx, r.PathValue("quizID"))
	if h.handleStoreError(w, err, "quiz") {
		return
	}

	qz.Title = req.Title
	qz.Description = req.Description
	qz.SubjectID = req.SubjectID
	qz.NoteIDs = req.NoteIDs

	if err := h.store.UpdateQuiz(ctx, qz); h.handleStoreError(w, err, "quiz") {
		return
	}
	respondJSON(w, http.StatusOK, qz)
}

// DELETE /quizzes/{quizID}
func (h *Handler) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeleteQuiz(r.Context(), r.PathValue("quizID"))
	if h.handleStoreError(w, err, "quiz") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Question handlers ───────────────────────────────────────────────────────

// POST /quizzes/{quizID}/questions
func (h *Handler) addQuestion(w http.ResponseWriter, r *http.Request) {
	var req QuestionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	qz, err := h.store.AddQuizQuestion(r.Context(), r.PathValue("quizID"), req.question())
	if h.handleQuestionError(w, err) {
		return
	}
	respondJSON(w, http.StatusCreated, qz)
}

// PUT /quizzes/{quizID}/questions/{questionID}
func (h *Handler) updateQuestion(w http.ResponseWriter, r *http.Request) {
	var req QuestionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	qz, err := h.store.UpdateQuizQuestion(r.Context(),
		r.PathValue("quizID"), r.PathValue("questionID"), req.question())
	if h.handleQuestionError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, qz)
}

// DELETE /quizzes/{quizID}/questions/{questionID}
func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	qz, err := h.store.DeleteQuizQuestion(r.Context(),
		r.PathValue("quizID"), r.PathValue("questionID"))
	if h.handleQuestionError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, qz)
}

// ── Attempt handlers ────────────────────────────────────────────────────────

// POST /quizzes/{quizID}/attempts
func (h *Handler) submitAttempt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req SubmitAttemptRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	qz, err := h.store.GetQuiz(ctx, r.PathValue("quizID"))
	if h.handleStoreError(w, err, "quiz") {
		return
	}

	score, graded := studysession.Score(qz, req.Answers)
	attempt, err := quiz.NewAttempt(qz.ID, score, len(qz.Questions), graded)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.SaveAttempt(ctx, attempt); h.handleStoreError(w, err, "quiz") {
		return
	}
	respondJSON(w, http.StatusCreated, attempt)
}

// GET /quizzes/{quizID}/attempts
func (h *Handler) listAttempts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	quizID := r.PathValue("quizID")

	if _, err := h.store.GetQuiz(ctx, quizID); h.handleStoreError(w, err, "quiz") {
		return
	}

	attempts, err := h.store.ListAttempts(ctx, quizID)
	if h.handleStoreError(w, err, "attempts") {
		return
	}
	if attempts == nil {
		attempts = []*quiz.Attempt{}
	}
	respondJSON(w, http.StatusOK, attempts)
}

// GET /quizzes/{quizID}/attempts/best
func (h *Handler) bestAttempt(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.store.BestAttempt(r.Context(), r.PathValue("quizID"))
	if h.handleStoreError(w, err, "attempt") {
		return
	}
	respondJSON(w, http.StatusOK, attempt)
}

// GET /quizzes/{quizID}/attempts/latest
func (h *Handler) latestAttempt(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.store.LatestAttempt(r.Context(), r.PathValue("quizID"))
	if h.handleStoreError(w, err, "attempt") {
		return
	}
	respondJSON(w, http.StatusOK, attempt)
}

// handleQuestionError distinguishes "quiz/question missing" from "question
// invalid". The store surfaces domain validation failures directly; those
// are client errors, not server faults.
func (h *Handler) handleQuestionError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "question not found")
		return true
	}
	respondError(w, http.StatusBadRequest, err.Error())
	return true
}
