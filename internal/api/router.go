// internal/api/router.go
package api

import "net/http"

// RegisterRoutes wires every handler onto the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Flashcard sets
	mux.HandleFunc("POST /sets", h.createSet)
	mux.HandleFunc("GET /sets", h.listSets)
	mux.HandleFunc("GET /sets/{setID}", h.getSet)
	mux.HandleFunc("PUT /sets/{setID}", h.updateSet)
	mux.HandleFunc("DELETE /sets/{setID}", h.deleteSet)
	mux.HandleFunc("GET /sets/{setID}/cards", h.listCards)
	mux.HandleFunc("POST /sets/{setID}/cards", h.createCard)
	mux.HandleFunc("POST /sets/{setID}/test", h.buildTest)

	// Flashcards
	mux.HandleFunc("GET /cards/{cardID}", h.getCard)
	mux.HandleFunc("PUT /cards/{cardID}", h.updateCard)
	mux.HandleFunc("DELETE /cards/{cardID}", h.deleteCard)
	mux.HandleFunc("PATCH /cards/{cardID}/learned", h.markCardLearned)

	// Quizzes
	mux.HandleFunc("POST /quizzes", h.createQuiz)
	mux.HandleFunc("GET /quizzes", h.listQuizzes)
	mux.HandleFunc("GET /quizzes/{quizID}", h.getQuiz)
	mux.HandleFunc("PUT /quizzes/{quizID}", h.updateQuiz)
	mux.HandleFunc("DELETE /quizzes/{quizID}", h.deleteQuiz)

	// Embedded questions
	mux.HandleFunc("POST /quizzes/{quizID}/questions", h.addQuestion)
	mux.HandleFunc("PUT /quizzes/{quizID}/questions/{questionID}", h.updateQuestion)
	mux.HandleFunc("DELETE /quizzes/{quizID}/questions/{questionID}", h.deleteQuestion)

	// Attempts
	mux.HandleFunc("POST /quizzes/{quizID}/attempts", h.submitAttempt)
	mux.HandleFunc("GET /quizzes/{quizID}/attempts", h.listAttempts)
	mux.HandleFunc("GET /quizzes/{quizID}/attempts/best", h.bestAttempt)
	mux.HandleFunc("GET /quizzes/{quizID}/attempts/latest", h.latestAttempt)

	// Generation
	mux.HandleFunc("POST /generate", h.generate)
	mux.HandleFunc("GET /generators", h.generatorStatuses)

	// Progress
	mux.HandleFunc("GET /stats", h.stats)

	// Backup
	mux.HandleFunc("GET /export", h.exportAll)
	mux.HandleFunc("POST /import", h.importAll)
}
