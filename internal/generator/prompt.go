package generator

import (
	"fmt"
	"strings"

	"github.com/studyhub/backend/internal/extract"
)

const generationSystemPrompt = `You are an educational assistant that creates study materials from notes.
Generate high-quality flashcards and/or quiz questions that help students learn and retain information.
Always respond with valid JSON matching the expected schema.`

// buildGenerationPrompt assembles the user prompt: stripped note text,
// per-mode instructions, and the response schema last so it is the final
// thing the model sees.
func buildGenerationPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("Based on the following notes, generate study materials:\n\n")
	for i, note := range req.Notes {
		if i > 0 {
			b.WriteString("\n\n---\n\n")
		}
		fmt.Fprintf(&b, "# %s\n\n%s", note.Title, extract.StripHTML(note.Content))
	}
	b.WriteString("\n\n")

	if req.wantsFlashcards() {
		fmt.Fprintf(&b, "Generate up to %d flashcards with clear question/answer pairs.\n", req.MaxFlashcards)
	}
	if req.wantsQuiz() {
		types := make([]string, len(req.QuestionTypes))
		for i, t := range req.QuestionTypes {
			types[i] = string(t)
		}
		fmt.Fprintf(&b, "Generate a quiz with up to %d questions. Include these types: %s.\n",
			req.MaxQuizQuestions, strings.Join(types, ", "))
	}

	b.WriteString(`
Respond with JSON in this format:
{
  "flashcards": [{"question": "...", "answer": "..."}],
  "quiz": {
    "title": "...",
    "questions": [
      {"id": "...", "type": "mcq|truefalse|short", "prompt": "...", "options": ["..."], "correctAnswer": "...", "explanation": "..."}
    ]
  }
}`)

	return b.String()
}
