package generator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/domain/studyset"
	"github.com/studyhub/backend/internal/extract"
	"github.com/studyhub/backend/internal/worker"
)

// minNoteContent is the stripped-text length below which a note is skipped.
const minNoteContent = 50

// Heuristic builds study material from note formatting alone: emphasized
// terms become definition cards, headings become explanation prompts, and
// verbatim sentences become true/false statements. Deterministic apart
// from MCQ option shuffling, which is unseeded on purpose: only the set of
// options matters, not their order.
type Heuristic struct {
	workers int
}

var _ Generator = (*Heuristic)(nil)

// NewHeuristic creates the offline generator.
func NewHeuristic() *Heuristic {
	return &Heuristic{workers: 4}
}

func (h *Heuristic) Name() string { return "Basic Generator" }

// IsAvailable always reports true; the heuristic generator has no dependencies.
func (h *Heuristic) IsAvailable(ctx context.Context) bool { return true }

// noteOutput is what one note contributed to the batch.
type noteOutput struct {
	cards     []studyset.CardPayload
	questions []quiz.Question
	warning   string
}

// Generate processes every note within a per-note budget of
// ceil(max/noteCount) cards and questions, so a single long note cannot
// crowd out shorter ones, then truncates the aggregate to the requested
// maxima. Generation is best-effort across the batch: thin notes are
// skipped with a warning, never an error.
func (h *Heuristic) Generate(ctx context.Context, req Request) (*Result, error) {
	req = req.withDefaults()

	if len(req.Notes) == 0 {
		return &Result{Warnings: []string{WarnNoNotes}}, nil
	}

	cardBudget := ceilDiv(req.MaxFlashcards, len(req.Notes))
	questionBudget := ceilDiv(req.MaxQuizQuestions, len(req.Notes))

	workers := h.workers
	if len(req.Notes) < workers {
		workers = len(req.Notes)
	}
	pool := worker.NewPool[noteOutput](workers, len(req.Notes))
	defer pool.Close()

	for i, note := range req.Notes {
		note := note
		pool.Submit(i, func() noteOutput {
			return h.processNote(note, req, cardBudget, questionBudget)
		})
	}

	var cards []studyset.CardPayload
	var questions []quiz.Question
	var warnings []string
	for _, out := range pool.Collect(len(req.Notes)) {
		cards = append(cards, out.cards...)
		questions = append(questions, out.questions...)
		if out.warning != "" {
			warnings = append(warnings, out.warning)
		}
	}

	if len(cards) > req.MaxFlashcards {
		cards = cards[:req.MaxFlashcards]
	}
	if len(questions) > req.MaxQuizQuestions {
		questions = questions[:req.MaxQuizQuestions]
	}

	result := &Result{Warnings: warnings}

	if len(cards) > 0 {
		result.FlashcardSet = &GeneratedSet{
			Set: studyset.SetPayload{
				Title:     defaultTitle(req.Title, "Flashcards", len(req.Notes)),
				SubjectID: req.SubjectID,
				NoteIDs:   req.noteIDs(),
				Source:    studyset.SourceGenerated,
			},
			Cards: cards,
		}
	}

	if len(questions) > 0 {
		result.Quiz = &quiz.Payload{
			SubjectID: req.SubjectID,
			NoteIDs:   req.noteIDs(),
			Title:     defaultTitle(req.Title, "Quiz", len(req.Notes)),
			Questions: questions,
			Source:    studyset.SourceGenerated,
		}
	}

	if result.Empty() {
		result.Warnings = append(result.Warnings, WarnNoContent)
	}
	return result, nil
}

func (h *Heuristic) processNote(note Note, req Request, cardBudget, questionBudget int) noteOutput {
	plainText := extract.StripHTML(note.Content)
	if len(plainText) < minNoteContent {
		return noteOutput{warning: fmt.Sprintf("Note %q has very little content.", note.Title)}
	}

	var out noteOutput
	if req.wantsFlashcards() {
		out.cards = flashcardsFromNote(note.Content, plainText, cardBudget)
	}
	if req.wantsQuiz() {
		out.questions = quizQuestionsFromNote(note.Content, plainText, questionBudget, req)
	}
	return out
}

// flashcardsFromNote applies the three synthesis rules in order and caps
// the result to the note's budget.
func flashcardsFromNote(html, plainText string, maxCards int) []studyset.CardPayload {
	var cards []studyset.CardPayload

	keyTerms := extract.KeyTerms(html)
	sentences := extract.Sentences(plainText)
	headings := extract.Headings(html)
	listItems := extract.ListItems(html)

	// Definition cards: each key term paired with the first sentence that
	// mentions it. Terms without a matching sentence are skipped.
	for _, term := range head(keyTerms, ceilDiv(maxCards, 2)) {
		if sentence, ok := sentenceContaining(sentences, term); ok {
			cards = append(cards, studyset.CardPayload{
				Question: fmt.Sprintf("What is %q?", term),
				Answer:   sentence,
			})
		}
	}

	// Explanation cards: the first sentence following each heading.
	for _, heading := range head(headings, ceilDiv(maxCards, 4)) {
		idx := strings.Index(plainText, heading)
		if idx < 0 {
			continue
		}
		following := extract.Sentences(plainText[idx+len(heading):])
		if len(following) > 0 {
			cards = append(cards, studyset.CardPayload{
				Question: "Explain: " + heading,
				Answer:   following[0],
			})
		}
	}

	// One aggregate card when the note carries a real list.
	if len(listItems) >= 3 {
		topic := "this topic"
		if len(headings) > 0 {
			topic = headings[0]
		}
		var b strings.Builder
		for i, item := range head(listItems, 5) {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%d. %s", i+1, item)
		}
		cards = append(cards, studyset.CardPayload{
			Question: "List key points about " + topic,
			Answer:   b.String(),
		})
	}

	if len(cards) > maxCards {
		cards = cards[:maxCards]
	}
	return cards
}

// quizQuestionsFromNote builds questions of each whitelisted type, capped
// to the note's budget.
func quizQuestionsFromNote(html, plainText string, maxQuestions int, req Request) []quiz.Question {
	var questions []quiz.Question

	keyTerms := extract.KeyTerms(html)
	sentences := extract.Sentences(plainText)
	headings := extract.Headings(html)

	// True/false statements are drawn verbatim from the notes, so they are
	// always true by construction; no false variant is fabricated.
	if req.typeEnabled(quiz.TypeTrueFalse) {
		for _, sentence := range head(sentences, 3) {
			if len(sentence) > 30 && len(sentence) < 150 {
				questions = append(questions, quiz.Question{
					ID:            uuid.NewString(),
					Type:          quiz.TypeTrueFalse,
					Prompt:        "True or False: " + sentence,
					Options:       []string{"True", "False"},
					CorrectAnswer: "True",
					Explanation:   "This statement is directly from the notes.",
				})
			}
		}
	}

	// MCQ distractors come from the note's own key terms, so at least 4
	// terms are needed before any MCQ is offered.
	if req.typeEnabled(quiz.TypeMCQ) && len(keyTerms) >= 4 {
		for _, term := range head(keyTerms, 2) {
			sentence, ok := sentenceContaining(sentences, term)
			if !ok {
				continue
			}
			questions = append(questions, quiz.Question{
				ID:            uuid.NewString(),
				Type:          quiz.TypeMCQ,
				Prompt:        fmt.Sprintf("Which term best relates to: %q?", truncateRunes(sentence, 100)+"..."),
				Options:       mcqOptions(term, keyTerms),
				CorrectAnswer: term,
				Explanation:   fmt.Sprintf("The correct answer is %q based on the note content.", term),
			})
		}
	}

	if req.typeEnabled(quiz.TypeShort) {
		for _, heading := range head(headings, 2) {
			answer := "Answer based on your understanding."
			if len(sentences) > 0 {
				// Loose reference answer only; short answers are graded by
				// the same string match downstream, which is documented as
				// a limitation.
				answer = sentences[0]
			}
			questions = append(questions, quiz.Question{
				ID:            uuid.NewString(),
				Type:          quiz.TypeShort,
				Prompt:        "Briefly explain: " + heading,
				CorrectAnswer: answer,
				Explanation:   "Open-ended question to test understanding.",
			})
		}
	}

	if len(questions) > maxQuestions {
		questions = questions[:maxQuestions]
	}
	return questions
}

// mcqOptions picks three random distractors from the other key terms and
// shuffles all four options.
func mcqOptions(term string, keyTerms []string) []string {
	others := make([]string, 0, len(keyTerms)-1)
	for _, t := range keyTerms {
		if t != term {
			others = append(others, t)
		}
	}
	rand.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})

	options := append([]string{term}, head(others, 3)...)
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

func sentenceContaining(sentences []string, term string) (string, bool) {
	needle := strings.ToLower(term)
	for _, s := range sentences {
		if strings.Contains(strings.ToLower(s), needle) {
			return s, true
		}
	}
	return "", false
}

func defaultTitle(requested, kind string, noteCount int) string {
	if requested != "" {
		return requested
	}
	plural := ""
	if noteCount > 1 {
		plural = "s"
	}
	return fmt.Sprintf("%s from %d note%s", kind, noteCount, plural)
}

func head[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
