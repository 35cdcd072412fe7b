package studysession

import (
	"errors"
	"math/rand"

	"github.com/studyhub/backend/internal/domain/studyset"
)

// minTestDeckSize is how many cards a deck needs before a multiple-choice
// self-test can offer 3 distinct wrong answers per question.
const minTestDeckSize = 4

// ErrNotEnoughCards is the precondition failure for small decks. Surfaced to
// the user as-is; the test is refused, never degraded to fewer options.
var ErrNotEnoughCards = errors.New("need at least 4 cards for a multiple-choice test")

// TestQuestion is one flashcard posed as a multiple-choice question: the
// card's answer hidden among wrong answers drawn from the rest of the deck.
type TestQuestion struct {
	CardID   string   `json:"cardId"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// NewTest turns a deck into a multiple-choice self-test. Each question gets
// 3 wrong answers picked at random from the other cards, shuffled in with
// the right one. Decks under 4 cards are rejected.
func NewTest(cards []*studyset.Flashcard) ([]TestQuestion, error) {
	if len(cards) < minTestDeckSize {
		return nil, ErrNotEnoughCards
	}

	questions := make([]TestQuestion, 0, len(cards))
	for i, card := range cards {
		options := append(wrongAnswers(cards, i), card.Answer)
		rand.Shuffle(len(options), func(a, b int) {
			options[a], options[b] = options[b], options[a]
		})

		questions = append(questions, TestQuestion{
			CardID:   card.ID,
			Question: card.Question,
			Options:  options,
			Answer:   card.Answer,
		})
	}
	return questions, nil
}

// wrongAnswers picks 3 random answers from every card except cards[skip].
func wrongAnswers(cards []*studyset.Flashcard, skip int) []string {
	others := make([]string, 0, len(cards)-1)
	for i, card := range cards {
		if i == skip {
			continue
		}
		others = append(others, card.Answer)
	}

	rand.Shuffle(len(others), func(a, b int) {
		others[a], others[b] = others[b], others[a]
	})
	return others[:3]
}
