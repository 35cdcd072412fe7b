package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"

	"github.com/studyhub/backend/internal/domain/quiz"
	"github.com/studyhub/backend/internal/domain/studyset"
)

// OpenAIConfig points the remote generator at an OpenAI-compatible endpoint
// (OpenAI, Ollama, LM Studio, vLLM).
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// OpenAI delegates generation to a chat model and normalizes whatever comes
// back into the same Result shape as the heuristic generator. Transport
// errors and malformed payloads are hard failures; "the model found nothing"
// is the same soft empty result the heuristic produces.
type OpenAI struct {
	client *openai.Client
	model  string
	// configured is false when no API key was provided; the availability
	// probe then short-circuits without a network call.
	configured bool
}

var _ Generator = (*OpenAI)(nil)

// NewOpenAI creates the remote generator adapter.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      model,
		configured: cfg.APIKey != "",
	}
}

func (g *OpenAI) Name() string { return "AI Generator" }

// IsAvailable probes the endpoint's model list. Any error, including an
// unreachable host, collapses to false; the probe never fails loudly.
func (g *OpenAI) IsAvailable(ctx context.Context) bool {
	if !g.configured {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := g.client.ListModels(ctx)
	return err == nil
}

// rawResult mirrors the JSON schema the model is asked to produce. Every
// field is optional on the wire; normalization fills the gaps.
type rawResult struct {
	Flashcards []rawFlashcard `json:"flashcards"`
	Quiz       *rawQuiz       `json:"quiz"`
}

type rawFlashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type rawQuiz struct {
	Title     string        `json:"title"`
	Questions []rawQuestion `json:"questions"`
}

type rawQuestion struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Generate sends the notes and parameters to the model and normalizes the
// response. One outstanding request per call; no retries — the caller sees
// the failure once and decides whether to re-invoke.
func (g *OpenAI) Generate(ctx context.Context, req Request) (*Result, error) {
	req = req.withDefaults()

	if len(req.Notes) == 0 {
		return &Result{Warnings: []string{WarnNoNotes}}, nil
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: generationSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildGenerationPrompt(req)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.7,
		MaxTokens:   4000,
	})
	if err != nil {
		return nil, fmt.Errorf("ai generation request failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("ai generation returned no content")
	}

	jsonStr := extractJSON(resp.Choices[0].Message.Content)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON object found in model response")
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON from model: %w", err)
	}

	return normalizeRawResult(req, raw), nil
}

// normalizeRawResult coerces a model response into the generator contract:
// missing fields become safe defaults, question IDs are generated locally,
// option invariants are repaired, and the mode filter is re-applied so a
// chatty model cannot smuggle in material that was not asked for.
func normalizeRawResult(req Request, raw rawResult) *Result {
	result := &Result{}

	if req.wantsFlashcards() && len(raw.Flashcards) > 0 {
		cards := make([]studyset.CardPayload, 0, len(raw.Flashcards))
		for _, c := range head(raw.Flashcards, req.MaxFlashcards) {
			if c.Question == "" {
				// A card with no question cannot be studied; missing answers
				// only coerce to empty.
				continue
			}
			cards = append(cards, studyset.CardPayload{
				Question: c.Question,
				Answer:   c.Answer,
			})
		}
		if len(cards) > 0 {
			result.FlashcardSet = &GeneratedSet{
				Set: studyset.SetPayload{
					Title:     defaultTitle(req.Title, "AI Flashcards", len(req.Notes)),
					SubjectID: req.SubjectID,
					NoteIDs:   req.noteIDs(),
					Source:    studyset.SourceGenerated,
				},
				Cards: cards,
			}
		}
	}

	if req.wantsQuiz() && raw.Quiz != nil {
		questions := make([]quiz.Question, 0, len(raw.Quiz.Questions))
		for _, rq := range head(raw.Quiz.Questions, req.MaxQuizQuestions) {
			q, ok := normalizeQuestion(rq)
			if ok {
				questions = append(questions, q)
			}
		}
		if len(questions) > 0 {
			title := raw.Quiz.Title
			if title == "" {
				title = defaultTitle(req.Title, "AI Quiz", len(req.Notes))
			}
			result.Quiz = &quiz.Payload{
				SubjectID: req.SubjectID,
				NoteIDs:   req.noteIDs(),
				Title:     title,
				Questions: questions,
				Source:    studyset.SourceGenerated,
			}
		}
	}

	if result.Empty() {
		result.Warnings = append(result.Warnings, WarnNoContent)
	}
	return result
}

// normalizeQuestion repairs a model-authored question so it satisfies the
// quiz invariants. Questions with no prompt or no answer at all are dropped.
func normalizeQuestion(rq rawQuestion) (quiz.Question, bool) {
	if rq.Prompt == "" || rq.CorrectAnswer == "" {
		return quiz.Question{}, false
	}

	q := quiz.Question{
		ID:            rq.ID,
		Prompt:        rq.Prompt,
		CorrectAnswer: rq.CorrectAnswer,
		Explanation:   rq.Explanation,
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}

	switch quiz.QuestionType(rq.Type) {
	case quiz.TypeTrueFalse:
		q.Type = quiz.TypeTrueFalse
		q.Options = []string{"True", "False"}
	case quiz.TypeMCQ:
		if len(rq.Options) == 0 {
			// An MCQ without options is only answerable as free text.
			q.Type = quiz.TypeShort
			break
		}
		q.Type = quiz.TypeMCQ
		q.Options = rq.Options
		if !contains(q.Options, q.CorrectAnswer) {
			q.Options = append(q.Options, q.CorrectAnswer)
		}
	default:
		q.Type = quiz.TypeShort
	}
	return q, true
}

func contains(s []string, v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}

// extractJSON finds the outermost JSON object in a string, handling nested
// braces and braces inside quoted strings. Models occasionally wrap their
// JSON in prose even when asked not to.
func extractJSON(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
