package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"signal-radar/internal/config"
	"signal-radar/internal/domain/matching"
	"signal-radar/internal/domain/signal"

	"github.com/sashabaranov/go-openai"
)

const systemPrompt = "You reply with JSON only. Do not add any text before or after the JSON."

var (
	ErrEmptyCompletion = errors.New("empty completion")
	ErrMalformedScores = errors.New("malformed scores")
)

// ChatCompleter is the slice of the OpenAI client the scorer needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type OpenAIScorer struct {
	client      ChatCompleter
	model       string
	maxTokens   int
	temperature float32
}

func NewOpenAIScorer(cfg config.OpenAIConfig) *OpenAIScorer {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return NewOpenAIScorerWithClient(openai.NewClientWithConfig(oc), cfg)
}

func NewOpenAIScorerWithClient(client ChatCompleter, cfg config.OpenAIConfig) *OpenAIScorer {
	return &OpenAIScorer{
		client:      client,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func (s *OpenAIScorer) Score(ctx context.Context, source signal.Signal, targets []signal.Signal) ([]matching.Score, error) {
	if len(targets) == 0 {
		return nil, nil
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(source, targets)},
		},
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, ErrEmptyCompletion
	}
	return ParseScores(content)
}

// BuildPrompt renders the source and target payloads into the instruction
// sent to the model.
func BuildPrompt(source signal.Signal, targets []signal.Signal) string {
	var b strings.Builder

	b.WriteString("You are an expert at matching people in the startup ecosystem.\n\n")
	b.WriteString("Rate how well the source signal matches each target signal on a 0-100 scale, where 0 means no match and 100 means a perfect match.\n\n")
	fmt.Fprintf(&b, "SOURCE SIGNAL (ID: %s, category: %s):\n%s\n\n", source.ID, categoryName(source.CategoryID), renderDetails(source.Details))

	b.WriteString("TARGET SIGNALS:\n")
	ids := make([]string, 0, len(targets))
	for i, t := range targets {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "SIGNAL ID %s (category: %s):\n%s\n", t.ID, categoryName(t.CategoryID), renderDetails(t.Details))
		ids = append(ids, `"`+t.ID.String()+`"`)
	}

	b.WriteString("\nJudge each target on:\n- fit between skills and requirements\n- how complementary the offers are\n- potential for collaboration\n\n")
	b.WriteString(`Answer ONLY with a JSON array: [{"signal_id": "<id>", "accurate": <number 0-100>}, ...]` + "\n")
	fmt.Fprintf(&b, "Return a result for every signal: [%s]", strings.Join(ids, ", "))

	return b.String()
}

func renderDetails(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return "No details"
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(out)
}

func categoryName(id int) string {
	for _, c := range signal.Categories {
		if c.ID == id {
			return c.Name
		}
	}
	return "UNKNOWN"
}
