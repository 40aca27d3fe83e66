package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"signal-radar/internal/config"
	"signal-radar/internal/domain/signal"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply string
	err   error
	empty bool
	req   openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	if f.empty {
		return openai.ChatCompletionResponse{}, nil
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.reply}}},
	}, nil
}

func testConfig() config.OpenAIConfig {
	return config.OpenAIConfig{Model: "gpt-4o-mini", MaxTokens: 2000, Temperature: 0.3}
}

func sig(cat int, details string) signal.Signal {
	return signal.Signal{ID: uuid.New(), UserID: uuid.New(), CategoryID: cat, Details: json.RawMessage(details), IsActive: true}
}

func TestParseScores(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	t.Run("plain array", func(t *testing.T) {
		out, err := ParseScores(`[{"signal_id":"` + a.String() + `","accurate":85},{"signal_id":"` + b.String() + `","accurate":12.5}]`)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, a, out[0].SignalID)
		assert.Equal(t, 85.0, out[0].Accurate)
		assert.Equal(t, 12.5, out[1].Accurate)
	})

	t.Run("fenced block", func(t *testing.T) {
		out, err := ParseScores("```json\n[{\"signal_id\":\"" + a.String() + "\",\"accurate\":\"70\"}]\n```")
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, 70.0, out[0].Accurate)
	})

	t.Run("single object", func(t *testing.T) {
		out, err := ParseScores(`{"signal_id":"` + a.String() + `","accurate":40}`)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, a, out[0].SignalID)
	})

	t.Run("missing score reads as zero", func(t *testing.T) {
		out, err := ParseScores(`[{"signal_id":"` + a.String() + `"}]`)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, 0.0, out[0].Accurate)
	})

	t.Run("bad ids skipped", func(t *testing.T) {
		out, err := ParseScores(`[{"signal_id":"nope","accurate":90},{"signal_id":"` + b.String() + `","accurate":10}]`)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, b, out[0].SignalID)
	})

	t.Run("prose", func(t *testing.T) {
		_, err := ParseScores("I think they match well")
		assert.ErrorIs(t, err, ErrMalformedScores)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseScores("   ")
		assert.ErrorIs(t, err, ErrEmptyCompletion)
	})
}

func TestOpenAIScorer_Score(t *testing.T) {
	src := sig(signal.CategoryFreelancer, `{"skills":["Go"]}`)
	target := sig(signal.CategoryStartupIdea, `{"needs":"backend"}`)

	fc := &fakeCompleter{reply: `[{"signal_id":"` + target.ID.String() + `","accurate":77}]`}
	out, err := NewOpenAIScorerWithClient(fc, testConfig()).Score(context.Background(), src, []signal.Signal{target})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 77.0, out[0].Accurate)

	assert.Equal(t, "gpt-4o-mini", fc.req.Model)
	assert.Equal(t, 2000, fc.req.MaxTokens)
	require.Len(t, fc.req.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, fc.req.Messages[0].Role)
	assert.Contains(t, fc.req.Messages[1].Content, target.ID.String())
}

func TestOpenAIScorer_Errors(t *testing.T) {
	src := sig(signal.CategoryInvestor, `{}`)
	target := sig(signal.CategoryStartupIdea, `{}`)

	_, err := NewOpenAIScorerWithClient(&fakeCompleter{err: errors.New("429")}, testConfig()).Score(context.Background(), src, []signal.Signal{target})
	assert.Error(t, err)

	_, err = NewOpenAIScorerWithClient(&fakeCompleter{empty: true}, testConfig()).Score(context.Background(), src, []signal.Signal{target})
	assert.ErrorIs(t, err, ErrEmptyCompletion)

	fc := &fakeCompleter{}
	out, err := NewOpenAIScorerWithClient(fc, testConfig()).Score(context.Background(), src, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, fc.req.Model, "no request for an empty target list")
}

func TestBuildPrompt(t *testing.T) {
	src := sig(signal.CategoryStartupIdea, `{"idea":"marketplace"}`)
	t1 := sig(signal.CategoryFreelancer, `{"role":"designer"}`)
	t2 := sig(signal.CategoryInvestor, ``)

	p := BuildPrompt(src, []signal.Signal{t1, t2})
	assert.Contains(t, p, src.ID.String())
	assert.Contains(t, p, "STARTUP_IDEA")
	assert.Contains(t, p, `"idea": "marketplace"`)
	assert.Contains(t, p, t1.ID.String())
	assert.Contains(t, p, t2.ID.String())
	assert.Contains(t, p, "No details")
	assert.True(t, strings.Contains(p, "0-100"))
}
