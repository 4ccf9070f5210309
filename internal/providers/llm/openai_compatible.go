package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sandevgo/animus/internal/config"
	"github.com/sandevgo/animus/internal/core"
)

// chatMessage is the wire shape of one context entry. Only role and
// content cross the completion boundary.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAICompatible calls any /v1/chat/completions endpoint and reads
// the reply from the first choice.
type OpenAICompatible struct {
	baseProvider
	maxTokens   int
	temperature float64
}

func NewOpenAICompatible(cfg *config.ModelConfig) *OpenAICompatible {
	return &OpenAICompatible{
		baseProvider: newBaseProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout),
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
	}
}

func (o *OpenAICompatible) Complete(ctx context.Context, messages []core.Message) (string, error) {
	wire := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		wire = append(wire, chatMessage{Role: m.Role, Content: m.Content})
	}

	payload := map[string]any{
		"model":       o.model,
		"messages":    wire,
		"max_tokens":  o.maxTokens,
		"temperature": o.temperature,
	}

	headers := map[string]string{
		"User-Agent": core.AnimusUserAgent,
	}
	if o.apiKey != "" {
		headers["Authorization"] = "Bearer " + o.apiKey
	}

	resp, err := o.doRequest(ctx, http.MethodPost, "/v1/chat/completions", payload, headers)
	if err != nil {
		return "", &core.UpstreamError{Op: "chat completion", Err: err}
	}
	defer resp.Body.Close()

	return parseCompletionResponse(resp)
}

func parseCompletionResponse(resp *http.Response) (string, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &core.UpstreamError{Op: "chat completion", Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &core.UpstreamError{Op: "chat completion", Err: fmt.Errorf("http %d: %s", resp.StatusCode, string(data))}
	}

	var result struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", &core.UpstreamError{Op: "chat completion", Err: fmt.Errorf("decode: %w", err)}
	}
	if len(result.Choices) == 0 {
		return "", &core.UpstreamError{Op: "chat completion", Err: fmt.Errorf("empty choices: %s", string(data))}
	}
	return result.Choices[0].Message.Content, nil
}
