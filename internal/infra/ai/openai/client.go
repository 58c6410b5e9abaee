package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/veridianlabs/esg-intel/internal/domain/sentiment"
	"github.com/veridianlabs/esg-intel/internal/infra/ai/prompt"
)

const maxTokens = 256

// Client classifies disclosure sentiment through the OpenAI chat API.
// It satisfies the sentiment.Classifier port; the orchestrator treats
// every error as "no signal".
type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

func (c *Client) Classify(ctx context.Context, text string) (sentiment.Signal, error) {
	model := c.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(text)},
		},
	}
	// Reasoning models (o1/o3/o4/gpt-5*) take MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		if strings.Contains(err.Error(), "429") {
			return sentiment.Signal{}, sentiment.ErrQuotaExceeded
		}
		return sentiment.Signal{}, fmt.Errorf("failed to create chat completion: %w", err)
	}

	var sig sentiment.Signal
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &sig); err != nil {
		return sentiment.Signal{}, fmt.Errorf("unexpected classifier output: %w", err)
	}
	switch sig.Label {
	case sentiment.LabelPositive, sentiment.LabelNeutral, sentiment.LabelNegative:
	default:
		return sentiment.Signal{}, fmt.Errorf("unexpected sentiment label %q", sig.Label)
	}
	if sig.Confidence < 0 || sig.Confidence > 1 {
		return sentiment.Signal{}, fmt.Errorf("confidence %v out of range", sig.Confidence)
	}
	return sig, nil
}
