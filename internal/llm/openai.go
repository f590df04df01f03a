// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/samuel-halstead/research-assistant/pkg/types"
)

const (
	defaultChatModel  = "gpt-4o-mini"
	defaultTimeout    = 60 * time.Second
	defaultMaxRetries = 3
)

// OpenAIClient implements Client against the OpenAI chat completions API
// using strict JSON-schema structured outputs.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient builds a client from config, applying defaults for the
// model, timeout, and retry count.
func NewOpenAIClient(cfg types.LLMConfig) *OpenAIClient {
	model := cfg.Model
	if model == "" {
		model = defaultChatModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &OpenAIClient{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithRequestTimeout(timeout),
			option.WithMaxRetries(maxRetries),
		),
		model: model,
	}
}

// Complete sends the prompts and returns the model's JSON output.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string, schema Schema) ([]byte, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Temperature: openai.Float(0),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schema.Name,
					Schema: schema.Definition,
					Strict: openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: empty choices")
	}
	return []byte(resp.Choices[0].Message.Content), nil
}
