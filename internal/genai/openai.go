package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultOpenAIModel = "gpt-4o"

// OpenAIClient calls any OpenAI-compatible chat completions API.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens,omitempty"`
	Messages  []openaiMessage `json:"messages"`
}

type openaiResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		FinishReason string        `json:"finish_reason"`
		Message      openaiMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// NewOpenAIClient creates a client for an OpenAI-compatible API.
func NewOpenAIClient(baseURL, apiKey, model string) *OpenAIClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

// Model returns the configured model identifier.
func (c *OpenAIClient) Model() string { return c.model }

// Generate sends one system+user request and returns the completion.
func (c *OpenAIClient) Generate(ctx context.Context, system, user string) (*Result, error) {
	body, _ := json.Marshal(openaiRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []openaiMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: openai request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: openai error %d: %s", ErrUnavailable, resp.StatusCode, string(b))
	}

	var result openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode openai response: %v", ErrUnavailable, err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("%w: openai returned no choices", ErrRejected)
	}

	choice := result.Choices[0]
	if choice.FinishReason == "content_filter" || choice.Message.Content == "" {
		return nil, fmt.Errorf("%w: openai returned no usable content (finish_reason=%s)", ErrRejected, choice.FinishReason)
	}

	model := result.Model
	if model == "" {
		model = c.model
	}
	return &Result{
		Text:         choice.Message.Content,
		Model:        model,
		InputTokens:  result.Usage.PromptTokens,
		OutputTokens: result.Usage.CompletionTokens,
	}, nil
}
