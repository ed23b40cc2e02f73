package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	oai "github.com/sashabaranov/go-openai"
)

// Client generates text through any OpenAI-compatible chat completion API.
type Client struct {
	client *oai.Client
	model  string
}

// New builds a client. An empty baseURL targets api.openai.com; pointing it at
// an Ollama or LM Studio /v1 endpoint works the same way.
func New(baseURL, apiKey, model string, httpClient *http.Client) *Client {
	cfg := oai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}

	return &Client{
		client: oai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, oai.ChatCompletionRequest{
		Model: c.model,
		Messages: []oai.ChatCompletionMessage{
			{Role: oai.ChatMessageRoleUser, Content: prompt},
		},
		// go-openai omits a zero temperature, which the API reads as 1.
		Temperature: math.SmallestNonzeroFloat32,
	})
	if err != nil {
		return "", fmt.Errorf("creating chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
