package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// Client is a thin wrapper over the Ollama API used for single-shot,
// tool-enabled chat turns.
type Client struct {
	client  *api.Client
	model   string
	baseURL string
}

func NewClient(baseURL, model string) (*Client, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "qwen3:latest"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &Client{
		client:  api.NewClient(parsedURL, http.DefaultClient),
		model:   model,
		baseURL: baseURL,
	}, nil
}

// Chat sends one non-streaming request and returns the complete response.
func (c *Client) Chat(ctx context.Context, messages []api.Message, tools []api.Tool) (*api.ChatResponse, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Tools:    tools,
		Stream:   &stream,
	}

	var final api.ChatResponse
	var content strings.Builder
	var calls []api.ToolCall
	respFunc := func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		calls = append(calls, resp.Message.ToolCalls...)
		final = resp
		return nil
	}

	if err := c.client.Chat(ctx, req, respFunc); err != nil {
		return nil, fmt.Errorf("ollama chat failed: %w", err)
	}

	final.Message.Content = content.String()
	final.Message.ToolCalls = calls
	return &final, nil
}

func (c *Client) SetModel(model string) {
	c.model = model
}

func (c *Client) GetModel() string {
	return c.model
}

func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := c.client.List(ctx)
	return err
}

// toolCallingModels tracks which model families support tool calling
var toolCallingModels = map[string]bool{
	"qwen":      true,
	"llama3.1":  true,
	"llama3.2":  true,
	"llama3.3":  true,
	"mistral":   true,
	"command-r": true,
	"nemotron":  true,
	"granite3":  true,
	"gpt-oss":   true,

	"llama3":    false,
	"phi":       false,
	"gemma":     false,
	"codellama": false,
	"deepseek":  false,
}

// orderedPrefixes defines the order to check model prefixes, most specific first
var orderedPrefixes = []string{
	"llama3.3", "llama3.2", "llama3.1",
	"command-r", "qwen", "mistral", "nemotron", "granite3", "gpt-oss",
	"codellama",
	"llama3",
	"deepseek", "phi", "gemma",
}

// SupportsToolCalling reports whether the configured model family is known
// to handle Ollama's tool calling API. Unknown families return false.
func (c *Client) SupportsToolCalling() bool {
	return SupportsToolCalling(c.model)
}

func SupportsToolCalling(model string) bool {
	name := strings.ToLower(model)
	for _, prefix := range orderedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return toolCallingModels[prefix]
		}
	}
	return false
}
