package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"webwright/internal/agent"
	"webwright/internal/chat"
	"webwright/internal/logging"
)

// OllamaConfig holds configuration for the Ollama API client.
type OllamaConfig struct {
	BaseURL     string        // Default: "http://localhost:11434"
	APIKey      string        // Optional, for remote Ollama servers with auth
	Model       string        // e.g., "llama3.2", "qwen2.5-coder"
	HTTPTimeout time.Duration // HTTP request timeout (default: 120s)
}

// OllamaClient serves local models through an Ollama daemon. Like
// Groq it has no server-side tool execution, so turns run through the
// shared agent loop.
type OllamaClient struct {
	client     *api.Client
	config     OllamaConfig
	dispatcher *agent.Dispatcher
}

// authTransport adds an Authorization header to HTTP requests.
type authTransport struct {
	base   http.RoundTripper
	apiKey string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqClone := req.Clone(req.Context())
	reqClone.Header.Set("Authorization", "Bearer "+t.apiKey)
	return t.base.RoundTrip(reqClone)
}

// NewOllamaClient creates an Ollama-backed client.
func NewOllamaClient(config OllamaConfig, dispatcher *agent.Dispatcher) (*OllamaClient, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.HTTPTimeout == 0 {
		config.HTTPTimeout = 120 * time.Second
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid BaseURL: %w", err)
	}

	if baseURL.Scheme == "http" {
		host := baseURL.Hostname()
		if host != "localhost" && host != "127.0.0.1" && host != "::1" {
			logging.Warn("Ollama connection uses unencrypted HTTP to remote host", "host", host)
		}
	}

	httpClient := &http.Client{Timeout: config.HTTPTimeout}
	if config.APIKey != "" {
		httpClient.Transport = &authTransport{
			base:   http.DefaultTransport,
			apiKey: config.APIKey,
		}
	}

	return &OllamaClient{
		client:     api.NewClient(baseURL, httpClient),
		config:     config,
		dispatcher: dispatcher,
	}, nil
}

// Model returns the model id this client serves.
func (c *OllamaClient) Model() string {
	return c.config.Model
}

// Close releases provider resources.
func (c *OllamaClient) Close() error {
	return nil
}

// RunTurn executes one turn through the shared agent loop.
func (c *OllamaClient) RunTurn(ctx context.Context, conv *chat.Conversation) (string, error) {
	return agent.RunLoop(ctx, c, c.dispatcher, conv)
}

// Call performs one model round.
func (c *OllamaClient) Call(ctx context.Context, conv *chat.Conversation) (agent.Turn, error) {
	req := &api.ChatRequest{
		Model:    c.config.Model,
		Messages: c.transformMessages(conv),
		Stream:   new(bool),
		Tools:    c.transformTools(),
	}

	var final api.ChatResponse
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		final = resp
		return nil
	})
	if err != nil {
		return agent.Turn{}, fmt.Errorf("ollama request failed: %w", err)
	}

	turn := agent.Turn{Text: final.Message.Content}
	for i, tc := range final.Message.ToolCalls {
		id := tc.ID
		if id == "" {
			id = fmt.Sprintf("call_%d", i)
		}
		turn.Calls = append(turn.Calls, chat.ToolCall{
			ID:   id,
			Name: tc.Function.Name,
			Args: tc.Function.Arguments.ToMap(),
		})
	}

	logging.Debug("ollama round complete", "model", c.config.Model, "tool_calls", len(turn.Calls))
	return turn, nil
}

// transformMessages converts the transcript to Ollama messages.
func (c *OllamaClient) transformMessages(conv *chat.Conversation) []api.Message {
	messages := make([]api.Message, 0, conv.Len())

	for _, msg := range conv.Messages() {
		switch msg.Role {
		case chat.RoleSystem:
			messages = append(messages, api.Message{Role: "system", Content: msg.Content})
		case chat.RoleUser:
			messages = append(messages, api.Message{Role: "user", Content: msg.Content})
		case chat.RoleAssistant:
			m := api.Message{Role: "assistant", Content: msg.Content}
			for _, call := range msg.ToolCalls {
				args := api.NewToolCallFunctionArguments()
				for k, v := range call.Args {
					args.Set(k, v)
				}
				m.ToolCalls = append(m.ToolCalls, api.ToolCall{
					ID: call.ID,
					Function: api.ToolCallFunction{
						Name:      call.Name,
						Arguments: args,
					},
				})
			}
			messages = append(messages, m)
		case chat.RoleTool:
			m := api.Message{Role: "tool", Content: msg.Content}
			if msg.Result != nil {
				m.ToolName = msg.Result.Name
				m.ToolCallID = msg.Result.ID
			}
			messages = append(messages, m)
		}
	}

	return messages
}

// transformTools converts registry declarations to Ollama tool format.
func (c *OllamaClient) transformTools() []api.Tool {
	decls := c.dispatcher.Registry().Declarations()
	tools := make([]api.Tool, 0, len(decls))

	for _, decl := range decls {
		params := api.ToolFunctionParameters{
			Type:       "object",
			Properties: api.NewToolPropertiesMap(),
		}

		if decl.Parameters != nil {
			if len(decl.Parameters.Required) > 0 {
				params.Required = decl.Parameters.Required
			}
			for name, propSchema := range decl.Parameters.Properties {
				prop := api.ToolProperty{
					Description: propSchema.Description,
				}
				if propSchema.Type != "" {
					prop.Type = api.PropertyType{strings.ToLower(string(propSchema.Type))}
				}
				params.Properties.Set(name, prop)
			}
		}

		tools = append(tools, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        decl.Name,
				Description: decl.Description,
				Parameters:  params,
			},
		})
	}

	return tools
}
