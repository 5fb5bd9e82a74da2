package client

import (
	"context"
	"fmt"
	"strings"

	"webwright/internal/agent"
	"webwright/internal/chat"
	"webwright/internal/config"
)

// Client runs one complete conversational turn against a provider:
// the model reasons, requests tools, consumes their results, and the
// adapter returns only the final text. Callers never see intermediate
// invocations.
type Client interface {
	// RunTurn executes one turn over the conversation and returns the
	// model's final text.
	RunTurn(ctx context.Context, conv *chat.Conversation) (string, error)

	// Model returns the model id this client serves.
	Model() string

	// Close releases provider resources.
	Close() error
}

// ollamaPrefixes lists model families served by a local Ollama daemon.
var ollamaPrefixes = []string{
	"llama2", "llama3", "codellama", "mistral-nemo", "mixtral",
	"phi", "qwen2", "deepseek-r1", "gemma2", "smollm",
}

// providerFor maps a model id to its provider. Gemini models match by
// prefix, known local families go to Ollama, everything else is served
// by Groq over the OpenAI chat-completions protocol. This is the only
// place in the repo that branches on provider.
func providerFor(model string) string {
	name := strings.ToLower(model)
	if strings.HasPrefix(name, "gemini") {
		return "gemini"
	}
	for _, p := range ollamaPrefixes {
		if strings.HasPrefix(name, p) {
			return "ollama"
		}
	}
	return "groq"
}

// New creates the client for the configured model.
func New(ctx context.Context, cfg *config.Config, dispatcher *agent.Dispatcher) (Client, error) {
	model := cfg.Model.Name

	switch providerFor(model) {
	case "gemini":
		if cfg.API.GeminiKey == "" {
			return nil, fmt.Errorf("model %q: %w", model, config.ErrMissingAuth)
		}
		return NewGeminiClient(ctx, cfg.API.GeminiKey, model, dispatcher)
	case "ollama":
		return NewOllamaClient(OllamaConfig{
			BaseURL: cfg.API.OllamaBaseURL,
			APIKey:  cfg.API.OllamaKey,
			Model:   model,
		}, dispatcher)
	default:
		if cfg.API.GroqKey == "" {
			return nil, fmt.Errorf("model %q: %w", model, config.ErrMissingAuth)
		}
		return NewGroqClient(cfg.API.GroqKey, cfg.API.GroqBaseURL, model, dispatcher)
	}
}
