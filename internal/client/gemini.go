package client

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"webwright/internal/agent"
	"webwright/internal/chat"
	"webwright/internal/logging"
)

// GeminiClient serves Gemini models. Gemini's SDK surfaces function
// calls to the caller rather than executing them, so the adapter owns
// an internal resolution loop: every requested call goes through the
// shared dispatcher and the responses are fed back until the model
// produces plain text. Intermediate invocations never leave the
// adapter.
type GeminiClient struct {
	client     *genai.Client
	model      string
	dispatcher *agent.Dispatcher
}

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(ctx context.Context, apiKey, model string, dispatcher *agent.Dispatcher) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:     client,
		model:      model,
		dispatcher: dispatcher,
	}, nil
}

// Model returns the model id this client serves.
func (c *GeminiClient) Model() string {
	return c.model
}

// Close releases provider resources.
func (c *GeminiClient) Close() error {
	return nil
}

// RunTurn executes one turn, resolving function calls internally.
func (c *GeminiClient) RunTurn(ctx context.Context, conv *chat.Conversation) (string, error) {
	config := &genai.GenerateContentConfig{
		Tools: c.dispatcher.Registry().GeminiTools(),
	}
	// The system message rides as SystemInstruction, not as transcript
	if sys := conv.System(); sys != "" {
		config.SystemInstruction = genai.NewContentFromText(sys, genai.RoleUser)
	}

	contents := c.transformMessages(conv)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
		if err != nil {
			return "", fmt.Errorf("gemini request failed: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", fmt.Errorf("gemini returned no candidates")
		}

		candidate := resp.Candidates[0]

		var text string
		var calls []*genai.FunctionCall
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				text += part.Text
			}
			if part.FunctionCall != nil {
				calls = append(calls, part.FunctionCall)
			}
		}

		if len(calls) == 0 {
			return text, nil
		}

		contents = append(contents, candidate.Content)
		contents = append(contents, c.resolveCalls(ctx, calls))
	}
}

// resolveCalls dispatches function calls in order and packs their
// results into one user content.
func (c *GeminiClient) resolveCalls(ctx context.Context, calls []*genai.FunctionCall) *genai.Content {
	parts := make([]*genai.Part, 0, len(calls))

	for _, fc := range calls {
		logging.Debug("resolving gemini function call", "tool", fc.Name, "id", fc.ID)

		result := c.dispatcher.Dispatch(ctx, chat.ToolCall{
			ID:   fc.ID,
			Name: fc.Name,
			Args: fc.Args,
		})

		part := genai.NewPartFromFunctionResponse(fc.Name, map[string]any{
			"content": result.Content,
		})
		part.FunctionResponse.ID = fc.ID
		parts = append(parts, part)
	}

	return &genai.Content{
		Role:  genai.RoleUser,
		Parts: parts,
	}
}

// transformMessages converts the transcript to Gemini contents. The
// system message is excluded; it travels as SystemInstruction.
func (c *GeminiClient) transformMessages(conv *chat.Conversation) []*genai.Content {
	var contents []*genai.Content

	for _, msg := range conv.Messages() {
		switch msg.Role {
		case chat.RoleUser:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		case chat.RoleAssistant:
			var parts []*genai.Part
			if msg.Content != "" {
				parts = append(parts, genai.NewPartFromText(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   call.ID,
						Name: call.Name,
						Args: call.Args,
					},
				})
			}
			if len(parts) == 0 {
				continue
			}
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: parts})
		case chat.RoleTool:
			if msg.Result == nil {
				continue
			}
			part := genai.NewPartFromFunctionResponse(msg.Result.Name, map[string]any{
				"content": msg.Result.Content,
			})
			part.FunctionResponse.ID = msg.Result.ID
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{part}})
		}
	}

	return contents
}
