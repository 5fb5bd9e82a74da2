package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"webwright/internal/agent"
	"webwright/internal/chat"
	"webwright/internal/logging"
)

// defaultGroqBaseURL is Groq's OpenAI-compatible endpoint.
const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqClient serves models hosted by Groq over the OpenAI
// chat-completions protocol. Groq has no server-side tool execution,
// so the shared agent loop drives each turn round by round.
type GroqClient struct {
	client     openai.Client
	model      string
	dispatcher *agent.Dispatcher
}

// NewGroqClient creates a Groq-backed client.
func NewGroqClient(apiKey, baseURL, model string, dispatcher *agent.Dispatcher) (*GroqClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq API key is required")
	}
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}

	return &GroqClient{
		client:     openai.NewClient(option.WithAPIKey(apiKey), option.WithBaseURL(baseURL)),
		model:      model,
		dispatcher: dispatcher,
	}, nil
}

// Model returns the model id this client serves.
func (c *GroqClient) Model() string {
	return c.model
}

// Close releases provider resources.
func (c *GroqClient) Close() error {
	return nil
}

// RunTurn executes one turn through the shared agent loop.
func (c *GroqClient) RunTurn(ctx context.Context, conv *chat.Conversation) (string, error) {
	return agent.RunLoop(ctx, c, c.dispatcher, conv)
}

// Call performs one model round.
func (c *GroqClient) Call(ctx context.Context, conv *chat.Conversation) (agent.Turn, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: c.transformMessages(conv),
		Tools:    c.transformTools(),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return agent.Turn{}, fmt.Errorf("groq request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return agent.Turn{}, fmt.Errorf("groq returned no choices")
	}

	message := resp.Choices[0].Message
	turn := agent.Turn{Text: message.Content}

	for _, tc := range message.ToolCalls {
		turn.Calls = append(turn.Calls, chat.ToolCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: chat.ParseArgs(tc.Function.Arguments),
		})
	}

	logging.Debug("groq round complete", "model", c.model, "tool_calls", len(turn.Calls))
	return turn, nil
}

// transformMessages converts the transcript to the OpenAI wire format.
func (c *GroqClient) transformMessages(conv *chat.Conversation) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, conv.Len())

	for _, msg := range conv.Messages() {
		switch msg.Role {
		case chat.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case chat.RoleUser:
			messages = append(messages, openai.UserMessage(msg.Content))
		case chat.RoleAssistant:
			assistant := openai.ChatCompletionAssistantMessageParam{}
			if msg.Content != "" {
				assistant.Content.OfString = openai.String(msg.Content)
			}
			for _, call := range msg.ToolCalls {
				argsJSON, err := json.Marshal(call.Args)
				if err != nil {
					argsJSON = []byte("{}")
				}
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallParam{
					ID: call.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      call.Name,
						Arguments: string(argsJSON),
					},
				})
			}
			messages = append(messages, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		case chat.RoleTool:
			id := ""
			if msg.Result != nil {
				id = msg.Result.ID
			}
			messages = append(messages, openai.ToolMessage(msg.Content, id))
		}
	}

	return messages
}

// transformTools converts registry declarations to OpenAI tool params.
func (c *GroqClient) transformTools() []openai.ChatCompletionToolParam {
	decls := c.dispatcher.Registry().Declarations()
	tools := make([]openai.ChatCompletionToolParam, 0, len(decls))

	for _, decl := range decls {
		tools = append(tools, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        decl.Name,
				Description: openai.String(decl.Description),
				Parameters:  openai.FunctionParameters(schemaToMap(decl.Parameters)),
			},
		})
	}

	return tools
}
