package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"webwright/internal/chat"
	"webwright/internal/logging"
	"webwright/internal/tools"
)

// Dispatcher executes tool invocations against the registry. Every
// invocation produces exactly one result: validation failures, tool
// errors and unknown names all come back as result text so the model
// can react, never as loop-ending errors.
type Dispatcher struct {
	registry *tools.Registry
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *tools.Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Registry returns the underlying tool registry.
func (d *Dispatcher) Registry() *tools.Registry {
	return d.registry
}

// Dispatch runs one tool invocation. The result content is capped at
// the tool output limit; the Truncated flag records dropped output.
func (d *Dispatcher) Dispatch(ctx context.Context, call chat.ToolCall) chat.ToolResult {
	id := call.ID
	if id == "" {
		id = uuid.NewString()
	}

	text := d.execute(ctx, call)
	text, truncated := tools.Truncate(text)

	return chat.ToolResult{
		ID:        id,
		Name:      call.Name,
		Content:   text,
		Truncated: truncated,
	}
}

func (d *Dispatcher) execute(ctx context.Context, call chat.ToolCall) string {
	tool, ok := d.registry.Get(call.Name)
	if !ok {
		logging.Warn("unknown tool requested", "tool", call.Name)
		return fmt.Sprintf("unknown tool: %s", call.Name)
	}

	args := call.Args
	if args == nil {
		args = map[string]any{}
	}

	if err := tool.Validate(args); err != nil {
		return fmt.Sprintf("invalid arguments: %s", err)
	}

	result, err := tool.Execute(ctx, args)
	if err != nil {
		logging.Warn("tool execution failed", "tool", call.Name, "error", err)
		return fmt.Sprintf("error: %s", err)
	}

	logging.Debug("tool executed", "tool", call.Name, "success", result.Success)
	return result.Text()
}
