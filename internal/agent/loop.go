package agent

import (
	"context"

	"webwright/internal/chat"
	"webwright/internal/logging"
)

// Turn is one model round: assistant text plus any requested tool
// calls.
type Turn struct {
	Text  string
	Calls []chat.ToolCall
}

// Caller runs a single model round over a transcript.
type Caller interface {
	Call(ctx context.Context, conv *chat.Conversation) (Turn, error)
}

// RunLoop drives the tool-calling loop until the model stops asking
// for tools, then returns its final text. The loop works on a clone;
// the caller's transcript is never mutated. Transport errors propagate
// unchanged, tool failures do not.
func RunLoop(ctx context.Context, caller Caller, dispatcher *Dispatcher, conv *chat.Conversation) (string, error) {
	working := conv.Clone()

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		turn, err := caller.Call(ctx, working)
		if err != nil {
			return "", err
		}

		if len(turn.Calls) == 0 {
			return turn.Text, nil
		}

		working.AppendAssistant(turn.Text, turn.Calls...)

		// Tools run sequentially in request order
		for _, call := range turn.Calls {
			logging.Debug("dispatching tool call", "tool", call.Name, "id", call.ID)
			result := dispatcher.Dispatch(ctx, call)
			working.AppendToolResult(result)
		}
	}
}
