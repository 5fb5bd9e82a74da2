package chat

import "fmt"

// Conversation is an append-only ordered message transcript. At most
// one system message exists and it is always first.
type Conversation struct {
	messages []Message
}

// NewConversation creates a conversation, optionally seeded with a
// system message.
func NewConversation(system string) *Conversation {
	c := &Conversation{}
	if system != "" {
		c.messages = append(c.messages, SystemMessage(system))
	}
	return c
}

// Append adds a message to the transcript. A system message is only
// accepted as the first entry.
func (c *Conversation) Append(msg Message) error {
	if msg.Role == RoleSystem && len(c.messages) > 0 {
		return fmt.Errorf("system message must be first")
	}
	c.messages = append(c.messages, msg)
	return nil
}

// AppendUser appends a user message.
func (c *Conversation) AppendUser(content string) {
	c.messages = append(c.messages, UserMessage(content))
}

// AppendAssistant appends an assistant message.
func (c *Conversation) AppendAssistant(content string, calls ...ToolCall) {
	c.messages = append(c.messages, AssistantMessage(content, calls...))
}

// AppendToolResult appends a tool message.
func (c *Conversation) AppendToolResult(result ToolResult) {
	c.messages = append(c.messages, ToolMessage(result))
}

// System returns the system message content, or "" if none.
func (c *Conversation) System() string {
	if len(c.messages) > 0 && c.messages[0].Role == RoleSystem {
		return c.messages[0].Content
	}
	return ""
}

// Messages returns the transcript in order.
func (c *Conversation) Messages() []Message {
	return c.messages
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Clone returns an independent copy of the conversation. Providers that
// run internal tool loops work on a clone so the caller's transcript
// only ever grows by what the caller appends.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{messages: make([]Message, len(c.messages))}
	copy(clone.messages, c.messages)
	return clone
}
