package chat

import "testing"

func TestSystemMessageMustBeFirst(t *testing.T) {
	conv := NewConversation("be helpful")

	if conv.System() != "be helpful" {
		t.Errorf("System() = %q", conv.System())
	}
	if err := conv.Append(SystemMessage("another")); err == nil {
		t.Error("second system message accepted")
	}

	empty := NewConversation("")
	if empty.Len() != 0 {
		t.Errorf("empty system should not seed a message, got %d", empty.Len())
	}
	if err := empty.Append(SystemMessage("late")); err != nil {
		t.Errorf("system as first message rejected: %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	conv := NewConversation("sys")
	conv.AppendUser("hello")

	clone := conv.Clone()
	clone.AppendAssistant("hi there")
	clone.AppendToolResult(ToolResult{ID: "1", Name: "list_files", Content: "(empty sandbox)"})

	if conv.Len() != 2 {
		t.Errorf("original grew to %d messages after clone append", conv.Len())
	}
	if clone.Len() != 4 {
		t.Errorf("clone length = %d, want 4", clone.Len())
	}
}

func TestToolMessageCarriesResult(t *testing.T) {
	msg := ToolMessage(ToolResult{ID: "abc", Name: "read_file", Content: "<h1>Hi</h1>"})

	if msg.Role != RoleTool {
		t.Errorf("role = %q", msg.Role)
	}
	if msg.Content != "<h1>Hi</h1>" {
		t.Errorf("content = %q", msg.Content)
	}
	if msg.Result == nil || msg.Result.ID != "abc" {
		t.Errorf("result = %+v", msg.Result)
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]any
	}{
		{"valid object", `{"path":"index.html"}`, map[string]any{"path": "index.html"}},
		{"empty string", "", map[string]any{}},
		{"malformed json", `{"path":`, map[string]any{}},
		{"json null", `null`, map[string]any{}},
		{"wrong type", `[1,2,3]`, map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseArgs(tt.raw)
			if got == nil {
				t.Fatal("ParseArgs returned nil map")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseArgs(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("ParseArgs(%q)[%s] = %v, want %v", tt.raw, k, got[k], v)
				}
			}
		})
	}
}
