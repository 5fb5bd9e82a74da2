package config

// Config represents the main application configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Model   ModelConfig   `yaml:"model"`
	Sandbox SandboxConfig `yaml:"sandbox"`
	Build   BuildConfig   `yaml:"build"`
	Logging LoggingConfig `yaml:"logging"`

	// Runtime version information
	Version string `yaml:"-"`
}

// APIConfig holds API-related settings.
type APIConfig struct {
	// Separate keys for each provider
	GroqKey   string `yaml:"groq_key,omitempty"`
	GeminiKey string `yaml:"gemini_key,omitempty"`
	OllamaKey string `yaml:"ollama_key,omitempty"` // Optional, for remote Ollama servers with auth

	// Groq endpoint speaking the OpenAI chat-completions protocol
	GroqBaseURL string `yaml:"groq_base_url,omitempty"`

	// Ollama server URL (default: http://localhost:11434)
	OllamaBaseURL string `yaml:"ollama_base_url,omitempty"`
}

// KeyFor returns the API key configured for a provider name.
func (c *APIConfig) KeyFor(provider string) string {
	switch provider {
	case "groq":
		return c.GroqKey
	case "gemini":
		return c.GeminiKey
	case "ollama":
		// Ollama key is optional (local server doesn't need it)
		return c.OllamaKey
	}
	return ""
}

// ModelConfig holds model selection settings.
type ModelConfig struct {
	Name           string `yaml:"name"`
	EmbeddingModel string `yaml:"embedding_model"`
}

// SandboxConfig holds sandbox directory settings.
type SandboxConfig struct {
	// Root directory all tool paths resolve under. Relative values are
	// resolved against the process working directory at startup.
	Root string `yaml:"root"`

	// Watch enables background re-embedding of files changed outside
	// the write tool.
	Watch bool `yaml:"watch"`

	// WatchDebounceMs collapses bursts of filesystem events.
	WatchDebounceMs int `yaml:"watch_debounce_ms"`
}

// BuildConfig holds build orchestrator settings.
type BuildConfig struct {
	// Iterations is the default number of build turns.
	Iterations int `yaml:"iterations"`

	// ProjectType selects the system preamble: "static" or "vite".
	ProjectType string `yaml:"project_type"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  bool   `yaml:"file"`
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			GroqBaseURL:   "https://api.groq.com/openai/v1",
			OllamaBaseURL: "http://localhost:11434",
		},
		Model: ModelConfig{
			Name:           "llama-3.3-70b-versatile",
			EmbeddingModel: "text-embedding-004",
		},
		Sandbox: SandboxConfig{
			Root:            "website_sandbox",
			Watch:           false,
			WatchDebounceMs: 500,
		},
		Build: BuildConfig{
			Iterations:  3,
			ProjectType: "static",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  false,
		},
	}
}
