package builder

import (
	"context"
	"fmt"

	"webwright/internal/chat"
	"webwright/internal/client"
	"webwright/internal/logging"
)

// ErrInvalidIterations is returned when a build is requested with
// fewer than one turn.
var ErrInvalidIterations = fmt.Errorf("iterations must be at least 1")

// staticPreamble seeds builds that target a plain static site.
const staticPreamble = "You are an expert web developer. Use write_file to create or overwrite " +
	"files when building the site. Provide paths relative to the sandbox " +
	"such as 'index.html' or 'css/style.css', never prefixed with the " +
	"sandbox directory name. Replace existing files when refining the project."

// vitePreamble seeds builds that target an npm/Vite app.
const vitePreamble = "You are an expert web developer building a Vite application. Call " +
	"init_project once before writing source files, then use write_file with " +
	"paths relative to the sandbox such as 'src/main.js' or 'index.html', " +
	"never prefixed with the sandbox directory name. Use run_cmd to install " +
	"packages and verify the build. Replace existing files when refining the project."

// refineInstruction is appended before every turn after the first.
const refineInstruction = "Please refine the website. Replace any older files with improved " +
	"versions and add new code as needed."

// ProgressFunc reports build progress: the 1-based turn, the total
// turn budget, and the text the turn produced.
type ProgressFunc func(turn, total int, text string)

// Builder drives the iterative site build: seed the conversation, run
// turns, refine between them, and stop early once the model has
// nothing more to say.
type Builder struct {
	client      client.Client
	projectType string
	onProgress  ProgressFunc
}

// New creates a builder for the given client. projectType selects the
// system preamble: "vite" for an npm app, anything else builds a
// static site.
func New(c client.Client, projectType string) *Builder {
	return &Builder{
		client:      c,
		projectType: projectType,
	}
}

// SetOnProgress attaches a per-turn progress callback.
func (b *Builder) SetOnProgress(fn ProgressFunc) {
	b.onProgress = fn
}

// preamble returns the system prompt for the configured project type.
func (b *Builder) preamble() string {
	if b.projectType == "vite" {
		return vitePreamble
	}
	return staticPreamble
}

// Build runs up to iterations turns against the spec and returns the
// text of the final turn. An empty turn means the model considers the
// site finished and stops the build early. Failed turns abort; there
// is no rollback of files already written.
func (b *Builder) Build(ctx context.Context, spec string, iterations int) (string, error) {
	if iterations < 1 {
		return "", fmt.Errorf("%w, got %d", ErrInvalidIterations, iterations)
	}

	conv := chat.NewConversation(b.preamble())
	conv.AppendUser(spec)

	var lastText string
	for turn := 0; turn < iterations; turn++ {
		if turn > 0 {
			conv.AppendUser(refineInstruction)
		}

		logging.Info("build turn starting", "turn", turn+1, "total", iterations, "model", b.client.Model())

		text, err := b.client.RunTurn(ctx, conv)
		if err != nil {
			return "", fmt.Errorf("build turn %d failed: %w", turn+1, err)
		}

		if b.onProgress != nil {
			b.onProgress(turn+1, iterations, text)
		}

		if text == "" {
			logging.Info("build converged early", "turn", turn+1)
			break
		}

		conv.AppendAssistant(text)
		lastText = text
	}

	return lastText, nil
}
