package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"webwright/internal/agent"
	"webwright/internal/builder"
	"webwright/internal/client"
	"webwright/internal/config"
	"webwright/internal/embedding"
	"webwright/internal/logging"
	"webwright/internal/sandbox"
	"webwright/internal/tools"
	"webwright/internal/tracker"
	"webwright/internal/ui"
	"webwright/internal/watcher"
)

var (
	version = "0.1.0"

	cfgFile     string
	modelName   string
	sandboxDir  string
	specPath    string
	iterations  int
	projectType string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "webwright",
		Short: "Autonomous website builder",
		Long: `Webwright builds websites autonomously: a language model issues
file and shell tool calls inside a sandbox directory, refining the
site over a fixed number of build turns.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/webwright/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "model id (gemini-*, llama-*, local ollama models)")
	rootCmd.PersistentFlags().StringVar(&sandboxDir, "sandbox", "", "sandbox directory the site is built in")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build the site from a spec file",
		RunE:  runBuild,
	}
	buildCmd.Flags().StringVar(&specPath, "spec", "", "path to the site spec (default docs/spec.md)")
	buildCmd.Flags().IntVar(&iterations, "iterations", 0, "number of build turns")
	buildCmd.Flags().StringVar(&projectType, "project-type", "", "project type: static or vite")
	rootCmd.AddCommand(buildCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("webwright version %s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if modelName != "" {
		cfg.Model.Name = modelName
	}
	if sandboxDir != "" {
		cfg.Sandbox.Root = sandboxDir
	}
	if iterations > 0 {
		cfg.Build.Iterations = iterations
	}
	if projectType != "" {
		cfg.Build.ProjectType = projectType
	}
	cfg.Version = version

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logging.Configure(logging.ParseLevel(cfg.Logging.Level), os.Stderr)
	defer logging.Close()

	if cfg.Logging.File {
		if err := logging.EnableFileLogging(".", logging.ParseLevel(cfg.Logging.Level)); err != nil {
			logging.Warn("file logging unavailable", "error", err)
		}
	}

	spec, err := builder.LoadSpec(specPath)
	if err != nil {
		return err
	}

	sb, err := sandbox.New(cfg.Sandbox.Root)
	if err != nil {
		return err
	}
	if err := sb.Ensure(); err != nil {
		return err
	}

	// Embeddings need a Gemini key; without one the cache still tracks
	// content hashes through the no-op embedder
	var embedder embedding.Embedder
	if cfg.API.GeminiKey != "" {
		genaiClient, err := embedding.NewGenaiClient(cmd.Context(), cfg.API.GeminiKey)
		if err != nil {
			logging.Warn("embedding backend unavailable", "error", err)
		} else {
			embedder = embedding.NewGeminiEmbedder(genaiClient, cfg.Model.EmbeddingModel)
		}
	}
	manager := embedding.NewManager(sb.Root(), embedder)

	tr := tracker.New(sb.Root())
	tr.SetUpdater(manager)

	registry := tools.DefaultRegistry(sb, tr)
	dispatcher := agent.NewDispatcher(registry)

	c, err := client.New(cmd.Context(), cfg, dispatcher)
	if err != nil {
		return err
	}
	defer c.Close()

	// Pick up edits made outside the write tool
	w, err := watcher.New(sb.Root(), watcher.Config{
		Enabled:    cfg.Sandbox.Watch,
		DebounceMs: cfg.Sandbox.WatchDebounceMs,
	})
	if err != nil {
		return err
	}
	w.SetOnChange(func(path string) {
		if rel, err := sb.Rel(path); err == nil {
			manager.UpdateFile(cmd.Context(), rel)
		}
	})
	if err := w.Start(); err != nil {
		logging.Warn("sandbox watcher failed to start", "error", err)
	}
	defer w.Stop()

	renderer := ui.NewRenderer(os.Stdout)

	b := builder.New(c, cfg.Build.ProjectType)
	b.SetOnProgress(renderer.Progress)

	answer, err := b.Build(cmd.Context(), spec, cfg.Build.Iterations)
	if err != nil {
		renderer.Error(err)
		return err
	}

	renderer.Answer(answer)
	return nil
}
