// Package cli implements the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/camber-labs/ragdesk/internal/adapters/driven/ai"
	configfile "github.com/camber-labs/ragdesk/internal/adapters/driven/config/file"
	indexfile "github.com/camber-labs/ragdesk/internal/adapters/driven/index/file"
	memorysqlite "github.com/camber-labs/ragdesk/internal/adapters/driven/memory/sqlite"
	memoryvector "github.com/camber-labs/ragdesk/internal/adapters/driven/memory/vector"
	"github.com/camber-labs/ragdesk/internal/core/domain"
	"github.com/camber-labs/ragdesk/internal/core/ports/driving"
	"github.com/camber-labs/ragdesk/internal/core/services"
	"github.com/camber-labs/ragdesk/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services wired by initServices and consumed by the commands.
// Nil services mean the corresponding provider is not configured.
var (
	settingsService driving.SettingsService
	chatService     driving.ChatService
	indexService    driving.IndexAdmin
	memoryService   driving.MemoryAdmin

	// closers are released after command execution, newest first.
	closers []io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "ragdesk",
	Short: "Retrieval-augmented support assistant",
	Long: `Ragdesk answers support questions by routing them to the best-matching
knowledge corpus (docs, tickets, or configs), assembling retrieved
evidence with per-user chat memory, and generating a grounded response.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		switch cmd.Name() {
		case "version", "help", "completion":
			return nil
		}
		return initServices()
	},
}

var (
	flagDataDir string
	flagVerbose bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.ragdesk)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command and releases wired resources.
func Execute() error {
	defer closeAll()
	return rootCmd.Execute()
}

// SetVersion sets the version string displayed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// initServices wires adapters into the core services. Provider-backed
// services stay nil when the provider is unconfigured; commands that
// need them report that instead of failing at startup.
func initServices() error {
	if settingsService != nil {
		return nil // already wired
	}

	logger.SetVerbose(flagVerbose)

	dataDir := flagDataDir
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("determining home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ragdesk")
	}

	configStore, err := configfile.NewConfigStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	settingsService = services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	promptStore, err := configfile.NewPromptStore(filepath.Join(dataDir, "prompts"))
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}

	embedder, err := ai.CreateAndValidateEmbeddingService(settings.Embedding)
	if err != nil {
		return err
	}
	llm, err := ai.CreateAndValidateLLMService(settings.LLM)
	if err != nil {
		return err
	}

	indexStore, err := indexfile.NewStore(filepath.Join(dataDir, "indexes"))
	if err != nil {
		return fmt.Errorf("opening index store: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sink, err := memorysqlite.NewSink(filepath.Join(dataDir, "data"))
	if err != nil {
		return fmt.Errorf("opening memory sink: %w", err)
	}
	closers = append(closers, sink)

	// Invocations are one-shot, so searchable memory is rebuilt from
	// the durable copy on every startup.
	memStore := memoryvector.NewStore()
	loaded, err := services.RehydrateMemory(ctx, memStore, sink)
	if err != nil {
		return fmt.Errorf("rehydrating chat memory: %w", err)
	}
	if loaded > 0 {
		logger.Debug("Rehydrated %d memory turns", loaded)
	}
	memoryService = services.NewMemoryAdminService(memStore, sink)

	if embedder == nil {
		logger.Debug("Embedding provider not configured, retrieval disabled")
		return nil
	}

	fingerprint := embedder.Fingerprint()
	registry, err := indexfile.LoadAll(ctx, indexStore, settings.Retrieval.CorpusPriority, fingerprint)
	if err != nil {
		return fmt.Errorf("loading corpus indexes: %w", err)
	}

	watcher, err := indexfile.NewWatcher(indexStore, registry, fingerprint)
	if err != nil {
		return fmt.Errorf("watching index directory: %w", err)
	}
	closers = append(closers, watcher)

	indexService = services.NewIndexAdminService(embedder, indexStore, registry)

	if llm == nil {
		logger.Debug("LLM provider not configured, chat disabled")
		return nil
	}

	router := services.NewRouter(registry, services.NewCentroidScorer(), settings.Retrieval)
	assembler := services.NewContextAssembler(registry, memStore, settings.Retrieval)
	generator := services.NewAnswerGenerator(llm)
	generator.SetPromptStore(promptStore)
	writer := services.NewMemoryWriter(embedder, memStore, sink)

	pipeline := services.NewChatPipeline(embedder, router, assembler, generator, writer, settings.Retrieval)
	closers = append(closers, pipeline)
	chatService = pipeline

	return nil
}

// closeAll releases wired resources in reverse wiring order.
func closeAll() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			logger.Warn("Close failed: %v", err)
		}
	}
	closers = nil
}

// requireChat returns the chat service or a configuration hint.
func requireChat() (driving.ChatService, error) {
	if chatService == nil {
		return nil, fmt.Errorf("%w: configure embedding and llm providers with 'ragdesk settings'", domain.ErrLLMUnavailable)
	}
	return chatService, nil
}

// requireIndex returns the index admin or a configuration hint.
func requireIndex() (driving.IndexAdmin, error) {
	if indexService == nil {
		return nil, fmt.Errorf("%w: configure an embedding provider with 'ragdesk settings embedding'", domain.ErrEmbeddingUnavailable)
	}
	return indexService, nil
}
