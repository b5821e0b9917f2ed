// Package main is the codebase-rag CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/faiqfarooq/codebase-rag/internal/config"
	"github.com/faiqfarooq/codebase-rag/internal/embedding"
	"github.com/faiqfarooq/codebase-rag/internal/index"
	"github.com/faiqfarooq/codebase-rag/internal/ingest"
	"github.com/faiqfarooq/codebase-rag/internal/llm"
	"github.com/faiqfarooq/codebase-rag/internal/models"
	"github.com/faiqfarooq/codebase-rag/internal/retrieval"
	"github.com/faiqfarooq/codebase-rag/internal/server"
	"github.com/faiqfarooq/codebase-rag/internal/watcher"
	"github.com/faiqfarooq/codebase-rag/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/codebase-rag/config.yaml"

const defaultServerURL = "http://localhost:8000"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. When neither exists, built-in defaults apply. Returns the config
// and the path that was actually loaded (empty for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ingest":
		runIngest()
	case "chat":
		runChat()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("codebase-rag version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	config.ApplyEnv(cfg)

	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	embedder, err := newEmbedder(cfg)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}
	store, err := index.NewStore(cfg.Index.Backend, embedder)
	if err != nil {
		logger.Fatal("Failed to create index store", zap.Error(err))
	}
	collection := index.NewCollection(store, cfg.Index.Collection)

	ingestor := ingest.NewIngestor(
		ingest.NewCollector(cfg.Ingest.Extensions),
		ingest.NewChunker(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap),
		collection,
		cfg.Ingest.PreviewLength,
		logger,
	)

	registry := llm.NewRegistry(
		llm.NewOpenAICompatible("deepseek", cfg.LLM.Deepseek),
		llm.NewOpenAICompatible("openai", cfg.LLM.OpenAI),
	)
	engine := retrieval.NewEngine(collection, registry, cfg.Index.TopK, logger)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var watch *watcher.Watcher
	if cfg.Watch.Enabled {
		watch = watcher.NewWatcher(
			ingestor,
			cfg.Ingest.Extensions,
			time.Duration(cfg.Watch.DebounceMS)*time.Millisecond,
			logger,
		)
		if err := watch.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watch.Stop()
	}

	srv := server.NewServer(ingestor, engine, collection, watch, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// newEmbedder builds the embedder the memory index backend queries with. The
// bleve backend matches keywords directly and ignores it.
func newEmbedder(cfg *config.Config) (embedding.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "", "hash":
		return embedding.NewHashEmbedder(cfg.Embedding.Dimensions), nil
	case "openai":
		return embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			BaseURL:    cfg.Embedding.BaseURL,
			APIKey:     cfg.Embedding.APIKey,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Timeout:    time.Duration(cfg.Embedding.TimeoutSeconds) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	repo := fs.String("repo", "", "clone and ingest a git repository instead of a local directory")
	_ = fs.Parse(os.Args[2:])

	var (
		resp *models.IngestResponse
		err  error
	)
	switch {
	case *repo != "":
		resp, err = ingestViaHTTP(*serverURL, "/ingest/repo", models.IngestRepoRequest{RepoURL: *repo})
	case fs.NArg() >= 1:
		dir, absErr := filepath.Abs(fs.Arg(0))
		if absErr != nil {
			fmt.Fprintf(os.Stderr, "Invalid path: %v\n", absErr)
			os.Exit(1)
		}
		resp, err = ingestViaHTTP(*serverURL, "/ingest", models.IngestRequest{DirectoryPath: dir})
	default:
		fmt.Fprintln(os.Stderr, "Usage: codebase-rag ingest [flags] <directory> | codebase-rag ingest -repo owner/repo")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s (%d files, %d chunks)\n", resp.Message, resp.FilesProcessed, resp.ChunksCreated)
}

func ingestViaHTTP(serverURL, path string, req interface{}) (*models.IngestResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out models.IngestResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// buildChatQuery joins all positional args with spaces so multi-word
// questions work the same with or without shell quoting.
func buildChatQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runChat() {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	model := fs.String("model", "", "generation backend: deepseek (default) or chatgpt")
	_ = fs.Parse(os.Args[2:])

	query := buildChatQuery(fs.Args())
	if query == "" {
		fmt.Fprintln(os.Stderr, "Usage: codebase-rag chat [flags] <question>")
		os.Exit(1)
	}

	resp, err := chatViaHTTP(*serverURL, &models.ChatRequest{Query: query, Model: *model})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Chat failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(resp.Response)
	if len(resp.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range resp.Sources {
			fmt.Printf("  %s:%d\n", src.Filename, src.StartLine)
		}
	}
}

func chatViaHTTP(serverURL string, req *models.ChatRequest) (*models.ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	var out struct {
		ChunksIndexed int    `json:"chunks_indexed"`
		Watching      string `json:"watching,omitempty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("chunks indexed: %d\n", out.ChunksIndexed)
	if out.Watching != "" {
		fmt.Printf("watching: %s\n", out.Watching)
	}
}

func printUsage() {
	fmt.Println(`codebase-rag - ask questions about a codebase

Usage:
  codebase-rag server [-config path] [-debug]     start the HTTP server
  codebase-rag ingest [flags] <directory>         ingest a local source tree
  codebase-rag ingest -repo <owner/repo or URL>   clone and ingest a repository
  codebase-rag chat [-model name] <question>      ask about the ingested code
  codebase-rag status                             show index status
  codebase-rag version                            print version

Flags for client commands:
  -server URL   server base URL (default http://localhost:8000)`)
}
