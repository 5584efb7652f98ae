package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/a3tai/mcp-kv-entities/internal/analysis"
	"github.com/a3tai/mcp-kv-entities/internal/config"
	"github.com/a3tai/mcp-kv-entities/internal/fetch"
	"github.com/a3tai/mcp-kv-entities/internal/logging"
	"github.com/a3tai/mcp-kv-entities/internal/mcp"
	"github.com/a3tai/mcp-kv-entities/internal/security"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server, logger zerolog.Logger) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		logger.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")
		cancel()

		if err := <-serverErrCh; err != nil {
			logger.Error().Err(err).Msg("server shutdown with error")
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil {
			logger.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}

	logger.Info().Msg("server stopped successfully")
}

// runStdioMode handles stdio mode execution; the parent process controls our lifecycle
func runStdioMode(ctx context.Context, server *mcp.Server, logger zerolog.Logger) {
	if err := server.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.IsStdioMode())

	if version != "dev" {
		cfg.Version = version
	}

	logger.Debug().Str("config", cfg.String()).Msg("starting with configuration")

	validator, err := security.NewPathValidator(cfg.DocumentDirectory)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create path validator")
	}

	client := fetch.NewClient(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithMaxDocumentSize(cfg.MaxDocumentSize),
		fetch.WithUserAgent(cfg.ServerName+"/"+cfg.Version),
	)

	service, err := analysis.NewService(client, validator, cfg.MaxDocumentSize, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create analysis service")
	}

	server, err := mcp.NewServer(cfg, service, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create MCP server")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		runServerMode(ctx, cancel, server, logger)
	} else {
		runStdioMode(ctx, server, logger)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("MCP KV Entities\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
