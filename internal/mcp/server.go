package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/a3tai/mcp-kv-entities/internal/analysis"
	"github.com/a3tai/mcp-kv-entities/internal/config"
	"github.com/a3tai/mcp-kv-entities/internal/descriptions"
	"github.com/a3tai/mcp-kv-entities/internal/entities"
)

const (
	formatText = "text"
	formatJSON = "json"

	noValue = "<no value>"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *analysis.Service
	mcpServer *server.MCPServer
	logger    zerolog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *analysis.Service, logger zerolog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if service == nil {
		return nil, fmt.Errorf("analysis service cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		service:   service,
		mcpServer: mcpServer,
		logger:    logger,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	sourceOptions := []mcp.ToolOption{
		mcp.WithString("url",
			mcp.Description("URL of a document analysis result (GET, must answer 200)"),
		),
		mcp.WithString("path",
			mcp.Description("Path to a document analysis JSON file, relative to the document directory"),
		),
		mcp.WithString("format",
			mcp.Description("Response format: 'text' (default) or 'json'"),
			mcp.Enum(formatText, formatJSON),
		),
	}

	extractTool := mcp.NewTool("kv_extract_entities",
		append([]mcp.ToolOption{
			mcp.WithDescription(descriptions.GetToolDescription("kv_extract_entities")),
		}, sourceOptions...)...,
	)
	s.mcpServer.AddTool(extractTool, s.handleExtractEntities)

	leftHalfTool := mcp.NewTool("kv_left_half_entities",
		append([]mcp.ToolOption{
			mcp.WithDescription(descriptions.GetToolDescription("kv_left_half_entities")),
		}, sourceOptions...)...,
	)
	s.mcpServer.AddTool(leftHalfTool, s.handleLeftHalfEntities)

	serverInfoTool := mcp.NewTool("kv_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("kv_server_info")),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// sourceFromRequest reads url/path arguments, falling back to the configured endpoint
func (s *Server) sourceFromRequest(request mcp.CallToolRequest) (analysis.Source, string, error) {
	args := request.GetArguments()

	var src analysis.Source
	if u, ok := args["url"].(string); ok {
		src.URL = u
	}
	if p, ok := args["path"].(string); ok {
		src.Path = p
	}
	if src.URL == "" && src.Path == "" {
		if s.config.Endpoint == "" {
			return src, "", errors.New("either url or path is required (no default endpoint configured)")
		}
		src.URL = s.config.Endpoint
	}

	format := formatText
	if f, ok := args["format"].(string); ok && f != "" {
		format = f
	}
	if format != formatText && format != formatJSON {
		return src, "", fmt.Errorf("unsupported format: %s", format)
	}

	return src, format, nil
}

// Handler functions
func (s *Server) handleExtractEntities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, format, err := s.sourceFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.ExtractEntities(ctx, analysis.ExtractRequest{Source: src})
	if err != nil {
		s.logger.Error().Err(err).Str("source", src.String()).Msg("entity extraction failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	if format == formatJSON {
		return jsonResult(result)
	}
	return mcp.NewToolResultText(s.formatExtractResult(result)), nil
}

func (s *Server) handleLeftHalfEntities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, format, err := s.sourceFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.LeftHalfEntities(ctx, analysis.LeftHalfRequest{Source: src})
	if err != nil {
		s.logger.Error().Err(err).Str("source", src.String()).Msg("left half classification failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	if format == formatJSON {
		return jsonResult(result)
	}
	return mcp.NewToolResultText(s.formatLeftHalfResult(result)), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Formatting methods
func (s *Server) formatExtractResult(result *analysis.ExtractResult) string {
	text := fmt.Sprintf("Entities for: %s\n", result.Source)
	if result.Degraded {
		text += "⚠️  WARNING: The source is not a document analysis object; no entities were extracted.\n"
		return text
	}
	text += fmt.Sprintf("Key-value pairs: %d\n", result.PairCount)
	text += fmt.Sprintf("Entities extracted: %d\n", result.Entities.Len())
	text += formatEntities(result.Entities)
	return text
}

func (s *Server) formatLeftHalfResult(result *analysis.LeftHalfResult) string {
	text := fmt.Sprintf("Left half entities for: %s\n", result.Source)
	if result.Degraded {
		text += "⚠️  WARNING: The source is not a document analysis object; no entities were classified.\n"
		return text
	}
	text += fmt.Sprintf("Page width: %g (pivot %g)\n", result.PageWidth, result.Pivot)
	text += fmt.Sprintf("Left half: %d of %d pairs\n", result.Entities.Len(), result.PairCount)
	text += formatEntities(result.Entities)
	return text
}

func formatEntities(result *entities.Entities) string {
	if result.Len() == 0 {
		return "\nNo entities found.\n"
	}

	text := "\nEntities:\n"
	for i, entity := range result.All() {
		text += fmt.Sprintf("%d. %s: %s\n", i+1, entity.Key.Name(), entity.ValueOr(noValue))
	}
	return text
}

func (s *Server) formatServerInfo() string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("📁 Document Directory: %s\n", s.service.DocumentDirectory())
	text += fmt.Sprintf("📏 Max Document Size: %d bytes\n", s.service.MaxDocumentSize())
	if s.config.Endpoint != "" {
		text += fmt.Sprintf("🌐 Default Endpoint: %s\n", s.config.Endpoint)
	} else {
		text += "🌐 Default Endpoint: none (url or path required)\n"
	}

	text += "\n🛠️  Available Tools:\n"
	for _, name := range descriptions.GetAllToolNames() {
		text += fmt.Sprintf("• %s\n", name)
	}

	text += "\nValues shown as " + noValue + " belong to keys the analysis found without a value.\n"
	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	s.logger.Debug().
		Str("directory", s.service.DocumentDirectory()).
		Msg("starting key-value entity MCP server in stdio mode")

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over SSE on the configured address until ctx is done
func (s *Server) runServerMode(ctx context.Context) error {
	sseServer := server.NewSSEServer(s.mcpServer)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", s.config.Address()).Msg("starting key-value entity MCP server in server mode")
		errCh <- sseServer.Start(s.config.Address())
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
		if err := sseServer.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}
