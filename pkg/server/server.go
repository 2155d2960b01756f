// Package server provides the MCP server that exposes the travel tools.
package server

import (
	"log/slog"

	"github.com/goodafternoonoo/my-mcp-server/pkg/apiclient"
	"github.com/goodafternoonoo/my-mcp-server/pkg/config"
	"github.com/goodafternoonoo/my-mcp-server/pkg/tools"
	"github.com/goodafternoonoo/my-mcp-server/pkg/tools/prompts"
	"github.com/goodafternoonoo/my-mcp-server/pkg/version"
	"github.com/mark3labs/mcp-go/server"
)

// ServerName is the name of the MCP server
const ServerName = "travel-mcp-server"

// Server encapsulates the MCP server with the travel tools.
type Server struct {
	srv    *server.MCPServer
	logger *slog.Logger
}

// NewServer creates a travel MCP server with all tools and prompts
// registered. The client options are passed to every upstream client.
func NewServer(cfg config.Config, logger *slog.Logger, opts ...apiclient.Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	info := version.Info()
	logger.Info("initializing travel MCP server",
		"name", ServerName,
		"version", info["version"],
		"commit", info["commit"],
		"build_date", info["build_date"],
		"go_version", info["go_version"])

	srv := server.NewMCPServer(
		ServerName,
		version.BuildVersion,
		server.WithToolCapabilities(false),
		server.WithPromptCapabilities(false),
		server.WithRecovery(),
	)

	registry := tools.NewRegistry(logger, cfg, opts...)
	registry.RegisterTools(srv)
	prompts.RegisterTravelPrompts(srv)

	if cfg.Transit.APIKey == "" {
		logger.Warn("TMAP_APP_KEY is not set; transit directions will fail")
	}

	return &Server{srv: srv, logger: logger}, nil
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.srv
}

// Run starts the MCP server using stdin/stdout for communication.
func (s *Server) Run() error {
	s.logger.Info("serving over stdio")
	return server.ServeStdio(s.srv)
}

// RunSSE serves the MCP server over HTTP server-sent events on addr.
func (s *Server) RunSSE(addr string) error {
	s.logger.Info("serving over SSE", "addr", addr)
	return server.NewSSEServer(s.srv).Start(addr)
}
