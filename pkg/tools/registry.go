package tools

import (
	"context"
	"log/slog"

	"github.com/goodafternoonoo/my-mcp-server/pkg/apiclient"
	"github.com/goodafternoonoo/my-mcp-server/pkg/config"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Registry holds all MCP tool registrations for the travel service.
type Registry struct {
	logger   *slog.Logger
	transit  *TransitTool
	weather  *WeatherTool
	exchange *ExchangeTool
}

// NewRegistry creates the tools from cfg. The options are applied to every
// upstream client after the configured user agent and retry count.
func NewRegistry(logger *slog.Logger, cfg config.Config, opts ...apiclient.Option) *Registry {
	common := []apiclient.Option{
		apiclient.WithLogger(logger),
		apiclient.WithUserAgent(cfg.UserAgent),
		apiclient.WithMaxRetries(cfg.MaxRetries),
	}
	common = append(common, opts...)

	newClient := func(service string, sc config.ServiceConfig) *apiclient.Client {
		return apiclient.New(service, sc, common...)
	}

	return &Registry{
		logger:  logger,
		transit: NewTransitTool(newClient(apiclient.ServiceTransit, cfg.Transit), logger),
		weather: NewWeatherTool(
			newClient(apiclient.ServiceGeocoding, cfg.Geocoding),
			newClient(apiclient.ServiceWeather, cfg.Weather),
			logger,
		),
		exchange: NewExchangeTool(newClient(apiclient.ServiceExchange, cfg.Exchange), logger),
	}
}

// ToolDefinition represents a travel MCP tool definition.
type ToolDefinition struct {
	Name        string
	Description string
	Tool        mcp.Tool
	Handler     func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// GetToolDefinitions returns all travel MCP tool definitions.
func (r *Registry) GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        transitToolName,
			Description: "Find public transit directions between two points",
			Tool:        r.transit.Definition(),
			Handler:     r.transit.Handle,
		},
		{
			Name:        weatherToolName,
			Description: "Get the current weather for a place",
			Tool:        r.weather.Definition(),
			Handler:     r.weather.Handle,
		},
		{
			Name:        exchangeToolName,
			Description: "Get the exchange rate between two currencies",
			Tool:        r.exchange.Definition(),
			Handler:     r.exchange.Handle,
		},
	}
}

// RegisterTools registers all tools with the MCP server.
func (r *Registry) RegisterTools(mcpServer *server.MCPServer) {
	for _, def := range r.GetToolDefinitions() {
		r.logger.Info("registering tool", "name", def.Name)
		mcpServer.AddTool(def.Tool, def.Handler)
	}
}
