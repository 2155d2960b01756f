package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goodafternoonoo/my-mcp-server/pkg/config"
	"github.com/goodafternoonoo/my-mcp-server/pkg/server"
	"github.com/goodafternoonoo/my-mcp-server/pkg/version"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const (
	transportStdio = "stdio"
	transportSSE   = "sse"

	defaultSSEAddr = ":8080"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	if err := newApp().Run(os.Args); err != nil {
		slog.Error("travelmcp failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, version.String())
	}

	return &cli.App{
		Name:    "travelmcp",
		Usage:   "MCP server with public transit, weather and exchange rate tools",
		Version: version.BuildVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tmap-app-key", Usage: "SK Open API app key for transit search", EnvVars: []string{"TMAP_APP_KEY"}},
			&cli.StringFlag{Name: "tmap-endpoint", Value: config.DefaultTransitEndpoint, Usage: "transit route search URL", EnvVars: []string{"TMAP_ENDPOINT_URL"}},
			&cli.DurationFlag{Name: "transit-timeout", Value: config.DefaultTimeout, Usage: "transit request timeout", EnvVars: []string{"TRANSIT_TIMEOUT"}},
			&cli.StringFlag{Name: "weather-endpoint", Value: config.DefaultWeatherEndpoint, Usage: "forecast API URL", EnvVars: []string{"WEATHER_ENDPOINT_URL"}},
			&cli.StringFlag{Name: "geocoding-endpoint", Value: config.DefaultGeocodingEndpoint, Usage: "place search URL", EnvVars: []string{"GEOCODING_ENDPOINT_URL"}},
			&cli.DurationFlag{Name: "weather-timeout", Value: config.DefaultTimeout, Usage: "weather and geocoding request timeout", EnvVars: []string{"WEATHER_TIMEOUT"}},
			&cli.StringFlag{Name: "exchange-endpoint", Value: config.DefaultExchangeEndpoint, Usage: "exchange rate API base URL", EnvVars: []string{"EXCHANGE_ENDPOINT_URL"}},
			&cli.StringFlag{Name: "exchange-api-key", Usage: "exchange rate API key, empty for the open endpoint", EnvVars: []string{"EXCHANGE_API_KEY"}},
			&cli.DurationFlag{Name: "exchange-timeout", Value: config.DefaultTimeout, Usage: "exchange rate request timeout", EnvVars: []string{"EXCHANGE_TIMEOUT"}},
			&cli.StringFlag{Name: "user-agent", Value: version.UserAgent(), Usage: "User-Agent sent upstream", EnvVars: []string{"TRAVELMCP_USER_AGENT"}},
			&cli.IntFlag{Name: "max-retries", Value: config.DefaultMaxRetries, Usage: "retries for throttled or unavailable upstreams", EnvVars: []string{"TRAVELMCP_MAX_RETRIES"}},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging", EnvVars: []string{"TRAVELMCP_DEBUG"}},
			&cli.StringFlag{Name: "transport", Value: transportStdio, Usage: "stdio or sse", EnvVars: []string{"TRAVELMCP_TRANSPORT"}},
			&cli.StringFlag{Name: "sse-addr", Value: defaultSSEAddr, Usage: "listen address for the sse transport", EnvVars: []string{"TRAVELMCP_SSE_ADDR"}},
			&cli.StringFlag{Name: "generate-config", Usage: "write a Claude Desktop client config to this path and exit"},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("debug") {
		logLevel = slog.LevelDebug
	}
	// stdout belongs to the stdio transport
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg := buildConfig(c)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if path := c.String("generate-config"); path != "" {
		if err := generateClientConfig(path, clientEnv(c)); err != nil {
			return fmt.Errorf("failed to generate config: %w", err)
		}
		logger.Info("successfully generated Claude Desktop Client config", "path", path)
		return nil
	}

	transport := strings.ToLower(c.String("transport"))
	if transport != transportStdio && transport != transportSSE {
		return fmt.Errorf("unknown transport %q, want %s or %s", transport, transportStdio, transportSSE)
	}

	logger.Info("starting travel MCP server",
		"version", version.BuildVersion,
		"transport", transport,
		"log_level", logLevel.String())

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if transport == transportSSE {
		return srv.RunSSE(c.String("sse-addr"))
	}
	return srv.Run()
}

// buildConfig assembles the server configuration from flags and environment.
func buildConfig(c *cli.Context) config.Config {
	weatherTimeout := c.Duration("weather-timeout")
	return config.Config{
		Transit: config.ServiceConfig{
			EndpointURL: c.String("tmap-endpoint"),
			APIKey:      c.String("tmap-app-key"),
			Timeout:     c.Duration("transit-timeout"),
		},
		Geocoding: config.ServiceConfig{
			EndpointURL: c.String("geocoding-endpoint"),
			Timeout:     weatherTimeout,
		},
		Weather: config.ServiceConfig{
			EndpointURL: c.String("weather-endpoint"),
			Timeout:     weatherTimeout,
		},
		Exchange: config.ServiceConfig{
			EndpointURL: c.String("exchange-endpoint"),
			APIKey:      c.String("exchange-api-key"),
			Timeout:     c.Duration("exchange-timeout"),
		},
		UserAgent:  c.String("user-agent"),
		MaxRetries: c.Int("max-retries"),
	}
}

// clientEnv returns the credentials the desktop client should pass to the server.
func clientEnv(c *cli.Context) map[string]string {
	env := make(map[string]string)
	if key := c.String("tmap-app-key"); key != "" {
		env["TMAP_APP_KEY"] = key
	}
	if key := c.String("exchange-api-key"); key != "" {
		env["EXCHANGE_API_KEY"] = key
	}
	return env
}

// generateClientConfig creates or updates a Claude Desktop Client config file
func generateClientConfig(outputPath string, env map[string]string) error {
	if outputPath == "" {
		return errors.New("output path must not be empty")
	}
	if filepath.Ext(outputPath) != ".json" {
		return fmt.Errorf("output path %q must have a .json extension", outputPath)
	}

	execPath, err := os.Executable()
	if err != nil {
		execPath = os.Args[0]
	}
	absExecPath, err := filepath.Abs(execPath)
	if err != nil {
		absExecPath = execPath
	}

	serverConfig := map[string]any{
		"command": absExecPath,
		"args":    []string{},
	}
	if len(env) > 0 {
		serverConfig["env"] = env
	}

	var clientConfig map[string]any
	if data, err := os.ReadFile(outputPath); err == nil {
		if err := json.Unmarshal(data, &clientConfig); err != nil {
			slog.Warn("existing config is not valid JSON, will create new", "error", err)
			clientConfig = nil
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read existing config: %w", err)
	}
	if clientConfig == nil {
		clientConfig = make(map[string]any)
	}

	mcpServers, ok := clientConfig["mcpServers"].(map[string]any)
	if !ok {
		mcpServers = make(map[string]any)
		clientConfig["mcpServers"] = mcpServers
	}
	mcpServers["travel"] = serverConfig

	data, err := json.MarshalIndent(clientConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
