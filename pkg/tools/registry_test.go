package tools

import (
	"testing"

	"github.com/goodafternoonoo/my-mcp-server/pkg/config"
	"github.com/goodafternoonoo/my-mcp-server/pkg/testutil"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetToolDefinitions(t *testing.T) {
	registry := NewRegistry(testutil.DiscardLogger(), config.Default(), testClientOptions()...)
	defs := registry.GetToolDefinitions()
	require.Len(t, defs, 3)

	seen := make(map[string]bool)
	for _, def := range defs {
		assert.Equal(t, def.Name, def.Tool.Name)
		assert.NotEmpty(t, def.Description)
		assert.NotNil(t, def.Handler)
		seen[def.Name] = true
	}
	assert.True(t, seen[transitToolName])
	assert.True(t, seen[weatherToolName])
	assert.True(t, seen[exchangeToolName])
}

func TestTransitDefinitionRequiresCoordinates(t *testing.T) {
	tool := NewRegistry(testutil.DiscardLogger(), config.Default()).transit.Definition()
	assert.ElementsMatch(t, []string{"start_lat", "start_lon", "end_lat", "end_lon"}, tool.InputSchema.Required)
	assert.Contains(t, tool.InputSchema.Properties, "departure_time")
}

func TestRegisterTools(t *testing.T) {
	log, buf := testutil.CaptureLogger()
	registry := NewRegistry(log, config.Default())
	srv := server.NewMCPServer("test", "0.0.0", server.WithToolCapabilities(false))

	assert.NotPanics(t, func() { registry.RegisterTools(srv) })
	assert.Contains(t, buf.String(), transitToolName)
}
