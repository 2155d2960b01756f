package tools

import (
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"
)

// requireFloat returns a numeric argument that must be present. Numeric
// strings are accepted since some clients send every argument as text.
func requireFloat(req mcp.CallToolRequest, name string) (float64, error) {
	raw, ok := req.Params.Arguments[name]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return v, nil
}

// requireString returns a trimmed, non-empty string argument.
func requireString(req mcp.CallToolRequest, name string) (string, error) {
	v := strings.TrimSpace(mcp.ParseString(req, name, ""))
	if v == "" {
		return "", fmt.Errorf("%s must not be empty", name)
	}
	return v, nil
}

// optionalString returns a trimmed string argument or the empty string.
func optionalString(req mcp.CallToolRequest, name string) string {
	return strings.TrimSpace(mcp.ParseString(req, name, ""))
}
