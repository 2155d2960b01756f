// Package tools provides the travel MCP tool implementations.
package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goodafternoonoo/my-mcp-server/pkg/apiclient"
	"github.com/mark3labs/mcp-go/mcp"
)

// ErrorResponse is used for consistent error reporting
func ErrorResponse(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(message)
}

// ErrorWithGuidance returns a single-line error result. When err carries an
// APIError its guidance is appended so the caller knows how to recover.
func ErrorWithGuidance(prefix string, err error) *mcp.CallToolResult {
	msg := prefix + oneLine(err)
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Guidance != "" && !strings.Contains(msg, apiErr.Guidance) {
		msg = fmt.Sprintf("%s (%s)", msg, apiErr.Guidance)
	}
	return mcp.NewToolResultError(msg)
}

func oneLine(err error) string {
	if err == nil {
		return "unknown error"
	}
	return strings.Join(strings.Fields(err.Error()), " ")
}
