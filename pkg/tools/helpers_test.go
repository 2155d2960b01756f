package tools

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/goodafternoonoo/my-mcp-server/pkg/apiclient"
	"github.com/goodafternoonoo/my-mcp-server/pkg/config"
	"github.com/goodafternoonoo/my-mcp-server/pkg/testutil"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func testClientOptions(extra ...apiclient.Option) []apiclient.Option {
	return append([]apiclient.Option{
		apiclient.WithLimiter(rate.NewLimiter(rate.Inf, 0)),
		apiclient.WithRetryWait(time.Millisecond),
		apiclient.WithMaxRetries(0),
		apiclient.WithLogger(testutil.DiscardLogger()),
	}, extra...)
}

func newTestClient(service, endpoint, apiKey string, extra ...apiclient.Option) *apiclient.Client {
	cfg := config.ServiceConfig{EndpointURL: endpoint, APIKey: apiKey, Timeout: 5 * time.Second}
	return apiclient.New(service, cfg, testClientOptions(extra...)...)
}

func newRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// resultText returns the text of the first text content in result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			return text.Text
		}
	}
	t.Fatal("no text content in result")
	return ""
}

func lines(s string) []string {
	return strings.Split(s, "\n")
}
