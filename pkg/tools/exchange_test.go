package tools

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/goodafternoonoo/my-mcp-server/pkg/apiclient"
	"github.com/goodafternoonoo/my-mcp-server/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usdRates = `{
  "result": "success",
  "base_code": "USD",
  "time_last_update_utc": "Thu, 01 May 2025 00:00:01 +0000",
  "rates": {"USD": 1, "KRW": 1380.25, "JPY": 143.1}
}`

func newExchangeServer(t *testing.T, wantPath string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != wantPath {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"result": "error", "error-type": "unsupported-code"}`)
			return
		}
		io.WriteString(w, usdRates)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExchangeToolRate(t *testing.T) {
	var calls atomic.Int32
	srv := newExchangeServer(t, "/v6/latest/USD", &calls)
	tool := NewExchangeTool(newTestClient(apiclient.ServiceExchange, srv.URL+"/v6", ""), testutil.DiscardLogger())

	result, err := tool.Handle(context.Background(), newRequest(exchangeToolName, map[string]any{
		"base":   "usd",
		"target": "krw",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "환율: 1 USD = 1380.25 KRW\n기준 시각: Thu, 01 May 2025 00:00:01 +0000", resultText(t, result))
}

func TestExchangeToolConvertsAmountWithKey(t *testing.T) {
	var calls atomic.Int32
	srv := newExchangeServer(t, "/v6/secret/latest/USD", &calls)
	tool := NewExchangeTool(newTestClient(apiclient.ServiceExchange, srv.URL+"/v6/", "secret"), testutil.DiscardLogger())

	result, err := tool.Handle(context.Background(), newRequest(exchangeToolName, map[string]any{
		"base":   "USD",
		"target": "JPY",
		"amount": "100",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, lines(resultText(t, result)), "환산: 100 USD = 14310 JPY")
}

func TestExchangeToolCachesTables(t *testing.T) {
	var calls atomic.Int32
	srv := newExchangeServer(t, "/latest/USD", &calls)
	log, buf := testutil.CaptureLogger()
	tool := NewExchangeTool(newTestClient(apiclient.ServiceExchange, srv.URL, ""), log)

	for _, target := range []string{"KRW", "JPY", "KRW"} {
		result, err := tool.Handle(context.Background(), newRequest(exchangeToolName, map[string]any{
			"base":   "USD",
			"target": target,
		}))
		require.NoError(t, err)
		assert.False(t, result.IsError)
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, tool.tables.Count())
	assert.Contains(t, buf.String(), "cached_tables=1")
}

func TestExchangeToolUnknownTarget(t *testing.T) {
	var calls atomic.Int32
	srv := newExchangeServer(t, "/latest/USD", &calls)
	tool := NewExchangeTool(newTestClient(apiclient.ServiceExchange, srv.URL, ""), testutil.DiscardLogger())

	result, err := tool.Handle(context.Background(), newRequest(exchangeToolName, map[string]any{
		"base":   "USD",
		"target": "XYZ",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "USD에 대한 XYZ 환율 정보가 없습니다.", resultText(t, result))
}

func TestExchangeToolUnsupportedBase(t *testing.T) {
	var calls atomic.Int32
	srv := newExchangeServer(t, "/latest/USD", &calls)
	tool := NewExchangeTool(newTestClient(apiclient.ServiceExchange, srv.URL, ""), testutil.DiscardLogger())

	result, err := tool.Handle(context.Background(), newRequest(exchangeToolName, map[string]any{
		"base":   "ABC",
		"target": "KRW",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "환율 조회에 실패했습니다: ")
	assert.Contains(t, text, "unsupported-code")
}

func TestExchangeToolInvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{name: "missing base", args: map[string]any{"target": "KRW"}, want: "base must not be empty"},
		{name: "bad code", args: map[string]any{"base": "dollar", "target": "KRW"}, want: "three-letter currency code"},
		{name: "negative amount", args: map[string]any{"base": "USD", "target": "KRW", "amount": -5}, want: "non-negative"},
		{name: "text amount", args: map[string]any{"base": "USD", "target": "KRW", "amount": "lots"}, want: "non-negative"},
	}

	var calls atomic.Int32
	srv := newExchangeServer(t, "/latest/USD", &calls)
	tool := NewExchangeTool(newTestClient(apiclient.ServiceExchange, srv.URL, ""), testutil.DiscardLogger())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tool.Handle(context.Background(), newRequest(exchangeToolName, tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.want)
		})
	}
	assert.Zero(t, calls.Load())
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1380.25", formatAmount(1380.25, 4))
	assert.Equal(t, "14310", formatAmount(14310.0000001, 2))
	assert.Equal(t, "0.0007", formatAmount(0.00072, 4))
	assert.Equal(t, "0", formatAmount(0, 2))
}
