package tools

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goodafternoonoo/my-mcp-server/pkg/apiclient"
	"github.com/goodafternoonoo/my-mcp-server/pkg/cache"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"
)

const (
	exchangeToolName = "get_exchange_rate"

	exchangeFailurePrefix = "환율 조회에 실패했습니다: "

	rateCacheSize = 64
	rateCacheTTL  = time.Hour
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// RateTable is the latest rate table for one base currency.
type RateTable struct {
	Base      string
	UpdatedAt string
	Rates     map[string]float64
}

type latestRatesResponse struct {
	Result    string             `json:"result"`
	ErrorType string             `json:"error-type"`
	BaseCode  string             `json:"base_code"`
	UpdatedAt string             `json:"time_last_update_utc"`
	Rates     map[string]float64 `json:"rates"`
}

// ExchangeTool converts between currencies using the latest published rates.
type ExchangeTool struct {
	client *apiclient.Client
	tables *cache.TTLCache[string, RateTable]
	logger *slog.Logger
}

// NewExchangeTool creates the exchange rate tool. Rate tables are cached for
// an hour since the provider refreshes them daily.
func NewExchangeTool(client *apiclient.Client, logger *slog.Logger) *ExchangeTool {
	return &ExchangeTool{
		client: client,
		tables: cache.NewTTLCache[string, RateTable](rateCacheSize, rateCacheTTL),
		logger: logger.With("tool", exchangeToolName),
	}
}

// Definition returns the MCP tool definition.
func (t *ExchangeTool) Definition() mcp.Tool {
	return mcp.NewTool(exchangeToolName,
		mcp.WithDescription("Get the exchange rate between two currencies and optionally convert an amount"),
		mcp.WithString("base",
			mcp.Required(),
			mcp.Description("ISO 4217 code of the source currency, e.g. USD"),
		),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("ISO 4217 code of the target currency, e.g. KRW"),
		),
		mcp.WithNumber("amount",
			mcp.Description("Amount in the base currency to convert (default 1)"),
		),
	)
}

// Handle implements the exchange rate lookup.
func (t *ExchangeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	base, err := currencyArg(req, "base")
	if err != nil {
		return ErrorResponse(err.Error()), nil
	}
	target, err := currencyArg(req, "target")
	if err != nil {
		return ErrorResponse(err.Error()), nil
	}

	amount := 1.0
	if raw, ok := req.Params.Arguments["amount"]; ok && raw != nil {
		amount, err = cast.ToFloat64E(raw)
		if err != nil || amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
			return ErrorResponse("amount must be a non-negative number"), nil
		}
	}

	table, err := t.latest(ctx, base)
	if err != nil {
		t.logger.Error("rate lookup failed", "base", base, "error", err)
		return ErrorWithGuidance(exchangeFailurePrefix, err), nil
	}

	rate, ok := table.Rates[target]
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("%s에 대한 %s 환율 정보가 없습니다.", base, target)), nil
	}

	return mcp.NewToolResultText(formatExchange(table, target, rate, amount)), nil
}

// latest returns the rate table for base, consulting the cache first.
func (t *ExchangeTool) latest(ctx context.Context, base string) (RateTable, error) {
	if table, ok := t.tables.Get(base); ok {
		return table, nil
	}

	endpoint := strings.TrimRight(t.client.Endpoint(), "/")
	if key := t.client.APIKey(); key != "" {
		endpoint += "/" + key
	}

	var resp latestRatesResponse
	if err := t.client.Do(ctx, apiclient.Request{URL: endpoint + "/latest/" + base}, &resp); err != nil {
		return RateTable{}, err
	}
	if resp.Result != "" && resp.Result != "success" {
		return RateTable{}, fmt.Errorf("exchange API returned %q", resp.ErrorType)
	}
	if len(resp.Rates) == 0 {
		return RateTable{}, fmt.Errorf("exchange API returned no rates for %s", base)
	}

	table := RateTable{Base: base, UpdatedAt: resp.UpdatedAt, Rates: resp.Rates}
	t.tables.Set(base, table)
	t.logger.Debug("rate table cached", "base", base, "cached_tables", t.tables.Count())
	return table, nil
}

func currencyArg(req mcp.CallToolRequest, name string) (string, error) {
	v, err := requireString(req, name)
	if err != nil {
		return "", err
	}
	v = strings.ToUpper(v)
	if !currencyPattern.MatchString(v) {
		return "", fmt.Errorf("%s must be a three-letter currency code, got %q", name, v)
	}
	return v, nil
}

func formatExchange(table RateTable, target string, rate, amount float64) string {
	lines := []string{
		fmt.Sprintf("환율: 1 %s = %s %s", table.Base, formatAmount(rate, 4), target),
	}
	if amount != 1 {
		lines = append(lines, fmt.Sprintf("환산: %s %s = %s %s",
			formatAmount(amount, 2), table.Base, formatAmount(amount*rate, 2), target))
	}
	if table.UpdatedAt != "" {
		lines = append(lines, "기준 시각: "+table.UpdatedAt)
	}
	return strings.Join(lines, "\n")
}

// formatAmount prints v with at most prec decimals, dropping trailing zeros.
func formatAmount(v float64, prec int) string {
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}
