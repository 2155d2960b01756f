package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"github.com/goodafternoonoo/my-mcp-server/pkg/apiclient"
	"github.com/goodafternoonoo/my-mcp-server/pkg/geo"
	"github.com/goodafternoonoo/my-mcp-server/pkg/itinerary"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	transitToolName = "get_transit_directions"

	outputText = "text"
	outputJSON = "json"
)

// errMissingAppKey is reported when the server was started without a TMAP key.
var errMissingAppKey = errors.New("transit API key is not configured (set TMAP_APP_KEY)")

// searchTimePattern matches TMAP's yyyymmddhhmi departure time.
var searchTimePattern = regexp.MustCompile(`^\d{12}$`)

// transitRequest is the TMAP public transit route search body. Coordinates
// are sent as strings, X being longitude.
type transitRequest struct {
	StartX     string `json:"startX"`
	StartY     string `json:"startY"`
	EndX       string `json:"endX"`
	EndY       string `json:"endY"`
	Count      int    `json:"count"`
	Lang       int    `json:"lang"`
	Format     string `json:"format"`
	SearchDttm string `json:"searchDttm,omitempty"`
}

// TransitTool looks up public transit directions and renders the first
// itinerary as a report.
type TransitTool struct {
	client *apiclient.Client
	logger *slog.Logger
}

// NewTransitTool creates the transit directions tool.
func NewTransitTool(client *apiclient.Client, logger *slog.Logger) *TransitTool {
	return &TransitTool{client: client, logger: logger.With("tool", transitToolName)}
}

// Definition returns the MCP tool definition.
func (t *TransitTool) Definition() mcp.Tool {
	return mcp.NewTool(transitToolName,
		mcp.WithDescription("Find public transit directions (bus, subway, walking) between two points in Korea and describe the best itinerary"),
		mcp.WithNumber("start_lat",
			mcp.Required(),
			mcp.Description("Starting point latitude"),
		),
		mcp.WithNumber("start_lon",
			mcp.Required(),
			mcp.Description("Starting point longitude"),
		),
		mcp.WithNumber("end_lat",
			mcp.Required(),
			mcp.Description("Destination latitude"),
		),
		mcp.WithNumber("end_lon",
			mcp.Required(),
			mcp.Description("Destination longitude"),
		),
		mcp.WithString("start_name",
			mcp.Description("Optional display name of the starting point"),
		),
		mcp.WithString("end_name",
			mcp.Description("Optional display name of the destination"),
		),
		mcp.WithString("departure_time",
			mcp.Description("Optional departure time as yyyymmddhhmi, e.g. 202501011230"),
		),
		mcp.WithString("output",
			mcp.Description("Result format: text (default) or json"),
			mcp.Enum(outputText, outputJSON),
		),
	)
}

// Handle implements the transit directions lookup.
func (t *TransitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := parseEndpoints(req)
	if err != nil {
		return ErrorResponse(err.Error()), nil
	}

	departure := optionalString(req, "departure_time")
	if departure != "" && !searchTimePattern.MatchString(departure) {
		return ErrorResponse("departure_time must be formatted as yyyymmddhhmi"), nil
	}

	output := optionalString(req, "output")
	if output == "" {
		output = outputText
	}
	if output != outputText && output != outputJSON {
		return ErrorResponse(fmt.Sprintf("output must be %q or %q", outputText, outputJSON)), nil
	}

	raw, err := t.search(ctx, start, end, departure)
	if err != nil {
		t.logger.Error("transit search failed", "error", err)
		return mcp.NewToolResultError(itinerary.FormatFailure(err)), nil
	}

	summary, err := itinerary.Extract(raw)
	if err != nil {
		t.logger.Info("no itinerary in response", "error", err, "provider_message", providerMessage(raw))
		return mcp.NewToolResultText(itinerary.FormatNotFound()), nil
	}
	t.logger.Debug("itinerary extracted", "legs", len(summary.Legs), "transfers", summary.TransferCount)

	if output == outputJSON {
		data, err := json.Marshal(summary)
		if err != nil {
			t.logger.Error("failed to marshal result", "error", err)
			return ErrorResponse("Failed to generate result"), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}

	report := itinerary.Format(summary)
	if header := tripHeader(req, start, end); header != "" {
		report = header + "\n" + report
	}
	return mcp.NewToolResultText(report), nil
}

func (t *TransitTool) search(ctx context.Context, start, end geo.Location, departure string) (map[string]any, error) {
	if t.client.APIKey() == "" {
		return nil, errMissingAppKey
	}

	body := transitRequest{
		StartX:     formatCoord(start.Longitude),
		StartY:     formatCoord(start.Latitude),
		EndX:       formatCoord(end.Longitude),
		EndY:       formatCoord(end.Latitude),
		Count:      1,
		Lang:       0,
		Format:     "json",
		SearchDttm: departure,
	}

	var raw map[string]any
	err := t.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Header: http.Header{"appKey": []string{t.client.APIKey()}},
		Body:   body,
	}, &raw)
	return raw, err
}

func parseEndpoints(req mcp.CallToolRequest) (geo.Location, geo.Location, error) {
	var coords [4]float64
	for i, name := range []string{"start_lat", "start_lon", "end_lat", "end_lon"} {
		v, err := requireFloat(req, name)
		if err != nil {
			return geo.Location{}, geo.Location{}, err
		}
		coords[i] = v
	}

	start := geo.Location{Latitude: coords[0], Longitude: coords[1]}
	end := geo.Location{Latitude: coords[2], Longitude: coords[3]}
	if err := start.Validate(); err != nil {
		return geo.Location{}, geo.Location{}, fmt.Errorf("start: %w", err)
	}
	if err := end.Validate(); err != nil {
		return geo.Location{}, geo.Location{}, fmt.Errorf("end: %w", err)
	}
	return start, end, nil
}

// tripHeader names the trip when the caller supplied place names.
func tripHeader(req mcp.CallToolRequest, start, end geo.Location) string {
	startName := optionalString(req, "start_name")
	endName := optionalString(req, "end_name")
	if startName == "" && endName == "" {
		return ""
	}
	if startName == "" {
		startName = "출발지"
	}
	if endName == "" {
		endName = "도착지"
	}
	return fmt.Sprintf("%s → %s (직선 거리 %.1fkm)", startName, endName, start.DistanceTo(end)/1000)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 7, 64)
}

// providerMessage returns the status message TMAP puts in place of a plan.
func providerMessage(raw map[string]any) string {
	result, _ := raw["result"].(map[string]any)
	msg, _ := result["message"].(string)
	return msg
}
