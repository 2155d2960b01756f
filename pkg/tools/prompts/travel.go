// Package prompts provides prompt templates for use with the MCP server.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTravelPrompts registers the usage prompts for the travel tools.
func RegisterTravelPrompts(s *server.MCPServer) {
	s.AddPrompt(mcp.NewPrompt("transit_directions",
		mcp.WithPromptDescription("Instructions for using the public transit directions tool"),
	), TransitDirectionsPromptHandler)

	s.AddPrompt(mcp.NewPrompt("travel_tools",
		mcp.WithPromptDescription("Overview of the weather, transit and exchange rate tools"),
	), TravelToolsPromptHandler)
}

// TransitDirectionsPromptHandler returns guidance for get_transit_directions.
func TransitDirectionsPromptHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	systemPrompt := `You have access to get_transit_directions, which plans a public transit trip in Korea.
When using this tool:

1. Pass coordinates in decimal degrees: start_lat/start_lon and end_lat/end_lon
2. Add start_name and end_name when you know them; they appear in the report header
3. Use departure_time (yyyymmddhhmi) only when the user asks about a specific time
4. Ask for output "json" when you need to reason over individual legs

READING THE REPORT:
- The first line lists each leg in order; 도보 means walking
- The metrics block gives total time, transfers, fare and distances
- Each numbered entry under 상세 경로 is one leg; 승차/하차 are boarding and alighting stops
- 경유지 lists the stops passed on a transit leg

ERROR HANDLING GUIDELINES:
- A "경로를 찾을 수 없습니다" answer means no itinerary exists; points that are very close together often have none
- A "조회에 실패했습니다" answer means the provider call failed; retry later rather than changing the coordinates`

	return mcp.NewGetPromptResult(
		"Transit Directions Usage Guidelines",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(systemPrompt),
			),
		},
	), nil
}

// TravelToolsPromptHandler returns an overview of every tool.
func TravelToolsPromptHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	overview := `AVAILABLE TRAVEL TOOLS:

get_weather: current weather for a place name, e.g. location "서울" or "Busan"
get_transit_directions: public transit itinerary between two coordinates in Korea
get_exchange_rate: rate from base to target currency (ISO codes such as USD, KRW, JPY), optional amount

EXAMPLES:
User: "서울역에서 강남역까지 대중교통으로 어떻게 가?"
AI: *uses get_transit_directions with start 37.5547,126.9707 and end 37.4979,127.0276, start_name 서울역, end_name 강남역*

User: "100달러는 원화로 얼마야?"
AI: *uses get_exchange_rate with base USD, target KRW, amount 100*`

	return mcp.NewGetPromptResult(
		"Travel Tools Overview",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(overview),
			),
		},
	), nil
}
