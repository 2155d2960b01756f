package tools

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goodafternoonoo/my-mcp-server/pkg/apiclient"
	"github.com/goodafternoonoo/my-mcp-server/pkg/cache"
	"github.com/goodafternoonoo/my-mcp-server/pkg/geo"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	weatherToolName = "get_weather"

	weatherFailurePrefix = "날씨 조회에 실패했습니다: "

	placeCacheSize = 256
	placeCacheTTL  = 24 * time.Hour
)

// weatherLabels maps WMO weather interpretation codes to Korean labels.
var weatherLabels = map[int]string{
	0:  "맑음",
	1:  "대체로 맑음",
	2:  "부분적으로 흐림",
	3:  "흐림",
	45: "안개",
	48: "서리 안개",
	51: "약한 이슬비",
	53: "이슬비",
	55: "강한 이슬비",
	56: "약한 어는 이슬비",
	57: "강한 어는 이슬비",
	61: "약한 비",
	63: "비",
	65: "강한 비",
	66: "약한 어는 비",
	67: "강한 어는 비",
	71: "약한 눈",
	73: "눈",
	75: "강한 눈",
	77: "싸락눈",
	80: "약한 소나기",
	81: "소나기",
	82: "강한 소나기",
	85: "약한 눈 소나기",
	86: "강한 눈 소나기",
	95: "뇌우",
	96: "약한 우박을 동반한 뇌우",
	99: "강한 우박을 동반한 뇌우",
}

// WeatherLabel returns the label for a WMO weather code.
func WeatherLabel(code int) string {
	if label, ok := weatherLabels[code]; ok {
		return label
	}
	return fmt.Sprintf("알 수 없음(코드 %d)", code)
}

// Place is a geocoded location name.
type Place struct {
	Name     string       `json:"name"`
	Region   string       `json:"region,omitempty"`
	Country  string       `json:"country,omitempty"`
	Location geo.Location `json:"location"`
}

// DisplayName joins the non-empty name parts.
func (p Place) DisplayName() string {
	parts := []string{p.Name}
	if p.Region != "" && p.Region != p.Name {
		parts = append(parts, p.Region)
	}
	if p.Country != "" {
		parts = append(parts, p.Country)
	}
	return strings.Join(parts, ", ")
}

type geocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Country   string  `json:"country"`
		Admin1    string  `json:"admin1"`
	} `json:"results"`
}

type forecastResponse struct {
	Current *struct {
		Time                string   `json:"time"`
		Temperature         *float64 `json:"temperature_2m"`
		ApparentTemperature *float64 `json:"apparent_temperature"`
		RelativeHumidity    *float64 `json:"relative_humidity_2m"`
		Precipitation       *float64 `json:"precipitation"`
		WindSpeed           *float64 `json:"wind_speed_10m"`
		WeatherCode         *int     `json:"weather_code"`
	} `json:"current"`
}

// WeatherTool geocodes a place name and reports its current weather.
type WeatherTool struct {
	geocoder *apiclient.Client
	forecast *apiclient.Client
	places   *cache.TTLCache[string, Place]
	logger   *slog.Logger
}

// NewWeatherTool creates the weather tool. Geocoding results are cached.
func NewWeatherTool(geocoder, forecast *apiclient.Client, logger *slog.Logger) *WeatherTool {
	return &WeatherTool{
		geocoder: geocoder,
		forecast: forecast,
		places:   cache.NewTTLCache[string, Place](placeCacheSize, placeCacheTTL),
		logger:   logger.With("tool", weatherToolName),
	}
}

// Definition returns the MCP tool definition.
func (t *WeatherTool) Definition() mcp.Tool {
	return mcp.NewTool(weatherToolName,
		mcp.WithDescription("Get the current weather for a city or place name"),
		mcp.WithString("location",
			mcp.Required(),
			mcp.Description("City or place name, e.g. 서울 or Busan"),
		),
	)
}

// Handle implements the weather lookup.
func (t *WeatherTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requireString(req, "location")
	if err != nil {
		return ErrorResponse(err.Error()), nil
	}

	place, found, err := t.geocode(ctx, name)
	if err != nil {
		t.logger.Error("geocoding failed", "location", name, "error", err)
		return ErrorWithGuidance(weatherFailurePrefix, err), nil
	}
	if !found {
		return mcp.NewToolResultText(fmt.Sprintf("'%s' 위치를 찾을 수 없습니다.", name)), nil
	}

	var resp forecastResponse
	err = t.forecast.Do(ctx, apiclient.Request{
		Query: url.Values{
			"latitude":  {strconv.FormatFloat(place.Location.Latitude, 'f', 4, 64)},
			"longitude": {strconv.FormatFloat(place.Location.Longitude, 'f', 4, 64)},
			"current":   {"temperature_2m,apparent_temperature,relative_humidity_2m,precipitation,weather_code,wind_speed_10m"},
			"timezone":  {"auto"},
		},
	}, &resp)
	if err != nil {
		t.logger.Error("forecast failed", "location", name, "error", err)
		return ErrorWithGuidance(weatherFailurePrefix, err), nil
	}
	if resp.Current == nil {
		return ErrorResponse(weatherFailurePrefix + "응답에 현재 날씨 정보가 없습니다"), nil
	}

	return mcp.NewToolResultText(formatWeather(place, resp)), nil
}

// geocode resolves name to a place, consulting the cache first.
func (t *WeatherTool) geocode(ctx context.Context, name string) (Place, bool, error) {
	key := strings.ToLower(name)
	if place, ok := t.places.Get(key); ok {
		t.logger.Debug("geocoding cache hit", "location", name)
		return place, true, nil
	}

	var resp geocodingResponse
	err := t.geocoder.Do(ctx, apiclient.Request{
		Query: url.Values{
			"name":     {name},
			"count":    {"1"},
			"language": {"ko"},
			"format":   {"json"},
		},
	}, &resp)
	if err != nil {
		return Place{}, false, err
	}
	if len(resp.Results) == 0 {
		return Place{}, false, nil
	}

	r := resp.Results[0]
	place := Place{
		Name:     r.Name,
		Region:   r.Admin1,
		Country:  r.Country,
		Location: geo.Location{Latitude: r.Latitude, Longitude: r.Longitude},
	}
	if err := place.Location.Validate(); err != nil {
		return Place{}, false, fmt.Errorf("geocoding returned %w", err)
	}
	t.places.Set(key, place)
	t.logger.Debug("place cached", "location", name, "cached_places", t.places.Count())
	return place, true, nil
}

func formatWeather(place Place, resp forecastResponse) string {
	cur := resp.Current
	lines := []string{place.DisplayName() + " 현재 날씨"}
	if cur.Time != "" {
		lines[0] += " (" + cur.Time + ")"
	}
	if cur.WeatherCode != nil {
		lines = append(lines, "날씨: "+WeatherLabel(*cur.WeatherCode))
	}
	if cur.Temperature != nil {
		temp := fmt.Sprintf("기온: %.1f°C", *cur.Temperature)
		if cur.ApparentTemperature != nil {
			temp += fmt.Sprintf(" (체감 %.1f°C)", *cur.ApparentTemperature)
		}
		lines = append(lines, temp)
	}
	if cur.RelativeHumidity != nil {
		lines = append(lines, fmt.Sprintf("습도: %.0f%%", *cur.RelativeHumidity))
	}
	if cur.Precipitation != nil {
		lines = append(lines, fmt.Sprintf("강수량: %.1fmm", *cur.Precipitation))
	}
	if cur.WindSpeed != nil {
		lines = append(lines, fmt.Sprintf("풍속: %.1fkm/h", *cur.WindSpeed))
	}
	return strings.Join(lines, "\n")
}
