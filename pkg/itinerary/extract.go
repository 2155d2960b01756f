package itinerary

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cast"
)

// ErrNotFound is returned when the response holds no usable itinerary.
var ErrNotFound = errors.New("no itinerary found")

// ExtractJSON decodes body and extracts its first itinerary.
// Bodies that are not a JSON object are reported as ErrNotFound.
func ExtractJSON(body []byte) (*Summary, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrNotFound, err)
	}
	return Extract(raw)
}

// Extract normalizes the first itinerary under metaData.plan.itineraries.
// Only the first candidate is used; an itinerary without legs is treated the
// same as a missing one.
func Extract(raw map[string]any) (*Summary, error) {
	plan := object(object(raw, "metaData"), "plan")
	itineraries := list(plan, "itineraries")
	if len(itineraries) == 0 {
		return nil, ErrNotFound
	}

	first, ok := itineraries[0].(map[string]any)
	if !ok {
		return nil, ErrNotFound
	}

	rawLegs := list(first, "legs")
	if len(rawLegs) == 0 {
		return nil, fmt.Errorf("%w: itinerary has no legs", ErrNotFound)
	}

	legs := make([]Leg, 0, len(rawLegs))
	for _, item := range rawLegs {
		// A leg that is not an object still occupies its position.
		m, _ := item.(map[string]any)
		legs = append(legs, extractLeg(m))
	}

	return &Summary{
		TotalTime:         optionalInt(first, "totalTime"),
		TotalDistance:     optionalInt(first, "totalDistance"),
		TransferCount:     intOrZero(first, "transferCount"),
		TotalWalkDistance: intOrZero(first, "totalWalkDistance"),
		TotalWalkTime:     optionalInt(first, "totalWalkTime"),
		Fare:              intOrZero(object(object(first, "fare"), "regular"), "totalFare"),
		Legs:              legs,
	}, nil
}

func extractLeg(m map[string]any) Leg {
	leg := Leg{
		Mode:        str(m, "mode"),
		Distance:    intOrZero(m, "distance"),
		SectionTime: optionalInt(m, "sectionTime"),
		StartName:   str(object(m, "start"), "name"),
		EndName:     str(object(m, "end"), "name"),
	}

	if leg.IsWalk() {
		if steps := list(m, "steps"); len(steps) > 0 {
			leg.Steps = make([]string, 0, len(steps))
			for _, s := range steps {
				step, _ := s.(map[string]any)
				leg.Steps = append(leg.Steps, str(step, "description"))
			}
		}
		return leg
	}

	leg.Route = str(m, "route")
	leg.Lane = extractLane(m)
	for _, s := range list(object(m, "passStopList"), "stationList") {
		station, _ := s.(map[string]any)
		if name := str(station, "stationName"); name != "" {
			leg.PassedStations = append(leg.PassedStations, name)
		}
	}
	return leg
}

// extractLane reads the first entry of the Lane array. Some responses send a
// single object instead of an array.
func extractLane(m map[string]any) *Lane {
	var first map[string]any
	switch v := m["Lane"].(type) {
	case []any:
		if len(v) > 0 {
			first, _ = v[0].(map[string]any)
		}
	case map[string]any:
		first = v
	}
	if first == nil {
		return nil
	}

	lane := &Lane{
		Route: str(first, "route"),
		Type:  str(first, "type"),
	}
	if v, ok := first["service"]; ok && v != nil {
		if b, ok := toBool(v); ok {
			lane.Service = &b
		}
	}
	return lane
}

func object(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	v, _ := m[key].(map[string]any)
	return v
}

func list(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	v, _ := m[key].([]any)
	return v
}

func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// optionalInt returns nil for missing, non-numeric or negative values.
// Numeric strings are read as base 10 and fractions are rounded.
func optionalInt(m map[string]any, key string) *int {
	if m == nil {
		return nil
	}
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	n := int(math.Round(f))
	return &n
}

func intOrZero(m map[string]any, key string) int {
	if n := optionalInt(m, key); n != nil {
		return *n
	}
	return 0
}

func toBool(v any) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	if n, err := cast.ToFloat64E(v); err == nil {
		return n != 0, true
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, false
	}
	return b, true
}
