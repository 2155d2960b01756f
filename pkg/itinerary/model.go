// Package itinerary turns a raw TMAP public-transit directions response into a
// normalized itinerary and renders it as a plain-text Korean report.
package itinerary

// ModeWalk is the leg mode the directions provider uses for walking segments.
const ModeWalk = "WALK"

// Summary is the normalized form of the first itinerary in a directions response.
// Optional numbers are nil when the provider omitted them. Durations are seconds
// and distances are meters; unit conversion happens only when rendering.
type Summary struct {
	TotalTime         *int  `json:"total_time_seconds,omitempty"`
	TotalDistance     *int  `json:"total_distance_meters,omitempty"`
	TransferCount     int   `json:"transfer_count"`
	TotalWalkDistance int   `json:"total_walk_distance_meters"`
	TotalWalkTime     *int  `json:"total_walk_time_seconds,omitempty"`
	Fare              int   `json:"fare"`
	Legs              []Leg `json:"legs"`
}

// Leg is one continuous segment of an itinerary.
type Leg struct {
	Mode           string   `json:"mode,omitempty"`
	Route          string   `json:"route,omitempty"`
	Distance       int      `json:"distance_meters"`
	SectionTime    *int     `json:"section_time_seconds,omitempty"`
	StartName      string   `json:"start_name,omitempty"`
	EndName        string   `json:"end_name,omitempty"`
	Steps          []string `json:"steps,omitempty"`
	Lane           *Lane    `json:"lane,omitempty"`
	PassedStations []string `json:"passed_stations,omitempty"`
}

// IsWalk reports whether the leg is a walking segment.
func (l Leg) IsWalk() bool {
	return l.Mode == ModeWalk
}

// Lane is route metadata attached to a transit leg.
type Lane struct {
	Route   string `json:"route,omitempty"`
	Type    string `json:"type,omitempty"`
	Service *bool  `json:"service,omitempty"` // true while the line is operating
}
