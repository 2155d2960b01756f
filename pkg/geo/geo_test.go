package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCoords(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantErr bool
	}{
		{name: "seoul city hall", lat: 37.5663, lon: 126.9779},
		{name: "positive boundaries", lat: 90, lon: 180},
		{name: "negative boundaries", lat: -90, lon: -180},
		{name: "latitude too high", lat: 91, lon: 127, wantErr: true},
		{name: "latitude too low", lat: -91, lon: 127, wantErr: true},
		{name: "longitude too high", lat: 37, lon: 181, wantErr: true},
		{name: "longitude too low", lat: 37, lon: -181, wantErr: true},
		{name: "latitude NaN", lat: math.NaN(), lon: 127, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Location{Latitude: tt.lat, Longitude: tt.lon}.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHaversineDistance(t *testing.T) {
	tests := []struct {
		name     string
		from, to Location
		expected float64
	}{
		{
			name:     "same point",
			from:     Location{37.5663, 126.9779},
			to:       Location{37.5663, 126.9779},
			expected: 0,
		},
		{
			name:     "seoul city hall to gangnam station",
			from:     Location{37.5663, 126.9779},
			to:       Location{37.4979, 127.0276},
			expected: 8778,
		},
		{
			name:     "san francisco to new york",
			from:     Location{37.7749, -122.4194},
			to:       Location{40.7128, -74.0060},
			expected: 4129936.81,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.from.DistanceTo(tt.to)
			if tt.expected == 0 {
				assert.InDelta(t, 0, got, 1e-6)
				return
			}
			assert.InEpsilon(t, tt.expected, got, 0.01)
		})
	}
}
