package config

import (
	"testing"
	"time"

	"github.com/goodafternoonoo/my-mcp-server/pkg/version"
	"github.com/stretchr/testify/assert"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.Transit.APIKey)
	assert.Equal(t, DefaultTimeout, cfg.Weather.Timeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:    "empty endpoint",
			modify:  func(c *Config) { c.Transit.EndpointURL = "" },
			wantErr: "transit: endpoint URL must not be empty",
		},
		{
			name:    "relative endpoint",
			modify:  func(c *Config) { c.Weather.EndpointURL = "/v1/forecast" },
			wantErr: "weather:",
		},
		{
			name:    "unsupported scheme",
			modify:  func(c *Config) { c.Exchange.EndpointURL = "ftp://example.com" },
			wantErr: "must use http or https",
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.Geocoding.Timeout = 0 },
			wantErr: "geocoding: timeout must be positive",
		},
		{
			name:    "empty user agent",
			modify:  func(c *Config) { c.UserAgent = "" },
			wantErr: "user agent",
		},
		{
			name:    "negative retries",
			modify:  func(c *Config) { c.MaxRetries = -1 },
			wantErr: "max retries",
		},
		{
			name:   "custom values",
			modify: func(c *Config) { c.Transit = ServiceConfig{EndpointURL: "http://localhost:9000/routes", APIKey: "k", Timeout: time.Second} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDefaultUserAgentFollowsBuildVersion(t *testing.T) {
	orig := version.BuildVersion
	t.Cleanup(func() { version.BuildVersion = orig })

	version.BuildVersion = "9.9.9"
	assert.Equal(t, "travel-mcp-server/9.9.9", Default().UserAgent)
}
