// Package config holds the explicit configuration the server is built from.
// Nothing in this package reads the process environment; the command line
// layer fills a Config and hands it to the server.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/goodafternoonoo/my-mcp-server/pkg/version"
)

const (
	// DefaultTransitEndpoint is the SK Open API public transit route search.
	DefaultTransitEndpoint = "https://apis.openapi.sk.com/transit/routes"

	// DefaultGeocodingEndpoint is the Open-Meteo place search.
	DefaultGeocodingEndpoint = "https://geocoding-api.open-meteo.com/v1/search"

	// DefaultWeatherEndpoint is the Open-Meteo forecast API.
	DefaultWeatherEndpoint = "https://api.open-meteo.com/v1/forecast"

	// DefaultExchangeEndpoint is the keyless ExchangeRate-API mirror.
	DefaultExchangeEndpoint = "https://open.er-api.com/v6"

	// DefaultTimeout bounds a single upstream request.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is how often a throttled or unavailable upstream is retried.
	DefaultMaxRetries = 2
)

// ServiceConfig describes one upstream HTTP API.
type ServiceConfig struct {
	EndpointURL string
	APIKey      string
	Timeout     time.Duration
}

// Validate checks that the endpoint is an absolute http(s) URL and the
// timeout is positive.
func (s ServiceConfig) Validate() error {
	if s.EndpointURL == "" {
		return errors.New("endpoint URL must not be empty")
	}
	u, err := url.Parse(s.EndpointURL)
	if err != nil {
		return fmt.Errorf("invalid endpoint URL %q: %w", s.EndpointURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint URL %q must use http or https", s.EndpointURL)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint URL %q has no host", s.EndpointURL)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", s.Timeout)
	}
	return nil
}

// Config is the complete server configuration.
type Config struct {
	Transit   ServiceConfig
	Geocoding ServiceConfig
	Weather   ServiceConfig
	Exchange  ServiceConfig

	UserAgent  string
	MaxRetries int
}

// Default returns a configuration pointing at the public endpoints. The
// transit API key has no default.
func Default() Config {
	return Config{
		Transit:    ServiceConfig{EndpointURL: DefaultTransitEndpoint, Timeout: DefaultTimeout},
		Geocoding:  ServiceConfig{EndpointURL: DefaultGeocodingEndpoint, Timeout: DefaultTimeout},
		Weather:    ServiceConfig{EndpointURL: DefaultWeatherEndpoint, Timeout: DefaultTimeout},
		Exchange:   ServiceConfig{EndpointURL: DefaultExchangeEndpoint, Timeout: DefaultTimeout},
		UserAgent:  version.UserAgent(),
		MaxRetries: DefaultMaxRetries,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	services := []struct {
		name string
		cfg  ServiceConfig
	}{
		{"transit", c.Transit},
		{"geocoding", c.Geocoding},
		{"weather", c.Weather},
		{"exchange", c.Exchange},
	}
	for _, s := range services {
		if err := s.cfg.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	if c.UserAgent == "" {
		return errors.New("user agent must not be empty")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", c.MaxRetries)
	}
	return nil
}
