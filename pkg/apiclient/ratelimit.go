package apiclient

import (
	"time"

	"golang.org/x/time/rate"
)

const (
	// Service names used for rate limiting and error reporting
	ServiceTransit   = "transit"
	ServiceGeocoding = "geocoding"
	ServiceWeather   = "weather"
	ServiceExchange  = "exchange"
)

// Limit is a token bucket rate: one token every Every, up to Burst.
type Limit struct {
	Every time.Duration
	Burst int
}

// serviceLimits follows the providers' published usage policies.
var serviceLimits = map[string]Limit{
	// SK Open API free tier: 10 requests per second
	ServiceTransit: {Every: 100 * time.Millisecond, Burst: 5},

	// Open-Meteo non-commercial use: under 600 calls per minute
	ServiceGeocoding: {Every: 200 * time.Millisecond, Burst: 5},
	ServiceWeather:   {Every: 200 * time.Millisecond, Burst: 5},

	// Open access ExchangeRate-API refreshes daily; 1 rps is plenty
	ServiceExchange: {Every: time.Second, Burst: 2},
}

// NewLimiter returns a limiter for service. Unknown services are not limited.
func NewLimiter(service string) *rate.Limiter {
	l, ok := serviceLimits[service]
	if !ok {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(l.Every), l.Burst)
}
