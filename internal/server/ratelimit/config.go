package ratelimit

import (
	"time"

	"github.com/jonathan/squad-builder/internal/config"
)

// DefaultLimit applies per minute to endpoints without their own rule.
const DefaultLimit = 1000

// Oracle-backed endpoints. Each call can cost several LLM requests.
var oracleEndpoints = []string{
	"/api/build-squad",
	"/api/build-squad/stream",
	"/api/chat",
}

// EndpointConfig is the limit for one path and method.
type EndpointConfig struct {
	Path   string // exact path, or a prefix when it ends in "/"
	Method string
	Limit  int // requests per Window; zero or less means unlimited
	Window time.Duration
	Burst  int // bucket capacity; defaults to Limit
}

func (c *EndpointConfig) capacity() int {
	if c.Burst > 0 {
		return c.Burst
	}
	return c.Limit
}

func (c *EndpointConfig) rate() float64 {
	if c.Window <= 0 {
		return float64(c.Limit)
	}
	return float64(c.Limit) / c.Window.Seconds()
}

// key groups requests that share a bucket: the rule path, or the request path
// for the global default.
func (c *EndpointConfig) key(path string) string {
	if c.Path != "" {
		return c.Path
	}
	return path
}

// FromSettings builds the limiter config from application settings.
func FromSettings(s config.RateLimitConfig) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		EndpointConfigs: EndpointConfigs(s),
	}
}

// EndpointConfigs returns the strict rules for the oracle-backed endpoints.
// Replacement, search and health reads fall under the default limit or are unlimited.
func EndpointConfigs(s config.RateLimitConfig) []EndpointConfig {
	out := make([]EndpointConfig, 0, len(oracleEndpoints))
	for _, path := range oracleEndpoints {
		out = append(out, EndpointConfig{
			Path:   path,
			Method: "POST",
			Limit:  s.OracleLimit,
			Window: s.OracleWindow,
			Burst:  s.OracleBurst,
		})
	}
	return out
}
