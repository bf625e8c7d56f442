package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-trends/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ESearchConfig holds settings for the NCBI esearch count endpoint.
type ESearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL overrides the esearch endpoint. Empty uses the public NCBI URL.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Database is the Entrez database queried (default "pubmed").
	Database string `json:"database" yaml:"database"`

	// APIKey is the NCBI API key. Optional; keyless access has a lower rate limit.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// Palette names a colour ramp for the tercile bands.
type Palette string

const (
	PaletteGreenYellowRed Palette = "green-yellow-red"
	PaletteGreenOrangeRed Palette = "green-orange-red"
)

// TrendConfig holds settings for a trend run.
type TrendConfig struct {
	// Stagger is the delay between consecutive per-year queries (default 250ms).
	// Query i starts Stagger*i after scheduling.
	Stagger time.Duration `json:"stagger" yaml:"stagger"`

	// MaxInFlight caps concurrent requests once their stagger delay has
	// elapsed. Zero means no cap.
	MaxInFlight int `json:"max_in_flight" yaml:"max_in_flight"`

	// Palette selects the bar colour ramp.
	Palette Palette `json:"palette" yaml:"palette"`
}

// ServeConfig holds settings for the HTTP server.
type ServeConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`
}

// Config groups all configuration sections.
type Config struct {
	ESearch ESearchConfig `json:"esearch" yaml:"esearch"`
	Trend   TrendConfig   `json:"trend" yaml:"trend"`
	Serve   ServeConfig   `json:"serve" yaml:"serve"`
}
