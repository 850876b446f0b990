package model

import (
	"runtime"
	"time"
)

// Config is the complete runtime configuration, assembled from defaults,
// the config file, environment variables and CLI flags (in that order).
type Config struct {
	Match       MatchConfig       `yaml:"match" json:"match"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// MatchConfig holds the tunable constants of the quote-location engine.
// The defaults are documented here rather than hard-coded at use sites
// because they decide the recall/precision tradeoff of the matcher.
type MatchConfig struct {
	// FuzzyThreshold is the minimum line-similarity ratio ([0,1]) for a
	// fuzzy match to count. Below it a candidate is reported unmatched.
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" json:"fuzzy_threshold"`

	// MinWindow is the smallest chunk window, in words, the chunk locator
	// will try. Quotes shorter than this skip the chunk stage entirely.
	MinWindow int `yaml:"min_window" json:"min_window"`

	// WindowFrac is the fraction of the quote's word count used as the
	// largest chunk window size.
	WindowFrac float64 `yaml:"window_frac" json:"window_frac"`
}

// LLMConfig configures the candidate-extraction provider.
type LLMConfig struct {
	Provider    string  `yaml:"provider" json:"provider"` // "openai", "ollama", "" disables LLM
	Model       string  `yaml:"model" json:"model"`
	APIKey      string  `yaml:"-" json:"-"` // never serialized
	BaseURL     string  `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout     int     `yaml:"timeout" json:"timeout"` // seconds per API call
	MaxPerPage  int     `yaml:"max_per_page" json:"max_per_page"`
	MaxTotal    int     `yaml:"max_total" json:"max_total"` // 0 = unlimited
	Temperature float32 `yaml:"temperature" json:"temperature"`
	RateLimit   float64 `yaml:"rate_limit" json:"rate_limit"` // requests per second per host

	// FullContext sends the whole document in one extraction call instead
	// of one call per page, falling back to per-page when the document
	// text exceeds MaxContextChars.
	FullContext     bool `yaml:"full_context" json:"full_context"`
	MaxContextChars int  `yaml:"max_context_chars" json:"max_context_chars"`
}

// CacheConfig configures caching of LLM page responses.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Dir     string        `yaml:"dir" json:"dir"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// ConcurrencyConfig bounds parallel work.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"` // concurrent page matchers
}

// OutputConfig controls reporting.
type OutputConfig struct {
	Verbose    bool   `yaml:"verbose" json:"verbose"`
	ReportJSON string `yaml:"report_json,omitempty" json:"report_json,omitempty"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Match: MatchConfig{
			FuzzyThreshold: 0.65,
			MinWindow:      4,
			WindowFrac:     0.8,
		},
		LLM: LLMConfig{
			Provider:    "",
			Model:       "gpt-4o-mini",
			Timeout:     30,
			MaxPerPage:      7,
			MaxTotal:        0,
			Temperature:     0.3,
			RateLimit:       2,
			MaxContextChars: 120000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Output: OutputConfig{},
	}
}
