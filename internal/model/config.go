package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the complete groundcheck configuration
type Config struct {
	Topic        string          `yaml:"topic" mapstructure:"topic"`
	Year         int             `yaml:"year" mapstructure:"year"`
	LLM          LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Search       SearchConfig    `yaml:"search" mapstructure:"search"`
	Eval         EvalConfig      `yaml:"eval" mapstructure:"eval"`
	HTTP         HTTPConfig      `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig     `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig    `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the model behind every agent
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, gemini, anthropic, ollama
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"-" mapstructure:"-"`
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SearchConfig configures the research agent's web search tool
type SearchConfig struct {
	APIKey       string `yaml:"-" mapstructure:"-"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	Results      int    `yaml:"results" mapstructure:"results"`
	EnrichPages  int    `yaml:"enrich_pages" mapstructure:"enrich_pages"` // 0 disables page fetching
	MaxPageChars int    `yaml:"max_page_chars" mapstructure:"max_page_chars"`

	Authority AuthorityConfig `yaml:"authority" mapstructure:"authority"`
}

// AuthorityConfig lists the domains whose results are labelled as
// primary or secondary sources for the research agent
type AuthorityConfig struct {
	PrimaryDomains   []string          `yaml:"primary_domains" mapstructure:"primary_domains"`
	SecondaryDomains []string          `yaml:"secondary_domains" mapstructure:"secondary_domains"`
	DomainMap        map[string]string `yaml:"domain_map,omitempty" mapstructure:"domain_map"` // host -> tier, wins over the lists
}

// EvalConfig configures the remote evaluation service
type EvalConfig struct {
	APIKey    string        `yaml:"-" mapstructure:"-"`
	SecretKey string        `yaml:"-" mapstructure:"-"`
	BaseURL   string        `yaml:"base_url" mapstructure:"base_url"`
	Model     string        `yaml:"model" mapstructure:"model"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// HTTPConfig configures outbound HTTP for tools
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig configures search result caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Disk      bool          `yaml:"disk" mapstructure:"disk"` // persist under Dir between runs
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitConfig bounds request rate per remote host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig configures rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Topic: "Research on India-America Relations",
		Year:  2025,
		LLM: LLMConfig{
			Provider:    "gemini",
			Model:       "gemini-2.0-flash",
			Timeout:     60,
			Temperature: 0.1,
			MaxTokens:   1000,
		},
		Search: SearchConfig{
			BaseURL:      "https://google.serper.dev",
			Results:      10,
			EnrichPages:  0,
			MaxPageChars: 2000,
			Authority: AuthorityConfig{
				PrimaryDomains: []string{
					"doi.org", "un.org", "worldbank.org", "imf.org", "wto.org",
					"mea.gov.in", "pib.gov.in", "state.gov", "whitehouse.gov",
				},
				SecondaryDomains: []string{
					"wikipedia.org", "reuters.com", "apnews.com", "bbc.com", "bbc.co.uk",
					"thehindu.com", "nytimes.com", "ft.com", "economist.com", "brookings.edu",
				},
			},
		},
		Eval: EvalConfig{
			BaseURL: "https://api.futureagi.com",
			Model:   "turing_flash",
			Timeout: 2 * time.Minute,
		},
		HTTP: HTTPConfig{
			Timeout:      15 * time.Second,
			UserAgent:    "groundcheck/0.1 (+https://github.com/ppiankov/groundcheck)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Disk:      false,
			Dir:       defaultCacheDir(),
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "groundcheck")
	}
	return filepath.Join(os.TempDir(), "groundcheck-cache")
}
