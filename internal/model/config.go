package model

import "time"

// Config is the full runtime configuration.
//
// Hierarchy (highest to lowest priority): CLI flags, environment
// variables (DWVERIFY_*), config file (~/.dwverify/config.yaml),
// defaults from DefaultConfig.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Search       SearchConfig       `yaml:"search" mapstructure:"search"`
	Verification VerificationConfig `yaml:"verification" mapstructure:"verification"`
	Escalation   EscalationConfig   `yaml:"escalation" mapstructure:"escalation"`
	Social       SocialConfig       `yaml:"social" mapstructure:"social"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
}

// HTTPConfig controls outbound fetching of source pages.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// ProviderConfig describes one external search provider endpoint.
type ProviderConfig struct {
	Name     string  `yaml:"name" mapstructure:"name"`
	Endpoint string  `yaml:"endpoint" mapstructure:"endpoint"`
	APIKey   string  `yaml:"api_key" mapstructure:"api_key"`
	Rate     float64 `yaml:"rate" mapstructure:"rate"`   // requests per second
	Burst    int     `yaml:"burst" mapstructure:"burst"`

	// Escalation marks providers reserved for the deep-investigation
	// pass; the primary pass never touches them.
	Escalation bool `yaml:"escalation" mapstructure:"escalation"`
}

// SearchConfig controls the search aggregation layer.
type SearchConfig struct {
	Providers    []ProviderConfig `yaml:"providers" mapstructure:"providers"`
	QueryTimeout time.Duration    `yaml:"query_timeout" mapstructure:"query_timeout"`
	ResultLimit  int              `yaml:"result_limit" mapstructure:"result_limit"`
}

// VerificationConfig controls the primary verification pass.
type VerificationConfig struct {
	QueryBudget          int `yaml:"query_budget" mapstructure:"query_budget"`                     // searches per topic, 4-5
	MinCredibleSources   int `yaml:"min_credible_sources" mapstructure:"min_credible_sources"`     // verified threshold
	MinAcademicCitations int `yaml:"min_academic_citations" mapstructure:"min_academic_citations"` // alternate threshold
	FetchTopSources      int `yaml:"fetch_top_sources" mapstructure:"fetch_top_sources"`           // pages fetched for claim text
}

// EscalationConfig controls the investigatory fallback.
type EscalationConfig struct {
	Enabled          bool          `yaml:"enabled" mapstructure:"enabled"`
	ImportanceFloor  int           `yaml:"importance_floor" mapstructure:"importance_floor"` // newsworthiness gate, 0-100
	LookbackDays     int           `yaml:"lookback_days" mapstructure:"lookback_days"`
	QueryBudget      int           `yaml:"query_budget" mapstructure:"query_budget"`
	TimeBudget       time.Duration `yaml:"time_budget" mapstructure:"time_budget"`
	CertifiedSources int           `yaml:"certified_sources" mapstructure:"certified_sources"` // credible sources for certified
	Reinvestigate    bool          `yaml:"reinvestigate" mapstructure:"reinvestigate"`
	Cooldown         time.Duration `yaml:"cooldown" mapstructure:"cooldown"` // 0 = never re-investigate

	// SeriousAllegationTerms force a human-review flag when present in
	// the topic title or description.
	SeriousAllegationTerms []string `yaml:"serious_allegation_terms" mapstructure:"serious_allegation_terms"`
}

// PlatformConfig describes one social platform search endpoint.
type PlatformConfig struct {
	Name     string `yaml:"name" mapstructure:"name"` // twitter, reddit
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
}

// SocialConfig controls the social media investigation sub-pipeline.
type SocialConfig struct {
	Enabled            bool             `yaml:"enabled" mapstructure:"enabled"`
	Platforms          []PlatformConfig `yaml:"platforms" mapstructure:"platforms"`
	MaxPosts           int              `yaml:"max_posts" mapstructure:"max_posts"`
	ClusterWindow      time.Duration    `yaml:"cluster_window" mapstructure:"cluster_window"`
	KeyMomentThreshold float64          `yaml:"key_moment_threshold" mapstructure:"key_moment_threshold"` // 0-100
}

// CacheConfig controls search/fetch response caching.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LLMConfig controls the optional investigation-notes digest.
// The digest is editor-facing only and never affects any verdict.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, ollama, "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      20 * time.Second,
			UserAgent:    "DWVerify/0.3 (+https://github.com/dailyworker-news/DWnews-sub003)",
			MaxBodyBytes: 2_000_000,
		},
		Search: SearchConfig{
			QueryTimeout: 15 * time.Second,
			ResultLimit:  20,
		},
		Verification: VerificationConfig{
			QueryBudget:          5,
			MinCredibleSources:   3,
			MinAcademicCitations: 2,
			FetchTopSources:      6,
		},
		Escalation: EscalationConfig{
			Enabled:          true,
			ImportanceFloor:  50,
			LookbackDays:     30,
			QueryBudget:      8,
			TimeBudget:       4 * time.Minute,
			CertifiedSources: 6,
			SeriousAllegationTerms: []string{
				"fraud", "assault", "abuse", "corruption", "embezzle",
				"harassment", "wrongful death", "retaliation",
			},
		},
		Social: SocialConfig{
			Enabled:            true,
			MaxPosts:           50,
			ClusterWindow:      30 * time.Minute,
			KeyMomentThreshold: 70,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     1 * time.Hour,
		},
		Store: StoreConfig{
			Path: "dwverify.db",
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 800,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
