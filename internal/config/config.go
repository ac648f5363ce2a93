package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the buscador API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Auth      AuthConfig      `yaml:"auth"`
	Search    SearchConfig    `yaml:"search"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds the Postgres catalog connection settings.
type DatabaseConfig struct {
	URL             string `yaml:"url"`
	MaxConnections  int32  `yaml:"max_connections"`
	ConnLifetimeMin int    `yaml:"conn_lifetime_min"`
}

// CacheConfig holds the optional Redis embedding-cache settings.
// Leave addrs empty to run without a cache.
type CacheConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLHours int      `yaml:"ttl_hours"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// SemanticParams tunes one semantic lookup call site.
type SemanticParams struct {
	Threshold float64 `yaml:"threshold"`
	Limit     int     `yaml:"limit"`
}

// SearchConfig gathers every retrieval and scoring knob in one place. The
// historical implementations scattered these as literals (thresholds 0.2-0.5,
// caps 5-20); here they are named, documented defaults, tunable per deployment.
type SearchConfig struct {
	// Lexical retrieval.
	LexicalLimit      int `yaml:"lexical_limit"`       // candidate cap per lexical lookup
	ProductMinResults int `yaml:"product_min_results"` // widen product retrieval below this
	LexicalMinResults int `yaml:"lexical_min_results"` // full-text fallback below this

	// Semantic retrieval, per call site: rescue runs loose (last resort, wide
	// recall), precision runs tight (context filtering).
	SemanticRescue    SemanticParams `yaml:"semantic_rescue"`
	SemanticPrecision SemanticParams `yaml:"semantic_precision"`

	// Context detection.
	ContextCategoryLimit int     `yaml:"context_category_limit"`
	ExactConfidence      float64 `yaml:"exact_confidence"`
	FuzzyConfidence      float64 `yaml:"fuzzy_confidence"`
	KeywordConfidence    float64 `yaml:"keyword_confidence"`
	// A semantic-only category may lead the context ranking only above this
	// similarity, and only when no lexical/keyword category exists.
	SemanticOverrideBar float64 `yaml:"semantic_override_bar"`

	Scoring ScoringConfig `yaml:"scoring"`

	// Presentation bars and caps.
	BusinessProfileBar float64 `yaml:"business_profile_bar"`
	CategoryBrowseBar  float64 `yaml:"category_browse_bar"`
	RelatedBusinessCap int     `yaml:"related_business_cap"`
	FeaturedProductCap int     `yaml:"featured_product_cap"`

	// Per-source timeout and overall deadline. A timed-out source degrades to
	// zero candidates, the same as a failed one.
	SourceTimeoutMS  int `yaml:"source_timeout_ms"`
	SearchDeadlineMS int `yaml:"search_deadline_ms"`
}

// ScoringConfig holds the additive scoring model weights.
type ScoringConfig struct {
	BusinessBase          float64 `yaml:"business_base"`
	BusinessExactBonus    float64 `yaml:"business_exact_bonus"`
	BusinessPrefixBonus   float64 `yaml:"business_prefix_bonus"`
	BusinessContainsBonus float64 `yaml:"business_contains_bonus"`
	BusinessContextBonus  float64 `yaml:"business_context_bonus"`

	CategoryExactScore float64 `yaml:"category_exact_score"`

	ProductBase             float64 `yaml:"product_base"`
	ProductContainsBonus    float64 `yaml:"product_contains_bonus"`
	ProductSemanticMaxBonus float64 `yaml:"product_semantic_max_bonus"`
	// CoherenceBoost rewards a product whose owning business's category is in
	// the detected core context; PeripheryBoost applies for periphery-only.
	CoherenceBoost float64 `yaml:"coherence_boost"`
	PeripheryBoost float64 `yaml:"periphery_boost"`

	NoiseFloor float64 `yaml:"noise_floor"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.MaxConnections <= 0 {
		c.Database.MaxConnections = 25
	}
	if c.Database.ConnLifetimeMin <= 0 {
		c.Database.ConnLifetimeMin = 60
	}
	if c.Cache.TTLHours <= 0 {
		c.Cache.TTLHours = 24 * 7
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	c.Search.applyDefaults()
}

func (s *SearchConfig) applyDefaults() {
	if s.LexicalLimit <= 0 {
		s.LexicalLimit = 20
	}
	if s.ProductMinResults <= 0 {
		s.ProductMinResults = 3
	}
	if s.LexicalMinResults <= 0 {
		s.LexicalMinResults = 1
	}
	if s.SemanticRescue.Threshold <= 0 {
		s.SemanticRescue.Threshold = 0.30
	}
	if s.SemanticRescue.Limit <= 0 {
		s.SemanticRescue.Limit = 10
	}
	if s.SemanticPrecision.Threshold <= 0 {
		s.SemanticPrecision.Threshold = 0.38
	}
	if s.SemanticPrecision.Limit <= 0 {
		s.SemanticPrecision.Limit = 5
	}
	if s.ContextCategoryLimit <= 0 {
		s.ContextCategoryLimit = 5
	}
	if s.ExactConfidence <= 0 {
		s.ExactConfidence = 100
	}
	if s.FuzzyConfidence <= 0 {
		s.FuzzyConfidence = 92
	}
	if s.KeywordConfidence <= 0 {
		s.KeywordConfidence = 82
	}
	if s.SemanticOverrideBar <= 0 {
		s.SemanticOverrideBar = 0.85
	}
	if s.BusinessProfileBar <= 0 {
		s.BusinessProfileBar = 90
	}
	if s.CategoryBrowseBar <= 0 {
		s.CategoryBrowseBar = 70
	}
	if s.RelatedBusinessCap <= 0 {
		s.RelatedBusinessCap = 6
	}
	if s.FeaturedProductCap <= 0 {
		s.FeaturedProductCap = 8
	}
	if s.SourceTimeoutMS <= 0 {
		s.SourceTimeoutMS = 1500
	}
	if s.SearchDeadlineMS <= 0 {
		s.SearchDeadlineMS = 5000
	}
	s.Scoring.applyDefaults()
}

func (sc *ScoringConfig) applyDefaults() {
	if sc.BusinessBase <= 0 {
		sc.BusinessBase = 50
	}
	if sc.BusinessExactBonus <= 0 {
		sc.BusinessExactBonus = 50
	}
	if sc.BusinessPrefixBonus <= 0 {
		sc.BusinessPrefixBonus = 40
	}
	if sc.BusinessContainsBonus <= 0 {
		sc.BusinessContainsBonus = 20
	}
	if sc.BusinessContextBonus <= 0 {
		sc.BusinessContextBonus = 15
	}
	if sc.CategoryExactScore <= 0 {
		sc.CategoryExactScore = 92
	}
	if sc.ProductBase <= 0 {
		sc.ProductBase = 50
	}
	if sc.ProductContainsBonus <= 0 {
		sc.ProductContainsBonus = 40
	}
	if sc.ProductSemanticMaxBonus <= 0 {
		sc.ProductSemanticMaxBonus = 30
	}
	if sc.CoherenceBoost <= 0 {
		sc.CoherenceBoost = 50
	}
	if sc.PeripheryBoost <= 0 {
		sc.PeripheryBoost = 10
	}
	if sc.NoiseFloor <= 0 {
		sc.NoiseFloor = 40
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if t := c.Search.SemanticRescue.Threshold; t > 1 {
		return fmt.Errorf("search.semantic_rescue.threshold must be in (0,1], got %v", t)
	}
	if t := c.Search.SemanticPrecision.Threshold; t > 1 {
		return fmt.Errorf("search.semantic_precision.threshold must be in (0,1], got %v", t)
	}
	if b := c.Search.SemanticOverrideBar; b > 1 {
		return fmt.Errorf("search.semantic_override_bar must be in (0,1], got %v", b)
	}
	if c.Search.Scoring.NoiseFloor >= c.Search.BusinessProfileBar {
		return fmt.Errorf("search.scoring.noise_floor must be below search.business_profile_bar")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
