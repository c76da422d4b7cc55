package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
	"gopkg.in/yaml.v3"
)

// Recommendation provider names accepted by RECOMMENDATION_PROVIDER.
const (
	ProviderNone  = "none"
	ProviderREST  = "rest"
	ProviderGenAI = "genai"
)

// Config carries settings for the API and worker processes. Values come from an optional
// YAML file named by CONFIG_FILE, then environment variables override them.
type Config struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	PostgresDSN    string        `yaml:"postgres_dsn"`
	RedisAddr      string        `yaml:"redis_addr"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl"`

	TemporalAddress   string `yaml:"temporal_address"`
	TemporalNamespace string `yaml:"temporal_namespace"`
	TemporalDisabled  bool   `yaml:"temporal_disabled"`

	RecommendationProvider    string        `yaml:"recommendation_provider"`
	RecommendationEndpointURL string        `yaml:"recommendation_endpoint_url"`
	RecommendationAPIKey      string        `yaml:"recommendation_api_key"`
	RecommendationModel       string        `yaml:"recommendation_model"`
	RecommendationTimeout     time.Duration `yaml:"recommendation_timeout"`

	RateLimitCapacity int           `yaml:"rate_limit_capacity"`
	RateLimitRefill   time.Duration `yaml:"rate_limit_refill"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Port:              "8080",
		ShutdownTimeout:   10 * time.Second,
		IdempotencyTTL:    24 * time.Hour,
		TemporalAddress:   client.DefaultHostPort,
		TemporalNamespace: client.DefaultNamespace,
		RateLimitCapacity: 10,
		RateLimitRefill:   time.Minute,
	}
}

// LoadConfig reads CONFIG_FILE and environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	c.Port = envDefault("PORT", c.Port)
	c.PostgresDSN = envDefault("POSTGRES_DSN", c.PostgresDSN)
	c.RedisAddr = envDefault("REDIS_ADDR", c.RedisAddr)
	c.TemporalAddress = envDefault("TEMPORAL_ADDRESS", c.TemporalAddress)
	c.TemporalNamespace = envDefault("TEMPORAL_NAMESPACE", c.TemporalNamespace)
	if raw, ok := os.LookupEnv("TEMPORAL_DISABLED"); ok {
		c.TemporalDisabled = isTruthy(raw)
	}
	c.RecommendationProvider = envDefault("RECOMMENDATION_PROVIDER", c.RecommendationProvider)
	c.RecommendationEndpointURL = envDefault("RECOMMENDATION_ENDPOINT_URL", c.RecommendationEndpointURL)
	c.RecommendationAPIKey = envDefault("RECOMMENDATION_API_KEY", c.RecommendationAPIKey)
	c.RecommendationModel = envDefault("RECOMMENDATION_MODEL", c.RecommendationModel)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SHUTDOWN_TIMEOUT", &c.ShutdownTimeout},
		{"IDEMPOTENCY_TTL", &c.IdempotencyTTL},
		{"RECOMMENDATION_TIMEOUT", &c.RecommendationTimeout},
		{"RATE_LIMIT_REFILL", &c.RateLimitRefill},
	}
	for _, d := range durations {
		raw := strings.TrimSpace(os.Getenv(d.key))
		if raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%s must be a duration such as 30s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	if raw := strings.TrimSpace(os.Getenv("RATE_LIMIT_CAPACITY")); raw != "" {
		capacity, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_CAPACITY must be an integer")
		}
		c.RateLimitCapacity = capacity
	}
	return nil
}

func (c *Config) validate() error {
	c.RecommendationProvider = strings.ToLower(strings.TrimSpace(c.RecommendationProvider))
	switch c.RecommendationProvider {
	case "":
		if c.RecommendationAPIKey != "" {
			c.RecommendationProvider = ProviderREST
		} else {
			c.RecommendationProvider = ProviderNone
		}
	case ProviderNone, ProviderREST, ProviderGenAI:
	default:
		return fmt.Errorf("RECOMMENDATION_PROVIDER must be one of %s, %s, %s", ProviderNone, ProviderREST, ProviderGenAI)
	}
	if c.RecommendationProvider != ProviderNone && c.RecommendationAPIKey == "" {
		return fmt.Errorf("RECOMMENDATION_API_KEY is required for provider %s", c.RecommendationProvider)
	}
	if c.RecommendationTimeout < 0 {
		return fmt.Errorf("RECOMMENDATION_TIMEOUT must not be negative")
	}
	if c.RateLimitCapacity < 0 {
		return fmt.Errorf("RATE_LIMIT_CAPACITY must not be negative")
	}
	if c.RateLimitCapacity > 0 && c.RateLimitRefill <= 0 {
		return fmt.Errorf("RATE_LIMIT_REFILL must be positive when rate limiting is enabled")
	}
	return nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
