package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"tripcrew/pkg/agent"
)

var ErrMissingCredential = errors.New("missing credential")

// Config holds process-wide settings, loaded once at startup.
type Config struct {
	Port     string
	LogLevel string

	LLMProvider string
	LLMAPIKey   string
	LLMModel    string
	LLMBaseURL  string

	SearchAPIKey   string
	SearchEngineID string
	MaxToolCalls   int

	PipelinePreset string
	PipelineFile   string
	// MaxRPM of 0 means the pipeline's own ceiling; negative disables it.
	MaxRPM          int
	CoverageRetries int
	StrictCoverage  bool
	PipelineTimeout time.Duration

	JWTSecret string
	JWTRole   string
}

// Load reads the configuration and fails on missing credentials.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read reads an optional .env file, then the environment, without checking
// credentials. Commands that never call a model use it directly.
func Read() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	provider := strings.ToLower(getEnv("LLM_PROVIDER", "gemini"))
	cfg := &Config{
		Port:     getEnv("PORT", "5000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LLMProvider: provider,
		LLMModel:    os.Getenv("LLM_MODEL"),
		LLMBaseURL:  os.Getenv("LLM_BASE_URL"),

		SearchAPIKey:   os.Getenv("SEARCH_API_KEY"),
		SearchEngineID: os.Getenv("SEARCH_ENGINE_ID"),
		MaxToolCalls:   getEnvAsInt("LLM_MAX_TOOL_CALLS", 8),

		PipelinePreset:  getEnv("PIPELINE_PRESET", "three-stage"),
		PipelineFile:    os.Getenv("PIPELINE_FILE"),
		MaxRPM:          getEnvAsInt("PIPELINE_MAX_RPM", 0),
		CoverageRetries: getEnvAsInt("PIPELINE_COVERAGE_RETRIES", 1),
		StrictCoverage:  getEnvAsBool("PIPELINE_STRICT_COVERAGE", false),
		PipelineTimeout: getEnvAsDuration("PIPELINE_TIMEOUT", 5*time.Minute),

		JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		JWTRole:   os.Getenv("AUTH_REQUIRED_ROLE"),
	}

	switch provider {
	case "openai":
		cfg.LLMAPIKey = os.Getenv("OPENAI_API_KEY")
	default:
		cfg.LLMAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	return cfg, nil
}

// Validate reports the first missing credential. An absent key must stop
// startup rather than produce empty itineraries later.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q: use gemini or openai", c.LLMProvider)
	}
	if c.LLMAPIKey == "" {
		return fmt.Errorf("%w: %s_API_KEY is required when using the %s provider",
			ErrMissingCredential, strings.ToUpper(c.LLMProvider), c.LLMProvider)
	}
	if c.SearchAPIKey == "" {
		return fmt.Errorf("%w: SEARCH_API_KEY is required", ErrMissingCredential)
	}
	if c.SearchEngineID == "" {
		return fmt.Errorf("%w: SEARCH_ENGINE_ID is required", ErrMissingCredential)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// AgentConfig is the subset the capability factory needs.
func (c *Config) AgentConfig() agent.FactoryConfig {
	return agent.FactoryConfig{
		Provider:       c.LLMProvider,
		APIKey:         c.LLMAPIKey,
		Model:          c.LLMModel,
		BaseURL:        c.LLMBaseURL,
		SearchAPIKey:   c.SearchAPIKey,
		SearchEngineID: c.SearchEngineID,
		MaxToolCalls:   c.MaxToolCalls,
	}
}
