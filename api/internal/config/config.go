package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ResponseMode selects how the model is asked to shape its reply.
type ResponseMode string

const (
	// ModeStructured asks Gemini for schema-constrained JSON.
	ModeStructured ResponseMode = "structured"
	// ModeText asks for free text and recovers the JSON object from it.
	ModeText ResponseMode = "text"
)

// Config is assembled once at startup and never mutated afterwards.
type Config struct {
	Port string `yaml:"port"`

	GeminiAPIKey     string       `yaml:"gemini_api_key"`
	GeminiModel      string       `yaml:"gemini_model"`
	SubmissionAPIKey string       `yaml:"submission_api_key"`
	ResponseMode     ResponseMode `yaml:"response_mode"`
	MaxOutputTokens  int32        `yaml:"max_output_tokens"`

	MaxBodyBytes     int64         `yaml:"max_body_bytes"`
	CORSAllowOrigins []string      `yaml:"cors_allow_origins"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	GinMode          string        `yaml:"gin_mode"`
}

const (
	DefaultPort            = "3000"
	DefaultGeminiModel     = "gemini-2.5-flash"
	DefaultMaxOutputTokens = 1024
	DefaultMaxBodyBytes    = 50 << 20
)

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:             DefaultPort,
		GeminiModel:      DefaultGeminiModel,
		ResponseMode:     ModeStructured,
		MaxOutputTokens:  DefaultMaxOutputTokens,
		MaxBodyBytes:     DefaultMaxBodyBytes,
		CORSAllowOrigins: []string{"*"},
		ReadTimeout:      60 * time.Second,
		WriteTimeout:     5 * time.Minute,
		GinMode:          "release",
	}
}

// Load builds a Config from defaults, the optional YAML file named by
// VOICEGUARD_CONFIG and then the environment, in that order of precedence.
// Missing secrets are not an error here: the gateway rejects requests instead.
func Load(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Defaults()

	if path := strings.TrimSpace(getenv("VOICEGUARD_CONFIG")); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Port = getEnv(getenv, "PORT", cfg.Port)
	cfg.GeminiAPIKey = getEnv(getenv, "GEMINI_API_KEY", getEnv(getenv, "API_KEY", cfg.GeminiAPIKey))
	cfg.GeminiModel = getEnv(getenv, "GEMINI_MODEL", cfg.GeminiModel)
	cfg.SubmissionAPIKey = getEnv(getenv, "SUBMISSION_API_KEY", cfg.SubmissionAPIKey)
	cfg.ResponseMode = ResponseMode(strings.ToLower(getEnv(getenv, "RESPONSE_MODE", string(cfg.ResponseMode))))
	cfg.GinMode = getEnv(getenv, "GIN_MODE", cfg.GinMode)

	if v := getEnv(getenv, "CORS_ALLOW_ORIGINS", ""); v != "" {
		cfg.CORSAllowOrigins = splitList(v)
	}

	var err error
	if v := getEnv(getenv, "MAX_OUTPUT_TOKENS", ""); v != "" {
		n, perr := strconv.ParseInt(v, 10, 32)
		if perr != nil || n <= 0 {
			return Config{}, fmt.Errorf("MAX_OUTPUT_TOKENS: invalid value %q", v)
		}
		cfg.MaxOutputTokens = int32(n)
	}
	if v := getEnv(getenv, "MAX_BODY_BYTES", ""); v != "" {
		n, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil || n <= 0 {
			return Config{}, fmt.Errorf("MAX_BODY_BYTES: invalid value %q", v)
		}
		cfg.MaxBodyBytes = n
	}
	if cfg.ReadTimeout, err = getDuration(getenv, "READ_TIMEOUT", cfg.ReadTimeout); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getDuration(getenv, "WRITE_TIMEOUT", cfg.WriteTimeout); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would make the service unusable regardless of
// the request. Secrets are deliberately not checked.
func (c Config) Validate() error {
	switch c.ResponseMode {
	case ModeStructured, ModeText:
	default:
		return fmt.Errorf("response mode %q: use %q or %q", c.ResponseMode, ModeStructured, ModeText)
	}
	if strings.TrimSpace(c.GeminiModel) == "" {
		return fmt.Errorf("gemini model is empty")
	}
	if c.MaxOutputTokens <= 0 {
		return fmt.Errorf("max output tokens must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive")
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("gin mode %q: use debug, release or test", c.GinMode)
	}
	return nil
}

// Addr is the listen address for the server variant.
func (c Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

func getEnv(getenv func(string) string, k, def string) string {
	if v := strings.TrimSpace(getenv(k)); v != "" {
		return v
	}
	return def
}

func getDuration(getenv func(string) string, k string, def time.Duration) (time.Duration, error) {
	v := getEnv(getenv, k, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
