package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when --config is not provided.
const DefaultConfigPath = "config.yml"

const defaultEnv = "development"

// AppConfig is the runtime configuration of the service.
type AppConfig struct {
	Port            int
	Env             string
	AllowedOrigins  []string
	LogDir          string
	LogRotateSizeMB int
	LogRotateKeep   int
	RateLimit       RateLimitConfig
	Upstream        UpstreamConfig
	Prompt          PromptConfig
}

// RateLimitConfig throttles clients per IP on the public endpoints.
type RateLimitConfig struct {
	Enable   bool
	Requests int
	Window   time.Duration
}

// UpstreamConfig selects the answer provider. Type is one of openai,
// openai-compatible, anthropic, openrouter.
type UpstreamConfig struct {
	Type     string
	Model    string
	Endpoint string
	APIKey   string
}

// PromptConfig carries deployment-tunable prompt text. An empty system
// prompt means the built-in default.
type PromptConfig struct {
	System string
}

// IsDev reports whether the service runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), defaultEnv)
}

// CredentialEnvVar names the environment variable consulted when
// upstream.api_key is absent from the file.
func (u UpstreamConfig) CredentialEnvVar() string {
	t := strings.ToLower(strings.TrimSpace(u.Type))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	if t == "anthropic" {
		return "ANTHROPIC_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// ResolveAPIKey returns the configured key, falling back to the
// provider's environment variable. Read once at startup; the resolved
// value is pinned for the process lifetime.
func (u UpstreamConfig) ResolveAPIKey() string {
	if key := strings.TrimSpace(u.APIKey); key != "" {
		return key
	}
	return strings.TrimSpace(os.Getenv(u.CredentialEnvVar()))
}

// rawAppConfig mirrors the YAML layout. Pointer fields distinguish
// "absent" from zero values; legacy flat keys are accepted alongside
// their nested spellings.
type rawAppConfig struct {
	Port               *int     `yaml:"port"`
	Env                string   `yaml:"env"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	Paths              struct {
		Logs string `yaml:"logs"`
	} `yaml:"paths"`
	LogDir          string `yaml:"log_dir"`
	LogRotateSizeMB *int   `yaml:"log_rotate_size_mb"`
	LogRotateKeep   *int   `yaml:"log_rotate_keep"`
	RateLimit       struct {
		Enable   *bool  `yaml:"enable"`
		Requests *int   `yaml:"requests"`
		Window   string `yaml:"window"`
	} `yaml:"rate_limit"`
	Upstream struct {
		Type     string `yaml:"type"`
		Model    string `yaml:"model"`
		Endpoint string `yaml:"endpoint"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"upstream"`
	Prompt struct {
		System string `yaml:"system"`
	} `yaml:"prompt"`
	SystemPrompt string `yaml:"system_prompt"`
}

func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Port:            2330,
		Env:             defaultEnv,
		LogDir:          "logs",
		LogRotateSizeMB: 50,
		LogRotateKeep:   5,
		RateLimit: RateLimitConfig{
			Enable:   true,
			Requests: 30,
			Window:   time.Minute,
		},
		Upstream: UpstreamConfig{
			Type:  "openai",
			Model: "gpt-4o-mini",
		},
	}
}

// Load reads and validates the YAML configuration at configPath.
// Unknown keys are rejected so typos fail loudly; an empty file yields
// the defaults.
func Load(configPath string) (*AppConfig, error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", configPath, err)
	}

	cfg := defaultAppConfig()

	var raw rawAppConfig
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %q: %w", configPath, err)
	}

	if err := applyRawAppConfig(cfg, &raw); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyRawAppConfig(cfg *AppConfig, raw *rawAppConfig) error {
	if raw.Port != nil {
		if *raw.Port < 1 || *raw.Port > 65535 {
			return fmt.Errorf("invalid port %d, expected 1-65535", *raw.Port)
		}
		cfg.Port = *raw.Port
	}
	if env := strings.TrimSpace(raw.Env); env != "" {
		cfg.Env = env
	}

	origins := append([]string{}, raw.AllowedOrigins...)
	origins = append(origins, raw.CORSAllowedOrigins...)
	for _, origin := range origins {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	if dir := strings.TrimSpace(raw.Paths.Logs); dir != "" {
		cfg.LogDir = dir
	} else if dir := strings.TrimSpace(raw.LogDir); dir != "" {
		cfg.LogDir = dir
	}
	if raw.LogRotateSizeMB != nil && *raw.LogRotateSizeMB > 0 {
		cfg.LogRotateSizeMB = *raw.LogRotateSizeMB
	}
	if raw.LogRotateKeep != nil && *raw.LogRotateKeep > 0 {
		cfg.LogRotateKeep = *raw.LogRotateKeep
	}

	if raw.RateLimit.Enable != nil {
		cfg.RateLimit.Enable = *raw.RateLimit.Enable
	}
	if raw.RateLimit.Requests != nil {
		if *raw.RateLimit.Requests < 1 {
			return fmt.Errorf("invalid rate_limit.requests %d, expected at least 1", *raw.RateLimit.Requests)
		}
		cfg.RateLimit.Requests = *raw.RateLimit.Requests
	}
	if window := strings.TrimSpace(raw.RateLimit.Window); window != "" {
		d, err := time.ParseDuration(window)
		if err != nil {
			return fmt.Errorf("invalid rate_limit.window %q: %w", window, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid rate_limit.window %q, expected a positive duration", window)
		}
		cfg.RateLimit.Window = d
	}

	if t := strings.TrimSpace(raw.Upstream.Type); t != "" {
		cfg.Upstream.Type = t
	}
	if model := strings.TrimSpace(raw.Upstream.Model); model != "" {
		cfg.Upstream.Model = model
	}
	cfg.Upstream.Endpoint = strings.TrimSpace(raw.Upstream.Endpoint)
	cfg.Upstream.APIKey = strings.TrimSpace(raw.Upstream.APIKey)

	if system := strings.TrimSpace(raw.Prompt.System); system != "" {
		cfg.Prompt.System = system
	} else if system := strings.TrimSpace(raw.SystemPrompt); system != "" {
		cfg.Prompt.System = system
	}

	return nil
}
