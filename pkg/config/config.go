// Package config provides configuration loading for the AURA CLI.
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the main configuration structure.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Poll    PollConfig    `yaml:"poll"`
	Session SessionConfig `yaml:"session"`
	Dev     DevConfig     `yaml:"dev"`
}

// BackendConfig holds connection settings for the AURA backend.
type BackendConfig struct {
	// BaseURL is the backend base URL.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds any single HTTP request.
	Timeout time.Duration `yaml:"timeout"`

	// RateLimit caps outgoing requests per second. Zero disables it.
	RateLimit float64 `yaml:"rate_limit,omitempty"`
}

// PollConfig holds task polling settings.
type PollConfig struct {
	// Interval is the pause between task status queries.
	Interval time.Duration `yaml:"interval"`

	// MaxAttempts bounds the number of status queries per task.
	MaxAttempts int `yaml:"max_attempts"`
}

// SessionConfig holds session persistence settings.
type SessionConfig struct {
	// Path is the session file location. Empty uses the default under
	// the user config directory.
	Path string `yaml:"path,omitempty"`
}

// DevConfig holds settings for the local development server.
type DevConfig struct {
	// Listen is the address the dev server binds to.
	Listen string `yaml:"listen"`
}

// envVarPattern matches ${VAR_NAME} patterns for environment variable substitution.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load loads configuration from a YAML file with environment variable
// substitution. A missing file is not an error: defaults apply, so the CLI
// works without any configuration. Variables from a local .env file are
// loaded first.
func Load(path string) (*Config, error) {
	// Best-effort: a .env file is optional.
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("AURA_CONFIG")
		if path == "" {
			path = "aura.yaml"
		}
	}

	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	} else {
		substituted, err := substituteEnvVars(string(data))
		if err != nil {
			return nil, fmt.Errorf("substituting env vars: %w", err)
		}

		if err := yaml.Unmarshal([]byte(substituted), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
// Comment lines are skipped so commented optional sections do not require
// their variables to be set.
func substituteEnvVars(content string) (string, error) {
	var missingVars []string

	lines := strings.Split(content, "\n")

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}

		lines[i] = envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
			varName := envVarPattern.FindStringSubmatch(match)[1]

			value := os.Getenv(varName)
			if value == "" {
				missingVars = append(missingVars, varName)

				return match
			}

			return value
		})
	}

	if len(missingVars) > 0 {
		return "", fmt.Errorf("missing environment variables: %v", missingVars)
	}

	return strings.Join(lines, "\n"), nil
}

// applyDefaults sets default values for configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = os.Getenv("AURA_BASE_URL")
	}

	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:8080"
	}

	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 30 * time.Second
	}

	if cfg.Poll.Interval == 0 {
		cfg.Poll.Interval = time.Second
	}

	if cfg.Poll.MaxAttempts == 0 {
		cfg.Poll.MaxAttempts = 60
	}

	if cfg.Dev.Listen == "" {
		cfg.Dev.Listen = "localhost:8080"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("backend.base_url is invalid: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("backend.base_url must be http or https, got %q", parsed.Scheme)
	}

	if c.Poll.MaxAttempts < 0 {
		return fmt.Errorf("poll.max_attempts must not be negative")
	}

	return nil
}
