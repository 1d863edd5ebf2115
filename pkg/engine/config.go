package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/germanamz/modelsync/pkg/document"
	"github.com/germanamz/modelsync/pkg/modeladapter"
	"github.com/germanamz/modelsync/pkg/providers/gemini"
	"github.com/germanamz/modelsync/pkg/providers/groq"
	"gopkg.in/yaml.v3"
)

// Environment variables holding the provider credentials.
const (
	GroqKeyEnv   = "GROQ_API_KEY"
	GeminiKeyEnv = "GEMINI_API_KEY"
)

// DefaultOutput is the file written in the working directory.
const DefaultOutput = "models.json"

// Config is the top-level run configuration.
type Config struct {
	Output         string          `yaml:"output"`
	RefreshSeconds int             `yaml:"refresh_seconds"`
	Timeout        string          `yaml:"timeout"` // Per-request timeout as a duration string (e.g. "12s").
	Providers      ProvidersConfig `yaml:"providers"`
	Diff           bool            `yaml:"-"` // Set by CLI, not from YAML.
	DryRun         bool            `yaml:"-"` // Set by CLI, not from YAML.
}

// ProvidersConfig holds the settings of each supported provider.
type ProvidersConfig struct {
	Groq   ProviderConfig `yaml:"groq"`
	Gemini ProviderConfig `yaml:"gemini"`
}

// ProviderConfig describes how one provider is discovered and ranked.
type ProviderConfig struct {
	BaseURL     string           `yaml:"base_url"`
	APIKey      string           `yaml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	Deny        document.DenySet `yaml:"deny"`
	Fallback    []string         `yaml:"fallback"`
	Temperature float64          `yaml:"temperature"`
}

// namedProvider is a provider config with the key it is written under.
type namedProvider struct {
	name string
	cfg  ProviderConfig
}

// providers returns the configured providers in output order.
func (c Config) providers() []namedProvider {
	return []namedProvider{
		{name: document.Groq, cfg: c.Providers.Groq},
		{name: document.Gemini, cfg: c.Providers.Gemini},
	}
}

// DefaultConfig returns the built-in configuration. API keys are empty; see
// ApplyEnv.
func DefaultConfig() Config {
	return Config{
		Output:         DefaultOutput,
		RefreshSeconds: document.DefaultRefreshSeconds,
		Timeout:        modeladapter.DefaultTimeout.String(),
		Providers: ProvidersConfig{
			Groq: ProviderConfig{
				BaseURL:     groq.DefaultBaseURL,
				Deny:        document.NewDenySet("llama3-8b-8192"),
				Fallback:    []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant"},
				Temperature: document.GroqTemperature,
			},
			Gemini: ProviderConfig{
				BaseURL:     gemini.DefaultBaseURL,
				Deny:        document.NewDenySet("gemini-1.5-flash"),
				Fallback:    []string{"gemini-2.0-flash", "gemini-2.0-pro"},
				Temperature: document.GeminiTemperature,
			},
		},
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Keys absent from the file
// keep their defaults. An empty path returns DefaultConfig.
// Environment variables referenced as ${VAR} or $VAR in the YAML are expanded
// before parsing.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("engine: load config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv fills every API key the config file left empty from the
// provider's environment variable, looked up with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if c.Providers.Groq.APIKey == "" {
		c.Providers.Groq.APIKey = getenv(GroqKeyEnv)
	}
	if c.Providers.Gemini.APIKey == "" {
		c.Providers.Gemini.APIKey = getenv(GeminiKeyEnv)
	}
}

// RequestTimeout parses Timeout. An empty value means the default.
func (c Config) RequestTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return modeladapter.DefaultTimeout, nil
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("engine: config: invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("engine: config: timeout must be positive, got %q", c.Timeout)
	}

	return d, nil
}

// Validate checks that the configuration can produce a valid document.
func (c Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("engine: config: output is required")
	}
	if c.RefreshSeconds < 0 {
		return fmt.Errorf("engine: config: refresh_seconds must not be negative")
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}

	for _, p := range c.providers() {
		if p.cfg.BaseURL == "" {
			return fmt.Errorf("engine: config: provider %q: base_url is required", p.name)
		}
		if len(p.cfg.Fallback) == 0 {
			return fmt.Errorf("engine: config: provider %q: fallback must not be empty", p.name)
		}
		for _, id := range p.cfg.Fallback {
			if id == "" {
				return fmt.Errorf("engine: config: provider %q: fallback contains an empty id", p.name)
			}
		}
	}

	return nil
}
