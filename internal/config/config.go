// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/spf13/viper"
)

const (
	// AppName is the config file base name and log identifier.
	AppName = "match_agent"
	// EnvPrefix prefixes every environment override, e.g. MATCHER_WORKERS.
	EnvPrefix = "MATCHER"
	// DefaultWorkers bounds batch scoring concurrency.
	DefaultWorkers = 4
)

// Config is the merged configuration from defaults, the YAML file and the
// environment. Later sources win.
type Config struct {
	DatabaseURL        string          `mapstructure:"database_url"`
	APIKey             string          `mapstructure:"api_key"`
	UseBrowser         bool            `mapstructure:"use_browser"`
	Workers            int             `mapstructure:"workers"`
	Explain            bool            `mapstructure:"explain"`
	SkillOverlay       string          `mapstructure:"skill_overlay"`
	PreferPresentRange bool            `mapstructure:"prefer_present_range"`
	Weights            ranking.Weights `mapstructure:"weights"`
	LLM                LLMConfig       `mapstructure:"llm"`
}

// LLMConfig selects models for each tier and for embeddings.
type LLMConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	Lite           string  `mapstructure:"lite"`
	Standard       string  `mapstructure:"standard"`
	Advanced       string  `mapstructure:"advanced"`
	EmbeddingModel string  `mapstructure:"embedding_model"`
	Temperature    float64 `mapstructure:"temperature"`
}

// Load reads configuration. An explicit path must exist; without one,
// match_agent.yaml in the working directory is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api_key", EnvPrefix+"_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}
	if err := v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind database url env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	w := ranking.DefaultWeights()
	v.SetDefault("database_url", "")
	v.SetDefault("api_key", "")
	v.SetDefault("use_browser", false)
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("explain", false)
	v.SetDefault("skill_overlay", "")
	v.SetDefault("prefer_present_range", true)
	v.SetDefault("weights.skill_match", w.SkillMatch)
	v.SetDefault("weights.experience", w.Experience)
	v.SetDefault("weights.project_similarity", w.ProjectSimilarity)
	v.SetDefault("weights.domain_familiarity", w.DomainFamiliarity)

	d := llm.DefaultConfig()
	v.SetDefault("llm.enabled", true)
	v.SetDefault("llm.lite", d.GetModel(llm.TierLite))
	v.SetDefault("llm.standard", d.GetModel(llm.TierStandard))
	v.SetDefault("llm.advanced", d.GetModel(llm.TierAdvanced))
	v.SetDefault("llm.embedding_model", d.GetEmbeddingModel())
	v.SetDefault("llm.temperature", float64(d.Temperature))
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("config error: 'workers' must be at least 1")
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("config error: 'llm.temperature' must be between 0 and 2")
	}
	if c.SkillOverlay != "" {
		if _, err := os.Stat(c.SkillOverlay); os.IsNotExist(err) {
			return fmt.Errorf("config error: skill overlay not found: %s", c.SkillOverlay)
		}
	}
	return nil
}

// LLMEnabled reports whether model-backed stages can run.
func (c *Config) LLMEnabled() bool {
	return c.LLM.Enabled && c.APIKey != ""
}

// ModelConfig converts the LLM section into the llm package's Config.
func (c *Config) ModelConfig() *llm.Config {
	out := llm.DefaultConfig()
	if c.LLM.Lite != "" {
		out = out.WithModel(llm.TierLite, c.LLM.Lite)
	}
	if c.LLM.Standard != "" {
		out = out.WithModel(llm.TierStandard, c.LLM.Standard)
	}
	if c.LLM.Advanced != "" {
		out = out.WithModel(llm.TierAdvanced, c.LLM.Advanced)
	}
	if c.LLM.EmbeddingModel != "" {
		out = out.WithEmbeddingModel(c.LLM.EmbeddingModel)
	}
	out.Temperature = float32(c.LLM.Temperature)
	return out
}
