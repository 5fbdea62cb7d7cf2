package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Scorer    ScorerConfig    `mapstructure:"scorer"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Guard     GuardConfig     `mapstructure:"guard"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

// ScorerConfig points at the remote model-scoring service used by the
// ML-backed detectors.
type ScorerConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	Token           string `mapstructure:"token"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	MaxFailures     int    `mapstructure:"max_failures"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ProvidersConfig struct {
	OpenAI    ProviderConfig `mapstructure:"openai"`
	Anthropic ProviderConfig `mapstructure:"anthropic"`
	Gemini    ProviderConfig `mapstructure:"gemini"`
}

type ProviderConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type GuardConfig struct {
	DefaultPreset string `mapstructure:"default_preset"`
}

// Load reads config.yaml from configPath (falling back to ./config and
// the working directory) and overlays environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No file is fine: defaults plus environment.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("scorer.timeout_seconds", 10)
	v.SetDefault("scorer.max_failures", 5)
	v.SetDefault("scorer.cache_ttl_seconds", 300)
	v.SetDefault("redis.port", 6379)
	v.SetDefault("guard.default_preset", "standard")
	v.SetDefault("providers.openai.model", "gpt-4o-mini")
	v.SetDefault("providers.anthropic.model", "claude-3-5-haiku-latest")
	v.SetDefault("providers.gemini.model", "gemini-2.0-flash")
	v.SetDefault("providers.openai.max_tokens", 1024)
	v.SetDefault("providers.anthropic.max_tokens", 1024)
	v.SetDefault("providers.gemini.max_tokens", 1024)
}
