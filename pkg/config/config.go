package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	pluginTypes "github.com/NeuralTrust/ContentGuard/pkg/infra/plugins/types"
	"github.com/NeuralTrust/ContentGuard/pkg/moderation"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Plugins    PluginsConfig    `mapstructure:"plugins"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	MetricsPort     int           `mapstructure:"metrics_port"`
	BodyLimit       int           `mapstructure:"body_limit"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORS            CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	ExposeHeaders    []string `mapstructure:"expose_headers"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RedisConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Host       string        `mapstructure:"host"`
	Port       int           `mapstructure:"port"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	TLS        bool          `mapstructure:"tls"`
	VerdictTTL time.Duration `mapstructure:"verdict_ttl"`
}

type ModerationConfig struct {
	Placeholder    string                       `mapstructure:"placeholder"`
	MaxBatchSize   int                          `mapstructure:"max_batch_size"`
	CustomPatterns []moderation.GroupDefinition `mapstructure:"custom_patterns"`
}

type TelemetryConfig struct {
	Kafka KafkaConfig      `mapstructure:"kafka"`
	Logs  LogsExportConfig `mapstructure:"logs"`
}

type LogsExportConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Level   string `mapstructure:"level"`
}

type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    string `mapstructure:"port"`
	Topic   string `mapstructure:"topic"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Workers int  `mapstructure:"workers"`
}

// PluginsConfig is the chain applied by the payload endpoint.
type PluginsConfig struct {
	IgnoreErrors bool                       `mapstructure:"ignore_errors"`
	Chain        []pluginTypes.PluginConfig `mapstructure:"chain"`
}

var globalConfig Config

// Load reads config.yaml from configPath (then ./config and .) into the
// global configuration. A missing file is not an error: environment
// variables and defaults still apply.
func Load(configPath string) error {
	cfg, err := loadConfigFile(configPath, "config")
	if err != nil {
		return err
	}
	globalConfig = *cfg
	return nil
}

func loadConfigFile(configPath, fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaultValues(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaultValues(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.body_limit", 1024*1024)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.tls", false)
	v.SetDefault("redis.verdict_ttl", 24*time.Hour)

	v.SetDefault("moderation.placeholder", moderation.DefaultPlaceholder)
	v.SetDefault("moderation.max_batch_size", 100)

	v.SetDefault("telemetry.kafka.enabled", false)
	v.SetDefault("telemetry.kafka.host", "localhost")
	v.SetDefault("telemetry.kafka.port", "9092")
	v.SetDefault("telemetry.kafka.topic", "contentguard.verdicts")

	v.SetDefault("server.cors.allow_credentials", false)
	v.SetDefault("server.cors.max_age", 600)

	v.SetDefault("telemetry.logs.enabled", false)
	v.SetDefault("telemetry.logs.level", "info")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.workers", 4)

	v.SetDefault("plugins.ignore_errors", false)
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Moderation.MaxBatchSize <= 0 {
		return fmt.Errorf("moderation.max_batch_size must be positive, got %d", c.Moderation.MaxBatchSize)
	}
	if c.Redis.Enabled && c.Redis.VerdictTTL < 0 {
		return fmt.Errorf("redis.verdict_ttl cannot be negative")
	}
	if c.Telemetry.Kafka.Enabled && c.Telemetry.Kafka.Topic == "" {
		return fmt.Errorf("telemetry.kafka.topic is required when kafka is enabled")
	}
	if c.Metrics.Workers <= 0 {
		c.Metrics.Workers = 1
	}
	return nil
}

// PatternSet compiles the built-in patterns extended with the configured
// custom groups.
func (c *ModerationConfig) PatternSet() (*moderation.PatternSet, error) {
	if len(c.CustomPatterns) == 0 {
		return moderation.DefaultPatternSet, nil
	}
	ps, err := moderation.DefaultPatternSet.Extend(c.CustomPatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid custom patterns: %w", err)
	}
	return ps, nil
}

// ChainOrDefault returns the configured chain, or a single content_safety
// plugin sanitizing BLOCK content when none is configured.
func (c *PluginsConfig) ChainOrDefault() []pluginTypes.PluginConfig {
	if len(c.Chain) > 0 {
		return c.Chain
	}
	return []pluginTypes.PluginConfig{
		{
			Name:    "content_safety",
			Enabled: true,
			Stage:   pluginTypes.PreRequest,
			Settings: map[string]interface{}{
				"mode":         pluginTypes.ModeEnforce,
				"action":       "sanitize",
				"min_severity": moderation.SeverityBlock.String(),
			},
		},
	}
}

func GetConfig() *Config {
	return &globalConfig
}
