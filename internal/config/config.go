package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/profile-cli/internal/match"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Crawl  CrawlConfig  `yaml:"crawl" mapstructure:"crawl"`
	Match  MatchConfig  `yaml:"match" mapstructure:"match"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures snapshot persistence.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	Path   string `yaml:"path" mapstructure:"path"`
}

// CrawlConfig configures the crawl phase.
type CrawlConfig struct {
	Workers      int      `yaml:"workers" mapstructure:"workers"`
	TimeoutSecs  int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxBodyBytes int64    `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	UserAgents   []string `yaml:"user_agents" mapstructure:"user_agents"`
	RatePerHost  float64  `yaml:"rate_per_host" mapstructure:"rate_per_host"`
}

// MatchConfig configures the lookup engine.
type MatchConfig struct {
	Region  string        `yaml:"region" mapstructure:"region"`
	Weights match.Weights `yaml:"weights" mapstructure:"weights"`
}

// ServerConfig configures the lookup server.
type ServerConfig struct {
	Port     int     `yaml:"port" mapstructure:"port"`
	MinScore float64 `yaml:"min_score" mapstructure:"min_score"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROFILE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "json")
	v.SetDefault("store.path", "profiles.json")
	v.SetDefault("crawl.workers", 32)
	v.SetDefault("crawl.timeout_secs", 7)
	v.SetDefault("crawl.max_body_bytes", 100*1024)
	v.SetDefault("crawl.rate_per_host", 4)
	v.SetDefault("match.region", "US")
	v.SetDefault("match.weights.name", 2)
	v.SetDefault("match.weights.domain", 2)
	v.SetDefault("match.weights.phone", 1)
	v.SetDefault("match.weights.facebook", 1)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.min_score", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
