package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Merge  MergeConfig  `yaml:"merge" mapstructure:"merge"`
	Priors PriorsConfig `yaml:"priors" mapstructure:"priors"`
	Belief BeliefConfig `yaml:"belief" mapstructure:"belief"`
	Batch  BatchConfig  `yaml:"batch" mapstructure:"batch"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// MergeConfig configures the merge pipeline.
type MergeConfig struct {
	Threshold         float64       `yaml:"threshold" mapstructure:"threshold"`
	SimilarityFloor   float64       `yaml:"similarity_floor" mapstructure:"similarity_floor"`
	NormalizeInputs   bool          `yaml:"normalize_inputs" mapstructure:"normalize_inputs"`
	BeliefConcurrency int           `yaml:"belief_concurrency" mapstructure:"belief_concurrency"`
	Weights           WeightsConfig `yaml:"weights" mapstructure:"weights"`
}

// WeightsConfig holds the alignment similarity component weights.
type WeightsConfig struct {
	Text       float64 `yaml:"text" mapstructure:"text"`
	Source     float64 `yaml:"source" mapstructure:"source"`
	Year       float64 `yaml:"year" mapstructure:"year"`
	Author     float64 `yaml:"author" mapstructure:"author"`
	Identifier float64 `yaml:"identifier" mapstructure:"identifier"`
}

// PriorsConfig points at the extractor priors file. An empty path uses the
// built-in priors.
type PriorsConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// BeliefConfig configures belief scoring resources.
type BeliefConfig struct {
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
}

// BatchConfig configures multi-document merging.
type BatchConfig struct {
	MaxConcurrentDocuments int `yaml:"max_concurrent_documents" mapstructure:"max_concurrent_documents"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port              int     `yaml:"port" mapstructure:"port"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
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
	v.SetConfigName("refmerge")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("REFMERGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("merge.threshold", 0.5)
	v.SetDefault("merge.similarity_floor", 0.5)
	v.SetDefault("merge.normalize_inputs", false)
	v.SetDefault("merge.belief_concurrency", 4)
	v.SetDefault("merge.weights.text", 0.4)
	v.SetDefault("merge.weights.source", 0.25)
	v.SetDefault("merge.weights.year", 0.2)
	v.SetDefault("merge.weights.author", 0.15)
	v.SetDefault("merge.weights.identifier", 0.3)
	v.SetDefault("priors.file", "")
	v.SetDefault("belief.data_dir", "./data")
	v.SetDefault("batch.max_concurrent_documents", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.requests_per_second", 20)
	v.SetDefault("server.burst", 40)

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

// Validate checks the settings a command mode depends on. Modes are
// "merge" and "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "merge":
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.RequestsPerSecond <= 0 {
			errs = append(errs, "server.requests_per_second must be > 0")
		}
		if c.Server.Burst < 1 {
			errs = append(errs, "server.burst must be >= 1")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Merge.Threshold < 0 || c.Merge.Threshold > 1 {
		errs = append(errs, fmt.Sprintf("merge.threshold must be between 0 and 1, got %v", c.Merge.Threshold))
	}
	if c.Merge.SimilarityFloor < 0 || c.Merge.SimilarityFloor > 1 {
		errs = append(errs, fmt.Sprintf("merge.similarity_floor must be between 0 and 1, got %v", c.Merge.SimilarityFloor))
	}
	if c.Merge.BeliefConcurrency < 1 || c.Merge.BeliefConcurrency > 64 {
		errs = append(errs, "merge.belief_concurrency must be between 1 and 64")
	}
	if c.Batch.MaxConcurrentDocuments < 1 || c.Batch.MaxConcurrentDocuments > 64 {
		errs = append(errs, "batch.max_concurrent_documents must be between 1 and 64")
	}
	w := c.Merge.Weights
	if w.Text < 0 || w.Source < 0 || w.Year < 0 || w.Author < 0 || w.Identifier < 0 {
		errs = append(errs, "merge.weights values must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LoggerConfig maps cfg onto a zap config. Format is "json" (the default)
// or "console"; every entry carries service=refmerge.
func LoggerConfig(cfg LogConfig) (zap.Config, error) {
	var zapCfg zap.Config
	switch cfg.Format {
	case "", "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return zap.Config{}, eris.Errorf("config: unknown log format %q", cfg.Format)
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return zap.Config{}, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.InitialFields = map[string]any{"service": "refmerge"}

	return zapCfg, nil
}

// InitLogger builds the logger described by cfg and installs it as zap's
// global logger.
func InitLogger(cfg LogConfig) error {
	zapCfg, err := LoggerConfig(cfg)
	if err != nil {
		return err
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	logger.Debug("config: logger ready", zap.String("level", cfg.Level), zap.String("format", cfg.Format))

	return nil
}
