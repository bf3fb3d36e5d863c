package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Input layout
	Delimiter    string `mapstructure:"delimiter" yaml:"delimiter"`
	SMILESColumn string `mapstructure:"smiles_column" yaml:"smiles_column"`
	TargetColumn string `mapstructure:"target_column" yaml:"target_column"`

	// Split and forest hyperparameters
	TestSize        float64 `mapstructure:"test_size" yaml:"test_size"`
	RandomSeed      int64   `mapstructure:"random_seed" yaml:"random_seed"`
	NEstimators     int     `mapstructure:"n_estimators" yaml:"n_estimators"`
	MaxDepth        int     `mapstructure:"max_depth" yaml:"max_depth"`
	MinSamplesSplit int     `mapstructure:"min_samples_split" yaml:"min_samples_split"`
	MinSamplesLeaf  int     `mapstructure:"min_samples_leaf" yaml:"min_samples_leaf"`
	MaxFeatures     int     `mapstructure:"max_features" yaml:"max_features"`
	Bootstrap       bool    `mapstructure:"bootstrap" yaml:"bootstrap"`
	Workers         int     `mapstructure:"workers" yaml:"workers"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"` // console|json
}

// Default returns the built-in configuration.
func Default() *Global {
	return &Global{
		Delimiter:       ";",
		SMILESColumn:    "Smiles",
		TargetColumn:    "Standard Value",
		TestSize:        0.2,
		RandomSeed:      42,
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Bootstrap:       true,
		Workers:         runtime.NumCPU(),
		LogLevel:        "warn",
		LogFormat:       "console",
	}
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. The file is optional.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("POTENCY")
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("smiles_column", d.SMILESColumn)
	v.SetDefault("target_column", d.TargetColumn)
	v.SetDefault("test_size", d.TestSize)
	v.SetDefault("random_seed", d.RandomSeed)
	v.SetDefault("n_estimators", d.NEstimators)
	v.SetDefault("max_depth", d.MaxDepth)
	v.SetDefault("min_samples_split", d.MinSamplesSplit)
	v.SetDefault("min_samples_leaf", d.MinSamplesLeaf)
	v.SetDefault("max_features", d.MaxFeatures)
	v.SetDefault("bootstrap", d.Bootstrap)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".potency"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Global) Validate() error {
	if len([]rune(c.Delimiter)) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	if c.TestSize <= 0 || c.TestSize >= 1 {
		return fmt.Errorf("test_size must be in (0, 1), got %v", c.TestSize)
	}
	if c.NEstimators < 1 {
		return fmt.Errorf("n_estimators must be positive, got %d", c.NEstimators)
	}
	if c.MinSamplesSplit < 2 {
		return fmt.Errorf("min_samples_split must be at least 2, got %d", c.MinSamplesSplit)
	}
	if c.MinSamplesLeaf < 1 {
		return fmt.Errorf("min_samples_leaf must be at least 1, got %d", c.MinSamplesLeaf)
	}
	return nil
}

// DelimiterRune returns the configured CSV delimiter.
func (c *Global) DelimiterRune() rune { return []rune(c.Delimiter)[0] }

// YAML renders the configuration.
func (c *Global) YAML() (string, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal yaml: %w", err)
	}
	return string(b), nil
}
