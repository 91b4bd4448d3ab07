// Package config resolves settings from defaults, an optional YAML file,
// a .env file and KANATRAIN_* environment variables, in that order.
// Command flags are applied last by the commands themselves.
package config

import (
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/juruen/kanatrain/alphabet"
	"github.com/juruen/kanatrain/classifier/forest"
	"github.com/juruen/kanatrain/classifier/mlp"
	"github.com/juruen/kanatrain/dataset"
	"github.com/juruen/kanatrain/evaluate"
	"github.com/juruen/kanatrain/log"
	"github.com/juruen/kanatrain/synth"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	DefaultFile    = "kanatrain.yaml"
	DefaultEnvFile = ".env"
)

type Config struct {
	Dataset         string   `yaml:"dataset"`
	Alphabet        string   `yaml:"alphabet"`
	DataSource      string   `yaml:"data_source"`
	InputSize       int      `yaml:"input_size"`
	FontSize        float64  `yaml:"font_size"`
	FontPaths       []string `yaml:"font_paths"`
	FontDiscovery   bool     `yaml:"font_discovery"`
	Seed            int64    `yaml:"seed"`
	TargetSamples   int      `yaml:"target_samples"`
	PerChar         int      `yaml:"per_char"`
	FeaturesPerChar int      `yaml:"features_per_char"`
	Workers         int      `yaml:"workers"`
	TestSize        float64  `yaml:"test_size"`
	OutputDir       string   `yaml:"output_dir"`
	SigningKey      string   `yaml:"signing_key"`

	Forest  ForestConfig  `yaml:"forest"`
	Network NetworkConfig `yaml:"network"`
}

type ForestConfig struct {
	Estimators int    `yaml:"n_estimators"`
	MaxDepth   int    `yaml:"max_depth"`
	ModelPath  string `yaml:"model_path"`
}

type NetworkConfig struct {
	Hidden       []int   `yaml:"hidden"`
	Epochs       int     `yaml:"epochs"`
	BatchSize    int     `yaml:"batch_size"`
	LearningRate float64 `yaml:"learning_rate"`
	ModelPath    string  `yaml:"model_path"`
	// Payload selects the training input, "features" or "image"
	Payload string `yaml:"payload"`
}

func Default() *Config {
	fc := forest.DefaultConfig()
	nc := mlp.DefaultConfig()
	return &Config{
		Dataset:         dataset.DefaultPath,
		Alphabet:        "hiragana",
		DataSource:      dataset.SourceSynthetic,
		InputSize:       synth.DefaultSize,
		FontSize:        synth.DefaultFontSize,
		FontPaths:       synth.DefaultFontPaths,
		FontDiscovery:   true,
		Seed:            fc.Seed,
		TargetSamples:   1000,
		PerChar:         50,
		FeaturesPerChar: 50,
		Workers:         runtime.NumCPU(),
		TestSize:        0.2,
		OutputDir:       ".",
		Forest: ForestConfig{
			Estimators: fc.NEstimators,
			MaxDepth:   fc.MaxDepth,
			ModelPath:  forest.DefaultPath,
		},
		Network: NetworkConfig{
			Hidden:       nc.Hidden,
			Epochs:       nc.Epochs,
			BatchSize:    nc.BatchSize,
			LearningRate: nc.LearningRate,
			ModelPath:    mlp.DefaultPath,
			Payload:      dataset.PayloadFeatures.String(),
		},
	}
}

// Load resolves the configuration. An empty path falls back to
// DefaultFile when present; an explicit path must exist. A missing env
// file is ignored.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, errors.Wrapf(err, "can't parse config %s", path)
		}
		log.Trace.Printf("config loaded from %s", path)
	case os.IsNotExist(err) && !explicit:
		log.Trace.Printf("no config file %s, using defaults", path)
	default:
		return nil, errors.Wrapf(err, "can't read config %s", path)
	}

	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Trace.Printf("env file %s not loaded: %v", envFile, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := alphabet.ByName(c.Alphabet); err != nil {
		return err
	}
	if c.InputSize <= 0 {
		return errors.Errorf("input_size must be positive, got %d", c.InputSize)
	}
	if !evaluate.ValidTestFraction(c.TestSize) {
		return errors.Errorf("test_size must be in (0, 1), got %v", c.TestSize)
	}
	if _, err := dataset.ParsePayload(c.Network.Payload); err != nil {
		return err
	}
	return nil
}

func (c *Config) Table() (*alphabet.Table, error) {
	return alphabet.ByName(c.Alphabet)
}

func (c *Config) FontChain() synth.FontChain {
	chain := synth.DefaultFontChain()
	chain.Paths = c.FontPaths
	chain.Discover = c.FontDiscovery
	chain.Size = c.FontSize
	return chain
}

func (c *Config) ForestConfig() forest.Config {
	fc := forest.DefaultConfig()
	fc.NEstimators = c.Forest.Estimators
	fc.MaxDepth = c.Forest.MaxDepth
	fc.Seed = c.Seed
	fc.Workers = c.Workers
	return fc
}

func (c *Config) NetworkConfig() mlp.Config {
	nc := mlp.DefaultConfig()
	nc.Hidden = c.Network.Hidden
	nc.Epochs = c.Network.Epochs
	nc.BatchSize = c.Network.BatchSize
	nc.LearningRate = c.Network.LearningRate
	nc.Concurrency = c.Workers
	nc.Seed = c.Seed
	return nc
}
