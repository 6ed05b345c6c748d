package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Dataset DatasetConfig `yaml:"dataset"`
	Bench   BenchConfig   `yaml:"bench"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

type DatasetConfig struct {
	Distributions []string `yaml:"distributions"` // random, binomial, poisson, exponential, lognormal
	Size          int      `yaml:"size"`
	NumPages      int      `yaml:"num_pages"` // records per location bucket
	Seed          uint64   `yaml:"seed"`
	Path          string   `yaml:"path"` // directory holding generated *.dat files
}

type BenchConfig struct {
	Degree    int      `yaml:"degree"`
	Indexes   []string `yaml:"indexes"` // bt, gbt, lr, rmi
	Folds     int      `yaml:"folds"`
	Queries   int      `yaml:"queries"`
	RMIFanout int      `yaml:"rmi_fanout"`
	ResultsDB string   `yaml:"results_db"`
	ModelDir  string   `yaml:"model_dir"`
}

type ServerConfig struct {
	Addr   string `yaml:"addr"`
	Degree int    `yaml:"degree"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func defaults() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Distributions: []string{"random"},
			Size:          500000,
			NumPages:      100,
			Seed:          1,
			Path:          "data",
		},
		Bench: BenchConfig{
			Degree:    2,
			Indexes:   []string{"bt", "gbt", "lr", "rmi"},
			Folds:     5,
			Queries:   10000,
			RMIFanout: 1000,
			ResultsDB: "results.db",
			ModelDir:  "models",
		},
		Server: ServerConfig{
			Addr:   ":8080",
			Degree: 16,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML config at configPath on top of the defaults. With an
// empty path it tries configs/indexbench.yaml then indexbench.yaml and falls
// back to the defaults when neither exists.
func Load(configPath string) (*Config, error) {
	cfg := defaults()

	if configPath == "" {
		for _, p := range []string{"configs/indexbench.yaml", "indexbench.yaml"} {
			data, err := os.ReadFile(p)
			if err == nil {
				if err := yaml.Unmarshal(data, cfg); err != nil {
					return cfg, errors.Wrapf(err, "parse %s", p)
				}
				applyDefaults(cfg)
				return cfg, nil
			}
		}
		applyDefaults(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse %s", configPath)
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := defaults()
	if len(cfg.Dataset.Distributions) == 0 {
		cfg.Dataset.Distributions = def.Dataset.Distributions
	}
	if cfg.Dataset.Size <= 0 {
		cfg.Dataset.Size = def.Dataset.Size
	}
	if cfg.Dataset.NumPages <= 0 {
		cfg.Dataset.NumPages = def.Dataset.NumPages
	}
	if cfg.Bench.Degree < 2 {
		cfg.Bench.Degree = def.Bench.Degree
	}
	if len(cfg.Bench.Indexes) == 0 {
		cfg.Bench.Indexes = def.Bench.Indexes
	}
	for i, kind := range cfg.Bench.Indexes {
		cfg.Bench.Indexes[i] = strings.ToLower(strings.TrimSpace(kind))
	}
	if cfg.Bench.Folds <= 0 {
		cfg.Bench.Folds = def.Bench.Folds
	}
	if cfg.Bench.Queries <= 0 {
		cfg.Bench.Queries = def.Bench.Queries
	}
	if cfg.Bench.RMIFanout <= 0 {
		cfg.Bench.RMIFanout = def.Bench.RMIFanout
	}
	if cfg.Server.Degree < 2 {
		cfg.Server.Degree = def.Server.Degree
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
}
