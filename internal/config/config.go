package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines pipeline configuration.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Build   BuildConfig   `yaml:"build"`
	Split   SplitConfig   `yaml:"split"`
	Catalog CatalogConfig `yaml:"catalog"`
	Log     LogConfig     `yaml:"log"`
}

type DataConfig struct {
	// Root is the directory holding processed canonical artifacts.
	Root string `yaml:"root"`
	// RawPath is the directory holding raw event logs.
	RawPath string `yaml:"raw_path"`
	// Dataset names the dataset to process; "yelp" selects the Yelp provider.
	Dataset string `yaml:"dataset"`
	// ItemFeatures enables loading item title/description records.
	ItemFeatures bool `yaml:"item_features"`
}

type BuildConfig struct {
	RatingThreshold float64 `yaml:"rating_threshold"`
	MinInteractions int     `yaml:"min_interactions"`
	MinItems        int     `yaml:"min_items"`
}

type SplitConfig struct {
	// MaxSeqLen bounds the context window. It must match the value the
	// trainer was configured with.
	MaxSeqLen int `yaml:"max_seq_len"`
}

type CatalogConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Data: DataConfig{
			Root:    "datasets/processed",
			RawPath: "datasets/raw",
			Dataset: "Beauty",
		},
		Build: BuildConfig{
			RatingThreshold: 3.0,
			MinInteractions: 5,
			MinItems:        5,
		},
		Split: SplitConfig{
			MaxSeqLen: 50,
		},
		Catalog: CatalogConfig{
			Path: "seqprep.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("SEQPREP_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if root := os.Getenv("SEQPREP_DATA_ROOT"); root != "" {
		cfg.Data.Root = root
	}
	if raw := os.Getenv("SEQPREP_RAW_PATH"); raw != "" {
		cfg.Data.RawPath = raw
	}
	if dataset := os.Getenv("SEQPREP_DATASET"); dataset != "" {
		cfg.Data.Dataset = dataset
	}
	if v := os.Getenv("SEQPREP_ITEM_FEATURES"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SEQPREP_ITEM_FEATURES: %w", err)
		}
		cfg.Data.ItemFeatures = enabled
	}
	if v := os.Getenv("SEQPREP_RATING_THRESHOLD"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SEQPREP_RATING_THRESHOLD: %w", err)
		}
		cfg.Build.RatingThreshold = threshold
	}
	if v := os.Getenv("SEQPREP_MIN_INTERACTIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SEQPREP_MIN_INTERACTIONS: %w", err)
		}
		cfg.Build.MinInteractions = n
	}
	if v := os.Getenv("SEQPREP_MIN_ITEMS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SEQPREP_MIN_ITEMS: %w", err)
		}
		cfg.Build.MinItems = n
	}
	if v := os.Getenv("SEQPREP_MAX_SEQ_LEN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SEQPREP_MAX_SEQ_LEN: %w", err)
		}
		cfg.Split.MaxSeqLen = n
	}
	if path := os.Getenv("SEQPREP_CATALOG_PATH"); path != "" {
		cfg.Catalog.Path = path
	}
	if level := os.Getenv("SEQPREP_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
