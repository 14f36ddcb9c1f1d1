// Package config holds the settings of a training run
package config

import "os"

import "github.com/neurlang/phishnet/datasets"
import "github.com/neurlang/phishnet/features"
import "github.com/neurlang/phishnet/learning"
import "github.com/pkg/errors"
import "gopkg.in/yaml.v3"

// Config is the YAML configuration of the trainer
type Config struct {
	Datasets string `yaml:"datasets"`  // directory of CSV datasets
	ModelDir string `yaml:"model_dir"` // output directory of the artifacts
	History  string `yaml:"history"`   // sqlite run history, empty disables it
	LogLevel string `yaml:"log_level"`
	Workers  int    `yaml:"workers"` // parallel file loads and extractions, 0 means one per core

	// CorpusSnapshot writes the balanced corpus next to the artifacts
	CorpusSnapshot bool `yaml:"corpus_snapshot"`

	Balance  Balance                  `yaml:"balance"`
	Training learning.HyperParameters `yaml:"training"`
	Loader   datasets.Options         `yaml:"loader"`
	Features features.Options         `yaml:"features"`
}

// Balance configures class balancing
type Balance struct {
	Seed    int64 `yaml:"seed"`
	Shuffle bool  `yaml:"shuffle"`
}

// Default returns the configuration reproducing the published model
func Default() Config {
	return Config{
		Datasets: "datasets",
		ModelDir: "phishguard-extension/model",
		LogLevel: "info",
		Balance:  Balance{Seed: 42},
		Training: learning.DefaultHyperParameters(),
		Loader:   datasets.DefaultOptions(),
		Features: features.DefaultOptions(),
	}
}

// Load reads the file at path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "failed to read config")
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, errors.Wrap(err, "failed to parse config")
	}
	return c, c.Validate()
}

// Validate reports settings that can't run
func (c Config) Validate() error {
	if c.Datasets == "" {
		return errors.New("datasets directory is empty")
	}
	if c.ModelDir == "" {
		return errors.New("model directory is empty")
	}
	if c.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if len(c.Loader.URLColumns) == 0 {
		return errors.New("no URL column names")
	}
	if err := c.Training.Validate(); err != nil {
		return errors.Wrap(err, "training")
	}
	return nil
}
