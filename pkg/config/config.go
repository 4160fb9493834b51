// Package config loads pagr's optional YAML configuration, merging the
// per-user global file with the project-local one.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// GlobalFileName lives under the user config directory ("pagr/config.yaml").
	GlobalFileName = "config.yaml"
	// LocalFileName is looked up in the working directory.
	LocalFileName = ".pagr.yaml"
)

// Tokens holds token-counting defaults.
type Tokens struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// Config holds defaults for the run command. Pointer fields distinguish
// "unset" from an explicit false/zero so a local file can override only what
// it mentions.
type Config struct {
	Output        string   `mapstructure:"output"`
	GlobalIgnore  string   `mapstructure:"global_ignore"`
	Exclude       []string `mapstructure:"exclude"`
	MaxFileSizeKB *int     `mapstructure:"max_file_size_kb"`
	Clipboard     *bool    `mapstructure:"clipboard"`
	Tokens        Tokens   `mapstructure:"tokens"`
}

// Merge overlays other on top of c: set fields in other win, exclude lists
// are concatenated.
func (c Config) Merge(other Config) Config {
	merged := c
	if other.Output != "" {
		merged.Output = other.Output
	}
	if other.GlobalIgnore != "" {
		merged.GlobalIgnore = other.GlobalIgnore
	}
	if len(other.Exclude) > 0 {
		merged.Exclude = append(append([]string{}, merged.Exclude...), other.Exclude...)
	}
	if other.MaxFileSizeKB != nil {
		merged.MaxFileSizeKB = other.MaxFileSizeKB
	}
	if other.Clipboard != nil {
		merged.Clipboard = other.Clipboard
	}
	if other.Tokens.Enabled != nil {
		merged.Tokens.Enabled = other.Tokens.Enabled
	}
	if other.Tokens.Model != "" {
		merged.Tokens.Model = other.Tokens.Model
	}
	return merged
}

// Load reads the global and local configuration files, if present, and
// returns their merged view. Missing files are not errors; unparseable ones
// are.
func Load(workingDirectory string) (Config, error) {
	var merged Config

	if configDir, err := os.UserConfigDir(); err == nil && configDir != "" {
		globalPath := filepath.Join(configDir, "pagr", GlobalFileName)
		globalConfig, loadErr := loadFile(globalPath)
		if loadErr != nil {
			return Config{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	localConfig, err := loadFile(filepath.Join(workingDirectory, LocalFileName))
	if err != nil {
		return Config{}, err
	}
	return merged.Merge(localConfig), nil
}

func loadFile(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("access configuration %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read configuration %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse configuration %s: %w", path, err)
	}
	return cfg, nil
}
