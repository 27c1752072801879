package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
	getenv func(string) string
	getwd  func() (string, error)
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, getenv: os.Getenv, getwd: os.Getwd}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. Explicit path, or packdemo.yaml in the current or parent directories
// 3. Environment variables
func (l *Loader) Load(explicitPath string) (*Config, error) {
	config := DefaultConfig()

	path := explicitPath
	if path == "" {
		path = l.findProjectConfig()
	}
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			if explicitPath != "" || !os.IsNotExist(err) {
				return nil, err
			}
		} else {
			l.logger.Debug("Loaded project config", slog.String("path", path))
			config.Merge(fileConfig)
		}
	} else {
		l.logger.Debug("No project config found")
	}

	config.ApplyEnv(l.getenv)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// findProjectConfig searches for packdemo.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	cwd, err := l.getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
