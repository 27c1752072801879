// Package config loads packdemo settings and the release pipeline
// description from YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ProjectConfigFile is searched for in the working directory and its parents
	ProjectConfigFile = "packdemo.yaml"
	// ReleaseConfigFile is the default release pipeline file
	ReleaseConfigFile = ".releaserc.yaml"
)

type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
	GRPCAddr string `yaml:"grpc_addr"`
}

// StoreConfig selects release ledger and history backends. Empty values
// keep both in process memory.
type StoreConfig struct {
	RedisAddr string `yaml:"redis_addr,omitempty"`
	MySQLDSN  string `yaml:"mysql_dsn,omitempty"`
}

type ReleaseFileConfig struct {
	Config string `yaml:"config"`
}

type Config struct {
	LogLevel string            `yaml:"log_level"`
	Server   ServerConfig      `yaml:"server"`
	Store    StoreConfig       `yaml:"store"`
	Release  ReleaseFileConfig `yaml:"release"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Server: ServerConfig{
			HTTPAddr: ":8080",
			GRPCAddr: ":50051",
		},
		Release: ReleaseFileConfig{Config: ReleaseConfigFile},
	}
}

// LoadFromFile reads a config file. Fields absent from the file stay empty.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Release.Config != "" && !filepath.IsAbs(cfg.Release.Config) {
		cfg.Release.Config = filepath.Join(filepath.Dir(path), cfg.Release.Config)
	}
	return &cfg, nil
}

// Merge overlays the non-empty fields of other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.Server.HTTPAddr != "" {
		c.Server.HTTPAddr = other.Server.HTTPAddr
	}
	if other.Server.GRPCAddr != "" {
		c.Server.GRPCAddr = other.Server.GRPCAddr
	}
	if other.Store.RedisAddr != "" {
		c.Store.RedisAddr = other.Store.RedisAddr
	}
	if other.Store.MySQLDSN != "" {
		c.Store.MySQLDSN = other.Store.MySQLDSN
	}
	if other.Release.Config != "" {
		c.Release.Config = other.Release.Config
	}
}

// ApplyEnv applies environment overrides through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("PACKDEMO_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Store.RedisAddr = v
	}
	if v := getenv("MYSQL_DSN"); v != "" {
		c.Store.MySQLDSN = v
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	if c.Server.HTTPAddr == "" || c.Server.GRPCAddr == "" {
		return fmt.Errorf("config: server addresses are required")
	}
	if c.Release.Config == "" {
		return fmt.Errorf("config: release.config is required")
	}
	return nil
}
