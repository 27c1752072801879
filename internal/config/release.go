package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultReleaseConfigYAML = `# packdemo release pipeline
branches:
  - main
tagFormat: "v${version}"
plugins:
  - "@semantic-release/commit-analyzer"
  - "@semantic-release/release-notes-generator"
  - "@semantic-release/changelog"
  - - "@semantic-release/exec"
    - prepareCmd: "scripts/handle-release.sh ${nextRelease.version}"
      publishCmd: "echo 'Publishing package version ${nextRelease.version}'"
  - - "@semantic-release/npm"
    - npmPublish: true
      tarballDir: dist
  - - "@semantic-release/git"
    - assets:
        - package.json
        - "packages/*/package.json"
        - CHANGELOG.md
      message: "chore(release): ${nextRelease.version} [skip ci]\n\n${nextRelease.notes}"
  - "@semantic-release/github"
`

// PluginSpec is one entry of the plugins list: either a bare name or a
// [name, options] pair.
type PluginSpec struct {
	Name    string
	Options map[string]any
}

func (p *PluginSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		p.Name = node.Value
		p.Options = nil
		return nil
	case yaml.SequenceNode:
		if len(node.Content) == 0 || len(node.Content) > 2 {
			return fmt.Errorf("line %d: plugin entry must be [name] or [name, options]", node.Line)
		}
		if node.Content[0].Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: plugin name must be a string", node.Line)
		}
		p.Name = node.Content[0].Value
		p.Options = nil
		if len(node.Content) == 2 {
			var opts map[string]any
			if err := node.Content[1].Decode(&opts); err != nil {
				return fmt.Errorf("line %d: plugin %s options: %w", node.Line, p.Name, err)
			}
			p.Options = opts
		}
		return nil
	default:
		return fmt.Errorf("line %d: unsupported plugin entry", node.Line)
	}
}

func (p PluginSpec) MarshalYAML() (any, error) {
	if len(p.Options) == 0 {
		return p.Name, nil
	}
	return []any{p.Name, p.Options}, nil
}

// ReleaseConfig models .releaserc.yaml.
type ReleaseConfig struct {
	Branches      []string     `yaml:"branches"`
	TagFormat     string       `yaml:"tagFormat,omitempty"`
	RepositoryURL string       `yaml:"repositoryUrl,omitempty"`
	Plugins       []PluginSpec `yaml:"plugins"`
}

// DefaultReleaseConfig returns the built-in pipeline.
func DefaultReleaseConfig() ReleaseConfig {
	cfg, err := ParseReleaseConfig([]byte(defaultReleaseConfigYAML))
	if err != nil {
		panic(fmt.Sprintf("config: default release config: %v", err))
	}
	return cfg
}

func ParseReleaseConfig(data []byte) (ReleaseConfig, error) {
	var cfg ReleaseConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ReleaseConfig{}, fmt.Errorf("config: parse release config: %w", err)
	}
	if cfg.TagFormat == "" {
		cfg.TagFormat = "v${version}"
	}
	if err := cfg.Validate(); err != nil {
		return ReleaseConfig{}, err
	}
	return cfg, nil
}

// LoadReleaseConfig reads path, falling back to the default pipeline when
// the file does not exist.
func LoadReleaseConfig(path string) (ReleaseConfig, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultReleaseConfig(), false, nil
	}
	if err != nil {
		return ReleaseConfig{}, false, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := ParseReleaseConfig(data)
	if err != nil {
		return ReleaseConfig{}, false, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, true, nil
}

// EnsureReleaseConfig writes the default pipeline to path unless a file is
// already there. It reports whether a file was created.
func EnsureReleaseConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(defaultReleaseConfigYAML), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

func (c ReleaseConfig) Validate() error {
	if len(c.Branches) == 0 {
		return fmt.Errorf("config: release branches are required")
	}
	for i, b := range c.Branches {
		if strings.TrimSpace(b) == "" {
			return fmt.Errorf("config: branches[%d] is empty", i)
		}
	}
	if strings.Count(c.TagFormat, "${version}") != 1 {
		return fmt.Errorf("config: tagFormat %q must contain ${version} exactly once", c.TagFormat)
	}
	for i, p := range c.Plugins {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("config: plugins[%d] has no name", i)
		}
	}
	return nil
}
