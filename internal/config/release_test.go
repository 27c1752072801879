package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultReleaseConfig_MatchesPipeline(t *testing.T) {
	cfg := DefaultReleaseConfig()

	assert.Equal(t, []string{"main"}, cfg.Branches)
	assert.Equal(t, "v${version}", cfg.TagFormat)

	names := make([]string, 0, len(cfg.Plugins))
	for _, p := range cfg.Plugins {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{
		"@semantic-release/commit-analyzer",
		"@semantic-release/release-notes-generator",
		"@semantic-release/changelog",
		"@semantic-release/exec",
		"@semantic-release/npm",
		"@semantic-release/git",
		"@semantic-release/github",
	}, names)

	exec := cfg.Plugins[3].Options
	assert.Equal(t, "scripts/handle-release.sh ${nextRelease.version}", exec["prepareCmd"])
	assert.Equal(t, "echo 'Publishing package version ${nextRelease.version}'", exec["publishCmd"])

	npm := cfg.Plugins[4].Options
	assert.Equal(t, true, npm["npmPublish"])
	assert.Equal(t, "dist", npm["tarballDir"])

	git := cfg.Plugins[5].Options
	assert.Equal(t, []any{"package.json", "packages/*/package.json", "CHANGELOG.md"}, git["assets"])
	assert.Equal(t, "chore(release): ${nextRelease.version} [skip ci]\n\n${nextRelease.notes}", git["message"])

	assert.Nil(t, cfg.Plugins[0].Options)
}

func TestParseReleaseConfig_Errors(t *testing.T) {
	_, err := ParseReleaseConfig([]byte("branches: []\nplugins: []\n"))
	assert.Error(t, err)

	_, err = ParseReleaseConfig([]byte("branches: [main]\ntagFormat: static\n"))
	assert.Error(t, err)

	_, err = ParseReleaseConfig([]byte("branches: [main]\nplugins:\n  - [a, {}, extra]\n"))
	assert.Error(t, err)

	_, err = ParseReleaseConfig([]byte("branches: [main]\nplugins:\n  - {name: a}\n"))
	assert.Error(t, err)
}

func TestPluginSpec_RoundTrip(t *testing.T) {
	in := []PluginSpec{
		{Name: "@semantic-release/github"},
		{Name: "@semantic-release/npm", Options: map[string]any{"npmPublish": false}},
	}
	data, err := yaml.Marshal(in)
	require.NoError(t, err)

	var out []PluginSpec
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestLoadReleaseConfig_FallsBackToDefault(t *testing.T) {
	cfg, found, err := LoadReleaseConfig(filepath.Join(t.TempDir(), ReleaseConfigFile))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Len(t, cfg.Plugins, 7)
}

func TestEnsureReleaseConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ReleaseConfigFile)

	created, err := EnsureReleaseConfig(path)
	require.NoError(t, err)
	assert.True(t, created)

	cfg, found, err := LoadReleaseConfig(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, DefaultReleaseConfig(), cfg)

	require.NoError(t, os.WriteFile(path, []byte("branches: [release]\n"), 0o644))
	created, err = EnsureReleaseConfig(path)
	require.NoError(t, err)
	assert.False(t, created)

	cfg, _, err = LoadReleaseConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"release"}, cfg.Branches)
	assert.Empty(t, cfg.Plugins)
}
