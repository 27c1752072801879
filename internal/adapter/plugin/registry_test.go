package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/packdemo/internal/config"
	"github.com/rl1809/packdemo/internal/port"
)

func TestBuild_DefaultPipelineKeepsOrder(t *testing.T) {
	cfg := config.DefaultReleaseConfig()
	plugins, err := DefaultRegistry().Build(cfg.Plugins, testDeps(&mockRunner{}, &mockGit{}, nil))
	require.NoError(t, err)

	names := make([]string, 0, len(plugins))
	for _, p := range plugins {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{
		CommitAnalyzerName, ReleaseNotesName, ChangelogName, ExecName, NPMName, GitName, GitHubName,
	}, names)

	_, isAnalyzer := plugins[0].(port.CommitAnalyzer)
	assert.True(t, isAnalyzer)
	_, isNotes := plugins[1].(port.NotesGenerator)
	assert.True(t, isNotes)
	_, changelogPublishes := plugins[2].(port.Publisher)
	assert.False(t, changelogPublishes)
	_, githubPublishes := plugins[6].(port.Publisher)
	assert.True(t, githubPublishes)

	npm := plugins[4].(*NPM)
	assert.True(t, npm.publish)
	assert.Equal(t, "dist", npm.tarballDir)

	git := plugins[5].(*Git)
	assert.Equal(t, []string{"package.json", "packages/*/package.json", "CHANGELOG.md"}, git.assets)
}

func TestBuild_UnknownPlugin(t *testing.T) {
	_, err := DefaultRegistry().Build([]config.PluginSpec{{Name: "@semantic-release/slack"}}, Deps{})
	assert.ErrorContains(t, err, "unknown plugin")
}

func TestBuild_BadOptions(t *testing.T) {
	_, err := DefaultRegistry().Build([]config.PluginSpec{
		{Name: NPMName, Options: map[string]any{"npmPublish": "yes"}},
	}, Deps{})
	assert.Error(t, err)
}

func TestRegister_Duplicate(t *testing.T) {
	reg := DefaultRegistry()
	assert.Error(t, reg.Register(GitName, NewGit))
	assert.Contains(t, reg.Names(), GitHubName)
}

func TestOptions(t *testing.T) {
	o := Options{"s": "x", "b": true, "list": []any{"a", "b"}, "one": "c", "off": false, "bad": 3}

	s, err := o.String("s", "def")
	require.NoError(t, err)
	assert.Equal(t, "x", s)

	s, err = o.String("missing", "def")
	require.NoError(t, err)
	assert.Equal(t, "def", s)

	_, err = o.String("bad", "")
	assert.Error(t, err)

	b, err := o.Bool("b", false)
	require.NoError(t, err)
	assert.True(t, b)

	list, err := o.StringSlice("list", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, list)

	list, err = o.StringSlice("one", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, list)

	opt, err := o.OptionalString("off")
	require.NoError(t, err)
	assert.Empty(t, opt)

	_, err = o.OptionalString("b")
	assert.Error(t, err)
}
