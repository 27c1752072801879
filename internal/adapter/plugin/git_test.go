package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	}
}

func TestExpandAssets(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"package.json",
		"CHANGELOG.md",
		"packages/pack-a/package.json",
		"packages/pack-b/package.json",
		"packages/pack-c/package.json",
		"packages/pack-c/index.js",
	)

	files, err := expandAssets(dir, []string{"package.json", "packages/*/package.json", "CHANGELOG.md", "missing.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CHANGELOG.md",
		"package.json",
		"packages/pack-a/package.json",
		"packages/pack-b/package.json",
		"packages/pack-c/package.json",
	}, files)

	files, err = expandAssets(dir, []string{"./packages/**", "!packages/pack-b/**"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"packages/pack-a/package.json",
		"packages/pack-c/index.js",
		"packages/pack-c/package.json",
	}, files)
}

func TestGit_Prepare(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "package.json", "CHANGELOG.md")
	repo := &mockGit{}

	p, err := NewGit(Options{
		"assets":  []any{"package.json", "packages/*/package.json", "CHANGELOG.md"},
		"message": "chore(release): ${nextRelease.version} [skip ci]\n\n${nextRelease.notes}",
	}, testDeps(&mockRunner{}, repo, nil))
	require.NoError(t, err)
	g := p.(*Git)
	rc := testContext(dir)

	require.NoError(t, g.VerifyConditions(context.Background(), rc))
	require.NoError(t, g.Prepare(context.Background(), rc))

	assert.Equal(t, []string{"CHANGELOG.md", "package.json"}, repo.added)
	assert.Equal(t, "chore(release): 1.1.0 [skip ci]\n\n"+rc.NextRelease.Notes, repo.message)
	assert.Equal(t, []string{"HEAD:refs/heads/main"}, repo.pushed)
}

func TestGit_PrepareWithoutMatches(t *testing.T) {
	repo := &mockGit{}
	p, err := NewGit(nil, testDeps(&mockRunner{}, repo, nil))
	require.NoError(t, err)

	require.NoError(t, p.(*Git).Prepare(context.Background(), testContext(t.TempDir())))
	assert.Empty(t, repo.added)
	assert.Empty(t, repo.message)
	assert.Empty(t, repo.pushed)
}

func TestNewGit_InvalidPattern(t *testing.T) {
	_, err := NewGit(Options{"assets": []any{"packages/[a"}}, testDeps(&mockRunner{}, &mockGit{}, nil))
	assert.Error(t, err)
}
