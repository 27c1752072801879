package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderChangelog(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		notes   string
		current string
		want    string
	}{
		{"new file", "", "# 1.0.0\n", "", "# 1.0.0\n"},
		{"prepend", "", "# 1.1.0", "# 1.0.0", "# 1.1.0\n\n# 1.0.0\n"},
		{"new file with title", "# Changelog", "# 1.0.0", "", "# Changelog\n\n# 1.0.0\n"},
		{"title kept once", "# Changelog", "# 1.1.0", "# Changelog\n\n# 1.0.0", "# Changelog\n\n# 1.1.0\n\n# 1.0.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderChangelog(tt.title, tt.notes, tt.current))
		})
	}
}

func TestChangelog_Prepare(t *testing.T) {
	dir := t.TempDir()
	rc := testContext(dir)

	p, err := NewChangelog(Options{"changelogFile": "docs/CHANGELOG.md"}, testDeps(&mockRunner{}, &mockGit{}, nil))
	require.NoError(t, err)
	c := p.(*Changelog)
	require.NoError(t, c.VerifyConditions(context.Background(), rc))

	require.NoError(t, c.Prepare(context.Background(), rc))
	data, err := os.ReadFile(filepath.Join(dir, "docs", "CHANGELOG.md"))
	require.NoError(t, err)
	assert.Equal(t, rc.NextRelease.Notes+"\n", string(data))

	rc.NextRelease.Notes = "# 1.2.0 (2026-10-17)"
	require.NoError(t, c.Prepare(context.Background(), rc))
	data, err = os.ReadFile(filepath.Join(dir, "docs", "CHANGELOG.md"))
	require.NoError(t, err)
	assert.Equal(t, "# 1.2.0 (2026-10-17)\n\n# 1.1.0 (2026-10-16)\n\n### Features\n\n* add vehicles\n", string(data))
}

func TestChangelog_VerifyRejectsEmptyFile(t *testing.T) {
	p, err := NewChangelog(Options{"changelogFile": " "}, testDeps(&mockRunner{}, &mockGit{}, nil))
	require.NoError(t, err)
	assert.Error(t, p.(*Changelog).VerifyConditions(context.Background(), testContext(t.TempDir())))
}
