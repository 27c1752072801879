package plugin

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExec_RendersCommands(t *testing.T) {
	runner := &mockRunner{}
	dir := t.TempDir()
	p, err := NewExec(Options{
		"prepareCmd": "scripts/handle-release.sh ${nextRelease.version}",
		"publishCmd": "echo 'Publishing package version ${nextRelease.version}'",
		"execCwd":    "tools",
	}, testDeps(runner, &mockGit{}, nil))
	require.NoError(t, err)
	e := p.(*Exec)
	rc := testContext(dir)

	require.NoError(t, e.VerifyConditions(context.Background(), rc))
	require.NoError(t, e.Prepare(context.Background(), rc))
	require.NoError(t, e.Publish(context.Background(), rc))

	assert.Equal(t, []string{
		"scripts/handle-release.sh 1.1.0",
		"echo 'Publishing package version 1.1.0'",
	}, runner.calls)
	assert.Equal(t, filepath.Join(dir, "tools"), runner.dirs[0])
}

func TestExec_Errors(t *testing.T) {
	runner := &mockRunner{failOn: "handle-release"}
	p, err := NewExec(Options{"prepareCmd": "scripts/handle-release.sh ${nextRelease.version}"}, testDeps(runner, &mockGit{}, nil))
	require.NoError(t, err)
	err = p.(*Exec).Prepare(context.Background(), testContext(t.TempDir()))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	p, err = NewExec(Options{"publishCmd": "echo ${nextRelease.name}"}, testDeps(&mockRunner{}, &mockGit{}, nil))
	require.NoError(t, err)
	assert.Error(t, p.(*Exec).Publish(context.Background(), testContext(t.TempDir())))

	_, err = NewExec(Options{"prepareCmd": 42}, testDeps(&mockRunner{}, &mockGit{}, nil))
	assert.Error(t, err)
}
