package shell

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skipf("sh not available: %v", err)
	}
}

func TestShell_CapturesOutput(t *testing.T) {
	requireShell(t)
	r := NewRunner(nil)

	out, err := r.Shell(context.Background(), t.TempDir(), "echo 'Publishing package version 1.0.0'")
	require.NoError(t, err)
	assert.Equal(t, "Publishing package version 1.0.0", out)
}

func TestShell_FailureIncludesOutput(t *testing.T) {
	requireShell(t)
	r := NewRunner(nil)

	_, err := r.Shell(context.Background(), t.TempDir(), "echo boom >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRun_UsesDir(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	r := NewRunner(nil)

	out, err := r.Run(context.Background(), dir, "sh", "-c", "pwd -P")
	require.NoError(t, err)
	resolved, err := exec.Command("sh", "-c", "cd "+dir+" && pwd -P").Output()
	require.NoError(t, err)
	assert.Equal(t, string(resolved[:len(resolved)-1]), out)
}
