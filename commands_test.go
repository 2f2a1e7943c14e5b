package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "reelbox")
}

func TestConfigCommandPrintsToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("root = \"/srv/media\"\n"), 0o644))

	out, err := execute(t, "--config", path, "config")
	require.NoError(t, err)
	assert.Contains(t, out, `root = "/srv/media"`)
	assert.Contains(t, out, "[display]")
}

func TestRunRejectsUnknownMode(t *testing.T) {
	_, err := execute(t, "run", "--mode", "vga", "--root", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
