package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchCommand_Once(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.toml")
	require.NoError(t, os.WriteFile(doc, []byte("a = 1\n"), 0o644))

	cmd := newWatchCommand()
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "none.toml"), "--file", doc, "--once", "--log-level", "error"})
	assert.NoError(t, cmd.Execute())
}

func TestWatchCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.toml")
	require.NoError(t, os.WriteFile(doc, []byte("a = 1\n"), 0o644))

	cfgPath := filepath.Join(dir, "config.toml")
	content := "file = \"" + filepath.ToSlash(doc) + "\"\nonce = true\nlog_level = \"error\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	cmd := newWatchCommand()
	cmd.SetArgs([]string{"--config", cfgPath})
	assert.NoError(t, cmd.Execute())
}

func TestWatchCommand_Invalid(t *testing.T) {
	dir := t.TempDir()

	cmd := newWatchCommand()
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "none.toml"), "--once"})
	assert.ErrorContains(t, cmd.Execute(), "file is required")

	cmd = newWatchCommand()
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "none.toml"), "--file", filepath.Join(dir, "missing.toml"), "--once", "--log-level", "error"})
	assert.ErrorContains(t, cmd.Execute(), "read document")
}
