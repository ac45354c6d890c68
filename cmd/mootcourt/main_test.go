package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mootcourt version ")
}

func TestCasesCommand(t *testing.T) {
	out, err := execute(t, "cases")
	require.NoError(t, err)
	assert.Contains(t, out, "royal-park-murder")
	assert.Contains(t, out, "PLAYABLE")
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "graph", "royal-park-murder")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")

	_, err = execute(t, "graph", "white-flag")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(good, []byte("turns:\n  - speaker: judge\n    content: Proceed.\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("turns: []\n"), 0o644))

	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "1 turns")

	out, err = execute(t, "validate", good, bad)
	assert.Error(t, err)
	assert.Contains(t, out, "✗")
}

func TestRejectsInvalidFlags(t *testing.T) {
	_, err := execute(t, "version", "--thinking-policy", "sometimes")
	assert.Error(t, err)
	cfg.ThinkingPolicy = "per-turn"
}
