package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPackCommandWritesToStdout(t *testing.T) {
	dir := t.TempDir()
	doc := writeFixture(t, dir, "doc.yaml", "a: 1\nb: two\n")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"pack", doc})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "a: 1\nb: two\n", out.String())
}

func TestPackCommandOutputDirWritesSubfiles(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "child.yaml", "greeting: hi\n")
	root := writeFixture(t, dir, "root.yaml", "nested: !include child.yaml\n")

	outDir := t.TempDir()
	cmd := newRootCmd()
	cmd.SetArgs([]string{"pack", root, "--output-dir", outDir})
	require.NoError(t, cmd.Execute())

	childOut, err := os.ReadFile(filepath.Join(outDir, "child.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "greeting: hi\n", string(childOut))
}

func TestPackCommandMissingFileFails(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"pack", "/nonexistent/does-not-exist.yaml"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	assert.Error(t, cmd.Execute())
}

func TestCheckCommandReportsOk(t *testing.T) {
	dir := t.TempDir()
	doc := writeFixture(t, dir, "doc.yaml", "a: 1\n")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"check", doc})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "ok: no unbound variables")
}

func TestCheckCommandReportsUnboundVariable(t *testing.T) {
	dir := t.TempDir()
	doc := writeFixture(t, dir, "doc.yaml", "a: $missing\n")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"check", doc})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "unbound variable: $missing")
}
