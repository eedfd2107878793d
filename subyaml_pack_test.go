package subyaml

import (
	"bytes"
	"io"
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

func TestParseFileResolvesIncludesRelativeToItsOwnDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "child.yaml", "greeting: hi\n")
	root := writeFixture(t, dir, "root.yaml", "nested: !include child.yaml\n")

	doc, err := ParseFile(root, WithPresentation())
	require.NoError(t, err)

	out := NewPackEnv().PackToString(doc)
	assert.Equal(t, "nested:\n  greeting: hi\n", out)
}

func TestPackToFileWritesRenderedDocument(t *testing.T) {
	dir := t.TempDir()
	doc, err := ParseBytes([]byte("a: 1\n"), dir, WithPresentation())
	require.NoError(t, err)

	out := filepath.Join(dir, "out.yaml")
	require.NoError(t, NewPackEnv().PackToFile(doc, out))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(content))
}

func TestPackToCallbackStreamsRenderedDocument(t *testing.T) {
	doc, err := ParseBytes([]byte("a: 1\n"), "/tmp", WithPresentation())
	require.NoError(t, err)

	var buf bytes.Buffer
	err = NewPackEnv().PackToCallback(doc, func(r io.Reader) error {
		_, copyErr := io.Copy(&buf, r)
		return copyErr
	})
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", buf.String())
}

func TestPackToDirectoryWritesSubfileAndIncludeTag(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "child.yaml", "greeting: hi\n")
	root := writeFixture(t, dir, "root.yaml", "nested: !include child.yaml\n")

	doc, err := ParseFile(root, WithPresentation())
	require.NoError(t, err)

	outDir := t.TempDir()
	require.NoError(t, NewPackEnv().SetOutputDir(outDir).PackToDirectory(doc, outDir, "root.yaml"))

	rootOut, err := os.ReadFile(filepath.Join(outDir, "root.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(rootOut), "!include")

	childOut, err := os.ReadFile(filepath.Join(outDir, "child.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "greeting: hi\n", string(childOut))
}

func TestPackToDirectoryNoSubfilesInlinesEverything(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "child.yaml", "greeting: hi\n")
	root := writeFixture(t, dir, "root.yaml", "nested: !include child.yaml\n")

	doc, err := ParseFile(root, WithPresentation())
	require.NoError(t, err)

	outDir := t.TempDir()
	env := NewPackEnv().SetOutputDir(outDir).SetNoSubfiles(true)
	require.NoError(t, env.PackToDirectory(doc, outDir, "root.yaml"))

	rootOut, err := os.ReadFile(filepath.Join(outDir, "root.yaml"))
	require.NoError(t, err)
	assert.NotContains(t, string(rootOut), "!include")
	assert.Contains(t, string(rootOut), "greeting: hi")

	_, err = os.Stat(filepath.Join(outDir, "child.yaml"))
	assert.True(t, os.IsNotExist(err))
}
