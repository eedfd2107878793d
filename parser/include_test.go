package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/go-subyaml/ast"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseIncludeInlinesChildDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "child.yaml", "host: localhost\nport: 8080\n")
	root := writeFile(t, dir, "root.yaml", "server: !include child.yaml\n")

	ctx, err := NewFileContext(root, GeneratePresentation)
	require.NoError(t, err)
	require.NoError(t, Parse(ctx))

	m := ctx.AST.(*ast.MappingNode)
	server := m.Get("server").Value.(*ast.MappingNode)
	require.Equal(t, "localhost", server.Get("host").Value.(*ast.ScalarNode).Raw)
}

func TestParseIncludeRawReadsVerbatim(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "banner.txt", "hello\nworld\n")
	root := writeFile(t, dir, "root.yaml", "banner: !includeraw banner.txt\n")

	ctx, err := NewFileContext(root, 0)
	require.NoError(t, err)
	require.NoError(t, Parse(ctx))

	m := ctx.AST.(*ast.MappingNode)
	scalar := m.Get("banner").Value.(*ast.ScalarNode)
	require.Equal(t, "hello\nworld\n", scalar.Raw)
}

func TestParseIncludeWithOverridePatchesChild(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "child.yaml", "host: localhost\nport: 8080\n")
	root := writeFile(t, dir, "root.yaml", "server:\n  !include child.yaml\n      port: 9090\n")

	ctx, err := NewFileContext(root, GeneratePresentation)
	require.NoError(t, err)
	require.NoError(t, Parse(ctx))

	m := ctx.AST.(*ast.MappingNode)
	server := m.Get("server").Value.(*ast.MappingNode)
	require.Equal(t, "localhost", server.Get("host").Value.(*ast.ScalarNode).Raw)
	require.Equal(t, "9090", server.Get("port").Value.(*ast.ScalarNode).Raw)
}

func TestParseIncludeEscapingDirectoryRejected(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeFile(t, dir, "secret.yaml", "v: 1\n")
	root := writeFile(t, sub, "root.yaml", "v: !include ../secret.yaml\n")

	ctx, err := NewFileContext(root, 0)
	require.NoError(t, err)
	require.Error(t, Parse(ctx))
}

func TestParseIncludeCycleDetected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "next: !include b.yaml\n")
	writeFile(t, dir, "b.yaml", "next: !include a.yaml\n")
	root := filepath.Join(dir, "a.yaml")

	ctx, err := NewFileContext(root, 0)
	require.NoError(t, err)
	require.Error(t, Parse(ctx))
}

func TestParseIncludeMissingFileWrapsError(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.yaml", "v: !include nope.yaml\n")

	ctx, err := NewFileContext(root, 0)
	require.NoError(t, err)
	err = Parse(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "error in included file")
}

func TestParseIncludeBindsVariableToChild(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "child.yaml", "greeting: $name\n")
	root := writeFile(t, dir, "root.yaml", "thing:\n  !include child.yaml\n      $name: world\n")

	ctx, err := NewFileContext(root, GeneratePresentation)
	require.NoError(t, err)
	require.NoError(t, Parse(ctx))

	m := ctx.AST.(*ast.MappingNode)
	child := m.Get("thing").Value.(*ast.MappingNode)
	require.Equal(t, "world", child.Get("greeting").Value.(*ast.ScalarNode).Raw)
}
