package parser

import (
	"testing"

	"github.com/example/go-subyaml/ast"
	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, src string, mode Mode) *Context {
	t.Helper()
	ctx := NewBytesContext([]byte(src), "<test>", "/tmp", mode|GeneratePresentation)
	require.NoError(t, Parse(ctx))
	return ctx
}

func TestParseSimpleMapping(t *testing.T) {
	ctx := parseString(t, "a: 1\nb: two\n", 0)
	m, ok := ctx.AST.(*ast.MappingNode)
	require.True(t, ok)
	require.Len(t, m.Entries, 2)
	require.Equal(t, "a", m.Entries[0].Key)
	require.Equal(t, "b", m.Entries[1].Key)

	aVal, ok := m.Entries[0].Value.(*ast.ScalarNode)
	require.True(t, ok)
	require.Equal(t, ast.UintScalar, aVal.Type)
}

func TestParseBlockSequence(t *testing.T) {
	ctx := parseString(t, "- one\n- two\n- three\n", 0)
	seq, ok := ctx.AST.(*ast.SequenceNode)
	require.True(t, ok)
	require.Len(t, seq.Items, 3)
}

func TestParseNestedSequenceSameColumn(t *testing.T) {
	src := "items:\n- a\n- b\n"
	ctx := parseString(t, src, 0)
	m, ok := ctx.AST.(*ast.MappingNode)
	require.True(t, ok)
	seq, ok := m.Entries[0].Value.(*ast.SequenceNode)
	require.True(t, ok)
	require.Len(t, seq.Items, 2)
}

func TestParseFlowCollections(t *testing.T) {
	ctx := parseString(t, "nums: [1, 2, 3]\nobj: {a: 1, b: 2}\n", 0)
	m := ctx.AST.(*ast.MappingNode)
	seq := m.Entries[0].Value.(*ast.SequenceNode)
	require.True(t, seq.FlowMode)
	require.Len(t, seq.Items, 3)
	obj := m.Entries[1].Value.(*ast.MappingNode)
	require.True(t, obj.FlowMode)
	require.Len(t, obj.Entries, 2)
}

func TestParseTabIndentationRejected(t *testing.T) {
	ctx := NewBytesContext([]byte("a:\n\tb: 1\n"), "<test>", "/tmp", GeneratePresentation)
	err := Parse(ctx)
	require.Error(t, err)
}

func TestParseDuplicateKeyRejected(t *testing.T) {
	ctx := NewBytesContext([]byte("a: 1\na: 2\n"), "<test>", "/tmp", 0)
	err := Parse(ctx)
	require.Error(t, err)
}
