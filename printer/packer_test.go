package printer

import (
	"testing"

	"github.com/example/go-subyaml/ast"
	"github.com/example/go-subyaml/token"
	"github.com/stretchr/testify/assert"
)

func TestPackDocumentSimpleMapping(t *testing.T) {
	store := ast.NewPresentationStore()
	m := ast.NewMapping(token.Span{}, false)
	m.Append(&ast.MappingEntry{Key: "a", Value: ast.NewScalar(ast.UintScalar, "1", uint64(1), token.Span{})})
	m.Append(&ast.MappingEntry{Key: "b", Value: ast.NewScalar(ast.StringScalar, "two", "two", token.Span{})})

	out := PackDocument(m, store)
	assert.Equal(t, "a: 1\nb: two\n", out)
}

func TestPackDocumentFlowSequence(t *testing.T) {
	store := ast.NewPresentationStore()
	seq := ast.NewSequence(token.Span{}, true)
	seq.Append(ast.NewScalar(ast.UintScalar, "1", uint64(1), token.Span{}), 0)
	seq.Append(ast.NewScalar(ast.UintScalar, "2", uint64(2), token.Span{}), 0)

	out := PackDocument(seq, store)
	assert.Equal(t, "[1, 2]\n", out)
}

func TestMustQuoteStringThatLooksLikeBool(t *testing.T) {
	n := ast.NewScalar(ast.StringScalar, "true", "true", token.Span{})
	assert.True(t, mustQuote(n))

	n2 := ast.NewScalar(ast.StringScalar, "hello", "hello", token.Span{})
	assert.False(t, mustQuote(n2))
}

func TestSubfilePackerDedupAndCollision(t *testing.T) {
	dir := t.TempDir()
	sp := NewSubfilePacker(dir)

	p1, write1 := sp.Reserve("shared.yaml", []byte("a: 1\n"))
	assert.True(t, write1)
	assert.Equal(t, "shared.yaml", p1)

	p2, write2 := sp.Reserve("shared.yaml", []byte("a: 1\n"))
	assert.False(t, write2)
	assert.Equal(t, "shared.yaml", p2)

	p3, write3 := sp.Reserve("shared.yaml", []byte("a: 2\n"))
	assert.True(t, write3)
	assert.Equal(t, "shared~1.yaml", p3)
}
