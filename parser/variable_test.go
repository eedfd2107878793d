package parser

import (
	"testing"

	"github.com/example/go-subyaml/ast"
	"github.com/example/go-subyaml/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariableReferenceWholeValue(t *testing.T) {
	ref, inString, ok := variableReference("$host")
	require.True(t, ok)
	assert.False(t, inString)
	assert.Equal(t, "host", ref)
}

func TestVariableReferenceInString(t *testing.T) {
	_, inString, ok := variableReference("https://$host:$port/")
	require.True(t, ok)
	assert.True(t, inString)
}

func TestVariableReferenceNone(t *testing.T) {
	_, _, ok := variableReference("plain text")
	assert.False(t, ok)
}

func TestLookupVariableBound(t *testing.T) {
	ctx := NewBytesContext([]byte(""), "<test>", "/tmp", 0)
	val := ast.NewScalar(ast.StringScalar, "example.com", "example.com", token.Span{})
	ctx.OpenVariables["host"] = &ast.VariableBinding{Name: "host", Value: val}
	p := &Parser{ctx: ctx}

	b, err := p.lookupVariable("host")
	require.NoError(t, err)
	assert.Same(t, val, b.Value)
}

func TestLookupVariableUnboundFailsByDefault(t *testing.T) {
	ctx := NewBytesContext([]byte(""), "<test>", "/tmp", 0)
	p := &Parser{ctx: ctx}

	_, err := p.lookupVariable("missing")
	require.Error(t, err)
}

func TestLookupVariableUnboundAllowedRecordsNameOnce(t *testing.T) {
	ctx := NewBytesContext([]byte(""), "<test>", "/tmp", AllowUnboundVariables)
	p := &Parser{ctx: ctx}

	b1, err := p.lookupVariable("missing")
	require.NoError(t, err)
	b2, err := p.lookupVariable("missing")
	require.NoError(t, err)

	assert.Same(t, b1, b2)
	assert.Equal(t, []string{"missing"}, ctx.UnboundNames)
}

func TestCloneBoundValueScalarIndependentCopies(t *testing.T) {
	src := ast.NewScalar(ast.StringScalar, "x", "x", token.Span{})
	a := cloneBoundValue(src, token.Position{Line: 1}, token.Position{Line: 1})
	b := cloneBoundValue(src, token.Position{Line: 2}, token.Position{Line: 2})

	aScalar := a.(*ast.ScalarNode)
	bScalar := b.(*ast.ScalarNode)
	assert.NotSame(t, aScalar, bScalar)
	assert.Equal(t, "x", aScalar.Raw)
	assert.Equal(t, "x", bScalar.Raw)
}

func TestCloneBoundValueMappingDeepCopies(t *testing.T) {
	inner := ast.NewMapping(token.Span{}, false)
	inner.Append(&ast.MappingEntry{Key: "a", Value: ast.NewScalar(ast.StringScalar, "1", "1", token.Span{})})

	clone := cloneBoundValue(inner, token.Position{}, token.Position{}).(*ast.MappingNode)
	require.Len(t, clone.Entries, 1)
	assert.NotSame(t, inner.Entries[0].Value, clone.Entries[0].Value)
	assert.Equal(t, "1", clone.Entries[0].Value.(*ast.ScalarNode).Raw)
}

func TestResolveVariableReferenceWholeValue(t *testing.T) {
	ctx := NewBytesContext([]byte(""), "<test>", "/tmp", GeneratePresentation)
	bound := ast.NewScalar(ast.UintScalar, "8080", uint64(8080), token.Span{})
	ctx.OpenVariables["port"] = &ast.VariableBinding{Name: "port", Value: bound}
	p := &Parser{ctx: ctx}
	presID := ctx.newNodePresentation()

	node, err := p.resolveVariableReference("port", false, "$port", token.Position{}, presID)
	require.NoError(t, err)
	scalar := node.(*ast.ScalarNode)
	assert.Equal(t, ast.UintScalar, scalar.Type)
	assert.Equal(t, "8080", scalar.Raw)

	binding := ctx.OpenVariables["port"]
	require.Len(t, binding.Refs, 1)
	assert.False(t, binding.Refs[0].InString)
}

func TestResolveVariableReferenceInString(t *testing.T) {
	ctx := NewBytesContext([]byte(""), "<test>", "/tmp", GeneratePresentation)
	ctx.OpenVariables["host"] = &ast.VariableBinding{Name: "host", Value: ast.NewScalar(ast.StringScalar, "example.com", "example.com", token.Span{})}
	ctx.OpenVariables["port"] = &ast.VariableBinding{Name: "port", Value: ast.NewScalar(ast.UintScalar, "8080", uint64(8080), token.Span{})}
	p := &Parser{ctx: ctx}
	presID := ctx.newNodePresentation()

	raw := "http://$host:$port/"
	node, err := p.resolveVariableReference("", true, raw, token.Position{}, presID)
	require.NoError(t, err)
	scalar := node.(*ast.ScalarNode)
	assert.Equal(t, "http://example.com:8080/", scalar.Raw)

	pres := ctx.Presentation.Get(presID)
	require.NotNil(t, pres)
	assert.Equal(t, raw, pres.ValueWithVariables)

	assert.Len(t, ctx.OpenVariables["host"].Refs, 1)
	assert.Len(t, ctx.OpenVariables["port"].Refs, 1)
}
