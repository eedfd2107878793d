package parser

import (
	"testing"

	"github.com/example/go-subyaml/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyScalar(t *testing.T) {
	cases := []struct {
		raw  string
		typ  ast.ScalarType
		want interface{}
	}{
		{"~", ast.NullScalar, nil},
		{"null", ast.NullScalar, nil},
		{"true", ast.BoolScalar, true},
		{"false", ast.BoolScalar, false},
		{"-0", ast.UintScalar, uint64(0)},
		{"-3", ast.IntScalar, int64(-3)},
		{"42", ast.UintScalar, uint64(42)},
		{"3.14", ast.DoubleScalar, 3.14},
		{"hello", ast.StringScalar, "hello"},
	}
	for _, c := range cases {
		typ, val := classifyScalar(c.raw)
		assert.Equal(t, c.typ, typ, c.raw)
		assert.Equal(t, c.want, val, c.raw)
	}
}

func TestUnquoteDoubleEscapes(t *testing.T) {
	out, err := unquoteDouble(`a\nb\tc`)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\tc", out)

	_, err = unquoteDouble(`bad\q`)
	assert.Error(t, err)
}

func TestEscapeDoubleRoundTrip(t *testing.T) {
	in := "line1\nline2\ttab"
	out, err := unquoteDouble(escapeDouble(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
