package subyaml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripSimpleDocument(t *testing.T) {
	src := "name: demo\ncount: 3\nitems:\n  - one\n  - two\n"
	doc, err := ParseBytes([]byte(src), "/tmp", WithPresentation())
	require.NoError(t, err)

	env := NewPackEnv()
	out := env.PackToString(doc)
	assert.Equal(t, src, out)
}

func TestAllowUnboundVariablesReportsNames(t *testing.T) {
	src := "value: $missing\n"
	doc, err := ParseBytes([]byte(src), "/tmp", WithAllowUnboundVariables())
	require.NoError(t, err)
	assert.Contains(t, doc.UnboundVariables, "missing")
}

func TestUnboundVariableFailsWithoutOption(t *testing.T) {
	src := "value: $missing\n"
	_, err := ParseBytes([]byte(src), "/tmp")
	assert.Error(t, err)
}
