package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/example/go-subyaml/token"
)

func TestMappingAppendAndGet(t *testing.T) {
	m := NewMapping(token.Span{}, false)
	m.Append(&MappingEntry{Key: "a", Value: NewScalar(StringScalar, "x", "x", token.Span{})})
	m.Append(&MappingEntry{Key: "b", Value: NewScalar(StringScalar, "y", "y", token.Span{})})

	if got := m.Get("a"); got == nil || got.Value.(*ScalarNode).Raw != "x" {
		t.Fatalf("Get(a) = %v, want entry with raw x", got)
	}
	if m.Get("missing") != nil {
		t.Fatal("Get(missing) should be nil")
	}
}

func TestSequenceStringFlowVsBlock(t *testing.T) {
	flow := NewSequence(token.Span{}, true)
	flow.Append(NewScalar(UintScalar, "1", uint64(1), token.Span{}), 0)
	flow.Append(NewScalar(UintScalar, "2", uint64(2), token.Span{}), 0)
	if got, want := flow.String(), "[1, 2]"; got != want {
		t.Fatalf("flow String() = %q, want %q", got, want)
	}

	block := NewSequence(token.Span{}, false)
	block.Append(NewScalar(UintScalar, "1", uint64(1), token.Span{}), 0)
	block.Append(NewScalar(UintScalar, "2", uint64(2), token.Span{}), 0)
	if got, want := block.String(), "- 1\n- 2"; got != want {
		t.Fatalf("block String() = %q, want %q", got, want)
	}
}

// TestMappingDeepEqual uses go-cmp, ignoring the unexported base fields,
// to compare two independently built trees structurally rather than by
// pointer identity — useful once the override merger starts producing
// copies of existing subtrees.
func TestMappingDeepEqual(t *testing.T) {
	build := func() *MappingNode {
		m := NewMapping(token.Span{}, false)
		m.Append(&MappingEntry{Key: "a", Value: NewScalar(StringScalar, "x", "x", token.Span{})})
		return m
	}
	a, b := build(), build()
	if diff := cmp.Diff(a, b, cmpopts.IgnoreUnexported(MappingNode{}, ScalarNode{})); diff != "" {
		t.Fatalf("unexpected diff (-a +b):\n%s", diff)
	}
}
