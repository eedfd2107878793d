// Package ast defines the abstract syntax tree produced by the parser and
// consumed by the printer: scalar, sequence and mapping nodes, plus the
// presentation model (comments, blank lines, flow hints, inclusion and
// override bookkeeping) described in spec.md §3.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/go-subyaml/token"
)

// NodeKind identifies the three node shapes spec.md §3 defines. Unlike the
// teacher's ast.NodeType, there is no anchor/alias/merge-key/directive kind:
// spec.md's Non-goals explicitly exclude anchors and aliases.
type NodeKind int

const (
	UnknownKind NodeKind = iota
	ScalarKind
	SequenceKind
	MappingKind
)

func (k NodeKind) String() string {
	switch k {
	case ScalarKind:
		return "Scalar"
	case SequenceKind:
		return "Sequence"
	case MappingKind:
		return "Mapping"
	}
	return "Unknown"
}

// ScalarType is the sub-kind decided by the scalar classifier (spec.md
// §4.1 "Scalar typing").
type ScalarType int

const (
	StringScalar ScalarType = iota
	UintScalar
	IntScalar
	DoubleScalar
	BoolScalar
	NullScalar
)

func (t ScalarType) String() string {
	switch t {
	case StringScalar:
		return "String"
	case UintScalar:
		return "Uint"
	case IntScalar:
		return "Int"
	case DoubleScalar:
		return "Double"
	case BoolScalar:
		return "Bool"
	case NullScalar:
		return "Null"
	}
	return "Unknown"
}

// Tag is the optional `!name` annotation on a node (spec.md §3).
type Tag struct {
	Name string
	Span token.Span
}

// Node is the generic AST unit. Every concrete node embeds *base, which
// carries the span, optional tag and presentation-store back-reference
// common to all three kinds (teacher: ast.Node interface in ast/node.go,
// simplified to the fields spec.md §3 actually names).
type Node interface {
	Kind() NodeKind
	Span() token.Span
	Tag() *Tag
	SetTag(*Tag)
	// PresentationID indexes into the parse's PresentationStore; 0 means
	// "no presentation recorded for this node".
	PresentationID() int
	SetPresentationID(int)
	String() string
}

type base struct {
	span    token.Span
	tag     *Tag
	presID  int
	nodeKnd NodeKind
}

func (b *base) Kind() NodeKind             { return b.nodeKnd }
func (b *base) Span() token.Span           { return b.span }
func (b *base) Tag() *Tag                  { return b.tag }
func (b *base) SetTag(t *Tag)              { b.tag = t }
func (b *base) PresentationID() int        { return b.presID }
func (b *base) SetPresentationID(id int)   { b.presID = id }

// ScalarNode is a leaf value: string, unsigned/signed integer, double,
// bool or null (spec.md §3 "Scalar sub-kinds").
type ScalarNode struct {
	base
	Type  ScalarType
	Raw   string      // trimmed literal text as it appeared in the source
	Value interface{} // string, uint64, int64, float64, bool, or nil
	// Quoted records whether the source wrote this scalar with quotes,
	// and which kind, so the packer can preserve single vs double quoting
	// on round-trip even when re-quoting wouldn't otherwise be required.
	Quoted      bool
	DoubleQuote bool
}

// NewScalar builds a scalar node of the given classified type.
func NewScalar(typ ScalarType, raw string, value interface{}, span token.Span) *ScalarNode {
	return &ScalarNode{
		base: base{span: span, nodeKnd: ScalarKind},
		Type: typ,
		Raw:  raw, Value: value,
	}
}

func (n *ScalarNode) String() string {
	if n.Quoted {
		if n.DoubleQuote {
			return fmt.Sprintf("%q", n.Raw)
		}
		return fmt.Sprintf("'%s'", strings.ReplaceAll(n.Raw, "'", "''"))
	}
	return n.Raw
}

// SequenceNode is an ordered list of nodes. ItemPresIDs runs parallel to
// Items (spec.md §3 "parallel list of per-element presentation slots").
type SequenceNode struct {
	base
	FlowMode    bool
	Items       []Node
	ItemPresIDs []int
}

func NewSequence(span token.Span, flow bool) *SequenceNode {
	return &SequenceNode{base: base{span: span, nodeKnd: SequenceKind}, FlowMode: flow}
}

func (n *SequenceNode) Append(item Node, presID int) {
	n.Items = append(n.Items, item)
	n.ItemPresIDs = append(n.ItemPresIDs, presID)
}

func (n *SequenceNode) String() string {
	parts := make([]string, len(n.Items))
	for i, it := range n.Items {
		parts[i] = it.String()
	}
	if n.FlowMode {
		return "[" + strings.Join(parts, ", ") + "]"
	}
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = "- " + p
	}
	return strings.Join(out, "\n")
}

// MappingEntry is one (key, value) pair of a MappingNode. Keys are plain
// strings; spec.md only allows alphanumeric (optionally `$`-prefixed) keys.
type MappingEntry struct {
	Key       string
	KeySpan   token.Span
	Value     Node
	KeyPresID int
}

// MappingNode is an ordered, key-unique set of entries (spec.md §3
// invariant 1). Order is preserved because Entries is a slice, not a map.
type MappingNode struct {
	base
	FlowMode bool
	Entries  []*MappingEntry
}

func NewMapping(span token.Span, flow bool) *MappingNode {
	return &MappingNode{base: base{span: span, nodeKnd: MappingKind}, FlowMode: flow}
}

// Get returns the entry for key, or nil if absent.
func (n *MappingNode) Get(key string) *MappingEntry {
	for _, e := range n.Entries {
		if e.Key == key {
			return e
		}
	}
	return nil
}

// Append adds a new entry. Callers are responsible for the uniqueness
// check (spec.md invariant 1); the parser and override merger enforce it
// at the point keys are introduced.
func (n *MappingNode) Append(e *MappingEntry) {
	n.Entries = append(n.Entries, e)
}

func (n *MappingNode) String() string {
	parts := make([]string, len(n.Entries))
	for i, e := range n.Entries {
		parts[i] = fmt.Sprintf("%s: %s", e.Key, e.Value.String())
	}
	if n.FlowMode {
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return strings.Join(parts, "\n")
}

// IsNumericKey reports whether s parses as a plain non-negative integer.
// Nothing else in this module calls it.
func IsNumericKey(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}
