package printer

import (
	"strconv"
	"strings"

	"github.com/example/go-subyaml/ast"
)

// packState names the packer's whitespace states (spec.md §4.8). The
// Packer sets its state to clean at construction and does not consult it
// afterwards: packSequence and packMapping write spaces, newlines and
// indentation directly, with no transition table.
type packState int

const (
	clean packState = iota
	onDash
	onKey
	onNewline
	afterData
)

// Packer renders an AST back to YAML text, honoring recorded presentation
// (prefix/inline comments, blank lines, flow-vs-block style) (spec.md §8
// invariant 1). A block mapping or sequence that is an item of a block
// sequence is written starting on the line after its dash ("- " then a
// newline), so documents written in the compact "- key: value" form do
// not round-trip byte-for-byte.
type Packer struct {
	buf        strings.Builder
	state      packState
	indentUnit int

	// subfiles is non-nil when packing in "write subfiles to a directory"
	// mode (spec.md §6 "Pack with output-dir"); nil means inline everything
	// into one buffer, the mode PackDocument uses.
	subfiles *SubfilePacker
}

// NewPacker returns a packer using a two-space indent unit, matching
// token.Position.Indent.
func NewPacker() *Packer {
	return &Packer{indentUnit: 2, state: clean}
}

func (pk *Packer) String() string { return pk.buf.String() }

func (pk *Packer) writeIndent(level int) {
	pk.buf.WriteString(strings.Repeat(" ", level*pk.indentUnit))
}

func (pk *Packer) writeComments(store *ast.PresentationStore, presID int, level int) {
	if store == nil {
		return
	}
	p := store.Get(presID)
	if p == nil {
		return
	}
	for i := 0; i < p.EmptyLines; i++ {
		pk.buf.WriteString("\n")
	}
	for _, c := range p.PrefixComments {
		pk.writeIndent(level)
		pk.buf.WriteString(c)
		pk.buf.WriteString("\n")
	}
}

func (pk *Packer) writeInline(store *ast.PresentationStore, presID int) {
	if store == nil {
		return
	}
	p := store.Get(presID)
	if p == nil || p.InlineComment == "" {
		return
	}
	pk.buf.WriteString(" ")
	pk.buf.WriteString(p.InlineComment)
}

// PackDocument renders root as a complete document, fully inlining any
// included subtree (spec.md §6 "pack to a single in-memory buffer").
func PackDocument(root ast.Node, store *ast.PresentationStore) string {
	pk := NewPacker()
	pk.packNode(root, store, 0, false)
	out := pk.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

func (pk *Packer) packNode(n ast.Node, store *ast.PresentationStore, level int, inline bool) {
	if pk.subfiles != nil && store != nil {
		if p := store.Get(n.PresentationID()); p != nil && p.Included != nil {
			pk.packIncluded(n, p, level, inline)
			return
		}
	}
	switch v := n.(type) {
	case *ast.ScalarNode:
		pk.packScalar(v, store, level, inline)
	case *ast.SequenceNode:
		pk.packSequence(v, store, level, inline)
	case *ast.MappingNode:
		pk.packMapping(v, store, level, inline)
	}
}

func (pk *Packer) packScalar(n *ast.ScalarNode, store *ast.PresentationStore, level int, inline bool) {
	if !inline {
		pk.writeIndent(level)
	}
	pk.buf.WriteString(renderScalarText(n, store))
	pk.writeInline(store, n.PresentationID())
}

// renderScalarText renders a scalar's literal text, restoring a recorded
// "$name"-shaped template in place of its resolved value when the
// presentation store carries one (spec.md §4.6 "Packing round-trip"),
// and otherwise applying the quoting decision (spec.md §4.3).
func renderScalarText(n *ast.ScalarNode, store *ast.PresentationStore) string {
	if store != nil {
		if p := store.Get(n.PresentationID()); p != nil && p.ValueWithVariables != "" {
			return p.ValueWithVariables
		}
	}
	if n.Quoted && !n.DoubleQuote {
		return "'" + strings.ReplaceAll(n.Raw, "'", "''") + "'"
	}
	if mustQuote(n) {
		return `"` + escapeDouble(n.Raw) + `"`
	}
	return n.Raw
}

// mustQuote decides whether a scalar needs quotes on output (spec.md §4.3):
// it already was quoted in the source, its raw text would reclassify as a
// different type if left bare, it starts with one of `!&*-"{[#.`, it
// contains `:` or `#` or a non-printable byte, it starts or ends with a
// space, or it equals `~`/`null` (the last two are already caught by the
// reclassification check above). Apart from `:` and `#`, these characters
// are not a quoting trigger anywhere but the start — `email@example.com`,
// `100%`, `a,b` and `x|y` are all emitted bare.
func mustQuote(n *ast.ScalarNode) bool {
	if n.Type != ast.StringScalar {
		return false
	}
	if n.Quoted {
		return true
	}
	if n.Raw == "" {
		return true
	}
	if typ, _ := classifyScalarLike(n.Raw); typ != ast.StringScalar {
		return true
	}
	if strings.ContainsRune(`!&*-"{[#.`, rune(n.Raw[0])) {
		return true
	}
	if strings.ContainsAny(n.Raw, ":#") {
		return true
	}
	if containsNonPrintable(n.Raw) {
		return true
	}
	if n.Raw[0] == ' ' || n.Raw[len(n.Raw)-1] == ' ' {
		return true
	}
	return false
}

func containsNonPrintable(s string) bool {
	for i := 0; i < len(s); i++ {
		if b := s[i]; b < 0x20 || b == 0x7f {
			return true
		}
	}
	return false
}

// classifyScalarLike re-runs the parser's scalar classifier so the packer
// can decide, independent of parsing, whether a string's own text would
// be mis-typed if written back unquoted.
func classifyScalarLike(raw string) (ast.ScalarType, interface{}) {
	switch strings.ToLower(raw) {
	case "~", "null", "true", "false", ".inf", "-.inf", ".nan":
		return ast.BoolScalar, nil
	}
	if raw == "-0" {
		return ast.UintScalar, nil
	}
	if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ast.IntScalar, nil
	}
	if _, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return ast.UintScalar, nil
	}
	if strings.ContainsAny(raw, ".eE") {
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			return ast.DoubleScalar, nil
		}
	}
	return ast.StringScalar, nil
}

func (pk *Packer) packSequence(n *ast.SequenceNode, store *ast.PresentationStore, level int, inline bool) {
	if n.FlowMode {
		if !inline {
			pk.writeIndent(level)
		}
		pk.buf.WriteString("[")
		for i, item := range n.Items {
			if i > 0 {
				pk.buf.WriteString(", ")
			}
			pk.packNode(item, store, 0, true)
		}
		pk.buf.WriteString("]")
		pk.writeInline(store, n.PresentationID())
		return
	}
	for i, item := range n.Items {
		presID := 0
		if i < len(n.ItemPresIDs) {
			presID = n.ItemPresIDs[i]
		}
		pk.writeComments(store, presID, level)
		pk.writeIndent(level)
		pk.buf.WriteString("- ")
		if isCollection(item) && !isFlow(item) {
			pk.buf.WriteString("\n")
			pk.packNode(item, store, level+1, false)
		} else {
			pk.packNode(item, store, level, true)
			pk.buf.WriteString("\n")
		}
	}
}

func (pk *Packer) packMapping(n *ast.MappingNode, store *ast.PresentationStore, level int, inline bool) {
	if n.FlowMode {
		if !inline {
			pk.writeIndent(level)
		}
		pk.buf.WriteString("{")
		for i, e := range n.Entries {
			if i > 0 {
				pk.buf.WriteString(", ")
			}
			pk.buf.WriteString(e.Key)
			pk.buf.WriteString(": ")
			pk.packNode(e.Value, store, 0, true)
		}
		pk.buf.WriteString("}")
		pk.writeInline(store, n.PresentationID())
		return
	}
	for _, e := range n.Entries {
		pk.writeComments(store, e.KeyPresID, level)
		pk.writeIndent(level)
		pk.buf.WriteString(e.Key)
		pk.buf.WriteString(":")
		if isCollection(e.Value) && !isFlow(e.Value) {
			pk.buf.WriteString("\n")
			pk.packNode(e.Value, store, level+1, false)
		} else {
			pk.buf.WriteString(" ")
			pk.packNode(e.Value, store, level, true)
			pk.buf.WriteString("\n")
		}
	}
}

func isCollection(n ast.Node) bool {
	switch n.Kind() {
	case ast.SequenceKind, ast.MappingKind:
		return true
	}
	return false
}

func isFlow(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.SequenceNode:
		return v.FlowMode
	case *ast.MappingNode:
		return v.FlowMode
	}
	return false
}
