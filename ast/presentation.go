package ast

// Presentation is the editorial metadata attached to one AST position
// (spec.md §3 "Presentation node"). Nodes never hold a *Presentation
// pointer directly — they hold a PresentationID that indexes into a
// PresentationStore, matching the "back-edges... become index references"
// guidance in spec.md §9 DESIGN NOTES.
type Presentation struct {
	PrefixComments []string
	InlineComment  string
	EmptyLines     int // capped at 2, spec.md §4.4
	FlowMode       bool
	// ValueWithVariables holds the original `"$host:$port"`-shaped string
	// literal so the packer can regenerate the template instead of the
	// resolved value (spec.md §4.6 "Packing round-trip").
	ValueWithVariables string
	// Included is set when this presentation belongs to the root node of
	// an included document.
	Included *Inclusion
}

// Inclusion is the descriptor spec.md §3 attaches to an included node:
// `{ include_presentation, path, raw, document_presentation, override?, variables? }`.
type Inclusion struct {
	// IncludePresentationID is the presentation of the `!include …` line
	// itself (its own comments/blank lines), distinct from the included
	// document's own presentation store.
	IncludePresentationID int
	Path                  string
	Raw                   bool
	// DocumentPresentation is the included file's own presentation store,
	// kept so the subfile packer can re-pack it faithfully (spec.md §4.9).
	DocumentPresentation *PresentationStore
	Override             *Override
	// Variables lists the names this including document binds for the
	// subfile (spec.md §3 "variables: lists the names of variables bound
	// by the including document").
	Variables []string
}

// OverrideEntry is one recorded diff produced by the override merger
// (spec.md §4.7). Path is relative to the override root, using the same
// `.key`/`[idx]`/`!` addressing as presentation paths.
type OverrideEntry struct {
	Path string
	// Original is the value present before the override was applied.
	// HasOriginal is false for additions (spec.md §3 "An override addition
	// ... has original_data absent").
	Original    Node
	HasOriginal bool
}

// Override is the ordered list of entries recorded while merging an
// override object into an included subtree (spec.md §4.7, last paragraph:
// "stored in traversal order... this ordering is what the packer replays").
type Override struct {
	Entries []OverrideEntry
}

// Record appends one merge outcome in traversal order (spec.md §4.7: "the
// packer replays entries in this order").
func (o *Override) Record(path string, original Node, has bool) {
	o.Entries = append(o.Entries, OverrideEntry{Path: path, Original: original, HasOriginal: has})
}

// VariableRef is one leaf that references a variable (spec.md §3
// "Variable binding").
type VariableRef struct {
	Leaf *ScalarNode
	// InString is true when the leaf's scalar string must be template
	// substituted ("$name within other text") rather than replaced
	// wholesale (a bare "$name" scalar).
	InString bool
}

// VariableBinding is the table entry for one `$name`: the value supplied
// by the includer, and every leaf across the included document that
// references it.
type VariableBinding struct {
	Name  string
	Value Node
	Refs  []*VariableRef
}

// PresentationStore owns every Presentation allocated during one parse,
// indexed by small integer IDs so nodes can reference them without
// pointer back-edges (spec.md §9 DESIGN NOTES). It also supports the flat,
// path-addressed "document presentation" view spec.md §3 describes.
type PresentationStore struct {
	records []*Presentation
	paths   []string // paths[id] is empty until bound
	byPath  map[string]int
}

// NewPresentationStore returns an empty store. ID 0 is reserved to mean
// "no presentation" so the zero value of a Node's presID field is valid.
func NewPresentationStore() *PresentationStore {
	return &PresentationStore{
		records: []*Presentation{nil},
		paths:   []string{""},
		byPath:  map[string]int{},
	}
}

// New allocates a fresh Presentation and returns its ID.
func (s *PresentationStore) New() (int, *Presentation) {
	p := &Presentation{}
	id := len(s.records)
	s.records = append(s.records, p)
	s.paths = append(s.paths, "")
	return id, p
}

// Get returns the Presentation for id, or nil if id is 0 (unset).
func (s *PresentationStore) Get(id int) *Presentation {
	if id <= 0 || id >= len(s.records) {
		return nil
	}
	return s.records[id]
}

// BindPath associates id with its flat document-presentation address.
func (s *PresentationStore) BindPath(id int, path string) {
	if id <= 0 || id >= len(s.paths) {
		return
	}
	s.paths[id] = path
	s.byPath[path] = id
}

// Lookup finds the Presentation bound to path, if any.
func (s *PresentationStore) Lookup(path string) (*Presentation, bool) {
	id, ok := s.byPath[path]
	if !ok {
		return nil, false
	}
	return s.Get(id), true
}

// Paths returns every bound path in allocation order, which is also
// source (depth-first) order since presentations are allocated as the
// parser walks the document.
func (s *PresentationStore) Paths() []string {
	out := make([]string, 0, len(s.byPath))
	for id := 1; id < len(s.paths); id++ {
		if s.paths[id] != "" {
			out = append(out, s.paths[id])
		}
	}
	return out
}
