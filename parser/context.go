package parser

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/go-subyaml/ast"
	"github.com/example/go-subyaml/token"
)

// Mode flags recognized by the parse surface (spec.md §6).
type Mode int

const (
	// GeneratePresentation records comments, blank lines, flow hints and
	// variable templates into a PresentationStore. Off by default so a
	// caller that only wants the AST pays nothing for bookkeeping.
	GeneratePresentation Mode = 1 << iota
	// AllowUnboundVariables tolerates `$name` references with no bound
	// value instead of failing the parse (spec.md §3 invariant 4).
	AllowUnboundVariables
)

func (m Mode) has(f Mode) bool { return m&f != 0 }

// IncludeSite records where in a parent document a child context was
// included from, used to render the "error in included file" chain
// (spec.md §4.10) and to report include errors at the right position.
type IncludeSite struct {
	File string
	Pos  token.Position
}

// Context is the per-file parse state described in spec.md §3
// ("Parse context"). It owns the byte buffer for one file (or in-memory
// source), the cursor used while parsing it, the resulting AST and
// presentation store, and links to any child contexts created by
// resolving `!include`/`!includeraw` tags.
//
// Grounded on the teacher's parser.context (parser/context.go): that type
// is a cursor over a pre-lexed token.Tokens slice; here the cursor walks
// the raw source bytes directly, because spec.md's grammar is defined in
// terms of characters and indentation columns rather than a separate
// token stream.
type Context struct {
	FilePath string // path as given (relative to the including file, or the root path)
	FullPath string // canonicalized absolute path, used for cycle detection
	Dir      string // containing directory; includes may not escape it

	Source []byte // file contents. Spec.md describes this as memory-mapped;
	// a read-only byte slice gives the same semantics for a synchronous,
	// single-threaded parse without pulling in a platform-specific mmap
	// dependency that nothing in the example corpus provides.

	Mode Mode

	AST          ast.Node
	Presentation *ast.PresentationStore

	// OpenVariables is the variable table: the `$name:` bindings supplied
	// by the override block of the include that opened this context (empty
	// for a root context). Bindings made by includers further out are not
	// passed down, and names missing from this table are not handed back
	// to the includer to be bound there.
	OpenVariables map[string]*ast.VariableBinding
	// UnboundNames lists names referenced with no binding. It is filled
	// only when AllowUnboundVariables is set; without that flag the first
	// unbound reference fails the parse at its own position.
	UnboundNames []string

	Parent      *Context // non-owning: borrowed for the lifetime of the root parse
	IncludedAt  *IncludeSite
	Children    []*Context
	includeRaw  bool // true if this context was reached via !includeraw

	// cursor state
	pos         int
	line        int
	col         int
	indentLevel int

	// presentation cursor: "last completed node" / "pending next node",
	// matching spec.md §9's guidance to replace the teacher-style
	// last_node/next_node double pointer with a small two-option struct.
	pendingPrefix     []string
	pendingEmptyLines int
	lastPresID        int
	lastPresSet       bool
}

// newContext allocates a Context ready to parse source, rooted at dir
// (the directory new includes are resolved relative to).
func newContext(filePath, fullPath, dir string, source []byte, mode Mode, parent *Context, at *IncludeSite) *Context {
	return &Context{
		FilePath:      filePath,
		FullPath:      fullPath,
		Dir:           dir,
		Source:        source,
		Mode:          mode,
		Presentation:  ast.NewPresentationStore(),
		OpenVariables: map[string]*ast.VariableBinding{},
		Parent:        parent,
		IncludedAt:    at,
		line:          1,
		col:           1,
	}
}

// NewFileContext reads path from disk and builds a root Context for it.
func NewFileContext(path string, mode Mode) (*Context, error) {
	full, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", path, err)
	}
	src, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	dir := filepath.Dir(full)
	return newContext(path, full, dir, src, mode, nil, nil), nil
}

// NewBytesContext builds a root Context over in-memory source. virtualDir
// is used as the containment directory for any `!include` tags the
// document contains; virtualPath labels error messages.
func NewBytesContext(source []byte, virtualPath, virtualDir string, mode Mode) *Context {
	return newContext(virtualPath, virtualPath, virtualDir, source, mode, nil, nil)
}

// --- byte cursor -----------------------------------------------------

func (c *Context) atEOF() bool { return c.pos >= len(c.Source) }

func (c *Context) peek() byte {
	if c.atEOF() {
		return 0
	}
	return c.Source[c.pos]
}

func (c *Context) peekAt(offset int) byte {
	idx := c.pos + offset
	if idx < 0 || idx >= len(c.Source) {
		return 0
	}
	return c.Source[idx]
}

func (c *Context) advance() byte {
	b := c.peek()
	c.pos++
	if b == '\n' {
		c.line++
		c.col = 1
	} else {
		c.col++
	}
	return b
}

func (c *Context) position() token.Position {
	return token.Position{Line: c.line, Column: c.col, Offset: c.pos, IndentLevel: c.indentLevel}
}

// currentLineText returns the full source line containing the cursor,
// used for the error formatter's caret rendering (spec.md §4.10).
func (c *Context) currentLineText() string {
	return c.lineText(c.pos)
}

func (c *Context) lineText(offset int) string {
	start := offset
	for start > 0 && c.Source[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(c.Source) && c.Source[end] != '\n' {
		end++
	}
	return string(c.Source[start:end])
}

// --- presentation cursor ---------------------------------------------

// attachPrefix appends a prefix comment to the pending-next-node buffer.
func (c *Context) attachPrefix(comment string) {
	c.pendingPrefix = append(c.pendingPrefix, comment)
}

// addEmptyLine increments the pending blank-line count, capped at 2
// (spec.md §4.4).
func (c *Context) addEmptyLine() {
	if c.pendingEmptyLines < 2 {
		c.pendingEmptyLines++
	}
}

// attachInline sets the inline comment on the most recently completed
// node's presentation record.
func (c *Context) attachInline(comment string) {
	if !c.lastPresSet {
		return
	}
	if p := c.Presentation.Get(c.lastPresID); p != nil {
		p.InlineComment = comment
	}
}

// newNodePresentation allocates (or reuses, when presentation generation
// is off) the presentation record for a node about to be created,
// flushing the pending prefix comments and blank-line count into it, and
// marks it as the "last completed node" for subsequent inline-comment
// attachment.
func (c *Context) newNodePresentation() int {
	if !c.Mode.has(GeneratePresentation) {
		return 0
	}
	id, p := c.Presentation.New()
	p.PrefixComments = c.pendingPrefix
	p.EmptyLines = c.pendingEmptyLines
	c.pendingPrefix = nil
	c.pendingEmptyLines = 0
	c.lastPresID = id
	c.lastPresSet = true
	return id
}
