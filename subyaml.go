// Package subyaml implements the parser, override/variable engine and
// packer for the included-file YAML dialect described by this module:
// documents may pull in other files with `!include`/`!includeraw`,
// patch the included content with an override mapping, and bind
// `$name` placeholders the included file references (spec.md §1-§9).
//
// The parser (package parser) and packer (package printer) do the real
// work; this package exposes the narrow, idiomatic surface callers use:
// Parse to go from source text to an (ast.Node, *ast.PresentationStore)
// pair, and a PackEnv to go back to text, either as a single in-memory
// buffer or as a directory tree with included subfiles written out on
// their own.
package subyaml

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/example/go-subyaml/ast"
	"github.com/example/go-subyaml/errors"
	"github.com/example/go-subyaml/parser"
	"github.com/example/go-subyaml/printer"
)

// ParseOption configures a Parse call.
type ParseOption func(*parser.Mode)

// WithPresentation turns on presentation recording (comments, blank
// lines, flow-style hints, variable templates), needed for any later
// Pack call that must reproduce the source faithfully.
func WithPresentation() ParseOption {
	return func(m *parser.Mode) { *m |= parser.GeneratePresentation }
}

// WithAllowUnboundVariables tolerates `$name` references that no
// includer ever bound, instead of failing the parse (spec.md §3
// invariant 4).
func WithAllowUnboundVariables() ParseOption {
	return func(m *parser.Mode) { *m |= parser.AllowUnboundVariables }
}

// Document is the parsed result: the resolved AST (with every `!include`
// fully expanded) and, when WithPresentation was given, the presentation
// store needed to pack it back out faithfully.
type Document struct {
	AST          ast.Node
	Presentation *ast.PresentationStore
	// UnboundVariables lists names referenced but never bound, non-empty
	// only when WithAllowUnboundVariables was used.
	UnboundVariables []string
}

func applyOptions(opts []ParseOption) parser.Mode {
	var m parser.Mode
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// ParseFile reads and parses path from disk, resolving every include it
// contains relative to path's own directory.
func ParseFile(path string, opts ...ParseOption) (*Document, error) {
	ctx, err := parser.NewFileContext(path, applyOptions(opts))
	if err != nil {
		return nil, err
	}
	return parseContext(ctx)
}

// ParseBytes parses in-memory source. virtualDir is the directory any
// `!include` tags in source are resolved relative to.
func ParseBytes(source []byte, virtualDir string, opts ...ParseOption) (*Document, error) {
	ctx := parser.NewBytesContext(source, "<memory>", virtualDir, applyOptions(opts))
	return parseContext(ctx)
}

func parseContext(ctx *parser.Context) (*Document, error) {
	if err := parser.Parse(ctx); err != nil {
		return nil, err
	}
	return &Document{
		AST:              ctx.AST,
		Presentation:     ctx.Presentation,
		UnboundVariables: ctx.UnboundNames,
	}, nil
}

// PackEnv configures a Pack call: whether included subtrees are written
// out as their own files (the default, mirroring how the document was
// parsed) or fully inlined into one buffer (spec.md §6 "no-subfiles").
type PackEnv struct {
	outputDir  string
	noSubfiles bool
}

// NewPackEnv returns a PackEnv. PackToString, PackToFile and
// PackToCallback inline everything into a single buffer; PackToDirectory
// writes a directory tree.
func NewPackEnv() *PackEnv { return &PackEnv{} }

// SetOutputDir records dir on the env. No Pack method reads it:
// PackToDirectory takes its output directory as an argument, and the
// other Pack methods always inline.
func (e *PackEnv) SetOutputDir(dir string) *PackEnv {
	e.outputDir = dir
	return e
}

// SetNoSubfiles forces full inlining even when an output directory was
// set, matching the `--no-subfiles` flag spec.md §6 describes.
func (e *PackEnv) SetNoSubfiles(v bool) *PackEnv {
	e.noSubfiles = v
	return e
}

// PackToString renders doc to a single YAML document, inlining every
// included subtree regardless of SetOutputDir.
func (e *PackEnv) PackToString(doc *Document) string {
	return printer.PackDocument(doc.AST, doc.Presentation)
}

// PackToFile writes doc to path, a single in-memory render (ignores
// SetOutputDir — use PackToDirectory for subfile output).
func (e *PackEnv) PackToFile(doc *Document, path string) error {
	text := e.PackToString(doc)
	return os.WriteFile(path, []byte(text), 0o644)
}

// PackToDirectory writes doc's top-level document to path under dir,
// writing every included subtree out as its own file under dir unless
// SetNoSubfiles was used, in which case it writes the fully inlined
// document to that same path, as PackToFile would.
func (e *PackEnv) PackToDirectory(doc *Document, dir, path string) error {
	full := filepath.Join(dir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	if e.noSubfiles {
		return e.PackToFile(doc, full)
	}
	text, _, err := printer.PackToDirectory(doc.AST, doc.Presentation, dir)
	if err != nil {
		return errors.Wrapf(err, "packing %s", path)
	}
	return os.WriteFile(full, []byte(text), 0o644)
}

// PackToCallback renders doc and invokes fn with the result instead of
// writing to disk, for callers that want to stream the output elsewhere
// (spec.md §6 "pack to callback").
func (e *PackEnv) PackToCallback(doc *Document, fn func(io.Reader) error) error {
	return fn(bytes.NewReader([]byte(e.PackToString(doc))))
}
