package parser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/example/go-subyaml/ast"
	"github.com/example/go-subyaml/errors"
	"github.com/example/go-subyaml/token"
)

// parseInclude implements the include resolver (spec.md §4.5): read the
// path following `!include`/`!includeraw`, resolve and validate it against
// the including file's directory, detect cycles, then either read the
// target verbatim (raw) or recursively parse it, applying any override
// block that follows at a deeper column than the tag.
func (p *Parser) parseInclude(tag *ast.Tag, raw bool, minIndent int) (ast.Node, error) {
	c := p.ctx
	tagCol := tag.Span.Start.Column
	siteAt := tag.Span.Start

	for c.peek() == ' ' || c.peek() == '\t' {
		c.advance()
	}
	path, err := p.readIncludePath()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, p.errAt(errors.InvalidInclude, "missing include path")
	}

	var override *ast.MappingNode
	if !raw {
		nextCol, err := p.columnAfterTrivia()
		if err != nil {
			return nil, err
		}
		if !c.atEOF() && nextCol > tagCol {
			prevOverride := p.inOverrideContext
			p.inOverrideContext = true
			node, err := p.parseData(nextCol)
			p.inOverrideContext = prevOverride
			if err != nil {
				return nil, err
			}
			m, ok := node.(*ast.MappingNode)
			if !ok {
				return nil, p.errAt(errors.WrongObject, "override block must be a mapping")
			}
			override = m
		}
	}
	bindings := p.pendingVarBindings
	p.pendingVarBindings = nil

	fullPath, dir, err := resolveIncludePath(c, path)
	if err != nil {
		return nil, p.errAt(errors.InvalidInclude, err.Error())
	}
	if cycleDetected(c, fullPath) {
		return nil, p.errAt(errors.InvalidInclude, "include cycle detected for "+path)
	}

	site := &IncludeSite{File: c.FilePath, Pos: siteAt}
	parentPresID := c.newNodePresentation()

	if raw {
		content, err := os.ReadFile(fullPath)
		if err != nil {
			return nil, errors.WrapInclude(p.errAt(errors.InvalidInclude, err.Error()), c.FilePath, siteAt)
		}
		value := string(content)
		node := ast.NewScalar(ast.StringScalar, value, value, token.Span{Start: siteAt, End: c.position()})
		node.SetTag(tag)
		node.SetPresentationID(parentPresID)
		if pres := c.Presentation.Get(parentPresID); pres != nil {
			pres.Included = &ast.Inclusion{Path: path, Raw: true}
		}
		return node, nil
	}

	openVars := map[string]*ast.VariableBinding{}
	varNames := make([]string, 0, len(bindings))
	for name, val := range bindings {
		openVars[name] = &ast.VariableBinding{Name: name, Value: val}
		varNames = append(varNames, name)
	}

	src, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, errors.WrapInclude(p.errAt(errors.InvalidInclude, err.Error()), c.FilePath, siteAt)
	}
	child := newContext(path, fullPath, dir, src, c.Mode, c, site)
	child.OpenVariables = openVars
	c.Children = append(c.Children, child)

	if err := Parse(child); err != nil {
		return nil, errors.WrapInclude(err, c.FilePath, siteAt)
	}
	if len(child.UnboundNames) > 0 {
		c.UnboundNames = append(c.UnboundNames, child.UnboundNames...)
	}

	var overrideResult *ast.Override
	if override != nil {
		overrideResult, err = mergeOverride(c.FilePath, child.AST, override)
		if err != nil {
			return nil, err
		}
	}

	node := child.AST
	node.SetTag(tag)
	node.SetPresentationID(parentPresID)
	if pres := c.Presentation.Get(parentPresID); pres != nil {
		pres.Included = &ast.Inclusion{
			Path:                 path,
			Raw:                  false,
			DocumentPresentation: child.Presentation,
			Override:             overrideResult,
			Variables:            varNames,
		}
	}
	return node, nil
}

// readIncludePath reads the path argument to !include/!includeraw: either
// a double-quoted string or a bare run of non-whitespace, non-comment
// characters.
func (p *Parser) readIncludePath() (string, error) {
	c := p.ctx
	if c.peek() == '"' {
		start := c.position()
		node, err := p.parseQuotedScalar('"', start, 0)
		if err != nil {
			return "", err
		}
		return node.(*ast.ScalarNode).Value.(string), nil
	}
	var b strings.Builder
	for !c.atEOF() {
		ch := c.peek()
		if ch == '\n' || ch == '#' || ch == ' ' || ch == '\t' || ch == '\r' {
			break
		}
		b.WriteByte(c.advance())
	}
	return b.String(), nil
}

// resolveIncludePath joins rawPath against the including file's directory
// and rejects any path that escapes it (spec.md §4.5 "Inclusion may not
// reach outside the directory containing the including file").
func resolveIncludePath(c *Context, rawPath string) (fullPath, dir string, err error) {
	joined := filepath.Join(c.Dir, rawPath)
	rel, err := filepath.Rel(c.Dir, joined)
	if err != nil {
		return "", "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", &pathEscapeError{path: rawPath}
	}
	full, err := filepath.Abs(joined)
	if err != nil {
		return "", "", err
	}
	return full, filepath.Dir(full), nil
}

type pathEscapeError struct{ path string }

func (e *pathEscapeError) Error() string {
	return "include path escapes containing directory: " + e.path
}

// cycleDetected walks the ancestor chain of c (c included, c's includer,
// and so on) comparing canonical paths, so an include chain can never
// reference a file already open higher up (spec.md §4.5 "Cycle check").
func cycleDetected(c *Context, fullPath string) bool {
	for cur := c; cur != nil; cur = cur.Parent {
		if cur.FullPath == fullPath {
			return true
		}
	}
	return false
}
