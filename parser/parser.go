package parser

import (
	"strings"

	"github.com/example/go-subyaml/ast"
	"github.com/example/go-subyaml/errors"
	"github.com/example/go-subyaml/token"
)

// Parser drives one Context's recursive-descent parse (spec.md §4.1-§4.2).
// Grounded on the teacher's parser.parser (parser/parser.go), whose
// structure — dispatch on the first non-blank character, recurse with an
// explicit min-indent parameter — carries over directly; only the unit of
// work changes from token to raw byte/column.
type Parser struct {
	ctx *Context
	// inOverrideContext is true while parsing the override block that
	// follows an `!include` line, the one place `$name:` binding keys are
	// permitted (spec.md §4.2 "Variables as keys... are forbidden in
	// non-override contexts").
	inOverrideContext bool
	// flowDepth counts nested `[`/`{` scopes; scalar reading inside a flow
	// collection stops at `,`, `]`, `}` instead of end-of-line (spec.md §4.2).
	flowDepth int
	// pendingVarBindings accumulates `$name: value` settings found while
	// parsing the override block that follows an `!include` line, until
	// parseInclude hands them to the child context as its OpenVariables
	// table (spec.md §4.5, §4.6).
	pendingVarBindings map[string]ast.Node
}

// Parse parses ctx.Source into ctx.AST, fully resolving any
// `!include`/`!includeraw` tags it contains (spec.md §4.5). With
// AllowUnboundVariables set, ctx.UnboundNames lists the variable
// references that were never bound; without it, the first unbound
// reference fails the parse.
func Parse(ctx *Context) error {
	p := &Parser{ctx: ctx}
	if err := p.skipTrivia(false); err != nil {
		return err
	}
	if ctx.atEOF() {
		return p.errAt(errors.MissingData, "document is empty")
	}
	node, err := p.parseData(1)
	if err != nil {
		return err
	}
	ctx.AST = node
	if err := p.skipTrivia(true); err != nil {
		return err
	}
	if !ctx.atEOF() {
		return p.errAt(errors.ExtraCharactersAfterData, "unexpected trailing content")
	}
	if !ctx.Mode.has(AllowUnboundVariables) {
		if len(ctx.UnboundNames) > 0 {
			return p.errAt(errors.InvalidInclude, "unbound variable(s): "+strings.Join(ctx.UnboundNames, ", "))
		}
	}
	return nil
}

func (p *Parser) errAt(kind errors.Kind, detail string) error {
	pos := p.ctx.position()
	return errors.NewSyntax(kind, detail, p.ctx.FilePath, p.ctx.currentLineText(), pos)
}

func (p *Parser) errAtPos(kind errors.Kind, detail string, pos token.Position, line string) error {
	return errors.NewSyntax(kind, detail, p.ctx.FilePath, line, pos)
}

// parseData is the grammar's single entry point (spec.md §4.1
// "parse_data(min_indent) → Node"), dispatching on the first non-blank
// character once indentation has been validated.
func (p *Parser) parseData(minIndent int) (ast.Node, error) {
	if err := p.skipTrivia(true); err != nil {
		return nil, err
	}
	c := p.ctx
	if c.atEOF() {
		return nil, p.errAt(errors.MissingData, "missing data")
	}
	if c.col < minIndent {
		return nil, p.errAt(errors.WrongIndentation, "wrong indentation")
	}

	switch c.peek() {
	case '!':
		return p.parseTagged(minIndent)
	case '[':
		return p.parseFlowSequence()
	case '{':
		return p.parseFlowMapping()
	case '-':
		if isBlank(c.peekAt(1)) {
			return p.parseBlockSequence(c.col)
		}
	}

	if key, keySpan, presID, ok := p.tryMappingKey(); ok {
		return p.parseBlockMapping(keySpan.Start.Column, key, keySpan, presID)
	}
	return p.parseScalarNode()
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == 0
}

// --- block sequence ----------------------------------------------------

func (p *Parser) parseBlockSequence(col int) (ast.Node, error) {
	start := p.ctx.position()
	seq := ast.NewSequence(token.Span{Start: start}, false)
	seq.SetPresentationID(p.ctx.newNodePresentation())

	for {
		p.ctx.advance() // consume '-'
		elemPresID := p.ctx.newNodePresentation()
		item, err := p.parseData(col + 1)
		if err != nil {
			return nil, err
		}
		seq.Append(item, elemPresID)

		nextCol, err := p.columnAfterTrivia()
		if err != nil {
			return nil, err
		}
		if p.ctx.atEOF() {
			break
		}
		if nextCol < col {
			break
		}
		if nextCol == col {
			if p.ctx.peek() == '-' && isBlank(p.ctx.peekAt(1)) {
				continue
			}
			return nil, p.errAt(errors.WrongObject, "expected another element of sequence")
		}
		return nil, p.errAt(errors.WrongIndentation, "line not aligned")
	}
	return seq, nil
}

// --- block mapping -------------------------------------------------------

// tryMappingKey attempts to consume a `key:` token at the cursor without
// consuming anything on failure. Keys are alphanumeric, optionally
// `$`-prefixed (spec.md §4.1 "Block mapping"), and must be followed
// immediately by `:` and then whitespace/newline/EOF — a raw `:` inside
// an ordinary scalar (e.g. "http://host") does not qualify, since nothing
// follows it but more non-whitespace text.
func (p *Parser) tryMappingKey() (string, token.Span, int, bool) {
	c := p.ctx
	startPos := c.position()
	savedPos, savedLine, savedCol := c.pos, c.line, c.col

	var b strings.Builder
	if c.peek() == '$' {
		if !p.inOverrideContext {
			// `$x:` outside an override context is not a valid key start;
			// let the scalar/variable-reference path handle it instead.
			return "", token.Span{}, 0, false
		}
		b.WriteByte(c.advance())
	}
	for isKeyChar(c.peek()) {
		b.WriteByte(c.advance())
	}
	key := b.String()
	if key == "" || (len(key) == 1 && key[0] == '$') {
		c.pos, c.line, c.col = savedPos, savedLine, savedCol
		return "", token.Span{}, 0, false
	}
	if c.peek() != ':' {
		c.pos, c.line, c.col = savedPos, savedLine, savedCol
		return "", token.Span{}, 0, false
	}
	after := c.peekAt(1)
	if !(after == ' ' || after == '\t' || after == '\n' || after == 0 || after == '\r') {
		c.pos, c.line, c.col = savedPos, savedLine, savedCol
		return "", token.Span{}, 0, false
	}
	presID := c.newNodePresentation()
	c.advance() // consume ':'
	endPos := c.position()
	return key, token.Span{Start: startPos, End: endPos}, presID, true
}

func isKeyChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_'
}

func (p *Parser) parseBlockMapping(col int, firstKey string, firstKeySpan token.Span, firstKeyPresID int) (ast.Node, error) {
	m := ast.NewMapping(token.Span{Start: firstKeySpan.Start}, false)
	key, keySpan, keyPresID := firstKey, firstKeySpan, firstKeyPresID

	for {
		if strings.HasPrefix(key, "$") {
			if err := p.bindVariableSetting(key[1:], col); err != nil {
				return nil, err
			}
		} else if m.Get(key) != nil {
			return nil, p.errAtPos(errors.InvalidKey, "duplicate mapping key: "+key, keySpan.Start, p.ctx.lineText(keySpan.Start.Offset))
		} else {
			value, err := p.parseMappingValue(col)
			if err != nil {
				return nil, err
			}
			m.Append(&ast.MappingEntry{Key: key, KeySpan: keySpan, Value: value, KeyPresID: keyPresID})
		}

		nextCol, err := p.columnAfterTrivia()
		if err != nil {
			return nil, err
		}
		if p.ctx.atEOF() || nextCol < col {
			break
		}
		if nextCol > col {
			return nil, p.errAt(errors.WrongIndentation, "wrong indentation")
		}
		k, ks, kp, ok := p.tryMappingKey()
		if !ok {
			return nil, p.errAt(errors.InvalidKey, "expected a mapping key")
		}
		key, keySpan, keyPresID = k, ks, kp
	}
	return m, nil
}

// parseMappingValue parses the value following `key:` at key column col.
// It implements the same-column sequence exception (spec.md §3 invariant
// 2, §4.1 "Block mapping"): a child sequence dash may sit at the key's
// own column instead of strictly deeper.
func (p *Parser) parseMappingValue(col int) (ast.Node, error) {
	line := p.ctx.line
	// same-line value ("key: value")?
	for p.ctx.peek() == ' ' || p.ctx.peek() == '\t' {
		p.ctx.advance()
	}
	if p.ctx.peek() == '#' {
		p.ctx.attachInline(p.readComment())
	}
	if !p.ctx.atEOF() && p.ctx.line == line && p.ctx.peek() != '\n' && p.ctx.peek() != 0 {
		return p.parseData(0)
	}

	nextCol, err := p.columnAfterTrivia()
	if err != nil {
		return nil, err
	}
	if p.ctx.atEOF() {
		return nil, p.errAt(errors.MissingData, "missing mapping value")
	}
	if nextCol == col && p.ctx.peek() == '-' && isBlank(p.ctx.peekAt(1)) {
		return p.parseBlockSequence(col)
	}
	return p.parseData(col + 1)
}

// --- scalars -------------------------------------------------------------

func (p *Parser) parseScalarNode() (ast.Node, error) {
	c := p.ctx
	start := c.position()
	presID := c.newNodePresentation()

	if c.peek() == '"' {
		return p.parseQuotedScalar('"', start, presID)
	}
	if c.peek() == '\'' {
		return p.parseQuotedScalar('\'', start, presID)
	}

	var b strings.Builder
	inFlow := p.flowDepth > 0
	for !c.atEOF() {
		ch := c.peek()
		if ch == '\n' {
			break
		}
		if ch == '#' && b.Len() > 0 && isBlank(peekPrevRune(b)) {
			break
		}
		if ch == '#' && b.Len() == 0 {
			break
		}
		if inFlow && strings.IndexByte(",]}#", ch) >= 0 {
			break
		}
		b.WriteByte(c.advance())
	}
	raw := strings.TrimRight(b.String(), " \t\r")
	if raw == "" {
		return nil, p.errAt(errors.WrongTypeOfData, "expected scalar data")
	}
	return p.buildScalarFromRaw(raw, start, presID, false, false)
}

func peekPrevRune(b strings.Builder) byte {
	s := b.String()
	if s == "" {
		return 0
	}
	return s[len(s)-1]
}

func (p *Parser) buildScalarFromRaw(raw string, start token.Position, presID int, quoted, double bool) (ast.Node, error) {
	if ref, inString, ok := variableReference(raw); ok && !quoted {
		return p.resolveVariableReference(ref, inString, raw, start, presID)
	}
	typ, val := classifyScalar(raw)
	n := ast.NewScalar(typ, raw, val, token.Span{Start: start, End: p.ctx.position()})
	n.Quoted = quoted
	n.DoubleQuote = double
	n.SetPresentationID(presID)
	return n, nil
}

func (p *Parser) parseQuotedScalar(quote byte, start token.Position, presID int) (ast.Node, error) {
	c := p.ctx
	c.advance() // opening quote
	var raw strings.Builder
	closed := false
	for !c.atEOF() {
		ch := c.peek()
		if ch == quote {
			if quote == '\'' && c.peekAt(1) == '\'' {
				raw.WriteByte(c.advance())
				c.advance()
				continue
			}
			c.advance()
			closed = true
			break
		}
		if quote == '"' && ch == '\\' {
			raw.WriteByte(c.advance())
			if !c.atEOF() {
				raw.WriteByte(c.advance())
			}
			continue
		}
		raw.WriteByte(c.advance())
	}
	if !closed {
		return nil, p.errAt(errors.ExpectedString, "missing closing quote")
	}
	value := raw.String()
	if quote == '"' {
		unescaped, err := unquoteDouble(value)
		if err != nil {
			return nil, p.errAt(errors.ExpectedString, "invalid backslash escape")
		}
		value = unescaped
	} else {
		value = strings.ReplaceAll(value, "''", "'")
	}
	n := ast.NewScalar(ast.StringScalar, value, value, token.Span{Start: start, End: p.ctx.position()})
	n.Quoted = true
	n.DoubleQuote = quote == '"'
	n.SetPresentationID(presID)
	return n, nil
}
