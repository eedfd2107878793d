package parser

import (
	"github.com/example/go-subyaml/ast"
	"github.com/example/go-subyaml/errors"
	"github.com/example/go-subyaml/token"
)

// parseFlowSequence parses a `[...]` collection (spec.md §4.2 "Flow
// sequence"). Elements are comma-separated; a trailing comma before `]`
// is tolerated the way the teacher's flow-sequence parser tolerates it.
func (p *Parser) parseFlowSequence() (ast.Node, error) {
	c := p.ctx
	start := c.position()
	presID := c.newNodePresentation()
	if pr := c.Presentation.Get(presID); pr != nil {
		pr.FlowMode = true
	}
	c.advance() // '['
	p.flowDepth++
	defer func() { p.flowDepth-- }()

	seq := ast.NewSequence(token.Span{Start: start}, true)
	seq.SetPresentationID(presID)

	if err := p.skipTrivia(true); err != nil {
		return nil, err
	}
	for c.peek() != ']' {
		if c.atEOF() {
			return nil, p.errAt(errors.MissingData, "unterminated flow sequence")
		}
		item, err := p.parseData(0)
		if err != nil {
			return nil, err
		}
		seq.Append(item, item.PresentationID())
		if err := p.skipTrivia(false); err != nil {
			return nil, err
		}
		if c.peek() == ',' {
			c.advance()
			if err := p.skipTrivia(true); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if c.peek() != ']' {
		return nil, p.errAt(errors.WrongObject, "expected ',' or ']'")
	}
	c.advance()
	return seq, nil
}

// parseFlowMapping parses a `{...}` collection (spec.md §4.2 "Flow
// mapping"). Each entry is `key: value`; a second colon in one entry
// ("key: value: value") is rejected as an unexpected colon, and repeated
// keys are rejected the same way block mappings reject them.
func (p *Parser) parseFlowMapping() (ast.Node, error) {
	c := p.ctx
	start := c.position()
	presID := c.newNodePresentation()
	if pr := c.Presentation.Get(presID); pr != nil {
		pr.FlowMode = true
	}
	c.advance() // '{'
	p.flowDepth++
	defer func() { p.flowDepth-- }()

	m := ast.NewMapping(token.Span{Start: start}, true)
	m.SetPresentationID(presID)

	if err := p.skipTrivia(true); err != nil {
		return nil, err
	}
	for c.peek() != '}' {
		if c.atEOF() {
			return nil, p.errAt(errors.MissingData, "unterminated flow mapping")
		}
		keySpanStart := c.position()
		key, keySpan, keyPresID, ok := p.tryMappingKey()
		if !ok {
			return nil, p.errAt(errors.InvalidKey, "expected a mapping key")
		}
		_ = keySpanStart
		if m.Get(key) != nil {
			return nil, p.errAt(errors.InvalidKey, "duplicate mapping key: "+key)
		}
		if err := p.skipTrivia(true); err != nil {
			return nil, err
		}
		if _, _, _, nested := p.tryMappingKey(); nested {
			return nil, p.errAt(errors.WrongObject, "unexpected colon")
		}
		value, err := p.parseData(0)
		if err != nil {
			return nil, err
		}
		if err := p.skipTrivia(false); err != nil {
			return nil, err
		}
		if c.peek() == ':' {
			return nil, p.errAt(errors.WrongObject, "unexpected colon")
		}
		m.Append(&ast.MappingEntry{Key: key, KeySpan: keySpan, Value: value, KeyPresID: keyPresID})
		if c.peek() == ',' {
			c.advance()
			if err := p.skipTrivia(true); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if c.peek() != '}' {
		return nil, p.errAt(errors.WrongObject, "expected ',' or '}'")
	}
	c.advance()
	return m, nil
}

// parseTagged handles a leading `!name` annotation (spec.md §4.1 "Tags").
// A bare tag name must start with a letter and continue with alphanumerics.
// `!include`/`!includeraw` dispatch to the include resolver (spec.md §4.5);
// any other tag is attached to whatever node follows it.
func (p *Parser) parseTagged(minIndent int) (ast.Node, error) {
	c := p.ctx
	tagStart := c.position()
	c.advance() // '!'
	var name []byte
	for isTagChar(c.peek(), len(name) == 0) {
		name = append(name, c.advance())
	}
	if len(name) == 0 {
		return nil, p.errAt(errors.InvalidTag, "tag name must start with a letter")
	}
	tagEnd := c.position()
	tag := &ast.Tag{Name: string(name), Span: token.Span{Start: tagStart, End: tagEnd}}

	switch tag.Name {
	case "include":
		return p.parseInclude(tag, false, minIndent)
	case "includeraw":
		return p.parseInclude(tag, true, minIndent)
	}

	for p.ctx.peek() == ' ' || p.ctx.peek() == '\t' {
		p.ctx.advance()
	}
	node, err := p.parseData(minIndent)
	if err != nil {
		return nil, err
	}
	node.SetTag(tag)
	return node, nil
}

func isTagChar(b byte, first bool) bool {
	if first {
		return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
	}
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
