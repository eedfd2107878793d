package parser

import (
	"strings"

	"github.com/example/go-subyaml/errors"
)

// skipTrivia is the "single sink for editorial presentation" spec.md §4.4
// describes: it consumes spaces, tabs, comments and blank lines ahead of
// the cursor, routing each piece to the presentation cursor (prefix
// comments/empty-line count for the next node, or the inline comment of
// the node that was just completed).
//
// justCompletedNode tells skipTrivia whether a `#` comment encountered
// before the next newline should attach as an *inline* comment to the
// node just finished, or — once a newline has been crossed — start
// accumulating as a *prefix* comment for whatever comes next (spec.md
// §4.4: "if the comment started on a fresh line it is a prefix comment
// ... otherwise it is an inline comment for the previously completed
// node").
func (p *Parser) skipTrivia(justCompletedNode bool) error {
	c := p.ctx
	freshLine := !justCompletedNode
	for !c.atEOF() {
		switch c.peek() {
		case ' ':
			c.advance()
		case '\t':
			// A tab in leading whitespace is a hard error (spec.md §3
			// invariant 3, §4.4).
			if freshLine {
				return p.errAt(errors.TabCharacterDetected, "tabs are not permitted in indentation")
			}
			c.advance()
		case '\n':
			if freshLine {
				c.addEmptyLine()
			}
			c.advance()
			freshLine = true
			justCompletedNode = false
		case '\r':
			c.advance()
		case '#':
			comment := p.readComment()
			if freshLine {
				c.attachPrefix(comment)
			} else {
				c.attachInline(comment)
				justCompletedNode = false
			}
		default:
			return nil
		}
	}
	return nil
}

// readComment consumes a `#` through end of line and returns its text
// (including the leading `#`).
func (p *Parser) readComment() string {
	c := p.ctx
	start := c.pos
	for !c.atEOF() && c.peek() != '\n' {
		c.advance()
	}
	return strings.TrimRight(string(c.Source[start:c.pos]), "\r")
}

// columnAfterTrivia skips trivia then reports the resulting column, used
// for indentation look-ahead decisions such as end-of-sequence detection.
// It is called right after a node completes, so a comment on the same
// line attaches inline to that node, and the newline ending that line is
// not counted as an empty line.
func (p *Parser) columnAfterTrivia() (int, error) {
	if err := p.skipTrivia(true); err != nil {
		return 0, err
	}
	return p.ctx.col, nil
}
