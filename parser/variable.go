package parser

import (
	"fmt"
	"regexp"

	"github.com/example/go-subyaml/ast"
	"github.com/example/go-subyaml/errors"
	"github.com/example/go-subyaml/token"
)

// variableNamePattern matches one `$name` reference; names follow the
// same alphanumeric+underscore rule as mapping keys (spec.md §4.6).
var variableNamePattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

// variableReference reports whether raw contains a `$name` reference and
// whether it is the *whole* scalar (a bare "$name", substituted wholesale)
// or embedded in surrounding text (substituted as a string template).
func variableReference(raw string) (ref string, inString bool, ok bool) {
	loc := variableNamePattern.FindStringIndex(raw)
	if loc == nil {
		return "", false, false
	}
	if loc[0] == 0 && loc[1] == len(raw) {
		return raw[1:], false, true
	}
	return "", true, true
}

// bindVariableSetting handles a `$name:` key inside an override block: the
// value that follows is the binding supplied to the included document for
// $name, collected on the parser until the enclosing include is resolved
// (spec.md §4.6 "Binding site").
func (p *Parser) bindVariableSetting(name string, col int) error {
	value, err := p.parseMappingValue(col)
	if err != nil {
		return err
	}
	if p.pendingVarBindings == nil {
		p.pendingVarBindings = map[string]ast.Node{}
	}
	p.pendingVarBindings[name] = value
	return nil
}

// lookupVariable resolves name against the current context's open
// variable table. An unbound reference is tolerated only when
// AllowUnboundVariables is set, in which case it is recorded once in
// UnboundNames and treated as bound to null so parsing can continue
// (spec.md §3 invariant 4).
func (p *Parser) lookupVariable(name string) (*ast.VariableBinding, error) {
	c := p.ctx
	if b, ok := c.OpenVariables[name]; ok {
		return b, nil
	}
	if c.Mode.has(AllowUnboundVariables) {
		seen := false
		for _, n := range c.UnboundNames {
			if n == name {
				seen = true
				break
			}
		}
		if !seen {
			c.UnboundNames = append(c.UnboundNames, name)
		}
		b := &ast.VariableBinding{Name: name, Value: ast.NewScalar(ast.NullScalar, "~", nil, token.Span{})}
		c.OpenVariables[name] = b
		return b, nil
	}
	return nil, p.errAt(errors.InvalidInclude, fmt.Sprintf("unbound variable $%s", name))
}

// resolveVariableReference implements the two substitution modes
// spec.md §4.6 describes: a bare "$name" scalar is replaced wholesale by
// the bound node (any kind); "$name" appearing within other text is
// textually substituted, and the binding's string form must itself be
// scalar-shaped (the Open Question on escaping inside string templates is
// deliberately left unresolved, matching the documented limitation: no
// escape syntax exists for a literal "$" followed by an identifier).
func (p *Parser) resolveVariableReference(ref string, inString bool, raw string, start token.Position, presID int) (ast.Node, error) {
	if !inString {
		binding, err := p.lookupVariable(ref)
		if err != nil {
			return nil, err
		}
		node := cloneBoundValue(binding.Value, start, p.ctx.position())
		node.SetPresentationID(presID)
		if pres := p.ctx.Presentation.Get(presID); pres != nil {
			pres.ValueWithVariables = raw
		}
		if leaf, ok := node.(*ast.ScalarNode); ok {
			binding.Refs = append(binding.Refs, &ast.VariableRef{Leaf: leaf, InString: false})
		}
		return node, nil
	}

	names := map[string]struct{}{}
	var resolveErr error
	resolved := variableNamePattern.ReplaceAllStringFunc(raw, func(m string) string {
		name := variableNamePattern.FindStringSubmatch(m)[1]
		names[name] = struct{}{}
		binding, err := p.lookupVariable(name)
		if err != nil {
			resolveErr = err
			return m
		}
		return scalarText(binding.Value)
	})
	if resolveErr != nil {
		return nil, resolveErr
	}
	n := ast.NewScalar(ast.StringScalar, resolved, resolved, token.Span{Start: start, End: p.ctx.position()})
	n.SetPresentationID(presID)
	if pres := p.ctx.Presentation.Get(presID); pres != nil {
		pres.ValueWithVariables = raw
	}
	for name := range names {
		if b, ok := p.ctx.OpenVariables[name]; ok {
			b.Refs = append(b.Refs, &ast.VariableRef{Leaf: n, InString: true})
		}
	}
	return n, nil
}

// scalarText renders a bound value's textual form for splicing into a
// string template. Non-scalar bindings render via their generic String().
func scalarText(n ast.Node) string {
	if s, ok := n.(*ast.ScalarNode); ok {
		return s.Raw
	}
	return n.String()
}

// cloneBoundValue copies a bound value's node so that the same binding can
// be substituted at more than one reference site without the two sites
// aliasing a single *ast.Node (each occurrence gets its own span).
func cloneBoundValue(n ast.Node, start, end token.Position) ast.Node {
	span := token.Span{Start: start, End: end}
	switch v := n.(type) {
	case *ast.ScalarNode:
		cp := ast.NewScalar(v.Type, v.Raw, v.Value, span)
		cp.Quoted = v.Quoted
		cp.DoubleQuote = v.DoubleQuote
		return cp
	case *ast.SequenceNode:
		cp := ast.NewSequence(span, v.FlowMode)
		for i, it := range v.Items {
			cp.Append(cloneBoundValue(it, start, end), v.ItemPresIDs[i])
		}
		return cp
	case *ast.MappingNode:
		cp := ast.NewMapping(span, v.FlowMode)
		for _, e := range v.Entries {
			cp.Append(&ast.MappingEntry{
				Key: e.Key, KeySpan: e.KeySpan, KeyPresID: e.KeyPresID,
				Value: cloneBoundValue(e.Value, start, end),
			})
		}
		return cp
	}
	return n
}
