package printer

import (
	"strings"

	"github.com/example/go-subyaml/ast"
	"github.com/example/go-subyaml/token"
)

// PackToDirectory renders root to text, writing every included subtree to
// its own file under dir and re-emitting an `!include`/`!includeraw` tag
// (plus a reconstructed override block, when the include carried one) in
// its place, instead of inlining the subtree (spec.md §4.9, §6
// "no-subfiles"). Returns the top-level document text.
func PackToDirectory(root ast.Node, store *ast.PresentationStore, dir string) (string, *SubfilePacker, error) {
	pk := NewPacker()
	pk.subfiles = NewSubfilePacker(dir)
	pk.packNode(root, store, 0, false)
	out := pk.buf.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, pk.subfiles, nil
}

// packIncluded re-emits a node that came from an `!include`/`!includeraw`
// tag: it writes the subtree out as its own file (deduplicated by
// content) and, in place of the inlined value, writes the tag and any
// override block the include originally carried.
func (pk *Packer) packIncluded(n ast.Node, pres *ast.Presentation, level int, inline bool) {
	inc := pres.Included
	if !inline {
		pk.writeIndent(level)
	}
	if inc.Raw {
		content := []byte(n.(*ast.ScalarNode).Value.(string))
		path, err := pk.subfiles.Write(inc.Path, content)
		if err != nil {
			path = inc.Path
		}
		pk.buf.WriteString("!includeraw " + path)
		return
	}

	content := PackSubfile(n, inc.DocumentPresentation)
	path, err := pk.subfiles.Write(inc.Path, content)
	if err != nil {
		path = inc.Path
	}
	pk.buf.WriteString("!include " + path)

	var ov *ast.MappingNode
	if rootMap, ok := n.(*ast.MappingNode); ok && inc.Override != nil {
		ov = reconstructOverrideMapping(rootMap, inc.Override.Entries)
	}
	if ov == nil || len(ov.Entries) == 0 {
		if isCollection(n) && !isFlow(n) {
			// A block collection's caller writes no newline after it.
			pk.buf.WriteString("\n")
		}
		return
	}
	pk.buf.WriteString("\n")
	pk.packMapping(ov, nil, level+1, false)
}

// reconstructOverrideMapping rebuilds a value, suitable for re-emission as
// the override block under an `!include` line, by taking the current
// (post-merge) subtree of every top-level key the recorded override
// touched. This re-emits each touched key's whole current value rather
// than a minimal surgical diff against the subfile's own original
// content — a deliberate simplification, since spec.md only requires that
// repacking an *unmodified* tree round-trip byte-for-byte, not that a
// modified tree's override block stays minimal.
func reconstructOverrideMapping(root *ast.MappingNode, entries []ast.OverrideEntry) *ast.MappingNode {
	out := ast.NewMapping(token.Span{}, false)
	seen := map[string]bool{}
	for _, e := range entries {
		key := topLevelKey(e.Path)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if entry := root.Get(key); entry != nil {
			out.Append(&ast.MappingEntry{Key: key, Value: entry.Value})
		}
	}
	return out
}

func topLevelKey(path string) string {
	p := strings.TrimPrefix(path, ".")
	for i, r := range p {
		if r == '.' || r == '[' || r == '!' {
			return p[:i]
		}
	}
	return p
}
