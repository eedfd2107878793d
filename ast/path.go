package ast

import "fmt"

// Path addressing helpers for the flat document-presentation form
// (spec.md §3: ".key" for mapping descent, "[idx]" for sequence descent,
// "!" terminal suffix for "at this node itself"). Grounded on the
// teacher's path.go PathBuilder, which builds the same kind of
// "$.foo[3]" address incrementally via Chain; simplified here to plain
// string concatenation since presentation paths are write-only (built
// once while parsing, read back once while packing) and never need the
// teacher's Filter/query-against-an-AST behavior.
func ChildPath(base, key string) string {
	return fmt.Sprintf("%s.%s", base, key)
}

func IndexPath(base string, idx int) string {
	return fmt.Sprintf("%s[%d]", base, idx)
}

// SelfPath marks the address of the node itself, as opposed to its
// children, matching spec.md §3's `!` terminal suffix.
func SelfPath(base string) string {
	return base + "!"
}
