package printer

import (
	"hash/fnv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/go-subyaml/ast"
)

// SubfilePacker writes each included document to its own file under an
// output directory, deduplicating by content so two distinct includes of
// the same unmodified subfile land on one file, while a genuine name
// collision (same relative path, different content) is resolved with a
// "~N" suffix (spec.md §4.9).
type SubfilePacker struct {
	OutputDir string

	// hashes maps a final written path to the 64-bit content hash already
	// occupying it, so a later write of identical content can be recognized
	// as a dedup hit instead of probing for a new name.
	hashes map[string]uint64
}

// NewSubfilePacker returns a packer that will write files under dir.
func NewSubfilePacker(dir string) *SubfilePacker {
	return &SubfilePacker{OutputDir: dir, hashes: map[string]uint64{}}
}

func contentHash(b []byte) uint64 {
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64()
}

// Reserve picks the path content should be written to, starting from
// preferred (the include's own relative path) and suffixing "~1", "~2",
// ... before the extension whenever preferred is already occupied by
// different content. Returns the final relative path to use, and whether
// the caller actually needs to write (false on a dedup hit).
func (sp *SubfilePacker) Reserve(preferred string, content []byte) (path string, needsWrite bool) {
	h := contentHash(content)
	candidate := preferred
	for n := 0; ; n++ {
		if n > 0 {
			candidate = suffixed(preferred, n)
		}
		existing, occupied := sp.hashes[candidate]
		if !occupied {
			sp.hashes[candidate] = h
			return candidate, true
		}
		if existing == h {
			return candidate, false
		}
	}
}

func suffixed(path string, n int) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return base + "~" + strconv.Itoa(n) + ext
}

// Write dedups and writes content, returning the relative path callers
// should record in the rewritten `!include` tag.
func (sp *SubfilePacker) Write(preferred string, content []byte) (string, error) {
	path, needsWrite := sp.Reserve(preferred, content)
	if !needsWrite {
		return path, nil
	}
	full := filepath.Join(sp.OutputDir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// PackSubfile renders an included document's own AST using its own
// presentation store (not the includer's), exactly as PackDocument would
// if that document were parsed on its own (spec.md §4.9 "A subfile is
// packed exactly as if it had been parsed as a root document").
func PackSubfile(root ast.Node, store *ast.PresentationStore) []byte {
	return []byte(PackDocument(root, store))
}
