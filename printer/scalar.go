package printer

import (
	"strconv"
	"strings"
)

// escapeDouble is the packer's side of the escape set spec.md §4.3 names
// (mirrors parser.unquoteDouble's inverse, duplicated here since the two
// packages read in opposite directions and neither should import the
// other just for this one helper). Characters outside printable ASCII up
// to U+FFFF become \uNNNN; those above U+FFFF are written as-is.
func escapeDouble(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case 0x1b:
			b.WriteString(`\e`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\v':
			b.WriteString(`\v`)
		default:
			if r < 0x20 || r > 0x7e {
				if r > 0xffff {
					b.WriteRune(r)
					continue
				}
				hex := strconv.FormatUint(uint64(r), 16)
				b.WriteString(`\u` + strings.Repeat("0", 4-len(hex)) + hex)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
