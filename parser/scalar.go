package parser

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/example/go-subyaml/ast"
)

var errInvalidBackslash = errors.New("invalid backslash")

func posInf() float64 { return math.Inf(1) }
func negInf() float64 { return math.Inf(-1) }
func nanVal() float64 { return math.NaN() }

// classifyScalar implements spec.md §4.1 "Scalar typing": after trimming,
// a scalar string is classified in this fixed order — null, bool,
// infinity/nan, signed integer (negative only; "-0" re-classifies to
// unsigned), unsigned integer, double, otherwise string.
//
// Grounded on the teacher's token.New/isNumber (token/token.go), which
// does the same "try reserved keyword, then number, else string" dance;
// adapted to spec.md's explicit ordering and its narrower negative-int
// rule ("signed integer if parseable (negative values only)").
func classifyScalar(raw string) (ast.ScalarType, interface{}) {
	switch strings.ToLower(raw) {
	case "~":
		return ast.NullScalar, nil
	case "null":
		return ast.NullScalar, nil
	case "true":
		return ast.BoolScalar, true
	case "false":
		return ast.BoolScalar, false
	case ".inf":
		return ast.DoubleScalar, posInf()
	case "-.inf":
		return ast.DoubleScalar, negInf()
	case ".nan":
		return ast.DoubleScalar, nanVal()
	}

	if raw == "-0" {
		return ast.UintScalar, uint64(0)
	}

	if strings.HasPrefix(raw, "-") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return ast.IntScalar, i
		}
	}
	if u, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return ast.UintScalar, u
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		// Plain integers already matched above; only genuine float syntax
		// (a '.', 'e'/'E', or sign outside the handled "-0"/int cases)
		// reaches here, which ParseFloat happily accepts too, so guard on
		// the presence of float-only characters to avoid reclassifying
		// something like "007" oddly. ParseUint already rejects that case
		// since it would have matched above if it were a plain integer.
		if looksLikeFloat(raw) {
			return ast.DoubleScalar, f
		}
	}
	return ast.StringScalar, raw
}

func looksLikeFloat(s string) bool {
	return strings.ContainsAny(s, ".eE")
}

// unquoteDouble processes the standard escape set spec.md §4.1 names:
// \" \\ \a \b \e \f \n \r \t \v \uNNNN. Any other backslash escape is a
// syntax error ("invalid backslash").
func unquoteDouble(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", errInvalidBackslash
		}
		switch s[i] {
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'e':
			b.WriteByte(0x1b)
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case 'u':
			if i+4 >= len(s) {
				return "", errInvalidBackslash
			}
			code, err := strconv.ParseUint(s[i+1:i+5], 16, 32)
			if err != nil {
				return "", errInvalidBackslash
			}
			b.WriteRune(rune(code))
			i += 4
		default:
			return "", errInvalidBackslash
		}
	}
	return b.String(), nil
}

// escapeDouble is the inverse of unquoteDouble (spec.md §4.3 "Quoted
// output re-escapes the set above"). The packer uses its own copy in
// printer/scalar.go; this one backs the parser's round-trip test.
// Characters outside printable ASCII up to U+FFFF become \uNNNN; those
// above U+FFFF are written as-is.
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
