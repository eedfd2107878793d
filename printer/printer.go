// Package printer renders colorized, caret-annotated error output and
// implements the packer core described in spec.md §4.8-§4.9.
package printer

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ErrorPrinter formats error messages and source carets. Grounded on the
// teacher's printer.Printer (PrintErrorMessage/PrintErrorToken/
// setDefaultColorSet in printer/printer.go), simplified because our
// parser carries plain source lines rather than a token stream: there is
// no per-token property table to drive, just "message in red" and
// "caret in bold".
type ErrorPrinter struct {
	Colored bool
}

const escape = "\x1b"

func sgr(attr color.Attribute) string {
	return fmt.Sprintf("%s[%dm", escape, attr)
}

// PrintErrorMessage renders msg in red when colored output is enabled.
func (p *ErrorPrinter) PrintErrorMessage(msg string) string {
	if !p.Colored {
		return msg
	}
	return sgr(color.FgHiRed) + msg + sgr(color.Reset)
}

// PrintSourceCaret renders a single source line followed by a caret line
// pointing at column (1-based), matching spec.md §4.10's
// "<source line>\n<caret indication>".
func (p *ErrorPrinter) PrintSourceCaret(line string, column int) string {
	caret := strings.Repeat(" ", maxInt(column-1, 0)) + "^"
	if !p.Colored {
		return line + "\n" + caret
	}
	boldCaret := sgr(color.Bold) + sgr(color.FgHiWhite) + caret + sgr(color.Reset)
	return line + "\n" + boldCaret
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
