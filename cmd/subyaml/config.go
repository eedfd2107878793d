package main

import (
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	colorable "github.com/mattn/go-colorable"
	"golang.org/x/term"
)

// Config is the CLI's own settings object, decoded from flags rather
// than a file; struct tags still go through validator.v10 the way the
// teacher's decode.go wires a StructValidator onto every document it
// decodes, since nothing else in this module has a generic decode-into-
// struct surface for that dependency to serve.
type Config struct {
	Input      string `validate:"required"`
	OutputDir  string `validate:"omitempty"`
	NoSubfiles bool
	Color      bool
}

var structValidator = validator.New()

func (c *Config) Validate() error {
	return structValidator.Struct(c)
}

// colorEnabled decides whether error/diagnostic output should carry ANSI
// color: an explicit --color flag wins, otherwise it follows whether
// stderr is a terminal, wrapped through go-colorable so Windows consoles
// that don't natively understand ANSI still render it.
func colorEnabled(forced bool) bool {
	if forced {
		return true
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// stderrWriter wraps os.Stderr through go-colorable so ANSI sequences
// emitted by the errors/printer packages render correctly on a Windows
// console, matching MacroPower-x's own CLI color setup.
func stderrWriter() io.Writer {
	return colorable.NewColorableStderr()
}
