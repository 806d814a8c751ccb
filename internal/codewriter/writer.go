// Package codewriter builds indented source text for the emitters.
package codewriter

import (
	"strings"
)

// Writer accumulates source text, tracking indentation and line state.
// It is not safe for concurrent use.
type Writer struct {
	buf         strings.Builder
	indent      int
	indentUnit  string
	quote       byte
	atLineStart bool
	lastBlank   bool
}

// Option configures a Writer
type Option func(*Writer)

// WithIndent sets the indentation unit (default two spaces)
func WithIndent(unit string) Option {
	return func(w *Writer) {
		w.indentUnit = unit
	}
}

// WithDoubleQuotes makes Quote use double quotes
func WithDoubleQuotes() Option {
	return func(w *Writer) {
		w.quote = '"'
	}
}

// New creates a Writer using two-space indentation and single quotes
func New(opts ...Option) *Writer {
	w := &Writer{
		indentUnit:  "  ",
		quote:       '\'',
		atLineStart: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write writes text at the current indentation. Embedded newlines start new indented lines.
func (w *Writer) Write(text string) *Writer {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			if w.atLineStart {
				w.buf.WriteString(strings.Repeat(w.indentUnit, w.indent))
			}
			w.buf.WriteString(line)
			w.atLineStart = false
		}
		if i < len(lines)-1 {
			w.NewLine()
		}
	}
	return w
}

// WriteLine writes text on its own line
func (w *Writer) WriteLine(text string) *Writer {
	w.newLineIfLastNot()
	w.Write(text)
	w.NewLine()
	return w
}

// ConditionalWriteLine writes text on its own line when cond is true
func (w *Writer) ConditionalWriteLine(cond bool, text string) *Writer {
	if cond {
		w.WriteLine(text)
	}
	return w
}

// NewLine ends the current line
func (w *Writer) NewLine() *Writer {
	w.lastBlank = w.atLineStart
	w.buf.WriteByte('\n')
	w.atLineStart = true
	return w
}

// BlankLine ensures the output ends with an empty line
func (w *Writer) BlankLine() *Writer {
	w.newLineIfLastNot()
	if w.buf.Len() > 0 && !w.lastBlank {
		w.NewLine()
	}
	return w
}

// BlankLineIfLastNot writes a blank line unless the previous line already is one
func (w *Writer) BlankLineIfLastNot() *Writer {
	if w.atLineStart && w.lastBlank {
		return w
	}
	return w.BlankLine()
}

// Block writes " {", the indented body produced by fn, and a closing "}" line
func (w *Writer) Block(fn func()) *Writer {
	if !w.atLineStart {
		w.spaceIfLastNot()
	}
	w.InlineBlock(fn)
	w.NewLine()
	return w
}

// InlineBlock writes "{", the indented body produced by fn, and "}" without ending the line
func (w *Writer) InlineBlock(fn func()) *Writer {
	w.Write("{")
	w.NewLine()
	w.indent++
	if fn != nil {
		fn()
	}
	w.newLineIfLastNot()
	w.indent--
	w.Write("}")
	return w
}

// Quote writes text as a quoted string literal
func (w *Writer) Quote(text string) *Writer {
	q := string(w.quote)
	escaped := strings.ReplaceAll(text, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, q, `\`+q)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	return w.Write(q + escaped + q)
}

// Indent runs fn one level deeper
func (w *Writer) Indent(fn func()) *Writer {
	w.newLineIfLastNot()
	w.indent++
	fn()
	w.newLineIfLastNot()
	w.indent--
	return w
}

// String returns the accumulated text
func (w *Writer) String() string {
	return w.buf.String()
}

// Len returns the number of bytes written
func (w *Writer) Len() int {
	return w.buf.Len()
}

func (w *Writer) newLineIfLastNot() {
	if !w.atLineStart {
		w.NewLine()
	}
}

func (w *Writer) spaceIfLastNot() {
	s := w.buf.String()
	if len(s) > 0 && s[len(s)-1] != ' ' {
		w.buf.WriteByte(' ')
	}
}
