package transitions

import (
	"io"
	"strings"
)

// PlainWriter writes sequences in the plain line format: the word/tag
// tokens of the sentence, the separator '|||', and the actions.
//
//	Who/WP did/VB ... ?/? ||| SHIFT SHIFT UNARY-VP ...
type PlainWriter struct {
	w io.Writer
}

// NewPlainWriter creates a writer on top of w.
func NewPlainWriter(w io.Writer) *PlainWriter {
	return &PlainWriter{w: w}
}

// Write appends one sequence as a single line.
func (pw *PlainWriter) Write(seq *Sequence) error {
	var sb strings.Builder
	for i, tok := range seq.Tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok.Word)
		sb.WriteByte('/')
		sb.WriteString(tok.Tag)
	}
	sb.WriteString(" ||| ")
	sb.WriteString(strings.Join(seq.Transitions, " "))
	sb.WriteByte('\n')
	_, err := io.WriteString(pw.w, sb.String())
	return err
}
