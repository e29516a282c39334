package treegram

import "fmt"

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a run of terminal positions. For every
// node of a syntax tree we will track which positions of the input sentence
// the node covers. A span denotes a start position and the position just
// behind the end.
//
// Nodes in treebanks with crossing branches cover non-contiguous runs of
// terminals. Such yields are represented as sequences of spans ("blocks"),
// ordered left to right.
type Span [2]int // (x…y)

// SpanOf creates a span from a start position and the position just behind
// the end.
func SpanOf(from, to int) Span {
	return Span{from, to}
}

// From returns the start value of a span.
func (s Span) From() int {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() int {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() int {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

// Contains checks a terminal position to fall within the span.
func (s Span) Contains(pos int) bool {
	return pos >= s[0] && pos < s[1]
}

func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

// Cover returns the smallest span covering all the given spans.
// An empty argument list yields the null span.
func Cover(spans ...Span) Span {
	if len(spans) == 0 {
		return Span{}
	}
	c := spans[0]
	for _, s := range spans[1:] {
		c = c.Extend(s)
	}
	return c
}
