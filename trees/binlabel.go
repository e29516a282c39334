package trees

import (
	"strconv"
	"strings"
)

// Pieces of rendered binarization labels.
const (
	BinLabelPrefix = "@"
	BinLabelSuffix = "X"
	verticalSep    = "^"
	horizontalSep  = "-"
)

// BinPart is one entry of a binarization context: a category label together
// with the fanout of the node it was taken from.
type BinPart struct {
	Label  string
	Fanout int
}

func (p BinPart) render(sb *strings.Builder, nofanout bool) {
	sb.WriteString(p.Label)
	if !nofanout {
		sb.WriteString(strconv.Itoa(p.Fanout))
	}
}

// BinLabel is the label context of a synthetic node introduced by
// binarization. Orig names the nonterminal the synthetic node was spliced
// into; Vert holds that node's ancestors, nearest first; Horiz holds the
// sibling history, most recently combined first. Contexts are recorded in
// full so that markovization can later truncate them to any order.
type BinLabel struct {
	Orig  BinPart
	Vert  []BinPart
	Horiz []BinPart
}

// Plain encodes the context as just the originating category, the label
// form synthetic nodes carry before markovization turns contexts into
// labels.
func (b *BinLabel) Plain() string {
	return BinLabelPrefix + b.Orig.Label
}

// Render encodes the context as a node label, keeping at most v vertical
// entries (the origin counts as the first one) and the h most recently
// combined sibling entries. Fanout digits are dropped with nofanout. Equal
// truncated contexts render to equal labels.
func (b *BinLabel) Render(h, v int, nofanout bool) string {
	var sb strings.Builder
	sb.WriteString(BinLabelPrefix)
	if v > 0 {
		sb.WriteString(verticalSep)
		b.Orig.render(&sb, nofanout)
		v--
	}
	if v < 0 {
		v = 0
	} else if v > len(b.Vert) {
		v = len(b.Vert)
	}
	for _, p := range b.Vert[:v] {
		sb.WriteString(verticalSep)
		p.render(&sb, nofanout)
	}
	if h < 0 {
		h = 0
	} else if h > len(b.Horiz) {
		h = len(b.Horiz)
	}
	for _, p := range b.Horiz[:h] {
		sb.WriteString(horizontalSep)
		p.render(&sb, nofanout)
	}
	sb.WriteString(BinLabelSuffix)
	return sb.String()
}
