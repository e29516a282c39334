package trees

import (
	"strconv"
	"strings"
)

// Conventional default values for node fields and label decoration, shared
// by the treebank formats.
const (
	DefaultLabel = ""
	DefaultRoot  = "VROOT"
	DefaultLemma = "--"
	DefaultEdge  = "--"
	DefaultMorph = "--"

	DefaultGFSeparator      = "-"
	DefaultCoindexSeparator = "-"
	DefaultGappingSeparator = "="
	DefaultHeadMarker       = "'"
)

// Punct lists word forms and part-of-speech tags which count as punctuation
// in NeGra/TIGER and PTB style annotation.
var Punct = map[string]bool{
	".": true, ",": true, ";": true, ":": true, "!": true, "?": true,
	"-": true, "--": true, "/": true, "...": true,
	"(": true, ")": true, "[": true, "]": true, "{": true, "}": true,
	"\"": true, "'": true, "``": true, "''": true, "`": true,
	"«": true, "»": true,
	"$.": true, "$,": true, "$(": true, "$[": true,
	"-LRB-": true, "-RRB-": true, "-LSB-": true, "-RSB-": true,
}

// PairPunct lists punctuation which comes in pairs, brackets and quotes.
var PairPunct = map[string]bool{
	"(": true, ")": true, "[": true, "]": true, "{": true, "}": true,
	"\"": true, "'": true, "``": true, "''": true, "`": true,
	"«": true, "»": true,
	"-LRB-": true, "-RRB-": true, "-LSB-": true, "-RSB-": true,
}

// === Label decomposition ===================================================

// Label is the decomposition of a raw node label into the category proper,
// a grammatical function, a numeric co-index or gap index, and a head
// marker.
type Label struct {
	Label       string // category part
	GF          string // grammatical function, DefaultEdge if none
	GFSeparator string
	Coindex     string // trailing "-n", without the separator
	Gapindex    string // trailing "=n", without the separator
	HeadMarker  bool
	IsTrace     bool // category has the *...* shape of PTB trace labels
}

// ParseLabel splits a raw node label using the default grammatical function
// separator.
func ParseLabel(label string) Label {
	return ParseLabelSep(label, DefaultGFSeparator)
}

// ParseLabelSep splits a raw node label. A trailing head marker is stripped
// first, then a trailing numeric co-index (-n), then a trailing numeric gap
// index (=n), then the grammatical function following the last separator.
// FormatLabel reverses the decomposition.
func ParseLabelSep(label, gfSeparator string) Label {
	l := Label{GF: DefaultEdge, GFSeparator: gfSeparator}
	for label != "" && strings.HasSuffix(label, DefaultHeadMarker) {
		l.HeadMarker = true
		label = strings.TrimSuffix(label, DefaultHeadMarker)
	}
	label, l.Coindex, _ = trailingIndex(label, DefaultCoindexSeparator)
	label, l.Gapindex, _ = trailingIndex(label, DefaultGappingSeparator)
	if i := strings.LastIndex(label, gfSeparator); i > 0 && i+len(gfSeparator) < len(label) {
		l.GF = label[i+len(gfSeparator):]
		label = label[:i]
	}
	l.IsTrace = len(label) > 1 && strings.HasPrefix(label, "*") && strings.HasSuffix(label, "*")
	l.Label = label
	return l
}

// trailingIndex splits label into a stem and a numeric index following the
// last occurrence of sep.
func trailingIndex(label, sep string) (string, string, bool) {
	i := strings.LastIndex(label, sep)
	if i < 0 || i+len(sep) >= len(label) {
		return label, "", false
	}
	index := label[i+len(sep):]
	for _, r := range index {
		if r < '0' || r > '9' {
			return label, "", false
		}
	}
	return label[:i], index, true
}

// FormatLabel reassembles a decomposed label.
func FormatLabel(l Label) string {
	var sb strings.Builder
	sb.WriteString(l.Label)
	if l.GF != "" && l.GF != DefaultEdge {
		if l.GFSeparator == "" {
			sb.WriteString(DefaultGFSeparator)
		} else {
			sb.WriteString(l.GFSeparator)
		}
		sb.WriteString(l.GF)
	}
	if l.Gapindex != "" {
		sb.WriteString(DefaultGappingSeparator)
		sb.WriteString(l.Gapindex)
	}
	if l.Coindex != "" {
		sb.WriteString(DefaultCoindexSeparator)
		sb.WriteString(l.Coindex)
	}
	if l.HeadMarker {
		sb.WriteString(DefaultHeadMarker)
	}
	return sb.String()
}

// StripFanout removes a trailing fanout number from a label.
func StripFanout(label string) string {
	for len(label) > 0 && label[len(label)-1] >= '0' && label[len(label)-1] <= '9' {
		label = label[:len(label)-1]
	}
	return label
}

// PTBCoindex extracts the numeric co-index from a PTB style label.
func PTBCoindex(label string) (int, bool) {
	i := strings.LastIndex(label, DefaultCoindexSeparator)
	if i < 0 || i+1 >= len(label) {
		return 0, false
	}
	index, err := strconv.Atoi(label[i+1:])
	if err != nil {
		return 0, false
	}
	return index, true
}

// PTBStripCoindex removes the numeric co-index from a PTB style label,
// returning the label unchanged if there is none.
func PTBStripCoindex(label string) string {
	if i := strings.LastIndex(label, DefaultCoindexSeparator); i >= 0 && i+1 < len(label) {
		if _, err := strconv.Atoi(label[i+1:]); err == nil {
			return label[:i]
		}
	}
	return label
}

// === Bracket replacement ===================================================

var parenReplacer = strings.NewReplacer(
	"(", "LRB", ")", "RRB",
	"[", "LSB", "]", "RSB",
	"{", "LCB", "}", "RCB",
)

// ReplaceParenChars replaces bracket characters in s by letter substitutes
// (LRB, RRB, ...).
func ReplaceParenChars(s string) string {
	return parenReplacer.Replace(s)
}

// ReplaceParens replaces bracket characters within the data fields of n by
// letter substitutes (LRB, RRB, ...), as needed before bracketed output.
func ReplaceParens(n *Node) {
	n.Word = parenReplacer.Replace(n.Word)
	n.Lemma = parenReplacer.Replace(n.Lemma)
	n.Label = parenReplacer.Replace(n.Label)
	n.Edge = parenReplacer.Replace(n.Edge)
	n.Morph = parenReplacer.Replace(n.Morph)
}

// ReplaceParensAll applies ReplaceParens to the whole subtree of n.
func ReplaceParensAll(n *Node) {
	Preorder(n, func(m *Node) bool {
		ReplaceParens(m)
		return true
	})
}
