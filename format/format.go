/*
Package format connects the tree and grammar model to treebank file
formats.

Format implementations live in subpackages and register their readers and
writers here, in their init functions, keyed by the names used on the
command line. Reading and writing is stream-based: a TreeReader produces
trees one by one and can feed a corpus run as its source, a TreeWriter
consumes trees one by one and flushes pending output when it is closed.
Grammar writers produce one or more files from a destination prefix,
following the conventions of the target toolchain.

Readers and writers are configured with string-keyed options, given on the
command line in "key:value" form. Option names follow the treebank tools
this module interoperates with, e.g. "gf_split" or "brackets_emptypos".

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/treegram/lcfrs"
	"github.com/npillmayer/treegram/trees"
	"golang.org/x/exp/slices"
)

// tracer traces with key 'treegram.format'.
func tracer() tracing.Trace {
	return tracing.Select("treegram.format")
}

// === Options ===============================================================

// Options are string-keyed reader/writer parameters, as given on the
// command line in "key:value" form. A key without a value is a boolean
// flag.
type Options map[string]string

// ParseOptions parses a list of "key:value" strings into Options.
// A list element without a colon becomes a flag set to "true".
func ParseOptions(args []string) Options {
	opts := make(Options, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		if k, v, ok := strings.Cut(arg, ":"); ok {
			opts[k] = v
		} else {
			opts[arg] = "true"
		}
	}
	return opts
}

// String returns the value for key, or def if the key is not set.
func (opts Options) String(key, def string) string {
	if v, ok := opts[key]; ok {
		return v
	}
	return def
}

// Int returns the integer value for key, or def if the key is not set or
// does not parse.
func (opts Options) Int(key string, def int) int {
	v, ok := opts[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		tracer().Errorf("option %s: %v", key, err)
		return def
	}
	return n
}

// Bool returns true if key is set to anything but "false".
func (opts Options) Bool(key string) bool {
	v, ok := opts[key]
	return ok && v != "false"
}

// === Readers and writers ===================================================

// TreeReader reads trees from a treebank file, one per call. The end of
// the input is signalled with io.EOF. A TreeReader serves as the source of
// a corpus run.
type TreeReader interface {
	Next() (*trees.Tree, error)
}

// TreeWriter writes trees to a treebank file. Close writes pending
// trailers and flushes; it does not close the underlying stream.
type TreeWriter interface {
	Write(t *trees.Tree) error
	Close() error
}

// TreeReaderFactory creates a reader for the given input stream.
type TreeReaderFactory func(r io.Reader, opts Options) (TreeReader, error)

// TreeWriterFactory creates a writer for the given output stream.
type TreeWriterFactory func(w io.Writer, opts Options) (TreeWriter, error)

// GrammarWriterFunc writes a grammar to one or more files derived from a
// destination prefix, e.g. dest+".rcg".
type GrammarWriterFunc func(g *lcfrs.Grammar, dest string, opts Options) error

// GrammarReaderFunc reads a grammar back from the files under a source
// prefix, the counterpart of a GrammarWriterFunc.
type GrammarReaderFunc func(src string, opts Options) (*lcfrs.Grammar, error)

var (
	treeReaders    = map[string]TreeReaderFactory{}
	treeWriters    = map[string]TreeWriterFactory{}
	grammarWriters = map[string]GrammarWriterFunc{}
	grammarReaders = map[string]GrammarReaderFunc{}
)

// RegisterTreeReader enters a tree reader factory under a format name.
// Registering a name twice is a programming error.
func RegisterTreeReader(name string, factory TreeReaderFactory) {
	if _, ok := treeReaders[name]; ok {
		panic(fmt.Sprintf("format: two tree readers named '%s'", name))
	}
	treeReaders[name] = factory
}

// RegisterTreeWriter enters a tree writer factory under a format name.
func RegisterTreeWriter(name string, factory TreeWriterFactory) {
	if _, ok := treeWriters[name]; ok {
		panic(fmt.Sprintf("format: two tree writers named '%s'", name))
	}
	treeWriters[name] = factory
}

// RegisterGrammarWriter enters a grammar writer under a format name.
func RegisterGrammarWriter(name string, writer GrammarWriterFunc) {
	if _, ok := grammarWriters[name]; ok {
		panic(fmt.Sprintf("format: two grammar writers named '%s'", name))
	}
	grammarWriters[name] = writer
}

// RegisterGrammarReader enters a grammar reader under a format name.
func RegisterGrammarReader(name string, reader GrammarReaderFunc) {
	if _, ok := grammarReaders[name]; ok {
		panic(fmt.Sprintf("format: two grammar readers named '%s'", name))
	}
	grammarReaders[name] = reader
}

// NewTreeReader creates a reader for the named input format.
func NewTreeReader(name string, r io.Reader, opts Options) (TreeReader, error) {
	factory, ok := treeReaders[name]
	if !ok {
		return nil, fmt.Errorf("unknown input format '%s'", name)
	}
	return factory(r, opts)
}

// NewTreeWriter creates a writer for the named output format.
func NewTreeWriter(name string, w io.Writer, opts Options) (TreeWriter, error) {
	factory, ok := treeWriters[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format '%s'", name)
	}
	return factory(w, opts)
}

// WriteGrammar writes g in the named grammar format to files under the
// dest prefix.
func WriteGrammar(name string, g *lcfrs.Grammar, dest string, opts Options) error {
	writer, ok := grammarWriters[name]
	if !ok {
		return fmt.Errorf("unknown grammar format '%s'", name)
	}
	return writer(g, dest, opts)
}

// ReadGrammar reads a grammar in the named format from the files under
// the src prefix.
func ReadGrammar(name string, src string, opts Options) (*lcfrs.Grammar, error) {
	reader, ok := grammarReaders[name]
	if !ok {
		return nil, fmt.Errorf("unknown grammar format '%s'", name)
	}
	return reader(src, opts)
}

// TreeReaders returns the names of the registered input formats, sorted.
func TreeReaders() []string {
	return names(treeReaders)
}

// TreeWriters returns the names of the registered output formats, sorted.
func TreeWriters() []string {
	return names(treeWriters)
}

// GrammarWriters returns the names of the registered grammar formats,
// sorted.
func GrammarWriters() []string {
	return names(grammarWriters)
}

// GrammarReaders returns the names of the grammar formats which can be
// read back, sorted.
func GrammarReaders() []string {
	return names(grammarReaders)
}

func names[T any](m map[string]T) []string {
	ns := make([]string, 0, len(m))
	for n := range m {
		ns = append(ns, n)
	}
	slices.Sort(ns)
	return ns
}
