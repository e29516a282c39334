/*
Package transform implements tree transformations for treebank trees.

A transformation is a named operation which modifies a single tree in
place, keeping the terminal string intact. Transformations are registered
under the names they are known by on the command line, e.g. "root_attach"
or "boyd_split", and are applied in sequence by a Pipeline. A pipeline
validates all step names up front, so that a long corpus run does not
abort halfway through because of a typo.

Some transformations have prerequisites, e.g. block splitting requires
marked heads. Prerequisites are not tracked by the pipeline; a step which
misses one fails on the first tree it is applied to.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/treegram/trees"
	"golang.org/x/exp/slices"
)

// tracer traces with key 'treegram.trees'.
func tracer() tracing.Trace {
	return tracing.Select("treegram.trees")
}

// === Options ===============================================================

// Options are string-keyed parameters for transformation steps, as given
// on the command line in "key:value" form. A key without a value is a
// boolean flag.
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

// === Registry ==============================================================

// A step function modifies tree in place, parameterized by options.
type stepFunc func(t *trees.Tree, opts Options) error

// registry is the closed set of known transformations.
var registry = map[string]stepFunc{
	"root_attach":           rootAttach,
	"negra_mark_heads":      negraMarkHeads,
	"mark_heads":            markHeads,
	"boyd_split":            boydSplit,
	"raising":               raising,
	"remove_crossing":       removeCrossing,
	"add_topnode":           addTopnode,
	"insert_terminals":      insertTerminals,
	"punctuation_delete":    punctuationDelete,
	"punctuation_verylow":   punctuationVerylow,
	"punctuation_symetrify": punctuationSymetrify,
	"punctuation_root":      punctuationRoot,
	"ptb_delete_traces":     ptbDeleteTraces,
}

// Transformations returns the names of all known transformations,
// sorted alphabetically.
func Transformations() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Known returns true if name denotes a registered transformation.
func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

// === Pipeline ==============================================================

// Step is one transformation step of a pipeline: a registered name plus
// the options for this step.
type Step struct {
	Name    string
	Options Options
}

// Pipeline is an ordered list of transformation steps, applied to one
// tree after the other.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline from the given steps. It fails if any
// step name is not a registered transformation.
func NewPipeline(steps ...Step) (*Pipeline, error) {
	for _, step := range steps {
		if !Known(step.Name) {
			return nil, fmt.Errorf("unknown transformation '%s'", step.Name)
		}
	}
	p := &Pipeline{steps: make([]Step, len(steps))}
	copy(p.steps, steps)
	return p, nil
}

// NewPipelineNamed creates a pipeline from step names, all steps sharing
// a single options set. This mirrors the command line, where options are
// given once for all requested transformations.
func NewPipelineNamed(names []string, opts Options) (*Pipeline, error) {
	steps := make([]Step, len(names))
	for i, name := range names {
		steps[i] = Step{Name: name, Options: opts}
	}
	return NewPipeline(steps...)
}

// Steps returns the names of the pipeline's steps, in order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name
	}
	return names
}

// Run applies the pipeline's steps to tree, in order. The first failing
// step aborts the run; the returned error names the step and the tree.
func (p *Pipeline) Run(t *trees.Tree) error {
	for _, step := range p.steps {
		if err := registry[step.Name](t, step.Options); err != nil {
			return fmt.Errorf("tree %d, step %s (%w)", t.ID, step.Name, err)
		}
	}
	return nil
}

// Apply runs a single named transformation on tree.
func Apply(name string, t *trees.Tree, opts Options) error {
	fn, ok := registry[name]
	if !ok {
		return fmt.Errorf("unknown transformation '%s'", name)
	}
	return fn(t, opts)
}
