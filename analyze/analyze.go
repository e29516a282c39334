/*
Package analyze computes statistics over treebank trees.

Statistics which accumulate over a whole corpus are Tasks: an analysis run
creates a task by name, feeds it every tree of the corpus, and renders the
summary table afterwards. Node-level classifications, like the gap type of
Maier & Lichte (2016), are plain functions.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package analyze

import (
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/treegram/trees"
	"golang.org/x/exp/slices"
)

// tracer traces with key 'treegram.trees'.
func tracer() tracing.Trace {
	return tracing.Select("treegram.trees")
}

// === Tasks =================================================================

// Task accumulates one statistic over a stream of trees. Header and Rows
// return the summary as table data, ready for whatever renders it.
type Task interface {
	Run(t *trees.Tree) error
	Header() []string
	Rows() [][]string
}

// registry is the closed set of known tasks.
var registry = map[string]func() Task{
	"gapdegree":     func() Task { return NewGapDegree() },
	"postags":       func() Task { return NewPosTags() },
	"sentencecount": func() Task { return &SentenceCount{} },
}

// NewTask creates a fresh accumulator for the task registered under name.
func NewTask(name string) (Task, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown analysis task '%s'", name)
	}
	tracer().Debugf("new analysis task %s", name)
	return factory(), nil
}

// Tasks returns the names of all known tasks, sorted alphabetically.
func Tasks() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Discontinuous is true if any node of the tree covers more than one
// block.
func Discontinuous(t *trees.Tree) (bool, error) {
	g, err := t.GapDegree()
	if err != nil {
		return false, err
	}
	return g > 0, nil
}

// bump increments the count stored under key.
func bump(m *treemap.Map, key interface{}) {
	if v, ok := m.Get(key); ok {
		m.Put(key, v.(int)+1)
		return
	}
	m.Put(key, 1)
}
