/*
Package corpus drives treebank trees through transformations and grammar
extraction.

Trees enter one by one from a Source and surviving trees leave through a
Sink. Processing of a single tree never depends on any other tree, so the
per-tree work, transformation pipeline plus rule extraction, is fanned out
to a pool of workers, each owning its tree exclusively. The one shared
artifact, the grammar under construction, is owned by a single collector
which merges the per-tree rule sets as workers finish. A failing tree is
dropped from the run, it contributes no rules and is not written; its error
is recorded with the sentence id and reported when the run ends.

Sink writes happen on the collector side. With a single worker they occur
in input order; with several workers the order of completion decides.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/treegram/lcfrs"
	"github.com/npillmayer/treegram/trees"
	"github.com/npillmayer/treegram/trees/transform"
)

// tracer traces with key 'treegram.corpus'.
func tracer() tracing.Trace {
	return tracing.Select("treegram.corpus")
}

// === Sources and sinks =====================================================

// Source produces the trees of a corpus, one per call. It signals the end
// of the corpus with io.EOF. Format readers implement Source.
type Source interface {
	Next() (*trees.Tree, error)
}

// Sink consumes processed trees. Format writers implement Sink.
type Sink interface {
	Write(t *trees.Tree) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(*trees.Tree) error

// Write calls f(t).
func (f SinkFunc) Write(t *trees.Tree) error {
	return f(t)
}

// Collector is a Sink which keeps all trees in memory, in the order they
// were written. Output splitting uses it, as part sizes are known only
// after the whole corpus has been read.
type Collector struct {
	Trees []*trees.Tree
}

// Write appends t.
func (c *Collector) Write(t *trees.Tree) error {
	c.Trees = append(c.Trees, t)
	return nil
}

// === Per-tree errors =======================================================

// Processing steps recorded in tree errors.
const (
	StepTransform = "transform"
	StepExtract   = "extract"
)

// TreeError records the failure of a single tree during a corpus run. The
// rest of the run is unaffected by it.
type TreeError struct {
	SID  int    // sentence id of the offending tree
	Step string // processing step that failed
	Err  error
}

var _ error = (*TreeError)(nil)

func (e *TreeError) Error() string {
	return fmt.Sprintf("tree %d, %s (%s)", e.SID, e.Step, e.Err)
}

func (e *TreeError) Unwrap() error {
	return e.Err
}

// === Corpus runs ===========================================================

// An ExtractFunc turns a single tree into grammar rules. lcfrs.Extract is
// one; grammar extraction with binarized trees wraps the binarizer and the
// extractor into a single function. An ExtractFunc may modify the tree.
type ExtractFunc func(*trees.Tree) ([]*lcfrs.Rule, error)

// Options configure a corpus run.
type Options struct {
	Workers  int                 // size of the worker pool, default 1
	Pipeline *transform.Pipeline // transformations to apply, may be nil
	Extract  ExtractFunc         // rule extraction, nil for none
	Sink     Sink                // receives processed trees, may be nil
	Progress func(n int)         // called after every tree with the count so far
}

// Result is what a corpus run leaves behind.
type Result struct {
	Grammar *lcfrs.Grammar // extracted rules, empty without an ExtractFunc
	Trees   int            // successfully processed trees
	Failed  []TreeError    // per-tree failures, in completion order
}

// Run reads all trees from src and processes each one: the pipeline steps
// first, then rule extraction, then the sink write. Failures of single
// trees do not stop the run, they are collected in Result.Failed; how to
// react to them is the caller's decision. Source and sink failures are
// fatal and abort the run, as does cancellation of ctx. Cancellation takes
// effect between trees; trees already handed to workers are finished.
//
// The returned Result is valid, though partial, even when Run returns an
// error.
func Run(ctx context.Context, src Source, opts Options) (*Result, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		tree *trees.Tree
		part *lcfrs.Grammar // rules of this tree, nil without extraction
		step string
		err  error
	}
	jobs := make(chan *trees.Tree, workers)
	results := make(chan outcome, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for t := range jobs {
				out := outcome{tree: t}
				if opts.Pipeline != nil {
					if err := opts.Pipeline.Run(t); err != nil {
						out.step, out.err = StepTransform, err
						results <- out
						continue
					}
				}
				if opts.Extract != nil {
					out.part, out.err = extractPart(t, opts.Extract)
					if out.err != nil {
						out.step = StepExtract
					}
				}
				results <- out
			}
		}()
	}

	// The producer owns the source. It stops between trees when ctx is
	// cancelled.
	var srcErr error
	go func() {
		defer close(jobs)
		for {
			if ctx.Err() != nil {
				srcErr = ctx.Err()
				return
			}
			t, err := src.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				srcErr = fmt.Errorf("reading corpus (%w)", err)
				return
			}
			select {
			case <-ctx.Done():
				srcErr = ctx.Err()
				return
			case jobs <- t:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect. This goroutine is the only writer of the grammar and the
	// only caller of the sink.
	res := &Result{Grammar: lcfrs.NewGrammar()}
	var sinkErr error
	seen := 0
	for out := range results {
		seen++
		if out.err != nil {
			res.Failed = append(res.Failed, TreeError{SID: out.tree.ID, Step: out.step, Err: out.err})
		} else {
			if out.part != nil {
				res.Grammar.Absorb(out.part)
			}
			if opts.Sink != nil && sinkErr == nil {
				if err := opts.Sink.Write(out.tree); err != nil {
					sinkErr = fmt.Errorf("writing tree %d (%w)", out.tree.ID, err)
					cancel()
				}
			}
			res.Trees++
		}
		if opts.Progress != nil {
			opts.Progress(seen)
		}
	}
	tracer().Infof("corpus run: %d trees, %d failed, %d rules",
		res.Trees, len(res.Failed), res.Grammar.Size())
	if sinkErr != nil {
		return res, sinkErr
	}
	return res, srcErr
}

// extractPart collects the rules of one tree into a grammar of its own.
// Validation happens here, on the worker: a tree with an ill-formed rule
// fails as a whole and contributes nothing to the shared grammar.
func extractPart(t *trees.Tree, extract ExtractFunc) (*lcfrs.Grammar, error) {
	rules, err := extract(t)
	if err != nil {
		return nil, err
	}
	part := lcfrs.NewGrammar()
	if err := part.Merge(rules); err != nil {
		return nil, err
	}
	return part, nil
}
