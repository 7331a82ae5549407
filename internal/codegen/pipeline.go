// Package codegen renders MIR as ARM assembly text and wires the whole
// source -> AST -> HIR -> MIR -> text pipeline for one input.
package codegen

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/orizon-lang/bfc/internal/ast"
	"github.com/orizon-lang/bfc/internal/cli"
	"github.com/orizon-lang/bfc/internal/errors"
	"github.com/orizon-lang/bfc/internal/hir"
	"github.com/orizon-lang/bfc/internal/mir"
	"github.com/orizon-lang/bfc/internal/parser"
	"github.com/orizon-lang/bfc/internal/source"
)

// Options selects the per-file behavior of a Pipeline.
type Options struct {
	Parser         parser.Options
	FoldConstants  bool
	EliminateLoads bool
	Layout         Layout
}

// DefaultOptions enables both peephole passes and strict bracket checking.
func DefaultOptions() Options {
	return Options{
		FoldConstants:  true,
		EliminateLoads: true,
		Layout:         DefaultLayout(),
	}
}

// Report records the output of every stage for one compiled file.
type Report struct {
	File         string
	Tokens       int
	Blocks       int
	AST          []ast.Node
	HIR          []hir.Instr
	FoldedHIR    []hir.Instr
	MIR          []mir.Instr
	OptimizedMIR []mir.Instr
	Lines        int
}

// Pipeline compiles one input at a time. It holds no per-file state, so
// every Compile starts a fresh block-id counter.
type Pipeline struct {
	opts Options
	log  *cli.Logger
}

// NewPipeline validates opts and returns a pipeline. log may be nil.
func NewPipeline(opts Options, log *cli.Logger) (*Pipeline, error) {
	if err := opts.Layout.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{opts: opts, log: log}, nil
}

// CompileFile compiles the file at path and writes assembly to w. Nothing
// is written unless every stage succeeds.
func (p *Pipeline) CompileFile(path string, w io.Writer) (*Report, error) {
	f, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return p.compile(path, f.All(), f.Err, w)
}

// Compile compiles in-memory source text named name.
func (p *Pipeline) Compile(name string, r io.Reader, w io.Writer) (*Report, error) {
	s := source.NewScanner(r, name)
	return p.compile(name, s.All(), s.Err, w)
}

func (p *Pipeline) compile(name string, tokens iter.Seq[source.Token], scanErr func() error, w io.Writer) (*Report, error) {
	rep := &Report{File: name}

	ps := parser.NewParser(tokens, p.opts.Parser)
	nodes, err := ps.Parse()
	// A failed read also truncates the token stream, so it takes priority
	// over whatever the parser made of the partial input.
	if serr := scanErr(); serr != nil {
		return nil, serr
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	rep.AST, rep.Tokens, rep.Blocks = nodes, ps.Consumed(), ps.Blocks()
	// Labels are named after block ids, so every id handed out must belong
	// to exactly one block in the tree.
	if n := ast.CountBlocks(nodes); n != rep.Blocks {
		return nil, fmt.Errorf("parse %s: %w", name, errors.InternalCompilerError("parse",
			fmt.Sprintf("%d block ids assigned, %d blocks in tree", rep.Blocks, n)))
	}
	p.log.Debug("%s: parsed %d tokens into %d top-level nodes, %d blocks", name, rep.Tokens, len(nodes), rep.Blocks)

	rep.HIR = slices.Collect(hir.Lower(nodes))
	rep.FoldedHIR = rep.HIR
	if p.opts.FoldConstants {
		rep.FoldedHIR = slices.Collect(hir.FoldConstants(slices.Values(rep.HIR)))
	}
	p.log.Debug("%s: hir %d -> %d instructions after folding", name, len(rep.HIR), len(rep.FoldedHIR))
	if err := hir.Verify(rep.FoldedHIR); err != nil {
		return nil, fmt.Errorf("lower %s: %w", name, err)
	}

	rep.MIR = slices.Collect(mir.Lower(slices.Values(rep.FoldedHIR)))
	rep.OptimizedMIR = rep.MIR
	if p.opts.EliminateLoads {
		rep.OptimizedMIR = slices.Collect(mir.EliminateRedundantLoads(slices.Values(rep.MIR)))
	}
	p.log.Debug("%s: mir %d -> %d instructions after load elimination", name, len(rep.MIR), len(rep.OptimizedMIR))

	var buf bytes.Buffer
	if err := p.opts.Layout.WritePrelude(&buf); err != nil {
		return nil, err
	}
	n, err := Emit(&buf, slices.Values(rep.OptimizedMIR))
	if err != nil {
		return nil, fmt.Errorf("emit %s: %w", name, err)
	}
	rep.Lines = n
	if err := p.opts.Layout.WritePostlude(&buf); err != nil {
		return nil, err
	}

	if _, err := buf.WriteTo(w); err != nil {
		return nil, fmt.Errorf("write %s: %w", name, err)
	}
	p.log.Info("compiled %s: %d instruction lines", name, n)
	return rep, nil
}
