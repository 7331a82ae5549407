// Package dump writes the intermediate representations of compiled files
// as a YAML document for debugging the pipeline.
package dump

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/bfc/internal/ast"
	"github.com/orizon-lang/bfc/internal/codegen"
	"github.com/orizon-lang/bfc/internal/hir"
	"github.com/orizon-lang/bfc/internal/mir"
)

// Unit is the dump of one file.
type Unit struct {
	File   string    `yaml:"file"`
	Tokens int       `yaml:"tokens"`
	Blocks int       `yaml:"blocks"`
	AST    string    `yaml:"ast"`
	HIR    StagePair `yaml:"hir"`
	MIR    StagePair `yaml:"mir"`
	Lines  int       `yaml:"lines"`
}

// StagePair is one IR before and after its peephole pass, one instruction
// per entry. HIR block bodies are indented; MIR labels are not.
type StagePair struct {
	Lowered   []string `yaml:"lowered"`
	Optimized []string `yaml:"optimized"`
}

// Document is the top-level dump.
type Document struct {
	Compiler string `yaml:"compiler"`
	Units    []Unit `yaml:"units"`
}

// FromReport converts a pipeline report.
func FromReport(rep *codegen.Report) Unit {
	return Unit{
		File:   rep.File,
		Tokens: rep.Tokens,
		Blocks: rep.Blocks,
		AST:    ast.Program(rep.AST),
		HIR: StagePair{
			Lowered:   lines(hir.Format(rep.HIR)),
			Optimized: lines(hir.Format(rep.FoldedHIR)),
		},
		MIR: StagePair{
			Lowered:   lines(mir.Format(rep.MIR)),
			Optimized: lines(mir.Format(rep.OptimizedMIR)),
		},
		Lines: rep.Lines,
	}
}

func lines(listing string) []string {
	listing = strings.TrimSuffix(listing, "\n")
	if listing == "" {
		return []string{}
	}
	return strings.Split(listing, "\n")
}

// Encode writes doc to w.
func Encode(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode dump: %w", err)
	}
	return enc.Close()
}

// WriteFile writes doc to path, replacing any existing file.
func WriteFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Summary is a one-line description of a unit for log output.
func (u Unit) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d tokens, %d blocks", u.File, u.Tokens, u.Blocks)
	fmt.Fprintf(&b, ", hir %d->%d", len(u.HIR.Lowered), len(u.HIR.Optimized))
	fmt.Fprintf(&b, ", mir %d->%d", len(u.MIR.Lowered), len(u.MIR.Optimized))
	return b.String()
}
