package hir

import (
	"iter"

	"github.com/orizon-lang/bfc/internal/peephole"
)

// FoldWidth is the lookahead of the constant folding pass.
const FoldWidth = 2

// FoldRule merges the two oldest instructions when both are Inc or both are
// Move, summing their deltas. A resulting delta of zero is kept.
var FoldRule = peephole.RuleFunc[Instr](func(w *peephole.Window[Instr]) {
	if w.Len() < 2 {
		return
	}
	switch a := w.At(0).(type) {
	case Inc:
		if b, ok := w.At(1).(Inc); ok {
			w.Set(0, Inc{Delta: a.Delta + b.Delta})
			w.Delete(1)
		}
	case Move:
		if b, ok := w.At(1).(Move); ok {
			w.Set(0, Move{Delta: a.Delta + b.Delta})
			w.Delete(1)
		}
	}
})

var folder = peephole.MustNew[Instr](FoldWidth, FoldRule)

// FoldConstants collapses runs of adjacent Inc or Move instructions.
func FoldConstants(seq iter.Seq[Instr]) iter.Seq[Instr] {
	return folder.Rewrite(seq)
}
