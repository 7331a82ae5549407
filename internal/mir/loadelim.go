package mir

import (
	"iter"

	"github.com/orizon-lang/bfc/internal/peephole"
)

// LoadElimWidth is the lookahead of the redundant load pass.
const LoadElimWidth = 2

// LoadElimRule drops a Load that directly follows a Store of the same
// register to the same address: the register already holds that value.
var LoadElimRule = peephole.RuleFunc[Instr](func(w *peephole.Window[Instr]) {
	if w.Len() < 2 {
		return
	}
	st, ok := w.At(0).(Store)
	if !ok {
		return
	}
	ld, ok := w.At(1).(Load)
	if !ok {
		return
	}
	src, ok := st.Src.(Register)
	if !ok {
		return
	}
	dst, ok := ld.Dst.(Register)
	if !ok {
		return
	}
	if src == dst && st.Dst == ld.Src {
		w.Delete(1)
	}
})

var loadEliminator = peephole.MustNew[Instr](LoadElimWidth, LoadElimRule)

// EliminateRedundantLoads applies LoadElimRule over seq.
func EliminateRedundantLoads(seq iter.Seq[Instr]) iter.Seq[Instr] {
	return loadEliminator.Rewrite(seq)
}
