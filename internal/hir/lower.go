package hir

import (
	"iter"

	"github.com/orizon-lang/bfc/internal/ast"
)

// Lower flattens nodes depth-first, left to right. A Block becomes Open,
// its flattened body, then Close, all carrying the block's id.
func Lower(nodes []ast.Node) iter.Seq[Instr] {
	return func(yield func(Instr) bool) {
		l := &lowerer{yield: yield}
		l.lowerAll(nodes)
	}
}

// lowerer is an ast.Visitor that yields HIR as it walks. Once the consumer
// stops, every further visit is a no-op.
type lowerer struct {
	yield func(Instr) bool
	done  bool
}

func (l *lowerer) emit(in Instr) {
	if !l.done && !l.yield(in) {
		l.done = true
	}
}

func (l *lowerer) lowerAll(nodes []ast.Node) {
	for _, n := range nodes {
		if l.done {
			return
		}
		n.Accept(l)
	}
}

func (l *lowerer) VisitMove(n *ast.Move) { l.emit(Move{Delta: n.Delta}) }
func (l *lowerer) VisitInc(n *ast.Inc)   { l.emit(Inc{Delta: n.Delta}) }
func (l *lowerer) VisitRead(*ast.Read)   { l.emit(Read{}) }
func (l *lowerer) VisitWrite(*ast.Write) { l.emit(Write{}) }

func (l *lowerer) VisitBlock(n *ast.Block) {
	l.emit(Open{ID: n.ID})
	l.lowerAll(n.Body)
	l.emit(Close{ID: n.ID})
}
