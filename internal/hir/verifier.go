package hir

import (
	"fmt"

	"github.com/orizon-lang/bfc/internal/errors"
)

// Verify checks that every block id is opened exactly once, closed exactly
// once after its Open, and that blocks nest without overlapping.
func Verify(instrs []Instr) error {
	var stack []int
	opened := make(map[int]bool)
	for i, in := range instrs {
		switch in := in.(type) {
		case Open:
			if opened[in.ID] {
				return errors.InternalCompilerError("hir", fmt.Sprintf("block #%d opened twice (instr %d)", in.ID, i))
			}
			opened[in.ID] = true
			stack = append(stack, in.ID)
		case Close:
			if len(stack) == 0 {
				return errors.InternalCompilerError("hir", fmt.Sprintf("close #%d without open (instr %d)", in.ID, i))
			}
			top := stack[len(stack)-1]
			if top != in.ID {
				return errors.InternalCompilerError("hir", fmt.Sprintf("close #%d while #%d is innermost (instr %d)", in.ID, top, i))
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return errors.InternalCompilerError("hir", fmt.Sprintf("block #%d never closed", stack[len(stack)-1]))
	}
	return nil
}
