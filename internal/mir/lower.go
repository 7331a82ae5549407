package mir

import (
	"iter"

	"github.com/orizon-lang/bfc/internal/hir"
)

// Lower expands every HIR instruction into its MIR implementation.
func Lower(seq iter.Seq[hir.Instr]) iter.Seq[Instr] {
	return func(yield func(Instr) bool) {
		for in := range seq {
			for _, out := range Expand(in) {
				if !yield(out) {
					return
				}
			}
		}
	}
}

// Expand returns the MIR sequence implementing one HIR instruction.
func Expand(in hir.Instr) []Instr {
	switch in := in.(type) {
	case hir.Move:
		return []Instr{Inc{Dst: Cursor, Src: Immediate{N: in.Delta}}}
	case hir.Inc:
		return []Instr{
			Load{Dst: Scratch, Src: Cell},
			Inc{Dst: Scratch, Src: Immediate{N: in.Delta}},
			Store{Src: Scratch, Dst: Cell},
		}
	case hir.Open:
		return []Instr{
			Load{Dst: Scratch, Src: Cell},
			BranchZero{Reg: Scratch, Label: in.ID},
			Label{Kind: LabelStart, ID: in.ID},
		}
	case hir.Close:
		return []Instr{
			Load{Dst: Scratch, Src: Cell},
			BranchNonZero{Reg: Scratch, Label: in.ID},
			Label{Kind: LabelEnd, ID: in.ID},
		}
	case hir.Write:
		return syscall(SysWrite, Stdout)
	case hir.Read:
		return syscall(SysRead, Stdin)
	default:
		return nil
	}
}

// syscall transfers one byte between fd and the cell under the cursor.
func syscall(number, fd int) []Instr {
	return []Instr{
		Move{Dst: SyscallNumber, Src: Immediate{N: number}},
		Move{Dst: SyscallArg0, Src: Immediate{N: fd}},
		Move{Dst: Scratch, Src: Cursor},
		Move{Dst: SyscallArg2, Src: Immediate{N: 1}},
		Syscall{},
	}
}
