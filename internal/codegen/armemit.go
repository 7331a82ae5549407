package codegen

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/orizon-lang/bfc/internal/errors"
	"github.com/orizon-lang/bfc/internal/mir"
)

const indent = "        "

// LabelName returns the assembly symbol for a block label.
func LabelName(kind mir.LabelKind, id int) string {
	if kind == mir.LabelStart {
		return fmt.Sprintf("BF_Start_%d", id)
	}
	return fmt.Sprintf("BF_End_%d", id)
}

func insn(op string, operands ...string) string {
	return fmt.Sprintf("%s%-4s %s", indent, op, strings.Join(operands, ", "))
}

func reg(r mir.Register) string { return fmt.Sprintf("r%d", r.N) }

// baseRegister accepts only Indirect{Register}, the one memory operand the
// target supports.
func baseRegister(l mir.Location) (mir.Register, bool) {
	ind, ok := l.(mir.Indirect)
	if !ok {
		return mir.Register{}, false
	}
	r, ok := ind.Inner.(mir.Register)
	return r, ok
}

func unsupported(in mir.Instr) error {
	return errors.InternalCompilerError("emit", fmt.Sprintf("unsupported operands in %q", in.String()))
}

// EmitInstr renders one MIR instruction as ARM assembly lines. Operand
// combinations outside the fixed templates are internal compiler errors.
func EmitInstr(in mir.Instr) ([]string, error) {
	switch v := in.(type) {
	case mir.Store:
		src, ok := v.Src.(mir.Register)
		base, ok2 := baseRegister(v.Dst)
		if !ok || !ok2 {
			return nil, unsupported(in)
		}
		return []string{insn("strb", reg(src), "["+reg(base)+"]")}, nil
	case mir.Load:
		dst, ok := v.Dst.(mir.Register)
		base, ok2 := baseRegister(v.Src)
		if !ok || !ok2 {
			return nil, unsupported(in)
		}
		return []string{insn("ldrb", reg(dst), "["+reg(base)+"]")}, nil
	case mir.Move:
		switch src := v.Src.(type) {
		case mir.Immediate:
			if src.N < 0 {
				return nil, unsupported(in)
			}
			return []string{insn("mov", reg(v.Dst), fmt.Sprint(src.N))}, nil
		case mir.Register:
			return []string{insn("mov", reg(v.Dst), reg(src))}, nil
		}
		return nil, unsupported(in)
	case mir.Inc:
		var lines []string
		switch src := v.Src.(type) {
		case mir.Immediate:
			if src.N < 0 {
				lines = []string{insn("sub", reg(v.Dst), fmt.Sprint(-src.N))}
			} else {
				lines = []string{insn("add", reg(v.Dst), fmt.Sprint(src.N))}
			}
		case mir.Register:
			lines = []string{insn("add", reg(v.Dst), reg(src))}
		default:
			return nil, unsupported(in)
		}
		// Scratch mirrors a byte cell. Keep it equal to what strb stores,
		// since a Load following the Store may have been removed.
		if v.Dst == mir.Scratch {
			lines = append(lines, insn("uxtb", reg(v.Dst), reg(v.Dst)))
		}
		return lines, nil
	case mir.BranchZero:
		return []string{
			insn("cmp", reg(v.Reg), "0"),
			insn("beq", LabelName(mir.LabelEnd, v.Label)),
		}, nil
	case mir.BranchNonZero:
		return []string{
			insn("cmp", reg(v.Reg), "0"),
			insn("bne", LabelName(mir.LabelStart, v.Label)),
		}, nil
	case mir.Label:
		return []string{LabelName(v.Kind, v.ID) + ":"}, nil
	case mir.Syscall:
		return []string{insn("svc", "0")}, nil
	default:
		return nil, errors.InternalCompilerError("emit", fmt.Sprintf("unknown instruction %T", in))
	}
}

// Emit writes the program body for seq, stopping at the first instruction
// that cannot be rendered. It returns the number of lines written.
func Emit(w io.Writer, seq iter.Seq[mir.Instr]) (int, error) {
	n := 0
	for in := range seq {
		lines, err := EmitInstr(in)
		if err != nil {
			return n, err
		}
		for _, line := range lines {
			if _, err := io.WriteString(w, line+"\n"); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}
