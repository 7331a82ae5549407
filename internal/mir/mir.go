// Package mir defines a Mid-level IR used between HIR and text emission.
// It works directly on machine registers and memory operands with a fixed
// register assignment; there is no allocation.
package mir

import (
	"fmt"
	"strings"
)

// Location is an operand addressing mode.
type Location interface {
	isLocation()
	String() string
}

// Register names machine register rN.
type Register struct{ N int }

// Immediate is a constant operand.
type Immediate struct{ N int }

// Indirect is the memory cell addressed by the value held in Inner.
// Only Indirect{Register} is produced.
type Indirect struct{ Inner Location }

func (Register) isLocation()  {}
func (Immediate) isLocation() {}
func (Indirect) isLocation()  {}

func (r Register) String() string  { return fmt.Sprintf("r%d", r.N) }
func (i Immediate) String() string { return fmt.Sprintf("#%d", i.N) }
func (i Indirect) String() string {
	if i.Inner == nil {
		return "[<nil>]"
	}
	return fmt.Sprintf("[%s]", i.Inner)
}

// Fixed register assignment.
var (
	SyscallArg0   = Register{N: 0} // fd, then result
	Scratch       = Register{N: 1} // cell value; buffer address for syscalls
	SyscallArg2   = Register{N: 2} // byte count
	Cursor        = Register{N: 5} // tape cursor for the whole program
	SyscallNumber = Register{N: 7}
)

// Linux EABI syscall numbers used by Read and Write.
const (
	SysExit  = 1
	SysRead  = 3
	SysWrite = 4
)

// Standard stream descriptors.
const (
	Stdin  = 0
	Stdout = 1
)

// Cell is the memory cell under the cursor.
var Cell = Indirect{Inner: Cursor}

// Instr is implemented by all MIR instructions.
type Instr interface {
	isInstr()
	String() string
}

// Store writes the low byte of Src to Dst.
type Store struct {
	Src Location
	Dst Location
}

// Load reads one byte from Src into Dst.
type Load struct {
	Dst Location
	Src Location
}

// Move copies Src into register Dst.
type Move struct {
	Dst Register
	Src Location
}

// Inc adds Src to register Dst.
type Inc struct {
	Dst Register
	Src Location
}

// BranchZero jumps to the end of block Label when Reg is zero.
type BranchZero struct {
	Reg   Register
	Label int
}

// BranchNonZero jumps back to the start of block Label when Reg is non-zero.
type BranchNonZero struct {
	Reg   Register
	Label int
}

// LabelKind distinguishes the two labels of a block.
type LabelKind int

const (
	LabelStart LabelKind = iota
	LabelEnd
)

func (k LabelKind) String() string {
	switch k {
	case LabelStart:
		return "start"
	case LabelEnd:
		return "end"
	default:
		return "label?"
	}
}

// Label marks the start or end of block ID.
type Label struct {
	Kind LabelKind
	ID   int
}

// Syscall traps into the kernel.
type Syscall struct{}

func (Store) isInstr()         {}
func (Load) isInstr()          {}
func (Move) isInstr()          {}
func (Inc) isInstr()           {}
func (BranchZero) isInstr()    {}
func (BranchNonZero) isInstr() {}
func (Label) isInstr()         {}
func (Syscall) isInstr()       {}

func (i Store) String() string { return fmt.Sprintf("store %s, %s", locString(i.Src), locString(i.Dst)) }
func (i Load) String() string  { return fmt.Sprintf("load %s, %s", locString(i.Dst), locString(i.Src)) }
func (i Move) String() string  { return fmt.Sprintf("move %s, %s", i.Dst, locString(i.Src)) }
func (i Inc) String() string   { return fmt.Sprintf("inc %s, %s", i.Dst, locString(i.Src)) }
func (i BranchZero) String() string {
	return fmt.Sprintf("brz %s, %s", i.Reg, Label{Kind: LabelEnd, ID: i.Label}.Name())
}
func (i BranchNonZero) String() string {
	return fmt.Sprintf("brnz %s, %s", i.Reg, Label{Kind: LabelStart, ID: i.Label}.Name())
}
func (i Label) String() string { return i.Name() + ":" }
func (Syscall) String() string { return "syscall" }

// Name is the label's symbolic name, e.g. "start_3".
func (i Label) Name() string { return fmt.Sprintf("%s_%d", i.Kind, i.ID) }

func locString(l Location) string {
	if l == nil {
		return "<nil>"
	}
	return l.String()
}

// Format renders a sequence one instruction per line; labels are not indented.
func Format(instrs []Instr) string {
	var b strings.Builder
	for _, in := range instrs {
		if _, ok := in.(Label); !ok {
			b.WriteString("  ")
		}
		b.WriteString(in.String())
		b.WriteByte('\n')
	}
	return b.String()
}
