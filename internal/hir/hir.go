// Package hir defines the High-level IR: the AST flattened into a linear
// instruction sequence with explicit Open/Close markers per block.
package hir

import (
	"fmt"
	"strings"
)

// Instr is implemented by all HIR instructions.
type Instr interface {
	isInstr()
	String() string
}

// Move shifts the cursor by Delta.
type Move struct{ Delta int }

// Inc adds Delta to the current cell.
type Inc struct{ Delta int }

// Open starts block ID; the body runs while the current cell is non-zero.
type Open struct{ ID int }

// Close ends block ID.
type Close struct{ ID int }

// Read stores one input byte into the current cell.
type Read struct{}

// Write outputs the current cell.
type Write struct{}

func (Move) isInstr()  {}
func (Inc) isInstr()   {}
func (Open) isInstr()  {}
func (Close) isInstr() {}
func (Read) isInstr()  {}
func (Write) isInstr() {}

func (i Move) String() string  { return fmt.Sprintf("move %d", i.Delta) }
func (i Inc) String() string   { return fmt.Sprintf("inc %d", i.Delta) }
func (i Open) String() string  { return fmt.Sprintf("open #%d", i.ID) }
func (i Close) String() string { return fmt.Sprintf("close #%d", i.ID) }
func (Read) String() string    { return "read" }
func (Write) String() string   { return "write" }

// Format renders a sequence one instruction per line, indenting block bodies.
func Format(instrs []Instr) string {
	var b strings.Builder
	depth := 0
	for _, in := range instrs {
		if _, ok := in.(Close); ok && depth > 0 {
			depth--
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(in.String())
		b.WriteByte('\n')
		if _, ok := in.(Open); ok {
			depth++
		}
	}
	return b.String()
}
