// Package ast defines the syntax tree built by the parser.
// Leaves carry a signed delta so that both "+" and "-" (or ">" and "<")
// share one node type; a Block owns its body exclusively.
package ast

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/bfc/internal/position"
)

// Node is the base interface for all AST nodes
type Node interface {
	// Pos returns the position of the character that produced the node
	Pos() position.Position
	// String returns a human-readable representation of the node
	String() string
	// Accept implements the visitor pattern for AST traversal
	Accept(visitor Visitor)
}

// Move shifts the tape cursor by Delta cells.
type Move struct {
	At    position.Position
	Delta int
}

// Inc adds Delta to the current cell.
type Inc struct {
	At    position.Position
	Delta int
}

// Block is a bracketed loop. ID is unique within one compilation unit and
// increases with the source order of the opening brackets.
type Block struct {
	At   position.Position
	ID   int
	Body []Node
}

// Read stores one byte of input into the current cell.
type Read struct {
	At position.Position
}

// Write outputs the current cell as one byte.
type Write struct {
	At position.Position
}

func (n *Move) Pos() position.Position  { return n.At }
func (n *Inc) Pos() position.Position   { return n.At }
func (n *Block) Pos() position.Position { return n.At }
func (n *Read) Pos() position.Position  { return n.At }
func (n *Write) Pos() position.Position { return n.At }

func (n *Move) String() string { return fmt.Sprintf("Move(%d)", n.Delta) }
func (n *Inc) String() string  { return fmt.Sprintf("Inc(%d)", n.Delta) }
func (n *Read) String() string  { return "Read" }
func (n *Write) String() string { return "Write" }

func (n *Block) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Block#%d[", n.ID)
	for i, child := range n.Body {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(child.String())
	}
	b.WriteString("]")
	return b.String()
}

func (n *Move) Accept(v Visitor)  { v.VisitMove(n) }
func (n *Inc) Accept(v Visitor)   { v.VisitInc(n) }
func (n *Block) Accept(v Visitor) { v.VisitBlock(n) }
func (n *Read) Accept(v Visitor)  { v.VisitRead(n) }
func (n *Write) Accept(v Visitor) { v.VisitWrite(n) }

// Program renders a node sequence on one line, the form used in IR dumps.
func Program(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, " ")
}
