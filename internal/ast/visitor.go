package ast

// Visitor receives one call per node kind. Block bodies are not entered
// automatically; VisitBlock decides whether to descend. Use Inspect for a
// plain full traversal.
type Visitor interface {
	VisitMove(node *Move)
	VisitInc(node *Inc)
	VisitBlock(node *Block)
	VisitRead(node *Read)
	VisitWrite(node *Write)
}

// Inspect calls fn for every node in depth-first, left-to-right order.
// Returning false from fn skips the children of a Block.
func Inspect(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		if b, ok := n.(*Block); ok {
			Inspect(b.Body, fn)
		}
	}
}

// CountBlocks returns the number of Block nodes at any depth.
func CountBlocks(nodes []Node) int {
	count := 0
	Inspect(nodes, func(n Node) bool {
		if _, ok := n.(*Block); ok {
			count++
		}
		return true
	})
	return count
}
