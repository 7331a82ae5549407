package ast

import "testing"

type kindCounter struct {
	moves, incs, blocks, reads, writes int
}

func (k *kindCounter) VisitMove(*Move)   { k.moves++ }
func (k *kindCounter) VisitInc(*Inc)     { k.incs++ }
func (k *kindCounter) VisitBlock(*Block) { k.blocks++ }
func (k *kindCounter) VisitRead(*Read)   { k.reads++ }
func (k *kindCounter) VisitWrite(*Write) { k.writes++ }

func sample() []Node {
	return []Node{
		&Inc{Delta: 1},
		&Block{ID: 0, Body: []Node{
			&Move{Delta: 1},
			&Block{ID: 1, Body: []Node{&Inc{Delta: -1}}},
			&Read{},
		}},
		&Write{},
	}
}

func TestProgramString(t *testing.T) {
	want := "Inc(1) Block#0[Move(1) Block#1[Inc(-1)] Read] Write"
	if got := Program(sample()); got != want {
		t.Fatalf("Program() = %q, want %q", got, want)
	}
}

func TestAcceptDispatchesByKind(t *testing.T) {
	var k kindCounter
	Inspect(sample(), func(n Node) bool {
		n.Accept(&k)
		return true
	})
	if k.incs != 2 || k.moves != 1 || k.blocks != 2 || k.reads != 1 || k.writes != 1 {
		t.Fatalf("unexpected counts: %+v", k)
	}
}

func TestInspectSkipsChildren(t *testing.T) {
	seen := 0
	Inspect(sample(), func(n Node) bool {
		seen++
		_, isBlock := n.(*Block)
		return !isBlock
	})
	if seen != 3 {
		t.Fatalf("expected only top-level nodes, saw %d", seen)
	}
}

func TestCountBlocks(t *testing.T) {
	if got := CountBlocks(sample()); got != 2 {
		t.Fatalf("CountBlocks() = %d, want 2", got)
	}
}
