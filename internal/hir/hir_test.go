package hir

import (
	"slices"
	"testing"

	"github.com/orizon-lang/bfc/internal/ast"
	"github.com/orizon-lang/bfc/internal/errors"
	"github.com/orizon-lang/bfc/internal/parser"
	"github.com/orizon-lang/bfc/internal/source"
)

func lowerSource(t *testing.T, src string) []Instr {
	t.Helper()
	nodes, err := parser.Parse(source.FromString(src, "hir.bf"))
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return slices.Collect(Lower(nodes))
}

func fold(in []Instr) []Instr {
	out := slices.Collect(FoldConstants(slices.Values(in)))
	if out == nil {
		out = []Instr{}
	}
	return out
}

func TestLowerLoop(t *testing.T) {
	got := lowerSource(t, "[-]")
	want := []Instr{Open{ID: 0}, Inc{Delta: -1}, Close{ID: 0}}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLowerLeavesOneToOne(t *testing.T) {
	got := lowerSource(t, "<>+-,.")
	want := []Instr{Move{-1}, Move{1}, Inc{1}, Inc{-1}, Read{}, Write{}}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLowerNestedOrder(t *testing.T) {
	nodes := []ast.Node{
		&ast.Block{ID: 0, Body: []ast.Node{
			&ast.Block{ID: 1, Body: []ast.Node{&ast.Write{}}},
			&ast.Move{Delta: 1},
		}},
	}
	got := slices.Collect(Lower(nodes))
	want := []Instr{Open{0}, Open{1}, Write{}, Close{1}, Move{1}, Close{0}}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLowerBalanced(t *testing.T) {
	inputs := []string{
		"",
		"[]",
		"+[->+<]",
		"[[[]][[]]][]",
		"++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.",
	}
	for _, in := range inputs {
		instrs := lowerSource(t, in)
		if err := Verify(instrs); err != nil {
			t.Errorf("%q: %v", in, err)
		}
		if err := Verify(fold(instrs)); err != nil {
			t.Errorf("%q after folding: %v", in, err)
		}
	}
}

func TestVerifyRejectsBrokenNesting(t *testing.T) {
	tests := map[string][]Instr{
		"overlap":      {Open{0}, Open{1}, Close{0}, Close{1}},
		"unclosed":     {Open{0}},
		"stray close":  {Close{3}},
		"opened twice": {Open{0}, Close{0}, Open{0}, Close{0}},
	}
	for name, in := range tests {
		err := Verify(in)
		if !errors.IsCategory(err, errors.CategoryInternal) {
			t.Errorf("%s: expected internal error, got %v", name, err)
		}
	}
}

func TestFoldConstants(t *testing.T) {
	tests := []struct {
		name string
		in   []Instr
		want []Instr
	}{
		{"three incs", []Instr{Inc{1}, Inc{1}, Inc{1}}, []Instr{Inc{3}}},
		{"different kinds", []Instr{Move{1}, Inc{1}}, []Instr{Move{1}, Inc{1}}},
		{"not adjacent", []Instr{Inc{1}, Move{1}, Inc{1}}, []Instr{Inc{1}, Move{1}, Inc{1}}},
		{"moves", []Instr{Move{1}, Move{1}, Move{-3}}, []Instr{Move{-1}}},
		{"zero kept", []Instr{Inc{1}, Inc{-1}}, []Instr{Inc{0}}},
		{"loop markers block merging", []Instr{Inc{1}, Open{0}, Inc{1}, Close{0}, Inc{1}}, []Instr{Inc{1}, Open{0}, Inc{1}, Close{0}, Inc{1}}},
		{"io untouched", []Instr{Read{}, Read{}, Write{}, Write{}}, []Instr{Read{}, Read{}, Write{}, Write{}}},
		{"empty", []Instr{}, []Instr{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fold(tt.in); !slices.Equal(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatIndentsBlocks(t *testing.T) {
	got := Format([]Instr{Open{0}, Inc{-1}, Close{0}, Write{}})
	want := "open #0\n  inc -1\nclose #0\nwrite\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestLowerStopsWhenConsumerStops(t *testing.T) {
	nodes, err := parser.Parse(source.FromString("[[+]]+", "hir.bf"))
	if err != nil {
		t.Fatal(err)
	}
	var got []Instr
	for in := range Lower(nodes) {
		got = append(got, in)
		if len(got) == 3 {
			break
		}
	}
	if want := []Instr{Open{0}, Open{1}, Inc{1}}; !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
