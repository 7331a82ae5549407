package codegen

import (
	"bytes"
	stderrors "errors"
	"slices"
	"strings"
	"testing"

	"github.com/orizon-lang/bfc/internal/errors"
	"github.com/orizon-lang/bfc/internal/mir"
)

func TestEmitInstrTemplates(t *testing.T) {
	r1, r5 := mir.Register{N: 1}, mir.Register{N: 5}
	cell := mir.Indirect{Inner: r5}
	tests := []struct {
		in   mir.Instr
		want []string
	}{
		{mir.Store{Src: r1, Dst: cell}, []string{"        strb r1, [r5]"}},
		{mir.Load{Dst: r1, Src: cell}, []string{"        ldrb r1, [r5]"}},
		{mir.Move{Dst: mir.Register{N: 7}, Src: mir.Immediate{N: 4}}, []string{"        mov  r7, 4"}},
		{mir.Move{Dst: r1, Src: r5}, []string{"        mov  r1, r5"}},
		{mir.Inc{Dst: r1, Src: mir.Immediate{N: 3}}, []string{"        add  r1, 3", "        uxtb r1, r1"}},
		{mir.Inc{Dst: r5, Src: mir.Immediate{N: -2}}, []string{"        sub  r5, 2"}},
		{mir.Inc{Dst: r1, Src: mir.Immediate{N: 0}}, []string{"        add  r1, 0", "        uxtb r1, r1"}},
		{mir.Inc{Dst: r1, Src: mir.Immediate{N: -1}}, []string{"        sub  r1, 1", "        uxtb r1, r1"}},
		{mir.Inc{Dst: r1, Src: r5}, []string{"        add  r1, r5", "        uxtb r1, r1"}},
		{mir.BranchZero{Reg: r1, Label: 3}, []string{"        cmp  r1, 0", "        beq  BF_End_3"}},
		{mir.BranchNonZero{Reg: r1, Label: 3}, []string{"        cmp  r1, 0", "        bne  BF_Start_3"}},
		{mir.Label{Kind: mir.LabelStart, ID: 3}, []string{"BF_Start_3:"}},
		{mir.Label{Kind: mir.LabelEnd, ID: 3}, []string{"BF_End_3:"}},
		{mir.Syscall{}, []string{"        svc  0"}},
	}
	for _, tt := range tests {
		got, err := EmitInstr(tt.in)
		if err != nil {
			t.Errorf("EmitInstr(%v): %v", tt.in, err)
			continue
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("EmitInstr(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEmitInstrRejectsOperandShapes(t *testing.T) {
	r1, r5 := mir.Register{N: 1}, mir.Register{N: 5}
	bad := []mir.Instr{
		mir.Store{Src: r1, Dst: r5},
		mir.Store{Src: mir.Immediate{N: 1}, Dst: mir.Indirect{Inner: r5}},
		mir.Store{Src: r1, Dst: mir.Indirect{Inner: mir.Immediate{N: 100}}},
		mir.Store{Src: r1, Dst: mir.Indirect{Inner: mir.Indirect{Inner: r5}}},
		mir.Load{Dst: mir.Indirect{Inner: r5}, Src: mir.Indirect{Inner: r5}},
		mir.Load{Dst: r1, Src: nil},
		mir.Move{Dst: r1, Src: mir.Indirect{Inner: r5}},
		mir.Move{Dst: r1, Src: mir.Immediate{N: -1}},
		mir.Inc{Dst: r1, Src: mir.Indirect{Inner: r5}},
		mir.Inc{Dst: r1, Src: nil},
	}
	for _, in := range bad {
		lines, err := EmitInstr(in)
		if err == nil {
			t.Errorf("EmitInstr(%v) = %q, expected internal error", in, lines)
			continue
		}
		if !errors.IsCategory(err, errors.CategoryInternal) {
			t.Errorf("EmitInstr(%v): expected internal category, got %v", in, err)
		}
		var se *errors.StandardError
		if stderrors.As(err, &se) && !strings.Contains(se.Caller, "internal/codegen.") {
			t.Errorf("EmitInstr(%v): caller %q should be in codegen", in, se.Caller)
		}
	}
}

func TestEmitStopsAtFirstError(t *testing.T) {
	var buf bytes.Buffer
	seq := slices.Values([]mir.Instr{
		mir.Syscall{},
		mir.Store{Src: mir.Register{N: 1}, Dst: mir.Register{N: 5}},
		mir.Syscall{},
	})
	n, err := Emit(&buf, seq)
	if err == nil {
		t.Fatal("expected error")
	}
	if n != 1 || strings.Count(buf.String(), "svc") != 1 {
		t.Fatalf("expected exactly one line before the failure, got %d:\n%s", n, buf.String())
	}
}

func TestLayoutText(t *testing.T) {
	var buf bytes.Buffer
	l := Layout{Entry: "main", Tape: "tape", TapeSize: 128}
	if err := l.WritePrelude(&buf); err != nil {
		t.Fatal(err)
	}
	wantPrelude := "        .text\n        .global main\n        .syntax unified\nmain:\n        ldr  r5, =tape\n"
	if buf.String() != wantPrelude {
		t.Fatalf("prelude:\n%q\nwant\n%q", buf.String(), wantPrelude)
	}

	buf.Reset()
	if err := l.WritePostlude(&buf); err != nil {
		t.Fatal(err)
	}
	post := buf.String()
	if strings.Count(post, ".global") != 1 || !strings.Contains(post, ".global tape") {
		t.Fatalf("postlude must export exactly the tape symbol:\n%s", post)
	}
	if !strings.Contains(post, "        .space 128\n") {
		t.Fatalf("postlude missing tape reservation:\n%s", post)
	}
	exit := strings.Index(post, "mov  r7, 1")
	data := strings.Index(post, ".data")
	if exit < 0 || data < exit {
		t.Fatalf("exit sequence must precede the data section:\n%s", post)
	}
}

func TestLayoutValidate(t *testing.T) {
	for _, l := range []Layout{
		{Entry: "", Tape: "tape", TapeSize: 1},
		{Entry: "main", Tape: "", TapeSize: 1},
		{Entry: "main", Tape: "tape", TapeSize: 0},
	} {
		if err := l.Validate(); !errors.IsCategory(err, errors.CategoryValidation) {
			t.Errorf("%+v: expected validation error, got %v", l, err)
		}
	}
	if err := DefaultLayout().Validate(); err != nil {
		t.Fatalf("default layout invalid: %v", err)
	}
}
