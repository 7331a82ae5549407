package codegen

import (
	"fmt"
	"io"

	"github.com/orizon-lang/bfc/internal/errors"
	"github.com/orizon-lang/bfc/internal/mir"
)

// DefaultTapeSize is the size of the zero-initialized tape in bytes.
const DefaultTapeSize = 30000

// Layout describes the fixed text around the program body.
type Layout struct {
	Entry    string // exported entry label
	Tape     string // symbol of the tape's first byte
	TapeSize int
}

// DefaultLayout returns the standard layout: entry "main", a 30000 byte tape.
func DefaultLayout() Layout {
	return Layout{Entry: "main", Tape: "tape", TapeSize: DefaultTapeSize}
}

// Validate rejects layouts that would produce malformed assembly.
func (l Layout) Validate() error {
	if l.Entry == "" {
		return errors.InvalidSetting("entry label", l.Entry)
	}
	if l.Tape == "" {
		return errors.InvalidSetting("tape symbol", l.Tape)
	}
	if l.TapeSize <= 0 {
		return errors.InvalidSetting("tape size", l.TapeSize)
	}
	return nil
}

// WritePrelude emits section setup, the entry label, and the cursor
// initialization to the start of the tape.
func (l Layout) WritePrelude(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s.text\n%s.global %s\n%s.syntax unified\n%s:\n%s\n",
		indent, indent, l.Entry, indent, l.Entry,
		insn("ldr", reg(mir.Cursor), "="+l.Tape))
	return err
}

// WritePostlude emits the exit sequence and the tape declaration.
func (l Layout) WritePostlude(w io.Writer) error {
	exit := []string{
		insn("mov", reg(mir.SyscallNumber), fmt.Sprint(mir.SysExit)),
		insn("mov", reg(mir.SyscallArg0), "0"),
		insn("svc", "0"),
	}
	if _, err := fmt.Fprintf(w, "\n%s\n%s\n%s\n", exit[0], exit[1], exit[2]); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s.data\n%s.global %s\n%s:\n%s.space %d\n",
		indent, indent, l.Tape, l.Tape, indent, l.TapeSize)
	return err
}
