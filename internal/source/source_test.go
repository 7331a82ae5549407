package source

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orizon-lang/bfc/internal/errors"
)

func collect(t *testing.T, s *Scanner) string {
	t.Helper()
	var out []byte
	for tok := range s.All() {
		out = append(out, tok.Char)
	}
	if err := s.Err(); err != nil {
		t.Fatalf("unexpected scan error: %v", err)
	}
	return string(out)
}

func filter(t *testing.T, src string) string {
	t.Helper()
	return collect(t, NewScanner(strings.NewReader(src), "mem.bf"))
}

func TestScannerDropsComments(t *testing.T) {
	src := "add two: ++ [ -> + < ] print it. done\n"
	if got, want := filter(t, src), "++[->+<]."; got != want {
		t.Fatalf("filter = %q, want %q", got, want)
	}
}

func TestScannerIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"hello world",
		"+++.",
		"x[y]z<>,.-+ \t\n[[]]",
		"\x00\xff+\x80-",
	}
	for _, in := range inputs {
		once := filter(t, in)
		if twice := filter(t, once); twice != once {
			t.Errorf("filtering not idempotent for %q: %q then %q", in, once, twice)
		}
		for i := 0; i < len(once); i++ {
			if !IsInstruction(once[i]) {
				t.Errorf("non-instruction byte %q survived in %q", once[i], once)
			}
		}
	}
}

func TestScannerPositions(t *testing.T) {
	var toks []Token
	for tok := range FromString("ab\n  [", "p.bf") {
		toks = append(toks, tok)
	}
	if len(toks) != 1 {
		t.Fatalf("expected 1 token, got %d", len(toks))
	}
	pos := toks[0].Pos
	if pos.Line != 2 || pos.Column != 3 || pos.Offset != 5 {
		t.Fatalf("unexpected position %+v", pos)
	}
}

func TestScannerStopsEarly(t *testing.T) {
	n := 0
	for range FromString("+++++", "") {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("expected early break after 2 tokens, got %d", n)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestScannerReportsReadError(t *testing.T) {
	s := NewScanner(failingReader{}, "broken")
	for range s.All() {
		t.Fatal("no tokens expected")
	}
	if !stderrors.Is(s.Err(), io.ErrUnexpectedEOF) {
		t.Fatalf("expected read error, got %v", s.Err())
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.bf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.IsCategory(err, errors.CategoryIO) {
		t.Fatalf("expected IO category, got %v", err)
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist in chain, got %v", err)
	}
}

func TestOpenReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.bf")
	if err := os.WriteFile(path, []byte("print one: +.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	if got := collect(t, f.Scanner); got != "+." {
		t.Fatalf("got %q", got)
	}
	if err := f.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
