// Package source filters raw program text down to the eight instruction
// characters. Everything else is a comment and never leaves this package.
package source

import (
	"bufio"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/orizon-lang/bfc/internal/errors"
	"github.com/orizon-lang/bfc/internal/position"
)

// Instruction characters.
const (
	Left      byte = '<'
	Right     byte = '>'
	Dec       byte = '-'
	Inc       byte = '+'
	OpenLoop  byte = '['
	CloseLoop byte = ']'
	ReadByte  byte = ','
	WriteByte byte = '.'
)

// Alphabet lists every significant character.
const Alphabet = "<>+-[],."

// IsInstruction reports whether c belongs to the instruction alphabet.
func IsInstruction(c byte) bool {
	return strings.IndexByte(Alphabet, c) >= 0
}

// Token is one instruction character together with where it was found.
type Token struct {
	Char byte
	Pos  position.Position
}

// Scanner lazily filters a byte stream. Like bufio.Scanner it is single
// use: All may be ranged over once, and Err reports a read failure after
// the sequence ends.
type Scanner struct {
	r       *bufio.Reader
	tracker *position.Tracker
	err     error
}

// NewScanner returns a scanner reading from r. filename only labels positions.
func NewScanner(r io.Reader, filename string) *Scanner {
	return &Scanner{r: bufio.NewReader(r), tracker: position.NewTracker(filename)}
}

// All yields the instruction characters of the input in order.
func (s *Scanner) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			b, err := s.r.ReadByte()
			if err != nil {
				if err != io.EOF {
					s.err = err
				}
				return
			}
			pos := s.tracker.Advance(b)
			if !IsInstruction(b) {
				continue
			}
			if !yield(Token{Char: b, Pos: pos}) {
				return
			}
		}
	}
}

// Err returns the first non-EOF read error encountered by All.
func (s *Scanner) Err() error { return s.err }

// File is a Scanner over an opened source file.
type File struct {
	*Scanner
	f    *os.File
	path string
}

// Open opens path for a single forward read.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ResourceError(path, err)
	}
	adviseSequential(f)
	return &File{Scanner: NewScanner(f, path), f: f, path: path}, nil
}

// Err wraps read failures as resource errors naming the file.
func (f *File) Err() error {
	if err := f.Scanner.Err(); err != nil {
		return errors.ResourceError(f.path, err)
	}
	return nil
}

// Close releases the underlying file.
func (f *File) Close() error { return f.f.Close() }

// FromString filters an in-memory program.
func FromString(s, filename string) iter.Seq[Token] {
	return NewScanner(strings.NewReader(s), filename).All()
}
