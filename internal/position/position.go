// Package position provides source position tracking for the compiler.
// Positions are attached to every filtered instruction character so that
// structural errors can name the offending location.
package position

import (
	"fmt"
	"path/filepath"
)

// Position represents a single point in source code
type Position struct {
	Filename string // Source file name
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Offset   int    // 0-based byte offset in source
}

// IsValid returns true if the position is valid
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

// String returns a string representation of the position
func (p Position) String() string {
	if !p.IsValid() {
		return "<unknown>"
	}
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", filepath.Base(p.Filename), p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Tracker follows a byte stream and reports the position of the byte
// most recently passed to Advance.
type Tracker struct {
	filename string
	offset   int
	line     int
	column   int
}

// NewTracker returns a tracker positioned before the first byte of filename.
func NewTracker(filename string) *Tracker {
	return &Tracker{filename: filename, offset: -1, line: 1, column: 0}
}

// Advance consumes one byte and returns its position.
func (t *Tracker) Advance(b byte) Position {
	t.offset++
	t.column++
	pos := Position{Filename: t.filename, Line: t.line, Column: t.column, Offset: t.offset}
	if b == '\n' {
		t.line++
		t.column = 0
	}
	return pos
}
