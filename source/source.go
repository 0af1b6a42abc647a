// Package source provides a forward-only character cursor over Neo program text.
package source

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// EOF is returned by Current and Advance once the input is exhausted.
const EOF rune = -1

// Reader holds exactly one character of lookahead and the position of that character.
type Reader struct {
	in      io.RuneReader
	current rune
	line    int
	column  int
}

// FromString creates a Reader over an in-memory program.
func FromString(s string) *Reader {
	return FromReader(strings.NewReader(s))
}

// FromReader creates a Reader over r. Reads are buffered by bufio when r is not
// already an io.RuneReader.
func FromReader(r io.Reader) *Reader {
	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(r)
	}
	s := &Reader{in: rr, line: 1, column: 0}
	s.current = s.read()
	s.column = 1
	return s
}

// Open creates a Reader over the file at path. The caller closes the returned file.
func Open(path string) (*Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return FromReader(f), f, nil
}

func (s *Reader) read() rune {
	r, _, err := s.in.ReadRune()
	if err != nil {
		return EOF
	}
	return r
}

// Current returns the character under the cursor.
func (s *Reader) Current() rune {
	return s.current
}

// Advance moves one character forward and returns the new current character.
// Past the end of the input it keeps returning EOF without moving the position.
func (s *Reader) Advance() rune {
	if s.current == EOF {
		return EOF
	}
	if s.current == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	s.current = s.read()
	return s.current
}

// Line is the line of the current character.
func (s *Reader) Line() int {
	return s.line
}

// Column is the column of the current character.
func (s *Reader) Column() int {
	return s.column
}
