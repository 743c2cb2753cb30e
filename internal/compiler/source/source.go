// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

// Package source reads SNARL source text one character at a time and
// reports fatal compilation diagnostics against it.
//
// Each line is surfaced with a single trailing blank appended, so
// every token (and every runaway string constant) terminates before
// its line does. After the last line the reader yields the EOF
// sentinel forever.
package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// EOF is the sentinel character returned once the input is exhausted.
const EOF rune = 0

// A Diagnostic is a fatal user error bound to a source position. The
// scanner, symbol table, register allocator, and parser all raise one
// through (*Source).Error; the compiler driver recovers it at its
// boundary and hands it back as an ordinary error.
type Diagnostic struct {
	Line  int    // 1-based line number
	Text  string // the offending line, including its appended blank
	Index int    // character index just past the offending character
	Msg   string
}

// Error renders the diagnostic the way the compiler has always
// printed it: zero-padded line number and line, a caret under the
// current character, then the message.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%05d %s\n%s^\n%s", d.Line, d.Text, strings.Repeat(" ", d.Index+5), d.Msg)
}

// Source reads characters from one SNARL compilation unit.
type Source struct {
	path      string
	closer    io.Closer
	br        *bufio.Reader
	line      []rune
	lineIndex int
	lineCount int
	ch        rune
	eof       bool
}

// New opens the file at path and primes the first character.
func New(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s", path)
	}
	s := NewReader(path, f)
	s.closer = f
	return s, nil
}

// NewReader scans r. The path is used only in messages. Close is a
// no-op for reader-backed sources.
func NewReader(path string, r io.Reader) *Source {
	s := &Source{path: path, br: bufio.NewReader(r)}
	s.nextLine()
	s.Next()
	return s
}

// Char returns the current character without consuming it.
func (s *Source) Char() rune { return s.ch }

// Next consumes the current character. Once the input is exhausted
// the current character stays EOF.
func (s *Source) Next() {
	if s.lineIndex >= len(s.line) {
		if s.eof {
			s.ch = EOF
			return
		}
		s.nextLine()
	}
	s.ch = s.line[s.lineIndex]
	s.lineIndex++
}

// AtLineEnd reports whether the current character is the last one on
// its line, which is always the appended blank.
func (s *Source) AtLineEnd() bool { return s.lineIndex >= len(s.line) }

// Error raises a fatal diagnostic at the current position by
// panicking with a *Diagnostic. It does not return.
func (s *Source) Error(msg string) {
	panic(&Diagnostic{Line: s.lineCount, Text: string(s.line), Index: s.lineIndex, Msg: msg})
}

// Close releases the underlying file, if any.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	if err := s.closer.Close(); err != nil {
		return errors.Wrapf(err, "cannot close %s", s.path)
	}
	return nil
}

func (s *Source) nextLine() {
	text, err := s.br.ReadString('\n')
	if err != nil && err != io.EOF {
		panic(errors.Wrapf(err, "cannot read %s", s.path))
	}
	if text == "" && err == io.EOF {
		s.eof = true
		s.line = []rune{EOF}
		s.lineIndex = 0
		return
	}
	s.line = []rune(strings.TrimRight(text, "\r\n") + " ")
	s.lineIndex = 0
	s.lineCount++
}
