// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/golang/glog"

	"github.com/brian-dawn/snarl/internal/compiler/source"
)

// Scanner turns characters into tokens, one at a time. The current
// token is exposed through Token, Text, and Int; Next advances.
type Scanner struct {
	src  *source.Source
	kind Kind
	text string
	num  int
}

// NewScanner primes the first token.
func NewScanner(src *source.Source) *Scanner {
	s := &Scanner{src: src}
	s.Next()
	return s
}

// Token returns the current token's kind.
func (s *Scanner) Token() Kind { return s.kind }

// Text returns the current token's text: a name, a keyword, an
// operator's spelling, or a string constant's contents.
func (s *Scanner) Text() string { return s.text }

// Int returns the current integer constant's value.
func (s *Scanner) Int() int { return s.num }

// Next scans the following token, skipping blanks and comments.
func (s *Scanner) Next() {
	for {
		s.scan()
		if s.kind != IGNORED {
			break
		}
	}
	glog.V(2).Infof("token %v %q", s.kind, s.text)
}

func (s *Scanner) scan() {
	ch := s.src.Char()
	switch {
	case ch == source.EOF:
		s.kind = EOF
		s.text = ""
	case unicode.IsSpace(ch):
		s.kind = IGNORED
		s.src.Next()
	case ch == '#':
		// Comment to end of line. The appended blank is still there
		// to be skipped on the next scan.
		for !s.src.AtLineEnd() {
			s.src.Next()
		}
		s.kind = IGNORED
	case unicode.IsLetter(ch):
		var b strings.Builder
		for isNamePart(s.src.Char()) {
			b.WriteRune(s.src.Char())
			s.src.Next()
		}
		s.text = b.String()
		if k, ok := keywords[s.text]; ok {
			s.kind = k
		} else {
			s.kind = NAME
		}
	case isDigit(ch):
		var b strings.Builder
		for isDigit(s.src.Char()) {
			b.WriteRune(s.src.Char())
			s.src.Next()
		}
		s.text = b.String()
		n, err := strconv.ParseInt(s.text, 10, 32)
		if err != nil {
			s.src.Error("Invalid integer constant.")
		}
		s.num = int(n)
		s.kind = INTCONST
	case ch == '"':
		s.src.Next()
		var b strings.Builder
		for s.src.Char() != '"' {
			if s.src.AtLineEnd() {
				s.src.Error("Missing closing quote for string constant.")
			}
			b.WriteRune(s.src.Char())
			s.src.Next()
		}
		s.src.Next()
		s.text = b.String()
		s.kind = STRCONST
	default:
		s.punctuation(ch)
	}
}

func (s *Scanner) punctuation(ch rune) {
	s.text = string(ch)
	switch ch {
	case '[':
		s.kind = LSQUARE
		s.src.Next()
	case ']':
		s.kind = RSQUARE
		s.src.Next()
	case '(':
		s.kind = LPAREN
		s.src.Next()
	case ')':
		s.kind = RPAREN
		s.src.Next()
	case ',':
		s.kind = COMMA
		s.src.Next()
	case ';':
		s.kind = SEMICOLON
		s.src.Next()
	case '=':
		s.kind = EQ
		s.src.Next()
	case '+':
		s.kind = PLUS
		s.src.Next()
	case '-':
		s.kind = MINUS
		s.src.Next()
	case '*':
		s.kind = MUL
		s.src.Next()
	case '/':
		s.kind = DIV
		s.src.Next()
	case ':':
		s.src.Next()
		if s.src.Char() == '=' {
			s.kind = ASSIGN
			s.text = ":="
			s.src.Next()
		} else {
			s.kind = COLON
		}
	case '<':
		s.src.Next()
		switch s.src.Char() {
		case '=':
			s.kind = LE
			s.text = "<="
			s.src.Next()
		case '>':
			s.kind = NE
			s.text = "<>"
			s.src.Next()
		default:
			s.kind = LT
		}
	case '>':
		s.src.Next()
		if s.src.Char() == '=' {
			s.kind = GE
			s.text = ">="
			s.src.Next()
		} else {
			s.kind = GT
		}
	default:
		s.src.Error("Unrecognized symbol.")
	}
}

func isNamePart(ch rune) bool { return unicode.IsLetter(ch) || isDigit(ch) }

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }
