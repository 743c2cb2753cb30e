// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

// Package parser scans SNARL tokens and drives the two compilation
// passes: signature collection and code generation.
package parser

import "fmt"

// Kind enumerates the token alphabet.
type Kind int

const (
	IGNORED Kind = iota
	EOF
	NAME
	INTCONST
	STRCONST

	AND
	BEGIN
	CODE
	DO
	ELSE
	END
	IF
	INT
	NOT
	OR
	PROC
	STRING
	THEN
	VALUE
	WHILE

	LSQUARE
	RSQUARE
	LPAREN
	RPAREN
	COMMA
	SEMICOLON
	COLON
	ASSIGN
	EQ
	LT
	LE
	NE
	GT
	GE
	PLUS
	MINUS
	MUL
	DIV
)

var keywords = map[string]Kind{
	"and":    AND,
	"begin":  BEGIN,
	"code":   CODE,
	"do":     DO,
	"else":   ELSE,
	"end":    END,
	"if":     IF,
	"int":    INT,
	"not":    NOT,
	"or":     OR,
	"proc":   PROC,
	"string": STRING,
	"then":   THEN,
	"value":  VALUE,
	"while":  WHILE,
}

// kindNames spells each kind the way diagnostics quote it, as in
// "begin expected." or "] expected.".
var kindNames = map[Kind]string{
	IGNORED:   "ignored",
	EOF:       "end of file",
	NAME:      "name",
	INTCONST:  "integer constant",
	STRCONST:  "string constant",
	AND:       "and",
	BEGIN:     "begin",
	CODE:      "code",
	DO:        "do",
	ELSE:      "else",
	END:       "end",
	IF:        "if",
	INT:       "int",
	NOT:       "not",
	OR:        "or",
	PROC:      "proc",
	STRING:    "string",
	THEN:      "then",
	VALUE:     "value",
	WHILE:     "while",
	LSQUARE:   "[",
	RSQUARE:   "]",
	LPAREN:    "(",
	RPAREN:    ")",
	COMMA:     ",",
	SEMICOLON: ";",
	COLON:     ":",
	ASSIGN:    ":=",
	EQ:        "=",
	LT:        "<",
	LE:        "<=",
	NE:        "<>",
	GT:        ">",
	GE:        ">=",
	PLUS:      "+",
	MINUS:     "-",
	MUL:       "*",
	DIV:       "/",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// comparisonInstr maps each comparison token to the set-on-condition
// instruction it compiles to. Membership doubles as the comparison
// first-set.
var comparisonInstr = map[Kind]string{
	EQ: "seq",
	NE: "sne",
	LT: "slt",
	LE: "sle",
	GT: "sgt",
	GE: "sge",
}
