// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package token defines the lexical token types for the sim2 language.
//
// The token set is fixed and small:
//   - reserved words (sim, if, then, else, end, block, the four actions,
//     add/sub, the special identifiers and the eight compass points)
//   - the punctuation operators ( ) = == < >
//   - identifiers and integer literals, which carry a payload
package token

import "fmt"

// Token represents a lexical token.
type Token struct {
	Type    Type
	Literal string // source text of the token
	Value   int    // decoded value, INT only
	Pos     Position
}

// Equal reports whether two tokens are the same token. Keywords and
// punctuation compare by type alone; identifiers and integers also compare
// their payload. Source positions are ignored.
func (t Token) Equal(o Token) bool {
	if t.Type != o.Type {
		return false
	}
	switch t.Type {
	case IDENT:
		return t.Literal == o.Literal
	case INT:
		return t.Value == o.Value
	}
	return true
}

func (t Token) String() string {
	switch t.Type {
	case IDENT:
		return fmt.Sprintf("Id(%s)", t.Literal)
	case INT:
		return fmt.Sprintf("Int(%d)", t.Value)
	}
	return t.Type.String()
}

// Position tracks source location.
type Position struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Type is the set of lexical token types.
type Type int

const (
	ILLEGAL Type = iota

	// Literals
	IDENT // hungry, x1
	INT   // 42

	// Operators
	operatorStart
	LPAREN // (
	RPAREN // )
	ASSIGN // =
	EQ     // ==
	LT     // <
	GT     // >
	operatorEnd

	// Keywords
	keywordStart
	SIM
	IF
	THEN
	ELSE
	END
	BLOCK
	MOVE
	HUNT
	BREED
	REST
	ADD
	SUB
	RAND
	AWAKEDAILY
	ENERGY

	// Compass points
	directionStart
	DIR_N
	DIR_NE
	DIR_E
	DIR_SE
	DIR_S
	DIR_SW
	DIR_W
	DIR_NW
	directionEnd
	keywordEnd
)

var tokenNames = [...]string{
	ILLEGAL: "ILLEGAL",

	IDENT: "IDENT",
	INT:   "INT",

	LPAREN: "(",
	RPAREN: ")",
	ASSIGN: "=",
	EQ:     "==",
	LT:     "<",
	GT:     ">",

	SIM:        "sim",
	IF:         "if",
	THEN:       "then",
	ELSE:       "else",
	END:        "end",
	BLOCK:      "block",
	MOVE:       "move",
	HUNT:       "hunt",
	BREED:      "breed",
	REST:       "rest",
	ADD:        "add",
	SUB:        "sub",
	RAND:       "rand",
	AWAKEDAILY: "awakeDaily",
	ENERGY:     "energy",

	DIR_N:  "N",
	DIR_NE: "NE",
	DIR_E:  "E",
	DIR_SE: "SE",
	DIR_S:  "S",
	DIR_SW: "SW",
	DIR_W:  "W",
	DIR_NW: "NW",
}

// String returns the string form of a token type.
func (t Type) String() string {
	if int(t) < len(tokenNames) && tokenNames[t] != "" {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsKeyword returns true if the token is a reserved word.
func (t Type) IsKeyword() bool {
	return t > keywordStart && t < keywordEnd && t != directionStart && t != directionEnd
}

// IsOperator returns true if the token is punctuation.
func (t Type) IsOperator() bool {
	return t > operatorStart && t < operatorEnd
}

// IsDirection returns true if the token is one of the eight compass points.
func (t Type) IsDirection() bool {
	return t > directionStart && t < directionEnd
}

var (
	keywords  map[string]Type
	operators map[string]Type
)

func init() {
	keywords = make(map[string]Type)
	for i := keywordStart + 1; i < keywordEnd; i++ {
		if i == directionStart || i == directionEnd {
			continue
		}
		keywords[tokenNames[i]] = i
	}
	operators = make(map[string]Type)
	for i := operatorStart + 1; i < operatorEnd; i++ {
		operators[tokenNames[i]] = i
	}
}

// LookupIdent checks if an identifier is a keyword.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// LookupOperator maps a run of punctuation to its operator type. The
// second result is false if the run is not a known operator.
func LookupOperator(op string) (Type, bool) {
	tok, ok := operators[op]
	return tok, ok
}
