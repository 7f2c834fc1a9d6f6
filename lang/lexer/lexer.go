// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package lexer implements the sim2 tokenizer.
//
// The lexer is a character-class driven finite automaton:
//   - every input byte is classified as whitespace, digit, letter or
//     punctuation (one of "()<>=")
//   - a fixed transition table maps (state, class) to the next state
//   - entering the stop state frames the bytes seen since the last token
//     boundary into a token, then the byte that caused the stop is fed
//     again from the initial state so it starts the next token
//   - the pending token is flushed at end of input
//
// The scan is a single left-to-right pass with no backtracking.
package lexer

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/probechain/go-sim2/lang/token"
)

// Lexer failure kinds.
var (
	ErrInvalidCharType       = errors.New("InvalidCharType")
	ErrInvalidTransition     = errors.New("InvalidTransition")
	ErrInvalidOperatorString = errors.New("InvalidOperatorString")
	ErrInvalidTokenState     = errors.New("InvalidTokenState")
	ErrParseNumber           = errors.New("ParseNumberError")
)

// Error is a lexer failure at a source position. Text holds the offending
// character or framed slice.
type Error struct {
	Err  error
	Pos  token.Position
	Text string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v %q", e.Pos, e.Err, e.Text)
}

func (e *Error) Unwrap() error { return e.Err }

type state uint8

const (
	stateInitial state = iota
	stateIdentifier
	stateOperator
	stateNumber
	stateStop
	stateInvalid
)

type charClass uint8

const (
	classWhite charClass = iota
	classDigit
	classLetter
	classPunc
)

// transitions is indexed by [state][class].
var transitions = [...][4]state{
	stateInitial:    {stateInitial, stateNumber, stateIdentifier, stateOperator},
	stateIdentifier: {stateStop, stateIdentifier, stateIdentifier, stateStop},
	stateOperator:   {stateStop, stateStop, stateStop, stateOperator},
	stateNumber:     {stateStop, stateNumber, stateInvalid, stateStop},
	stateStop:       {stateInitial, stateNumber, stateIdentifier, stateOperator},
}

// Lexer holds the state for a single tokenization run.
type Lexer struct {
	filename string
	input    string

	pos  int // index of the byte being classified
	line int // 1-based line of input[pos]
	col  int // 1-based column of input[pos]

	state    state
	start    int            // first byte of the token being framed
	startPos token.Position // position of input[start]

	tokens []token.Token
}

// New creates a new Lexer for the given filename and input string.
func New(filename, input string) *Lexer {
	return &Lexer{
		filename: filename,
		input:    input,
		line:     1,
		col:      1,
	}
}

// Tokenize converts sim2 source text into its token sequence.
func Tokenize(filename, input string) ([]token.Token, error) {
	return New(filename, input).Tokenize()
}

// Tokenize runs the automaton over the whole input and returns the tokens
// in source order. The first failure aborts the scan.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	for ; l.pos < len(l.input); l.advance() {
		ch := l.input[l.pos]
		class, ok := classify(ch)
		if !ok {
			return nil, l.errorf(ErrInvalidCharType, l.currentPos(), string(ch))
		}
		prev := l.state
		next := transitions[prev][class]
		switch next {
		case stateInvalid:
			return nil, l.errorf(ErrInvalidTransition, l.startPos, l.input[l.start:l.pos+1])
		case stateStop:
			if err := l.emit(prev); err != nil {
				return nil, err
			}
			prev, next = stateInitial, transitions[stateInitial][class]
		}
		if prev == stateInitial && next != stateInitial {
			l.start, l.startPos = l.pos, l.currentPos()
		}
		l.state = next
	}
	if l.state != stateInitial {
		if err := l.emit(l.state); err != nil {
			return nil, err
		}
		l.state = stateInitial
	}
	return l.tokens, nil
}

// advance moves past input[pos], updating line/column tracking.
func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{
		File:   l.filename,
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

func (l *Lexer) errorf(err error, pos token.Position, text string) *Error {
	return &Error{Err: err, Pos: pos, Text: text}
}

// emit converts the framed slice input[start:pos] into a token according to
// the state that was active when the frame closed.
func (l *Lexer) emit(st state) error {
	lit := l.input[l.start:l.pos]
	tok := token.Token{Literal: lit, Pos: l.startPos}

	switch st {
	case stateIdentifier:
		tok.Type = token.LookupIdent(lit)
	case stateOperator:
		typ, ok := token.LookupOperator(lit)
		if !ok {
			return l.errorf(ErrInvalidOperatorString, l.startPos, lit)
		}
		tok.Type = typ
	case stateNumber:
		n, err := strconv.ParseInt(lit, 10, 32)
		if err != nil {
			return l.errorf(ErrParseNumber, l.startPos, lit)
		}
		tok.Type, tok.Value = token.INT, int(n)
	default:
		return l.errorf(ErrInvalidTokenState, l.startPos, lit)
	}
	l.tokens = append(l.tokens, tok)
	return nil
}

// ---------------------------------------------------------------------------
// Character classification
// ---------------------------------------------------------------------------

func classify(ch byte) (charClass, bool) {
	switch {
	case isWhite(ch):
		return classWhite, true
	case isLetter(ch):
		return classLetter, true
	case isDigit(ch):
		return classDigit, true
	case isPunc(ch):
		return classPunc, true
	}
	return 0, false
}

func isWhite(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isPunc(ch byte) bool {
	switch ch {
	case '(', ')', '<', '>', '=':
		return true
	}
	return false
}
