// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package ast defines the Abstract Syntax Tree for the sim2 language.
//
// Design overview:
//
//   - Expression and Statement are closed sets: the marker methods are
//     unexported, so only the node types in this package satisfy them and an
//     evaluator can switch over them exhaustively.
//   - Every node exclusively owns its children. A Program is immutable once
//     the parser returns it and may be shared by any number of readers.
//   - String renders a node in a compact, source-like form used by tests and
//     the compile tool.
package ast

import (
	"strconv"
	"strings"

	"github.com/probechain/go-sim2/lang/token"
)

// ---------------------------------------------------------------------------
// Core interfaces
// ---------------------------------------------------------------------------

// Node is the base interface that every AST node must implement.
type Node interface {
	// TokenLiteral returns the literal value of the token that originated this
	// node.
	TokenLiteral() string

	// String returns a human-readable representation of the node.
	String() string
}

// Expression is a node that evaluates to an integer.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a node that evaluates to an Action.
type Statement interface {
	Node
	statementNode()
}

// ---------------------------------------------------------------------------
// Program
// ---------------------------------------------------------------------------

// Program is the root of every parse tree: "sim" statement "end".
type Program struct {
	Token token.Token // the 'sim' token
	Body  Statement
}

func (p *Program) TokenLiteral() string { return p.Token.Literal }
func (p *Program) String() string {
	if p.Body == nil {
		return "sim end"
	}
	return "sim " + p.Body.String() + " end"
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// IdentKind distinguishes the identifier variants.
type IdentKind uint8

const (
	Variable IdentKind = iota // looked up in the execution bindings
	Constant                  // integer literal
	Special                   // creature state or random source
)

// SpecialIdent names the built-in identifiers.
type SpecialIdent uint8

const (
	Energy    SpecialIdent = iota // the creature's energy
	DailyRest                     // ticks awake since the last rest ("awakeDaily")
	Rand                          // a fresh uniform draw in [0,1000)
)

func (s SpecialIdent) String() string {
	switch s {
	case Energy:
		return "Energy"
	case DailyRest:
		return "DailyRest"
	case Rand:
		return "Rand"
	}
	return "Special(" + strconv.Itoa(int(s)) + ")"
}

// Identifier is a leaf expression: a variable, a constant or a special.
type Identifier struct {
	Token   token.Token
	Kind    IdentKind
	Name    string       // Variable only
	Value   int          // Constant only
	Special SpecialIdent // Special only
}

func (e *Identifier) expressionNode()      {}
func (e *Identifier) TokenLiteral() string { return e.Token.Literal }
func (e *Identifier) String() string {
	switch e.Kind {
	case Variable:
		return e.Name
	case Constant:
		return strconv.Itoa(e.Value)
	default:
		return e.Special.String()
	}
}

// NewVariable returns a variable reference.
func NewVariable(name string) *Identifier {
	return &Identifier{Kind: Variable, Name: name}
}

// NewConstant returns an integer literal.
func NewConstant(v int) *Identifier {
	return &Identifier{Kind: Constant, Value: v}
}

// NewSpecial returns a built-in identifier.
func NewSpecial(s SpecialIdent) *Identifier {
	return &Identifier{Kind: Special, Special: s}
}

// ArithOp is an arithmetic operator.
type ArithOp uint8

const (
	Add ArithOp = iota
	Sub
)

func (op ArithOp) String() string {
	if op == Sub {
		return "sub"
	}
	return "add"
}

// Arithmetic is "add a b" or "sub a b".
type Arithmetic struct {
	Token token.Token
	Op    ArithOp
	Left  *Identifier
	Right *Identifier
}

func (e *Arithmetic) expressionNode()      {}
func (e *Arithmetic) TokenLiteral() string { return e.Token.Literal }
func (e *Arithmetic) String() string {
	return e.Op.String() + " " + e.Left.String() + " " + e.Right.String()
}

// CondOp is a comparison operator.
type CondOp uint8

const (
	Lt CondOp = iota
	Gt
	Eq
)

func (op CondOp) String() string {
	switch op {
	case Lt:
		return "<"
	case Gt:
		return ">"
	}
	return "=="
}

// Condition is "( a op b )". It evaluates to 1 when true and 0 otherwise.
type Condition struct {
	Token token.Token // the '(' token
	Op    CondOp
	Left  *Identifier
	Right *Identifier
}

func (e *Condition) expressionNode()      {}
func (e *Condition) TokenLiteral() string { return e.Token.Literal }
func (e *Condition) String() string {
	return "( " + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + " )"
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// Block runs its statements in order; its result is the last statement's.
type Block struct {
	Token      token.Token
	Statements []Statement
}

func (s *Block) statementNode()       {}
func (s *Block) TokenLiteral() string { return s.Token.Literal }
func (s *Block) String() string {
	var b strings.Builder
	b.WriteString("Block")
	for _, st := range s.Statements {
		b.WriteByte(' ')
		b.WriteString(st.String())
	}
	b.WriteString(" End")
	return b.String()
}

// IfThen dispatches on its condition. Else is nil when absent.
type IfThen struct {
	Token token.Token
	Cond  *Condition
	Then  Statement
	Else  Statement
}

func (s *IfThen) statementNode()       {}
func (s *IfThen) TokenLiteral() string { return s.Token.Literal }
func (s *IfThen) String() string {
	out := "if " + s.Cond.String() + " then " + s.Then.String()
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out + " end"
}

// Assign stores the value of an expression under a variable name.
type Assign struct {
	Token token.Token // the variable token
	Name  string
	Value Expression
}

func (s *Assign) statementNode()       {}
func (s *Assign) TokenLiteral() string { return s.Token.Literal }
func (s *Assign) String() string       { return s.Name + " = " + s.Value.String() }

// ActionStmt is a leaf statement that yields its action unchanged.
type ActionStmt struct {
	Token  token.Token
	Action Action
}

func (s *ActionStmt) statementNode()       {}
func (s *ActionStmt) TokenLiteral() string { return s.Token.Literal }
func (s *ActionStmt) String() string       { return s.Action.String() }
