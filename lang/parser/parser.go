// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package parser implements a recursive-descent parser for the sim2 language.
//
// Grammar:
//
//	program    := "sim" statement "end"
//	statement  := block | if_then | assign | action
//	block      := "block" statement* "end"
//	if_then    := "if" condition "then" statement ("else" statement)? "end"
//	assign     := identifier "=" expression
//	action     := "move" dir | "hunt" dir | "breed" dir | "rest" integer
//	condition  := "(" identifier cond_op identifier ")"
//	expression := condition | arithmetic | identifier
//	arithmetic := ("add"|"sub") identifier identifier
//	identifier := name | integer | "awakeDaily" | "energy" | "rand"
//
// Every parse function takes the unconsumed token slice and returns the node
// together with the remainder. There is no backtracking and no recovery: the
// first violated expectation aborts the parse with a specific error.
package parser

import (
	"github.com/probechain/go-sim2/lang/ast"
	"github.com/probechain/go-sim2/lang/token"
)

// Parser holds the token stream of a single parse run.
type Parser struct {
	tokens []token.Token
}

// Parse builds the program tree from a token sequence.
func Parse(tokens []token.Token) (*ast.Program, error) {
	p := &Parser{tokens: tokens}
	return p.parseProgram()
}

// ---------------------------------------------------------------------------
// Token navigation helpers
// ---------------------------------------------------------------------------

// head splits off the first token, failing with err if the stream is empty.
func (p *Parser) head(rest []token.Token, err error) (token.Token, []token.Token, error) {
	if len(rest) == 0 {
		return token.Token{}, nil, p.errorAt(rest, err)
	}
	return rest[0], rest[1:], nil
}

// expect consumes a token of type typ, failing with err otherwise.
func (p *Parser) expect(typ token.Type, rest []token.Token, err error) ([]token.Token, error) {
	tok, tail, e := p.head(rest, err)
	if e != nil {
		return nil, e
	}
	if tok.Type != typ {
		return nil, p.errorAt(rest, err)
	}
	return tail, nil
}

// errorAt records err against the first token of rest.
func (p *Parser) errorAt(rest []token.Token, err error) *Error {
	e := &Error{Err: err, Index: len(p.tokens) - len(rest)}
	if len(rest) > 0 {
		e.Tok = rest[0]
	} else {
		e.EOF = true
	}
	return e
}

// ---------------------------------------------------------------------------
// Token mapping
// ---------------------------------------------------------------------------

var directions = map[token.Type]ast.Direction{
	token.DIR_N:  ast.N,
	token.DIR_NE: ast.NE,
	token.DIR_E:  ast.E,
	token.DIR_SE: ast.SE,
	token.DIR_S:  ast.S,
	token.DIR_SW: ast.SW,
	token.DIR_W:  ast.W,
	token.DIR_NW: ast.NW,
}

var condOps = map[token.Type]ast.CondOp{
	token.LT: ast.Lt,
	token.GT: ast.Gt,
	token.EQ: ast.Eq,
}

// ---------------------------------------------------------------------------
// Program
// ---------------------------------------------------------------------------

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	if len(p.tokens) > 0 {
		prog.Token = p.tokens[0]
	}
	rest, err := p.expect(token.SIM, p.tokens, ErrNoSimKeyword)
	if err != nil {
		return nil, err
	}
	body, rest, err := p.parseStatement(rest)
	if err != nil {
		return nil, err
	}
	rest, err = p.expect(token.END, rest, ErrNoProgramEnd)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, p.errorAt(rest, ErrEndOfProgramNotLastToken)
	}
	prog.Body = body
	return prog, nil
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// parseStatement dispatches on the token that opens a statement.
func (p *Parser) parseStatement(rest []token.Token) (ast.Statement, []token.Token, error) {
	tok, tail, err := p.head(rest, ErrImproperStartOfStatement)
	if err != nil {
		return nil, nil, err
	}
	switch tok.Type {
	case token.BLOCK:
		return p.parseBlock(tok, tail)
	case token.IF:
		return p.parseIfThen(tok, tail)
	case token.IDENT:
		return p.parseAssign(tok, tail)
	case token.MOVE:
		return p.parseDirected(tok, tail, ast.Move, ErrMoveNotFollowedByDirection)
	case token.HUNT:
		return p.parseDirected(tok, tail, ast.Hunt, ErrHuntNotFollowedByDirection)
	case token.BREED:
		return p.parseDirected(tok, tail, ast.Breed, ErrBreedNotFollowedByDirection)
	case token.REST:
		return p.parseRest(tok, tail)
	}
	return nil, nil, p.errorAt(rest, ErrImproperStartOfStatement)
}

// parseBlock parses statements until the closing "end". The "block"
// keyword has been consumed.
func (p *Parser) parseBlock(start token.Token, rest []token.Token) (ast.Statement, []token.Token, error) {
	block := &ast.Block{Token: start}
	for {
		if len(rest) == 0 {
			return nil, nil, p.errorAt(rest, ErrNoEndBlockFound)
		}
		if rest[0].Type == token.END {
			return block, rest[1:], nil
		}
		stmt, tail, err := p.parseStatement(rest)
		if err != nil {
			return nil, nil, err
		}
		block.Statements = append(block.Statements, stmt)
		rest = tail
	}
}

// parseIfThen parses the remainder of an if statement. The "if" keyword has
// been consumed.
func (p *Parser) parseIfThen(start token.Token, rest []token.Token) (ast.Statement, []token.Token, error) {
	cond, rest, err := p.parseCondition(rest)
	if err != nil {
		return nil, nil, err
	}
	if rest, err = p.expect(token.THEN, rest, ErrNoThenKeyword); err != nil {
		return nil, nil, err
	}
	then, rest, err := p.parseStatement(rest)
	if err != nil {
		return nil, nil, err
	}
	stmt := &ast.IfThen{Token: start, Cond: cond, Then: then}

	tok, tail, err := p.head(rest, ErrNoElseOrEnd)
	if err != nil {
		return nil, nil, err
	}
	switch tok.Type {
	case token.END:
		return stmt, tail, nil
	case token.ELSE:
	default:
		return nil, nil, p.errorAt(rest, ErrNoElseOrEnd)
	}
	if stmt.Else, rest, err = p.parseStatement(tail); err != nil {
		return nil, nil, err
	}
	if rest, err = p.expect(token.END, rest, ErrNoEndKeyword); err != nil {
		return nil, nil, err
	}
	return stmt, rest, nil
}

// parseAssign parses "= expression" after the variable name.
func (p *Parser) parseAssign(name token.Token, rest []token.Token) (ast.Statement, []token.Token, error) {
	rest, err := p.expect(token.ASSIGN, rest, ErrInvalidAssignStatement)
	if err != nil {
		return nil, nil, err
	}
	value, rest, err := p.parseExpression(rest)
	if err != nil {
		return nil, nil, err
	}
	return &ast.Assign{Token: name, Name: name.Literal, Value: value}, rest, nil
}

// parseDirected parses the direction operand of move, hunt and breed.
func (p *Parser) parseDirected(start token.Token, rest []token.Token, kind ast.ActionKind, missing error) (ast.Statement, []token.Token, error) {
	tok, tail, err := p.head(rest, missing)
	if err != nil {
		return nil, nil, err
	}
	dir, ok := directions[tok.Type]
	if !ok {
		return nil, nil, p.errorAt(rest, ErrNotADirectionToken)
	}
	return &ast.ActionStmt{Token: start, Action: ast.Action{Kind: kind, Dir: dir}}, tail, nil
}

// parseRest parses the tick count operand of rest.
func (p *Parser) parseRest(start token.Token, rest []token.Token) (ast.Statement, []token.Token, error) {
	tok, tail, err := p.head(rest, ErrRestNotFollowedByCount)
	if err != nil {
		return nil, nil, err
	}
	if tok.Type != token.INT {
		return nil, nil, p.errorAt(rest, ErrRestNotFollowedByCount)
	}
	return &ast.ActionStmt{Token: start, Action: ast.RestFor(tok.Value)}, tail, nil
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// parseExpression looks at the first token without consuming it and picks
// the matching expression form.
func (p *Parser) parseExpression(rest []token.Token) (ast.Expression, []token.Token, error) {
	if len(rest) == 0 {
		return nil, nil, p.errorAt(rest, ErrNoExpressionFound)
	}
	switch rest[0].Type {
	case token.LPAREN:
		return p.parseCondition(rest)
	case token.ADD, token.SUB:
		return p.parseArithmetic(rest)
	}
	return p.parseIdentifier(rest)
}

// parseCondition parses "( identifier op identifier )".
func (p *Parser) parseCondition(rest []token.Token) (*ast.Condition, []token.Token, error) {
	if len(rest) == 0 || rest[0].Type != token.LPAREN {
		return nil, nil, p.errorAt(rest, ErrConditionMissingLPar)
	}
	cond := &ast.Condition{Token: rest[0]}
	left, rest, err := p.parseIdentifier(rest[1:])
	if err != nil {
		return nil, nil, err
	}
	tok, tail, err := p.head(rest, ErrConditionMissingOperator)
	if err != nil {
		return nil, nil, err
	}
	op, ok := condOps[tok.Type]
	if !ok {
		return nil, nil, p.errorAt(rest, ErrNoConditionOperator)
	}
	right, rest, err := p.parseIdentifier(tail)
	if err != nil {
		return nil, nil, err
	}
	if rest, err = p.expect(token.RPAREN, rest, ErrConditionMissingRPar); err != nil {
		return nil, nil, err
	}
	cond.Op, cond.Left, cond.Right = op, left, right
	return cond, rest, nil
}

// parseArithmetic parses "add a b" or "sub a b".
func (p *Parser) parseArithmetic(rest []token.Token) (*ast.Arithmetic, []token.Token, error) {
	tok, tail, err := p.head(rest, ErrNoAddOrSubtract)
	if err != nil {
		return nil, nil, err
	}
	expr := &ast.Arithmetic{Token: tok}
	switch tok.Type {
	case token.ADD:
		expr.Op = ast.Add
	case token.SUB:
		expr.Op = ast.Sub
	default:
		return nil, nil, p.errorAt(rest, ErrNoAddOrSubtract)
	}
	if expr.Left, tail, err = p.parseIdentifier(tail); err != nil {
		return nil, nil, err
	}
	if expr.Right, tail, err = p.parseIdentifier(tail); err != nil {
		return nil, nil, err
	}
	return expr, tail, nil
}

// parseIdentifier parses a variable name, an integer or a special.
func (p *Parser) parseIdentifier(rest []token.Token) (*ast.Identifier, []token.Token, error) {
	tok, tail, err := p.head(rest, ErrInvalidIdentifier)
	if err != nil {
		return nil, nil, err
	}
	var id *ast.Identifier
	switch tok.Type {
	case token.IDENT:
		id = ast.NewVariable(tok.Literal)
	case token.INT:
		id = ast.NewConstant(tok.Value)
	case token.AWAKEDAILY:
		id = ast.NewSpecial(ast.DailyRest)
	case token.ENERGY:
		id = ast.NewSpecial(ast.Energy)
	case token.RAND:
		id = ast.NewSpecial(ast.Rand)
	default:
		return nil, nil, p.errorAt(rest, ErrInvalidIdentifier)
	}
	id.Token = tok
	return id, tail, nil
}
