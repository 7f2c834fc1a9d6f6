// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package vm evaluates sim2 program trees.
//
// A program is run once per creature per tick. Each run gets a fresh set of
// variable bindings, reads the creature's energy and awake counter, may draw
// random numbers, and yields exactly one Action.
package vm

import (
	"errors"
	"fmt"

	"github.com/probechain/go-sim2/lang/ast"
)

// RandLimit is the exclusive upper bound of the "rand" identifier.
const RandLimit = 1000

var (
	// ErrUnboundVariable is returned when a variable is read before any
	// assignment in the same run.
	ErrUnboundVariable = errors.New("unbound variable")

	errUnknownNode = errors.New("unknown node")
)

// Rand is the random source consulted by programs. *math/rand.Rand
// satisfies it.
type Rand interface {
	Intn(n int) int
}

// Stats is the read-only creature state visible to a program.
type Stats struct {
	Energy    int
	DailyRest int
}

// Bindings maps variable names to values for the duration of one run.
type Bindings map[string]int

// Eval computes the integer value of an expression.
func Eval(expr ast.Expression, stats Stats, vars Bindings, rnd Rand) (int, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return evalIdent(e, stats, vars, rnd)

	case *ast.Arithmetic:
		l, err := evalIdent(e.Left, stats, vars, rnd)
		if err != nil {
			return 0, err
		}
		r, err := evalIdent(e.Right, stats, vars, rnd)
		if err != nil {
			return 0, err
		}
		if e.Op == ast.Sub {
			return l - r, nil
		}
		return l + r, nil

	case *ast.Condition:
		l, err := evalIdent(e.Left, stats, vars, rnd)
		if err != nil {
			return 0, err
		}
		r, err := evalIdent(e.Right, stats, vars, rnd)
		if err != nil {
			return 0, err
		}
		var ok bool
		switch e.Op {
		case ast.Lt:
			ok = l < r
		case ast.Gt:
			ok = l > r
		case ast.Eq:
			ok = l == r
		}
		if ok {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: %T", errUnknownNode, expr)
}

func evalIdent(id *ast.Identifier, stats Stats, vars Bindings, rnd Rand) (int, error) {
	switch id.Kind {
	case ast.Constant:
		return id.Value, nil
	case ast.Variable:
		v, ok := vars[id.Name]
		if !ok {
			return 0, fmt.Errorf("%w %q", ErrUnboundVariable, id.Name)
		}
		return v, nil
	}
	switch id.Special {
	case ast.Energy:
		return stats.Energy, nil
	case ast.DailyRest:
		return stats.DailyRest, nil
	default:
		return rnd.Intn(RandLimit), nil
	}
}

// Exec runs a statement and returns the action it produces. Assignments
// yield ast.NoAction after updating vars.
func Exec(stmt ast.Statement, stats Stats, vars Bindings, rnd Rand) (ast.Action, error) {
	switch s := stmt.(type) {
	case *ast.ActionStmt:
		return s.Action, nil

	case *ast.Assign:
		v, err := Eval(s.Value, stats, vars, rnd)
		if err != nil {
			return ast.NoAction, err
		}
		vars[s.Name] = v
		return ast.NoAction, nil

	case *ast.Block:
		act := ast.NoAction
		for _, inner := range s.Statements {
			var err error
			if act, err = Exec(inner, stats, vars, rnd); err != nil {
				return ast.NoAction, err
			}
		}
		return act, nil

	case *ast.IfThen:
		c, err := Eval(s.Cond, stats, vars, rnd)
		if err != nil {
			return ast.NoAction, err
		}
		if c != 0 {
			return Exec(s.Then, stats, vars, rnd)
		}
		if s.Else != nil {
			return Exec(s.Else, stats, vars, rnd)
		}
		return ast.NoAction, nil
	}
	return ast.NoAction, fmt.Errorf("%w: %T", errUnknownNode, stmt)
}
