// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package token

import "testing"

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  Type
	}{
		{"sim", SIM},
		{"awakeDaily", AWAKEDAILY},
		{"energy", ENERGY},
		{"rand", RAND},
		{"NW", DIR_NW},
		{"E", DIR_E},
		{"Energy", IDENT},
		{"x", IDENT},
		{"n", IDENT},
	}
	for _, tt := range tests {
		if got := LookupIdent(tt.ident); got != tt.want {
			t.Errorf("LookupIdent(%q) = %s, want %s", tt.ident, got, tt.want)
		}
	}
}

func TestLookupOperator(t *testing.T) {
	for _, op := range []string{"(", ")", "=", "==", "<", ">"} {
		typ, ok := LookupOperator(op)
		if !ok || typ.String() != op {
			t.Errorf("LookupOperator(%q) = %s, %v", op, typ, ok)
		}
	}
	for _, op := range []string{"<=", "=>", "===", "()"} {
		if _, ok := LookupOperator(op); ok {
			t.Errorf("LookupOperator(%q) accepted", op)
		}
	}
}

func TestTypeClasses(t *testing.T) {
	if !SIM.IsKeyword() || !DIR_N.IsKeyword() || IDENT.IsKeyword() {
		t.Error("keyword classification wrong")
	}
	if !DIR_SW.IsDirection() || MOVE.IsDirection() {
		t.Error("direction classification wrong")
	}
	if !EQ.IsOperator() || SIM.IsOperator() {
		t.Error("operator classification wrong")
	}
}

func TestTokenEqual(t *testing.T) {
	a := Token{Type: END, Literal: "end", Pos: Position{Line: 1, Column: 1}}
	b := Token{Type: END, Literal: "end", Pos: Position{Line: 9, Column: 4}}
	if !a.Equal(b) {
		t.Error("keyword tokens should ignore position")
	}
	if (Token{Type: IDENT, Literal: "x"}).Equal(Token{Type: IDENT, Literal: "y"}) {
		t.Error("identifiers with different names compared equal")
	}
	if (Token{Type: INT, Value: 1}).Equal(Token{Type: INT, Value: 2}) {
		t.Error("integers with different values compared equal")
	}
	if got := (Token{Type: INT, Literal: "7", Value: 7}).String(); got != "Int(7)" {
		t.Errorf("String() = %q", got)
	}
	if got := (Position{File: "a.sim", Line: 2, Column: 3}).String(); got != "a.sim:2:3" {
		t.Errorf("Position.String() = %q", got)
	}
}
