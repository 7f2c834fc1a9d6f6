// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package lexer_test

import (
	"errors"
	"testing"

	fuzz "github.com/google/gofuzz"

	"github.com/probechain/go-sim2/lang/lexer"
	"github.com/probechain/go-sim2/lang/token"
)

// tok builds an expected token; only INT and IDENT need a payload.
func tok(typ token.Type) token.Token { return token.Token{Type: typ} }
func ident(name string) token.Token { return token.Token{Type: token.IDENT, Literal: name} }
func num(v int) token.Token         { return token.Token{Type: token.INT, Value: v} }

// runTokenize lexes input and checks that it produces exactly the expected
// sequence.
func runTokenize(t *testing.T, name, input string, want []token.Token) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		t.Helper()
		toks, err := lexer.Tokenize("test.sim", input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(toks) != len(want) {
			t.Errorf("got %d tokens, want %d", len(toks), len(want))
			for i, tk := range toks {
				t.Logf("  [%d] %s", i, tk)
			}
			return
		}
		for i, w := range want {
			if !toks[i].Equal(w) {
				t.Errorf("token[%d] = %s, want %s", i, toks[i], w)
			}
		}
	})
}

func TestConditionalRest(t *testing.T) {
	runTokenize(t, "reference", "sim if ( energy > 0 ) then rest 8 end end", []token.Token{
		tok(token.SIM), tok(token.IF), tok(token.LPAREN), tok(token.ENERGY), tok(token.GT),
		num(0), tok(token.RPAREN), tok(token.THEN), tok(token.REST), num(8),
		tok(token.END), tok(token.END),
	})
}

func TestPunctuationTerminatesTokens(t *testing.T) {
	runTokenize(t, "tight parens", "(energy>0)", []token.Token{
		tok(token.LPAREN), tok(token.ENERGY), tok(token.GT), num(0), tok(token.RPAREN),
	})
	runTokenize(t, "assign", "x=add x 1", []token.Token{
		ident("x"), tok(token.ASSIGN), tok(token.ADD), ident("x"), num(1),
	})
	runTokenize(t, "double equals", "(a==b)", []token.Token{
		tok(token.LPAREN), ident("a"), tok(token.EQ), ident("b"), tok(token.RPAREN),
	})
}

func TestKeywordsAndDirections(t *testing.T) {
	cases := []struct {
		input string
		want  token.Type
	}{
		{"sim", token.SIM}, {"if", token.IF}, {"end", token.END}, {"then", token.THEN},
		{"else", token.ELSE}, {"move", token.MOVE}, {"block", token.BLOCK},
		{"rest", token.REST}, {"breed", token.BREED}, {"hunt", token.HUNT},
		{"add", token.ADD}, {"sub", token.SUB}, {"rand", token.RAND},
		{"awakeDaily", token.AWAKEDAILY}, {"energy", token.ENERGY},
		{"N", token.DIR_N}, {"NE", token.DIR_NE}, {"E", token.DIR_E}, {"SE", token.DIR_SE},
		{"S", token.DIR_S}, {"SW", token.DIR_SW}, {"W", token.DIR_W}, {"NW", token.DIR_NW},
	}
	for _, c := range cases {
		runTokenize(t, c.input, c.input, []token.Token{tok(c.want)})
	}
	runTokenize(t, "keyword prefix", "simulate ends", []token.Token{ident("simulate"), ident("ends")})
	runTokenize(t, "identifier with digits", "x1y2", []token.Token{ident("x1y2")})
}

func TestFinalTokenFlushed(t *testing.T) {
	runTokenize(t, "no trailing newline", "sim move E end", []token.Token{
		tok(token.SIM), tok(token.MOVE), tok(token.DIR_E), tok(token.END),
	})
	runTokenize(t, "trailing number", "rest 12", []token.Token{tok(token.REST), num(12)})
	runTokenize(t, "trailing operator", "x =", []token.Token{ident("x"), tok(token.ASSIGN)})
}

func TestPositions(t *testing.T) {
	toks, err := lexer.Tokenize("p.sim", "sim\n  move E\nend")
	if err != nil {
		t.Fatal(err)
	}
	want := []token.Position{
		{File: "p.sim", Line: 1, Column: 1, Offset: 0},
		{File: "p.sim", Line: 2, Column: 3, Offset: 6},
		{File: "p.sim", Line: 2, Column: 8, Offset: 11},
		{File: "p.sim", Line: 3, Column: 1, Offset: 13},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i := range want {
		if toks[i].Pos != want[i] {
			t.Errorf("token[%d] position = %+v, want %+v", i, toks[i].Pos, want[i])
		}
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  error
		text  string
	}{
		{"bad char", "sim move E; end", lexer.ErrInvalidCharType, ";"},
		{"underscore", "my_var = 1", lexer.ErrInvalidCharType, "_"},
		{"digit then letter", "rest 8a", lexer.ErrInvalidTransition, "8a"},
		{"unknown operator", "(a <= b)", lexer.ErrInvalidOperatorString, "<="},
		{"paren run", "((", lexer.ErrInvalidOperatorString, "(("},
		{"overflow", "rest 99999999999", lexer.ErrParseNumber, "99999999999"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := lexer.Tokenize("", c.input)
			if !errors.Is(err, c.want) {
				t.Fatalf("error = %v, want %v", err, c.want)
			}
			var lerr *lexer.Error
			if !errors.As(err, &lerr) {
				t.Fatalf("error %T is not a *lexer.Error", err)
			}
			if lerr.Text != c.text {
				t.Errorf("error text = %q, want %q", lerr.Text, c.text)
			}
		})
	}
}

func TestReferenceProgramPrefix(t *testing.T) {
	toks, err := lexer.Tokenize("", referenceProgram)
	if err != nil {
		t.Fatal(err)
	}
	want := []token.Token{
		tok(token.SIM), tok(token.IF), tok(token.LPAREN), tok(token.ENERGY), tok(token.GT),
		num(0), tok(token.RPAREN), tok(token.THEN), tok(token.IF), tok(token.LPAREN),
		tok(token.AWAKEDAILY), tok(token.GT), num(16), tok(token.RPAREN), tok(token.THEN),
		tok(token.REST), num(8), tok(token.ELSE), tok(token.IF), tok(token.LPAREN),
		tok(token.ENERGY), tok(token.GT), num(100), tok(token.RPAREN), tok(token.THEN),
	}
	for i, w := range want {
		if !toks[i].Equal(w) {
			t.Errorf("token[%d] = %s, want %s", i, toks[i], w)
		}
	}
}

// TestFuzzNeverPanics feeds random byte strings through the lexer. Any
// failure must be a typed *lexer.Error.
func TestFuzzNeverPanics(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(0, 64)
	for i := 0; i < 2000; i++ {
		var src string
		f.Fuzz(&src)
		if _, err := lexer.Tokenize("", src); err != nil {
			var lerr *lexer.Error
			if !errors.As(err, &lerr) {
				t.Fatalf("input %q: untyped error %v", src, err)
			}
		}
	}
}

const referenceProgram = `
sim
   if (energy > 0) then
      if (awakeDaily > 16) then
         rest 8
      else
         if (energy > 100) then
            breed N
         else
            hunt S
         end
      end
   end
end
`
