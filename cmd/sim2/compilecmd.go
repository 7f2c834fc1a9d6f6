// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/urfave/cli.v1"

	"github.com/probechain/go-sim2/lang/compiler"
	"github.com/probechain/go-sim2/lang/lexer"
	"github.com/probechain/go-sim2/lang/token"
)

var (
	emitFlag = cli.StringFlag{
		Name:  "emit",
		Usage: "Output to print: tokens, ast or tree (default: a one-line summary)",
	}

	compileCommand = cli.Command{
		Action:    compileFiles,
		Name:      "compile",
		Usage:     "Check sim2 program files",
		ArgsUsage: "<file> [<file>...]",
		Flags:     []cli.Flag{emitFlag},
		Category:  "PROGRAM COMMANDS",
		Description: `
The compile command lexes and parses each file and reports the first error.
With --emit it prints the token stream, the program text as parsed, or a
dump of the syntax tree.`,
	}
)

func compileFiles(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return fmt.Errorf("this command requires an argument")
	}
	for _, file := range ctx.Args() {
		src, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		if err := compileSource(os.Stdout, file, string(src), ctx.String(emitFlag.Name)); err != nil {
			return err
		}
	}
	return nil
}

// compileSource compiles src and prints what emit asks for.
func compileSource(out io.Writer, name, src, emit string) error {
	switch emit {
	case "tokens":
		toks, err := lexer.Tokenize(name, src)
		if err != nil {
			return err
		}
		printTokens(out, toks)
		return nil
	case "", "ast", "tree":
	default:
		return fmt.Errorf("unknown --emit value %q", emit)
	}

	prog, err := compiler.Compile(name, src)
	if err != nil {
		return err
	}
	switch emit {
	case "ast":
		fmt.Fprintln(out, prog.Tree().String())
	case "tree":
		fmt.Fprint(out, spew.Sdump(prog.Tree()))
	default:
		fmt.Fprintf(out, "%s: OK %s\n", name, prog.Hash().TerminalString())
	}
	return nil
}

func printTokens(out io.Writer, toks []token.Token) {
	for _, tok := range toks {
		fmt.Fprintf(out, "%s\t%s\t%q\n", tok.Pos, tok.Type, tok.Literal)
	}
}
