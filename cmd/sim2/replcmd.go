// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	"gopkg.in/urfave/cli.v1"

	"github.com/probechain/go-sim2/lang/compiler"
	"github.com/probechain/go-sim2/lang/lexer"
	"github.com/probechain/go-sim2/lang/vm"
)

var replCommand = cli.Command{
	Action:    migrateFlags(replMain),
	Name:      "repl",
	Usage:     "Evaluate sim2 programs interactively",
	ArgsUsage: "[<file>]",
	Flags:     []cli.Flag{seedFlag},
	Category:  "PROGRAM COMMANDS",
	Description: `
The repl command compiles programs typed at the prompt (or loaded with :load)
and runs them against chosen creature stats with ":run <energy> <dailyRest>".
Type :help for the list of commands.`,
}

const replHelp = `sim ... end          compile a program and make it current
:load <file>         compile a program file and make it current
:run <energy> <rest> run the current program once
:tokens              print the tokens of the current program
:ast                 print the current program as parsed
:help                show this text
:quit                leave the repl
`

var errNoProgram = errors.New("no program loaded")

// repl holds the state of one interactive session.
type repl struct {
	out  io.Writer
	rnd  vm.Rand
	name string
	src  string
	prog *vm.Program
}

func newRepl(out io.Writer, rnd vm.Rand) *repl {
	return &repl{out: out, rnd: rnd}
}

// eval executes one input line. It reports whether the session should end.
func (r *repl) eval(line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	if !strings.HasPrefix(line, ":") {
		return false, r.load("<input>", line)
	}
	fields := strings.Fields(line)
	switch cmd, args := fields[0], fields[1:]; cmd {
	case ":q", ":quit", ":exit":
		return true, nil
	case ":help":
		fmt.Fprint(r.out, replHelp)
	case ":load":
		if len(args) != 1 {
			return false, errors.New("usage: :load <file>")
		}
		src, err := os.ReadFile(args[0])
		if err != nil {
			return false, err
		}
		return false, r.load(args[0], string(src))
	case ":run":
		return false, r.run(args)
	case ":tokens":
		if r.prog == nil {
			return false, errNoProgram
		}
		toks, err := lexer.Tokenize(r.name, r.src)
		if err != nil {
			return false, err
		}
		printTokens(r.out, toks)
	case ":ast":
		if r.prog == nil {
			return false, errNoProgram
		}
		fmt.Fprintln(r.out, r.prog.String())
	default:
		return false, fmt.Errorf("unknown command %s, try :help", cmd)
	}
	return false, nil
}

func (r *repl) load(name, src string) error {
	prog, err := compiler.Compile(name, src)
	if err != nil {
		return err
	}
	r.name, r.src, r.prog = name, src, prog
	fmt.Fprintf(r.out, "ok %s\n", prog.Hash().TerminalString())
	return nil
}

func (r *repl) run(args []string) error {
	if r.prog == nil {
		return errNoProgram
	}
	if len(args) != 2 {
		return errors.New("usage: :run <energy> <dailyRest>")
	}
	energy, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid energy: %w", err)
	}
	rest, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid dailyRest: %w", err)
	}
	action, err := r.prog.Execute(energy, rest, r.rnd)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, action)
	return nil
}

func replMain(ctx *cli.Context) error {
	seed := ctx.GlobalInt64(seedFlag.Name)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := newRepl(os.Stdout, rand.New(rand.NewSource(seed)))
	if ctx.NArg() > 0 {
		if _, err := r.eval(":load " + ctx.Args().First()); err != nil {
			return err
		}
	}

	prompter := liner.NewLiner()
	defer prompter.Close()
	prompter.SetCtrlCAborts(true)

	for {
		line, err := prompter.Prompt("sim2> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				return nil
			}
			return err
		}
		if strings.TrimSpace(line) != "" {
			prompter.AppendHistory(line)
		}
		quit, err := r.eval(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		if quit {
			return nil
		}
	}
}
