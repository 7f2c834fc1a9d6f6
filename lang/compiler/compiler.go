// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package compiler turns sim2 source text into shared executable programs.
package compiler

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"

	"github.com/probechain/go-sim2/lang/lexer"
	"github.com/probechain/go-sim2/lang/parser"
	"github.com/probechain/go-sim2/lang/vm"
)

// Stage names the pipeline step a compile error came from.
type Stage string

const (
	StageLexer  Stage = "lexer"
	StageParser Stage = "parser"
)

// CompileError wraps a lexer or parser failure.
type CompileError struct {
	Stage Stage
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Stage, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Fingerprint returns the Keccak256 hash of a program source.
func Fingerprint(src string) common.Hash {
	var h common.Hash
	d := sha3.NewLegacyKeccak256()
	d.Write([]byte(src))
	d.Sum(h[:0])
	return h
}

// Compile lexes and parses src. name is used in error positions and as the
// program label.
func Compile(name, src string) (*vm.Program, error) {
	toks, err := lexer.Tokenize(name, src)
	if err != nil {
		return nil, &CompileError{Stage: StageLexer, Err: err}
	}
	tree, err := parser.Parse(toks)
	if err != nil {
		return nil, &CompileError{Stage: StageParser, Err: err}
	}
	return vm.NewProgram(name, tree, Fingerprint(src)), nil
}
