// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package vm

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/probechain/go-sim2/lang/ast"
)

// Program is a compiled creature program. It is immutable after
// construction and shared by every creature of one type.
type Program struct {
	name string
	tree *ast.Program
	hash common.Hash
}

// NewProgram wraps a parsed tree. hash identifies the source text.
func NewProgram(name string, tree *ast.Program, hash common.Hash) *Program {
	return &Program{name: name, tree: tree, hash: hash}
}

// Name returns the file name or label the program was compiled from.
func (p *Program) Name() string { return p.name }

// Hash returns the Keccak256 fingerprint of the program source.
func (p *Program) Hash() common.Hash { return p.hash }

// Tree returns the program's syntax tree. Callers must not modify it.
func (p *Program) Tree() *ast.Program { return p.tree }

// Execute runs the program once against a creature's state. Bindings are
// scratch for this run only.
func (p *Program) Execute(energy, dailyRest int, rnd Rand) (ast.Action, error) {
	stats := Stats{Energy: energy, DailyRest: dailyRest}
	return Exec(p.tree.Body, stats, make(Bindings), rnd)
}

func (p *Program) String() string {
	return p.tree.String()
}
