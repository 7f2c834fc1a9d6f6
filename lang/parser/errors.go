// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package parser

import (
	"errors"
	"fmt"

	"github.com/probechain/go-sim2/lang/token"
)

var (
	ErrBreedNotFollowedByDirection = errors.New("BreedNotFollowedByDirection")
	ErrConditionMissingLPar        = errors.New("ConditionMissingLPar")
	ErrConditionMissingOperator    = errors.New("ConditionMissingOperator")
	ErrConditionMissingRPar        = errors.New("ConditionMissingRPar")
	ErrEndOfProgramNotLastToken    = errors.New("EndOfProgramNotLastToken")
	ErrHuntNotFollowedByDirection  = errors.New("HuntNotFollowedByDirection")
	ErrImproperStartOfStatement    = errors.New("ImproperStartOfStatement")
	ErrInvalidAssignStatement      = errors.New("InvalidAssignStatement")
	ErrInvalidIdentifier           = errors.New("InvalidIdentifier")
	ErrMoveNotFollowedByDirection  = errors.New("MoveNotFollowedByDirection")
	ErrNoAddOrSubtract             = errors.New("NoAddOrSubstract")
	ErrNoConditionOperator         = errors.New("NoConditionOperator")
	ErrNoElseOrEnd                 = errors.New("NoElseOrEnd")
	ErrNoEndBlockFound             = errors.New("NoEndBlockFound")
	ErrNoEndKeyword                = errors.New("NoEndKeyword")
	ErrNoExpressionFound           = errors.New("NoExpressionFound")
	ErrNoProgramEnd                = errors.New("NoProgramEnd")
	ErrNoSimKeyword                = errors.New("NoSimKeyword")
	ErrNoThenKeyword               = errors.New("NoThenKeyword")
	ErrNotADirectionToken          = errors.New("NotADirectionToken")
	ErrRestNotFollowedByCount      = errors.New("RestNotFollowedByCount")
)

// Error is a parse failure. Index is the offset of the offending token in
// the input sequence; when the input ran out, EOF is set and Index equals the
// sequence length.
type Error struct {
	Err   error
	Index int
	Tok   token.Token
	EOF   bool
}

func (e *Error) Error() string {
	if e.EOF {
		return fmt.Sprintf("%v at end of input", e.Err)
	}
	if e.Tok.Pos.Line > 0 {
		return fmt.Sprintf("%s: %v at %s", e.Tok.Pos, e.Err, e.Tok)
	}
	return fmt.Sprintf("%v at token %d (%s)", e.Err, e.Index, e.Tok)
}

func (e *Error) Unwrap() error { return e.Err }
