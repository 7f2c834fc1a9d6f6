// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ast

import "fmt"

// Direction is one of the eight compass points.
type Direction uint8

const (
	N Direction = iota
	NE
	E
	SE
	S
	SW
	W
	NW
)

var directionNames = [...]string{N: "N", NE: "NE", E: "E", SE: "SE", S: "S", SW: "SW", W: "W", NW: "NW"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", d)
}

// Delta returns the coordinate offset of one step in direction d. North is
// towards smaller y, east towards larger x.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case NW, N, NE:
		dy = -1
	case SW, S, SE:
		dy = 1
	}
	switch d {
	case NE, E, SE:
		dx = 1
	case NW, W, SW:
		dx = -1
	}
	return dx, dy
}

// ActionKind enumerates the decisions a program can produce.
type ActionKind uint8

const (
	None ActionKind = iota
	Move
	Hunt
	Breed
	Rest
)

// Action is the single behavioral decision produced by one program run.
// Dir is meaningful for Move, Hunt and Breed; Count for Rest.
type Action struct {
	Kind  ActionKind
	Dir   Direction
	Count int
}

// NoAction is returned when a program produces nothing actionable.
var NoAction = Action{Kind: None}

// MoveTo returns a Move action.
func MoveTo(d Direction) Action { return Action{Kind: Move, Dir: d} }

// HuntAt returns a Hunt action.
func HuntAt(d Direction) Action { return Action{Kind: Hunt, Dir: d} }

// BreedAt returns a Breed action.
func BreedAt(d Direction) Action { return Action{Kind: Breed, Dir: d} }

// RestFor returns a Rest action lasting count ticks.
func RestFor(count int) Action { return Action{Kind: Rest, Count: count} }

func (a Action) String() string {
	switch a.Kind {
	case Move:
		return "Move(" + a.Dir.String() + ")"
	case Hunt:
		return "Hunt(" + a.Dir.String() + ")"
	case Breed:
		return "Breed(" + a.Dir.String() + ")"
	case Rest:
		return fmt.Sprintf("Rest(%d)", a.Count)
	}
	return "None"
}
