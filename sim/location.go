// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package sim

import "fmt"

// CreatureType distinguishes the two populations.
type CreatureType uint8

const (
	Predator CreatureType = iota
	Prey
)

func (t CreatureType) String() string {
	switch t {
	case Predator:
		return "predator"
	case Prey:
		return "prey"
	}
	return fmt.Sprintf("CreatureType(%d)", t)
}

// LocationStatus classifies a cell for rendering.
type LocationStatus uint8

const (
	NothingHere LocationStatus = iota
	PreyHere
	PredHere
	PreyRestingHere
	PredRestingHere
)

var statusNames = [...]string{
	NothingHere:     "NothingHere",
	PreyHere:        "PreyHere",
	PredHere:        "PredHere",
	PreyRestingHere: "PreyRestingHere",
	PredRestingHere: "PredRestingHere",
}

var statusGlyphs = [...]byte{
	NothingHere:     '.',
	PreyHere:        'p',
	PredHere:        'P',
	PreyRestingHere: 'r',
	PredRestingHere: 'R',
}

// Glyph returns a one-character rendering of the status.
func (s LocationStatus) Glyph() byte {
	if int(s) < len(statusGlyphs) {
		return statusGlyphs[s]
	}
	return '?'
}

func (s LocationStatus) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("LocationStatus(%d)", s)
}

// population holds the counters of one creature type in one cell.
type population struct {
	active    int // visible creatures
	breedable int // visible creatures above BreedThreshold
	resting   int // invisible creatures (resting or breeding)
}

// Location is the aggregate state of one grid cell. The counters are kept
// equal to the live creatures in the cell by the Grid mutation methods; they
// are never recomputed.
type Location struct {
	pops   [2]population
	killed int // prey marked as eaten, removed on the prey's next act
}

// Count returns the number of visible creatures of type t.
func (l *Location) Count(t CreatureType) int { return l.pops[t].active }

// Breedable returns the number of visible creatures of type t whose energy
// exceeds the breed threshold.
func (l *Location) Breedable(t CreatureType) int { return l.pops[t].breedable }

// Resting returns the number of invisible creatures of type t.
func (l *Location) Resting(t CreatureType) int { return l.pops[t].resting }

// Killed returns the number of prey marked as eaten and not yet removed.
func (l *Location) Killed() int { return l.killed }

// HasPrey reports whether visible prey is present.
func (l *Location) HasPrey() bool { return l.pops[Prey].active > 0 }

// HasKilledPrey reports whether a predator has marked a kill here.
func (l *Location) HasKilledPrey() bool { return l.killed > 0 }

// HasPartner reports whether at least two breed-eligible creatures of type t
// are present, that is one besides the asking creature.
func (l *Location) HasPartner(t CreatureType) bool { return l.pops[t].breedable > 1 }

// Status classifies the cell. Visible predators win over visible prey, which
// win over resting predators and then resting prey.
func (l *Location) Status() LocationStatus {
	switch {
	case l.pops[Predator].active > 0:
		return PredHere
	case l.pops[Prey].active > 0:
		return PreyHere
	case l.pops[Predator].resting > 0:
		return PredRestingHere
	case l.pops[Prey].resting > 0:
		return PreyRestingHere
	}
	return NothingHere
}

func (l *Location) add(t CreatureType, energy int) {
	l.pops[t].active++
	if energy > BreedThreshold {
		l.pops[t].breedable++
	}
}

func (l *Location) remove(t CreatureType, energy int) {
	l.pops[t].active--
	if energy > BreedThreshold {
		l.pops[t].breedable--
	}
}

func (l *Location) rest(t CreatureType, energy int) {
	l.remove(t, energy)
	l.pops[t].resting++
}

func (l *Location) awake(t CreatureType, energy int) {
	l.pops[t].resting--
	l.add(t, energy)
}

func (l *Location) killPrey() { l.killed++ }

func (l *Location) removeKilledPrey() {
	l.pops[Prey].active--
	l.killed--
}
