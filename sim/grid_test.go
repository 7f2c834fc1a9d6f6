// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package sim

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	g := NewGrid(5, 3)
	cases := [][4]int{
		{0, 0, 0, 0}, {-1, 0, 4, 0}, {5, 0, 0, 0}, {0, -1, 0, 2},
		{0, 3, 0, 0}, {-6, -4, 4, 2}, {12, 7, 2, 1},
	}
	for _, c := range cases {
		x, y := g.Wrap(c[0], c[1])
		assert.Equal(t, [2]int{c[2], c[3]}, [2]int{x, y}, "Wrap(%d,%d)", c[0], c[1])
	}
	assert.Panics(t, func() { g.At(5, 0) })
	assert.Panics(t, func() { g.At(0, -1) })
}

func TestStatusPriority(t *testing.T) {
	var l Location
	assert.Equal(t, NothingHere, l.Status())
	l.pops[Prey].resting = 1
	assert.Equal(t, PreyRestingHere, l.Status())
	l.pops[Predator].resting = 1
	assert.Equal(t, PredRestingHere, l.Status())
	l.add(Prey, 10)
	assert.Equal(t, PreyHere, l.Status())
	l.add(Predator, 10)
	assert.Equal(t, PredHere, l.Status())
	assert.Equal(t, "PredHere", l.Status().String())
}

func TestLocationCounters(t *testing.T) {
	var l Location
	l.add(Prey, 30)
	l.add(Prey, 20)
	assert.Equal(t, 2, l.Count(Prey))
	assert.Equal(t, 1, l.Breedable(Prey))
	assert.False(t, l.HasPartner(Prey), "a creature is not its own partner")
	l.add(Prey, 26)
	assert.True(t, l.HasPartner(Prey))

	l.rest(Prey, 26)
	assert.Equal(t, 2, l.Count(Prey))
	assert.Equal(t, 1, l.Breedable(Prey))
	assert.Equal(t, 1, l.Resting(Prey))
	l.awake(Prey, 26)
	assert.Equal(t, 3, l.Count(Prey))
	assert.Equal(t, 0, l.Resting(Prey))

	l.killPrey()
	assert.True(t, l.HasKilledPrey())
	l.removeKilledPrey()
	assert.False(t, l.HasKilledPrey())
	assert.Equal(t, 2, l.Count(Prey))
	assert.Equal(t, 0, l.Count(Predator))
}

func TestDirtyCells(t *testing.T) {
	g := NewGrid(4, 4)
	assert.Empty(t, g.DirtyCells())

	g.enter(Prey, 3, 1, 100)
	g.enter(Predator, 0, 2, 100)
	g.enter(Prey, 1, 1, 100)
	g.leave(Prey, 3, 1, 100)
	want := []Cell{{1, 1}, {3, 1}, {0, 2}}
	if diff := cmp.Diff(want, g.DirtyCells()); diff != "" {
		t.Errorf("dirty cells mismatch (-want +got):\n%s", diff)
	}

	g.ClearDirty()
	assert.Empty(t, g.DirtyCells())

	// reset only reports cells that held something
	g.Reset()
	if diff := cmp.Diff([]Cell{{1, 1}, {0, 2}}, g.DirtyCells()); diff != "" {
		t.Errorf("dirty cells after reset (-want +got):\n%s", diff)
	}
	assert.Equal(t, NothingHere, g.LocationStatus(1, 1))

	// breed-eligible and kill markers are counter changes too
	g.enter(Prey, 2, 3, 100)
	g.enter(Predator, 3, 0, 100)
	g.ClearDirty()
	g.breedable(Predator, 3, 0, +1)
	g.killPrey(2, 3)
	if diff := cmp.Diff([]Cell{{3, 0}, {2, 3}}, g.DirtyCells()); diff != "" {
		t.Errorf("dirty cells after breedable/killPrey (-want +got):\n%s", diff)
	}
}
