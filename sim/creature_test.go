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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probechain/go-sim2/lang/compiler"
	"github.com/probechain/go-sim2/lang/vm"
)

// fixedRand always draws the same value.
type fixedRand int

func (r fixedRand) Intn(n int) int { return int(r) % n }

func mustCompile(t *testing.T, src string) *vm.Program {
	t.Helper()
	prog, err := compiler.Compile("test.sim", src)
	require.NoError(t, err)
	return prog
}

func TestWraparound(t *testing.T) {
	cases := []struct {
		src        string
		x, y       int
		wantX, wantY int
	}{
		{"sim move W end", 0, 4, 9, 4},
		{"sim move E end", 9, 4, 0, 4},
		{"sim move N end", 3, 0, 3, 7},
		{"sim move S end", 3, 7, 3, 0},
		{"sim move NW end", 0, 0, 9, 7},
		{"sim move SE end", 9, 7, 0, 0},
	}
	for _, c := range cases {
		grid := NewGrid(10, 8)
		cr := NewCreature(Predator, c.x, c.y, mustCompile(t, c.src), grid)
		cr.Act(grid, fixedRand(0))

		x, y := cr.Position()
		assert.Equal(t, c.wantX, x, c.src)
		assert.Equal(t, c.wantY, y, c.src)
		assert.Equal(t, 99, cr.Energy())
		assert.Equal(t, 0, grid.At(c.x, c.y).Count(Predator))
		assert.Equal(t, 1, grid.At(x, y).Count(Predator))
		assert.Equal(t, 1, grid.At(x, y).Breedable(Predator))
	}
}

func TestRestCountsDown(t *testing.T) {
	grid := NewGrid(5, 5)
	cr := NewCreature(Prey, 2, 2, mustCompile(t, "sim rest 8 end"), grid)

	cr.Act(grid, fixedRand(0))
	assert.Equal(t, 8, cr.CountDown())
	assert.Equal(t, 0, cr.AwakeDaily())
	assert.False(t, cr.Visible())
	assert.True(t, cr.Resting())
	assert.Equal(t, InitEnergy, cr.Energy())
	assert.Equal(t, PreyRestingHere, grid.LocationStatus(2, 2))
	assert.Equal(t, 0, grid.At(2, 2).Breedable(Prey))

	for i := 7; i > 0; i-- {
		cr.Act(grid, fixedRand(0))
		assert.Equal(t, i, cr.CountDown())
		assert.Equal(t, 0, cr.AwakeDaily(), "awake counter must not grow while resting")
	}
	// the eighth tick wakes the creature and the program rests it again
	cr.Act(grid, fixedRand(0))
	assert.Equal(t, 8, cr.CountDown())
	assert.Equal(t, 1, grid.At(2, 2).Resting(Prey))
	assert.Equal(t, 0, grid.At(2, 2).Count(Prey))
}

func TestRestCost(t *testing.T) {
	cases := []struct {
		src  string
		want int
	}{
		{"sim rest 3 end", 99},
		{"sim rest 8 end", 100},
		{"sim rest 23 end", 100},
		{"sim rest 24 end", 95},
	}
	for _, c := range cases {
		grid := NewGrid(3, 3)
		cr := NewCreature(Prey, 0, 0, mustCompile(t, c.src), grid)
		cr.Act(grid, fixedRand(0))
		assert.Equal(t, c.want, cr.Energy(), c.src)
	}
}

func TestBreedNeedsPartner(t *testing.T) {
	prog := mustCompile(t, "sim breed E end")

	// alone: the move happens but nothing is born
	grid := NewGrid(4, 4)
	lone := NewCreature(Prey, 0, 0, prog, grid)
	assert.Empty(t, lone.Act(grid, fixedRand(0)))
	x, _ := lone.Position()
	assert.Equal(t, 1, x)
	assert.True(t, lone.Visible())

	// a partner below the threshold does not count
	grid = NewGrid(4, 4)
	a := NewCreature(Prey, 0, 0, prog, grid)
	weak := NewCreature(Prey, 1, 0, prog, grid)
	weak.changeEnergy(-80, grid)
	assert.Empty(t, a.Act(grid, fixedRand(0)))

	// an eligible partner at the destination
	grid = NewGrid(4, 4)
	a = NewCreature(Prey, 0, 0, prog, grid)
	NewCreature(Prey, 1, 0, prog, grid)
	babies := a.Act(grid, fixedRand(0))
	require.Len(t, babies, 2)
	for _, b := range babies {
		assert.Equal(t, InitEnergy-1, b.Energy())
		assert.False(t, b.Visible())
		assert.Equal(t, babyRest, b.CountDown())
		bx, by := b.Position()
		assert.Equal(t, [2]int{1, 0}, [2]int{bx, by})
	}
	assert.Equal(t, breedCooldown, a.CountDown())
	assert.False(t, a.Visible())
	assert.Equal(t, InitEnergy-1-breedCost, a.Energy())

	loc := grid.At(1, 0)
	assert.Equal(t, 1, loc.Count(Prey))
	assert.Equal(t, 1, loc.Breedable(Prey))
	assert.Equal(t, 3, loc.Resting(Prey))
}

func TestPredatorHunt(t *testing.T) {
	hunt := mustCompile(t, "sim hunt E end")
	idle := mustCompile(t, "sim x = 1 end")

	// success: the kill is marked and collected on the prey's next act
	grid := NewGrid(4, 4)
	pred := NewCreature(Predator, 0, 0, hunt, grid)
	prey := NewCreature(Prey, 1, 0, idle, grid)
	pred.Act(grid, fixedRand(0))
	assert.Equal(t, 100-1+25-10, pred.Energy())
	assert.Equal(t, feedTicks, pred.CountDown())
	assert.Equal(t, 1, grid.At(1, 0).Killed())

	assert.Empty(t, prey.Act(grid, fixedRand(0)))
	assert.True(t, prey.IsDead())
	assert.True(t, prey.Eaten())
	assert.Equal(t, 0, grid.At(1, 0).Count(Prey))
	assert.Equal(t, 0, grid.At(1, 0).Breedable(Prey))
	assert.Equal(t, 0, grid.At(1, 0).Killed())

	// failure still costs energy
	grid = NewGrid(4, 4)
	pred = NewCreature(Predator, 0, 0, hunt, grid)
	NewCreature(Prey, 1, 0, idle, grid)
	pred.Act(grid, fixedRand(99))
	assert.Equal(t, 100-1-10, pred.Energy())
	assert.Equal(t, 0, grid.At(1, 0).Killed())

	// no prey: only the move is paid for
	grid = NewGrid(4, 4)
	pred = NewCreature(Predator, 0, 0, hunt, grid)
	pred.Act(grid, fixedRand(0))
	assert.Equal(t, 99, pred.Energy())

	// prey grazes
	grid = NewGrid(4, 4)
	grazer := NewCreature(Prey, 0, 0, hunt, grid)
	grazer.Act(grid, fixedRand(0))
	assert.Equal(t, 101, grazer.Energy())
}

func TestRestingPreyIsNotEaten(t *testing.T) {
	grid := NewGrid(3, 3)
	prey := NewCreature(Prey, 0, 0, mustCompile(t, "sim rest 5 end"), grid)
	prey.Act(grid, fixedRand(0))
	grid.killPrey(0, 0)
	prey.Act(grid, fixedRand(0))
	assert.False(t, prey.IsDead())
	assert.Equal(t, 1, grid.At(0, 0).Killed())
}

func TestStarvation(t *testing.T) {
	grid := NewGrid(3, 3)
	cr := NewCreature(Predator, 1, 1, mustCompile(t, "sim move E end"), grid)
	cr.changeEnergy(-99, grid)
	assert.Equal(t, 0, grid.At(1, 1).Breedable(Predator))
	cr.Act(grid, fixedRand(0))
	assert.True(t, cr.IsDead())
	assert.Equal(t, NothingHere, grid.LocationStatus(2, 1))
	assert.Equal(t, 0, grid.At(2, 1).Count(Predator))

	// a resting creature that dies leaves the resting counter
	grid = NewGrid(3, 3)
	cr = NewCreature(Prey, 1, 1, mustCompile(t, "sim rest 30 end"), grid)
	cr.changeEnergy(-97, grid)
	cr.Act(grid, fixedRand(0))
	assert.True(t, cr.IsDead())
	assert.Equal(t, 0, grid.At(1, 1).Resting(Prey))
	assert.Equal(t, NothingHere, grid.LocationStatus(1, 1))
}

func TestUnboundVariableIsNoAction(t *testing.T) {
	grid := NewGrid(3, 3)
	cr := NewCreature(Prey, 1, 1, mustCompile(t, "sim if (ghost > 1) then move E end end"), grid)
	assert.NotPanics(t, func() { cr.Act(grid, fixedRand(0)) })
	x, y := cr.Position()
	assert.Equal(t, [2]int{1, 1}, [2]int{x, y})
	assert.Equal(t, InitEnergy, cr.Energy())
}
