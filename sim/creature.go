// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package sim

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/probechain/go-sim2/lang/ast"
	"github.com/probechain/go-sim2/lang/vm"
)

const (
	InitEnergy     = 100 // energy of a new creature
	BreedThreshold = 25  // creatures above this energy may breed

	moveCost      = 1
	grazeGain     = 2
	huntGain      = 25
	huntCost      = 10
	huntOdds      = 100 // a predator kills when energy > rand(huntOdds)
	feedTicks     = 3   // a successful predator is busy this many ticks
	breedCost     = 25
	breedCooldown = 6
	babyRest      = 6
	shortRest     = 8  // rests shorter than this cost 1 energy
	longRest      = 24 // rests at least this long cost 5 energy
)

// Creature is one predator or prey. Its program is shared with every other
// creature of the same type.
type Creature struct {
	kind       CreatureType
	energy     int
	x, y       int
	awakeDaily int
	countDown  int
	visible    bool
	resting    bool
	eaten      bool
	program    *vm.Program
}

// NewCreature places a fresh creature on the grid at (x, y).
func NewCreature(kind CreatureType, x, y int, program *vm.Program, grid *Grid) *Creature {
	c := &Creature{
		kind:    kind,
		energy:  InitEnergy,
		x:       x,
		y:       y,
		visible: true,
		program: program,
	}
	grid.enter(kind, x, y, c.energy)
	return c
}

func (c *Creature) Type() CreatureType   { return c.kind }
func (c *Creature) Energy() int          { return c.energy }
func (c *Creature) Position() (int, int) { return c.x, c.y }
func (c *Creature) AwakeDaily() int      { return c.awakeDaily }
func (c *Creature) CountDown() int       { return c.countDown }
func (c *Creature) Visible() bool        { return c.visible }
func (c *Creature) Resting() bool        { return c.resting }
func (c *Creature) Program() *vm.Program { return c.program }

// IsDead reports whether the creature has run out of energy.
func (c *Creature) IsDead() bool { return c.energy <= 0 }

// Eaten reports whether the creature died by predation.
func (c *Creature) Eaten() bool { return c.eaten }

// changeEnergy is the only place energy changes. While the creature is
// visible it keeps the cell's breed-eligible counter in step with the
// threshold crossing; invisible creatures are not counted there.
func (c *Creature) changeEnergy(delta int, grid *Grid) {
	before := c.energy
	c.energy += delta
	if !c.visible {
		return
	}
	switch {
	case before > BreedThreshold && c.energy <= BreedThreshold:
		grid.breedable(c.kind, c.x, c.y, -1)
	case before <= BreedThreshold && c.energy > BreedThreshold:
		grid.breedable(c.kind, c.x, c.y, +1)
	}
}

func (c *Creature) setInvisible(grid *Grid) {
	grid.rest(c.kind, c.x, c.y, c.energy)
	c.visible = false
}

func (c *Creature) setVisible(grid *Grid) {
	grid.wake(c.kind, c.x, c.y, c.energy)
	c.visible = true
	c.resting = false
}

func (c *Creature) move(dir ast.Direction, grid *Grid) {
	c.changeEnergy(-moveCost, grid)
	grid.leave(c.kind, c.x, c.y, c.energy)
	c.x, c.y = grid.Step(c.x, c.y, dir)
	grid.enter(c.kind, c.x, c.y, c.energy)
}

func (c *Creature) rest(count int, grid *Grid) {
	c.countDown = count
	c.setInvisible(grid)
	c.resting = true
	switch {
	case count < shortRest:
		c.changeEnergy(-1, grid)
	case count >= longRest:
		c.changeEnergy(-5, grid)
	}
	c.awakeDaily = 0
}

// hunt moves and feeds. Prey always grazes. A predator only hunts when
// visible prey shares the destination cell; a kill is marked on the cell and
// collected when the victim next acts.
func (c *Creature) hunt(dir ast.Direction, grid *Grid, rnd vm.Rand) {
	c.move(dir, grid)
	if c.kind == Prey {
		c.changeEnergy(grazeGain, grid)
		return
	}
	if !grid.At(c.x, c.y).HasPrey() {
		return
	}
	if c.energy > rnd.Intn(huntOdds) {
		c.changeEnergy(huntGain, grid)
		c.countDown = feedTicks
		grid.killPrey(c.x, c.y)
	}
	c.changeEnergy(-huntCost, grid)
}

// breed moves and, when a breed-eligible partner is at the destination,
// produces two resting offspring.
func (c *Creature) breed(dir ast.Direction, grid *Grid) []*Creature {
	c.move(dir, grid)
	if !grid.At(c.x, c.y).HasPartner(c.kind) {
		return nil
	}
	c.countDown = breedCooldown
	c.setInvisible(grid)
	c.changeEnergy(-breedCost, grid)

	babies := make([]*Creature, 2)
	for i := range babies {
		b := NewCreature(c.kind, c.x, c.y, c.program, grid)
		b.rest(babyRest, grid)
		babies[i] = b
	}
	return babies
}

// isEaten consumes visible prey standing on a marked kill.
func (c *Creature) isEaten(grid *Grid) bool {
	if c.kind != Prey || !c.visible || !grid.At(c.x, c.y).HasKilledPrey() {
		return false
	}
	c.changeEnergy(-c.energy, grid)
	grid.removeKilledPrey(c.x, c.y)
	c.eaten = true
	return true
}

// Act advances the creature by one tick and returns any offspring. A
// program failure is logged and treated as no action.
func (c *Creature) Act(grid *Grid, rnd vm.Rand) []*Creature {
	if c.countDown > 0 {
		c.countDown--
	}
	if !c.resting {
		c.awakeDaily++
	}
	if c.isEaten(grid) {
		return nil
	}
	if c.countDown != 0 {
		return nil
	}
	if !c.visible {
		c.setVisible(grid)
	}
	act, err := c.program.Execute(c.energy, c.awakeDaily, rnd)
	if err != nil {
		programErrorMeter.Mark(1)
		log.Debug("Creature program failed", "type", c.kind, "program", c.program.Name(), "x", c.x, "y", c.y, "err", err)
		act = ast.NoAction
	}
	var offspring []*Creature
	switch act.Kind {
	case ast.Move:
		c.move(act.Dir, grid)
	case ast.Rest:
		c.rest(act.Count, grid)
	case ast.Hunt:
		c.hunt(act.Dir, grid, rnd)
	case ast.Breed:
		offspring = c.breed(act.Dir, grid)
	}
	if c.IsDead() {
		if c.visible {
			grid.leave(c.kind, c.x, c.y, c.energy)
		} else {
			grid.vanish(c.kind, c.x, c.y)
		}
	}
	return offspring
}
