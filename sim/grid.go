// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package sim

import (
	"sort"

	mapset "github.com/deckarep/golang-set"

	"github.com/probechain/go-sim2/lang/ast"
)

// Cell is a grid coordinate.
type Cell struct {
	X, Y int
}

// Grid is a fixed-size toroidal array of Locations. Every counter change
// goes through one of the Grid mutation methods below, which also record
// the touched cell as dirty.
type Grid struct {
	width, height int
	cells         []Location
	dirty         mapset.Set // Cell
}

// NewGrid allocates a width x height grid of empty locations.
func NewGrid(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic("sim: grid dimensions must be positive")
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Location, width*height),
		dirty:  mapset.NewThreadUnsafeSet(),
	}
}

// Width returns the east-west size.
func (g *Grid) Width() int { return g.width }

// Height returns the north-south size.
func (g *Grid) Height() int { return g.height }

// At returns the location at (x, y). The coordinates must be in range.
func (g *Grid) At(x, y int) *Location {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic("sim: grid coordinate out of range")
	}
	return &g.cells[y*g.width+x]
}

// Wrap normalizes a coordinate onto the torus.
func (g *Grid) Wrap(x, y int) (int, int) {
	x %= g.width
	if x < 0 {
		x += g.width
	}
	y %= g.height
	if y < 0 {
		y += g.height
	}
	return x, y
}

// Step returns the cell one step from (x, y) in direction d.
func (g *Grid) Step(x, y int, d ast.Direction) (int, int) {
	dx, dy := d.Delta()
	return g.Wrap(x+dx, y+dy)
}

// LocationStatus classifies the cell at (x, y) for rendering.
func (g *Grid) LocationStatus(x, y int) LocationStatus {
	return g.At(x, y).Status()
}

// Reset empties every location and marks all cells dirty.
func (g *Grid) Reset() {
	for i := range g.cells {
		if g.cells[i] != (Location{}) {
			g.cells[i] = Location{}
			g.dirty.Add(Cell{i % g.width, i / g.width})
		}
	}
}

// DirtyCells returns the cells touched since the last ClearDirty, in row
// order.
func (g *Grid) DirtyCells() []Cell {
	cells := make([]Cell, 0, g.dirty.Cardinality())
	g.dirty.Each(func(c interface{}) bool {
		cells = append(cells, c.(Cell))
		return false
	})
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	return cells
}

// ClearDirty forgets the dirty cells.
func (g *Grid) ClearDirty() { g.dirty.Clear() }

func (g *Grid) touch(x, y int) *Location {
	g.dirty.Add(Cell{x, y})
	return g.At(x, y)
}

// enter adds a visible creature to a cell.
func (g *Grid) enter(t CreatureType, x, y, energy int) { g.touch(x, y).add(t, energy) }

// leave removes a visible creature from a cell.
func (g *Grid) leave(t CreatureType, x, y, energy int) { g.touch(x, y).remove(t, energy) }

// rest turns a visible creature invisible.
func (g *Grid) rest(t CreatureType, x, y, energy int) { g.touch(x, y).rest(t, energy) }

// wake turns an invisible creature visible.
func (g *Grid) wake(t CreatureType, x, y, energy int) { g.touch(x, y).awake(t, energy) }

// vanish removes an invisible creature from a cell.
func (g *Grid) vanish(t CreatureType, x, y int) { g.touch(x, y).pops[t].resting-- }

// breedable adjusts the breed-eligible counter of a visible creature.
func (g *Grid) breedable(t CreatureType, x, y, delta int) {
	g.touch(x, y).pops[t].breedable += delta
}

func (g *Grid) killPrey(x, y int) { g.touch(x, y).killPrey() }

func (g *Grid) removeKilledPrey(x, y int) { g.touch(x, y).removeKilledPrey() }
