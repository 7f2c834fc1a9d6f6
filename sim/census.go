// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package sim

// Census summarizes the population after a tick.
type Census struct {
	Tick uint64 `json:"tick"`

	Predators        uint64 `json:"predators"` // live predators, visible or not
	Prey             uint64 `json:"prey"`      // live prey, visible or not
	RestingPredators uint64 `json:"restingPredators"`
	RestingPrey      uint64 `json:"restingPrey"`

	Born  uint64 `json:"born"`  // offspring spawned this tick
	Died  uint64 `json:"died"`  // creatures removed this tick, eaten prey included
	Eaten uint64 `json:"eaten"` // prey consumed by predators this tick
}

func takeCensus(tick uint64, creatures []*Creature) Census {
	c := Census{Tick: tick}
	for _, cr := range creatures {
		switch cr.kind {
		case Predator:
			c.Predators++
			if !cr.visible {
				c.RestingPredators++
			}
		case Prey:
			c.Prey++
			if !cr.visible {
				c.RestingPrey++
			}
		}
	}
	return c
}
