// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package sim

import "time"

// Defaults contains default settings for a simulation.
var Defaults = Config{
	Width:     100,
	Height:    100,
	Predators: 5,
	Prey:      5,
	Interval:  time.Second,
	CacheSize: 16,
}

// Config contains configuration options for a simulation.
type Config struct {
	// Grid dimensions.
	Width  int
	Height int

	// Initial populations seeded by Configure.
	Predators int
	Prey      int

	// Program files. Either may be left empty and supplied as source text.
	PredatorProgram string `toml:",omitempty"`
	PreyProgram     string `toml:",omitempty"`

	// Seed for the random source. Zero picks a time-based seed.
	Seed int64 `toml:",omitempty"`

	// Interval between ticks when driven by a timer.
	Interval time.Duration

	// Number of compiled programs kept for reuse across reconfigurations.
	CacheSize int

	// Upper bound on the seeded population. Zero allows
	// DefaultPopulationFactor creatures per cell.
	MaxPopulation int `toml:",omitempty"`
}

// DefaultPopulationFactor is the number of creatures per cell allowed when
// Config.MaxPopulation is unset.
const DefaultPopulationFactor = 16

// maxPopulation returns the seeding limit for a width x height grid.
func (c *Config) maxPopulation(width, height int) int {
	if c.MaxPopulation > 0 {
		return c.MaxPopulation
	}
	return DefaultPopulationFactor * width * height
}
