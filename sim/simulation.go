// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package sim implements the predator/prey grid simulation.
//
// Creatures live on a toroidal grid and each tick run the compiled program
// of their type to choose an action. Per-cell counters are maintained
// incrementally by every creature state transition, so cell queries never
// scan the population.
//
// A Simulation is not safe for concurrent use. Exactly one call may be in
// flight at a time; drivers that share it between goroutines must serialize
// access themselves.
package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"github.com/probechain/go-sim2/lang/compiler"
	"github.com/probechain/go-sim2/lang/vm"
)

var (
	ErrNoPredatorProgram = errors.New("no predator program")
	ErrNoPreyProgram     = errors.New("no prey program")
	ErrProgramIO         = errors.New("program IO error")
	ErrPopulation        = errors.New("invalid population")
)

// programSource is where a creature type's program comes from: a file path
// or literal source text. The most recent setter wins.
type programSource struct {
	path string
	text string
	set  bool
}

func (p *programSource) load(label string) (name, src string, err error) {
	if p.path == "" {
		return label, p.text, nil
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrProgramIO, err)
	}
	return p.path, string(data), nil
}

// Simulation holds the grid, the population and the compiled programs.
type Simulation struct {
	cfg   Config
	grid  *Grid
	rnd   vm.Rand
	cache *compiler.Cache

	predSrc, preySrc   programSource
	predProg, preyProg *vm.Program

	creatures []*Creature
	run       bool
	valid     bool
	runID     uuid.UUID
	tick      uint64
	census    Census
}

// New creates an unconfigured simulation. Program files named in cfg are
// registered but not read until Configure.
func New(cfg Config) *Simulation {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Simulation{
		cfg:   cfg,
		grid:  NewGrid(cfg.Width, cfg.Height),
		rnd:   rand.New(rand.NewSource(seed)),
		cache: compiler.NewCache(cfg.CacheSize),
	}
	if cfg.PredatorProgram != "" {
		s.SetPredatorFile(cfg.PredatorProgram)
	}
	if cfg.PreyProgram != "" {
		s.SetPreyFile(cfg.PreyProgram)
	}
	return s
}

// SetRand replaces the random source used for placement and by programs.
func (s *Simulation) SetRand(rnd vm.Rand) { s.rnd = rnd }

// SetPredatorFile selects the predator program file.
func (s *Simulation) SetPredatorFile(path string) {
	s.predSrc = programSource{path: path, set: path != ""}
}

// SetPreyFile selects the prey program file.
func (s *Simulation) SetPreyFile(path string) {
	s.preySrc = programSource{path: path, set: path != ""}
}

// SetPredatorSource supplies the predator program as text.
func (s *Simulation) SetPredatorSource(src string) {
	s.predSrc = programSource{text: src, set: true}
}

// SetPreySource supplies the prey program as text.
func (s *Simulation) SetPreySource(src string) {
	s.preySrc = programSource{text: src, set: true}
}

func (s *Simulation) compile(label string, src *programSource) (*vm.Program, error) {
	name, text, err := src.load(label)
	if err != nil {
		return nil, err
	}
	return s.cache.Compile(name, text)
}

// Configure compiles both programs and seeds a fresh population of
// nPred predators and nPrey prey at random cells. On failure the
// simulation keeps its previous state.
func (s *Simulation) Configure(nPred, nPrey int) error {
	limit := s.cfg.maxPopulation(s.grid.width, s.grid.height)
	if nPred < 0 || nPrey < 0 || nPred > limit || nPrey > limit-nPred {
		return fmt.Errorf("%w: %d predators, %d prey (limit %d)", ErrPopulation, nPred, nPrey, limit)
	}
	if !s.preySrc.set {
		return ErrNoPreyProgram
	}
	if !s.predSrc.set {
		return ErrNoPredatorProgram
	}
	prey, err := s.compile("prey", &s.preySrc)
	if err != nil {
		return fmt.Errorf("prey program: %w", err)
	}
	pred, err := s.compile("predator", &s.predSrc)
	if err != nil {
		return fmt.Errorf("predator program: %w", err)
	}
	s.grid.Reset()
	s.creatures = make([]*Creature, 0, nPred+nPrey)
	for i := 0; i < nPred; i++ {
		x, y := s.rnd.Intn(s.grid.width), s.rnd.Intn(s.grid.height)
		s.creatures = append(s.creatures, NewCreature(Predator, x, y, pred, s.grid))
	}
	for i := 0; i < nPrey; i++ {
		x, y := s.rnd.Intn(s.grid.width), s.rnd.Intn(s.grid.height)
		s.creatures = append(s.creatures, NewCreature(Prey, x, y, prey, s.grid))
	}
	s.predProg, s.preyProg = pred, prey
	s.valid = true
	s.tick = 0
	s.runID = uuid.New()
	s.census = takeCensus(0, s.creatures)
	s.updateGauges()

	log.Info("Simulation configured", "run", s.runID, "predators", nPred, "prey", nPrey,
		"width", s.grid.width, "height", s.grid.height,
		"predator", pred.Hash().TerminalString(), "preyprog", prey.Hash().TerminalString())
	return nil
}

// SetRun starts or stops ticking. Starting has no effect until the
// simulation has been configured.
func (s *Simulation) SetRun(run bool) {
	s.run = run && s.valid
}

// Running reports whether Iteration will advance the simulation.
func (s *Simulation) Running() bool { return s.run }

// Valid reports whether Configure has succeeded.
func (s *Simulation) Valid() bool { return s.valid }

// Iteration advances every creature by one tick if the simulation is
// running. Offspring join the population after all existing creatures have
// acted and dead creatures are dropped. It returns whether the simulation is
// still running.
func (s *Simulation) Iteration() bool {
	if !s.run {
		return false
	}
	start := time.Now()

	var born []*Creature
	for _, c := range s.creatures {
		born = append(born, c.Act(s.grid, s.rnd)...)
	}
	var died, eaten uint64
	live := s.creatures[:0]
	for _, c := range s.creatures {
		if c.IsDead() {
			died++
			if c.eaten {
				eaten++
			}
			continue
		}
		live = append(live, c)
	}
	for i := len(live); i < len(s.creatures); i++ {
		s.creatures[i] = nil
	}
	s.creatures = append(live, born...)
	s.tick++

	prev := s.census
	s.census = takeCensus(s.tick, s.creatures)
	s.census.Born = uint64(len(born))
	s.census.Died = died
	s.census.Eaten = eaten

	bornMeter.Mark(int64(len(born)))
	diedMeter.Mark(int64(died))
	killedMeter.Mark(int64(eaten))
	s.updateGauges()
	tickTimer.UpdateSince(start)

	if prev.Predators > 0 && s.census.Predators == 0 {
		log.Info("Predators extinct", "run", s.runID, "tick", s.tick)
	}
	if prev.Prey > 0 && s.census.Prey == 0 {
		log.Info("Prey extinct", "run", s.runID, "tick", s.tick)
	}
	return s.run
}

func (s *Simulation) updateGauges() {
	predatorGauge.Update(int64(s.census.Predators))
	preyGauge.Update(int64(s.census.Prey))
}

// Grid returns the simulation grid.
func (s *Simulation) Grid() *Grid { return s.grid }

// LocationStatus classifies the cell at (x, y).
func (s *Simulation) LocationStatus(x, y int) LocationStatus {
	return s.grid.LocationStatus(x, y)
}

// Creatures returns the live population. The slice is owned by the
// simulation and only valid until the next Iteration or Configure.
func (s *Simulation) Creatures() []*Creature { return s.creatures }

// Census returns the summary of the most recent tick.
func (s *Simulation) Census() Census { return s.census }

// Tick returns the number of ticks since the last Configure.
func (s *Simulation) Tick() uint64 { return s.tick }

// RunID identifies the population seeded by the last Configure.
func (s *Simulation) RunID() uuid.UUID { return s.runID }

// Settings returns the configuration the simulation was created with.
func (s *Simulation) Settings() Config { return s.cfg }

// Programs returns the compiled predator and prey programs, or nil before
// the first successful Configure.
func (s *Simulation) Programs() (pred, prey *vm.Program) { return s.predProg, s.preyProg }
