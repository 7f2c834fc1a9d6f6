// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package server drives a simulation on a timer and serves its state to
// renderers over HTTP and websockets.
package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/probechain/go-sim2/census"
	"github.com/probechain/go-sim2/sim"
)

// CellView is the status of one cell.
type CellView struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Status string `json:"status"`
}

// GridView is a full picture of the grid. Rows holds one string per row,
// one glyph per cell (see sim.LocationStatus.Glyph).
type GridView struct {
	Run     string     `json:"run"`
	Tick    uint64     `json:"tick"`
	Width   int        `json:"width"`
	Height  int        `json:"height"`
	Running bool       `json:"running"`
	Rows    []string   `json:"rows"`
	Census  sim.Census `json:"census"`
}

// Update lists the cells that changed during one tick.
type Update struct {
	Run    string     `json:"run"`
	Tick   uint64     `json:"tick"`
	Cells  []CellView `json:"cells"`
	Census sim.Census `json:"census"`
}

// Driver owns a simulation and is the only caller of its Iteration. Every
// other access goes through the driver's lock, so the simulation never sees
// two calls at once.
type Driver struct {
	mu       sync.Mutex
	sim      *sim.Simulation
	db       *census.DB // may be nil
	interval time.Duration
	hub      *hub
}

// NewDriver creates a driver ticking s every interval. db may be nil.
func NewDriver(s *sim.Simulation, db *census.DB, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = sim.Defaults.Interval
	}
	return &Driver{sim: s, db: db, interval: interval, hub: newHub()}
}

// Run ticks the simulation until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	log.Info("Tick driver started", "interval", d.interval)
	for {
		select {
		case <-ticker.C:
			d.Step()
		case <-ctx.Done():
			log.Info("Tick driver stopped")
			d.hub.closeAll()
			return nil
		}
	}
}

// Step performs one iteration if the simulation is running, records the
// census and pushes the changed cells to subscribers. It reports whether a
// tick happened.
func (d *Driver) Step() bool {
	d.mu.Lock()
	if !d.sim.Iteration() {
		d.mu.Unlock()
		return false
	}
	run := d.sim.RunID()
	c := d.sim.Census()
	upd := Update{Run: run.String(), Tick: c.Tick, Census: c, Cells: d.dirtyLocked()}
	d.mu.Unlock()

	if d.db != nil {
		if err := d.db.Write(run, c); err != nil {
			log.Warn("Failed to store census", "run", run, "tick", c.Tick, "err", err)
		}
	}
	d.publish(upd)
	return true
}

// dirtyLocked collects and clears the grid's changed cells.
func (d *Driver) dirtyLocked() []CellView {
	g := d.sim.Grid()
	dirty := g.DirtyCells()
	g.ClearDirty()
	cells := make([]CellView, len(dirty))
	for i, c := range dirty {
		cells[i] = CellView{X: c.X, Y: c.Y, Status: g.LocationStatus(c.X, c.Y).String()}
	}
	return cells
}

func (d *Driver) publish(upd Update) {
	msg, err := json.Marshal(upd)
	if err != nil {
		log.Error("Failed to encode update", "err", err)
		return
	}
	d.hub.broadcast(msg)
}

// Configure supplies new program sources (empty keeps the current ones) and
// reseeds the population. On success a new census run is started and every
// subscriber receives a fresh snapshot.
func (d *Driver) Configure(nPred, nPrey int, predSrc, preySrc string) error {
	return d.configure(nPred, nPrey, func(s *sim.Simulation) {
		if predSrc != "" {
			s.SetPredatorSource(predSrc)
		}
		if preySrc != "" {
			s.SetPreySource(preySrc)
		}
	})
}

// ConfigureFiles is like Configure but selects program files. Empty paths
// keep the current programs.
func (d *Driver) ConfigureFiles(nPred, nPrey int, predPath, preyPath string) error {
	return d.configure(nPred, nPrey, func(s *sim.Simulation) {
		if predPath != "" {
			s.SetPredatorFile(predPath)
		}
		if preyPath != "" {
			s.SetPreyFile(preyPath)
		}
	})
}

func (d *Driver) configure(nPred, nPrey int, setup func(*sim.Simulation)) error {
	run, view, info, err := d.reseed(nPred, nPrey, setup)
	if err != nil {
		return err
	}
	if d.db != nil {
		if err := d.db.Begin(run, info); err != nil {
			log.Warn("Failed to record census run", "run", run, "err", err)
		} else if err := d.db.Write(run, view.Census); err != nil {
			log.Warn("Failed to store census", "run", run, "tick", 0, "err", err)
		}
	}
	if msg, err := json.Marshal(view); err == nil {
		d.hub.broadcast(msg)
	}
	return nil
}

// reseed reconfigures the simulation under the lock and returns the new
// run, its grid and the run record to store.
func (d *Driver) reseed(nPred, nPrey int, setup func(*sim.Simulation)) (uuid.UUID, GridView, census.RunInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	setup(d.sim)
	if err := d.sim.Configure(nPred, nPrey); err != nil {
		return uuid.UUID{}, GridView{}, census.RunInfo{}, err
	}
	view := d.viewLocked()
	d.sim.Grid().ClearDirty()
	pred, prey := d.sim.Programs()
	info := census.RunInfo{
		Started:   uint64(time.Now().Unix()),
		Width:     uint64(view.Width),
		Height:    uint64(view.Height),
		Predators: uint64(nPred),
		Prey:      uint64(nPrey),
		Predator:  pred.Hash(),
		PreyProg:  prey.Hash(),
	}
	return d.sim.RunID(), view, info, nil
}

// SetRun starts or pauses ticking and returns the resulting state.
func (d *Driver) SetRun(run bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.sim.SetRun(run)
	return d.sim.Running()
}

// subscribe registers a websocket subscriber. The snapshot is taken and the
// subscriber joins under the lock, so every later tick reaches it.
func (d *Driver) subscribe(conn *websocket.Conn) *wsClient {
	d.mu.Lock()
	defer d.mu.Unlock()

	first, err := json.Marshal(d.viewLocked())
	if err != nil {
		log.Error("Failed to encode grid", "err", err)
	}
	return d.hub.join(conn, first)
}

// View returns a full snapshot of the grid.
func (d *Driver) View() GridView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewLocked()
}

func (d *Driver) viewLocked() GridView {
	g := d.sim.Grid()
	view := GridView{
		Tick:    d.sim.Tick(),
		Width:   g.Width(),
		Height:  g.Height(),
		Running: d.sim.Running(),
		Rows:    make([]string, g.Height()),
		Census:  d.sim.Census(),
	}
	if d.sim.Valid() {
		view.Run = d.sim.RunID().String()
	}
	row := make([]byte, g.Width())
	for y := range view.Rows {
		for x := range row {
			row[x] = g.LocationStatus(x, y).Glyph()
		}
		view.Rows[y] = string(row)
	}
	return view
}

// Census returns the most recent census.
func (d *Driver) Census() sim.Census {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sim.Census()
}

// History returns the stored census history of the current run.
func (d *Driver) History(from uint64) ([]sim.Census, error) {
	if d.db == nil {
		return nil, nil
	}
	d.mu.Lock()
	run := d.sim.RunID()
	d.mu.Unlock()
	return d.db.History(run, from)
}
