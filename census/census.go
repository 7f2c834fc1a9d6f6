// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package census stores per-tick population history in LevelDB.
//
// Layout:
//
//	"r" + runID              -> RLP(RunInfo)
//	"c" + runID + tick (BE)  -> RLP(sim.Census)
//
// Run identifiers are the UUIDs a simulation assigns on every Configure.
package census

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/google/uuid"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/probechain/go-sim2/sim"
)

var (
	runPrefix    = []byte("r")
	censusPrefix = []byte("c")
)

// ErrUnknownRun is returned for a run that was never started.
var ErrUnknownRun = errors.New("unknown run")

// RunInfo describes the population a run was seeded with.
type RunInfo struct {
	Started   uint64 // unix seconds
	Width     uint64
	Height    uint64
	Predators uint64
	Prey      uint64
	Predator  common.Hash // predator program fingerprint
	PreyProg  common.Hash // prey program fingerprint
}

// DB is a census history store.
type DB struct {
	db *leveldb.DB
}

// Open opens or creates a census database at path. An empty path gives a
// memory-backed database that is discarded on Close.
func Open(path string) (*DB, error) {
	var (
		db  *leveldb.DB
		err error
	)
	if path == "" {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, &opt.Options{
			OpenFilesCacheCapacity: 16,
			BlockCacheCapacity:     8 * opt.MiB,
		})
	}
	if err != nil {
		return nil, err
	}
	log.Debug("Opened census database", "path", path)
	return &DB{db: db}, nil
}

// Close releases the database.
func (d *DB) Close() error { return d.db.Close() }

func runKey(id uuid.UUID) []byte {
	return append(append([]byte{}, runPrefix...), id[:]...)
}

func censusKey(id uuid.UUID, tick uint64) []byte {
	key := make([]byte, 0, len(censusPrefix)+len(id)+8)
	key = append(key, censusPrefix...)
	key = append(key, id[:]...)
	return binary.BigEndian.AppendUint64(key, tick)
}

// Begin records the start of a run.
func (d *DB) Begin(id uuid.UUID, info RunInfo) error {
	enc, err := rlp.EncodeToBytes(&info)
	if err != nil {
		return err
	}
	return d.db.Put(runKey(id), enc, nil)
}

// Run returns the description of a run.
func (d *DB) Run(id uuid.UUID) (*RunInfo, error) {
	enc, err := d.db.Get(runKey(id), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRun, id)
	}
	if err != nil {
		return nil, err
	}
	info := new(RunInfo)
	if err := rlp.DecodeBytes(enc, info); err != nil {
		return nil, err
	}
	return info, nil
}

// Runs lists every recorded run, in key order.
func (d *DB) Runs() ([]uuid.UUID, error) {
	it := d.db.NewIterator(util.BytesPrefix(runPrefix), nil)
	defer it.Release()

	var ids []uuid.UUID
	for it.Next() {
		id, err := uuid.FromBytes(it.Key()[len(runPrefix):])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, it.Error()
}

// Write stores the census of one tick.
func (d *DB) Write(id uuid.UUID, c sim.Census) error {
	enc, err := rlp.EncodeToBytes(&c)
	if err != nil {
		return err
	}
	return d.db.Put(censusKey(id, c.Tick), enc, nil)
}

// History returns every stored census of a run in tick order, starting at
// tick from.
func (d *DB) History(id uuid.UUID, from uint64) ([]sim.Census, error) {
	prefix := censusKey(id, 0)[:len(censusPrefix)+len(id)]
	rng := util.BytesPrefix(prefix)
	rng.Start = censusKey(id, from)

	it := d.db.NewIterator(rng, nil)
	defer it.Release()

	var out []sim.Census
	for it.Next() {
		var c sim.Census
		if err := rlp.DecodeBytes(it.Value(), &c); err != nil {
			return nil, fmt.Errorf("census %x: %w", it.Key(), err)
		}
		out = append(out, c)
	}
	return out, it.Error()
}

// Delete removes a run and its history.
func (d *DB) Delete(id uuid.UUID) error {
	prefix := censusKey(id, 0)[:len(censusPrefix)+len(id)]
	it := d.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()

	batch := new(leveldb.Batch)
	for it.Next() {
		batch.Delete(it.Key())
	}
	if err := it.Error(); err != nil {
		return err
	}
	batch.Delete(runKey(id))
	return d.db.Write(batch, nil)
}
