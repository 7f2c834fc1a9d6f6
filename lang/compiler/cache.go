// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package compiler

import (
	"github.com/ethereum/go-ethereum/metrics"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"github.com/probechain/go-sim2/lang/vm"
)

// DefaultCacheSize is the number of compiled programs kept by NewCache(0).
const DefaultCacheSize = 64

var (
	cacheHitMeter  = metrics.NewRegisteredMeter("compiler/cache/hit", nil)
	cacheMissMeter = metrics.NewRegisteredMeter("compiler/cache/miss", nil)
)

// Cache keeps recently compiled programs keyed by source fingerprint, so
// that reconfiguring with unchanged source reuses the same *vm.Program.
// Concurrent compiles of one source are collapsed into a single call. Failed
// compiles are not cached.
type Cache struct {
	programs *lru.Cache
	group    singleflight.Group
}

// NewCache creates a cache holding at most size programs.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	programs, _ := lru.New(size) // only fails for non-positive sizes
	return &Cache{programs: programs}
}

// Compile returns the cached program for src or compiles it. The name of
// the first compile is kept for a cached source.
func (c *Cache) Compile(name, src string) (*vm.Program, error) {
	key := Fingerprint(src)
	if prog, ok := c.programs.Get(key); ok {
		cacheHitMeter.Mark(1)
		return prog.(*vm.Program), nil
	}
	v, err, _ := c.group.Do(key.Hex(), func() (interface{}, error) {
		if prog, ok := c.programs.Get(key); ok {
			return prog, nil
		}
		cacheMissMeter.Mark(1)
		prog, err := Compile(name, src)
		if err != nil {
			return nil, err
		}
		c.programs.Add(key, prog)
		return prog, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*vm.Program), nil
}

// Len returns the number of cached programs.
func (c *Cache) Len() int { return c.programs.Len() }

// Purge drops every cached program.
func (c *Cache) Purge() { c.programs.Purge() }
