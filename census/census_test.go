// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package census

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probechain/go-sim2/sim"
)

func TestHistory(t *testing.T) {
	db, err := Open("")
	require.NoError(t, err)
	defer db.Close()

	a, b := uuid.New(), uuid.New()
	require.NoError(t, db.Begin(a, RunInfo{Started: 1, Width: 10, Height: 10, Predators: 2, Prey: 3}))
	require.NoError(t, db.Begin(b, RunInfo{Started: 2}))

	var want []sim.Census
	for tick := uint64(0); tick < 300; tick++ {
		c := sim.Census{Tick: tick, Predators: tick % 7, Prey: tick * 3, Born: tick % 2, Died: 1}
		require.NoError(t, db.Write(a, c))
		want = append(want, c)
		require.NoError(t, db.Write(b, sim.Census{Tick: tick, Prey: 1}))
	}

	got, err := db.History(a, 0)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}

	// ticks past 255 must still sort numerically
	got, err = db.History(a, 250)
	require.NoError(t, err)
	require.Len(t, got, 50)
	assert.Equal(t, uint64(250), got[0].Tick)
	assert.Equal(t, uint64(299), got[49].Tick)

	info, err := db.Run(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), info.Prey)

	runs, err := db.Runs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a, b}, runs)
}

func TestDeleteRun(t *testing.T) {
	db, err := Open("")
	require.NoError(t, err)
	defer db.Close()

	a, b := uuid.New(), uuid.New()
	for _, id := range []uuid.UUID{a, b} {
		require.NoError(t, db.Begin(id, RunInfo{}))
		for tick := uint64(0); tick < 10; tick++ {
			require.NoError(t, db.Write(id, sim.Census{Tick: tick}))
		}
	}
	require.NoError(t, db.Delete(a))

	got, err := db.History(a, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	_, err = db.Run(a)
	assert.ErrorIs(t, err, ErrUnknownRun)

	got, err = db.History(b, 0)
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "census")
	id := uuid.New()

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Begin(id, RunInfo{Width: 4}))
	require.NoError(t, db.Write(id, sim.Census{Tick: 5, Eaten: 2}))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	got, err := db.History(id, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(2), got[0].Eaten)
}
