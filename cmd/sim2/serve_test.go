// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probechain/go-sim2/census"
	"github.com/probechain/go-sim2/server"
	"github.com/probechain/go-sim2/sim"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().String()
}

func TestRunServer(t *testing.T) {
	cfg := defaultConfig()
	cfg.Sim = testSimConfig(t)
	cfg.Sim.Interval = time.Millisecond
	cfg.Server.ListenAddr = freeAddr(t)

	db, err := census.Open("")
	require.NoError(t, err)
	defer db.Close()
	d := server.NewDriver(sim.New(cfg.Sim), db, cfg.Sim.Interval)
	require.NoError(t, d.Configure(cfg.Sim.Predators, cfg.Sim.Prey, "", ""))
	d.SetRun(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServer(ctx, d, cfg, nil) }()

	var view server.GridView
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + cfg.Server.ListenAddr + "/grid")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return json.NewDecoder(resp.Body).Decode(&view) == nil && view.Tick > 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, cfg.Sim.Width, view.Width)
	assert.True(t, view.Running)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestWatchPrograms(t *testing.T) {
	dir := t.TempDir()
	watched := writeProgram(t, dir, "pred.sim", "sim move E end")
	other := writeProgram(t, dir, "notes.txt", "")

	var reloads int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchPrograms(ctx, []string{watched}, func() error {
			atomic.AddInt32(&reloads, 1)
			return nil
		})
	}()
	// Give the watcher time to register before touching files.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(watched, []byte("sim move W end"), 0644))
	}
	require.Eventually(t, func() bool { return atomic.LoadInt32(&reloads) == 1 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(2 * watchDebounce)
	assert.Equal(t, int32(1), atomic.LoadInt32(&reloads), "burst of writes reloads once")

	cancel()
	assert.NoError(t, <-done)
}

func TestProgramFiles(t *testing.T) {
	cfg := sim.Defaults
	assert.Empty(t, programFiles(cfg))
	cfg.PreyProgram = "prey.sim"
	assert.Equal(t, []string{"prey.sim"}, programFiles(cfg))
	cfg.PredatorProgram = "pred.sim"
	assert.Equal(t, []string{"pred.sim", "prey.sim"}, programFiles(cfg))
}
