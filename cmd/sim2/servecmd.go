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
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	mapset "github.com/deckarep/golang-set"
	"github.com/ethereum/go-ethereum/log"
	"github.com/rjeczalik/notify"
	"golang.org/x/sync/errgroup"
	"gopkg.in/urfave/cli.v1"

	"github.com/probechain/go-sim2/census"
	"github.com/probechain/go-sim2/server"
	"github.com/probechain/go-sim2/sim"
)

const (
	shutdownTimeout = 5 * time.Second
	watchDebounce   = 250 * time.Millisecond
)

var (
	watchFlag = cli.BoolFlag{
		Name:  "watch",
		Usage: "Reseed the simulation when a program file changes",
	}
	autostartFlag = cli.BoolFlag{
		Name:  "autostart",
		Usage: "Start ticking as soon as the program files are loaded",
	}

	serveCommand = cli.Command{
		Action:    migrateFlags(serve),
		Name:      "serve",
		Usage:     "Drive a simulation on a timer and serve it over HTTP",
		ArgsUsage: "",
		Flags: append(append([]cli.Flag{
			watchFlag,
			autostartFlag,
		}, simFlags...), serverFlags...),
		Category: "SIMULATION COMMANDS",
		Description: `
The serve command ticks a simulation every --interval and exposes it to
renderers: GET /grid, GET /census, POST /run, POST /pause, POST /config and a
websocket stream of changed cells on /ws. When both program files are given
the population is seeded at startup.`,
	}
)

func serve(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	setupMetrics(cfg.Metrics)

	db, err := census.Open(cfg.Server.Census)
	if err != nil {
		return fmt.Errorf("failed to open census database: %w", err)
	}
	defer db.Close()

	d := server.NewDriver(sim.New(cfg.Sim), db, cfg.Sim.Interval)
	files := programFiles(cfg.Sim)
	if len(files) == 2 {
		if err := d.Configure(cfg.Sim.Predators, cfg.Sim.Prey, "", ""); err != nil {
			return err
		}
		if ctx.Bool(autostartFlag.Name) {
			d.SetRun(true)
		}
	}
	var watch []string
	if ctx.Bool(watchFlag.Name) {
		if len(files) == 0 {
			log.Warn("Nothing to watch, no program files configured")
		}
		watch = files
	}

	sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runServer(sigctx, d, cfg, watch)
}

func programFiles(cfg sim.Config) []string {
	var files []string
	for _, f := range []string{cfg.PredatorProgram, cfg.PreyProgram} {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

// runServer runs the tick driver, the HTTP server and the optional file
// watcher until ctx is cancelled or one of them fails.
func runServer(ctx context.Context, d *server.Driver, cfg sim2Config, watch []string) error {
	listener, err := net.Listen("tcp", cfg.Server.ListenAddr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           server.NewHandler(d, cfg.Server.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info("HTTP server started", "endpoint", listener.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.Run(gctx)
	})
	g.Go(func() error {
		if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("HTTP server stopped", "endpoint", listener.Addr())
		return srv.Shutdown(sctx)
	})
	if len(watch) > 0 {
		g.Go(func() error {
			return watchPrograms(gctx, watch, func() error {
				return d.ConfigureFiles(cfg.Sim.Predators, cfg.Sim.Prey, cfg.Sim.PredatorProgram, cfg.Sim.PreyProgram)
			})
		})
	}
	return g.Wait()
}

// watchPrograms calls reload after any of the given files changes. Events
// arriving within watchDebounce of each other trigger a single reload. The
// parent directories are watched so that editors replacing the file by
// rename are noticed too. Reload failures are logged, not returned.
func watchPrograms(ctx context.Context, paths []string, reload func() error) error {
	files, dirs := mapset.NewThreadUnsafeSet(), mapset.NewThreadUnsafeSet()
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		files.Add(abs)
		dirs.Add(filepath.Dir(abs))
	}

	events := make(chan notify.EventInfo, 16)
	defer notify.Stop(events)
	for _, dir := range dirs.ToSlice() {
		if err := notify.Watch(dir.(string), events, notify.Write, notify.Create, notify.Rename); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		log.Debug("Watching program directory", "dir", dir)
	}

	var pending <-chan time.Time
	for {
		select {
		case ev := <-events:
			if files.Contains(ev.Path()) {
				log.Trace("Program file changed", "path", ev.Path(), "event", ev.Event())
				pending = time.After(watchDebounce)
			}
		case <-pending:
			pending = nil
			if err := reload(); err != nil {
				log.Warn("Failed to reload programs", "err", err)
			} else {
				log.Info("Reloaded programs", "files", paths)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
