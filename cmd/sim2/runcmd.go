// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	"github.com/probechain/go-sim2/sim"
)

var (
	ticksFlag = cli.IntFlag{
		Name:  "ticks",
		Usage: "Number of ticks to simulate",
		Value: 100,
	}
	everyFlag = cli.IntFlag{
		Name:  "every",
		Usage: "Print a census row every N ticks",
		Value: 10,
	}
	noGridFlag = cli.BoolFlag{
		Name:  "nogrid",
		Usage: "Don't print the final grid",
	}

	runCommand = cli.Command{
		Action:    migrateFlags(runSim),
		Name:      "run",
		Usage:     "Run a simulation headless and print its census",
		ArgsUsage: "",
		Flags: append([]cli.Flag{
			ticksFlag,
			everyFlag,
			noGridFlag,
		}, simFlags...),
		Category: "SIMULATION COMMANDS",
		Description: `
The run command seeds a population from the configured predator and prey
programs and advances it for --ticks ticks without a timer. A census row is
printed every --every ticks and the final grid is drawn at the end.`,
	}
)

var errTicks = errors.New("--ticks must be positive")

type runOptions struct {
	ticks int
	every int
	grid  bool
	color bool
}

func runSim(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	setupMetrics(cfg.Metrics)
	opts := runOptions{
		ticks: ctx.Int(ticksFlag.Name),
		every: ctx.Int(everyFlag.Name),
		grid:  !ctx.Bool(noGridFlag.Name),
		color: isatty.IsTerminal(os.Stdout.Fd()) && os.Getenv("TERM") != "dumb",
	}
	return runHeadless(cfg.Sim, opts, os.Stdout)
}

// runHeadless configures a simulation from cfg and ticks it opts.ticks times,
// writing the census table and optionally the final grid to out. The run
// stops early once both populations are extinct.
func runHeadless(cfg sim.Config, opts runOptions, out io.Writer) error {
	if opts.ticks <= 0 {
		return errTicks
	}
	if opts.every <= 0 {
		opts.every = 1
	}
	s := sim.New(cfg)
	if err := s.Configure(cfg.Predators, cfg.Prey); err != nil {
		return err
	}
	s.SetRun(true)

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Tick", "Predators", "Prey", "Resting pred", "Resting prey", "Born", "Died", "Eaten"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.Append(censusRow(s.Census()))

	for i := 1; i <= opts.ticks; i++ {
		s.Iteration()
		c := s.Census()
		extinct := c.Predators == 0 && c.Prey == 0
		if i%opts.every == 0 || i == opts.ticks || extinct {
			table.Append(censusRow(c))
		}
		if extinct {
			log.Info("Population extinct", "tick", c.Tick)
			break
		}
	}
	table.Render()

	if opts.grid {
		_, err := io.WriteString(out, renderGrid(s.Grid(), opts.color))
		return err
	}
	return nil
}

func censusRow(c sim.Census) []string {
	return []string{
		strconv.FormatUint(c.Tick, 10),
		strconv.FormatUint(c.Predators, 10),
		strconv.FormatUint(c.Prey, 10),
		strconv.FormatUint(c.RestingPredators, 10),
		strconv.FormatUint(c.RestingPrey, 10),
		strconv.FormatUint(c.Born, 10),
		strconv.FormatUint(c.Died, 10),
		strconv.FormatUint(c.Eaten, 10),
	}
}

// renderGrid draws one glyph per cell and one line per row.
func renderGrid(g *sim.Grid, colorize bool) string {
	paint := map[sim.LocationStatus]*color.Color{
		sim.PredHere:        color.New(color.FgRed, color.Bold),
		sim.PredRestingHere: color.New(color.FgRed),
		sim.PreyHere:        color.New(color.FgGreen, color.Bold),
		sim.PreyRestingHere: color.New(color.FgGreen),
	}
	for _, c := range paint {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	var buf bytes.Buffer
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			status := g.LocationStatus(x, y)
			glyph := string(status.Glyph())
			if c, ok := paint[status]; ok {
				glyph = c.Sprint(glyph)
			}
			buf.WriteString(glyph)
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}
