// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// sim2 runs predator/prey simulations driven by sim2 creature programs.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/urfave/cli.v1"
)

const clientIdentifier = "sim2"

var (
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}
	vmoduleFlag = cli.StringFlag{
		Name:  "vmodule",
		Usage: "Per-module verbosity: comma-separated list of <pattern>=<level> (e.g. sim/*=5)",
	}
	metricsEnabledFlag = cli.BoolFlag{
		Name:  "metrics",
		Usage: "Enable metrics collection and reporting",
	}
	metricsHTTPFlag = cli.StringFlag{
		Name:  "metrics.addr",
		Usage: "Enable the stand-alone metrics HTTP server on the given interface",
	}
	metricsPortFlag = cli.IntFlag{
		Name:  "metrics.port",
		Usage: "Metrics HTTP server listening port",
		Value: metrics.DefaultConfig.Port,
	}

	widthFlag = cli.IntFlag{
		Name:  "width",
		Usage: "Grid width (east-west)",
	}
	heightFlag = cli.IntFlag{
		Name:  "height",
		Usage: "Grid height (north-south)",
	}
	predatorsFlag = cli.IntFlag{
		Name:  "predators",
		Usage: "Initial number of predators",
	}
	preyFlag = cli.IntFlag{
		Name:  "prey",
		Usage: "Initial number of prey",
	}
	predatorProgramFlag = cli.StringFlag{
		Name:  "predator",
		Usage: "Predator program file",
	}
	preyProgramFlag = cli.StringFlag{
		Name:  "preyprog",
		Usage: "Prey program file",
	}
	seedFlag = cli.Int64Flag{
		Name:  "seed",
		Usage: "Random seed (0 = time based)",
	}
	intervalFlag = cli.DurationFlag{
		Name:  "interval",
		Usage: "Time between ticks when serving",
	}
	listenFlag = cli.StringFlag{
		Name:  "http.addr",
		Usage: "HTTP listening address (host:port)",
	}
	corsFlag = cli.StringFlag{
		Name:  "http.corsdomain",
		Usage: "Comma separated list of domains from which to accept cross origin requests",
	}
	censusFlag = cli.StringFlag{
		Name:  "census",
		Usage: "Census database directory (empty keeps history in memory)",
	}

	simFlags = []cli.Flag{
		configFileFlag,
		widthFlag,
		heightFlag,
		predatorsFlag,
		preyFlag,
		predatorProgramFlag,
		preyProgramFlag,
		seedFlag,
		intervalFlag,
	}
	serverFlags = []cli.Flag{
		listenFlag,
		corsFlag,
		censusFlag,
	}
	logFlags = []cli.Flag{
		verbosityFlag,
		vmoduleFlag,
		metricsEnabledFlag,
		metricsHTTPFlag,
		metricsPortFlag,
		metricsInfluxDBFlag,
		metricsInfluxDBEndpointFlag,
		metricsInfluxDBDatabaseFlag,
		metricsInfluxDBUsernameFlag,
		metricsInfluxDBPasswordFlag,
		metricsInfluxDBTagsFlag,
	}
)

var app = newApp()

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = clientIdentifier
	app.Usage = "the sim2 predator/prey simulator"
	app.Version = "0.1.0"
	app.Flags = append(append(append([]cli.Flag{}, logFlags...), simFlags...), serverFlags...)
	app.Commands = []cli.Command{
		runCommand,
		serveCommand,
		compileCommand,
		replCommand,
		dumpConfigCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		runtime.GOMAXPROCS(runtime.NumCPU())
		return setupLogging(ctx)
	}
	return app
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fatalf("%v", err)
	}
}

// setupLogging installs the root log handler.
func setupLogging(ctx *cli.Context) error {
	usecolor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	output := io.Writer(os.Stderr)
	if usecolor {
		output = colorable.NewColorableStderr()
	}
	glogger := log.NewGlogHandler(log.StreamHandler(output, log.TerminalFormat(usecolor)))
	glogger.Verbosity(log.Lvl(ctx.GlobalInt(verbosityFlag.Name)))
	if err := glogger.Vmodule(ctx.GlobalString(vmoduleFlag.Name)); err != nil {
		return err
	}
	log.Root().SetHandler(glogger)
	return nil
}

// migrateFlags sets the global flag from a local flag when it's set.
// This is a temporary function used for migrating old command/flags to the
// new format.
func migrateFlags(action func(ctx *cli.Context) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		for _, name := range ctx.FlagNames() {
			if ctx.IsSet(name) {
				ctx.GlobalSet(name, ctx.String(name))
			}
		}
		return action(ctx)
	}
}

// fatalf formats a message to standard error and exits the program.
func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Fatal: "+format+"\n", args...)
	os.Exit(1)
}
