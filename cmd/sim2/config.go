// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"unicode"

	"github.com/ethereum/go-ethereum/metrics"
	"github.com/naoina/toml"
	"gopkg.in/urfave/cli.v1"

	"github.com/probechain/go-sim2/server"
	"github.com/probechain/go-sim2/sim"
)

var (
	dumpConfigCommand = cli.Command{
		Action:      migrateFlags(dumpConfig),
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "[file]",
		Flags:       append(append([]cli.Flag{}, simFlags...), serverFlags...),
		Category:    "MISCELLANEOUS COMMANDS",
		Description: `The dumpconfig command shows configuration values.`,
	}

	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type sim2Config struct {
	Sim     sim.Config
	Server  server.Config
	Metrics metrics.Config
}

func defaultConfig() sim2Config {
	cfg := sim2Config{
		Sim:     sim.Defaults,
		Server:  server.DefaultConfig,
		Metrics: metrics.DefaultConfig,
	}
	cfg.Metrics.InfluxDBDatabase = clientIdentifier
	return cfg
}

func loadConfig(file string, cfg *sim2Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig loads the defaults, then the config file, then applies flags.
func makeConfig(ctx *cli.Context) (sim2Config, error) {
	cfg := defaultConfig()
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	applySimConfig(ctx, &cfg.Sim)
	applyServerConfig(ctx, &cfg.Server)
	applyMetricConfig(ctx, &cfg)
	return cfg, validateConfig(&cfg)
}

func applySimConfig(ctx *cli.Context, cfg *sim.Config) {
	if ctx.GlobalIsSet(widthFlag.Name) {
		cfg.Width = ctx.GlobalInt(widthFlag.Name)
	}
	if ctx.GlobalIsSet(heightFlag.Name) {
		cfg.Height = ctx.GlobalInt(heightFlag.Name)
	}
	if ctx.GlobalIsSet(predatorsFlag.Name) {
		cfg.Predators = ctx.GlobalInt(predatorsFlag.Name)
	}
	if ctx.GlobalIsSet(preyFlag.Name) {
		cfg.Prey = ctx.GlobalInt(preyFlag.Name)
	}
	if ctx.GlobalIsSet(predatorProgramFlag.Name) {
		cfg.PredatorProgram = ctx.GlobalString(predatorProgramFlag.Name)
	}
	if ctx.GlobalIsSet(preyProgramFlag.Name) {
		cfg.PreyProgram = ctx.GlobalString(preyProgramFlag.Name)
	}
	if ctx.GlobalIsSet(seedFlag.Name) {
		cfg.Seed = ctx.GlobalInt64(seedFlag.Name)
	}
	if ctx.GlobalIsSet(intervalFlag.Name) {
		cfg.Interval = ctx.GlobalDuration(intervalFlag.Name)
	}
}

func applyServerConfig(ctx *cli.Context, cfg *server.Config) {
	if ctx.GlobalIsSet(listenFlag.Name) {
		cfg.ListenAddr = ctx.GlobalString(listenFlag.Name)
	}
	if ctx.GlobalIsSet(corsFlag.Name) {
		cfg.CORSOrigins = splitAndTrim(ctx.GlobalString(corsFlag.Name))
	}
	if ctx.GlobalIsSet(censusFlag.Name) {
		cfg.Census = ctx.GlobalString(censusFlag.Name)
	}
}

func applyMetricConfig(ctx *cli.Context, cfg *sim2Config) {
	if ctx.GlobalIsSet(metricsEnabledFlag.Name) {
		cfg.Metrics.Enabled = ctx.GlobalBool(metricsEnabledFlag.Name)
	}
	if ctx.GlobalIsSet(metricsHTTPFlag.Name) {
		cfg.Metrics.HTTP = ctx.GlobalString(metricsHTTPFlag.Name)
	}
	if ctx.GlobalIsSet(metricsPortFlag.Name) {
		cfg.Metrics.Port = ctx.GlobalInt(metricsPortFlag.Name)
	}
	if ctx.GlobalIsSet(metricsInfluxDBFlag.Name) {
		cfg.Metrics.EnableInfluxDB = ctx.GlobalBool(metricsInfluxDBFlag.Name)
	}
	if ctx.GlobalIsSet(metricsInfluxDBEndpointFlag.Name) {
		cfg.Metrics.InfluxDBEndpoint = ctx.GlobalString(metricsInfluxDBEndpointFlag.Name)
	}
	if ctx.GlobalIsSet(metricsInfluxDBDatabaseFlag.Name) {
		cfg.Metrics.InfluxDBDatabase = ctx.GlobalString(metricsInfluxDBDatabaseFlag.Name)
	}
	if ctx.GlobalIsSet(metricsInfluxDBUsernameFlag.Name) {
		cfg.Metrics.InfluxDBUsername = ctx.GlobalString(metricsInfluxDBUsernameFlag.Name)
	}
	if ctx.GlobalIsSet(metricsInfluxDBPasswordFlag.Name) {
		cfg.Metrics.InfluxDBPassword = ctx.GlobalString(metricsInfluxDBPasswordFlag.Name)
	}
	if ctx.GlobalIsSet(metricsInfluxDBTagsFlag.Name) {
		cfg.Metrics.InfluxDBTags = ctx.GlobalString(metricsInfluxDBTagsFlag.Name)
	}
}

func validateConfig(cfg *sim2Config) error {
	switch {
	case cfg.Sim.Width <= 0 || cfg.Sim.Height <= 0:
		return fmt.Errorf("invalid grid size %dx%d", cfg.Sim.Width, cfg.Sim.Height)
	case cfg.Sim.Predators < 0 || cfg.Sim.Prey < 0:
		return fmt.Errorf("invalid population %d/%d", cfg.Sim.Predators, cfg.Sim.Prey)
	case cfg.Sim.Interval <= 0:
		return fmt.Errorf("invalid tick interval %v", cfg.Sim.Interval)
	}
	return nil
}

// splitAndTrim splits input separated by a comma
// and trims excessive white space from the substrings.
func splitAndTrim(input string) (ret []string) {
	l := strings.Split(input, ",")
	for _, r := range l {
		if r = strings.TrimSpace(r); r != "" {
			ret = append(ret, r)
		}
	}
	return ret
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}

	dump := os.Stdout
	if ctx.NArg() > 0 {
		dump, err = os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer dump.Close()
	}
	dump.Write(out)

	return nil
}
