// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/ethereum/go-ethereum/metrics/exp"
	"github.com/ethereum/go-ethereum/metrics/influxdb"
	"gopkg.in/urfave/cli.v1"
)

var (
	metricsInfluxDBFlag = cli.BoolFlag{
		Name:  "metrics.influxdb",
		Usage: "Enable metrics export/push to an external InfluxDB database",
	}
	metricsInfluxDBEndpointFlag = cli.StringFlag{
		Name:  "metrics.influxdb.endpoint",
		Usage: "InfluxDB API endpoint to report metrics to",
		Value: metrics.DefaultConfig.InfluxDBEndpoint,
	}
	metricsInfluxDBDatabaseFlag = cli.StringFlag{
		Name:  "metrics.influxdb.database",
		Usage: "InfluxDB database name to push reported metrics to",
		Value: clientIdentifier,
	}
	metricsInfluxDBUsernameFlag = cli.StringFlag{
		Name:  "metrics.influxdb.username",
		Usage: "Username to authorize access to the database",
		Value: metrics.DefaultConfig.InfluxDBUsername,
	}
	metricsInfluxDBPasswordFlag = cli.StringFlag{
		Name:  "metrics.influxdb.password",
		Usage: "Password to authorize access to the database",
		Value: metrics.DefaultConfig.InfluxDBPassword,
	}
	// Tags are part of every measurement sent to InfluxDB. Queries on tags
	// are faster in InfluxDB. For example, it can be used to tag a host
	// running several simulations.
	metricsInfluxDBTagsFlag = cli.StringFlag{
		Name:  "metrics.influxdb.tags",
		Usage: "Comma-separated InfluxDB tags (key/values) attached to all measurements",
		Value: metrics.DefaultConfig.InfluxDBTags,
	}
)

// setupMetrics starts the metric reporters selected by cfg. Meters are only
// live when --metrics was given on the command line.
func setupMetrics(cfg metrics.Config) {
	if !metrics.Enabled {
		return
	}
	log.Info("Enabling metrics collection")
	go metrics.CollectProcessMetrics(3 * time.Second)

	if cfg.HTTP != "" {
		address := fmt.Sprintf("%s:%d", cfg.HTTP, cfg.Port)
		log.Info("Enabling stand-alone metrics HTTP endpoint", "address", address)
		exp.Setup(address)
	}
	if cfg.EnableInfluxDB {
		tags := splitTagsFlag(cfg.InfluxDBTags)
		log.Info("Enabling metrics export to InfluxDB", "endpoint", cfg.InfluxDBEndpoint, "database", cfg.InfluxDBDatabase)
		go influxdb.InfluxDBWithTags(metrics.DefaultRegistry, 10*time.Second,
			cfg.InfluxDBEndpoint, cfg.InfluxDBDatabase, cfg.InfluxDBUsername, cfg.InfluxDBPassword,
			clientIdentifier+".", tags)
	}
}

func splitTagsFlag(tagsFlag string) map[string]string {
	tags := strings.Split(tagsFlag, ",")
	tagsMap := map[string]string{}

	for _, t := range tags {
		if t != "" {
			kv := strings.Split(t, "=")

			if len(kv) == 2 {
				tagsMap[kv[0]] = kv[1]
			}
		}
	}

	return tagsMap
}
