// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Contains the metrics collected by the simulation.

package sim

import (
	"github.com/ethereum/go-ethereum/metrics"
)

var (
	tickTimer = metrics.NewRegisteredTimer("sim/tick", nil)

	bornMeter         = metrics.NewRegisteredMeter("sim/creatures/born", nil)
	diedMeter         = metrics.NewRegisteredMeter("sim/creatures/died", nil)
	killedMeter       = metrics.NewRegisteredMeter("sim/prey/killed", nil)
	programErrorMeter = metrics.NewRegisteredMeter("sim/program/errors", nil)

	predatorGauge = metrics.NewRegisteredGauge("sim/population/predators", nil)
	preyGauge     = metrics.NewRegisteredGauge("sim/population/prey", nil)
)
