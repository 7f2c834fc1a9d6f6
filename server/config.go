// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package server

// DefaultConfig contains reasonable default settings for the HTTP surface.
var DefaultConfig = Config{
	ListenAddr:  "localhost:8642",
	CORSOrigins: []string{"*"},
	Census:      "",
}

// Config contains the settings of the tick driver's HTTP surface.
type Config struct {
	// ListenAddr is the host:port the HTTP server binds to.
	ListenAddr string

	// CORSOrigins lists the origins allowed to call the API and open the
	// websocket. "*" allows any origin.
	CORSOrigins []string `toml:",omitempty"`

	// Census is the census database directory. Empty keeps the history in
	// memory only.
	Census string `toml:",omitempty"`
}
