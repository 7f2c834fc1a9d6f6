// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/log"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/probechain/go-sim2/sim"
)

const (
	maxRequestContentLength = 1024 * 64

	// POST /config requests allowed per second, per handler.
	configRate  = rate.Limit(2)
	configBurst = 4
)

// ConfigRequest is the body of POST /config. Empty sources keep the
// programs already set.
type ConfigRequest struct {
	Predators      int    `json:"predators"`
	Prey           int    `json:"prey"`
	PredatorSource string `json:"predatorSource,omitempty"`
	PreySource     string `json:"preySource,omitempty"`
}

type runResponse struct {
	Running bool `json:"running"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler returns the HTTP surface of a driver:
//
//	GET  /grid             full grid snapshot
//	GET  /census           latest census; ?from=N returns stored history
//	POST /run              start ticking
//	POST /pause            stop ticking
//	POST /config           reseed with a ConfigRequest (rate limited)
//	GET  /ws               websocket stream of per-tick updates
func NewHandler(d *Driver, corsOrigins []string) http.Handler {
	upgrader := newUpgrader(corsOrigins)
	limiter := rate.NewLimiter(configRate, configBurst)

	router := httprouter.New()
	router.GET("/grid", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusOK, d.View())
	})
	router.GET("/census", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		from := r.URL.Query().Get("from")
		if from == "" {
			writeJSON(w, http.StatusOK, d.Census())
			return
		}
		tick, err := strconv.ParseUint(from, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{"invalid from: " + from})
			return
		}
		history, err := d.History(tick)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, history)
	})
	router.POST("/run", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		running := d.SetRun(true)
		if !running {
			writeJSON(w, http.StatusConflict, errorResponse{"simulation is not configured"})
			return
		}
		writeJSON(w, http.StatusOK, runResponse{running})
	})
	router.POST("/pause", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusOK, runResponse{d.SetRun(false)})
	})
	router.POST("/config", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if !limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{"too many configuration requests"})
			return
		}
		var req ConfigRequest
		body := http.MaxBytesReader(w, r.Body, maxRequestContentLength)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{"invalid request: " + err.Error()})
			return
		}
		if req.Predators < 0 || req.Prey < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{"populations must not be negative"})
			return
		}
		if err := d.Configure(req.Predators, req.Prey, req.PredatorSource, req.PreySource); err != nil {
			code := http.StatusUnprocessableEntity
			if errors.Is(err, sim.ErrPopulation) {
				code = http.StatusBadRequest
			}
			writeJSON(w, code, errorResponse{err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, d.View())
	})
	router.GET("/ws", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Debug("Websocket upgrade failed", "err", err)
			return
		}
		d.hub.serve(d.subscribe(conn))
	})

	c := cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"*"},
		MaxAge:         600,
	})
	return c.Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("Failed to write response", "err", err)
	}
}
