// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set"
	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/websocket"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsSendQueue    = 64 // pending messages per subscriber before it is dropped
	wsReadLimit    = 1024
)

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// hub fans updates out to websocket subscribers. A subscriber that cannot
// keep up is disconnected rather than slowing the tick driver.
type hub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*wsClient]struct{})}
}

func (h *hub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// remove unregisters c and closes its queue. It is safe to call more than
// once.
func (h *hub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *hub) removeLocked(c *wsClient) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			log.Debug("Dropping slow websocket subscriber", "addr", c.conn.RemoteAddr())
			h.removeLocked(c)
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *hub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// newUpgrader returns a websocket upgrader accepting the given origins.
func newUpgrader(allowedOrigins []string) *websocket.Upgrader {
	origins := mapset.NewSet()
	allowAll := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		if origin != "" {
			origins.Add(strings.ToLower(origin))
		}
	}
	return &websocket.Upgrader{
		ReadBufferSize:  wsReadLimit,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := strings.ToLower(r.Header.Get("Origin"))
			if allowAll || origin == "" || origins.Contains(origin) {
				return true
			}
			log.Warn("Rejected websocket connection", "origin", origin)
			return false
		},
	}
}

// join registers a subscriber whose queue starts with first.
func (h *hub) join(conn *websocket.Conn, first []byte) *wsClient {
	c := &wsClient{conn: conn, send: make(chan []byte, wsSendQueue)}
	c.send <- first
	h.add(c)
	return c
}

// serve runs a joined subscriber until the peer goes away or its queue is
// closed.
func (h *hub) serve(c *wsClient) {
	conn := c.conn
	go func() {
		defer conn.Close()
		for msg := range c.send {
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.remove(c)
				return
			}
		}
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(wsWriteTimeout))
	}()

	// Subscribers only listen; reading detects the peer going away.
	conn.SetReadLimit(wsReadLimit)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(c)
			return
		}
	}
}
