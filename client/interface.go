/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package client

import (
	"context"
	"net/netip"
	"sync"
	"time"

	libatm "github.com/nabbar/golib/atomic"
	liberr "github.com/nabbar/golib/errors"
	liblog "github.com/nabbar/golib/logger"

	"github.com/nabbar/udpbcast/envelope"
	"github.com/nabbar/udpbcast/state"
	"github.com/nabbar/udpbcast/transport"
)

// Handler is the delivery sink for received broadcasts. It is invoked once
// per accepted BROADCAST envelope of the client's own group, outside any
// engine lock, with the original sender's address and the opaque payload.
// A panicking handler is recovered and logged, never propagated.
type Handler func(source netip.Addr, payload []byte)

// Client is one broadcast client endpoint.
type Client interface {
	// Start binds the transport, resolves the configured servers, sends
	// an initial registration round and spawns the receive loop and the
	// background tick. It is a no-op on an engine already Open.
	// Configuration and bind failures surface here and the engine never
	// reaches Open; resolution failures do not (names may resolve later).
	Start(ctx context.Context) liberr.Error

	// Close announces CLIENT_UNREGISTER once to every resolved server,
	// stops the background tasks and closes the transport. It is
	// idempotent.
	Close() liberr.Error

	// State returns the lifecycle step of the engine.
	State() state.State

	// IsRunning reports whether the engine is Open.
	IsRunning() bool

	// Local returns the bound endpoint once the engine started.
	Local() netip.AddrPort

	// Group returns the broadcast group of this client.
	Group() uint32

	// Servers returns the currently-resolved server endpoints.
	Servers() []netip.AddrPort

	// Broadcast sends one copy of the payload to every currently-resolved
	// server. With no resolved server it is a silent no-op. Transport
	// failures are absorbed; an error is returned only when the engine is
	// not Open or the payload exceeds the envelope bound.
	Broadcast(payload []byte) liberr.Error

	// RegisterHandler installs the delivery sink for received broadcasts.
	RegisterHandler(h Handler)

	// RegisterLogger installs the logger factory used by the engine.
	RegisterLogger(fct liblog.FuncLog)

	// Metrics returns a snapshot of the engine counters.
	Metrics() Metrics

	// PauseNetwork gates the transport in both directions; a test-only
	// fault-injection switch emulating a network partition.
	PauseNetwork(pause bool)
}

// New returns a stopped client for the given config. The config is
// validated here so a misconfigured client fails before any socket exists.
func New(cfg Config) (Client, liberr.Error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg = cfg.withDefaults()

	key, err := envelope.ParseKey(cfg.SharedKey)
	if err != nil {
		return nil, err
	}

	cdc, err := envelope.New(key, cfg.MessageTTL.Time())
	if err != nil {
		return nil, err
	}

	trp, err := transport.New(cfg.Bind)
	if err != nil {
		return nil, err
	}

	return &clt{
		c:  cfg,
		s:  state.New(),
		k:  cdc,
		t:  trp,
		l:  libatm.NewValue[liblog.FuncLog](),
		d:  libatm.NewValue[liblog.Logger](),
		h:  libatm.NewValue[Handler](),
		v:  libatm.NewValue[[]netip.AddrPort](),
		lr: libatm.NewValue[time.Time](),
		lv: libatm.NewValue[time.Time](),
		x:  libatm.NewValue[context.CancelFunc](),
		w:  sync.WaitGroup{},
		m:  newMetrics(cfg.Monitor, cfg.Bind.Address),
	}, nil
}
