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

package server

import (
	"context"
	"net/netip"
	"sync"
	"time"

	libatm "github.com/nabbar/golib/atomic"
	liberr "github.com/nabbar/golib/errors"
	liblog "github.com/nabbar/golib/logger"

	"github.com/nabbar/udpbcast/envelope"
	"github.com/nabbar/udpbcast/membership"
	"github.com/nabbar/udpbcast/state"
	"github.com/nabbar/udpbcast/transport"
)

// Server is one broadcast relay server node.
type Server interface {
	// Start binds the transport, installs the self entry, sends one
	// initial gossip round and spawns the receive loop and the background
	// tick. It is a no-op on an engine already Open. Configuration and
	// bind failures surface here and the engine never reaches Open.
	Start(ctx context.Context) liberr.Error

	// Close announces SERVER_UNREGISTER once to every known live peer,
	// stops the background tasks and closes the transport. It is
	// idempotent.
	Close() liberr.Error

	// State returns the lifecycle step of the engine.
	State() state.State

	// IsRunning reports whether the engine is Open.
	IsRunning() bool

	// IsMaster reports whether this node is the elected cluster master.
	IsMaster() bool

	// Local returns the bound endpoint once the engine started.
	Local() netip.AddrPort

	// Servers returns a snapshot of the known peer servers, self included.
	Servers() []membership.ServerEntry

	// Clients returns a snapshot of the registered clients.
	Clients() []membership.ClientEntry

	// Metrics returns a snapshot of the engine counters.
	Metrics() Metrics

	// RegisterLogger installs the logger factory used by the engine.
	RegisterLogger(fct liblog.FuncLog)

	// PauseNetwork gates the transport in both directions; a test-only
	// fault-injection switch emulating a network partition.
	PauseNetwork(pause bool)
}

// New returns a stopped server node for the given config. The config is
// validated here so a misconfigured node fails before any socket exists.
func New(cfg Config) (Server, liberr.Error) {
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

	prs, err := cfg.peers()
	if err != nil {
		return nil, err
	}

	trp, err := transport.New(cfg.Bind)
	if err != nil {
		return nil, err
	}

	return &srv{
		c:   cfg,
		s:   state.New(),
		k:   cdc,
		t:   trp,
		p:   prs,
		l:   libatm.NewValue[liblog.FuncLog](),
		d:   libatm.NewValue[liblog.Logger](),
		r:   libatm.NewValue[time.Time](),
		a:   libatm.NewValue[time.Time](),
		b:   libatm.NewValue[bool](),
		x:   libatm.NewValue[context.CancelFunc](),
		w:   sync.WaitGroup{},
		tbs: membership.NewServerTable(cfg.ServerTTL.Time()),
		tbc: membership.NewClientTable(cfg.ClientTTL.Time()),
		m:   newMetrics(cfg.Monitor, cfg.Bind.Address),
	}, nil
}
