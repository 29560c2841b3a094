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
	loglvl "github.com/nabbar/golib/logger/level"

	"github.com/nabbar/udpbcast/envelope"
	"github.com/nabbar/udpbcast/membership"
	"github.com/nabbar/udpbcast/state"
	"github.com/nabbar/udpbcast/transport"
)

type srv struct {
	c Config
	s state.Holder
	k envelope.Codec
	t transport.Transport
	p []netip.AddrPort

	l libatm.Value[liblog.FuncLog]
	d libatm.Value[liblog.Logger]

	r libatm.Value[time.Time] // own registration instant
	a libatm.Value[time.Time] // last keep-alive round
	b libatm.Value[bool]      // master role
	x libatm.Value[context.CancelFunc]
	w sync.WaitGroup

	tbs membership.ServerTable
	tbc membership.ClientTable

	m *mtr
}

func (o *srv) logger() liblog.Logger {
	if f := o.l.Load(); f != nil {
		if l := f(); l != nil {
			return l
		}
	}

	if l := o.d.Load(); l != nil {
		return l
	}

	l := liblog.New(func() context.Context { return context.Background() })
	l.SetLevel(loglvl.InfoLevel)
	o.d.Store(l)

	return l
}

func (o *srv) RegisterLogger(fct liblog.FuncLog) {
	o.l.Store(fct)
}

func (o *srv) State() state.State {
	return o.s.Load()
}

func (o *srv) IsRunning() bool {
	return o.s.IsOpen()
}

func (o *srv) IsMaster() bool {
	return o.b.Load()
}

func (o *srv) Local() netip.AddrPort {
	return o.t.Local()
}

func (o *srv) Servers() []membership.ServerEntry {
	for range o.tbs.Sweep(time.Now().UTC()) {
		o.m.incSweptServer()
	}

	return o.tbs.Snapshot()
}

func (o *srv) Clients() []membership.ClientEntry {
	for range o.tbc.Sweep(time.Now().UTC()) {
		o.m.incSweptClient()
	}

	return o.tbc.Snapshot()
}

func (o *srv) Metrics() Metrics {
	return o.m.snapshot()
}

func (o *srv) PauseNetwork(pause bool) {
	o.t.Pause(pause)
}

func (o *srv) Start(ctx context.Context) liberr.Error {
	if !o.s.CompareAndSwap(state.Created, state.Opening) && !o.s.CompareAndSwap(state.Closed, state.Opening) {
		if o.s.Load() == state.Closing {
			return ErrorEngineClosing.Error(nil)
		}

		// already Opening or Open
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if err := o.t.Bind(); err != nil {
		o.s.Store(state.Closing)
		o.s.Store(state.Closed)
		return ErrorEngineBind.Error(err)
	}

	now := time.Now().UTC()
	o.r.Store(now)
	o.a.Store(now)
	o.tbs.Upsert(o.t.Local(), now, now)
	o.updateMaster()

	ctx, cnl := context.WithCancel(ctx)
	o.x.Store(cnl)

	o.s.Store(state.Open)

	o.w.Add(2)
	go o.runReceive()
	go o.runTick(ctx)

	o.sendKeepAlive(now)

	o.logger().Info("broadcast server listening on %s", nil, o.t.Local().String())
	return nil
}

func (o *srv) Close() liberr.Error {
	if !o.s.CompareAndSwap(state.Open, state.Closing) && !o.s.CompareAndSwap(state.Opening, state.Closing) {
		// never opened or already closing down
		o.s.CompareAndSwap(state.Created, state.Closed)
		return nil
	}

	o.sendUnregister(time.Now().UTC())

	if cnl := o.x.Load(); cnl != nil {
		cnl()
	}

	err := o.t.Close()
	o.w.Wait()

	o.s.Store(state.Closed)
	o.logger().Info("broadcast server on %s closed", nil, o.c.Bind.Address)

	return err
}

// sendUnregister announces the shutdown once, best effort, to every known
// live peer except self.
func (o *srv) sendUnregister(now time.Time) {
	raw, err := o.k.Encode(envelope.Envelope{
		Type:   envelope.TypeServerUnregister,
		Time:   now,
		Source: o.t.Local().Addr(),
	})

	if err != nil {
		o.logger().Warning("encoding server unregister failed: %v", nil, err)
		return
	}

	self := o.t.Local()

	for _, ent := range o.tbs.Snapshot() {
		if ent.Endpoint == self {
			continue
		}

		if e := o.t.Send(raw, ent.Endpoint); e != nil {
			o.m.incSendFail()
			o.logger().Debug("sending unregister to %s failed: %v", nil, ent.Endpoint.String(), e)
		}
	}
}
