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
	loglvl "github.com/nabbar/golib/logger/level"

	"github.com/nabbar/udpbcast/envelope"
	"github.com/nabbar/udpbcast/state"
	"github.com/nabbar/udpbcast/transport"
)

type clt struct {
	c Config
	s state.Holder
	k envelope.Codec
	t transport.Transport

	l libatm.Value[liblog.FuncLog]
	d libatm.Value[liblog.Logger]
	h libatm.Value[Handler]

	v libatm.Value[[]netip.AddrPort] // currently-resolved server set

	lr libatm.Value[time.Time] // last registration round
	lv libatm.Value[time.Time] // last resolution round

	x libatm.Value[context.CancelFunc]
	w sync.WaitGroup

	m *mtr
}

func (o *clt) logger() liblog.Logger {
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

func (o *clt) RegisterLogger(fct liblog.FuncLog) {
	o.l.Store(fct)
}

func (o *clt) RegisterHandler(h Handler) {
	o.h.Store(h)
}

func (o *clt) State() state.State {
	return o.s.Load()
}

func (o *clt) IsRunning() bool {
	return o.s.IsOpen()
}

func (o *clt) Local() netip.AddrPort {
	return o.t.Local()
}

func (o *clt) Group() uint32 {
	return o.c.Group
}

func (o *clt) Servers() []netip.AddrPort {
	srv := o.v.Load()

	res := make([]netip.AddrPort, len(srv))
	copy(res, srv)

	return res
}

func (o *clt) Metrics() Metrics {
	return o.m.snapshot()
}

func (o *clt) PauseNetwork(pause bool) {
	o.t.Pause(pause)
}

func (o *clt) Start(ctx context.Context) liberr.Error {
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

	ctx, cnl := context.WithCancel(ctx)
	o.x.Store(cnl)

	now := time.Now().UTC()
	o.lv.Store(now)
	o.lr.Store(now)
	o.resolve(ctx)

	o.s.Store(state.Open)

	o.w.Add(2)
	go o.runReceive()
	go o.runTick(ctx)

	o.sendRegister(now)

	o.logger().Info("broadcast client bound on %s for group %d", nil, o.t.Local().String(), o.c.Group)
	return nil
}

func (o *clt) Close() liberr.Error {
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
	o.logger().Info("broadcast client on %s closed", nil, o.c.Bind.Address)

	return err
}

func (o *clt) Broadcast(payload []byte) liberr.Error {
	if !o.s.IsOpen() {
		return ErrorEngineNotRunning.Error(nil)
	}

	srv := o.v.Load()

	if len(srv) == 0 {
		return nil
	}

	raw, err := o.k.Encode(envelope.Envelope{
		Type:    envelope.TypeBroadcast,
		Group:   o.c.Group,
		Time:    time.Now().UTC(),
		Source:  o.t.Local().Addr(),
		Payload: payload,
	})

	if err != nil {
		return err
	}

	o.m.incBroadcast()

	for _, dst := range srv {
		if e := o.t.Send(raw, dst); e != nil {
			o.m.incSendFail()
			o.logger().Debug("sending broadcast to %s failed: %v", nil, dst.String(), e)
		}
	}

	return nil
}

// sendRegister announces this client to every resolved server.
func (o *clt) sendRegister(now time.Time) {
	raw, err := o.k.Encode(envelope.Envelope{
		Type:   envelope.TypeClientRegister,
		Group:  o.c.Group,
		Time:   now,
		Source: o.t.Local().Addr(),
	})

	if err != nil {
		o.logger().Warning("encoding client register failed: %v", nil, err)
		return
	}

	for _, dst := range o.v.Load() {
		if e := o.t.Send(raw, dst); e != nil {
			o.m.incSendFail()
			o.logger().Debug("registering with %s failed: %v", nil, dst.String(), e)
		}
	}
}

// sendUnregister announces the shutdown once, best effort, to every
// resolved server.
func (o *clt) sendUnregister(now time.Time) {
	raw, err := o.k.Encode(envelope.Envelope{
		Type:   envelope.TypeClientUnregister,
		Group:  o.c.Group,
		Time:   now,
		Source: o.t.Local().Addr(),
	})

	if err != nil {
		o.logger().Warning("encoding client unregister failed: %v", nil, err)
		return
	}

	for _, dst := range o.v.Load() {
		if e := o.t.Send(raw, dst); e != nil {
			o.m.incSendFail()
			o.logger().Debug("unregistering from %s failed: %v", nil, dst.String(), e)
		}
	}
}
