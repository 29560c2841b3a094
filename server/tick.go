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
	"encoding/binary"
	"time"

	"github.com/nabbar/udpbcast/envelope"
	"github.com/nabbar/udpbcast/membership"
)

func (o *srv) runTick(ctx context.Context) {
	defer o.w.Done()

	tck := time.NewTicker(o.c.TaskInterval.Time())
	defer tck.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case now := <-tck.C:
			o.tick(now.UTC())
		}
	}
}

func (o *srv) tick(now time.Time) {
	defer func() {
		if rec := recover(); rec != nil {
			o.logger().Error("panic in background task: %v", nil, rec)
		}
	}()

	if !o.s.IsOpen() {
		return
	}

	for _, ent := range o.tbs.Sweep(now) {
		o.m.incSweptServer()
		o.logger().Info("peer server %s expired", nil, ent.Endpoint.String())
	}

	for _, ent := range o.tbc.Sweep(now) {
		o.m.incSweptClient()
		o.logger().Debug("client %s expired", nil, ent.Endpoint.String())
	}

	// the self entry is refreshed locally so a paused or send-degraded
	// node still keeps itself alive and the isolation property holds
	o.tbs.Upsert(o.t.Local(), o.r.Load(), now)

	if now.Sub(o.a.Load()) >= o.c.KeepAliveInterval.Time() {
		o.a.Store(now)
		o.sendKeepAlive(now)
	}

	o.updateMaster()
}

// sendKeepAlive gossips one SERVER_REGISTER round to every configured peer.
// The payload carries this node's registration instant.
func (o *srv) sendKeepAlive(now time.Time) {
	pay := make([]byte, 8)
	binary.BigEndian.PutUint64(pay, envelope.TimeToTicks(o.r.Load()))

	raw, err := o.k.Encode(envelope.Envelope{
		Type:    envelope.TypeServerRegister,
		Time:    now,
		Source:  o.t.Local().Addr(),
		Payload: pay,
	})

	if err != nil {
		o.logger().Warning("encoding keep-alive failed: %v", nil, err)
		return
	}

	for _, dst := range o.p {
		if e := o.t.Send(raw, dst); e != nil {
			o.m.incSendFail()
			o.logger().Debug("sending keep-alive to %s failed: %v", nil, dst.String(), e)
		}
	}
}

// updateMaster sweeps expired peers, recomputes the master role over the
// remaining live set and logs transitions.
func (o *srv) updateMaster() {
	for _, ent := range o.tbs.Sweep(time.Now().UTC()) {
		o.m.incSweptServer()
		o.logger().Info("peer server %s expired", nil, ent.Endpoint.String())
	}

	was := o.b.Load()
	is := membership.IsMaster(o.t.Local(), o.tbs.Snapshot())

	if is == was {
		return
	}

	o.b.Store(is)

	if is {
		o.logger().Info("node %s gained the master role", nil, o.t.Local().String())
	} else {
		o.logger().Info("node %s lost the master role", nil, o.t.Local().String())
	}
}
