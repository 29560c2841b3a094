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
	"encoding/binary"
	"net/netip"
	"time"

	"github.com/nabbar/udpbcast/envelope"
	"github.com/nabbar/udpbcast/transport"
)

func (o *srv) runReceive() {
	defer o.w.Done()

	buf := make([]byte, envelope.MaxDatagramSize)

	for {
		n, src, err := o.t.Receive(buf)

		if err != nil {
			if err.IsCode(transport.ErrorClosed) || !o.s.IsOpen() {
				return
			}

			o.logger().Warning("receive failed: %v", nil, err)
			continue
		}

		o.dispatch(src, buf[:n])
	}
}

func (o *srv) dispatch(src netip.AddrPort, raw []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			o.logger().Error("panic while processing datagram from %s: %v", nil, src.String(), rec)
		}
	}()

	if !o.s.IsOpen() {
		return
	}

	now := time.Now().UTC()
	o.m.incReceived()

	env, err := o.k.Decode(raw, now)

	if err != nil {
		o.m.incParseFail()
		o.logger().Debug("discarding datagram from %s: %v", nil, src.String(), err)
		return
	}

	switch env.Type {
	case envelope.TypeServerRegister:
		o.tbs.Upsert(src, registrationTime(env), now)
		o.updateMaster()

	case envelope.TypeServerUnregister:
		if o.tbs.Remove(src) {
			o.logger().Info("peer server %s unregistered", nil, src.String())
			o.updateMaster()
		}

	case envelope.TypeClientRegister:
		o.tbc.Upsert(src, env.Group, now)

	case envelope.TypeClientUnregister:
		o.tbc.Remove(src)

	case envelope.TypeBroadcast:
		o.relay(env, now)
	}
}

// registrationTime extracts the sender's registration instant from a
// SERVER_REGISTER payload, falling back to the envelope timestamp for a
// peer that does not announce one. The payload value lets an expired peer
// reclaim its precedence when it rejoins after a partition.
func registrationTime(env envelope.Envelope) time.Time {
	if len(env.Payload) >= 8 {
		return envelope.TicksToTime(binary.BigEndian.Uint64(env.Payload[:8]))
	}

	return env.Time
}

// relay fans one broadcast out to every registered client of the same
// group. Only the elected master relays; everyone else drops the datagram,
// which is what keeps delivery at most once per client.
func (o *srv) relay(env envelope.Envelope, now time.Time) {
	if !o.IsMaster() {
		return
	}

	raw, err := o.k.Encode(envelope.Envelope{
		Type:    envelope.TypeBroadcast,
		Group:   env.Group,
		Time:    now,
		Source:  env.Source,
		Payload: env.Payload,
	})

	if err != nil {
		o.logger().Warning("re-encoding broadcast failed: %v", nil, err)
		return
	}

	o.m.incRelayed()

	for _, ent := range o.tbc.Group(env.Group) {
		if e := o.t.Send(raw, ent.Endpoint); e != nil {
			o.m.incSendFail()
			o.logger().Debug("fan-out to %s failed: %v", nil, ent.Endpoint.String(), e)
		} else {
			o.m.incFannedOut()
		}
	}
}
