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
	"net/netip"
	"time"

	"github.com/nabbar/udpbcast/envelope"
	"github.com/nabbar/udpbcast/transport"
)

func (o *clt) runReceive() {
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

		o.deliver(src, buf[:n])
	}
}

// deliver validates one datagram and hands matching broadcasts to the
// registered handler. Anything else is discarded: the client only ever
// consumes BROADCAST envelopes of its own group.
func (o *clt) deliver(src netip.AddrPort, raw []byte) {
	if !o.s.IsOpen() {
		return
	}

	o.m.incReceived()

	env, err := o.k.Decode(raw, time.Now().UTC())

	if err != nil {
		o.m.incParseFail()
		o.logger().Debug("discarding datagram from %s: %v", nil, src.String(), err)
		return
	}

	if env.Type != envelope.TypeBroadcast || env.Group != o.c.Group {
		return
	}

	h := o.h.Load()

	if h == nil {
		return
	}

	o.m.incDelivered()

	defer func() {
		if rec := recover(); rec != nil {
			o.logger().Error("panic in broadcast handler: %v", nil, rec)
		}
	}()

	h(env.Source, env.Payload)
}
