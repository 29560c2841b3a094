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

package transport

import (
	"errors"
	"net"
	"net/netip"
	"sync"

	libatm "github.com/nabbar/golib/atomic"
	liberr "github.com/nabbar/golib/errors"
)

type trs struct {
	c Config
	m sync.Mutex
	u *net.UDPConn
	p libatm.Value[bool]
}

func (o *trs) conn() *net.UDPConn {
	o.m.Lock()
	defer o.m.Unlock()

	return o.u
}

func (o *trs) Bind() liberr.Error {
	o.m.Lock()
	defer o.m.Unlock()

	if o.u != nil {
		return nil
	}

	adr, e := net.ResolveUDPAddr("udp", o.c.Address)
	if e != nil {
		return ErrorBindAddress.Error(e)
	}

	con, e := net.ListenUDP("udp", adr)
	if e != nil {
		return ErrorBindListen.Error(e)
	}

	if o.c.BufferSize > 0 {
		// buffer sizes are hints, the OS may clamp or refuse them
		_ = con.SetReadBuffer(o.c.BufferSize)
		_ = con.SetWriteBuffer(o.c.BufferSize)
	}

	o.u = con
	return nil
}

func (o *trs) Send(p []byte, dst netip.AddrPort) liberr.Error {
	con := o.conn()

	if con == nil {
		return ErrorNotBound.Error(nil)
	}

	if o.IsPaused() {
		return nil
	}

	if !dst.IsValid() {
		return ErrorSendAddress.Error(nil)
	}

	if _, e := con.WriteToUDPAddrPort(p, dst); e != nil {
		if errors.Is(e, net.ErrClosed) {
			return ErrorClosed.Error(e)
		}

		return ErrorSend.Error(e)
	}

	return nil
}

func (o *trs) Receive(buf []byte) (int, netip.AddrPort, liberr.Error) {
	for {
		con := o.conn()

		if con == nil {
			return 0, netip.AddrPort{}, ErrorClosed.Error(nil)
		}

		n, src, e := con.ReadFromUDPAddrPort(buf)

		if e != nil {
			if errors.Is(e, net.ErrClosed) {
				return 0, netip.AddrPort{}, ErrorClosed.Error(e)
			}

			return 0, netip.AddrPort{}, ErrorReceive.Error(e)
		}

		if o.IsPaused() {
			continue
		}

		return n, unmapAddrPort(src), nil
	}
}

func (o *trs) Local() netip.AddrPort {
	con := o.conn()

	if con == nil {
		return netip.AddrPort{}
	}

	if adr, ok := con.LocalAddr().(*net.UDPAddr); ok {
		return unmapAddrPort(adr.AddrPort())
	}

	return netip.AddrPort{}
}

func (o *trs) Pause(pause bool) {
	o.p.Store(pause)
}

func (o *trs) IsPaused() bool {
	return o.p.Load()
}

func (o *trs) IsBound() bool {
	return o.conn() != nil
}

func (o *trs) Close() liberr.Error {
	o.m.Lock()
	con := o.u
	o.u = nil
	o.m.Unlock()

	if con == nil {
		return nil
	}

	if e := con.Close(); e != nil {
		return ErrorClose.Error(e)
	}

	return nil
}

// unmapAddrPort strips any IPv4-in-IPv6 mapping so that endpoints compare
// equal by bytes whatever the socket family reported.
func unmapAddrPort(ap netip.AddrPort) netip.AddrPort {
	return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
}
