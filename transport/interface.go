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
	"net/netip"
	"sync"

	libatm "github.com/nabbar/golib/atomic"
	liberr "github.com/nabbar/golib/errors"
)

// Transport is one bound UDP socket. The socket itself is kernel
// thread-safe; Send and Receive may be called from different goroutines
// without additional locking.
type Transport interface {
	// Bind opens the socket on the configured address. Calling Bind on an
	// already bound transport is a no-op.
	Bind() liberr.Error

	// Send transmits one datagram to the destination, best effort. While
	// the transport is paused the datagram is silently dropped.
	Send(p []byte, dst netip.AddrPort) liberr.Error

	// Receive blocks until one datagram arrives, fills buf and returns the
	// number of bytes and the source endpoint. Datagrams arriving while
	// the transport is paused are discarded without returning. A closed
	// transport returns ErrorClosed.
	Receive(buf []byte) (int, netip.AddrPort, liberr.Error)

	// Local returns the bound endpoint, or the zero value before Bind.
	Local() netip.AddrPort

	// Pause gates both directions; used for fault injection in tests.
	Pause(pause bool)

	// IsPaused reports the pause switch state.
	IsPaused() bool

	// IsBound reports whether the socket is currently open.
	IsBound() bool

	// Close releases the socket and unblocks any pending Receive. It is
	// idempotent.
	Close() liberr.Error
}

// New returns an unbound Transport for the given config.
func New(cfg Config) (Transport, liberr.Error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &trs{
		c: cfg,
		m: sync.Mutex{},
		p: libatm.NewValue[bool](),
	}, nil
}
