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

package membership

import (
	"net/netip"
	"time"
)

// ServerEntry is one known peer server of the cluster.
type ServerEntry struct {
	// Endpoint is the peer's bound address, the table key.
	Endpoint netip.AddrPort `json:"endpoint"`

	// Registered is the instant the peer joined the cluster. It is set on
	// initial insert and preserved across refreshes; it orders the
	// deterministic master election.
	Registered time.Time `json:"registered"`

	// LastSeen is the instant the peer was last heard of.
	LastSeen time.Time `json:"last_seen"`
}

// ClientEntry is one client registered for broadcast delivery.
type ClientEntry struct {
	// Endpoint is the client's address, the table key and the fan-out
	// destination.
	Endpoint netip.AddrPort `json:"endpoint"`

	// Group is the broadcast group the client registered for.
	Group uint32 `json:"group"`

	// LastSeen is the instant the client was last heard of.
	LastSeen time.Time `json:"last_seen"`
}
