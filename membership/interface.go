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
	"sync"
	"time"
)

// ServerTable tracks the known peer servers of one node, keyed by endpoint.
// It is shared between the receive path and the tick path of the owning
// engine and is safe for concurrent use.
type ServerTable interface {
	// Upsert inserts or refreshes the peer. On initial insert the entry
	// takes the given registration instant; on refresh the stored one is
	// preserved. The resulting entry is returned.
	Upsert(ep netip.AddrPort, registered, seen time.Time) ServerEntry

	// Remove deletes the peer, reporting whether it was present.
	Remove(ep netip.AddrPort) bool

	// Get returns the entry for the endpoint.
	Get(ep netip.AddrPort) (ServerEntry, bool)

	// Len returns the number of live entries.
	Len() int

	// Snapshot returns a copy of all entries, ordered by endpoint bytes.
	Snapshot() []ServerEntry

	// Sweep removes every entry unheard of for longer than the table TTL
	// and returns the removals.
	Sweep(now time.Time) []ServerEntry
}

// ClientTable tracks the clients registered with one node, keyed by
// endpoint. It is safe for concurrent use.
type ClientTable interface {
	// Upsert inserts or refreshes the client with the given group.
	Upsert(ep netip.AddrPort, group uint32, seen time.Time) ClientEntry

	// Remove deletes the client, reporting whether it was present.
	Remove(ep netip.AddrPort) bool

	// Get returns the entry for the endpoint.
	Get(ep netip.AddrPort) (ClientEntry, bool)

	// Len returns the number of live entries.
	Len() int

	// Snapshot returns a copy of all entries, ordered by endpoint bytes.
	Snapshot() []ClientEntry

	// Group returns a copy of the entries registered for the given group.
	Group(group uint32) []ClientEntry

	// Sweep removes every entry unheard of for longer than the table TTL
	// and returns the removals.
	Sweep(now time.Time) []ClientEntry
}

// NewServerTable returns an empty server table expiring entries unheard of
// for longer than ttl.
func NewServerTable(ttl time.Duration) ServerTable {
	return &tbs{
		m: sync.RWMutex{},
		t: ttl,
		e: make(map[netip.AddrPort]ServerEntry),
	}
}

// NewClientTable returns an empty client table expiring entries unheard of
// for longer than ttl.
func NewClientTable(ttl time.Duration) ClientTable {
	return &tbc{
		m: sync.RWMutex{},
		t: ttl,
		e: make(map[netip.AddrPort]ClientEntry),
	}
}
