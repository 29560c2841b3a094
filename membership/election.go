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
	"bytes"
	"encoding/binary"
	"net/netip"
)

// EndpointBytes returns the canonical serialized form of an endpoint: the
// 16-byte address form followed by the big-endian port. It is the
// deterministic tie-break key of the master election.
func EndpointBytes(ep netip.AddrPort) [18]byte {
	var b [18]byte

	a := ep.Addr().As16()
	copy(b[:16], a[:])
	binary.BigEndian.PutUint16(b[16:], ep.Port())

	return b
}

// CompareEndpoint orders two endpoints by their serialized bytes.
func CompareEndpoint(a, b netip.AddrPort) int {
	ab := EndpointBytes(a)
	bb := EndpointBytes(b)

	return bytes.Compare(ab[:], bb[:])
}

// Less is the total order of the master election: earlier registration
// wins, ties broken by the serialized endpoint bytes.
func Less(a, b ServerEntry) bool {
	if !a.Registered.Equal(b.Registered) {
		return a.Registered.Before(b.Registered)
	}

	return CompareEndpoint(a.Endpoint, b.Endpoint) < 0
}

// Master returns the elected endpoint over the given live entries, or false
// when the set is empty. Callers are expected to sweep the table first so
// only live entries take part.
func Master(entries []ServerEntry) (netip.AddrPort, bool) {
	if len(entries) == 0 {
		return netip.AddrPort{}, false
	}

	min := entries[0]

	for _, ent := range entries[1:] {
		if Less(ent, min) {
			min = ent
		}
	}

	return min.Endpoint, true
}

// IsMaster reports whether self is the elected master over the given live
// entries. A node seeing an empty set is not master; a node seeing only
// itself is.
func IsMaster(self netip.AddrPort, entries []ServerEntry) bool {
	if m, ok := Master(entries); ok {
		return m == self
	}

	return false
}
