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
	"net"
	"net/netip"
	"sort"

	"github.com/nabbar/udpbcast/membership"
)

// resolve refreshes the active server set from the configured entries.
// Literal endpoints bypass resolution; names go through the system
// resolver. An unresolvable name contributes nothing until it resolves
// again, and the whole set may legitimately be empty.
func (o *clt) resolve(ctx context.Context) {
	var (
		res  = make([]netip.AddrPort, 0, len(o.c.Servers))
		seen = make(map[netip.AddrPort]bool, len(o.c.Servers))
	)

	add := func(ap netip.AddrPort) {
		ap = netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())

		if !seen[ap] {
			seen[ap] = true
			res = append(res, ap)
		}
	}

	for _, s := range o.c.Servers {
		if ap, e := netip.ParseAddrPort(s); e == nil {
			add(ap)
			continue
		}

		host, port, e := net.SplitHostPort(s)
		if e != nil {
			o.logger().Debug("skipping malformed server entry %q: %v", nil, s, e)
			continue
		}

		num, e := net.DefaultResolver.LookupPort(ctx, "udp", port)
		if e != nil {
			o.logger().Debug("skipping server entry %q: %v", nil, s, e)
			continue
		}

		adr, e := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
		if e != nil {
			o.logger().Debug("server name %q did not resolve: %v", nil, host, e)
			continue
		}

		for _, a := range adr {
			add(netip.AddrPortFrom(a, uint16(num))) //nolint:gosec
		}
	}

	sort.Slice(res, func(i, j int) bool {
		return membership.CompareEndpoint(res[i], res[j]) < 0
	})

	o.v.Store(res)
}
