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
	"sort"
	"sync"
	"time"
)

type tbs struct {
	m sync.RWMutex
	t time.Duration
	e map[netip.AddrPort]ServerEntry
}

func (o *tbs) Upsert(ep netip.AddrPort, registered, seen time.Time) ServerEntry {
	o.m.Lock()
	defer o.m.Unlock()

	ent, ok := o.e[ep]

	if !ok {
		ent = ServerEntry{
			Endpoint:   ep,
			Registered: registered,
		}
	}

	ent.LastSeen = seen
	o.e[ep] = ent

	return ent
}

func (o *tbs) Remove(ep netip.AddrPort) bool {
	o.m.Lock()
	defer o.m.Unlock()

	if _, ok := o.e[ep]; !ok {
		return false
	}

	delete(o.e, ep)
	return true
}

func (o *tbs) Get(ep netip.AddrPort) (ServerEntry, bool) {
	o.m.RLock()
	defer o.m.RUnlock()

	ent, ok := o.e[ep]
	return ent, ok
}

func (o *tbs) Len() int {
	o.m.RLock()
	defer o.m.RUnlock()

	return len(o.e)
}

func (o *tbs) Snapshot() []ServerEntry {
	o.m.RLock()
	defer o.m.RUnlock()

	res := make([]ServerEntry, 0, len(o.e))
	for _, ent := range o.e {
		res = append(res, ent)
	}

	sort.Slice(res, func(i, j int) bool {
		return CompareEndpoint(res[i].Endpoint, res[j].Endpoint) < 0
	})

	return res
}

func (o *tbs) Sweep(now time.Time) []ServerEntry {
	o.m.Lock()
	defer o.m.Unlock()

	var del []ServerEntry

	for ep, ent := range o.e {
		if now.Sub(ent.LastSeen) > o.t {
			del = append(del, ent)
			delete(o.e, ep)
		}
	}

	return del
}

type tbc struct {
	m sync.RWMutex
	t time.Duration
	e map[netip.AddrPort]ClientEntry
}

func (o *tbc) Upsert(ep netip.AddrPort, group uint32, seen time.Time) ClientEntry {
	o.m.Lock()
	defer o.m.Unlock()

	ent := ClientEntry{
		Endpoint: ep,
		Group:    group,
		LastSeen: seen,
	}

	o.e[ep] = ent
	return ent
}

func (o *tbc) Remove(ep netip.AddrPort) bool {
	o.m.Lock()
	defer o.m.Unlock()

	if _, ok := o.e[ep]; !ok {
		return false
	}

	delete(o.e, ep)
	return true
}

func (o *tbc) Get(ep netip.AddrPort) (ClientEntry, bool) {
	o.m.RLock()
	defer o.m.RUnlock()

	ent, ok := o.e[ep]
	return ent, ok
}

func (o *tbc) Len() int {
	o.m.RLock()
	defer o.m.RUnlock()

	return len(o.e)
}

func (o *tbc) Snapshot() []ClientEntry {
	o.m.RLock()
	defer o.m.RUnlock()

	res := make([]ClientEntry, 0, len(o.e))
	for _, ent := range o.e {
		res = append(res, ent)
	}

	sortClients(res)
	return res
}

func (o *tbc) Group(group uint32) []ClientEntry {
	o.m.RLock()
	defer o.m.RUnlock()

	var res []ClientEntry

	for _, ent := range o.e {
		if ent.Group == group {
			res = append(res, ent)
		}
	}

	sortClients(res)
	return res
}

func (o *tbc) Sweep(now time.Time) []ClientEntry {
	o.m.Lock()
	defer o.m.Unlock()

	var del []ClientEntry

	for ep, ent := range o.e {
		if now.Sub(ent.LastSeen) > o.t {
			del = append(del, ent)
			delete(o.e, ep)
		}
	}

	return del
}

func sortClients(res []ClientEntry) {
	sort.Slice(res, func(i, j int) bool {
		return CompareEndpoint(res[i].Endpoint, res[j].Endpoint) < 0
	})
}
