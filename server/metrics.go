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
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a snapshot of the absorbed-failure and traffic counters of one
// server node. Parse failures and send failures never surface as errors;
// these counters are where they remain observable.
type Metrics struct {
	Received      uint64 `json:"received"`
	ParseFailures uint64 `json:"parse_failures"`
	SendFailures  uint64 `json:"send_failures"`
	Relayed       uint64 `json:"relayed"`
	FannedOut     uint64 `json:"fanned_out"`
	SweptServers  uint64 `json:"swept_servers"`
	SweptClients  uint64 `json:"swept_clients"`
}

type mtr struct {
	recv atomic.Uint64
	pfil atomic.Uint64
	sfil atomic.Uint64
	rlay atomic.Uint64
	fout atomic.Uint64
	swps atomic.Uint64
	swpc atomic.Uint64

	col []prometheus.Collector
}

func newMetrics(reg prometheus.Registerer, bind string) *mtr {
	m := &mtr{}

	if reg == nil {
		return m
	}

	lbl := prometheus.Labels{"bind": bind}

	m.col = []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "udpbcast_server_datagrams_received_total", Help: "Datagrams received by the server engine.", ConstLabels: lbl,
		}, func() float64 { return float64(m.recv.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "udpbcast_server_parse_failures_total", Help: "Datagrams discarded by envelope validation.", ConstLabels: lbl,
		}, func() float64 { return float64(m.pfil.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "udpbcast_server_send_failures_total", Help: "Datagram sends absorbed as failures.", ConstLabels: lbl,
		}, func() float64 { return float64(m.sfil.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "udpbcast_server_broadcasts_relayed_total", Help: "Broadcasts fanned out as cluster master.", ConstLabels: lbl,
		}, func() float64 { return float64(m.rlay.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "udpbcast_server_fanout_datagrams_total", Help: "Datagrams sent during broadcast fan-out.", ConstLabels: lbl,
		}, func() float64 { return float64(m.fout.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "udpbcast_server_swept_servers_total", Help: "Peer server entries removed by TTL sweep.", ConstLabels: lbl,
		}, func() float64 { return float64(m.swps.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "udpbcast_server_swept_clients_total", Help: "Client entries removed by TTL sweep.", ConstLabels: lbl,
		}, func() float64 { return float64(m.swpc.Load()) }),
	}

	for _, c := range m.col {
		// a duplicate registration keeps the engine running without metrics
		_ = reg.Register(c)
	}

	return m
}

func (m *mtr) incReceived()    { m.recv.Add(1) }
func (m *mtr) incParseFail()   { m.pfil.Add(1) }
func (m *mtr) incSendFail()    { m.sfil.Add(1) }
func (m *mtr) incRelayed()     { m.rlay.Add(1) }
func (m *mtr) incFannedOut()   { m.fout.Add(1) }
func (m *mtr) incSweptServer() { m.swps.Add(1) }
func (m *mtr) incSweptClient() { m.swpc.Add(1) }

func (m *mtr) snapshot() Metrics {
	return Metrics{
		Received:      m.recv.Load(),
		ParseFailures: m.pfil.Load(),
		SendFailures:  m.sfil.Load(),
		Relayed:       m.rlay.Load(),
		FannedOut:     m.fout.Load(),
		SweptServers:  m.swps.Load(),
		SweptClients:  m.swpc.Load(),
	}
}
