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
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a snapshot of the absorbed-failure and traffic counters of one
// client endpoint.
type Metrics struct {
	Received      uint64 `json:"received"`
	ParseFailures uint64 `json:"parse_failures"`
	SendFailures  uint64 `json:"send_failures"`
	Broadcasts    uint64 `json:"broadcasts"`
	Delivered     uint64 `json:"delivered"`
}

type mtr struct {
	recv atomic.Uint64
	pfil atomic.Uint64
	sfil atomic.Uint64
	bcst atomic.Uint64
	dlvr atomic.Uint64

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
			Name: "udpbcast_client_datagrams_received_total", Help: "Datagrams received by the client endpoint.", ConstLabels: lbl,
		}, func() float64 { return float64(m.recv.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "udpbcast_client_parse_failures_total", Help: "Datagrams discarded by envelope validation.", ConstLabels: lbl,
		}, func() float64 { return float64(m.pfil.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "udpbcast_client_send_failures_total", Help: "Datagram sends absorbed as failures.", ConstLabels: lbl,
		}, func() float64 { return float64(m.sfil.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "udpbcast_client_broadcasts_total", Help: "Broadcasts encoded and sent to at least one resolved server.", ConstLabels: lbl,
		}, func() float64 { return float64(m.bcst.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "udpbcast_client_payloads_delivered_total", Help: "Broadcast payloads handed to the handler.", ConstLabels: lbl,
		}, func() float64 { return float64(m.dlvr.Load()) }),
	}

	for _, c := range m.col {
		// a duplicate registration keeps the engine running without metrics
		_ = reg.Register(c)
	}

	return m
}

func (m *mtr) incReceived()  { m.recv.Add(1) }
func (m *mtr) incParseFail() { m.pfil.Add(1) }
func (m *mtr) incSendFail()  { m.sfil.Add(1) }
func (m *mtr) incBroadcast() { m.bcst.Add(1) }
func (m *mtr) incDelivered() { m.dlvr.Add(1) }

func (m *mtr) snapshot() Metrics {
	return Metrics{
		Received:      m.recv.Load(),
		ParseFailures: m.pfil.Load(),
		SendFailures:  m.sfil.Load(),
		Broadcasts:    m.bcst.Load(),
		Delivered:     m.dlvr.Load(),
	}
}
