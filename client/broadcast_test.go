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

package client_test

import (
	"context"
	"net/netip"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/udpbcast/client"
	"github.com/nabbar/udpbcast/server"
)

var _ = Describe("Broadcast Delivery", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc

		relays  []server.Server
		clients []client.Client
	)

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())
		relays = nil
		clients = nil
	})

	AfterEach(func() {
		for _, c := range clients {
			_ = c.Close()
		}

		for _, s := range relays {
			_ = s.Close()
		}

		cancel()
	})

	// startRelays boots a converged cluster with the first node as master.
	startRelays := func(n int) []string {
		addrs := make([]string, n)
		for i := range addrs {
			addrs[i] = freeAddress()
		}

		for _, a := range addrs {
			srv := newRelay(a, addrs)
			Expect(srv.Start(ctx)).To(BeNil())
			relays = append(relays, srv)
			time.Sleep(100 * time.Millisecond)
		}

		Eventually(func() bool {
			if !relays[0].IsMaster() {
				return false
			}

			for _, s := range relays[1:] {
				if s.IsMaster() {
					return false
				}
			}

			return true
		}, 3*time.Second, 50*time.Millisecond).Should(BeTrue())

		return addrs
	}

	// startClient boots one endpoint with its recorder attached.
	startClient := func(addrs []string, group uint32) (client.Client, *recorder) {
		rec := newRecorder()
		clt := newEndpoint(addrs, group)
		clt.RegisterHandler(rec.handler)

		Expect(clt.Start(ctx)).To(BeNil())
		clients = append(clients, clt)

		return clt, rec
	}

	// registered reports whether the relay knows n clients.
	registered := func(srv server.Server, n int) func() bool {
		return func() bool {
			return len(srv.Clients()) == n
		}
	}

	Describe("Fan-out through a single master", func() {
		It("should deliver exactly one copy of every broadcast to every client", func() {
			addrs := startRelays(2)

			c1, r1 := startClient(addrs, 0)
			c2, r2 := startClient(addrs, 0)
			c3, r3 := startClient(addrs, 0)

			Eventually(registered(relays[0], 3), 3*time.Second, 50*time.Millisecond).Should(BeTrue())
			Eventually(registered(relays[1], 3), 3*time.Second, 50*time.Millisecond).Should(BeTrue())

			Expect(c1.Broadcast([]byte("c1"))).To(BeNil())
			Expect(c2.Broadcast([]byte("c2"))).To(BeNil())
			Expect(c3.Broadcast([]byte("c3"))).To(BeNil())

			for _, rec := range []*recorder{r1, r2, r3} {
				Eventually(func() bool {
					return rec.has("c1", "c2", "c3")
				}, 3*time.Second, 50*time.Millisecond).Should(BeTrue())
			}

			// the standby relay must not add a second copy
			time.Sleep(300 * time.Millisecond)

			for _, rec := range []*recorder{r1, r2, r3} {
				Expect(rec.exactlyOnce("c1", "c2", "c3")).To(BeTrue())
			}

			Expect(relays[0].Metrics().Relayed).To(BeNumerically("==", 3))
			Expect(relays[1].Metrics().Relayed).To(BeZero())
		})

		It("should deliver the sender its own broadcast", func() {
			addrs := startRelays(1)

			c1, r1 := startClient(addrs, 0)

			Eventually(registered(relays[0], 1), 3*time.Second, 50*time.Millisecond).Should(BeTrue())

			Expect(c1.Broadcast([]byte("loopback"))).To(BeNil())

			Eventually(func() int {
				return r1.count("loopback")
			}, 3*time.Second, 50*time.Millisecond).Should(Equal(1))
		})

		It("should carry the sender source address to the handler", func() {
			addrs := startRelays(1)

			var (
				got  = make(chan netip.Addr, 1)
				self client.Client
			)

			rec := newRecorder()
			clt := newEndpoint(addrs, 0)
			clt.RegisterHandler(func(src netip.Addr, payload []byte) {
				rec.handler(src, payload)
				select {
				case got <- src:
				default:
				}
			})

			Expect(clt.Start(ctx)).To(BeNil())
			clients = append(clients, clt)
			self = clt

			Eventually(registered(relays[0], 1), 3*time.Second, 50*time.Millisecond).Should(BeTrue())
			Expect(self.Broadcast([]byte("source"))).To(BeNil())

			var src netip.Addr
			Eventually(got, 3*time.Second).Should(Receive(&src))
			Expect(src).To(Equal(self.Local().Addr()))
		})
	})

	Describe("Group isolation", func() {
		It("should deliver only within the broadcast group", func() {
			addrs := startRelays(1)

			c1, r1 := startClient(addrs, 0)
			c2, r2 := startClient(addrs, 0)
			c3, r3 := startClient(addrs, 100)

			Eventually(registered(relays[0], 3), 3*time.Second, 50*time.Millisecond).Should(BeTrue())

			Expect(c1.Broadcast([]byte("c1"))).To(BeNil())
			Expect(c2.Broadcast([]byte("c2"))).To(BeNil())
			Expect(c3.Broadcast([]byte("c3"))).To(BeNil())

			Eventually(func() bool {
				return r1.has("c1", "c2") && r2.has("c1", "c2") && r3.has("c3")
			}, 3*time.Second, 50*time.Millisecond).Should(BeTrue())

			time.Sleep(300 * time.Millisecond)

			Expect(r1.count("c3")).To(BeZero())
			Expect(r2.count("c3")).To(BeZero())
			Expect(r3.count("c1")).To(BeZero())
			Expect(r3.count("c2")).To(BeZero())
		})
	})

	Describe("Handler robustness", func() {
		It("should survive a panicking handler", func() {
			addrs := startRelays(1)

			rec := newRecorder()
			clt := newEndpoint(addrs, 0)
			clt.RegisterHandler(func(src netip.Addr, payload []byte) {
				rec.handler(src, payload)
				if string(payload) == "boom" {
					panic("handler exploded")
				}
			})

			Expect(clt.Start(ctx)).To(BeNil())
			clients = append(clients, clt)

			Eventually(registered(relays[0], 1), 3*time.Second, 50*time.Millisecond).Should(BeTrue())

			Expect(clt.Broadcast([]byte("boom"))).To(BeNil())

			Eventually(func() int {
				return rec.count("boom")
			}, 3*time.Second, 50*time.Millisecond).Should(Equal(1))

			Expect(clt.IsRunning()).To(BeTrue())

			Expect(clt.Broadcast([]byte("after"))).To(BeNil())

			Eventually(func() int {
				return rec.count("after")
			}, 3*time.Second, 50*time.Millisecond).Should(Equal(1))
		})
	})

	Describe("Registration expiry", func() {
		It("should stop delivering to a silent client after the client TTL", func() {
			addrs := startRelays(1)

			c1, _ := startClient(addrs, 0)

			Eventually(registered(relays[0], 1), 3*time.Second, 50*time.Millisecond).Should(BeTrue())

			// closing without unregistering emulates a vanished client;
			// pause keeps the farewell datagram from leaving
			c1.PauseNetwork(true)
			_ = c1.Close()

			Eventually(registered(relays[0], 0), 5*time.Second, 100*time.Millisecond).Should(BeTrue())
		})
	})
})
