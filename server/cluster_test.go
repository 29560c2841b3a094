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

package server_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/udpbcast/server"
)

var _ = Describe("Server Cluster", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc

		addrs []string
		nodes []server.Server
	)

	// startCluster boots the nodes in order, spacing the registrations so
	// the first node carries the earliest registration instant.
	startCluster := func(keys ...string) {
		nodes = make([]server.Server, len(addrs))

		for i, a := range addrs {
			nodes[i] = newNode(a, addrs, keys[i])
			Expect(nodes[i].Start(ctx)).To(BeNil())
			time.Sleep(100 * time.Millisecond)
		}
	}

	// converged reports whether every node of the set sees the whole set.
	converged := func(set ...server.Server) bool {
		for _, s := range set {
			for _, a := range addrs {
				if !knows(s, a) {
					return false
				}
			}
		}

		return true
	}

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())
		addrs = []string{freeAddress(), freeAddress(), freeAddress()}
	})

	AfterEach(func() {
		for _, n := range nodes {
			if n != nil {
				_ = n.Close()
			}
		}

		cancel()
	})

	Describe("Discovery", func() {
		It("should converge on the full live set with a single master", func() {
			startCluster(testKeyHex, testKeyHex, testKeyHex)

			Eventually(func() bool {
				return converged(nodes...)
			}, 3*time.Second, 50*time.Millisecond).Should(BeTrue())

			Eventually(func() bool {
				return nodes[0].IsMaster() && !nodes[1].IsMaster() && !nodes[2].IsMaster()
			}, 3*time.Second, 50*time.Millisecond).Should(BeTrue())

			for _, n := range nodes {
				Expect(n.Servers()).To(HaveLen(3))
			}
		})
	})

	Describe("Failover", func() {
		BeforeEach(func() {
			startCluster(testKeyHex, testKeyHex, testKeyHex)

			Eventually(func() bool {
				return converged(nodes...) && nodes[0].IsMaster()
			}, 3*time.Second, 50*time.Millisecond).Should(BeTrue())
		})

		It("should hand the role over when the master closes", func() {
			Expect(nodes[0].Close()).To(BeNil())

			Eventually(func() bool {
				return nodes[1].IsMaster()
			}, 3*time.Second, 50*time.Millisecond).Should(BeTrue())

			Eventually(func() bool {
				return !knows(nodes[1], addrs[0]) && !knows(nodes[2], addrs[0])
			}, 3*time.Second, 50*time.Millisecond).Should(BeTrue())

			Expect(nodes[2].IsMaster()).To(BeFalse())
		})

		It("should hand the role over when the master is partitioned, and back on rejoin", func() {
			nodes[0].PauseNetwork(true)

			Eventually(func() bool {
				return nodes[1].IsMaster() && !knows(nodes[1], addrs[0]) && !knows(nodes[2], addrs[0])
			}, 3*time.Second, 50*time.Millisecond).Should(BeTrue())

			// the isolated node only sees itself and still serves
			Eventually(func() bool {
				return nodes[0].IsMaster() && len(nodes[0].Servers()) == 1
			}, 3*time.Second, 50*time.Millisecond).Should(BeTrue())

			nodes[0].PauseNetwork(false)

			// the rejoining node reclaims its precedence cluster-wide
			Eventually(func() bool {
				return converged(nodes...) &&
					nodes[0].IsMaster() && !nodes[1].IsMaster() && !nodes[2].IsMaster()
			}, 3*time.Second, 50*time.Millisecond).Should(BeTrue())
		})
	})

	Describe("Key mismatch", func() {
		It("should isolate a node carrying a foreign key", func() {
			startCluster(testKeyHex, testKeyHex, testOtherKey)

			Eventually(func() bool {
				return knows(nodes[0], addrs[1]) && knows(nodes[1], addrs[0])
			}, 3*time.Second, 50*time.Millisecond).Should(BeTrue())

			Consistently(func() bool {
				return !knows(nodes[0], addrs[2]) && !knows(nodes[1], addrs[2]) &&
					!knows(nodes[2], addrs[0]) && !knows(nodes[2], addrs[1])
			}, time.Second, 100*time.Millisecond).Should(BeTrue())

			Expect(nodes[0].IsMaster()).To(BeTrue())
			Expect(nodes[2].IsMaster()).To(BeTrue())
			Expect(len(nodes[2].Servers())).To(Equal(1))

			Expect(nodes[0].Metrics().ParseFailures).To(BeNumerically(">", 0))
		})
	})
})
