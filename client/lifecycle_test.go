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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/udpbcast/client"
	"github.com/nabbar/udpbcast/state"
)

var _ = Describe("Client Lifecycle", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())
	})

	AfterEach(func() {
		cancel()
	})

	It("should be Created before Start", func() {
		clt := newEndpoint([]string{"127.0.0.1:7000"}, 0)

		Expect(clt.State()).To(Equal(state.Created))
		Expect(clt.IsRunning()).To(BeFalse())
	})

	It("should reach Open on Start and resolve literal endpoints", func() {
		clt := newEndpoint([]string{"127.0.0.1:7000"}, 0)
		defer func() { _ = clt.Close() }()

		Expect(clt.Start(ctx)).To(BeNil())

		Expect(clt.IsRunning()).To(BeTrue())
		Expect(clt.Local().IsValid()).To(BeTrue())
		Expect(clt.Servers()).To(Equal([]netip.AddrPort{netip.MustParseAddrPort("127.0.0.1:7000")}))
	})

	It("should resolve a DNS name to its addresses", func() {
		clt := newEndpoint([]string{"localhost:7000"}, 0)
		defer func() { _ = clt.Close() }()

		Expect(clt.Start(ctx)).To(BeNil())
		Expect(clt.Servers()).To(ContainElement(netip.MustParseAddrPort("127.0.0.1:7000")))
	})

	It("should start with an unresolvable name and an empty server set", func() {
		clt := newEndpoint([]string{"no-such-host.invalid:7000"}, 0)
		defer func() { _ = clt.Close() }()

		Expect(clt.Start(ctx)).To(BeNil())
		Expect(clt.IsRunning()).To(BeTrue())
		Expect(clt.Servers()).To(BeEmpty())
	})

	It("should make a double Start a no-op", func() {
		clt := newEndpoint([]string{"127.0.0.1:7000"}, 0)
		defer func() { _ = clt.Close() }()

		Expect(clt.Start(ctx)).To(BeNil())
		Expect(clt.Start(ctx)).To(BeNil())
		Expect(clt.IsRunning()).To(BeTrue())
	})

	It("should make Close idempotent", func() {
		clt := newEndpoint([]string{"127.0.0.1:7000"}, 0)

		Expect(clt.Start(ctx)).To(BeNil())
		Expect(clt.Close()).To(BeNil())
		Expect(clt.Close()).To(BeNil())
		Expect(clt.State()).To(Equal(state.Closed))
	})

	It("should refuse to broadcast when not running", func() {
		clt := newEndpoint([]string{"127.0.0.1:7000"}, 0)

		err := clt.Broadcast([]byte("x"))

		Expect(err).To(HaveOccurred())
		Expect(err.IsCode(client.ErrorEngineNotRunning)).To(BeTrue())
	})

	It("should treat a broadcast with no resolved server as a silent no-op", func() {
		clt := newEndpoint([]string{"no-such-host.invalid:7000"}, 0)
		defer func() { _ = clt.Close() }()

		Expect(clt.Start(ctx)).To(BeNil())
		Expect(clt.Broadcast([]byte("nowhere"))).To(BeNil())
		Expect(clt.Metrics().SendFailures).To(BeZero())
	})

	It("should expose its group", func() {
		clt := newEndpoint([]string{"127.0.0.1:7000"}, 77)

		Expect(clt.Group()).To(Equal(uint32(77)))
	})
})
