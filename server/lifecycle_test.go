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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/udpbcast/server"
	"github.com/nabbar/udpbcast/state"
)

var _ = Describe("Server Lifecycle", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		srv    server.Server
	)

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())
		srv = newNode(freeAddress(), nil, testKeyHex)
	})

	AfterEach(func() {
		_ = srv.Close()
		cancel()
	})

	It("should be Created before Start", func() {
		Expect(srv.State()).To(Equal(state.Created))
		Expect(srv.IsRunning()).To(BeFalse())
		Expect(srv.IsMaster()).To(BeFalse())
	})

	It("should reach Open on Start", func() {
		Expect(srv.Start(ctx)).To(BeNil())

		Expect(srv.State()).To(Equal(state.Open))
		Expect(srv.IsRunning()).To(BeTrue())
		Expect(srv.Local().IsValid()).To(BeTrue())
	})

	It("should tolerate a nil context", func() {
		Expect(srv.Start(nil)).To(BeNil())
		Expect(srv.IsRunning()).To(BeTrue())
	})

	It("should make a double Start a no-op", func() {
		Expect(srv.Start(ctx)).To(BeNil())

		local := srv.Local()
		Expect(srv.Start(ctx)).To(BeNil())
		Expect(srv.Local()).To(Equal(local))
	})

	It("should install the self entry on Start", func() {
		Expect(srv.Start(ctx)).To(BeNil())

		srvs := srv.Servers()
		Expect(srvs).To(HaveLen(1))
		Expect(srvs[0].Endpoint).To(Equal(srv.Local()))
	})

	It("should declare a singleton node master", func() {
		Expect(srv.Start(ctx)).To(BeNil())
		Expect(srv.IsMaster()).To(BeTrue())
	})

	It("should reach Closed on Close and stay there", func() {
		Expect(srv.Start(ctx)).To(BeNil())

		Expect(srv.Close()).To(BeNil())
		Expect(srv.State()).To(Equal(state.Closed))
		Expect(srv.IsRunning()).To(BeFalse())

		Expect(srv.Close()).To(BeNil())
		Expect(srv.State()).To(Equal(state.Closed))
	})

	It("should make Close before Start a no-op", func() {
		Expect(srv.Close()).To(BeNil())
		Expect(srv.State()).To(Equal(state.Closed))
	})

	It("should fail Start when the endpoint is taken", func() {
		Expect(srv.Start(ctx)).To(BeNil())

		dup := newNode(srv.Local().String(), nil, testKeyHex)
		err := dup.Start(ctx)

		Expect(err).To(HaveOccurred())
		Expect(err.IsCode(server.ErrorEngineBind)).To(BeTrue())
		Expect(dup.State()).To(Equal(state.Closed))
		Expect(dup.IsRunning()).To(BeFalse())
	})

	It("should start with zeroed counters", func() {
		Expect(srv.Start(ctx)).To(BeNil())

		met := srv.Metrics()
		Expect(met.ParseFailures).To(BeZero())
		Expect(met.Relayed).To(BeZero())
	})
})
