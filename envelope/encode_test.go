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

package envelope_test

import (
	"net/netip"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/udpbcast/envelope"
)

var _ = Describe("Envelope Encoding", func() {
	var (
		cdc envelope.Codec
		now time.Time
	)

	BeforeEach(func() {
		cdc = mustCodec(testKeyHex, 0)
		now = time.Now().UTC()
	})

	Describe("Encode", func() {
		It("should produce a datagram of the documented size", func() {
			env := testEnvelope(now)

			raw, err := cdc.Encode(env)

			Expect(err).ToNot(HaveOccurred())
			Expect(raw).To(HaveLen(envelope.Overhead(false) + len(env.Payload)))
		})

		It("should size IPv6 sources with the IPv6 overhead", func() {
			env := testEnvelope(now)
			env.Source = netip.MustParseAddr("2001:db8::10")

			raw, err := cdc.Encode(env)

			Expect(err).ToNot(HaveOccurred())
			Expect(raw).To(HaveLen(envelope.Overhead(true) + len(env.Payload)))
		})

		It("should reject an invalid message type", func() {
			env := testEnvelope(now)
			env.Type = envelope.MessageType(99)

			_, err := cdc.Encode(env)

			Expect(err).To(HaveOccurred())
			Expect(err.IsCode(envelope.ErrorTypeUnknown)).To(BeTrue())
		})

		It("should reject an invalid source address", func() {
			env := testEnvelope(now)
			env.Source = netip.Addr{}

			_, err := cdc.Encode(env)

			Expect(err).To(HaveOccurred())
			Expect(err.IsCode(envelope.ErrorAddressInvalid)).To(BeTrue())
		})

		It("should reject a payload exceeding the datagram bound", func() {
			env := testEnvelope(now)
			env.Payload = make([]byte, envelope.MaxDatagramSize)

			_, err := cdc.Encode(env)

			Expect(err).To(HaveOccurred())
			Expect(err.IsCode(envelope.ErrorPayloadSize)).To(BeTrue())
		})

		It("should accept an empty payload", func() {
			env := testEnvelope(now)
			env.Payload = nil

			raw, err := cdc.Encode(env)

			Expect(err).ToNot(HaveOccurred())
			Expect(raw).To(HaveLen(envelope.Overhead(false)))
		})
	})

	Describe("Overhead", func() {
		It("should be constant per address family", func() {
			Expect(envelope.Overhead(false)).To(Equal(59))
			Expect(envelope.Overhead(true)).To(Equal(71))
		})

		It("should bound the payload against the path MTU", func() {
			Expect(cdc.MaxPayload(1500, false)).To(Equal(1500 - envelope.Overhead(false)))
			Expect(cdc.MaxPayload(1500, true)).To(Equal(1500 - envelope.Overhead(true)))
			Expect(cdc.MaxPayload(10, false)).To(Equal(0))
		})
	})

	Describe("Key handling", func() {
		It("should reject a short key", func() {
			_, err := envelope.New(make([]byte, envelope.KeyMinSize-1), 0)

			Expect(err).To(HaveOccurred())
			Expect(err.IsCode(envelope.ErrorParamKeySize)).To(BeTrue())
		})

		It("should reject a non-hex shared key", func() {
			_, err := envelope.ParseKey("not-hex")

			Expect(err).To(HaveOccurred())
			Expect(err.IsCode(envelope.ErrorParamKeyEncoding)).To(BeTrue())
		})

		It("should generate a usable shared key", func() {
			s, err := envelope.GenKey()

			Expect(err).ToNot(HaveOccurred())

			key, err := envelope.ParseKey(s)
			Expect(err).ToNot(HaveOccurred())
			Expect(key).To(HaveLen(32))
		})
	})

	Describe("Message types", func() {
		It("should name every protocol type", func() {
			Expect(envelope.TypeServerRegister.String()).To(Equal("SERVER_REGISTER"))
			Expect(envelope.TypeServerUnregister.String()).To(Equal("SERVER_UNREGISTER"))
			Expect(envelope.TypeClientRegister.String()).To(Equal("CLIENT_REGISTER"))
			Expect(envelope.TypeClientUnregister.String()).To(Equal("CLIENT_UNREGISTER"))
			Expect(envelope.TypeBroadcast.String()).To(Equal("BROADCAST"))
		})

		It("should reject values outside the closed set", func() {
			Expect(envelope.MessageType(0).IsValid()).To(BeFalse())
			Expect(envelope.MessageType(6).IsValid()).To(BeFalse())
			Expect(envelope.MessageType(0).String()).To(Equal(""))
		})
	})

	Describe("Tick conversion", func() {
		It("should round trip an aligned instant", func() {
			t0 := wireTime(now)
			Expect(envelope.TicksToTime(envelope.TimeToTicks(t0))).To(BeTemporally("==", t0))
		})

		It("should collapse pre-epoch instants to zero", func() {
			Expect(envelope.TimeToTicks(time.Time{}.Add(-time.Hour))).To(Equal(uint64(0)))
		})
	})
})
