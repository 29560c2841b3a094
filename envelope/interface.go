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

package envelope

import (
	"net/netip"
	"time"

	liberr "github.com/nabbar/golib/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	// Version is the only wire version this codec speaks.
	Version uint8 = 0x01

	// MacSize is the length of the keyed authenticator sealing each datagram.
	MacSize = blake2b.Size256

	// KeyMinSize and KeyMaxSize bound the shared cluster key length.
	KeyMinSize = 16
	KeyMaxSize = 64

	// sizeFixed covers magic, version, type, group, timestamp, the address
	// length byte and the payload length, everything except the address
	// bytes themselves and the authenticator.
	sizeFixed = 4 + 1 + 1 + 4 + 8 + 1 + 4

	// MaxDatagramSize is the largest UDP payload a datagram can carry.
	MaxDatagramSize = 65507
)

// magicBytes open every datagram of the protocol.
var magicBytes = [4]byte{0xB4, 0xC7, 0x42, 0x52}

// Envelope is one authenticated protocol record, carried whole in one UDP
// datagram. Source is the address of the original sender and survives the
// master's fan-out; Payload is opaque and may be empty.
type Envelope struct {
	Type    MessageType
	Group   uint32
	Time    time.Time
	Source  netip.Addr
	Payload []byte
}

// Codec serializes and authenticates envelopes with a shared cluster key.
// A Codec is safe for concurrent use.
type Codec interface {
	// Encode produces a self-contained datagram body for the envelope.
	// It fails on an invalid type, an invalid source address or a payload
	// exceeding the datagram bound.
	Encode(e Envelope) ([]byte, liberr.Error)

	// Decode parses and verifies one datagram body. It rejects truncation,
	// bad magic or version, unknown types, authenticator mismatch and any
	// timestamp farther than the freshness window from now. A timestamp
	// exactly on the window boundary is accepted.
	Decode(p []byte, now time.Time) (Envelope, liberr.Error)

	// Overhead returns the fixed envelope cost in bytes for the given
	// address family, the compile-time constant both sides reason with
	// when sizing payloads against the path MTU.
	Overhead(ipv6 bool) int

	// MaxPayload returns the largest payload fitting one datagram of the
	// given MTU for the given address family.
	MaxPayload(mtu int, ipv6 bool) int
}

// Overhead returns the envelope cost in bytes for the given address family.
func Overhead(ipv6 bool) int {
	if ipv6 {
		return sizeFixed + 16 + MacSize
	}

	return sizeFixed + 4 + MacSize
}

// New returns a Codec sealing envelopes with the given shared key and
// rejecting envelopes older or newer than ttl at decode time. A ttl of zero
// or below disables the freshness check. The key is copied.
func New(key []byte, ttl time.Duration) (Codec, liberr.Error) {
	if len(key) < KeyMinSize || len(key) > KeyMaxSize {
		return nil, ErrorParamKeySize.Error(nil)
	}

	k := make([]byte, len(key))
	copy(k, key)

	// fail early if the key is unusable by the MAC primitive
	if _, e := blake2b.New256(k); e != nil {
		return nil, ErrorParamKeySize.Error(e)
	}

	return &cdc{
		k: k,
		t: ttl,
	}, nil
}
