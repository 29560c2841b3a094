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
	"crypto/subtle"
	"encoding/binary"
	"net/netip"
	"time"

	liberr "github.com/nabbar/golib/errors"
	"golang.org/x/crypto/blake2b"
)

type cdc struct {
	k []byte
	t time.Duration
}

func (o *cdc) Overhead(ipv6 bool) int {
	return Overhead(ipv6)
}

func (o *cdc) MaxPayload(mtu int, ipv6 bool) int {
	if p := mtu - Overhead(ipv6); p > 0 {
		return p
	}

	return 0
}

func (o *cdc) seal(p []byte) []byte {
	h, _ := blake2b.New256(o.k)
	h.Write(p)
	return h.Sum(nil)
}

func (o *cdc) Encode(e Envelope) ([]byte, liberr.Error) {
	if !e.Type.IsValid() {
		return nil, ErrorTypeUnknown.Error(nil)
	}

	if !e.Source.IsValid() {
		return nil, ErrorAddressInvalid.Error(nil)
	}

	var (
		src = e.Source.Unmap()
		adr []byte
	)

	if src.Is4() {
		a := src.As4()
		adr = a[:]
	} else {
		a := src.As16()
		adr = a[:]
	}

	if len(e.Payload) > MaxDatagramSize-sizeFixed-len(adr)-MacSize {
		return nil, ErrorPayloadSize.Error(nil)
	}

	buf := make([]byte, 0, sizeFixed+len(adr)+len(e.Payload)+MacSize)
	buf = append(buf, magicBytes[:]...)
	buf = append(buf, Version, uint8(e.Type))
	buf = binary.BigEndian.AppendUint32(buf, e.Group)
	buf = binary.BigEndian.AppendUint64(buf, TimeToTicks(e.Time))
	buf = append(buf, uint8(len(adr)))
	buf = append(buf, adr...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(e.Payload)))
	buf = append(buf, e.Payload...)
	buf = append(buf, o.seal(buf)...)

	return buf, nil
}

func (o *cdc) Decode(p []byte, now time.Time) (Envelope, liberr.Error) {
	var e Envelope

	if len(p) < Overhead(false) {
		return e, ErrorDecodeTruncated.Error(nil)
	}

	if [4]byte(p[0:4]) != magicBytes {
		return e, ErrorDecodeMagic.Error(nil)
	}

	if p[4] != Version {
		return e, ErrorDecodeVersion.Error(nil)
	}

	e.Type = MessageType(p[5])
	if !e.Type.IsValid() {
		return e, ErrorTypeUnknown.Error(nil)
	}

	e.Group = binary.BigEndian.Uint32(p[6:10])
	e.Time = TicksToTime(binary.BigEndian.Uint64(p[10:18]))

	alen := int(p[18])
	if alen != 4 && alen != 16 {
		return e, ErrorAddressInvalid.Error(nil)
	}

	pos := 19 + alen
	if len(p) < pos+4 {
		return e, ErrorDecodeTruncated.Error(nil)
	}

	plen := int(binary.BigEndian.Uint32(p[pos : pos+4]))
	mac := pos + 4 + plen

	if len(p) != mac+MacSize {
		return e, ErrorDecodeLength.Error(nil)
	}

	if subtle.ConstantTimeCompare(o.seal(p[:mac]), p[mac:]) != 1 {
		return e, ErrorDecodeMac.Error(nil)
	}

	if alen == 4 {
		e.Source = netip.AddrFrom4([4]byte(p[19 : 19+4]))
	} else {
		e.Source = netip.AddrFrom16([16]byte(p[19 : 19+16])).Unmap()
	}

	if plen > 0 {
		e.Payload = make([]byte, plen)
		copy(e.Payload, p[pos+4:mac])
	}

	if o.t > 0 {
		if d := now.Sub(e.Time); d > o.t || d < -o.t {
			return Envelope{}, ErrorDecodeStale.Error(nil)
		}
	}

	return e, nil
}
