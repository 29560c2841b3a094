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

// Package envelope implements the authenticated wire format carried by every
// datagram of the broadcast relay protocol.
//
// One envelope occupies exactly one UDP datagram; the datagram length is the
// framing, no outer length prefix is stored. Every envelope is typed,
// timestamped and sealed with a keyed BLAKE2b-256 authenticator computed over
// all preceding bytes, so any modification, truncation or wrong cluster key
// rejects the datagram. Timestamps are expressed as 100-nanosecond ticks
// since 0001-01-01T00:00:00Z and bound the acceptance window of a message.
//
// Example usage:
//
//	cdc, err := envelope.New(key, 15*time.Second)
//	if err != nil {
//	    return err
//	}
//
//	raw, err := cdc.Encode(envelope.Envelope{
//	    Type:    envelope.TypeBroadcast,
//	    Group:   0,
//	    Time:    time.Now().UTC(),
//	    Source:  netip.MustParseAddr("192.0.2.10"),
//	    Payload: []byte("hello"),
//	})
package envelope
