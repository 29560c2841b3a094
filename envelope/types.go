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

// MessageType identifies the role of one envelope within the relay protocol.
// The set is closed: any other value rejects the datagram at decode time.
type MessageType uint8

const (
	// TypeServerRegister announces a live server to its peers. The payload
	// may carry the sender's registration instant as 8 big-endian bytes of
	// ticks, so that peer precedence survives an expiry and re-discovery.
	TypeServerRegister MessageType = iota + 1

	// TypeServerUnregister removes the sending server from the peer table.
	TypeServerUnregister

	// TypeClientRegister registers or refreshes the sending client with the
	// broadcast group carried by the envelope.
	TypeClientRegister

	// TypeClientUnregister removes the sending client from the client table.
	TypeClientUnregister

	// TypeBroadcast carries an opaque payload to be fanned out by the
	// cluster master to every client of the same broadcast group.
	TypeBroadcast
)

// IsValid reports whether the type belongs to the closed protocol set.
func (t MessageType) IsValid() bool {
	switch t {
	case TypeServerRegister, TypeServerUnregister, TypeClientRegister, TypeClientUnregister, TypeBroadcast:
		return true
	}

	return false
}

// String returns the protocol name of the type, or an empty string for any
// value outside the closed set.
func (t MessageType) String() string {
	switch t {
	case TypeServerRegister:
		return "SERVER_REGISTER"
	case TypeServerUnregister:
		return "SERVER_UNREGISTER"
	case TypeClientRegister:
		return "CLIENT_REGISTER"
	case TypeClientUnregister:
		return "CLIENT_UNREGISTER"
	case TypeBroadcast:
		return "BROADCAST"
	}

	return ""
}
