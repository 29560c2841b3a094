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

// Package server implements one broadcast relay server node.
//
// A server accepts client registrations, gossips keep-alives to its
// configured peers, purges stale peers and clients on a background tick,
// and, when it is the elected master of the cluster, fans every received
// broadcast out to the registered clients of the matching group. Exactly
// one server of a converged cluster relays a given broadcast; the others
// drop it silently, which is what keeps delivery at most once per client.
//
// Once a server is Open the only externally-visible failure mode is that
// traffic stops: decode failures are discarded and counted, send failures
// are logged and swallowed, and the tick survives any internal panic.
// Fatal errors (bad configuration, unbindable socket) surface from Start
// alone.
package server
