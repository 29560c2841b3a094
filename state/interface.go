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

package state

import libatm "github.com/nabbar/golib/atomic"

// State is one engine lifecycle step.
type State uint8

const (
	Created State = iota + 1
	Opening
	Open
	Closing
	Closed
)

// String returns the lifecycle step name.
func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case Opening:
		return "Opening"
	case Open:
		return "Open"
	case Closing:
		return "Closing"
	case Closed:
		return "Closed"
	}

	return ""
}

// Holder is an atomic lifecycle cell shared between engine goroutines.
type Holder interface {
	// Load returns the current step; a fresh holder reports Created.
	Load() State

	// Store sets the current step.
	Store(s State)

	// CompareAndSwap moves old to new atomically and reports success.
	CompareAndSwap(old, new State) bool

	// IsOpen reports whether the engine processes protocol traffic.
	IsOpen() bool
}

// New returns a Holder starting at Created.
func New() Holder {
	v := libatm.NewValueDefault[State](Created, Created)

	// seed the underlying cell so CompareAndSwap works from Created
	v.Store(Created)

	return &hld{v: v}
}

type hld struct {
	v libatm.Value[State]
}

func (o *hld) Load() State {
	return o.v.Load()
}

func (o *hld) Store(s State) {
	o.v.Store(s)
}

func (o *hld) CompareAndSwap(old, new State) bool {
	return o.v.CompareAndSwap(old, new)
}

func (o *hld) IsOpen() bool {
	return o.v.Load() == Open
}
