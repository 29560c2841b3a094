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

import "time"

const (
	// ticksPerSecond is the number of 100-nanosecond ticks in one second.
	ticksPerSecond = int64(10_000_000)

	// ticksAtUnixEpoch is the tick value of 1970-01-01T00:00:00Z on the
	// 0001-01-01 tick scale. The span exceeds time.Duration's range, so
	// conversions pivot on the Unix epoch instead of subtracting instants.
	ticksAtUnixEpoch = int64(621_355_968_000_000_000)
)

// TimeToTicks converts an instant into 100-nanosecond ticks since
// 0001-01-01T00:00:00Z. Instants before the tick epoch collapse to zero.
func TimeToTicks(t time.Time) uint64 {
	i := ticksAtUnixEpoch + t.Unix()*ticksPerSecond + int64(t.Nanosecond())/100

	if i < 0 {
		return 0
	}

	return uint64(i)
}

// TicksToTime converts a wire tick value back into a UTC instant.
func TicksToTime(ticks uint64) time.Time {
	r := int64(ticks) - ticksAtUnixEpoch //nolint:gosec
	s := r / ticksPerSecond
	n := r % ticksPerSecond

	if n < 0 {
		s--
		n += ticksPerSecond
	}

	return time.Unix(s, n*100).UTC()
}
