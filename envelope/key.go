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
	"crypto/rand"
	"encoding/hex"
	"io"

	liberr "github.com/nabbar/golib/errors"
)

// ParseKey decodes a hex-encoded shared cluster key and checks its bounds.
func ParseKey(s string) ([]byte, liberr.Error) {
	k, e := hex.DecodeString(s)

	if e != nil {
		return nil, ErrorParamKeyEncoding.Error(e)
	}

	if len(k) < KeyMinSize || len(k) > KeyMaxSize {
		return nil, ErrorParamKeySize.Error(nil)
	}

	return k, nil
}

// GenKey returns a fresh random 32-byte shared key, hex encoded for
// distribution out-of-band to every node of one cluster.
func GenKey() (string, liberr.Error) {
	k := make([]byte, 32)

	if _, e := io.ReadFull(rand.Reader, k); e != nil {
		return "", ErrorParamKeyGen.Error(e)
	}

	return hex.EncodeToString(k), nil
}
