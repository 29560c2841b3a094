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

import liberr "github.com/nabbar/golib/errors"

const (
	ErrorParamKeySize liberr.CodeError = iota + liberr.MinAvailable
	ErrorParamKeyEncoding
	ErrorParamKeyGen
	ErrorTypeUnknown
	ErrorAddressInvalid
	ErrorPayloadSize
	ErrorDecodeTruncated
	ErrorDecodeMagic
	ErrorDecodeVersion
	ErrorDecodeLength
	ErrorDecodeMac
	ErrorDecodeStale
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = liberr.ExistInMapMessage(ErrorParamKeySize)
	liberr.RegisterIdFctMessage(ErrorParamKeySize, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorParamKeySize:
		return "shared key length is out of bounds"
	case ErrorParamKeyEncoding:
		return "shared key is not valid hex"
	case ErrorParamKeyGen:
		return "generating shared key failed"
	case ErrorTypeUnknown:
		return "message type is not part of the protocol set"
	case ErrorAddressInvalid:
		return "source address is invalid"
	case ErrorPayloadSize:
		return "payload exceeds the datagram bound"
	case ErrorDecodeTruncated:
		return "datagram is shorter than the envelope overhead"
	case ErrorDecodeMagic:
		return "datagram magic mismatch"
	case ErrorDecodeVersion:
		return "unsupported envelope version"
	case ErrorDecodeLength:
		return "datagram length does not match the declared payload"
	case ErrorDecodeMac:
		return "envelope authenticator mismatch"
	case ErrorDecodeStale:
		return "envelope timestamp is outside the freshness window"
	}

	return liberr.NullMessage
}
