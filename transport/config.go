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

package transport

import (
	"fmt"
	"net"
	"strconv"

	"github.com/go-playground/validator/v10"
	liberr "github.com/nabbar/golib/errors"
)

// Config is the bind surface of one transport instance.
type Config struct {
	// Address is the local endpoint to bind, as host:port. A port of 0
	// lets the OS pick one.
	Address string `mapstructure:"address" json:"address" yaml:"address" toml:"address" validate:"required"`

	// BufferSize is a hint for the OS socket receive and send buffers,
	// in bytes. Zero keeps the OS default.
	BufferSize int `mapstructure:"buffer_size" json:"buffer_size" yaml:"buffer_size" toml:"buffer_size" validate:"gte=0"`
}

// Validate checks the config structure constraints.
func (c Config) Validate() liberr.Error {
	err := validator.New().Struct(c)

	if e, ok := err.(*validator.InvalidValidationError); ok {
		return ErrorValidateConfig.Error(e)
	}

	out := ErrorValidateConfig.Error(nil)

	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			//nolint goerr113
			out.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", e.Field(), e.ActualTag()))
		}
	}

	// host:port check allowing port 0, which the hostname_port tag refuses
	if c.Address != "" {
		if host, port, e := net.SplitHostPort(c.Address); e != nil {
			out.Add(e)
		} else if _, e = strconv.ParseUint(port, 10, 16); e != nil {
			//nolint goerr113
			out.Add(fmt.Errorf("config field 'Address' has an invalid port '%s'", port))
		} else if host != "" && validator.New().Var(host, "hostname_rfc1123") != nil {
			//nolint goerr113
			out.Add(fmt.Errorf("config field 'Address' has an invalid host '%s'", host))
		}
	}

	if out.HasParent() {
		return out
	}

	return nil
}
