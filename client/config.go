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

package client

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	libdur "github.com/nabbar/golib/duration"
	liberr "github.com/nabbar/golib/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nabbar/udpbcast/envelope"
	"github.com/nabbar/udpbcast/transport"
)

const (
	// DefaultMessageTTL bounds |now - timestamp| on every accepted envelope.
	DefaultMessageTTL = libdur.Duration(15 * time.Second)

	// DefaultTaskInterval is the background tick rate.
	DefaultTaskInterval = libdur.Duration(time.Second)

	// DefaultKeepAliveInterval is the CLIENT_REGISTER refresh cadence.
	DefaultKeepAliveInterval = libdur.Duration(30 * time.Second)

	// DefaultResolveInterval is the DNS refresh cadence for named servers.
	DefaultResolveInterval = libdur.Duration(5 * time.Minute)
)

// Config is the settings surface of one broadcast client.
type Config struct {
	// Bind is the local UDP endpoint and socket buffer hint.
	Bind transport.Config `mapstructure:"bind" json:"bind" yaml:"bind" toml:"bind"`

	// Servers lists the relay servers, each either a literal host:port
	// endpoint or a DNS name with port. Names are re-resolved on the
	// resolve cadence; an unresolvable name drops out until it resolves
	// again, and no resolution is required at start-up.
	Servers []string `mapstructure:"servers" json:"servers" yaml:"servers" toml:"servers" validate:"required,min=1,dive,hostname_port"`

	// SharedKey is the hex-encoded symmetric cluster key authenticating
	// every envelope.
	SharedKey string `mapstructure:"shared_key" json:"shared_key" yaml:"shared_key" toml:"shared_key" validate:"required,hexadecimal"`

	// Group is the broadcast group tagged on outgoing broadcasts and
	// filtered on incoming ones.
	Group uint32 `mapstructure:"group" json:"group" yaml:"group" toml:"group"`

	// MessageTTL is the envelope freshness window; zero means default.
	MessageTTL libdur.Duration `mapstructure:"message_ttl" json:"message_ttl" yaml:"message_ttl" toml:"message_ttl"`

	// TaskInterval is the background tick rate; zero means default.
	TaskInterval libdur.Duration `mapstructure:"task_interval" json:"task_interval" yaml:"task_interval" toml:"task_interval"`

	// KeepAliveInterval is the registration refresh cadence; zero means
	// default.
	KeepAliveInterval libdur.Duration `mapstructure:"keepalive_interval" json:"keepalive_interval" yaml:"keepalive_interval" toml:"keepalive_interval"`

	// ResolveInterval is the DNS refresh cadence; zero means default.
	ResolveInterval libdur.Duration `mapstructure:"resolve_interval" json:"resolve_interval" yaml:"resolve_interval" toml:"resolve_interval"`

	// Monitor optionally receives the engine counters as prometheus
	// collectors.
	Monitor prometheus.Registerer `mapstructure:"-" json:"-" yaml:"-" toml:"-" validate:"-"`
}

// withDefaults returns a copy of the config with zero intervals replaced by
// their defaults.
func (c Config) withDefaults() Config {
	if c.MessageTTL <= 0 {
		c.MessageTTL = DefaultMessageTTL
	}

	if c.TaskInterval <= 0 {
		c.TaskInterval = DefaultTaskInterval
	}

	if c.KeepAliveInterval <= 0 {
		c.KeepAliveInterval = DefaultKeepAliveInterval
	}

	if c.ResolveInterval <= 0 {
		c.ResolveInterval = DefaultResolveInterval
	}

	return c
}

// Validate checks the structure constraints and the cross-field rules of a
// runnable client config. Zero durations are valid and mean defaults.
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

	if e := c.Bind.Validate(); e != nil {
		out.Add(e)
	}

	if _, e := envelope.ParseKey(c.SharedKey); e != nil {
		out.Add(e)
	}

	d := c.withDefaults()

	if d.TaskInterval.Time() > d.KeepAliveInterval.Time() {
		//nolint goerr113
		out.Add(fmt.Errorf("task interval '%s' is coarser than the keep-alive interval '%s'", d.TaskInterval, d.KeepAliveInterval))
	}

	if out.HasParent() {
		return out
	}

	return nil
}
