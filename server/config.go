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

package server

import (
	"fmt"
	"net/netip"
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

	// DefaultKeepAliveInterval is the gossip cadence for SERVER_REGISTER.
	DefaultKeepAliveInterval = libdur.Duration(5 * time.Second)

	// DefaultServerTTL expires an unrefreshed peer server entry.
	DefaultServerTTL = libdur.Duration(15 * time.Second)

	// DefaultClientTTL expires an unrefreshed client entry.
	DefaultClientTTL = libdur.Duration(60 * time.Second)
)

// Config is the settings surface of one server node.
type Config struct {
	// Bind is the local UDP endpoint and socket buffer hint.
	Bind transport.Config `mapstructure:"bind" json:"bind" yaml:"bind" toml:"bind"`

	// Servers lists the peer server endpoints keep-alives are gossiped
	// to, as literal host:port values. It may include the local endpoint.
	Servers []string `mapstructure:"servers" json:"servers" yaml:"servers" toml:"servers" validate:"omitempty,dive,hostname_port"`

	// SharedKey is the hex-encoded symmetric cluster key authenticating
	// every envelope.
	SharedKey string `mapstructure:"shared_key" json:"shared_key" yaml:"shared_key" toml:"shared_key" validate:"required,hexadecimal"`

	// MessageTTL is the envelope freshness window; zero means default.
	MessageTTL libdur.Duration `mapstructure:"message_ttl" json:"message_ttl" yaml:"message_ttl" toml:"message_ttl"`

	// TaskInterval is the background tick rate; zero means default.
	TaskInterval libdur.Duration `mapstructure:"task_interval" json:"task_interval" yaml:"task_interval" toml:"task_interval"`

	// KeepAliveInterval is the gossip cadence; zero means default. It may
	// be coarser than the tick but never finer.
	KeepAliveInterval libdur.Duration `mapstructure:"keepalive_interval" json:"keepalive_interval" yaml:"keepalive_interval" toml:"keepalive_interval"`

	// ServerTTL expires unrefreshed peers; zero means default.
	ServerTTL libdur.Duration `mapstructure:"server_ttl" json:"server_ttl" yaml:"server_ttl" toml:"server_ttl"`

	// ClientTTL expires unrefreshed clients; zero means default.
	ClientTTL libdur.Duration `mapstructure:"client_ttl" json:"client_ttl" yaml:"client_ttl" toml:"client_ttl"`

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

	if c.ServerTTL <= 0 {
		c.ServerTTL = DefaultServerTTL
	}

	if c.ClientTTL <= 0 {
		c.ClientTTL = DefaultClientTTL
	}

	return c
}

// Validate checks the structure constraints and the cross-field rules of a
// runnable server config. Zero durations are valid and mean defaults.
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

	if d.KeepAliveInterval.Time() >= d.ServerTTL.Time() {
		//nolint goerr113
		out.Add(fmt.Errorf("keep-alive interval '%s' does not refresh peers within the server TTL '%s'", d.KeepAliveInterval, d.ServerTTL))
	}

	if out.HasParent() {
		return out
	}

	return nil
}

// peers parses the configured peer endpoints.
func (c Config) peers() ([]netip.AddrPort, liberr.Error) {
	res := make([]netip.AddrPort, 0, len(c.Servers))

	for _, s := range c.Servers {
		ap, e := netip.ParseAddrPort(s)

		if e != nil {
			return nil, ErrorConfigPeer.Error(e)
		}

		res = append(res, netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port()))
	}

	return res, nil
}
