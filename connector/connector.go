/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package connector resolves requests and hands the resolved target to an
// apis.Invoker.
package connector

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"dirpx.dev/vroute/apis"
)

var (
	// ErrNilResolver is returned by New when no resolver is given.
	ErrNilResolver = errors.New("vroute(connector): nil resolver")
	// ErrNilInvoker is returned by New when no invoker is given.
	ErrNilInvoker = errors.New("vroute(connector): nil invoker")
)

// Option configures a Connector.
type Option func(*Connector)

// WithLogger sets the logger used for call tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Connector) {
		if l != nil {
			c.log = l
		}
	}
}

// WithCallID replaces the call ID generator. The default issues random
// UUIDs.
func WithCallID(gen func() string) Option {
	return func(c *Connector) {
		if gen != nil {
			c.newID = gen
		}
	}
}

// Connector pairs a resolver with the transport that executes resolved
// targets. It is safe for concurrent use when both are.
type Connector struct {
	res   apis.Resolver
	inv   apis.Invoker
	log   *log.Logger
	newID func() string
}

// New returns a Connector resolving with res and executing with inv.
func New(res apis.Resolver, inv apis.Invoker, opts ...Option) (*Connector, error) {
	if res == nil {
		return nil, ErrNilResolver
	}
	if inv == nil {
		return nil, ErrNilInvoker
	}
	c := &Connector{
		res:   res,
		inv:   inv,
		log:   log.New(io.Discard),
		newID: uuid.NewString,
	}
	for _, o := range opts {
		if o != nil {
			o(c)
		}
	}
	return c, nil
}

// Call resolves req and, only when resolution succeeds, invokes the
// resolved target with params. Resolution errors are returned unchanged
// and the invoker is not called.
func (c *Connector) Call(ctx context.Context, req apis.Request, params map[string]any) (any, error) {
	id := c.newID()
	res, err := c.res.Resolve(ctx, req)
	if err != nil {
		c.log.Warn("resolve failed", "call_id", id, "version", req.Version,
			"family", req.FamilyHint, "method", req.MethodHint, "err", err)
		return nil, err
	}

	target := apis.Target{Path: res.Path, Member: res.Member, CallID: id}
	c.log.Debug("invoking", "call_id", id, "path", res.Path, "member", res.Member, "score", res.Match.Score)
	out, err := c.inv.Invoke(ctx, target, params)
	if err != nil {
		c.log.Error("invoke failed", "call_id", id, "path", res.Path, "member", res.Member, "err", err)
		return nil, err
	}
	return out, nil
}

// Inspect lists the members of the namespace matching familyHint.
func (c *Connector) Inspect(ctx context.Context, v apis.Version, familyHint string) (apis.Inspection, error) {
	return c.res.Inspect(ctx, v, familyHint)
}
