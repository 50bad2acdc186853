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

package builder

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"dirpx.dev/vroute/apis"
	"dirpx.dev/vroute/registry"
	"dirpx.dev/vroute/resolver"
)

var (
	// ErrUnknownMetric is returned when the configured metric is not registered.
	ErrUnknownMetric = errors.New("vroute(builder): unknown similarity metric")
	// ErrNilRegistry is returned when BuildResolver is given no registry.
	ErrNilRegistry = errors.New("vroute(builder): nil registry")
)

// Option configures the builder.
type Option func(*builder)

// WithLogger passes l to every resolver the builder constructs.
func WithLogger(l *log.Logger) Option {
	return func(b *builder) { b.log = l }
}

// WithMetrics passes m to every resolver the builder constructs.
func WithMetrics(m *resolver.Metrics) Option {
	return func(b *builder) { b.metrics = m }
}

// New creates and returns a new instance of an apis.Builder.
func New(opts ...Option) apis.Builder {
	b := &builder{}
	for _, o := range opts {
		if o != nil {
			o(b)
		}
	}
	return b
}

// builder carries the observability hooks handed to built resolvers.
type builder struct {
	log     *log.Logger
	metrics *resolver.Metrics
}

// BuildRegistry returns a registry holding the built-in metrics. Entries of
// prev are copied over; entries that conflict with a built-in are dropped.
func (b *builder) BuildRegistry(_ apis.Config, prev apis.Registry) apis.Registry {
	nreg := registry.Default()
	if prev != nil {
		for _, e := range prev.Entries() {
			_ = nreg.Register(e.Name, e.Similarity)
		}
	}
	return nreg
}

// BuildResolver returns a pipeline resolver for cfg over cat. The previous
// resolver holds no reusable state and is ignored.
func (b *builder) BuildResolver(cfg apis.Config, reg apis.Registry, cat apis.Catalog, _ apis.Resolver) (apis.Resolver, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	sim, ok := reg.Lookup(cfg.Metric)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, cfg.Metric)
	}
	return resolver.New(cfg, cat, sim,
		resolver.WithLogger(b.log),
		resolver.WithMetrics(b.metrics),
	), nil
}
