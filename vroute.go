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

package vroute

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"dirpx.dev/vroute/apis"
	"dirpx.dev/vroute/builder"
	"dirpx.dev/vroute/config"
)

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("vroute: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("vroute: builder returned nil resolver")
	// ErrNilCatalog is returned when a Router is given no catalog.
	ErrNilCatalog = errors.New("vroute: nil catalog")
)

// Option configures a Router at construction.
type Option func(*state)

// WithConfig sets the initial configuration.
func WithConfig(cfg apis.Config) Option {
	return func(s *state) { s.cfg = cfg.Clone() }
}

// WithBuilder sets the builder used for the registry and the resolver.
func WithBuilder(b apis.Builder) Option {
	return func(s *state) {
		if b != nil {
			s.bld = b
		}
	}
}

// WithRegistry installs reg and pins it.
func WithRegistry(reg apis.Registry) Option {
	return func(s *state) {
		if reg != nil {
			s.reg, s.preg = reg, true
		}
	}
}

// WithResolver installs res and pins it.
func WithResolver(res apis.Resolver) Option {
	return func(s *state) {
		if res != nil {
			s.res, s.pres = res, true
		}
	}
}

// Router resolves requests against a catalog through a swappable resolver.
//
// Reads load one immutable snapshot and never block. Writers serialize,
// build the next snapshot off to the side and publish it atomically, so a
// call observes either the old or the new configuration, never a mix.
// A pinned registry or resolver is kept across rebuilds until unpinned.
type Router struct {
	// buildMu serializes writers so we never publish partially-built
	// snapshots.
	buildMu sync.Mutex
	st      atomic.Pointer[state]
}

// New returns a Router over cat using the default configuration and
// builder unless options say otherwise.
func New(cat apis.Catalog, opts ...Option) (*Router, error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}
	s := &state{cfg: config.DefaultConfig(), cat: cat, bld: builder.New()}
	for _, o := range opts {
		if o != nil {
			o(s)
		}
	}
	if err := config.Validate(s.cfg); err != nil {
		return nil, err
	}
	if err := s.build(nil, nil); err != nil {
		return nil, err
	}
	r := &Router{}
	r.st.Store(s)
	return r, nil
}

// Resolve maps req to a namespace path and member name using the current
// snapshot.
func (r *Router) Resolve(ctx context.Context, req apis.Request) (apis.Result, error) {
	return r.st.Load().res.Resolve(ctx, req)
}

// Inspect lists the members of the namespace matching familyHint using the
// current snapshot.
func (r *Router) Inspect(ctx context.Context, v apis.Version, familyHint string) (apis.Inspection, error) {
	return r.st.Load().res.Inspect(ctx, v, familyHint)
}

// RegisterMetric adds a similarity metric to the current registry.
// Select it with SetConfig.
func (r *Router) RegisterMetric(name string, s apis.Similarity) error {
	return r.st.Load().reg.Register(name, s)
}

// Config returns a copy of the current configuration.
func (r *Router) Config() apis.Config { return r.st.Load().cfg.Clone() }

// Catalog returns the current catalog.
func (r *Router) Catalog() apis.Catalog { return r.st.Load().cat }

// Registry returns the current metric registry.
func (r *Router) Registry() apis.Registry { return r.st.Load().reg }

// Resolver returns the current resolver.
func (r *Router) Resolver() apis.Resolver { return r.st.Load().res }

// Builder returns the current builder.
func (r *Router) Builder() apis.Builder { return r.st.Load().bld }

// SetConfig validates cfg and rebuilds the unpinned layers with it.
// On error the current snapshot stays in place.
func (r *Router) SetConfig(cfg apis.Config) error {
	if err := config.Validate(cfg); err != nil {
		return err
	}
	return r.update(func(s *state) { s.cfg = cfg.Clone() })
}

// SetCatalog swaps the catalog and rebuilds the resolver unless it is
// pinned. The next call reads from cat.
func (r *Router) SetCatalog(cat apis.Catalog) error {
	if cat == nil {
		return ErrNilCatalog
	}
	return r.update(func(s *state) { s.cat = cat })
}

// SetBuilder swaps the builder and rebuilds the unpinned layers with it.
// A nil builder is ignored.
func (r *Router) SetBuilder(b apis.Builder) error {
	if b == nil {
		return nil
	}
	return r.update(func(s *state) { s.bld = b })
}

// SetRegistry installs reg, pins it and rebuilds the resolver unless it is
// pinned. A nil registry is ignored.
func (r *Router) SetRegistry(reg apis.Registry) error {
	if reg == nil {
		return nil
	}
	return r.update(func(s *state) { s.reg, s.preg = reg, true })
}

// SetResolver installs res, pins it and rebuilds the registry unless it is
// pinned. A nil resolver is ignored. On error the current snapshot stays in
// place.
func (r *Router) SetResolver(res apis.Resolver) error {
	if res == nil {
		return nil
	}
	return r.update(func(s *state) { s.res, s.pres = res, true })
}

// IsRegistryPinned reports whether the registry survives rebuilds.
func (r *Router) IsRegistryPinned() bool { return r.st.Load().preg }

// PinRegistry keeps the current registry across rebuilds.
func (r *Router) PinRegistry() { r.setPins(func(s *state) { s.preg = true }) }

// UnpinRegistry lets the next rebuild replace the registry.
func (r *Router) UnpinRegistry() { r.setPins(func(s *state) { s.preg = false }) }

// IsResolverPinned reports whether the resolver survives rebuilds.
func (r *Router) IsResolverPinned() bool { return r.st.Load().pres }

// PinResolver keeps the current resolver across rebuilds.
func (r *Router) PinResolver() { r.setPins(func(s *state) { s.pres = true }) }

// UnpinResolver lets the next rebuild replace the resolver.
func (r *Router) UnpinResolver() { r.setPins(func(s *state) { s.pres = false }) }

// update applies mut to a copy of the current snapshot, rebuilds the
// unpinned layers and publishes the result.
func (r *Router) update(mut func(*state)) error {
	r.buildMu.Lock()
	defer r.buildMu.Unlock()

	old := r.st.Load()
	next := *old
	mut(&next)
	if err := next.build(old.reg, old.res); err != nil {
		return err
	}
	r.st.Store(&next)
	return nil
}

// setPins publishes a copy of the current snapshot with changed pin flags
// and no rebuild.
func (r *Router) setPins(mut func(*state)) {
	r.buildMu.Lock()
	defer r.buildMu.Unlock()

	next := *r.st.Load()
	mut(&next)
	r.st.Store(&next)
}

// state is a Router snapshot.
// Immutable once published; writers create a new state and swap it
// atomically.
type state struct {
	// cfg is the resolution configuration.
	cfg apis.Config
	// cat is the catalog resolvers read from.
	cat apis.Catalog
	// reg holds the similarity metrics.
	reg apis.Registry
	// res is the resolver serving calls.
	res apis.Resolver
	// bld builds reg and res.
	bld apis.Builder
	// preg indicates whether reg is pinned.
	preg bool
	// pres indicates whether res is pinned.
	pres bool
}

// build replaces the unpinned layers of s using its builder. prevReg and
// prevRes are handed to the builder for reuse.
func (s *state) build(prevReg apis.Registry, prevRes apis.Resolver) error {
	if !s.preg {
		s.reg = s.bld.BuildRegistry(s.cfg, prevReg)
		if s.reg == nil {
			return ErrNilRegistry
		}
	}
	if !s.pres {
		res, err := s.bld.BuildResolver(s.cfg, s.reg, s.cat, prevRes)
		if err != nil {
			return err
		}
		if res == nil {
			return ErrNilResolver
		}
		s.res = res
	}
	return nil
}
