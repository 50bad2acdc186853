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

package resolver

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"dirpx.dev/vroute/apis"
	"dirpx.dev/vroute/locator"
	"dirpx.dev/vroute/member"
	"dirpx.dev/vroute/version"
)

// Option configures a pipeline.
type Option func(*pipeline)

// WithLogger sets the logger used for per-stage debug output.
// A nil logger keeps the default, which discards everything.
func WithLogger(l *log.Logger) Option {
	return func(p *pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMetrics records resolution outcomes and namespace scores into m.
func WithMetrics(m *Metrics) Option {
	return func(p *pipeline) { p.metrics = m }
}

// New constructs an apis.Resolver over cat using sim to score family hints.
//
// Every call queries cat; nothing is cached, so a catalog that changes its
// answers is observed on the next call. The returned resolver is safe for
// concurrent use provided cat and sim are.
func New(cfg apis.Config, cat apis.Catalog, sim apis.Similarity, opts ...Option) apis.Resolver {
	p := &pipeline{
		validator:  version.NewValidator(cfg.KnownVersions),
		locator:    locator.New(cat, sim, cfg.Cutoff),
		enumerator: member.NewEnumerator(cat),
		log:        log.New(io.Discard),
	}
	for _, o := range opts {
		if o != nil {
			o(p)
		}
	}
	return p
}

// pipeline runs validation, namespace location, member enumeration,
// filtering and selection in that order. Any failing stage ends the call.
type pipeline struct {
	validator  *version.Validator
	locator    *locator.Locator
	enumerator *member.Enumerator
	log        *log.Logger
	metrics    *Metrics
}

// Resolve maps req to a namespace path and member name.
func (p *pipeline) Resolve(ctx context.Context, req apis.Request) (apis.Result, error) {
	res, err := p.resolve(ctx, req)
	p.metrics.observe(res.Match, err)
	if err != nil {
		p.log.Debug("resolve failed", "version", req.Version, "family", req.FamilyHint,
			"method", req.MethodHint, "kind", apis.KindOf(err), "err", err)
		return apis.Result{}, err
	}
	p.log.Debug("resolved", "version", req.Version, "path", res.Path, "member", res.Member,
		"score", res.Match.Score)
	return res, nil
}

func (p *pipeline) resolve(ctx context.Context, req apis.Request) (apis.Result, error) {
	path, match, members, err := p.locate(ctx, req.Version, req.FamilyHint)
	if err != nil {
		return apis.Result{Match: match}, err
	}

	candidates := member.Filter(members, req.MethodHint)
	p.log.Debug("filtered", "hint", req.MethodHint, "members", len(members), "candidates", len(candidates))

	m, err := member.Select(candidates)
	if err != nil {
		return apis.Result{Match: match}, &apis.MethodNotFoundError{
			Version: req.Version,
			Path:    path,
			Hint:    req.MethodHint,
			Members: len(members),
		}
	}
	return apis.Result{Path: path, Member: m.Name, Match: match}, nil
}

// Inspect runs the pipeline up to member enumeration.
func (p *pipeline) Inspect(ctx context.Context, v apis.Version, familyHint string) (apis.Inspection, error) {
	path, match, members, err := p.locate(ctx, v, familyHint)
	if err != nil {
		p.log.Debug("inspect failed", "version", v, "family", familyHint, "err", err)
		return apis.Inspection{}, err
	}
	return apis.Inspection{Path: path, Match: match, Members: members}, nil
}

// locate validates v, finds the namespace for familyHint and lists its
// members. On a namespace miss the returned Match carries the best score
// seen so metrics can still record it.
func (p *pipeline) locate(ctx context.Context, v apis.Version, familyHint string) (apis.NamespacePath, apis.Match, []apis.Member, error) {
	if err := p.validator.Validate(v); err != nil {
		return nil, apis.Match{}, nil, err
	}
	p.log.Debug("validated", "version", v)

	match, err := p.locator.Locate(ctx, v, familyHint)
	if err != nil {
		var nf *apis.NamespaceNotFoundError
		if errors.As(err, &nf) && nf.Best != "" {
			match = apis.Match{Namespace: nf.Best, Score: nf.BestScore}
		}
		return nil, match, nil, err
	}
	path := apis.NamespacePath{version.RootName(v), match.Namespace}
	p.log.Debug("namespace resolved", "hint", familyHint, "path", path, "score", match.Score,
		"runner_up", match.RunnerUp, "runner_up_score", match.RunnerUpScore)

	members, err := p.enumerator.Enumerate(ctx, path)
	if err != nil {
		var ce *apis.CatalogAccessError
		if errors.As(err, &ce) {
			ce.Version = v
		}
		return nil, match, nil, err
	}
	p.log.Debug("members enumerated", "path", path, "count", len(members))
	return path, match, members, nil
}
