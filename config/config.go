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

package config

import (
	"errors"
	"fmt"

	"dirpx.dev/vroute/apis"
	"dirpx.dev/vroute/version"
)

const (
	// DefaultCutoff represents the default for Cutoff.
	// It matches the cutoff of the classic close-match heuristic.
	DefaultCutoff = 0.6
	// DefaultMetric represents the default for Metric.
	DefaultMetric = "ratio"
)

var (
	// ErrInvalidCutoff is returned when the cutoff lies outside [0,1].
	ErrInvalidCutoff = errors.New("vroute(config): cutoff must be within [0,1]")
	// ErrEmptyMetric is returned when no similarity metric is named.
	ErrEmptyMetric = errors.New("vroute(config): empty metric")
	// ErrNoKnownVersions is returned when the known version set is empty.
	ErrNoKnownVersions = errors.New("vroute(config): no known versions")
)

// DefaultKnownVersions returns the releases known out of the box.
// A fresh slice is returned on every call.
func DefaultKnownVersions() []apis.Version {
	return []apis.Version{"2.2.2.3", "2.2.3.3", "2.3.3.0", "2.3.5.3", "2.3.7.6"}
}

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure Cutoff is valid.
	if cfg.Cutoff < 0 || cfg.Cutoff > 1 {
		cfg.Cutoff = DefaultCutoff
	}
	if cfg.Metric == "" {
		cfg.Metric = DefaultMetric
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		KnownVersions: DefaultKnownVersions(),
		Cutoff:        DefaultCutoff,
		Metric:        DefaultMetric,
	}
}

// Validate reports the first problem with cfg, or nil.
func Validate(cfg apis.Config) error {
	if cfg.Cutoff < 0 || cfg.Cutoff > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidCutoff, cfg.Cutoff)
	}
	if cfg.Metric == "" {
		return ErrEmptyMetric
	}
	if len(cfg.KnownVersions) == 0 {
		return ErrNoKnownVersions
	}
	for _, v := range cfg.KnownVersions {
		if _, err := version.Parse(string(v)); err != nil {
			return fmt.Errorf("vroute(config): known version: %w", err)
		}
	}
	return nil
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithKnownVersions replaces the known version set.
// An empty list keeps the current set.
func WithKnownVersions(versions ...apis.Version) Option {
	return func(c *apis.Config) {
		if len(versions) == 0 {
			return
		}
		c.KnownVersions = append([]apis.Version(nil), versions...)
	}
}

// WithCutoff sets the Cutoff option.
// A value outside [0,1] resets to the default.
func WithCutoff(cutoff float64) Option {
	return func(c *apis.Config) {
		if cutoff < 0 || cutoff > 1 {
			c.Cutoff = DefaultCutoff
			return
		}
		c.Cutoff = cutoff
	}
}

// WithMetric sets the Metric option.
func WithMetric(name string) Option {
	return func(c *apis.Config) {
		c.Metric = name
	}
}
