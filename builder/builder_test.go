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

package builder_test

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"
	"testing"

	"dirpx.dev/vroute/apis"
	"dirpx.dev/vroute/builder"
	"dirpx.dev/vroute/catalog"
	"dirpx.dev/vroute/config"
	"dirpx.dev/vroute/registry"
	"dirpx.dev/vroute/strategy"
)

// testCatalog returns a small catalog with two families in one release.
func testCatalog(t *testing.T) apis.Catalog {
	t.Helper()
	cat, err := catalog.New().
		Add("2.3.7.6", "user_and_roles", "add_role_ap_i", "get_roles_ap_i").
		Add("2.3.7.6", "sites", "get_site").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return cat
}

// TestBuildRegistry_Basic asserts that BuildRegistry returns a registry
// holding every built-in metric.
func TestBuildRegistry_Basic(t *testing.T) {
	b := builder.New()

	// prev may be nil; this must still produce a valid registry.
	reg := b.BuildRegistry(config.DefaultConfig(), nil)
	if reg == nil {
		t.Fatal("BuildRegistry returned nil")
	}

	for _, name := range []string{strategy.Ratio, strategy.Levenshtein, strategy.JaroWinkler} {
		if _, ok := reg.Lookup(name); !ok {
			t.Fatalf("built-in metric %q missing", name)
		}
	}
	if c := reg.Count(); c != len(strategy.All()) {
		t.Fatalf("Count mismatch: got %d want %d", c, len(strategy.All()))
	}
}

// TestBuildRegistry_CarriesCustomEntries verifies that custom metrics of the
// previous registry survive a rebuild.
func TestBuildRegistry_CarriesCustomEntries(t *testing.T) {
	b := builder.New()
	prev := b.BuildRegistry(config.DefaultConfig(), nil)

	prefix := apis.SimilarityFunc{Key: "prefix", Fn: func(hint, candidate string) float64 {
		if strings.HasPrefix(candidate, hint) {
			return 1
		}
		return 0
	}}
	if err := prev.Register("prefix", prefix); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	next := b.BuildRegistry(config.DefaultConfig(), prev)
	if _, ok := next.Lookup("prefix"); !ok {
		t.Fatal("custom metric lost across rebuild")
	}
	if next.Count() != prev.Count() {
		t.Fatalf("Count mismatch: got %d want %d", next.Count(), prev.Count())
	}
}

// TestBuildResolver_UsesConfiguredMetric resolves through each built-in
// metric and through a custom one.
func TestBuildResolver_UsesConfiguredMetric(t *testing.T) {
	b := builder.New()
	cat := testCatalog(t)

	for _, name := range []string{strategy.Ratio, strategy.Levenshtein, strategy.JaroWinkler} {
		cfg := config.NewConfig(config.WithMetric(name))
		res, err := b.BuildResolver(cfg, b.BuildRegistry(cfg, nil), cat, nil)
		if err != nil {
			t.Fatalf("%s: BuildResolver failed: %v", name, err)
		}
		got, err := res.Resolve(context.Background(), apis.Request{
			Version: "2.3.7.6", FamilyHint: "user_and_roles", MethodHint: "add_role",
		})
		if err != nil {
			t.Fatalf("%s: Resolve failed: %v", name, err)
		}
		if got.Member != "add_role_ap_i" {
			t.Fatalf("%s: member mismatch: got %q", name, got.Member)
		}
	}
}

// TestBuildResolver_WithExternalRegistry asserts that BuildResolver accepts
// any apis.Registry implementation, not only the one created by this builder.
func TestBuildResolver_WithExternalRegistry(t *testing.T) {
	r := registry.New()

	// A metric that always prefers "sites".
	sites := apis.SimilarityFunc{Key: "sites", Fn: func(_, candidate string) float64 {
		if candidate == "sites" {
			return 1
		}
		return 0
	}}
	if err := r.Register("sites", sites); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	cfg := config.NewConfig(config.WithMetric("sites"))
	res, err := builder.New().BuildResolver(cfg, r, testCatalog(t), nil)
	if err != nil {
		t.Fatalf("BuildResolver failed: %v", err)
	}

	got, err := res.Resolve(context.Background(), apis.Request{
		Version: "2.3.7.6", FamilyHint: "anything", MethodHint: "get",
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Path.Leaf() != "sites" || got.Member != "get_site" {
		t.Fatalf("resolver did not use registry metric: got %s/%s", got.Path, got.Member)
	}
}

// TestBuildResolver_Errors covers unknown metrics and a missing registry.
func TestBuildResolver_Errors(t *testing.T) {
	b := builder.New()
	cfg := config.NewConfig(config.WithMetric("soundex"))

	if _, err := b.BuildResolver(cfg, b.BuildRegistry(cfg, nil), testCatalog(t), nil); !errors.Is(err, builder.ErrUnknownMetric) {
		t.Fatalf("expected ErrUnknownMetric, got %v", err)
	}
	if _, err := b.BuildResolver(config.DefaultConfig(), nil, testCatalog(t), nil); !errors.Is(err, builder.ErrNilRegistry) {
		t.Fatalf("expected ErrNilRegistry, got %v", err)
	}
}

// TestBuildResolver_Concurrency_Smoke hammers the resolver in parallel to
// ensure it is safe to call Resolve and Inspect concurrently after being built.
func TestBuildResolver_Concurrency_Smoke(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()

	res, err := b.BuildResolver(cfg, b.BuildRegistry(cfg, nil), testCatalog(t), nil)
	if err != nil {
		t.Fatalf("BuildResolver failed: %v", err)
	}

	reqs := []apis.Request{
		{Version: "2.3.7.6", FamilyHint: "user role", MethodHint: "roles"},
		{Version: "2.3.7.6", FamilyHint: "sites", MethodHint: "get"},
		{Version: "2.3.7.6", FamilyHint: "sites", MethodHint: "zzz"},
	}

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			ctx := context.Background()
			for i := 0; i < 500; i++ {
				_, _ = res.Resolve(ctx, reqs[(i+id)%len(reqs)])
				_, _ = res.Inspect(ctx, "2.3.7.6", "sites")
			}
		}(w)
	}

	wg.Wait()
}

// Compile-time check: builder.New() must satisfy apis.Builder.
var _ apis.Builder = builder.New()
