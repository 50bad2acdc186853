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

package locator_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/vroute/apis"
	"dirpx.dev/vroute/catalog"
	"dirpx.dev/vroute/locator"
	"dirpx.dev/vroute/strategy"
)

func testCatalog(t *testing.T, families ...string) apis.Catalog {
	t.Helper()
	b := catalog.New()
	for _, f := range families {
		b.Add("2.3.7.6", f, "noop")
	}
	cat, err := b.Build()
	require.NoError(t, err)
	return cat
}

func TestLocate_ExactMatchScoresOne(t *testing.T) {
	cat := testCatalog(t, "user_and_roles", "user_and_role", "users_and_roles", "sites")
	l := locator.New(cat, strategy.NewRatio(), 0.6)

	m, err := l.Locate(context.Background(), "2.3.7.6", "user_and_roles")
	require.NoError(t, err)
	assert.Equal(t, "user_and_roles", m.Namespace)
	assert.Equal(t, 1.0, m.Score)
	assert.Equal(t, 4, m.Candidates)
	assert.NotEmpty(t, m.RunnerUp)
	assert.Less(t, m.RunnerUpScore, 1.0)
}

func TestLocate_ExactMatchBeatsConstantMetric(t *testing.T) {
	cat := testCatalog(t, "aaa", "user_and_roles")
	always := apis.SimilarityFunc{Key: "always", Fn: func(string, string) float64 { return 1 }}
	l := locator.New(cat, always, 0.6)

	m, err := l.Locate(context.Background(), "2.3.7.6", "user_and_roles")
	require.NoError(t, err)
	assert.Equal(t, "user_and_roles", m.Namespace)
	assert.Equal(t, "aaa", m.RunnerUp)
}

func TestLocate_FuzzyHint(t *testing.T) {
	cat := testCatalog(t, "user_and_roles", "sites", "site_design", "devices")
	l := locator.New(cat, strategy.NewRatio(), 0.6)

	m, err := l.Locate(context.Background(), "2.3.7.6", "user role")
	require.NoError(t, err)
	assert.Equal(t, "user_and_roles", m.Namespace)
	assert.InDelta(t, 16.0/23.0, m.Score, 1e-9)
	assert.GreaterOrEqual(t, m.Score, l.Cutoff())
}

func TestLocate_TieBreakLexicographic(t *testing.T) {
	cat := testCatalog(t, "zeta", "alpha", "mid")
	half := apis.SimilarityFunc{Key: "half", Fn: func(string, string) float64 { return 0.7 }}
	l := locator.New(cat, half, 0.6)

	for i := 0; i < 20; i++ {
		m, err := l.Locate(context.Background(), "2.3.7.6", "anything")
		require.NoError(t, err)
		assert.Equal(t, "alpha", m.Namespace)
		assert.Equal(t, "mid", m.RunnerUp)
		assert.Equal(t, 0.7, m.RunnerUpScore)
	}
}

func TestLocate_BelowCutoff(t *testing.T) {
	cat := testCatalog(t, "sites", "devices")
	l := locator.New(cat, strategy.NewRatio(), 0.6)

	_, err := l.Locate(context.Background(), "2.3.7.6", "user role")
	require.Error(t, err)

	var nf *apis.NamespaceNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "user role", nf.Hint)
	assert.Equal(t, apis.Version("2.3.7.6"), nf.Version)
	assert.Equal(t, 0.6, nf.Cutoff)
	assert.NotEmpty(t, nf.Best)
	assert.Less(t, nf.BestScore, 0.6)
	assert.Equal(t, apis.KindNamespaceNotFound, apis.KindOf(err))
}

func TestLocate_EmptyRelease(t *testing.T) {
	cat := fakeCatalog{namespaces: []string{}}
	l := locator.New(cat, strategy.NewRatio(), 0.6)

	_, err := l.Locate(context.Background(), "2.3.7.6", "sites")
	var nf *apis.NamespaceNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Empty(t, nf.Best)
}

func TestLocate_SingleCandidateHasNoRunnerUp(t *testing.T) {
	cat := testCatalog(t, "sites")
	l := locator.New(cat, strategy.NewRatio(), 0.6)

	m, err := l.Locate(context.Background(), "2.3.7.6", "site")
	require.NoError(t, err)
	assert.Equal(t, "sites", m.Namespace)
	assert.Empty(t, m.RunnerUp)
	assert.Zero(t, m.RunnerUpScore)
}

func TestLocate_DuplicateNamesCountedOnce(t *testing.T) {
	cat := fakeCatalog{namespaces: []string{"sites", "sites", "devices"}}
	l := locator.New(cat, strategy.NewRatio(), 0.6)

	m, err := l.Locate(context.Background(), "2.3.7.6", "sites")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Candidates)
	assert.Equal(t, "devices", m.RunnerUp)
}

func TestLocate_CatalogFailure(t *testing.T) {
	boom := errors.New("storage unreachable")
	l := locator.New(fakeCatalog{err: boom}, strategy.NewRatio(), 0.6)

	_, err := l.Locate(context.Background(), "2.3.7.6", "sites")
	var ce *apis.CatalogAccessError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "namespaces", ce.Op)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, apis.KindCatalogAccess, apis.KindOf(err))

	l = locator.New(nil, strategy.NewRatio(), 0.6)
	_, err = l.Locate(context.Background(), "2.3.7.6", "sites")
	assert.ErrorIs(t, err, apis.ErrCatalogAccess)
}

func TestLocate_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cat := &countingCatalog{}
	l := locator.New(cat, strategy.NewRatio(), 0.6)
	_, err := l.Locate(ctx, "2.3.7.6", "sites")
	assert.ErrorIs(t, err, apis.ErrCatalogAccess)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, cat.calls)
}

type fakeCatalog struct {
	namespaces []string
	err        error
}

func (f fakeCatalog) Namespaces(context.Context, apis.Version) ([]string, error) {
	return f.namespaces, f.err
}

func (f fakeCatalog) Members(_ context.Context, p apis.NamespacePath) ([]string, error) {
	return nil, fmt.Errorf("unexpected members call for %s", p)
}

type countingCatalog struct{ calls int }

func (c *countingCatalog) Namespaces(context.Context, apis.Version) ([]string, error) {
	c.calls++
	return []string{"sites"}, nil
}

func (c *countingCatalog) Members(context.Context, apis.NamespacePath) ([]string, error) {
	c.calls++
	return nil, nil
}
