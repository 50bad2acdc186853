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

package member_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/vroute/apis"
	"dirpx.dev/vroute/catalog"
	"dirpx.dev/vroute/member"
)

var users = apis.NamespacePath{"v2_3_7_6", "user_and_roles"}

func names(ms []apis.Member) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

func TestEnumerate_SortedAndDeduplicated(t *testing.T) {
	cat := fixedCatalog{members: []string{"get_user_api", "add_user_api", "get_user_api", "delete_user_api"}}
	ms, err := member.NewEnumerator(cat).Enumerate(context.Background(), users)
	require.NoError(t, err)
	assert.Equal(t, []string{"add_user_api", "delete_user_api", "get_user_api"}, names(ms))
	for _, m := range ms {
		assert.True(t, m.Namespace.Equal(users))
	}
}

func TestEnumerate_StaticCatalog(t *testing.T) {
	cat := catalog.New().
		Add("2.3.7.6", "user_and_roles", "get_roles_api", "add_role_api").
		MustBuild()

	first, err := member.NewEnumerator(cat).Enumerate(context.Background(), users)
	require.NoError(t, err)
	second, err := member.NewEnumerator(cat).Enumerate(context.Background(), users)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"add_role_api", "get_roles_api"}, names(first))
}

func TestEnumerate_CatalogErrors(t *testing.T) {
	boom := errors.New("disk gone")
	_, err := member.NewEnumerator(fixedCatalog{err: boom}).Enumerate(context.Background(), users)
	var ce *apis.CatalogAccessError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "members", ce.Op)
	assert.True(t, ce.Path.Equal(users))
	assert.ErrorIs(t, err, boom)

	_, err = member.NewEnumerator(nil).Enumerate(context.Background(), users)
	assert.ErrorIs(t, err, apis.ErrCatalogAccess)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = member.NewEnumerator(fixedCatalog{}).Enumerate(ctx, users)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, apis.KindCatalogAccess, apis.KindOf(err))
}

func TestFilter(t *testing.T) {
	ms := []apis.Member{{Name: "add_user_api"}, {Name: "get_user_api"}, {Name: "get_users_api"}, {Name: "Get_User"}}

	tests := []struct {
		hint string
		want []string
	}{
		{"get_user", []string{"get_user_api", "get_users_api"}},
		{"user", []string{"add_user_api", "get_user_api", "get_users_api"}},
		{"User", []string{"Get_User"}},
		{"", []string{"add_user_api", "get_user_api", "get_users_api", "Get_User"}},
		{"missing", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			assert.Equal(t, tt.want, names(member.Filter(ms, tt.hint)))
		})
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	ms := []apis.Member{{Name: "b"}, {Name: "a"}}
	_ = member.Filter(ms, "a")
	assert.Equal(t, []string{"b", "a"}, names(ms))
}

func TestSelect(t *testing.T) {
	m, err := member.Select([]apis.Member{{Name: "get_user_api"}, {Name: "get_users_api"}})
	require.NoError(t, err)
	assert.Equal(t, "get_user_api", m.Name)

	_, err = member.Select(nil)
	assert.ErrorIs(t, err, apis.ErrMethodNotFound)
}

type fixedCatalog struct {
	members []string
	err     error
}

func (f fixedCatalog) Namespaces(context.Context, apis.Version) ([]string, error) {
	return nil, errors.New("not used")
}

func (f fixedCatalog) Members(context.Context, apis.NamespacePath) ([]string, error) {
	return f.members, f.err
}
