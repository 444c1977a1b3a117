// Copyright 2021 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tuf

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveTrustedRootServesRefreshedRoot(t *testing.T) {
	dir := t.TempDir()
	rootPath := filepath.Join(dir, "trusted_root.json")
	require.NoError(t, os.WriteFile(rootPath, []byte(minimalTrustedRootJSON), 0o600))

	c, err := New(WithCacheDir(dir), WithTrustedRootOverridePath(rootPath))
	require.NoError(t, err)

	live, err := NewLiveTrustedRoot(context.Background(), c, time.Hour)
	require.NoError(t, err)
	defer live.Stop()

	tr := live.Get()
	require.NotNil(t, tr)
	assert.Empty(t, tr.CertificateAuthorities)
}

func TestNewLiveTrustedRootFailsWhenInitialFetchFails(t *testing.T) {
	dir := t.TempDir()
	c, err := New(WithCacheDir(dir), WithTrustedRootOverridePath(filepath.Join(dir, "does-not-exist.json")))
	require.NoError(t, err)

	_, err = NewLiveTrustedRoot(context.Background(), c, time.Hour)
	assert.ErrorIs(t, err, errTrustedRootOverrideUnreadable)
}
