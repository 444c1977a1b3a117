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
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

// envOverrides binds the two environment variables spec §6 names. Left
// unexported: callers configure the client through Options and
// functional options, not by reaching into env parsing themselves.
type envOverrides struct {
	TrustedRootPath string `envconfig:"SIGSTORE_TRUSTED_ROOT"`
	CacheDir        string `envconfig:"SIGSTORE_TUF_CACHE"`
}

func loadEnvOverrides() envOverrides {
	var e envOverrides
	// envconfig.Process only fails on type-conversion errors; both fields
	// are plain strings, so there is nothing for it to fail on.
	_ = envconfig.Process("", &e)
	return e
}

// Options configures a Client. Defaults are the public-good Sigstore TUF
// repository with a 24-hour cache validity; the zero value is not usable
// directly, use New with functional options.
type Options struct {
	MetadataBaseURL string
	// TargetsPath is the path segment under MetadataBaseURL that serves
	// consistent-snapshot target files, per spec §6 ("targetsBaseUrl" is
	// MetadataBaseURL + "/" + TargetsPath in the public-good/staging
	// layouts this client supports).
	TargetsPath string
	CacheDir    string
	CacheValidity   time.Duration
	MaxAttempts     int
	// TrustedRootOverridePath, when non-empty, bypasses the TUF fetch
	// entirely and loads trusted_root.json from this path instead —
	// SIGSTORE_TRUSTED_ROOT's effect.
	TrustedRootOverridePath string
	logger                  *zap.SugaredLogger
}

const (
	// PublicGoodMetadataBaseURL is the root-of-trust TUF repository serving
	// the production Sigstore trust root.
	PublicGoodMetadataBaseURL = "https://tuf-repo-cdn.sigstore.dev"
	// StagingMetadataBaseURL is the staging Sigstore TUF repository, used
	// against Fulcio/Rekor staging instances.
	StagingMetadataBaseURL = "https://tuf-repo-cdn.sigstage.dev"

	defaultCacheValidity = 24 * time.Hour
	defaultMaxAttempts   = 3
)

// Option configures an Options value.
type Option func(*Options)

// WithMetadataBaseURL overrides the TUF metadata repository URL.
func WithMetadataBaseURL(url string) Option {
	return func(o *Options) { o.MetadataBaseURL = url }
}

// WithTargetsPath overrides the relative path segment targets are served
// under.
func WithTargetsPath(path string) Option {
	return func(o *Options) { o.TargetsPath = path }
}

// WithCacheDir overrides the on-disk cache directory.
func WithCacheDir(dir string) Option {
	return func(o *Options) { o.CacheDir = dir }
}

// WithCacheValidity overrides how long successfully fetched metadata is
// trusted before a refresh is attempted, independent of each file's own
// expiry.
func WithCacheValidity(d time.Duration) Option {
	return func(o *Options) { o.CacheValidity = d }
}

// WithMaxAttempts overrides how many times a transient network failure is
// retried before surfacing as TufNetworkError.
func WithMaxAttempts(n int) Option {
	return func(o *Options) { o.MaxAttempts = n }
}

// WithTrustedRootOverridePath sets the same override SIGSTORE_TRUSTED_ROOT
// provides, bypassing the TUF fetch entirely in favor of a local file.
func WithTrustedRootOverridePath(path string) Option {
	return func(o *Options) { o.TrustedRootOverridePath = path }
}

// WithLogger attaches a structured logger; the default is silent.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *Options) { o.logger = logger }
}

func defaultOptions() Options {
	return Options{
		MetadataBaseURL: PublicGoodMetadataBaseURL,
		TargetsPath:     "targets",
		CacheValidity:   defaultCacheValidity,
		MaxAttempts:     defaultMaxAttempts,
		logger:          zap.NewNop().Sugar(),
	}
}

// newOptions applies SIGSTORE_TRUSTED_ROOT/SIGSTORE_TUF_CACHE over the
// defaults, then the caller's functional options on top, so an explicit
// option always wins over an environment variable.
func newOptions(opts ...Option) Options {
	o := defaultOptions()
	env := loadEnvOverrides()
	if env.CacheDir != "" {
		o.CacheDir = env.CacheDir
	}
	if env.TrustedRootPath != "" {
		o.TrustedRootOverridePath = env.TrustedRootPath
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
