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

package verify

import (
	"go.uber.org/zap"

	"github.com/sigstore/keyless-verify/pkg/identity"
)

// Options configures one Verify call: the identity matchers applied to the
// leaf (step 4), the transparency-log and SCT thresholds applied in steps
// 3 and 5, and a logger for diagnostic tracing of which cascade steps
// passed (Verify logs nothing when a step fails; the failure is returned).
type Options struct {
	CertificateMatchers      []identity.Matcher
	TransparencyLogThreshold int
	SCTThreshold             int
	logger                   *zap.SugaredLogger
}

// Option configures Options.
type Option func(*Options)

// WithCertificateMatchers sets the identity matchers evaluated against the
// leaf in step 4. An empty or omitted list is vacuously satisfied.
func WithCertificateMatchers(matchers ...identity.Matcher) Option {
	return func(o *Options) { o.CertificateMatchers = matchers }
}

// WithTransparencyLogThreshold requires n verified Rekor entries instead of
// the default of one, mirrored from sigstore-go's
// verify.WithTransparencyLog(threshold). Since spec §3 fixes a bundle to
// exactly one Rekor entry, any n greater than 1 can never be satisfied and
// is rejected by Verify at the bundle-shape check (step 1) rather than
// silently always failing downstream.
func WithTransparencyLogThreshold(n int) Option {
	return func(o *Options) { o.TransparencyLogThreshold = n }
}

// WithSCTThreshold requires n independently verified SCTs instead of the
// default of one, mirrored from sigstore-go's
// verify.WithSignedCertificateTimestamps(threshold).
func WithSCTThreshold(n int) Option {
	return func(o *Options) { o.SCTThreshold = n }
}

// WithLogger attaches a structured logger; the default is silent.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *Options) { o.logger = logger }
}

func newOptions(opts ...Option) Options {
	o := Options{
		TransparencyLogThreshold: 1,
		SCTThreshold:             1,
		logger:                   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
