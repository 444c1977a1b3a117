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

// Package fulcio decides whether a leaf certificate was issued by a
// currently trusted Fulcio CA and carries at least one SCT verifiable
// under a trusted CT log.
package fulcio

import "errors"

var (
	// ErrChainBuildFailed means no path could be built from the leaf to
	// the chosen trusted CA.
	ErrChainBuildFailed = errors.New("fulcio: could not build certificate chain to a trusted CA")
	// ErrUntrustedCa means no CA in the trust root was active at the
	// leaf's notBefore.
	ErrUntrustedCa = errors.New("fulcio: no trusted CA active at certificate issuance time")
	// ErrMissingSct means the leaf carries no SCT list extension at all.
	ErrMissingSct = errors.New("fulcio: certificate has no SCT extension")
	// ErrNoValidSct means the leaf has SCTs but none verified under a
	// trusted, time-valid CT log key.
	ErrNoValidSct = errors.New("fulcio: no embedded SCT verified under a trusted CT log")
	// ErrBadLeafConstraints means the leaf fails one of the structural
	// checks required of a Fulcio-issued signing certificate.
	ErrBadLeafConstraints = errors.New("fulcio: leaf certificate fails required constraints")
)
