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

// Package certutil provides the small set of certificate-path and
// byte-exact-encoding operations the Fulcio and Rekor verifiers build on:
// splitting a certPath into leaf and intermediates, canonical PEM encoding,
// and reconstructing the pre-certificate TBS bytes a CT log actually signed.
package certutil

import "errors"

var (
	// ErrEmptyCertPath is returned by GetLeaf/GetIntermediates when the
	// certificate path has no certificates at all.
	ErrEmptyCertPath = errors.New("certificate path is empty")
	// ErrLeafIsCA is returned by GetLeaf when the first certificate in the
	// path has BasicConstraints.cA == true.
	ErrLeafIsCA = errors.New("leaf certificate has CA basic constraint set")
	// ErrNoSctExtension is returned by WithoutSCT when the certificate
	// carries no SCT list extension to strip.
	ErrNoSctExtension = errors.New("certificate has no SCT list extension")
)
