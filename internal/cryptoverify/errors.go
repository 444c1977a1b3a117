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

// Package cryptoverify implements the crypto primitives component: parsing
// public keys, constructing digest verifiers, and dispatching by algorithm
// over the small set of signature schemes Sigstore bundles use.
package cryptoverify

import "errors"

var (
	// ErrBadKeyFormat is returned when key bytes are not a recognizable PEM
	// block, or decode to an algorithm we don't support.
	ErrBadKeyFormat = errors.New("bad key format")
	// ErrUnsupportedAlgorithm is returned when a key or signature scheme is
	// syntactically valid but not one of the algorithms this verifier
	// supports (RSA, ECDSA P-256/P-384, Ed25519).
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	// ErrInvalidSignature is returned by VerifyDigest when the signature does
	// not validate against the digest and public key.
	ErrInvalidSignature = errors.New("invalid signature")
)
