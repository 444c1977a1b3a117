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

// Package verify is the Keyless Verifier orchestrator (spec §4.G): it
// composes pkg/fulcio, pkg/rekor, pkg/identity and internal/cryptoverify
// over a (artifactDigest, bundle, options) input into one end-to-end
// decision. It performs no I/O.
package verify

import "fmt"

// Kind enumerates the taxonomy of spec §7. Every failure Verify returns is
// wrapped in a *KeylessVerificationError carrying exactly one Kind.
type Kind int

const (
	// BundleMalformed: shape violation in step 1.
	BundleMalformed Kind = iota
	// DigestMismatch: step 2.
	DigestMismatch
	// FulcioError: chain, CA, SCT, or leaf-constraint failures (step 3).
	FulcioError
	// MatcherEvaluationError: a matcher raised while evaluating (step 4).
	MatcherEvaluationError
	// NoIdentityMatch: no matcher matched (step 4).
	NoIdentityMatch
	// RekorError: SET, inclusion, or checkpoint failures (step 5).
	RekorError
	// LogBindingMismatch: step 6.
	LogBindingMismatch
	// TimeOutOfValidity: step 7.
	TimeOutOfValidity
	// SignatureInvalid: step 8.
	SignatureInvalid
)

func (k Kind) String() string {
	switch k {
	case BundleMalformed:
		return "BundleMalformed"
	case DigestMismatch:
		return "DigestMismatch"
	case FulcioError:
		return "FulcioError"
	case MatcherEvaluationError:
		return "MatcherEvaluationError"
	case NoIdentityMatch:
		return "NoIdentityMatch"
	case RekorError:
		return "RekorError"
	case LogBindingMismatch:
		return "LogBindingMismatch"
	case TimeOutOfValidity:
		return "TimeOutOfValidity"
	case SignatureInvalid:
		return "SignatureInvalid"
	default:
		return "Unknown"
	}
}

// KeylessVerificationError is the single error type Verify ever returns.
// Kind identifies which of the §4.G cascade's steps failed; Err carries
// the specific cause (often itself a sentinel from pkg/fulcio, pkg/rekor,
// or pkg/identity).
type KeylessVerificationError struct {
	Kind Kind
	Err  error
}

func (e *KeylessVerificationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *KeylessVerificationError) Unwrap() error {
	return e.Err
}

func fail(kind Kind, err error) error {
	return &KeylessVerificationError{Kind: kind, Err: err}
}
