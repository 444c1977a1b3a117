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

// Package identity evaluates user-supplied identity predicates against a
// Fulcio-issued leaf certificate: SAN URI/email matchers, OIDC-issuer
// matchers, and combinators joining the two. A matcher is a capability,
// `Matches(cert) (bool, error)`; an error reading the certificate is never
// folded into a clean "no match" — it surfaces as MatcherEvaluationError so
// the orchestrator can tell "structurally can't tell" apart from "doesn't
// match".
package identity

import "fmt"

// MatcherEvaluationError wraps a failure encountered while evaluating a
// matcher against a certificate — as opposed to the matcher cleanly
// reporting no match.
type MatcherEvaluationError struct {
	Matcher string
	Err     error
}

func (e *MatcherEvaluationError) Error() string {
	return fmt.Sprintf("evaluating matcher %s: %v", e.Matcher, e.Err)
}

func (e *MatcherEvaluationError) Unwrap() error {
	return e.Err
}
