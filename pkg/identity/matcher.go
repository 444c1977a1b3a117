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

package identity

import "crypto/x509"

// Matcher is a predicate over a Fulcio-issued certificate, with a
// diagnostic string representation. Implementations must never turn a
// genuine evaluation failure into a silent false — return an error
// instead.
type Matcher interface {
	Matches(cert *x509.Certificate) (bool, error)
	String() string
}

// AnyMatches reports whether cert satisfies at least one of matchers. An
// empty matcher list is vacuously satisfied, per spec §4.G step 4 ("success
// iff the matcher list is empty or at least one matcher matches"). The
// first matcher to raise an evaluation error stops the search and that
// error is returned wrapped in MatcherEvaluationError.
func AnyMatches(matchers []Matcher, cert *x509.Certificate) (bool, error) {
	if len(matchers) == 0 {
		return true, nil
	}
	for _, m := range matchers {
		ok, err := m.Matches(cert)
		if err != nil {
			return false, &MatcherEvaluationError{Matcher: m.String(), Err: err}
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
