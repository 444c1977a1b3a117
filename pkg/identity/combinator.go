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

import (
	"crypto/x509"
	"strings"
)

// allOfMatcher conjoins a SAN matcher with an issuer matcher (or any other
// set of matchers): cert matches only if every member matches.
type allOfMatcher struct {
	matchers []Matcher
}

// AllOf builds a combinator requiring every one of matchers to match, the
// (SAN, issuer) pair combinator spec §4.H and §9 call for.
func AllOf(matchers ...Matcher) Matcher {
	return &allOfMatcher{matchers: matchers}
}

func (m *allOfMatcher) Matches(cert *x509.Certificate) (bool, error) {
	for _, sub := range m.matchers {
		ok, err := sub.Matches(cert)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (m *allOfMatcher) String() string {
	parts := make([]string, len(m.matchers))
	for i, sub := range m.matchers {
		parts[i] = sub.String()
	}
	return "all(" + strings.Join(parts, ", ") + ")"
}
