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
	"fmt"
	"regexp"
)

// SANKind selects which subjectAltName field a sanMatcher reads.
type SANKind int

const (
	SANKindURI SANKind = iota
	SANKindEmail
)

func (k SANKind) String() string {
	switch k {
	case SANKindURI:
		return "URI"
	case SANKindEmail:
		return "email"
	default:
		return "unknown"
	}
}

func (k SANKind) values(cert *x509.Certificate) ([]string, error) {
	switch k {
	case SANKindURI:
		values := make([]string, len(cert.URIs))
		for i, u := range cert.URIs {
			values[i] = u.String()
		}
		return values, nil
	case SANKindEmail:
		return cert.EmailAddresses, nil
	default:
		return nil, fmt.Errorf("unknown SAN kind %d", k)
	}
}

// sanMatcher matches one of a certificate's SAN URI or SAN email values
// against either a literal string or a regular expression. Exactly one of
// literal or pattern is set.
type sanMatcher struct {
	kind    SANKind
	literal string
	pattern *regexp.Regexp
}

// NewSANLiteralMatcher matches a SAN URI or SAN email value by exact
// string equality.
func NewSANLiteralMatcher(kind SANKind, literal string) Matcher {
	return &sanMatcher{kind: kind, literal: literal}
}

// NewSANRegexMatcher matches a SAN URI or SAN email value against expr.
func NewSANRegexMatcher(kind SANKind, expr string) (Matcher, error) {
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile SAN matcher regex: %w", err)
	}
	return &sanMatcher{kind: kind, pattern: pattern}, nil
}

func (m *sanMatcher) Matches(cert *x509.Certificate) (bool, error) {
	values, err := m.kind.values(cert)
	if err != nil {
		return false, err
	}
	for _, v := range values {
		if m.pattern != nil {
			if m.pattern.MatchString(v) {
				return true, nil
			}
			continue
		}
		if v == m.literal {
			return true, nil
		}
	}
	return false, nil
}

func (m *sanMatcher) String() string {
	if m.pattern != nil {
		return fmt.Sprintf("SAN %s matches /%s/", m.kind, m.pattern.String())
	}
	return fmt.Sprintf("SAN %s == %q", m.kind, m.literal)
}
