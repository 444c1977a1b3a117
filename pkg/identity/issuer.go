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
	"encoding/asn1"
	"fmt"
	"regexp"

	"github.com/sigstore/fulcio/pkg/certificate"
)

// issuerInCertificate extracts the OIDC issuer Fulcio recorded in cert,
// accepting either the deprecated v1 extension (OID 1.3.6.1.4.1.57264.1.1,
// raw string bytes) or the current v2 extension (OID 1.3.6.1.4.1.57264.1.8,
// ASN.1 UTF8String), and rejecting certificates that carry both with
// inconsistent values.
func issuerInCertificate(cert *x509.Certificate) (string, error) {
	var issuerV1, issuerV2 string
	var gotV1, gotV2 bool

	for _, ext := range cert.Extensions {
		switch {
		case ext.Id.Equal(certificate.OIDIssuer):
			issuerV1 = string(ext.Value)
			gotV1 = true
		case ext.Id.Equal(certificate.OIDIssuerV2):
			rest, err := asn1.Unmarshal(ext.Value, &issuerV2)
			if err != nil {
				return "", fmt.Errorf("invalid ASN.1 in OIDC issuer v2 extension: %w", err)
			}
			if len(rest) != 0 {
				return "", fmt.Errorf("invalid ASN.1 in OIDC issuer v2 extension: trailing data")
			}
			gotV2 = true
		}
	}

	switch {
	case gotV1 && gotV2:
		if issuerV1 != issuerV2 {
			return "", fmt.Errorf("inconsistent OIDC issuer extension values: v1 %q, v2 %q", issuerV1, issuerV2)
		}
		return issuerV1, nil
	case gotV1:
		return issuerV1, nil
	case gotV2:
		return issuerV2, nil
	default:
		return "", fmt.Errorf("certificate is missing the OIDC issuer extension")
	}
}

// issuerMatcher matches the certificate's OIDC issuer against either a
// literal string or a regular expression. Exactly one of literal or
// pattern is set.
type issuerMatcher struct {
	literal string
	pattern *regexp.Regexp
}

// NewIssuerLiteralMatcher matches the OIDC issuer extension by exact
// string equality.
func NewIssuerLiteralMatcher(literal string) Matcher {
	return &issuerMatcher{literal: literal}
}

// NewIssuerRegexMatcher matches the OIDC issuer extension against expr.
func NewIssuerRegexMatcher(expr string) (Matcher, error) {
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile issuer matcher regex: %w", err)
	}
	return &issuerMatcher{pattern: pattern}, nil
}

func (m *issuerMatcher) Matches(cert *x509.Certificate) (bool, error) {
	issuer, err := issuerInCertificate(cert)
	if err != nil {
		return false, err
	}
	if m.pattern != nil {
		return m.pattern.MatchString(issuer), nil
	}
	return issuer == m.literal, nil
}

func (m *issuerMatcher) String() string {
	if m.pattern != nil {
		return fmt.Sprintf("issuer matches /%s/", m.pattern.String())
	}
	return fmt.Sprintf("issuer == %q", m.literal)
}
