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

// CertificateIdentity names a Matcher so a caller configuring several
// candidate identities can learn which one accepted a certificate.
type CertificateIdentity struct {
	Name    string
	Matcher Matcher
}

// CertificateIdentities is an ordered list of named candidate identities.
// Unlike AnyMatches, Verify reports which identity matched, mirrored from
// sigstore-go's PolicyConfig.certificateIdentities.Verify.
type CertificateIdentities []CertificateIdentity

// Verify reports whether cert satisfies at least one identity in ids, and
// if so the Name of the first one that matched (candidates are tried in
// order; evaluation stops at the first match). An empty list is vacuously
// satisfied, consistent with AnyMatches. The first matcher to raise an
// evaluation error stops the search and that error is returned wrapped in
// MatcherEvaluationError.
func (ids CertificateIdentities) Verify(cert *x509.Certificate) (string, bool, error) {
	if len(ids) == 0 {
		return "", true, nil
	}
	for _, id := range ids {
		ok, err := id.Matcher.Matches(cert)
		if err != nil {
			return "", false, &MatcherEvaluationError{Matcher: id.Matcher.String(), Err: err}
		}
		if ok {
			return id.Name, true, nil
		}
	}
	return "", false, nil
}
