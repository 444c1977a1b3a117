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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"math/big"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigstore/fulcio/pkg/certificate"
)

func makeCertWithExtensions(t *testing.T, email string, uri string, extraExts ...pkix.Extension) *x509.Certificate {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	template := &x509.Certificate{
		SerialNumber:    big.NewInt(1),
		ExtraExtensions: extraExts,
	}
	if email != "" {
		template.EmailAddresses = []string{email}
	}
	if uri != "" {
		parsed, err := url.Parse(uri)
		require.NoError(t, err)
		template.URIs = []*url.URL{parsed}
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &priv.PublicKey, priv)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return cert
}

func issuerExtensionV2(t *testing.T, issuer string) pkix.Extension {
	t.Helper()
	val, err := asn1.Marshal(issuer)
	require.NoError(t, err)
	return pkix.Extension{Id: certificate.OIDIssuerV2, Value: val}
}

func TestSANLiteralMatcherMatchesEmail(t *testing.T) {
	cert := makeCertWithExtensions(t, "a@b.com", "")
	m := NewSANLiteralMatcher(SANKindEmail, "a@b.com")
	ok, err := m.Matches(cert)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSANLiteralMatcherRejectsMismatch(t *testing.T) {
	cert := makeCertWithExtensions(t, "c@d.com", "")
	m := NewSANLiteralMatcher(SANKindEmail, "a@b.com")
	ok, err := m.Matches(cert)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSANRegexMatcherMatchesURI(t *testing.T) {
	cert := makeCertWithExtensions(t, "", "https://github.com/example/repo/.github/workflows/release.yml@refs/heads/main")
	m, err := NewSANRegexMatcher(SANKindURI, `^https://github\.com/example/.*$`)
	require.NoError(t, err)
	ok, err := m.Matches(cert)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIssuerMatcherReadsV2Extension(t *testing.T) {
	cert := makeCertWithExtensions(t, "", "", issuerExtensionV2(t, "https://accounts.example.com"))
	m := NewIssuerLiteralMatcher("https://accounts.example.com")
	ok, err := m.Matches(cert)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIssuerMatcherFailsWhenExtensionAbsent(t *testing.T) {
	cert := makeCertWithExtensions(t, "", "")
	m := NewIssuerLiteralMatcher("https://accounts.example.com")
	_, err := m.Matches(cert)
	assert.Error(t, err)
}

func TestAllOfRequiresEveryMatcher(t *testing.T) {
	cert := makeCertWithExtensions(t, "a@b.com", "", issuerExtensionV2(t, "https://accounts.example.com"))
	combined := AllOf(
		NewSANLiteralMatcher(SANKindEmail, "a@b.com"),
		NewIssuerLiteralMatcher("https://accounts.example.com"),
	)
	ok, err := combined.Matches(cert)
	require.NoError(t, err)
	assert.True(t, ok)

	mismatched := AllOf(
		NewSANLiteralMatcher(SANKindEmail, "a@b.com"),
		NewIssuerLiteralMatcher("https://wrong.example.com"),
	)
	ok, err = mismatched.Matches(cert)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAnyMatchesEmptyListIsVacuouslyTrue(t *testing.T) {
	cert := makeCertWithExtensions(t, "a@b.com", "")
	ok, err := AnyMatches(nil, cert)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAnyMatchesWrapsEvaluationError(t *testing.T) {
	cert := makeCertWithExtensions(t, "a@b.com", "")
	m := NewIssuerLiteralMatcher("https://accounts.example.com")
	_, err := AnyMatches([]Matcher{m}, cert)
	require.Error(t, err)
	var evalErr *MatcherEvaluationError
	assert.ErrorAs(t, err, &evalErr)
}

func TestCertificateIdentitiesVerifyEmptyListIsVacuouslyTrue(t *testing.T) {
	cert := makeCertWithExtensions(t, "a@b.com", "")
	name, ok, err := CertificateIdentities(nil).Verify(cert)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, name)
}

func TestCertificateIdentitiesVerifyReportsFirstMatchingName(t *testing.T) {
	cert := makeCertWithExtensions(t, "a@b.com", "", issuerExtensionV2(t, "https://accounts.example.com"))
	ids := CertificateIdentities{
		{Name: "wrong", Matcher: NewSANLiteralMatcher(SANKindEmail, "nobody@example.com")},
		{Name: "ci-bot", Matcher: NewSANLiteralMatcher(SANKindEmail, "a@b.com")},
		{Name: "unreached", Matcher: NewIssuerLiteralMatcher("https://accounts.example.com")},
	}
	name, ok, err := ids.Verify(cert)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ci-bot", name)
}

func TestCertificateIdentitiesVerifyNoMatch(t *testing.T) {
	cert := makeCertWithExtensions(t, "a@b.com", "")
	ids := CertificateIdentities{
		{Name: "ci-bot", Matcher: NewSANLiteralMatcher(SANKindEmail, "nobody@example.com")},
	}
	name, ok, err := ids.Verify(cert)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestCertificateIdentitiesVerifyWrapsEvaluationError(t *testing.T) {
	cert := makeCertWithExtensions(t, "a@b.com", "")
	ids := CertificateIdentities{
		{Name: "ci-bot", Matcher: NewIssuerLiteralMatcher("https://accounts.example.com")},
	}
	_, _, err := ids.Verify(cert)
	require.Error(t, err)
	var evalErr *MatcherEvaluationError
	assert.ErrorAs(t, err, &evalErr)
}
