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

package bundle

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selfSignedLeaf(t *testing.T) *x509.Certificate {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "leaf"},
		NotBefore:    time.Unix(0, 0),
		NotAfter:     time.Unix(0, 0).Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &priv.PublicKey, priv)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return cert
}

func TestFromJSONRoundTripsCertChainAndEntry(t *testing.T) {
	leaf := selfSignedLeaf(t)

	doc := wireBundle{
		MediaType: "application/vnd.dev.sigstore.bundle.v0.3+json",
		VerificationMaterial: wireVerificationMaterial{
			X509CertificateChain: &wireX509CertificateChain{
				Certificates: []wireX509Certificate{{RawBytes: leaf.Raw}},
			},
			TlogEntries: []wireTlogEntry{
				{
					LogIndex:          42,
					LogID:             wireLogID{KeyID: []byte{0x01, 0x02}},
					IntegratedTime:    1000,
					CanonicalizedBody: []byte(`{"kind":"hashedrekord"}`),
					InclusionPromise:  &wireInclusionPromise{SignedEntryTimestamp: []byte{0x03, 0x04}},
					InclusionProof: &wireInclusionProof{
						LogIndex: 42,
						RootHash: []byte{0x05},
						TreeSize: 100,
						Hashes:   [][]byte{{0x06}, {0x07}},
						Checkpoint: &wireCheckpoint{Envelope: "log - 1\n"},
					},
				},
			},
		},
		MessageSignature: &wireMessageSignature{
			MessageDigest: &wireHashOutput{Algorithm: "SHA2_256", Digest: []byte{0x08}},
			Signature:     []byte{0x09},
		},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	b, err := FromJSON(raw)
	require.NoError(t, err)

	require.Len(t, b.CertPath, 1)
	assert.Equal(t, leaf.Raw, b.CertPath[0].Raw)
	require.NotNil(t, b.MessageSignature)
	assert.True(t, b.MessageSignature.HasDigest)
	assert.Equal(t, []byte{0x08}, b.MessageSignature.Digest)
	assert.Equal(t, []byte{0x09}, b.MessageSignature.Signature)
	assert.False(t, b.HasDSSEEnvelope)

	require.Len(t, b.Entries, 1)
	entry := b.Entries[0]
	assert.Equal(t, int64(42), entry.LogIndex)
	assert.Equal(t, int64(1000), entry.IntegratedTime)
	assert.Equal(t, []byte{0x01, 0x02}, entry.LogID)
	assert.Equal(t, []byte(`{"kind":"hashedrekord"}`), entry.Body)
	assert.Equal(t, []byte{0x03, 0x04}, entry.SignedEntryTimestamp)
	require.NotNil(t, entry.InclusionProof)
	assert.Equal(t, int64(100), entry.InclusionProof.TreeSize)
	assert.Equal(t, "log - 1\n", entry.InclusionProof.Checkpoint)
}

func TestFromJSONRejectsUnsupportedMediaType(t *testing.T) {
	_, err := FromJSON([]byte(`{"mediaType":"application/vnd.dev.sigstore.bundle.v9+json"}`))
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
}

func TestFromJSONDetectsDSSEEnvelope(t *testing.T) {
	leaf := selfSignedLeaf(t)
	doc := wireBundle{
		MediaType: "application/vnd.dev.sigstore.bundle.v0.3+json",
		VerificationMaterial: wireVerificationMaterial{
			Certificate: &wireX509Certificate{RawBytes: leaf.Raw},
		},
		DsseEnvelope: json.RawMessage(`{"payload":"xx","payloadType":"application/vnd.in-toto+json"}`),
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	b, err := FromJSON(raw)
	require.NoError(t, err)
	assert.True(t, b.HasDSSEEnvelope)
}

func TestFromJSONFailsWhenNoCertificateMaterial(t *testing.T) {
	doc := wireBundle{MediaType: "application/vnd.dev.sigstore.bundle.v0.3+json"}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = FromJSON(raw)
	assert.ErrorIs(t, err, ErrMissingVerificationMaterial)
}

func TestFromJSONRejectsEntryMissingInclusionPromise(t *testing.T) {
	leaf := selfSignedLeaf(t)
	doc := wireBundle{
		MediaType: "application/vnd.dev.sigstore.bundle.v0.3+json",
		VerificationMaterial: wireVerificationMaterial{
			Certificate: &wireX509Certificate{RawBytes: leaf.Raw},
			TlogEntries: []wireTlogEntry{
				{LogIndex: 1, CanonicalizedBody: []byte(`{}`)},
			},
		},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = FromJSON(raw)
	assert.Error(t, err)
}
