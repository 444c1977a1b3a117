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

package cryptoverify

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalPKIX(t *testing.T, pub any) []byte {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

func TestParsePublicKeyPKIXECDSA(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	key, err := ParsePublicKey(marshalPKIX(t, &priv.PublicKey))
	require.NoError(t, err)
	assert.Equal(t, &priv.PublicKey, key)
}

func TestParsePublicKeyPKCS1RSA(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	block := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PUBLIC KEY",
		Bytes: x509.MarshalPKCS1PublicKey(&priv.PublicKey),
	})

	key, err := ParsePublicKey(block)
	require.NoError(t, err)
	assert.Equal(t, &priv.PublicKey, key)
}

func TestParsePublicKeyRejectsGarbage(t *testing.T) {
	_, err := ParsePublicKey([]byte("not a pem block"))
	assert.ErrorIs(t, err, ErrBadKeyFormat)
}

func TestConstructTUFPublicKeyECDSARoundTrip(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	raw := elliptic.Marshal(elliptic.P256(), priv.PublicKey.X, priv.PublicKey.Y)
	key, err := ConstructTUFPublicKey(raw, SchemeECDSASHA2NistP256)
	require.NoError(t, err)
	assert.Equal(t, &priv.PublicKey, key)
}

func TestConstructTUFPublicKeyEd25519DER(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)

	key, err := ConstructTUFPublicKey(der, SchemeEd25519)
	require.NoError(t, err)
	assert.Equal(t, pub, key)
}

func TestConstructTUFPublicKeyUnknownScheme(t *testing.T) {
	_, err := ConstructTUFPublicKey([]byte{0x01, 0x02}, "unknown-scheme")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}
