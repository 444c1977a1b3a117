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

package rekor

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigstore/keyless-verify/pkg/bundle"
	"github.com/sigstore/keyless-verify/pkg/root"
)

func signedEntry(t *testing.T, priv *ecdsa.PrivateKey, logID []byte, body []byte, integratedTime, logIndex int64) bundle.RekorEntry {
	t.Helper()
	payload := setPayload{
		Body:           base64.StdEncoding.EncodeToString(body),
		IntegratedTime: integratedTime,
		LogIndex:       logIndex,
		LogID:          hex.EncodeToString(logID),
	}
	contents, err := json.Marshal(payload)
	require.NoError(t, err)
	canonicalized, err := jsoncanonicalizer.Transform(contents)
	require.NoError(t, err)
	digest := sha256.Sum256(canonicalized)
	sig, err := ecdsa.SignASN1(rand.Reader, priv, digest[:])
	require.NoError(t, err)

	return bundle.RekorEntry{
		LogID:                logID,
		IntegratedTime:       integratedTime,
		LogIndex:             logIndex,
		Body:                 body,
		SignedEntryTimestamp: sig,
	}
}

func trustRootWithLog(t *testing.T, priv *ecdsa.PrivateKey, logID []byte, start, end time.Time) *root.TrustedRoot {
	t.Helper()
	encoded := hex.EncodeToString(logID)
	return &root.TrustedRoot{
		RekorLogs: map[string]root.TransparencyLog{
			encoded: {
				LogID:     logID,
				PublicKey: &priv.PublicKey,
				ValidFor:  root.ValidityPeriod{Start: start, End: end},
			},
		},
	}
}

func TestVerifySETAccepts(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	logID := []byte{0xaa, 0xbb}
	entry := signedEntry(t, priv, logID, []byte(`{"kind":"hashedrekord"}`), 1000, 42)
	tr := trustRootWithLog(t, priv, logID, time.Unix(0, 0), time.Unix(2000, 0))

	assert.NoError(t, verifySET(entry, tr))
}

func TestVerifySETRejectsUntrustedLog(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	logID := []byte{0xaa, 0xbb}
	entry := signedEntry(t, priv, logID, []byte(`{}`), 1000, 1)
	tr := &root.TrustedRoot{}

	err = verifySET(entry, tr)
	assert.ErrorIs(t, err, ErrUntrustedLog)
}

func TestVerifySETRejectsExpiredKey(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	logID := []byte{0xaa, 0xbb}
	entry := signedEntry(t, priv, logID, []byte(`{}`), 5000, 1)
	tr := trustRootWithLog(t, priv, logID, time.Unix(0, 0), time.Unix(2000, 0))

	err = verifySET(entry, tr)
	assert.ErrorIs(t, err, ErrLogKeyExpired)
}

func TestVerifySETRejectsTamperedSignature(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	logID := []byte{0xaa, 0xbb}
	entry := signedEntry(t, priv, logID, []byte(`{}`), 1000, 1)
	entry.SignedEntryTimestamp[0] ^= 0xff
	tr := trustRootWithLog(t, priv, logID, time.Unix(0, 0), time.Unix(2000, 0))

	err = verifySET(entry, tr)
	assert.ErrorIs(t, err, ErrBadSet)
}

func TestVerifySETRejectsBodyTamperedAfterSigning(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	logID := []byte{0xaa, 0xbb}
	entry := signedEntry(t, priv, logID, []byte(`{"kind":"hashedrekord"}`), 1000, 1)
	entry.Body = []byte(`{"kind":"tampered"}`)
	tr := trustRootWithLog(t, priv, logID, time.Unix(0, 0), time.Unix(2000, 0))

	err = verifySET(entry, tr)
	assert.ErrorIs(t, err, ErrBadSet)
}
