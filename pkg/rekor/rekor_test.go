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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigstore/keyless-verify/pkg/bundle"
)

func TestVerifyAcceptsSetOnlyEntry(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	logID := []byte{0x01, 0x02, 0x03}
	entry := signedEntry(t, priv, logID, []byte(`{"kind":"hashedrekord"}`), 1000, 7)
	tr := trustRootWithLog(t, priv, logID, time.Unix(0, 0), time.Unix(2000, 0))

	assert.NoError(t, Verify(entry, tr))
}

func TestVerifyAcceptsEntryWithValidInclusionProof(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	logID := []byte{0x01, 0x02, 0x03}
	leaf0, _, _, h1, rootHash := twoLeafTree()
	entry := signedEntry(t, priv, logID, leaf0, 1000, 0)
	entry.InclusionProof = &bundle.InclusionProof{
		LogIndex: 0,
		TreeSize: 2,
		RootHash: rootHash,
		Hashes:   [][]byte{h1},
	}
	tr := trustRootWithLog(t, priv, logID, time.Unix(0, 0), time.Unix(2000, 0))

	assert.NoError(t, Verify(entry, tr))
}

func TestVerifyFailsWhenSetInvalidEvenIfInclusionProofValid(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	logID := []byte{0x01, 0x02, 0x03}
	leaf0, _, _, h1, rootHash := twoLeafTree()
	entry := signedEntry(t, priv, logID, leaf0, 1000, 0)
	entry.SignedEntryTimestamp[0] ^= 0xff
	entry.InclusionProof = &bundle.InclusionProof{
		LogIndex: 0,
		TreeSize: 2,
		RootHash: rootHash,
		Hashes:   [][]byte{h1},
	}
	tr := trustRootWithLog(t, priv, logID, time.Unix(0, 0), time.Unix(2000, 0))

	err = Verify(entry, tr)
	assert.ErrorIs(t, err, ErrBadSet)
}
