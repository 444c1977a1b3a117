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

package verify

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashedRekordRecord mirrors Rekor's hashed-rekord canonical JSON exactly
// (spec §6). Field declaration order here is load-bearing: encoding/json
// marshals struct fields in declaration order, and this order must match
// byte for byte what Rekor logged.
type hashedRekordRecord struct {
	APIVersion string           `json:"apiVersion"`
	Kind       string           `json:"kind"`
	Spec       hashedRekordSpec `json:"spec"`
}

type hashedRekordSpec struct {
	Data      hashedRekordData      `json:"data"`
	Signature hashedRekordSignature `json:"signature"`
}

type hashedRekordData struct {
	Hash hashedRekordHash `json:"hash"`
}

type hashedRekordHash struct {
	Algorithm string `json:"algorithm"`
	Value     string `json:"value"`
}

type hashedRekordSignature struct {
	Content   string                `json:"content"`
	PublicKey hashedRekordPublicKey `json:"publicKey"`
}

type hashedRekordPublicKey struct {
	Content string `json:"content"`
}

// canonicalHashedRekordBody reconstructs the canonical JSON Rekor would
// have logged for (artifactDigest, leafPEM, signature). It uses SHA-256 as
// the hash algorithm name unconditionally: that is the only digest
// algorithm this verification core accepts (spec §4.A/§6).
func canonicalHashedRekordBody(artifactDigest, leafPEM, signature []byte) ([]byte, error) {
	record := hashedRekordRecord{
		APIVersion: "0.0.1",
		Kind:       "hashedrekord",
		Spec: hashedRekordSpec{
			Data: hashedRekordData{
				Hash: hashedRekordHash{
					Algorithm: "sha256",
					Value:     hex.EncodeToString(artifactDigest),
				},
			},
			Signature: hashedRekordSignature{
				Content:   base64.StdEncoding.EncodeToString(signature),
				PublicKey: hashedRekordPublicKey{Content: base64.StdEncoding.EncodeToString(leafPEM)},
			},
		},
	}
	body, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal hashed rekord body: %w", err)
	}
	return body, nil
}
