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
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"

	"github.com/sigstore/keyless-verify/pkg/bundle"
	"github.com/sigstore/keyless-verify/pkg/root"
)

// setPayload is the exact shape Rekor signs over for a Signed Entry
// Timestamp: body (base64, not raw), integratedTime, logIndex and logID
// (hex), canonicalized per RFC 8785. Field order here is irrelevant —
// canonicalization re-sorts keys — but the JSON tags, in particular
// "logID" rather than "logId", must match byte for byte.
type setPayload struct {
	Body           string `json:"body"`
	IntegratedTime int64  `json:"integratedTime"`
	LogIndex       int64  `json:"logIndex"`
	LogID          string `json:"logID"` //nolint:tagliatelle
}

// verifySET locates the trust root's Rekor log by entry.LogID, checks it
// was valid at entry.IntegratedTime, and verifies the Signed Entry
// Timestamp over the canonicalized payload. Public-good and staging Rekor
// instances sign with ECDSA-P256/SHA-256; this is asserted rather than
// dispatched through a generic verifier, matching the algorithm fixed in
// spec §4.F step 2.
func verifySET(entry bundle.RekorEntry, trustedRoot *root.TrustedRoot) error {
	encodedLogID := hex.EncodeToString(entry.LogID)
	tlog := trustedRoot.TLogByID(encodedLogID)
	if tlog == nil {
		return fmt.Errorf("%w: log id %s", ErrUntrustedLog, encodedLogID)
	}

	integratedAt := time.Unix(entry.IntegratedTime, 0)
	if !tlog.ValidFor.Contains(integratedAt) {
		return fmt.Errorf("%w: log id %s not valid at %s", ErrLogKeyExpired, encodedLogID, integratedAt)
	}

	payload := setPayload{
		Body:           base64.StdEncoding.EncodeToString(entry.Body),
		IntegratedTime: entry.IntegratedTime,
		LogIndex:       entry.LogIndex,
		LogID:          encodedLogID,
	}
	contents, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal set payload: %w", err)
	}
	canonicalized, err := jsoncanonicalizer.Transform(contents)
	if err != nil {
		return fmt.Errorf("canonicalize set payload: %w", err)
	}

	ecdsaKey, ok := tlog.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: log id %s has unsupported key type %T", ErrBadSet, encodedLogID, tlog.PublicKey)
	}
	digest := sha256.Sum256(canonicalized)
	if !ecdsa.VerifyASN1(ecdsaKey, digest[:], entry.SignedEntryTimestamp) {
		return fmt.Errorf("%w: log id %s", ErrBadSet, encodedLogID)
	}
	return nil
}
