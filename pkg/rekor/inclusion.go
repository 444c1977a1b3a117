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
	"fmt"

	"github.com/transparency-dev/merkle/proof"
	"github.com/transparency-dev/merkle/rfc6962"

	"github.com/sigstore/keyless-verify/pkg/bundle"
	"github.com/sigstore/keyless-verify/pkg/root"
)

// verifyInclusion recomputes the Merkle root from entry.Body's RFC 6962
// leaf hash and the inclusion proof's sibling hashes, and compares it
// against the proof's claimed root hash. If a checkpoint is present, its
// note signature is additionally verified against tlog's public key and
// its header is checked against the proof's tree size and root hash —
// tlog is the same log the entry's Signed Entry Timestamp was already
// verified against, per spec §4.F step 3.
func verifyInclusion(entry bundle.RekorEntry, tlog *root.TransparencyLog) error {
	ip := entry.InclusionProof
	if ip == nil {
		return nil
	}

	leafHash := rfc6962.DefaultHasher.HashLeaf(entry.Body)
	if err := proof.VerifyInclusion(rfc6962.DefaultHasher, uint64(ip.LogIndex), uint64(ip.TreeSize), leafHash, ip.Hashes, ip.RootHash); err != nil {
		return fmt.Errorf("%w: %v", ErrBadInclusionProof, err)
	}

	if ip.Checkpoint != "" {
		if err := verifyCheckpoint(ip.Checkpoint, ip, tlog); err != nil {
			return err
		}
	}
	return nil
}
