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
	"encoding/hex"

	"github.com/sigstore/keyless-verify/pkg/bundle"
	"github.com/sigstore/keyless-verify/pkg/root"
)

// Verify decides whether entry is an authentic Rekor log entry: its Signed
// Entry Timestamp must verify under a trusted, time-valid log key, and if
// it carries an inclusion proof that proof must recompute to its claimed
// root hash (and, if a checkpoint is attached, the checkpoint's own note
// signature must verify against that same log key). A SET-only entry (no
// inclusion proof) is accepted on the SET alone — the SET is itself a log
// promise, per spec §4.F step 4.
func Verify(entry bundle.RekorEntry, trustedRoot *root.TrustedRoot) error {
	if err := verifySET(entry, trustedRoot); err != nil {
		return err
	}
	tlog := trustedRoot.TLogByID(hex.EncodeToString(entry.LogID))
	return verifyInclusion(entry, tlog)
}
