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

// Package rekor validates a transparency-log entry: its Signed Entry
// Timestamp against a trusted log key, and, when present, its inclusion
// proof against a Merkle tree head. It never performs I/O; everything it
// needs comes from a bundle.RekorEntry and a root.TrustedRoot.
package rekor

import "errors"

var (
	// ErrUntrustedLog is returned when entry.LogID does not name a log the
	// trust root recognizes.
	ErrUntrustedLog = errors.New("untrusted rekor log")
	// ErrLogKeyExpired is returned when entry.IntegratedTime falls outside
	// the matched log key's validity window.
	ErrLogKeyExpired = errors.New("rekor log key not valid at integrated time")
	// ErrBadSet is returned when the Signed Entry Timestamp does not
	// verify against the log's public key.
	ErrBadSet = errors.New("invalid signed entry timestamp")
	// ErrBadInclusionProof is returned when the recomputed Merkle root
	// does not match the inclusion proof's claimed root hash.
	ErrBadInclusionProof = errors.New("invalid inclusion proof")
	// ErrBadCheckpoint is returned when a checkpoint is present but its
	// signature or tree coordinates don't match.
	ErrBadCheckpoint = errors.New("invalid checkpoint")
)
