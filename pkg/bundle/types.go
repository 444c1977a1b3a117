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

// Package bundle is the Bundle/RekorEntry data model (spec §3): the
// verification input, parsed from the Sigstore protobuf bundle's JSON
// encoding. It is pure data; it never performs I/O or cryptographic
// verification. pkg/verify consumes it, and pkg/fulcio/pkg/rekor never see
// JSON directly.
package bundle

import "crypto/x509"

// Bundle is the verification input: an artifact's signing certificate
// chain, its detached signature, and the single Rekor entry attesting to
// it. Exactly one of MessageSignature or a DSSE envelope may be present;
// this client only ever populates MessageSignature and treats a present
// DSSEEnvelope as a hard rejection (spec §1 non-goals).
type Bundle struct {
	MediaType        string
	CertPath         []*x509.Certificate
	MessageSignature *MessageSignature
	HasDSSEEnvelope  bool
	Entries          []RekorEntry
	Timestamps       [][]byte
}

// MessageSignature is a detached signature over an artifact, optionally
// carrying the digest it was computed over.
type MessageSignature struct {
	HasDigest       bool
	DigestAlgorithm string
	Digest          []byte
	Signature       []byte
}

// RekorEntry is one transparency-log entry as carried in a bundle.
type RekorEntry struct {
	LogID                []byte
	IntegratedTime       int64
	LogIndex             int64
	Body                 []byte
	SignedEntryTimestamp []byte
	InclusionProof       *InclusionProof
}

// InclusionProof is the optional Merkle inclusion proof binding a
// RekorEntry to a signed tree head.
type InclusionProof struct {
	LogIndex   int64
	RootHash   []byte
	TreeSize   int64
	Hashes     [][]byte
	Checkpoint string
}
