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
	"bytes"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/sigstore/keyless-verify/pkg/bundle"
	"github.com/sigstore/keyless-verify/pkg/root"
)

// noteSignaturePrefix is the "— " marker (U+2014 EM DASH, then a space)
// c2sp.org/checkpoint and c2sp.org/signed-note use to introduce a signature
// line.
const noteSignaturePrefix = "— "

// checkpoint is a parsed c2sp.org/checkpoint signed note: an origin line, a
// tree size, a root hash, and the raw signature bytes carried by its
// signature lines (the leading 4-byte key-hash prefix each line's
// base64 blob carries is dropped — this trust root resolves the signing
// key by log ID, not by note key hash).
type checkpoint struct {
	origin     string
	size       int64
	hash       []byte
	signedText []byte
	sigs       [][]byte
}

// parseCheckpoint splits text into its signed body and its trailing
// signature block and decodes the origin/size/hash header. It performs no
// cryptographic verification.
func parseCheckpoint(text string) (*checkpoint, error) {
	body, sigBlock, ok := strings.Cut(text, "\n\n")
	if !ok {
		return nil, fmt.Errorf("%w: checkpoint has no blank line separating body from signatures", ErrBadCheckpoint)
	}
	lines := strings.SplitN(body, "\n", 3)
	if len(lines) < 3 {
		return nil, fmt.Errorf("%w: checkpoint header has fewer than 3 lines", ErrBadCheckpoint)
	}
	size, err := strconv.ParseInt(lines[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad checkpoint tree size %q", ErrBadCheckpoint, lines[1])
	}
	hash, err := base64.StdEncoding.DecodeString(lines[2])
	if err != nil {
		return nil, fmt.Errorf("%w: bad checkpoint root hash %q", ErrBadCheckpoint, lines[2])
	}

	var sigs [][]byte
	for _, line := range strings.Split(strings.TrimRight(sigBlock, "\n"), "\n") {
		if !strings.HasPrefix(line, noteSignaturePrefix) {
			continue
		}
		fields := strings.SplitN(strings.TrimPrefix(line, noteSignaturePrefix), " ", 2)
		if len(fields) != 2 {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(fields[1])
		if err != nil || len(decoded) <= 4 {
			continue
		}
		sigs = append(sigs, decoded[4:])
	}
	if len(sigs) == 0 {
		return nil, fmt.Errorf("%w: checkpoint has no parsable signature line", ErrBadCheckpoint)
	}

	return &checkpoint{
		origin:     lines[0],
		size:       size,
		hash:       hash,
		signedText: []byte(body + "\n"),
		sigs:       sigs,
	}, nil
}

// verifyCheckpoint parses text, confirms its header restates the same tree
// size and root hash the inclusion proof already established, and verifies
// at least one of its signature lines against tlog's public key — the same
// per-log key verifySET checks the Signed Entry Timestamp against, per the
// grounding source's VerifyCheckpointSignature.
func verifyCheckpoint(text string, ip *bundle.InclusionProof, tlog *root.TransparencyLog) error {
	cp, err := parseCheckpoint(text)
	if err != nil {
		return err
	}
	if cp.size != ip.TreeSize || !bytes.Equal(cp.hash, ip.RootHash) {
		return fmt.Errorf("%w: checkpoint (size=%d) does not restate the verified inclusion proof (size=%d)", ErrBadCheckpoint, cp.size, ip.TreeSize)
	}
	if tlog == nil {
		return fmt.Errorf("%w: no trusted log key available to verify checkpoint signature", ErrBadCheckpoint)
	}
	ecdsaKey, ok := tlog.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: log has unsupported key type %T for checkpoint verification", ErrBadCheckpoint, tlog.PublicKey)
	}

	digest := sha256.Sum256(cp.signedText)
	for _, sig := range cp.sigs {
		if ecdsa.VerifyASN1(ecdsaKey, digest[:], sig) {
			return nil
		}
	}
	return fmt.Errorf("%w: no checkpoint signature verifies against the trusted log key", ErrBadCheckpoint)
}
