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
	"bytes"
	"fmt"
	"time"

	"github.com/sigstore/keyless-verify/internal/certutil"
	"github.com/sigstore/keyless-verify/internal/cryptoverify"
	"github.com/sigstore/keyless-verify/pkg/bundle"
	"github.com/sigstore/keyless-verify/pkg/fulcio"
	"github.com/sigstore/keyless-verify/pkg/identity"
	"github.com/sigstore/keyless-verify/pkg/rekor"
	"github.com/sigstore/keyless-verify/pkg/root"
)

// Verify runs the eight-step cascade of spec §4.G over a pre-parsed
// bundle. It is purely functional: it performs no I/O beyond the
// certificate chain walk inside pkg/fulcio, and returns on the first
// failing step — later steps are never observed to run once an earlier
// one has failed. A non-nil error is always a *KeylessVerificationError.
func Verify(artifactDigest []byte, b *bundle.Bundle, trustedRoot *root.TrustedRoot, opts ...Option) error {
	o := newOptions(opts...)

	// Step 1: bundle shape.
	if b.HasDSSEEnvelope {
		return fail(BundleMalformed, fmt.Errorf("bundle carries a dsseEnvelope, which this core rejects"))
	}
	if b.MessageSignature == nil {
		return fail(BundleMalformed, fmt.Errorf("bundle is missing messageSignature"))
	}
	if len(b.Entries) != 1 {
		return fail(BundleMalformed, fmt.Errorf("bundle has %d rekor entries, want exactly 1", len(b.Entries)))
	}
	if o.TransparencyLogThreshold > len(b.Entries) {
		return fail(BundleMalformed, fmt.Errorf("transparency log threshold %d exceeds the %d entries this bundle carries", o.TransparencyLogThreshold, len(b.Entries)))
	}
	if len(b.Timestamps) != 0 {
		return fail(BundleMalformed, fmt.Errorf("bundle carries %d RFC-3161 timestamps, want 0", len(b.Timestamps)))
	}
	o.logger.Debugw("bundle shape accepted", "entries", len(b.Entries))

	// Step 2: digest consistency.
	if b.MessageSignature.HasDigest && !bytes.Equal(b.MessageSignature.Digest, artifactDigest) {
		return fail(DigestMismatch, fmt.Errorf("messageSignature.digest does not match artifactDigest"))
	}

	// Step 3: certificate validity.
	leaf, err := certutil.GetLeaf(b.CertPath)
	if err != nil {
		return fail(FulcioError, err)
	}
	suppliedIntermediates, err := certutil.GetIntermediates(b.CertPath)
	if err != nil {
		return fail(FulcioError, err)
	}
	chain, err := fulcio.VerifyWithSCTThreshold(leaf, suppliedIntermediates, trustedRoot, o.SCTThreshold)
	if err != nil {
		return fail(FulcioError, err)
	}
	o.logger.Debugw("fulcio chain verified", "chainLength", len(chain))

	// Step 4: identity match.
	matched, err := identity.AnyMatches(o.CertificateMatchers, leaf)
	if err != nil {
		return fail(MatcherEvaluationError, err)
	}
	if !matched {
		return fail(NoIdentityMatch, fmt.Errorf("no certificate matcher matched the leaf"))
	}

	// Step 5: log entry authenticity.
	entry := b.Entries[0]
	if err := rekor.Verify(entry, trustedRoot); err != nil {
		return fail(RekorError, err)
	}
	o.logger.Debugw("rekor entry verified", "logIndex", entry.LogIndex)

	// Step 6: log-body binding.
	leafPEM, err := certutil.ToPEMBytes(leaf)
	if err != nil {
		return fail(LogBindingMismatch, err)
	}
	wantBody, err := canonicalHashedRekordBody(artifactDigest, leafPEM, b.MessageSignature.Signature)
	if err != nil {
		return fail(LogBindingMismatch, err)
	}
	if !bytes.Equal(wantBody, entry.Body) {
		return fail(LogBindingMismatch, fmt.Errorf("rekor entry body does not match the reconstructed hashed rekord"))
	}

	// Step 7: temporal binding.
	integratedAt := time.Unix(entry.IntegratedTime, 0)
	if integratedAt.Before(leaf.NotBefore) || integratedAt.After(leaf.NotAfter) {
		return fail(TimeOutOfValidity, fmt.Errorf("leaf not valid at integrated time %s (validity [%s, %s])", integratedAt, leaf.NotBefore, leaf.NotAfter))
	}

	// Step 8: signature.
	verifier, err := cryptoverify.NewVerifier(leaf.PublicKey)
	if err != nil {
		return fail(SignatureInvalid, err)
	}
	if err := verifier.VerifyDigest(artifactDigest, b.MessageSignature.Signature); err != nil {
		return fail(SignatureInvalid, err)
	}
	o.logger.Debugw("signature verified")

	return nil
}
