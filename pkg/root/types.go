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

package root

import (
	"crypto"
	"crypto/x509"
	"time"
)

// ValidityPeriod is a half-open interval [Start, End). A zero End means the
// authority has no defined expiry and is valid for all time on or after
// Start.
type ValidityPeriod struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the validity window, inclusive of
// both endpoints per the boundary behaviors spelled out for Fulcio/Rekor
// temporal checks: notBefore == t and notAfter == t are both accepted.
func (v ValidityPeriod) Contains(t time.Time) bool {
	if t.Before(v.Start) {
		return false
	}
	if v.End.IsZero() {
		return true
	}
	return !t.After(v.End)
}

func newValidityPeriod(start, end time.Time) (ValidityPeriod, error) {
	if !end.IsZero() && end.Before(start) {
		return ValidityPeriod{}, ErrInvalidValidityPeriod
	}
	return ValidityPeriod{Start: start, End: end}, nil
}

// CertificateAuthority is one Fulcio instance's certificate chain
// (leaf-to-root order is not meaningful here since Fulcio CAs never appear
// as bundle leaves; intermediates followed by the root) and the window
// during which it is trusted to have issued leaves.
type CertificateAuthority struct {
	CertChain []*x509.Certificate
	ValidFor  ValidityPeriod
}

// Root returns the last certificate in the chain, the trust anchor for path
// building.
func (ca CertificateAuthority) Root() *x509.Certificate {
	if len(ca.CertChain) == 0 {
		return nil
	}
	return ca.CertChain[len(ca.CertChain)-1]
}

// Intermediates returns every certificate in the chain except the root.
func (ca CertificateAuthority) Intermediates() []*x509.Certificate {
	if len(ca.CertChain) <= 1 {
		return nil
	}
	return ca.CertChain[:len(ca.CertChain)-1]
}

// TransparencyLog is a single Rekor or CT log's public key, with the
// hash/signature algorithm needed to verify data over it and the window
// during which the key is trusted.
type TransparencyLog struct {
	LogID             []byte
	PublicKey         crypto.PublicKey
	HashFunc          crypto.Hash
	SignatureHashFunc crypto.Hash
	ValidFor          ValidityPeriod
}

// TrustedRoot is the full set of trust anchors a verification runs
// against: Fulcio CAs, Rekor logs, and CT logs, each keyed for lookup.
// Immutable after construction; safe to share across concurrent
// verifications without locking.
type TrustedRoot struct {
	CertificateAuthorities []CertificateAuthority
	RekorLogs              map[string]TransparencyLog
	CTLogs                 map[string]TransparencyLog
}

// CAAt returns a certificate authority whose validity window contains t. If
// several match, the one with the latest Start is preferred, matching the
// tie-break the Fulcio verifier's chain-building step requires. Returns nil
// if none match.
func (tr *TrustedRoot) CAAt(t time.Time) *CertificateAuthority {
	var best *CertificateAuthority
	for i := range tr.CertificateAuthorities {
		ca := &tr.CertificateAuthorities[i]
		if !ca.ValidFor.Contains(t) {
			continue
		}
		if best == nil || ca.ValidFor.Start.After(best.ValidFor.Start) {
			best = ca
		}
	}
	return best
}

// CTLogByID returns the CT log keyed by hex-encoded log ID, or nil if
// absent.
func (tr *TrustedRoot) CTLogByID(id string) *TransparencyLog {
	if log, ok := tr.CTLogs[id]; ok {
		return &log
	}
	return nil
}

// TLogByID returns the Rekor log keyed by hex-encoded log ID, or nil if
// absent.
func (tr *TrustedRoot) TLogByID(id string) *TransparencyLog {
	if log, ok := tr.RekorLogs[id]; ok {
		return &log
	}
	return nil
}
