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

package fulcio

import (
	"crypto/x509"
	"encoding/hex"
	"fmt"

	ct "github.com/google/certificate-transparency-go"
	"github.com/google/certificate-transparency-go/ctutil"
	ctx509 "github.com/google/certificate-transparency-go/x509"
	"github.com/google/certificate-transparency-go/x509util"
	"github.com/hashicorp/go-multierror"

	"github.com/sigstore/keyless-verify/pkg/root"
)

// verifySCT checks that at least threshold of leaf's embedded SCTs verify
// under a CT log the trust root names, active at the SCT's timestamp.
// chain is the verified path from leaf to its issuing CA (chain[1] is the
// direct issuer, used to reconstruct the full pre-certificate
// ctutil.VerifySCT needs).
//
// ctutil.VerifySCT reconstructs the RFC 6962 §3.2 pre-certificate TBS from
// fulcioChain internally, the same reconstruction internal/certutil.WithoutSCT
// performs standalone — this path is chosen specifically because it is
// chain-aware (it needs the issuer to compute the issuer key hash a
// standalone TBS reconstruction cannot provide), so WithoutSCT is not
// called a second time here.
func verifySCT(leaf *x509.Certificate, chain []*x509.Certificate, trustedRoot *root.TrustedRoot, threshold int) error {
	scts, err := x509util.ParseSCTsFromCertificate(leaf.Raw)
	if err != nil || len(scts) == 0 {
		return ErrMissingSct
	}

	leafCT, err := ctx509.ParseCertificates(leaf.Raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoValidSct, err)
	}
	var fulcioChain []*ctx509.Certificate
	fulcioChain = append(fulcioChain, leafCT...)
	if len(chain) > 1 {
		issuerCT, err := ctx509.ParseCertificates(chain[1].Raw)
		if err == nil {
			fulcioChain = append(fulcioChain, issuerCT...)
		}
	}

	var errs *multierror.Error
	valid := 0
	for _, sct := range scts {
		encodedKeyID := hex.EncodeToString(sct.LogID.KeyID[:])
		ctLog := trustedRoot.CTLogByID(encodedKeyID)
		if ctLog == nil {
			errs = multierror.Append(errs, fmt.Errorf("sct log id %s: not a trusted CT log", encodedKeyID))
			continue
		}

		sctTime := ct.TimestampToTime(sct.Timestamp)
		if !ctLog.ValidFor.Contains(sctTime) {
			errs = multierror.Append(errs, fmt.Errorf("sct log id %s: timestamp %s outside trusted validity window", encodedKeyID, sctTime))
			continue
		}

		if err := ctutil.VerifySCT(ctLog.PublicKey, fulcioChain, sct, true); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("sct log id %s: %w", encodedKeyID, err))
			continue
		}
		valid++
		if valid >= threshold {
			return nil
		}
	}

	if errs != nil {
		return fmt.Errorf("%w: verified %d of %d required SCTs: %v", ErrNoValidSct, valid, threshold, errs)
	}
	return fmt.Errorf("%w: verified %d of %d required SCTs", ErrNoValidSct, valid, threshold)
}
