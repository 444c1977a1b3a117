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
	"fmt"

	"github.com/sigstore/keyless-verify/pkg/root"
)

// Verify decides whether leaf was issued by a currently trusted Fulcio CA
// and carries at least one SCT verifiable under a trusted CT log. On
// success it returns the verified chain from leaf to the trusted root
// certificate. suppliedIntermediates is whatever the bundle's certPath
// carried beyond the leaf; the trust root's own intermediates are always
// considered in addition.
func Verify(leaf *x509.Certificate, suppliedIntermediates []*x509.Certificate, trustedRoot *root.TrustedRoot) ([]*x509.Certificate, error) {
	return VerifyWithSCTThreshold(leaf, suppliedIntermediates, trustedRoot, 1)
}

// VerifyWithSCTThreshold is Verify generalized to require sctThreshold
// independently verifying SCTs instead of just one, mirrored from
// sigstore-go's verify.WithSignedCertificateTimestamps(threshold) (see
// pkg/verify.WithSCTThreshold).
func VerifyWithSCTThreshold(leaf *x509.Certificate, suppliedIntermediates []*x509.Certificate, trustedRoot *root.TrustedRoot, sctThreshold int) ([]*x509.Certificate, error) {
	if err := checkLeafConstraints(leaf); err != nil {
		return nil, err
	}

	chain, err := buildChain(leaf, suppliedIntermediates, trustedRoot)
	if err != nil {
		return nil, err
	}

	if err := verifySCT(leaf, chain, trustedRoot, sctThreshold); err != nil {
		return nil, err
	}

	return chain, nil
}

// checkLeafConstraints enforces the structural shape a Fulcio-issued
// signing certificate must have: not a CA, code-signing EKU, and a digital
// signature key usage.
func checkLeafConstraints(leaf *x509.Certificate) error {
	if leaf.IsCA {
		return fmt.Errorf("%w: certificate is a CA", ErrBadLeafConstraints)
	}
	if leaf.KeyUsage&x509.KeyUsageDigitalSignature == 0 {
		return fmt.Errorf("%w: missing digital signature key usage", ErrBadLeafConstraints)
	}
	hasCodeSigning := false
	for _, eku := range leaf.ExtKeyUsage {
		if eku == x509.ExtKeyUsageCodeSigning {
			hasCodeSigning = true
			break
		}
	}
	if !hasCodeSigning {
		return fmt.Errorf("%w: missing code signing extended key usage", ErrBadLeafConstraints)
	}
	return nil
}
