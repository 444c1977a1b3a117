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

// buildChain picks the trusted CA active at leaf.NotBefore (ties broken by
// latest start, per root.TrustedRoot.CAAt) and builds a standard PKIX path
// from the leaf to that CA's root, using any caller-supplied intermediates
// plus the CA's own intermediate certificates as helpers. It never tries a
// second CA if the first selected one fails to validate: Open Question (c)
// decides this by picking once, not by silently trying every match.
func buildChain(leaf *x509.Certificate, suppliedIntermediates []*x509.Certificate, trustedRoot *root.TrustedRoot) ([]*x509.Certificate, error) {
	ca := trustedRoot.CAAt(leaf.NotBefore)
	if ca == nil {
		return nil, ErrUntrustedCa
	}

	roots := x509.NewCertPool()
	roots.AddCert(ca.Root())

	intermediates := x509.NewCertPool()
	for _, cert := range ca.Intermediates() {
		intermediates.AddCert(cert)
	}
	for _, cert := range suppliedIntermediates {
		intermediates.AddCert(cert)
	}

	chains, err := leaf.Verify(x509.VerifyOptions{
		Roots:         roots,
		Intermediates: intermediates,
		CurrentTime:   leaf.NotBefore,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageCodeSigning},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChainBuildFailed, err)
	}
	return chains[0], nil
}
