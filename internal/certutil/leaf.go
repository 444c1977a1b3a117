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

package certutil

import (
	"crypto/x509"
	"fmt"
)

// GetLeaf returns the first certificate in certPath. The leaf must not be a
// CA; Fulcio never issues CA-flagged leaves for keyless signing, so a CA
// leaf here means the bundle was built from the wrong material.
func GetLeaf(certPath []*x509.Certificate) (*x509.Certificate, error) {
	if len(certPath) == 0 {
		return nil, ErrEmptyCertPath
	}
	leaf := certPath[0]
	if leaf.IsCA {
		return nil, fmt.Errorf("%w", ErrLeafIsCA)
	}
	return leaf, nil
}

// GetIntermediates returns every certificate in certPath except the first
// and last. A two-certificate path (leaf, root) or a single-certificate
// path has no intermediates and returns an empty, non-nil slice.
func GetIntermediates(certPath []*x509.Certificate) ([]*x509.Certificate, error) {
	if len(certPath) == 0 {
		return nil, ErrEmptyCertPath
	}
	if len(certPath) <= 2 {
		return []*x509.Certificate{}, nil
	}
	return certPath[1 : len(certPath)-1], nil
}
