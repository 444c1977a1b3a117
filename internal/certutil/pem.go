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

	"github.com/sigstore/sigstore/pkg/cryptoutils"
)

// ToPEMBytes canonically PEM-encodes a single certificate: LF line endings,
// 64-column base64 wrapping, a trailing newline. The Rekor hashed-rekord
// body embeds this exact encoding of the leaf certificate, so any deviation
// here breaks the byte-for-byte comparison the orchestrator performs
// against the logged entry.
func ToPEMBytes(cert *x509.Certificate) ([]byte, error) {
	pemBytes, err := cryptoutils.MarshalCertificateToPEM(cert)
	if err != nil {
		return nil, fmt.Errorf("marshal certificate to PEM: %w", err)
	}
	return pemBytes, nil
}
