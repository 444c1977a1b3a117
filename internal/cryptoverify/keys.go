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

package cryptoverify

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"fmt"

	"github.com/sigstore/sigstore/pkg/cryptoutils"
)

// ParsePublicKey recognizes PEM-encoded "PUBLIC KEY" (PKIX) and
// "RSA PUBLIC KEY" (PKCS#1, wrapped into PKIX) blocks. Anything else -
// non-PEM bytes, or a PEM block that decodes to DSA or another key type
// that is not RSA, ECDSA or Ed25519 - fails with ErrBadKeyFormat.
func ParsePublicKey(pemBytes []byte) (crypto.PublicKey, error) {
	key, err := cryptoutils.UnmarshalPEMToPublicKey(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadKeyFormat, err)
	}
	switch key.(type) {
	case *rsa.PublicKey, *ecdsa.PublicKey, ed25519.PublicKey:
		return key, nil
	default:
		return nil, fmt.Errorf("%w: unsupported public key type %T", ErrBadKeyFormat, key)
	}
}

// TUF key schemes recognized by ConstructTUFPublicKey, matching the
// "keytype-scheme" pairs TUF metadata uses for its own signing keys.
const (
	SchemeECDSASHA2NistP256 = "ecdsa-sha2-nistp256"
	SchemeEd25519           = "ed25519"
)

// ConstructTUFPublicKey builds a crypto.PublicKey from the raw key material
// and scheme carried in TUF root metadata. TUF keys are not stored as PKIX
// SubjectPublicKeyInfo by convention, so this does not reuse ParsePublicKey.
//
// "rsassa-pss-*" and any other scheme are not valid TUF key schemes in this
// trust root's key set and must fail with ErrUnsupportedAlgorithm.
func ConstructTUFPublicKey(rawBytes []byte, scheme string) (crypto.PublicKey, error) {
	switch scheme {
	case SchemeECDSASHA2NistP256:
		if len(rawBytes) != 65 || rawBytes[0] != 0x04 {
			return nil, fmt.Errorf("%w: ecdsa-sha2-nistp256 key must be a 65-byte uncompressed point", ErrBadKeyFormat)
		}
		curve := elliptic.P256()
		x, y := elliptic.Unmarshal(curve, rawBytes)
		if x == nil {
			return nil, fmt.Errorf("%w: ecdsa-sha2-nistp256 key is not a valid point on P-256", ErrBadKeyFormat)
		}
		return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil

	case SchemeEd25519:
		switch len(rawBytes) {
		case ed25519.PublicKeySize:
			return ed25519.PublicKey(rawBytes), nil
		default:
			// Accept a DER-encoded SubjectPublicKeyInfo as well, since some TUF
			// implementations emit ed25519 keys that way.
			key, err := x509.ParsePKIXPublicKey(rawBytes)
			if err != nil {
				return nil, fmt.Errorf("%w: ed25519 key is neither 32 raw bytes nor a DER SPKI: %v", ErrBadKeyFormat, err)
			}
			edKey, ok := key.(ed25519.PublicKey)
			if !ok {
				return nil, fmt.Errorf("%w: decoded SPKI is not an ed25519 key", ErrBadKeyFormat)
			}
			return edKey, nil
		}

	default:
		return nil, fmt.Errorf("%w: %q is not a valid TUF key scheme", ErrUnsupportedAlgorithm, scheme)
	}
}
