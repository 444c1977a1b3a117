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
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"fmt"

	"github.com/sigstore/sigstore/pkg/signature"
	"github.com/sigstore/sigstore/pkg/signature/options"
)

// Verifier is the small tagged-variant capability spec component A asks for:
// one algorithm, one way to check a signature over an already-computed
// digest. Adding RSA-PSS or a new curve is a new constructor, not a new
// subclass.
type Verifier interface {
	// VerifyDigest checks sig against digest. For hash-then-sign schemes
	// (RSA, ECDSA) digest is the pre-hashed message. For Ed25519, which has
	// no pre-hash step, digest is treated as the message itself, per spec.
	VerifyDigest(digest, sig []byte) error
}

type digestVerifier struct {
	inner    signature.Verifier
	hashFunc crypto.Hash
}

func (v *digestVerifier) VerifyDigest(digest, sig []byte) error {
	err := v.inner.VerifySignature(bytes.NewReader(sig), nil, options.WithDigest(digest))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

type ed25519Verifier struct {
	inner signature.Verifier
}

func (v *ed25519Verifier) VerifyDigest(digest, sig []byte) error {
	// Ed25519 signs the message directly; per spec, the caller's "digest" is
	// the message for this scheme.
	err := v.inner.VerifySignature(bytes.NewReader(sig), bytes.NewReader(digest))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

// NewVerifier dispatches by public key algorithm: RSA -> SHA256withRSA,
// ECDSA P-256 -> SHA256withECDSA, ECDSA P-384 -> SHA384withECDSA, Ed25519 ->
// pure Ed25519. Any other key type is ErrUnsupportedAlgorithm.
func NewVerifier(pub crypto.PublicKey) (Verifier, error) {
	switch key := pub.(type) {
	case *rsa.PublicKey:
		v, err := signature.LoadRSAPKCS1v15Verifier(key, crypto.SHA256)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadKeyFormat, err)
		}
		return &digestVerifier{inner: v, hashFunc: crypto.SHA256}, nil

	case *ecdsa.PublicKey:
		var hashFunc crypto.Hash
		switch key.Curve {
		case elliptic.P256():
			hashFunc = crypto.SHA256
		case elliptic.P384():
			hashFunc = crypto.SHA384
		default:
			return nil, fmt.Errorf("%w: unsupported ECDSA curve %s", ErrUnsupportedAlgorithm, key.Curve.Params().Name)
		}
		v, err := signature.LoadECDSAVerifier(key, hashFunc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadKeyFormat, err)
		}
		return &digestVerifier{inner: v, hashFunc: hashFunc}, nil

	case ed25519.PublicKey:
		v, err := signature.LoadED25519Verifier(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadKeyFormat, err)
		}
		return &ed25519Verifier{inner: v}, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedAlgorithm, pub)
	}
}

// NewRSAPSSVerifier builds a Verifier for RSA-PSS signatures. RSA-PSS keys
// are PKIX RSA keys like any other; the scheme only changes how the
// signature itself is padded, so this is kept as an explicit constructor
// rather than folded into NewVerifier's type switch (which dispatches on key
// type, and RSA-PSS and RSA-PKCS1v15 share a key type).
func NewRSAPSSVerifier(pub *rsa.PublicKey, hashFunc crypto.Hash, saltLength int) (Verifier, error) {
	v, err := signature.LoadRSAPSSVerifier(pub, hashFunc, &rsa.PSSOptions{
		Hash:       hashFunc,
		SaltLength: saltLength,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadKeyFormat, err)
	}
	return &digestVerifier{inner: v, hashFunc: hashFunc}, nil
}
