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
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// TrustedRootMediaType01 is the only trusted_root.json media type this
// client understands.
const TrustedRootMediaType01 = "application/vnd.dev.sigstore.trustedroot.v1+json"

// wire mirrors the JSON shape of dev.sigstore.trustroot.v1.TrustedRoot,
// restricted to the fields the core reads (§6).
type wireTrustedRoot struct {
	MediaType              string                     `json:"mediaType"`
	CertificateAuthorities []wireCertificateAuthority `json:"certificateAuthorities"`
	Tlogs                  []wireTransparencyLog      `json:"tlogs"`
	CTLogs                 []wireTransparencyLog      `json:"ctlogs"`
}

type wireCertificateAuthority struct {
	CertChain struct {
		Certificates []struct {
			RawBytes []byte `json:"rawBytes"`
		} `json:"certificates"`
	} `json:"certChain"`
	ValidFor wireValidityPeriod `json:"validFor"`
}

type wireTransparencyLog struct {
	PublicKey wirePublicKey `json:"publicKey"`
	LogID     struct {
		KeyID []byte `json:"keyId"`
	} `json:"logId"`
}

type wirePublicKey struct {
	RawBytes   []byte `json:"rawBytes"`
	KeyDetails string `json:"keyDetails"`
	ValidFor   wireValidityPeriod `json:"validFor"`
}

type wireValidityPeriod struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

func (v wireValidityPeriod) toModel() (ValidityPeriod, error) {
	var start, end time.Time
	if v.Start != nil {
		start = *v.Start
	}
	if v.End != nil {
		end = *v.End
	}
	return newValidityPeriod(start, end)
}

// FromJSON parses a trusted_root.json document into a TrustedRoot.
func FromJSON(data []byte) (*TrustedRoot, error) {
	var w wireTrustedRoot
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("unmarshal trusted root: %w", err)
	}
	if w.MediaType != TrustedRootMediaType01 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, w.MediaType)
	}

	cas, err := parseCertificateAuthorities(w.CertificateAuthorities)
	if err != nil {
		return nil, err
	}
	rekorLogs, err := parseTransparencyLogs(w.Tlogs)
	if err != nil {
		return nil, fmt.Errorf("parsing tlogs: %w", err)
	}
	ctLogs, err := parseTransparencyLogs(w.CTLogs)
	if err != nil {
		return nil, fmt.Errorf("parsing ctlogs: %w", err)
	}

	return &TrustedRoot{
		CertificateAuthorities: cas,
		RekorLogs:              rekorLogs,
		CTLogs:                 ctLogs,
	}, nil
}

func parseCertificateAuthorities(wcas []wireCertificateAuthority) ([]CertificateAuthority, error) {
	cas := make([]CertificateAuthority, 0, len(wcas))
	for i, wca := range wcas {
		validFor, err := wca.ValidFor.toModel()
		if err != nil {
			return nil, fmt.Errorf("certificateAuthorities[%d]: %w", i, err)
		}
		chain := make([]*x509.Certificate, 0, len(wca.CertChain.Certificates))
		for j, c := range wca.CertChain.Certificates {
			cert, err := x509.ParseCertificate(c.RawBytes)
			if err != nil {
				return nil, fmt.Errorf("certificateAuthorities[%d].certChain[%d]: %w", i, j, err)
			}
			chain = append(chain, cert)
		}
		cas = append(cas, CertificateAuthority{CertChain: chain, ValidFor: validFor})
	}
	return cas, nil
}

func parseTransparencyLogs(wtls []wireTransparencyLog) (map[string]TransparencyLog, error) {
	logs := make(map[string]TransparencyLog, len(wtls))
	for i, wtl := range wtls {
		validFor, err := wtl.PublicKey.ValidFor.toModel()
		if err != nil {
			return nil, fmt.Errorf("tlogs[%d]: %w", i, err)
		}
		pub, hashFunc, sigHashFunc, err := parseLogPublicKey(wtl.PublicKey.RawBytes, wtl.PublicKey.KeyDetails)
		if err != nil {
			return nil, fmt.Errorf("tlogs[%d].publicKey: %w", i, err)
		}
		encodedKeyID := hex.EncodeToString(wtl.LogID.KeyID)
		logs[encodedKeyID] = TransparencyLog{
			LogID:             wtl.LogID.KeyID,
			PublicKey:         pub,
			HashFunc:          hashFunc,
			SignatureHashFunc: sigHashFunc,
			ValidFor:          validFor,
		}
	}
	return logs, nil
}

// parseLogPublicKey decodes a DER SubjectPublicKeyInfo and derives the
// digest the log signs with, dispatching on the declared key scheme. Only
// the schemes the public-good and staging Sigstore instances actually use
// are recognized; anything else is a hard parse failure rather than a
// silent best-guess.
func parseLogPublicKey(rawBytes []byte, keyDetails string) (crypto.PublicKey, crypto.Hash, crypto.Hash, error) {
	pub, err := x509.ParsePKIXPublicKey(rawBytes)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("parse PKIX public key: %w", err)
	}

	switch keyDetails {
	case "PKIX_ECDSA_P256_SHA_256", "":
		if _, ok := pub.(*ecdsa.PublicKey); !ok {
			return nil, 0, 0, fmt.Errorf("keyDetails %q does not match key type %T", keyDetails, pub)
		}
		return pub, crypto.SHA256, crypto.SHA256, nil
	case "PKIX_ECDSA_P384_SHA_384":
		return pub, crypto.SHA384, crypto.SHA384, nil
	case "PKIX_ECDSA_P521_SHA_512":
		return pub, crypto.SHA512, crypto.SHA512, nil
	case "PKIX_RSA_PKCS1V15_2048_SHA256", "PKIX_RSA_PKCS1V15_3072_SHA256", "PKIX_RSA_PKCS1V15_4096_SHA256":
		if _, ok := pub.(*rsa.PublicKey); !ok {
			return nil, 0, 0, fmt.Errorf("keyDetails %q does not match key type %T", keyDetails, pub)
		}
		return pub, crypto.SHA256, crypto.SHA256, nil
	case "PKIX_ED25519":
		return pub, crypto.SHA512, crypto.SHA512, nil
	default:
		return nil, 0, 0, fmt.Errorf("%w: unrecognized key scheme %q", ErrUnsupportedMediaType, keyDetails)
	}
}
