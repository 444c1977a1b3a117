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
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
)

// OIDExtensionSCTList is the X.509v3 extension OID a CT log's signed
// certificate timestamps are carried under, RFC 6962 §3.3.
var OIDExtensionSCTList = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 11129, 2, 4, 2}

// certificate mirrors the outer ASN.1 Certificate SEQUENCE (RFC 5280 §4.1)
// just enough to pull out the TBSCertificate's raw encoding.
type certificate struct {
	TBSCertificate     asn1.RawValue
	SignatureAlgorithm asn1.RawValue
	SignatureValue     asn1.RawValue
}

// tbsCertificate mirrors TBSCertificate (RFC 5280 §4.1), leaving every field
// except Version and Extensions as an opaque RawValue so re-marshaling reproduces the
// original DER byte-for-byte except for the one extension removed.
type tbsCertificate struct {
	Raw                asn1.RawContent
	Version            int `asn1:"optional,explicit,default:0,tag:0"`
	SerialNumber       asn1.RawValue
	SignatureAlgorithm asn1.RawValue
	Issuer             asn1.RawValue
	Validity           asn1.RawValue
	Subject            asn1.RawValue
	PublicKey          asn1.RawValue
	UniqueID           asn1.RawValue    `asn1:"optional,tag:1"`
	SubjectUniqueID    asn1.RawValue    `asn1:"optional,tag:2"`
	Extensions         []pkix.Extension `asn1:"optional,explicit,tag:3"`
}

// WithoutSCT reconstructs the TBSCertificate bytes the issuing CA actually
// signed before the CT log's SCT was embedded: the SCT list extension is
// removed from the extensions sequence and the TBSCertificate is
// re-encoded. This is the "pre-certificate" signed data RFC 6962 §3.2
// defines, used as input to SCT signature verification.
func WithoutSCT(cert *x509.Certificate) ([]byte, error) {
	var outer certificate
	if _, err := asn1.Unmarshal(cert.Raw, &outer); err != nil {
		return nil, fmt.Errorf("unmarshal certificate: %w", err)
	}

	var tbs tbsCertificate
	if _, err := asn1.Unmarshal(outer.TBSCertificate.FullBytes, &tbs); err != nil {
		return nil, fmt.Errorf("unmarshal tbsCertificate: %w", err)
	}

	found := false
	kept := make([]pkix.Extension, 0, len(tbs.Extensions))
	for _, ext := range tbs.Extensions {
		if ext.Id.Equal(OIDExtensionSCTList) {
			found = true
			continue
		}
		kept = append(kept, ext)
	}
	if !found {
		return nil, ErrNoSctExtension
	}
	tbs.Extensions = kept
	tbs.Raw = nil

	reencoded, err := asn1.Marshal(tbs)
	if err != nil {
		return nil, fmt.Errorf("re-marshal tbsCertificate without SCT extension: %w", err)
	}
	return reencoded, nil
}
