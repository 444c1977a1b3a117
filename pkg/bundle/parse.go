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

package bundle

import (
	"bytes"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"strconv"
)

// acceptedMediaTypes mirrors the v0.1/v0.2/v0.3 bundle media type strings
// sigstore clients have shipped. v0.3 dropped the ";version=" suffix the
// earlier two used.
var acceptedMediaTypes = map[string]bool{
	"application/vnd.dev.sigstore.bundle+json;version=0.1": true,
	"application/vnd.dev.sigstore.bundle+json;version=0.2": true,
	"application/vnd.dev.sigstore.bundle.v0.1+json":        true,
	"application/vnd.dev.sigstore.bundle.v0.2+json":        true,
	"application/vnd.dev.sigstore.bundle.v0.3+json":        true,
}

// flexInt64 decodes a protobuf int64 field's JSON encoding, which protojson
// renders as a quoted decimal string but which hand-built fixtures often
// leave as a bare JSON number.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("decode int64 field %q: %w", data, err)
	}
	*f = flexInt64(v)
	return nil
}

type wireBundle struct {
	MediaType            string                    `json:"mediaType"`
	VerificationMaterial wireVerificationMaterial  `json:"verificationMaterial"`
	MessageSignature     *wireMessageSignature     `json:"messageSignature"`
	DsseEnvelope         json.RawMessage           `json:"dsseEnvelope"`
}

type wireVerificationMaterial struct {
	Certificate               *wireX509Certificate            `json:"certificate"`
	X509CertificateChain      *wireX509CertificateChain        `json:"x509CertificateChain"`
	TlogEntries               []wireTlogEntry                  `json:"tlogEntries"`
	TimestampVerificationData *wireTimestampVerificationData   `json:"timestampVerificationData"`
}

type wireX509Certificate struct {
	RawBytes []byte `json:"rawBytes"`
}

type wireX509CertificateChain struct {
	Certificates []wireX509Certificate `json:"certificates"`
}

type wireMessageSignature struct {
	MessageDigest *wireHashOutput `json:"messageDigest"`
	Signature     []byte          `json:"signature"`
}

type wireHashOutput struct {
	Algorithm string `json:"algorithm"`
	Digest    []byte `json:"digest"`
}

type wireTlogEntry struct {
	LogIndex          flexInt64             `json:"logIndex"`
	LogID             wireLogID             `json:"logId"`
	IntegratedTime    flexInt64             `json:"integratedTime"`
	InclusionPromise  *wireInclusionPromise `json:"inclusionPromise"`
	InclusionProof    *wireInclusionProof   `json:"inclusionProof"`
	CanonicalizedBody []byte                `json:"canonicalizedBody"`
}

type wireLogID struct {
	KeyID []byte `json:"keyId"`
}

type wireInclusionPromise struct {
	SignedEntryTimestamp []byte `json:"signedEntryTimestamp"`
}

type wireInclusionProof struct {
	LogIndex   flexInt64       `json:"logIndex"`
	RootHash   []byte          `json:"rootHash"`
	TreeSize   flexInt64       `json:"treeSize"`
	Hashes     [][]byte        `json:"hashes"`
	Checkpoint *wireCheckpoint `json:"checkpoint"`
}

type wireCheckpoint struct {
	Envelope string `json:"envelope"`
}

type wireTimestampVerificationData struct {
	Rfc3161Timestamps []wireRfc3161Timestamp `json:"rfc3161Timestamps"`
}

type wireRfc3161Timestamp struct {
	SignedTimestamp []byte `json:"signedTimestamp"`
}

// FromJSON parses a Sigstore bundle document. It accepts the v0.1, v0.2 and
// v0.3 media types; callers that need to reject older bundles do so with
// their own media type allowlist before calling this function.
func FromJSON(data []byte) (*Bundle, error) {
	var w wireBundle
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("unmarshal bundle: %w", err)
	}
	if !acceptedMediaTypes[w.MediaType] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, w.MediaType)
	}

	certPath, err := parseCertPath(w.VerificationMaterial)
	if err != nil {
		return nil, err
	}

	entries, err := parseEntries(w.VerificationMaterial.TlogEntries)
	if err != nil {
		return nil, err
	}

	var timestamps [][]byte
	if tvd := w.VerificationMaterial.TimestampVerificationData; tvd != nil {
		for _, ts := range tvd.Rfc3161Timestamps {
			timestamps = append(timestamps, ts.SignedTimestamp)
		}
	}

	b := &Bundle{
		MediaType:       w.MediaType,
		CertPath:        certPath,
		Entries:         entries,
		Timestamps:      timestamps,
		HasDSSEEnvelope: len(w.DsseEnvelope) > 0 && string(w.DsseEnvelope) != "null",
	}
	if w.MessageSignature != nil {
		ms := &MessageSignature{Signature: w.MessageSignature.Signature}
		if d := w.MessageSignature.MessageDigest; d != nil {
			ms.HasDigest = true
			ms.DigestAlgorithm = d.Algorithm
			ms.Digest = d.Digest
		}
		b.MessageSignature = ms
	}
	return b, nil
}

func parseCertPath(vm wireVerificationMaterial) ([]*x509.Certificate, error) {
	var rawCerts []wireX509Certificate
	switch {
	case vm.X509CertificateChain != nil:
		rawCerts = vm.X509CertificateChain.Certificates
	case vm.Certificate != nil:
		rawCerts = []wireX509Certificate{*vm.Certificate}
	default:
		return nil, ErrMissingVerificationMaterial
	}

	certPath := make([]*x509.Certificate, 0, len(rawCerts))
	for i, rc := range rawCerts {
		cert, err := x509.ParseCertificate(rc.RawBytes)
		if err != nil {
			return nil, fmt.Errorf("certPath[%d]: %w", i, err)
		}
		certPath = append(certPath, cert)
	}
	return certPath, nil
}

func parseEntries(wtes []wireTlogEntry) ([]RekorEntry, error) {
	entries := make([]RekorEntry, 0, len(wtes))
	for i, wte := range wtes {
		entry := RekorEntry{
			LogID:          wte.LogID.KeyID,
			IntegratedTime: int64(wte.IntegratedTime),
			LogIndex:       int64(wte.LogIndex),
			Body:           wte.CanonicalizedBody,
		}
		if wte.InclusionPromise != nil {
			entry.SignedEntryTimestamp = wte.InclusionPromise.SignedEntryTimestamp
		}
		if wte.InclusionProof != nil {
			ip := &InclusionProof{
				LogIndex: int64(wte.InclusionProof.LogIndex),
				RootHash: wte.InclusionProof.RootHash,
				TreeSize: int64(wte.InclusionProof.TreeSize),
				Hashes:   wte.InclusionProof.Hashes,
			}
			if wte.InclusionProof.Checkpoint != nil {
				ip.Checkpoint = wte.InclusionProof.Checkpoint.Envelope
			}
			entry.InclusionProof = ip
		}
		if len(entry.SignedEntryTimestamp) == 0 {
			return nil, fmt.Errorf("tlogEntries[%d]: missing inclusion promise", i)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
