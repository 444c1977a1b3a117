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
	"crypto/x509/pkix"
	"encoding/asn1"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithoutSCTRemovesExtensionAndReencodesOthers(t *testing.T) {
	keyUsageExt := pkix.Extension{
		Id:    []int{2, 5, 29, 15},
		Value: []byte{0x03, 0x02, 0x05, 0xA0},
	}
	sctExt := pkix.Extension{
		Id:    OIDExtensionSCTList,
		Value: []byte{0xDE, 0xAD, 0xBE, 0xEF},
	}
	cert := selfSignedCert(t, false, keyUsageExt, sctExt)

	tbsBytes, err := WithoutSCT(cert)
	require.NoError(t, err)

	var tbs tbsCertificate
	_, err = asn1.Unmarshal(tbsBytes, &tbs)
	require.NoError(t, err)

	for _, ext := range tbs.Extensions {
		assert.False(t, ext.Id.Equal(OIDExtensionSCTList), "SCT extension should have been stripped")
	}
	assert.NotEmpty(t, tbs.Extensions, "non-SCT extensions should survive")
}

func TestWithoutSCTFailsWhenNoSctPresent(t *testing.T) {
	cert := selfSignedCert(t, false)
	_, err := WithoutSCT(cert)
	assert.ErrorIs(t, err, ErrNoSctExtension)
}
