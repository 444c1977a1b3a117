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

import "errors"

var (
	// ErrUnsupportedMediaType is returned when the bundle declares a
	// mediaType this client does not recognize.
	ErrUnsupportedMediaType = errors.New("unsupported bundle media type")
	// ErrMissingVerificationMaterial is returned when neither a single
	// certificate nor an x509 certificate chain is present.
	ErrMissingVerificationMaterial = errors.New("bundle carries no certificate material")
)
