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

// Package root holds the in-memory trusted root: the set of Fulcio CAs,
// Rekor log keys, and CT log keys a verification is run against, each
// carrying its own validity window. It is pure data with lookup helpers; it
// never performs I/O. Construction from TUF targets lives in pkg/tuf.
package root

import "errors"

var (
	// ErrInvalidValidityPeriod is returned when a validity interval has
	// start after end, or marks an empty window.
	ErrInvalidValidityPeriod = errors.New("invalid validity period")
	// ErrUnsupportedMediaType is returned by parsers when the trusted_root.json
	// document declares a mediaType this client does not understand, and is
	// also wrapped when a log public key declares an unrecognized keyDetails
	// scheme.
	ErrUnsupportedMediaType = errors.New("unsupported trusted root media type")
)
