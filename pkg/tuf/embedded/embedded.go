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

// Package embedded holds the seed TUF root metadata a Client trusts on
// first run, before any update has been performed.
//
// root.json here is a structural placeholder: the real deployment replaces
// it with the actual signed root published by the target TUF repository
// (sigstore-tuf-cdn for public-good, sigstage for staging). It is checked
// into this module the way cosign embeds its own roots under
// pkg/cosign/tuf/repository, via go:embed rather than a runtime fetch, so a
// first Update() has something to verify the first real root against.
package embedded

import _ "embed"

//go:embed root.json
var RootJSON []byte
