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

// Package tuf fetches and validates the TUF-distributed trusted root, with a
// disk cache and an embedded seed root.json. Unlike the rest of this module
// it performs I/O: HTTP fetches during Update and filesystem reads/writes
// against the cache.
package tuf

import (
	"errors"
	"fmt"
)

// NetworkErrorKind distinguishes the reasons a TUF update can fail
// transiently or fatally during network I/O.
type NetworkErrorKind int

const (
	// NetworkErrorUnknown is the zero value; a target download that fails
	// for a reason not classified as fatal is reported with this kind.
	NetworkErrorUnknown NetworkErrorKind = iota
	// NetworkErrorDeadlineExceeded means the caller-supplied deadline
	// elapsed with requests still in flight.
	NetworkErrorDeadlineExceeded
	// NetworkErrorMaxAttemptsExceeded means every retry attempt failed.
	NetworkErrorMaxAttemptsExceeded
)

// TufNetworkError reports a transient failure during Update: the caller may
// retry, unlike the fatal errors below.
type TufNetworkError struct {
	Kind  NetworkErrorKind
	cause error
}

func (e *TufNetworkError) Error() string {
	return fmt.Sprintf("tuf: network error: %v", e.cause)
}

func (e *TufNetworkError) Unwrap() error { return e.cause }

// FatalErrorKind enumerates the non-retryable ways a TUF update can fail.
// None of these fall back to a cached value that might satisfy an
// attacker's goals; they abort the update instead.
type FatalErrorKind int

const (
	// FatalErrorUnknown is the zero value; never returned deliberately.
	FatalErrorUnknown FatalErrorKind = iota
	// FatalErrorRollback means a fetched metadata file had a version lower
	// than the last trusted version.
	FatalErrorRollback
	// FatalErrorExpired means fetched metadata is already past its expiry.
	FatalErrorExpired
	// FatalErrorThreshold means the fetched metadata did not meet its
	// signing threshold under the previous root's keys.
	FatalErrorThreshold
	// FatalErrorTargetMismatch means a downloaded target's length or hash
	// did not match what targets metadata declared.
	FatalErrorTargetMismatch
)

// TufError reports a fatal, non-retryable failure of the metadata update or
// of a target download.
type TufError struct {
	Kind  FatalErrorKind
	cause error
}

func (e *TufError) Error() string {
	return fmt.Sprintf("tuf: %v", e.cause)
}

func (e *TufError) Unwrap() error { return e.cause }

var errTrustedRootOverrideUnreadable = errors.New("tuf: SIGSTORE_TRUSTED_ROOT path could not be read")
