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

package tuf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	tufclient "github.com/theupdateframework/go-tuf/client"
	tufutil "github.com/theupdateframework/go-tuf/util"
	tufverify "github.com/theupdateframework/go-tuf/verify"

	"github.com/sigstore/keyless-verify/pkg/root"
	"github.com/sigstore/keyless-verify/pkg/tuf/embedded"
)

const (
	trustedRootTarget   = "trusted_root.json"
	signingConfigTarget = "signing_config.json"
)

// Client fetches and validates the TUF-distributed trusted root, caching
// validated metadata on disk between invocations. A Client is safe for
// concurrent use; Update serializes against other processes sharing the
// same cache directory via an advisory file lock, and against other
// goroutines in this process via an internal mutex.
type Client struct {
	opts Options

	mu          sync.Mutex
	tuf         *tufclient.Client
	local       tufclient.LocalStore
	lastRefresh time.Time
	cachedRoot  *root.TrustedRoot
}

// New constructs a Client from functional options layered over
// SIGSTORE_TRUSTED_ROOT/SIGSTORE_TUF_CACHE environment overrides and the
// public-good defaults.
func New(opts ...Option) (*Client, error) {
	o := newOptions(opts...)
	if o.CacheDir == "" {
		cacheDir, err := defaultCacheDir()
		if err != nil {
			return nil, fmt.Errorf("tuf: determine default cache dir: %w", err)
		}
		o.CacheDir = cacheDir
	}

	local, err := tufclient.FileLocalStore(o.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("tuf: open local metadata cache: %w", err)
	}

	remote, err := tufclient.HTTPRemoteStore(o.MetadataBaseURL, &tufclient.HTTPRemoteOptions{
		TargetsPath: o.TargetsPath,
	}, http.DefaultClient)
	if err != nil {
		return nil, fmt.Errorf("tuf: open remote store: %w", err)
	}

	c := &Client{
		opts:  o,
		tuf:   tufclient.NewClient(local, remote),
		local: local,
	}
	return c, nil
}

func defaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "sigstore", "tuf"), nil
}

// GetTrustedRoot returns the current trusted root, refreshing it first if
// the cache validity window has elapsed or no successful refresh has
// happened yet. If TrustedRootOverridePath is set (SIGSTORE_TRUSTED_ROOT),
// the TUF workflow is bypassed entirely and the override file is read and
// parsed directly every call.
func (c *Client) GetTrustedRoot(ctx context.Context) (*root.TrustedRoot, error) {
	if c.opts.TrustedRootOverridePath != "" {
		data, err := os.ReadFile(c.opts.TrustedRootOverridePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errTrustedRootOverrideUnreadable, err)
		}
		return root.FromJSON(data)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cachedRoot != nil && time.Since(c.lastRefresh) < c.opts.CacheValidity {
		return c.cachedRoot, nil
	}

	if err := c.update(ctx); err != nil {
		return nil, err
	}

	data, err := c.fetchTarget(ctx, trustedRootTarget)
	if err != nil {
		return nil, err
	}
	tr, err := root.FromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("tuf: parse %s: %w", trustedRootTarget, err)
	}

	c.cachedRoot = tr
	c.lastRefresh = time.Now()
	return tr, nil
}

// GetSigningConfig fetches and returns the raw bytes of signing_config.json,
// the optional companion target alongside trusted_root.json. This client
// does not parse it further: nothing in this specification's scope
// (verification against an existing bundle) consumes its contents, but it
// is fetched and hash/length verified by the same TUF machinery as
// trusted_root.json so a caller wiring in a signing flow can reuse this
// Client rather than building a second one.
func (c *Client) GetSigningConfig(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.update(ctx); err != nil {
		return nil, err
	}
	return c.fetchTarget(ctx, signingConfigTarget)
}

// update performs the standard TUF client workflow (root, timestamp,
// snapshot, targets) under the cache directory's advisory lock, retrying
// transient network failures with exponential backoff up to MaxAttempts.
func (c *Client) update(ctx context.Context) error {
	lock, err := lockCacheDir(c.opts.CacheDir)
	if err != nil {
		return fmt.Errorf("tuf: %w", err)
	}
	defer lock.Unlock()

	if err := c.ensureInitialized(); err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < c.opts.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return &TufNetworkError{Kind: NetworkErrorDeadlineExceeded, cause: ctx.Err()}
		}

		_, err := c.tuf.Update()
		if err == nil {
			c.opts.logger.Debugw("tuf metadata updated")
			return nil
		}
		if fatal := classifyFatalError(err); fatal != nil {
			return fatal
		}

		lastErr = err
		c.opts.logger.Warnw("tuf update attempt failed, retrying", "attempt", attempt+1, "error", err)
		backoff := time.Duration(math.Pow(2, float64(attempt))) * 100 * time.Millisecond
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return &TufNetworkError{Kind: NetworkErrorDeadlineExceeded, cause: ctx.Err()}
		}
	}
	return &TufNetworkError{Kind: NetworkErrorMaxAttemptsExceeded, cause: lastErr}
}

func (c *Client) ensureInitialized() error {
	meta, err := c.local.GetMeta()
	if err != nil {
		return fmt.Errorf("tuf: read local metadata: %w", err)
	}
	if _, ok := meta["root.json"]; ok {
		return nil
	}
	if err := c.tuf.Init(embedded.RootJSON); err != nil {
		return fmt.Errorf("tuf: init from embedded seed root: %w", err)
	}
	return nil
}

// fetchTarget downloads a target file, verifying its length and hash
// against targets metadata (enforced by the underlying TUF client's
// Download implementation).
func (c *Client) fetchTarget(ctx context.Context, name string) ([]byte, error) {
	var buf bytes.Buffer
	dest := &memoryDestination{Buffer: &buf}
	if err := c.tuf.Download(name, dest); err != nil {
		if fatal := classifyFatalError(err); fatal != nil {
			return nil, fatal
		}
		return nil, &TufNetworkError{Kind: NetworkErrorUnknown, cause: fmt.Errorf("download %s: %w", name, err)}
	}
	return buf.Bytes(), nil
}

type memoryDestination struct {
	*bytes.Buffer
}

func (memoryDestination) Delete() error { return nil }

// classifyFatalError reports whether err is one of the non-retryable
// failure modes go-tuf's verify and util packages return (rollback,
// expiry, threshold, target mismatch), returning the corresponding
// *TufError, or nil if err should instead be treated as a transient
// network issue and retried.
func classifyFatalError(err error) *TufError {
	var expired tufverify.ErrExpired
	if errors.As(err, &expired) {
		return &TufError{Kind: FatalErrorExpired, cause: err}
	}
	var lowVersion tufverify.ErrLowVersion
	if errors.As(err, &lowVersion) {
		return &TufError{Kind: FatalErrorRollback, cause: err}
	}
	var threshold tufverify.ErrRoleThreshold
	if errors.As(err, &threshold) {
		return &TufError{Kind: FatalErrorThreshold, cause: err}
	}
	var wrongHash tufutil.ErrWrongHash
	if errors.As(err, &wrongHash) {
		return &TufError{Kind: FatalErrorTargetMismatch, cause: err}
	}
	var wrongLength tufutil.ErrWrongLength
	if errors.As(err, &wrongLength) {
		return &TufError{Kind: FatalErrorTargetMismatch, cause: err}
	}
	return nil
}
