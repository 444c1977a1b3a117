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
	"context"
	"sync"
	"time"

	"github.com/sigstore/keyless-verify/pkg/root"
)

// LiveTrustedRoot wraps a Client, refreshing the trusted root on a ticker
// so a long-running caller can construct one at startup and have it stay
// current without re-running GetTrustedRoot before every verification,
// mirrored from sigstore-go's root.LiveTrustedRoot. It is additive: it
// does not change single-call Client.GetTrustedRoot semantics.
type LiveTrustedRoot struct {
	client *Client
	cancel context.CancelFunc

	mu   sync.RWMutex
	root *root.TrustedRoot
}

// NewLiveTrustedRoot fetches an initial trusted root from client and starts
// a background goroutine that re-fetches it every period (GetTrustedRoot's
// own cache-validity window decides whether each tick actually triggers a
// TUF update). Stop must be called to release the goroutine.
func NewLiveTrustedRoot(ctx context.Context, client *Client, period time.Duration) (*LiveTrustedRoot, error) {
	tr, err := client.GetTrustedRoot(ctx)
	if err != nil {
		return nil, err
	}

	refreshCtx, cancel := context.WithCancel(context.Background())
	l := &LiveTrustedRoot{
		client: client,
		cancel: cancel,
		root:   tr,
	}
	go l.refreshLoop(refreshCtx, period)
	return l, nil
}

func (l *LiveTrustedRoot) refreshLoop(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tr, err := l.client.GetTrustedRoot(ctx)
			if err != nil {
				l.client.opts.logger.Warnw("live trusted root refresh failed", "error", err)
				continue
			}
			l.mu.Lock()
			l.root = tr
			l.mu.Unlock()
			l.client.opts.logger.Debugw("live trusted root refreshed")
		}
	}
}

// Get returns the most recently refreshed trusted root.
func (l *LiveTrustedRoot) Get() *root.TrustedRoot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.root
}

// Stop ends the background refresh goroutine. Get continues to return the
// last value fetched before Stop was called.
func (l *LiveTrustedRoot) Stop() {
	l.cancel()
}
