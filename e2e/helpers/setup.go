/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package helpers

import (
	"context"
	"testing"
	"time"
)

// TestSetup contains all common test setup components.
// Use SetupTest() to create this instead of manually setting up each test.
//
// Example usage:
//
//	func TestMyFeature(t *testing.T) {
//	    s := helpers.SetupTest(t)
//	    // s.Ctx and s.Client are ready and the API answered a health check
//	    result := s.Client.MustSendEmail(t, s.Ctx, "", helpers.SendRequest{...})
//	}
type TestSetup struct {
	T      *testing.T
	Ctx    context.Context
	cancel context.CancelFunc
	Client *APIClient
}

// SetupOption configures TestSetup behavior
type SetupOption func(*setupConfig)

type setupConfig struct {
	timeout          time.Duration
	skipE2ECheck     bool
	skipReadyWait    bool
	requireMetrics   bool
	requireDelayed   bool
	requireRateLimit bool
}

// WithTimeout sets a custom test timeout (default: ShortTestTimeout)
func WithTimeout(d time.Duration) SetupOption {
	return func(c *setupConfig) {
		c.timeout = d
	}
}

// WithShortTimeout sets the test timeout to ShortTestTimeout
func WithShortTimeout() SetupOption {
	return func(c *setupConfig) {
		c.timeout = ShortTestTimeout
	}
}

// WithMediumTimeout sets the test timeout to MediumTestTimeout, used by
// delayed-send tests that sleep between recipients
func WithMediumTimeout() SetupOption {
	return func(c *setupConfig) {
		c.timeout = MediumTestTimeout
	}
}

// WithMetricsRequired skips the test if metrics tests are not enabled
func WithMetricsRequired() SetupOption {
	return func(c *setupConfig) {
		c.requireMetrics = true
	}
}

// WithDelayedSendRequired skips the test if delayed-send tests are disabled
func WithDelayedSendRequired() SetupOption {
	return func(c *setupConfig) {
		c.requireDelayed = true
	}
}

// WithRateLimitRequired skips the test unless rate limit tests are enabled
func WithRateLimitRequired() SetupOption {
	return func(c *setupConfig) {
		c.requireRateLimit = true
	}
}

// SkipE2ECheck disables the E2E_TEST environment check (for unit tests)
func SkipE2ECheck() SetupOption {
	return func(c *setupConfig) {
		c.skipE2ECheck = true
	}
}

// SkipReadyWait disables the initial health poll (for unit tests)
func SkipReadyWait() SetupOption {
	return func(c *setupConfig) {
		c.skipReadyWait = true
	}
}

// SetupTest creates a TestSetup with all common test infrastructure.
// This replaces the common boilerplate found in most E2E tests:
//
//	if !helpers.IsE2EEnabled() { t.Skip(...) }
//	ctx, cancel := context.WithTimeout(...)
//	defer cancel()
//	client := helpers.NewAPIClient()
//	client.WaitForAPIReady(ctx, ...)
func SetupTest(t *testing.T, opts ...SetupOption) *TestSetup {
	t.Helper()

	cfg := &setupConfig{
		timeout: ShortTestTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.skipE2ECheck && !IsE2EEnabled() {
		t.Skip("Skipping E2E test. Set E2E_TEST=true to run.")
	}
	if cfg.requireMetrics && !IsMetricsTestEnabled() {
		t.Skip("Skipping metrics test. Unset E2E_SKIP_METRICS_TESTS to run.")
	}
	if cfg.requireDelayed && !IsDelayedSendTestEnabled() {
		t.Skip("Skipping delayed-send test. Unset E2E_SKIP_DELAYED_TESTS to run.")
	}
	if cfg.requireRateLimit && !IsRateLimitTestEnabled() {
		t.Skip("Skipping rate limit test. Set E2E_RATELIMIT_TEST=true to run.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout)
	s := &TestSetup{
		T:      t,
		Ctx:    ctx,
		cancel: cancel,
		Client: NewAPIClient(),
	}
	t.Cleanup(s.teardown)

	if !cfg.skipReadyWait {
		if err := s.Client.WaitForAPIReady(ctx, APIReadyTimeout); err != nil {
			t.Fatalf("mailgate API not reachable: %v", err)
		}
	}
	return s
}

func (s *TestSetup) teardown() {
	s.cancel()
}
