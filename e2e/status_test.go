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

package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telekom/mailgate/e2e/helpers"
)

// TestHealthEndpoint verifies the liveness endpoint
func TestHealthEndpoint(t *testing.T) {
	s := helpers.SetupTest(t)

	health, err := s.Client.GetHealth(s.Ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.NotEmpty(t, health.Version)
}

// TestVersionEndpoint verifies the build info endpoint
func TestVersionEndpoint(t *testing.T) {
	s := helpers.SetupTest(t)

	info, err := s.Client.GetVersion(s.Ctx)
	require.NoError(t, err)
	assert.Equal(t, "mailgate", info.Component)
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Platform)
	t.Logf("Server build: %s %s (%s)", info.Component, info.Version, info.GitCommit)
}

// TestAccountsEndpoint verifies the account listing against the send routes:
// every enabled account must actually accept mail
func TestAccountsEndpoint(t *testing.T) {
	s := helpers.SetupTest(t)

	accounts, err := s.Client.ListAccounts(s.Ctx)
	require.NoError(t, err)
	require.NotEmpty(t, accounts, "Server should list its configured accounts")

	defaults := 0
	for _, account := range accounts {
		assert.NotEmpty(t, account.Name, "Every account needs a name")
		assert.NotEmpty(t, account.Provider, "Every account needs a provider")
		if account.Default {
			defaults++
		}
		if !account.Enabled {
			assert.NotEmpty(t, account.Reason, "Disabled account %q should state a reason", account.Name)
			continue
		}

		result, _, err := s.Client.SendEmail(s.Ctx, t, account.Name, helpers.SendRequest{
			Recipients: []helpers.Recipient{{Email: helpers.GetTestRecipient()}},
			Subject:    helpers.DefaultTestSubject,
			HTML:       helpers.DefaultTestHTML,
		})
		require.NoError(t, err, "Enabled account %q should accept mail", account.Name)
		assert.NotEmpty(t, result.MessageID)
	}
	assert.Equal(t, 1, defaults, "Exactly one account should be marked default")
}

// TestMetricsEndpoint verifies that relay traffic shows up in the
// Prometheus exposition
func TestMetricsEndpoint(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithMetricsRequired())

	// Generate at least one request so the relay counters exist.
	s.Client.MustSendEmail(t, s.Ctx, "", helpers.SendRequest{
		Recipients: []helpers.Recipient{{Email: helpers.GetTestRecipient()}},
		Subject:    helpers.DefaultTestSubject,
		HTML:       helpers.DefaultTestHTML,
	})

	metrics, err := s.Client.GetMetrics(s.Ctx)
	require.NoError(t, err)
	assert.Contains(t, metrics, "mailgate_relay_requests_total", "Relay request counter should be exposed")
	assert.Contains(t, metrics, "mailgate_api_endpoint_requests_total", "API endpoint counter should be exposed")
	assert.Contains(t, metrics, `mode="bcc"`, "Counters should be labeled by delivery mode")
}
