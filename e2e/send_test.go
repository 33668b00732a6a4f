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
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telekom/mailgate/e2e/helpers"
)

// testRecipients returns the standard two-recipient list used across send tests
func testRecipients() []helpers.Recipient {
	return []helpers.Recipient{
		{Email: helpers.GetTestRecipient(), Name: "First Recipient"},
		{Email: helpers.GetSecondTestRecipient(), Name: "Second Recipient"},
	}
}

// namedTestAccount resolves the account for per-account routing tests.
// E2E_TEST_ACCOUNT wins; otherwise any enabled account from the server's
// own listing is used.
func namedTestAccount(t *testing.T, s *helpers.TestSetup) string {
	t.Helper()
	if account := helpers.GetTestAccount(); account != "" {
		return account
	}
	accounts, err := s.Client.ListAccounts(s.Ctx)
	require.NoError(t, err, "Account listing should succeed")
	for _, account := range accounts {
		if account.Enabled {
			return account.Name
		}
	}
	t.Fatal("No enabled account available for named-account tests")
	return ""
}

// TestSendEmailBlindCopy sends one message to multiple recipients via the
// default account and verifies the single-message response shape
func TestSendEmailBlindCopy(t *testing.T) {
	s := helpers.SetupTest(t)

	result, resp, err := s.Client.SendEmail(s.Ctx, t, "", helpers.SendRequest{
		Recipients: testRecipients(),
		Subject:    helpers.DefaultTestSubject,
		HTML:       helpers.DefaultTestHTML,
	})
	require.NoError(t, err, "Blind-copy send should succeed")
	assert.Equal(t, http.StatusOK, resp.StatusCode(), "Blind-copy delivery should answer 200")
	assert.Equal(t, "bcc", result.Mode)
	assert.NotEmpty(t, result.MessageID, "Blind-copy response should carry a message ID")
	assert.Len(t, result.Accepted, 2, "Both recipients should be accepted")
	assert.Empty(t, result.Rejected, "No recipient should be rejected")
}

// TestSendEmailNamedAccount verifies that the parameterized route delivers
// via the requested account
func TestSendEmailNamedAccount(t *testing.T) {
	s := helpers.SetupTest(t)
	account := namedTestAccount(t, s)

	result := s.Client.MustSendEmail(t, s.Ctx, account, helpers.SendRequest{
		Recipients: []helpers.Recipient{{Email: helpers.GetTestRecipient()}},
		Subject:    helpers.DefaultTestSubject,
		HTML:       helpers.DefaultTestHTML,
	})
	assert.Equal(t, "bcc", result.Mode)
	assert.NotEmpty(t, result.MessageID)
	t.Logf("Sent via account %q: message %s", account, result.MessageID)
}

// TestSendEmailIndividual sends personalized messages and verifies the
// per-recipient response shape
func TestSendEmailIndividual(t *testing.T) {
	s := helpers.SetupTest(t)

	result, resp, err := s.Client.SendEmail(s.Ctx, t, "", helpers.SendRequest{
		Recipients: []helpers.Recipient{
			{Email: helpers.GetTestRecipient(), Name: "First Recipient", Extras: map[string]interface{}{"plan": "pro"}},
			{Email: helpers.GetSecondTestRecipient(), Name: "Second Recipient"},
		},
		Subject:    helpers.DefaultTestSubject,
		HTML:       helpers.DefaultTestHTML,
		Context:    map[string]interface{}{"product": "mailgate"},
		Individual: true,
	})
	require.NoError(t, err, "Individual send should succeed")
	assert.Equal(t, http.StatusMultiStatus, resp.StatusCode(), "Individual delivery should answer 207")
	assert.Equal(t, "individual", result.Mode)
	assert.Equal(t, 2, result.TotalSent, "Every recipient should be delivered with the log provider")
	require.Len(t, result.OK, 2)
	assert.Empty(t, result.Fail)

	// Each recipient gets its own message, so the IDs must differ.
	seen := map[string]bool{}
	for _, outcome := range result.OK {
		assert.Equal(t, "success", outcome.Status)
		assert.NotEmpty(t, outcome.MessageID, "Outcome for %s should carry a message ID", outcome.Recipient)
		assert.False(t, seen[outcome.MessageID], "Message IDs should be unique per recipient")
		seen[outcome.MessageID] = true
	}
}

// TestSendEmailIndividualDelayed verifies that a positive delay forces
// sequential delivery and reports the elapsed duration
func TestSendEmailIndividualDelayed(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithDelayedSendRequired(), helpers.WithMediumTimeout())

	started := time.Now()
	result, resp, err := s.Client.SendEmail(s.Ctx, t, "", helpers.SendRequest{
		Recipients:   testRecipients(),
		Subject:      helpers.DefaultTestSubject,
		HTML:         helpers.DefaultTestHTML,
		DelaySeconds: 1,
	})
	elapsed := time.Since(started)

	require.NoError(t, err, "Delayed send should succeed")
	assert.Equal(t, http.StatusMultiStatus, resp.StatusCode())
	assert.Equal(t, "individual_delayed", result.Mode)
	assert.Equal(t, 2, result.TotalSent)

	// Two recipients with a one-second delay means at least one pause.
	assert.GreaterOrEqual(t, result.DurationSeconds, 1.0, "Reported duration should include the delay")
	assert.GreaterOrEqual(t, elapsed, 1*time.Second, "Request should block for the delay")
}

// TestSendEmailWithTemplate renders a stored template instead of inline HTML
func TestSendEmailWithTemplate(t *testing.T) {
	s := helpers.SetupTest(t)

	result := s.Client.MustSendEmail(t, s.Ctx, "", helpers.SendRequest{
		Recipients: []helpers.Recipient{{Email: helpers.GetTestRecipient(), Name: "Template Tester"}},
		Subject:    helpers.DefaultTestSubject,
		Template:   helpers.GetTestTemplate(),
		Context: map[string]interface{}{
			"title":   "E2E Notification",
			"message": "Template rendering verified end to end.",
		},
	})
	assert.Equal(t, "bcc", result.Mode)
	assert.NotEmpty(t, result.MessageID)
}

// TestSendEmailRequestIDEcho verifies that the server echoes the caller's
// request ID for log correlation
func TestSendEmailRequestIDEcho(t *testing.T) {
	s := helpers.SetupTest(t)

	_, resp, err := s.Client.SendEmail(s.Ctx, t, "", helpers.SendRequest{
		Recipients: []helpers.Recipient{{Email: helpers.GetTestRecipient()}},
		Subject:    helpers.DefaultTestSubject,
		HTML:       helpers.DefaultTestHTML,
	})
	require.NoError(t, err)

	sent := resp.Request.Header.Get(helpers.RequestIDHeader)
	require.NotEmpty(t, sent, "Client should attach a request ID")
	assert.Equal(t, sent, resp.Header().Get(helpers.RequestIDHeader), "Server should echo the request ID")
}

// TestSendEmailValidationErrors exercises the request validation surface
// with malformed payloads
func TestSendEmailValidationErrors(t *testing.T) {
	s := helpers.SetupTest(t)

	validRecipients := []interface{}{map[string]interface{}{"email": helpers.GetTestRecipient()}}

	t.Run("NoRecipients", func(t *testing.T) {
		status, apiErr := s.Client.SendEmailExpectError(s.Ctx, t, "", map[string]interface{}{
			"subject": helpers.DefaultTestSubject,
			"html":    helpers.DefaultTestHTML,
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "validation_error", apiErr.Error)
	})

	t.Run("EmptySubject", func(t *testing.T) {
		status, _ := s.Client.SendEmailExpectError(s.Ctx, t, "", map[string]interface{}{
			"recipients": validRecipients,
			"html":       helpers.DefaultTestHTML,
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("NoBody", func(t *testing.T) {
		status, apiErr := s.Client.SendEmailExpectError(s.Ctx, t, "", map[string]interface{}{
			"recipients": validRecipients,
			"subject":    helpers.DefaultTestSubject,
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, apiErr.Message, "either template or html")
	})

	t.Run("InvalidRecipientAddress", func(t *testing.T) {
		status, apiErr := s.Client.SendEmailExpectError(s.Ctx, t, "", map[string]interface{}{
			"recipients": []interface{}{map[string]interface{}{"email": "not-an-address"}},
			"subject":    helpers.DefaultTestSubject,
			"html":       helpers.DefaultTestHTML,
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, apiErr.Message, "invalid email")
	})

	t.Run("NegativeDelay", func(t *testing.T) {
		status, apiErr := s.Client.SendEmailExpectError(s.Ctx, t, "", map[string]interface{}{
			"recipients":   validRecipients,
			"subject":      helpers.DefaultTestSubject,
			"html":         helpers.DefaultTestHTML,
			"delaySeconds": -5,
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, apiErr.Message, "delaySeconds")
	})

	t.Run("UnknownTemplate", func(t *testing.T) {
		status, apiErr := s.Client.SendEmailExpectError(s.Ctx, t, "", map[string]interface{}{
			"recipients": validRecipients,
			"subject":    helpers.DefaultTestSubject,
			"template":   "e2e-no-such-template",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, apiErr.Message, "unknown template")
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		status, apiErr := s.Client.SendEmailExpectError(s.Ctx, t, "", `{"recipients": [`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "validation_error", apiErr.Error)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		status, apiErr := s.Client.SendEmailExpectError(s.Ctx, t, "e2e-no-such-account", map[string]interface{}{
			"recipients": validRecipients,
			"subject":    helpers.DefaultTestSubject,
			"html":       helpers.DefaultTestHTML,
		})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "not_found", apiErr.Error)
	})
}
