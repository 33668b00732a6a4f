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

import "os"

// getEnvOrDefault returns the environment variable value or the default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsE2EEnabled returns true if E2E tests should run
func IsE2EEnabled() bool {
	return os.Getenv("E2E_TEST") == "true"
}

// GetAPIBaseURL returns the base URL for the mailgate API.
// Defaults to localhost:8080 which matches the default listen address.
func GetAPIBaseURL() string {
	return getEnvOrDefault("MAILGATE_API_URL", "http://localhost:8080")
}

// GetTestRecipient returns the recipient address used for test sends.
// With the log provider nothing is actually delivered, so the default
// is a reserved example.com address.
func GetTestRecipient() string {
	return getEnvOrDefault("E2E_TEST_RECIPIENT", "e2e-recipient@example.com")
}

// GetSecondTestRecipient returns a second recipient for multi-recipient sends
func GetSecondTestRecipient() string {
	return getEnvOrDefault("E2E_TEST_RECIPIENT_2", "e2e-recipient-2@example.com")
}

// GetTestAccount returns the named account used for per-account send tests.
// Empty means named-account tests pick the default account from /accounts.
func GetTestAccount() string {
	return getEnvOrDefault("E2E_TEST_ACCOUNT", "")
}

// GetTestTemplate returns the template name used for template render tests.
// The server always carries the built-in "default" template.
func GetTestTemplate() string {
	return getEnvOrDefault("E2E_TEST_TEMPLATE", "default")
}

// IsMetricsTestEnabled returns true if metrics tests should run
// Metrics tests require the /metrics endpoint to be reachable
func IsMetricsTestEnabled() bool {
	// Check if explicitly disabled
	if os.Getenv("E2E_SKIP_METRICS_TESTS") == "true" {
		return false
	}
	// Metrics tests are enabled by default when E2E is enabled
	return IsE2EEnabled()
}

// IsDelayedSendTestEnabled returns true if delayed-send tests should run.
// They sleep between recipients and stretch the suite runtime, so slow CI
// environments can opt out.
func IsDelayedSendTestEnabled() bool {
	if os.Getenv("E2E_SKIP_DELAYED_TESTS") == "true" {
		return false
	}
	return IsE2EEnabled()
}

// IsRateLimitTestEnabled returns true if rate limit tests should run.
// They only make sense when the server under test has rate limiting
// enabled, so they are opt-in.
func IsRateLimitTestEnabled() bool {
	return os.Getenv("E2E_RATELIMIT_TEST") == "true" && IsE2EEnabled()
}
