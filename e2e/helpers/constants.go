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

import "time"

// Test timeout constants - use these instead of hardcoded durations
const (
	// ShortTestTimeout for simple tests with a handful of API calls
	ShortTestTimeout = 1 * time.Minute

	// MediumTestTimeout for tests that issue delayed sends, which sleep
	// between recipients
	MediumTestTimeout = 5 * time.Minute

	// APIReadyTimeout for waiting for the API to answer health checks
	APIReadyTimeout = 30 * time.Second

	// RequestTimeout for individual HTTP requests against the API
	RequestTimeout = 30 * time.Second
)

// Test send constants - keep subjects recognizable so test traffic can be
// spotted in server logs
const (
	// DefaultTestSubject marks e2e mail in server logs
	DefaultTestSubject = "[e2e] mailgate test message"

	// DefaultTestHTML is a minimal inline body for sends that bypass
	// templates. The placeholder tolerates a missing name so it works for
	// blind-copy sends too, which render without per-recipient context.
	DefaultTestHTML = `<h1>mailgate e2e</h1><p>Hello {{ default "there" .name }}</p>`
)
