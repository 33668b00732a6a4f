// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroValueConfigIsSecure(t *testing.T) {
	// Leaving TLS settings out of the YAML must never weaken them.
	var account AccountConfig
	assert.False(t, account.InsecureSkipVerify, "accounts must verify SMTP server certificates by default")
	assert.NotNil(t, account.GetTLSConfig())
	assert.False(t, account.GetTLSConfig().InsecureSkipVerify)

	var cfg Config
	assert.False(t, cfg.Telemetry.Insecure, "OTLP export must use TLS unless explicitly disabled")
}
