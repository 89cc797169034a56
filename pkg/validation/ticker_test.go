// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ValidateTicker TESTS
// =============================================================================

func TestValidateTicker(t *testing.T) {
	testCases := []struct {
		name    string
		ticker  string
		wantErr bool
	}{
		{"simple ticker", "AAPL", false},
		{"single letter", "F", false},
		{"with digits", "BRK2", false},
		{"class share with dot", "BRK.A", false},
		{"class share with hyphen", "BF-B", false},
		{"max length", "ABCDEFGHIJ", false},
		{"empty", "", true},
		{"too long", "ABCDEFGHIJK", true},
		{"lowercase", "aapl", true},
		{"embedded space", "AA PL", true},
		{"leading dot", ".AAPL", true},
		{"shell metacharacters", "AAPL;rm", true},
		{"path traversal", "../etc", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTicker(tc.ticker)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// =============================================================================
// SanitizeTicker TESTS
// =============================================================================

func TestSanitizeTicker_Normalizes(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"aapl", "AAPL"},
		{"  msft  ", "MSFT"},
		{"brk.a", "BRK.A"},
		{"AAPL", "AAPL"},
	}

	for _, tc := range testCases {
		got, err := SanitizeTicker(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.expected, got)
	}
}

func TestSanitizeTicker_RejectsInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "not a ticker!!", "$(whoami)"} {
		got, err := SanitizeTicker(input)
		assert.Error(t, err, "input %q", input)
		assert.Empty(t, got)
	}
}
