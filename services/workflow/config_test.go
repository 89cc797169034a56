// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

// =============================================================================
// Config.Validate TESTS
// =============================================================================

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate_Failures(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(cfg *Config)
		expected string
	}{
		{
			name:     "negative max improvements",
			mutate:   func(cfg *Config) { cfg.MaxImprovements = -1 },
			expected: "invalid workflow config",
		},
		{
			name:     "max improvements above cap",
			mutate:   func(cfg *Config) { cfg.MaxImprovements = 11 },
			expected: "invalid workflow config",
		},
		{
			name:     "zero fast task timeout",
			mutate:   func(cfg *Config) { cfg.FastTaskTimeout = 0 },
			expected: "invalid workflow config",
		},
		{
			name:     "nil weights map",
			mutate:   func(cfg *Config) { cfg.Weights = nil },
			expected: "invalid workflow config",
		},
		{
			name: "missing weight for one task",
			mutate: func(cfg *Config) {
				delete(cfg.Weights, datatypes.TaskSector)
			},
			expected: "missing weight",
		},
		{
			name: "negative weight",
			mutate: func(cfg *Config) {
				cfg.Weights[datatypes.TaskSector] = -0.05
				cfg.Weights[datatypes.TaskForecast] = 0.35
			},
			expected: "is negative",
		},
		{
			name: "weights do not sum to one",
			mutate: func(cfg *Config) {
				cfg.Weights[datatypes.TaskForecast] = 0.50
			},
			expected: "must sum to 1.0",
		},
		{
			name: "thresholds not strictly descending",
			mutate: func(cfg *Config) {
				cfg.Thresholds.Buy = 0.70 // equal to StrongBuy
			},
			expected: "strictly descending",
		},
		{
			name: "hold below sell",
			mutate: func(cfg *Config) {
				cfg.Thresholds.Hold = 0.30
			},
			expected: "strictly descending",
		},
		{
			name: "threshold out of range",
			mutate: func(cfg *Config) {
				cfg.Thresholds.Sell = 0
			},
			expected: "invalid workflow config",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, datatypes.IsConfigurationError(err))
			assert.Contains(t, err.Error(), tc.expected)
		})
	}
}

func TestConfigValidate_ZeroImprovementsAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxImprovements = 0
	assert.NoError(t, cfg.Validate())
}

// =============================================================================
// Config.TaskTimeout TESTS
// =============================================================================

func TestTaskTimeout_ForecastGetsOwnBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FastTaskTimeout = 3 * time.Second
	cfg.ForecastTimeout = 45 * time.Second

	for _, name := range datatypes.FastTasks() {
		assert.Equal(t, 3*time.Second, cfg.TaskTimeout(name), "task %s", name)
	}
	assert.Equal(t, 45*time.Second, cfg.TaskTimeout(datatypes.TaskForecast))
}
