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

	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

// =============================================================================
// DecideGate TESTS
// =============================================================================

func TestDecideGate(t *testing.T) {
	pass := &datatypes.EvaluationVerdict{Verdict: datatypes.VerdictPass}
	improve := &datatypes.EvaluationVerdict{Verdict: datatypes.VerdictImprove}

	testCases := []struct {
		name              string
		verdict           *datatypes.EvaluationVerdict
		improvementCount  int
		maxImprovements   int
		expectedDecision  GateDecision
		expectedExhausted bool
	}{
		{
			name:             "pass proceeds",
			verdict:          pass,
			improvementCount: 0,
			maxImprovements:  2,
			expectedDecision: GateProceed,
		},
		{
			name:             "nil verdict proceeds",
			verdict:          nil,
			improvementCount: 0,
			maxImprovements:  2,
			expectedDecision: GateProceed,
		},
		{
			name:             "improve loops while budget remains",
			verdict:          improve,
			improvementCount: 0,
			maxImprovements:  2,
			expectedDecision: GateImprove,
		},
		{
			name:             "improve loops on last slot",
			verdict:          improve,
			improvementCount: 1,
			maxImprovements:  2,
			expectedDecision: GateImprove,
		},
		{
			name:              "improve overridden at bound",
			verdict:           improve,
			improvementCount:  2,
			maxImprovements:   2,
			expectedDecision:  GateProceed,
			expectedExhausted: true,
		},
		{
			name:              "zero budget disables the loop",
			verdict:           improve,
			improvementCount:  0,
			maxImprovements:   0,
			expectedDecision:  GateProceed,
			expectedExhausted: true,
		},
		{
			name:             "pass at bound is not exhausted",
			verdict:          pass,
			improvementCount: 2,
			maxImprovements:  2,
			expectedDecision: GateProceed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decision, exhausted := DecideGate(tc.verdict, tc.improvementCount, tc.maxImprovements)
			assert.Equal(t, tc.expectedDecision, decision)
			assert.Equal(t, tc.expectedExhausted, exhausted)
		})
	}
}
