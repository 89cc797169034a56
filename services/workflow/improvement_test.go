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
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func buyRecommendation() *datatypes.Recommendation {
	return &datatypes.Recommendation{
		Call:           datatypes.CallBuy,
		Confidence:     0.30,
		RiskTier:       datatypes.RiskMedium,
		CompositeScore: 0.65,
		Concerns:       []string{"High P/E ratio (32.0)"},
	}
}

// =============================================================================
// RuleBasedReviser TESTS
// =============================================================================

func TestRuleBasedReviser_FoldsFeedbackIntoConcerns(t *testing.T) {
	prior := buyRecommendation()
	verdict := &datatypes.EvaluationVerdict{
		Verdict:  datatypes.VerdictImprove,
		Feedback: []string{"sentiment coverage is thin", "forecast interval is wide"},
	}

	revised, err := RuleBasedReviser{}.Revise(prior, verdict)
	require.NoError(t, err)

	assert.Contains(t, revised.Concerns, "Evaluator flagged: sentiment coverage is thin")
	assert.Contains(t, revised.Concerns, "Evaluator flagged: forecast interval is wide")
	assert.Equal(t, 1, revised.Revision)
	// Two feedback items dampen confidence by 20%.
	assert.InDelta(t, 0.24, revised.Confidence, 1e-9)
	// Call is derived from the composite and must not move.
	assert.Equal(t, prior.Call, revised.Call)
	assert.Equal(t, prior.CompositeScore, revised.CompositeScore)
}

func TestRuleBasedReviser_LeavesPriorUntouched(t *testing.T) {
	prior := buyRecommendation()
	verdict := &datatypes.EvaluationVerdict{Feedback: []string{"needs work"}}

	_, err := RuleBasedReviser{}.Revise(prior, verdict)
	require.NoError(t, err)

	assert.Equal(t, 0.30, prior.Confidence)
	assert.Equal(t, 0, prior.Revision)
	assert.Len(t, prior.Concerns, 1)
}

func TestRuleBasedReviser_DeduplicatesRepeatedFeedback(t *testing.T) {
	prior := buyRecommendation()
	verdict := &datatypes.EvaluationVerdict{
		Feedback: []string{"needs work", "needs work", ""},
	}

	revised, err := RuleBasedReviser{}.Revise(prior, verdict)
	require.NoError(t, err)

	count := 0
	for _, c := range revised.Concerns {
		if c == "Evaluator flagged: needs work" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestRuleBasedReviser_ConfidenceFloorsAtZero(t *testing.T) {
	prior := buyRecommendation()
	verdict := &datatypes.EvaluationVerdict{
		Feedback: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"},
	}

	revised, err := RuleBasedReviser{}.Revise(prior, verdict)
	require.NoError(t, err)
	assert.Equal(t, 0.0, revised.Confidence)
}

func TestRuleBasedReviser_NilRecommendation(t *testing.T) {
	_, err := RuleBasedReviser{}.Revise(nil, &datatypes.EvaluationVerdict{})
	assert.Error(t, err)
}

// =============================================================================
// ValidateRevision TESTS
// =============================================================================

func TestValidateRevision(t *testing.T) {
	cfg := DefaultConfig()

	testCases := []struct {
		name     string
		mutate   func(revised *datatypes.Recommendation)
		expected string
	}{
		{
			name:   "valid revision accepted",
			mutate: func(r *datatypes.Recommendation) { r.Confidence = 0.25; r.Revision = 1 },
		},
		{
			name:     "confidence above one",
			mutate:   func(r *datatypes.Recommendation) { r.Confidence = 1.2 },
			expected: "outside [0,1]",
		},
		{
			name:     "confidence raised",
			mutate:   func(r *datatypes.Recommendation) { r.Confidence = 0.9 },
			expected: "raised confidence",
		},
		{
			name:     "call inconsistent with composite",
			mutate:   func(r *datatypes.Recommendation) { r.Call = datatypes.CallStrongSell },
			expected: "inconsistent with composite",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prior := buyRecommendation()
			revised := prior.Clone()
			tc.mutate(revised)

			err := ValidateRevision(prior, revised, &cfg)
			if tc.expected == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expected)
		})
	}
}

func TestValidateRevision_NilRevision(t *testing.T) {
	cfg := DefaultConfig()
	err := ValidateRevision(buyRecommendation(), nil, &cfg)
	assert.Error(t, err)
}
