// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianAnalyst/services/llm"
	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

type fakeLLM struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, params llm.GenerationParams) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

// =============================================================================
// extractEvaluatorJSON TESTS
// =============================================================================

func TestExtractEvaluatorJSON(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantParsed bool
		wantScore  float64
		wantNeeds  bool
	}{
		{
			name:       "clean json",
			text:       `{"quality_score": 0.85, "needs_improvement": false, "strengths": ["good coverage"]}`,
			wantParsed: true,
			wantScore:  0.85,
		},
		{
			name: "fenced json block",
			text: "Here is my evaluation:\n```json\n{\"quality_score\": 0.6, \"needs_improvement\": true, \"improvement_areas\": [\"sentiment depth\"]}\n```\nHope that helps.",
			wantParsed: true,
			wantScore:  0.6,
			wantNeeds:  true,
		},
		{
			name: "fence without language tag",
			text: "```\n{\"quality_score\": 0.7, \"needs_improvement\": false}\n```",
			wantParsed: true,
			wantScore:  0.7,
		},
		{
			name:       "json embedded in prose",
			text:       `Sure! The result is {"quality_score": 0.9, "needs_improvement": false} as requested.`,
			wantParsed: true,
			wantScore:  0.9,
		},
		{
			name:       "no json at all",
			text:       "The analysis looks fine to me overall.",
			wantParsed: false,
			wantScore:  datatypes.NeutralScore,
		},
		{
			name:       "malformed json everywhere",
			text:       "```json\n{broken\n```",
			wantParsed: false,
			wantScore:  datatypes.NeutralScore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, parsed := extractEvaluatorJSON(tt.text)
			assert.Equal(t, tt.wantParsed, parsed)
			assert.InDelta(t, tt.wantScore, reply.QualityScore, 1e-9)
			assert.Equal(t, tt.wantNeeds, reply.NeedsImprovement)
		})
	}
}

// =============================================================================
// LLMEvaluator TESTS
// =============================================================================

func TestLLMEvaluator_PassVerdict(t *testing.T) {
	client := &fakeLLM{reply: `{"quality_score": 0.9, "needs_improvement": false, "strengths": ["complete data"], "explanation": "solid"}`}
	evaluator := &LLMEvaluator{Client: client}

	state := datatypes.NewAnalysisState("AAPL")
	verdict, err := evaluator.Evaluate(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, datatypes.VerdictPass, verdict.Verdict)
	assert.Equal(t, 0.9, verdict.QualityScore)
	assert.Equal(t, []string{"complete data"}, verdict.Strengths)
	assert.False(t, verdict.Unverified)
	assert.Contains(t, client.prompt, "Symbol: AAPL")
}

func TestLLMEvaluator_ImproveVerdict(t *testing.T) {
	client := &fakeLLM{reply: `{"quality_score": 0.4, "needs_improvement": true, "improvement_areas": ["missing forecast", "thin sentiment"]}`}
	evaluator := &LLMEvaluator{Client: client}

	verdict, err := evaluator.Evaluate(context.Background(), datatypes.NewAnalysisState("AAPL"))
	require.NoError(t, err)

	assert.Equal(t, datatypes.VerdictImprove, verdict.Verdict)
	assert.Len(t, verdict.Feedback, 2)
}

func TestLLMEvaluator_UnparseableReplyIsNeutralPass(t *testing.T) {
	client := &fakeLLM{reply: "I think the analysis is pretty good overall!"}
	evaluator := &LLMEvaluator{Client: client}

	verdict, err := evaluator.Evaluate(context.Background(), datatypes.NewAnalysisState("AAPL"))
	require.NoError(t, err)

	assert.Equal(t, datatypes.VerdictPass, verdict.Verdict)
	assert.Equal(t, datatypes.NeutralScore, verdict.QualityScore)
	assert.Equal(t, "Failed to parse evaluation response", verdict.Explanation)
}

func TestLLMEvaluator_ClientErrorPropagates(t *testing.T) {
	evaluator := &LLMEvaluator{Client: &fakeLLM{err: errors.New("timeout")}}

	_, err := evaluator.Evaluate(context.Background(), datatypes.NewAnalysisState("AAPL"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evaluator call failed")
}

// =============================================================================
// LLMInsights TESTS
// =============================================================================

func TestLLMInsights_Success(t *testing.T) {
	client := &fakeLLM{reply: "  Investment thesis: hold.  "}
	insights := &LLMInsights{Client: client}

	text, err := insights.Generate(context.Background(), datatypes.NewAnalysisState("AAPL"))
	require.NoError(t, err)
	assert.Equal(t, "Investment thesis: hold.", text)
	assert.Contains(t, client.prompt, "concise investment analysis for AAPL")
}

func TestLLMInsights_ErrorPropagates(t *testing.T) {
	insights := &LLMInsights{Client: &fakeLLM{err: errors.New("quota exceeded")}}

	_, err := insights.Generate(context.Background(), datatypes.NewAnalysisState("AAPL"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insight generation failed")
}
