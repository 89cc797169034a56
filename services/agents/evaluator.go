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
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/AleutianAI/AleutianAnalyst/services/llm"
	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

// LLMEvaluator scores a finished analysis with an external model. The
// model is prompted for strict JSON but treated as untrusted: parsing is
// tolerant of markdown fences and surrounding prose, and a completely
// unparseable reply degrades to a neutral PASS rather than an error.
type LLMEvaluator struct {
	Client llm.LLMClient
}

// evaluatorReply mirrors the JSON contract in the prompt.
type evaluatorReply struct {
	QualityScore     float64  `json:"quality_score"`
	NeedsImprovement bool     `json:"needs_improvement"`
	ImprovementAreas []string `json:"improvement_areas"`
	Strengths        []string `json:"strengths"`
	Explanation      string   `json:"explanation"`
}

// Evaluate implements workflow.Evaluator.
func (e *LLMEvaluator) Evaluate(ctx context.Context, state *datatypes.AnalysisState) (*datatypes.EvaluationVerdict, error) {
	temperature := float32(0.0)
	maxTokens := 512
	raw, err := e.Client.Generate(ctx, buildEvaluationPrompt(state), llm.GenerationParams{
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluator call failed: %w", err)
	}

	reply, parsed := extractEvaluatorJSON(raw)
	verdict := &datatypes.EvaluationVerdict{
		Verdict:      datatypes.VerdictPass,
		QualityScore: reply.QualityScore,
		Feedback:     reply.ImprovementAreas,
		Strengths:    reply.Strengths,
		Explanation:  reply.Explanation,
	}
	if !parsed {
		verdict.Explanation = "Failed to parse evaluation response"
		verdict.QualityScore = datatypes.NeutralScore
	}
	if reply.NeedsImprovement {
		verdict.Verdict = datatypes.VerdictImprove
	}
	return verdict, nil
}

// buildEvaluationPrompt summarizes component coverage and key metrics for
// the model.
func buildEvaluationPrompt(state *datatypes.AnalysisState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert financial analyst evaluating the quality of a stock analysis.\n\n")
	fmt.Fprintf(&b, "Symbol: %s\n\nAnalysis Components:\n", state.Symbol)

	statuses := state.PerTaskStatus()
	for i, name := range datatypes.AllTasks() {
		mark := "Missing/Error"
		if statuses[name] == datatypes.TaskSuccess {
			mark = "Complete"
		}
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, name, mark)
	}

	b.WriteString("\nKey Metrics:\n")
	if m := state.Market(); m != nil {
		fmt.Fprintf(&b, "- Current Price: $%.2f\n", m.CurrentPrice)
		if m.PERatio != nil {
			fmt.Fprintf(&b, "- P/E Ratio: %.2f\n", *m.PERatio)
		}
	}
	if t := state.Technical(); t != nil {
		fmt.Fprintf(&b, "- RSI: %.1f\n- Trend: %s\n", t.RSI, t.Trend)
	}
	if s := state.Sentiment(); s != nil {
		fmt.Fprintf(&b, "- Sentiment Score: %.2f (%d articles)\n", s.Score, s.TotalArticles)
	}
	if f := state.Forecast(); f != nil {
		fmt.Fprintf(&b, "- Forecast Change: %+.1f%%\n", f.ExpectedChangePct)
	}
	if rec := state.Recommendation; rec != nil {
		fmt.Fprintf(&b, "- Recommendation: %s (composite %.2f, confidence %.2f)\n",
			rec.Call, rec.CompositeScore, rec.Confidence)
	}

	b.WriteString(`
Evaluate this analysis on a scale of 0-1 and provide:
1. Overall quality score (0-1)
2. Whether improvement is needed (true/false)
3. Specific areas needing improvement (list)
4. Key strengths (list)

Respond ONLY with valid JSON in this exact format (no markdown, no code blocks):
{
    "quality_score": 0.85,
    "needs_improvement": false,
    "improvement_areas": [],
    "strengths": ["comprehensive data", "accurate metrics"],
    "explanation": "brief explanation"
}
`)
	return b.String()
}

var (
	fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	bareJSONPattern   = regexp.MustCompile(`(?s)\{.*\}`)
)

// extractEvaluatorJSON parses the model reply, in decreasing order of
// strictness: the raw text, a fenced code block, then any JSON object in
// the text. The boolean reports whether any candidate parsed.
func extractEvaluatorJSON(text string) (evaluatorReply, bool) {
	var reply evaluatorReply

	trimmed := strings.TrimSpace(text)
	if err := json.Unmarshal([]byte(trimmed), &reply); err == nil {
		return reply, true
	}

	if m := fencedJSONPattern.FindStringSubmatch(trimmed); m != nil {
		if err := json.Unmarshal([]byte(m[1]), &reply); err == nil {
			return reply, true
		}
	}

	if m := bareJSONPattern.FindString(trimmed); m != "" {
		if err := json.Unmarshal([]byte(m), &reply); err == nil {
			return reply, true
		}
	}

	return evaluatorReply{QualityScore: datatypes.NeutralScore}, false
}
