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
	"fmt"
	"strings"

	"github.com/AleutianAI/AleutianAnalyst/services/llm"
	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

// LLMInsights turns the structured run state into a free-text investment
// narrative. Errors surface to the engine, which substitutes the templated
// summary.
type LLMInsights struct {
	Client llm.LLMClient
}

// Generate implements workflow.InsightGenerator.
func (g *LLMInsights) Generate(ctx context.Context, state *datatypes.AnalysisState) (string, error) {
	temperature := float32(0.7)
	maxTokens := 1024
	text, err := g.Client.Generate(ctx, buildInsightPrompt(state), llm.GenerationParams{
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("insight generation failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func buildInsightPrompt(state *datatypes.AnalysisState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Provide a concise investment analysis for %s:\n\nCurrent Data:\n", state.Symbol)

	if m := state.Market(); m != nil {
		fmt.Fprintf(&b, "- Price: $%.2f\n", m.CurrentPrice)
		if m.PERatio != nil {
			fmt.Fprintf(&b, "- P/E Ratio: %.2f\n", *m.PERatio)
		}
	}
	if t := state.Technical(); t != nil {
		fmt.Fprintf(&b, "- Trend: %s\n- RSI: %.1f\n", t.Trend, t.RSI)
	}
	if s := state.Sentiment(); s != nil {
		fmt.Fprintf(&b, "- Sentiment: %s (%d articles)\n", s.Overall, s.TotalArticles)
	}
	if f := state.Forecast(); f != nil {
		fmt.Fprintf(&b, "- Forecast: %+.1f%% over %d days\n", f.ExpectedChangePct, f.Periods)
	}
	if rec := state.Recommendation; rec != nil {
		fmt.Fprintf(&b, "- Recommendation: %s (risk %s, confidence %.0f%%)\n",
			rec.Call, rec.RiskTier, rec.Confidence*100)
	}

	b.WriteString(`
Provide:
1. Investment thesis (2-3 sentences)
2. Key risks (2-3 bullet points)
3. Potential catalysts (2-3 bullet points)

Keep response concise and actionable.
`)
	return b.String()
}
