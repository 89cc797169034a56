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
	"fmt"
	"sort"

	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

// Sub-score tuning constants. These mirror the scoring rubric the product
// shipped with; synthesis tests pin them.
const (
	attractivePE     = 15.0
	expensivePE      = 30.0
	peScoreDelta     = 0.2
	marginScoreDelta = 0.1
	goodProfitMargin = 0.20

	trendScoreDelta = 0.25
	rsiOversold     = 30.0
	rsiOverbought   = 70.0

	sharpeScoreScale = 4.0 // Sharpe of ±4 saturates the quant sub-score band

	forecastMoveThreshold = 5.0 // percent
	forecastConfThreshold = 0.6
	forecastBullScore     = 0.8
	forecastBearScore     = 0.2
)

// Synthesize is the fan-in node. It runs only after the barrier has
// observed a terminal result for every branch, combines the normalized
// sub-scores of the successful branches into a weighted composite, and
// redistributes the weight of failed branches proportionally among the
// survivors. It is deterministic for a given task result snapshot.
func Synthesize(state *datatypes.AnalysisState, cfg *Config) *datatypes.SynthesisResult {
	syn := &datatypes.SynthesisResult{
		SubScores:        make(map[datatypes.TaskName]float64),
		EffectiveWeights: make(map[datatypes.TaskName]float64),
	}

	for _, name := range datatypes.AllTasks() {
		res := state.TaskResult(name)
		if !res.Succeeded() {
			syn.Unavailable = append(syn.Unavailable, name)
			continue
		}
		score := subScore(res.Payload, syn)
		syn.SubScores[name] = score
		syn.Contributors = append(syn.Contributors, name)
	}

	if len(syn.Contributors) == 0 {
		// Every branch failed. Report a defined neutral sentinel instead
		// of erroring so the run still degrades into a HOLD report.
		syn.Composite = datatypes.NeutralScore
		return syn
	}

	// Redistribute the weight of unavailable branches proportionally:
	// effective weight = nominal / sum(nominal over contributors), so the
	// effective weights always sum to 1.0.
	var weightSum float64
	for _, name := range syn.Contributors {
		weightSum += cfg.Weights[name]
	}
	composite := 0.0
	for _, name := range syn.Contributors {
		eff := cfg.Weights[name] / weightSum
		syn.EffectiveWeights[name] = eff
		composite += syn.SubScores[name] * eff
	}
	syn.Composite = clamp01(composite)

	sort.Strings(syn.Strengths)
	sort.Strings(syn.Weaknesses)
	sort.Strings(syn.RiskFactors)
	return syn
}

// subScore normalizes one payload to [0,1] and appends its qualitative
// observations to the synthesis.
func subScore(p datatypes.TaskPayload, syn *datatypes.SynthesisResult) float64 {
	switch v := p.(type) {
	case *datatypes.MarketSnapshot:
		return fundamentalScore(v, syn)
	case *datatypes.TechnicalSnapshot:
		return technicalScore(v, syn)
	case *datatypes.QuantSnapshot:
		return quantScore(v, syn)
	case *datatypes.SentimentSnapshot:
		return sentimentScore(v, syn)
	case *datatypes.SectorProfile:
		return sectorScore(v, syn)
	case *datatypes.ForecastOutlook:
		return forecastScore(v, syn)
	default:
		return datatypes.NeutralScore
	}
}

func fundamentalScore(m *datatypes.MarketSnapshot, syn *datatypes.SynthesisResult) float64 {
	score := datatypes.NeutralScore
	if m.PERatio != nil && *m.PERatio > 0 {
		switch {
		case *m.PERatio < attractivePE:
			score += peScoreDelta
			syn.Strengths = append(syn.Strengths,
				fmt.Sprintf("Attractive P/E ratio (%.1f)", *m.PERatio))
		case *m.PERatio > expensivePE:
			score -= peScoreDelta
			syn.RiskFactors = append(syn.RiskFactors,
				fmt.Sprintf("High P/E ratio (%.1f)", *m.PERatio))
		}
	}
	if m.ProfitMargin != nil && *m.ProfitMargin > goodProfitMargin {
		score += marginScoreDelta
		syn.Strengths = append(syn.Strengths,
			fmt.Sprintf("High profit margin (%.1f%%)", *m.ProfitMargin*100))
	}
	return clamp01(score)
}

func technicalScore(t *datatypes.TechnicalSnapshot, syn *datatypes.SynthesisResult) float64 {
	score := datatypes.NeutralScore
	switch {
	case t.Trend.Bullish():
		score += trendScoreDelta
		syn.Strengths = append(syn.Strengths, fmt.Sprintf("Bullish trend: %s", t.Trend))
	case t.Trend.Bearish():
		score -= trendScoreDelta
		syn.Weaknesses = append(syn.Weaknesses, fmt.Sprintf("Bearish trend: %s", t.Trend))
	}
	switch {
	case t.RSI < rsiOversold:
		syn.Strengths = append(syn.Strengths,
			fmt.Sprintf("RSI oversold - potential entry (%.1f)", t.RSI))
	case t.RSI > rsiOverbought:
		syn.RiskFactors = append(syn.RiskFactors,
			fmt.Sprintf("RSI overbought (%.1f)", t.RSI))
	}
	return clamp01(score)
}

func quantScore(q *datatypes.QuantSnapshot, syn *datatypes.SynthesisResult) float64 {
	// Risk-adjusted return mapped onto a band around neutral: a Sharpe of
	// +sharpeScoreScale saturates at 0.75, -sharpeScoreScale at 0.25.
	adj := q.SharpeRatio / sharpeScoreScale
	if adj > 0.25 {
		adj = 0.25
	}
	if adj < -0.25 {
		adj = -0.25
	}
	if q.SharpeRatio > 1.0 {
		syn.Strengths = append(syn.Strengths,
			fmt.Sprintf("Strong risk-adjusted return (Sharpe %.2f)", q.SharpeRatio))
	}
	switch q.RiskLevel {
	case "High", "Very High":
		syn.RiskFactors = append(syn.RiskFactors,
			fmt.Sprintf("Elevated volatility (%.0f%% annualized)", q.Volatility*100))
	}
	return clamp01(datatypes.NeutralScore + adj)
}

func sentimentScore(s *datatypes.SentimentSnapshot, syn *datatypes.SynthesisResult) float64 {
	switch {
	case s.Score > 0.6:
		syn.Strengths = append(syn.Strengths, "Positive market sentiment")
	case s.Score < 0.4:
		syn.RiskFactors = append(syn.RiskFactors, "Negative market sentiment")
	}
	return clamp01(s.Score)
}

func sectorScore(p *datatypes.SectorProfile, syn *datatypes.SynthesisResult) float64 {
	// Classification is informational: it contributes a neutral score but
	// confirms coverage for the report.
	if p.Sector != "" {
		syn.Strengths = append(syn.Strengths,
			fmt.Sprintf("Sector coverage: %s / %s", p.Sector, p.Industry))
	}
	return datatypes.NeutralScore
}

func forecastScore(f *datatypes.ForecastOutlook, syn *datatypes.SynthesisResult) float64 {
	switch {
	case f.ExpectedChangePct > forecastMoveThreshold && f.Confidence > forecastConfThreshold:
		syn.Strengths = append(syn.Strengths,
			fmt.Sprintf("Strong forecast: %+.1f%% predicted", f.ExpectedChangePct))
		return forecastBullScore
	case f.ExpectedChangePct < -forecastMoveThreshold && f.Confidence > forecastConfThreshold:
		syn.RiskFactors = append(syn.RiskFactors,
			fmt.Sprintf("Bearish forecast: %+.1f%% predicted", f.ExpectedChangePct))
		return forecastBearScore
	default:
		return datatypes.NeutralScore
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
