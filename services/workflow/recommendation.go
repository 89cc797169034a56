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
	"math"

	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

// Volatility bands for the risk tier when quantitative data is available.
const (
	volVeryHigh = 0.40
	volHigh     = 0.30
	volMedium   = 0.20
)

// Recommend derives the directional call from the synthesized composite.
// It is pure: no I/O, no randomness, no clock reads. Identical inputs
// always produce identical output, which keeps improvement-loop retries
// cheap and the mapping testable.
//
// quant may be nil; the risk tier then falls back to the risk factor count
// collected during synthesis.
func Recommend(syn *datatypes.SynthesisResult, quant *datatypes.QuantSnapshot, cfg *Config) *datatypes.Recommendation {
	call, rationale := mapCall(syn.Composite, &cfg.Thresholds)

	rec := &datatypes.Recommendation{
		Call:           call,
		Confidence:     confidence(syn.Composite),
		RiskTier:       riskTier(quant, len(syn.RiskFactors)),
		CompositeScore: syn.Composite,
		Rationale:      rationale,
		Strengths:      append([]string(nil), syn.Strengths...),
		Concerns:       concat(syn.Weaknesses, syn.RiskFactors),
	}
	rec.Horizon = horizon(syn.Composite, rec.RiskTier)
	return rec
}

// mapCall maps the composite onto the five call bands.
func mapCall(composite float64, th *CallThresholds) (datatypes.Call, string) {
	switch {
	case composite > th.StrongBuy:
		return datatypes.CallStrongBuy,
			"Exceptional performance across indicators with strong fundamentals and positive forecast"
	case composite > th.Buy:
		return datatypes.CallBuy,
			"Strong overall performance with favorable fundamentals and technical signals"
	case composite > th.Hold:
		return datatypes.CallHold,
			"Mixed signals suggest maintaining current position"
	case composite > th.Sell:
		return datatypes.CallSell,
			"Weakness across indicators suggests reducing exposure"
	default:
		return datatypes.CallStrongSell,
			"Multiple negative indicators and significant risks"
	}
}

// confidence is the distance from the neutral midpoint, normalized to
// [0,1]. A composite of exactly 0.5 yields zero confidence.
func confidence(composite float64) float64 {
	return clamp01(math.Abs(composite-datatypes.NeutralScore) / datatypes.NeutralScore)
}

func riskTier(quant *datatypes.QuantSnapshot, riskFactorCount int) datatypes.RiskTier {
	if quant != nil {
		switch {
		case quant.Volatility > volVeryHigh:
			return datatypes.RiskVeryHigh
		case quant.Volatility > volHigh:
			return datatypes.RiskHigh
		case quant.Volatility > volMedium:
			return datatypes.RiskMedium
		default:
			return datatypes.RiskLow
		}
	}
	switch {
	case riskFactorCount >= 5:
		return datatypes.RiskVeryHigh
	case riskFactorCount >= 3:
		return datatypes.RiskHigh
	case riskFactorCount >= 1:
		return datatypes.RiskMedium
	default:
		return datatypes.RiskLow
	}
}

func horizon(composite float64, tier datatypes.RiskTier) string {
	switch {
	case composite > 0.65 && (tier == datatypes.RiskLow || tier == datatypes.RiskMedium):
		return "Long-term (1+ years)"
	case composite > 0.5:
		return "Medium-term (3-12 months)"
	default:
		return "Short-term or avoid"
	}
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
