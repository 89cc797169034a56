// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

// Call is the directional recommendation derived from the composite score.
type Call string

const (
	CallStrongBuy  Call = "STRONG BUY"
	CallBuy        Call = "BUY"
	CallHold       Call = "HOLD"
	CallSell       Call = "SELL"
	CallStrongSell Call = "STRONG SELL"
)

// Favorable reports whether the call is on the buy side.
func (c Call) Favorable() bool { return c == CallBuy || c == CallStrongBuy }

// Unfavorable reports whether the call is on the sell side.
func (c Call) Unfavorable() bool { return c == CallSell || c == CallStrongSell }

// RiskTier buckets the risk assessment for the recommendation.
type RiskTier string

const (
	RiskLow      RiskTier = "LOW"
	RiskMedium   RiskTier = "MEDIUM"
	RiskHigh     RiskTier = "HIGH"
	RiskVeryHigh RiskTier = "VERY HIGH"
)

// Recommendation is the directional call produced by the recommendation
// node and possibly revised by the improvement loop. Revision counts how
// many times the improvement node overwrote it.
type Recommendation struct {
	Call           Call     `json:"call"`
	Confidence     float64  `json:"confidence"` // distance from neutral, normalized to [0,1]
	RiskTier       RiskTier `json:"risk_tier"`
	CompositeScore float64  `json:"composite_score"`
	Rationale      string   `json:"rationale"`
	Horizon        string   `json:"horizon"`
	Strengths      []string `json:"strengths"`
	Concerns       []string `json:"concerns"`
	Revision       int      `json:"revision"`
}

// Clone returns a deep copy so the improvement node can build a candidate
// revision without touching the committed recommendation.
func (r *Recommendation) Clone() *Recommendation {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Strengths = append([]string(nil), r.Strengths...)
	cp.Concerns = append([]string(nil), r.Concerns...)
	return &cp
}
