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

// Verdict is the quality gate input produced by the evaluator.
type Verdict string

const (
	VerdictPass    Verdict = "PASS"
	VerdictImprove Verdict = "IMPROVE"
)

// EvaluationVerdict is the structured output of the evaluator adapter.
// The evaluator is an untrusted external model: when it times out or
// returns garbage the workflow substitutes a PASS verdict with Unverified
// set, so the graph always terminates.
type EvaluationVerdict struct {
	Verdict      Verdict  `json:"verdict"`
	QualityScore float64  `json:"quality_score"`
	Feedback     []string `json:"feedback"` // improvement areas
	Strengths    []string `json:"strengths"`
	Explanation  string   `json:"explanation"`

	// Unverified marks a fallback verdict substituted after an evaluator
	// failure or timeout. It propagates into the report metadata.
	Unverified bool `json:"unverified"`
}

// FallbackVerdict is the deterministic PASS-with-warning substituted when
// the evaluator is unavailable.
func FallbackVerdict(reason string) *EvaluationVerdict {
	return &EvaluationVerdict{
		Verdict:      VerdictPass,
		QualityScore: NeutralScore,
		Explanation:  "evaluation unavailable: " + reason,
		Unverified:   true,
	}
}
