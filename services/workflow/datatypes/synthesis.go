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

// NeutralScore is the composite sentinel used when no branch contributed.
// Downstream stages map it to a HOLD call rather than erroring out.
const NeutralScore = 0.5

// SynthesisResult is the normalized cross-section of all analysis branches,
// written exactly once after the fan-in barrier.
type SynthesisResult struct {
	// Composite is the weighted aggregate of the contributing sub-scores,
	// in [0,1]. Equals NeutralScore when Contributors is empty.
	Composite float64 `json:"composite"`

	// SubScores holds the normalized per-task scores for tasks that
	// succeeded. Failed tasks have no entry; they are never treated as
	// zero.
	SubScores map[TaskName]float64 `json:"sub_scores"`

	// EffectiveWeights are the renormalized weights actually applied.
	// They always sum to 1.0 over Contributors (within float tolerance).
	EffectiveWeights map[TaskName]float64 `json:"effective_weights"`

	Contributors []TaskName `json:"contributors"`
	Unavailable  []TaskName `json:"unavailable"`

	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	RiskFactors []string `json:"risk_factors"`
}

// Contributed reports whether the named task fed the composite.
func (s *SynthesisResult) Contributed(name TaskName) bool {
	for _, t := range s.Contributors {
		if t == name {
			return true
		}
	}
	return false
}

// SynthesisSummary is the compact form embedded in the final report.
type SynthesisSummary struct {
	Composite    float64              `json:"composite"`
	SubScores    map[TaskName]float64 `json:"sub_scores"`
	Contributors []TaskName           `json:"contributors"`
	Unavailable  []TaskName           `json:"unavailable"`
}

// Summary projects the synthesis into its report form.
func (s *SynthesisResult) Summary() SynthesisSummary {
	return SynthesisSummary{
		Composite:    s.Composite,
		SubScores:    s.SubScores,
		Contributors: s.Contributors,
		Unavailable:  s.Unavailable,
	}
}
