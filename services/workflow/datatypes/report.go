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

import "time"

// Report is the terminal output of one analysis run: everything a UI or
// API caller needs to render the result, including which branches degraded.
// PerTaskStatus is always populated so callers can flag missing sections;
// the workflow never returns a silently incomplete report.
type Report struct {
	RunID  string `json:"run_id"`
	Symbol string `json:"symbol"`

	Recommendation   *Recommendation    `json:"recommendation"`
	Synthesis        SynthesisSummary   `json:"synthesis_summary"`
	FinalVerdict     *EvaluationVerdict `json:"evaluation_verdict_final"`
	ImprovementCount int                `json:"improvement_count"`
	InsightText      string             `json:"insight_text"`

	PerTaskStatus map[TaskName]TaskStatus `json:"per_task_status"`

	// EvaluationUnverified is set when the final verdict is a fallback
	// substituted after an evaluator failure.
	EvaluationUnverified bool `json:"evaluation_unverified"`

	// LoopExhausted is set when the improvement bound was hit and the run
	// proceeded with a recommendation the evaluator still wanted improved.
	LoopExhausted bool `json:"loop_exhausted"`

	// InsightDegraded is set when InsightText came from the deterministic
	// template instead of the insight model.
	InsightDegraded bool `json:"insight_degraded"`

	GeneratedAt time.Time     `json:"generated_at"`
	Duration    time.Duration `json:"duration"`
}

// DegradedTasks lists the branches that did not contribute, in the stable
// AllTasks order.
func (r *Report) DegradedTasks() []TaskName {
	var degraded []TaskName
	for _, name := range AllTasks() {
		if r.PerTaskStatus[name] != TaskSuccess {
			degraded = append(degraded, name)
		}
	}
	return degraded
}
