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

import "github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"

// GateDecision is the outcome of the quality gate, the single conditional
// edge in the graph.
type GateDecision int

const (
	// GateProceed moves to the terminal insight stage.
	GateProceed GateDecision = iota
	// GateImprove loops back through the improvement node and re-evaluates.
	GateImprove
)

// DecideGate is a pure function of the latest verdict and the improvement
// counter. The improvementCount bound is the termination guarantee for the
// whole graph: once it reaches maxImprovements an IMPROVE verdict is
// overridden and the run proceeds with exhausted set, which the report
// surfaces as an unverified-improved recommendation.
func DecideGate(verdict *datatypes.EvaluationVerdict, improvementCount, maxImprovements int) (decision GateDecision, exhausted bool) {
	if verdict == nil || verdict.Verdict == datatypes.VerdictPass {
		return GateProceed, false
	}
	if improvementCount < maxImprovements {
		return GateImprove, false
	}
	return GateProceed, true
}
