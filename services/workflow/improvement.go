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

	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

// confidencePenalty is applied per evaluator feedback item when revising:
// each open improvement area dampens confidence toward neutral.
const confidencePenalty = 0.10

// Reviser amends a recommendation using evaluator feedback. Implementations
// must return a new value and leave the input untouched; the engine
// validates the candidate before committing it and falls back to the prior
// recommendation if the revision is inconsistent.
type Reviser interface {
	Revise(rec *datatypes.Recommendation, verdict *datatypes.EvaluationVerdict) (*datatypes.Recommendation, error)
}

// RuleBasedReviser is the default deterministic reviser. It folds the
// evaluator's improvement areas into the concerns list and dampens
// confidence proportionally to the amount of open feedback. The
// directional call is never changed; it stays a pure function of the
// composite score.
type RuleBasedReviser struct{}

// Revise implements Reviser.
func (RuleBasedReviser) Revise(rec *datatypes.Recommendation, verdict *datatypes.EvaluationVerdict) (*datatypes.Recommendation, error) {
	if rec == nil {
		return nil, fmt.Errorf("no recommendation to revise")
	}
	revised := rec.Clone()
	for _, area := range verdict.Feedback {
		if area == "" {
			continue
		}
		revised.Concerns = appendUnique(revised.Concerns, "Evaluator flagged: "+area)
	}
	penalty := 1.0 - confidencePenalty*float64(len(verdict.Feedback))
	if penalty < 0 {
		penalty = 0
	}
	revised.Confidence = clamp01(rec.Confidence * penalty)
	revised.Revision = rec.Revision + 1
	return revised, nil
}

// ValidateRevision rejects internally inconsistent revisions before they
// are committed to state: confidence must stay in [0,1], the call must
// still match the composite it claims to be derived from, and a revision
// may never raise confidence above the original. An invalid revision is
// treated as an improvement failure and the prior recommendation stands.
func ValidateRevision(prior, revised *datatypes.Recommendation, cfg *Config) error {
	if revised == nil {
		return fmt.Errorf("reviser returned nil recommendation")
	}
	if revised.Confidence < 0 || revised.Confidence > 1 {
		return fmt.Errorf("revised confidence %.3f outside [0,1]", revised.Confidence)
	}
	if revised.Confidence > prior.Confidence {
		return fmt.Errorf("revision raised confidence from %.3f to %.3f",
			prior.Confidence, revised.Confidence)
	}
	expected, _ := mapCall(revised.CompositeScore, &cfg.Thresholds)
	if revised.Call != expected {
		return fmt.Errorf("revised call %q inconsistent with composite %.3f (expected %q)",
			revised.Call, revised.CompositeScore, expected)
	}
	return nil
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
