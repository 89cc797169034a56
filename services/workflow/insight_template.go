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
	"strings"

	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

// TemplatedInsight builds the deterministic fallback summary from
// structured state only. It is used whenever the insight model is
// unavailable, so the terminal stage never blocks on the external service.
func TemplatedInsight(state *datatypes.AnalysisState) string {
	rec := state.Recommendation
	syn := state.Synthesis
	if rec == nil || syn == nil {
		return fmt.Sprintf("Analysis of %s could not be completed.", state.Symbol)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recommendation for %s: %s (confidence %.0f%%, risk %s).\n",
		state.Symbol, rec.Call, rec.Confidence*100, rec.RiskTier)
	fmt.Fprintf(&b, "Composite score %.2f from %d of %d analysis branches. %s\n",
		syn.Composite, len(syn.Contributors), len(datatypes.AllTasks()), rec.Rationale)
	fmt.Fprintf(&b, "Suggested horizon: %s.\n", rec.Horizon)

	if len(rec.Strengths) > 0 {
		b.WriteString("\nStrengths:\n")
		for _, s := range rec.Strengths {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}
	if len(rec.Concerns) > 0 {
		b.WriteString("\nConcerns:\n")
		for _, c := range rec.Concerns {
			fmt.Fprintf(&b, "  - %s\n", c)
		}
	}
	if len(syn.Unavailable) > 0 {
		names := make([]string, len(syn.Unavailable))
		for i, t := range syn.Unavailable {
			names[i] = string(t)
		}
		fmt.Fprintf(&b, "\nNote: %s analysis unavailable for this run; coverage is reduced.\n",
			strings.Join(names, ", "))
	}
	return b.String()
}
