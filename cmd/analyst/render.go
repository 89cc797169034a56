// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

// renderReport formats the final report for terminal output.
func renderReport(report *datatypes.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== Analysis Report: %s ===\n", report.Symbol)
	fmt.Fprintf(&b, "Run ID:   %s\n", report.RunID)
	fmt.Fprintf(&b, "Duration: %s\n\n", report.Duration)

	if rec := report.Recommendation; rec != nil {
		fmt.Fprintf(&b, "Recommendation: %s\n", rec.Call)
		fmt.Fprintf(&b, "Confidence:     %.0f%%\n", rec.Confidence*100)
		fmt.Fprintf(&b, "Risk Tier:      %s\n", rec.RiskTier)
		fmt.Fprintf(&b, "Composite:      %.2f\n", rec.CompositeScore)
		fmt.Fprintf(&b, "Horizon:        %s\n", rec.Horizon)
		if rec.Revision > 0 {
			fmt.Fprintf(&b, "Revisions:      %d\n", rec.Revision)
		}
	}

	fmt.Fprintf(&b, "\nBranch Coverage (%d/%d contributed):\n",
		len(report.Synthesis.Contributors), len(datatypes.AllTasks()))
	for _, name := range datatypes.AllTasks() {
		status := report.PerTaskStatus[name]
		marker := "ok"
		if status != datatypes.TaskSuccess {
			marker = strings.ToLower(string(status))
		}
		if score, ok := report.Synthesis.SubScores[name]; ok {
			fmt.Fprintf(&b, "  %-14s %-10s score %.2f\n", name, marker, score)
		} else {
			fmt.Fprintf(&b, "  %-14s %s\n", name, marker)
		}
	}

	if verdict := report.FinalVerdict; verdict != nil {
		fmt.Fprintf(&b, "\nEvaluation: %s (quality %.2f)", verdict.Verdict, verdict.QualityScore)
		if report.EvaluationUnverified {
			b.WriteString(" [unverified: evaluator unavailable]")
		}
		b.WriteString("\n")
	}
	if report.ImprovementCount > 0 {
		fmt.Fprintf(&b, "Improvement passes: %d", report.ImprovementCount)
		if report.LoopExhausted {
			b.WriteString(" (loop exhausted)")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n--- Insight ---\n")
	if report.InsightDegraded {
		b.WriteString("(generated from structured data; insight model unavailable)\n")
	}
	b.WriteString(report.InsightText)
	if !strings.HasSuffix(report.InsightText, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}
