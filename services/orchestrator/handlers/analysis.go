// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the HTTP surface of the analysis
// orchestrator.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianAnalyst/services/orchestrator/observability"
	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

// AnalysisRunner is the workflow engine surface the handler needs.
type AnalysisRunner interface {
	RunAnalysis(ctx context.Context, symbol string) (*datatypes.Report, error)
}

// AnalysisRequest is the body of POST /v1/analysis.
type AnalysisRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// HandleAnalysis runs the full analysis workflow for one symbol.
//
// Responses:
//   - 200 with the final report
//   - 400 for a malformed body or invalid symbol
//   - 500 when the run is cancelled or fails internally
func HandleAnalysis(runner AnalysisRunner, metrics *observability.AnalysisMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		if metrics != nil {
			metrics.ActiveRuns.Inc()
			defer metrics.ActiveRuns.Dec()
		}

		report, err := runner.RunAnalysis(c.Request.Context(), req.Symbol)
		if metrics != nil {
			metrics.RecordRun(report, err)
		}
		if err != nil {
			if datatypes.IsConfigurationError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid symbol", "details": err.Error()})
				return
			}
			slog.Error("Analysis run failed", "symbol", req.Symbol, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, report)
	}
}
