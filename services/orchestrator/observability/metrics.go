// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the analysis
// orchestrator.
//
// # Description
//
// Metrics cover the analysis run lifecycle:
//   - Run counters (by outcome and final call)
//   - Per-stage latency histograms (fan-out, synthesize, evaluate, ...)
//   - Per-task outcome counters (success, failed, timed out)
//   - Improvement loop counters
//   - Active run gauge
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. AnalysisMetrics also
// implements the workflow engine's StageObserver interface, so stage
// timings are recorded without the engine importing Prometheus.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AleutianAI/AleutianAnalyst/services/workflow"
	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

// Namespace for all metrics
const metricsNamespace = "analyst"

// Subsystem for workflow metrics
const workflowSubsystem = "workflow"

// AnalysisMetrics holds all Prometheus metrics for analysis runs.
// Initialize once at startup via InitMetrics().
type AnalysisMetrics struct {
	// RunsTotal counts completed runs.
	// Labels: status (success, rejected, error), call (STRONG BUY .. STRONG SELL, none)
	RunsTotal *prometheus.CounterVec

	// StageDurationSeconds measures per-stage latency.
	// Labels: stage (fan_out, synthesize, recommend, evaluate, improve, insight)
	StageDurationSeconds *prometheus.HistogramVec

	// TaskOutcomesTotal counts branch outcomes per run.
	// Labels: task (market_data, technical, ...), status (SUCCESS, FAILED, TIMED_OUT)
	TaskOutcomesTotal *prometheus.CounterVec

	// ImprovementLoopsTotal counts improvement passes taken.
	ImprovementLoopsTotal prometheus.Counter

	// RunDurationSeconds measures end-to-end run duration.
	// Labels: status (success, error)
	RunDurationSeconds *prometheus.HistogramVec

	// ActiveRuns tracks currently executing analysis runs.
	ActiveRuns prometheus.Gauge
}

// DefaultMetrics is the singleton instance of AnalysisMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *AnalysisMetrics

// InitMetrics creates and registers all Prometheus metrics. Call once at
// application startup; a second call panics on duplicate registration.
func InitMetrics() *AnalysisMetrics {
	DefaultMetrics = &AnalysisMetrics{
		RunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: workflowSubsystem,
				Name:      "runs_total",
				Help:      "Total analysis runs by outcome and final call",
			},
			[]string{"status", "call"},
		),

		StageDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: workflowSubsystem,
				Name:      "stage_duration_seconds",
				Help:      "Per-stage latency of the analysis graph",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
			},
			[]string{"stage"},
		),

		TaskOutcomesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: workflowSubsystem,
				Name:      "task_outcomes_total",
				Help:      "Analysis branch outcomes by task and status",
			},
			[]string{"task", "status"},
		),

		ImprovementLoopsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: workflowSubsystem,
				Name:      "improvement_loops_total",
				Help:      "Total improvement passes taken across all runs",
			},
		),

		RunDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: workflowSubsystem,
				Name:      "run_duration_seconds",
				Help:      "End-to-end analysis run duration",
				Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
			},
			[]string{"status"},
		),

		ActiveRuns: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: workflowSubsystem,
				Name:      "active_runs",
				Help:      "Number of currently executing analysis runs",
			},
		),
	}
	return DefaultMetrics
}

// ObserveStage implements workflow.StageObserver.
func (m *AnalysisMetrics) ObserveStage(stage workflow.Stage, elapsed time.Duration) {
	m.StageDurationSeconds.WithLabelValues(stage.String()).Observe(elapsed.Seconds())
	if stage == workflow.StageImprove {
		m.ImprovementLoopsTotal.Inc()
	}
}

// RecordRun records the terminal outcome of one run.
func (m *AnalysisMetrics) RecordRun(report *datatypes.Report, err error) {
	switch {
	case err != nil && datatypes.IsConfigurationError(err):
		m.RunsTotal.WithLabelValues("rejected", "none").Inc()
	case err != nil:
		m.RunsTotal.WithLabelValues("error", "none").Inc()
	default:
		m.RunsTotal.WithLabelValues("success", string(report.Recommendation.Call)).Inc()
		m.RunDurationSeconds.WithLabelValues("success").Observe(report.Duration.Seconds())
		for task, status := range report.PerTaskStatus {
			m.TaskOutcomesTotal.WithLabelValues(string(task), string(status)).Inc()
		}
	}
}
