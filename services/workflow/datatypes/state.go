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

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AnalysisState is the single record threaded through one graph execution.
//
// Each run owns its own instance; there is no cross-run shared state, so
// analyses of different symbols can run fully concurrently. Fields are
// append-only per producer: Symbol is set once at entry, each task result
// key is written once, Synthesis and FinalReport are written exactly once,
// and only the improvement node may overwrite Recommendation (bumping its
// revision). The mutex guards the task result map during the concurrent
// fan-out; every other stage runs sequentially and owns the state outright.
type AnalysisState struct {
	RunID     string
	Symbol    string
	StartedAt time.Time

	mu          sync.Mutex
	taskResults map[TaskName]*TaskResult

	Synthesis        *SynthesisResult
	Recommendation   *Recommendation
	Evaluation       *EvaluationVerdict
	ImprovementCount int
	LoopExhausted    bool

	FinalReport *Report
}

// NewAnalysisState creates the state record for one run.
func NewAnalysisState(symbol string) *AnalysisState {
	return &AnalysisState{
		RunID:       uuid.NewString(),
		Symbol:      symbol,
		StartedAt:   time.Now().UTC(),
		taskResults: make(map[TaskName]*TaskResult, len(AllTasks())),
	}
}

// SetTaskResult records the terminal outcome of one branch. Keys are
// write-once: a second write for the same task is a bug in the fan-out and
// is rejected rather than silently overwriting the first result.
func (s *AnalysisState) SetTaskResult(res *TaskResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.taskResults[res.Name]; dup {
		return fmt.Errorf("task result for %q already recorded", res.Name)
	}
	s.taskResults[res.Name] = res
	return nil
}

// TaskResult returns the recorded result for name, or nil if the branch
// has not reported yet.
func (s *AnalysisState) TaskResult(name TaskName) *TaskResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taskResults[name]
}

// TaskResults returns a snapshot copy of the result map.
func (s *AnalysisState) TaskResults() map[TaskName]*TaskResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make(map[TaskName]*TaskResult, len(s.taskResults))
	for k, v := range s.taskResults {
		snap[k] = v
	}
	return snap
}

// Payload returns the structured payload for name when that branch
// succeeded, or nil otherwise.
func (s *AnalysisState) Payload(name TaskName) TaskPayload {
	if r := s.TaskResult(name); r.Succeeded() {
		return r.Payload
	}
	return nil
}

// Market returns the market data payload, or nil when unavailable.
func (s *AnalysisState) Market() *MarketSnapshot {
	p, _ := s.Payload(TaskMarketData).(*MarketSnapshot)
	return p
}

// Technical returns the technical payload, or nil when unavailable.
func (s *AnalysisState) Technical() *TechnicalSnapshot {
	p, _ := s.Payload(TaskTechnical).(*TechnicalSnapshot)
	return p
}

// Quant returns the quantitative payload, or nil when unavailable.
func (s *AnalysisState) Quant() *QuantSnapshot {
	p, _ := s.Payload(TaskQuantitative).(*QuantSnapshot)
	return p
}

// Sentiment returns the sentiment payload, or nil when unavailable.
func (s *AnalysisState) Sentiment() *SentimentSnapshot {
	p, _ := s.Payload(TaskSentiment).(*SentimentSnapshot)
	return p
}

// Sector returns the sector payload, or nil when unavailable.
func (s *AnalysisState) Sector() *SectorProfile {
	p, _ := s.Payload(TaskSector).(*SectorProfile)
	return p
}

// Forecast returns the forecast payload, or nil when unavailable.
func (s *AnalysisState) Forecast() *ForecastOutlook {
	p, _ := s.Payload(TaskForecast).(*ForecastOutlook)
	return p
}

// PerTaskStatus builds the coverage map for the final report. Branches
// with no recorded result (which the barrier prevents in practice) are
// reported as FAILED rather than omitted.
func (s *AnalysisState) PerTaskStatus() map[TaskName]TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	statuses := make(map[TaskName]TaskStatus, len(AllTasks()))
	for _, name := range AllTasks() {
		if r, ok := s.taskResults[name]; ok {
			statuses[name] = r.Status
		} else {
			statuses[name] = TaskFailed
		}
	}
	return statuses
}
