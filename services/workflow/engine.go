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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/AleutianAnalyst/pkg/validation"
	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

// TaskAdapter wraps one external analysis capability. Adapters read the
// symbol, produce a payload, and share no mutable state with each other.
// The engine applies the per-branch timeout; adapters just honor ctx.
type TaskAdapter interface {
	Name() datatypes.TaskName
	Run(ctx context.Context, symbol string) (datatypes.TaskPayload, error)
}

// Evaluator scores the recommendation + synthesis. It is backed by an
// external model and treated as untrusted: errors and timeouts are
// absorbed by a fallback verdict, never retried.
type Evaluator interface {
	Evaluate(ctx context.Context, state *datatypes.AnalysisState) (*datatypes.EvaluationVerdict, error)
}

// InsightGenerator produces the free-text summary for the final report.
// On failure the engine substitutes a templated report built purely from
// structured fields.
type InsightGenerator interface {
	Generate(ctx context.Context, state *datatypes.AnalysisState) (string, error)
}

// Stage enumerates the graph's sequential states. The dispatch loop in
// RunAnalysis is driven by this enum so the termination bound is visible
// in one switch statement: the only backward edge is EVALUATE <- IMPROVE,
// taken at most MaxImprovements times.
type Stage int

const (
	StageFanOut Stage = iota
	StageSynthesize
	StageRecommend
	StageEvaluate
	StageImprove
	StageInsight
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageFanOut:
		return "fan_out"
	case StageSynthesize:
		return "synthesize"
	case StageRecommend:
		return "recommend"
	case StageEvaluate:
		return "evaluate"
	case StageImprove:
		return "improve"
	case StageInsight:
		return "insight"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// StageObserver receives per-stage timings. The orchestrator service plugs
// its Prometheus metrics in here; the zero value observer is a no-op.
type StageObserver interface {
	ObserveStage(stage Stage, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveStage(Stage, time.Duration) {}

// Engine owns one compiled analysis graph. It is safe for concurrent use:
// every run gets its own AnalysisState and the engine itself holds only
// immutable configuration and stateless collaborators.
type Engine struct {
	cfg       Config
	adapters  []TaskAdapter
	evaluator Evaluator
	insights  InsightGenerator
	reviser   Reviser
	observer  StageObserver
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithReviser swaps the improvement strategy (default RuleBasedReviser).
func WithReviser(r Reviser) EngineOption {
	return func(e *Engine) { e.reviser = r }
}

// WithStageObserver registers a per-stage timing sink.
func WithStageObserver(o StageObserver) EngineOption {
	return func(e *Engine) { e.observer = o }
}

// NewEngine validates the configuration and wiring up front. Any problem
// here is a configuration error: the caller gets a rejection before any
// graph execution can start.
func NewEngine(cfg Config, adapters []TaskAdapter, evaluator Evaluator, insights InsightGenerator, opts ...EngineOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if evaluator == nil {
		return nil, datatypes.NewConfigurationError("evaluator is required")
	}
	if insights == nil {
		return nil, datatypes.NewConfigurationError("insight generator is required")
	}
	seen := make(map[datatypes.TaskName]bool, len(adapters))
	for _, a := range adapters {
		if seen[a.Name()] {
			return nil, datatypes.NewConfigurationError("duplicate adapter for task %q", a.Name())
		}
		seen[a.Name()] = true
	}
	for _, name := range datatypes.AllTasks() {
		if !seen[name] {
			return nil, datatypes.NewConfigurationError("no adapter registered for task %q", name)
		}
	}

	e := &Engine{
		cfg:       cfg,
		adapters:  adapters,
		evaluator: evaluator,
		insights:  insights,
		reviser:   RuleBasedReviser{},
		observer:  noopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// RunAnalysis executes the full graph for one symbol and returns the final
// report. It is synchronous from the caller's perspective but fans the six
// analysis branches out concurrently. Individual branch failures degrade
// the report; only an invalid symbol rejects the run outright.
func (e *Engine) RunAnalysis(ctx context.Context, symbol string) (*datatypes.Report, error) {
	safeSymbol, err := validation.SanitizeTicker(symbol)
	if err != nil {
		return nil, datatypes.NewConfigurationError("invalid symbol: %v", err)
	}

	state := datatypes.NewAnalysisState(safeSymbol)
	log := slog.With("run_id", state.RunID, "symbol", safeSymbol)
	log.Info("Starting analysis run", "max_improvements", e.cfg.MaxImprovements)

	stage := StageFanOut
	for stage != StageDone {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("analysis cancelled at stage %s: %w", stage, err)
		}
		started := time.Now()
		next := e.dispatch(ctx, stage, state, log)
		e.observer.ObserveStage(stage, time.Since(started))
		stage = next
	}

	log.Info("Analysis run complete",
		"call", state.FinalReport.Recommendation.Call,
		"composite", state.FinalReport.Synthesis.Composite,
		"improvements", state.ImprovementCount,
		"duration", state.FinalReport.Duration)
	return state.FinalReport, nil
}

// dispatch executes one stage and returns the next. All edges are
// unconditional except the quality gate out of EVALUATE.
func (e *Engine) dispatch(ctx context.Context, stage Stage, state *datatypes.AnalysisState, log *slog.Logger) Stage {
	switch stage {
	case StageFanOut:
		e.fanOut(ctx, state, log)
		return StageSynthesize

	case StageSynthesize:
		state.Synthesis = Synthesize(state, &e.cfg)
		log.Info("Synthesis complete",
			"composite", state.Synthesis.Composite,
			"contributors", len(state.Synthesis.Contributors),
			"unavailable", len(state.Synthesis.Unavailable))
		return StageRecommend

	case StageRecommend:
		state.Recommendation = Recommend(state.Synthesis, state.Quant(), &e.cfg)
		log.Info("Recommendation derived",
			"call", state.Recommendation.Call,
			"confidence", state.Recommendation.Confidence,
			"risk_tier", state.Recommendation.RiskTier)
		return StageEvaluate

	case StageEvaluate:
		state.Evaluation = e.evaluate(ctx, state, log)
		decision, exhausted := DecideGate(state.Evaluation, state.ImprovementCount, e.cfg.MaxImprovements)
		if exhausted {
			state.LoopExhausted = true
			log.Warn("Improvement loop exhausted, proceeding with unverified recommendation",
				"improvement_count", state.ImprovementCount)
		}
		if decision == GateImprove {
			return StageImprove
		}
		return StageInsight

	case StageImprove:
		e.improve(state, log)
		return StageEvaluate

	case StageInsight:
		e.insight(ctx, state, log)
		return StageDone

	default:
		// Unreachable with a well-formed stage sequence.
		log.Error("Dispatch reached invalid stage", "stage", stage)
		return StageDone
	}
}

// fanOut runs the five fast branches plus the forecast branch concurrently
// and blocks until every branch has a terminal result. This is the only
// join point in the graph. A branch timing out or failing is recorded and
// absorbed; it neither cancels the siblings nor aborts the run.
func (e *Engine) fanOut(ctx context.Context, state *datatypes.AnalysisState, log *slog.Logger) {
	var g errgroup.Group
	for _, adapter := range e.adapters {
		g.Go(func() error {
			res := e.runBranch(ctx, adapter, state.Symbol, log)
			if err := state.SetTaskResult(res); err != nil {
				log.Error("Dropping duplicate task result", "task", res.Name, "error", err)
			}
			return nil
		})
	}
	// Branches never return errors; Wait is purely the barrier.
	_ = g.Wait()
}

// runBranch applies the per-branch timeout and converts the outcome into
// the TaskResult envelope. No adapter-level retries: a branch either
// succeeds or definitively fails within its budget.
func (e *Engine) runBranch(ctx context.Context, adapter TaskAdapter, symbol string, log *slog.Logger) *datatypes.TaskResult {
	name := adapter.Name()
	timeout := e.cfg.TaskTimeout(name)
	branchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	payload, err := adapter.Run(branchCtx, symbol)
	elapsed := time.Since(started)

	res := &datatypes.TaskResult{Name: name, Elapsed: elapsed}
	switch {
	case err == nil && payload != nil:
		res.Status = datatypes.TaskSuccess
		res.Payload = payload
		log.Info("Task complete", "task", name, "elapsed", elapsed)
	case errors.Is(err, context.DeadlineExceeded) || branchCtx.Err() != nil:
		res.Status = datatypes.TaskTimedOut
		res.ErrKind = datatypes.ErrKindAdapterTimeout
		res.ErrMsg = fmt.Sprintf("exceeded %s budget", timeout)
		log.Warn("Task timed out", "task", name, "timeout", timeout)
	default:
		if err == nil {
			err = fmt.Errorf("adapter returned no payload")
		}
		res.Status = datatypes.TaskFailed
		res.ErrKind = datatypes.ClassifyAdapterError(err)
		res.ErrMsg = err.Error()
		log.Warn("Task failed", "task", name, "kind", res.ErrKind, "error", err)
	}
	return res
}

// evaluate calls the external evaluator under its own budget and absorbs
// any failure into the deterministic PASS-with-warning fallback so the
// graph always terminates.
func (e *Engine) evaluate(ctx context.Context, state *datatypes.AnalysisState, log *slog.Logger) *datatypes.EvaluationVerdict {
	evalCtx, cancel := context.WithTimeout(ctx, e.cfg.EvaluatorTimeout)
	defer cancel()

	verdict, err := e.evaluator.Evaluate(evalCtx, state)
	if err != nil || verdict == nil {
		reason := "empty verdict"
		if err != nil {
			reason = err.Error()
		}
		log.Warn("Evaluator unavailable, substituting fallback verdict",
			"kind", datatypes.ErrKindEvaluatorUnavailable, "error", reason)
		return datatypes.FallbackVerdict(reason)
	}
	log.Info("Evaluation received",
		"verdict", verdict.Verdict,
		"quality", verdict.QualityScore,
		"feedback_items", len(verdict.Feedback))
	return verdict
}

// improve runs one pass of the improvement node. The counter increments
// unconditionally: a failed revision attempt still consumes a loop slot,
// which keeps the termination bound independent of reviser behavior.
func (e *Engine) improve(state *datatypes.AnalysisState, log *slog.Logger) {
	state.ImprovementCount++

	prior := state.Recommendation
	revised, err := e.reviser.Revise(prior, state.Evaluation)
	if err == nil {
		err = ValidateRevision(prior, revised, &e.cfg)
	}
	if err != nil {
		log.Warn("Revision rejected, keeping prior recommendation",
			"improvement_count", state.ImprovementCount, "error", err)
		return
	}
	state.Recommendation = revised
	log.Info("Recommendation revised",
		"improvement_count", state.ImprovementCount,
		"revision", revised.Revision,
		"confidence", revised.Confidence)
}

// insight runs the terminal stage: generate (or fall back to a templated)
// summary and assemble the final report. It always completes.
func (e *Engine) insight(ctx context.Context, state *datatypes.AnalysisState, log *slog.Logger) {
	insightCtx, cancel := context.WithTimeout(ctx, e.cfg.InsightTimeout)
	defer cancel()

	degraded := false
	text, err := e.insights.Generate(insightCtx, state)
	if err != nil || text == "" {
		reason := "empty insight"
		if err != nil {
			reason = err.Error()
		}
		log.Warn("Insight generation unavailable, using templated report",
			"kind", datatypes.ErrKindInsightUnavailable, "error", reason)
		text = TemplatedInsight(state)
		degraded = true
	}

	state.FinalReport = &datatypes.Report{
		RunID:                state.RunID,
		Symbol:               state.Symbol,
		Recommendation:       state.Recommendation,
		Synthesis:            state.Synthesis.Summary(),
		FinalVerdict:         state.Evaluation,
		ImprovementCount:     state.ImprovementCount,
		InsightText:          text,
		PerTaskStatus:        state.PerTaskStatus(),
		EvaluationUnverified: state.Evaluation != nil && state.Evaluation.Unverified,
		LoopExhausted:        state.LoopExhausted,
		InsightDegraded:      degraded,
		GeneratedAt:          time.Now().UTC(),
		Duration:             time.Since(state.StartedAt),
	}
}
