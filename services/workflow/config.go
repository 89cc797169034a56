// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package workflow implements the analysis graph: the fan-out/fan-in of
// the parallel analysis branches, the synthesis and recommendation nodes,
// the evaluator-driven quality gate with its bounded improvement loop, and
// the terminal insight stage that assembles the final report.
package workflow

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

// CallThresholds maps composite score ranges to directional calls. The
// bands are half-open: composite > StrongBuy yields STRONG BUY, and so on
// down to STRONG SELL below the Sell bound.
type CallThresholds struct {
	StrongBuy float64 `yaml:"strong_buy" validate:"gt=0,lt=1"`
	Buy       float64 `yaml:"buy" validate:"gt=0,lt=1"`
	Hold      float64 `yaml:"hold" validate:"gt=0,lt=1"`
	Sell      float64 `yaml:"sell" validate:"gt=0,lt=1"`
}

// Config tunes one engine instance. Weights and thresholds are exposed as
// configuration rather than hard-coded so product can re-tune the scoring
// without a code change; the test suite pins the defaults.
type Config struct {
	// MaxImprovements bounds the improvement loop. Zero disables the loop
	// entirely (an IMPROVE verdict proceeds straight to insight).
	MaxImprovements int `yaml:"max_improvements" validate:"gte=0,lte=10"`

	// Weights are the nominal composite weights per analysis branch.
	// Weights of failed branches are redistributed proportionally among
	// the successful ones at synthesis time.
	Weights map[datatypes.TaskName]float64 `yaml:"weights" validate:"required"`

	Thresholds CallThresholds `yaml:"thresholds"`

	// FastTaskTimeout applies to the five quick branches; the forecast
	// branch gets its own, longer budget. Evaluator and insight calls are
	// external LLM services and carry separate budgets as well.
	FastTaskTimeout  time.Duration `yaml:"fast_task_timeout" validate:"gt=0"`
	ForecastTimeout  time.Duration `yaml:"forecast_timeout" validate:"gt=0"`
	EvaluatorTimeout time.Duration `yaml:"evaluator_timeout" validate:"gt=0"`
	InsightTimeout   time.Duration `yaml:"insight_timeout" validate:"gt=0"`
}

// DefaultConfig returns the production defaults. Weights follow the
// original product tuning (fundamentals and forecast dominate); thresholds
// match the five-band call mapping pinned by the recommendation tests.
func DefaultConfig() Config {
	return Config{
		MaxImprovements: 2,
		Weights: map[datatypes.TaskName]float64{
			datatypes.TaskMarketData:   0.25,
			datatypes.TaskTechnical:    0.20,
			datatypes.TaskQuantitative: 0.10,
			datatypes.TaskSentiment:    0.15,
			datatypes.TaskSector:       0.05,
			datatypes.TaskForecast:     0.25,
		},
		Thresholds: CallThresholds{
			StrongBuy: 0.70,
			Buy:       0.60,
			Hold:      0.45,
			Sell:      0.35,
		},
		FastTaskTimeout:  10 * time.Second,
		ForecastTimeout:  90 * time.Second,
		EvaluatorTimeout: 30 * time.Second,
		InsightTimeout:   30 * time.Second,
	}
}

var validate = validator.New()

// Validate rejects a malformed config before any graph execution starts.
// All failures are configuration errors: the caller gets a rejection with
// no partial state.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return datatypes.NewConfigurationError("invalid workflow config: %v", err)
	}

	if c.Thresholds.StrongBuy <= c.Thresholds.Buy ||
		c.Thresholds.Buy <= c.Thresholds.Hold ||
		c.Thresholds.Hold <= c.Thresholds.Sell {
		return datatypes.NewConfigurationError(
			"call thresholds must be strictly descending (strong_buy > buy > hold > sell)")
	}

	sum := 0.0
	for _, name := range datatypes.AllTasks() {
		w, ok := c.Weights[name]
		if !ok {
			return datatypes.NewConfigurationError("missing weight for task %q", name)
		}
		if w < 0 {
			return datatypes.NewConfigurationError("weight for task %q is negative", name)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return datatypes.NewConfigurationError("task weights must sum to 1.0, got %.6f", sum)
	}
	return nil
}

// TaskTimeout returns the per-branch budget for name.
func (c *Config) TaskTimeout(name datatypes.TaskName) time.Duration {
	if name == datatypes.TaskForecast {
		return c.ForecastTimeout
	}
	return c.FastTaskTimeout
}
