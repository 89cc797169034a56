// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package agents implements the analysis branches of the workflow. Each
// agent wraps one capability (fundamentals, indicators, risk metrics, news
// sentiment, sector profile, model forecast) behind the workflow adapter
// interface, plus the LLM-backed evaluator and insight generator.
package agents

import (
	"context"

	"github.com/AleutianAI/AleutianAnalyst/services/marketdata"
)

// HistoryProvider supplies daily price history.
type HistoryProvider interface {
	History(ctx context.Context, ticker string, lookbackDays int) (*marketdata.PriceHistory, error)
}

// FundamentalsProvider supplies company profile and valuation ratios.
type FundamentalsProvider interface {
	Fundamentals(ctx context.Context, ticker string) (*marketdata.Fundamentals, error)
}

// NewsProvider supplies recent headlines for a symbol.
type NewsProvider interface {
	News(ctx context.Context, ticker string, limit int) ([]marketdata.Headline, error)
}

// Forecaster supplies model forecasts conditioned on a close series.
type Forecaster interface {
	Forecast(ctx context.Context, ticker string, recentData []float64, horizonSize int) (*marketdata.ForecastResult, error)
}
