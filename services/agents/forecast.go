// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package agents

import (
	"context"
	"fmt"
	"math"

	"github.com/AleutianAI/AleutianAnalyst/services/marketdata"
	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

const (
	forecastLookbackDays = 730
	forecastMinSessions  = 60
	defaultPeriods       = 30
	maxContextSize       = 252
)

// ForecastAgent is the slow branch: it conditions the timeseries model on
// up to a year of closes and turns the horizon path into an outlook with
// an interval-derived confidence.
type ForecastAgent struct {
	History    HistoryProvider
	Forecaster Forecaster

	// Periods is the forecast horizon in trading days (default 30).
	Periods int
}

func (a *ForecastAgent) Name() datatypes.TaskName { return datatypes.TaskForecast }

func (a *ForecastAgent) Run(ctx context.Context, symbol string) (datatypes.TaskPayload, error) {
	periods := a.Periods
	if periods <= 0 {
		periods = defaultPeriods
	}

	history, err := a.History.History(ctx, symbol, forecastLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("history fetch failed: %w", err)
	}
	closes := history.Closes()
	if len(closes) < forecastMinSessions {
		return nil, datatypes.DataUnavailable("only %d sessions of history for %s, need %d",
			len(closes), symbol, forecastMinSessions)
	}
	if len(closes) > maxContextSize {
		closes = closes[len(closes)-maxContextSize:]
	}

	result, err := a.Forecaster.Forecast(ctx, symbol, closes, periods)
	if err != nil {
		return nil, fmt.Errorf("forecast failed: %w", err)
	}

	currentPrice := closes[len(closes)-1]
	forecastPrice := result.Forecast[len(result.Forecast)-1]

	lower, upper := intervalBounds(result)
	changePct := 0.0
	if currentPrice > 0 {
		changePct = (forecastPrice - currentPrice) / currentPrice * 100
	}

	direction := "bearish"
	if forecastPrice > currentPrice {
		direction = "bullish"
	}

	confidence := 0.0
	if forecastPrice > 0 {
		confidence = 1 - (upper-lower)/forecastPrice
	}
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}

	return &datatypes.ForecastOutlook{
		Symbol:            symbol,
		Periods:           periods,
		CurrentPrice:      currentPrice,
		ForecastPrice:     forecastPrice,
		LowerBound:        lower,
		UpperBound:        upper,
		ExpectedChangePct: changePct,
		TrendDirection:    direction,
		Confidence:        confidence,
		Interpretation:    interpretForecast(changePct, direction, confidence),
	}, nil
}

// intervalBounds takes the terminal interval when the model returns one,
// otherwise falls back to the span of the point forecast path.
func intervalBounds(result *marketdata.ForecastResult) (float64, float64) {
	if len(result.Lower) > 0 && len(result.Upper) > 0 {
		return result.Lower[len(result.Lower)-1], result.Upper[len(result.Upper)-1]
	}
	lower := result.Forecast[0]
	upper := result.Forecast[0]
	for _, v := range result.Forecast {
		if v < lower {
			lower = v
		}
		if v > upper {
			upper = v
		}
	}
	return lower, upper
}

func interpretForecast(changePct float64, direction string, confidence float64) string {
	var confidenceText string
	switch {
	case confidence < 0.5:
		confidenceText = "Low confidence"
	case confidence < 0.7:
		confidenceText = "Moderate confidence"
	default:
		confidenceText = "High confidence"
	}

	var movement string
	switch {
	case math.Abs(changePct) < 2:
		movement = "relatively stable"
	case changePct > 5:
		movement = "significant upward movement"
	case changePct > 2:
		movement = "moderate upward movement"
	case changePct < -5:
		movement = "significant downward movement"
	default:
		movement = "moderate downward movement"
	}

	return fmt.Sprintf("%s forecast predicting %s (%+.1f%%) with %s trend",
		confidenceText, movement, changePct, direction)
}
