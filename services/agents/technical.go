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

	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

const (
	technicalLookbackDays = 365
	rsiPeriod             = 14
	rsiOverbought         = 70
	rsiOversold           = 30
)

// TechnicalAgent computes moving averages, RSI, trend classification and
// annualized volatility from one year of daily closes.
type TechnicalAgent struct {
	Provider HistoryProvider
}

func (a *TechnicalAgent) Name() datatypes.TaskName { return datatypes.TaskTechnical }

func (a *TechnicalAgent) Run(ctx context.Context, symbol string) (datatypes.TaskPayload, error) {
	history, err := a.Provider.History(ctx, symbol, technicalLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("history fetch failed: %w", err)
	}
	closes := history.Closes()
	if len(closes) < 50 {
		return nil, datatypes.DataUnavailable("only %d sessions of history for %s, need 50", len(closes), symbol)
	}

	currentPrice := closes[len(closes)-1]
	sma20 := sma(closes, 20)
	sma50 := sma(closes, 50)
	currentRSI := rsi(closes, rsiPeriod)

	var sma200 *float64
	if len(closes) >= 200 {
		v := sma(closes, 200)
		sma200 = &v
	}

	trend := classifyTrend(currentPrice, sma20, sma50, sma200)
	volatility := annualizedVolatility(dailyReturns(closes))

	return &datatypes.TechnicalSnapshot{
		Symbol:       symbol,
		CurrentPrice: currentPrice,
		RSI:          currentRSI,
		SMA20:        sma20,
		SMA50:        sma50,
		SMA200:       sma200,
		Trend:        trend,
		Volatility:   volatility,
		Signals:      generateSignals(currentRSI, trend),
	}, nil
}

// classifyTrend grades price action against the moving averages. The
// 200-day average upgrades a plain trend to its strong variant.
func classifyTrend(price, sma20, sma50 float64, sma200 *float64) datatypes.Trend {
	switch {
	case price > sma50 && sma20 > sma50:
		if sma200 != nil && sma50 > *sma200 {
			return datatypes.TrendStrongUp
		}
		return datatypes.TrendUp
	case price < sma50 && sma20 < sma50:
		if sma200 != nil && sma50 < *sma200 {
			return datatypes.TrendStrongDown
		}
		return datatypes.TrendDown
	default:
		return datatypes.TrendNeutral
	}
}

func generateSignals(currentRSI float64, trend datatypes.Trend) []string {
	var signals []string
	if currentRSI > rsiOverbought {
		signals = append(signals, "RSI Overbought")
	} else if currentRSI < rsiOversold {
		signals = append(signals, "RSI Oversold - Buy Signal")
	}
	if trend.Bullish() {
		signals = append(signals, "Bullish Trend")
	} else if trend.Bearish() {
		signals = append(signals, "Bearish Trend")
	}
	return signals
}
