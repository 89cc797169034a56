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
	quantLookbackDays = 730
	quantMinSessions  = 60
	riskFreeRate      = 0.02
)

// QuantitativeAgent derives risk metrics from two years of daily returns.
type QuantitativeAgent struct {
	Provider HistoryProvider
}

func (a *QuantitativeAgent) Name() datatypes.TaskName { return datatypes.TaskQuantitative }

func (a *QuantitativeAgent) Run(ctx context.Context, symbol string) (datatypes.TaskPayload, error) {
	history, err := a.Provider.History(ctx, symbol, quantLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("history fetch failed: %w", err)
	}
	closes := history.Closes()
	if len(closes) < quantMinSessions {
		return nil, datatypes.DataUnavailable("only %d sessions of history for %s, need %d",
			len(closes), symbol, quantMinSessions)
	}

	returns := dailyReturns(closes)
	volatility := annualizedVolatility(returns)
	annualized := meanReturn(returns) * tradingDaysPerYear

	sharpe := 0.0
	if volatility > 0 {
		sharpe = (annualized - riskFreeRate) / volatility
	}

	return &datatypes.QuantSnapshot{
		Symbol:           symbol,
		Volatility:       volatility,
		MaxDrawdown:      maxDrawdown(returns),
		SharpeRatio:      sharpe,
		AnnualizedReturn: annualized,
		RiskLevel:        riskLevel(volatility),
	}, nil
}

// riskLevel buckets annualized volatility.
func riskLevel(volatility float64) string {
	switch {
	case volatility > 0.4:
		return "Very High"
	case volatility > 0.3:
		return "High"
	case volatility > 0.2:
		return "Medium"
	case volatility > 0.15:
		return "Low"
	default:
		return "Very Low"
	}
}
