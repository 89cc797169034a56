// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the shared data model for the analysis workflow:
// the per-run AnalysisState, the task result envelope written by each
// analysis adapter, and the synthesis/recommendation/evaluation/report
// structures threaded between workflow stages.
package datatypes

import (
	"time"
)

// TaskName identifies one branch of the parallel analysis fan-out.
type TaskName string

const (
	TaskMarketData   TaskName = "market_data"
	TaskTechnical    TaskName = "technical"
	TaskQuantitative TaskName = "quantitative"
	TaskSentiment    TaskName = "sentiment"
	TaskSector       TaskName = "sector"

	// TaskForecast is the sixth, materially slower branch. It joins the
	// same barrier as the fast tasks but carries its own timeout.
	TaskForecast TaskName = "forecast"
)

// FastTasks lists the five quick analysis branches, in stable order.
func FastTasks() []TaskName {
	return []TaskName{TaskMarketData, TaskTechnical, TaskQuantitative, TaskSentiment, TaskSector}
}

// AllTasks lists every parallel branch including the forecast.
func AllTasks() []TaskName {
	return append(FastTasks(), TaskForecast)
}

// TaskStatus is the terminal state of a single analysis branch.
type TaskStatus string

const (
	TaskSuccess  TaskStatus = "SUCCESS"
	TaskFailed   TaskStatus = "FAILED"
	TaskTimedOut TaskStatus = "TIMED_OUT"
)

// TaskPayload is implemented by every structured adapter result.
type TaskPayload interface {
	Task() TaskName
}

// TaskResult is the envelope written exactly once per branch. A failed or
// timed-out branch carries a nil Payload plus the error classification; the
// synthesis barrier treats both as a definitive terminal state.
type TaskResult struct {
	Name    TaskName      `json:"name"`
	Status  TaskStatus    `json:"status"`
	Payload TaskPayload   `json:"payload,omitempty"`
	ErrKind ErrKind       `json:"err_kind,omitempty"`
	ErrMsg  string        `json:"err_msg,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// Succeeded reports whether the branch produced a usable payload.
func (r *TaskResult) Succeeded() bool {
	return r != nil && r.Status == TaskSuccess && r.Payload != nil
}

// --- Adapter payloads ---

// MarketSnapshot holds fundamentals for one symbol. Ratio fields are
// pointers because providers routinely omit them (new listings, negative
// earnings, missing filings).
type MarketSnapshot struct {
	Symbol          string   `json:"symbol"`
	CompanyName     string   `json:"company_name"`
	CurrentPrice    float64  `json:"current_price"`
	MarketCap       float64  `json:"market_cap"`
	PERatio         *float64 `json:"pe_ratio,omitempty"`
	ForwardPE       *float64 `json:"forward_pe,omitempty"`
	PriceToBook     *float64 `json:"pb_ratio,omitempty"`
	DividendYield   *float64 `json:"dividend_yield,omitempty"`
	Beta            *float64 `json:"beta,omitempty"`
	RevenueGrowth   *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth  *float64 `json:"earnings_growth,omitempty"`
	ProfitMargin    *float64 `json:"profit_margin,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	DebtToEquity    *float64 `json:"debt_to_equity,omitempty"`
	ReturnOnEquity  *float64 `json:"return_on_equity,omitempty"`
}

func (*MarketSnapshot) Task() TaskName { return TaskMarketData }

// TechnicalSnapshot holds the indicator set computed from daily closes.
type TechnicalSnapshot struct {
	Symbol       string   `json:"symbol"`
	CurrentPrice float64  `json:"current_price"`
	RSI          float64  `json:"rsi"`
	SMA20        float64  `json:"sma_20"`
	SMA50        float64  `json:"sma_50"`
	SMA200       *float64 `json:"sma_200,omitempty"` // nil when history < 200 sessions
	Trend        Trend    `json:"trend"`
	Volatility   float64  `json:"volatility"` // annualized
	Signals      []string `json:"signals"`
}

func (*TechnicalSnapshot) Task() TaskName { return TaskTechnical }

// Trend classifies price action relative to the moving averages.
type Trend string

const (
	TrendStrongUp   Trend = "strong_uptrend"
	TrendUp         Trend = "uptrend"
	TrendNeutral    Trend = "neutral"
	TrendDown       Trend = "downtrend"
	TrendStrongDown Trend = "strong_downtrend"
)

// Bullish reports whether the trend is an uptrend of any strength.
func (t Trend) Bullish() bool { return t == TrendUp || t == TrendStrongUp }

// Bearish reports whether the trend is a downtrend of any strength.
func (t Trend) Bearish() bool { return t == TrendDown || t == TrendStrongDown }

// QuantSnapshot holds the risk metrics derived from the return series.
type QuantSnapshot struct {
	Symbol           string  `json:"symbol"`
	Volatility       float64 `json:"volatility"` // annualized stddev of daily returns
	MaxDrawdown      float64 `json:"max_drawdown"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	AnnualizedReturn float64 `json:"annualized_return"`
	RiskLevel        string  `json:"risk_level"`
}

func (*QuantSnapshot) Task() TaskName { return TaskQuantitative }

// SentimentSnapshot aggregates scored news coverage for the symbol.
type SentimentSnapshot struct {
	Symbol        string  `json:"symbol"`
	TotalArticles int     `json:"total_articles"`
	Score         float64 `json:"score"` // 0..1, 0.5 neutral
	Overall       string  `json:"overall"`
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
	NeutralCount  int     `json:"neutral_count"`
}

func (*SentimentSnapshot) Task() TaskName { return TaskSentiment }

// SectorProfile holds the sector / industry classification of the symbol.
type SectorProfile struct {
	Symbol    string  `json:"symbol"`
	Sector    string  `json:"sector"`
	Industry  string  `json:"industry"`
	Country   string  `json:"country"`
	MarketCap float64 `json:"market_cap"`
}

func (*SectorProfile) Task() TaskName { return TaskSector }

// ForecastOutlook is the point-plus-interval prediction from the time
// series model service.
type ForecastOutlook struct {
	Symbol            string  `json:"symbol"`
	Periods           int     `json:"periods"`
	CurrentPrice      float64 `json:"current_price"`
	ForecastPrice     float64 `json:"forecast_price"`
	LowerBound        float64 `json:"lower_bound"`
	UpperBound        float64 `json:"upper_bound"`
	ExpectedChangePct float64 `json:"expected_change_percent"`
	TrendDirection    string  `json:"trend_direction"` // "bullish" or "bearish"
	Confidence        float64 `json:"confidence"`      // 1 - interval_width/price, clamped to [0,1]
	Interpretation    string  `json:"interpretation"`
}

func (*ForecastOutlook) Task() TaskName { return TaskForecast }
