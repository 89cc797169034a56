// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package marketdata provides the provider clients the analysis adapters
// pull from: Yahoo Finance for price history and fundamentals, Alpha
// Vantage for news coverage, and the local timeseries service for model
// forecasts. Every client takes an injectable HTTPClient for testing.
package marketdata

import (
	"net/http"
	"time"
)

// HTTPClient interface allows injecting mock HTTP clients for testing
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Candle is one daily bar of price history.
type Candle struct {
	Time     time.Time `json:"time"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
	Volume   int64     `json:"volume"`
}

// PriceHistory is the daily series for one symbol, oldest first.
type PriceHistory struct {
	Symbol  string   `json:"symbol"`
	Candles []Candle `json:"candles"`
}

// Closes returns the close prices in chronological order.
func (h *PriceHistory) Closes() []float64 {
	out := make([]float64, len(h.Candles))
	for i, c := range h.Candles {
		out[i] = c.Close
	}
	return out
}

// LastClose returns the most recent close, or 0 when the series is empty.
func (h *PriceHistory) LastClose() float64 {
	if len(h.Candles) == 0 {
		return 0
	}
	return h.Candles[len(h.Candles)-1].Close
}

// Fundamentals holds company profile and valuation ratios for one symbol.
// Ratio fields are pointers because providers routinely omit them.
type Fundamentals struct {
	Symbol          string   `json:"symbol"`
	Name            string   `json:"name"`
	Sector          string   `json:"sector"`
	Industry        string   `json:"industry"`
	Country         string   `json:"country"`
	CurrentPrice    float64  `json:"current_price"`
	MarketCap       float64  `json:"market_cap"`
	TrailingPE      *float64 `json:"trailing_pe,omitempty"`
	ForwardPE       *float64 `json:"forward_pe,omitempty"`
	PriceToBook     *float64 `json:"price_to_book,omitempty"`
	DividendYield   *float64 `json:"dividend_yield,omitempty"`
	Beta            *float64 `json:"beta,omitempty"`
	ProfitMargin    *float64 `json:"profit_margin,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	RevenueGrowth   *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth  *float64 `json:"earnings_growth,omitempty"`
	DebtToEquity    *float64 `json:"debt_to_equity,omitempty"`
	ReturnOnEquity  *float64 `json:"return_on_equity,omitempty"`
}

// Headline is one scored news item from the sentiment provider.
type Headline struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// ForecastResult is the timeseries service response: a point forecast per
// horizon step, with optional interval bounds.
type ForecastResult struct {
	Name     string    `json:"name"`
	Forecast []float64 `json:"forecast"`
	Lower    []float64 `json:"lower,omitempty"`
	Upper    []float64 `json:"upper,omitempty"`
	Message  string    `json:"message"`
}
