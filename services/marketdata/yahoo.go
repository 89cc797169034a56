// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const yahooUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// YahooClient fetches price history and fundamentals from the public
// Yahoo Finance endpoints.
type YahooClient struct {
	HTTPClient HTTPClient
	ChartURL   string
	SummaryURL string
}

// NewYahooClient returns a client with production endpoints and a 30s
// request timeout.
func NewYahooClient() *YahooClient {
	return &YahooClient{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		ChartURL:   "https://query1.finance.yahoo.com/v8/finance/chart",
		SummaryURL: "https://query1.finance.yahoo.com/v10/finance/quoteSummary",
	}
}

// --- Yahoo Finance Structs ---

type YahooChartResponse struct {
	Chart struct {
		Result []YahooResult `json:"result"`
		Error  interface{}   `json:"error"`
	} `json:"chart"`
}

type YahooResult struct {
	Meta       YahooMeta       `json:"meta"`
	Timestamp  []int64         `json:"timestamp"`
	Indicators YahooIndicators `json:"indicators"`
}

type YahooMeta struct {
	Currency string `json:"currency"`
	Symbol   string `json:"symbol"`
}

type YahooIndicators struct {
	Quote []struct {
		Open   []float64 `json:"open"`
		High   []float64 `json:"high"`
		Low    []float64 `json:"low"`
		Close  []float64 `json:"close"`
		Volume []int64   `json:"volume"`
	} `json:"quote"`
	AdjClose []struct {
		AdjClose []float64 `json:"adjclose"`
	} `json:"adjclose"`
}

// yahooValue is Yahoo's {raw, fmt} number wrapper in quoteSummary payloads.
type yahooValue struct {
	Raw *float64 `json:"raw"`
}

type yahooQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				ShortName string     `json:"shortName"`
				MarketCap yahooValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail *struct {
				TrailingPE    yahooValue `json:"trailingPE"`
				ForwardPE     yahooValue `json:"forwardPE"`
				DividendYield yahooValue `json:"dividendYield"`
				Beta          yahooValue `json:"beta"`
			} `json:"summaryDetail"`
			FinancialData *struct {
				CurrentPrice     yahooValue `json:"currentPrice"`
				ProfitMargins    yahooValue `json:"profitMargins"`
				OperatingMargins yahooValue `json:"operatingMargins"`
				RevenueGrowth    yahooValue `json:"revenueGrowth"`
				EarningsGrowth   yahooValue `json:"earningsGrowth"`
				DebtToEquity     yahooValue `json:"debtToEquity"`
				ReturnOnEquity   yahooValue `json:"returnOnEquity"`
			} `json:"financialData"`
			DefaultKeyStatistics *struct {
				PriceToBook yahooValue `json:"priceToBook"`
			} `json:"defaultKeyStatistics"`
			AssetProfile *struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
				Country  string `json:"country"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"quoteSummary"`
}

// History fetches up to lookbackDays of daily candles for the ticker.
func (y *YahooClient) History(ctx context.Context, ticker string, lookbackDays int) (*PriceHistory, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -lookbackDays)

	url := fmt.Sprintf(
		"%s/%s?period1=%d&period2=%d&interval=1d&events=history",
		y.ChartURL, ticker, start.Unix(), end.Unix(),
	)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := y.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Yahoo API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Yahoo API returned status %s", resp.Status)
	}

	var chartData YahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartData); err != nil {
		return nil, fmt.Errorf("failed to decode Yahoo JSON: %w", err)
	}

	if chartData.Chart.Error != nil {
		return nil, fmt.Errorf("Yahoo API error: %v", chartData.Chart.Error)
	}
	if len(chartData.Chart.Result) == 0 {
		return nil, fmt.Errorf("no results for ticker %s", ticker)
	}

	res := chartData.Chart.Result[0]
	if len(res.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("incomplete indicators for ticker %s", ticker)
	}

	quoteData := res.Indicators.Quote[0]
	var adjCloseData []float64
	if len(res.Indicators.AdjClose) > 0 {
		adjCloseData = res.Indicators.AdjClose[0].AdjClose
	}

	history := &PriceHistory{Symbol: ticker}
	for i, ts := range res.Timestamp {
		if len(quoteData.Close) <= i ||
			len(quoteData.Open) <= i ||
			len(quoteData.High) <= i ||
			len(quoteData.Low) <= i ||
			len(quoteData.Volume) <= i {
			continue
		}
		candle := Candle{
			Time:   time.Unix(ts, 0),
			Open:   quoteData.Open[i],
			High:   quoteData.High[i],
			Low:    quoteData.Low[i],
			Close:  quoteData.Close[i],
			Volume: quoteData.Volume[i],
		}
		if len(adjCloseData) > i {
			candle.AdjClose = adjCloseData[i]
		} else {
			candle.AdjClose = candle.Close
		}
		history.Candles = append(history.Candles, candle)
	}

	if len(history.Candles) == 0 {
		return nil, fmt.Errorf("empty price history for ticker %s", ticker)
	}
	return history, nil
}

// Fundamentals fetches the company profile and valuation ratios from the
// quoteSummary endpoint. Missing modules leave the corresponding fields
// nil rather than failing the whole call.
func (y *YahooClient) Fundamentals(ctx context.Context, ticker string) (*Fundamentals, error) {
	url := fmt.Sprintf(
		"%s/%s?modules=price,summaryDetail,financialData,defaultKeyStatistics,assetProfile",
		y.SummaryURL, ticker,
	)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := y.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Yahoo API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Yahoo API returned status %s", resp.Status)
	}

	var summary yahooQuoteSummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("failed to decode Yahoo JSON: %w", err)
	}

	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("Yahoo API error: %v", summary.QuoteSummary.Error)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quote summary for ticker %s", ticker)
	}

	res := summary.QuoteSummary.Result[0]
	f := &Fundamentals{Symbol: ticker}

	if res.Price != nil {
		f.Name = res.Price.ShortName
		if res.Price.MarketCap.Raw != nil {
			f.MarketCap = *res.Price.MarketCap.Raw
		}
	}
	if res.SummaryDetail != nil {
		f.TrailingPE = res.SummaryDetail.TrailingPE.Raw
		f.ForwardPE = res.SummaryDetail.ForwardPE.Raw
		f.DividendYield = res.SummaryDetail.DividendYield.Raw
		f.Beta = res.SummaryDetail.Beta.Raw
	}
	if res.FinancialData != nil {
		if res.FinancialData.CurrentPrice.Raw != nil {
			f.CurrentPrice = *res.FinancialData.CurrentPrice.Raw
		}
		f.ProfitMargin = res.FinancialData.ProfitMargins.Raw
		f.OperatingMargin = res.FinancialData.OperatingMargins.Raw
		f.RevenueGrowth = res.FinancialData.RevenueGrowth.Raw
		f.EarningsGrowth = res.FinancialData.EarningsGrowth.Raw
		f.DebtToEquity = res.FinancialData.DebtToEquity.Raw
		f.ReturnOnEquity = res.FinancialData.ReturnOnEquity.Raw
	}
	if res.DefaultKeyStatistics != nil {
		f.PriceToBook = res.DefaultKeyStatistics.PriceToBook.Raw
	}
	if res.AssetProfile != nil {
		f.Sector = res.AssetProfile.Sector
		f.Industry = res.AssetProfile.Industry
		f.Country = res.AssetProfile.Country
	}
	return f, nil
}
