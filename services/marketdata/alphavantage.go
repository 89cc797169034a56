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
	"net/url"
	"os"
	"strings"
	"time"
)

// avTimeLayout is Alpha Vantage's compact timestamp, e.g. "20250830T143000".
const avTimeLayout = "20060102T150405"

// AlphaVantageClient fetches news coverage from the Alpha Vantage
// NEWS_SENTIMENT endpoint.
type AlphaVantageClient struct {
	HTTPClient HTTPClient
	BaseURL    string
	apiKey     string
}

// NewAlphaVantageClient builds a client from ALPHAVANTAGE_API_KEY, with a
// secret-file fallback for container deployments.
func NewAlphaVantageClient() (*AlphaVantageClient, error) {
	apiKey := os.Getenv("ALPHAVANTAGE_API_KEY")
	if apiKey == "" {
		apiKeyBytes, err := os.ReadFile("/run/secrets/alphavantage_api_key")
		if err != nil {
			return nil, fmt.Errorf("ALPHAVANTAGE_API_KEY environment variable not set")
		}
		apiKey = strings.TrimSpace(string(apiKeyBytes))
	}
	return &AlphaVantageClient{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		BaseURL:    "https://www.alphavantage.co/query",
		apiKey:     apiKey,
	}, nil
}

type avNewsResponse struct {
	Feed []struct {
		Title         string `json:"title"`
		Summary       string `json:"summary"`
		Source        string `json:"source"`
		TimePublished string `json:"time_published"`
	} `json:"feed"`
	Note        string `json:"Note"`
	Information string `json:"Information"`
}

// News fetches up to limit recent headlines mentioning the ticker.
func (a *AlphaVantageClient) News(ctx context.Context, ticker string, limit int) ([]Headline, error) {
	if limit <= 0 {
		limit = 50
	}

	q := url.Values{}
	q.Set("function", "NEWS_SENTIMENT")
	q.Set("tickers", ticker)
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("apikey", a.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", a.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Alpha Vantage API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Alpha Vantage API returned status %s", resp.Status)
	}

	var news avNewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&news); err != nil {
		return nil, fmt.Errorf("failed to decode Alpha Vantage JSON: %w", err)
	}

	// Rate-limit and bad-key responses come back as 200 with a note body.
	if news.Note != "" {
		return nil, fmt.Errorf("Alpha Vantage rate limited: %s", news.Note)
	}
	if len(news.Feed) == 0 && news.Information != "" {
		return nil, fmt.Errorf("Alpha Vantage error: %s", news.Information)
	}

	headlines := make([]Headline, 0, len(news.Feed))
	for _, item := range news.Feed {
		h := Headline{
			Title:   item.Title,
			Summary: item.Summary,
			Source:  item.Source,
		}
		if t, err := time.Parse(avTimeLayout, item.TimePublished); err == nil {
			h.PublishedAt = t
		}
		headlines = append(headlines, h)
	}
	return headlines, nil
}
