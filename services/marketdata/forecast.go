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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ForecastClient calls the local timeseries model service. The service is
// the slow dependency of a run: a cold model can take over a minute, so
// callers own the timeout via ctx.
type ForecastClient struct {
	HTTPClient HTTPClient
	BaseURL    string
	Model      string
}

// NewForecastClient builds a client from FORECAST_SERVICE_URL and
// FORECAST_MODEL.
func NewForecastClient() *ForecastClient {
	baseURL := os.Getenv("FORECAST_SERVICE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8002"
	}
	model := os.Getenv("FORECAST_MODEL")
	if model == "" {
		model = "chronos"
	}
	return &ForecastClient{
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
		BaseURL:    baseURL,
		Model:      model,
	}
}

// Forecast requests a horizonSize-step forecast conditioned on the given
// close series.
func (f *ForecastClient) Forecast(ctx context.Context, ticker string, recentData []float64, horizonSize int) (*ForecastResult, error) {
	payload := map[string]interface{}{
		"name":                 ticker,
		"context_period_size":  len(recentData),
		"forecast_period_size": horizonSize,
		"model":                f.Model,
	}
	if len(recentData) > 0 {
		payload["recent_data"] = recentData
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal forecast request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", f.BaseURL+"/v1/timeseries/forecast", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call forecast service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("forecast error status %d: %s", resp.StatusCode, string(body))
	}

	var result ForecastResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode forecast response: %w", err)
	}
	if len(result.Forecast) == 0 {
		return nil, fmt.Errorf("empty forecast received")
	}
	return &result, nil
}
