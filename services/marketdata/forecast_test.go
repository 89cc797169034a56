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
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockForecast(handler http.HandlerFunc) (*ForecastClient, *httptest.Server) {
	mockServer := httptest.NewServer(handler)
	client := &ForecastClient{
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
		BaseURL:    mockServer.URL,
		Model:      "chronos",
	}
	return client, mockServer
}

func TestForecast_Success(t *testing.T) {
	var captured map[string]interface{}

	client, server := newMockForecast(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/timeseries/forecast", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		fmt.Fprint(w, `{
			"name": "AAPL",
			"forecast": [191.2, 192.0, 192.8, 193.1, 193.9],
			"lower": [188.0, 187.5, 187.0, 186.8, 186.5],
			"upper": [194.0, 195.5, 196.5, 197.2, 198.0],
			"message": "ok"
		}`)
	})
	defer server.Close()

	recentData := []float64{188.0, 189.5, 190.5}
	result, err := client.Forecast(context.Background(), "AAPL", recentData, 5)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", result.Name)
	assert.Len(t, result.Forecast, 5)
	assert.Equal(t, 193.9, result.Forecast[4])
	assert.Len(t, result.Lower, 5)
	assert.Len(t, result.Upper, 5)

	// Request carries the explicit context series and horizon.
	assert.Equal(t, "AAPL", captured["name"])
	assert.Equal(t, "chronos", captured["model"])
	assert.Equal(t, float64(3), captured["context_period_size"])
	assert.Equal(t, float64(5), captured["forecast_period_size"])
	assert.Len(t, captured["recent_data"], 3)
}

func TestForecast_ErrorStatus(t *testing.T) {
	client, server := newMockForecast(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "model loading")
	})
	defer server.Close()

	_, err := client.Forecast(context.Background(), "AAPL", []float64{1, 2, 3}, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
	assert.Contains(t, err.Error(), "model loading")
}

func TestForecast_EmptyForecast(t *testing.T) {
	client, server := newMockForecast(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name": "AAPL", "forecast": [], "message": "no data"}`)
	})
	defer server.Close()

	_, err := client.Forecast(context.Background(), "AAPL", []float64{1, 2, 3}, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty forecast")
}

func TestForecast_ContextCancelled(t *testing.T) {
	client, server := newMockForecast(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{"forecast": [1.0]}`)
	})
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Forecast(ctx, "AAPL", []float64{1, 2, 3}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
