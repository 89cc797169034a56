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
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockAlphaVantage(handler http.HandlerFunc) (*AlphaVantageClient, *httptest.Server) {
	mockServer := httptest.NewServer(handler)
	client := &AlphaVantageClient{
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
		BaseURL:    mockServer.URL,
		apiKey:     "test-key",
	}
	return client, mockServer
}

func TestNews_Success(t *testing.T) {
	client, server := newMockAlphaVantage(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "NEWS_SENTIMENT", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("tickers"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		fmt.Fprint(w, `{
			"feed": [
				{
					"title": "Apple beats earnings estimates",
					"summary": "Strong quarter with record revenue growth.",
					"source": "Newswire",
					"time_published": "20250830T143000"
				},
				{
					"title": "Analysts raise price target",
					"summary": "Upgraded on momentum.",
					"source": "FinDaily",
					"time_published": "20250829T090000"
				}
			]
		}`)
	})
	defer server.Close()

	headlines, err := client.News(context.Background(), "AAPL", 10)
	require.NoError(t, err)
	require.Len(t, headlines, 2)

	assert.Equal(t, "Apple beats earnings estimates", headlines[0].Title)
	assert.Equal(t, "Newswire", headlines[0].Source)
	assert.Equal(t, 2025, headlines[0].PublishedAt.Year())
	assert.Equal(t, time.August, headlines[0].PublishedAt.Month())
}

func TestNews_RateLimited(t *testing.T) {
	client, server := newMockAlphaVantage(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`)
	})
	defer server.Close()

	_, err := client.News(context.Background(), "AAPL", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestNews_NoCoverage(t *testing.T) {
	// Empty feed with no error note is valid: thinly covered symbol.
	client, server := newMockAlphaVantage(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"feed": []}`)
	})
	defer server.Close()

	headlines, err := client.News(context.Background(), "OBSCURE", 10)
	require.NoError(t, err)
	assert.Empty(t, headlines)
}

func TestNews_BadTimestampKeepsHeadline(t *testing.T) {
	client, server := newMockAlphaVantage(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"feed": [{"title": "Untimed story", "summary": "s", "source": "x", "time_published": "not-a-time"}]
		}`)
	})
	defer server.Close()

	headlines, err := client.News(context.Background(), "AAPL", 10)
	require.NoError(t, err)
	require.Len(t, headlines, 1)
	assert.True(t, headlines[0].PublishedAt.IsZero())
}
