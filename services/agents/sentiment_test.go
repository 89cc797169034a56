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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianAnalyst/services/marketdata"
	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

type stubNews struct {
	headlines []marketdata.Headline
	err       error
}

func (s *stubNews) News(ctx context.Context, ticker string, limit int) ([]marketdata.Headline, error) {
	return s.headlines, s.err
}

// =============================================================================
// scoreHeadline TESTS
// =============================================================================

func TestScoreHeadline(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{
			name: "one net positive hit",
			text: "Company reports strong quarter",
			want: 0.6,
		},
		{
			name: "multiple positive hits capped",
			text: "strong growth profit gain beat positive upgrade surge",
			want: 0.9,
		},
		{
			name: "one net negative hit",
			text: "Revenue decline worries investors",
			want: 0.4,
		},
		{
			name: "multiple negative hits floored",
			text: "weak loss decline fall miss negative downgrade concern",
			want: 0.1,
		},
		{
			name: "balanced hits are neutral",
			text: "strong results despite weak guidance",
			want: 0.5,
		},
		{
			name: "no keyword hits",
			text: "Company announces annual shareholder meeting",
			want: 0.5,
		},
		{
			name: "matching is case insensitive",
			text: "STRONG GROWTH expected",
			want: 0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, scoreHeadline(tt.text), 1e-9)
		})
	}
}

// =============================================================================
// SentimentAgent TESTS
// =============================================================================

func TestSentimentAgent_Aggregation(t *testing.T) {
	agent := &SentimentAgent{Provider: &stubNews{headlines: []marketdata.Headline{
		{Title: "Strong growth reported", Summary: ""},       // 0.7 positive
		{Title: "Shares fall on weak outlook", Summary: ""},  // 0.3 negative
		{Title: "Board meets next week", Summary: ""},        // 0.5 neutral
		{Title: "Analysts upgrade after beat", Summary: ""},  // 0.7 positive
	}}}

	payload, err := agent.Run(context.Background(), "AAPL")
	require.NoError(t, err)
	snapshot := payload.(*datatypes.SentimentSnapshot)

	assert.Equal(t, 4, snapshot.TotalArticles)
	assert.Equal(t, 2, snapshot.PositiveCount)
	assert.Equal(t, 1, snapshot.NegativeCount)
	assert.Equal(t, 1, snapshot.NeutralCount)
	assert.InDelta(t, (0.7+0.3+0.5+0.7)/4, snapshot.Score, 1e-9)
	assert.Equal(t, "neutral", snapshot.Overall)
}

func TestSentimentAgent_OverallClassification(t *testing.T) {
	tests := []struct {
		name      string
		headlines []marketdata.Headline
		want      string
	}{
		{
			name: "positive coverage",
			headlines: []marketdata.Headline{
				{Title: "strong growth profit"},
				{Title: "upgrade surge beat"},
			},
			want: "positive",
		},
		{
			name: "negative coverage",
			headlines: []marketdata.Headline{
				{Title: "weak loss decline"},
				{Title: "downgrade miss concern"},
			},
			want: "negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := &SentimentAgent{Provider: &stubNews{headlines: tt.headlines}}
			payload, err := agent.Run(context.Background(), "AAPL")
			require.NoError(t, err)
			assert.Equal(t, tt.want, payload.(*datatypes.SentimentSnapshot).Overall)
		})
	}
}

func TestSentimentAgent_NoCoverageIsNeutral(t *testing.T) {
	agent := &SentimentAgent{Provider: &stubNews{}}

	payload, err := agent.Run(context.Background(), "OBSCURE")
	require.NoError(t, err)
	snapshot := payload.(*datatypes.SentimentSnapshot)

	assert.Equal(t, 0, snapshot.TotalArticles)
	assert.Equal(t, datatypes.NeutralScore, snapshot.Score)
	assert.Equal(t, "neutral", snapshot.Overall)
}

func TestSentimentAgent_ProviderError(t *testing.T) {
	agent := &SentimentAgent{Provider: &stubNews{err: errors.New("rate limited")}}

	_, err := agent.Run(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "news fetch failed")
}
