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
	"strings"

	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

const newsFetchLimit = 200

// Keyword lexicon for headline scoring. Deliberately small and directional.
var (
	positiveWords = []string{"strong", "growth", "profit", "gain", "beat", "positive", "upgrade", "surge"}
	negativeWords = []string{"weak", "loss", "decline", "fall", "miss", "negative", "downgrade", "concern"}
)

// SentimentAgent scores recent news coverage with a keyword lexicon and
// aggregates into one sentiment snapshot. No coverage is a valid result,
// not an error: a thinly covered symbol simply scores neutral.
type SentimentAgent struct {
	Provider NewsProvider
}

func (a *SentimentAgent) Name() datatypes.TaskName { return datatypes.TaskSentiment }

func (a *SentimentAgent) Run(ctx context.Context, symbol string) (datatypes.TaskPayload, error) {
	headlines, err := a.Provider.News(ctx, symbol, newsFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("news fetch failed: %w", err)
	}

	snapshot := &datatypes.SentimentSnapshot{
		Symbol:  symbol,
		Score:   datatypes.NeutralScore,
		Overall: "neutral",
	}
	if len(headlines) == 0 {
		return snapshot, nil
	}

	var total float64
	for _, h := range headlines {
		score := scoreHeadline(h.Title + " " + h.Summary)
		total += score
		switch {
		case score > datatypes.NeutralScore:
			snapshot.PositiveCount++
		case score < datatypes.NeutralScore:
			snapshot.NegativeCount++
		default:
			snapshot.NeutralCount++
		}
	}

	snapshot.TotalArticles = len(headlines)
	snapshot.Score = total / float64(len(headlines))
	switch {
	case snapshot.Score > 0.6:
		snapshot.Overall = "positive"
	case snapshot.Score < 0.4:
		snapshot.Overall = "negative"
	}
	return snapshot, nil
}

// scoreHeadline maps keyword hits to a 0..1 score: 0.5 neutral, each net
// positive hit adds 0.1 (capped 0.9), each net negative hit subtracts 0.1
// (floored 0.1).
func scoreHeadline(text string) float64 {
	lower := strings.ToLower(text)
	var pos, neg int
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}

	switch {
	case pos > neg:
		score := 0.5 + float64(pos-neg)*0.1
		if score > 0.9 {
			score = 0.9
		}
		return score
	case neg > pos:
		score := 0.5 - float64(neg-pos)*0.1
		if score < 0.1 {
			score = 0.1
		}
		return score
	default:
		return 0.5
	}
}
