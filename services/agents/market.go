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

// MarketDataAgent produces the fundamentals snapshot for a symbol.
type MarketDataAgent struct {
	Provider FundamentalsProvider
}

func (a *MarketDataAgent) Name() datatypes.TaskName { return datatypes.TaskMarketData }

// Run fetches fundamentals and maps them onto the snapshot payload. A
// symbol with no price at all is treated as data-unavailable rather than
// returning an empty snapshot.
func (a *MarketDataAgent) Run(ctx context.Context, symbol string) (datatypes.TaskPayload, error) {
	f, err := a.Provider.Fundamentals(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fundamentals fetch failed: %w", err)
	}
	if f.CurrentPrice == 0 {
		return nil, datatypes.DataUnavailable("no price data for %s", symbol)
	}
	return &datatypes.MarketSnapshot{
		Symbol:          symbol,
		CompanyName:     f.Name,
		CurrentPrice:    f.CurrentPrice,
		MarketCap:       f.MarketCap,
		PERatio:         f.TrailingPE,
		ForwardPE:       f.ForwardPE,
		PriceToBook:     f.PriceToBook,
		DividendYield:   f.DividendYield,
		Beta:            f.Beta,
		RevenueGrowth:   f.RevenueGrowth,
		EarningsGrowth:  f.EarningsGrowth,
		ProfitMargin:    f.ProfitMargin,
		OperatingMargin: f.OperatingMargin,
		DebtToEquity:    f.DebtToEquity,
		ReturnOnEquity:  f.ReturnOnEquity,
	}, nil
}

// SectorAgent produces the sector / industry classification.
type SectorAgent struct {
	Provider FundamentalsProvider
}

func (a *SectorAgent) Name() datatypes.TaskName { return datatypes.TaskSector }

func (a *SectorAgent) Run(ctx context.Context, symbol string) (datatypes.TaskPayload, error) {
	f, err := a.Provider.Fundamentals(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("profile fetch failed: %w", err)
	}
	if f.Sector == "" && f.Industry == "" {
		return nil, datatypes.DataUnavailable("no sector classification for %s", symbol)
	}
	return &datatypes.SectorProfile{
		Symbol:    symbol,
		Sector:    f.Sector,
		Industry:  f.Industry,
		Country:   f.Country,
		MarketCap: f.MarketCap,
	}, nil
}
