// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backtest

import (
	"math"
	"sync"

	"github.com/dshan12/Momentum-Research/dataframe"
	"github.com/dshan12/Momentum-Research/signals"
	"github.com/rs/zerolog/log"
)

// SweepRow is the outcome of one lookback variant in a robustness sweep
type SweepRow struct {
	Lookback int     `json:"lookback"`
	Summary  Summary `json:"summary"`
	Err      error   `json:"-"`
}

// SweepLookbacks reruns the full strategy for each lookback. Runs are
// independent and stateless with respect to each other, so they execute
// concurrently; results come back in lookback order.
func SweepLookbacks(prices, members *dataframe.DataFrame, cfg Config, lookbacks []int) []SweepRow {
	rows := make([]SweepRow, len(lookbacks))

	var wg sync.WaitGroup
	for idx, lookback := range lookbacks {
		wg.Add(1)
		go func(idx, lookback int) {
			defer wg.Done()

			runCfg := cfg
			runCfg.Lookback = lookback
			result, err := Run(prices, members, runCfg)

			rows[idx] = SweepRow{Lookback: lookback, Err: err}
			if err != nil {
				log.Error().Err(err).Int("Lookback", lookback).Msg("sweep run failed")
				return
			}
			rows[idx].Summary = result.Summary
		}(idx, lookback)
	}
	wg.Wait()

	return rows
}

// CostRow is the outcome of one cost assumption in a transaction-cost
// sensitivity table
type CostRow struct {
	CostBps float64 `json:"costBps"`
	Summary Summary `json:"summary"`
}

// CostSensitivity recomputes the net return series and its statistics for
// each cost level on the grid, reusing a single gross/turnover computation
func CostSensitivity(gross, turnover *dataframe.DataFrame, grid []float64, rfAnnual float64) []CostRow {
	rows := make([]CostRow, 0, len(grid))
	for _, bps := range grid {
		net := NetOfCosts(gross, turnover, bps)
		rows = append(rows, CostRow{
			CostBps: bps,
			Summary: Summarize(net.Vals[0], turnover.Vals[0], rfAnnual),
		})
	}
	return rows
}

// FlatCostNet is the simplified alternative cost model: a flat per-name
// charge of two one-way costs spread over the active cross-section,
// 2 * tc * namesTraded / namesActive. It is an alternative to the
// turnover-proportional model, never applied on top of it.
func FlatCostNet(gross *dataframe.DataFrame, sig signals.Signals, masked *dataframe.DataFrame, tc float64) *dataframe.DataFrame {
	namesTraded := sig.Longs.Count(func(x float64) bool { return x > 0 })
	shortCount := sig.Shorts.Count(func(x float64) bool { return x > 0 })
	namesActive := masked.Count(func(x float64) bool { return !math.IsNaN(x) })

	net := &dataframe.DataFrame{
		Dates:    gross.Dates,
		ColNames: []string{"strategy_net_flat"},
		Vals:     [][]float64{make([]float64, gross.Len())},
	}

	for rowIdx := range gross.Dates {
		cost := 0.0
		if active := namesActive.Vals[0][rowIdx]; active > 0 {
			traded := namesTraded.Vals[0][rowIdx] + shortCount.Vals[0][rowIdx]
			cost = 2 * tc * traded / active
		}
		net.Vals[0][rowIdx] = gross.Vals[0][rowIdx] - cost
	}

	return net
}
