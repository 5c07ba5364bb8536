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

// Package backtest simulates a long/short equal-weight cross-sectional
// momentum strategy over a survivorship-free panel: prices masked by index
// membership, rank-based signals, weight drift between rebalances, and
// turnover-proportional transaction costs.
package backtest

import (
	"encoding/hex"
	"errors"

	"github.com/dshan12/Momentum-Research/dataframe"
	"github.com/dshan12/Momentum-Research/membership"
	"github.com/dshan12/Momentum-Research/signals"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"
)

var (
	ErrNoCommonTickers = errors.New("price and membership panels share no tickers")
)

// Config holds every strategy parameter; all fields have working defaults
type Config struct {
	Lookback       int                   `json:"lookback"`
	Skip           int                   `json:"skip"`
	LongQuantile   float64               `json:"longQuantile"`
	ShortQuantile  float64               `json:"shortQuantile"`
	MinNames       int                   `json:"minNames"`
	CostBps        float64               `json:"costBps"`
	RiskFreeAnnual float64               `json:"riskFreeAnnual"`
	Returns        signals.ReturnOptions `json:"returns"`
}

func DefaultConfig() Config {
	return Config{
		Lookback:       12,
		Skip:           1,
		LongQuantile:   0.9,
		ShortQuantile:  0.1,
		MinNames:       20,
		CostBps:        10,
		RiskFreeAnnual: 0.02,
		Returns:        signals.DefaultReturnOptions(),
	}
}

// Fingerprint returns a stable hash of the configuration, used as a cache
// key component and to identify runs in logs
func (cfg Config) Fingerprint() string {
	data, err := json.Marshal(cfg)
	if err != nil {
		log.Panic().Err(err).Msg("could not marshal backtest config")
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Result is the full output of one backtest run
type Result struct {
	ID           uuid.UUID
	Config       Config
	MaskedPrices *dataframe.DataFrame
	Returns      *dataframe.DataFrame
	Signals      signals.Signals
	Weights      *dataframe.DataFrame
	Turnover     *dataframe.DataFrame
	Gross        *dataframe.DataFrame
	Net          *dataframe.DataFrame
	Summary      Summary
}

// Run executes the complete pipeline over a price panel and a membership
// panel sharing the same period frequency: mask, returns, ranks, signals,
// weights, turnover, and net-of-cost strategy returns
func Run(prices, members *dataframe.DataFrame, cfg Config) (*Result, error) {
	runID := uuid.New()
	subLog := log.With().Str("RunID", runID.String()).Str("ConfigHash", cfg.Fingerprint()[:12]).Logger()

	masked := membership.MaskPrices(prices, members)
	if masked.ColCount() == 0 {
		subLog.Error().Int("NumPriceTickers", prices.ColCount()).Int("NumMemberTickers", members.ColCount()).Msg("no overlap between price and membership panels")
		return nil, ErrNoCommonTickers
	}

	rets := signals.Returns(masked, cfg.Returns)
	ranks := signals.MomentumRanks(masked, cfg.Lookback, cfg.Skip)
	sig := signals.Build(ranks, cfg.LongQuantile, cfg.ShortQuantile, cfg.MinNames)

	weights := EqualWeightLongShort(sig)
	turnover := Turnover(weights, rets)
	gross := weights.Mul(rets).RowSum("strategy_gross")
	net := NetOfCosts(gross, turnover, cfg.CostBps)

	result := &Result{
		ID:           runID,
		Config:       cfg,
		MaskedPrices: masked,
		Returns:      rets,
		Signals:      sig,
		Weights:      weights,
		Turnover:     turnover,
		Gross:        gross,
		Net:          net,
		Summary:      Summarize(net.Vals[0], turnover.Vals[0], cfg.RiskFreeAnnual),
	}

	subLog.Info().
		Int("NumPeriods", result.Summary.NumPeriods).
		Float64("AnnualizedReturn", result.Summary.AnnualizedReturn).
		Float64("SharpeRatio", result.Summary.SharpeRatio).
		Float64("MaxDrawdown", result.Summary.MaxDrawdown).
		Msg("backtest complete")

	return result, nil
}

// NetOfCosts subtracts the proportional transaction cost, turnover times
// the one-way cost rate, from the gross return series
func NetOfCosts(gross, turnover *dataframe.DataFrame, costBps float64) *dataframe.DataFrame {
	if err := gross.AlignCheck(turnover); err != nil {
		log.Panic().Err(err).Msg("cannot apply costs with misaligned gross and turnover series")
	}

	costRate := costBps / 10000.0
	net := &dataframe.DataFrame{
		Dates:    gross.Dates,
		ColNames: []string{"strategy_net"},
		Vals:     [][]float64{make([]float64, gross.Len())},
	}
	for rowIdx := range gross.Dates {
		net.Vals[0][rowIdx] = gross.Vals[0][rowIdx] - turnover.Vals[0][rowIdx]*costRate
	}
	return net
}
