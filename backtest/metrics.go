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

	"github.com/dshan12/Momentum-Research/dataframe"
	"gonum.org/v1/gonum/stat"
)

const periodsPerYear = 12

// sharpeEpsilon avoids a zero division for degenerate (constant) return
// series
const sharpeEpsilon = 1e-12

// Summary holds the risk/return statistics of one strategy return series
type Summary struct {
	NumPeriods           int     `json:"numPeriods"`
	AnnualizedReturn     float64 `json:"annualizedReturn"`
	AnnualizedVolatility float64 `json:"annualizedVolatility"`
	SharpeRatio          float64 `json:"sharpeRatio"`
	MaxDrawdown          float64 `json:"maxDrawdown"`
	AvgTurnover          float64 `json:"avgTurnover"`
	MedianTurnover       float64 `json:"medianTurnover"`
	TurnoverP95          float64 `json:"turnoverP95"`
}

// dropNaN returns the series without missing observations
func dropNaN(r []float64) []float64 {
	clean := make([]float64, 0, len(r))
	for _, v := range r {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	return clean
}

// AnnualizedReturn compounds the mean monthly return to a yearly rate
func AnnualizedReturn(r []float64) float64 {
	r = dropNaN(r)
	if len(r) == 0 {
		return math.NaN()
	}
	return math.Pow(1+stat.Mean(r, nil), periodsPerYear) - 1
}

// AnnualizedVolatility scales the monthly standard deviation by sqrt(12)
func AnnualizedVolatility(r []float64) float64 {
	r = dropNaN(r)
	if len(r) < 2 {
		return math.NaN()
	}
	return stat.StdDev(r, nil) * math.Sqrt(periodsPerYear)
}

// SharpeRatio computes the annualized Sharpe ratio over monthly excess
// returns; rfAnnual is an annual rate converted to its monthly equivalent
func SharpeRatio(r []float64, rfAnnual float64) float64 {
	r = dropNaN(r)
	if len(r) < 2 {
		return math.NaN()
	}

	rfMonthly := math.Pow(1+rfAnnual, 1.0/periodsPerYear) - 1
	excess := make([]float64, len(r))
	for idx, v := range r {
		excess[idx] = v - rfMonthly
	}

	return stat.Mean(excess, nil) / (stat.StdDev(excess, nil) + sharpeEpsilon) * math.Sqrt(periodsPerYear)
}

// WealthIndex returns the cumulative product of (1+r), the growth of one
// unit of wealth
func WealthIndex(r []float64) []float64 {
	wealth := make([]float64, len(r))
	acc := 1.0
	for idx, v := range r {
		if !math.IsNaN(v) {
			acc *= 1 + v
		}
		wealth[idx] = acc
	}
	return wealth
}

// MaxDrawdown returns the worst peak-to-trough loss of the wealth index as
// a negative fraction
func MaxDrawdown(r []float64) float64 {
	r = dropNaN(r)
	if len(r) == 0 {
		return math.NaN()
	}

	wealth := WealthIndex(r)
	peak := math.Inf(-1)
	maxDD := 0.0
	for _, w := range wealth {
		peak = math.Max(peak, w)
		if dd := w/peak - 1; dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// Summarize computes the full statistics block for a strategy return series
// and its turnover
func Summarize(r []float64, turnover []float64, rfAnnual float64) Summary {
	clean := dropNaN(r)
	to := dropNaN(turnover)

	summary := Summary{
		NumPeriods:           len(clean),
		AnnualizedReturn:     AnnualizedReturn(clean),
		AnnualizedVolatility: AnnualizedVolatility(clean),
		SharpeRatio:          SharpeRatio(clean, rfAnnual),
		MaxDrawdown:          MaxDrawdown(clean),
	}

	if len(to) > 0 {
		summary.AvgTurnover = stat.Mean(to, nil)
		summary.MedianTurnover = dataframe.Quantile(to, 0.5)
		summary.TurnoverP95 = dataframe.Quantile(to, 0.95)
	}

	return summary
}
