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
	"github.com/rs/zerolog/log"
)

// DriftWeights compounds a weight vector by one period of realized returns
// and renormalizes by total absolute post-drift weight: a name with a large
// return mechanically gains portfolio weight before the next rebalance
// forces it back to target. NaN returns are treated as zero drift. When the
// post-drift weights sum to zero the un-normalized vector is returned.
func DriftWeights(weights, rets []float64) []float64 {
	drifted := make([]float64, len(weights))
	total := 0.0
	for idx, w := range weights {
		r := 0.0
		if idx < len(rets) && !math.IsNaN(rets[idx]) {
			r = rets[idx]
		}
		drifted[idx] = w * (1.0 + r)
		total += math.Abs(drifted[idx])
	}

	if total == 0 || math.IsNaN(total) {
		return drifted
	}

	for idx := range drifted {
		drifted[idx] /= total
	}
	return drifted
}

// Turnover computes, for every date, half the sum of absolute differences
// between the newly targeted weights and the prior period's weights after
// drifting them by realized returns. The first date has no prior weights
// and is defined as zero turnover. Values are bounded by [0, 2].
func Turnover(weights, rets *dataframe.DataFrame) *dataframe.DataFrame {
	if err := weights.AlignCheck(rets); err != nil {
		log.Panic().Err(err).Msg("cannot compute turnover with misaligned weight and return panels")
	}

	turnover := &dataframe.DataFrame{
		Dates:    weights.Dates,
		ColNames: []string{"turnover"},
		Vals:     [][]float64{make([]float64, weights.Len())},
	}

	retCols := make([]int, weights.ColCount())
	for colIdx, colName := range weights.ColNames {
		retCols[colIdx] = rets.ColIndex(colName)
	}

	prevWeights := make([]float64, weights.ColCount())
	prevRets := make([]float64, weights.ColCount())

	for rowIdx := range weights.Dates {
		if rowIdx == 0 {
			turnover.Vals[0][rowIdx] = 0
		} else {
			drifted := DriftWeights(prevWeights, prevRets)
			to := 0.0
			for colIdx := range weights.Vals {
				to += math.Abs(weights.Vals[colIdx][rowIdx] - drifted[colIdx])
			}
			turnover.Vals[0][rowIdx] = 0.5 * to
		}

		for colIdx := range weights.Vals {
			prevWeights[colIdx] = weights.Vals[colIdx][rowIdx]
			prevRets[colIdx] = math.NaN()
			if retCols[colIdx] != -1 {
				prevRets[colIdx] = rets.Vals[retCols[colIdx]][rowIdx]
			}
		}
	}

	return turnover
}
