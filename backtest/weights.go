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
	"github.com/dshan12/Momentum-Research/signals"
)

// EqualWeightLongShort converts long/short indicators to target portfolio
// weights: +1/N_long per long name, -1/N_short per short name, then the
// combined vector is renormalized so the absolute weights sum to one. The
// renormalization keeps gross exposure at exactly 1 even when the two sides
// hold different name counts. A side with zero names contributes zero
// weight; a date flat on both sides is all zero.
func EqualWeightLongShort(sig signals.Signals) *dataframe.DataFrame {
	weights := dataframe.New(sig.Longs.Dates, sig.Longs.ColNames)

	for rowIdx := range weights.Dates {
		nLong := 0.0
		nShort := 0.0
		for colIdx := range weights.Vals {
			if sig.Longs.Vals[colIdx][rowIdx] > 0 {
				nLong++
			}
			if sig.Shorts.Vals[colIdx][rowIdx] > 0 {
				nShort++
			}
		}

		for colIdx := range weights.Vals {
			w := 0.0
			if nLong > 0 && sig.Longs.Vals[colIdx][rowIdx] > 0 {
				w += 1.0 / nLong
			}
			if nShort > 0 && sig.Shorts.Vals[colIdx][rowIdx] > 0 {
				w -= 1.0 / nShort
			}
			weights.Vals[colIdx][rowIdx] = w
		}

		normalizeRow(weights, rowIdx)
	}

	return weights
}

// normalizeRow rescales the cross-section at rowIdx so the absolute weights
// sum to one; a zero-sum row stays all zero rather than dividing by zero
func normalizeRow(weights *dataframe.DataFrame, rowIdx int) {
	total := 0.0
	for colIdx := range weights.Vals {
		total += math.Abs(weights.Vals[colIdx][rowIdx])
	}
	if total == 0 {
		return
	}
	for colIdx := range weights.Vals {
		weights.Vals[colIdx][rowIdx] /= total
	}
}
