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

package signals

import (
	"math"
	"sort"

	"github.com/dshan12/Momentum-Research/dataframe"
)

// MomentumScores computes the log-price momentum of each name: the log price
// change over the lookback window, lagged by skip periods so the most recent
// not-yet-settled observations never enter the score
func MomentumScores(masked *dataframe.DataFrame, lookback, skip int) *dataframe.DataFrame {
	logPrices := masked.Log()
	scores := logPrices.Shift(skip).Sub(logPrices.Shift(lookback + skip))

	for colIdx := range scores.Vals {
		for rowIdx, v := range scores.Vals[colIdx] {
			if math.IsInf(v, 0) {
				scores.Vals[colIdx][rowIdx] = math.NaN()
			}
		}
	}

	return scores
}

// Rank converts each date's cross-section to percentile ranks in [0, 1]
// over the non-missing entries only. Ties receive their average rank;
// missing values stay missing.
func Rank(scores *dataframe.DataFrame) *dataframe.DataFrame {
	ranks := dataframe.New(scores.Dates, scores.ColNames)

	type entry struct {
		colIdx int
		val    float64
	}

	for rowIdx := range scores.Dates {
		entries := make([]entry, 0, scores.ColCount())
		for colIdx := range scores.Vals {
			if v := scores.Vals[colIdx][rowIdx]; !math.IsNaN(v) {
				entries = append(entries, entry{colIdx: colIdx, val: v})
			}
		}
		if len(entries) == 0 {
			continue
		}

		sort.Slice(entries, func(i, j int) bool {
			return entries[i].val < entries[j].val
		})

		n := float64(len(entries))
		for ii := 0; ii < len(entries); {
			jj := ii
			for jj+1 < len(entries) && entries[jj+1].val == entries[ii].val {
				jj++
			}
			// ranks are 1-based; tied values share the average rank
			avgRank := float64(ii+jj+2) / 2.0
			for kk := ii; kk <= jj; kk++ {
				ranks.Vals[entries[kk].colIdx][rowIdx] = avgRank / n
			}
			ii = jj + 1
		}
	}

	return ranks
}

// MomentumRanks is the composition used by the momentum strategy: score,
// then rank cross-sectionally
func MomentumRanks(masked *dataframe.DataFrame, lookback, skip int) *dataframe.DataFrame {
	return Rank(MomentumScores(masked, lookback, skip))
}
