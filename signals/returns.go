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

	"github.com/dshan12/Momentum-Research/dataframe"
)

// ReturnOptions control outlier filtering and cross-sectional winsorization
// of the return panel
type ReturnOptions struct {
	// OutlierLogThreshold nulls any return whose absolute log return
	// exceeds the threshold; unadjusted splits and bad ticks show up as
	// implausibly large log returns
	OutlierLogThreshold float64

	// WinsorLow / WinsorHigh are the quantile bounds extreme returns are
	// clipped to within each date's cross-section
	WinsorLow  float64
	WinsorHigh float64

	// MinWinsorN skips winsorization on dates with fewer non-missing
	// observations; percentile estimates from thin cross-sections are
	// unreliable
	MinWinsorN int
}

func DefaultReturnOptions() ReturnOptions {
	return ReturnOptions{
		OutlierLogThreshold: 1.5,
		WinsorLow:           0.01,
		WinsorHigh:          0.99,
		MinWinsorN:          50,
	}
}

// Returns converts a masked price panel to simple period returns, nulls
// implausible observations, and winsorizes each date's cross-section. A
// missing price at t-1 yields a missing return at t; returns never skip
// ahead over masked gaps.
func Returns(masked *dataframe.DataFrame, opts ReturnOptions) *dataframe.DataFrame {
	rets := dataframe.New(masked.Dates, masked.ColNames)

	for colIdx := range masked.Vals {
		prices := masked.Vals[colIdx]
		for rowIdx := 1; rowIdx < len(prices); rowIdx++ {
			prev := prices[rowIdx-1]
			cur := prices[rowIdx]
			if math.IsNaN(prev) || math.IsNaN(cur) {
				continue
			}

			r := cur/prev - 1
			if math.Abs(math.Log1p(r)) > opts.OutlierLogThreshold {
				continue
			}
			rets.Vals[colIdx][rowIdx] = r
		}
	}

	for rowIdx := range rets.Dates {
		winsorizeRow(rets, rowIdx, opts)
	}

	return rets
}

// winsorizeRow clips the cross-section at rowIdx to its [low, high] quantile
// bounds in place; a no-op when fewer than MinWinsorN observations exist
func winsorizeRow(rets *dataframe.DataFrame, rowIdx int, opts ReturnOptions) {
	row := rets.Row(rowIdx)

	n := 0
	for _, v := range row {
		if !math.IsNaN(v) {
			n++
		}
	}
	if n < opts.MinWinsorN {
		return
	}

	lo := dataframe.Quantile(row, opts.WinsorLow)
	hi := dataframe.Quantile(row, opts.WinsorHigh)

	for colIdx, v := range row {
		if math.IsNaN(v) {
			continue
		}
		if v < lo {
			rets.Vals[colIdx][rowIdx] = lo
		} else if v > hi {
			rets.Vals[colIdx][rowIdx] = hi
		}
	}
}
