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

package membership

import (
	"sort"
	"time"

	"github.com/dshan12/Momentum-Research/dataframe"
)

// MaskPrices nulls every price observation where the ticker was not an index
// member on that exact date. The output covers the price panel's date index
// and the intersection of tickers present in both panels. Dates that do not
// appear in the membership panel mask the whole row; no value is ever
// interpolated or carried across a masking boundary. Masking an already
// masked panel with the same membership is a no-op.
func MaskPrices(prices, membership *dataframe.DataFrame) *dataframe.DataFrame {
	memberCols := make(map[string]int, membership.ColCount())
	for idx, colName := range membership.ColNames {
		memberCols[colName] = idx
	}

	commonTickers := make([]string, 0, prices.ColCount())
	for _, colName := range prices.ColNames {
		if _, ok := memberCols[colName]; ok {
			commonTickers = append(commonTickers, colName)
		}
	}
	sort.Strings(commonTickers)

	memberRows := make(map[time.Time]int, membership.Len())
	for rowIdx, dt := range membership.Dates {
		memberRows[dt] = rowIdx
	}

	masked := dataframe.New(prices.Dates, commonTickers)
	for colIdx, ticker := range commonTickers {
		priceCol := prices.Vals[prices.ColIndex(ticker)]
		memberCol := membership.Vals[memberCols[ticker]]

		for rowIdx, dt := range prices.Dates {
			memberRowIdx, ok := memberRows[dt]
			if !ok || memberCol[memberRowIdx] < 0.5 {
				continue
			}
			// non-positive prices are data errors, left as missing
			if v := priceCol[rowIdx]; v > 0 {
				masked.Vals[colIdx][rowIdx] = v
			}
		}
	}

	return masked
}
