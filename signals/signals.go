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
	"github.com/rs/zerolog/log"
)

// Signals holds long/short membership indicators (1/0) over the same
// coordinate space as the rank panel they were derived from
type Signals struct {
	Longs  *dataframe.DataFrame
	Shorts *dataframe.DataFrame
}

// Build thresholds percentile ranks into long/short indicators: rank >=
// longQ goes long, rank <= shortQ goes short. Any date where either side
// has fewer than minNames candidates is zeroed on both sides; the strategy
// stands flat rather than trade a too-thin cross-section.
func Build(ranks *dataframe.DataFrame, longQ, shortQ float64, minNames int) Signals {
	longs := dataframe.New(ranks.Dates, ranks.ColNames)
	shorts := dataframe.New(ranks.Dates, ranks.ColNames)

	nFlat := 0
	for rowIdx := range ranks.Dates {
		nLong := 0
		nShort := 0
		for colIdx := range ranks.Vals {
			longs.Vals[colIdx][rowIdx] = 0
			shorts.Vals[colIdx][rowIdx] = 0

			v := ranks.Vals[colIdx][rowIdx]
			if math.IsNaN(v) {
				continue
			}
			if v >= longQ {
				longs.Vals[colIdx][rowIdx] = 1
				nLong++
			}
			if v <= shortQ {
				shorts.Vals[colIdx][rowIdx] = 1
				nShort++
			}
		}

		if nLong < minNames || nShort < minNames {
			for colIdx := range ranks.Vals {
				longs.Vals[colIdx][rowIdx] = 0
				shorts.Vals[colIdx][rowIdx] = 0
			}
			nFlat++
		}
	}

	if nFlat > 0 {
		log.Debug().Int("NumFlatDates", nFlat).Int("MinNames", minNames).Msg("thin cross-sections zeroed")
	}

	return Signals{
		Longs:  longs,
		Shorts: shorts,
	}
}
