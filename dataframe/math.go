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

package dataframe

import (
	"math"
	"sort"
	"time"

	"github.com/dshan12/Momentum-Research/common"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

// AddScalar adds the scalar value to all columns in dataframe df and returns
// a new dataframe
func (df *DataFrame) AddScalar(scalar float64) *DataFrame {
	df = df.Copy()
	for colIdx := range df.ColNames {
		for rowIdx := range df.Vals[colIdx] {
			df.Vals[colIdx][rowIdx] += scalar
		}
	}
	return df
}

// MulScalar multiplies all columns in dataframe df by the scalar and returns
// a new dataframe
func (df *DataFrame) MulScalar(scalar float64) *DataFrame {
	df = df.Copy()
	for colIdx := range df.ColNames {
		floats.Scale(scalar, df.Vals[colIdx])
	}
	return df
}

// Mul multiplies all columns in dataframe df by the like-named column in
// dataframe other and returns a new dataframe. Columns of df without a match
// in other are filled with NaN. Panics when the date indexes do not align.
func (df *DataFrame) Mul(other *DataFrame) *DataFrame {
	if err := df.AlignCheck(other); err != nil {
		log.Panic().Err(err).Msg("cannot multiply dataframes with misaligned date indexes")
	}

	df = df.Copy()

	otherMap := make(map[string]int, len(other.ColNames))
	for idx, val := range other.ColNames {
		otherMap[val] = idx
	}

	for idx, colName := range df.ColNames {
		if otherIdx, ok := otherMap[colName]; ok {
			floats.Mul(df.Vals[idx], other.Vals[otherIdx])
		} else {
			for rowIdx := range df.Vals[idx] {
				df.Vals[idx][rowIdx] = math.NaN()
			}
		}
	}
	return df
}

// Sub subtracts the like-named column in other from every column in df and
// returns a new dataframe. Columns without a match in other are filled with
// NaN. Panics when the date indexes do not align.
func (df *DataFrame) Sub(other *DataFrame) *DataFrame {
	if err := df.AlignCheck(other); err != nil {
		log.Panic().Err(err).Msg("cannot subtract dataframes with misaligned date indexes")
	}

	df = df.Copy()

	otherMap := make(map[string]int, len(other.ColNames))
	for idx, val := range other.ColNames {
		otherMap[val] = idx
	}

	for idx, colName := range df.ColNames {
		if otherIdx, ok := otherMap[colName]; ok {
			floats.Sub(df.Vals[idx], other.Vals[otherIdx])
		} else {
			for rowIdx := range df.Vals[idx] {
				df.Vals[idx][rowIdx] = math.NaN()
			}
		}
	}
	return df
}

// Quantile computes the q-th quantile of vals using linear interpolation
// between order statistics (the standard percentile definition). NaN entries
// are ignored; returns NaN when no observations remain.
func Quantile(vals []float64, q float64) float64 {
	clean := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return math.NaN()
	}

	sort.Float64s(clean)

	if q <= 0 {
		return clean[0]
	}
	if q >= 1 {
		return clean[len(clean)-1]
	}

	h := q * float64(len(clean)-1)
	lo := int(math.Floor(h))
	frac := h - float64(lo)
	if lo+1 >= len(clean) {
		return clean[lo]
	}
	return clean[lo] + frac*(clean[lo+1]-clean[lo])
}

// Log replaces every value with its natural logarithm and returns a new
// dataframe. Non-positive values become NaN.
func (df *DataFrame) Log() *DataFrame {
	df = df.Copy()
	for colIdx := range df.Vals {
		for rowIdx, v := range df.Vals[colIdx] {
			if v > 0 {
				df.Vals[colIdx][rowIdx] = math.Log(v)
			} else {
				df.Vals[colIdx][rowIdx] = math.NaN()
			}
		}
	}
	return df
}

// Count creates a new single-column dataframe holding, for each date, the
// number of columns where the lambda evaluates to true
func (df *DataFrame) Count(lambda func(x float64) bool) *DataFrame {
	res := &DataFrame{
		Dates:    df.Dates,
		Vals:     [][]float64{make([]float64, df.Len())},
		ColNames: []string{"count"},
	}

	for rowIdx := range df.Dates {
		cnt := 0
		for _, col := range df.Vals {
			if lambda(col[rowIdx]) {
				cnt++
			}
		}
		res.Vals[0][rowIdx] = float64(cnt)
	}

	return res
}

// RowSum creates a new single-column dataframe holding the sum across
// columns for each date; NaN cells contribute zero
func (df *DataFrame) RowSum(name string) *DataFrame {
	res := &DataFrame{
		Dates:    df.Dates,
		Vals:     [][]float64{make([]float64, df.Len())},
		ColNames: []string{name},
	}

	for rowIdx := range df.Dates {
		sum := 0.0
		for _, col := range df.Vals {
			if v := col[rowIdx]; !math.IsNaN(v) {
				sum += v
			}
		}
		res.Vals[0][rowIdx] = sum
	}

	return res
}

// Align trims all dataframes to the maximum common start and minimum common
// end so subsequent operations see one coordinate space
func Align(dfs ...*DataFrame) []*DataFrame {
	var start time.Time
	var end time.Time

	for _, df := range dfs {
		start = common.MaxTime(start, df.Start())
		end = common.MinTime(end, df.End())
	}

	trimmed := make([]*DataFrame, len(dfs))
	for idx, df := range dfs {
		trimmed[idx] = df.Trim(start, end)
	}

	return trimmed
}
