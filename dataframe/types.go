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
	"errors"
	"math"
	"time"
)

// DataFrame stores a panel of values organized by date. Vals is column
// major - e.g.,
//
//	AAPL  MSFT
//	1     4
//	2     5
//	3     6
//
// Vals[0] = [1, 2, 3]
// Vals[1] = [4, 5, 6]
//
// Missing observations are NaN. Dates are chronological and deduplicated.
type DataFrame struct {
	Dates    []time.Time
	ColNames []string
	Vals     [][]float64
}

// Frequency selects a subset of dates when resampling a dataframe
type Frequency string

const (
	Daily      Frequency = "Daily"
	MonthBegin Frequency = "MonthBegin"
	MonthEnd   Frequency = "MonthEnd"
	Monthly    Frequency = "MonthEnd"
)

var (
	ErrDateIndexNotAligned = errors.New("date index does not align")
	ErrColumnsNotAligned   = errors.New("column space does not align")
)

// New creates an empty dataframe over the given dates with one all-NaN
// column per name
func New(dates []time.Time, colNames []string) *DataFrame {
	vals := make([][]float64, len(colNames))
	for colIdx := range vals {
		vals[colIdx] = make([]float64, len(dates))
		for rowIdx := range vals[colIdx] {
			vals[colIdx][rowIdx] = math.NaN()
		}
	}
	return &DataFrame{
		Dates:    dates,
		ColNames: colNames,
		Vals:     vals,
	}
}
