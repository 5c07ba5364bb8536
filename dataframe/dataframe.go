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
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
)

// Get index of specified column; returns -1 if column doesn't exist
func (df *DataFrame) ColIndex(colName string) int {
	for idx, val := range df.ColNames {
		if colName == val {
			return idx
		}
	}
	return -1
}

// ColCount returns the number of columns in the dataframe
func (df *DataFrame) ColCount() int {
	return len(df.ColNames)
}

// Len returns the number of rows in the dataframe
func (df *DataFrame) Len() int {
	return len(df.Dates)
}

// Copy creates a copy of the dataframe
func (df *DataFrame) Copy() *DataFrame {
	df2 := &DataFrame{
		Dates:    make([]time.Time, len(df.Dates)),
		ColNames: make([]string, len(df.ColNames)),
		Vals:     make([][]float64, len(df.Vals)),
	}

	copy(df2.Dates, df.Dates)
	copy(df2.ColNames, df.ColNames)

	for idx := range df2.Vals {
		df2.Vals[idx] = make([]float64, len(df.Vals[idx]))
		copy(df2.Vals[idx], df.Vals[idx])
	}

	return df2
}

// Start returns the first date of the dataframe
func (df *DataFrame) Start() time.Time {
	if len(df.Dates) == 0 {
		return time.Time{}
	}
	return df.Dates[0]
}

// End returns the last date of the dataframe
func (df *DataFrame) End() time.Time {
	if len(df.Dates) == 0 {
		return time.Time{}
	}
	return df.Dates[len(df.Dates)-1]
}

// RowIndex returns the row index of the given date; -1 if the date is not
// in the dataframe
func (df *DataFrame) RowIndex(date time.Time) int {
	rowIdx := sort.Search(len(df.Dates), func(i int) bool {
		return !df.Dates[i].Before(date)
	})
	if rowIdx < len(df.Dates) && df.Dates[rowIdx].Equal(date) {
		return rowIdx
	}
	return -1
}

// Row returns a copy of the cross-section at rowIdx, ordered by ColNames
func (df *DataFrame) Row(rowIdx int) []float64 {
	row := make([]float64, len(df.ColNames))
	for colIdx := range df.ColNames {
		row[colIdx] = df.Vals[colIdx][rowIdx]
	}
	return row
}

// SetRow overwrites the cross-section at rowIdx
func (df *DataFrame) SetRow(rowIdx int, vals []float64) {
	if len(vals) != len(df.ColNames) {
		log.Panic().Int("NumValsPassed", len(vals)).Int("NumColumns", len(df.ColNames)).Msg("number of vals passed must equal number of columns")
	}
	for colIdx := range df.ColNames {
		df.Vals[colIdx][rowIdx] = vals[colIdx]
	}
}

// Insert a new column to the end of the dataframe
func (df *DataFrame) Insert(name string, col []float64) *DataFrame {
	if len(df.Dates) != 0 && len(col) != len(df.Dates) {
		log.Panic().Int("NumVals", len(col)).Int("NumRows", len(df.Dates)).Msg("column length must equal number of rows")
	}
	df.ColNames = append(df.ColNames, name)
	df.Vals = append(df.Vals, col)
	return df
}

// InsertRow adds a new row to the dataframe. Date must be after the last date
// in the dataframe and vals must equal the number of columns; panics otherwise
func (df *DataFrame) InsertRow(date time.Time, vals ...float64) *DataFrame {
	if len(df.Dates) != 0 {
		last := df.Dates[len(df.Dates)-1]
		if !last.Before(date) {
			log.Panic().Time("lastDate", last).Time("newDate", date).Msg("newDate must be after lastDate")
		}
	}

	if len(vals) != len(df.ColNames) {
		log.Panic().Int("NumValsPassed", len(vals)).Int("NumColumns", len(df.ColNames)).Msg("number of vals passed must equal number of columns")
	}

	df.Dates = append(df.Dates, date)
	for colIdx := range df.ColNames {
		df.Vals[colIdx] = append(df.Vals[colIdx], vals[colIdx])
	}

	return df
}

// Select returns a new dataframe restricted to the named columns, in the
// given order. Unknown columns are filled with NaN.
func (df *DataFrame) Select(colNames ...string) *DataFrame {
	df2 := New(df.Dates, colNames)
	for idx, colName := range colNames {
		if colIdx := df.ColIndex(colName); colIdx != -1 {
			copy(df2.Vals[idx], df.Vals[colIdx])
		}
	}
	return df2
}

// Shift moves all values forward by n rows, filling vacated rows with NaN,
// and returns a new dataframe
func (df *DataFrame) Shift(n int) *DataFrame {
	df = df.Copy()
	if n <= 0 {
		return df
	}

	prepend := make([]float64, n)
	for idx := range prepend {
		prepend[idx] = math.NaN()
	}

	for idx := range df.Vals {
		l := len(df.Vals[idx])
		df.Vals[idx] = append(prepend, df.Vals[idx]...)[:l] //nolint:makezero
	}
	return df
}

// Frequency returns a dataframe resampled to the requested frequency. Month
// boundaries are determined from the dates actually present in the index, so
// a monthly resample of trading days selects the last trading day of each
// month, not the calendar month end.
func (df *DataFrame) Frequency(frequency Frequency) *DataFrame {
	if frequency == Daily {
		return df.Copy()
	}

	keep := make([]bool, len(df.Dates))
	switch frequency {
	case MonthBegin:
		for idx, dt := range df.Dates {
			if idx == 0 || dt.Month() != df.Dates[idx-1].Month() || dt.Year() != df.Dates[idx-1].Year() {
				keep[idx] = true
			}
		}
	case MonthEnd:
		for idx, dt := range df.Dates {
			if idx == len(df.Dates)-1 || dt.Month() != df.Dates[idx+1].Month() || dt.Year() != df.Dates[idx+1].Year() {
				keep[idx] = true
			}
		}
	default:
		log.Panic().Str("Frequency", string(frequency)).Msg("unknown frequency provided to dataframe frequency function")
	}

	newDates := make([]time.Time, 0, len(df.Dates))
	newVals := make([][]float64, len(df.ColNames))
	for idx, dt := range df.Dates {
		if !keep[idx] {
			continue
		}
		newDates = append(newDates, dt)
		for colIdx := range newVals {
			newVals[colIdx] = append(newVals[colIdx], df.Vals[colIdx][idx])
		}
	}

	return &DataFrame{
		Dates:    newDates,
		ColNames: df.ColNames,
		Vals:     newVals,
	}
}

// Trim the dataframe to the specified date range (inclusive)
func (df *DataFrame) Trim(begin, end time.Time) *DataFrame {
	df2 := &DataFrame{
		ColNames: df.ColNames,
		Dates:    df.Dates,
		Vals:     make([][]float64, len(df.Vals)),
	}

	// requested range is invalid or empty frame
	if end.Before(begin) || df.Len() == 0 {
		df2.Dates = []time.Time{}
		for colIdx := range df2.Vals {
			df2.Vals[colIdx] = []float64{}
		}
		return df2
	}

	// range does not intersect the frame
	if end.Before(df.Dates[0]) || begin.After(df.Dates[len(df.Dates)-1]) {
		df2.Dates = []time.Time{}
		for colIdx := range df2.Vals {
			df2.Vals[colIdx] = []float64{}
		}
		return df2
	}

	beginIdx := sort.Search(len(df.Dates), func(i int) bool {
		return !df.Dates[i].Before(begin)
	})

	endIdx := sort.Search(len(df.Dates), func(i int) bool {
		return df.Dates[i].After(end)
	})

	df2.Dates = df.Dates[beginIdx:endIdx]
	for colIdx, col := range df.Vals {
		df2.Vals[colIdx] = col[beginIdx:endIdx]
	}

	return df2
}

// AlignCheck verifies that other covers the same date index as df; combining
// two panels with silently different coordinate spaces is always a bug
func (df *DataFrame) AlignCheck(other *DataFrame) error {
	if len(df.Dates) != len(other.Dates) {
		return ErrDateIndexNotAligned
	}
	for idx := range df.Dates {
		if !df.Dates[idx].Equal(other.Dates[idx]) {
			return ErrDateIndexNotAligned
		}
	}
	return nil
}

// Table prints an ASCII formatted table to stdout
func (df *DataFrame) Table() string {
	if len(df.Dates) == 0 {
		return "<NO DATA>"
	}

	tableCols := append([]string{"Date"}, df.ColNames...)

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader(tableCols)
	footer := make([]string, len(tableCols))
	footer[0] = "Num Rows"
	footer[1] = fmt.Sprintf("%d", df.Len())
	table.SetFooter(footer)
	table.SetBorder(false)

	for idx, date := range df.Dates {
		row := make([]string, 0, len(df.Vals)+1)
		row = append(row, date.Format("2006-01-02"))
		for _, col := range df.Vals {
			row = append(row, fmt.Sprintf("%.4f", col[idx]))
		}
		table.Append(row)
	}

	table.Render()
	return s.String()
}
