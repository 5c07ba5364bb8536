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

// Package data loads price panels, membership panels, and index change
// events from CSV files or PostgreSQL, and persists pipeline outputs. All
// loaders return fully-aligned panels; the computation core never touches
// I/O.
package data

import (
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dshan12/Momentum-Research/common"
	"github.com/dshan12/Momentum-Research/dataframe"
	"github.com/dshan12/Momentum-Research/membership"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"
)

var dateFormats = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, format := range dateFormats {
		if dt, err := time.Parse(format, s); err == nil {
			return time.Date(dt.Year(), dt.Month(), dt.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", ErrSchema, s)
}

// findColumn locates a header column by any of the candidate names,
// case-insensitively; -1 when absent
func findColumn(header []string, candidates ...string) int {
	for idx, col := range header {
		col = strings.ToLower(strings.TrimSpace(col))
		for _, cand := range candidates {
			if col == cand {
				return idx
			}
		}
	}
	return -1
}

// LoadPrices reads a wide CSV price panel: first column is the date, every
// remaining column is one ticker, cells are positive floats or blank.
// Parsed panels are cached keyed by a hash of the file contents, so
// parameter sweeps re-reading the same panel skip the parse.
func LoadPrices(path string) (*dataframe.DataFrame, error) {
	subLog := log.With().Str("Path", path).Logger()

	raw, err := os.ReadFile(path)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not read price file")
		return nil, err
	}

	sum := blake3.Sum256(raw)
	cacheKey := "prices:" + hex.EncodeToString(sum[:])
	if cached, err := common.CacheGet(cacheKey); err == nil {
		df := &dataframe.DataFrame{}
		if err := json.Unmarshal(cached, df); err == nil {
			subLog.Debug().Msg("price panel loaded from cache")
			return df, nil
		}
	}

	records, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not parse price file")
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: %s has no data rows", ErrSchema, path)
	}

	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: %s has no ticker columns", ErrSchema, path)
	}

	tickers := make([]string, len(header)-1)
	for idx, col := range header[1:] {
		tickers[idx] = membership.NormalizeTicker(col)
	}

	type row struct {
		date time.Time
		vals []float64
	}
	rows := make([]row, 0, len(records)-1)

	for _, record := range records[1:] {
		dt, err := parseDate(record[0])
		if err != nil {
			return nil, err
		}

		vals := make([]float64, len(tickers))
		for idx := range vals {
			vals[idx] = math.NaN()
			if idx+1 >= len(record) {
				continue
			}
			cell := strings.TrimSpace(record[idx+1])
			if cell == "" {
				continue
			}
			// non-positive prices are data errors, treated as missing
			if v, err := strconv.ParseFloat(cell, 64); err == nil && v > 0 {
				vals[idx] = v
			}
		}
		rows = append(rows, row{date: dt, vals: vals})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })
	for idx := 1; idx < len(rows); idx++ {
		if rows[idx].date.Equal(rows[idx-1].date) {
			return nil, fmt.Errorf("%w: %s on %s", ErrDuplicateDate, path, rows[idx].date.Format("2006-01-02"))
		}
	}

	df := &dataframe.DataFrame{
		Dates:    make([]time.Time, len(rows)),
		ColNames: tickers,
		Vals:     make([][]float64, len(tickers)),
	}
	for colIdx := range tickers {
		df.Vals[colIdx] = make([]float64, len(rows))
	}
	for rowIdx, r := range rows {
		df.Dates[rowIdx] = r.date
		for colIdx := range tickers {
			df.Vals[colIdx][rowIdx] = r.vals[colIdx]
		}
	}

	if encoded, err := json.Marshal(df); err == nil {
		if err := common.CacheSet(cacheKey, encoded); err != nil {
			subLog.Warn().Err(err).Msg("could not cache price panel")
		}
	}

	subLog.Info().Int("NumDates", df.Len()).Int("NumTickers", df.ColCount()).Msg("loaded price panel")
	return df, nil
}

// LoadMembership reads a long-format membership CSV with date, ticker, and
// in_index columns and pivots it to a wide boolean panel
func LoadMembership(path string) (*dataframe.DataFrame, error) {
	subLog := log.With().Str("Path", path).Logger()

	fh, err := os.Open(path)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not open membership file")
		return nil, err
	}
	defer fh.Close()

	records, err := csv.NewReader(fh).ReadAll()
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not parse membership file")
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: %s has no data rows", ErrSchema, path)
	}

	header := records[0]
	dateCol := findColumn(header, "date", "month")
	tickerCol := findColumn(header, "ticker", "symbol")
	memberCol := findColumn(header, "in_index", "member", "is_member")
	if dateCol == -1 || tickerCol == -1 || memberCol == -1 {
		return nil, fmt.Errorf("%w: %s requires date, ticker, and in_index columns", ErrSchema, path)
	}

	type cell struct {
		date   time.Time
		ticker string
	}
	seen := make(map[cell]bool)
	dateSet := make(map[time.Time]bool)
	tickerSet := make(map[string]bool)

	for _, record := range records[1:] {
		dt, err := parseDate(record[dateCol])
		if err != nil {
			return nil, err
		}
		ticker := membership.NormalizeTicker(record[tickerCol])
		if ticker == "" {
			continue
		}

		member := false
		if v, err := strconv.ParseFloat(strings.TrimSpace(record[memberCol]), 64); err == nil && v > 0 {
			member = true
		}

		dateSet[dt] = true
		tickerSet[ticker] = true
		if member {
			seen[cell{date: dt, ticker: ticker}] = true
		}
	}

	dates := make([]time.Time, 0, len(dateSet))
	for dt := range dateSet {
		dates = append(dates, dt)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	tickers := make([]string, 0, len(tickerSet))
	for t := range tickerSet {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	df := dataframe.New(dates, tickers)
	for colIdx, ticker := range tickers {
		for rowIdx, dt := range dates {
			df.Vals[colIdx][rowIdx] = 0
			if seen[cell{date: dt, ticker: ticker}] {
				df.Vals[colIdx][rowIdx] = 1
			}
		}
	}

	subLog.Info().Int("NumDates", df.Len()).Int("NumTickers", df.ColCount()).Msg("loaded membership panel")
	return df, nil
}

// LoadChangeEvents reads an index change-history CSV with date, added,
// removed, and optional reason columns. Rows with no extractable tickers
// are parse failures and skipped.
func LoadChangeEvents(path string) ([]membership.ChangeEvent, error) {
	subLog := log.With().Str("Path", path).Logger()

	fh, err := os.Open(path)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not open change history file")
		return nil, err
	}
	defer fh.Close()

	reader := csv.NewReader(fh)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not parse change history file")
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("%w: %s is empty", ErrSchema, path)
	}

	header := records[0]
	dateCol := findColumn(header, "date")
	addedCol := findColumn(header, "added")
	removedCol := findColumn(header, "removed")
	reasonCol := findColumn(header, "reason", "notes", "change", "action")
	if dateCol == -1 || (addedCol == -1 && removedCol == -1) {
		return nil, fmt.Errorf("%w: %s requires date and added/removed columns", ErrSchema, path)
	}

	field := func(record []string, idx int) string {
		if idx == -1 || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	events := make([]membership.ChangeEvent, 0, len(records)-1)
	for _, record := range records[1:] {
		dt, err := parseDate(field(record, dateCol))
		if err != nil {
			continue // unparseable date is a bad row, not a fatal error
		}

		ev, ok := membership.ParseEvent(dt, field(record, addedCol), field(record, removedCol), field(record, reasonCol))
		if !ok {
			continue
		}
		events = append(events, ev)
	}

	subLog.Info().Int("NumEvents", len(events)).Msg("loaded index change events")
	return events, nil
}

// LoadConstituents reads the current constituent list: a CSV with a symbol
// or ticker column
func LoadConstituents(path string) ([]string, error) {
	subLog := log.With().Str("Path", path).Logger()

	fh, err := os.Open(path)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not open constituents file")
		return nil, err
	}
	defer fh.Close()

	records, err := csv.NewReader(fh).ReadAll()
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not parse constituents file")
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: %s has no data rows", ErrSchema, path)
	}

	symbolCol := findColumn(records[0], "symbol", "ticker", "code")
	if symbolCol == -1 {
		return nil, fmt.Errorf("%w: %s requires a symbol column", ErrSchema, path)
	}

	seen := make(map[string]bool)
	tickers := make([]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if symbolCol >= len(record) {
			continue
		}
		if t := membership.NormalizeTicker(record[symbolCol]); t != "" && !seen[t] {
			seen[t] = true
			tickers = append(tickers, t)
		}
	}

	return tickers, nil
}
