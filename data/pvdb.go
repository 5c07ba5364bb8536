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

package data

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/dshan12/Momentum-Research/database"
	"github.com/dshan12/Momentum-Research/dataframe"
	"github.com/dshan12/Momentum-Research/membership"
	"github.com/rs/zerolog/log"
)

// PricesFromDB loads the adjusted close panel from the eod table for the
// requested date range
func PricesFromDB(ctx context.Context, begin, end time.Time) (*dataframe.DataFrame, error) {
	trx, err := database.Trx(ctx)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not begin transaction for price load")
		return nil, err
	}

	rows, err := trx.Query(ctx, "SELECT event_date, ticker, adj_close FROM eod WHERE event_date BETWEEN $1 AND $2 ORDER BY event_date", begin, end)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not query eod prices")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	type obs struct {
		date   time.Time
		ticker string
		price  float64
	}
	observations := make([]obs, 0, 10_000)
	dateSet := make(map[time.Time]bool)
	tickerSet := make(map[string]bool)

	for rows.Next() {
		var o obs
		if err := rows.Scan(&o.date, &o.ticker, &o.price); err != nil {
			log.Error().Stack().Err(err).Msg("could not scan eod row")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return nil, err
		}
		o.date = time.Date(o.date.Year(), o.date.Month(), o.date.Day(), 0, 0, 0, 0, time.UTC)
		o.ticker = membership.NormalizeTicker(o.ticker)
		observations = append(observations, o)
		dateSet[o.date] = true
		tickerSet[o.ticker] = true
	}

	if err := trx.Commit(ctx); err != nil {
		log.Error().Stack().Err(err).Msg("could not commit transaction")
		return nil, err
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
	rowIdx := make(map[time.Time]int, len(dates))
	for idx, dt := range dates {
		rowIdx[dt] = idx
	}
	colIdx := make(map[string]int, len(tickers))
	for idx, t := range tickers {
		colIdx[t] = idx
	}

	for _, o := range observations {
		if o.price > 0 && !math.IsNaN(o.price) {
			df.Vals[colIdx[o.ticker]][rowIdx[o.date]] = o.price
		}
	}

	log.Info().Int("NumDates", df.Len()).Int("NumTickers", df.ColCount()).Msg("loaded price panel from database")
	return df, nil
}

// ChangeEventsFromDB loads the index reconstitution history from the
// index_changes table
func ChangeEventsFromDB(ctx context.Context) ([]membership.ChangeEvent, error) {
	trx, err := database.Trx(ctx)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not begin transaction for change event load")
		return nil, err
	}

	rows, err := trx.Query(ctx, "SELECT event_date, added, removed, reason FROM index_changes ORDER BY event_date")
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not query index changes")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	events := make([]membership.ChangeEvent, 0, 1000)
	for rows.Next() {
		var date time.Time
		var added, removed, reason string
		if err := rows.Scan(&date, &added, &removed, &reason); err != nil {
			log.Error().Stack().Err(err).Msg("could not scan index change row")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return nil, err
		}

		if ev, ok := membership.ParseEvent(date, added, removed, reason); ok {
			events = append(events, ev)
		}
	}

	if err := trx.Commit(ctx); err != nil {
		log.Error().Stack().Err(err).Msg("could not commit transaction")
		return nil, err
	}

	log.Info().Int("NumEvents", len(events)).Msg("loaded index change events from database")
	return events, nil
}
