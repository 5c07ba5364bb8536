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

	"github.com/dshan12/Momentum-Research/common"
	"github.com/dshan12/Momentum-Research/dataframe"
	"github.com/rs/zerolog/log"
)

// Timeline reconstructs historical index membership from a known current
// snapshot and an ordered list of reconstitution events. Reconstruction
// never mutates shared state; each call derives a fresh snapshot so results
// are independently replayable.
type Timeline struct {
	current map[string]bool
	events  []ChangeEvent
	today   time.Time
}

// NewTimeline builds a timeline from the as-of-today membership set and raw
// change events. Events are normalized (deduplicated, epoch filtered,
// sorted); zero usable events is a fatal data-acquisition error.
func NewTimeline(current []string, events []ChangeEvent, today time.Time) (*Timeline, error) {
	events, err := NormalizeEvents(events)
	if err != nil {
		return nil, err
	}

	currentSet := make(map[string]bool, len(current))
	for _, t := range current {
		if t = NormalizeTicker(t); t != "" {
			currentSet[t] = true
		}
	}

	log.Debug().Int("NumEvents", len(events)).Int("NumCurrent", len(currentSet)).Msg("constructed membership timeline")

	return &Timeline{
		current: currentSet,
		events:  events,
		today:   today.Truncate(24 * time.Hour),
	}, nil
}

// Universe returns the sorted superset of tickers that were ever index
// members over the timeline: the current set plus every ticker named by any
// event
func (tl *Timeline) Universe() []string {
	seen := make(map[string]bool, len(tl.current))
	for t := range tl.current {
		seen[t] = true
	}
	for _, ev := range tl.events {
		for _, t := range ev.Added {
			seen[t] = true
		}
		for _, t := range ev.Removed {
			seen[t] = true
		}
	}

	universe := make([]string, 0, len(seen))
	for t := range seen {
		universe = append(universe, t)
	}
	sort.Strings(universe)
	return universe
}

// MembersAsOf rolls the current membership set backward in time: every event
// after the requested date is undone in reverse chronological order (tickers
// it added are removed, tickers it removed are re-added). The returned set is
// a fresh copy.
func (tl *Timeline) MembersAsOf(date time.Time) map[string]bool {
	members := make(map[string]bool, len(tl.current))
	for t := range tl.current {
		members[t] = true
	}

	for idx := len(tl.events) - 1; idx >= 0; idx-- {
		ev := tl.events[idx]
		if !ev.Date.After(date) {
			break
		}
		for _, t := range ev.Added {
			delete(members, t)
		}
		for _, t := range ev.Removed {
			members[t] = true
		}
	}

	return members
}

// Daily materializes a membership panel with one row per calendar day in
// [start, end] and one column per universe ticker; cells are 1 when the
// ticker is an index member that day and 0 otherwise. Events are applied
// removals first, then additions. Removing a non-member or adding an
// existing member is a no-op for that side.
func (tl *Timeline) Daily(start, end time.Time) *dataframe.DataFrame {
	start = midnight(start)
	end = midnight(end)

	eventsByDay := make(map[time.Time][]ChangeEvent)
	for _, ev := range tl.events {
		day := midnight(ev.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		eventsByDay[day] = append(eventsByDay[day], ev)
	}

	universe := tl.Universe()
	colIdx := make(map[string]int, len(universe))
	for idx, t := range universe {
		colIdx[t] = idx
	}

	nDays := int(end.Sub(start).Hours()/24) + 1
	dates := make([]time.Time, 0, nDays)
	vals := make([][]float64, len(universe))
	for idx := range vals {
		vals[idx] = make([]float64, 0, nDays)
	}

	members := tl.MembersAsOf(start)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		for _, ev := range eventsByDay[day] {
			for _, t := range ev.Removed {
				delete(members, t)
			}
			for _, t := range ev.Added {
				members[t] = true
			}
		}

		dates = append(dates, day)
		for _, col := range universe {
			v := 0.0
			if members[col] {
				v = 1.0
			}
			vals[colIdx[col]] = append(vals[colIdx[col]], v)
		}
	}

	return &dataframe.DataFrame{
		Dates:    dates,
		ColNames: universe,
		Vals:     vals,
	}
}

// Monthly collapses a daily membership panel to calendar month ends; a
// ticker is a member for the month when it was a member on any day of that
// month
func Monthly(daily *dataframe.DataFrame) *dataframe.DataFrame {
	monthly := &dataframe.DataFrame{
		ColNames: daily.ColNames,
		Dates:    make([]time.Time, 0, daily.Len()/28+1),
		Vals:     make([][]float64, daily.ColCount()),
	}

	var currentMonth time.Time
	for rowIdx, dt := range daily.Dates {
		monthEnd := common.MonthEnd(dt)
		if !monthEnd.Equal(currentMonth) {
			currentMonth = monthEnd
			monthly.Dates = append(monthly.Dates, monthEnd)
			for colIdx := range monthly.Vals {
				monthly.Vals[colIdx] = append(monthly.Vals[colIdx], 0)
			}
		}

		last := len(monthly.Dates) - 1
		for colIdx := range daily.Vals {
			if daily.Vals[colIdx][rowIdx] > monthly.Vals[colIdx][last] {
				monthly.Vals[colIdx][last] = daily.Vals[colIdx][rowIdx]
			}
		}
	}

	return monthly
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
