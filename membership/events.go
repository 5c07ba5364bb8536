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
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Epoch is the earliest date index reconstitution events are trusted;
// source change tables before this are unreliable
var Epoch = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

var (
	// ErrNoEvents indicates the change history produced zero parseable
	// events. This is a data acquisition failure and is fatal for the run.
	ErrNoEvents = errors.New("no index change events could be parsed")
)

// ChangeEvent represents one index reconstitution: the tickers added to and
// removed from the index on a given date. Immutable once constructed.
type ChangeEvent struct {
	Date    time.Time
	Added   []string
	Removed []string
}

// tickerFixups maps source symbols to the form used in the price panel
var tickerFixups = map[string]string{
	"BRK.B": "BRK-B",
	"BF.B":  "BF-B",
}

var (
	parenTicker  = regexp.MustCompile(`\(([A-Za-z0-9.\-]+)\)`)
	bucketSplit  = regexp.MustCompile(`[,/]| and `)
	replacesExpr = regexp.MustCompile(`(?i)([A-Za-z0-9.\-]+)\s+replac(?:e|es|ing)\s+([A-Za-z0-9.\-]+)`)
)

// NormalizeTicker converts a source symbol to its canonical form: uppercase,
// no spaces, class-share dots converted to dashes (BRK.B -> BRK-B)
func NormalizeTicker(t string) string {
	t = strings.ToUpper(strings.TrimSpace(t))
	t = strings.ReplaceAll(t, " ", "")
	if t == "" {
		return ""
	}
	if fixed, ok := tickerFixups[t]; ok {
		return fixed
	}

	// convert a trailing .CLASS suffix to -CLASS
	if dot := strings.LastIndex(t, "."); dot > 0 && dot < len(t)-1 {
		suffix := t[dot+1:]
		alnum := true
		for _, r := range suffix {
			if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
				alnum = false
				break
			}
		}
		if alnum {
			t = t[:dot] + "-" + suffix
		}
	}

	return t
}

// ParseEvent builds a ChangeEvent from the raw added/removed cell text of one
// change-table row. Cells may contain multiple tickers separated by commas,
// slashes or "and", either bare or parenthesized after a company name. When
// both cells are empty the reason text is consulted for the "X replaces Y"
// phrasing. Returns false when no tickers could be extracted; such rows are
// parse failures, not real events.
func ParseEvent(date time.Time, added, removed, reason string) (ChangeEvent, bool) {
	ev := ChangeEvent{
		Date:    date,
		Added:   parseBucket(added),
		Removed: parseBucket(removed),
	}

	if len(ev.Added) == 0 && len(ev.Removed) == 0 && reason != "" {
		if m := replacesExpr.FindStringSubmatch(reason); m != nil {
			ev.Added = []string{NormalizeTicker(m[1])}
			ev.Removed = []string{NormalizeTicker(m[2])}
		}
	}

	ev = normalizeEvent(ev)
	if len(ev.Added) == 0 && len(ev.Removed) == 0 {
		return ChangeEvent{}, false
	}

	return ev, true
}

func parseBucket(cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}

	var tickers []string
	for _, part := range bucketSplit.Split(cell, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if m := parenTicker.FindStringSubmatch(part); m != nil {
			part = m[1]
		}
		if t := NormalizeTicker(part); t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}

// normalizeEvent dedupes each bucket and drops tickers that appear on both
// sides of the same event
func normalizeEvent(ev ChangeEvent) ChangeEvent {
	added := dedupe(ev.Added)
	removed := dedupe(ev.Removed)

	inAdded := make(map[string]bool, len(added))
	for _, t := range added {
		inAdded[t] = true
	}
	inRemoved := make(map[string]bool, len(removed))
	for _, t := range removed {
		inRemoved[t] = true
	}

	ev.Added = ev.Added[:0]
	for _, t := range added {
		if !inRemoved[t] {
			ev.Added = append(ev.Added, t)
		}
	}
	ev.Removed = ev.Removed[:0]
	for _, t := range removed {
		if !inAdded[t] {
			ev.Removed = append(ev.Removed, t)
		}
	}

	return ev
}

func dedupe(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if t != "" && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// NormalizeEvents filters events before the epoch, drops empty events, and
// sorts ascending by date for timeline replay. Returns ErrNoEvents when
// nothing usable remains.
func NormalizeEvents(events []ChangeEvent) ([]ChangeEvent, error) {
	out := make([]ChangeEvent, 0, len(events))
	for _, ev := range events {
		ev = normalizeEvent(ev)
		if len(ev.Added) == 0 && len(ev.Removed) == 0 {
			continue
		}
		if ev.Date.Before(Epoch) {
			continue
		}
		out = append(out, ev)
	}

	if len(out) == 0 {
		return nil, ErrNoEvents
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	return out, nil
}
