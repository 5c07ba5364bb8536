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

package membership_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dshan12/Momentum-Research/membership"
)

var _ = Describe("Timeline", func() {
	var (
		today    time.Time
		timeline *membership.Timeline
	)

	BeforeEach(func() {
		today = time.Date(2021, 6, 30, 0, 0, 0, 0, time.UTC)

		// index history: {AAA, BBB} at the start; CCC replaces BBB on
		// 2021-03-15; DDD added on 2021-05-03
		var err error
		timeline, err = membership.NewTimeline(
			[]string{"AAA", "CCC", "DDD"},
			[]membership.ChangeEvent{
				{Date: time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC), Added: []string{"CCC"}, Removed: []string{"BBB"}},
				{Date: time.Date(2021, 5, 3, 0, 0, 0, 0, time.UTC), Added: []string{"DDD"}},
			},
			today,
		)
		Expect(err).To(BeNil())
	})

	It("rejects a history with no usable events", func() {
		_, err := membership.NewTimeline([]string{"AAA"}, nil, today)
		Expect(err).To(MatchError(membership.ErrNoEvents))
	})

	Describe("when rolling membership backward", func() {
		It("returns the current set as of today", func() {
			members := timeline.MembersAsOf(today)
			Expect(members).To(HaveLen(3))
			Expect(members).To(HaveKey("AAA"))
			Expect(members).To(HaveKey("CCC"))
			Expect(members).To(HaveKey("DDD"))
		})

		It("undoes events after the requested date in reverse order", func() {
			members := timeline.MembersAsOf(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
			Expect(members).To(HaveLen(2))
			Expect(members).To(HaveKey("AAA"))
			Expect(members).To(HaveKey("BBB"))
		})

		It("applies an event on its own date", func() {
			members := timeline.MembersAsOf(time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC))
			Expect(members).To(HaveKey("CCC"))
			Expect(members).ToNot(HaveKey("BBB"))
			Expect(members).ToNot(HaveKey("DDD"))
		})

		It("does not mutate state between calls", func() {
			first := timeline.MembersAsOf(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
			delete(first, "AAA")
			second := timeline.MembersAsOf(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
			Expect(second).To(HaveKey("AAA"))
		})
	})

	Describe("when building the daily panel", func() {
		var daily *dataframeWrapper

		BeforeEach(func() {
			daily = wrap(timeline.Daily(
				time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 5, 31, 0, 0, 0, 0, time.UTC),
			))
		})

		It("covers every calendar day of the range", func() {
			Expect(daily.df.Len()).To(Equal(92))
			Expect(daily.df.Dates[0]).To(Equal(time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)))
			Expect(daily.df.Dates[91]).To(Equal(time.Date(2021, 5, 31, 0, 0, 0, 0, time.UTC)))
		})

		It("covers the sorted universe of ever-member tickers", func() {
			Expect(daily.df.ColNames).To(Equal([]string{"AAA", "BBB", "CCC", "DDD"}))
		})

		It("flips membership exactly on the event date", func() {
			Expect(daily.at("BBB", time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC))).To(BeNumerically("==", 1))
			Expect(daily.at("BBB", time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC))).To(BeNumerically("==", 0))
			Expect(daily.at("CCC", time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC))).To(BeNumerically("==", 0))
			Expect(daily.at("CCC", time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC))).To(BeNumerically("==", 1))
		})

		It("agrees with backward replay all the way to the range start", func() {
			members := timeline.MembersAsOf(time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC))
			for _, ticker := range daily.df.ColNames {
				expected := 0.0
				if members[ticker] {
					expected = 1.0
				}
				Expect(daily.at(ticker, time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC))).To(BeNumerically("==", expected), ticker)
			}
		})
	})

	Describe("when collapsing to month ends", func() {
		It("marks a ticker a member for any day of membership in the month", func() {
			daily := timeline.Daily(
				time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 5, 31, 0, 0, 0, 0, time.UTC),
			)
			monthly := wrap(membership.Monthly(daily))

			Expect(monthly.df.Dates).To(Equal([]time.Time{
				time.Date(2021, 3, 31, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 4, 30, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 5, 31, 0, 0, 0, 0, time.UTC),
			}))

			// BBB was a member for the first half of March only
			Expect(monthly.at("BBB", time.Date(2021, 3, 31, 0, 0, 0, 0, time.UTC))).To(BeNumerically("==", 1))
			Expect(monthly.at("BBB", time.Date(2021, 4, 30, 0, 0, 0, 0, time.UTC))).To(BeNumerically("==", 0))

			// DDD joined mid-May
			Expect(monthly.at("DDD", time.Date(2021, 4, 30, 0, 0, 0, 0, time.UTC))).To(BeNumerically("==", 0))
			Expect(monthly.at("DDD", time.Date(2021, 5, 31, 0, 0, 0, 0, time.UTC))).To(BeNumerically("==", 1))
		})
	})
})
