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
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dshan12/Momentum-Research/dataframe"
	"github.com/dshan12/Momentum-Research/membership"
)

var _ = Describe("MaskPrices", func() {
	var (
		dates   []time.Time
		prices  *dataframe.DataFrame
		members *dataframe.DataFrame
	)

	BeforeEach(func() {
		dates = []time.Time{
			time.Date(2021, 1, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2021, 2, 28, 0, 0, 0, 0, time.UTC),
			time.Date(2021, 3, 31, 0, 0, 0, 0, time.UTC),
		}

		// AAA is a member all three months, BBB exits after January, and
		// ZZZ has prices but never appears in the membership panel
		prices = &dataframe.DataFrame{
			Dates:    dates,
			ColNames: []string{"AAA", "BBB", "ZZZ"},
			Vals: [][]float64{
				{10, 11, 12},
				{20, 21, 22},
				{30, 31, 32},
			},
		}
		members = &dataframe.DataFrame{
			Dates:    dates,
			ColNames: []string{"AAA", "BBB", "CCC"},
			Vals: [][]float64{
				{1, 1, 1},
				{1, 0, 0},
				{0, 1, 1},
			},
		}
	})

	It("keeps only the tickers present in both panels", func() {
		masked := membership.MaskPrices(prices, members)
		Expect(masked.ColNames).To(Equal([]string{"AAA", "BBB"}))
		Expect(masked.Dates).To(Equal(dates))
	})

	It("nulls prices on non-member dates", func() {
		masked := wrap(membership.MaskPrices(prices, members))
		Expect(masked.at("AAA", dates[0])).To(BeNumerically("==", 10))
		Expect(masked.at("AAA", dates[2])).To(BeNumerically("==", 12))
		Expect(masked.at("BBB", dates[0])).To(BeNumerically("==", 20))
		Expect(math.IsNaN(masked.at("BBB", dates[1]))).To(BeTrue())
		Expect(math.IsNaN(masked.at("BBB", dates[2]))).To(BeTrue())
	})

	It("masks dates absent from the membership panel", func() {
		prices.Dates[2] = time.Date(2021, 4, 30, 0, 0, 0, 0, time.UTC)
		masked := membership.MaskPrices(prices, members)
		Expect(math.IsNaN(masked.Vals[0][2])).To(BeTrue())
	})

	It("leaves non-positive prices as missing", func() {
		prices.Vals[0][0] = 0
		masked := membership.MaskPrices(prices, members)
		Expect(math.IsNaN(masked.Vals[0][0])).To(BeTrue())
	})

	It("is idempotent", func() {
		once := membership.MaskPrices(prices, members)
		twice := membership.MaskPrices(once, members)
		Expect(twice.ColNames).To(Equal(once.ColNames))
		for colIdx := range once.Vals {
			for rowIdx := range once.Vals[colIdx] {
				a := once.Vals[colIdx][rowIdx]
				b := twice.Vals[colIdx][rowIdx]
				if math.IsNaN(a) {
					Expect(math.IsNaN(b)).To(BeTrue())
				} else {
					Expect(b).To(BeNumerically("==", a))
				}
			}
		}
	})
})
