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

package signals_test

import (
	"fmt"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dshan12/Momentum-Research/dataframe"
	"github.com/dshan12/Momentum-Research/signals"
)

func monthEnds(n int) []time.Time {
	dates := make([]time.Time, n)
	cursor := time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC)
	for idx := range dates {
		dates[idx] = cursor
		next := cursor.AddDate(0, 0, 1)
		cursor = next.AddDate(0, 1, 0).AddDate(0, 0, -1)
	}
	return dates
}

var _ = Describe("Returns", func() {
	var opts signals.ReturnOptions

	BeforeEach(func() {
		opts = signals.DefaultReturnOptions()
	})

	Describe("when computing period returns", func() {
		It("computes simple returns from consecutive prices", func() {
			prices := &dataframe.DataFrame{
				Dates:    monthEnds(3),
				ColNames: []string{"AAA"},
				Vals:     [][]float64{{100, 110, 99}},
			}
			rets := signals.Returns(prices, opts)
			Expect(math.IsNaN(rets.Vals[0][0])).To(BeTrue())
			Expect(rets.Vals[0][1]).To(BeNumerically("~", 0.10, 1e-9))
			Expect(rets.Vals[0][2]).To(BeNumerically("~", -0.10, 1e-9))
		})

		It("does not bridge masked gaps", func() {
			prices := &dataframe.DataFrame{
				Dates:    monthEnds(4),
				ColNames: []string{"AAA"},
				Vals:     [][]float64{{100, math.NaN(), 120, 126}},
			}
			rets := signals.Returns(prices, opts)
			Expect(math.IsNaN(rets.Vals[0][1])).To(BeTrue())
			Expect(math.IsNaN(rets.Vals[0][2])).To(BeTrue())
			Expect(rets.Vals[0][3]).To(BeNumerically("~", 0.05, 1e-9))
		})

		It("nulls implausibly large log returns", func() {
			prices := &dataframe.DataFrame{
				Dates:    monthEnds(3),
				ColNames: []string{"AAA"},
				Vals:     [][]float64{{1, 100, 101}},
			}
			rets := signals.Returns(prices, opts)
			// 1 -> 100 is a 9900% move, far past the log threshold
			Expect(math.IsNaN(rets.Vals[0][1])).To(BeTrue())
			Expect(rets.Vals[0][2]).To(BeNumerically("~", 0.01, 1e-9))
		})
	})

	Describe("when winsorizing the cross-section", func() {
		It("skips dates with fewer observations than the minimum", func() {
			prices := &dataframe.DataFrame{
				Dates:    monthEnds(2),
				ColNames: []string{"AAA", "BBB", "CCC"},
				Vals: [][]float64{
					{100, 104},
					{100, 100},
					{100, 96},
				},
			}
			rets := signals.Returns(prices, opts)
			// only 3 names, default minimum is 50; extremes survive
			Expect(rets.Vals[0][1]).To(BeNumerically("~", 0.04, 1e-9))
			Expect(rets.Vals[2][1]).To(BeNumerically("~", -0.04, 1e-9))
		})

		It("clips extreme returns to the quantile bounds", func() {
			// 100 names with returns spread uniformly from -49.5% to 49.5%
			nNames := 100
			colNames := make([]string, nNames)
			vals := make([][]float64, nNames)
			for idx := 0; idx < nNames; idx++ {
				colNames[idx] = fmt.Sprintf("T%03d", idx)
				r := -0.495 + 0.01*float64(idx)
				vals[idx] = []float64{100, 100 * (1 + r)}
			}
			prices := &dataframe.DataFrame{
				Dates:    monthEnds(2),
				ColNames: colNames,
				Vals:     vals,
			}

			opts.MinWinsorN = 50
			rets := signals.Returns(prices, opts)

			raw := make([]float64, nNames)
			for idx := range raw {
				raw[idx] = -0.495 + 0.01*float64(idx)
			}
			lo := dataframe.Quantile(raw, opts.WinsorLow)
			hi := dataframe.Quantile(raw, opts.WinsorHigh)

			// the extremes collapse onto the bounds, interior values survive
			Expect(rets.Vals[0][1]).To(BeNumerically("~", lo, 1e-9))
			Expect(rets.Vals[nNames-1][1]).To(BeNumerically("~", hi, 1e-9))
			Expect(rets.Vals[50][1]).To(BeNumerically("~", raw[50], 1e-9))
		})
	})
})
