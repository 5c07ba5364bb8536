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
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dshan12/Momentum-Research/dataframe"
	"github.com/dshan12/Momentum-Research/signals"
)

var _ = Describe("Momentum", func() {
	Describe("when scoring", func() {
		It("computes the log price change over the lookback window", func() {
			prices := &dataframe.DataFrame{
				Dates:    monthEnds(6),
				ColNames: []string{"AAA"},
				Vals:     [][]float64{{100, 110, 121, 133.1, 146.41, 161.051}},
			}
			scores := signals.MomentumScores(prices, 3, 1)

			// score_t = log(P_{t-1}) - log(P_{t-4}) = 3 * log(1.1)
			Expect(scores.Vals[0][5]).To(BeNumerically("~", 3*math.Log(1.1), 1e-9))
			for rowIdx := 0; rowIdx < 5; rowIdx++ {
				Expect(math.IsNaN(scores.Vals[0][rowIdx])).To(BeTrue())
			}
		})

		It("yields missing scores where either endpoint is masked", func() {
			prices := &dataframe.DataFrame{
				Dates:    monthEnds(6),
				ColNames: []string{"AAA"},
				Vals:     [][]float64{{100, math.NaN(), 121, 133.1, 146.41, 161.051}},
			}
			scores := signals.MomentumScores(prices, 3, 1)
			// P_{t-4} is missing for the last date
			Expect(math.IsNaN(scores.Vals[0][5])).To(BeTrue())
		})
	})

	Describe("when ranking the cross-section", func() {
		It("assigns percentile ranks over non-missing entries", func() {
			scores := &dataframe.DataFrame{
				Dates:    monthEnds(1),
				ColNames: []string{"A", "B", "C", "D"},
				Vals: [][]float64{
					{0.3}, {0.1}, {0.4}, {0.2},
				},
			}
			ranks := signals.Rank(scores)
			Expect(ranks.Vals[0][0]).To(BeNumerically("~", 0.75, 1e-9))
			Expect(ranks.Vals[1][0]).To(BeNumerically("~", 0.25, 1e-9))
			Expect(ranks.Vals[2][0]).To(BeNumerically("~", 1.0, 1e-9))
			Expect(ranks.Vals[3][0]).To(BeNumerically("~", 0.5, 1e-9))
		})

		It("gives tied values their average rank", func() {
			scores := &dataframe.DataFrame{
				Dates:    monthEnds(1),
				ColNames: []string{"A", "B", "C", "D"},
				Vals: [][]float64{
					{0.1}, {0.2}, {0.2}, {0.3},
				},
			}
			ranks := signals.Rank(scores)
			Expect(ranks.Vals[0][0]).To(BeNumerically("~", 0.25, 1e-9))
			Expect(ranks.Vals[1][0]).To(BeNumerically("~", 0.625, 1e-9))
			Expect(ranks.Vals[2][0]).To(BeNumerically("~", 0.625, 1e-9))
			Expect(ranks.Vals[3][0]).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("keeps missing entries missing and ranks over the rest", func() {
			scores := &dataframe.DataFrame{
				Dates:    monthEnds(1),
				ColNames: []string{"A", "B", "C"},
				Vals: [][]float64{
					{0.1}, {math.NaN()}, {0.3},
				},
			}
			ranks := signals.Rank(scores)
			Expect(ranks.Vals[0][0]).To(BeNumerically("~", 0.5, 1e-9))
			Expect(math.IsNaN(ranks.Vals[1][0])).To(BeTrue())
			Expect(ranks.Vals[2][0]).To(BeNumerically("~", 1.0, 1e-9))
		})
	})
})
