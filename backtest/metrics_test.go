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

package backtest_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dshan12/Momentum-Research/backtest"
)

var _ = Describe("Metrics", func() {
	Describe("AnnualizedReturn", func() {
		It("compounds the mean monthly return", func() {
			r := []float64{0.01, 0.01, 0.01}
			Expect(backtest.AnnualizedReturn(r)).To(BeNumerically("~", math.Pow(1.01, 12)-1, 1e-9))
		})

		It("ignores missing observations", func() {
			r := []float64{0.01, math.NaN(), 0.01}
			Expect(backtest.AnnualizedReturn(r)).To(BeNumerically("~", math.Pow(1.01, 12)-1, 1e-9))
		})

		It("returns NaN for an empty series", func() {
			Expect(math.IsNaN(backtest.AnnualizedReturn(nil))).To(BeTrue())
		})
	})

	Describe("AnnualizedVolatility", func() {
		It("scales the sample standard deviation by sqrt(12)", func() {
			r := []float64{0.02, -0.02, 0.02, -0.02}
			// sample std of the series
			expected := math.Sqrt(4.0*0.02*0.02/3.0) * math.Sqrt(12)
			Expect(backtest.AnnualizedVolatility(r)).To(BeNumerically("~", expected, 1e-9))
		})

		It("is zero for a constant series", func() {
			Expect(backtest.AnnualizedVolatility([]float64{0.01, 0.01, 0.01})).To(BeNumerically("~", 0, 1e-12))
		})
	})

	Describe("SharpeRatio", func() {
		It("is positive for returns above the risk-free rate", func() {
			r := []float64{0.02, 0.01, 0.03, 0.02, 0.01, 0.02}
			Expect(backtest.SharpeRatio(r, 0.02)).To(BeNumerically(">", 0))
		})

		It("does not blow up for a constant series", func() {
			sharpe := backtest.SharpeRatio([]float64{0.01, 0.01, 0.01}, 0)
			Expect(math.IsInf(sharpe, 0)).To(BeFalse())
			Expect(math.IsNaN(sharpe)).To(BeFalse())
		})
	})

	Describe("MaxDrawdown", func() {
		It("finds the worst peak-to-trough loss", func() {
			// wealth: 1.1, 0.88, 0.968 -> worst drawdown is -20%
			r := []float64{0.10, -0.20, 0.10}
			Expect(backtest.MaxDrawdown(r)).To(BeNumerically("~", -0.20, 1e-9))
		})

		It("is zero for a monotonically rising series", func() {
			Expect(backtest.MaxDrawdown([]float64{0.01, 0.02, 0.03})).To(BeNumerically("==", 0))
		})
	})

	Describe("WealthIndex", func() {
		It("accumulates the growth of one unit", func() {
			wealth := backtest.WealthIndex([]float64{0.10, -0.10})
			Expect(wealth[0]).To(BeNumerically("~", 1.10, 1e-9))
			Expect(wealth[1]).To(BeNumerically("~", 0.99, 1e-9))
		})
	})

	Describe("Summarize", func() {
		It("computes the turnover distribution statistics", func() {
			r := []float64{0.01, 0.02, -0.01, 0.005}
			turnover := []float64{0, 0.2, 0.4, 0.6}
			summary := backtest.Summarize(r, turnover, 0.02)

			Expect(summary.NumPeriods).To(Equal(4))
			Expect(summary.AvgTurnover).To(BeNumerically("~", 0.3, 1e-9))
			Expect(summary.MedianTurnover).To(BeNumerically("~", 0.3, 1e-9))
			Expect(summary.TurnoverP95).To(BeNumerically("~", 0.57, 1e-9))
		})
	})
})
