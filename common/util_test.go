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

package common_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	"github.com/dshan12/Momentum-Research/common"
)

var _ = Describe("Common utilities", func() {
	Describe("MonthEnd", func() {
		DescribeTable("returns the last day of the month",
			func(input, expected time.Time) {
				Expect(common.MonthEnd(input)).To(Equal(expected))
			},
			Entry("mid month", time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC), time.Date(2021, 3, 31, 0, 0, 0, 0, time.UTC)),
			Entry("already month end", time.Date(2021, 4, 30, 0, 0, 0, 0, time.UTC), time.Date(2021, 4, 30, 0, 0, 0, 0, time.UTC)),
			Entry("february leap year", time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC)),
			Entry("february non leap year", time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2021, 2, 28, 0, 0, 0, 0, time.UTC)),
			Entry("december rolls to the 31st", time.Date(2021, 12, 5, 0, 0, 0, 0, time.UTC), time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC)),
		)
	})

	Describe("MinTime and MaxTime", func() {
		a := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		b := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

		It("returns the earlier and later of two times", func() {
			Expect(common.MinTime(a, b)).To(Equal(a))
			Expect(common.MaxTime(a, b)).To(Equal(b))
		})

		It("treats a zero time as unset for MinTime", func() {
			Expect(common.MinTime(time.Time{}, b)).To(Equal(b))
			Expect(common.MinTime(a, time.Time{})).To(Equal(a))
		})
	})

	Describe("cache", func() {
		BeforeEach(func() {
			viper.Set("cache.local_size", 16)
			viper.Set("cache.redis", false)
			common.SetupCache()
		})

		It("round trips a value through compression", func() {
			payload := []byte("some reasonably long payload that compresses: aaaaaaaaaaaaaaaaaaaaaaaa")
			Expect(common.CacheSet("k1", payload)).To(Succeed())
			got, err := common.CacheGet("k1")
			Expect(err).To(BeNil())
			Expect(got).To(Equal(payload))
		})

		It("misses for unknown keys", func() {
			_, err := common.CacheGet("never-set")
			Expect(err).To(MatchError(common.ErrCacheMiss))
		})

		It("compresses and decompresses losslessly", func() {
			payload := []byte("hello world hello world hello world")
			compressed, err := common.Compress(payload)
			Expect(err).To(BeNil())
			decompressed, err := common.Decompress(compressed)
			Expect(err).To(BeNil())
			Expect(decompressed).To(Equal(payload))
		})
	})
})
