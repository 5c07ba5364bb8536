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

package data_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pashagolub/pgxmock"

	"github.com/dshan12/Momentum-Research/data"
	"github.com/dshan12/Momentum-Research/database"
	"github.com/dshan12/Momentum-Research/pgxmockhelper"
)

var _ = Describe("Database loaders", func() {
	var (
		ctx    context.Context
		dbPool pgxmock.PgxConnIface
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		dbPool, err = pgxmock.NewConn()
		Expect(err).To(BeNil())
		database.SetPool(dbPool)
	})

	Describe("PricesFromDB", func() {
		It("pivots eod rows into a wide panel", func() {
			begin := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
			end := time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC)
			pgxmockhelper.MockEodQuery(dbPool, "testdata/eod.csv", begin, end)

			df, err := data.PricesFromDB(ctx, begin, end)
			Expect(err).To(BeNil())

			Expect(df.ColNames).To(Equal([]string{"AAA", "BBB"}))
			Expect(df.Dates).To(Equal([]time.Time{
				time.Date(2021, 1, 29, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 2, 26, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 3, 31, 0, 0, 0, 0, time.UTC),
			}))
			Expect(df.Vals[0]).To(Equal([]float64{10, 11, 12}))
			Expect(df.Vals[1]).To(Equal([]float64{20, 19, 21}))

			Expect(dbPool.ExpectationsWereMet()).To(Succeed())
		})

		It("restricts the panel to the requested date range", func() {
			begin := time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC)
			end := time.Date(2021, 2, 28, 0, 0, 0, 0, time.UTC)
			pgxmockhelper.MockEodQuery(dbPool, "testdata/eod.csv", begin, end)

			df, err := data.PricesFromDB(ctx, begin, end)
			Expect(err).To(BeNil())
			Expect(df.Len()).To(Equal(1))
			Expect(df.Dates[0]).To(Equal(time.Date(2021, 2, 26, 0, 0, 0, 0, time.UTC)))
		})
	})

	Describe("ChangeEventsFromDB", func() {
		It("parses change rows and skips those with no tickers", func() {
			pgxmockhelper.MockIndexChangesQuery(dbPool, "testdata/index_changes.csv")

			events, err := data.ChangeEventsFromDB(ctx)
			Expect(err).To(BeNil())

			Expect(events).To(HaveLen(2))
			Expect(events[0].Added).To(Equal([]string{"CCC"}))
			Expect(events[0].Removed).To(Equal([]string{"BBB"}))
			Expect(events[1].Added).To(Equal([]string{"DDD"}))

			Expect(dbPool.ExpectationsWereMet()).To(Succeed())
		})
	})

	Describe("when no pool is configured", func() {
		It("returns ErrNotConnected", func() {
			database.SetPool(nil)
			_, err := data.PricesFromDB(ctx, time.Now().AddDate(-1, 0, 0), time.Now())
			Expect(err).To(MatchError(database.ErrNotConnected))
		})
	})
})
