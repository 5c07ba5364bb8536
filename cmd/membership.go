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

package cmd

import (
	"context"
	"time"

	"github.com/dshan12/Momentum-Research/data"
	"github.com/dshan12/Momentum-Research/database"
	"github.com/dshan12/Momentum-Research/membership"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	membershipChangesFile      string
	membershipConstituentsFile string
	membershipStart            string
	membershipEnd              string
	membershipDailyOut         string
	membershipMonthlyOut       string
)

func init() {
	membershipCmd.Flags().StringVar(&membershipChangesFile, "changes", "", "CSV file of index reconstitution events (date, added, removed, reason)")
	membershipCmd.Flags().StringVar(&membershipConstituentsFile, "constituents", "", "CSV file listing current index constituents")
	membershipCmd.Flags().StringVar(&membershipStart, "start", "1996-01-01", "First date of the reconstructed panel")
	membershipCmd.Flags().StringVar(&membershipEnd, "end", time.Now().Format("2006-01-02"), "Last date of the reconstructed panel")
	membershipCmd.Flags().StringVar(&membershipDailyOut, "daily-out", "membership_daily.csv", "Output path for the daily membership panel")
	membershipCmd.Flags().StringVar(&membershipMonthlyOut, "monthly-out", "membership_monthly.csv", "Output path for the month-end membership panel")
	membershipCmd.MarkFlagRequired("constituents")
	rootCmd.AddCommand(membershipCmd)
}

var membershipCmd = &cobra.Command{
	Use:   "membership",
	Short: "Reconstruct historical index membership from reconstitution events",
	Run: func(cmd *cobra.Command, args []string) {
		current, err := data.LoadConstituents(membershipConstituentsFile)
		if err != nil {
			log.Fatal().Stack().Err(err).Str("File", membershipConstituentsFile).Msg("could not load constituents")
		}

		events, err := loadChangeEvents()
		if err != nil {
			log.Fatal().Stack().Err(err).Msg("could not load change events")
		}

		start, err := time.Parse("2006-01-02", membershipStart)
		if err != nil {
			log.Fatal().Stack().Err(err).Str("Start", membershipStart).Msg("could not parse start date")
		}
		end, err := time.Parse("2006-01-02", membershipEnd)
		if err != nil {
			log.Fatal().Stack().Err(err).Str("End", membershipEnd).Msg("could not parse end date")
		}

		timeline, err := membership.NewTimeline(current, events, end)
		if err != nil {
			log.Fatal().Stack().Err(err).Msg("could not build membership timeline")
		}

		daily := timeline.Daily(start, end)
		monthly := membership.Monthly(daily)

		if err := data.SavePanel(daily, membershipDailyOut); err != nil {
			log.Fatal().Stack().Err(err).Str("File", membershipDailyOut).Msg("could not write daily panel")
		}
		if err := data.SavePanel(monthly, membershipMonthlyOut); err != nil {
			log.Fatal().Stack().Err(err).Str("File", membershipMonthlyOut).Msg("could not write monthly panel")
		}

		log.Info().Int("Tickers", daily.ColCount()).Int("Days", daily.Len()).Int("Months", monthly.Len()).Msg("membership panels written")
	},
}

func loadChangeEvents() ([]membership.ChangeEvent, error) {
	if membershipChangesFile != "" {
		return data.LoadChangeEvents(membershipChangesFile)
	}
	if viper.GetString("database.url") != "" {
		ctx := context.Background()
		if err := database.Connect(ctx); err != nil {
			return nil, err
		}
		return data.ChangeEventsFromDB(ctx)
	}
	return nil, membership.ErrNoEvents
}
