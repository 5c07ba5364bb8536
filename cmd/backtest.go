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
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshan12/Momentum-Research/backtest"
	"github.com/dshan12/Momentum-Research/data"
	"github.com/dshan12/Momentum-Research/database"
	"github.com/dshan12/Momentum-Research/dataframe"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	backtestPricesFile     string
	backtestMembershipFile string
	backtestOutputDir      string
	backtestBegin          string
	backtestEnd            string
)

func init() {
	backtestCmd.Flags().StringVar(&backtestPricesFile, "prices", "", "CSV file of adjusted close prices, one column per ticker")
	backtestCmd.Flags().StringVar(&backtestMembershipFile, "membership", "", "CSV file of index membership (date, ticker, in_index)")
	backtestCmd.Flags().StringVar(&backtestOutputDir, "output", "output", "Directory to write result panels and summary to")
	backtestCmd.Flags().StringVar(&backtestBegin, "begin", "1990-01-01", "First date to load when reading prices from the database")
	backtestCmd.Flags().StringVar(&backtestEnd, "end", time.Now().Format("2006-01-02"), "Last date to load when reading prices from the database")
	backtestCmd.MarkFlagRequired("membership")
	rootCmd.AddCommand(backtestCmd)
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the momentum long/short backtest over the membership-masked panel",
	Run: func(cmd *cobra.Command, args []string) {
		prices := loadPrices()

		members, err := data.LoadMembership(backtestMembershipFile)
		if err != nil {
			log.Fatal().Stack().Err(err).Str("File", backtestMembershipFile).Msg("could not load membership panel")
		}

		cfg := configFromViper()
		res, err := backtest.Run(prices, members, cfg)
		if err != nil {
			log.Fatal().Stack().Err(err).Msg("backtest failed")
		}

		if err := os.MkdirAll(backtestOutputDir, 0o755); err != nil {
			log.Fatal().Stack().Err(err).Str("Dir", backtestOutputDir).Msg("could not create output directory")
		}

		savePanels(res)

		if err := data.SaveJSON(res.Summary, filepath.Join(backtestOutputDir, "summary.json")); err != nil {
			log.Fatal().Stack().Err(err).Msg("could not write summary")
		}

		printSummary(res)
	},
}

// loadPrices reads the price panel from the database when a connection string
// is configured, otherwise from the --prices CSV file
func loadPrices() *dataframe.DataFrame {
	if viper.GetString("database.url") != "" {
		ctx := context.Background()
		if err := database.Connect(ctx); err != nil {
			log.Fatal().Stack().Err(err).Msg("could not connect to database")
		}

		begin, err := time.Parse("2006-01-02", backtestBegin)
		if err != nil {
			log.Fatal().Stack().Err(err).Str("Begin", backtestBegin).Msg("could not parse begin date")
		}
		end, err := time.Parse("2006-01-02", backtestEnd)
		if err != nil {
			log.Fatal().Stack().Err(err).Str("End", backtestEnd).Msg("could not parse end date")
		}

		prices, err := data.PricesFromDB(ctx, begin, end)
		if err != nil {
			log.Fatal().Stack().Err(err).Msg("could not load prices from database")
		}
		return prices
	}

	if backtestPricesFile == "" {
		log.Fatal().Msg("either --prices or database.url must be set")
	}

	prices, err := data.LoadPrices(backtestPricesFile)
	if err != nil {
		log.Fatal().Stack().Err(err).Str("File", backtestPricesFile).Msg("could not load price panel")
	}
	return prices
}

func savePanels(res *backtest.Result) {
	panels := map[string]*dataframe.DataFrame{
		"masked_prices.csv":  res.MaskedPrices,
		"returns.csv":        res.Returns,
		"weights.csv":        res.Weights,
		"turnover.csv":       res.Turnover,
		"strategy_gross.csv": res.Gross,
		"strategy_net.csv":   res.Net,
	}
	for name, df := range panels {
		if err := data.SavePanel(df, filepath.Join(backtestOutputDir, name)); err != nil {
			log.Fatal().Stack().Err(err).Str("File", name).Msg("could not write panel")
		}
	}
}

func printSummary(res *backtest.Result) {
	s := res.Summary
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.AppendBulk([][]string{
		{"Run ID", res.ID.String()},
		{"Periods", fmt.Sprintf("%d", s.NumPeriods)},
		{"Ann. Return", fmt.Sprintf("%.2f%%", s.AnnualizedReturn*100)},
		{"Ann. Volatility", fmt.Sprintf("%.2f%%", s.AnnualizedVolatility*100)},
		{"Sharpe Ratio", fmt.Sprintf("%.2f", s.SharpeRatio)},
		{"Max Drawdown", fmt.Sprintf("%.2f%%", s.MaxDrawdown*100)},
		{"Avg Turnover", fmt.Sprintf("%.2f%%", s.AvgTurnover*100)},
		{"Median Turnover", fmt.Sprintf("%.2f%%", s.MedianTurnover*100)},
		{"Turnover P95", fmt.Sprintf("%.2f%%", s.TurnoverP95*100)},
	})
	table.Render()
}
