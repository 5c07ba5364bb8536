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
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshan12/Momentum-Research/backtest"
	"github.com/dshan12/Momentum-Research/data"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	sweepPricesFile     string
	sweepMembershipFile string
	sweepOutputDir      string
	sweepLookbacks      []int
	sweepCostGrid       []float64
)

func init() {
	sweepCmd.Flags().StringVar(&sweepPricesFile, "prices", "", "CSV file of adjusted close prices, one column per ticker")
	sweepCmd.Flags().StringVar(&sweepMembershipFile, "membership", "", "CSV file of index membership (date, ticker, in_index)")
	sweepCmd.Flags().StringVar(&sweepOutputDir, "output", "output", "Directory to write sweep results to")
	sweepCmd.Flags().IntSliceVar(&sweepLookbacks, "lookbacks", []int{6, 9, 12, 18}, "Lookback horizons (months) to sweep over")
	sweepCmd.Flags().Float64SliceVar(&sweepCostGrid, "cost-grid", []float64{5, 10, 15, 25}, "Per-unit-turnover cost levels in bps")
	sweepCmd.MarkFlagRequired("prices")
	sweepCmd.MarkFlagRequired("membership")
	rootCmd.AddCommand(sweepCmd)
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep lookback horizons and transaction cost levels",
	Run: func(cmd *cobra.Command, args []string) {
		prices, err := data.LoadPrices(sweepPricesFile)
		if err != nil {
			log.Fatal().Stack().Err(err).Str("File", sweepPricesFile).Msg("could not load price panel")
		}
		members, err := data.LoadMembership(sweepMembershipFile)
		if err != nil {
			log.Fatal().Stack().Err(err).Str("File", sweepMembershipFile).Msg("could not load membership panel")
		}

		cfg := configFromViper()

		rows := backtest.SweepLookbacks(prices, members, cfg, sweepLookbacks)
		printLookbackTable(rows)

		res, err := backtest.Run(prices, members, cfg)
		if err != nil {
			log.Fatal().Stack().Err(err).Msg("base backtest failed")
		}
		costRows := backtest.CostSensitivity(res.Gross, res.Turnover, sweepCostGrid, cfg.RiskFreeAnnual)
		printCostTable(costRows)

		if err := os.MkdirAll(sweepOutputDir, 0o755); err != nil {
			log.Fatal().Stack().Err(err).Str("Dir", sweepOutputDir).Msg("could not create output directory")
		}
		if err := data.SaveJSON(rows, filepath.Join(sweepOutputDir, "lookback_sweep.json")); err != nil {
			log.Fatal().Stack().Err(err).Msg("could not write lookback sweep")
		}
		if err := data.SaveJSON(costRows, filepath.Join(sweepOutputDir, "cost_sensitivity.json")); err != nil {
			log.Fatal().Stack().Err(err).Msg("could not write cost sensitivity")
		}
	},
}

func printLookbackTable(rows []backtest.SweepRow) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Lookback", "Ann. Return", "Ann. Vol", "Sharpe", "Max DD", "Avg Turnover"})
	for _, row := range rows {
		if row.Err != nil {
			table.Append([]string{fmt.Sprintf("%d", row.Lookback), "error", "", "", "", ""})
			continue
		}
		s := row.Summary
		table.Append([]string{
			fmt.Sprintf("%d", row.Lookback),
			fmt.Sprintf("%.2f%%", s.AnnualizedReturn*100),
			fmt.Sprintf("%.2f%%", s.AnnualizedVolatility*100),
			fmt.Sprintf("%.2f", s.SharpeRatio),
			fmt.Sprintf("%.2f%%", s.MaxDrawdown*100),
			fmt.Sprintf("%.2f%%", s.AvgTurnover*100),
		})
	}
	table.Render()
}

func printCostTable(rows []backtest.CostRow) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Cost (bps)", "Ann. Return", "Sharpe", "Max DD"})
	for _, row := range rows {
		s := row.Summary
		table.Append([]string{
			fmt.Sprintf("%.0f", row.CostBps),
			fmt.Sprintf("%.2f%%", s.AnnualizedReturn*100),
			fmt.Sprintf("%.2f", s.SharpeRatio),
			fmt.Sprintf("%.2f%%", s.MaxDrawdown*100),
		})
	}
	table.Render()
}
