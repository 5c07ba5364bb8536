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

	"github.com/dshan12/Momentum-Research/backtest"
	"github.com/dshan12/Momentum-Research/common"
	"github.com/dshan12/Momentum-Research/signals"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Logging configuration
	viper.BindEnv("log.level", "MR_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.output", "MR_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stdout", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	rootCmd.PersistentFlags().Bool("log-pretty", false, "Print logs in a human readable console format")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	// Database
	viper.BindEnv("database.url", "DATABASE_URL")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string")
	viper.BindPFlag("database.url", rootCmd.PersistentFlags().Lookup("database-url"))

	// Cache
	viper.SetDefault("cache.local_size", 64)
	viper.SetDefault("cache.ttl", 3600)
	viper.SetDefault("cache.redis", false)
	viper.SetDefault("cache.redis_url", "redis://localhost:6379")

	// Strategy parameters
	viper.SetDefault("strategy.lookback", 12)
	viper.SetDefault("strategy.skip", 1)
	viper.SetDefault("strategy.long_quantile", 0.9)
	viper.SetDefault("strategy.short_quantile", 0.1)
	viper.SetDefault("strategy.min_names", 20)
	viper.SetDefault("strategy.cost_bps", 10.0)
	viper.SetDefault("strategy.risk_free_annual", 0.02)
	viper.SetDefault("strategy.winsorize_low", 0.01)
	viper.SetDefault("strategy.winsorize_high", 0.99)
	viper.SetDefault("strategy.min_winsorize_n", 50)
	viper.SetDefault("strategy.return_outlier_threshold", 1.5)
}

var rootCmd = &cobra.Command{
	Use:     "momentum",
	Version: common.CurrentVersion.String(),
	Short:   "Momentum Research backtests cross-sectional momentum over a survivorship-free index panel",
	Long: `Momentum Research reconstructs historical index membership from
reconstitution events, masks price panels by that membership, and simulates a
long/short equal-weight momentum strategy with turnover-based transaction
costs.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		common.SetupCache()
	},
}

// configFromViper assembles the strategy configuration from defaults, the
// config file, environment, and flags
func configFromViper() backtest.Config {
	return backtest.Config{
		Lookback:       viper.GetInt("strategy.lookback"),
		Skip:           viper.GetInt("strategy.skip"),
		LongQuantile:   viper.GetFloat64("strategy.long_quantile"),
		ShortQuantile:  viper.GetFloat64("strategy.short_quantile"),
		MinNames:       viper.GetInt("strategy.min_names"),
		CostBps:        viper.GetFloat64("strategy.cost_bps"),
		RiskFreeAnnual: viper.GetFloat64("strategy.risk_free_annual"),
		Returns: signals.ReturnOptions{
			OutlierLogThreshold: viper.GetFloat64("strategy.return_outlier_threshold"),
			WinsorLow:           viper.GetFloat64("strategy.winsorize_low"),
			WinsorHigh:          viper.GetFloat64("strategy.winsorize_high"),
			MinWinsorN:          viper.GetInt("strategy.min_winsorize_n"),
		},
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
