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

package data

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"github.com/dshan12/Momentum-Research/dataframe"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// SavePanel writes a dataframe as a wide CSV: date column first, one
// column per name, NaN cells left blank
func SavePanel(df *dataframe.DataFrame, path string) error {
	subLog := log.With().Str("Path", path).Logger()

	fh, err := os.Create(path)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not create output file")
		return err
	}
	defer fh.Close()

	writer := csv.NewWriter(fh)
	defer writer.Flush()

	header := append([]string{"date"}, df.ColNames...)
	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for rowIdx, dt := range df.Dates {
		record[0] = dt.Format("2006-01-02")
		for colIdx := range df.ColNames {
			v := df.Vals[colIdx][rowIdx]
			if math.IsNaN(v) {
				record[colIdx+1] = ""
			} else {
				record[colIdx+1] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}

// SaveJSON persists any result structure as indented JSON
func SaveJSON(v any, path string) error {
	subLog := log.With().Str("Path", path).Logger()

	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not marshal result")
		return err
	}

	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		subLog.Error().Stack().Err(err).Msg("could not write result file")
		return err
	}

	return nil
}
