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

import "errors"

var (
	// ErrSchema indicates an input table is missing a required column or
	// holds values that cannot be interpreted; fatal for the run
	ErrSchema = errors.New("input does not match required schema")

	// ErrDuplicateDate indicates the date index contains the same date
	// twice; panels require a strictly increasing, deduplicated index
	ErrDuplicateDate = errors.New("duplicate date in index")
)
