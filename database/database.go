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

// Package database manages the PostgreSQL connection pool used by the
// optional database-backed panel loaders
package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// PgxIface is the subset of the pgxpool API the loaders need; tests
// substitute a pgxmock pool through SetPool
type PgxIface interface {
	Begin(context.Context) (pgx.Tx, error)
}

var pool PgxIface

var ErrNotConnected = errors.New("database pool is not initialized")

// Connect establishes the connection pool from the database.url setting
func Connect(ctx context.Context) error {
	url := viper.GetString("database.url")
	subLog := log.With().Str("DatabaseURL", url).Logger()

	p, err := pgxpool.Connect(ctx, url)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not connect to database")
		return err
	}

	pool = p
	subLog.Info().Msg("connected to database")
	return nil
}

// SetPool replaces the active pool; used by tests to install a mock
func SetPool(myPool PgxIface) {
	pool = myPool
}

// Trx begins a new transaction on the active pool
func Trx(ctx context.Context) (pgx.Tx, error) {
	if pool == nil {
		return nil, ErrNotConnected
	}
	return pool.Begin(ctx)
}
