// sgrid.go - a web-based puzzle-grid editor and annotation tool.
// Copyright (C) 2024-2025 the sgrid authors.
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, write to the Free Software Foundation, Inc.,
// 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
// Licensed under the LGPL v3.  See the LICENSE file for details

package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
)

/*

schema migrations

*/

// A migration carries matched DDL for moving the schema one
// version up or back down.
type migration struct {
	up   string
	down string
}

// migrations, in order; schema version N means the first N have
// been applied.
var migrations = []migration{
	{
		up: "CREATE TABLE puzzles (" +
			"puzzleId varchar(64) PRIMARY KEY, " +
			"name varchar(128) NOT NULL, " +
			"sideLength integer NOT NULL, " +
			"payload text NOT NULL, " +
			"created timestamptz NOT NULL)",
		down: "DROP TABLE puzzles",
	},
	{
		up:   "CREATE INDEX puzzles_by_name ON puzzles (name)",
		down: "DROP INDEX puzzles_by_name",
	},
}

// databaseUrl - look up Postgres info from the environment
func databaseUrl() string {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		url = "postgres://localhost/sgrid?sslmode=disable"
	}
	return url
}

// withConnection: open the database, run the body, close the
// database.
func withConnection(body func(conn *pgx.Conn) error) error {
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, databaseUrl())
	if err != nil {
		return fmt.Errorf("Couldn't connect to db at %q: %v", databaseUrl(), err)
	}
	defer conn.Close(ctx)
	return body(conn)
}

// currentVersion: read the version table, treating a missing
// table as version 0.
func currentVersion(conn *pgx.Conn) (int, error) {
	ctx := context.Background()
	_, err := conn.Exec(ctx,
		"CREATE TABLE IF NOT EXISTS schemaVersion (version integer NOT NULL)")
	if err != nil {
		return 0, fmt.Errorf("Couldn't ensure version table: %v", err)
	}
	var version int
	row := conn.QueryRow(ctx, "SELECT version FROM schemaVersion")
	if err := row.Scan(&version); err != nil {
		if err == pgx.ErrNoRows {
			if _, err := conn.Exec(ctx,
				"INSERT INTO schemaVersion (version) VALUES (0)"); err != nil {
				return 0, fmt.Errorf("Couldn't seed version table: %v", err)
			}
			return 0, nil
		}
		return 0, fmt.Errorf("Couldn't read schema version: %v", err)
	}
	return version, nil
}

// step: apply one migration statement and the matching version
// update in a single transaction.
func step(conn *pgx.Conn, ddl string, toVersion int) error {
	ctx := context.Background()
	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, ddl); err != nil {
		tx.Rollback(ctx)
		return fmt.Errorf("Migration to version %d failed: %v", toVersion, err)
	}
	if _, err := tx.Exec(ctx,
		"UPDATE schemaVersion SET version = $1", toVersion); err != nil {
		tx.Rollback(ctx)
		return fmt.Errorf("Version update to %d failed: %v", toVersion, err)
	}
	return tx.Commit(ctx)
}

// SchemaUp creates the database with the right schema
func SchemaUp() error {
	return withConnection(func(conn *pgx.Conn) error {
		version, err := currentVersion(conn)
		if err != nil {
			return err
		}
		for i := version; i < len(migrations); i++ {
			if err := step(conn, migrations[i].up, i+1); err != nil {
				return err
			}
		}
		return nil
	})
}

// SchemaDown tears down the database
func SchemaDown() error {
	return withConnection(func(conn *pgx.Conn) error {
		version, err := currentVersion(conn)
		if err != nil {
			return err
		}
		if version > len(migrations) {
			return fmt.Errorf("Database at version %d, newer than this build", version)
		}
		for i := version; i > 0; i-- {
			if err := step(conn, migrations[i-1].down, i-1); err != nil {
				return err
			}
		}
		return nil
	})
}

// SchemaVersion returns the version of the database
func SchemaVersion() (int, error) {
	var version int
	err := withConnection(func(conn *pgx.Conn) (err error) {
		version, err = currentVersion(conn)
		return
	})
	return version, err
}
