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
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dotmark/sgrid.go/grid"
)

/*

entries

*/

type dataFunction func(pgx.Tx) error

var (
	upFunctions = []dataFunction{
		insertSeeds,
	}
	downFunctions = []dataFunction{
		deleteSeeds,
	}
)

// DataUp: load the seed puzzles into the database.  You should
// do this after you get the schema up!
func DataUp() error {
	return applyFunctions(upFunctions)
}

// DataDown: remove the seed puzzles from the database.  You
// should do this before you tear the schema down!
func DataDown() error {
	return applyFunctions(downFunctions)
}

// apply dataFunctions to the database.  Each is applied in a
// separate transaction, so later ones can rely on the effect of
// earlier ones having been committed.
func applyFunctions(fns []dataFunction) error {
	ctx := context.Background()

	// open the database, defer the close
	conn, err := pgx.Connect(ctx, databaseUrl())
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	// helper that runs each function inside a transaction, and
	// ensures that any problems are rolled back.
	runFunc := func(fn dataFunction) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if e := recover(); e != nil {
				tx.Rollback(ctx)
				panic(e)
			}
		}()
		if err := fn(tx); err != nil {
			tx.Rollback(ctx)
			return err
		}
		return tx.Commit(ctx)
	}

	// run the functions
	for _, fn := range fns {
		if err := runFunc(fn); err != nil {
			return fmt.Errorf("%v failed: %v", fn, err)
		}
	}
	return nil
}

/*

seed puzzles

*/

// A seedPuzzle is a starting board every deployment carries.
// The board is declared as a preset grid and converted to its
// stored payload form at insert time.
type seedPuzzle struct {
	id     string
	name   string
	size   int
	title  string
	values []int
}

var seedPuzzles = []seedPuzzle{
	{
		id: "starter-4-1", name: "Mini warmup", size: 4,
		title: "Mini 4x4",
		values: []int{
			1, 0, 0, 4,
			0, 3, 0, 0,
			0, 0, 2, 0,
			4, 0, 0, 1,
		}},
	{
		id: "starter-4-2", name: "Mini warmup 2", size: 4,
		title: "Mini 4x4",
		values: []int{
			0, 2, 0, 0,
			3, 0, 0, 1,
			1, 0, 0, 2,
			0, 0, 4, 0,
		}},
	{
		id: "starter-9-1", name: "Classic daily", size: 9,
		title: "Classic 9x9",
		values: []int{
			4, 0, 0, 0, 0, 3, 5, 0, 2,
			0, 0, 9, 5, 0, 6, 3, 4, 0,
			0, 0, 0, 0, 0, 0, 0, 0, 8,
			0, 0, 0, 0, 3, 4, 8, 6, 0,
			0, 0, 4, 6, 0, 5, 2, 0, 0,
			0, 2, 8, 7, 9, 0, 0, 0, 0,
			9, 0, 0, 0, 0, 0, 0, 0, 0,
			0, 8, 7, 3, 0, 2, 9, 0, 0,
			5, 0, 2, 9, 0, 0, 0, 0, 6,
		}},
	{
		id: "starter-9-2", name: "Classic open", size: 9,
		title: "Classic 9x9",
		values: []int{
			0, 1, 0, 5, 0, 6, 0, 2, 0,
			0, 0, 0, 0, 0, 3, 0, 1, 8,
			0, 0, 0, 0, 7, 0, 0, 0, 6,
			0, 0, 5, 0, 0, 0, 0, 3, 0,
			0, 0, 8, 0, 9, 0, 7, 0, 0,
			0, 6, 0, 0, 0, 0, 4, 0, 0,
			5, 0, 0, 0, 4, 0, 0, 0, 0,
			6, 4, 0, 2, 0, 0, 0, 0, 0,
			0, 3, 0, 9, 0, 1, 0, 8, 0,
		}},
	{
		id: "starter-9-3", name: "Blank canvas", size: 9,
		title: "Blank 9x9",
		// an empty board for setters building their own puzzle
		values: make([]int, 81),
	},
	{
		id: "starter-16-1", name: "Hex sampler", size: 16,
		title:  "Hex 16x16",
		values: hexSamplerValues(),
	},
}

// hexSamplerValues - a sparse 16x16 starting board
func hexSamplerValues() []int {
	values := make([]int, 256)
	for i := 0; i < 16; i++ {
		values[i*16+i] = i + 1
		values[i*16+(15-i)] = 16 - i
	}
	// the two diagonals cross at no cell on an even board, so
	// every assignment above stands on its own
	return values
}

// payload: the stored form of a seed puzzle
func (sp seedPuzzle) payload() (string, error) {
	e, err := grid.NewEditor(sp.size)
	if err != nil {
		return "", err
	}
	if err := e.LoadPreset(sp.values); err != nil {
		return "", err
	}
	e.SetMetadata(grid.Metadata{Title: sp.title})
	return e.Export(), nil
}

// Create and insert the seed puzzles
func insertSeeds(tx pgx.Tx) error {
	ctx := context.Background()

	// idempotency: if the first seed already exists, we are done
	var count int64
	row := tx.QueryRow(ctx,
		"SELECT COUNT(*) FROM puzzles WHERE puzzleId = $1", seedPuzzles[0].id)
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("Database error looking for seed %q: %v", seedPuzzles[0].id, err)
	}
	if count > 0 {
		return nil
	}

	// get the timestamp of this load
	now := time.Now()

	for i, sp := range seedPuzzles {
		payload, err := sp.payload()
		if err != nil {
			return fmt.Errorf("Seed puzzle %d doesn't encode: %v", i, err)
		}
		_, err = tx.Exec(ctx,
			"INSERT INTO puzzles (puzzleId, name, sideLength, payload, created) "+
				"VALUES ($1, $2, $3, $4, $5)",
			sp.id, sp.name, int32(sp.size), payload, now)
		if err != nil {
			return fmt.Errorf("Database error saving seed puzzle %d: %v", i, err)
		}
	}
	return nil
}

// Delete the seed puzzles
func deleteSeeds(tx pgx.Tx) error {
	ctx := context.Background()
	for i, sp := range seedPuzzles {
		_, err := tx.Exec(ctx, "DELETE from puzzles where puzzleId = $1", sp.id)
		if err != nil {
			return fmt.Errorf("Database error deleting seed puzzle %d: %v", i, err)
		}
	}
	return nil
}
