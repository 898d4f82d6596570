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

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/jackc/pgx/v5"

	"github.com/dotmark/sgrid.go/grid"
)

/*

catalog entries

*/

// A puzzleEntry represents the stored form of a catalog puzzle.
// The board itself is stored as a payload, the same form the
// editor exports.  Entries are JSON serializable so they can go
// into the cache as well as the database.
type puzzleEntry struct {
	PuzzleId string // unique ID for the puzzle
	Name     string // user-facing name
	Payload  string // the preset board
}

// loadPuzzleEntry first checks the cache, then the database, to
// find the puzzle's entry.  If it loads from the database, it
// caches the result.  Returns nil if no such puzzle is stored.
func loadPuzzleEntry(id string) *puzzleEntry {
	pe := &puzzleEntry{PuzzleId: id}
	if pe.cacheLoad() {
		return pe
	}
	// cache miss, load from database and save to cache
	if !pe.databaseLoad() {
		return nil
	}
	pe.cacheInsert()
	return pe
}

// size: the side length of the entry's stored board
func (pe *puzzleEntry) size() int {
	size, err := grid.PayloadSize(pe.Payload)
	if err != nil {
		panic(fmt.Errorf("Catalog entry %q has a bad payload: %v", pe.PuzzleId, err))
	}
	return size
}

// makeEditor: make an editor holding the entry's stored board
func (pe *puzzleEntry) makeEditor() *grid.Editor {
	e, err := grid.NewEditor(pe.size())
	if err != nil {
		panic(fmt.Errorf("Failed to create editor for %q: %v", pe.PuzzleId, err))
	}
	if err := e.Import(pe.Payload); err != nil {
		panic(fmt.Errorf("Failed to load board for %q: %v", pe.PuzzleId, err))
	}
	return e
}

// key: compute the cache key for a puzzleEntry.
func (pe *puzzleEntry) key() string {
	return rdEnv + ":PID:" + pe.PuzzleId
}

// cacheLoad: load an already cached puzzle entry.  Returns
// whether the entry was found in the cache.
func (pe *puzzleEntry) cacheLoad() bool {
	var bytes []byte
	body := func(tx redis.Conn) (err error) {
		bytes, err = redis.Bytes(tx.Do("GET", pe.key()))
		if err == redis.ErrNil {
			return nil
		}
		if err != nil {
			err = fmt.Errorf("Cache failure loading puzzleEntry %q: %v", pe.PuzzleId, err)
		}
		return
	}
	rdExecute(body)
	if len(bytes) == 0 {
		return false
	}
	var spe *puzzleEntry
	err := json.Unmarshal(bytes, &spe)
	if err != nil {
		panic(fmt.Errorf("Failed to unmarshal puzzleEntry %q: %v", pe.PuzzleId, err))
	}
	if spe.PuzzleId != pe.PuzzleId {
		panic(fmt.Errorf("Cached puzzleEntry (id: %q) found for puzzle %q!",
			spe.PuzzleId, pe.PuzzleId))
	}
	*pe = *spe
	return true
}

// databaseLoad: load a puzzle entry from the database.  Returns
// whether there was a saved entry with the given id.
func (pe *puzzleEntry) databaseLoad() (found bool) {
	body := func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx(),
			"SELECT name, payload FROM puzzles WHERE puzzleId = $1", pe.PuzzleId)
		if err := row.Scan(&pe.Name, &pe.Payload); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("Failure looking up puzzle %q: %v", pe.PuzzleId, err)
		}
		found = true
		return nil
	}
	pgExecute(body)
	return
}

// cacheInsert: insert a puzzle entry into the cache. Replaces
// any existing entry with the same id.
func (pe *puzzleEntry) cacheInsert() {
	bytes, e := json.Marshal(pe)
	if e != nil {
		panic(fmt.Errorf("Failed to marshal puzzleEntry %q: %v", pe.PuzzleId, e))
	}
	body := func(tx redis.Conn) (err error) {
		_, err = tx.Do("SET", pe.key(), bytes)
		if err != nil {
			err = fmt.Errorf("Cache failure saving puzzle entry %q: %v", pe.PuzzleId, err)
		}
		return
	}
	rdExecute(body)
}

// databaseInsert: insert a new puzzle entry into the database.
// Panics if there is already a saved entry with the given id.
func (pe *puzzleEntry) databaseInsert() {
	body := func(tx pgx.Tx) (err error) {
		_, err = tx.Exec(ctx(),
			"INSERT INTO puzzles (puzzleId, name, sideLength, payload, created) "+
				"VALUES ($1, $2, $3, $4, $5)",
			pe.PuzzleId, pe.Name, int32(pe.size()), pe.Payload, time.Now())
		if err != nil {
			err = fmt.Errorf("Database error saving puzzle entry %q: %v", pe.PuzzleId, err)
		}
		return
	}
	pgExecute(body)
}

/*

catalog listing

*/

// A PuzzleInfo is the exported form of a catalog entry, used by
// clients to offer puzzle selection.
type PuzzleInfo struct {
	PuzzleId   string // unique ID for this puzzle
	Name       string // user-facing name of the puzzle
	SideLength int    // board size
}

// ListPuzzles returns info for every puzzle in the catalog,
// ordered by name.
func ListPuzzles() []PuzzleInfo {
	var infos []PuzzleInfo
	body := func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx(),
			"SELECT puzzleId, name, sideLength FROM puzzles ORDER BY name")
		if err != nil {
			return fmt.Errorf("Failure listing puzzles: %v", err)
		}
		defer rows.Close()
		for rows.Next() {
			var info PuzzleInfo
			var side int32
			if err := rows.Scan(&info.PuzzleId, &info.Name, &side); err != nil {
				return fmt.Errorf("Failure scanning puzzle row: %v", err)
			}
			info.SideLength = int(side)
			infos = append(infos, info)
		}
		return rows.Err()
	}
	pgExecute(body)
	return infos
}

// sorting of info sequences by board size then name
type BySize []PuzzleInfo

func (pi BySize) Len() int      { return len(pi) }
func (pi BySize) Swap(i, j int) { pi[i], pi[j] = pi[j], pi[i] }
func (pi BySize) Less(i, j int) bool {
	if pi[i].SideLength != pi[j].SideLength {
		return pi[i].SideLength < pi[j].SideLength
	}
	return pi[i].Name < pi[j].Name
}
