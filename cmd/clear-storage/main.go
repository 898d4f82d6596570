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

// Clear and re-initialize the sgrid storage system
package main

import (
	"fmt"
	"log"

	"github.com/spf13/pflag"

	"github.com/dotmark/sgrid.go/catalog"
)

func main() {
	keepCache := pflag.Bool("keep-cache", false,
		"leave the cache alone, clear only the database")
	pflag.Parse()

	log.Printf("Removing existing data storage and cache...")
	if err := clearStorage(*keepCache); err != nil {
		log.Fatalf("Couldn't clear storage: %v", err)
	}
	log.Printf("Database re-initialized.")
}

func clearStorage(keepCache bool) error {
	// clear cache
	if !keepCache {
		if err := catalog.ClearCache(); err != nil {
			return fmt.Errorf("Couldn't clear cache: %v", err)
		}
	}

	// tear down existing database
	version, err := catalog.SchemaVersion()
	if err != nil {
		return fmt.Errorf("Couldn't get initial catalog schema version: %v", err)
	}
	if version > 0 {
		if err := catalog.SchemaDown(); err != nil {
			return fmt.Errorf("Couldn't remove database: %v", err)
		}
	}
	if err := catalog.SchemaUp(); err != nil {
		return fmt.Errorf("Couldn't install catalog schema: %v", err)
	}
	version, err = catalog.SchemaVersion()
	if err != nil {
		return fmt.Errorf("Couldn't get upgraded catalog schema version: %v", err)
	}
	if version == 0 {
		return fmt.Errorf("Catalog schema still at version 0, shouldn't be.")
	}
	if err := catalog.DataUp(); err != nil {
		return fmt.Errorf("Couldn't load seed puzzles: %v", err)
	}
	return nil
}
