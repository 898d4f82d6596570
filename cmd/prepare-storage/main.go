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

// Prepare the sgrid storage system: install the schema and the
// seed puzzles.
package main

import (
	"log"

	"github.com/spf13/pflag"

	"github.com/dotmark/sgrid.go/catalog"
)

func main() {
	reset := pflag.Bool("reset", false,
		"tear down and rebuild the catalog instead of ensuring it")
	pflag.Parse()

	if *reset {
		log.Printf("Reinitializing data storage and cache...")
		if err := catalog.ReinitializeAll(); err != nil {
			log.Fatalf("Couldn't reinitialize storage: %v", err)
		}
	} else {
		log.Printf("Ensuring data storage is prepared...")
		if err := catalog.EnsureData(); err != nil {
			log.Fatalf("Couldn't prepare storage: %v", err)
		}
	}
	log.Printf("Database ready.")
}
