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

package main

import (
	"testing"

	"github.com/dotmark/sgrid.go/catalog"
)

func TestClearStorage(t *testing.T) {
	if err := catalog.SchemaUp(); err != nil {
		t.Skipf("No live database for clear-storage tests: %v", err)
	}
	if err := catalog.ClearCache(); err != nil {
		t.Skipf("No live cache for clear-storage tests: %v", err)
	}
	if err := clearStorage(false); err != nil {
		t.Errorf("%v", err)
	}
	if err := clearStorage(true); err != nil {
		t.Errorf("%v", err)
	}
	version, err := catalog.SchemaVersion()
	if err != nil {
		t.Fatalf("%v", err)
	}
	if version == 0 {
		t.Errorf("Schema still at version 0 after clear")
	}
}
