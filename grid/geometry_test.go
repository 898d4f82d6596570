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

package grid

import (
	"reflect"
	"testing"
)

/*

Geometries

*/

func TestFindIntSquareRoot(t *testing.T) {
	inputs := []int{1, 2, 3, 4, 5, 8, 9, 10, 15, 16}
	outputInts := []int{1, 1, 1, 2, 2, 2, 3, 3, 3, 4}
	outputBools := []bool{true, false, false, true, false, false, true, false, false, true}
	for i, v := range inputs {
		r, f := findIntSquareRoot(v)
		if r != outputInts[i] || f != outputBools[i] {
			t.Errorf("findIntSquareRoot(%d) = (%d, %v) but expected (%d, %v)",
				v, r, f, outputInts[i], outputBools[i])
		}
	}
}

func TestTileDimensions(t *testing.T) {
	inputs := []int{4, 6, 9, 12, 16, 7, 11, 25}
	outputXs := []int{2, 3, 3, 4, 4, 0, 0, 5}
	outputYs := []int{2, 2, 3, 3, 4, 0, 0, 5}
	for i, size := range inputs {
		x, y := tileDimensions(size)
		if x != outputXs[i] || y != outputYs[i] {
			t.Errorf("tileDimensions(%d) = (%d, %d), expected (%d, %d)",
				size, x, y, outputXs[i], outputYs[i])
		}
	}
}

func TestGeometryRegions(t *testing.T) {
	g := boardGeometryFor(4)
	// 4 rows + 4 columns + 4 tiles
	if len(g.regions) != 12 {
		t.Fatalf("Size-4 geometry has %d regions, expected 12", len(g.regions))
	}
	// the first tile is the top-left 2x2 block
	var tile *region
	for i := range g.regions {
		if g.regions[i].id == (RegionID{RtypeTile, 1}) {
			tile = &g.regions[i]
			break
		}
	}
	if tile == nil {
		t.Fatalf("No tile 1 in size-4 geometry")
	}
	want := []Cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	if !reflect.DeepEqual(tile.cells, want) {
		t.Errorf("Tile 1 cells %v, expected %v", tile.cells, want)
	}

	// an untileable size still has rows and columns
	g = boardGeometryFor(7)
	if len(g.regions) != 14 {
		t.Errorf("Size-7 geometry has %d regions, expected 14", len(g.regions))
	}
}

func TestGeometryMemoized(t *testing.T) {
	if boardGeometryFor(9) != boardGeometryFor(9) {
		t.Errorf("Geometry for one size computed twice")
	}
}

/*

Custom region maps

*/

func TestValidateRegionMap(t *testing.T) {
	// a valid 2x2 tiling of a 4-board expressed as custom regions
	good := [][]Cell{
		{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		{{0, 2}, {0, 3}, {1, 2}, {1, 3}},
		{{2, 0}, {2, 1}, {3, 0}, {3, 1}},
		{{2, 2}, {2, 3}, {3, 2}, {3, 3}},
	}
	if err := ValidateRegionMap(4, good); err != nil {
		t.Errorf("Valid region map rejected: %v", err)
	}

	// wrong region count
	if err := ValidateRegionMap(4, good[:3]); err == nil {
		t.Errorf("Three regions for a 4-board accepted")
	} else if err.(Error).Condition != RegionCellCountCondition {
		t.Errorf("Wrong condition for region count: %v", err)
	}

	// a region with the wrong cell count
	bad := append([][]Cell{}, good...)
	bad[3] = bad[3][:3]
	if err := ValidateRegionMap(4, bad); err == nil {
		t.Errorf("Short region accepted")
	}

	// a duplicated cell
	bad = append([][]Cell{}, good...)
	bad[3] = []Cell{{2, 2}, {2, 3}, {3, 2}, {0, 0}}
	if err := ValidateRegionMap(4, bad); err == nil {
		t.Errorf("Duplicated cell accepted")
	} else if err.(Error).Condition != RegionCoverageCondition {
		t.Errorf("Wrong condition for duplicate cell: %v", err)
	}

	// a cell off the board
	bad[3] = []Cell{{2, 2}, {2, 3}, {3, 2}, {4, 0}}
	if err := ValidateRegionMap(4, bad); err == nil {
		t.Errorf("Off-board cell accepted")
	}
}

/*

Conflicts

*/

func TestConflicts(t *testing.T) {
	e, err := NewEditor(4)
	if err != nil {
		t.Fatal(err)
	}
	if cs := e.Conflicts(); len(cs) != 0 {
		t.Fatalf("Empty board reports conflicts: %v", cs)
	}
	// the same value twice in row 1, also sharing tile 1
	e.sel.single(Cell{0, 0})
	e.SetDigit(3)
	e.sel.single(Cell{0, 1})
	e.SetDigit(3)
	cs := e.Conflicts()
	if len(cs) != 2 {
		t.Fatalf("Conflicts %v, expected one row and one tile conflict", cs)
	}
	for _, c := range cs {
		if c.Value != 3 || len(c.Cells) != 2 {
			t.Errorf("Conflict %v, expected value 3 over two cells", c)
		}
	}
}

func TestConflictsSeePresets(t *testing.T) {
	e, err := NewEditor(4)
	if err != nil {
		t.Fatal(err)
	}
	values := make([]int, 16)
	values[0] = 2 // preset at (0,0)
	if err := e.LoadPreset(values); err != nil {
		t.Fatal(err)
	}
	e.sel.single(Cell{0, 3})
	e.SetDigit(2)
	found := false
	for _, c := range e.Conflicts() {
		if c.Region == (RegionID{RtypeRow, 1}) && c.Value == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("Preset/user duplicate in row 1 not reported: %v", e.Conflicts())
	}
}
