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

/*

Board state and editing operations

The four data layers (user values, two note cubes, color tags)
all mutate the same way: compute the target cells, skip the
locked ones, apply the edit to the rest, record a history
snapshot.  The helpers at the bottom keep that shape in one
place.

*/

// MaxCellValue is the largest value a cell can carry; it is also
// the largest board side length.  Both limits come from the
// payload format, which spends one base-36 character per value.
const MaxCellValue = 35

/*

Note cubes

*/

// A noteCube holds one digit-presence set per cell, as a bitmask
// per cell: bit d-1 set means digit d is present.  Board side
// lengths max out at 35, so a uint64 per cell is plenty.
type noteCube []uint64

func newNoteCube(size int) noteCube {
	return make(noteCube, size*size)
}

// digits expands a cell's bitmask into the digits present, in
// increasing order.  Returns nil for an empty cell.
func (n noteCube) digits(idx, size int) []int {
	mask := n[idx]
	if mask == 0 {
		return nil
	}
	var ds []int
	for d := 1; d <= size; d++ {
		if mask&(1<<uint(d-1)) != 0 {
			ds = append(ds, d)
		}
	}
	return ds
}

// toggle flips the presence of one digit at one cell.
func (n noteCube) toggle(idx, d int) {
	n[idx] ^= 1 << uint(d-1)
}

/*

Color tags

*/

// A colorGrid holds the ordered color-tag list for each cell.
// Order is the order colors were applied in, and clients render
// the stripes in that order.
type colorGrid [][]string

func newColorGrid(size int) colorGrid {
	return make(colorGrid, size*size)
}

// toggle removes a color if the cell already has it, otherwise
// appends it.  A cell never carries the same color twice.
func (g colorGrid) toggle(idx int, color string) {
	for i, c := range g[idx] {
		if c == color {
			g[idx] = append(g[idx][:i], g[idx][i+1:]...)
			return
		}
	}
	g[idx] = append(g[idx], color)
}

/*

Target resolution

*/

// targets returns the cells the next operation applies to: the
// selected cells in reading order if there are any, else the
// current cell, else nothing.
func (e *Editor) targets() []Cell {
	if e.sel.Any() {
		return e.sel.RowMajor()
	}
	if e.current != nil {
		return []Cell{*e.current}
	}
	return nil
}

// apply runs an edit over every unlocked target cell, then
// records a history snapshot.  With no targets it does nothing
// at all (no snapshot either).
func (e *Editor) apply(edit func(idx int)) {
	targets := e.targets()
	if len(targets) == 0 {
		return
	}
	for _, c := range targets {
		idx := c.index(e.size)
		if e.preset[idx] != 0 {
			continue // locked
		}
		edit(idx)
	}
	e.recordSnapshot()
}

/*

Editing operations

*/

// SetDigit writes a value into every unlocked target cell,
// overwriting whatever was there.  Value 0 clears the cells.
// Values outside [0, size] are ignored.
func (e *Editor) SetDigit(v int) {
	if v < 0 || v > e.size {
		return
	}
	e.apply(func(idx int) {
		e.user[idx] = v
	})
}

// ToggleCenterNote flips the presence of a digit in the center
// notes of every unlocked target cell, each cell independently.
// Digits outside [1, size] are ignored.
func (e *Editor) ToggleCenterNote(d int) {
	if d < 1 || d > e.size {
		return
	}
	e.apply(func(idx int) {
		e.center.toggle(idx, d)
	})
}

// ToggleCornerNote is ToggleCenterNote for the corner notes.
func (e *Editor) ToggleCornerNote(d int) {
	if d < 1 || d > e.size {
		return
	}
	e.apply(func(idx int) {
		e.corner.toggle(idx, d)
	})
}

// ClearCenterNotes empties the center notes of every unlocked
// target cell.
func (e *Editor) ClearCenterNotes() {
	e.apply(func(idx int) {
		e.center[idx] = 0
	})
}

// ClearCornerNotes empties the corner notes of every unlocked
// target cell.
func (e *Editor) ClearCornerNotes() {
	e.apply(func(idx int) {
		e.corner[idx] = 0
	})
}

// AnnotateColor toggles a color tag on every unlocked target
// cell, each cell independently.  Unknown color names are
// ignored (the payload format only carries the registered
// colors).
func (e *Editor) AnnotateColor(color string) {
	if _, ok := colorCodes[color]; !ok {
		return
	}
	e.apply(func(idx int) {
		e.colors.toggle(idx, color)
	})
}

// AnnotateClear removes every color tag from every unlocked
// target cell.
func (e *Editor) AnnotateClear() {
	e.apply(func(idx int) {
		e.colors[idx] = nil
	})
}

// Reset clears the user values, both note cubes, and the color
// tags of the whole board, regardless of the selection.  Presets
// stay, the selection stays, and the history is not cleared (a
// reset is an undoable step like any other).
func (e *Editor) Reset() {
	for i := range e.user {
		e.user[i] = 0
		e.center[i] = 0
		e.corner[i] = 0
		e.colors[i] = nil
	}
	e.recordSnapshot()
}

/*

Preset loading

*/

// LoadPreset replaces the preset grid and restarts the session
// around it: user values, notes, and colors clear, the selection
// clears, and the history resets with the fresh board as its
// baseline.  The values slice must hold size*size values in
// reading order, each in [0, size].
func (e *Editor) LoadPreset(values []int) error {
	if len(values) != e.size*e.size {
		return Error{
			Scope:     ArgumentScope,
			Structure: AttributeValueStructure,
			Attribute: PresetGridAttribute,
			Condition: WrongLengthCondition,
			Values:    ErrorData{e.size * e.size, len(values)},
		}
	}
	for _, v := range values {
		if v < 0 || v > e.size {
			return rangeError(ValueAttribute, v, 0, e.size)
		}
	}
	size, meta := e.size, e.meta
	e.init(size)
	e.meta = meta
	copy(e.preset, values)
	return nil
}
