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

Selections

A Selection is a boolean membership matrix over the board plus an
ordered "stack" of the selected cells.  The matrix answers "is
this cell selected" in constant time; the stack remembers the
order cells were selected in, which is only ever consulted to
pick a new current cell when the current one gets deselected.
The two structures are kept in lockstep by the methods here.

*/

// A Selection is the set of cells an editing operation will
// apply to, plus the order they were selected in.
type Selection struct {
	size  int
	cells []bool // row-major membership matrix
	stack []Cell // selected cells in selection order
}

// newSelection creates an empty selection for a board with the
// given side length.
func newSelection(size int) *Selection {
	return &Selection{size: size, cells: make([]bool, size*size)}
}

// Selected reports whether a cell is in the selection.  Cells
// off the board are never selected.
func (s *Selection) Selected(c Cell) bool {
	return c.in(s.size) && s.cells[c.index(s.size)]
}

// Any reports whether any cell at all is selected.
func (s *Selection) Any() bool {
	return len(s.stack) > 0
}

// Count returns the number of selected cells.
func (s *Selection) Count() int {
	return len(s.stack)
}

// Stack returns the selected cells in selection order.  The
// returned slice doesn't share storage with the selection.
func (s *Selection) Stack() []Cell {
	return append([]Cell(nil), s.stack...)
}

// RowMajor returns the selected cells in reading order,
// independent of the order they were selected in.
func (s *Selection) RowMajor() []Cell {
	cells := make([]Cell, 0, len(s.stack))
	for i, on := range s.cells {
		if on {
			cells = append(cells, Cell{i / s.size, i % s.size})
		}
	}
	return cells
}

/*

Mutation

These are the only places the matrix and the stack change, so
they are the only places that have to keep them consistent.

*/

// add puts a cell into the selection.  Returns false if the cell
// was already selected (or is off the board), in which case
// nothing changes.
func (s *Selection) add(c Cell) bool {
	if !c.in(s.size) || s.cells[c.index(s.size)] {
		return false
	}
	s.cells[c.index(s.size)] = true
	s.stack = append(s.stack, c)
	return true
}

// remove takes a cell out of the selection.  Returns false if
// the cell wasn't selected, in which case nothing changes.
func (s *Selection) remove(c Cell) bool {
	if !c.in(s.size) || !s.cells[c.index(s.size)] {
		return false
	}
	s.cells[c.index(s.size)] = false
	for i, sc := range s.stack {
		if sc == c {
			s.stack = append(s.stack[:i], s.stack[i+1:]...)
			break
		}
	}
	return true
}

// stackIndex finds a cell's position in the selection stack, or
// -1 if it isn't there.
func (s *Selection) stackIndex(c Cell) int {
	for i, sc := range s.stack {
		if sc == c {
			return i
		}
	}
	return -1
}

// clear empties the selection.
func (s *Selection) clear() {
	for i := range s.cells {
		s.cells[i] = false
	}
	s.stack = s.stack[:0]
}

// setRect replaces the whole selection with the axis-aligned
// rectangle spanned by two corner cells (inclusive).  The stack
// is rebuilt in reading order, which is fine: rectangle
// selections never erase their own current cell, so the stack
// order is never consulted during one.
func (s *Selection) setRect(a, b Cell) {
	s.clear()
	r0, r1 := minmax(a.Row, b.Row)
	c0, c1 := minmax(a.Col, b.Col)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			s.add(Cell{r, c})
		}
	}
}

// single collapses the selection to exactly one cell.
func (s *Selection) single(c Cell) {
	s.clear()
	s.add(c)
}

func minmax(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

/*

The emptiness invariant

*/

// normalize enforces the selection emptiness invariant on the
// editor: a board with no selected cells has no current cell and
// an empty stack.  Called after every selection mutation, not
// just at gesture end.
func (e *Editor) normalize() {
	if !e.sel.Any() {
		e.sel.stack = e.sel.stack[:0]
		e.current = nil
	}
}
