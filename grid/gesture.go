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

Gestures

A drag starts at pointer-down, visits cells at pointer-move, and
ends at pointer-up.  The modifier keys at pointer-down fix the
drag's mode for its whole lifetime:

  - ctrl (or the platform's equivalent) held: the drag edits the
    existing selection.  It erases if the down-cell was already
    selected, otherwise it adds.
  - shift held (without ctrl): the drag selects the rectangle
    between the down-cell and the pointer, recomputed from
    scratch on every move.
  - no modifiers: a fresh stroke; the old selection is discarded
    and the drag paints a new one.

Paint drags track the cells they have visited so that a pointer
wobbling back and forth toggles each cell at most once.  The
tracking struct below lives exactly as long as its drag.

*/

// Modifiers carries the modifier-key flags of a pointer-down
// event.  Ctrl stands in for whatever the platform's additive
// selection key is (command on macs).
type Modifiers struct {
	Ctrl  bool `json:"ctrl"`
	Shift bool `json:"shift"`
}

// dragMode is the gesture interpretation fixed at pointer-down.
type dragMode int

const (
	paintAdd dragMode = iota
	paintErase
	rectSelect
)

// A drag is the per-gesture scratch state: the mode, the anchor
// and most recent cells, and the visited set for paint modes.
type drag struct {
	mode    dragMode
	origin  Cell
	last    Cell
	visited []bool
}

/*

Pointer events

*/

// PointerDown starts a drag at a cell.  Events for cells off the
// board are ignored.
func (e *Editor) PointerDown(c Cell, mods Modifiers) {
	if !c.in(e.size) {
		return
	}
	d := &drag{origin: c, last: c, visited: make([]bool, e.size*e.size)}
	switch {
	case mods.Ctrl:
		// edit the existing selection; erase vs add is decided
		// by the pre-drag membership of the down-cell
		if e.sel.Selected(c) {
			d.mode = paintErase
		} else {
			d.mode = paintAdd
		}
	case mods.Shift:
		d.mode = rectSelect
	default:
		d.mode = paintAdd
		e.sel.clear()
	}
	e.drag = d
	e.visit(c)
	e.normalize()
}

// PointerMove extends the active drag to a cell.  Without an
// active drag, or for cells off the board, it does nothing.
func (e *Editor) PointerMove(c Cell) {
	if e.drag == nil || !c.in(e.size) {
		return
	}
	e.drag.last = c
	e.visit(c)
	e.normalize()
}

// PointerUp ends the active drag.  For add and rectangle drags
// the last visited cell becomes current; erase drags have kept
// the current cell adjusted all along.
func (e *Editor) PointerUp() {
	d := e.drag
	if d == nil {
		return
	}
	e.drag = nil
	if d.mode == paintAdd || d.mode == rectSelect {
		last := d.last
		e.current = &last
	}
	e.normalize()
}

// PointerLeave abandons the active drag without the usual
// pointer-up bookkeeping.  The selection keeps whatever the drag
// did so far.
func (e *Editor) PointerLeave() {
	e.drag = nil
	e.normalize()
}

// visit applies the active drag to one cell.  Rectangle drags
// recompute the whole selection; paint drags toggle each cell
// the first time the pointer reaches it and ignore revisits.
func (e *Editor) visit(c Cell) {
	d := e.drag
	if d.mode == rectSelect {
		e.sel.setRect(d.origin, c)
		return
	}
	if d.visited[c.index(e.size)] {
		return
	}
	d.visited[c.index(e.size)] = true
	if d.mode == paintAdd {
		e.sel.add(c)
		return
	}
	e.erase(c)
}

// erase removes a cell from the selection and, when the cell was
// current, promotes its predecessor in selection order (or the
// stack's new last entry if it had no predecessor).
func (e *Editor) erase(c Cell) {
	wasCurrent := e.current != nil && *e.current == c
	idx := e.sel.stackIndex(c)
	if !e.sel.remove(c) {
		return
	}
	if !wasCurrent {
		return
	}
	stack := e.sel.stack
	switch {
	case len(stack) == 0:
		e.current = nil
	case idx > 0:
		prev := stack[idx-1]
		e.current = &prev
	default:
		last := stack[len(stack)-1]
		e.current = &last
	}
}

/*

Keyboard events

*/

// MoveCurrent moves the current cell one step in a cardinal
// direction, clamped at the board edges, and collapses the
// selection to that single cell.  With no current cell the top
// left corner becomes current.
func (e *Editor) MoveCurrent(dRow, dCol int) {
	c := Cell{0, 0}
	if e.current != nil {
		c = *e.current
	}
	c.Row = clamp(c.Row+dRow, 0, e.size-1)
	c.Col = clamp(c.Col+dCol, 0, e.size-1)
	e.sel.single(c)
	e.current = &c
	e.normalize()
}

// ClearSelection drops the selection, the current cell, and any
// active drag.  This is the Escape key.
func (e *Editor) ClearSelection() {
	e.drag = nil
	e.sel.clear()
	e.current = nil
	e.normalize()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
