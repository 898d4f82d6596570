// Copyright 2024-2025 the sgrid authors.  All rights reserved.

// Package grid provides the state engine for an annotatable,
// Sudoku-style puzzle grid and operations on it.  It supports
// both a golang interface and a web interface to the editor.
//
// In this package, boards are made of cells which are either
// empty (represented with a 0 value) or have a value between 1
// and 35 (inclusive).  Cells are designated by zero-based row
// and column, rows running top to bottom and columns left to
// right.  A board of side length N carries four layers of cell
// data: the preset values supplied by the puzzle (never editable
// by the user), the values the user has entered, two independent
// sets of small-digit notes per cell (center and corner, which
// differ only in where a client renders them), and an ordered
// list of color tags per cell.
//
// Editing is driven by a selection: a set of cells plus at most
// one "current" cell.  Every mutating operation applies to the
// selected cells if there are any, otherwise to the current
// cell, otherwise to nothing.  Cells with a preset value are
// locked and are silently skipped by every operation.
//
// The full board state round-trips through a single delimited
// text payload (the SG1 format, see the codec), which is also
// the snapshot format of the built-in undo/redo history.
package grid

/*

Cells

*/

// A Cell addresses one square of the board by zero-based row and
// column.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// index converts a cell to its row-major slice index for a board
// of the given side length.
func (c Cell) index(size int) int {
	return c.Row*size + c.Col
}

// in reports whether the cell lies on a board of the given side
// length.
func (c Cell) in(size int) bool {
	return c.Row >= 0 && c.Row < size && c.Col >= 0 && c.Col < size
}

/*

The Editor

*/

// An Editor is one editing session over one board.  It owns the
// board grids, the selection, and the undo/redo history, and it
// exposes every operation a client needs to drive an editing
// surface: gesture interpretation, digit and annotation entry,
// import/export, and undo/redo.
//
// An Editor is not safe for concurrent use.  All mutations are
// synchronous; the only heavyweight work (metadata compression)
// happens inside Export/Import and never blocks an edit.
type Editor struct {
	size     int
	geometry *boardGeometry
	preset   []int
	user     []int
	center   noteCube
	corner   noteCube
	colors   colorGrid
	sel      *Selection
	current  *Cell
	drag     *drag
	history  *historyLog
	meta     Metadata
}

// NewEditor creates an empty editor for a board with the given
// side length.  Side lengths from 2 through 35 are supported;
// anything else returns an error (35 is the largest value a
// single base-36 payload character can carry).
func NewEditor(size int) (*Editor, error) {
	if size < MinSize || size > MaxSize {
		return nil, rangeError(BoardSizeAttribute, size, MinSize, MaxSize)
	}
	e := &Editor{}
	e.init(size)
	return e, nil
}

// Board size limits.  The upper limit comes from the payload
// format: cell values and the per-cell color count are single
// base-36 characters.
const (
	MinSize = 2
	MaxSize = 35
)

// init resets every grid, the selection, and the history for the
// given side length.  Used by NewEditor and Resize.
func (e *Editor) init(size int) {
	count := size * size
	e.size = size
	e.geometry = boardGeometryFor(size)
	e.preset = make([]int, count)
	e.user = make([]int, count)
	e.center = newNoteCube(size)
	e.corner = newNoteCube(size)
	e.colors = newColorGrid(size)
	e.sel = newSelection(size)
	e.current = nil
	e.drag = nil
	e.history = &historyLog{cursor: -1}
	e.meta = Metadata{}
}

// Size returns the board's side length.
func (e *Editor) Size() int {
	return e.size
}

// Resize throws away the whole session and starts over with a
// board of the given side length: every grid becomes empty, the
// selection clears, and the history resets.  Callers that want
// to keep the old board should Export before resizing.
func (e *Editor) Resize(size int) error {
	if size < MinSize || size > MaxSize {
		return rangeError(BoardSizeAttribute, size, MinSize, MaxSize)
	}
	e.init(size)
	return nil
}

/*

Read access for rendering

*/

// Preset returns the preset value at a cell (0 for none).  Cells
// off the board read as 0.
func (e *Editor) Preset(c Cell) int {
	if !c.in(e.size) {
		return 0
	}
	return e.preset[c.index(e.size)]
}

// User returns the user-entered value at a cell (0 for none).
func (e *Editor) User(c Cell) int {
	if !c.in(e.size) {
		return 0
	}
	return e.user[c.index(e.size)]
}

// Display returns the value a renderer should show at a cell:
// the preset value if there is one, else the user value, else 0.
func (e *Editor) Display(c Cell) int {
	if v := e.Preset(c); v != 0 {
		return v
	}
	return e.User(c)
}

// Locked reports whether a cell has a preset value and is
// therefore immune to every editing operation.
func (e *Editor) Locked(c Cell) bool {
	return e.Preset(c) != 0
}

// CenterNotes returns the center-note digits present at a cell,
// in increasing order.
func (e *Editor) CenterNotes(c Cell) []int {
	if !c.in(e.size) {
		return nil
	}
	return e.center.digits(c.index(e.size), e.size)
}

// CornerNotes returns the corner-note digits present at a cell,
// in increasing order.
func (e *Editor) CornerNotes(c Cell) []int {
	if !c.in(e.size) {
		return nil
	}
	return e.corner.digits(c.index(e.size), e.size)
}

// Colors returns the color tags at a cell in the order they were
// applied.  The returned slice doesn't share storage with the
// board.
func (e *Editor) Colors(c Cell) []string {
	if !c.in(e.size) {
		return nil
	}
	return append([]string(nil), e.colors[c.index(e.size)]...)
}

// Selection returns the editor's selection.  The returned value
// is live: it changes as gestures run.  Renderers should treat
// it as read-only.
func (e *Editor) Selection() *Selection {
	return e.sel
}

// Current returns the current cell and whether there is one.
func (e *Editor) Current() (Cell, bool) {
	if e.current == nil {
		return Cell{}, false
	}
	return *e.current, true
}

// Metadata returns the title/rules metadata carried by the last
// imported payload (or set by SetMetadata).
func (e *Editor) Metadata() Metadata {
	return e.meta
}

// SetMetadata attaches title/rules metadata to the board.  The
// metadata travels in exported payloads but is not part of the
// undo history.
func (e *Editor) SetMetadata(m Metadata) {
	e.meta = m
}
