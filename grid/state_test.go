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

Target resolution

*/

func TestTargetsPreferSelection(t *testing.T) {
	e := editor9(t)
	runDrag(e, Modifiers{}, Cell{2, 1}, Cell{0, 3})
	// targets come back in reading order regardless of the
	// order cells were selected in
	want := []Cell{{0, 3}, {2, 1}}
	if got := e.targets(); !reflect.DeepEqual(got, want) {
		t.Errorf("Targets %v, expected %v", got, want)
	}
}

func TestTargetsFallBackToCurrent(t *testing.T) {
	e := editor9(t)
	runDrag(e, Modifiers{}, Cell{4, 4})
	// erase the selection but keep a current cell by hand; the
	// invariant normally forbids this, so poke the fields
	e.sel.clear()
	e.current = &Cell{4, 4}
	want := []Cell{{4, 4}}
	if got := e.targets(); !reflect.DeepEqual(got, want) {
		t.Errorf("Targets %v, expected %v", got, want)
	}
}

func TestNoTargetsNoEffect(t *testing.T) {
	e := editor9(t)
	e.SetDigit(5)
	for i := range e.user {
		if e.user[i] != 0 {
			t.Fatalf("SetDigit with no targets wrote to cell %d", i)
		}
	}
	if e.HistoryLength() != 0 {
		t.Errorf("No-target operation recorded history")
	}
}

/*

Editing operations

*/

func TestSetDigitOverSelection(t *testing.T) {
	e := editor9(t)
	runDrag(e, Modifiers{}, Cell{0, 0}, Cell{0, 1})
	e.SetDigit(7)
	if e.User(Cell{0, 0}) != 7 || e.User(Cell{0, 1}) != 7 {
		t.Errorf("SetDigit(7) gave values %d and %d, expected 7 and 7",
			e.User(Cell{0, 0}), e.User(Cell{0, 1}))
	}
	e.SetDigit(0)
	if e.User(Cell{0, 0}) != 0 || e.User(Cell{0, 1}) != 0 {
		t.Errorf("SetDigit(0) did not clear the cells")
	}
}

func TestSetDigitOutOfRange(t *testing.T) {
	e := editor9(t)
	runDrag(e, Modifiers{}, Cell{0, 0})
	e.SetDigit(10)
	e.SetDigit(-1)
	if e.User(Cell{0, 0}) != 0 {
		t.Errorf("Out-of-range digit was written")
	}
}

func TestToggleNotes(t *testing.T) {
	e := editor9(t)
	runDrag(e, Modifiers{}, Cell{1, 1})
	e.ToggleCenterNote(3)
	if got := e.CenterNotes(Cell{1, 1}); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("Center notes %v, expected [3]", got)
	}
	e.ToggleCenterNote(3)
	if got := e.CenterNotes(Cell{1, 1}); got != nil {
		t.Errorf("Center notes %v after double toggle, expected none", got)
	}
	// center and corner are independent
	e.ToggleCornerNote(5)
	if got := e.CenterNotes(Cell{1, 1}); got != nil {
		t.Errorf("Corner toggle leaked into center notes: %v", got)
	}
	if got := e.CornerNotes(Cell{1, 1}); !reflect.DeepEqual(got, []int{5}) {
		t.Errorf("Corner notes %v, expected [5]", got)
	}
}

func TestToggleNotesPerCell(t *testing.T) {
	e := editor9(t)
	// (0,0) already has note 2; (0,1) doesn't.  Toggling over
	// both flips each cell on its own.
	runDrag(e, Modifiers{}, Cell{0, 0})
	e.ToggleCenterNote(2)
	runDrag(e, Modifiers{}, Cell{0, 0}, Cell{0, 1})
	e.ToggleCenterNote(2)
	if got := e.CenterNotes(Cell{0, 0}); got != nil {
		t.Errorf("Notes at (0,0) are %v, expected none", got)
	}
	if got := e.CenterNotes(Cell{0, 1}); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("Notes at (0,1) are %v, expected [2]", got)
	}
}

func TestToggleNoteOutOfRange(t *testing.T) {
	e := editor9(t)
	runDrag(e, Modifiers{}, Cell{0, 0})
	e.ToggleCenterNote(0)
	e.ToggleCenterNote(10)
	e.ToggleCornerNote(-3)
	if e.center[0] != 0 || e.corner[0] != 0 {
		t.Errorf("Out-of-range note digits were recorded")
	}
	if e.HistoryLength() != 0 {
		t.Errorf("No-op note toggles recorded history")
	}
}

func TestClearNotes(t *testing.T) {
	e := editor9(t)
	runDrag(e, Modifiers{}, Cell{2, 2})
	e.ToggleCenterNote(1)
	e.ToggleCenterNote(4)
	e.ToggleCornerNote(9)
	e.ClearCenterNotes()
	if got := e.CenterNotes(Cell{2, 2}); got != nil {
		t.Errorf("Center notes %v after clear, expected none", got)
	}
	if got := e.CornerNotes(Cell{2, 2}); !reflect.DeepEqual(got, []int{9}) {
		t.Errorf("Clearing center notes touched corner notes: %v", got)
	}
	e.ClearCornerNotes()
	if got := e.CornerNotes(Cell{2, 2}); got != nil {
		t.Errorf("Corner notes %v after clear, expected none", got)
	}
}

func TestColorToggleAndOrder(t *testing.T) {
	e := editor9(t)
	runDrag(e, Modifiers{}, Cell{3, 3})
	e.AnnotateColor("red")
	e.AnnotateColor("blue")
	if got := e.Colors(Cell{3, 3}); !reflect.DeepEqual(got, []string{"red", "blue"}) {
		t.Errorf("Colors %v, expected [red blue] in application order", got)
	}
	// toggling an applied color removes it, keeping the rest in
	// order
	e.AnnotateColor("red")
	if got := e.Colors(Cell{3, 3}); !reflect.DeepEqual(got, []string{"blue"}) {
		t.Errorf("Colors %v after removing red, expected [blue]", got)
	}
	e.AnnotateColor("nonesuch")
	if got := e.Colors(Cell{3, 3}); !reflect.DeepEqual(got, []string{"blue"}) {
		t.Errorf("Unknown color changed the cell: %v", got)
	}
	e.AnnotateClear()
	if got := e.Colors(Cell{3, 3}); got != nil {
		t.Errorf("Colors %v after clear, expected none", got)
	}
}

/*

Locked cells

*/

func lockCell(t *testing.T, e *Editor, c Cell, v int) {
	t.Helper()
	values := make([]int, e.size*e.size)
	values[c.index(e.size)] = v
	if err := e.LoadPreset(values); err != nil {
		t.Fatalf("LoadPreset: %v", err)
	}
}

func TestLockedCellsNeverChange(t *testing.T) {
	e := editor9(t)
	lockCell(t, e, Cell{0, 0}, 6)
	runDrag(e, Modifiers{}, Cell{0, 0}, Cell{0, 1})
	e.SetDigit(3)
	e.ToggleCenterNote(2)
	e.ToggleCornerNote(2)
	e.AnnotateColor("green")
	locked := Cell{0, 0}
	if e.User(locked) != 0 || e.center[0] != 0 || e.corner[0] != 0 || len(e.colors[0]) != 0 {
		t.Errorf("A locked cell was modified: user %d, center %x, corner %x, colors %v",
			e.User(locked), e.center[0], e.corner[0], e.colors[0])
	}
	// the unlocked neighbor got everything
	open := Cell{0, 1}
	if e.User(open) != 3 {
		t.Errorf("Unlocked cell value %d, expected 3", e.User(open))
	}
	if len(e.Colors(open)) != 1 {
		t.Errorf("Unlocked cell colors %v, expected [green]", e.Colors(open))
	}
}

func TestDisplayRule(t *testing.T) {
	e := editor9(t)
	lockCell(t, e, Cell{0, 0}, 6)
	runDrag(e, Modifiers{}, Cell{1, 0})
	e.SetDigit(2)
	if got := e.Display(Cell{0, 0}); got != 6 {
		t.Errorf("Display of preset cell is %d, expected 6", got)
	}
	if got := e.Display(Cell{1, 0}); got != 2 {
		t.Errorf("Display of user cell is %d, expected 2", got)
	}
	if got := e.Display(Cell{2, 0}); got != 0 {
		t.Errorf("Display of empty cell is %d, expected 0", got)
	}
}

/*

Reset

*/

func TestResetClearsBoardNotHistory(t *testing.T) {
	e := editor9(t)
	lockCell(t, e, Cell{8, 8}, 1)
	runDrag(e, Modifiers{}, Cell{0, 0}, Cell{0, 1})
	e.SetDigit(7)
	e.ToggleCenterNote(3)
	e.AnnotateColor("red")
	length := e.HistoryLength()
	e.Reset()
	for i := range e.user {
		if e.user[i] != 0 || e.center[i] != 0 || e.corner[i] != 0 || len(e.colors[i]) != 0 {
			t.Fatalf("Reset left data at cell %d", i)
		}
	}
	if e.Preset(Cell{8, 8}) != 1 {
		t.Errorf("Reset cleared a preset")
	}
	if e.HistoryLength() != length+1 {
		t.Errorf("Reset recorded %d history entries, expected one more than %d",
			e.HistoryLength(), length)
	}
	// reset is undoable like any other step
	if !e.Undo() {
		t.Fatalf("Undo after reset failed")
	}
	if e.User(Cell{0, 0}) != 7 {
		t.Errorf("Undo after reset restored value %d, expected 7", e.User(Cell{0, 0}))
	}
}

/*

Resize

*/

func TestResizeResetsEverything(t *testing.T) {
	e := editor9(t)
	runDrag(e, Modifiers{}, Cell{0, 0})
	e.SetDigit(5)
	if err := e.Resize(4); err != nil {
		t.Fatalf("Resize(4): %v", err)
	}
	if e.Size() != 4 {
		t.Errorf("Size %d after resize, expected 4", e.Size())
	}
	if e.Selection().Any() {
		t.Errorf("Selection survived a resize")
	}
	if _, ok := e.Current(); ok {
		t.Errorf("Current survived a resize")
	}
	if e.HistoryLength() != 0 {
		t.Errorf("History survived a resize")
	}
	if e.Undo() {
		t.Errorf("Undo succeeded on a fresh board")
	}
	if err := e.Resize(1); err == nil {
		t.Errorf("Resize(1) was accepted")
	}
}

/*

The selection emptiness invariant

*/

func TestEmptinessInvariant(t *testing.T) {
	e := editor9(t)
	// a tour of selection-mutating sequences; after each one,
	// empty selection must mean no current cell and empty stack
	sequences := []func(){
		func() { runDrag(e, Modifiers{}, Cell{1, 1}) },
		func() { runDrag(e, Modifiers{Ctrl: true}, Cell{1, 1}) },
		func() { runDrag(e, Modifiers{Shift: true}, Cell{0, 0}, Cell{2, 2}) },
		func() { e.ClearSelection() },
		func() { e.MoveCurrent(1, 1) },
		func() {
			runDrag(e, Modifiers{}, Cell{5, 5})
			runDrag(e, Modifiers{Ctrl: true}, Cell{5, 5})
		},
	}
	for i, seq := range sequences {
		seq()
		if !e.Selection().Any() {
			if _, ok := e.Current(); ok {
				t.Errorf("Sequence %d: empty selection but a current cell", i)
			}
			if len(e.sel.stack) != 0 {
				t.Errorf("Sequence %d: empty selection but stack %v", i, e.sel.stack)
			}
		}
	}
}
