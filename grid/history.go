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

History

The history is a flat list of SG1 snapshots with a cursor, not a
tree: editing after an undo truncates the redo tail on purpose.
Snapshots are compared as strings, so an operation that leaves
the board exactly where it was (toggling a note twice, say) adds
nothing.  A suppress counter keeps replay and import from
recording themselves.

*/

// historyLimit caps the number of retained snapshots.  When the
// log outgrows it, the oldest entries fall off the front.
const historyLimit = 200

// A historyLog is a bounded snapshot list plus a cursor into it.
// cursor == -1 means the log is empty.
type historyLog struct {
	snaps    []string
	cursor   int
	suppress int
}

// record adds a snapshot at the cursor, dropping any redo tail
// and trimming the front if the log is over capacity.  Returns
// false without changing anything while recording is suppressed
// or when the snapshot equals the one at the cursor.
func (h *historyLog) record(snap string) bool {
	if h.suppress > 0 {
		return false
	}
	if h.cursor >= 0 && h.snaps[h.cursor] == snap {
		return false
	}
	h.snaps = append(h.snaps[:h.cursor+1], snap)
	h.cursor = len(h.snaps) - 1
	if over := len(h.snaps) - historyLimit; over > 0 {
		h.snaps = h.snaps[over:]
		h.cursor -= over
	}
	return true
}

// undo steps the cursor back and returns the snapshot to
// restore.  Fails when there is nothing before the cursor.
func (h *historyLog) undo() (string, bool) {
	if h.cursor <= 0 {
		return "", false
	}
	h.cursor--
	return h.snaps[h.cursor], true
}

// redo steps the cursor forward and returns the snapshot to
// restore.  Fails when there is nothing after the cursor.
func (h *historyLog) redo() (string, bool) {
	if h.cursor >= len(h.snaps)-1 {
		return "", false
	}
	h.cursor++
	return h.snaps[h.cursor], true
}

// length returns the number of retained snapshots.
func (h *historyLog) length() int {
	return len(h.snaps)
}

/*

Editor integration

*/

// recordSnapshot serializes the undo-relevant board state and
// offers it to the history.  Called after every committed
// mutation; the dedup in record keeps no-op triggers out.
func (e *Editor) recordSnapshot() {
	if e.history.suppress > 0 {
		return // don't bother encoding
	}
	e.history.record(e.snapshot())
}

// HistoryLength returns the number of snapshots the history
// currently retains.
func (e *Editor) HistoryLength() int {
	return e.history.length()
}

// Undo restores the previous snapshot.  Returns false when there
// is no earlier snapshot to restore.
func (e *Editor) Undo() bool {
	snap, ok := e.history.undo()
	if !ok {
		return false
	}
	e.restore(snap)
	return true
}

// Redo restores the next snapshot.  Returns false when there is
// no later snapshot to restore.
func (e *Editor) Redo() bool {
	snap, ok := e.history.redo()
	if !ok {
		return false
	}
	e.restore(snap)
	return true
}

// restore replaces the user values, notes, and colors from a
// snapshot the history produced earlier.  Presets are constant
// for the life of a session, so they are left alone.  The
// history only ever replays its own snapshots, but decode
// defensively anyway; a corrupt snapshot leaves the board
// untouched.
func (e *Editor) restore(snap string) {
	e.history.suppress++
	defer func() { e.history.suppress-- }()
	st, err := decodePayload(snap)
	if err != nil || st.size != e.size {
		return
	}
	copy(e.user, st.user)
	copy(e.center, st.center)
	copy(e.corner, st.corner)
	copy(e.colors, st.colors)
}
