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

package storage

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/dotmark/sgrid.go/catalog"
	"github.com/dotmark/sgrid.go/grid"
)

/*

setup

*/

// requireStorage - connect, or skip when the backing services
// aren't reachable
func requireStorage(t *testing.T) {
	t.Helper()
	if _, _, err := Connect(); err != nil {
		t.Skipf("Couldn't connect to storage: %v", err)
	}
}

func TestConnect(t *testing.T) {
	requireStorage(t)
	defer Close()
	if rdUrl == "" || pgUrl == "" {
		t.Errorf("Connected with empty cache (%q) or database (%q) URL", rdUrl, pgUrl)
	}
}

/*

catalog entries

*/

func TestLoadPuzzleEntry(t *testing.T) {
	requireStorage(t)
	defer Close()

	pe := loadPuzzleEntry(catalog.DefaultPuzzleID)
	if pe == nil {
		t.Fatalf("No entry for the default puzzle %q", catalog.DefaultPuzzleID)
	}
	if pe.Name == "" || pe.Payload == "" {
		t.Errorf("Default entry is incomplete: %+v", pe)
	}
	e := pe.makeEditor()
	if e.Size() != pe.size() {
		t.Errorf("Entry editor size %d, payload size %d", e.Size(), pe.size())
	}

	// the second load should come from the cache
	pe2 := loadPuzzleEntry(catalog.DefaultPuzzleID)
	if pe2 == nil || pe2.Payload != pe.Payload {
		t.Errorf("Cached entry differs from database entry")
	}

	if pe := loadPuzzleEntry("no such puzzle anywhere"); pe != nil {
		t.Errorf("Entry for an unknown puzzle: %+v", pe)
	}
}

func TestListPuzzles(t *testing.T) {
	requireStorage(t)
	defer Close()

	infos := ListPuzzles()
	if len(infos) == 0 {
		t.Fatalf("Catalog lists no puzzles")
	}
	found := false
	for _, info := range infos {
		if info.PuzzleId == catalog.DefaultPuzzleID {
			found = true
		}
		if info.SideLength < grid.MinSize || info.SideLength > grid.MaxSize {
			t.Errorf("Listed puzzle %q has size %d", info.PuzzleId, info.SideLength)
		}
	}
	if !found {
		t.Errorf("Default puzzle %q not listed", catalog.DefaultPuzzleID)
	}
}

func TestBySize(t *testing.T) {
	infos := []PuzzleInfo{
		{PuzzleId: "c", Name: "Charlie", SideLength: 9},
		{PuzzleId: "a", Name: "Alpha", SideLength: 4},
		{PuzzleId: "b", Name: "Bravo", SideLength: 9},
	}
	sort.Sort(BySize(infos))
	ids := []string{infos[0].PuzzleId, infos[1].PuzzleId, infos[2].PuzzleId}
	if ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Errorf("Sorted order is %v, expected size then name", ids)
	}
}

/*

operations on a single session

*/

func TestSessionLifecycle(t *testing.T) {
	requireStorage(t)
	defer Close()

	sid := fmt.Sprintf("storage test session %d", time.Now().UnixNano())
	ts := LoadSession(sid)
	if ts.PID != catalog.DefaultPuzzleID {
		t.Errorf("Fresh session is on puzzle %q, expected the default", ts.PID)
	}
	if ts.Step != 1 || ts.Editor == nil {
		t.Fatalf("Fresh session step %d, editor %v", ts.Step, ts.Editor)
	}

	// edit a free cell and record the step
	var free grid.Cell
	e := ts.Editor
found:
	for r := 0; r < e.Size(); r++ {
		for c := 0; c < e.Size(); c++ {
			if !e.Locked(grid.Cell{Row: r, Col: c}) {
				free = grid.Cell{Row: r, Col: c}
				break found
			}
		}
	}
	e.PointerDown(free, grid.Modifiers{})
	e.PointerUp()
	e.SetDigit(1)
	ts.AddStep()
	if ts.Step != 2 {
		t.Errorf("Session step %d after add, expected 2", ts.Step)
	}

	// a reloaded session comes back at the same step with the edit
	rs := LoadSession(sid)
	if rs.Step != 2 || rs.PID != ts.PID {
		t.Errorf("Reloaded session step %d pid %q, expected 2 and %q", rs.Step, rs.PID, ts.PID)
	}
	if rs.Editor.User(free) != 1 {
		t.Errorf("Reloaded editor lost the edit at %v", free)
	}

	// removing the step restores the starting board
	rs.RemoveStep()
	if rs.Step != 1 {
		t.Errorf("Session step %d after remove, expected 1", rs.Step)
	}
	if rs.Editor.User(free) != 0 {
		t.Errorf("Removed step left a value at %v", free)
	}
	// removing past the first step is a no-op
	rs.RemoveStep()
	if rs.Step != 1 {
		t.Errorf("Remove underflowed to step %d", rs.Step)
	}
}

func TestRemoveAllSteps(t *testing.T) {
	requireStorage(t)
	defer Close()

	sid := fmt.Sprintf("storage test session %d", time.Now().UnixNano())
	ts := LoadSession(sid)
	ts.Editor.PointerDown(grid.Cell{Row: 0, Col: 1}, grid.Modifiers{})
	ts.Editor.PointerUp()
	for i := 1; i <= 3; i++ {
		ts.Editor.SetDigit(i)
		ts.AddStep()
	}
	if ts.Step != 4 {
		t.Fatalf("Session step %d after three adds, expected 4", ts.Step)
	}
	ts.RemoveAllSteps()
	if ts.Step != 1 {
		t.Errorf("Session step %d after reset, expected 1", ts.Step)
	}
	// idempotent
	ts.RemoveAllSteps()
	if ts.Step != 1 {
		t.Errorf("Reset underflowed to step %d", ts.Step)
	}
}

func TestStartPuzzleSwitching(t *testing.T) {
	requireStorage(t)
	defer Close()

	sid := fmt.Sprintf("storage test session %d", time.Now().UnixNano())
	ts := LoadSession(sid)

	// switch to every cataloged puzzle and back
	for _, info := range ListPuzzles() {
		ts.StartPuzzle(info.PuzzleId)
		if ts.PID != info.PuzzleId || ts.Size != info.SideLength {
			t.Errorf("Switched session is on %q size %d, expected %q size %d",
				ts.PID, ts.Size, info.PuzzleId, info.SideLength)
		}
		if ts.Step != 1 {
			t.Errorf("Switched session starts at step %d", ts.Step)
		}
	}

	// an unknown puzzle falls back to the default
	ts.StartPuzzle("this is not an actual puzzle id!!")
	if ts.PID != catalog.DefaultPuzzleID {
		t.Errorf("Unknown puzzle left the session on %q", ts.PID)
	}
}

/*

multiple, concurrent sessions

*/

const (
	clientCount = 4
	stepCount   = 3
)

func TestSessionIsolation(t *testing.T) {
	requireStorage(t)
	defer Close()

	// Each client works its own session through the same edits.
	// Interference shows up as wrong step counts or values.
	ch := make(chan int, clientCount)
	base := time.Now().UnixNano()
	for i := 0; i < clientCount; i++ {
		go func(id int) {
			sid := fmt.Sprintf("isolation test session %d-%d", base, id)
			for s := 1; s <= stepCount; s++ {
				ts := LoadSession(sid)
				if ts.Step != s {
					t.Errorf("Client %d at step %d, expected %d", id, ts.Step, s)
				}
				ts.Editor.PointerDown(grid.Cell{Row: 0, Col: 1}, grid.Modifiers{})
				ts.Editor.PointerUp()
				ts.Editor.SetDigit(id + 1)
				ts.AddStep()
			}
			ts := LoadSession(sid)
			if ts.Editor.User(grid.Cell{Row: 0, Col: 1}) != id+1 {
				t.Errorf("Client %d sees someone else's digit", id)
			}
			ch <- id
		}(i)
	}
	for i := 0; i < clientCount; i++ {
		<-ch
	}
}
