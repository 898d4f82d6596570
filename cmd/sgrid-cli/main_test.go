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
	"bytes"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dotmark/sgrid.go/grid"
	"github.com/dotmark/sgrid.go/storage"
)

/*

offline command parsing

*/

func cliEditor(t *testing.T) *storage.Session {
	t.Helper()
	e, err := grid.NewEditor(9)
	if err != nil {
		t.Fatal(err)
	}
	return &storage.Session{SID: "test", PID: "test", Editor: e}
}

func TestParseCell(t *testing.T) {
	session := cliEditor(t)
	inputs := []string{"a1", "B3", "i9", "e12"}
	rows := []int{0, 1, 8, -1}
	cols := []int{0, 2, 8, -1}
	for i, input := range inputs {
		c, err := parseCell(session, input)
		if rows[i] < 0 {
			if err == nil {
				t.Errorf("parseCell(%q) accepted an out-of-range cell", input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseCell(%q) failed: %v", input, err)
		} else if c.Row != rows[i] || c.Col != cols[i] {
			t.Errorf("parseCell(%q) = %v, expected (%d, %d)", input, c, rows[i], cols[i])
		}
	}
	for _, input := range []string{"", "a", "1a", "aa", "z1", "a0"} {
		if _, err := parseCell(session, input); err == nil {
			t.Errorf("parseCell(%q) accepted garbage", input)
		}
	}
}

func TestDispatchTableComplete(t *testing.T) {
	for _, ci := range dispatchInfo {
		if ci.handler == nil {
			t.Errorf("Command %q has no handler", ci.command)
		}
		if dispatchTable[ci.command] == nil {
			t.Errorf("Command %q not in dispatch table", ci.command)
		}
	}
}

/*

scripted sessions without storage

*/

// seedLocalSession installs a purely in-memory session as the
// active one, so scripts can run with no redis or postgres
// behind them.  Step persistence is skipped while storage is
// disconnected, but the cached editor carries selection and
// history across input lines all the same.
func seedLocalSession(t *testing.T) *storage.Session {
	t.Helper()
	e, err := grid.NewEditor(9)
	if err != nil {
		t.Fatal(err)
	}
	session := &storage.Session{SID: "local-test", PID: "local-test", Editor: e}
	defaultCookie = session.SID
	activeSession = session
	t.Cleanup(func() {
		defaultCookie = ""
		activeSession = nil
	})
	return session
}

func TestSelectionPersistsAcrossCommands(t *testing.T) {
	session := seedLocalSession(t)
	out := runScript(t, "select b1\ndigit 7\nquit\n")
	if got := session.Editor.User(grid.Cell{Row: 1, Col: 0}); got != 7 {
		t.Errorf("Cell b1 has value %d after select+digit:\n%s", got, out)
	}
	if !strings.Contains(out, " 7 ") {
		t.Errorf("Entered digit not shown:\n%s", out)
	}
}

func TestUndoRedoAcrossCommands(t *testing.T) {
	session := seedLocalSession(t)
	b1 := grid.Cell{Row: 1, Col: 0}

	out := runScript(t, "select b1\ndigit 7\ndigit 8\nundo\nquit\n")
	if strings.Contains(out, "Nothing to undo") {
		t.Fatalf("Undo found no history:\n%s", out)
	}
	if got := session.Editor.User(b1); got != 7 {
		t.Errorf("Cell b1 has value %d after undo", got)
	}

	// the cached session survives into the next listener run
	out = runScript(t, "redo\nquit\n")
	if strings.Contains(out, "Nothing to redo") {
		t.Fatalf("Redo found no history:\n%s", out)
	}
	if got := session.Editor.User(b1); got != 8 {
		t.Errorf("Cell b1 has value %d after redo", got)
	}
}

func TestRectSelectionThenEntry(t *testing.T) {
	session := seedLocalSession(t)
	runScript(t, "select a1:b2\nnote center 3\nquit\n")
	if count := session.Editor.Selection().Count(); count != 4 {
		t.Errorf("Rect selected %d cells, expected 4", count)
	}
	for _, c := range session.Editor.Selection().Stack() {
		if notes := session.Editor.CenterNotes(c); len(notes) != 1 || notes[0] != 3 {
			t.Errorf("Cell %v center notes are %v", c, notes)
		}
	}
}

/*

scripted sessions against live storage

*/

type tLogger struct {
	t   *testing.T
	log bytes.Buffer
}

func (t *tLogger) Write(p []byte) (n int, e error) {
	n, e = t.log.Write(p)
	t.t.Log(string(p[:n-1]))
	return
}

func testSetup(t *testing.T) {
	t.Helper()
	// log initialization
	if !testing.Short() {
		log.SetOutput(&tLogger{t: t})
	} else {
		log.SetOutput(os.Stderr)
	}
	// storage initialization
	cacheId, databaseId, err := storage.Connect()
	if err != nil {
		t.Skipf("No live storage for CLI tests: %v", err)
	}
	log.Printf("Connected to cache at %q", cacheId)
	log.Printf("Connected to database at %q", databaseId)
	// each test run gets a fresh session
	defaultCookie = fmt.Sprintf("cli-test-%d", time.Now().UnixNano())
}

func runScript(t *testing.T, script string) string {
	t.Helper()
	in := bytes.NewBufferString(script)
	out := new(bytes.Buffer)
	if err := listener(out, in); err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	return out.String()
}

func TestNullInput(t *testing.T) {
	testSetup(t)
	defer storage.Close()

	null := new(bytes.Buffer)
	err := listener(os.Stdout, null)
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
}

func TestStateScript(t *testing.T) {
	testSetup(t)
	defer storage.Close()

	result := runScript(t, "state\nquit\n")
	if !strings.Contains(result, "+---") {
		t.Errorf("State output has no grid:\n%s", result)
	}
}

func TestEditScript(t *testing.T) {
	testSetup(t)
	defer storage.Close()

	// find an unlocked cell by brute force: on the default 9x9
	// puzzle cell b1 is open
	result := runScript(t, "select b1\ndigit 7\nexport\nquit\n")
	if !strings.Contains(result, " 7 ") {
		t.Errorf("Entered digit not shown:\n%s", result)
	}
	if !strings.Contains(result, "SG1|9|") {
		t.Errorf("Export gave no payload:\n%s", result)
	}

	// going back one saved step should remove the entry again
	result = runScript(t, "back\nquit\n")
	if strings.Contains(result, " 7 ") {
		t.Errorf("Back left the digit in place:\n%s", result)
	}
}

func TestUsageOnGarbage(t *testing.T) {
	testSetup(t)
	defer storage.Close()

	result := runScript(t, "frobnicate\nquit\n")
	if !strings.Contains(result, "Usage:") {
		t.Errorf("Unknown command gave no usage:\n%s", result)
	}
	result = runScript(t, "select z99\nquit\n")
	if !strings.Contains(result, "out of range") {
		t.Errorf("Bad cell gave no error:\n%s", result)
	}
}

func TestResetScript(t *testing.T) {
	testSetup(t)
	defer storage.Close()

	// make an edit, then rewind the step trail
	runScript(t, "select b1\ndigit 7\nquit\n")
	result := runScript(t, "reset\nexport\nquit\n")
	if strings.Contains(result, " 7 ") {
		t.Errorf("Reset left the edit in place:\n%s", result)
	}
}
