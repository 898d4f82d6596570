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

// Command-line client for sgrid editing sessions
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/dotmark/sgrid.go/grid"
	"github.com/dotmark/sgrid.go/storage"
)

func main() {
	// establish storage connections
	if _, _, err := storage.Connect(); err != nil {
		log.Printf("Storage failure: %v", err)
		shutdown(startupFailureShutdown)
	}
	defer storage.Close()

	// catch signals
	shutdownOnSignal()

	// serve
	err := listener(os.Stdout, os.Stdin)
	if err != nil {
		log.Printf("CLI failure: %v", err)
		shutdown(listenerFailureShutdown)
	}
}

/*

CLI listener

*/

type request struct {
	inline  string
	command string
	args    []string
}

// listener reads lines and dispatches them to handlers
func listener(out io.Writer, in io.Reader) error {
	// if we are on a terminal, we do prompting
	// (see http://stackoverflow.com/questions/22744443/ for source)
	prompt := false
	if f, ok := out.(*os.File); ok {
		if stat, _ := f.Stat(); (stat.Mode() & os.ModeCharDevice) != 0 {
			prompt = true
		}
	}

	input := make([]byte, 4096)
	for {
		if prompt {
			fmt.Fprintf(out, "sgrid> ")
		}
		n, err := in.Read(input)
		switch err {
		case nil:
			r := &request{inline: strings.Trim(string(input[:n]), " \t\r\n")}
			args := strings.Split(r.inline, " ")
			r.command = strings.ToLower(args[0])
			switch r.command {
			case "":
				continue
			case "quit":
				fallthrough
			case "exit":
				return nil
			}
			// args keep their case: payloads and color names are
			// case-sensitive
			for _, arg := range args[1:] {
				if len(arg) > 0 {
					r.args = append(r.args, arg)
				}
			}
			dispatchCommand(out, r)
		case io.EOF:
			// ignore any input before the EOF
			if prompt {
				fmt.Fprintf(out, " (EOF)\n")
			}
			return nil
		default:
			if prompt {
				fmt.Fprintf(out, " (read error)\n")
			}
			return err
		}
	}
}

// command dispatching
type commandInfo struct {
	command     string
	argInfo     string
	description string
	handler     func(*storage.Session, io.Writer, *request)
}

// the command dispatch info is sorted for easy usage printing,
// and then hashed for rapid dispatching
var (
	dispatchInfo  []commandInfo
	dispatchTable map[string]*commandInfo
)

func init() {
	dispatchInfo = []commandInfo{
		{"add", "cell...", "add cells to the selection", addHandler},
		{"back", "", "go back one saved step", backHandler},
		{"color", "name|clear", "toggle a color on the targets", colorHandler},
		{"conflicts", "", "list rule conflicts on the board", conflictsHandler},
		{"digit", "value", "enter a value in the targets (0 clears)", digitHandler},
		{"drop", "cell...", "remove cells from the selection", dropHandler},
		{"escape", "", "clear selection and current cell", escapeHandler},
		{"export", "", "print the board as a payload string", exportHandler},
		{"import", "payload", "replace the board from a payload string", importHandler},
		{"move", "up|down|left|right", "move the current cell", moveHandler},
		{"note", "center|corner value", "toggle a note on the targets", noteHandler},
		{"puzzles", "", "list the puzzle catalog", puzzlesHandler},
		{"redo", "", "redo an undone change", redoHandler},
		{"reset", "[puzzleID]", "reset this or another puzzle", stateHandler},
		{"select", "cell...", "select exactly the named cells", selectHandler},
		{"session", "[sessionID]", "get/set session info", summaryHandler},
		{"state", "", "show the current board", stateHandler},
		{"undo", "", "undo the last change", undoHandler},
	}
	dispatchTable = make(map[string]*commandInfo, len(dispatchInfo))
	for i := range dispatchInfo {
		dispatchTable[dispatchInfo[i].command] = &dispatchInfo[i]
	}
}

func dispatchCommand(w io.Writer, r *request) {
	defer func() {
		if err := recover(); err != nil {
			errorHandler(err, w, r)
		}
	}()

	session := sessionSelect(w, r)
	ci := dispatchTable[r.command]
	if ci == nil {
		usageHandler(fmt.Sprintf("%q is not a known command", r.command), w, r)
		return
	}
	before := session.Editor.Export()
	ci.handler(session, w, r)
	if after := session.Editor.Export(); after != before && storage.Connected() {
		session.AddStep()
	}
}

/*

selection handlers

*/

// parseCell reads a cell reference of the form "b3": row letter,
// column number, both one-based the way the state display prints
// them.
func parseCell(session *storage.Session, arg string) (grid.Cell, error) {
	arg = strings.ToLower(arg)
	size := session.Editor.Size()
	if len(arg) < 2 {
		return grid.Cell{}, fmt.Errorf("cell %q is too short", arg)
	}
	row := int(arg[0] - 'a')
	if row < 0 || row >= size {
		return grid.Cell{}, fmt.Errorf("cell %q row is out of range", arg)
	}
	col, err := strconv.Atoi(arg[1:])
	if err != nil {
		return grid.Cell{}, fmt.Errorf("cell %q column is not a number", arg)
	}
	if col < 1 || col > size {
		return grid.Cell{}, fmt.Errorf("cell %q column is out of range", arg)
	}
	return grid.Cell{Row: row, Col: col - 1}, nil
}

// click: one complete pointer gesture on a single cell.
func click(e *grid.Editor, c grid.Cell, mods grid.Modifiers) {
	e.PointerDown(c, mods)
	e.PointerUp()
}

func selectHandler(session *storage.Session, w io.Writer, r *request) {
	if len(r.args) == 0 {
		usageHandler(fmt.Sprintf("%s requires at least one cell", r.command), w, r)
		return
	}
	// rect shorthand: two cells joined by a colon
	if len(r.args) == 1 && strings.Contains(r.args[0], ":") {
		corners := strings.SplitN(r.args[0], ":", 2)
		from, err := parseCell(session, corners[0])
		if err == nil {
			var to grid.Cell
			to, err = parseCell(session, corners[1])
			if err == nil {
				e := session.Editor
				e.PointerDown(from, grid.Modifiers{Shift: true})
				e.PointerMove(to)
				e.PointerUp()
				stateHandler(session, w, r)
				return
			}
		}
		usageHandler(err.Error(), w, r)
		return
	}
	for i, arg := range r.args {
		c, err := parseCell(session, arg)
		if err != nil {
			usageHandler(err.Error(), w, r)
			return
		}
		// first cell starts a fresh selection, the rest join it
		click(session.Editor, c, grid.Modifiers{Ctrl: i > 0})
	}
	stateHandler(session, w, r)
}

func addHandler(session *storage.Session, w io.Writer, r *request) {
	if len(r.args) == 0 {
		usageHandler(fmt.Sprintf("%s requires at least one cell", r.command), w, r)
		return
	}
	for _, arg := range r.args {
		c, err := parseCell(session, arg)
		if err != nil {
			usageHandler(err.Error(), w, r)
			return
		}
		if session.Editor.Selection().Selected(c) {
			continue
		}
		click(session.Editor, c, grid.Modifiers{Ctrl: true})
	}
	stateHandler(session, w, r)
}

func dropHandler(session *storage.Session, w io.Writer, r *request) {
	if len(r.args) == 0 {
		usageHandler(fmt.Sprintf("%s requires at least one cell", r.command), w, r)
		return
	}
	for _, arg := range r.args {
		c, err := parseCell(session, arg)
		if err != nil {
			usageHandler(err.Error(), w, r)
			return
		}
		if !session.Editor.Selection().Selected(c) {
			continue
		}
		click(session.Editor, c, grid.Modifiers{Ctrl: true})
	}
	stateHandler(session, w, r)
}

func moveHandler(session *storage.Session, w io.Writer, r *request) {
	if len(r.args) != 1 {
		usageHandler(fmt.Sprintf("%s requires a direction", r.command), w, r)
		return
	}
	switch strings.ToLower(r.args[0]) {
	case "up":
		session.Editor.MoveCurrent(-1, 0)
	case "down":
		session.Editor.MoveCurrent(1, 0)
	case "left":
		session.Editor.MoveCurrent(0, -1)
	case "right":
		session.Editor.MoveCurrent(0, 1)
	default:
		usageHandler(fmt.Sprintf("unknown direction %q", r.args[0]), w, r)
		return
	}
	stateHandler(session, w, r)
}

func escapeHandler(session *storage.Session, w io.Writer, r *request) {
	session.Editor.ClearSelection()
	stateHandler(session, w, r)
}

/*

entry handlers

*/

func digitHandler(session *storage.Session, w io.Writer, r *request) {
	if len(r.args) != 1 {
		usageHandler(fmt.Sprintf("%s requires a value", r.command), w, r)
		return
	}
	v, err := strconv.Atoi(r.args[0])
	if err != nil || v < 0 || v > session.Editor.Size() {
		usageHandler(fmt.Sprintf("%s value (%s) must be 0 to %d",
			r.command, r.args[0], session.Editor.Size()), w, r)
		return
	}
	session.Editor.SetDigit(v)
	stateHandler(session, w, r)
}

func noteHandler(session *storage.Session, w io.Writer, r *request) {
	if len(r.args) == 1 && strings.ToLower(r.args[0]) == "clear" {
		session.Editor.ClearCenterNotes()
		session.Editor.ClearCornerNotes()
		stateHandler(session, w, r)
		return
	}
	if len(r.args) != 2 {
		usageHandler(fmt.Sprintf("%s requires a kind and a value", r.command), w, r)
		return
	}
	v, err := strconv.Atoi(r.args[1])
	if err != nil || v < 1 || v > session.Editor.Size() {
		usageHandler(fmt.Sprintf("%s value (%s) must be 1 to %d",
			r.command, r.args[1], session.Editor.Size()), w, r)
		return
	}
	switch strings.ToLower(r.args[0]) {
	case "center":
		session.Editor.ToggleCenterNote(v)
	case "corner":
		session.Editor.ToggleCornerNote(v)
	default:
		usageHandler(fmt.Sprintf("%s kind must be 'center' or 'corner'", r.command), w, r)
		return
	}
	stateHandler(session, w, r)
}

func colorHandler(session *storage.Session, w io.Writer, r *request) {
	if len(r.args) != 1 {
		usageHandler(fmt.Sprintf("%s requires a color name, one of: %s",
			r.command, strings.Join(grid.KnownColors(), " ")), w, r)
		return
	}
	name := strings.ToLower(r.args[0])
	if name == "clear" {
		session.Editor.AnnotateClear()
		stateHandler(session, w, r)
		return
	}
	if !grid.IsKnownColor(name) {
		usageHandler(fmt.Sprintf("unknown color %q, try one of: %s",
			name, strings.Join(grid.KnownColors(), " ")), w, r)
		return
	}
	session.Editor.AnnotateColor(name)
	stateHandler(session, w, r)
}

/*

history and board handlers

*/

func undoHandler(session *storage.Session, w io.Writer, r *request) {
	if !session.Editor.Undo() {
		fmt.Fprintf(w, "Nothing to undo.\n")
		return
	}
	stateHandler(session, w, r)
}

func redoHandler(session *storage.Session, w io.Writer, r *request) {
	if !session.Editor.Redo() {
		fmt.Fprintf(w, "Nothing to redo.\n")
		return
	}
	stateHandler(session, w, r)
}

func backHandler(session *storage.Session, w io.Writer, r *request) {
	session.RemoveStep()
	stateHandler(session, w, r)
}

func exportHandler(session *storage.Session, w io.Writer, r *request) {
	fmt.Fprintf(w, "%s\n", session.Editor.Export())
}

func importHandler(session *storage.Session, w io.Writer, r *request) {
	if len(r.args) != 1 {
		usageHandler(fmt.Sprintf("%s requires a payload string", r.command), w, r)
		return
	}
	if err := session.Editor.Import(r.args[0]); err != nil {
		fmt.Fprintf(w, "Import failed: %v\n", err)
		return
	}
	stateHandler(session, w, r)
}

func stateHandler(session *storage.Session, w io.Writer, r *request) {
	fmt.Fprintf(w, "%s%s", session.Editor.ValuesString(true), session.Editor.ConflictsString())
}

func conflictsHandler(session *storage.Session, w io.Writer, r *request) {
	if s := session.Editor.ConflictsString(); s == "" {
		fmt.Fprintf(w, "No conflicts.\n")
	} else {
		fmt.Fprintf(w, "%s", s)
	}
}

func puzzlesHandler(session *storage.Session, w io.Writer, r *request) {
	for _, info := range storage.ListPuzzles() {
		marker := " "
		if info.PuzzleId == session.PID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-16s %2dx%-2d %s\n",
			marker, info.PuzzleId, info.SideLength, info.SideLength, info.Name)
	}
}

func summaryHandler(session *storage.Session, w io.Writer, r *request) {
	fmt.Fprintf(w, "Session %q editing puzzle %q on step %d\n",
		session.SID, session.PID, session.Step)
	e := session.Editor
	filled, locked := 0, 0
	for ri := 0; ri < e.Size(); ri++ {
		for ci := 0; ci < e.Size(); ci++ {
			c := grid.Cell{Row: ri, Col: ci}
			if e.Locked(c) {
				locked++
			} else if e.User(c) != 0 {
				filled++
			}
		}
	}
	fmt.Fprintf(w, "Side length: %d; Preset squares: %d; Entered squares: %d\n",
		e.Size(), locked, filled)
	if m := e.Metadata(); m.Title != "" {
		fmt.Fprintf(w, "Title: %s\n", m.Title)
	}
}

func usageHandler(msg string, w io.Writer, r *request) {
	fmt.Fprintf(w, "Error: %s\nUsage:\n", msg)
	for _, ci := range dispatchInfo {
		fmt.Fprintf(w, "    %9s %-20s\t%s\n", ci.command, ci.argInfo, ci.description)
	}
	fmt.Fprintf(w, "  and 'quit' or EOF to exit.\n")
}

func errorHandler(err interface{}, w io.Writer, r *request) {
	fmt.Fprintf(w, "Panic executing %q: %v\n", r.inline, err)
	log.Printf("Server error executing %q: %v\n", r.inline, err)
}

/*

session handling

*/

// cookie for the command line
var defaultCookie string

// getCookie gets the session cookie, or sets a new one.  It
// returns the session ID associated with the cookie.
func getCookie(w io.Writer, r *request) string {
	// look to see if the user is specifying a cookie
	if r.command == "session" && len(r.args) > 0 {
		defaultCookie = r.args[0]
	}

	// look for an existing session cookie
	if len(defaultCookie) != 0 {
		return defaultCookie
	}

	// no session cookie: start a new session with a new ID
	sid := storage.NewSessionID()
	log.Printf("No session cookie found, created new session ID %q", sid)
	defaultCookie = sid
	return sid
}

// the session under edit.  It is cached across commands so that
// the selection, the current cell, and the undo history survive
// from one input line to the next; only a "session" command
// naming a different ID forces a reload from storage.
var activeSession *storage.Session

// sessionSelect: find or load the session for the current
// connection.  Bare "reset" rewinds the step trail; "reset pid"
// switches the session to another puzzle.
func sessionSelect(w io.Writer, r *request) *storage.Session {
	id := getCookie(w, r)
	if activeSession == nil || activeSession.SID != id {
		activeSession = storage.LoadSession(id)
	}
	session := activeSession
	if r.command == "reset" {
		if len(r.args) > 0 {
			session.StartPuzzle(r.args[0])
		} else {
			session.RemoveAllSteps()
		}
	}
	return session
}

/*

coordinate shutdown across goroutines and top-level listener

*/

type shutdownCause int

const (
	unknownShutdown = iota
	startupFailureShutdown
	caughtSignalShutdown
	listenerFailureShutdown
)

// for testing, allow alternate forms of shutdown
var alternateShutdown func(reason shutdownCause)

// shutdown: process exit with logging.
func shutdown(reason shutdownCause) {
	storage.Close()

	// for testing: run alternateShutdown instead, if defined
	if alternateShutdown != nil {
		alternateShutdown(reason)
		panic(reason) // shouldn't get here
	}

	// log reason for shutdown and exit
	switch reason {
	case unknownShutdown:
		log.Fatal("Exiting: normal shutdown.")
	case startupFailureShutdown:
		log.Fatal("Exiting: initialization failure.")
	case caughtSignalShutdown:
		log.Fatal("Exiting: caught signal.")
	case listenerFailureShutdown:
		log.Fatal("Exiting: listener failed.")
	default:
		log.Fatal("Exiting: unknown cause.")
	}
}

// shutdownOnSignal: catch signals and exit.
func shutdownOnSignal() {
	// based on example in os.signal godoc
	c := make(chan os.Signal, 1)
	signal.Notify(c) // die on all signals

	go func() {
		s := <-c
		log.Printf("Received OS-level signal: %v", s)
		shutdown(caughtSignalShutdown)
	}()
}
