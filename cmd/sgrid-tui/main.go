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

// Terminal editor for sgrid boards.  Runs against a local board
// with full mouse support: drag to select, ctrl-drag to add or
// erase, shift-drag for rectangles.
package main

import (
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"github.com/dotmark/sgrid.go/grid"
)

func main() {
	size := pflag.Int("size", 9, "board side length")
	payload := pflag.String("payload", "", "board payload string to start from")
	pflag.Parse()

	boardSize := *size
	if *payload != "" {
		var err error
		boardSize, err = grid.PayloadSize(*payload)
		if err != nil {
			log.Fatalf("Bad payload: %v", err)
		}
	}
	e, err := grid.NewEditor(boardSize)
	if err != nil {
		log.Fatalf("Can't create a %dx%d board: %v", boardSize, boardSize, err)
	}
	if *payload != "" {
		if err := e.Import(*payload); err != nil {
			log.Fatalf("Bad payload: %v", err)
		}
	}

	program := tea.NewProgram(newModel(e), tea.WithAltScreen(), tea.WithMouseAllMotion())
	final, err := program.Run()
	if err != nil {
		log.Fatalf("Editor failed: %v", err)
	}
	// print the final board payload so the session can be resumed
	if m, ok := final.(model); ok {
		fmt.Println(m.editor.Export())
	}
}

/*

model

*/

// entryMode selects what a digit key does.
type entryMode int

const (
	valueEntry entryMode = iota
	centerEntry
	cornerEntry
)

type model struct {
	editor *grid.Editor
	mode   entryMode
	status string
}

func newModel(e *grid.Editor) model {
	return model{editor: e, status: "drag to select, digits to enter, ? for help"}
}

func (m model) Init() tea.Cmd {
	return nil
}

/*

update

*/

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.editor
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up":
		e.MoveCurrent(-1, 0)
	case "down":
		e.MoveCurrent(1, 0)
	case "left":
		e.MoveCurrent(0, -1)
	case "right":
		e.MoveCurrent(0, 1)
	case "esc":
		e.ClearSelection()
	case "backspace", "delete":
		e.SetDigit(0)
	case "v":
		m.mode = valueEntry
		m.status = "digit keys enter values"
	case "c":
		m.mode = centerEntry
		m.status = "digit keys toggle center notes"
	case "o":
		m.mode = cornerEntry
		m.status = "digit keys toggle corner notes"
	case "u":
		if e.Undo() {
			m.status = "undone"
		} else {
			m.status = "nothing to undo"
		}
	case "y":
		if e.Redo() {
			m.status = "redone"
		} else {
			m.status = "nothing to redo"
		}
	case "x":
		e.AnnotateClear()
		m.status = "colors cleared"
	case "e":
		m.status = e.Export()
	case "?":
		m.status = "arrows move | esc clears | v/c/o entry mode | " +
			"1-9 a-z enter | u undo | y redo | e export | q quit"
	default:
		if d, ok := keyDigit(key, e.Size()); ok {
			switch m.mode {
			case valueEntry:
				e.SetDigit(d)
			case centerEntry:
				e.ToggleCenterNote(d)
			case cornerEntry:
				e.ToggleCornerNote(d)
			}
		}
	}
	return m, nil
}

// keyDigit maps a key name to a cell value: "1"-"9" directly,
// then letters continue where digits leave off ("a" is 10).  Keys
// bound to commands above never reach here.
func keyDigit(key string, size int) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	ch := key[0]
	var d int
	switch {
	case ch == '0':
		return 0, true
	case ch >= '1' && ch <= '9':
		d = int(ch - '0')
	case ch >= 'a' && ch <= 'z':
		d = int(ch-'a') + 10
	default:
		return 0, false
	}
	if d > size {
		return 0, false
	}
	return d, true
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonNone {
		return
	}
	c, ok := m.cellAt(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if ok {
			m.editor.PointerDown(c, grid.Modifiers{Ctrl: msg.Ctrl, Shift: msg.Shift})
		}
	case tea.MouseActionMotion:
		if ok {
			m.editor.PointerMove(c)
		}
	case tea.MouseActionRelease:
		m.editor.PointerUp()
	}
}

/*

view

*/

// board layout constants, shared by rendering and mouse mapping
const (
	boardLeft  = 2 // columns before the first cell
	boardTop   = 1 // rows before the first cell (title line)
	cellWidth  = 3
	cellHeight = 1
)

// cellAt maps terminal coordinates to a board cell.
func (m model) cellAt(x, y int) (grid.Cell, bool) {
	size := m.editor.Size()
	row := (y - boardTop) / cellHeight
	col := (x - boardLeft) / cellWidth
	if y < boardTop || x < boardLeft || row >= size || col >= size {
		return grid.Cell{}, false
	}
	return grid.Cell{Row: row, Col: col}, true
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	lockedStyle   = lipgloss.NewStyle().Bold(true)
	enteredStyle  = lipgloss.NewStyle()
	noteStyle     = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("24"))
	currentStyle  = lipgloss.NewStyle().Background(lipgloss.Color("33")).Bold(true)
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	shadedStyle   = lipgloss.NewStyle().Background(lipgloss.Color("236"))
	statusStyle   = lipgloss.NewStyle().Faint(true)
)

func (m model) View() string {
	e := m.editor
	size := e.Size()
	_, tileX, tileY := tileDimensions(size)

	// cells in conflict get flagged
	inConflict := make(map[grid.Cell]bool)
	for _, conflict := range e.Conflicts() {
		for _, c := range conflict.Cells {
			inConflict[c] = true
		}
	}
	current, hasCurrent := e.Current()

	var b strings.Builder
	title := fmt.Sprintf("sgrid %dx%d", size, size)
	if t := e.Metadata().Title; t != "" {
		title += ": " + t
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	for ri := 0; ri < size; ri++ {
		b.WriteString(fmt.Sprintf("%c ", 'a'+ri))
		for ci := 0; ci < size; ci++ {
			c := grid.Cell{Row: ri, Col: ci}
			b.WriteString(m.renderCell(c, tileX, tileY, inConflict,
				hasCurrent && c == current))
		}
		b.WriteString("\n")
	}
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	return b.String()
}

func (m model) renderCell(c grid.Cell, tileX, tileY int, inConflict map[grid.Cell]bool, isCurrent bool) string {
	e := m.editor

	text := " · "
	style := enteredStyle
	switch {
	case e.Display(c) != 0:
		text = fmt.Sprintf(" %s ", valueRune(e.Display(c)))
		if e.Locked(c) {
			style = lockedStyle
		}
	case len(e.CenterNotes(c)) > 0 || len(e.CornerNotes(c)) > 0:
		text = " + "
		style = noteStyle
	}

	switch {
	case isCurrent:
		style = style.Background(currentStyle.GetBackground())
	case e.Selection().Selected(c):
		style = style.Background(selectedStyle.GetBackground())
	case tileX > 0 && (c.Row/tileY+c.Col/tileX)%2 == 0:
		style = style.Background(shadedStyle.GetBackground())
	}
	if inConflict[c] {
		style = style.Foreground(conflictStyle.GetForeground())
	}
	return style.Render(text)
}

// valueRune gives the one-character print form of a value, with
// letters carrying on past 9.
func valueRune(v int) string {
	if v <= 9 {
		return fmt.Sprintf("%d", v)
	}
	return string(rune('A' + v - 10))
}

// tileDimensions splits a side length into tile dimensions the
// same way the board's own region geometry does: square tiles
// for a perfect square, wide tiles for a product of consecutive
// integers (the 2x3 style of 6-boards), otherwise no tiling.
func tileDimensions(size int) (ok bool, tileX, tileY int) {
	for root := 2; root*root <= size; root++ {
		if root*root == size {
			return true, root, root
		}
	}
	for low, high := 2, 3; low*high <= size; low, high = high, high+1 {
		if low*high == size {
			return true, high, low
		}
	}
	return false, 0, 0
}
