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
	"fmt"
)

/*

Print forms of cell values

*/

var (
	valueStrings = []string{
		" ", "1", "2", "3", "4", "5", "6", "7", "8", "9",
		"A", "B", "C", "D", "E", "F", "G", "H", "I", "J",
		"K", "L", "M", "N", "O", "P", "Q", "R", "S", "T",
		"U", "V", "W", "X", "Y", "Z",
	}
	nonValueString = "?"
	bigValueString = "!"
)

func vstr(i int) string {
	if i < 0 {
		return nonValueString
	}
	if i < len(valueStrings) {
		return valueStrings[i]
	}
	return bigValueString
}

/*

Pretty-printed boards in strings, for the CLI and debugging.

*/

// String gives a pretty-printed view of the board.
func (e *Editor) String() string {
	return e.ValuesString(true)
}

// ValuesString returns a pretty-printed grid of the board's
// display values.  If showAnnotations is specified, empty cells
// additionally show a mark when they carry notes or colors: "·"
// for an unannotated empty cell, "+" for notes, "*" for colors,
// "#" for both.  Preset cells print in brackets so a glance
// tells locked from entered.
func (e *Editor) ValuesString(showAnnotations bool) (result string) {
	if e == nil {
		return
	}
	size, tileX, tileY := e.size, e.geometry.tileX, e.geometry.tileY
	// first put out the header
	result += " "
	for i := 0; i < size; i++ {
		if tileX > 0 && i%tileX == 0 {
			result += "|"
		} else {
			result += " "
		}
		result += fmt.Sprintf("%2d ", i+1)
	}
	result += "\n"
	// next are the rows, including the separator at the top
	for ri, rowhdr := 0, 'a'; ri < size; ri, rowhdr = ri+1, rowhdr+1 {
		if tileY > 0 && ri%tileY == 0 {
			result += " "
			for i := 0; i < size; i++ {
				result += "+---"
			}
			result += "\n"
		}
		result += string(rowhdr)
		for ci := 0; ci < size; ci++ {
			c := Cell{ri, ci}
			if tileX > 0 && ci%tileX == 0 {
				result += "|"
			} else {
				result += " "
			}
			switch {
			case e.Preset(c) != 0:
				result += fmt.Sprintf("[%s]", vstr(e.Preset(c)))
			case e.User(c) != 0:
				result += fmt.Sprintf(" %s ", vstr(e.User(c)))
			case showAnnotations:
				result += fmt.Sprintf(" %s ", annotationMark(e, c))
			default:
				result += " · "
			}
		}
		result += "\n"
	}
	return
}

func annotationMark(e *Editor, c Cell) string {
	idx := c.index(e.size)
	notes := e.center[idx] != 0 || e.corner[idx] != 0
	colors := len(e.colors[idx]) > 0
	switch {
	case notes && colors:
		return "#"
	case notes:
		return "+"
	case colors:
		return "*"
	}
	return "·"
}

// ConflictsString lists the board's conflicts, one per line, or
// returns the empty string when there are none.
func (e *Editor) ConflictsString() (result string) {
	if e == nil {
		return
	}
	conflicts := e.Conflicts()
	if len(conflicts) == 0 {
		return
	}
	if len(conflicts) > 1 {
		result += fmt.Sprintf("Conflicts (%d):\n", len(conflicts))
		for i, c := range conflicts {
			result += fmt.Sprintf("  #%d: %v appears %d times in %v\n",
				i+1, vstr(c.Value), len(c.Cells), c.Region)
		}
	} else {
		c := conflicts[0]
		result += fmt.Sprintf("Conflict: %v appears %d times in %v\n",
			vstr(c.Value), len(c.Cells), c.Region)
	}
	return
}
