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
	"encoding/json"
	"fmt"
	"net/http"
)

/*

RESTful wrappers

The handlers here wrap the Editor operations for web clients.
Each one decodes a small JSON request body, runs the operation,
and responds with either the requested data or the full client
state (clients redraw from the state after every edit).  The
error plumbing follows the same three-way contract as writeJSON
below.

*/

/*

Reading state

*/

// ClientState is the full renderable state of an editor, shaped
// for JSON transmission to web clients.  Grids are flat,
// row-major, one entry per cell.
type ClientState struct {
	Size      int        `json:"size"`
	Preset    []int      `json:"preset"`
	User      []int      `json:"user"`
	Center    [][]int    `json:"center"`
	Corner    [][]int    `json:"corner"`
	Colors    [][]string `json:"colors"`
	Selected  []Cell     `json:"selected,omitempty"`
	Current   *Cell      `json:"current,omitempty"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
	Metadata  Metadata   `json:"metadata,omitempty"`
}

// clientState collects the full client state of the editor.  The
// result shares no storage with the editor.
func (e *Editor) clientState() ClientState {
	count := e.size * e.size
	st := ClientState{
		Size:     e.size,
		Preset:   append([]int(nil), e.preset...),
		User:     append([]int(nil), e.user...),
		Center:   make([][]int, count),
		Corner:   make([][]int, count),
		Colors:   make([][]string, count),
		Metadata: e.meta,
	}
	for i := 0; i < count; i++ {
		st.Center[i] = e.center.digits(i, e.size)
		st.Corner[i] = e.corner.digits(i, e.size)
		st.Colors[i] = append([]string(nil), e.colors[i]...)
	}
	if e.sel.Any() {
		st.Selected = e.sel.RowMajor()
	}
	if c, ok := e.Current(); ok {
		st.Current = &c
	}
	st.Conflicts = e.Conflicts()
	return st
}

// StateHandler responds with the editor's full client state.
func (e *Editor) StateHandler(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(e.clientState(), http.StatusOK, w, r)
}

// ExportHandler responds with the board's SG1 payload.
func (e *Editor) ExportHandler(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(struct {
		Payload string `json:"payload"`
	}{e.Export()}, http.StatusOK, w, r)
}

/*

Selection events

*/

// A GestureEvent is one pointer event translated to board
// coordinates by the client.
type GestureEvent struct {
	Phase string    `json:"phase"` // "down", "move", "up", "leave"
	Cell  Cell      `json:"cell"`
	Mods  Modifiers `json:"mods"`
}

// GestureHandler is a POST handler that feeds one pointer event
// to the gesture controller and responds with the client state.
func (e *Editor) GestureHandler(w http.ResponseWriter, r *http.Request) error {
	var ev GestureEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		return writeError(requestDecodingError, ErrorData{err.Error()}, w, r)
	}
	switch ev.Phase {
	case "down":
		e.PointerDown(ev.Cell, ev.Mods)
	case "move":
		e.PointerMove(ev.Cell)
	case "up":
		e.PointerUp()
	case "leave":
		e.PointerLeave()
	default:
		return writeError(requestDecodingError,
			ErrorData{fmt.Sprintf("Unknown gesture phase %q", ev.Phase)}, w, r)
	}
	return e.StateHandler(w, r)
}

// A KeyEvent is one keyboard event the client chose to forward.
type KeyEvent struct {
	Key string `json:"key"` // "up", "down", "left", "right", "escape"
}

// KeyHandler is a POST handler that feeds one navigation key to
// the editor and responds with the client state.
func (e *Editor) KeyHandler(w http.ResponseWriter, r *http.Request) error {
	var ev KeyEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		return writeError(requestDecodingError, ErrorData{err.Error()}, w, r)
	}
	switch ev.Key {
	case "up":
		e.MoveCurrent(-1, 0)
	case "down":
		e.MoveCurrent(1, 0)
	case "left":
		e.MoveCurrent(0, -1)
	case "right":
		e.MoveCurrent(0, 1)
	case "escape":
		e.ClearSelection()
	default:
		return writeError(requestDecodingError,
			ErrorData{fmt.Sprintf("Unknown key %q", ev.Key)}, w, r)
	}
	return e.StateHandler(w, r)
}

/*

Editing operations

*/

// An Entry is a digit-entry request: which value to write into
// the targeted cells (0 clears them).
type Entry struct {
	Value int `json:"value"`
}

// DigitHandler is a POST handler that writes a digit into the
// targeted cells and responds with the client state.
func (e *Editor) DigitHandler(w http.ResponseWriter, r *http.Request) error {
	var entry Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		return writeError(requestDecodingError, ErrorData{err.Error()}, w, r)
	}
	e.SetDigit(entry.Value)
	return e.StateHandler(w, r)
}

// A NoteEntry is a note-toggle request.  Kind picks the note
// cube; Clear empties the targeted cells' sets instead of
// toggling a digit.
type NoteEntry struct {
	Kind  string `json:"kind"` // "center" or "corner"
	Digit int    `json:"digit,omitempty"`
	Clear bool   `json:"clear,omitempty"`
}

// NoteHandler is a POST handler that toggles or clears notes in
// the targeted cells and responds with the client state.
func (e *Editor) NoteHandler(w http.ResponseWriter, r *http.Request) error {
	var entry NoteEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		return writeError(requestDecodingError, ErrorData{err.Error()}, w, r)
	}
	switch {
	case entry.Kind == "center" && entry.Clear:
		e.ClearCenterNotes()
	case entry.Kind == "center":
		e.ToggleCenterNote(entry.Digit)
	case entry.Kind == "corner" && entry.Clear:
		e.ClearCornerNotes()
	case entry.Kind == "corner":
		e.ToggleCornerNote(entry.Digit)
	default:
		return writeError(requestDecodingError,
			ErrorData{fmt.Sprintf("Unknown note kind %q", entry.Kind)}, w, r)
	}
	return e.StateHandler(w, r)
}

// A ColorEntry is a color-toggle request.  Clear removes every
// tag from the targeted cells instead of toggling one.
type ColorEntry struct {
	Color string `json:"color,omitempty"`
	Clear bool   `json:"clear,omitempty"`
}

// ColorHandler is a POST handler that toggles or clears color
// tags on the targeted cells and responds with the client state.
func (e *Editor) ColorHandler(w http.ResponseWriter, r *http.Request) error {
	var entry ColorEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		return writeError(requestDecodingError, ErrorData{err.Error()}, w, r)
	}
	if entry.Clear {
		e.AnnotateClear()
	} else {
		e.AnnotateColor(entry.Color)
	}
	return e.StateHandler(w, r)
}

/*

Session-level operations

*/

// ImportHandler is a POST handler that replaces the board from a
// posted payload.  Invalid or size-mismatched payloads get a 400
// response carrying the structured Error; the board is untouched
// in that case.
func (e *Editor) ImportHandler(w http.ResponseWriter, r *http.Request) error {
	var body struct {
		Payload string `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return writeError(requestDecodingError, ErrorData{err.Error()}, w, r)
	}
	if err := e.Import(body.Payload); err != nil {
		gerr, ok := err.(Error)
		if !ok {
			return writeError(errorFormatError, ErrorData{"ImportHandler", err.Error()}, w, r)
		}
		gerr.Message = gerr.Error()
		return writeJSON(gerr, http.StatusBadRequest, w, r)
	}
	return e.StateHandler(w, r)
}

// UndoHandler is a POST handler that steps the history back and
// responds with the client state plus whether anything happened.
func (e *Editor) UndoHandler(w http.ResponseWriter, r *http.Request) error {
	return e.historyStep(e.Undo(), w, r)
}

// RedoHandler is a POST handler that steps the history forward
// and responds with the client state plus whether anything
// happened.
func (e *Editor) RedoHandler(w http.ResponseWriter, r *http.Request) error {
	return e.historyStep(e.Redo(), w, r)
}

func (e *Editor) historyStep(moved bool, w http.ResponseWriter, r *http.Request) error {
	return writeJSON(struct {
		Moved bool        `json:"moved"`
		State ClientState `json:"state"`
	}{moved, e.clientState()}, http.StatusOK, w, r)
}

// ResetHandler is a POST handler that clears every user entry on
// the board and responds with the client state.
func (e *Editor) ResetHandler(w http.ResponseWriter, r *http.Request) error {
	e.Reset()
	return e.StateHandler(w, r)
}

/*

Utilities

*/

type handlerError int

const (
	requestDecodingError handlerError = iota
	responseEncodingError
	errorFormatError
)

// writeError sends back a server error of the given type, sort
// of like http.Error, but it sends the JSON form of an
// appropriate Error.
func writeError(et handlerError, ed ErrorData,
	w http.ResponseWriter, r *http.Request) error {
	var err Error
	var status int
	switch et {
	case requestDecodingError:
		status = http.StatusBadRequest
		err = Error{
			Scope:     RequestScope,
			Structure: AttributeStructure,
			Attribute: DecodeAttribute,
			Condition: GeneralCondition,
			Values:    ed,
		}
	case responseEncodingError:
		status = http.StatusInternalServerError
		err = Error{
			Scope:     InternalScope,
			Structure: AttributeStructure,
			Attribute: EncodeAttribute,
			Condition: GeneralCondition,
			Values:    ed,
		}
	case errorFormatError:
		status = http.StatusInternalServerError
		err = Error{
			Scope:     InternalScope,
			Structure: AttributeStructure,
			Attribute: LocationAttribute,
			Condition: GeneralCondition,
			Values:    ed,
		}
	default:
		status = http.StatusInternalServerError
		err = Error{
			Scope:     InternalScope,
			Structure: AttributeStructure,
			Attribute: LocationAttribute,
			Condition: GeneralCondition,
			Values: ErrorData{
				"writeError",
				fmt.Sprintf("Unknown handler error type (%v)", et),
			},
		}
	}
	err.Message = err.Error()
	return writeJSON(err, status, w, r)
}

// writeJSON is called by handlers to encode and send the client
// response.  It returns an appropriate error status for the
// handler to return to its caller, as follows:
//
// 1. If writeJSON encounters an encoding error sending the
// response, it will create an Error object describing the
// failure, encode that Error as a 500-series response to the
// client, and return that Error to the handler.
//
// 2. If no encoding error occurs, but the handler is sending an
// Error object as the response to the client, writeJSON will
// return that same Error to the handler.
//
// 3. If no encoding error occurs, and the handler is sending a
// non-Error object as the response to the client, writeJSON will
// return nil to the handler.
func writeJSON(obj interface{}, status int, w http.ResponseWriter, r *http.Request) error {
	err, isErr := obj.(Error)
	bytes, e := json.Marshal(obj)
	if e != nil {
		if isErr && err.Scope == InternalScope && err.Attribute == EncodeAttribute {
			// We just failed to encode an Encoding error.  This
			// should never happen!!  If it did, it almost
			// certainly means that the JSON encoding system is
			// dead, so pseudo-encode the error by hand by
			// returning the Error's summary as a quoted string.
			status = http.StatusInternalServerError // probably was already!
			bytes = []byte(fmt.Sprintf("%q", err.Error()))
		} else {
			// generate, send, and return an encoding error
			return writeError(responseEncodingError, ErrorData{e.Error()}, w, r)
		}
	}
	hs := w.Header()
	hs.Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
	if isErr {
		return err
	}
	return nil
}
