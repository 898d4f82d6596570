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
	"strconv"
	"strings"
)

/*

The SG1 payload format

A full board serializes to one line of text: segments joined by
"|", every character base-36 or base64url.  The layout is

  SG1 | size | preset | user | center | corner | colors [| M1f | meta]

size is a base-36 integer.  The two value grids spend exactly one
base-36 character per cell in reading order.  The two note
segments are a one-character cell width followed by size*size
fixed-width chunks, each chunk the zero-padded base-36 form of
the cell's digit bitmask (bit d-1 set means digit d present).
The color segment is a flat run of per-cell entries, each a
one-character count followed by that many single-character color
codes.  The two optional trailing segments carry title/rules
metadata (see metadata.go).

The format is self-describing: the declared size fixes the exact
length of every body segment, and decode checks all of them
before touching any caller state.

*/

// payloadHeader is the version tag of the format.  A new header
// means a new decoder; this one is SG1.
const payloadHeader = "SG1"

// bodySegments is the segment count of a payload without
// metadata: header, size, two value grids, two note cubes,
// colors.
const bodySegments = 7

const base36digits = "0123456789abcdefghijklmnopqrstuvwxyz"

// b36val decodes one base-36 character.  Only the canonical
// lowercase digits are accepted.
func b36val(ch byte) (int, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0'), true
	case ch >= 'a' && ch <= 'z':
		return int(ch-'a') + 10, true
	}
	return 0, false
}

// noteWidth returns the number of base-36 characters needed for
// a digit bitmask of the given board size: the smallest w with
// 36^w - 1 >= 2^size - 1, and never less than 1.
func noteWidth(size int) int {
	width, limit := 1, uint64(36)
	for limit-1 < (uint64(1)<<uint(size))-1 {
		width++
		limit *= 36
	}
	return width
}

// A boardState is the decoded form of a payload: fresh
// containers, no aliasing with any editor.
type boardState struct {
	size    int
	preset  []int
	user    []int
	center  noteCube
	corner  noteCube
	colors  colorGrid
	meta    Metadata
	hasMeta bool
}

/*

Encoding

*/

// encodeValues renders a value grid as one base-36 character per
// cell.  Values above 35 can't be represented and are a hard
// error, never a truncation.
func encodeValues(attr ErrorAttribute, values []int, b *strings.Builder) error {
	for _, v := range values {
		if v < 0 || v > MaxCellValue {
			return encodeError(attr, TooLargeCondition, v, MaxCellValue)
		}
		b.WriteByte(base36digits[v])
	}
	return nil
}

// encodeNotes renders a note cube as its width character plus
// one fixed-width chunk per cell.
func encodeNotes(notes noteCube, size int, b *strings.Builder) {
	width := noteWidth(size)
	b.WriteByte(base36digits[width])
	chunk := make([]byte, width)
	for _, mask := range notes {
		for i := width - 1; i >= 0; i-- {
			chunk[i] = base36digits[mask%36]
			mask /= 36
		}
		b.Write(chunk)
	}
}

// encodeColors renders the color grid as per-cell count+codes
// entries.  A cell with 36 or more tags can't be represented and
// is a hard error (toggle semantics make it unreachable from the
// editor, but the payload rule is checked here regardless).
func encodeColors(colors colorGrid, b *strings.Builder) error {
	for _, list := range colors {
		if len(list) > MaxCellValue {
			return encodeError(ColorsAttribute, TooLargeCondition, len(list), MaxCellValue)
		}
		b.WriteByte(base36digits[len(list)])
		for _, name := range list {
			code, ok := colorCodes[name]
			if !ok {
				return encodeError(ColorAttribute, UnknownColorCondition, name)
			}
			b.WriteByte(code)
		}
	}
	return nil
}

// encodePayload renders a board state as an SG1 payload.  The
// metadata segments are appended only when the state carries
// metadata.
func encodePayload(st *boardState) (string, error) {
	var b strings.Builder
	b.WriteString(payloadHeader)
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(int64(st.size), 36))
	b.WriteByte('|')
	if err := encodeValues(PresetGridAttribute, st.preset, &b); err != nil {
		return "", err
	}
	b.WriteByte('|')
	if err := encodeValues(UserGridAttribute, st.user, &b); err != nil {
		return "", err
	}
	b.WriteByte('|')
	encodeNotes(st.center, st.size, &b)
	b.WriteByte('|')
	encodeNotes(st.corner, st.size, &b)
	b.WriteByte('|')
	if err := encodeColors(st.colors, &b); err != nil {
		return "", err
	}
	if st.hasMeta {
		flag, body := encodeMetadata(st.meta)
		b.WriteByte('|')
		b.WriteString(flag)
		b.WriteByte('|')
		b.WriteString(body)
	}
	return b.String(), nil
}

/*

Decoding

*/

// decodeSegments splits a payload, validates the header and
// segment count, and parses the declared size.  The body is not
// touched, so callers can reject a size mismatch before any body
// decoding happens.
func decodeSegments(payload string) ([]string, int, error) {
	segs := strings.Split(payload, "|")
	if len(segs) < 1 || segs[0] != payloadHeader {
		return nil, 0, payloadError(HeaderAttribute, MissingHeaderCondition)
	}
	if len(segs) < bodySegments {
		return nil, 0, payloadError(SegmentAttribute, WrongSegmentCountCondition, bodySegments, len(segs))
	}
	n, err := strconv.ParseInt(segs[1], 36, 32)
	if err != nil || segs[1] != strings.ToLower(segs[1]) {
		return nil, 0, payloadError(BoardSizeAttribute, NonNumericCondition)
	}
	size := int(n)
	if size < MinSize || size > MaxSize {
		return nil, 0, rangeError(BoardSizeAttribute, size, MinSize, MaxSize)
	}
	return segs, size, nil
}

// decodeValues parses a value grid segment: exactly size*size
// base-36 characters.
func decodeValues(attr ErrorAttribute, seg string, size int) ([]int, error) {
	count := size * size
	if len(seg) != count {
		return nil, payloadError(attr, WrongLengthCondition, count, len(seg))
	}
	values := make([]int, count)
	for i := 0; i < count; i++ {
		v, ok := b36val(seg[i])
		if !ok {
			return nil, payloadError(attr, NonNumericCondition)
		}
		values[i] = v
	}
	return values, nil
}

// decodeNotes parses a note cube segment: a width character and
// size*size chunks of exactly that width.
func decodeNotes(attr ErrorAttribute, seg string, size int) (noteCube, error) {
	if len(seg) == 0 {
		return nil, payloadError(attr, WrongLengthCondition, 1+size*size, 0)
	}
	width, ok := b36val(seg[0])
	if !ok || width < 1 || width > 10 {
		return nil, payloadError(NoteWidthAttribute, BadNoteWidthCondition)
	}
	body := seg[1:]
	if len(body) != size*size*width {
		return nil, payloadError(attr, WrongLengthCondition, size*size*width, len(body))
	}
	notes := newNoteCube(size)
	for i := range notes {
		var mask uint64
		for j := 0; j < width; j++ {
			v, ok := b36val(body[i*width+j])
			if !ok {
				return nil, payloadError(attr, NonNumericCondition)
			}
			mask = mask*36 + uint64(v)
		}
		notes[i] = mask
	}
	return notes, nil
}

// decodeColors parses the color segment: a flat run of count +
// codes entries, one per cell.  Unknown color codes are dropped
// silently (a newer payload may know colors this build doesn't);
// a segment that ends mid-entry or runs long is corrupt.
func decodeColors(seg string, size int) (colorGrid, error) {
	colors := newColorGrid(size)
	pos := 0
	for i := range colors {
		if pos >= len(seg) {
			return nil, payloadError(ColorsAttribute, TruncatedSegmentCondition)
		}
		count, ok := b36val(seg[pos])
		if !ok {
			return nil, payloadError(ColorsAttribute, NonNumericCondition)
		}
		pos++
		if pos+count > len(seg) {
			return nil, payloadError(ColorsAttribute, TruncatedSegmentCondition)
		}
		for j := 0; j < count; j++ {
			if name, ok := codeColors[seg[pos+j]]; ok {
				colors[i] = append(colors[i], name)
			}
		}
		pos += count
	}
	if pos != len(seg) {
		return nil, payloadError(ColorsAttribute, WrongLengthCondition, pos, len(seg))
	}
	return colors, nil
}

// decodeBody parses the body and metadata segments of a payload
// whose header and size have already been validated.
func decodeBody(segs []string, size int) (*boardState, error) {
	st := &boardState{size: size}
	var err error
	if st.preset, err = decodeValues(PresetGridAttribute, segs[2], size); err != nil {
		return nil, err
	}
	if st.user, err = decodeValues(UserGridAttribute, segs[3], size); err != nil {
		return nil, err
	}
	if st.center, err = decodeNotes(CenterNotesAttribute, segs[4], size); err != nil {
		return nil, err
	}
	if st.corner, err = decodeNotes(CornerNotesAttribute, segs[5], size); err != nil {
		return nil, err
	}
	if st.colors, err = decodeColors(segs[6], size); err != nil {
		return nil, err
	}
	if len(segs) >= bodySegments+2 {
		st.meta, st.hasMeta = decodeMetadata(segs[7], segs[8])
	}
	return st, nil
}

// decodePayload parses a full payload into a fresh board state.
func decodePayload(payload string) (*boardState, error) {
	segs, size, err := decodeSegments(payload)
	if err != nil {
		return nil, err
	}
	return decodeBody(segs, size)
}

// PayloadSize reports the board size a payload declares, without
// decoding its body.  Callers use it to build an editor of the
// right size before importing.
func PayloadSize(payload string) (int, error) {
	_, size, err := decodeSegments(payload)
	return size, err
}

/*

Editor integration

*/

// snapshot serializes the board without metadata.  This is the
// history's snapshot format; metadata edits are deliberately not
// undoable.  Encoding a live editor can only fail on state the
// editor's own operations can't produce, so a failure here is a
// programming error and panics.
func (e *Editor) snapshot() string {
	payload, err := encodePayload(&boardState{
		size:   e.size,
		preset: e.preset,
		user:   e.user,
		center: e.center,
		corner: e.corner,
		colors: e.colors,
	})
	if err != nil {
		panic(err)
	}
	return payload
}

// Export serializes the full board state, metadata included, as
// an SG1 payload.  This is the one durable external format: file
// saves, clipboard sharing, and URL embedding all carry it.
func (e *Editor) Export() string {
	payload, err := encodePayload(&boardState{
		size:    e.size,
		preset:  e.preset,
		user:    e.user,
		center:  e.center,
		corner:  e.corner,
		colors:  e.colors,
		meta:    e.meta,
		hasMeta: !e.meta.empty(),
	})
	if err != nil {
		panic(err)
	}
	return payload
}

// Import replaces the whole board from a payload.  The payload's
// declared size must match the editor's; a mismatch is rejected
// before any body segment is decoded.  Decoding is all-or-
// nothing: on any error the board is left exactly as it was.
//
// The incoming preset wins over the incoming user data: any cell
// the preset claims has its user value, notes, and colors
// cleared.  Importing suppresses history recording and leaves
// the history log untouched; the next edit establishes a new
// baseline against whatever the log already held.
func (e *Editor) Import(payload string) error {
	segs, size, err := decodeSegments(payload)
	if err != nil {
		return err
	}
	if size != e.size {
		return Error{
			Scope:     PayloadScope,
			Structure: AttributeValueStructure,
			Attribute: BoardSizeAttribute,
			Condition: SizeMismatchCondition,
			Values:    ErrorData{size, e.size},
		}
	}
	st, err := decodeBody(segs, size)
	if err != nil {
		return err
	}
	e.history.suppress++
	defer func() { e.history.suppress-- }()
	for i, v := range st.preset {
		if v != 0 {
			// preset wins
			st.user[i] = 0
			st.center[i] = 0
			st.corner[i] = 0
			st.colors[i] = nil
		}
	}
	copy(e.preset, st.preset)
	copy(e.user, st.user)
	copy(e.center, st.center)
	copy(e.corner, st.corner)
	copy(e.colors, st.colors)
	e.meta = st.meta
	return nil
}
