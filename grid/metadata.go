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
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"

	"github.com/klauspost/compress/gzip"
)

/*

The metadata segments

A payload can end with two extra segments, "M1<flags>" and a
base64url body, carrying the puzzle's title and rules.  Flag bit
0 says the body bytes are gzipped.  Metadata is strictly
optional garnish: a decoder that can't make sense of it reports
"no metadata" and the board decodes fine without it, and an
encoder that can't compress just ships the bytes uncompressed.

*/

// Metadata is the human-facing description a payload can carry.
type Metadata struct {
	Title string `json:"t,omitempty"`
	Rules string `json:"r,omitempty"`
}

func (m Metadata) empty() bool {
	return m.Title == "" && m.Rules == ""
}

// metaCompressFlag is bit 0 of the metadata flags character.
const metaCompressFlag = 1

// encodeMetadata renders the two metadata segments for a
// payload.  The JSON bytes are gzipped when that actually
// shrinks them; a compression failure falls back to the
// uncompressed bytes rather than failing the export.
func encodeMetadata(m Metadata) (flagSeg, bodySeg string) {
	raw, err := json.Marshal(m)
	if err != nil {
		// two string fields can't fail to marshal
		panic(err)
	}
	flags := 0
	body := raw
	if packed, ok := gzipBytes(raw); ok && len(packed) < len(raw) {
		flags, body = metaCompressFlag, packed
	}
	return payloadMetaHeader + string(base36digits[flags]),
		base64.RawURLEncoding.EncodeToString(body)
}

// payloadMetaHeader tags the first metadata segment.
const payloadMetaHeader = "M1"

// decodeMetadata parses the two metadata segments.  Anything
// unexpected, from a bad header to corrupt gzip bytes, yields
// "no metadata" rather than an error: metadata can never stop a
// board from loading.
func decodeMetadata(flagSeg, bodySeg string) (Metadata, bool) {
	if len(flagSeg) != len(payloadMetaHeader)+1 || flagSeg[:len(payloadMetaHeader)] != payloadMetaHeader {
		return Metadata{}, false
	}
	flags, ok := b36val(flagSeg[len(payloadMetaHeader)])
	if !ok {
		return Metadata{}, false
	}
	body, err := base64.RawURLEncoding.DecodeString(bodySeg)
	if err != nil {
		return Metadata{}, false
	}
	if flags&metaCompressFlag != 0 {
		body, err = gunzipBytes(body)
		if err != nil {
			return Metadata{}, false
		}
	}
	var m Metadata
	if err := json.Unmarshal(body, &m); err != nil {
		return Metadata{}, false
	}
	return m, true
}

/*

gzip plumbing

*/

func gzipBytes(raw []byte) ([]byte, bool) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, false
	}
	if err := zw.Close(); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}

func gunzipBytes(packed []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(packed))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
