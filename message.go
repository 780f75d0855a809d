// go-meshscan
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-meshscan.
//
// go-meshscan is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-meshscan is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-meshscan; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package meshscan

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StatusMessage is the line forwarded to the mesh radio for an accepted scan.
type StatusMessage struct {
	ScannerID string `json:"scanner_id"`
	TagUID    string `json:"tag_uid"`
	Timestamp uint64 `json:"timestamp"`
}

// NewStatusMessage builds the message for a scan captured at timestamp
// (milliseconds since start).
func NewStatusMessage(scannerID string, uid []byte, timestamp uint64) StatusMessage {
	return StatusMessage{
		ScannerID: scannerID,
		TagUID:    FormatUID(uid),
		Timestamp: timestamp,
	}
}

// String renders the message in the fixed wire shape. Fields are pasted in
// as-is, so the scanner id must not contain quotes or backslashes for the
// result to be valid JSON (config.Validate enforces this).
func (m StatusMessage) String() string {
	var sb strings.Builder
	sb.Grow(64 + len(m.ScannerID) + len(m.TagUID))
	sb.WriteString(`{"scanner_id": "`)
	sb.WriteString(m.ScannerID)
	sb.WriteString(`", "tag_uid": "`)
	sb.WriteString(m.TagUID)
	sb.WriteString(`", "timestamp": `)
	sb.WriteString(strconv.FormatUint(m.Timestamp, 10))
	sb.WriteString("}")
	return sb.String()
}

// ParseStatusMessage decodes a line produced by StatusMessage.String.
// Trailing line terminators are ignored.
func ParseStatusMessage(line string) (StatusMessage, error) {
	var m StatusMessage
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return m, fmt.Errorf("%w: empty line", ErrMalformedMessage)
	}
	dec := json.NewDecoder(strings.NewReader(line))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return StatusMessage{}, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}
	if m.ScannerID == "" || m.TagUID == "" {
		return StatusMessage{}, fmt.Errorf("%w: missing scanner_id or tag_uid", ErrMalformedMessage)
	}
	return m, nil
}
