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

package polling

// LastSeen is the most recently accepted scan. Rejected reads never
// update it.
type LastSeen struct {
	UID string
	// At is the capture timestamp of the accepted scan in milliseconds
	At uint64
	// Valid is false until the first scan is accepted
	Valid bool
}

// Elapsed returns the milliseconds between the accepted scan and now, or 0
// if now is earlier.
func (l LastSeen) Elapsed(now uint64) uint64 {
	if now < l.At {
		return 0
	}
	return now - l.At
}

// ScanEvent is a single successful card read
type ScanEvent struct {
	UIDHex    string
	UID       []byte
	Timestamp uint64
}
