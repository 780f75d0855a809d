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
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNoCard           = errors.New("no card present")
	ErrInvalidUID       = errors.New("invalid UID")
	ErrMalformedMessage = errors.New("malformed status message")
	ErrInvalidScannerID = errors.New("invalid scanner id")
)

// ValidateScannerID reports whether id can be embedded in a status message.
// The id must be non-empty printable ASCII without '"' or '\'.
func ValidateScannerID(id string) error {
	if id == "" {
		return ErrInvalidScannerID
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c < 0x20 || c > 0x7E || c == '"' || c == '\\' {
			return fmt.Errorf("%w: %q has disallowed character at offset %d", ErrInvalidScannerID, id, i)
		}
	}
	return nil
}
