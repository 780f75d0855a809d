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
	"encoding/hex"
	"fmt"
)

// FormatUID renders a tag UID as lowercase hex, two digits per byte with no
// separators. A nil or empty UID renders as the empty string.
func FormatUID(uid []byte) string {
	return hex.EncodeToString(uid)
}

// ParseUID is the inverse of FormatUID. Upper case digits are accepted.
func ParseUID(s string) ([]byte, error) {
	uid, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidUID, s, err)
	}
	return uid, nil
}
