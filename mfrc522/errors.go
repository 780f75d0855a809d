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

package mfrc522

import "errors"

// Driver errors
var (
	ErrTimeout        = errors.New("mfrc522: no response from card")
	ErrCollision      = errors.New("mfrc522: bit collision")
	ErrCRCMismatch    = errors.New("mfrc522: CRC_A mismatch")
	ErrBufferTooSmall = errors.New("mfrc522: receive buffer too small")
	ErrProtocol       = errors.New("mfrc522: protocol error")
	ErrNoChip         = errors.New("mfrc522: chip not responding")
	ErrNAK            = errors.New("mfrc522: card answered HLTA")
)
