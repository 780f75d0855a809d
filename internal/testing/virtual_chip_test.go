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

package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRCA_KnownVectors(t *testing.T) {
	t.Parallel()

	// HLTA is always sent as 50 00 57 CD.
	assert.Equal(t, [2]byte{0x57, 0xCD}, CRCA([]byte{0x50, 0x00}))
}

func TestVirtualTag_Chunks(t *testing.T) {
	t.Parallel()

	tag := NewVirtualTag(TestTripleUID, 0x20)
	assert.Equal(t, []byte{0x88, 0x08, 0x01, 0x02}, tag.chunk(0))
	assert.Equal(t, []byte{0x88, 0x03, 0x04, 0x05}, tag.chunk(1))
	assert.Equal(t, []byte{0x06, 0x07, 0x08, 0x09}, tag.chunk(2))
	assert.Nil(t, tag.chunk(3))

	single := NewVirtualMIFARE1K(nil)
	assert.Equal(t, TestMIFARE1KUID, single.chunk(0))
	assert.Equal(t, []byte{0x04, 0x00}, single.ATQA())
	assert.Equal(t, []byte{0x44, 0x00}, NewVirtualNTAG213(nil).ATQA())
}

func TestVirtualChip_RegisterAccess(t *testing.T) {
	t.Parallel()

	chip := NewVirtualChip()

	// write 0x5A to ModeReg (0x11), then read it back
	assert.NoError(t, chip.Tx([]byte{0x11 << 1, 0x5A}, make([]byte, 2)))
	r := make([]byte, 2)
	assert.NoError(t, chip.Tx([]byte{0x80 | 0x11<<1, 0x00}, r))
	assert.Equal(t, byte(0x5A), r[1])

	r = make([]byte, 2)
	assert.NoError(t, chip.Tx([]byte{0x80 | regVersion<<1, 0x00}, r))
	assert.Equal(t, byte(0x92), r[1])

	assert.NoError(t, chip.Close())
	assert.ErrorIs(t, chip.Tx([]byte{0x80, 0x00}, make([]byte, 2)), ErrBusClosed)
}
