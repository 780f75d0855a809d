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

package spi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
)

func TestTransportCreation(t *testing.T) {
	t.Parallel()

	transport := &Transport{portName: "/dev/spidev0.0"}

	assert.Equal(t, "spi:/dev/spidev0.0", transport.String())
	assert.False(t, transport.IsConnected())
	assert.Nil(t, transport.ResetPin())
	require.ErrorIs(t, transport.Tx([]byte{0x80, 0x00}, make([]byte, 2)), ErrNotConnected)
	require.NoError(t, transport.Close())
}

func TestTransportDefaultPortName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "spi:default", (&Transport{}).String())
}

func TestNew_RejectsExcessiveSpeed(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Speed: 20 * physic.MegaHertz})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}
