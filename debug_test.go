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
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBootClock_Monotonic(t *testing.T) {
	t.Parallel()

	c := NewBootClock()
	first := c.Millis()
	time.Sleep(5 * time.Millisecond)
	second := c.Millis()

	assert.Less(t, first, uint64(5))
	assert.GreaterOrEqual(t, second, first+5)
}

//nolint:paralleltest // mutates package-level debug state
func TestDebugf_Gated(t *testing.T) {
	var buf bytes.Buffer
	SetDebugOutput(&buf)
	defer SetDebugOutput(os.Stderr)
	defer SetDebugEnabled(false)

	SetDebugEnabled(false)
	Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetDebugEnabled(true)
	assert.True(t, DebugEnabled())
	Debugf("shown %d", 2)
	Debugln("also", "shown")
	assert.Contains(t, buf.String(), "shown 2")
	assert.Contains(t, buf.String(), "also shown")
}
