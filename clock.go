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

import "time"

// Clock reports milliseconds elapsed since some fixed starting point.
type Clock interface {
	Millis() uint64
}

// BootClock counts milliseconds from its creation using the monotonic clock,
// so wall clock adjustments never move timestamps backwards.
type BootClock struct {
	start time.Time
}

// NewBootClock starts a clock at zero.
func NewBootClock() *BootClock {
	return &BootClock{start: time.Now()}
}

// Millis returns the milliseconds elapsed since the clock was created
func (c *BootClock) Millis() uint64 {
	return uint64(time.Since(c.start).Milliseconds())
}
