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

import "sync/atomic"

// Metrics is a snapshot of scanner activity
type Metrics struct {
	PollCycles    int64 // Total number of polling cycles
	CardsDetected int64 // Cards that answered the presence check
	ReadErrors    int64 // Presence checks or serial reads that failed
	Accepted      int64 // Scans forwarded to the sender
	Suppressed    int64 // Reads rejected by the policy
	SendErrors    int64 // Sender failures
}

type counters struct {
	pollCycles    atomic.Int64
	cardsDetected atomic.Int64
	readErrors    atomic.Int64
	accepted      atomic.Int64
	suppressed    atomic.Int64
	sendErrors    atomic.Int64
}

// GetMetrics returns current operational metrics. It is safe to call from
// another goroutine while Run is active.
func (s *Scanner) GetMetrics() Metrics {
	return Metrics{
		PollCycles:    s.metrics.pollCycles.Load(),
		CardsDetected: s.metrics.cardsDetected.Load(),
		ReadErrors:    s.metrics.readErrors.Load(),
		Accepted:      s.metrics.accepted.Load(),
		Suppressed:    s.metrics.suppressed.Load(),
		SendErrors:    s.metrics.sendErrors.Load(),
	}
}
