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

import (
	"fmt"
	"strings"
	"time"
)

// Policy decides whether a read becomes an accepted scan
type Policy interface {
	// Accept reports whether uid read at now (milliseconds) should be
	// forwarded, given the last accepted scan.
	Accept(last LastSeen, uid string, now uint64) bool
	// Name identifies the policy in configuration and logs
	Name() string
}

// Policy names accepted by NewPolicy
const (
	PolicyDebounce = "debounce"
	PolicyStrict   = "strict"
	PolicyNone     = "none"
)

// DefaultDebounceWindow is the repeat window used when none is configured
const DefaultDebounceWindow = 2 * time.Second

// AcceptAll forwards every read
type AcceptAll struct{}

// Accept always returns true
func (AcceptAll) Accept(LastSeen, string, uint64) bool { return true }

// Name returns "none"
func (AcceptAll) Name() string { return PolicyNone }

// Debounce suppresses a repeat of the last accepted UID until more than
// Window has passed since it was accepted. A different UID is always
// accepted.
type Debounce struct {
	Window time.Duration
}

// Accept implements Policy
func (p Debounce) Accept(last LastSeen, uid string, now uint64) bool {
	if !last.Valid || uid != last.UID {
		return true
	}
	return last.Elapsed(now) > windowMillis(p.Window)
}

// Name returns "debounce"
func (Debounce) Name() string { return PolicyDebounce }

// StrictDebounce accepts a read only when more than Window has passed since
// the last accepted scan and the UID differs from it. A tag held on the
// reader is therefore reported once, however long it stays.
type StrictDebounce struct {
	Window time.Duration
}

// Accept implements Policy
func (p StrictDebounce) Accept(last LastSeen, uid string, now uint64) bool {
	if !last.Valid {
		return true
	}
	return last.Elapsed(now) > windowMillis(p.Window) && uid != last.UID
}

// Name returns "strict"
func (StrictDebounce) Name() string { return PolicyStrict }

// NewPolicy builds a policy from its configured name
func NewPolicy(name string, window time.Duration) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PolicyDebounce, "":
		return Debounce{Window: window}, nil
	case PolicyStrict:
		return StrictDebounce{Window: window}, nil
	case PolicyNone:
		return AcceptAll{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

func windowMillis(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d.Milliseconds())
}
