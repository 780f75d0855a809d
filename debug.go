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
	"io"
	"log"
	"os"
	"sync/atomic"
)

var (
	debugEnabled atomic.Bool
	debugLogger  = log.New(os.Stderr, "[meshscan] ", log.LstdFlags|log.Lmicroseconds)
)

// SetDebugEnabled turns debug output on or off
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
}

// DebugEnabled reports whether debug output is on
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// SetDebugOutput redirects debug output, e.g. to the diagnostic serial line
func SetDebugOutput(w io.Writer) {
	debugLogger.SetOutput(w)
}

// Debugf prints a formatted debug line when debug output is enabled
func Debugf(format string, args ...any) {
	if !debugEnabled.Load() {
		return
	}
	debugLogger.Printf(format, args...)
}

// Debugln prints a debug line when debug output is enabled
func Debugln(args ...any) {
	if !debugEnabled.Load() {
		return
	}
	debugLogger.Println(args...)
}
