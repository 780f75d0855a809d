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

package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBlocked(t *testing.T) {
	t.Parallel()

	blocklist := []string{"1a86:55d4", " 0403:6014 "}

	assert.True(t, IsBlocked("1A86:55D4", blocklist))
	assert.True(t, IsBlocked("0403:6014", blocklist))
	assert.False(t, IsBlocked("10C4:EA60", blocklist))
	assert.False(t, IsBlocked("1A86:55D4", nil))
}

func TestDefaultBlocklist_Valid(t *testing.T) {
	t.Parallel()

	for _, entry := range DefaultBlocklist() {
		assert.True(t, ValidVIDPID(entry), entry)
	}
}

func TestValidVIDPID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bool
	}{
		{"10C4:EA60", true},
		{"10c4:ea60", true},
		{" 239A:8029 ", true},
		{"10C4EA60", false},
		{"10C4:EA6", false},
		{"10C4:EA6G", false},
		{":", false},
		{"", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ValidVIDPID(tt.input))
		})
	}
}

func TestIsPathIgnored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		devicePath  string
		ignorePaths []string
		expected    bool
	}{
		{"empty ignore list", "/dev/ttyUSB0", nil, false},
		{"empty device path", "", []string{"/dev/ttyUSB0"}, false},
		{"exact match", "/dev/ttyUSB0", []string{"/dev/ttyUSB0"}, true},
		{"windows case", "COM3", []string{"com3"}, true},
		{"unclean path", "/dev/../dev/ttyUSB0", []string{"/dev/ttyUSB0"}, true},
		{"skips empty entries", "/dev/ttyUSB0", []string{"", "/dev/ttyACM0"}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsPathIgnored(tt.devicePath, tt.ignorePaths))
		})
	}
}
