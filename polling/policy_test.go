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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicies(t *testing.T) {
	t.Parallel()

	window := 2 * time.Second
	last := LastSeen{UID: "04a3", At: 10000, Valid: true}

	tests := []struct {
		policy Policy
		name   string
		uid    string
		last   LastSeen
		now    uint64
		want   bool
	}{
		{name: "debounce first scan", policy: Debounce{Window: window}, last: LastSeen{}, uid: "04a3", now: 0, want: true},
		{name: "debounce same uid inside window", policy: Debounce{Window: window}, last: last, uid: "04a3", now: 11999, want: false},
		{name: "debounce same uid at window edge", policy: Debounce{Window: window}, last: last, uid: "04a3", now: 12000, want: false},
		{name: "debounce same uid after window", policy: Debounce{Window: window}, last: last, uid: "04a3", now: 12001, want: true},
		{name: "debounce other uid inside window", policy: Debounce{Window: window}, last: last, uid: "beef", now: 10001, want: true},
		{name: "debounce clock behind last scan", policy: Debounce{Window: window}, last: last, uid: "04a3", now: 5, want: false},

		{name: "strict first scan", policy: StrictDebounce{Window: window}, last: LastSeen{}, uid: "04a3", now: 0, want: true},
		{name: "strict other uid after window", policy: StrictDebounce{Window: window}, last: last, uid: "beef", now: 12001, want: true},
		{name: "strict other uid inside window", policy: StrictDebounce{Window: window}, last: last, uid: "beef", now: 11000, want: false},
		{name: "strict same uid after window", policy: StrictDebounce{Window: window}, last: last, uid: "04a3", now: 60000, want: false},

		{name: "accept all same uid", policy: AcceptAll{}, last: last, uid: "04a3", now: 10000, want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.policy.Accept(tt.last, tt.uid, tt.now))
		})
	}
}

func TestNewPolicy(t *testing.T) {
	t.Parallel()

	p, err := NewPolicy("debounce", time.Second)
	require.NoError(t, err)
	assert.Equal(t, Debounce{Window: time.Second}, p)

	p, err = NewPolicy("", time.Second)
	require.NoError(t, err)
	assert.Equal(t, PolicyDebounce, p.Name())

	p, err = NewPolicy(" Strict ", 500*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, StrictDebounce{Window: 500 * time.Millisecond}, p)

	p, err = NewPolicy("none", time.Second)
	require.NoError(t, err)
	assert.Equal(t, AcceptAll{}, p)

	_, err = NewPolicy("sometimes", time.Second)
	require.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestLastSeen_Elapsed(t *testing.T) {
	t.Parallel()

	l := LastSeen{At: 100, Valid: true}
	assert.Equal(t, uint64(50), l.Elapsed(150))
	assert.Equal(t, uint64(0), l.Elapsed(99))
}
