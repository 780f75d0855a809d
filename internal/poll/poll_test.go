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

package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUntil_Done(t *testing.T) {
	t.Parallel()

	attempts := 0
	result, err := Until(context.Background(), time.Second, 0, func() (int, bool, error) {
		attempts++
		return attempts, attempts == 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result)
	assert.Equal(t, 3, attempts)
}

func TestUntil_PermanentError(t *testing.T) {
	t.Parallel()

	opErr := errors.New("bus fault")
	attempts := 0
	_, err := Until(context.Background(), time.Second, 0, func() (byte, bool, error) {
		attempts++
		return 0, false, opErr
	})
	require.ErrorIs(t, err, opErr)
	assert.Equal(t, 1, attempts)
}

func TestUntil_Timeout(t *testing.T) {
	t.Parallel()

	start := time.Now()
	result, err := Until(context.Background(), 10*time.Millisecond, time.Millisecond, func() (string, bool, error) {
		return "busy", false, nil
	})
	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "busy", result)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestUntil_ZeroTimeoutTriesOnce(t *testing.T) {
	t.Parallel()

	attempts := 0
	_, err := Until(context.Background(), 0, 0, func() (int, bool, error) {
		attempts++
		return 0, false, nil
	})
	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 1, attempts)
}

func TestUntil_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	_, err := Until(ctx, time.Second, time.Millisecond, func() (int, bool, error) {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return 0, false, nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, attempts)
}

func TestSleep(t *testing.T) {
	t.Parallel()

	require.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}
