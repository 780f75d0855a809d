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

// Package poll provides deadline-bounded busy polling for register based
// hardware
package poll

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when the operation did not finish in time
var ErrTimeout = errors.New("poll timed out")

// Operation is checked repeatedly.
// Returns: result, done, error
// - result: the value observed on this attempt
// - done: true once polling should stop
// - error: a permanent error that stops polling
type Operation[T any] func() (T, bool, error)

// Until runs op until it reports done, fails, ctx ends or timeout passes.
// delay is slept between attempts; zero polls back to back. On timeout the
// last observed result is returned with ErrTimeout.
func Until[T any](ctx context.Context, timeout, delay time.Duration, op Operation[T]) (T, error) {
	var last T
	deadline := time.Now().Add(timeout)

	for {
		if err := ctx.Err(); err != nil {
			return last, err
		}

		result, done, err := op()
		if err != nil {
			return result, err
		}
		if done {
			return result, nil
		}
		last = result

		if !time.Now().Before(deadline) {
			return last, ErrTimeout
		}
		if delay > 0 {
			if err := Sleep(ctx, delay); err != nil {
				return last, err
			}
		}
	}
}

// Sleep waits for d or until ctx ends
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
