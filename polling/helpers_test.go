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
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ZaparooProject/go-meshscan"
)

// read is one scripted answer from mockReader
type read struct {
	presentErr error
	readErr    error
	uid        []byte
	present    bool
}

func cardRead(uid ...byte) read { return read{present: true, uid: uid} }

// mockReader replays scripted reads and records the driver calls made
type mockReader struct {
	reads []read
	calls []string
	mu    sync.Mutex
}

func (m *mockReader) next() read {
	if len(m.reads) == 0 {
		return read{}
	}
	r := m.reads[0]
	m.reads = m.reads[1:]
	return r
}

func (m *mockReader) IsNewCardPresent(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "present")
	if len(m.reads) == 0 {
		return false, nil
	}
	r := m.reads[0]
	if !r.present || r.presentErr != nil {
		m.next()
	}
	return r.present, r.presentErr
}

func (m *mockReader) ReadCardSerial(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "read")
	r := m.next()
	return r.uid, r.readErr
}

func (m *mockReader) HaltA(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "halt")
	return nil
}

func (m *mockReader) StopCrypto1() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "stopcrypto")
	return nil
}

func (m *mockReader) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// mockSender collects sent lines
type mockSender struct {
	err   error
	lines []string
	mu    sync.Mutex
}

func (m *mockSender) Send(msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, msg)
	return m.err
}

func (m *mockSender) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lines...)
}

// manualClock is advanced by tests
type manualClock struct {
	now uint64
}

func (c *manualClock) Millis() uint64 { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now += uint64(d.Milliseconds()) }

// mockIndicator counts blinks
type mockIndicator struct {
	err    error
	blinks int
}

func (m *mockIndicator) Blink(context.Context) error {
	m.blinks++
	return m.err
}

var errMockHardware = errors.New("mock hardware failure")

var _ meshscan.Clock = (*manualClock)(nil)
