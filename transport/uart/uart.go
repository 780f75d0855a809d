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

// Package uart provides the serial links of the scanner: the outbound line
// to the mesh radio and the optional diagnostic line.
package uart

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"
)

// DefaultBaudRate matches the serial module default of Meshtastic nodes
const DefaultBaudRate = 115200

// lineEnding terminates every message
const lineEnding = "\r\n"

// ErrClosed is returned when writing to a closed link
var ErrClosed = errors.New("serial link closed")

// Link is a write-only serial line. Each Send is a single write attempt.
type Link struct {
	port     io.WriteCloser
	portName string
	mu       sync.Mutex
}

// Open opens portName at baud with 8N1 framing
func Open(portName string, baud int) (*Link, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}
	return New(port, portName), nil
}

// New wraps an already open port
func New(port io.WriteCloser, portName string) *Link {
	return &Link{port: port, portName: portName}
}

// Send writes msg followed by CRLF. Partial writes are reported as errors
// and not resumed.
func (l *Link) Send(msg string) error {
	buf := make([]byte, 0, len(msg)+len(lineEnding))
	buf = append(buf, msg...)
	buf = append(buf, lineEnding...)

	n, err := l.Write(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return fmt.Errorf("short write to %s: %d of %d bytes", l.portName, n, len(buf))
	}
	return nil
}

// Write implements io.Writer so the link can carry log output
func (l *Link) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.port == nil {
		return 0, ErrClosed
	}
	n, err := l.port.Write(p)
	if err != nil {
		return n, fmt.Errorf("failed to write to %s: %w", l.portName, err)
	}
	return n, nil
}

// Close closes the port
func (l *Link) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.port == nil {
		return nil
	}
	err := l.port.Close()
	l.port = nil
	if err != nil {
		return fmt.Errorf("failed to close %s: %w", l.portName, err)
	}
	return nil
}

// IsConnected returns true until Close is called
func (l *Link) IsConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.port != nil
}

// String returns the port name
func (l *Link) String() string {
	return l.portName
}
