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

// Package spi opens the SPI port and reset pin an MFRC522 is wired to
package spi

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/ZaparooProject/go-meshscan/mfrc522"
)

const (
	// DefaultSpeed is a conservative SCK for long jumper wires. The chip
	// accepts up to 10MHz.
	DefaultSpeed = physic.MegaHertz

	// MaxSpeed is the MFRC522 SPI limit.
	MaxSpeed = 10 * physic.MegaHertz
)

// ErrNotConnected is returned by Tx on a closed transport
var ErrNotConnected = errors.New("spi transport not connected")

// Config selects the bus and pins
type Config struct {
	// PortName is a periph.io port name such as "/dev/spidev0.0" or
	// "SPI0.0". Empty selects the first registered port.
	PortName string
	// ResetPin is the GPIO wired to NRSTPD. Empty leaves the chip to a
	// soft reset.
	ResetPin string
	// Speed is the SCK frequency. Zero selects DefaultSpeed.
	Speed physic.Frequency
}

// Transport is an open SPI connection to the reader. It satisfies
// mfrc522.Bus.
type Transport struct {
	port     spi.PortCloser
	conn     spi.Conn
	reset    gpio.PinIO
	portName string
	mu       sync.Mutex
}

var _ mfrc522.Bus = (*Transport)(nil)

// New initializes the periph.io host drivers and opens the port in SPI
// mode 0 with 8-bit words, the only mode the MFRC522 supports.
func New(cfg Config) (*Transport, error) {
	if cfg.Speed == 0 {
		cfg.Speed = DefaultSpeed
	}
	if cfg.Speed > MaxSpeed {
		return nil, fmt.Errorf("SPI speed %s exceeds the MFRC522 limit of %s", cfg.Speed, MaxSpeed)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	var reset gpio.PinIO
	if cfg.ResetPin != "" {
		reset = gpioreg.ByName(cfg.ResetPin)
		if reset == nil {
			return nil, fmt.Errorf("reset pin %s not found", cfg.ResetPin)
		}
		if err := reset.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("failed to drive reset pin %s: %w", cfg.ResetPin, err)
		}
	}

	port, err := spireg.Open(cfg.PortName)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %q: %w", cfg.PortName, err)
	}

	conn, err := port.Connect(cfg.Speed, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to configure SPI port %q: %w", cfg.PortName, err)
	}

	return &Transport{
		port:     port,
		conn:     conn,
		reset:    reset,
		portName: cfg.PortName,
	}, nil
}

// Tx performs one full-duplex transfer
func (t *Transport) Tx(w, r []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return ErrNotConnected
	}
	if err := t.conn.Tx(w, r); err != nil {
		return fmt.Errorf("SPI transfer failed: %w", err)
	}
	return nil
}

// ResetPin returns the configured reset pin, or nil if none was configured
func (t *Transport) ResetPin() mfrc522.ResetPin {
	if t.reset == nil {
		return nil
	}
	return t.reset
}

// Close releases the SPI port
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	t.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close SPI port: %w", err)
	}
	return nil
}

// IsConnected returns true if the transport is open
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}

// String returns the port name
func (t *Transport) String() string {
	if t.portName == "" {
		return "spi:default"
	}
	return "spi:" + t.portName
}
