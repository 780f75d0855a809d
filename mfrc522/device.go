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

// Package mfrc522 drives an NXP MFRC522 reader chip over SPI.
//
// The driver covers what a UID scanner needs: chip init, ISO 14443-3 type A
// card activation (REQA, anticollision and select over all cascade levels),
// HLTA and clearing the Crypto1 state. It does not read or write card memory.
package mfrc522

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/ZaparooProject/go-meshscan"
	"github.com/ZaparooProject/go-meshscan/internal/poll"
)

// Bus is a full-duplex SPI connection. periph.io's spi.Conn satisfies it.
type Bus interface {
	Tx(w, r []byte) error
}

// ResetPin drives the chip's NRSTPD line. periph.io's gpio.PinOut satisfies it.
type ResetPin interface {
	Out(l gpio.Level) error
}

// Config holds driver settings
type Config struct {
	// Timeout bounds a single transceive with a card.
	Timeout time.Duration
	// AntennaGain is the receiver gain written to RFCfgReg, one of the GainXXdB values.
	AntennaGain byte
}

// DefaultConfig returns a 36ms transceive budget and 33dB receiver gain
func DefaultConfig() Config {
	return Config{
		Timeout:     36 * time.Millisecond,
		AntennaGain: Gain33dB,
	}
}

// Device is an MFRC522 reader
type Device struct {
	bus      Bus
	resetPin ResetPin
	config   Config
	mu       sync.Mutex
	lastSAK  byte
}

// New creates a driver on the given bus. Call Init before use.
func New(bus Bus, opts ...Option) *Device {
	d := &Device{
		bus:    bus,
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Init resets the chip and configures the timer, modulation and antenna the
// same way for every session. It fails with ErrNoChip if the version register
// reads as a floating bus.
func (d *Device) Init(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.resetChip(ctx); err != nil {
		return err
	}

	version, err := d.readRegister(VersionReg)
	if err != nil {
		return err
	}
	if version == 0x00 || version == 0xFF {
		return fmt.Errorf("%w: version register reads 0x%02X", ErrNoChip, version)
	}
	meshscan.Debugf("mfrc522: chip version 0x%02X (%s)", version, VersionName(version))

	// 106 kBd in both directions, default modulation width.
	writes := []struct {
		reg byte
		val byte
	}{
		{TxModeReg, 0x00},
		{RxModeReg, 0x00},
		{ModWidthReg, 0x26},
		// TAuto=1; f_timer = 13.56MHz / (2*0xA9+1) = 40kHz, reload 1000 ticks = 25ms.
		{TModeReg, 0x80},
		{TPrescalerReg, 0xA9},
		{TReloadRegH, 0x03},
		{TReloadRegL, 0xE8},
		// Force 100% ASK modulation.
		{TxASKReg, 0x40},
		// CRC preset 0x6363 (ISO 14443-3 part 6.2.4).
		{ModeReg, 0x3D},
	}
	for _, w := range writes {
		if err := d.writeRegister(w.reg, w.val); err != nil {
			return err
		}
	}

	if err := d.setAntennaGain(d.config.AntennaGain); err != nil {
		return err
	}
	return d.antennaOn()
}

// SoftReset issues the SoftReset command and waits for the oscillator to start
func (d *Device) SoftReset(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.softReset(ctx)
}

// Version returns the raw VersionReg value
func (d *Device) Version() (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readRegister(VersionReg)
}

// AntennaOn enables the TX1 and TX2 drivers
func (d *Device) AntennaOn() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.antennaOn()
}

// AntennaOff disables the TX1 and TX2 drivers
func (d *Device) AntennaOff() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clearBits(TxControlReg, txControlAnt)
}

// VersionName describes a VersionReg value
func VersionName(v byte) string {
	switch v {
	case VersionFM17522:
		return "FM17522 clone"
	case VersionV0:
		return "v0.0"
	case VersionV1:
		return "v1.0"
	case VersionV2:
		return "v2.0"
	case VersionClone:
		return "counterfeit"
	default:
		return "unknown"
	}
}

func (d *Device) resetChip(ctx context.Context) error {
	if d.resetPin == nil {
		return d.softReset(ctx)
	}
	// Hard power down: NRSTPD low for more than 100ns, then wait for the
	// oscillator start-up (datasheet 8.8.2).
	if err := d.resetPin.Out(gpio.Low); err != nil {
		return fmt.Errorf("failed to drive reset pin low: %w", err)
	}
	if err := poll.Sleep(ctx, time.Millisecond); err != nil {
		return err
	}
	if err := d.resetPin.Out(gpio.High); err != nil {
		return fmt.Errorf("failed to drive reset pin high: %w", err)
	}
	return poll.Sleep(ctx, 50*time.Millisecond)
}

func (d *Device) softReset(ctx context.Context) error {
	if err := d.writeRegister(CommandReg, CmdSoftReset); err != nil {
		return err
	}
	_, err := d.waitRegister(ctx, CommandReg, 150*time.Millisecond, 5*time.Millisecond, func(v byte) bool {
		return v&commandPowerDown == 0
	})
	if errors.Is(err, poll.ErrTimeout) {
		return fmt.Errorf("%w: still powered down after soft reset", ErrNoChip)
	}
	return err
}

func (d *Device) antennaOn() error {
	v, err := d.readRegister(TxControlReg)
	if err != nil {
		return err
	}
	if v&txControlAnt == txControlAnt {
		return nil
	}
	return d.writeRegister(TxControlReg, v|txControlAnt)
}

func (d *Device) setAntennaGain(gain byte) error {
	v, err := d.readRegister(RFCfgReg)
	if err != nil {
		return err
	}
	if v&rfCfgGainMask == gain&rfCfgGainMask {
		return nil
	}
	return d.writeRegister(RFCfgReg, v&^rfCfgGainMask|gain&rfCfgGainMask)
}
