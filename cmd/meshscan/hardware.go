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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	meshscan "github.com/ZaparooProject/go-meshscan"
	"github.com/ZaparooProject/go-meshscan/config"
	"github.com/ZaparooProject/go-meshscan/detection"
	"github.com/ZaparooProject/go-meshscan/indicator"
	"github.com/ZaparooProject/go-meshscan/mfrc522"
	"github.com/ZaparooProject/go-meshscan/polling"
	"github.com/ZaparooProject/go-meshscan/transport/spi"
	"github.com/ZaparooProject/go-meshscan/transport/uart"
)

// hardware holds everything opened at startup
type hardware struct {
	spi        *spi.Transport
	reader     *mfrc522.Device
	mesh       *uart.Link
	diagnostic *uart.Link
	led        polling.Indicator
}

func openHardware(ctx context.Context, cfg *config.Config) (*hardware, error) {
	hw := &hardware{led: indicator.Noop{}}
	if err := hw.open(ctx, cfg); err != nil {
		hw.Close()
		return nil, err
	}
	return hw, nil
}

func (hw *hardware) open(ctx context.Context, cfg *config.Config) error {
	var err error

	if cfg.Diagnostic.Port != "" {
		hw.diagnostic, err = uart.Open(cfg.Diagnostic.Port, cfg.Diagnostic.Baud)
		if err != nil {
			return fmt.Errorf("diagnostic line: %w", err)
		}
		meshscan.SetDebugOutput(hw.diagnostic)
	}

	if err = hw.openReader(ctx, &cfg.Reader); err != nil {
		return err
	}

	meshPort := cfg.Mesh.Port
	if meshPort == "" {
		opts := detection.DefaultOptions()
		opts.Blocklist = append(opts.Blocklist, cfg.Mesh.Blocklist...)
		if cfg.Diagnostic.Port != "" {
			opts.IgnorePaths = []string{cfg.Diagnostic.Port}
		}
		meshPort, err = detection.FirstSerialPort(opts)
		if err != nil {
			return fmt.Errorf("no mesh radio port configured and auto-detection failed: %w", err)
		}
		_, _ = fmt.Printf("Auto-detected mesh radio on %s\n", meshPort)
	}
	hw.mesh, err = uart.Open(meshPort, cfg.Mesh.Baud)
	if err != nil {
		return fmt.Errorf("mesh link: %w", err)
	}

	if cfg.Indicator.Pin != "" {
		led, ledErr := indicator.Open(cfg.Indicator.Pin, indicator.Pattern{
			Count: cfg.Indicator.Count,
			On:    cfg.Indicator.On(),
			Off:   cfg.Indicator.Off(),
		})
		if ledErr != nil {
			return fmt.Errorf("indicator: %w", ledErr)
		}
		hw.led = led
	}
	return nil
}

func (hw *hardware) openReader(ctx context.Context, cfg *config.ReaderConfig) error {
	if cfg.SPIPort == "" {
		devices, err := detection.SPIDevices()
		switch {
		case err == nil:
			meshscan.Debugf("found %d SPI device nodes, using the first registered port", len(devices))
		case errors.Is(err, detection.ErrNoDevicesFound):
			return fmt.Errorf("no accessible SPI device nodes: %w", err)
		default:
			meshscan.Debugf("SPI node discovery unavailable: %v", err)
		}
	}

	var err error
	hw.spi, err = spi.New(spi.Config{
		PortName: cfg.SPIPort,
		ResetPin: cfg.ResetPin,
		Speed:    cfg.Speed(),
	})
	if err != nil {
		return fmt.Errorf("reader bus: %w", err)
	}

	gain, _ := mfrc522.GainForDB(cfg.AntennaGainDB)
	hw.reader = mfrc522.New(hw.spi,
		mfrc522.WithTimeout(cfg.Timeout()),
		mfrc522.WithAntennaGain(gain),
		mfrc522.WithResetPin(hw.spi.ResetPin()),
	)
	if err := hw.reader.Init(ctx); err != nil {
		return fmt.Errorf("reader init on %s: %w", hw.spi, err)
	}

	if version, err := hw.reader.Version(); err == nil {
		_, _ = fmt.Printf("MFRC522 version: %s (0x%02X)\n", mfrc522.VersionName(version), version)
	}
	return nil
}

// announce prints a banner locally and on the diagnostic line
func (hw *hardware) announce(banner string) {
	_, _ = fmt.Println(banner)
	if hw.diagnostic != nil {
		if err := hw.diagnostic.Send(banner); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "diagnostic banner failed: %v\n", err)
		}
	}
}

// Close releases everything that was opened. The antenna is switched off
// first so a card left on the reader is not powered.
func (hw *hardware) Close() {
	if hw.reader != nil {
		_ = hw.reader.AntennaOff()
	}
	if hw.spi != nil {
		_ = hw.spi.Close()
	}
	if hw.mesh != nil {
		_ = hw.mesh.Close()
	}
	if hw.diagnostic != nil {
		meshscan.SetDebugOutput(os.Stderr)
		_ = hw.diagnostic.Close()
	}
}
