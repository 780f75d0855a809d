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

// Command readuid waits for one card on an MFRC522 reader and prints its
// UID together with the status line meshscan would send for it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	meshscan "github.com/ZaparooProject/go-meshscan"
	"github.com/ZaparooProject/go-meshscan/detection"
	"github.com/ZaparooProject/go-meshscan/mfrc522"
	"github.com/ZaparooProject/go-meshscan/transport/spi"
)

type config struct {
	spiPort      *string
	resetPin     *string
	scannerID    *string
	timeout      *time.Duration
	pollInterval *time.Duration
	list         *bool
	debug        *bool
}

func parseFlags() *config {
	cfg := &config{
		spiPort:   flag.String("spi-port", "", "SPI port (e.g., SPI0.0). Leave empty for the first available port."),
		resetPin:  flag.String("reset-pin", "", "GPIO wired to the reader reset line (e.g., GPIO25)"),
		scannerID: flag.String("scanner-id", "RFID01", "Scanner id used in the printed status line"),
		timeout:   flag.Duration("timeout", 30*time.Second, "Timeout for tag detection (default: 30s)"),
		pollInterval: flag.Duration("poll-interval", 100*time.Millisecond,
			"Polling interval for tag detection (default: 100ms)"),
		list:  flag.Bool("list", false, "List SPI device nodes and USB serial ports, then exit"),
		debug: flag.Bool("debug", false, "Enable debug output"),
	}
	flag.Parse()

	if *cfg.debug {
		meshscan.SetDebugEnabled(true)
	}
	return cfg
}

func listDevices() {
	_, _ = fmt.Println("SPI device nodes:")
	spiDevices, err := detection.SPIDevices()
	if err != nil {
		_, _ = fmt.Printf("  %v\n", err)
	}
	for _, d := range spiDevices {
		_, _ = fmt.Printf("  %s (port %s)\n", d.Path, d.Name)
	}

	_, _ = fmt.Println("Serial ports:")
	ports, err := detection.SerialPorts(detection.Options{})
	if err != nil {
		_, _ = fmt.Printf("  %v\n", err)
	}
	for _, d := range ports {
		blocked := ""
		if detection.IsBlocked(d.Metadata["vidpid"], detection.DefaultBlocklist()) {
			blocked = " [blocklisted]"
		}
		_, _ = fmt.Printf("  %s %s %s%s\n", d.Path, d.Metadata["vidpid"], d.Name, blocked)
	}
}

func connect(ctx context.Context, cfg *config) (*mfrc522.Device, *spi.Transport, error) {
	transport, err := spi.New(spi.Config{PortName: *cfg.spiPort, ResetPin: *cfg.resetPin})
	if err != nil {
		return nil, nil, err
	}
	device := mfrc522.New(transport, mfrc522.WithResetPin(transport.ResetPin()))
	if err := device.Init(ctx); err != nil {
		_ = transport.Close()
		return nil, nil, fmt.Errorf("failed to initialize MFRC522: %w", err)
	}

	if version, err := device.Version(); err == nil {
		_, _ = fmt.Printf("MFRC522 version: %s (0x%02X)\n", mfrc522.VersionName(version), version)
	}
	return device, transport, nil
}

// waitForCard polls until a card answers and its serial is read
func waitForCard(ctx context.Context, device *mfrc522.Device, interval time.Duration) ([]byte, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		present, err := device.IsNewCardPresent(ctx)
		if err == nil && present {
			uid, readErr := device.ReadCardSerial(ctx)
			_ = device.HaltA(ctx)
			_ = device.StopCrypto1()
			if readErr == nil {
				return uid, nil
			}
			meshscan.Debugf("read failed: %v", readErr)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", meshscan.ErrNoCard, ctx.Err())
		case <-ticker.C:
		}
	}
}

func printCard(uid []byte, sak byte, scannerID string, started time.Time) error {
	ts := uint64(time.Since(started).Milliseconds())
	line := meshscan.NewStatusMessage(scannerID, uid, ts).String()

	parsed, err := meshscan.ParseStatusMessage(line)
	if err != nil {
		return fmt.Errorf("status line does not parse back: %w", err)
	}

	_, _ = fmt.Print("\n=== Card ===\n")
	_, _ = fmt.Printf("UID:       %s (%d bytes)\n", meshscan.FormatUID(uid), len(uid))
	_, _ = fmt.Printf("SAK:       0x%02X %s\n", sak, mfrc522.CardType(sak))
	_, _ = fmt.Printf("Status:    %s\n", line)
	_, _ = fmt.Printf("Parsed:    scanner=%s tag=%s timestamp=%d\n", parsed.ScannerID, parsed.TagUID, parsed.Timestamp)
	return nil
}

func run() int {
	started := time.Now()
	cfg := parseFlags()

	if *cfg.list {
		listDevices()
		return 0
	}
	if err := meshscan.ValidateScannerID(*cfg.scannerID); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *cfg.timeout)
	defer cancel()

	device, transport, err := connect(ctx, cfg)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to connect to reader: %v\n", err)
		return 1
	}
	defer func() {
		_ = device.AntennaOff()
		_ = transport.Close()
	}()

	_, _ = fmt.Printf("Waiting for tag (timeout: %s, poll interval: %s)...\n", *cfg.timeout, *cfg.pollInterval)
	uid, err := waitForCard(ctx, device, *cfg.pollInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			_, _ = fmt.Printf("timeout: no tag detected within %s\n", *cfg.timeout)
			return 1
		}
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	if err := printCard(uid, device.LastSAK(), *cfg.scannerID, started); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
