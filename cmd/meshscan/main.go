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

// Command meshscan polls an MFRC522 reader and forwards every accepted tag
// scan as one status line over a serial-attached mesh radio.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	meshscan "github.com/ZaparooProject/go-meshscan"
	"github.com/ZaparooProject/go-meshscan/config"
	"github.com/ZaparooProject/go-meshscan/polling"
)

type flags struct {
	configPath *string
	meshPort   *string
	spiPort    *string
	scannerID  *string
	policy     *string
	debug      *bool
}

func parseFlags() *flags {
	f := &flags{
		configPath: flag.String("config", "", "Path to a YAML config file. Leave empty for defaults."),
		meshPort: flag.String("mesh-port", "",
			"Serial port of the mesh radio (e.g., /dev/ttyUSB0). Overrides the config file."),
		spiPort:   flag.String("spi-port", "", "SPI port of the reader (e.g., SPI0.0). Overrides the config file."),
		scannerID: flag.String("scanner-id", "", "Scanner id sent with every scan. Overrides the config file."),
		policy:    flag.String("policy", "", "Repeat scan policy: debounce, strict or none. Overrides the config file."),
		debug:     flag.Bool("debug", false, "Enable debug output"),
	}
	flag.Parse()
	return f
}

// loadConfig reads the config file, applies flag overrides and validates
// the result
func loadConfig(f *flags) (*config.Config, error) {
	cfg := &config.Config{}
	if *f.configPath != "" {
		loaded, err := config.Load(*f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if *f.meshPort != "" {
		cfg.Mesh.Port = *f.meshPort
	}
	if *f.spiPort != "" {
		cfg.Reader.SPIPort = *f.spiPort
	}
	if *f.scannerID != "" {
		cfg.Scanner.ID = *f.scannerID
	}
	if *f.policy != "" {
		cfg.Scanner.Policy = *f.policy
	}
	if *f.debug {
		cfg.Debug = true
	}

	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	return cfg, nil
}

func run() int {
	f := parseFlags()

	cfg, err := loadConfig(f)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 2
	}
	meshscan.SetDebugEnabled(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hw, err := openHardware(ctx, cfg)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Startup failed: %v\n", err)
		return 1
	}
	defer hw.Close()

	policy, err := polling.NewPolicy(cfg.Scanner.Policy, cfg.Scanner.DebounceWindow())
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Startup failed: %v\n", err)
		return 1
	}

	scanner, err := polling.NewScanner(hw.reader, hw.mesh, &polling.Config{
		ScannerID:    cfg.Scanner.ID,
		PollInterval: cfg.Scanner.PollInterval(),
		Policy:       policy,
	}, polling.WithIndicator(hw.led))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Startup failed: %v\n", err)
		return 1
	}
	scanner.OnAccepted = func(event polling.ScanEvent, _ meshscan.StatusMessage) {
		meshscan.Debugf("accepted scan %s at %dms", event.UIDHex, event.Timestamp)
	}

	hw.announce(fmt.Sprintf("meshscan %s ready: reader %s, mesh %s, policy %s",
		cfg.Scanner.ID, hw.spi, hw.mesh, policy.Name()))

	err = scanner.Run(ctx)
	meshscan.Debugln("scan loop stopped:", err)
	printMetrics(scanner.GetMetrics())
	if err != nil && !errors.Is(err, context.Canceled) {
		_, _ = fmt.Fprintf(os.Stderr, "Scan loop stopped: %v\n", err)
		return 1
	}
	return 0
}

func printMetrics(m polling.Metrics) {
	_, _ = fmt.Fprintf(os.Stderr,
		"Stopped after %d polls: %d cards, %d accepted, %d suppressed, %d read errors, %d send errors\n",
		m.PollCycles, m.CardsDetected, m.Accepted, m.Suppressed, m.ReadErrors, m.SendErrors)
}

func main() {
	os.Exit(run())
}
