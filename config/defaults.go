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

package config

import (
	"periph.io/x/conn/v3/physic"

	"github.com/ZaparooProject/go-meshscan/indicator"
	"github.com/ZaparooProject/go-meshscan/mfrc522"
	"github.com/ZaparooProject/go-meshscan/polling"
	"github.com/ZaparooProject/go-meshscan/transport/spi"
	"github.com/ZaparooProject/go-meshscan/transport/uart"
)

// Default returns a config with every default applied
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero values. It is allowed to mutate configuration.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	scan := polling.DefaultConfig()
	if cfg.Scanner.ID == "" {
		cfg.Scanner.ID = scan.ScannerID
	}
	if cfg.Scanner.PollIntervalMs == 0 {
		cfg.Scanner.PollIntervalMs = int(scan.PollInterval.Milliseconds())
	}
	if cfg.Scanner.Policy == "" {
		cfg.Scanner.Policy = polling.PolicyDebounce
	}
	if cfg.Scanner.DebounceMs == 0 {
		cfg.Scanner.DebounceMs = int(polling.DefaultDebounceWindow.Milliseconds())
	}

	reader := mfrc522.DefaultConfig()
	if cfg.Reader.SpeedHz == 0 {
		cfg.Reader.SpeedHz = int64(spi.DefaultSpeed / physic.Hertz)
	}
	if cfg.Reader.TimeoutMs == 0 {
		cfg.Reader.TimeoutMs = int(reader.Timeout.Milliseconds())
	}
	if cfg.Reader.AntennaGainDB == 0 {
		cfg.Reader.AntennaGainDB = 33
	}

	if cfg.Mesh.Baud == 0 {
		cfg.Mesh.Baud = uart.DefaultBaudRate
	}
	if cfg.Diagnostic.Baud == 0 {
		cfg.Diagnostic.Baud = uart.DefaultBaudRate
	}

	pattern := indicator.DefaultPattern()
	if cfg.Indicator.Count == 0 {
		cfg.Indicator.Count = pattern.Count
	}
	if cfg.Indicator.OnMs == 0 {
		cfg.Indicator.OnMs = int(pattern.On.Milliseconds())
	}
	if cfg.Indicator.OffMs == 0 {
		cfg.Indicator.OffMs = int(pattern.Off.Milliseconds())
	}
}
