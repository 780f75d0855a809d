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
	"errors"
	"fmt"
	"strings"

	"periph.io/x/conn/v3/physic"

	"github.com/ZaparooProject/go-meshscan"
	"github.com/ZaparooProject/go-meshscan/detection"
	"github.com/ZaparooProject/go-meshscan/mfrc522"
	"github.com/ZaparooProject/go-meshscan/polling"
	"github.com/ZaparooProject/go-meshscan/transport/spi"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if err := validateScanner(&cfg.Scanner); err != nil {
		return err
	}
	if err := validateReader(&cfg.Reader); err != nil {
		return err
	}
	if err := validateSerial("mesh", &cfg.Mesh); err != nil {
		return err
	}
	if err := validateSerial("diagnostic", &cfg.Diagnostic); err != nil {
		return err
	}
	if cfg.Mesh.Port != "" && cfg.Mesh.Port == cfg.Diagnostic.Port {
		return invalid("mesh and diagnostic cannot share port %q", cfg.Mesh.Port)
	}
	return validateIndicator(&cfg.Indicator)
}

func validateScanner(s *ScannerConfig) error {
	if err := meshscan.ValidateScannerID(strings.TrimSpace(s.ID)); err != nil {
		return fmt.Errorf("%w: scanner.id: %w", ErrInvalidConfig, err)
	}
	if s.PollIntervalMs <= 0 {
		return invalid("scanner.poll_interval_ms must be positive, got %d", s.PollIntervalMs)
	}
	policy := strings.ToLower(strings.TrimSpace(s.Policy))
	if _, err := polling.NewPolicy(policy, s.DebounceWindow()); err != nil {
		return fmt.Errorf("%w: scanner.policy: %w", ErrInvalidConfig, err)
	}
	if policy != polling.PolicyNone && s.DebounceMs <= 0 {
		return invalid("scanner.debounce_ms must be positive, got %d", s.DebounceMs)
	}
	return nil
}

func validateReader(r *ReaderConfig) error {
	maxHz := int64(spi.MaxSpeed / physic.Hertz)
	if r.SpeedHz <= 0 || r.SpeedHz > maxHz {
		return invalid("reader.speed_hz must be between 1 and %d, got %d", maxHz, r.SpeedHz)
	}
	if r.TimeoutMs <= 0 {
		return invalid("reader.timeout_ms must be positive, got %d", r.TimeoutMs)
	}
	if _, ok := mfrc522.GainForDB(r.AntennaGainDB); !ok {
		return invalid("reader.antenna_gain_db %d is not one of 18, 23, 33, 38, 43, 48", r.AntennaGainDB)
	}
	return nil
}

func validateSerial(name string, s *SerialConfig) error {
	if s.Baud <= 0 {
		return invalid("%s.baud must be positive, got %d", name, s.Baud)
	}
	for _, entry := range s.Blocklist {
		if !detection.ValidVIDPID(entry) {
			return invalid("%s.blocklist entry %q is not VID:PID", name, entry)
		}
	}
	return nil
}

func validateIndicator(i *IndicatorConfig) error {
	if i.Pin == "" {
		return nil
	}
	if i.Count <= 0 {
		return invalid("indicator.count must be positive, got %d", i.Count)
	}
	if i.OnMs <= 0 {
		return invalid("indicator.on_ms must be positive, got %d", i.OnMs)
	}
	if i.OffMs <= 0 {
		return invalid("indicator.off_ms must be positive, got %d", i.OffMs)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
