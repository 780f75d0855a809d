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

// Package config loads the scanner configuration from YAML.
//
// The lifecycle is Load, ApplyDefaults, Validate, Normalize. Validate never
// mutates; Normalize must only run after Validate succeeded.
package config

import (
	"time"

	"periph.io/x/conn/v3/physic"
)

type Config struct {
	Scanner    ScannerConfig   `yaml:"scanner"`
	Reader     ReaderConfig    `yaml:"reader"`
	Mesh       SerialConfig    `yaml:"mesh"`
	Diagnostic SerialConfig    `yaml:"diagnostic"`
	Indicator  IndicatorConfig `yaml:"indicator"`
	Debug      bool            `yaml:"debug"`
}

// ---- SCANNER ----

type ScannerConfig struct {
	ID             string `yaml:"id"`
	PollIntervalMs int    `yaml:"poll_interval_ms"`
	Policy         string `yaml:"policy"`      // debounce | strict | none
	DebounceMs     int    `yaml:"debounce_ms"` // ignored by policy none
}

// ---- READER ----

type ReaderConfig struct {
	SPIPort       string `yaml:"spi_port"` // "" = first available
	ResetPin      string `yaml:"reset_pin"`
	SpeedHz       int64  `yaml:"speed_hz"`
	TimeoutMs     int    `yaml:"timeout_ms"`
	AntennaGainDB int    `yaml:"antenna_gain_db"`
}

// ---- SERIAL LINKS ----

type SerialConfig struct {
	Port      string   `yaml:"port"`
	Baud      int      `yaml:"baud"`
	Blocklist []string `yaml:"blocklist"` // mesh only: VID:PID pairs skipped by auto-detect
}

// ---- INDICATOR ----

type IndicatorConfig struct {
	Pin   string `yaml:"pin"` // "" = no LED
	Count int    `yaml:"count"`
	OnMs  int    `yaml:"on_ms"`  // 0 = default
	OffMs int    `yaml:"off_ms"` // 0 = default
}

// PollInterval returns the scan loop period
func (c ScannerConfig) PollInterval() time.Duration {
	return millis(c.PollIntervalMs)
}

// DebounceWindow returns the repeat window
func (c ScannerConfig) DebounceWindow() time.Duration {
	return millis(c.DebounceMs)
}

// Timeout returns the per-command reader timeout
func (c ReaderConfig) Timeout() time.Duration {
	return millis(c.TimeoutMs)
}

// Speed returns the SPI clock frequency
func (c ReaderConfig) Speed() physic.Frequency {
	return physic.Frequency(c.SpeedHz) * physic.Hertz
}

// On returns how long the LED stays lit per blink
func (c IndicatorConfig) On() time.Duration {
	return millis(c.OnMs)
}

// Off returns the gap between blinks
func (c IndicatorConfig) Off() time.Duration {
	return millis(c.OffMs)
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
