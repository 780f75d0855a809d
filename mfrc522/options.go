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

package mfrc522

import "time"

// Option configures a Device
type Option func(*Device)

// WithTimeout sets the transceive timeout
func WithTimeout(timeout time.Duration) Option {
	return func(d *Device) {
		if timeout > 0 {
			d.config.Timeout = timeout
		}
	}
}

// WithAntennaGain sets the receiver gain applied by Init
func WithAntennaGain(gain byte) Option {
	return func(d *Device) {
		d.config.AntennaGain = gain & rfCfgGainMask
	}
}

// WithResetPin makes Init hard-reset the chip through NRSTPD instead of
// issuing a soft reset. A nil pin is ignored.
func WithResetPin(pin ResetPin) Option {
	return func(d *Device) {
		if pin != nil {
			d.resetPin = pin
		}
	}
}
