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

/*
Package meshscan bridges an MFRC522 RFID reader to a long-range mesh radio.

A scanner polls the reader over SPI, renders each tag UID as lowercase hex
and forwards one status line per accepted scan over a serial link:

	{"scanner_id": "RFID01", "tag_uid": "04a3", "timestamp": 12345}

The timestamp is milliseconds since the process started. Repeat reads of the
same tag are suppressed by a debounce policy (see package polling).

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-meshscan/mfrc522"
	    "github.com/ZaparooProject/go-meshscan/polling"
	    "github.com/ZaparooProject/go-meshscan/transport/spi"
	    "github.com/ZaparooProject/go-meshscan/transport/uart"
	)

	bus, err := spi.New(spi.Config{PortName: "/dev/spidev0.0", ResetPin: "GPIO25"})
	if err != nil {
	    log.Fatal(err)
	}
	defer bus.Close()

	reader := mfrc522.New(bus, mfrc522.WithResetPin(bus.ResetPin()))
	if err := reader.Init(ctx); err != nil {
	    log.Fatal(err)
	}

	link, err := uart.Open("/dev/ttyUSB0", uart.DefaultBaudRate)
	if err != nil {
	    log.Fatal(err)
	}
	defer link.Close()

	scanner, err := polling.NewScanner(reader, link, polling.DefaultConfig())
	if err != nil {
	    log.Fatal(err)
	}
	_ = scanner.Run(ctx)

Debug output is disabled by default and can be enabled with SetDebugEnabled.
*/
package meshscan
