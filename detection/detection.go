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

// Package detection finds the hardware the scanner talks to: SPI device
// nodes for the reader and USB serial ports for the mesh radio.
package detection

import (
	"errors"
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
)

// Detection errors
var (
	ErrNoDevicesFound      = errors.New("no devices found")
	ErrUnsupportedPlatform = errors.New("detection not supported on this platform")
)

// DeviceInfo describes a discovered device
type DeviceInfo struct {
	Metadata  map[string]string
	Transport string
	Path      string
	Name      string
}

// Options controls serial port discovery
type Options struct {
	// Blocklist holds VID:PID pairs that are never selected
	Blocklist []string
	// IgnorePaths holds device paths that are never selected
	IgnorePaths []string
	// IncludeNonUSB also reports ports without USB descriptors
	IncludeNonUSB bool
}

// DefaultOptions returns options using DefaultBlocklist
func DefaultOptions() Options {
	return Options{Blocklist: DefaultBlocklist()}
}

// listPorts is replaced in tests
var listPorts = enumerator.GetDetailedPortsList

// SerialPorts lists serial ports that may carry the mesh radio, sorted by
// path
func SerialPorts(opts Options) ([]DeviceInfo, error) {
	ports, err := listPorts()
	if err != nil {
		return nil, err
	}
	devices := filterPorts(ports, opts)
	if len(devices) == 0 {
		return nil, ErrNoDevicesFound
	}
	return devices, nil
}

// FirstSerialPort returns the path of the first port SerialPorts reports
func FirstSerialPort(opts Options) (string, error) {
	devices, err := SerialPorts(opts)
	if err != nil {
		return "", err
	}
	return devices[0].Path, nil
}

func filterPorts(ports []*enumerator.PortDetails, opts Options) []DeviceInfo {
	devices := make([]DeviceInfo, 0, len(ports))
	for _, port := range ports {
		if port == nil || port.Name == "" {
			continue
		}
		if !port.IsUSB && !opts.IncludeNonUSB {
			continue
		}
		if IsPathIgnored(port.Name, opts.IgnorePaths) {
			continue
		}

		info := DeviceInfo{
			Transport: "uart",
			Path:      port.Name,
			Name:      port.Name,
			Metadata:  map[string]string{},
		}
		if port.IsUSB {
			vidpid := strings.ToUpper(port.VID + ":" + port.PID)
			if IsBlocked(vidpid, opts.Blocklist) {
				continue
			}
			info.Metadata["vidpid"] = vidpid
			if port.SerialNumber != "" {
				info.Metadata["serial"] = port.SerialNumber
			}
			if port.Product != "" {
				info.Name = port.Product
			}
		}
		devices = append(devices, info)
	}
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Path < devices[j].Path
	})
	return devices
}
