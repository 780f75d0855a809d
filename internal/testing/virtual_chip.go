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

package testing

import (
	"bytes"
	"errors"
	"sync"
)

// Register and command numbers used by the emulation. They are repeated here
// so the emulator does not share code with the driver it checks.
const (
	regCommand    = 0x01
	regComIrq     = 0x04
	regDivIrq     = 0x05
	regError      = 0x06
	regStatus2    = 0x08
	regFIFOData   = 0x09
	regFIFOLevel  = 0x0A
	regControl    = 0x0C
	regBitFraming = 0x0D
	regCRCResultH = 0x21
	regCRCResultL = 0x22
	regTxControl  = 0x14
	regRFCfg      = 0x26
	regVersion    = 0x37

	cmdCalcCRC    = 0x03
	cmdTransceive = 0x0C
	cmdSoftReset  = 0x0F

	fifoSize = 64
)

// ErrBusClosed is returned by Tx after Close
var ErrBusClosed = errors.New("virtual bus closed")

// VirtualChip emulates an MFRC522 behind a SPI bus closely enough for the
// driver: register file, FIFO, CRC coprocessor and Transceive against one
// VirtualTag in the field.
type VirtualChip struct {
	tag     *VirtualTag
	fifo    []byte
	frames  [][]byte
	regs    [64]byte
	mu      sync.Mutex
	version byte
	closed  bool
	// ForceError is copied to ErrorReg after each transceive when non-zero
	ForceError byte
}

// NewVirtualChip creates a powered-up chip with version 2.0 and no card
func NewVirtualChip() *VirtualChip {
	c := &VirtualChip{version: 0x92}
	c.softReset()
	return c
}

// SetVersion overrides the value reported by VersionReg
func (c *VirtualChip) SetVersion(v byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version = v
	c.regs[regVersion] = v
}

// PlaceTag moves a card into the field. Entering the field resets it to IDLE.
func (c *VirtualChip) PlaceTag(tag *VirtualTag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tag.State = TagIdle
	tag.level = 0
	c.tag = tag
}

// RemoveTag takes the card out of the field
func (c *VirtualChip) RemoveTag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tag != nil {
		c.tag.State = TagIdle
	}
	c.tag = nil
}

// Register returns the raw value of a register
func (c *VirtualChip) Register(reg byte) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[reg&0x3F]
}

// SetRegister writes a register without side effects
func (c *VirtualChip) SetRegister(reg, v byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regs[reg&0x3F] = v
}

// Frames returns every frame the driver transmitted to the field
func (c *VirtualChip) Frames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.frames))
	copy(out, c.frames)
	return out
}

// Close makes further transfers fail
func (c *VirtualChip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Tx implements a full-duplex SPI transfer. A read address byte clocks out
// the register value during the following byte.
func (c *VirtualChip) Tx(w, r []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrBusClosed
	}
	if len(w) == 0 {
		return nil
	}

	if w[0]&0x80 != 0 {
		for i := 0; i < len(w)-1; i++ {
			v := c.read((w[i] >> 1) & 0x3F)
			if i+1 < len(r) {
				r[i+1] = v
			}
		}
		return nil
	}

	reg := (w[0] >> 1) & 0x3F
	for _, v := range w[1:] {
		c.write(reg, v)
	}
	return nil
}

func (c *VirtualChip) softReset() {
	c.regs = [64]byte{}
	c.regs[regCommand] = 0x20
	c.regs[regTxControl] = 0x80
	c.regs[regRFCfg] = 0x48
	c.regs[regVersion] = c.version
	c.fifo = nil
}

func (c *VirtualChip) read(reg byte) byte {
	switch reg {
	case regFIFOData:
		if len(c.fifo) == 0 {
			return 0
		}
		v := c.fifo[0]
		c.fifo = c.fifo[1:]
		return v
	case regFIFOLevel:
		return byte(len(c.fifo))
	default:
		return c.regs[reg]
	}
}

func (c *VirtualChip) write(reg, v byte) {
	switch reg {
	case regFIFOData:
		if len(c.fifo) < fifoSize {
			c.fifo = append(c.fifo, v)
		}
	case regFIFOLevel:
		if v&0x80 != 0 {
			c.fifo = nil
		}
	case regComIrq, regDivIrq:
		// Bit 7 selects whether the marked bits are set or cleared.
		if v&0x80 != 0 {
			c.regs[reg] |= v & 0x7F
		} else {
			c.regs[reg] &^= v & 0x7F
		}
	case regError, regVersion:
		// read-only
	case regCommand:
		c.command(v)
	case regBitFraming:
		c.regs[reg] = v
		if v&0x80 != 0 && c.regs[regCommand]&0x0F == cmdTransceive {
			c.transceive(v & 0x07)
		}
	default:
		c.regs[reg] = v
	}
}

func (c *VirtualChip) command(v byte) {
	switch v & 0x0F {
	case cmdSoftReset:
		c.softReset()
		return
	case cmdCalcCRC:
		crc := CRCA(c.fifo)
		c.fifo = nil
		c.regs[regCRCResultL] = crc[0]
		c.regs[regCRCResultH] = crc[1]
		c.regs[regDivIrq] |= 0x04
	}
	c.regs[regCommand] = v
}

func (c *VirtualChip) transceive(txLastBits byte) {
	sent := append([]byte(nil), c.fifo...)
	c.frames = append(c.frames, sent)
	c.fifo = nil
	c.regs[regError] = 0
	c.regs[regControl] &^= 0x07

	resp, ok := c.respond(sent, txLastBits)
	if ok {
		c.fifo = resp
		c.regs[regComIrq] |= 0x30
	} else {
		c.regs[regComIrq] |= 0x01
	}
	if c.ForceError != 0 {
		c.regs[regError] = c.ForceError
	}
}

// respond implements the card side of ISO 14443-3 activation
func (c *VirtualChip) respond(f []byte, bits byte) ([]byte, bool) {
	tag := c.tag
	if tag == nil || len(f) == 0 {
		return nil, false
	}

	if bits == 7 && len(f) == 1 {
		switch {
		case f[0] == 0x26 && tag.State == TagIdle,
			f[0] == 0x52 && (tag.State == TagIdle || tag.State == TagHalt):
			tag.State = TagReady
			tag.level = 0
			return tag.ATQA(), true
		}
		return nil, false
	}
	if bits != 0 {
		return nil, false
	}

	if f[0] == 0x50 && len(f) == 4 {
		crc := CRCA(f[:2])
		if tag.State == TagActive && f[2] == crc[0] && f[3] == crc[1] {
			tag.State = TagHalt
		}
		return nil, false
	}

	level := selLevel(f[0])
	if level < 0 || tag.State != TagReady || level != tag.level {
		return nil, false
	}
	chunk := tag.chunk(level)
	if chunk == nil {
		return nil, false
	}
	bcc := chunk[0] ^ chunk[1] ^ chunk[2] ^ chunk[3]
	clBytes := append(chunk, bcc)

	switch {
	case len(f) == 2 && f[1] == 0x20:
		return clBytes, true
	case len(f) == 9 && f[1] == 0x70:
		crc := CRCA(f[:7])
		if f[7] != crc[0] || f[8] != crc[1] || !bytes.Equal(f[2:7], clBytes) {
			return nil, false
		}
		sak := tag.SAK
		if level < tag.cascadeLevels()-1 {
			sak = 0x04
			tag.level++
		} else {
			tag.State = TagActive
		}
		sakCRC := CRCA([]byte{sak})
		return []byte{sak, sakCRC[0], sakCRC[1]}, true
	}
	return nil, false
}

func selLevel(cmd byte) int {
	switch cmd {
	case 0x93:
		return 0
	case 0x95:
		return 1
	case 0x97:
		return 2
	default:
		return -1
	}
}

// CRCA computes the ISO 14443-3 type A CRC, low byte first
func CRCA(data []byte) [2]byte {
	crc := uint16(0x6363)
	for _, b := range data {
		b ^= byte(crc)
		b ^= b << 4
		crc = crc>>8 ^ uint16(b)<<8 ^ uint16(b)<<3 ^ uint16(b)>>4
	}
	return [2]byte{byte(crc), byte(crc >> 8)}
}
