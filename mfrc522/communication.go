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

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-meshscan/internal/poll"
)

// crcTimeout is the worst case the coprocessor needs for a full FIFO
const crcTimeout = 89 * time.Millisecond

// SPI address byte: bit 7 selects read, bits 6..1 carry the register.
func readAddr(reg byte) byte  { return 0x80 | reg<<1 }
func writeAddr(reg byte) byte { return reg << 1 & 0x7E }

func (d *Device) readRegister(reg byte) (byte, error) {
	r := make([]byte, 2)
	if err := d.bus.Tx([]byte{readAddr(reg), 0x00}, r); err != nil {
		return 0, fmt.Errorf("failed to read register 0x%02X: %w", reg, err)
	}
	return r[1], nil
}

// readFIFO reads n bytes from FIFODataReg in one burst
func (d *Device) readFIFO(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	w := make([]byte, n+1)
	for i := 0; i < n; i++ {
		w[i] = readAddr(FIFODataReg)
	}
	r := make([]byte, n+1)
	if err := d.bus.Tx(w, r); err != nil {
		return nil, fmt.Errorf("failed to read FIFO: %w", err)
	}
	return r[1:], nil
}

func (d *Device) writeRegister(reg byte, values ...byte) error {
	w := make([]byte, 0, len(values)+1)
	w = append(w, writeAddr(reg))
	w = append(w, values...)
	if err := d.bus.Tx(w, make([]byte, len(w))); err != nil {
		return fmt.Errorf("failed to write register 0x%02X: %w", reg, err)
	}
	return nil
}

// waitRegister polls reg until done accepts its value
func (d *Device) waitRegister(
	ctx context.Context, reg byte, timeout, delay time.Duration, done func(byte) bool,
) (byte, error) {
	return poll.Until(ctx, timeout, delay, func() (byte, bool, error) {
		v, err := d.readRegister(reg)
		if err != nil {
			return 0, false, err
		}
		return v, done(v), nil
	})
}

func (d *Device) setBits(reg, mask byte) error {
	v, err := d.readRegister(reg)
	if err != nil {
		return err
	}
	return d.writeRegister(reg, v|mask)
}

func (d *Device) clearBits(reg, mask byte) error {
	v, err := d.readRegister(reg)
	if err != nil {
		return err
	}
	return d.writeRegister(reg, v&^mask)
}

// calculateCRC runs the chip's CRC coprocessor over data and returns CRC_A
// low byte first, the order it goes on the air.
func (d *Device) calculateCRC(ctx context.Context, data []byte) ([2]byte, error) {
	var crc [2]byte
	if err := d.writeRegister(CommandReg, CmdIdle); err != nil {
		return crc, err
	}
	if err := d.writeRegister(DivIrqReg, divIrqCRC); err != nil {
		return crc, err
	}
	if err := d.writeRegister(FIFOLevelReg, fifoFlush); err != nil {
		return crc, err
	}
	if err := d.writeRegister(FIFODataReg, data...); err != nil {
		return crc, err
	}
	if err := d.writeRegister(CommandReg, CmdCalcCRC); err != nil {
		return crc, err
	}

	_, err := d.waitRegister(ctx, DivIrqReg, crcTimeout, 0, func(v byte) bool {
		return v&divIrqCRC != 0
	})
	if errors.Is(err, poll.ErrTimeout) {
		return crc, fmt.Errorf("%w: CRC coprocessor timed out", ErrTimeout)
	}
	if err != nil {
		return crc, err
	}

	if err := d.writeRegister(CommandReg, CmdIdle); err != nil {
		return crc, err
	}
	lo, err := d.readRegister(CRCResultRegL)
	if err != nil {
		return crc, err
	}
	hi, err := d.readRegister(CRCResultRegH)
	if err != nil {
		return crc, err
	}
	crc[0], crc[1] = lo, hi
	return crc, nil
}

// frame is one exchange with a card.
type frame struct {
	data []byte
	// validBits is the number of bits sent from the last byte, 0 for all 8.
	validBits byte
	// checkCRC verifies and strips a trailing CRC_A from the answer.
	checkCRC bool
}

// response is what the card sent back.
type response struct {
	data []byte
	// validBits is the number of valid bits in the last received byte, 0 for all 8.
	validBits byte
}

// transceive sends a frame from the FIFO and waits for the answer. A card
// that stays silent yields ErrTimeout.
func (d *Device) transceive(ctx context.Context, f frame, maxLen int) (response, error) {
	var resp response

	steps := []struct {
		reg byte
		val []byte
	}{
		{CommandReg, []byte{CmdIdle}},
		// Clear all IRQ bits.
		{ComIrqReg, []byte{0x7F}},
		{FIFOLevelReg, []byte{fifoFlush}},
		{FIFODataReg, f.data},
		{BitFramingReg, []byte{f.validBits & 0x07}},
		{CommandReg, []byte{CmdTransceive}},
	}
	for _, s := range steps {
		if err := d.writeRegister(s.reg, s.val...); err != nil {
			return resp, err
		}
	}
	if err := d.setBits(BitFramingReg, bitFramingSend); err != nil {
		return resp, err
	}

	irq, err := d.waitRegister(ctx, ComIrqReg, d.config.Timeout, 0, func(v byte) bool {
		return v&(irqRx|irqIdle|irqTimer) != 0
	})
	if errors.Is(err, poll.ErrTimeout) || (err == nil && irq&(irqRx|irqIdle) == 0) {
		return resp, ErrTimeout
	}
	if err != nil {
		return resp, err
	}
	if err := d.clearBits(BitFramingReg, bitFramingSend); err != nil {
		return resp, err
	}

	errReg, err := d.readRegister(ErrorReg)
	if err != nil {
		return resp, err
	}
	if errReg&(errBufferOvf|errParity|errProtocol) != 0 {
		return resp, fmt.Errorf("%w: ErrorReg 0x%02X", ErrProtocol, errReg)
	}

	n, err := d.readRegister(FIFOLevelReg)
	if err != nil {
		return resp, err
	}
	if int(n&0x7F) > maxLen {
		return resp, fmt.Errorf("%w: card sent %d bytes, expected at most %d", ErrBufferTooSmall, n&0x7F, maxLen)
	}
	resp.data, err = d.readFIFO(int(n & 0x7F))
	if err != nil {
		return resp, err
	}
	ctrl, err := d.readRegister(ControlReg)
	if err != nil {
		return resp, err
	}
	resp.validBits = ctrl & 0x07

	if errReg&errColl != 0 {
		return resp, ErrCollision
	}

	if f.checkCRC {
		if len(resp.data) < 3 || resp.validBits != 0 {
			return resp, fmt.Errorf("%w: %d byte answer", ErrCRCMismatch, len(resp.data))
		}
		body := resp.data[:len(resp.data)-2]
		crc, err := d.calculateCRC(ctx, body)
		if err != nil {
			return resp, err
		}
		if crc[0] != resp.data[len(resp.data)-2] || crc[1] != resp.data[len(resp.data)-1] {
			return resp, ErrCRCMismatch
		}
		resp.data = body
	}
	return resp, nil
}
