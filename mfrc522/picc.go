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
)

// IsNewCardPresent sends REQA and reports whether an idle card answered.
// Halted cards stay silent, so a card read and halted is not reported again
// until it leaves the field. A collision means several cards answered, which
// still counts as present.
func (d *Device) IsNewCardPresent(ctx context.Context) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Cards are always activated at 106 kBd.
	for _, reg := range []byte{TxModeReg, RxModeReg} {
		if err := d.writeRegister(reg, 0x00); err != nil {
			return false, err
		}
	}
	if err := d.writeRegister(ModWidthReg, 0x26); err != nil {
		return false, err
	}

	_, err := d.request(ctx, PICCReqA)
	switch {
	case err == nil, errors.Is(err, ErrCollision):
		return true, nil
	case errors.Is(err, ErrTimeout):
		return false, nil
	default:
		return false, err
	}
}

// WakeupCard sends WUPA, which also wakes halted cards, and returns the ATQA
func (d *Device) WakeupCard(ctx context.Context) ([2]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.request(ctx, PICCWupA)
}

// ReadCardSerial runs anticollision and select over every cascade level and
// returns the UID of the card answering the last REQA. UIDs are 4, 7 or 10
// bytes. Several cards in the field at once yield ErrCollision.
func (d *Device) ReadCardSerial(ctx context.Context) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	uid, sak, err := d.selectCard(ctx)
	if err != nil {
		return nil, err
	}
	d.lastSAK = sak
	return append([]byte(nil), uid...), nil
}

// LastSAK returns the SAK of the most recently selected card
func (d *Device) LastSAK() byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastSAK
}

// HaltA puts the selected card into the HALT state. A card acknowledges HLTA
// by staying silent, so a timeout is success.
func (d *Device) HaltA(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	cmd := []byte{PICCHaltA, 0x00}
	crc, err := d.calculateCRC(ctx, cmd)
	if err != nil {
		return err
	}
	cmd = append(cmd, crc[0], crc[1])

	_, err = d.transceive(ctx, frame{data: cmd}, 0)
	switch {
	case errors.Is(err, ErrTimeout):
		return nil
	case err == nil:
		return ErrNAK
	case errors.Is(err, ErrBufferTooSmall):
		return ErrNAK
	default:
		return err
	}
}

// StopCrypto1 clears MFCrypto1On so the next card is talked to in plain text
func (d *Device) StopCrypto1() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clearBits(Status2Reg, status2Crypto1)
}

// CardType names the card family from its SAK (NXP AN10833)
func CardType(sak byte) string {
	switch sak & 0x7F {
	case 0x00:
		return "MIFARE Ultralight or NTAG"
	case 0x01:
		return "MIFARE Classic 1K (TNP3XXX)"
	case 0x04:
		return "UID not complete"
	case 0x08:
		return "MIFARE Classic 1K"
	case 0x09:
		return "MIFARE Mini"
	case 0x10, 0x11:
		return "MIFARE Plus"
	case 0x18:
		return "MIFARE Classic 4K"
	case 0x20:
		return "ISO/IEC 14443-4"
	case 0x40:
		return "ISO/IEC 18092 (NFC)"
	default:
		return "unknown"
	}
}

// request sends a 7-bit short frame (REQA or WUPA) and returns the ATQA
func (d *Device) request(ctx context.Context, cmd byte) ([2]byte, error) {
	var atqa [2]byte
	// Bits received after a collision are cleared.
	if err := d.clearBits(CollReg, collValuesAfter); err != nil {
		return atqa, err
	}
	resp, err := d.transceive(ctx, frame{data: []byte{cmd}, validBits: 7}, 2)
	if err != nil {
		return atqa, err
	}
	if len(resp.data) != 2 || resp.validBits != 0 {
		return atqa, fmt.Errorf("%w: ATQA of %d bytes", ErrProtocol, len(resp.data))
	}
	copy(atqa[:], resp.data)
	return atqa, nil
}

var cascadeLevels = [...]byte{PICCSelCL1, PICCSelCL2, PICCSelCL3}

func (d *Device) selectCard(ctx context.Context) ([]byte, byte, error) {
	if err := d.clearBits(CollReg, collValuesAfter); err != nil {
		return nil, 0, err
	}

	uid := make([]byte, 0, 10)
	for level, sel := range cascadeLevels {
		// ANTICOLLISION with no known bits: every card answers its four
		// UID bytes for this level plus BCC.
		resp, err := d.transceive(ctx, frame{data: []byte{sel, nvbAnticollision}}, 5)
		if err != nil {
			return nil, 0, fmt.Errorf("anticollision at cascade level %d: %w", level+1, err)
		}
		if len(resp.data) != 5 {
			return nil, 0, fmt.Errorf("%w: %d byte UID CLn at cascade level %d", ErrProtocol, len(resp.data), level+1)
		}
		chunk := resp.data[:4]
		if bcc := chunk[0] ^ chunk[1] ^ chunk[2] ^ chunk[3]; bcc != resp.data[4] {
			return nil, 0, fmt.Errorf("%w: BCC 0x%02X, expected 0x%02X", ErrProtocol, resp.data[4], bcc)
		}

		cmd := make([]byte, 0, 9)
		cmd = append(cmd, sel, nvbSelect)
		cmd = append(cmd, resp.data...)
		crc, err := d.calculateCRC(ctx, cmd)
		if err != nil {
			return nil, 0, err
		}
		cmd = append(cmd, crc[0], crc[1])

		sakResp, err := d.transceive(ctx, frame{data: cmd, checkCRC: true}, 3)
		if err != nil {
			return nil, 0, fmt.Errorf("select at cascade level %d: %w", level+1, err)
		}
		if len(sakResp.data) != 1 {
			return nil, 0, fmt.Errorf("%w: %d byte SAK", ErrProtocol, len(sakResp.data))
		}
		sak := sakResp.data[0]

		if sak&sakCascade == 0 {
			return append(uid, chunk...), sak, nil
		}
		// Cascade tag first, three UID bytes follow.
		if chunk[0] != PICCCT {
			return nil, 0, fmt.Errorf("%w: cascade bit set without cascade tag", ErrProtocol)
		}
		uid = append(uid, chunk[1:]...)
	}
	return nil, 0, fmt.Errorf("%w: UID longer than three cascade levels", ErrProtocol)
}
