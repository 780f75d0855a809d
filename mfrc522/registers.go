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

// PCD registers (datasheet section 9).
const (
	CommandReg    byte = 0x01
	ComIEnReg     byte = 0x02
	DivIEnReg     byte = 0x03
	ComIrqReg     byte = 0x04
	DivIrqReg     byte = 0x05
	ErrorReg      byte = 0x06
	Status1Reg    byte = 0x07
	Status2Reg    byte = 0x08
	FIFODataReg   byte = 0x09
	FIFOLevelReg  byte = 0x0A
	WaterLevelReg byte = 0x0B
	ControlReg    byte = 0x0C
	BitFramingReg byte = 0x0D
	CollReg       byte = 0x0E

	ModeReg       byte = 0x11
	TxModeReg     byte = 0x12
	RxModeReg     byte = 0x13
	TxControlReg  byte = 0x14
	TxASKReg      byte = 0x15
	CRCResultRegH byte = 0x21
	CRCResultRegL byte = 0x22
	ModWidthReg   byte = 0x24
	RFCfgReg      byte = 0x26
	TModeReg      byte = 0x2A
	TPrescalerReg byte = 0x2B
	TReloadRegH   byte = 0x2C
	TReloadRegL   byte = 0x2D

	VersionReg byte = 0x37
)

// PCD commands written to CommandReg.
const (
	CmdIdle       byte = 0x00
	CmdMem        byte = 0x01
	CmdCalcCRC    byte = 0x03
	CmdTransmit   byte = 0x04
	CmdReceive    byte = 0x08
	CmdTransceive byte = 0x0C
	CmdMFAuthent  byte = 0x0E
	CmdSoftReset  byte = 0x0F
)

// Register bits.
const (
	commandPowerDown byte = 0x10

	irqTimer byte = 0x01
	irqErr   byte = 0x02
	irqIdle  byte = 0x10
	irqRx    byte = 0x20

	divIrqCRC byte = 0x04

	errProtocol  byte = 0x01
	errParity    byte = 0x02
	errCRC       byte = 0x04
	errColl      byte = 0x08
	errBufferOvf byte = 0x10

	fifoFlush       byte = 0x80
	bitFramingSend  byte = 0x80
	collValuesAfter byte = 0x80
	status2Crypto1  byte = 0x08
	txControlAnt    byte = 0x03
	rfCfgGainMask   byte = 0x70
)

// PICC commands (ISO/IEC 14443-3).
const (
	PICCReqA   byte = 0x26
	PICCWupA   byte = 0x52
	PICCCT     byte = 0x88
	PICCSelCL1 byte = 0x93
	PICCSelCL2 byte = 0x95
	PICCSelCL3 byte = 0x97
	PICCHaltA  byte = 0x50

	nvbAnticollision byte = 0x20
	nvbSelect        byte = 0x70
	sakCascade       byte = 0x04
)

// Receiver gain values for RFCfgReg bits 4..6.
const (
	Gain18dB byte = 0x00
	Gain23dB byte = 0x10
	Gain33dB byte = 0x40
	Gain38dB byte = 0x50
	Gain43dB byte = 0x60
	Gain48dB byte = 0x70
)

// Known VersionReg values.
const (
	VersionFM17522 byte = 0x88
	VersionV0      byte = 0x90
	VersionV1      byte = 0x91
	VersionV2      byte = 0x92
	VersionClone   byte = 0x12
)

var gainsByDB = map[int]byte{
	18: Gain18dB,
	23: Gain23dB,
	33: Gain33dB,
	38: Gain38dB,
	43: Gain43dB,
	48: Gain48dB,
}

// GainForDB returns the RFCfgReg gain value for a receiver gain in dB.
// Valid values are 18, 23, 33, 38, 43 and 48.
func GainForDB(db int) (byte, bool) {
	g, ok := gainsByDB[db]
	return g, ok
}
