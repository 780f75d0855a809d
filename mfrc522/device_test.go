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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"

	testutil "github.com/ZaparooProject/go-meshscan/internal/testing"
)

func newTestDevice(t *testing.T, opts ...Option) (*Device, *testutil.VirtualChip) {
	t.Helper()
	chip := testutil.NewVirtualChip()
	dev := New(chip, opts...)
	require.NoError(t, dev.Init(context.Background()))
	return dev, chip
}

type recordingPin struct {
	levels []gpio.Level
	err    error
}

func (p *recordingPin) Out(l gpio.Level) error {
	if p.err != nil {
		return p.err
	}
	p.levels = append(p.levels, l)
	return nil
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	dev := New(testutil.NewVirtualChip())
	assert.Equal(t, DefaultConfig(), dev.config)
	assert.Nil(t, dev.resetPin)
}

func TestNew_Options(t *testing.T) {
	t.Parallel()

	pin := &recordingPin{}
	dev := New(testutil.NewVirtualChip(),
		WithTimeout(100*time.Millisecond),
		WithAntennaGain(Gain48dB),
		WithResetPin(pin),
		WithResetPin(nil),
	)
	assert.Equal(t, 100*time.Millisecond, dev.config.Timeout)
	assert.Equal(t, Gain48dB, dev.config.AntennaGain)
	assert.Same(t, pin, dev.resetPin)

	// non-positive timeouts keep the default
	dev = New(testutil.NewVirtualChip(), WithTimeout(0))
	assert.Equal(t, DefaultConfig().Timeout, dev.config.Timeout)
}

func TestInit_ConfiguresChip(t *testing.T) {
	t.Parallel()

	_, chip := newTestDevice(t)

	assert.Equal(t, byte(0x80), chip.Register(TModeReg))
	assert.Equal(t, byte(0xA9), chip.Register(TPrescalerReg))
	assert.Equal(t, byte(0x03), chip.Register(TReloadRegH))
	assert.Equal(t, byte(0xE8), chip.Register(TReloadRegL))
	assert.Equal(t, byte(0x40), chip.Register(TxASKReg))
	assert.Equal(t, byte(0x3D), chip.Register(ModeReg))
	assert.Equal(t, txControlAnt, chip.Register(TxControlReg)&txControlAnt, "antenna should be on")
	assert.Equal(t, Gain33dB, chip.Register(RFCfgReg)&rfCfgGainMask)
}

func TestInit_AntennaGain(t *testing.T) {
	t.Parallel()

	_, chip := newTestDevice(t, WithAntennaGain(Gain48dB))
	assert.Equal(t, Gain48dB, chip.Register(RFCfgReg)&rfCfgGainMask)
	// bits outside the gain field are preserved
	assert.Equal(t, byte(0x08), chip.Register(RFCfgReg)&^rfCfgGainMask)
}

func TestInit_HardReset(t *testing.T) {
	t.Parallel()

	pin := &recordingPin{}
	_, _ = newTestDevice(t, WithResetPin(pin))
	assert.Equal(t, []gpio.Level{gpio.Low, gpio.High}, pin.levels)
}

func TestInit_ResetPinError(t *testing.T) {
	t.Parallel()

	pin := &recordingPin{err: errors.New("gpio busy")}
	dev := New(testutil.NewVirtualChip(), WithResetPin(pin))
	err := dev.Init(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gpio busy")
}

func TestInit_NoChip(t *testing.T) {
	t.Parallel()

	for _, version := range []byte{0x00, 0xFF} {
		chip := testutil.NewVirtualChip()
		chip.SetVersion(version)
		err := New(chip).Init(context.Background())
		require.ErrorIs(t, err, ErrNoChip)
	}
}

func TestInit_BusError(t *testing.T) {
	t.Parallel()

	chip := testutil.NewVirtualChip()
	require.NoError(t, chip.Close())
	err := New(chip).Init(context.Background())
	require.ErrorIs(t, err, testutil.ErrBusClosed)
}

func TestInit_CancelledDuringHardReset(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New(testutil.NewVirtualChip(), WithResetPin(&recordingPin{})).Init(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestVersion(t *testing.T) {
	t.Parallel()

	dev, chip := newTestDevice(t)
	v, err := dev.Version()
	require.NoError(t, err)
	assert.Equal(t, VersionV2, v)
	assert.Equal(t, "v2.0", VersionName(v))

	chip.SetVersion(VersionFM17522)
	v, err = dev.Version()
	require.NoError(t, err)
	assert.Equal(t, "FM17522 clone", VersionName(v))
	assert.Equal(t, "unknown", VersionName(0x42))
}

func TestAntennaOnOff(t *testing.T) {
	t.Parallel()

	dev, chip := newTestDevice(t)
	require.NoError(t, dev.AntennaOff())
	assert.Equal(t, byte(0), chip.Register(TxControlReg)&txControlAnt)
	require.NoError(t, dev.AntennaOn())
	assert.Equal(t, txControlAnt, chip.Register(TxControlReg)&txControlAnt)
}

func TestSoftReset(t *testing.T) {
	t.Parallel()

	dev, chip := newTestDevice(t)
	require.NoError(t, dev.SoftReset(context.Background()))
	// registers return to their reset values
	assert.Equal(t, byte(0), chip.Register(TModeReg))
	assert.Equal(t, byte(0), chip.Register(CommandReg)&commandPowerDown)
}

func TestSoftReset_StuckInPowerDown(t *testing.T) {
	t.Parallel()

	chip := testutil.NewVirtualChip()
	dev := New(chip)
	// Soft reset clears the register; force it back on every read by
	// pretending the bus is stuck high.
	stuck := &stuckBus{Bus: chip, reg: CommandReg, value: 0x30}
	dev.bus = stuck
	err := dev.SoftReset(context.Background())
	require.ErrorIs(t, err, ErrNoChip)
}

// stuckBus reports a fixed value for one register
type stuckBus struct {
	Bus
	reg   byte
	value byte
}

func (b *stuckBus) Tx(w, r []byte) error {
	if err := b.Bus.Tx(w, r); err != nil {
		return err
	}
	if len(w) == 2 && w[0] == readAddr(b.reg) {
		r[1] = b.value
	}
	return nil
}

func TestRegisterAddressing(t *testing.T) {
	t.Parallel()

	assert.Equal(t, byte(0x82), readAddr(CommandReg))
	assert.Equal(t, byte(0x02), writeAddr(CommandReg))
	assert.Equal(t, byte(0x92), readAddr(FIFODataReg))
	assert.Equal(t, byte(0x12), writeAddr(FIFODataReg))
	assert.Equal(t, byte(0xEE), readAddr(VersionReg))
}

func TestGainForDB(t *testing.T) {
	t.Parallel()

	gain, ok := GainForDB(48)
	require.True(t, ok)
	assert.Equal(t, Gain48dB, gain)

	gain, ok = GainForDB(33)
	require.True(t, ok)
	assert.Equal(t, DefaultConfig().AntennaGain, gain)

	_, ok = GainForDB(30)
	assert.False(t, ok)
}
