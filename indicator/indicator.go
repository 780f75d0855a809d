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

// Package indicator blinks an LED when a scan is accepted.
package indicator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/ZaparooProject/go-meshscan/internal/poll"
)

// ErrPinNotFound is returned when the LED pin name is unknown to periph
var ErrPinNotFound = errors.New("gpio pin not found")

// Pin is the output the LED hangs off. periph's gpio.PinOut implements it.
type Pin interface {
	Out(l gpio.Level) error
}

// Pattern describes a blink sequence
type Pattern struct {
	Count int
	On    time.Duration
	Off   time.Duration
}

// DefaultPattern returns three blinks of 100ms on, 100ms off
func DefaultPattern() Pattern {
	return Pattern{Count: 3, On: 100 * time.Millisecond, Off: 100 * time.Millisecond}
}

// Duration returns how long a full blink takes
func (p Pattern) Duration() time.Duration {
	return time.Duration(p.Count) * (p.On + p.Off)
}

// LED blinks a pin
type LED struct {
	pin     Pin
	sleep   func(ctx context.Context, d time.Duration) error
	pattern Pattern
}

// NewLED creates an LED on pin. A zero pattern count uses DefaultPattern.
func NewLED(pin Pin, pattern Pattern) *LED {
	if pattern.Count <= 0 {
		pattern = DefaultPattern()
	}
	return &LED{pin: pin, pattern: pattern, sleep: poll.Sleep}
}

// Open initializes periph and looks up pinName, e.g. "GPIO17". The pin is
// driven low.
func Open(pinName string, pattern Pattern) (*LED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("%w: %s", ErrPinNotFound, pinName)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("failed to drive %s low: %w", pinName, err)
	}
	return NewLED(pin, pattern), nil
}

// Pattern returns the blink sequence
func (l *LED) Pattern() Pattern {
	return l.pattern
}

// Blink runs the pattern and blocks until it completes. If ctx is cancelled
// the LED is switched off and ctx.Err() is returned.
func (l *LED) Blink(ctx context.Context) error {
	for i := 0; i < l.pattern.Count; i++ {
		if err := l.pin.Out(gpio.High); err != nil {
			return fmt.Errorf("failed to switch LED on: %w", err)
		}
		if err := l.sleep(ctx, l.pattern.On); err != nil {
			_ = l.pin.Out(gpio.Low)
			return err
		}
		if err := l.pin.Out(gpio.Low); err != nil {
			return fmt.Errorf("failed to switch LED off: %w", err)
		}
		if err := l.sleep(ctx, l.pattern.Off); err != nil {
			return err
		}
	}
	return nil
}

// Noop is used when no LED is configured
type Noop struct{}

// Blink does nothing
func (Noop) Blink(context.Context) error { return nil }
