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

// Package polling runs the scan loop: poll the reader, suppress repeat
// reads, forward accepted scans and return the card to HALT.
package polling

import (
	"context"
	"errors"
	"time"

	"github.com/ZaparooProject/go-meshscan"
)

// Reader is the card reader driver. *mfrc522.Device implements it.
type Reader interface {
	IsNewCardPresent(ctx context.Context) (bool, error)
	ReadCardSerial(ctx context.Context) ([]byte, error)
	HaltA(ctx context.Context) error
	StopCrypto1() error
}

// Sender forwards one status line. *uart.Link implements it.
type Sender interface {
	Send(msg string) error
}

// Indicator gives local feedback for an accepted scan
type Indicator interface {
	Blink(ctx context.Context) error
}

// Config holds scan loop settings
type Config struct {
	Policy       Policy
	ScannerID    string
	PollInterval time.Duration
}

// Scanner-specific errors
var (
	ErrUnknownPolicy = errors.New("unknown scan policy")
	ErrNilReader     = errors.New("reader cannot be nil")
	ErrNilSender     = errors.New("sender cannot be nil")
)

// DefaultConfig returns scanner id RFID01, a 50ms poll interval and a 2s
// debounce window
func DefaultConfig() *Config {
	return &Config{
		ScannerID:    "RFID01",
		PollInterval: 50 * time.Millisecond,
		Policy:       Debounce{Window: DefaultDebounceWindow},
	}
}

// Scanner owns the last-seen state and drives one reader. OnAccepted, if
// set, is called after an accepted scan was handed to the sender.
type Scanner struct {
	reader     Reader
	sender     Sender
	indicator  Indicator
	clock      meshscan.Clock
	config     *Config
	OnAccepted func(ScanEvent, meshscan.StatusMessage)
	metrics    counters
	last       LastSeen
}

// Option configures a Scanner
type Option func(*Scanner)

// WithIndicator blinks ind for every accepted scan
func WithIndicator(ind Indicator) Option {
	return func(s *Scanner) {
		if ind != nil {
			s.indicator = ind
		}
	}
}

// WithClock replaces the boot clock used for timestamps
func WithClock(c meshscan.Clock) Option {
	return func(s *Scanner) {
		if c != nil {
			s.clock = c
		}
	}
}

// NewScanner creates a scanner. A nil config uses DefaultConfig.
func NewScanner(reader Reader, sender Sender, config *Config, opts ...Option) (*Scanner, error) {
	if reader == nil {
		return nil, ErrNilReader
	}
	if sender == nil {
		return nil, ErrNilSender
	}
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	config = &cfg
	if err := meshscan.ValidateScannerID(config.ScannerID); err != nil {
		return nil, err
	}
	if config.Policy == nil {
		config.Policy = Debounce{Window: DefaultDebounceWindow}
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig().PollInterval
	}

	s := &Scanner{
		reader: reader,
		sender: sender,
		config: config,
		clock:  meshscan.NewBootClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run polls until ctx is done and returns ctx.Err()
func (s *Scanner) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		s.PollOnce(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// PollOnce runs one iteration of the loop. It returns the card read, or
// nil if no card was read, and whether the scan was accepted.
func (s *Scanner) PollOnce(ctx context.Context) (*ScanEvent, bool) {
	s.metrics.pollCycles.Add(1)

	present, err := s.reader.IsNewCardPresent(ctx)
	if err != nil {
		s.metrics.readErrors.Add(1)
		meshscan.Debugf("card presence check failed: %v", err)
		return nil, false
	}
	if !present {
		return nil, false
	}
	s.metrics.cardsDetected.Add(1)
	// The card answered, so it is halted whatever happens next.
	defer s.finalize(ctx)

	uid, err := s.reader.ReadCardSerial(ctx)
	if err != nil {
		s.metrics.readErrors.Add(1)
		meshscan.Debugf("reading card serial failed: %v", err)
		return nil, false
	}

	event := &ScanEvent{
		UID:       uid,
		UIDHex:    meshscan.FormatUID(uid),
		Timestamp: s.clock.Millis(),
	}

	if !s.config.Policy.Accept(s.last, event.UIDHex, event.Timestamp) {
		s.metrics.suppressed.Add(1)
		meshscan.Debugf("suppressed repeat scan of %s (%s policy)", event.UIDHex, s.config.Policy.Name())
		return event, false
	}

	msg := meshscan.NewStatusMessage(s.config.ScannerID, uid, event.Timestamp)
	if err := s.sender.Send(msg.String()); err != nil {
		s.metrics.sendErrors.Add(1)
		meshscan.Debugf("sending scan of %s failed: %v", event.UIDHex, err)
	}
	s.metrics.accepted.Add(1)

	if s.indicator != nil {
		if err := s.indicator.Blink(ctx); err != nil {
			meshscan.Debugf("indicator blink failed: %v", err)
		}
	}

	s.last = LastSeen{UID: event.UIDHex, At: event.Timestamp, Valid: true}

	if s.OnAccepted != nil {
		s.OnAccepted(*event, msg)
	}
	return event, true
}

// LastSeen returns the last accepted scan
func (s *Scanner) LastSeen() LastSeen {
	return s.last
}

// Policy returns the acceptance policy in use
func (s *Scanner) Policy() Policy {
	return s.config.Policy
}

// finalizeTimeout bounds the halt when the loop context is already done
const finalizeTimeout = 250 * time.Millisecond

// finalize halts the card even if ctx was cancelled during the iteration
func (s *Scanner) finalize(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalizeTimeout)
	defer cancel()

	if err := s.reader.HaltA(ctx); err != nil {
		meshscan.Debugf("halting card failed: %v", err)
	}
	if err := s.reader.StopCrypto1(); err != nil {
		meshscan.Debugf("stopping crypto session failed: %v", err)
	}
}
